package ledger

import (
	"testing"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signPersonal(t *testing.T, hash common.Hash) ([]byte, common.Address) {
	t.Helper()

	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	sig, err := crypto.Sign(accounts.TextHash(hash[:]), key)
	require.NoError(t, err)

	// Wallets report v as 27/28.
	sig[64] += 27

	return sig, crypto.PubkeyToAddress(key.PublicKey)
}

func TestRecoverSigner_PersonalRoundTrip(t *testing.T) {
	t.Parallel()

	hash := CertificateHash(samplePayload())
	sig, addr := signPersonal(t, hash)

	recovered, err := RecoverSigner(hash, sig, SchemePersonal)
	require.NoError(t, err)
	assert.Equal(t, addr, recovered)
}

func TestRecoverSigner_AcceptsNormalizedV(t *testing.T) {
	t.Parallel()

	hash := CertificateHash(samplePayload())

	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	// v already in the 0/1 form, as some libraries emit it.
	sig, err := crypto.Sign(accounts.TextHash(hash[:]), key)
	require.NoError(t, err)

	recovered, err := RecoverSigner(hash, sig, SchemePersonal)
	require.NoError(t, err)
	assert.Equal(t, crypto.PubkeyToAddress(key.PublicKey), recovered)
}

func TestRecoverSigner_RawScheme(t *testing.T) {
	t.Parallel()

	hash := CertificateHash(samplePayload())

	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	sig, err := crypto.Sign(hash[:], key)
	require.NoError(t, err)

	recovered, err := RecoverSigner(hash, sig, SchemeRaw)
	require.NoError(t, err)
	assert.Equal(t, crypto.PubkeyToAddress(key.PublicKey), recovered)
}

func TestRecoverSigner_CorruptedSignature(t *testing.T) {
	t.Parallel()

	hash := CertificateHash(samplePayload())
	sig, addr := signPersonal(t, hash)

	corrupted := make([]byte, len(sig))
	copy(corrupted, sig)
	corrupted[10] ^= 0xff

	recovered, err := RecoverSigner(hash, corrupted, SchemePersonal)
	if err == nil {
		// A flipped byte may still recover a valid point, but never the
		// original signer.
		assert.NotEqual(t, addr, recovered)
	}
}

func TestRecoverSigner_WrongLength(t *testing.T) {
	t.Parallel()

	hash := CertificateHash(samplePayload())

	_, err := RecoverSigner(hash, make([]byte, 64), SchemePersonal)
	assert.ErrorIs(t, err, ErrInvalidSignature)

	_, err = RecoverSigner(hash, nil, SchemePersonal)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestRecoverSigner_InvalidRecoveryID(t *testing.T) {
	t.Parallel()

	hash := CertificateHash(samplePayload())
	sig, _ := signPersonal(t, hash)

	bad := make([]byte, len(sig))
	copy(bad, sig)
	bad[64] = 5

	_, err := RecoverSigner(hash, bad, SchemePersonal)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestRecoverSigner_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	hash := CertificateHash(samplePayload())
	sig, _ := signPersonal(t, hash)

	before := make([]byte, len(sig))
	copy(before, sig)

	_, err := RecoverSigner(hash, sig, SchemePersonal)
	require.NoError(t, err)
	assert.Equal(t, before, sig)
}
