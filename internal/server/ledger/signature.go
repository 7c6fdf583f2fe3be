package ledger

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// ErrInvalidSignature is returned when a signature is structurally unusable
// (wrong length or recovery byte). Recovery never falls back to a guessed
// address.
var ErrInvalidSignature = errors.New("invalid signature")

// SigningScheme selects how the signed digest was derived from a hash.
//
// Wallets sign through the EIP-191 personal-message flow, which prefixes the
// hash before signing. The relayer signing for itself signs the raw digest.
// The two are not interchangeable: applying the wrong scheme recovers a
// wrong address instead of failing, so every call site states its scheme.
type SigningScheme int

const (
	// SchemePersonal applies the "\x19Ethereum Signed Message:\n32" prefix
	// before recovery. Used for signatures produced by end-user wallets.
	SchemePersonal SigningScheme = iota
	// SchemeRaw recovers over the digest as-is, for signatures produced
	// over hashes the signer built itself. The relayer's transactions go
	// through types.SignTx instead, so the guard path today only ever
	// passes SchemePersonal.
	SchemeRaw
)

const signatureLength = 65

// RecoverSigner returns the address whose key produced sig over hash under
// the given scheme. The 65-byte signature may carry its recovery byte as
// 0/1 or as the wallet convention 27/28.
func RecoverSigner(hash common.Hash, sig []byte, scheme SigningScheme) (common.Address, error) {
	if len(sig) != signatureLength {
		return common.Address{}, fmt.Errorf("%w: length %d, want %d", ErrInvalidSignature, len(sig), signatureLength)
	}

	// Normalize the recovery byte without mutating the caller's slice.
	norm := make([]byte, signatureLength)
	copy(norm, sig)
	if norm[64] >= 27 {
		norm[64] -= 27
	}
	if norm[64] > 1 {
		return common.Address{}, fmt.Errorf("%w: recovery byte %d", ErrInvalidSignature, sig[64])
	}

	digest := hash.Bytes()
	if scheme == SchemePersonal {
		digest = accounts.TextHash(digest)
	}

	pub, err := crypto.SigToPub(digest, norm)
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	return crypto.PubkeyToAddress(*pub), nil
}
