package relay

import (
	"context"
	"crypto/ecdsa"
	"math/big"
	"testing"

	"github.com/dmitrijs2005/certledger/internal/logging"
	"github.com/dmitrijs2005/certledger/internal/server/ledger"
	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
)

func testLogger() logging.Logger {
	return logging.Discard()
}

// fakeReader is an in-memory stand-in for the contract's view functions.
type fakeReader struct {
	issuers      map[common.Address]bool
	balance      *big.Int
	gasCost      *big.Int
	certificates map[string]*ledger.Certificate
	bulkUses     map[common.Hash]uint64
}

func newFakeReader() *fakeReader {
	return &fakeReader{
		issuers:      map[common.Address]bool{},
		balance:      big.NewInt(1_000_000),
		gasCost:      big.NewInt(1_000),
		certificates: map[string]*ledger.Certificate{},
		bulkUses:     map[common.Hash]uint64{},
	}
}

func (r *fakeReader) IsIssuer(ctx context.Context, addr common.Address) (bool, error) {
	return r.issuers[addr], nil
}

func (r *fakeReader) PrepaidBalance(ctx context.Context, addr common.Address) (*big.Int, error) {
	return new(big.Int).Set(r.balance), nil
}

func (r *fakeReader) CertificateGasCost(ctx context.Context) (*big.Int, error) {
	return new(big.Int).Set(r.gasCost), nil
}

func (r *fakeReader) Certificate(ctx context.Context, certID string) (*ledger.Certificate, error) {
	return r.certificates[certID], nil
}

func (r *fakeReader) BulkAuthUses(ctx context.Context, hash common.Hash) (uint64, error) {
	return r.bulkUses[hash], nil
}

// fakeWriter records submissions and plays back configured outcomes.
type fakeWriter struct {
	simulateErr error
	submitErr   error
	receipt     *ledger.Receipt

	// failFor marks certificate IDs whose submission should fail.
	failFor map[string]error

	singles []ledger.SingleSubmission
	bulks   []ledger.BulkSubmission
}

func newFakeWriter() *fakeWriter {
	return &fakeWriter{
		receipt: &ledger.Receipt{
			TxHash:      "0xabc",
			BlockNumber: 10,
			GasUsed:     65000,
			Status:      ledger.ReceiptStatusSuccess,
		},
		failFor: map[string]error{},
	}
}

func (w *fakeWriter) SimulateAddWithSignature(ctx context.Context, sub ledger.SingleSubmission) error {
	return w.simulateErr
}

func (w *fakeWriter) AddWithSignature(ctx context.Context, sub ledger.SingleSubmission) (*ledger.Receipt, error) {
	if err := w.failFor[sub.Payload.CertificateID]; err != nil {
		return nil, err
	}
	if w.submitErr != nil {
		return nil, w.submitErr
	}
	w.singles = append(w.singles, sub)
	return w.receipt, nil
}

func (w *fakeWriter) SimulateAddWithAuth(ctx context.Context, sub ledger.BulkSubmission) error {
	return w.simulateErr
}

func (w *fakeWriter) AddWithAuth(ctx context.Context, sub ledger.BulkSubmission) (*ledger.Receipt, error) {
	if err := w.failFor[sub.Payload.CertificateID]; err != nil {
		return nil, err
	}
	if w.submitErr != nil {
		return nil, w.submitErr
	}
	w.bulks = append(w.bulks, sub)
	return w.receipt, nil
}

// wallet bundles a generated key with its address for signing in tests.
type wallet struct {
	key  *ecdsa.PrivateKey
	addr common.Address
}

func newWallet(t *testing.T) *wallet {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	return &wallet{key: key, addr: crypto.PubkeyToAddress(key.PublicKey)}
}

// signPersonal produces a wallet-style personal-message signature with v in
// the 27/28 form.
func (w *wallet) signPersonal(t *testing.T, hash common.Hash) []byte {
	t.Helper()
	sig, err := crypto.Sign(accounts.TextHash(hash[:]), w.key)
	require.NoError(t, err)
	sig[64] += 27
	return sig
}
