// Package ledger talks to the certificate contract on an EVM-compatible
// chain: deterministic hash construction, signer recovery, read queries and
// relayer-signed writes. Everything above this package treats the chain as
// an opaque service behind the Reader and Writer interfaces.
package ledger

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Certificate is the contract's record of an issued certificate.
type Certificate struct {
	CertificateID string
	StudentName   string
	CourseName    string
	IssueDate     string
	IssuerName    string
	Issuer        common.Address
}

// Receipt is the normalized result of a mined transaction. All fields are
// passed through from the chain, never synthesized locally.
type Receipt struct {
	TxHash      string
	BlockNumber uint64
	GasUsed     uint64
	Status      uint64
}

// ReceiptStatusSuccess mirrors the chain's successful-execution status code.
const ReceiptStatusSuccess uint64 = 1

// BulkAuthorization is one wallet signature covering up to CertificateCount
// submissions, valid until Expiry (unix seconds). Hash must always be
// re-derived server-side from the tuple fields before it is trusted.
type BulkAuthorization struct {
	Signer           common.Address
	BatchID          uint64
	CertificateCount uint64
	Expiry           uint64
	Hash             common.Hash
	Signature        []byte
}

// SingleSubmission is the input for addCertificateWithSignature.
type SingleSubmission struct {
	Payload   SigningPayload
	Hash      common.Hash
	Signature []byte
}

// BulkSubmission is the input for addCertificateWithAuth: per-certificate
// fields plus the shared batch authorization.
type BulkSubmission struct {
	Payload SigningPayload
	Auth    BulkAuthorization
}

// Reader exposes the contract's view functions.
type Reader interface {
	// IsIssuer reports whether the contract recognizes addr as an issuer.
	IsIssuer(ctx context.Context, addr common.Address) (bool, error)
	// PrepaidBalance returns addr's prepaid gas balance in wei.
	PrepaidBalance(ctx context.Context, addr common.Address) (*big.Int, error)
	// CertificateGasCost returns the configured gas limit times gas price
	// for one certificate, in wei.
	CertificateGasCost(ctx context.Context) (*big.Int, error)
	// Certificate fetches the chain record for certID, or (nil, nil) when
	// the contract has no such certificate.
	Certificate(ctx context.Context, certID string) (*Certificate, error)
	// BulkAuthUses returns how many submissions have consumed the given
	// bulk authorization hash.
	BulkAuthUses(ctx context.Context, hash common.Hash) (uint64, error)
}

// Writer submits certificate transactions through the relayer account.
// Simulate methods execute the call without committing so revert reasons
// surface before fees are spent.
type Writer interface {
	SimulateAddWithSignature(ctx context.Context, sub SingleSubmission) error
	AddWithSignature(ctx context.Context, sub SingleSubmission) (*Receipt, error)
	SimulateAddWithAuth(ctx context.Context, sub BulkSubmission) error
	AddWithAuth(ctx context.Context, sub BulkSubmission) (*Receipt, error)
}
