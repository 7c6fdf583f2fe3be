package ledger

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// BulkAuthTag is the leading domain tag packed into every bulk authorization
// hash. Certificate hashes start with the certificate ID instead, so a
// signature over one kind of hash can never be replayed as the other.
const BulkAuthTag = "BULK_AUTH"

// SigningPayload carries the certificate fields a wallet signs over.
// It lives only for the duration of one request and is never persisted.
type SigningPayload struct {
	CertificateID string
	StudentName   string
	CourseName    string
	IssueDate     string
	IssuerName    string
	Signer        common.Address
}

// CertificateHash computes the digest the contract expects for a single
// certificate: keccak256 of the tightly packed payload strings, in field
// order, followed by the 20-byte signer address. The contract re-derives
// this hash during execution, so field order and encoding must never change.
func CertificateHash(p SigningPayload) common.Hash {
	return crypto.Keccak256Hash(
		[]byte(p.CertificateID),
		[]byte(p.StudentName),
		[]byte(p.CourseName),
		[]byte(p.IssueDate),
		[]byte(p.IssuerName),
		p.Signer.Bytes(),
	)
}

// BulkAuthHash computes the digest for a bulk authorization tuple:
// keccak256 of the BulkAuthTag, the 20-byte signer address and the batch ID,
// declared certificate count and expiry as 32-byte big-endian words.
func BulkAuthHash(signer common.Address, batchID, count, expiry uint64) common.Hash {
	return crypto.Keccak256Hash(
		[]byte(BulkAuthTag),
		signer.Bytes(),
		uint256Bytes(batchID),
		uint256Bytes(count),
		uint256Bytes(expiry),
	)
}

func uint256Bytes(v uint64) []byte {
	return common.LeftPadBytes(new(big.Int).SetUint64(v).Bytes(), 32)
}
