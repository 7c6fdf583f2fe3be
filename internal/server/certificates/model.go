package certificates

import (
	"database/sql"
	"time"
)

// Ledger status values for a certificate row. Transitions only move
// forward: '' -> pending -> submitted -> confirmed or failed.
const (
	LedgerStatusNone      = ""
	LedgerStatusPending   = "pending"
	LedgerStatusSubmitted = "submitted"
	LedgerStatusConfirmed = "confirmed"
	LedgerStatusFailed    = "failed"
)

type Certificate struct {
	CertificateID string
	StudentID     string
	InstituteID   string
	StudentName   string
	CourseName    string
	Grade         string
	IssuedDate    string
	LedgerTxHash  string
	LedgerStatus  string
	LedgerAt      sql.NullTime
	CreatedAt     time.Time
}

// Details is a certificate joined with the issuing institute's public
// profile, as served by the verification endpoint.
type Details struct {
	Certificate
	InstituteName   string
	InstituteWallet string
}
