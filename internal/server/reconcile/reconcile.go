// Package reconcile compares a locally stored certificate against the
// chain's record and reports field-level agreement. It is pure: callers
// fetch both sides first.
package reconcile

import "github.com/dmitrijs2005/certledger/internal/server/ledger"

// Record is the local side of a comparison, already joined with the
// student's display name.
type Record struct {
	CertificateID string
	StudentName   string
	CourseName    string
}

// Mismatch names one disagreeing field.
type Mismatch struct {
	Field  string `json:"field"`
	Detail string `json:"detail"`
}

// Result is computed fresh per verification request and never persisted.
type Result struct {
	Match      bool       `json:"match"`
	Mismatches []Mismatch `json:"mismatches,omitempty"`
}

// Compare checks certificate ID, student name and course name for exact
// equality. Fields present on only one side are ignored. An absent chain
// record yields a single not-found mismatch, never a panic.
func Compare(local Record, onchain *ledger.Certificate) Result {
	if onchain == nil {
		return Result{
			Match:      false,
			Mismatches: []Mismatch{{Field: "certificate", Detail: "not found on ledger"}},
		}
	}

	var mismatches []Mismatch
	if local.CertificateID != onchain.CertificateID {
		mismatches = append(mismatches, Mismatch{Field: "certificate_id", Detail: "certificate ID mismatch"})
	}
	if local.StudentName != onchain.StudentName {
		mismatches = append(mismatches, Mismatch{Field: "student_name", Detail: "student name mismatch"})
	}
	if local.CourseName != onchain.CourseName {
		mismatches = append(mismatches, Mismatch{Field: "course_name", Detail: "course name mismatch"})
	}

	return Result{Match: len(mismatches) == 0, Mismatches: mismatches}
}
