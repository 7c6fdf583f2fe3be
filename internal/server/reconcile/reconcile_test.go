package reconcile

import (
	"testing"

	"github.com/dmitrijs2005/certledger/internal/server/ledger"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
)

func localRecord() Record {
	return Record{
		CertificateID: "CERT1700000000000abcd",
		StudentName:   "Alice Tan",
		CourseName:    "Distributed Systems",
	}
}

func chainRecord() *ledger.Certificate {
	return &ledger.Certificate{
		CertificateID: "CERT1700000000000abcd",
		StudentName:   "Alice Tan",
		CourseName:    "Distributed Systems",
		IssueDate:     "2026-05-01",
		IssuerName:    "Example University",
		Issuer:        common.HexToAddress("0x1111111111111111111111111111111111111111"),
	}
}

func TestCompare_Match(t *testing.T) {
	t.Parallel()

	result := Compare(localRecord(), chainRecord())

	assert.True(t, result.Match)
	assert.Empty(t, result.Mismatches)
}

func TestCompare_AbsentOnLedger(t *testing.T) {
	t.Parallel()

	result := Compare(localRecord(), nil)

	assert.False(t, result.Match)
	assert.Len(t, result.Mismatches, 1)
	assert.Equal(t, "certificate", result.Mismatches[0].Field)
}

func TestCompare_FieldMismatches(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*ledger.Certificate)
		field  string
	}{
		{"certificate id", func(c *ledger.Certificate) { c.CertificateID = "CERT-other" }, "certificate_id"},
		{"student name", func(c *ledger.Certificate) { c.StudentName = "Bob Lim" }, "student_name"},
		{"course name", func(c *ledger.Certificate) { c.CourseName = "Networks" }, "course_name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			onchain := chainRecord()
			tt.mutate(onchain)

			result := Compare(localRecord(), onchain)

			assert.False(t, result.Match)
			assert.Len(t, result.Mismatches, 1)
			assert.Equal(t, tt.field, result.Mismatches[0].Field)
		})
	}
}

func TestCompare_ExtraChainFieldsIgnored(t *testing.T) {
	t.Parallel()

	onchain := chainRecord()
	onchain.IssuerName = "Renamed University"
	onchain.IssueDate = "1999-01-01"

	result := Compare(localRecord(), onchain)

	assert.True(t, result.Match)
}
