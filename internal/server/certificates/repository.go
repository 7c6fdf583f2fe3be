package certificates

import (
	"context"
)

type Repository interface {
	Create(ctx context.Context, cert *Certificate) (*Certificate, error)
	GetByCertificateID(ctx context.Context, certificateID string) (*Details, error)
	ListByInstitute(ctx context.Context, instituteID string) ([]*Certificate, error)
	// UpsertIssued records a relayed certificate together with its ledger
	// outcome. It must be idempotent and must never move LedgerStatus
	// backwards.
	UpsertIssued(ctx context.Context, cert *Certificate) error
}
