// Package certificates stores issued certificates and tracks their ledger
// anchoring state.
package certificates

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/certledger/internal/common"
	"github.com/dmitrijs2005/certledger/internal/logging"
	"github.com/dmitrijs2005/certledger/internal/server/ledger"
	"github.com/dmitrijs2005/certledger/internal/server/relay"
	"github.com/google/uuid"
)

type Service struct {
	repo   Repository
	logger logging.Logger
	now    func() time.Time
}

func NewService(repo Repository, logger logging.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// NewCertificateID mints a unique public certificate identifier. The
// timestamp keeps ids roughly sortable, the uuid fragment makes collisions
// within one millisecond impossible in practice.
func (s *Service) NewCertificateID() string {
	fragment := strings.Split(uuid.NewString(), "-")[0]
	return fmt.Sprintf("CERT%d%s", s.now().UnixMilli(), fragment)
}

func (s *Service) Create(ctx context.Context, cert *Certificate) (*Certificate, error) {

	if cert.CertificateID == "" {
		cert.CertificateID = s.NewCertificateID()
	}
	if cert.StudentName == "" || cert.CourseName == "" || cert.IssuedDate == "" {
		return nil, fmt.Errorf("%w: student name, course name and issued date are required", common.ErrorValidation)
	}
	if cert.LedgerStatus == "" {
		cert.LedgerStatus = LedgerStatusNone
	}

	cert, err := s.repo.Create(ctx, cert)
	if err != nil {
		return nil, err
	}

	return cert, nil
}

func (s *Service) ListByInstitute(ctx context.Context, instituteID string) ([]*Certificate, error) {
	return s.repo.ListByInstitute(ctx, instituteID)
}

func (s *Service) GetByCertificateID(ctx context.Context, certificateID string) (*Details, error) {
	return s.repo.GetByCertificateID(ctx, certificateID)
}

func receiptStatus(receipt *ledger.Receipt) string {
	if receipt == nil {
		return LedgerStatusFailed
	}
	if receipt.Status == ledger.ReceiptStatusSuccess {
		return LedgerStatusConfirmed
	}
	return LedgerStatusFailed
}

// SaveIssued records the ledger outcome of one relayed certificate. It
// satisfies the recorder contract of the bulk coordinator: the underlying
// upsert is idempotent, so retried items do not duplicate rows.
func (s *Service) SaveIssued(ctx context.Context, instituteID string, item relay.Item, receipt *ledger.Receipt) error {

	cert := &Certificate{
		CertificateID: item.CertificateID,
		StudentID:     item.StudentID,
		InstituteID:   instituteID,
		StudentName:   item.StudentName,
		CourseName:    item.CourseName,
		Grade:         item.Grade,
		IssuedDate:    item.IssueDate,
		LedgerStatus:  receiptStatus(receipt),
	}
	if receipt != nil {
		cert.LedgerTxHash = receipt.TxHash
	}

	if err := s.repo.UpsertIssued(ctx, cert); err != nil {
		s.logger.Error(ctx, "saving issued certificate", "certificate_id", cert.CertificateID, "error", err)
		return err
	}

	return nil
}

// SaveLedgerResult updates an existing row after a single (non-bulk) relay.
func (s *Service) SaveLedgerResult(ctx context.Context, cert *Certificate, receipt *ledger.Receipt) error {
	cert.LedgerStatus = receiptStatus(receipt)
	if receipt != nil {
		cert.LedgerTxHash = receipt.TxHash
	}
	return s.repo.UpsertIssued(ctx, cert)
}
