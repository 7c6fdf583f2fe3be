package relay

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/certledger/internal/common"
	"github.com/dmitrijs2005/certledger/internal/logging"
	"github.com/dmitrijs2005/certledger/internal/server/ledger"
)

// UnknownStudentName is recorded when no display name can be resolved for a
// batch item. A missing name never fails the whole batch.
const UnknownStudentName = "Unknown Student"

// RawItem is one bulk-issuance row as callers send it. CSV exports and the
// two frontend generations disagree on some field names, so both variants
// are accepted and folded into one canonical Item.
type RawItem struct {
	CertificateID string `json:"certificate_id"`
	CertID        string `json:"cert_id"`
	StudentID     string `json:"student_id"`
	StudentName   string `json:"student_name"`
	CourseName    string `json:"course_name"`
	Course        string `json:"course"`
	Grade         string `json:"grade"`
	IssuedDate    string `json:"issued_date"`
	IssueDate     string `json:"issue_date"`
}

// Item is the canonical shape of a bulk-issuance row.
type Item struct {
	CertificateID string
	StudentID     string
	StudentName   string
	CourseName    string
	Grade         string
	IssueDate     string
}

// Normalize folds field-name variants and validates required fields.
func (r RawItem) Normalize() (Item, error) {
	item := Item{
		CertificateID: firstNonEmpty(r.CertificateID, r.CertID),
		StudentID:     r.StudentID,
		StudentName:   r.StudentName,
		CourseName:    firstNonEmpty(r.CourseName, r.Course),
		Grade:         r.Grade,
		IssueDate:     firstNonEmpty(r.IssuedDate, r.IssueDate),
	}

	switch {
	case item.CertificateID == "":
		return Item{}, fmt.Errorf("%w: missing certificate_id", ErrValidation)
	case item.CourseName == "":
		return Item{}, fmt.Errorf("%w: missing course_name", ErrValidation)
	case item.IssueDate == "":
		return Item{}, fmt.Errorf("%w: missing issued_date", ErrValidation)
	}

	return item, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// NameResolver looks up a student's display name by identifier. Returns
// common.ErrorNotFound when the identifier is unknown.
type NameResolver interface {
	FullName(ctx context.Context, studentID string) (string, error)
}

// Recorder persists the outcome of a successfully relayed item. The write
// must be safe to apply twice: items may be retried after partial failures.
type Recorder interface {
	SaveIssued(ctx context.Context, instituteID string, item Item, receipt *ledger.Receipt) error
}

// ItemResult is the outcome of one batch item, in input order.
type ItemResult struct {
	Index         int    `json:"index"`
	CertificateID string `json:"certificate_id"`
	Success       bool   `json:"success"`
	Error         string `json:"error,omitempty"`
	TxHash        string `json:"transactionHash,omitempty"`
	BlockNumber   uint64 `json:"blockNumber,omitempty"`
	GasUsed       uint64 `json:"gasUsed,omitempty"`
}

// BatchResult aggregates the per-item outcomes of one bulk run.
type BatchResult struct {
	Total     int          `json:"total"`
	Succeeded int          `json:"succeeded"`
	Failed    int          `json:"failed"`
	Results   []ItemResult `json:"results"`
}

// Coordinator drives bulk issuance under one already-authorized
// BulkAuthorization. Items are relayed sequentially (the relayer nonce is a
// single serialized resource) and independently: one bad row in a batch of
// 500 must not block the other 499.
type Coordinator struct {
	exec     *Executor
	names    NameResolver
	recorder Recorder
	logger   logging.Logger
}

func NewCoordinator(exec *Executor, names NameResolver, recorder Recorder, logger logging.Logger) *Coordinator {
	return &Coordinator{
		exec:     exec,
		names:    names,
		recorder: recorder,
		logger:   logger.With("module", "batch_coordinator"),
	}
}

// Run relays every item and returns per-item outcomes plus aggregate counts.
// The error of one item is captured in its result and never propagates to
// sibling items.
func (c *Coordinator) Run(ctx context.Context, auth ledger.BulkAuthorization, instituteID, issuerName string, items []RawItem) *BatchResult {
	result := &BatchResult{Total: len(items), Results: make([]ItemResult, 0, len(items))}

	for i, raw := range items {
		result.Results = append(result.Results, c.runItem(ctx, auth, instituteID, issuerName, i, raw))
	}

	for _, r := range result.Results {
		if r.Success {
			result.Succeeded++
		} else {
			result.Failed++
		}
	}

	c.logger.Info(ctx, "batch finished",
		"batch_id", auth.BatchID,
		"total", result.Total,
		"succeeded", result.Succeeded,
		"failed", result.Failed,
	)
	return result
}

func (c *Coordinator) runItem(ctx context.Context, auth ledger.BulkAuthorization, instituteID, issuerName string, index int, raw RawItem) ItemResult {
	item, err := raw.Normalize()
	if err != nil {
		return c.failure(ctx, index, firstNonEmpty(raw.CertificateID, raw.CertID), err)
	}

	if item.StudentName == "" {
		item.StudentName = c.resolveName(ctx, item.StudentID)
	}

	sub := ledger.BulkSubmission{
		Payload: ledger.SigningPayload{
			CertificateID: item.CertificateID,
			StudentName:   item.StudentName,
			CourseName:    item.CourseName,
			IssueDate:     item.IssueDate,
			IssuerName:    issuerName,
			Signer:        auth.Signer,
		},
		Auth: auth,
	}

	receipt, err := c.exec.SubmitBulkItem(ctx, sub)
	if err != nil {
		return c.failure(ctx, index, item.CertificateID, err)
	}

	if err := c.recorder.SaveIssued(ctx, instituteID, item, receipt); err != nil {
		// The transaction is on chain; the idempotent upsert makes a retry
		// of this item safe.
		return c.failure(ctx, index, item.CertificateID, fmt.Errorf("persisting issued certificate: %w", err))
	}

	return ItemResult{
		Index:         index,
		CertificateID: item.CertificateID,
		Success:       true,
		TxHash:        receipt.TxHash,
		BlockNumber:   receipt.BlockNumber,
		GasUsed:       receipt.GasUsed,
	}
}

func (c *Coordinator) resolveName(ctx context.Context, studentID string) string {
	if studentID == "" {
		return UnknownStudentName
	}
	name, err := c.names.FullName(ctx, studentID)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			c.logger.Warn(ctx, "student lookup failed", "student_id", studentID, "error", err.Error())
		}
		return UnknownStudentName
	}
	return name
}

func (c *Coordinator) failure(ctx context.Context, index int, certID string, err error) ItemResult {
	c.logger.Warn(ctx, "batch item failed", "index", index, "certificate_id", certID, "error", err.Error())
	return ItemResult{Index: index, CertificateID: certID, Error: err.Error()}
}
