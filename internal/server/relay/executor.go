package relay

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/certledger/internal/logging"
	"github.com/dmitrijs2005/certledger/internal/server/ledger"
)

// Executor submits guard-approved requests. Every submission is preceded by
// a simulate-only call so revert reasons surface before fees are spent, and
// waits for one confirmation before reporting a receipt. Failures are
// reported, never retried here: certificate IDs are unique and the contract
// rejects duplicates, so retrying is safe and left to the caller.
type Executor struct {
	writer ledger.Writer
	logger logging.Logger
}

func NewExecutor(writer ledger.Writer, logger logging.Logger) *Executor {
	return &Executor{
		writer: writer,
		logger: logger.With("module", "relay_executor"),
	}
}

// SubmitSingle relays one certificate carrying its own wallet signature.
func (e *Executor) SubmitSingle(ctx context.Context, sub ledger.SingleSubmission) (*ledger.Receipt, error) {
	e.logger.Debug(ctx, "dry run", "certificate_id", sub.Payload.CertificateID)
	if err := e.writer.SimulateAddWithSignature(ctx, sub); err != nil {
		return nil, dryRunError(err)
	}

	receipt, err := e.writer.AddWithSignature(ctx, sub)
	return e.finish(ctx, sub.Payload.CertificateID, receipt, err)
}

// SubmitBulkItem relays one certificate under a shared bulk authorization.
func (e *Executor) SubmitBulkItem(ctx context.Context, sub ledger.BulkSubmission) (*ledger.Receipt, error) {
	e.logger.Debug(ctx, "dry run", "certificate_id", sub.Payload.CertificateID, "batch_id", sub.Auth.BatchID)
	if err := e.writer.SimulateAddWithAuth(ctx, sub); err != nil {
		return nil, dryRunError(err)
	}

	receipt, err := e.writer.AddWithAuth(ctx, sub)
	return e.finish(ctx, sub.Payload.CertificateID, receipt, err)
}

func (e *Executor) finish(ctx context.Context, certID string, receipt *ledger.Receipt, err error) (*ledger.Receipt, error) {
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %v", ErrConfirmationTimeout, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrSubmissionFailed, err)
	}

	if receipt.Status != ledger.ReceiptStatusSuccess {
		e.logger.Warn(ctx, "transaction reverted", "certificate_id", certID, "tx_hash", receipt.TxHash)
		return receipt, fmt.Errorf("%w: tx %s", ErrReverted, receipt.TxHash)
	}

	e.logger.Info(ctx, "transaction confirmed",
		"certificate_id", certID,
		"tx_hash", receipt.TxHash,
		"block", receipt.BlockNumber,
		"gas_used", receipt.GasUsed,
	)
	return receipt, nil
}

func dryRunError(err error) error {
	var revert *ledger.RevertError
	if errors.As(err, &revert) && revert.Reason != "" {
		return fmt.Errorf("%w: %s", ErrDryRunReverted, revert.Reason)
	}
	return fmt.Errorf("%w: %v", ErrDryRunReverted, err)
}
