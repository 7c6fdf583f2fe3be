// Package relay implements the signed-authorization relay: institutes sign
// certificate hashes off-chain, the guard validates signature and
// preconditions, and the executor submits the transaction through the
// relayer account.
package relay

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/dmitrijs2005/certledger/internal/logging"
	"github.com/dmitrijs2005/certledger/internal/server/ledger"
)

// Guard runs the precondition pipeline for one relay attempt:
//
//	Received → HashVerified → SignerVerified → IssuerAuthorized →
//	(BulkValid) → BalanceSufficient → Approved
//
// Checks short-circuit on the first failure, purely local ones (hash,
// signature) before any chain round trip.
type Guard struct {
	reader ledger.Reader
	logger logging.Logger
	now    func() time.Time
}

func NewGuard(reader ledger.Reader, logger logging.Logger) *Guard {
	return &Guard{
		reader: reader,
		logger: logger.With("module", "relay_guard"),
		now:    time.Now,
	}
}

// AuthorizeSingle validates a single-certificate relay request. wallet is
// the institute wallet on file; suppliedHash and sig came from the caller.
func (g *Guard) AuthorizeSingle(ctx context.Context, payload ledger.SigningPayload, suppliedHash common.Hash, sig []byte, wallet common.Address) error {
	g.logger.Debug(ctx, "relay attempt received", "certificate_id", payload.CertificateID)

	// Defends against a caller asking the relay to execute on fields
	// different from what was actually signed.
	expected := ledger.CertificateHash(payload)
	if expected != suppliedHash {
		return fmt.Errorf("%w: expected %s", ErrHashMismatch, expected.Hex())
	}
	g.logger.Debug(ctx, "hash verified", "certificate_id", payload.CertificateID)

	if err := g.verifySigner(ctx, suppliedHash, sig, wallet); err != nil {
		return err
	}

	if err := g.requireIssuer(ctx, wallet); err != nil {
		return err
	}

	if err := g.requireBalance(ctx, wallet); err != nil {
		return err
	}

	g.logger.Info(ctx, "relay approved", "certificate_id", payload.CertificateID, "signer", wallet.Hex())
	return nil
}

// AuthorizeBulk validates a bulk authorization before any of its items are
// relayed. The hash is always re-derived from the tuple fields; the
// caller-supplied value is never trusted verbatim.
func (g *Guard) AuthorizeBulk(ctx context.Context, auth ledger.BulkAuthorization, wallet common.Address) error {
	g.logger.Debug(ctx, "bulk relay attempt received", "batch_id", auth.BatchID, "count", auth.CertificateCount)

	if auth.CertificateCount == 0 {
		return fmt.Errorf("%w: certificate count must be at least 1", ErrValidation)
	}

	expected := ledger.BulkAuthHash(auth.Signer, auth.BatchID, auth.CertificateCount, auth.Expiry)
	if expected != auth.Hash {
		return fmt.Errorf("%w: expected %s", ErrHashMismatch, expected.Hex())
	}
	g.logger.Debug(ctx, "bulk hash verified", "batch_id", auth.BatchID)

	if auth.Signer != wallet {
		return fmt.Errorf("%w: authorization names %s", ErrSignerMismatch, auth.Signer.Hex())
	}
	if err := g.verifySigner(ctx, auth.Hash, auth.Signature, wallet); err != nil {
		return err
	}

	if err := g.requireIssuer(ctx, wallet); err != nil {
		return err
	}

	if now := uint64(g.now().Unix()); now > auth.Expiry {
		return fmt.Errorf("%w: expiry %d, now %d", ErrAuthorizationExpired, auth.Expiry, now)
	}

	// Advisory fail-fast; the chain's own counter stays authoritative.
	uses, err := g.reader.BulkAuthUses(ctx, auth.Hash)
	if err != nil {
		return fmt.Errorf("querying bulk authorization uses: %w", err)
	}
	if uses >= auth.CertificateCount {
		return fmt.Errorf("%w: %d of %d used", ErrAuthorizationExhausted, uses, auth.CertificateCount)
	}
	g.logger.Debug(ctx, "bulk authorization valid", "batch_id", auth.BatchID, "uses", uses)

	if err := g.requireBalance(ctx, wallet); err != nil {
		return err
	}

	g.logger.Info(ctx, "bulk relay approved", "batch_id", auth.BatchID, "signer", wallet.Hex())
	return nil
}

func (g *Guard) verifySigner(ctx context.Context, hash common.Hash, sig []byte, wallet common.Address) error {
	// Wallet signatures always come through the personal-message flow.
	recovered, err := ledger.RecoverSigner(hash, sig, ledger.SchemePersonal)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSignerMismatch, err)
	}
	if recovered != wallet {
		return fmt.Errorf("%w: recovered %s", ErrSignerMismatch, recovered.Hex())
	}
	g.logger.Debug(ctx, "signer verified", "signer", wallet.Hex())
	return nil
}

func (g *Guard) requireIssuer(ctx context.Context, wallet common.Address) error {
	isIssuer, err := g.reader.IsIssuer(ctx, wallet)
	if err != nil {
		return fmt.Errorf("querying issuer status: %w", err)
	}
	if !isIssuer {
		return fmt.Errorf("%w: %s", ErrNotAnIssuer, wallet.Hex())
	}
	g.logger.Debug(ctx, "issuer authorized", "signer", wallet.Hex())
	return nil
}

func (g *Guard) requireBalance(ctx context.Context, wallet common.Address) error {
	balance, err := g.reader.PrepaidBalance(ctx, wallet)
	if err != nil {
		return fmt.Errorf("querying prepaid balance: %w", err)
	}
	cost, err := g.reader.CertificateGasCost(ctx)
	if err != nil {
		return fmt.Errorf("querying certificate gas cost: %w", err)
	}
	if balance.Cmp(cost) < 0 {
		shortfall := new(big.Int).Sub(cost, balance)
		return fmt.Errorf("%w: need %s wei more", ErrInsufficientBalance, shortfall.String())
	}
	g.logger.Debug(ctx, "balance sufficient", "signer", wallet.Hex(), "balance_wei", balance.String())
	return nil
}
