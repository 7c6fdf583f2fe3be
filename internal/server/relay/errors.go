package relay

import "errors"

// Rejection and failure sentinels for the relay pipeline. Callers match with
// errors.Is; every rejection is machine-distinguishable and none is retried
// automatically.
var (
	// ErrValidation: malformed caller input that never reaches the chain.
	ErrValidation = errors.New("invalid relay request")

	// Integrity / authenticity failures.
	ErrHashMismatch   = errors.New("supplied hash does not match recomputed hash")
	ErrSignerMismatch = errors.New("signature does not recover the institute wallet")

	// Authorization preconditions.
	ErrNotAnIssuer            = errors.New("wallet is not a registered issuer")
	ErrAuthorizationExpired   = errors.New("bulk authorization expired")
	ErrAuthorizationExhausted = errors.New("bulk authorization already used for its declared count")
	ErrInsufficientBalance    = errors.New("prepaid balance below per-certificate gas cost")

	// Ledger-layer failures.
	ErrDryRunReverted      = errors.New("dry run reverted")
	ErrSubmissionFailed    = errors.New("transaction submission failed")
	ErrReverted            = errors.New("transaction mined but reverted")
	ErrConfirmationTimeout = errors.New("timed out waiting for confirmation")
)
