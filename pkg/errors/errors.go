package errors

import (
	"errors"
	"fmt"
)

// Domain errors - these map to specific HTTP responses
var (
	// Session errors. Every session failure mode (parse error, expiry, bad
	// signature) collapses to ErrSessionInvalid so callers cannot probe which
	// check rejected the token.
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrSessionInvalid   = errors.New("invalid session")

	// Security-control errors. Origin, CSRF and nonce failures all surface as
	// ErrSecurityCheck; the specific failing gate is logged, never returned.
	ErrSecurityCheck = errors.New("invalid request")

	// Rate limiting
	ErrRateLimited = errors.New("rate limit exceeded")

	// Oracle errors
	ErrProfileNotFound   = errors.New("profile not found")
	ErrOracleUnavailable = errors.New("reputation service unavailable")

	// Configuration errors - fatal for the submission path
	ErrSessionSecretMissing = errors.New("session secret not configured")
	ErrPrivateKeyMissing    = errors.New("private key not configured")
	ErrContractMissing      = errors.New("contract address not configured")

	// General errors
	ErrNotFound = errors.New("not found")
	ErrInternal = errors.New("internal error")
)

// EligibilityError is returned when the caller's reputation score is below the
// submission threshold. The threshold and current score are part of the stated
// policy and safe to return.
type EligibilityError struct {
	Score     int
	Threshold int
}

func (e *EligibilityError) Error() string {
	return fmt.Sprintf("must have reputation score of %d or higher to submit; current score: %d", e.Threshold, e.Score)
}

// ResolutionError is returned when the review target's handle cannot be
// resolved to a canonical X account ID through any lookup strategy. The
// pipeline never falls back to the raw handle.
type ResolutionError struct {
	Handle string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("could not resolve X account ID for %q: the target must have their X account linked in their Ethos profile", e.Handle)
}

// ValidationError represents a field validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// BlockchainError wraps a failure from the transaction layer. The underlying
// message is surfaced as-is; the caller already paid the cost of a valid
// request and blind retry risks duplicate on-chain submissions.
type BlockchainError struct {
	Err error
}

func (e *BlockchainError) Error() string {
	return fmt.Sprintf("failed to submit review to blockchain: %v", e.Err)
}

func (e *BlockchainError) Unwrap() error { return e.Err }

// Is wraps errors.Is for convenience.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps errors.As for convenience.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
