// Package derrors defines the domain error taxonomy shared by all engines.
// Services return these sentinels (usually wrapped with %w) and the handler
// layer translates them into voice templates.
package derrors

import (
	"errors"
	"fmt"
)

var (
	ErrNotConfigured     = errors.New("not_configured")
	ErrTokenInvalid      = errors.New("token_invalid")
	ErrTokenExpired      = errors.New("token_expired")
	ErrPermissionDenied  = errors.New("permission_denied")
	ErrInsufficientFunds = errors.New("insufficient_funds")
	ErrCooldownActive    = errors.New("cooldown_active")
	ErrLimitReached      = errors.New("limit_reached")
	ErrOutOfStock        = errors.New("out_of_stock")
	ErrAlreadyOwned      = errors.New("already_owned")
	ErrInvalidInput      = errors.New("invalid_input")
	ErrRateLimited       = errors.New("rate_limited")
	ErrNotFound          = errors.New("not_found")
)

// Wrap attaches a human-facing detail to a domain sentinel.
func Wrap(kind error, format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{kind}, args...)...)
}

// Kind returns the sentinel behind err, or nil when err is not a domain error.
func Kind(err error) error {
	for _, k := range []error{
		ErrNotConfigured, ErrTokenInvalid, ErrTokenExpired, ErrPermissionDenied,
		ErrInsufficientFunds, ErrCooldownActive, ErrLimitReached, ErrOutOfStock,
		ErrAlreadyOwned, ErrInvalidInput, ErrRateLimited, ErrNotFound,
	} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}

// IsDomain reports whether err belongs to the taxonomy (expected failures that
// must not be logged as internal errors).
func IsDomain(err error) bool {
	return Kind(err) != nil
}
