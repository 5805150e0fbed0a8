package csrf

import "errors"

var (
	// ErrMissingToken is returned when no token was submitted or the session
	// has no cached token to compare against.
	ErrMissingToken = errors.New("csrf token missing")
	// ErrMalformedToken is returned when the submitted value does not match
	// the expected hexadecimal length or charset.
	ErrMalformedToken = errors.New("csrf token malformed")
	// ErrNotFoundOrExpired is returned when no live persisted record matches
	// the (token, session) pair.
	ErrNotFoundOrExpired = errors.New("csrf token not found or expired")
	// ErrMismatch is returned when the submitted token differs from the
	// session-cached value.
	ErrMismatch = errors.New("csrf token mismatch")
	// ErrTokenGeneration is returned when random token generation fails.
	ErrTokenGeneration = errors.New("failed to generate csrf token")
	// ErrPersistToken is returned when storing a freshly issued token fails.
	ErrPersistToken = errors.New("failed to persist csrf token")
)

// IsValidationError reports whether err is one of the four validation
// failure modes (as opposed to an infrastructure error).
func IsValidationError(err error) bool {
	return errors.Is(err, ErrMissingToken) ||
		errors.Is(err, ErrMalformedToken) ||
		errors.Is(err, ErrNotFoundOrExpired) ||
		errors.Is(err, ErrMismatch)
}
