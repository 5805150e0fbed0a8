package auth

import "errors"

var (
	// ErrNotAuthenticated is returned when the session carries no principal.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrActivityTimeout is returned when the idle timeout elapsed even
	// though the persisted session row is still technically unexpired.
	ErrActivityTimeout = errors.New("session activity timeout")
	// ErrAccountInactive is returned when per-request re-validation finds
	// the account missing or deactivated. This is the revocation path.
	ErrAccountInactive = errors.New("account inactive")
	// ErrPermissionDenied is returned when the principal is authenticated
	// but the cached permission set does not satisfy the check.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrInvalidCredentials is returned for unknown accounts and wrong
	// passwords alike.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrTooManyAttempts is returned when the login rate limit is exceeded.
	ErrTooManyAttempts = errors.New("too many login attempts")
	// ErrPermissionLookup is returned when deriving the permission set from
	// the authoritative store fails.
	ErrPermissionLookup = errors.New("failed to load permissions")
)
