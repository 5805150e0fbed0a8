package csrf

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Token is a persisted CSRF token record. SessionID is an association, not
// ownership: when the owning session id is rotated, the session store
// re-keys this association in the same atomic operation.
type Token struct {
	Token     string
	SessionID string
	// UserID is denormalized from the session at issuance time.
	UserID    uuid.UUID
	ExpiresAt time.Time
}

// Store defines the persistence contract for CSRF token records.
type Store interface {
	// Insert persists a token record.
	Insert(ctx context.Context, tok Token) error

	// Lookup returns the record matching (token, sessionID) only if its
	// expiration is in the future; otherwise ErrNotFoundOrExpired.
	Lookup(ctx context.Context, token, sessionID string) (*Token, error)

	// Delete removes a single token record. Missing rows are not an error.
	Delete(ctx context.Context, token string) error

	// DeleteExpired removes all expired token rows and returns the count.
	DeleteExpired(ctx context.Context) (int64, error)
}
