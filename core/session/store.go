package session

import (
	"context"
	"time"
)

// Store defines the persistence contract for session records.
// Implementations must be safe for concurrent use across requests.
type Store interface {
	// Lookup returns the record for id only if its expiration is in the
	// future. A missing, expired, or unreadable record is ErrNotFound.
	Lookup(ctx context.Context, id string) (*Session, error)

	// Upsert inserts or overwrites the record, setting the expiration to
	// now+ttl and refreshing the last-accessed timestamp. Idempotent under
	// retry.
	Upsert(ctx context.Context, sess *Session, ttl time.Duration) error

	// Touch extends the expiration and last-accessed timestamp without
	// altering session data. Missing rows are not an error.
	Touch(ctx context.Context, id string, ttl time.Duration) error

	// Rotate atomically re-keys the record from oldID to newID, preserving
	// data and principal, and re-associates all CSRF tokens owned by oldID.
	// A reader must observe either the fully-old or fully-new mapping.
	// An absent old row is not an error; the caller's follow-up Upsert
	// creates the fresh record under newID.
	Rotate(ctx context.Context, oldID, newID string) error

	// Destroy deletes the session row and all CSRF tokens owned by it.
	// Missing rows are not an error.
	Destroy(ctx context.Context, id string) error

	// DeleteExpired removes all expired session rows and returns the count.
	DeleteExpired(ctx context.Context) (int64, error)
}
