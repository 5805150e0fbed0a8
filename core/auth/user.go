package auth

import (
	"context"

	"github.com/google/uuid"
)

// User is the authoritative account record consumed by the guard. The
// business-side profile lives elsewhere; only identity, credentials, and
// account status matter here.
type User struct {
	ID           uuid.UUID
	Email        string
	Name         string
	PasswordHash string
	Active       bool
}

// UserStore is the authoritative account store. The guard re-checks it on
// every request so server-side revocation (deactivation, deletion) takes
// effect immediately, unlike the cached permission set.
type UserStore interface {
	FindUser(ctx context.Context, id uuid.UUID) (*User, error)
	FindUserByEmail(ctx context.Context, email string) (*User, error)
}

// PermissionStore derives the permission set for a principal from its role
// assignment. Consulted once per session lifetime; results are cached in the
// session data.
type PermissionStore interface {
	PermissionsFor(ctx context.Context, userID uuid.UUID) ([]string, error)
}
