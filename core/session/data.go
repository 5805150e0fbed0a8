package session

import (
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
)

// DataVersion is the current schema version of the serialized session data.
// Bump when the Data layout changes incompatibly; decoding an unknown version
// fails closed into an anonymous session.
const DataVersion = 1

// Data is the typed session state persisted in the sessions table. It
// replaces an untyped attribute map so consumers never rely on stringly-keyed
// lookups.
type Data struct {
	Version int `json:"v"`

	// User is a snapshot of the authenticated principal taken at login.
	// Nil while anonymous. Account status is re-checked against the
	// authoritative user store on every request, not from this snapshot.
	User *UserSnapshot `json:"user,omitempty"`

	// Permissions is the permission set derived once per session lifetime at
	// login (or lazily on first check) and cached here. Server-side role
	// changes do not propagate mid-session.
	Permissions []string `json:"permissions,omitempty"`

	// LastActivity drives the idle timeout, independent of the persisted
	// sliding expiration.
	LastActivity time.Time `json:"last_activity"`

	// CSRFToken is the single token value the CSRF guard compares against.
	CSRFToken string `json:"csrf_token,omitempty"`

	// Flash holds one-shot messages read once and cleared by the view layer.
	Flash Flash `json:"flash"`
}

// UserSnapshot captures the principal's identity at login time.
type UserSnapshot struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
}

// Flash is a pair of one-shot user-visible messages.
type Flash struct {
	Error   string `json:"error,omitempty"`
	Success string `json:"success,omitempty"`
}

// HasPermission reports whether the cached set contains the permission.
func (d Data) HasPermission(perm string) bool {
	return slices.Contains(d.Permissions, perm)
}

// HasAnyPermission reports whether the cached set contains at least one of
// the given permissions.
func (d Data) HasAnyPermission(perms ...string) bool {
	return slices.ContainsFunc(perms, d.HasPermission)
}

// HasAllPermissions reports whether the cached set is a superset of the
// given permissions.
func (d Data) HasAllPermissions(perms ...string) bool {
	for _, p := range perms {
		if !d.HasPermission(p) {
			return false
		}
	}
	return true
}

// EncodeData serializes session data for storage.
func EncodeData(d Data) ([]byte, error) {
	if d.Version == 0 {
		d.Version = DataVersion
	}
	return json.Marshal(d)
}

// DecodeData deserializes stored session data. An unknown schema version is
// an error so stale rows hydrate as anonymous instead of misreading fields.
func DecodeData(raw []byte) (Data, error) {
	var d Data
	if err := json.Unmarshal(raw, &d); err != nil {
		return Data{}, fmt.Errorf("decode session data: %w", err)
	}
	if d.Version != DataVersion {
		return Data{}, fmt.Errorf("%w: got %d, want %d", ErrDataVersion, d.Version, DataVersion)
	}
	return d, nil
}
