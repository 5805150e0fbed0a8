package session

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"github.com/google/uuid"
)

// tokenBytes is the entropy of a session identifier (256 bits).
const tokenBytes = 32

// Session represents one transport-level session. The ID doubles as the
// cookie value and the primary key of the persisted record; it is a
// correlation key, not proof of authentication.
type Session struct {
	// ID is the opaque random session token. Rotated on authentication so an
	// attacker-supplied pre-login id can never become an authenticated id.
	ID string

	// UserID identifies the authenticated principal (uuid.Nil while anonymous).
	UserID uuid.UUID

	// Data holds the typed application state persisted with the session.
	Data Data

	// IP and UserAgent are captured at last write. Advisory metadata only;
	// a change never invalidates the session (roaming clients, proxies).
	IP        string
	UserAgent string

	CreatedAt      time.Time
	LastAccessedAt time.Time
	ExpiresAt      time.Time

	// isModified tracks whether the session needs a full Upsert on save.
	isModified bool
	// isDestroyed marks the session for deletion on save.
	isDestroyed bool
}

// NewSessionParams contains request-derived parameters for a fresh session.
type NewSessionParams struct {
	IP        string
	UserAgent string
}

// New creates an anonymous session with a generated identifier. The session
// exists only in memory until it is saved.
func New(params NewSessionParams, ttl time.Duration) (Session, error) {
	id, err := generateToken()
	if err != nil {
		return Session{}, errors.Join(ErrTokenGeneration, err)
	}

	now := time.Now()
	return Session{
		ID:             id,
		UserID:         uuid.Nil,
		Data:           Data{Version: DataVersion},
		IP:             params.IP,
		UserAgent:      params.UserAgent,
		CreatedAt:      now,
		LastAccessedAt: now,
		ExpiresAt:      now.Add(ttl),
		isModified:     true,
	}, nil
}

// IsAuthenticated returns true if the session carries a principal.
func (s Session) IsAuthenticated() bool {
	return s.UserID != uuid.Nil
}

// IsExpired returns true if the sliding expiration has elapsed.
func (s Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// IsModified returns true if the session needs a full save.
func (s Session) IsModified() bool {
	return s.isModified
}

// IsDestroyed returns true if the session is marked for deletion.
func (s Session) IsDestroyed() bool {
	return s.isDestroyed
}

// SetData replaces the session data and marks the session for saving.
func (s *Session) SetData(data Data) {
	s.Data = data
	s.isModified = true
}

// MarkModified flags the session for a full save at request end. Call after
// mutating Data fields in place.
func (s *Session) MarkModified() {
	s.isModified = true
}

// Destroy marks the session for deletion on save.
func (s *Session) Destroy() {
	s.isDestroyed = true
	s.isModified = true
}

// TouchActivity records principal activity for the idle-timeout check.
// This is independent of the persisted sliding expiration.
func (s *Session) TouchActivity() {
	s.Data.LastActivity = time.Now()
	s.isModified = true
}

// FlashError stores a one-shot error message in the session.
func (s *Session) FlashError(msg string) {
	s.Data.Flash.Error = msg
	s.isModified = true
}

// FlashSuccess stores a one-shot success message in the session.
func (s *Session) FlashSuccess(msg string) {
	s.Data.Flash.Success = msg
	s.isModified = true
}

// TakeFlash returns the pending flash messages and clears them, so the view
// layer reads each message exactly once.
func (s *Session) TakeFlash() Flash {
	f := s.Data.Flash
	if f != (Flash{}) {
		s.Data.Flash = Flash{}
		s.isModified = true
	}
	return f
}

// generateToken creates a cryptographically secure random identifier using
// 32 bytes encoded as base64 URL-safe string without padding.
func generateToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
