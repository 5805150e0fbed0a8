package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/taskhub/webcore/core/logger"
)

// Manager applies the session lifecycle policy on top of a Store: sliding
// expiration with throttled touches, fail-closed lookups, and id rotation on
// authentication events.
type Manager struct {
	store         Store
	ttl           time.Duration
	touchInterval time.Duration
	log           *logOrDiscard
}

// NewManager creates a session manager for the given store.
func NewManager(store Store, opts ...Option) *Manager {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return &Manager{
		store:         store,
		ttl:           cfg.TTL,
		touchInterval: cfg.TouchInterval,
		log:           newLogOrDiscard(cfg.Logger),
	}
}

// New creates a fresh anonymous session that exists only in memory until
// saved.
func (m *Manager) New(params NewSessionParams) (Session, error) {
	return New(params, m.ttl)
}

// GetByID retrieves an unexpired session. Any store failure is collapsed
// into ErrNotFound so the caller ends up anonymous rather than trusting a
// stale cached identity.
func (m *Manager) GetByID(ctx context.Context, id string) (Session, error) {
	sess, err := m.store.Lookup(ctx, id)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			m.log.Error(ctx, "session lookup failed", logger.Error(err), logger.SessionID(id))
		}
		return Session{}, ErrNotFound
	}

	if sess.IsExpired() {
		// Expired rows are logically dead even before physical deletion.
		if derr := m.store.Destroy(ctx, id); derr != nil {
			m.log.Error(ctx, "expired session cleanup failed", logger.Error(derr), logger.SessionID(id))
		}
		return Session{}, ErrExpired
	}

	return *sess, nil
}

// Save persists session state at the end of a request, before the response
// is flushed. Destroyed sessions are deleted, modified sessions upserted,
// and otherwise the sliding expiration is extended (throttled by the touch
// interval to bound write traffic).
func (m *Manager) Save(ctx context.Context, sess *Session) error {
	if sess.IsDestroyed() {
		if err := m.store.Destroy(ctx, sess.ID); err != nil {
			return errors.Join(ErrDeleteSession, err)
		}
		return nil
	}

	if sess.IsModified() {
		if err := m.store.Upsert(ctx, sess, m.ttl); err != nil {
			return errors.Join(ErrSaveSession, err)
		}
		sess.ExpiresAt = time.Now().Add(m.ttl)
		sess.isModified = false
		return nil
	}

	if time.Since(sess.LastAccessedAt) >= m.touchInterval {
		if err := m.store.Touch(ctx, sess.ID, m.ttl); err != nil {
			return errors.Join(ErrSaveSession, err)
		}
		now := time.Now()
		sess.LastAccessedAt = now
		sess.ExpiresAt = now.Add(m.ttl)
	}

	return nil
}

// Authenticate upgrades a session to the given principal. The identifier is
// rotated BEFORE any authenticated state is written, so a fixated pre-login
// id never becomes an authenticated id. A persistence failure here surfaces
// as an error and must be treated by the caller as a login failure.
func (m *Manager) Authenticate(ctx context.Context, sess *Session, userID uuid.UUID, data Data) error {
	newID, err := generateToken()
	if err != nil {
		return errors.Join(ErrTokenGeneration, err)
	}

	if err := m.store.Rotate(ctx, sess.ID, newID); err != nil {
		return errors.Join(ErrRotateSession, err)
	}

	sess.ID = newID
	sess.UserID = userID
	if data.Version == 0 {
		data.Version = DataVersion
	}
	if data.LastActivity.IsZero() {
		data.LastActivity = time.Now()
	}
	sess.Data = data

	if err := m.store.Upsert(ctx, sess, m.ttl); err != nil {
		return errors.Join(ErrSaveSession, err)
	}

	now := time.Now()
	sess.LastAccessedAt = now
	sess.ExpiresAt = now.Add(m.ttl)
	sess.isModified = false
	return nil
}

// Logout destroys the session and returns a fresh anonymous replacement.
// Store failures are logged; the caller still ends up anonymous.
func (m *Manager) Logout(ctx context.Context, sess *Session) (Session, error) {
	if err := m.store.Destroy(ctx, sess.ID); err != nil {
		m.log.Error(ctx, "session destroy on logout failed", logger.Error(err), logger.SessionID(sess.ID))
	}

	return m.New(NewSessionParams{IP: sess.IP, UserAgent: sess.UserAgent})
}

// Destroy removes the session by id. Used for the hydrate-or-destroy path
// when a cookie references a dead record.
func (m *Manager) Destroy(ctx context.Context, id string) error {
	if err := m.store.Destroy(ctx, id); err != nil {
		return errors.Join(ErrDeleteSession, err)
	}
	return nil
}

// CleanupExpired removes all expired sessions from the store.
func (m *Manager) CleanupExpired(ctx context.Context) (int64, error) {
	return m.store.DeleteExpired(ctx)
}

// TTL returns the sliding session time-to-live.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}
