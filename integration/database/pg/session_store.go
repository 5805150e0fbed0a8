package pg

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskhub/webcore/core/session"
)

// SessionStore persists sessions in PostgreSQL. It implements session.Store.
type SessionStore struct {
	pool *pgxpool.Pool
}

// NewSessionStore creates a session store backed by the given pool.
func NewSessionStore(pool *pgxpool.Pool) *SessionStore {
	return &SessionStore{pool: pool}
}

func (s *SessionStore) Lookup(ctx context.Context, id string) (*session.Session, error) {
	const q = `
		SELECT id, user_id, data, ip_address, user_agent, created_at, last_accessed_at, expires_at
		FROM sessions
		WHERE id = $1 AND expires_at > now()`

	var (
		sess   session.Session
		userID *uuid.UUID
		raw    []byte
	)
	err := executor(ctx, s.pool).QueryRow(ctx, q, id).Scan(
		&sess.ID, &userID, &raw, &sess.IP, &sess.UserAgent,
		&sess.CreatedAt, &sess.LastAccessedAt, &sess.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, session.ErrNotFound
		}
		return nil, err
	}

	if userID != nil {
		sess.UserID = *userID
	}
	data, err := session.DecodeData(raw)
	if err != nil {
		// An unreadable record is treated as absent so the caller starts a
		// fresh anonymous session instead of failing the request.
		return nil, session.ErrNotFound
	}
	sess.Data = data
	return &sess, nil
}

func (s *SessionStore) Upsert(ctx context.Context, sess *session.Session, ttl time.Duration) error {
	raw, err := session.EncodeData(sess.Data)
	if err != nil {
		return err
	}

	var userID *uuid.UUID
	if sess.UserID != uuid.Nil {
		id := sess.UserID
		userID = &id
	}

	const q = `
		INSERT INTO sessions (id, user_id, data, ip_address, user_agent, created_at, last_accessed_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, now(), $7)
		ON CONFLICT (id) DO UPDATE SET
			user_id          = EXCLUDED.user_id,
			data             = EXCLUDED.data,
			ip_address       = EXCLUDED.ip_address,
			user_agent       = EXCLUDED.user_agent,
			last_accessed_at = now(),
			expires_at       = EXCLUDED.expires_at`

	_, err = executor(ctx, s.pool).Exec(ctx, q,
		sess.ID, userID, raw, sess.IP, sess.UserAgent, sess.CreatedAt, time.Now().Add(ttl),
	)
	return err
}

func (s *SessionStore) Touch(ctx context.Context, id string, ttl time.Duration) error {
	const q = `
		UPDATE sessions
		SET last_accessed_at = now(), expires_at = $2
		WHERE id = $1`
	_, err := executor(ctx, s.pool).Exec(ctx, q, id, time.Now().Add(ttl))
	return err
}

// Rotate re-keys a session and its CSRF token associations in one
// transaction, so concurrent readers see either the old id or the new id for
// both tables, never a mix.
func (s *SessionStore) Rotate(ctx context.Context, oldID, newID string) error {
	if tx, ok := TxFromContext(ctx); ok {
		return rotateIn(ctx, tx, oldID, newID)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) // safe even after commit

	if err := rotateIn(ctx, tx, oldID, newID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func rotateIn(ctx context.Context, tx pgx.Tx, oldID, newID string) error {
	if _, err := tx.Exec(ctx, `UPDATE sessions SET id = $2 WHERE id = $1`, oldID, newID); err != nil {
		return err
	}
	_, err := tx.Exec(ctx, `UPDATE csrf_tokens SET session_id = $2 WHERE session_id = $1`, oldID, newID)
	return err
}

func (s *SessionStore) Destroy(ctx context.Context, id string) error {
	if tx, ok := TxFromContext(ctx); ok {
		return destroyIn(ctx, tx, id)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) // safe even after commit

	if err := destroyIn(ctx, tx, id); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func destroyIn(ctx context.Context, tx pgx.Tx, id string) error {
	if _, err := tx.Exec(ctx, `DELETE FROM csrf_tokens WHERE session_id = $1`, id); err != nil {
		return err
	}
	_, err := tx.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	return err
}

func (s *SessionStore) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := executor(ctx, s.pool).Exec(ctx, `DELETE FROM sessions WHERE expires_at <= now()`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

var _ session.Store = (*SessionStore)(nil)
