package pg

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskhub/webcore/core/csrf"
)

// CSRFStore persists CSRF token records in PostgreSQL. It implements
// csrf.Store.
type CSRFStore struct {
	pool *pgxpool.Pool
}

// NewCSRFStore creates a CSRF token store backed by the given pool.
func NewCSRFStore(pool *pgxpool.Pool) *CSRFStore {
	return &CSRFStore{pool: pool}
}

func (s *CSRFStore) Insert(ctx context.Context, tok csrf.Token) error {
	var userID *uuid.UUID
	if tok.UserID != uuid.Nil {
		id := tok.UserID
		userID = &id
	}

	const q = `
		INSERT INTO csrf_tokens (token, session_id, user_id, expires_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (token) DO UPDATE SET
			session_id = EXCLUDED.session_id,
			user_id    = EXCLUDED.user_id,
			expires_at = EXCLUDED.expires_at`

	_, err := executor(ctx, s.pool).Exec(ctx, q, tok.Token, tok.SessionID, userID, tok.ExpiresAt)
	return err
}

func (s *CSRFStore) Lookup(ctx context.Context, token, sessionID string) (*csrf.Token, error) {
	const q = `
		SELECT token, session_id, user_id, expires_at
		FROM csrf_tokens
		WHERE token = $1 AND session_id = $2 AND expires_at > now()`

	var (
		tok    csrf.Token
		userID *uuid.UUID
	)
	err := executor(ctx, s.pool).QueryRow(ctx, q, token, sessionID).Scan(
		&tok.Token, &tok.SessionID, &userID, &tok.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, csrf.ErrNotFoundOrExpired
		}
		return nil, err
	}
	if userID != nil {
		tok.UserID = *userID
	}
	return &tok, nil
}

func (s *CSRFStore) Delete(ctx context.Context, token string) error {
	_, err := executor(ctx, s.pool).Exec(ctx, `DELETE FROM csrf_tokens WHERE token = $1`, token)
	return err
}

func (s *CSRFStore) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := executor(ctx, s.pool).Exec(ctx, `DELETE FROM csrf_tokens WHERE expires_at <= now()`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

var _ csrf.Store = (*CSRFStore)(nil)
