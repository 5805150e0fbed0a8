package pg_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/taskhub/webcore/integration/database/pg"
)

func TestErrorClassification(t *testing.T) {
	t.Parallel()

	t.Run("not found", func(t *testing.T) {
		t.Parallel()
		assert.True(t, pg.IsNotFoundError(pgx.ErrNoRows))
		assert.True(t, pg.IsNotFoundError(fmt.Errorf("query: %w", pgx.ErrNoRows)))
		assert.False(t, pg.IsNotFoundError(errors.New("other")))
	})

	t.Run("duplicate key", func(t *testing.T) {
		t.Parallel()
		assert.True(t, pg.IsDuplicateKeyError(&pgconn.PgError{Code: "23505"}))
		assert.False(t, pg.IsDuplicateKeyError(&pgconn.PgError{Code: "23503"}))
		assert.False(t, pg.IsDuplicateKeyError(errors.New("other")))
	})

	t.Run("foreign key violation", func(t *testing.T) {
		t.Parallel()
		assert.True(t, pg.IsForeignKeyViolationError(&pgconn.PgError{Code: "23503"}))
		assert.False(t, pg.IsForeignKeyViolationError(&pgconn.PgError{Code: "23505"}))
	})
}

func TestConnectValidation(t *testing.T) {
	t.Parallel()

	t.Run("empty connection string", func(t *testing.T) {
		t.Parallel()
		_, err := pg.Connect(context.Background(), pg.Config{})
		assert.ErrorIs(t, err, pg.ErrEmptyConnectionString)
	})

	t.Run("unparseable connection string", func(t *testing.T) {
		t.Parallel()
		_, err := pg.Connect(context.Background(), pg.Config{ConnectionString: "://not-a-url"})
		assert.ErrorIs(t, err, pg.ErrFailedToParseDBConfig)
	})
}
