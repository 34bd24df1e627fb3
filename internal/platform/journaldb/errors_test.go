package journaldb_test

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/phrazzld/scry-sync/internal/platform/journaldb"
	"github.com/phrazzld/scry-sync/internal/store"
)

func TestMapError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"no rows", sql.ErrNoRows, store.ErrNotFound},
		{"wrapped no rows", fmt.Errorf("scan: %w", sql.ErrNoRows), store.ErrNotFound},
		{"unique", &pgconn.PgError{Code: "23505", ConstraintName: "sync_runs_pkey"}, store.ErrDuplicate},
		{"foreign key", &pgconn.PgError{Code: "23503", ConstraintName: "sync_entries_run_id_fkey"}, store.ErrInvalidEntity},
		{"check", &pgconn.PgError{Code: "23514", ConstraintName: "sync_entries_outcome_check"}, store.ErrInvalidEntity},
		{"not null", &pgconn.PgError{Code: "23502", ColumnName: "deck"}, store.ErrInvalidEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mapped := journaldb.MapError(tt.err)
			assert.ErrorIs(t, mapped, tt.want)
		})
	}

	t.Run("nil", func(t *testing.T) {
		assert.NoError(t, journaldb.MapError(nil))
	})

	t.Run("unmapped errors pass through", func(t *testing.T) {
		boom := errors.New("connection reset")
		assert.Same(t, boom, journaldb.MapError(boom))

		pgErr := &pgconn.PgError{Code: "40001"}
		assert.Same(t, pgErr, journaldb.MapError(pgErr))
	})
}

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	assert.True(t, journaldb.IsUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, journaldb.IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, journaldb.IsUniqueViolation(errors.New("other")))
	assert.False(t, journaldb.IsUniqueViolation(nil))
}
