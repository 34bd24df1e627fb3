package journaldb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/scry-sync/internal/domain"
	"github.com/phrazzld/scry-sync/internal/platform/logger"
	"github.com/phrazzld/scry-sync/internal/store"
)

// Store implements store.JournalStore on a SQL database.
type Store struct {
	db      *sql.DB
	dialect Dialect
	logger  *slog.Logger
}

var _ store.JournalStore = (*Store)(nil)

// NewStore creates a journal store on an open, migrated database.
func NewStore(db *sql.DB, dialect Dialect, log *slog.Logger) (*Store, error) {
	if db == nil {
		return nil, domain.NewValidationError("db", "cannot be nil", domain.ErrValidation)
	}
	if dialect != DialectPostgres && dialect != DialectSQLite {
		return nil, domain.NewValidationError("dialect", fmt.Sprintf("unsupported value %q", dialect), domain.ErrValidation)
	}
	if log == nil {
		log = slog.Default()
	}

	return &Store{
		db:      db,
		dialect: dialect,
		logger:  log.With(slog.String("component", "journal_store")),
	}, nil
}

func (s *Store) exec(ctx context.Context, q store.DBTX, query string, args ...any) (sql.Result, error) {
	return q.ExecContext(ctx, rebind(s.dialect, query), args...)
}

// StartRun implements store.JournalStore.
func (s *Store) StartRun(ctx context.Context, run *domain.SyncRun) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	_, err := s.exec(ctx, s.db, `
		INSERT INTO sync_runs (id, deck, vault_dir, preview, started_at)
		VALUES (?, ?, ?, ?, ?)`,
		run.ID, run.Deck, run.VaultDir, run.Preview, run.StartedAt.UTC(),
	)
	if err != nil {
		err = MapError(err)
		if store.IsDuplicateError(err) {
			return fmt.Errorf("%w: %s", store.ErrRunExists, run.ID)
		}
		log.Error("failed to insert sync run",
			slog.String("run_id", run.ID.String()),
			slog.String("error", err.Error()))
		return store.NewStoreError("sync_run", "start", "insert failed", err)
	}

	return nil
}

// RecordEntry implements store.JournalStore.
func (s *Store) RecordEntry(ctx context.Context, entry *domain.JournalEntry) error {
	if !entry.Outcome.IsValid() {
		return fmt.Errorf("%w: unknown outcome %q", store.ErrInvalidEntity, entry.Outcome)
	}
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := s.exec(ctx, s.db, `
		INSERT INTO sync_entries (id, run_id, card_id, source, outcome, old_digest, new_digest, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.RunID, entry.CardID, entry.Source, string(entry.Outcome),
		entry.OldDigest, entry.NewDigest, entry.CreatedAt.UTC(),
	)
	if err != nil {
		return store.NewStoreError("sync_entry", "record", "insert failed", MapError(err))
	}
	return nil
}

// FinishRun implements store.JournalStore.
func (s *Store) FinishRun(ctx context.Context, run *domain.SyncRun) error {
	finishedAt := time.Now().UTC()
	if run.FinishedAt != nil {
		finishedAt = run.FinishedAt.UTC()
	}

	res, err := s.exec(ctx, s.db, `
		UPDATE sync_runs
		SET finished_at = ?, local_cards = ?, remote_cards = ?, local_only = ?, remote_only = ?,
		    changed = ?, applied = ?, skipped = ?, not_found = ?, failed = ?
		WHERE id = ?`,
		finishedAt, run.LocalCards, run.RemoteCards, run.LocalOnly, run.RemoteOnly,
		run.Changed, run.Applied, run.Skipped, run.NotFound, run.Failed,
		run.ID,
	)
	if err != nil {
		return store.NewStoreError("sync_run", "finish", "update failed", MapError(err))
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return store.NewStoreError("sync_run", "finish", "rows affected unavailable", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", store.ErrRunNotFound, run.ID)
	}
	return nil
}

// RecentRuns implements store.JournalStore.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]*domain.SyncRun, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive", store.ErrInvalidEntity)
	}

	rows, err := s.db.QueryContext(ctx, rebind(s.dialect, `
		SELECT id, deck, vault_dir, preview, started_at, finished_at,
		       local_cards, remote_cards, local_only, remote_only,
		       changed, applied, skipped, not_found, failed
		FROM sync_runs
		ORDER BY started_at DESC, id DESC
		LIMIT ?`), limit)
	if err != nil {
		return nil, store.NewStoreError("sync_run", "list", "query failed", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	var runs []*domain.SyncRun
	for rows.Next() {
		var (
			run        domain.SyncRun
			finishedAt sql.NullTime
		)
		if err := rows.Scan(
			&run.ID, &run.Deck, &run.VaultDir, &run.Preview, &run.StartedAt, &finishedAt,
			&run.LocalCards, &run.RemoteCards, &run.LocalOnly, &run.RemoteOnly,
			&run.Changed, &run.Applied, &run.Skipped, &run.NotFound, &run.Failed,
		); err != nil {
			return nil, store.NewStoreError("sync_run", "list", "scan failed", err)
		}
		if finishedAt.Valid {
			t := finishedAt.Time.UTC()
			run.FinishedAt = &t
		}
		run.StartedAt = run.StartedAt.UTC()
		runs = append(runs, &run)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("sync_run", "list", "iteration failed", err)
	}

	return runs, nil
}

// EntriesForRun implements store.JournalStore.
func (s *Store) EntriesForRun(ctx context.Context, runID uuid.UUID) ([]*domain.JournalEntry, error) {
	rows, err := s.db.QueryContext(ctx, rebind(s.dialect, `
		SELECT id, run_id, card_id, source, outcome, old_digest, new_digest, created_at
		FROM sync_entries
		WHERE run_id = ?
		ORDER BY created_at, card_id`), runID)
	if err != nil {
		return nil, store.NewStoreError("sync_entry", "list", "query failed", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	var entries []*domain.JournalEntry
	for rows.Next() {
		var (
			entry   domain.JournalEntry
			outcome string
		)
		if err := rows.Scan(
			&entry.ID, &entry.RunID, &entry.CardID, &entry.Source, &outcome,
			&entry.OldDigest, &entry.NewDigest, &entry.CreatedAt,
		); err != nil {
			return nil, store.NewStoreError("sync_entry", "list", "scan failed", err)
		}
		entry.Outcome = domain.Outcome(outcome)
		entry.CreatedAt = entry.CreatedAt.UTC()
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("sync_entry", "list", "iteration failed", err)
	}

	return entries, nil
}

// Prune implements store.JournalStore.
func (s *Store) Prune(ctx context.Context, keep int) (int, error) {
	if keep < 0 {
		return 0, fmt.Errorf("%w: keep cannot be negative", store.ErrInvalidEntity)
	}

	const kept = `SELECT id FROM sync_runs ORDER BY started_at DESC, id DESC LIMIT ?`

	var deleted int64
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := s.exec(ctx, tx,
			`DELETE FROM sync_entries WHERE run_id NOT IN (`+kept+`)`, keep); err != nil {
			return MapError(err)
		}

		res, err := s.exec(ctx, tx, `DELETE FROM sync_runs WHERE id NOT IN (`+kept+`)`, keep)
		if err != nil {
			return MapError(err)
		}
		deleted, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, store.NewStoreError("sync_run", "prune", "delete failed", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("pruned sync journal",
		slog.Int("kept", keep),
		slog.Int64("deleted_runs", deleted))

	return int(deleted), nil
}
