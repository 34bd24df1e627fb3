package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-sync/internal/domain"
)

// JournalStore persists sync runs and the per-card outcomes recorded in them.
type JournalStore interface {
	// StartRun inserts a new run.
	// Returns ErrRunExists if a run with the same ID was already started.
	StartRun(ctx context.Context, run *domain.SyncRun) error

	// RecordEntry appends one card outcome to a started run.
	// Returns ErrInvalidEntity if the outcome is not a known value.
	RecordEntry(ctx context.Context, entry *domain.JournalEntry) error

	// FinishRun stores the final counters and finish time of a run.
	// Returns ErrRunNotFound if the run was never started.
	FinishRun(ctx context.Context, run *domain.SyncRun) error

	// RecentRuns returns up to limit runs, newest first.
	RecentRuns(ctx context.Context, limit int) ([]*domain.SyncRun, error)

	// EntriesForRun returns the entries of a run in the order they were recorded.
	EntriesForRun(ctx context.Context, runID uuid.UUID) ([]*domain.JournalEntry, error)

	// Prune deletes every run except the keep most recent ones, together with
	// their entries, and returns the number of runs deleted.
	Prune(ctx context.Context, keep int) (int, error)
}

// NopJournal is a JournalStore that stores nothing. It is used when no
// journal is configured.
type NopJournal struct{}

var _ JournalStore = NopJournal{}

// StartRun implements JournalStore.
func (NopJournal) StartRun(context.Context, *domain.SyncRun) error { return nil }

// RecordEntry implements JournalStore.
func (NopJournal) RecordEntry(context.Context, *domain.JournalEntry) error { return nil }

// FinishRun implements JournalStore.
func (NopJournal) FinishRun(context.Context, *domain.SyncRun) error { return nil }

// RecentRuns implements JournalStore.
func (NopJournal) RecentRuns(context.Context, int) ([]*domain.SyncRun, error) { return nil, nil }

// EntriesForRun implements JournalStore.
func (NopJournal) EntriesForRun(context.Context, uuid.UUID) ([]*domain.JournalEntry, error) {
	return nil, nil
}

// Prune implements JournalStore.
func (NopJournal) Prune(context.Context, int) (int, error) { return 0, nil }
