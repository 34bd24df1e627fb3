//go:build integration

package journaldb_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/scry-sync/internal/domain"
	"github.com/phrazzld/scry-sync/internal/platform/journaldb"
	"github.com/phrazzld/scry-sync/internal/platform/logger"
	"github.com/phrazzld/scry-sync/internal/store"
)

// postgresURL returns the database used by the Postgres journal tests.
// The tests are skipped when it is not set.
func postgresURL(t *testing.T) string {
	t.Helper()

	url := os.Getenv("SCRY_SYNC_TEST_POSTGRES_URL")
	if url == "" {
		t.Skip("SCRY_SYNC_TEST_POSTGRES_URL not set - skipping postgres journal test")
	}
	return url
}

func TestPostgresJournal_Lifecycle(t *testing.T) {
	ctx := context.Background()

	db, dialect, err := journaldb.Open(ctx, postgresURL(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.Equal(t, journaldb.DialectPostgres, dialect)

	log, _ := logger.GetTestLogger(t)
	require.NoError(t, journaldb.Migrate(ctx, db, dialect, log))

	s, err := journaldb.NewStore(db, dialect, log)
	require.NoError(t, err)

	run := domain.NewSyncRun("Postgres Deck", "/vault", true)
	require.NoError(t, s.StartRun(ctx, run))
	t.Cleanup(func() {
		_, _ = db.ExecContext(context.Background(), "DELETE FROM sync_runs WHERE id = $1", run.ID)
	})

	entry := &domain.JournalEntry{
		RunID:     run.ID,
		CardID:    "42",
		Source:    "/vault/go.md",
		Outcome:   domain.OutcomePreviewed,
		NewDigest: "abc",
	}
	require.NoError(t, s.RecordEntry(ctx, entry))

	err = s.StartRun(ctx, run)
	assert.ErrorIs(t, err, store.ErrRunExists)

	run.Count(domain.OutcomePreviewed)
	run.Finish()
	require.NoError(t, s.FinishRun(ctx, run))

	entries, err := s.EntriesForRun(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "42", entries[0].CardID)
	assert.Equal(t, domain.OutcomePreviewed, entries[0].Outcome)

	runs, err := s.RecentRuns(ctx, 50)
	require.NoError(t, err)
	var found bool
	for _, r := range runs {
		if r.ID == run.ID {
			found = true
			assert.True(t, r.Preview)
			assert.Equal(t, 1, r.Applied)
			assert.NotNil(t, r.FinishedAt)
		}
	}
	assert.True(t, found, "finished run is listed")
}
