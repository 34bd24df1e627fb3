package events_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/scry-sync/internal/domain"
	"github.com/phrazzld/scry-sync/internal/events"
	"github.com/phrazzld/scry-sync/internal/platform/logger"
)

func TestLogHandler(t *testing.T) {
	t.Parallel()

	log, buf := logger.GetTestLogger(t)
	h := events.NewLogHandler(log)
	ctx := context.Background()
	runID := uuid.New()

	run := domain.NewSyncRun("Deck", "/vault", false)
	require.NoError(t, h.HandleEvent(ctx, events.NewRunEvent(events.TypeRunStarted, run)))
	require.NoError(t, h.HandleEvent(ctx, events.NewCardEvent(runID, domain.Card{ID: "1", Source: "a.md"}, domain.OutcomeApplied, "", "")))
	require.NoError(t, h.HandleEvent(ctx, events.NewCardEvent(runID, domain.Card{ID: "2", Source: "b.md"}, domain.OutcomeNotFound, "", "")))

	entries := buf.EntriesWithMessage("card synced")
	require.Len(t, entries, 2)
	assert.Equal(t, "INFO", entries[0]["level"])
	assert.Equal(t, "1", entries[0]["card_id"])
	assert.Equal(t, "WARN", entries[1]["level"])
	assert.Equal(t, "not_found", entries[1]["outcome"])
}
