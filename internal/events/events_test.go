package events

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/phrazzld/scry-sync/internal/domain"
)

func TestNewRunEvent(t *testing.T) {
	t.Parallel()

	run := domain.NewSyncRun("Deck", "/vault", false)
	run.Changed = 3

	event := NewRunEvent(TypeRunStarted, run)

	assert.NotEqual(t, uuid.Nil, event.ID)
	assert.Equal(t, TypeRunStarted, event.Type)
	assert.Equal(t, run.ID, event.RunID)
	assert.WithinDuration(t, time.Now(), event.CreatedAt, 2*time.Second)

	// the event holds a snapshot, later counter changes do not leak into it
	run.Changed = 5
	assert.Equal(t, 3, event.Run.Changed)
}

func TestNewCardEvent(t *testing.T) {
	t.Parallel()

	runID := uuid.New()
	card := domain.Card{ID: "42", Question: "Q", Answer: "A", Source: "notes.md"}

	event := NewCardEvent(runID, card, domain.OutcomeApplied, "old", "new")

	assert.Equal(t, TypeCardSynced, event.Type)
	assert.Equal(t, runID, event.RunID)
	assert.Equal(t, "42", event.CardID)
	assert.Equal(t, "notes.md", event.Source)
	assert.Equal(t, domain.OutcomeApplied, event.Outcome)
	assert.Equal(t, "old", event.OldText)
	assert.Equal(t, "new", event.NewText)
	assert.Nil(t, event.Run)
}

// MockEventHandler implements the EventHandler interface for testing
type MockEventHandler struct {
	// The last event received by this handler
	LastEvent *SyncEvent
	// Error to return from HandleEvent
	HandlerError error
	// Count of events handled
	HandledCount int
}

// HandleEvent implements the EventHandler interface
func (h *MockEventHandler) HandleEvent(ctx context.Context, event *SyncEvent) error {
	h.LastEvent = event
	h.HandledCount++
	return h.HandlerError
}
