package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-sync/internal/domain"
)

// Event types emitted during a sync run.
const (
	TypeRunStarted  = "sync.run_started"
	TypeCardSynced  = "sync.card_synced"
	TypeRunFinished = "sync.run_finished"
)

// SyncEvent reports progress of a sync run.
type SyncEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type is one of the Type* constants
	Type string `json:"type"`

	// RunID identifies the run the event belongs to
	RunID uuid.UUID `json:"run_id"`

	// Run is set on run events and holds the counters at emit time
	Run *domain.SyncRun `json:"run,omitempty"`

	// Card fields are set on TypeCardSynced events.
	CardID  string         `json:"card_id,omitempty"`
	Source  string         `json:"source,omitempty"`
	Outcome domain.Outcome `json:"outcome,omitempty"`
	OldText string         `json:"-"`
	NewText string         `json:"-"`

	// CreatedAt is the timestamp when the event was created
	CreatedAt time.Time `json:"created_at"`
}

// NewRunEvent creates a run-level event carrying a snapshot of run.
func NewRunEvent(eventType string, run *domain.SyncRun) *SyncEvent {
	snapshot := *run
	return &SyncEvent{
		ID:        uuid.New(),
		Type:      eventType,
		RunID:     run.ID,
		Run:       &snapshot,
		CreatedAt: time.Now().UTC(),
	}
}

// NewCardEvent creates a TypeCardSynced event for one changed card.
// oldText is the card's text in the document, newText the text that replaced it.
func NewCardEvent(runID uuid.UUID, card domain.Card, outcome domain.Outcome, oldText, newText string) *SyncEvent {
	return &SyncEvent{
		ID:        uuid.New(),
		Type:      TypeCardSynced,
		RunID:     runID,
		CardID:    card.ID,
		Source:    card.Source,
		Outcome:   outcome,
		OldText:   oldText,
		NewText:   newText,
		CreatedAt: time.Now().UTC(),
	}
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	HandleEvent(ctx context.Context, event *SyncEvent) error
}

// EventHandlerFunc adapts a function to the EventHandler interface.
type EventHandlerFunc func(ctx context.Context, event *SyncEvent) error

// HandleEvent calls f(ctx, event).
func (f EventHandlerFunc) HandleEvent(ctx context.Context, event *SyncEvent) error {
	return f(ctx, event)
}

// EventEmitter defines an interface for components that can emit events.
// This allows services to publish events without direct knowledge of handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	EmitEvent(ctx context.Context, event *SyncEvent) error
}
