package events

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/scry-sync/internal/domain"
)

type recordingJournal struct {
	started  []*domain.SyncRun
	entries  []*domain.JournalEntry
	finished []*domain.SyncRun
	err      error
}

func (j *recordingJournal) StartRun(_ context.Context, run *domain.SyncRun) error {
	j.started = append(j.started, run)
	return j.err
}

func (j *recordingJournal) RecordEntry(_ context.Context, entry *domain.JournalEntry) error {
	j.entries = append(j.entries, entry)
	return j.err
}

func (j *recordingJournal) FinishRun(_ context.Context, run *domain.SyncRun) error {
	j.finished = append(j.finished, run)
	return j.err
}

func TestNewJournalHandler_NilJournal(t *testing.T) {
	t.Parallel()

	h, err := NewJournalHandler(nil, nil)
	assert.Nil(t, h)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestJournalHandler_RecordsRunLifecycle(t *testing.T) {
	t.Parallel()

	journal := &recordingJournal{}
	h, err := NewJournalHandler(journal, nil)
	require.NoError(t, err)

	ctx := context.Background()
	run := domain.NewSyncRun("Deck", "/vault", false)
	card := domain.Card{ID: "7", Source: "notes.md"}

	require.NoError(t, h.HandleEvent(ctx, NewRunEvent(TypeRunStarted, run)))
	require.NoError(t, h.HandleEvent(ctx, NewCardEvent(run.ID, card, domain.OutcomeApplied, "old text", "new text")))
	run.Finish()
	require.NoError(t, h.HandleEvent(ctx, NewRunEvent(TypeRunFinished, run)))

	require.Len(t, journal.started, 1)
	assert.Equal(t, run.ID, journal.started[0].ID)

	require.Len(t, journal.entries, 1)
	entry := journal.entries[0]
	assert.Equal(t, run.ID, entry.RunID)
	assert.Equal(t, "7", entry.CardID)
	assert.Equal(t, "notes.md", entry.Source)
	assert.Equal(t, domain.OutcomeApplied, entry.Outcome)
	assert.Equal(t, Digest("old text"), entry.OldDigest)
	assert.Equal(t, Digest("new text"), entry.NewDigest)

	require.Len(t, journal.finished, 1)
	assert.NotNil(t, journal.finished[0].FinishedAt)
}

func TestJournalHandler_WrapsErrors(t *testing.T) {
	t.Parallel()

	boom := errors.New("disk full")
	h, err := NewJournalHandler(&recordingJournal{err: boom}, nil)
	require.NoError(t, err)

	event := NewCardEvent(uuid.New(), domain.Card{ID: "9"}, domain.OutcomeFailed, "", "")
	err = h.HandleEvent(context.Background(), event)

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "card 9")
}

func TestJournalHandler_IgnoresUnknownTypes(t *testing.T) {
	t.Parallel()

	journal := &recordingJournal{}
	h, err := NewJournalHandler(journal, nil)
	require.NoError(t, err)

	event := &SyncEvent{ID: uuid.New(), Type: "something.else"}
	require.NoError(t, h.HandleEvent(context.Background(), event))

	assert.Empty(t, journal.started)
	assert.Empty(t, journal.entries)
	assert.Empty(t, journal.finished)
}

func TestDigest(t *testing.T) {
	t.Parallel()

	assert.Empty(t, Digest(""))
	assert.Len(t, Digest("Q: a\nb\n<!--ID: 1-->"), 64)
	assert.Equal(t, Digest("same"), Digest("same"))
	assert.NotEqual(t, Digest("a"), Digest("b"))
}
