package events

import (
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"

	"github.com/zeebo/blake3"

	"github.com/phrazzld/scry-sync/internal/domain"
	"github.com/phrazzld/scry-sync/internal/platform/logger"
)

// Journal is the part of the journal store the handler writes to.
type Journal interface {
	StartRun(ctx context.Context, run *domain.SyncRun) error
	RecordEntry(ctx context.Context, entry *domain.JournalEntry) error
	FinishRun(ctx context.Context, run *domain.SyncRun) error
}

// JournalHandler records sync events in a Journal.
// Card text is stored as digests only.
type JournalHandler struct {
	journal Journal
	logger  *slog.Logger
}

// NewJournalHandler creates a handler writing to journal.
func NewJournalHandler(journal Journal, log *slog.Logger) (*JournalHandler, error) {
	if journal == nil {
		return nil, domain.NewValidationError("journal", "cannot be nil", domain.ErrValidation)
	}
	if log == nil {
		log = slog.Default()
	}
	return &JournalHandler{
		journal: journal,
		logger:  log.With(slog.String("component", "journal_handler")),
	}, nil
}

var _ EventHandler = (*JournalHandler)(nil)

// HandleEvent implements EventHandler.
func (h *JournalHandler) HandleEvent(ctx context.Context, event *SyncEvent) error {
	log := logger.FromContextOrDefault(ctx, h.logger)

	switch event.Type {
	case TypeRunStarted:
		if err := h.journal.StartRun(ctx, event.Run); err != nil {
			return fmt.Errorf("failed to journal run start: %w", err)
		}
	case TypeCardSynced:
		entry := &domain.JournalEntry{
			ID:        event.ID,
			RunID:     event.RunID,
			CardID:    event.CardID,
			Source:    event.Source,
			Outcome:   event.Outcome,
			OldDigest: Digest(event.OldText),
			NewDigest: Digest(event.NewText),
			CreatedAt: event.CreatedAt,
		}
		if err := h.journal.RecordEntry(ctx, entry); err != nil {
			return fmt.Errorf("failed to journal card %s: %w", event.CardID, err)
		}
	case TypeRunFinished:
		if err := h.journal.FinishRun(ctx, event.Run); err != nil {
			return fmt.Errorf("failed to journal run finish: %w", err)
		}
	default:
		log.Debug("ignoring event type", slog.String("event_type", event.Type))
	}

	return nil
}

// Digest returns the hex BLAKE3 digest of text, or "" for empty text.
func Digest(text string) string {
	if text == "" {
		return ""
	}
	sum := blake3.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
