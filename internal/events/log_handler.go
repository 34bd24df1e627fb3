package events

import (
	"context"
	"log/slog"

	"github.com/phrazzld/scry-sync/internal/domain"
	"github.com/phrazzld/scry-sync/internal/platform/logger"
)

// LogHandler writes card outcomes to the logger. Failures and missing cards
// are logged at warn level, everything else at info.
type LogHandler struct {
	logger *slog.Logger
}

// NewLogHandler creates a LogHandler. A nil logger uses slog.Default.
func NewLogHandler(log *slog.Logger) *LogHandler {
	if log == nil {
		log = slog.Default()
	}
	return &LogHandler{logger: log}
}

// HandleEvent implements EventHandler.
func (h *LogHandler) HandleEvent(ctx context.Context, event *SyncEvent) error {
	if event.Type != TypeCardSynced {
		return nil
	}

	log := logger.FromContextOrDefault(ctx, h.logger)
	level := slog.LevelInfo
	if event.Outcome == domain.OutcomeFailed || event.Outcome == domain.OutcomeNotFound {
		level = slog.LevelWarn
	}

	log.Log(ctx, level, "card synced",
		slog.String("card_id", event.CardID),
		slog.String("source", event.Source),
		slog.String("outcome", string(event.Outcome)))
	return nil
}
