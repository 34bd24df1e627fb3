package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/scry-sync/internal/domain"
	"github.com/phrazzld/scry-sync/internal/events"
	"github.com/phrazzld/scry-sync/internal/patch"
	"github.com/phrazzld/scry-sync/internal/platform/logger"
	"github.com/phrazzld/scry-sync/internal/present"
	"github.com/phrazzld/scry-sync/internal/reconcile"
)

// NoteSource returns the remote cards of a deck keyed by identifier.
type NoteSource interface {
	DeckCards(ctx context.Context, deck string) (map[string]domain.Card, error)
}

// CardLoader returns every card found in the local documents keyed by identifier.
type CardLoader interface {
	LoadCards(ctx context.Context) (map[string]domain.Card, error)
}

// CardPatcher writes a card back into its source document.
type CardPatcher interface {
	Patch(ctx context.Context, card domain.Card) (*patch.Result, error)
	Preview(ctx context.Context, card domain.Card) (string, string, error)
}

// Confirmer asks whether one change should be applied.
type Confirmer interface {
	Confirm(ctx context.Context, card domain.Card, diff string) (bool, error)
}

// SyncOptions controls one sync run.
type SyncOptions struct {
	Deck     string
	VaultDir string

	// Preview records outcomes as previewed; the patcher decides where the
	// text actually goes.
	Preview bool

	// Interactive asks the Confirmer before each change.
	Interactive bool

	// ContextLines and Color control the diff shown when asking.
	ContextLines int
	Color        bool
}

// SyncService runs reconciliation passes.
type SyncService struct {
	notes     NoteSource
	cards     CardLoader
	patcher   CardPatcher
	emitter   events.EventEmitter
	confirmer Confirmer
	logger    *slog.Logger
}

// NewSyncService creates a SyncService.
// It returns an error if any required dependency is nil. confirmer may be
// nil when no run is interactive.
func NewSyncService(
	notes NoteSource,
	cards CardLoader,
	patcher CardPatcher,
	emitter events.EventEmitter,
	confirmer Confirmer,
	logger *slog.Logger,
) (*SyncService, error) {
	if notes == nil {
		return nil, &SyncServiceError{Operation: "create_service", Message: "notes cannot be nil"}
	}
	if cards == nil {
		return nil, &SyncServiceError{Operation: "create_service", Message: "cards cannot be nil"}
	}
	if patcher == nil {
		return nil, &SyncServiceError{Operation: "create_service", Message: "patcher cannot be nil"}
	}
	if emitter == nil {
		return nil, &SyncServiceError{Operation: "create_service", Message: "emitter cannot be nil"}
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &SyncService{
		notes:     notes,
		cards:     cards,
		patcher:   patcher,
		emitter:   emitter,
		confirmer: confirmer,
		logger:    logger.With("component", "sync_service"),
	}, nil
}

// Run performs one sync pass and returns its summary.
//
// Local documents are loaded first, then the remote deck. Each card whose
// content differs is patched in identifier order. A missing card or a failed
// write is counted and the run continues; a remote failure aborts the run
// with an error wrapping domain.ErrRemoteUnavailable. The returned run is
// non-nil whenever it was started, even on error.
func (s *SyncService) Run(ctx context.Context, opts SyncOptions) (*domain.SyncRun, error) {
	if opts.Deck == "" {
		return nil, ErrDeckRequired
	}
	if opts.Interactive && s.confirmer == nil {
		return nil, ErrConfirmerRequired
	}

	run := domain.NewSyncRun(opts.Deck, opts.VaultDir, opts.Preview)
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("run_id", run.ID.String()),
		slog.String("deck", opts.Deck))
	ctx = logger.WithLogger(ctx, log)

	log.Info("starting sync run",
		slog.String("vault_dir", opts.VaultDir),
		slog.Bool("preview", opts.Preview),
		slog.Bool("interactive", opts.Interactive))
	s.emit(ctx, events.NewRunEvent(events.TypeRunStarted, run))

	err := s.run(ctx, run, opts)

	run.Finish()
	s.emit(ctx, events.NewRunEvent(events.TypeRunFinished, run))

	if err != nil {
		log.Error("sync run aborted",
			slog.String("error", err.Error()),
			slog.Int("applied", run.Applied),
			slog.Int("changed", run.Changed))
		return run, err
	}

	log.Info("sync run complete",
		slog.Int("local_cards", run.LocalCards),
		slog.Int("remote_cards", run.RemoteCards),
		slog.Int("local_only", run.LocalOnly),
		slog.Int("remote_only", run.RemoteOnly),
		slog.Int("changed", run.Changed),
		slog.Int("applied", run.Applied),
		slog.Int("skipped", run.Skipped),
		slog.Int("not_found", run.NotFound),
		slog.Int("failed", run.Failed),
		slog.Int64("duration_ms", run.FinishedAt.Sub(run.StartedAt).Milliseconds()))

	return run, nil
}

func (s *SyncService) run(ctx context.Context, run *domain.SyncRun, opts SyncOptions) error {
	log := logger.FromContext(ctx)

	local, err := s.cards.LoadCards(ctx)
	if err != nil {
		return NewSyncServiceError("load_local", "failed to load local cards", err)
	}

	remote, err := s.notes.DeckCards(ctx, opts.Deck)
	if err != nil {
		return NewSyncServiceError("fetch_remote", "failed to fetch remote cards", err)
	}

	summary := reconcile.Summarize(local, remote)
	run.LocalCards = summary.Local
	run.RemoteCards = summary.Remote
	run.LocalOnly = summary.LocalOnly
	run.RemoteOnly = summary.RemoteOnly
	run.Changed = summary.Changed

	if summary.LocalOnly > 0 {
		log.Debug("cards only in local documents", slog.Any("card_ids", reconcile.LocalOnly(local, remote)))
	}
	if summary.RemoteOnly > 0 {
		log.Debug("cards only in remote deck", slog.Any("card_ids", reconcile.RemoteOnly(local, remote)))
	}

	for _, card := range reconcile.DiffCards(local, remote) {
		if err := ctx.Err(); err != nil {
			return NewSyncServiceError("apply", "run cancelled", err)
		}

		outcome, old, updated, err := s.syncCard(ctx, card, opts)
		if err != nil {
			return err
		}

		run.Count(outcome)
		s.emit(ctx, events.NewCardEvent(run.ID, card, outcome, old, updated))
	}

	return nil
}

// syncCard handles one change and returns its outcome with the old and new
// span text. Only a failure to ask for confirmation is returned as an error.
func (s *SyncService) syncCard(ctx context.Context, card domain.Card, opts SyncOptions) (domain.Outcome, string, string, error) {
	log := logger.FromContext(ctx).With(
		slog.String("card_id", card.ID),
		slog.String("source", card.Source))

	if opts.Interactive {
		old, updated, err := s.patcher.Preview(ctx, card)
		if err != nil {
			return s.patchFailure(log, err), "", "", nil
		}

		diff := present.RenderDiff(old, updated, present.Options{
			ContextLines: opts.ContextLines,
			Color:        opts.Color,
		})
		ok, err := s.confirmer.Confirm(ctx, card, diff)
		if err != nil {
			return "", "", "", NewSyncServiceError("confirm", fmt.Sprintf("failed to confirm card %s", card.ID), err)
		}
		if !ok {
			log.Info("card skipped by user")
			return domain.OutcomeSkipped, old, updated, nil
		}
	}

	result, err := s.patcher.Patch(ctx, card)
	if err != nil {
		return s.patchFailure(log, err), "", "", nil
	}

	outcome := domain.OutcomeApplied
	if opts.Preview {
		outcome = domain.OutcomePreviewed
	}
	log.Debug("card synced",
		slog.String("outcome", string(outcome)),
		slog.String("target", result.Target))

	return outcome, result.Old, result.New, nil
}

func (s *SyncService) patchFailure(log *slog.Logger, err error) domain.Outcome {
	if errors.Is(err, domain.ErrCardNotFound) {
		log.Error("card no longer present in document, skipping",
			slog.String("error", err.Error()))
		return domain.OutcomeNotFound
	}

	log.Error("failed to patch card",
		slog.String("error", err.Error()))
	return domain.OutcomeFailed
}

// emit publishes an event. Handler failures are logged and never abort a run.
func (s *SyncService) emit(ctx context.Context, event *events.SyncEvent) {
	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		logger.FromContext(ctx).Warn("failed to handle sync event",
			slog.String("event_type", event.Type),
			slog.String("error", err.Error()))
	}
}
