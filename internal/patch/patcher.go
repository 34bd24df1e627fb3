package patch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/phrazzld/scry-sync/internal/domain"
	"github.com/phrazzld/scry-sync/internal/platform/logger"
)

// DocumentStore reads and writes whole documents by path.
type DocumentStore interface {
	ReadDocument(ctx context.Context, path string) (string, error)
	WriteDocument(ctx context.Context, path, content string) error
}

// Options controls where patched documents are written.
type Options struct {
	// Preview sends every write to PreviewPath instead of the source document.
	Preview bool

	// PreviewPath is the side file written in preview mode.
	PreviewPath string
}

// Result describes one patch operation.
type Result struct {
	// Located is the card as found in the document before the patch.
	Located domain.Card

	// Old is the raw span text that was replaced.
	Old string

	// New is the canonical rendering written in its place.
	New string

	// Target is the path that was written, empty when nothing was written.
	Target string

	// Changed reports whether the document text differs after the patch.
	Changed bool
}

// Patcher applies card updates to documents held in a DocumentStore.
type Patcher struct {
	docs   DocumentStore
	opts   Options
	logger *slog.Logger
}

// NewPatcher creates a Patcher. Returns an error if docs is nil or preview
// mode is requested without a preview path.
func NewPatcher(docs DocumentStore, opts Options, log *slog.Logger) (*Patcher, error) {
	if docs == nil {
		return nil, domain.NewValidationError("docs", "cannot be nil", domain.ErrValidation)
	}
	if opts.Preview && opts.PreviewPath == "" {
		return nil, domain.NewValidationError("preview_path", "required in preview mode", domain.ErrValidation)
	}
	if log == nil {
		log = slog.Default()
	}

	return &Patcher{
		docs:   docs,
		opts:   opts,
		logger: log.With(slog.String("component", "patcher")),
	}, nil
}

// Patch reads card.Source, re-locates the card and writes the patched text.
// No write happens when the card is missing from the document.
func (p *Patcher) Patch(ctx context.Context, card domain.Card) (*Result, error) {
	log := logger.FromContextOrDefault(ctx, p.logger)

	text, err := p.read(ctx, card)
	if err != nil {
		return nil, err
	}

	old, located, err := Locate(text, card.ID)
	if err != nil {
		return nil, fmt.Errorf("%w in %s", err, card.Source)
	}

	updated, err := Apply(text, card)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Located: located,
		Old:     old,
		New:     card.Render(),
		Changed: updated != text,
	}

	target := card.Source
	if p.opts.Preview {
		target = p.opts.PreviewPath
	} else if !result.Changed {
		log.Debug("card already up to date, skipping write",
			slog.String("card_id", card.ID),
			slog.String("source", card.Source))
		return result, nil
	}

	if err := p.docs.WriteDocument(ctx, target, updated); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", target, err)
	}
	result.Target = target

	log.Debug("card patched",
		slog.String("card_id", card.ID),
		slog.String("source", card.Source),
		slog.String("target", target),
		slog.Int("span_start", located.Span.Start),
		slog.Int("span_end", located.Span.End))

	return result, nil
}

// Preview returns the card's current text in its document (trimmed) and the
// text that Patch would write in its place. Nothing is written.
func (p *Patcher) Preview(ctx context.Context, card domain.Card) (string, string, error) {
	text, err := p.read(ctx, card)
	if err != nil {
		return "", "", err
	}

	old, _, err := Locate(text, card.ID)
	if err != nil {
		return "", "", fmt.Errorf("%w in %s", err, card.Source)
	}

	return strings.TrimSpace(old), card.Render(), nil
}

func (p *Patcher) read(ctx context.Context, card domain.Card) (string, error) {
	if card.Source == "" {
		return "", errors.New("card " + card.ID + " has no source document")
	}

	text, err := p.docs.ReadDocument(ctx, card.Source)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", card.Source, err)
	}
	return text, nil
}
