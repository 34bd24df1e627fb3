// Package patch rewrites a single card inside a document.
//
// Every operation re-extracts the cards from the current document text
// before touching it. Offsets computed earlier, including those carried on
// the card passed in, are never used: any previous edit of the same document
// may have shifted them.
package patch

import (
	"fmt"

	"github.com/phrazzld/scry-sync/internal/domain"
	"github.com/phrazzld/scry-sync/internal/marker"
)

// Apply replaces the span of the card with the same identifier in text by
// the canonical rendering of card. Bytes outside that span are preserved.
//
// When the located card already carries the same question and answer, text
// is returned unchanged. Returns an error wrapping domain.ErrCardNotFound
// when no card with card.ID exists in text.
func Apply(text string, card domain.Card) (string, error) {
	if err := card.Validate(); err != nil {
		return text, fmt.Errorf("invalid card %s: %w", card.ID, err)
	}

	current, ok := marker.Find(text, card.ID)
	if !ok {
		return text, fmt.Errorf("%w: %s", domain.ErrCardNotFound, card.ID)
	}

	return splice(text, current, card), nil
}

// Locate returns the raw text currently stored for the card with the given
// identifier together with the freshly extracted card.
func Locate(text, id string) (string, domain.Card, error) {
	current, ok := marker.Find(text, id)
	if !ok {
		return "", domain.Card{}, fmt.Errorf("%w: %s", domain.ErrCardNotFound, id)
	}
	return text[current.Span.Start:current.Span.End], current, nil
}

func splice(text string, current, card domain.Card) string {
	if current.SameContent(card) {
		return text
	}
	return text[:current.Span.Start] + card.Render() + text[current.Span.End:]
}
