package ankiconnect

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/phrazzld/scry-sync/internal/domain"
	"github.com/phrazzld/scry-sync/internal/platform/logger"
	"github.com/phrazzld/scry-sync/internal/render"
)

// DeckQuery returns the search query selecting every note in deck.
func DeckQuery(deck string) string {
	escaped := strings.ReplaceAll(deck, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	return `deck:"` + escaped + `"`
}

// DeckCards returns the notes of deck as cards keyed by note ID.
//
// Front and back fields are rendered from HTML to Markdown. A question that
// renders to several lines is joined into one. Notes lacking either field
// are skipped with a warning.
func (c *Client) DeckCards(ctx context.Context, deck string) (map[string]domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, c.logger)

	ids, err := c.FindNotes(ctx, DeckQuery(deck))
	if err != nil {
		return nil, fmt.Errorf("failed to list notes in deck %q: %w", deck, err)
	}

	notes, err := c.NotesInfo(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch notes in deck %q: %w", deck, err)
	}

	cards := make(map[string]domain.Card, len(notes))
	for _, note := range notes {
		id := strconv.FormatInt(note.NoteID, 10)

		front, okFront := note.Fields[c.frontField]
		back, okBack := note.Fields[c.backField]
		if !okFront || !okBack {
			log.WarnContext(ctx, "note is missing question or answer field, skipping",
				"card_id", id,
				"model", note.ModelName,
				"front_field", c.frontField,
				"back_field", c.backField)
			continue
		}

		question := strings.Join(strings.Split(render.ToMarkdown(front.Value), "\n"), " ")
		cards[id] = domain.Card{
			ID:       id,
			Question: strings.TrimSpace(question),
			Answer:   strings.TrimSpace(render.ToMarkdown(back.Value)),
		}
	}

	log.DebugContext(ctx, "fetched deck",
		"deck", deck,
		"notes", len(ids),
		"cards", len(cards))

	return cards, nil
}
