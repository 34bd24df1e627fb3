// Package marker extracts flashcards from plain-text documents.
//
// A card is written as a question line, one or more answer lines, and a
// closing identifier marker:
//
//	Q: What is Go?
//	- A programming language
//	<!--ID: 1712345678901-->
//
// The scanner is a line-oriented state machine. It never backtracks: the
// first identifier marker after an open question closes the card, and a
// question that reaches another "Q:" line or the end of the document before
// any marker is dropped without error.
package marker

import (
	"iter"
	"slices"
	"strings"
	"unicode"

	"github.com/phrazzld/scry-sync/internal/domain"
)

type state int

const (
	seekingQuestion state = iota
	accumulatingAnswer
)

// openQuestion is a question line waiting for its identifier marker.
type openQuestion struct {
	start       int
	question    string
	answerStart int
	answerLines int
}

// Extract returns every card in text, in document order.
func Extract(text, source string) []domain.Card {
	return slices.Collect(Cards(text, source))
}

// Cards returns the cards in text as a lazy sequence. The sequence is pure:
// ranging over it again rescans text and yields the same cards.
func Cards(text, source string) iter.Seq[domain.Card] {
	return func(yield func(domain.Card) bool) {
		st := seekingQuestion
		var open openQuestion

		for pos := 0; pos < len(text); {
			lineEnd := strings.IndexByte(text[pos:], '\n')
			next := len(text)
			terminated := lineEnd >= 0
			if terminated {
				lineEnd += pos
				next = lineEnd + 1
			} else {
				lineEnd = len(text)
			}
			line := text[pos:lineEnd]

			switch {
			case strings.HasPrefix(line, domain.QuestionMarker):
				// A question line always restarts the block, dropping any
				// unterminated question before it.
				st = seekingQuestion
				if terminated {
					open = openQuestion{
						start:       pos,
						question:    line[len(domain.QuestionMarker):],
						answerStart: next,
					}
					st = accumulatingAnswer
				}

			case st == accumulatingAnswer:
				id, closeAt, ok := parseIDMarker(line)
				if !ok {
					if terminated {
						open.answerLines++
					}
					break
				}

				st = seekingQuestion
				if open.answerLines == 0 {
					break
				}

				card := domain.Card{
					ID:       id,
					Question: strings.TrimSpace(open.question),
					Answer:   strings.TrimSpace(text[open.answerStart:pos]),
					Source:   source,
					Span:     domain.Span{Start: open.start, End: pos + closeAt},
				}
				if !yield(card) {
					return
				}
			}

			pos = next
		}
	}
}

// Find returns the first card in text with the given identifier.
func Find(text, id string) (domain.Card, bool) {
	for card := range Cards(text, "") {
		if card.ID == id {
			return card, true
		}
	}
	return domain.Card{}, false
}

// parseIDMarker reads an identifier marker at the start of line. It returns
// the identifier and the offset just past the closing "-->".
func parseIDMarker(line string) (string, int, bool) {
	if !strings.HasPrefix(line, domain.IDMarkerOpen) {
		return "", 0, false
	}

	rest := line[len(domain.IDMarkerOpen):]
	end := strings.Index(rest, domain.IDMarkerClose)
	if end < 0 {
		return "", 0, false
	}

	id := strings.TrimSpace(rest[:end])
	if id == "" || strings.IndexFunc(id, unicode.IsSpace) >= 0 {
		return "", 0, false
	}

	return id, len(domain.IDMarkerOpen) + end + len(domain.IDMarkerClose), true
}
