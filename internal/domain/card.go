package domain

import (
	"fmt"
	"strings"
)

// Marker literals that delimit a card inside a document.
const (
	// QuestionMarker starts a question line.
	QuestionMarker = "Q:"

	// IDMarkerOpen opens the identifier marker that closes a card.
	IDMarkerOpen = "<!--ID:"

	// IDMarkerClose closes the identifier marker.
	IDMarkerClose = "-->"
)

// Span is a half-open byte range [Start, End) into a document.
// It is only valid until the next edit of that document.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// Overlaps reports whether the two spans share at least one byte.
func (s Span) Overlaps(other Span) bool {
	return s.Start < other.End && other.Start < s.End
}

// Card is a single question/answer unit with a stable identifier.
//
// Cards are values created fresh by every extraction pass. Source is empty
// for cards that come from the remote note store and have not been matched
// to a document yet.
type Card struct {
	ID       string `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Source   string `json:"source,omitempty"`
	Span     Span   `json:"span"`
}

// NewCard builds a card with trimmed question and answer text.
// Returns an error if the identifier is empty or contains whitespace.
func NewCard(id, question, answer, source string) (Card, error) {
	card := Card{
		ID:       id,
		Question: strings.TrimSpace(question),
		Answer:   strings.TrimSpace(answer),
		Source:   source,
	}

	if err := card.Validate(); err != nil {
		return Card{}, err
	}

	return card, nil
}

// Validate checks that the card can be written back into a document
// without corrupting the marker grammar.
func (c Card) Validate() error {
	if c.ID == "" {
		return ErrCardIDEmpty
	}

	if strings.ContainsAny(c.ID, " \t\r\n") || strings.Contains(c.ID, IDMarkerClose) {
		return fmt.Errorf("%w: %q", ErrCardIDInvalid, c.ID)
	}

	if strings.Contains(c.Question, "\n") {
		return fmt.Errorf("%w: question spans multiple lines", ErrCardContentInvalid)
	}

	if strings.Contains(c.Answer, IDMarkerOpen) {
		return fmt.Errorf("%w: answer contains an identifier marker", ErrCardContentInvalid)
	}

	for _, line := range strings.Split(c.Answer, "\n") {
		if strings.HasPrefix(line, QuestionMarker) {
			return fmt.Errorf("%w: answer line starts a new question", ErrCardContentInvalid)
		}
	}

	return nil
}

// SameContent reports whether both cards carry the same question and answer.
func (c Card) SameContent(other Card) bool {
	return c.Question == other.Question && c.Answer == other.Answer
}

// Render returns the canonical document text for the card.
func (c Card) Render() string {
	return fmt.Sprintf("%s %s\n%s\n%s %s%s",
		QuestionMarker, c.Question, c.Answer, IDMarkerOpen, c.ID, IDMarkerClose)
}

// String implements fmt.Stringer.
func (c Card) String() string {
	return fmt.Sprintf("ID: %s\nSource: %s\nQ: %s\nA: %s", c.ID, c.Source, c.Question, c.Answer)
}
