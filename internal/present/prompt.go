package present

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/phrazzld/scry-sync/internal/domain"
)

// ErrNoAnswer is returned when input ends before an answer is read.
var ErrNoAnswer = errors.New("no answer given")

// Prompter asks on out whether a change should be applied and reads the
// answer from in.
type Prompter struct {
	mu  sync.Mutex
	in  *bufio.Reader
	out io.Writer
}

// NewPrompter creates a Prompter reading answers from in.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// Confirm prints the card ID and diff, then asks for a y/n answer.
// Only "y" (case-insensitive, surrounding space ignored) confirms.
func (p *Prompter) Confirm(ctx context.Context, card domain.Card, diff string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return false, err
	}

	if _, err := fmt.Fprintf(p.out, "Card ID: %s\n%s\nDo you want to sync this card? (y/n): ", card.ID, strings.TrimRight(diff, "\n")); err != nil {
		return false, fmt.Errorf("failed to write prompt: %w", err)
	}

	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		if errors.Is(err, io.EOF) {
			return false, ErrNoAnswer
		}
		return false, fmt.Errorf("failed to read answer: %w", err)
	}

	return strings.ToLower(strings.TrimSpace(line)) == "y", nil
}
