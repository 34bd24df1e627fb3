package mocks

import (
	"context"

	"github.com/phrazzld/scry-sync/internal/domain"
)

// MockConfirmer implements service.Confirmer for testing.
// Answers are consumed in order; once exhausted, Default is returned.
type MockConfirmer struct {
	// ConfirmFn overrides Confirm when set
	ConfirmFn func(ctx context.Context, card domain.Card, diff string) (bool, error)

	Answers []bool
	Default bool

	// Asked records the card ID and diff of every Confirm call
	Asked []ConfirmCall
}

// ConfirmCall is one recorded Confirm call.
type ConfirmCall struct {
	CardID string
	Diff   string
}

// Confirm implements service.Confirmer.
func (m *MockConfirmer) Confirm(ctx context.Context, card domain.Card, diff string) (bool, error) {
	m.Asked = append(m.Asked, ConfirmCall{CardID: card.ID, Diff: diff})

	if m.ConfirmFn != nil {
		return m.ConfirmFn(ctx, card, diff)
	}
	if len(m.Answers) > 0 {
		answer := m.Answers[0]
		m.Answers = m.Answers[1:]
		return answer, nil
	}
	return m.Default, nil
}
