package mocks

import (
	"context"
	"maps"
	"sync"

	"github.com/phrazzld/scry-sync/internal/domain"
)

// MockNoteSource implements service.NoteSource for testing.
type MockNoteSource struct {
	// DeckCardsFn overrides DeckCards when set
	DeckCardsFn func(ctx context.Context, deck string) (map[string]domain.Card, error)

	// Cards is returned by DeckCards when DeckCardsFn is nil
	Cards map[string]domain.Card

	// Err is returned by DeckCards when DeckCardsFn is nil
	Err error

	mu    sync.Mutex
	decks []string
}

// DeckCards implements service.NoteSource.
func (m *MockNoteSource) DeckCards(ctx context.Context, deck string) (map[string]domain.Card, error) {
	m.mu.Lock()
	m.decks = append(m.decks, deck)
	m.mu.Unlock()

	if m.DeckCardsFn != nil {
		return m.DeckCardsFn(ctx, deck)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return maps.Clone(m.Cards), nil
}

// Decks returns the deck names requested so far.
func (m *MockNoteSource) Decks() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.decks...)
}

// MockCardLoader implements service.CardLoader for testing.
type MockCardLoader struct {
	// LoadCardsFn overrides LoadCards when set
	LoadCardsFn func(ctx context.Context) (map[string]domain.Card, error)

	// Cards is returned by LoadCards when LoadCardsFn is nil
	Cards map[string]domain.Card

	// Err is returned by LoadCards when LoadCardsFn is nil
	Err error

	// Calls counts LoadCards invocations
	Calls int
}

// LoadCards implements service.CardLoader.
func (m *MockCardLoader) LoadCards(ctx context.Context) (map[string]domain.Card, error) {
	m.Calls++
	if m.LoadCardsFn != nil {
		return m.LoadCardsFn(ctx)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return maps.Clone(m.Cards), nil
}
