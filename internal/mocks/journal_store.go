package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/phrazzld/scry-sync/internal/domain"
	"github.com/phrazzld/scry-sync/internal/store"
)

// MockJournalStore is a mock of store.JournalStore for use with testify/mock.
type MockJournalStore struct {
	mock.Mock
}

var _ store.JournalStore = (*MockJournalStore)(nil)

// StartRun is a mock implementation of store.JournalStore.StartRun
func (m *MockJournalStore) StartRun(ctx context.Context, run *domain.SyncRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

// RecordEntry is a mock implementation of store.JournalStore.RecordEntry
func (m *MockJournalStore) RecordEntry(ctx context.Context, entry *domain.JournalEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

// FinishRun is a mock implementation of store.JournalStore.FinishRun
func (m *MockJournalStore) FinishRun(ctx context.Context, run *domain.SyncRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

// RecentRuns is a mock implementation of store.JournalStore.RecentRuns
func (m *MockJournalStore) RecentRuns(ctx context.Context, limit int) ([]*domain.SyncRun, error) {
	args := m.Called(ctx, limit)
	if runs, ok := args.Get(0).([]*domain.SyncRun); ok {
		return runs, args.Error(1)
	}
	return nil, args.Error(1)
}

// EntriesForRun is a mock implementation of store.JournalStore.EntriesForRun
func (m *MockJournalStore) EntriesForRun(ctx context.Context, runID uuid.UUID) ([]*domain.JournalEntry, error) {
	args := m.Called(ctx, runID)
	if entries, ok := args.Get(0).([]*domain.JournalEntry); ok {
		return entries, args.Error(1)
	}
	return nil, args.Error(1)
}

// Prune is a mock implementation of store.JournalStore.Prune
func (m *MockJournalStore) Prune(ctx context.Context, keep int) (int, error) {
	args := m.Called(ctx, keep)
	return args.Int(0), args.Error(1)
}
