// Package mocks provides centralized mock implementations for testing.
//
// Most mocks follow the same shape: a function field per interface method
// that overrides the default behavior, plus call tracking the test can
// inspect afterwards. MockJournalStore is built on testify/mock instead,
// for tests that assert exact call sequences.
//
// Usage:
//
//	notes := &mocks.MockNoteSource{
//	    Cards: map[string]domain.Card{"1": {ID: "1", Question: "Q", Answer: "A"}},
//	}
//	svc, err := service.NewSyncService(notes, loader, patcher, emitter, nil, log)
package mocks
