package mocks

import (
	"context"
	"fmt"
	"os"
	"sync"
)

// MockDocumentStore is an in-memory patch.DocumentStore.
// Documents are keyed by path; writes replace the stored text and are recorded.
type MockDocumentStore struct {
	mu   sync.Mutex
	docs map[string]string

	// ReadDocumentFn overrides ReadDocument when set
	ReadDocumentFn func(ctx context.Context, path string) (string, error)

	// WriteDocumentFn overrides WriteDocument when set
	WriteDocumentFn func(ctx context.Context, path, content string) error

	// Writes records every successful WriteDocument call in order
	Writes []DocumentWrite
}

// DocumentWrite is one recorded WriteDocument call.
type DocumentWrite struct {
	Path    string
	Content string
}

// NewMockDocumentStore creates a store seeded with the given documents.
func NewMockDocumentStore(docs map[string]string) *MockDocumentStore {
	seeded := make(map[string]string, len(docs))
	for path, content := range docs {
		seeded[path] = content
	}
	return &MockDocumentStore{docs: seeded}
}

// ReadDocument implements patch.DocumentStore
func (m *MockDocumentStore) ReadDocument(ctx context.Context, path string) (string, error) {
	if m.ReadDocumentFn != nil {
		return m.ReadDocumentFn(ctx, path)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	content, ok := m.docs[path]
	if !ok {
		return "", fmt.Errorf("open %s: %w", path, os.ErrNotExist)
	}
	return content, nil
}

// WriteDocument implements patch.DocumentStore
func (m *MockDocumentStore) WriteDocument(ctx context.Context, path, content string) error {
	if m.WriteDocumentFn != nil {
		if err := m.WriteDocumentFn(ctx, path, content); err != nil {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.docs == nil {
		m.docs = make(map[string]string)
	}
	m.docs[path] = content
	m.Writes = append(m.Writes, DocumentWrite{Path: path, Content: content})
	return nil
}

// Document returns the current text stored at path.
func (m *MockDocumentStore) Document(path string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.docs[path]
}

// WriteCount returns the number of successful writes.
func (m *MockDocumentStore) WriteCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Writes)
}
