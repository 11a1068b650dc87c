// Package testutil provides shared mock implementations of domain interfaces
// for use in tests across the codebase. This follows the Go convention of a
// shared test utility package (like net/http/httptest).
package testutil

import (
	"context"
	"sync"

	"dashengine/internal/domain"
)

// === Definition Store Mock ===

// MockDefinitionStore implements domain.DefinitionStore for testing.
type MockDefinitionStore struct {
	LoadFn func(identifier string) (domain.QueryDefinition, error)

	mu    sync.Mutex
	Loads []string // identifiers passed to Load, in call order
}

// Load implements the interface method for testing.
func (m *MockDefinitionStore) Load(identifier string) (domain.QueryDefinition, error) {
	m.mu.Lock()
	m.Loads = append(m.Loads, identifier)
	m.mu.Unlock()
	if m.LoadFn != nil {
		return m.LoadFn(identifier)
	}
	panic("unexpected call to MockDefinitionStore.Load")
}

// LoadCount returns how many times Load was called.
func (m *MockDefinitionStore) LoadCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Loads)
}

// === Warehouse Mock ===

// MockWarehouse implements domain.Warehouse for testing. Submissions are
// recorded under a lock so concurrent-execution tests can count them.
type MockWarehouse struct {
	SubmitFn func(ctx context.Context, queryText string) (*domain.Job, error)

	mu          sync.Mutex
	Submissions []string // query texts passed to Submit, in call order
}

// Submit implements the interface method for testing.
func (m *MockWarehouse) Submit(ctx context.Context, queryText string) (*domain.Job, error) {
	m.mu.Lock()
	m.Submissions = append(m.Submissions, queryText)
	m.mu.Unlock()
	if m.SubmitFn != nil {
		return m.SubmitFn(ctx, queryText)
	}
	panic("unexpected call to MockWarehouse.Submit")
}

// SubmitCount returns how many times Submit was called.
func (m *MockWarehouse) SubmitCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Submissions)
}

// === History Repository Mock ===

// MockHistoryRepo implements domain.HistoryRepository for testing.
type MockHistoryRepo struct {
	InsertFn func(ctx context.Context, entry *domain.HistoryEntry) error
	ListFn   func(ctx context.Context, filter domain.HistoryFilter) ([]domain.HistoryEntry, error)

	mu      sync.Mutex
	Entries []*domain.HistoryEntry // collected entries for assertions
}

// Insert implements the interface method for testing.
func (m *MockHistoryRepo) Insert(ctx context.Context, entry *domain.HistoryEntry) error {
	if m.InsertFn != nil {
		if err := m.InsertFn(ctx, entry); err != nil {
			return err
		}
	}
	m.mu.Lock()
	m.Entries = append(m.Entries, entry)
	m.mu.Unlock()
	return nil
}

// List implements the interface method for testing.
func (m *MockHistoryRepo) List(ctx context.Context, filter domain.HistoryFilter) ([]domain.HistoryEntry, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, filter)
	}
	panic("unexpected call to MockHistoryRepo.List")
}

// LastEntry returns the last collected history entry, or nil if none.
func (m *MockHistoryRepo) LastEntry() *domain.HistoryEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Entries) == 0 {
		return nil
	}
	return m.Entries[len(m.Entries)-1]
}
