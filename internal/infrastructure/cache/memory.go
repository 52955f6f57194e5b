package cache

import (
	"context"
	"sync"

	"github.com/essence-team/essence-backend/internal/domain/entities"
)

// MemoryStore is a mutex-guarded in-memory summary store. It backs the
// "memory" store backend for local runs and tests, where a real Redis or
// Postgres instance is not worth the setup.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]*entities.SummaryRecord
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items: make(map[string]*entities.SummaryRecord),
	}
}

// Get returns the record for id, or (nil, nil) when absent
func (ms *MemoryStore) Get(ctx context.Context, id string) (*entities.SummaryRecord, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	record, exists := ms.items[id]
	if !exists {
		return nil, nil
	}
	return record.Clone(), nil
}

// Add inserts a record, refusing empty input and existing ids
func (ms *MemoryStore) Add(ctx context.Context, record *entities.SummaryRecord) error {
	if record == nil {
		return entities.ErrEmptyRecord
	}
	if record.ID == "" {
		return entities.ErrMissingID
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	if _, exists := ms.items[record.ID]; exists {
		return nil
	}
	ms.items[record.ID] = record.Clone()
	return nil
}

// AddOrUpdate shallow-merges the partial record onto any stored record
func (ms *MemoryStore) AddOrUpdate(ctx context.Context, record *entities.SummaryRecord) (*entities.SummaryRecord, error) {
	if record == nil {
		return nil, entities.ErrEmptyRecord
	}
	if record.ID == "" {
		return nil, entities.ErrMissingID
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	existing, exists := ms.items[record.ID]
	if !exists {
		ms.items[record.ID] = record.Clone()
		return record.Clone(), nil
	}

	merged := existing.Clone()
	merged.Merge(record)
	ms.items[record.ID] = merged
	return merged.Clone(), nil
}

// Delete removes a record by id
func (ms *MemoryStore) Delete(ctx context.Context, id string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	delete(ms.items, id)
	return nil
}

// List returns all stored records
func (ms *MemoryStore) List(ctx context.Context) ([]*entities.SummaryRecord, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	records := make([]*entities.SummaryRecord, 0, len(ms.items))
	for _, record := range ms.items {
		records = append(records, record.Clone())
	}
	return records, nil
}
