package repositories

import (
	"context"

	"github.com/essence-team/essence-backend/internal/domain/entities"
)

// SummaryStore is the persistence contract for summary records, keyed by
// content id. Implementations must distinguish "record absent" (nil, nil)
// from a backend failure (nil, err): callers rely on that to tell a cache
// miss apart from a broken store.
type SummaryStore interface {
	// Get returns the record for id, or (nil, nil) if none exists.
	Get(ctx context.Context, id string) (*entities.SummaryRecord, error)

	// Add inserts a new record. It never overwrites an existing one.
	Add(ctx context.Context, record *entities.SummaryRecord) error

	// AddOrUpdate shallow-merges the partial record onto any stored record
	// with the same id and persists the result, inserting when absent. It
	// returns the merged record as stored. This is how pipeline stages
	// accumulate fields without clobbering each other.
	AddOrUpdate(ctx context.Context, record *entities.SummaryRecord) (*entities.SummaryRecord, error)

	// Delete removes a record. Administrative operation, never called from
	// the request path.
	Delete(ctx context.Context, id string) error

	// List returns all stored records. Administrative operation.
	List(ctx context.Context) ([]*entities.SummaryRecord, error)
}
