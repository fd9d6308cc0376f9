package resumes

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no resume matches the query.
var ErrNotFound = errors.New("resume not found")

// Update carries the mutable resume fields; nil means leave unchanged.
type Update struct {
	Title   *string
	Content *string
}

// Repo defines persistence operations for resumes. Lookups are by id, not
// owner-scoped; the service compares ownership so a wrong owner can be told
// apart from a missing row.
type Repo interface {
	Create(ctx context.Context, resume Resume) error
	GetByID(ctx context.Context, id string) (Resume, error)
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]Resume, error)
	Update(ctx context.Context, id string, upd Update) (Resume, error)
	Delete(ctx context.Context, id string) error
	DeleteByOwner(ctx context.Context, ownerID string) error
	// ReplaceContent swaps in improved content and logs the previous version
	// to resume_history atomically.
	ReplaceContent(ctx context.Context, id, improved, original string) (Resume, error)
}
