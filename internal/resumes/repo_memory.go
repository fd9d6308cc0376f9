package resumes

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory implementation of Repo, used in dev and tests
// when no database is configured.
type MemoryRepo struct {
	mu      sync.RWMutex
	data    map[string]Resume // id -> resume
	history []HistoryEntry
	nextID  int64
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]Resume), nextID: 1}
}

func (r *MemoryRepo) Create(ctx context.Context, resume Resume) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[resume.ID] = resume
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	resume, ok := r.data[id]
	if !ok {
		return Resume{}, ErrNotFound
	}
	return resume, nil
}

func (r *MemoryRepo) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]Resume, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	r.mu.RLock()
	var owned []Resume
	for _, resume := range r.data {
		if resume.OwnerID == ownerID {
			owned = append(owned, resume)
		}
	}
	r.mu.RUnlock()

	sort.Slice(owned, func(i, j int) bool {
		return owned[i].CreatedAt.Before(owned[j].CreatedAt)
	})

	if offset >= len(owned) {
		return []Resume{}, nil
	}
	end := len(owned)
	if offset+limit < end {
		end = offset + limit
	}
	return owned[offset:end], nil
}

func (r *MemoryRepo) Update(ctx context.Context, id string, upd Update) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	resume, ok := r.data[id]
	if !ok {
		return Resume{}, ErrNotFound
	}
	if upd.Title != nil {
		resume.Title = *upd.Title
	}
	if upd.Content != nil {
		resume.Content = *upd.Content
	}
	resume.UpdatedAt = time.Now().UTC()
	r.data[id] = resume
	return resume, nil
}

func (r *MemoryRepo) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[id]; !ok {
		return ErrNotFound
	}
	delete(r.data, id)
	return nil
}

func (r *MemoryRepo) DeleteByOwner(ctx context.Context, ownerID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, resume := range r.data {
		if resume.OwnerID == ownerID {
			delete(r.data, id)
		}
	}
	return nil
}

func (r *MemoryRepo) ReplaceContent(ctx context.Context, id, improved, original string) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	resume, ok := r.data[id]
	if !ok {
		return Resume{}, ErrNotFound
	}
	r.history = append(r.history, HistoryEntry{
		ID:              r.nextID,
		ResumeID:        id,
		OriginalContent: original,
		ImprovedContent: improved,
		CreatedAt:       time.Now().UTC(),
	})
	r.nextID++
	resume.Content = improved
	resume.UpdatedAt = time.Now().UTC()
	r.data[id] = resume
	return resume, nil
}

// History returns the recorded improve passes, oldest first. Test helper.
func (r *MemoryRepo) History() []HistoryEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]HistoryEntry, len(r.history))
	copy(out, r.history)
	return out
}

var _ Repo = (*MemoryRepo)(nil)
