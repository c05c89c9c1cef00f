package repository

import "github.com/noah-isme/pentadosen-api/internal/models"

// ActivityRepository keeps the newest activity entries, bounded by limit.
type ActivityRepository struct {
	store *memoryStore[models.Activity]
	limit int
}

// NewActivityRepository constructs the repository. Seed entries are expected newest first.
func NewActivityRepository(limit int, seed ...models.Activity) *ActivityRepository {
	if limit <= 0 {
		limit = 500
	}
	repo := &ActivityRepository{
		store: newMemoryStore(
			func(a models.Activity) string { return a.ID },
			func(a models.Activity) models.Activity { return a },
		),
		limit: limit,
	}
	for _, a := range seed {
		_ = repo.store.insert(a, false)
	}
	repo.store.truncate(limit)
	return repo
}

// Append records entry as the newest one, evicting the oldest beyond the limit.
func (r *ActivityRepository) Append(entry models.Activity) error {
	if err := r.store.insert(entry, true); err != nil {
		return err
	}
	r.store.truncate(r.limit)
	return nil
}

// List returns entries newest first.
func (r *ActivityRepository) List() []models.Activity { return r.store.list() }

// Len reports the number of retained entries.
func (r *ActivityRepository) Len() int { return r.store.len() }
