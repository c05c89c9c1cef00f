package repository

import "github.com/noah-isme/pentadosen-api/internal/models"

// HKIRepository holds HKI records in memory.
type HKIRepository struct {
	store *memoryStore[*models.HKI]
}

// NewHKIRepository constructs the repository with optional seed rows.
func NewHKIRepository(seed ...*models.HKI) *HKIRepository {
	repo := &HKIRepository{store: newMemoryStore(
		func(r *models.HKI) string { return r.ID },
		func(r *models.HKI) *models.HKI { return r.Clone() },
	)}
	for _, r := range seed {
		_ = repo.store.insert(r, false)
	}
	return repo
}

// List returns every record in insertion order.
func (r *HKIRepository) List() []*models.HKI { return r.store.list() }

// Get returns the record with id.
func (r *HKIRepository) Get(id string) (*models.HKI, error) { return r.store.get(id) }

// Create stores a new record at the top of the list.
func (r *HKIRepository) Create(item *models.HKI) error { return r.store.insert(item, true) }

// Update mutates the record with id through fn.
func (r *HKIRepository) Update(id string, fn func(*models.HKI) (*models.HKI, error)) (*models.HKI, error) {
	return r.store.update(id, fn)
}

// Delete removes the record with id.
func (r *HKIRepository) Delete(id string) (*models.HKI, error) { return r.store.remove(id) }
