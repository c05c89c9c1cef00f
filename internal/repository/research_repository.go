package repository

import "github.com/noah-isme/pentadosen-api/internal/models"

// ResearchRepository holds research projects in memory.
type ResearchRepository struct {
	store *memoryStore[*models.Research]
}

// NewResearchRepository constructs the repository with optional seed rows.
func NewResearchRepository(seed ...*models.Research) *ResearchRepository {
	repo := &ResearchRepository{store: newMemoryStore(
		func(r *models.Research) string { return r.ID },
		func(r *models.Research) *models.Research { return r.Clone() },
	)}
	for _, r := range seed {
		_ = repo.store.insert(r, false)
	}
	return repo
}

// List returns every project in insertion order.
func (r *ResearchRepository) List() []*models.Research { return r.store.list() }

// Get returns the project with id.
func (r *ResearchRepository) Get(id string) (*models.Research, error) { return r.store.get(id) }

// Create stores a new project at the top of the list.
func (r *ResearchRepository) Create(item *models.Research) error { return r.store.insert(item, true) }

// Update mutates the project with id through fn.
func (r *ResearchRepository) Update(id string, fn func(*models.Research) (*models.Research, error)) (*models.Research, error) {
	return r.store.update(id, fn)
}

// Delete removes the project with id.
func (r *ResearchRepository) Delete(id string) (*models.Research, error) { return r.store.remove(id) }
