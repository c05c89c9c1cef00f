package repository

import "github.com/noah-isme/pentadosen-api/internal/models"

// PublicationRepository holds publications in memory.
type PublicationRepository struct {
	store *memoryStore[*models.Publication]
}

// NewPublicationRepository constructs the repository with optional seed rows.
func NewPublicationRepository(seed ...*models.Publication) *PublicationRepository {
	repo := &PublicationRepository{store: newMemoryStore(
		func(r *models.Publication) string { return r.ID },
		func(r *models.Publication) *models.Publication { return r.Clone() },
	)}
	for _, r := range seed {
		_ = repo.store.insert(r, false)
	}
	return repo
}

// List returns every publication in insertion order.
func (r *PublicationRepository) List() []*models.Publication { return r.store.list() }

// Get returns the publication with id.
func (r *PublicationRepository) Get(id string) (*models.Publication, error) { return r.store.get(id) }

// Create stores a new publication at the top of the list.
func (r *PublicationRepository) Create(item *models.Publication) error {
	return r.store.insert(item, true)
}

// Update mutates the publication with id through fn.
func (r *PublicationRepository) Update(id string, fn func(*models.Publication) (*models.Publication, error)) (*models.Publication, error) {
	return r.store.update(id, fn)
}

// Delete removes the publication with id.
func (r *PublicationRepository) Delete(id string) (*models.Publication, error) {
	return r.store.remove(id)
}
