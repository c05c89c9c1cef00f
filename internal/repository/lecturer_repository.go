package repository

import (
	"strings"
	"sync"

	"github.com/noah-isme/pentadosen-api/internal/models"
)

// LecturerRepository stores registered lecturers keyed by username.
type LecturerRepository struct {
	mu         sync.RWMutex
	byUsername map[string]models.Lecturer
	order      []string
}

// NewLecturerRepository constructs an empty repository.
func NewLecturerRepository() *LecturerRepository {
	return &LecturerRepository{byUsername: make(map[string]models.Lecturer)}
}

// Create stores lecturer; a taken username or NIDN yields ErrDuplicateID.
func (r *LecturerRepository) Create(lecturer models.Lecturer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byUsername[lecturer.Username]; exists {
		return ErrDuplicateID
	}
	for _, existing := range r.byUsername {
		if existing.NIDN == lecturer.NIDN || strings.EqualFold(existing.Email, lecturer.Email) {
			return ErrDuplicateID
		}
	}
	r.byUsername[lecturer.Username] = lecturer
	r.order = append(r.order, lecturer.Username)
	return nil
}

// UsernameTaken reports whether username is registered.
func (r *LecturerRepository) UsernameTaken(username string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byUsername[username]
	return ok
}

// GetByUsername returns the lecturer registered as username.
func (r *LecturerRepository) GetByUsername(username string) (models.Lecturer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.byUsername[username]
	if !ok {
		return models.Lecturer{}, ErrRecordNotFound
	}
	return l, nil
}

// Count returns the number of registered lecturers.
func (r *LecturerRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}
