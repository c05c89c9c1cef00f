package repository

import (
	"errors"
	"sync"
)

// ErrRecordNotFound is returned by the in-memory record stores.
var ErrRecordNotFound = errors.New("record not found")

// memoryStore is an insertion-ordered, mutex-guarded collection. Values are
// cloned on the way in and out so callers never alias stored records.
type memoryStore[T any] struct {
	mu    sync.RWMutex
	items []T
	id    func(T) string
	clone func(T) T
}

func newMemoryStore[T any](id func(T) string, clone func(T) T) *memoryStore[T] {
	return &memoryStore[T]{id: id, clone: clone}
}

func (s *memoryStore[T]) indexOf(id string) int {
	for i, item := range s.items {
		if s.id(item) == id {
			return i
		}
	}
	return -1
}

func (s *memoryStore[T]) list() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]T, len(s.items))
	for i, item := range s.items {
		out[i] = s.clone(item)
	}
	return out
}

func (s *memoryStore[T]) get(id string) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var zero T
	idx := s.indexOf(id)
	if idx < 0 {
		return zero, ErrRecordNotFound
	}
	return s.clone(s.items[idx]), nil
}

// insert appends item, or prepends it when front is true.
func (s *memoryStore[T]) insert(item T, front bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexOf(s.id(item)) >= 0 {
		return ErrDuplicateID
	}
	stored := s.clone(item)
	if front {
		s.items = append([]T{stored}, s.items...)
	} else {
		s.items = append(s.items, stored)
	}
	return nil
}

// update applies fn to a working copy and stores it only when fn succeeds.
func (s *memoryStore[T]) update(id string, fn func(T) (T, error)) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var zero T
	idx := s.indexOf(id)
	if idx < 0 {
		return zero, ErrRecordNotFound
	}
	next, err := fn(s.clone(s.items[idx]))
	if err != nil {
		return zero, err
	}
	s.items[idx] = s.clone(next)
	return s.clone(next), nil
}

func (s *memoryStore[T]) remove(id string) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var zero T
	idx := s.indexOf(id)
	if idx < 0 {
		return zero, ErrRecordNotFound
	}
	removed := s.items[idx]
	s.items = append(s.items[:idx], s.items[idx+1:]...)
	return removed, nil
}

// truncate keeps at most n items from the front.
func (s *memoryStore[T]) truncate(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n >= 0 && len(s.items) > n {
		s.items = s.items[:n]
	}
}

func (s *memoryStore[T]) len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// ErrDuplicateID is returned when inserting an id that already exists.
var ErrDuplicateID = errors.New("duplicate id")
