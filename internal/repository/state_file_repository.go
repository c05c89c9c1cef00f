package repository

import (
	"context"
	"errors"
	"io/fs"
	"time"

	"github.com/noah-isme/pentadosen-api/internal/models"
	"github.com/noah-isme/pentadosen-api/pkg/storage"
)

// FileStateRepository stores one JSON envelope file per key.
type FileStateRepository struct {
	store  *storage.LocalStorage
	prefix string
}

// NewFileStateRepository constructs a file-backed state repository.
func NewFileStateRepository(store *storage.LocalStorage, prefix string) *FileStateRepository {
	return &FileStateRepository{store: store, prefix: prefix}
}

// Load reads and decodes the blob of key.
func (r *FileStateRepository) Load(_ context.Context, key string) (*models.StateRecord, error) {
	raw, err := r.store.Read(r.fileName(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrStateNotFound
		}
		return nil, err
	}
	return decodeBlob(key, raw)
}

// Save writes the envelope atomically.
func (r *FileStateRepository) Save(_ context.Context, rec models.StateRecord) error {
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = time.Now().UTC()
	}
	data, err := encodeBlob(rec)
	if err != nil {
		return err
	}
	_, err = r.store.Save(r.fileName(rec.Key), data)
	return err
}

func (r *FileStateRepository) fileName(key string) string {
	if r.prefix == "" {
		return key + ".json"
	}
	return r.prefix + "_" + key + ".json"
}
