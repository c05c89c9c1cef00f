package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/noah-isme/pentadosen-api/internal/models"
)

// ErrStateNotFound is returned when no blob exists under a key.
var ErrStateNotFound = errors.New("state not found")

// LegacySchemaVersion marks blobs written before envelopes existed: a bare JSON value.
const LegacySchemaVersion = 0

// decodeBlob turns a stored blob into a record. Anything that is not an
// envelope object is treated as a legacy payload.
func decodeBlob(key string, raw []byte) (*models.StateRecord, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("state %s: empty blob", key)
	}
	if trimmed[0] == '{' {
		var probe map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &probe); err != nil {
			return nil, fmt.Errorf("state %s: %w", key, err)
		}
		if _, ok := probe["schemaVersion"]; ok {
			var env models.StateEnvelope
			if err := json.Unmarshal(trimmed, &env); err != nil {
				return nil, fmt.Errorf("state %s: decode envelope: %w", key, err)
			}
			return &models.StateRecord{Key: key, SchemaVersion: env.SchemaVersion, Payload: env.Data, UpdatedAt: env.SavedAt}, nil
		}
	}
	if !json.Valid(trimmed) {
		return nil, fmt.Errorf("state %s: invalid json", key)
	}
	return &models.StateRecord{Key: key, SchemaVersion: LegacySchemaVersion, Payload: trimmed}, nil
}

func encodeBlob(rec models.StateRecord) ([]byte, error) {
	env := models.StateEnvelope{SchemaVersion: rec.SchemaVersion, SavedAt: rec.UpdatedAt, Data: rec.Payload}
	data, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("state %s: encode envelope: %w", rec.Key, err)
	}
	return data, nil
}

// MemoryStateRepository keeps blobs in process memory.
type MemoryStateRepository struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemoryStateRepository constructs an empty in-memory state repository.
func NewMemoryStateRepository() *MemoryStateRepository {
	return &MemoryStateRepository{blobs: make(map[string][]byte)}
}

// Load returns the record stored under key.
func (r *MemoryStateRepository) Load(_ context.Context, key string) (*models.StateRecord, error) {
	r.mu.RLock()
	raw, ok := r.blobs[key]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrStateNotFound
	}
	return decodeBlob(key, raw)
}

// Save replaces the record stored under its key.
func (r *MemoryStateRepository) Save(_ context.Context, rec models.StateRecord) error {
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = time.Now().UTC()
	}
	data, err := encodeBlob(rec)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.blobs[rec.Key] = data
	r.mu.Unlock()
	return nil
}

// Put stores a raw blob verbatim, e.g. a legacy payload.
func (r *MemoryStateRepository) Put(key string, raw []byte) {
	r.mu.Lock()
	r.blobs[key] = append([]byte(nil), raw...)
	r.mu.Unlock()
}

// Raw returns the stored blob verbatim.
func (r *MemoryStateRepository) Raw(key string) ([]byte, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	raw, ok := r.blobs[key]
	return append([]byte(nil), raw...), ok
}
