package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/pentadosen-api/internal/models"
	"github.com/noah-isme/pentadosen-api/internal/repository"
	appErrors "github.com/noah-isme/pentadosen-api/pkg/errors"
)

// CurrentStateSchemaVersion is the envelope version written by Save.
const CurrentStateSchemaVersion = 1

type stateRepository interface {
	Load(ctx context.Context, key string) (*models.StateRecord, error)
	Save(ctx context.Context, rec models.StateRecord) error
}

// StateMigration lifts a payload from version v to v+1.
type StateMigration func(payload json.RawMessage) (json.RawMessage, error)

// StateStore reads and writes versioned state blobs, migrating old payloads
// forward on load.
type StateStore struct {
	repo       stateRepository
	logger     *zap.Logger
	metrics    *MetricsService
	migrations map[string]map[int]StateMigration
	now        func() time.Time
}

// NewStateStore constructs the store with the built-in legacy migrations registered.
func NewStateStore(repo stateRepository, metrics *MetricsService, logger *zap.Logger) *StateStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &StateStore{
		repo:       repo,
		logger:     logger,
		metrics:    metrics,
		migrations: make(map[string]map[int]StateMigration),
		now:        time.Now,
	}
	s.RegisterMigration(models.StateKeyEvents, repository.LegacySchemaVersion, migrateLegacyEvents)
	s.RegisterMigration(models.StateKeyReadNotifications, repository.LegacySchemaVersion, migrateLegacyReadIDs)
	return s
}

// RegisterMigration installs fn as the step from version `from` to from+1 for key.
func (s *StateStore) RegisterMigration(key string, from int, fn StateMigration) {
	if s.migrations[key] == nil {
		s.migrations[key] = make(map[int]StateMigration)
	}
	s.migrations[key][from] = fn
}

// Load decodes the blob under key into dest. It reports false when nothing is
// stored. A migrated blob is written back at the current version.
func (s *StateStore) Load(ctx context.Context, key string, dest interface{}) (bool, error) {
	rec, err := s.repo.Load(ctx, key)
	if err != nil {
		if errors.Is(err, repository.ErrStateNotFound) {
			return false, nil
		}
		return false, appErrors.Internal(err, fmt.Sprintf("failed to load state %s", key))
	}
	if rec.SchemaVersion > CurrentStateSchemaVersion {
		return false, appErrors.Clone(appErrors.ErrUnsupportedSchema,
			fmt.Sprintf("state %s has schema version %d, newest supported is %d", key, rec.SchemaVersion, CurrentStateSchemaVersion))
	}

	payload := json.RawMessage(rec.Payload)
	from := rec.SchemaVersion
	for v := from; v < CurrentStateSchemaVersion; v++ {
		step, ok := s.migrations[key][v]
		if !ok {
			return false, appErrors.Clone(appErrors.ErrUnsupportedSchema, fmt.Sprintf("no migration for state %s from version %d", key, v))
		}
		if payload, err = step(payload); err != nil {
			return false, appErrors.Wrap(err, appErrors.ErrUnsupportedSchema.Code, appErrors.ErrUnsupportedSchema.Status,
				fmt.Sprintf("failed to migrate state %s from version %d", key, v))
		}
	}

	if err := json.Unmarshal(payload, dest); err != nil {
		return false, appErrors.Internal(err, fmt.Sprintf("failed to decode state %s", key))
	}

	if from < CurrentStateSchemaVersion {
		s.logger.Info("migrated state blob",
			zap.String("key", key),
			zap.Int("from_version", from),
			zap.Int("to_version", CurrentStateSchemaVersion),
		)
		if err := s.saveRaw(ctx, key, payload); err != nil {
			s.logger.Warn("failed to persist migrated state", zap.String("key", key), zap.Error(err))
		}
	}
	return true, nil
}

// Save serialises value and writes it under key at the current version.
func (s *StateStore) Save(ctx context.Context, key string, value interface{}) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return appErrors.Internal(err, fmt.Sprintf("failed to encode state %s", key))
	}
	return s.saveRaw(ctx, key, payload)
}

func (s *StateStore) saveRaw(ctx context.Context, key string, payload []byte) error {
	start := time.Now()
	err := s.repo.Save(ctx, models.StateRecord{
		Key:           key,
		SchemaVersion: CurrentStateSchemaVersion,
		Payload:       payload,
		UpdatedAt:     s.now().UTC(),
	})
	s.metrics.ObserveStateSave(key, time.Since(start), err)
	if err != nil {
		return appErrors.Internal(err, fmt.Sprintf("failed to persist state %s", key))
	}
	return nil
}

// migrateLegacyEvents converts the bare event array, whose ids may be numbers
// and whose empty endDate is an empty string, into the version 1 shape.
func migrateLegacyEvents(payload json.RawMessage) (json.RawMessage, error) {
	var legacy []map[string]json.RawMessage
	if err := json.Unmarshal(payload, &legacy); err != nil {
		return nil, fmt.Errorf("legacy events: %w", err)
	}
	for i, item := range legacy {
		id, err := legacyID(item["id"])
		if err != nil {
			return nil, fmt.Errorf("legacy events[%d]: %w", i, err)
		}
		encoded, _ := json.Marshal(id)
		item["id"] = encoded
		if end, ok := item["endDate"]; ok {
			trimmed := bytes.TrimSpace(end)
			if bytes.Equal(trimmed, []byte(`""`)) || bytes.Equal(trimmed, []byte("null")) {
				delete(item, "endDate")
			}
		}
	}
	return json.Marshal(legacy)
}

// migrateLegacyReadIDs converts a bare array of numeric or string ids to strings.
func migrateLegacyReadIDs(payload json.RawMessage) (json.RawMessage, error) {
	var legacy []json.RawMessage
	if err := json.Unmarshal(payload, &legacy); err != nil {
		return nil, fmt.Errorf("legacy read ids: %w", err)
	}
	ids := make([]string, 0, len(legacy))
	for i, raw := range legacy {
		id, err := legacyID(raw)
		if err != nil {
			return nil, fmt.Errorf("legacy read ids[%d]: %w", i, err)
		}
		ids = append(ids, id)
	}
	return json.Marshal(ids)
}

func legacyID(raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "", errors.New("missing id")
	}
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		if str == "" {
			return "", errors.New("empty id")
		}
		return str, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var num json.Number
	if err := dec.Decode(&num); err != nil {
		return "", fmt.Errorf("id is neither string nor number: %s", string(raw))
	}
	if n, err := num.Int64(); err == nil {
		return strconv.FormatInt(n, 10), nil
	}
	return num.String(), nil
}
