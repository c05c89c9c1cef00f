package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/pentadosen-api/internal/models"
	"github.com/noah-isme/pentadosen-api/internal/repository"
	appErrors "github.com/noah-isme/pentadosen-api/pkg/errors"
)

// flakyStateStore fails every Save while fail is set.
type flakyStateStore struct {
	*StateStore
	fail  bool
	saves int
}

func (f *flakyStateStore) Save(ctx context.Context, key string, value interface{}) error {
	if f.fail {
		return appErrors.Internal(errors.New("disk full"), "failed to persist state "+key)
	}
	f.saves++
	return f.StateStore.Save(ctx, key, value)
}

func newFlakyState() (*flakyStateStore, *repository.MemoryStateRepository) {
	repo := repository.NewMemoryStateRepository()
	return &flakyStateStore{StateStore: NewStateStore(repo, nil, nil)}, repo
}

func TestStateStoreMissingKey(t *testing.T) {
	store := NewStateStore(repository.NewMemoryStateRepository(), nil, nil)

	var ids []string
	found, err := store.Load(context.Background(), models.StateKeyReadNotifications, &ids)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, ids)
}

func TestStateStoreSaveWritesEnvelope(t *testing.T) {
	repo := repository.NewMemoryStateRepository()
	store := NewStateStore(repo, nil, nil)

	require.NoError(t, store.Save(context.Background(), models.StateKeyReadNotifications, []string{"a"}))

	raw, ok := repo.Raw(models.StateKeyReadNotifications)
	require.True(t, ok)
	var env models.StateEnvelope
	require.NoError(t, json.Unmarshal(raw, &env))
	assert.Equal(t, CurrentStateSchemaVersion, env.SchemaVersion)
	assert.JSONEq(t, `["a"]`, string(env.Data))
}

func TestStateStoreMigratesLegacyEvents(t *testing.T) {
	repo := repository.NewMemoryStateRepository()
	repo.Put(models.StateKeyEvents, []byte(`[
		{"id": 1, "title": "Proposal Hibah Internal", "description": "", "startDate": "2025-10-25", "endDate": "2025-10-30", "category": "Research"},
		{"id": "x2", "title": "Seminar", "description": "", "startDate": "2025-10-19", "endDate": "", "category": "Other"}
	]`))
	store := NewStateStore(repo, nil, nil)

	var events []models.CalendarEvent
	found, err := store.Load(context.Background(), models.StateKeyEvents, &events)
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, events, 2)
	assert.Equal(t, "1", events[0].ID)
	require.NotNil(t, events[0].EndDate)
	assert.Equal(t, "x2", events[1].ID)
	assert.Nil(t, events[1].EndDate)

	raw, _ := repo.Raw(models.StateKeyEvents)
	var env models.StateEnvelope
	require.NoError(t, json.Unmarshal(raw, &env))
	assert.Equal(t, CurrentStateSchemaVersion, env.SchemaVersion)
}

func TestStateStoreMigratesLegacyReadIDs(t *testing.T) {
	repo := repository.NewMemoryStateRepository()
	repo.Put(models.StateKeyReadNotifications, []byte(`[1, "2", 30]`))
	store := NewStateStore(repo, nil, nil)

	var ids []string
	found, err := store.Load(context.Background(), models.StateKeyReadNotifications, &ids)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []string{"1", "2", "30"}, ids)
}

func TestStateStoreRejectsNewerSchema(t *testing.T) {
	repo := repository.NewMemoryStateRepository()
	repo.Put(models.StateKeyEvents, []byte(`{"schemaVersion": 2, "savedAt": "2025-10-19T00:00:00Z", "data": []}`))
	store := NewStateStore(repo, nil, nil)

	var events []models.CalendarEvent
	_, err := store.Load(context.Background(), models.StateKeyEvents, &events)
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrUnsupportedSchema))
}

func TestStateStoreRejectsUnmigratableLegacy(t *testing.T) {
	repo := repository.NewMemoryStateRepository()
	repo.Put(models.StateKeyReadNotifications, []byte(`[{"nested": true}]`))
	store := NewStateStore(repo, nil, nil)

	var ids []string
	_, err := store.Load(context.Background(), models.StateKeyReadNotifications, &ids)
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrUnsupportedSchema))
}
