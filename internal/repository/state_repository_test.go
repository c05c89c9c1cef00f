package repository

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/pentadosen-api/internal/models"
	"github.com/noah-isme/pentadosen-api/pkg/storage"
)

func TestDecodeBlobLegacyArray(t *testing.T) {
	rec, err := decodeBlob(models.StateKeyReadNotifications, []byte(" [1, 2] "))
	require.NoError(t, err)
	assert.Equal(t, LegacySchemaVersion, rec.SchemaVersion)
	assert.JSONEq(t, `[1,2]`, string(rec.Payload))
}

func TestDecodeBlobEnvelope(t *testing.T) {
	raw := []byte(`{"schemaVersion":1,"savedAt":"2025-10-20T01:00:00Z","data":["a"]}`)
	rec, err := decodeBlob(models.StateKeyReadNotifications, raw)
	require.NoError(t, err)
	assert.Equal(t, 1, rec.SchemaVersion)
	assert.JSONEq(t, `["a"]`, string(rec.Payload))
	assert.Equal(t, 2025, rec.UpdatedAt.Year())
}

func TestDecodeBlobRejectsGarbage(t *testing.T) {
	_, err := decodeBlob("events", []byte("not json"))
	assert.Error(t, err)
	_, err = decodeBlob("events", []byte("   "))
	assert.Error(t, err)
}

func TestMemoryStateRepositoryRoundTrip(t *testing.T) {
	repo := NewMemoryStateRepository()
	ctx := context.Background()

	_, err := repo.Load(ctx, "events")
	assert.ErrorIs(t, err, ErrStateNotFound)

	require.NoError(t, repo.Save(ctx, models.StateRecord{Key: "events", SchemaVersion: 1, Payload: []byte(`[]`)}))
	rec, err := repo.Load(ctx, "events")
	require.NoError(t, err)
	assert.Equal(t, 1, rec.SchemaVersion)
	assert.False(t, rec.UpdatedAt.IsZero())

	raw, ok := repo.Raw("events")
	require.True(t, ok)
	var env models.StateEnvelope
	require.NoError(t, json.Unmarshal(raw, &env))
	assert.Equal(t, 1, env.SchemaVersion)
}

func TestFileStateRepositoryRoundTrip(t *testing.T) {
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	repo := NewFileStateRepository(store, "pentadosen")
	ctx := context.Background()

	_, err = repo.Load(ctx, "events")
	assert.ErrorIs(t, err, ErrStateNotFound)

	require.NoError(t, repo.Save(ctx, models.StateRecord{Key: "events", SchemaVersion: 1, Payload: []byte(`[{"id":"1"}]`)}))
	raw, err := store.Read("pentadosen_events.json")
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"schemaVersion":1`)

	rec, err := repo.Load(ctx, "events")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"1"}]`, string(rec.Payload))
}

type fakeRedis struct {
	data map[string]string
	ttl  map[string]time.Duration
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	f.data[key] = string(value.([]byte))
	f.ttl[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func TestRedisStateRepositoryRoundTrip(t *testing.T) {
	fake := &fakeRedis{data: map[string]string{}, ttl: map[string]time.Duration{}}
	repo := NewRedisStateRepository(fake, "pentadosen")
	ctx := context.Background()

	_, err := repo.Load(ctx, "read_notifications")
	assert.ErrorIs(t, err, ErrStateNotFound)

	require.NoError(t, repo.Save(ctx, models.StateRecord{Key: "read_notifications", SchemaVersion: 1, Payload: []byte(`["1"]`)}))
	assert.Contains(t, fake.data, "pentadosen:state:read_notifications")
	assert.Equal(t, time.Duration(0), fake.ttl["pentadosen:state:read_notifications"])

	rec, err := repo.Load(ctx, "read_notifications")
	require.NoError(t, err)
	assert.JSONEq(t, `["1"]`, string(rec.Payload))
}

func newStateRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "postgres")
	return sqlxDB, mock, func() {
		sqlxDB.Close()
		db.Close()
	}
}

func TestPostgresStateRepositoryLoad(t *testing.T) {
	db, mock, cleanup := newStateRepoMock(t)
	defer cleanup()
	repo := NewPostgresStateRepository(db, "pentadosen")

	rows := sqlmock.NewRows([]string{"key", "schema_version", "payload", "updated_at"}).
		AddRow("pentadosen:events", 1, []byte(`[]`), time.Now())
	mock.ExpectQuery("SELECT key, schema_version, payload, updated_at FROM app_state").
		WithArgs("pentadosen:events").
		WillReturnRows(rows)

	rec, err := repo.Load(context.Background(), "events")
	require.NoError(t, err)
	assert.Equal(t, "events", rec.Key)
	assert.Equal(t, 1, rec.SchemaVersion)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStateRepositoryLoadMissing(t *testing.T) {
	db, mock, cleanup := newStateRepoMock(t)
	defer cleanup()
	repo := NewPostgresStateRepository(db, "")

	mock.ExpectQuery("SELECT key, schema_version").
		WithArgs("events").
		WillReturnRows(sqlmock.NewRows([]string{"key", "schema_version", "payload", "updated_at"}))

	_, err := repo.Load(context.Background(), "events")
	assert.ErrorIs(t, err, ErrStateNotFound)
}

func TestPostgresStateRepositorySave(t *testing.T) {
	db, mock, cleanup := newStateRepoMock(t)
	defer cleanup()
	repo := NewPostgresStateRepository(db, "pentadosen")

	mock.ExpectExec("INSERT INTO app_state").
		WithArgs("pentadosen:read_notifications", 1, []byte(`["1"]`), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Save(context.Background(), models.StateRecord{Key: "read_notifications", SchemaVersion: 1, Payload: []byte(`["1"]`)})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStateRepositoryEnsureSchema(t *testing.T) {
	db, mock, cleanup := newStateRepoMock(t)
	defer cleanup()
	repo := NewPostgresStateRepository(db, "")

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS app_state").WillReturnResult(sqlmock.NewResult(0, 0))
	require.NoError(t, repo.EnsureSchema(context.Background()))
}
