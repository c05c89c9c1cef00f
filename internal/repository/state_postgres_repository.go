package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/pentadosen-api/internal/models"
)

const stateTableDDL = `CREATE TABLE IF NOT EXISTS app_state (
    key TEXT PRIMARY KEY,
    schema_version INTEGER NOT NULL,
    payload JSONB NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL
)`

// PostgresStateRepository persists blobs in the app_state table.
type PostgresStateRepository struct {
	db     *sqlx.DB
	prefix string
}

// NewPostgresStateRepository constructs the repository.
func NewPostgresStateRepository(db *sqlx.DB, prefix string) *PostgresStateRepository {
	return &PostgresStateRepository{db: db, prefix: prefix}
}

// EnsureSchema creates the app_state table when missing.
func (r *PostgresStateRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, stateTableDDL); err != nil {
		return fmt.Errorf("ensure app_state table: %w", err)
	}
	return nil
}

// Load fetches the row of key.
func (r *PostgresStateRepository) Load(ctx context.Context, key string) (*models.StateRecord, error) {
	const query = `SELECT key, schema_version, payload, updated_at FROM app_state WHERE key = $1`
	var rec models.StateRecord
	if err := r.db.GetContext(ctx, &rec, query, r.rowKey(key)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStateNotFound
		}
		return nil, fmt.Errorf("load state %s: %w", key, err)
	}
	rec.Key = key
	return &rec, nil
}

// Save upserts the row of rec.Key.
func (r *PostgresStateRepository) Save(ctx context.Context, rec models.StateRecord) error {
	const query = `INSERT INTO app_state (key, schema_version, payload, updated_at)
VALUES (:key, :schema_version, :payload, :updated_at)
ON CONFLICT (key)
DO UPDATE SET schema_version = EXCLUDED.schema_version, payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at`
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = time.Now().UTC()
	}
	row := rec
	row.Key = r.rowKey(rec.Key)
	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("save state %s: %w", rec.Key, err)
	}
	return nil
}

func (r *PostgresStateRepository) rowKey(key string) string {
	if r.prefix == "" {
		return key
	}
	return r.prefix + ":" + key
}
