package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/legacykeep/legacykeep-client/internal/platform/logger"
)

const (
	createPreferencesTable = `CREATE TABLE IF NOT EXISTS preferences (
              key        TEXT PRIMARY KEY,
              value      TEXT NOT NULL,
              updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
          )`
	selectPreference = `SELECT value FROM preferences WHERE key = $1`
	upsertPreference = `INSERT INTO preferences (key, value, updated_at) VALUES ($1, $2, now())
              ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`
)

type PostgresRepository struct {
	db DBTX
}

// NewPostgresRepository keeps preferences in a shared Postgres table, for
// kiosk and family-tablet deployments that sync settings across devices.
func NewPostgresRepository(db DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createPreferencesTable); err != nil {
		logger.Error("EnsureSchema: failed to create preferences table", err)
		return fmt.Errorf("creating preferences table: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, selectPreference, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrPreferenceNotFound
		}
		logger.Error("GetPreference: failed to query preference %s", err, key)
		return "", err
	}
	return value, nil
}

func (r *PostgresRepository) Set(ctx context.Context, key, value string) error {
	if _, err := r.db.ExecContext(ctx, upsertPreference, key, value); err != nil {
		logger.Error("SetPreference: failed to upsert preference %s", err, key)
		return err
	}
	return nil
}
