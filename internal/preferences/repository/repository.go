package repository

import (
	"context"
	"database/sql"
	"errors"
)

var ErrPreferenceNotFound = errors.New("preference not found")

// Repository is a small key-value store for device-local settings.
type Repository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}
