package kv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/vidmira/backend/internal/db"
)

// PostgresStore persists namespace entries to PostgreSQL. It is the backend
// a deployment swaps in when the single-file store is not enough.
type PostgresStore struct {
	pool db.Pool
}

// NewPostgresStore constructs a Store backed by the kv_entries table.
func NewPostgresStore(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Get loads the value stored under key.
func (s *PostgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT value
        FROM kv_entries
        WHERE key = $1
    `, key)

	var value []byte
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrKeyNotFound
		}
		return nil, fmt.Errorf("select kv entry: %w", err)
	}

	return value, nil
}

// Set stores or replaces the value under key.
func (s *PostgresStore) Set(ctx context.Context, key string, value []byte) error {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO kv_entries (key, value, updated_at)
        VALUES ($1, $2, $3)
        ON CONFLICT (key)
        DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
    `, key, value, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("upsert kv entry: %w", err)
	}

	return nil
}

// Delete removes the value under key. Missing keys are tolerated.
func (s *PostgresStore) Delete(ctx context.Context, key string) error {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, `
        DELETE FROM kv_entries
        WHERE key = $1
    `, key); err != nil {
		return fmt.Errorf("delete kv entry: %w", err)
	}

	return nil
}

var _ Store = (*PostgresStore)(nil)
