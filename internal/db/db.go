// Package db provides PostgreSQL storage for mood logs.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS mood_logs (
	id BIGSERIAL PRIMARY KEY,
	mood TEXT NOT NULL,
	song_title TEXT NOT NULL,
	artist TEXT NOT NULL,
	album_cover_url TEXT,
	note TEXT NOT NULL DEFAULT '',
	is_favorite BOOLEAN NOT NULL DEFAULT FALSE,
	logged_at BIGINT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_mood_logs_logged_at ON mood_logs (logged_at DESC);
`

// DB wraps a PostgreSQL connection pool.
type DB struct {
	pool *pgxpool.Pool
}

// New creates a new database connection pool and ensures the schema exists.
func New(ctx context.Context, databaseURL string) (*DB, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing database URL: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the database connection pool.
func (db *DB) Close() {
	db.pool.Close()
}

// Pool returns the underlying connection pool for advanced operations.
func (db *DB) Pool() *pgxpool.Pool {
	return db.pool
}

// MoodLogs returns a MoodLogRepository.
func (db *DB) MoodLogs() *MoodLogRepository {
	return &MoodLogRepository{pool: db.pool}
}
