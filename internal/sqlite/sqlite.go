// Package sqlite stores mood logs in an embedded SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/justestif/moodtunes/internal/moodlog"
)

const schema = `
CREATE TABLE IF NOT EXISTS mood_logs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	mood TEXT NOT NULL,
	song_title TEXT NOT NULL,
	artist TEXT NOT NULL,
	album_cover_url TEXT,
	note TEXT NOT NULL DEFAULT '',
	is_favorite INTEGER NOT NULL DEFAULT 0,
	timestamp INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_mood_logs_timestamp ON mood_logs(timestamp DESC);
`

const selectColumns = `id, mood, song_title, artist, album_cover_url, note, is_favorite, timestamp`

// DB is a SQLite-backed mood log backend.
type DB struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and applies the
// schema. Use ":memory:" for a throwaway database.
func Open(ctx context.Context, path string) (*DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	// One connection: SQLite has a single writer, and every connection to
	// ":memory:" would otherwise see its own empty database.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// Insert stores e and returns it with its new ID.
func (d *DB) Insert(ctx context.Context, e moodlog.Entry) (moodlog.Entry, error) {
	res, err := d.db.ExecContext(ctx, `
		INSERT INTO mood_logs (mood, song_title, artist, album_cover_url, note, is_favorite, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, e.Mood, e.SongTitle, e.Artist, nullString(e.AlbumCoverURL), e.Note, e.IsFavorite, e.Timestamp)
	if err != nil {
		return moodlog.Entry{}, fmt.Errorf("inserting mood log: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return moodlog.Entry{}, fmt.Errorf("reading inserted id: %w", err)
	}
	e.ID = id
	return e, nil
}

// Replace overwrites an entry by ID.
func (d *DB) Replace(ctx context.Context, e moodlog.Entry) error {
	res, err := d.db.ExecContext(ctx, `
		UPDATE mood_logs
		SET mood = ?, song_title = ?, artist = ?, album_cover_url = ?, note = ?, is_favorite = ?, timestamp = ?
		WHERE id = ?
	`, e.Mood, e.SongTitle, e.Artist, nullString(e.AlbumCoverURL), e.Note, e.IsFavorite, e.Timestamp, e.ID)
	if err != nil {
		return fmt.Errorf("updating mood log: %w", err)
	}
	return requireAffected(res)
}

// Remove deletes an entry by ID.
func (d *DB) Remove(ctx context.Context, id int64) error {
	res, err := d.db.ExecContext(ctx, `DELETE FROM mood_logs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting mood log: %w", err)
	}
	return requireAffected(res)
}

// Get returns one entry by ID.
func (d *DB) Get(ctx context.Context, id int64) (moodlog.Entry, error) {
	row := d.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM mood_logs WHERE id = ?`, id)

	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return moodlog.Entry{}, moodlog.ErrNotFound
	}
	if err != nil {
		return moodlog.Entry{}, fmt.Errorf("querying mood log: %w", err)
	}
	return e, nil
}

// List returns every entry, newest first.
func (d *DB) List(ctx context.Context) ([]moodlog.Entry, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT `+selectColumns+` FROM mood_logs ORDER BY timestamp DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying mood logs: %w", err)
	}
	defer rows.Close()

	var entries []moodlog.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning mood log: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating mood logs: %w", err)
	}
	return entries, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (moodlog.Entry, error) {
	var e moodlog.Entry
	var cover sql.NullString
	err := s.Scan(&e.ID, &e.Mood, &e.SongTitle, &e.Artist, &cover, &e.Note, &e.IsFavorite, &e.Timestamp)
	if err != nil {
		return moodlog.Entry{}, err
	}
	e.AlbumCoverURL = cover.String
	return e, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}
	if n == 0 {
		return moodlog.ErrNotFound
	}
	return nil
}
