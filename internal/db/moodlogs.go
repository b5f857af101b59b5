package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/justestif/moodtunes/internal/moodlog"
)

const moodLogColumns = `id, mood, song_title, artist, COALESCE(album_cover_url, ''), note, is_favorite, logged_at`

// MoodLogRepository handles mood log database operations.
type MoodLogRepository struct {
	pool *pgxpool.Pool
}

// Insert stores a mood log and returns it with its generated ID.
func (r *MoodLogRepository) Insert(ctx context.Context, e moodlog.Entry) (moodlog.Entry, error) {
	query := `
		INSERT INTO mood_logs (mood, song_title, artist, album_cover_url, note, is_favorite, logged_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7)
		RETURNING id
	`
	err := r.pool.QueryRow(ctx, query,
		e.Mood,
		e.SongTitle,
		e.Artist,
		e.AlbumCoverURL,
		e.Note,
		e.IsFavorite,
		e.Timestamp,
	).Scan(&e.ID)
	if err != nil {
		return moodlog.Entry{}, fmt.Errorf("inserting mood log: %w", err)
	}
	return e, nil
}

// Replace overwrites a mood log by ID.
func (r *MoodLogRepository) Replace(ctx context.Context, e moodlog.Entry) error {
	query := `
		UPDATE mood_logs
		SET mood = $2, song_title = $3, artist = $4, album_cover_url = NULLIF($5, ''),
			note = $6, is_favorite = $7, logged_at = $8
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query,
		e.ID,
		e.Mood,
		e.SongTitle,
		e.Artist,
		e.AlbumCoverURL,
		e.Note,
		e.IsFavorite,
		e.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("updating mood log: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return moodlog.ErrNotFound
	}
	return nil
}

// Remove deletes a mood log by ID.
func (r *MoodLogRepository) Remove(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM mood_logs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting mood log: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return moodlog.ErrNotFound
	}
	return nil
}

// Get retrieves a mood log by ID.
func (r *MoodLogRepository) Get(ctx context.Context, id int64) (moodlog.Entry, error) {
	query := `SELECT ` + moodLogColumns + ` FROM mood_logs WHERE id = $1`

	e, err := scanMoodLog(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return moodlog.Entry{}, moodlog.ErrNotFound
	}
	if err != nil {
		return moodlog.Entry{}, fmt.Errorf("querying mood log: %w", err)
	}
	return e, nil
}

// List returns every mood log, newest first.
func (r *MoodLogRepository) List(ctx context.Context) ([]moodlog.Entry, error) {
	query := `SELECT ` + moodLogColumns + ` FROM mood_logs ORDER BY logged_at DESC, id DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying mood logs: %w", err)
	}
	defer rows.Close()

	var entries []moodlog.Entry
	for rows.Next() {
		e, err := scanMoodLog(rows)
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

func scanMoodLog(row pgx.Row) (moodlog.Entry, error) {
	var e moodlog.Entry
	err := row.Scan(
		&e.ID,
		&e.Mood,
		&e.SongTitle,
		&e.Artist,
		&e.AlbumCoverURL,
		&e.Note,
		&e.IsFavorite,
		&e.Timestamp,
	)
	return e, err
}
