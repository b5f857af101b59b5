package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justestif/moodtunes/internal/moodlog"
	"github.com/justestif/moodtunes/internal/store"
	"github.com/justestif/moodtunes/internal/store/storetest"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return db
}

func TestBackend(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Backend {
		return setupTestDB(t)
	})
}

func TestEmptyCoverRoundTrips(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)

	saved, err := db.Insert(ctx, moodlog.Entry{Mood: "Calm", SongTitle: "Weightless", Artist: "Marconi Union", Timestamp: 10})
	require.NoError(t, err)

	got, err := db.Get(ctx, saved.ID)
	require.NoError(t, err)
	assert.Empty(t, got.AlbumCoverURL)
	assert.Empty(t, got.Note)
	assert.False(t, got.IsFavorite)
}

func TestOpenFilePersists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "moodtunes.db")

	db, err := Open(ctx, path)
	require.NoError(t, err)
	saved, err := db.Insert(ctx, moodlog.Entry{Mood: "Happy", SongTitle: "Song", Artist: "Artist", Timestamp: 1})
	require.NoError(t, err)
	require.NoError(t, db.Close())

	reopened, err := Open(ctx, path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Get(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "Song", got.SongTitle)
}

func TestWithStore(t *testing.T) {
	ctx := context.Background()
	s := store.New(setupTestDB(t))

	saved, err := s.Append(ctx, moodlog.Draft{Mood: "sad", SongTitle: "Hurt", Artist: "Johnny Cash"})
	require.NoError(t, err)

	_, err = s.ToggleFavorite(ctx, saved.ID)
	require.NoError(t, err)

	snap, err := s.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Entries, 1)
	assert.Equal(t, "Sad", snap.Entries[0].Mood)
	assert.True(t, snap.Entries[0].IsFavorite)
}
