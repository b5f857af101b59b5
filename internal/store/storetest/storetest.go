// Package storetest checks that a store.Backend behaves like the others.
package storetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justestif/moodtunes/internal/moodlog"
	"github.com/justestif/moodtunes/internal/store"
)

// Run exercises a fresh backend from newBackend in each subtest.
func Run(t *testing.T, newBackend func(t *testing.T) store.Backend) {
	t.Helper()
	ctx := context.Background()

	entry := func(title string, ts int64) moodlog.Entry {
		return moodlog.Entry{
			Mood:          "Happy",
			SongTitle:     title,
			Artist:        "Artist",
			AlbumCoverURL: "https://example.com/" + title + ".jpg",
			Timestamp:     ts,
		}
	}

	t.Run("insert assigns increasing ids", func(t *testing.T) {
		b := newBackend(t)

		first, err := b.Insert(ctx, entry("one", 100))
		require.NoError(t, err)
		second, err := b.Insert(ctx, entry("two", 200))
		require.NoError(t, err)

		assert.Positive(t, first.ID)
		assert.Greater(t, second.ID, first.ID)

		got, err := b.Get(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, first, got)
	})

	t.Run("list is newest first with ties by id", func(t *testing.T) {
		b := newBackend(t)

		a, err := b.Insert(ctx, entry("a", 100))
		require.NoError(t, err)
		c, err := b.Insert(ctx, entry("c", 300))
		require.NoError(t, err)
		d, err := b.Insert(ctx, entry("d", 100))
		require.NoError(t, err)

		got, err := b.List(ctx)
		require.NoError(t, err)

		var ids []int64
		for _, e := range got {
			ids = append(ids, e.ID)
		}
		assert.Equal(t, []int64{c.ID, d.ID, a.ID}, ids)
	})

	t.Run("empty list", func(t *testing.T) {
		b := newBackend(t)

		got, err := b.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("replace overwrites mutable fields", func(t *testing.T) {
		b := newBackend(t)

		saved, err := b.Insert(ctx, entry("song", 100))
		require.NoError(t, err)

		saved.Note = "on repeat"
		saved.IsFavorite = true
		require.NoError(t, b.Replace(ctx, saved))

		got, err := b.Get(ctx, saved.ID)
		require.NoError(t, err)
		assert.Equal(t, "on repeat", got.Note)
		assert.True(t, got.IsFavorite)
		assert.Equal(t, int64(100), got.Timestamp)
	})

	t.Run("missing ids report not found", func(t *testing.T) {
		b := newBackend(t)

		_, err := b.Get(ctx, 42)
		assert.ErrorIs(t, err, moodlog.ErrNotFound)

		err = b.Replace(ctx, moodlog.Entry{ID: 42, Mood: "Sad", SongTitle: "x", Artist: "y"})
		assert.ErrorIs(t, err, moodlog.ErrNotFound)

		assert.ErrorIs(t, b.Remove(ctx, 42), moodlog.ErrNotFound)
	})

	t.Run("remove deletes", func(t *testing.T) {
		b := newBackend(t)

		saved, err := b.Insert(ctx, entry("gone", 100))
		require.NoError(t, err)
		require.NoError(t, b.Remove(ctx, saved.ID))

		_, err = b.Get(ctx, saved.ID)
		assert.ErrorIs(t, err, moodlog.ErrNotFound)
	})
}
