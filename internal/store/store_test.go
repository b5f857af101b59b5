package store_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justestif/moodtunes/internal/metrics"
	"github.com/justestif/moodtunes/internal/moodlog"
	"github.com/justestif/moodtunes/internal/store"
	"github.com/justestif/moodtunes/internal/store/storetest"
)

func TestMemoryBackend(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Backend {
		return store.NewMemory()
	})
}

// stepClock returns a clock that advances one second per call.
func stepClock() func() time.Time {
	var mu sync.Mutex
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(time.Second)
		return now
	}
}

func newStore(opts ...store.Option) *store.Store {
	return store.New(store.NewMemory(), append([]store.Option{store.WithClock(stepClock())}, opts...)...)
}

func draft(m, title string) moodlog.Draft {
	return moodlog.Draft{Mood: m, SongTitle: title, Artist: "Artist"}
}

func receive(t *testing.T, ch <-chan store.Snapshot) store.Snapshot {
	t.Helper()
	select {
	case snap, ok := <-ch:
		require.True(t, ok, "subscription closed")
		return snap
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for snapshot")
		return store.Snapshot{}
	}
}

func TestAppend(t *testing.T) {
	ctx := context.Background()
	s := newStore()

	saved, err := s.Append(ctx, draft(" happy ", " Walking on Sunshine "))
	require.NoError(t, err)

	assert.Equal(t, int64(1), saved.ID)
	assert.Equal(t, "Happy", saved.Mood)
	assert.Equal(t, "Walking on Sunshine", saved.SongTitle)
	assert.Equal(t, time.Date(2024, 5, 1, 12, 0, 1, 0, time.UTC).UnixMilli(), saved.Timestamp)
	assert.False(t, saved.IsFavorite)
	assert.Empty(t, saved.Note)
}

func TestAppendRejectsInvalidDraft(t *testing.T) {
	s := newStore()

	_, err := s.Append(context.Background(), moodlog.Draft{Mood: "Happy", SongTitle: "  "})

	assert.ErrorIs(t, err, moodlog.ErrInvalidEntry)

	snap, err := s.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snap.Entries)
}

func TestSnapshotIsNewestFirstAndCopied(t *testing.T) {
	ctx := context.Background()
	s := newStore()

	for _, title := range []string{"one", "two", "three"} {
		_, err := s.Append(ctx, draft("Calm", title))
		require.NoError(t, err)
	}

	snap, err := s.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Entries, 3)
	assert.Equal(t, "three", snap.Entries[0].SongTitle)
	assert.Equal(t, "one", snap.Entries[2].SongTitle)

	snap.Entries[0].SongTitle = "mutated"

	again, err := s.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, "three", again.Entries[0].SongTitle)
}

func TestUpdateKeepsTimestamp(t *testing.T) {
	ctx := context.Background()
	s := newStore()

	saved, err := s.Append(ctx, draft("Sad", "Hurt"))
	require.NoError(t, err)

	replacement := saved
	replacement.Note = "rainy day"
	replacement.IsFavorite = true
	replacement.Timestamp = 1

	updated, err := s.Update(ctx, replacement)
	require.NoError(t, err)
	assert.Equal(t, saved.Timestamp, updated.Timestamp)
	assert.Equal(t, "rainy day", updated.Note)

	got, err := s.Get(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, got)
}

func TestUpdateErrors(t *testing.T) {
	ctx := context.Background()
	s := newStore()

	_, err := s.Update(ctx, moodlog.Entry{ID: 9, Mood: "Sad", SongTitle: "x", Artist: "y"})
	assert.ErrorIs(t, err, moodlog.ErrNotFound)

	_, err = s.Update(ctx, moodlog.Entry{ID: 9, Mood: "", SongTitle: "x", Artist: "y"})
	assert.ErrorIs(t, err, moodlog.ErrInvalidEntry)
}

func TestSetNoteAndToggleFavorite(t *testing.T) {
	ctx := context.Background()
	s := newStore()

	saved, err := s.Append(ctx, draft("Romantic", "At Last"))
	require.NoError(t, err)

	noted, err := s.SetNote(ctx, saved.ID, "wedding song")
	require.NoError(t, err)
	assert.Equal(t, "wedding song", noted.Note)

	fav, err := s.ToggleFavorite(ctx, saved.ID)
	require.NoError(t, err)
	assert.True(t, fav.IsFavorite)
	assert.Equal(t, "wedding song", fav.Note)

	unfav, err := s.ToggleFavorite(ctx, saved.ID)
	require.NoError(t, err)
	assert.False(t, unfav.IsFavorite)

	_, err = s.SetNote(ctx, 99, "nope")
	assert.ErrorIs(t, err, moodlog.ErrNotFound)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	s := newStore()

	saved, err := s.Append(ctx, draft("Angry", "Break Stuff"))
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, saved.ID))
	assert.ErrorIs(t, s.Delete(ctx, saved.ID), moodlog.ErrNotFound)

	_, err = s.Get(ctx, saved.ID)
	assert.ErrorIs(t, err, moodlog.ErrNotFound)
}

func TestSubscribe(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s := newStore()

	_, err := s.Append(ctx, draft("Happy", "first"))
	require.NoError(t, err)

	ch, err := s.Subscribe(ctx)
	require.NoError(t, err)

	initial := receive(t, ch)
	require.Len(t, initial.Entries, 1)

	second, err := s.Append(ctx, draft("Sad", "second"))
	require.NoError(t, err)

	afterAppend := receive(t, ch)
	require.Len(t, afterAppend.Entries, 2)
	assert.Equal(t, second.ID, afterAppend.Entries[0].ID)
	assert.Greater(t, afterAppend.Version, initial.Version)

	_, err = s.ToggleFavorite(ctx, second.ID)
	require.NoError(t, err)
	assert.True(t, receive(t, ch).Entries[0].IsFavorite)

	require.NoError(t, s.Delete(ctx, second.ID))
	assert.Len(t, receive(t, ch).Entries, 1)
}

func TestSubscribeSlowReaderSeesLatest(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s := newStore()

	ch, err := s.Subscribe(ctx)
	require.NoError(t, err)

	for _, title := range []string{"a", "b", "c"} {
		_, err := s.Append(ctx, draft("Focused", title))
		require.NoError(t, err)
	}

	snap := receive(t, ch)
	assert.Len(t, snap.Entries, 3)

	select {
	case extra := <-ch:
		t.Fatalf("unexpected stale snapshot with %d entries", len(extra.Entries))
	default:
	}
}

func TestSubscribersGetIndependentCopies(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s := newStore()

	a, err := s.Subscribe(ctx)
	require.NoError(t, err)
	b, err := s.Subscribe(ctx)
	require.NoError(t, err)
	receive(t, a)
	receive(t, b)

	_, err = s.Append(ctx, draft("Calm", "Weightless"))
	require.NoError(t, err)

	fromA := receive(t, a)
	fromB := receive(t, b)
	fromA.Entries[0].SongTitle = "changed"

	assert.Equal(t, "Weightless", fromB.Entries[0].SongTitle)
}

func TestSubscribeClosesOnCancel(t *testing.T) {
	m := metrics.New()
	s := newStore(store.WithMetrics(m))
	ctx, cancel := context.WithCancel(context.Background())

	ch, err := s.Subscribe(ctx)
	require.NoError(t, err)
	receive(t, ch)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Subscribers))

	cancel()

	require.Eventually(t, func() bool {
		select {
		case _, ok := <-ch:
			return !ok
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.Subscribers))

	// Writes after the subscriber left must not block or panic.
	_, err = s.Append(context.Background(), draft("Happy", "later"))
	require.NoError(t, err)
}

func TestWritesAreRecorded(t *testing.T) {
	ctx := context.Background()
	m := metrics.New()
	s := newStore(store.WithMetrics(m))

	saved, err := s.Append(ctx, draft("Happy", "x"))
	require.NoError(t, err)
	require.NoError(t, s.Delete(ctx, saved.ID))
	_ = s.Delete(ctx, saved.ID)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.StoreWrites.WithLabelValues("append", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StoreWrites.WithLabelValues("delete", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StoreWrites.WithLabelValues("delete", "error")))
}
