// Package store owns the mood log and publishes a fresh snapshot of it to
// subscribers after every change.
package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/justestif/moodtunes/internal/metrics"
	"github.com/justestif/moodtunes/internal/moodlog"
)

// Backend persists mood logs. Implementations must be safe for concurrent
// reads; the Store serializes all writes.
type Backend interface {
	// Insert stores e, assigning a new ID.
	Insert(ctx context.Context, e moodlog.Entry) (moodlog.Entry, error)
	// Replace overwrites the entry with e.ID. Returns moodlog.ErrNotFound if absent.
	Replace(ctx context.Context, e moodlog.Entry) error
	// Remove deletes an entry. Returns moodlog.ErrNotFound if absent.
	Remove(ctx context.Context, id int64) error
	// Get returns one entry or moodlog.ErrNotFound.
	Get(ctx context.Context, id int64) (moodlog.Entry, error)
	// List returns every entry, newest first.
	List(ctx context.Context) ([]moodlog.Entry, error)
}

// Snapshot is a point-in-time copy of every entry, newest first.
// Holders own their copy.
type Snapshot struct {
	Version uint64          `json:"version"`
	Entries []moodlog.Entry `json:"entries"`
}

// Store is the single owner of record for mood logs.
type Store struct {
	backend Backend
	logger  *zap.Logger
	metrics *metrics.Metrics
	now     func() time.Time

	mu      sync.Mutex // serializes writes and publishing
	version uint64

	subMu sync.Mutex
	subs  map[uuid.UUID]chan Snapshot
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// WithMetrics records writes and subscriber counts.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Store) { s.metrics = m }
}

// WithClock overrides the clock used for entry timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New creates a Store over backend.
func New(backend Backend, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		logger:  zap.NewNop(),
		now:     time.Now,
		subs:    make(map[uuid.UUID]chan Snapshot),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Append validates d, stamps it with an ID and the current time, and stores it.
func (s *Store) Append(ctx context.Context, d moodlog.Draft) (moodlog.Entry, error) {
	d = d.Normalize()
	if err := d.Validate(); err != nil {
		return moodlog.Entry{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	saved, err := s.backend.Insert(ctx, d.Entry(0, s.now().UnixMilli()))
	s.metrics.ObserveWrite("append", err)
	if err != nil {
		return moodlog.Entry{}, fmt.Errorf("appending mood log: %w", err)
	}

	s.logger.Info("mood logged",
		zap.Int64("id", saved.ID),
		zap.String("mood", saved.Mood),
		zap.String("song", saved.SongTitle))

	s.publish(ctx)
	return saved, nil
}

// Update replaces the entry with e.ID. The stored timestamp is kept.
func (s *Store) Update(ctx context.Context, e moodlog.Entry) (moodlog.Entry, error) {
	if err := e.Validate(); err != nil {
		return moodlog.Entry{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.modify(ctx, "update", e.ID, func(cur *moodlog.Entry) {
		ts := cur.Timestamp
		*cur = e
		cur.Timestamp = ts
	})
}

// SetNote replaces the note on one entry.
func (s *Store) SetNote(ctx context.Context, id int64, note string) (moodlog.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.modify(ctx, "note", id, func(cur *moodlog.Entry) {
		cur.Note = note
	})
}

// ToggleFavorite flips the favorite flag on one entry.
func (s *Store) ToggleFavorite(ctx context.Context, id int64) (moodlog.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.modify(ctx, "favorite", id, func(cur *moodlog.Entry) {
		cur.IsFavorite = !cur.IsFavorite
	})
}

// modify runs a read-modify-write on one entry. Caller holds s.mu.
func (s *Store) modify(ctx context.Context, op string, id int64, fn func(*moodlog.Entry)) (moodlog.Entry, error) {
	cur, err := s.backend.Get(ctx, id)
	if err != nil {
		s.metrics.ObserveWrite(op, err)
		return moodlog.Entry{}, fmt.Errorf("loading mood log %d: %w", id, err)
	}

	fn(&cur)
	cur.ID = id

	err = s.backend.Replace(ctx, cur)
	s.metrics.ObserveWrite(op, err)
	if err != nil {
		return moodlog.Entry{}, fmt.Errorf("saving mood log %d: %w", id, err)
	}

	s.logger.Debug("mood log updated", zap.String("op", op), zap.Int64("id", id))

	s.publish(ctx)
	return cur, nil
}

// Delete removes one entry.
func (s *Store) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.backend.Remove(ctx, id)
	s.metrics.ObserveWrite("delete", err)
	if err != nil {
		return fmt.Errorf("deleting mood log %d: %w", id, err)
	}

	s.logger.Info("mood log deleted", zap.Int64("id", id))

	s.publish(ctx)
	return nil
}

// Get returns one entry.
func (s *Store) Get(ctx context.Context, id int64) (moodlog.Entry, error) {
	e, err := s.backend.Get(ctx, id)
	if err != nil {
		return moodlog.Entry{}, fmt.Errorf("getting mood log %d: %w", id, err)
	}
	return e, nil
}

// Snapshot returns a copy of every entry, newest first.
func (s *Store) Snapshot(ctx context.Context) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.snapshot(ctx)
}

func (s *Store) snapshot(ctx context.Context) (Snapshot, error) {
	entries, err := s.backend.List(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("listing mood logs: %w", err)
	}
	if entries == nil {
		entries = []moodlog.Entry{}
	}
	return Snapshot{Version: s.version, Entries: entries}, nil
}

// Subscribe returns a channel that immediately yields the current snapshot
// and then a new one after every change. A slow reader only ever sees the
// latest snapshot. The channel is closed when ctx is done.
func (s *Store) Subscribe(ctx context.Context) (<-chan Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	ch := make(chan Snapshot, 1)
	ch <- snap

	id := uuid.New()
	s.subMu.Lock()
	s.subs[id] = ch
	s.metrics.SetSubscribers(len(s.subs))
	s.subMu.Unlock()

	s.logger.Debug("history subscriber added", zap.Stringer("subscriber", id))

	go func() {
		<-ctx.Done()

		s.subMu.Lock()
		delete(s.subs, id)
		close(ch)
		s.metrics.SetSubscribers(len(s.subs))
		s.subMu.Unlock()

		s.logger.Debug("history subscriber removed", zap.Stringer("subscriber", id))
	}()

	return ch, nil
}

// publish sends a fresh snapshot to every subscriber. Caller holds s.mu.
func (s *Store) publish(ctx context.Context) {
	// The write already happened; a canceled caller must not suppress it.
	ctx = context.WithoutCancel(ctx)

	s.version++
	snap, err := s.snapshot(ctx)
	if err != nil {
		s.logger.Error("failed to publish snapshot", zap.Error(err))
		return
	}

	s.subMu.Lock()
	defer s.subMu.Unlock()

	for _, ch := range s.subs {
		deliver(ch, Snapshot{Version: snap.Version, Entries: moodlog.Clone(snap.Entries)})
	}
}

// deliver replaces any unread snapshot in ch with snap. Only publish sends,
// and it holds subMu, so the second send never blocks.
func deliver(ch chan Snapshot, snap Snapshot) {
	select {
	case ch <- snap:
		return
	default:
	}

	select {
	case <-ch:
	default:
	}
	ch <- snap
}
