package eras

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justestif/moodtunes/internal/analysis"
	"github.com/justestif/moodtunes/internal/moodlog"
	"github.com/justestif/moodtunes/internal/store"
)

func seed(t *testing.T, moods ...string) *store.Store {
	t.Helper()
	s := store.New(store.NewMemory())
	for _, m := range moods {
		_, err := s.Append(context.Background(), moodlog.Draft{Mood: m, SongTitle: "Song", Artist: "Artist"})
		require.NoError(t, err)
	}
	return s
}

func TestDetect_Empty(t *testing.T) {
	svc := New(seed(t), analysis.DefaultEraConfig(), nil)

	result, err := svc.Detect(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, result.Eras)
	assert.NotNil(t, result.Outliers)
	assert.Zero(t, result.TotalLogs)
	assert.Equal(t, "No eras found from 0 logs", firstLine(result.Summary()))
}

func TestDetect_SingleEra(t *testing.T) {
	svc := New(seed(t, "Calm", "Calm", "Calm", "Calm"), analysis.DefaultEraConfig(), nil)

	result, err := svc.DetectWith(context.Background(), analysis.EraConfig{NumClusters: 1, MinClusterSize: 3})
	require.NoError(t, err)

	require.Len(t, result.Eras, 1)
	assert.Equal(t, "Calm", result.Eras[0].DominantMood)
	assert.Len(t, result.Eras[0].Entries, 4)
	assert.Zero(t, result.OutlierCount)
	assert.Equal(t, 4, result.TotalLogs)
	assert.Equal(t, uint64(4), result.Version)
}

func TestDetect_TooFewForClusters(t *testing.T) {
	svc := New(seed(t, "Happy", "Sad"), analysis.DefaultEraConfig(), nil)

	result, err := svc.Detect(context.Background())
	require.NoError(t, err)
	assert.Empty(t, result.Eras)
	assert.Equal(t, 2, result.OutlierCount)
	assert.Equal(t, analysis.DefaultEraConfig(), svc.Config())
}

type failingSource struct{}

func (failingSource) Snapshot(context.Context) (store.Snapshot, error) {
	return store.Snapshot{}, errors.New("disk on fire")
}

func TestDetect_SourceError(t *testing.T) {
	_, err := New(failingSource{}, analysis.DefaultEraConfig(), nil).Detect(context.Background())
	assert.ErrorContains(t, err, "disk on fire")
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}
