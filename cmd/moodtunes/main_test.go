package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chartBody = `{
	"tracks": {
		"data": [
			{"id": 1, "title": "Clair de Lune", "artist": {"name": "Debussy"}, "album": {"cover_medium": "https://e-cdns-images.dzcdn.net/1.jpg"}},
			{"id": 2, "title": "Gymnopedie No.1", "artist": {"name": "Satie"}, "album": {}}
		],
		"total": 2
	}
}`

// cli runs the command line against a fresh config pointing at a temporary
// SQLite database and a fake Deezer API.
type cli struct {
	configPath string
	chartPaths []string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	t.Setenv("SPOTIFY_ID", "")
	t.Setenv("SPOTIFY_SECRET", "")

	c := &cli{}
	deezer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.chartPaths = append(c.chartPaths, r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(chartBody))
	}))
	t.Cleanup(deezer.Close)

	dir := t.TempDir()
	c.configPath = filepath.Join(dir, "config.toml")
	config := fmt.Sprintf(`
[storage]
driver = "sqlite"
sqlite_path = %q

[catalog]
base_url = %q

[log]
level = "error"
`, filepath.Join(dir, "moodtunes.db"), deezer.URL)
	require.NoError(t, os.WriteFile(c.configPath, []byte(config), 0o600))
	return c
}

func (c *cli) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--config", c.configPath}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func (c *cli) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := c.run(t, args...)
	require.NoError(t, err, "moodtunes %v", args)
	return out
}

func TestMoodsCommand(t *testing.T) {
	out := newCLI(t).mustRun(t, "moods")
	assert.Contains(t, out, "😊 Happy")
	assert.Contains(t, out, "deezer chart 129")
}

func TestRecommendCommand(t *testing.T) {
	c := newCLI(t)
	out := c.mustRun(t, "recommend", "focused")

	assert.Contains(t, out, "Focused picks from deezer:")
	assert.Contains(t, out, " 1. Clair de Lune by Debussy")
	assert.Contains(t, out, " 2. Gymnopedie No.1 by Satie")
	assert.Equal(t, []string{"/chart/129"}, c.chartPaths)
}

func TestLogHistoryLifecycle(t *testing.T) {
	c := newCLI(t)

	out := c.mustRun(t, "log", "happy", "--title", "Here Comes the Sun", "--artist", "The Beatles")
	assert.Contains(t, out, "Logged #1: Here Comes the Sun by The Beatles (Happy)")
	c.mustRun(t, "log", "Sad", "--title", "Hurt", "--artist", "Johnny Cash")

	out = c.mustRun(t, "history")
	assert.Contains(t, out, "Newest First")
	assert.Contains(t, out, "Here Comes the Sun")
	assert.Contains(t, out, "Hurt")

	out = c.mustRun(t, "history", "--sort", "mood", "--mood", "angry")
	assert.Contains(t, out, "Angry Mood")
	assert.Contains(t, out, "No songs found for Angry mood")

	out = c.mustRun(t, "note", "2", "rainy", "day")
	assert.Contains(t, out, "Updated note on #2")
	out = c.mustRun(t, "history", "-q", "rainy")
	assert.Contains(t, out, "Hurt")
	assert.Contains(t, out, "rainy day")
	assert.NotContains(t, out, "Here Comes the Sun")

	out = c.mustRun(t, "favorite", "1")
	assert.Contains(t, out, "#1 added to favorites")
	out = c.mustRun(t, "history", "--sort", "favorites")
	assert.Contains(t, out, "Favorites First")
	assert.Contains(t, out, "★ #1")

	out = c.mustRun(t, "analyze")
	assert.Contains(t, out, "Based on 2 logged songs")

	out = c.mustRun(t, "delete", "1")
	assert.Contains(t, out, "Deleted #1")

	_, err := c.run(t, "delete", "1")
	assert.ErrorContains(t, err, "not found")
}

func TestErasCommand(t *testing.T) {
	c := newCLI(t)
	for range 3 {
		c.mustRun(t, "log", "Calm", "--title", "Weightless", "--artist", "Marconi Union")
	}

	out := c.mustRun(t, "eras", "--clusters", "1")
	assert.Contains(t, out, "Found 1 era from 3 logs")
	assert.Contains(t, out, "mostly Calm")
}

func TestCommandErrors(t *testing.T) {
	c := newCLI(t)

	tests := []struct {
		name string
		args []string
	}{
		{"log without title", []string{"log", "Happy", "--artist", "X"}},
		{"bad id", []string{"favorite", "abc"}},
		{"bad sort", []string{"history", "--sort", "sideways"}},
		{"missing config", []string{"--config", filepath.Join(t.TempDir(), "nope.toml"), "history"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.run(t, tt.args...)
			assert.Error(t, err)
		})
	}
}
