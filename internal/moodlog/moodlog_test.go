package moodlog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDraftValidate(t *testing.T) {
	tests := []struct {
		name    string
		draft   Draft
		wantErr string
	}{
		{
			name:  "valid draft",
			draft: Draft{Mood: "Happy", SongTitle: "Song", Artist: "Artist"},
		},
		{
			name:  "valid with cover",
			draft: Draft{Mood: "Happy", SongTitle: "Song", Artist: "Artist", AlbumCoverURL: "https://cdn.example.com/a.jpg"},
		},
		{
			name:    "missing mood",
			draft:   Draft{SongTitle: "Song", Artist: "Artist"},
			wantErr: "mood is required",
		},
		{
			name:    "missing title and artist",
			draft:   Draft{Mood: "Sad"},
			wantErr: "song_title is required; artist is required",
		},
		{
			name:    "bad cover url",
			draft:   Draft{Mood: "Sad", SongTitle: "S", Artist: "A", AlbumCoverURL: "not a url"},
			wantErr: "album_cover_url must be a valid URL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.draft.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrInvalidEntry)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDraftNormalize(t *testing.T) {
	d := Draft{Mood: " happy ", SongTitle: "  Song ", Artist: "Artist  "}.Normalize()
	assert.Equal(t, "Happy", d.Mood)
	assert.Equal(t, "Song", d.SongTitle)
	assert.Equal(t, "Artist", d.Artist)
}

func TestDraftNormalizeWhitespaceOnlyFailsValidation(t *testing.T) {
	d := Draft{Mood: "Calm", SongTitle: "   ", Artist: "A"}.Normalize()
	assert.ErrorIs(t, d.Validate(), ErrInvalidEntry)
}

func TestEntryValidate(t *testing.T) {
	e := Draft{Mood: "Calm", SongTitle: "S", Artist: "A"}.Entry(0, 1)
	assert.ErrorIs(t, e.Validate(), ErrInvalidEntry)

	e.ID = 3
	assert.NoError(t, e.Validate())
}

func TestClone(t *testing.T) {
	in := []Entry{{ID: 1, Note: "a"}}
	out := Clone(in)
	out[0].Note = "b"
	assert.Equal(t, "a", in[0].Note)
}
