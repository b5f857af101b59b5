// Package moodlog defines mood-log entries, the records of which song was
// played while feeling which mood.
package moodlog

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/justestif/moodtunes/internal/mood"
)

// Common errors.
var (
	ErrNotFound     = errors.New("mood log not found")
	ErrInvalidEntry = errors.New("invalid mood log")
)

// Entry is one persisted mood log.
type Entry struct {
	ID            int64  `json:"id"`
	Mood          string `json:"mood"`
	SongTitle     string `json:"song_title"`
	Artist        string `json:"artist"`
	AlbumCoverURL string `json:"album_cover_url,omitempty"`
	Note          string `json:"note"`
	IsFavorite    bool   `json:"is_favorite"`
	Timestamp     int64  `json:"timestamp"` // Unix milliseconds, set once on creation
}

// Time returns the creation time.
func (e Entry) Time() time.Time {
	return time.UnixMilli(e.Timestamp)
}

// Draft is an entry before the store assigns its id and timestamp.
type Draft struct {
	Mood          string `json:"mood" validate:"required"`
	SongTitle     string `json:"song_title" validate:"required"`
	Artist        string `json:"artist" validate:"required"`
	AlbumCoverURL string `json:"album_cover_url,omitempty" validate:"omitempty,url"`
	Note          string `json:"note"`
	IsFavorite    bool   `json:"is_favorite"`
}

// Normalize trims text fields and spells known moods canonically.
func (d Draft) Normalize() Draft {
	d.Mood = mood.Canonical(strings.TrimSpace(d.Mood))
	d.SongTitle = strings.TrimSpace(d.SongTitle)
	d.Artist = strings.TrimSpace(d.Artist)
	d.AlbumCoverURL = strings.TrimSpace(d.AlbumCoverURL)
	return d
}

// Validate checks required fields. Errors wrap ErrInvalidEntry.
func (d Draft) Validate() error {
	return Validate(d)
}

// Entry builds the persisted form with the given id and timestamp.
func (d Draft) Entry(id, timestamp int64) Entry {
	return Entry{
		ID:            id,
		Mood:          d.Mood,
		SongTitle:     d.SongTitle,
		Artist:        d.Artist,
		AlbumCoverURL: d.AlbumCoverURL,
		Note:          d.Note,
		IsFavorite:    d.IsFavorite,
		Timestamp:     timestamp,
	}
}

// Validate checks that a replacement entry keeps its required fields.
func (e Entry) Validate() error {
	if e.ID <= 0 {
		return fmt.Errorf("%w: id is required", ErrInvalidEntry)
	}
	return Draft{
		Mood:          e.Mood,
		SongTitle:     e.SongTitle,
		Artist:        e.Artist,
		AlbumCoverURL: e.AlbumCoverURL,
	}.Validate()
}

// Clone returns a copy of entries that shares no backing array.
func Clone(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate runs struct validation tags and formats failures as
// "field is required"-style messages wrapped in ErrInvalidEntry.
func Validate(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidEntry, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, formatFieldError(fe))
	}
	return fmt.Errorf("%w: %s", ErrInvalidEntry, strings.Join(msgs, "; "))
}

func formatFieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "url":
		return field + " must be a valid URL"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return field + " is invalid"
	}
}
