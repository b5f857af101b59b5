package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/justestif/moodtunes/internal/analysis"
	"github.com/justestif/moodtunes/internal/artwork"
	"github.com/justestif/moodtunes/internal/catalog"
	"github.com/justestif/moodtunes/internal/eras"
	"github.com/justestif/moodtunes/internal/history"
	"github.com/justestif/moodtunes/internal/mood"
	"github.com/justestif/moodtunes/internal/moodlog"
	"github.com/justestif/moodtunes/internal/store"
)

const maxBodyBytes = 1 << 20

// Handlers contains HTTP handlers for the API.
type Handlers struct {
	store   *store.Store
	catalog *catalog.Service
	artwork *artwork.Loader
	eras    *eras.Service
	logger  *zap.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(st *store.Store, cat *catalog.Service, art *artwork.Loader, er *eras.Service, logger *zap.Logger) *Handlers {
	return &Handlers{
		store:   st,
		catalog: cat,
		artwork: art,
		eras:    er,
		logger:  logger,
	}
}

// Health reports liveness (GET /healthz).
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type moodResponse struct {
	Name          string `json:"name"`
	Emoji         string `json:"emoji"`
	Label         string `json:"label"`
	DeezerGenreID int    `json:"deezer_genre_id"`
	Genre         string `json:"genre"`
}

// Moods lists the mood vocabulary (GET /api/moods).
func (h *Handlers) Moods(w http.ResponseWriter, r *http.Request) {
	all := mood.All()
	out := make([]moodResponse, 0, len(all))
	for _, m := range all {
		out = append(out, moodResponse{
			Name:          m.Name,
			Emoji:         m.Emoji,
			Label:         m.Label(),
			DeezerGenreID: m.Category.DeezerGenreID,
			Genre:         m.Category.Genre,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

type tracksResponse struct {
	Mood     string          `json:"mood"`
	Provider string          `json:"provider"`
	Tracks   []catalog.Track `json:"tracks"`
}

// Tracks returns catalog recommendations for a mood (GET /api/moods/{mood}/tracks).
// Catalog failures yield an empty list.
func (h *Handlers) Tracks(w http.ResponseWriter, r *http.Request) {
	label := mood.Canonical(chi.URLParam(r, "mood"))

	writeJSON(w, http.StatusOK, tracksResponse{
		Mood:     label,
		Provider: h.catalog.Provider(),
		Tracks:   h.catalog.FetchByMood(r.Context(), label),
	})
}

// historyView is one rendering of the history screen.
type historyView struct {
	Version      uint64          `json:"version"`
	Display      string          `json:"display"`
	EmptyMessage string          `json:"empty_message,omitempty"`
	Count        int             `json:"count"`
	Entries      []moodlog.Entry `json:"entries"`
}

func buildView(snap store.Snapshot, p history.Params) historyView {
	entries := history.Query(snap.Entries, p)
	view := historyView{
		Version: snap.Version,
		Display: history.DisplayLabel(p),
		Count:   len(entries),
		Entries: entries,
	}
	if len(entries) == 0 {
		view.EmptyMessage = history.EmptyMessage(p)
	}
	return view
}

func historyParams(r *http.Request) (history.Params, error) {
	q := r.URL.Query()
	sort, err := history.ParseSortMode(q.Get("sort"))
	if err != nil {
		return history.Params{}, err
	}
	return history.Params{
		Search: q.Get("q"),
		Sort:   sort,
		Mood:   q.Get("mood"),
	}, nil
}

// ListLogs runs a history query over the current snapshot (GET /api/logs).
func (h *Handlers) ListLogs(w http.ResponseWriter, r *http.Request) {
	p, err := historyParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_sort", err.Error())
		return
	}

	snap, err := h.store.Snapshot(r.Context())
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, buildView(snap, p))
}

// CreateLog appends a mood log (POST /api/logs).
func (h *Handlers) CreateLog(w http.ResponseWriter, r *http.Request) {
	var draft moodlog.Draft
	if !decodeBody(w, r, &draft) {
		return
	}

	entry, err := h.store.Append(r.Context(), draft)
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

// GetLog returns one entry (GET /api/logs/{id}).
func (h *Handlers) GetLog(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	entry, err := h.store.Get(r.Context(), id)
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

type noteRequest struct {
	Note *string `json:"note"`
}

// UpdateNote replaces an entry's note (PATCH /api/logs/{id}).
func (h *Handlers) UpdateNote(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req noteRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Note == nil {
		writeError(w, http.StatusBadRequest, "invalid_entry", "note is required")
		return
	}

	entry, err := h.store.SetNote(r.Context(), id, *req.Note)
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// ToggleFavorite flips an entry's favorite flag (POST /api/logs/{id}/favorite).
func (h *Handlers) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	entry, err := h.store.ToggleFavorite(r.Context(), id)
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// DeleteLog removes an entry (DELETE /api/logs/{id}).
func (h *Handlers) DeleteLog(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.store.Delete(r.Context(), id); err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Cover serves an entry's album cover as a JPEG thumbnail
// (GET /api/logs/{id}/cover?size=&handle=). A newer request with the same
// handle cancels this one.
func (h *Handlers) Cover(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var size uint
	if raw := r.URL.Query().Get("size"); raw != "" {
		n, err := strconv.ParseUint(raw, 10, 16)
		if err != nil || n == 0 {
			writeError(w, http.StatusBadRequest, "invalid_size", "size must be a positive integer")
			return
		}
		size = uint(n)
	}

	handle := r.URL.Query().Get("handle")
	if handle == "" {
		handle = "log-" + strconv.FormatInt(id, 10)
	}

	entry, err := h.store.Get(r.Context(), id)
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}

	data, err := h.artwork.Load(r.Context(), handle, entry.AlbumCoverURL, size)
	switch {
	case err == nil:
	case errors.Is(err, artwork.ErrNoCover):
		writeError(w, http.StatusNotFound, "no_cover", "entry has no cover art")
		return
	case errors.Is(err, context.Canceled):
		if r.Context().Err() != nil {
			return
		}
		writeError(w, http.StatusConflict, "superseded", "cover request replaced by a newer one")
		return
	default:
		writeError(w, http.StatusBadGateway, "cover_unavailable", "could not load cover art")
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	if _, err := w.Write(data); err != nil {
		h.logger.Debug("writing cover", zap.Int64("id", id), zap.Error(err))
	}
}

type statsResponse struct {
	Total        int                 `json:"total"`
	Distribution []history.MoodCount `json:"distribution"`
}

// Stats returns the mood distribution (GET /api/stats).
func (h *Handlers) Stats(w http.ResponseWriter, r *http.Request) {
	snap, err := h.store.Snapshot(r.Context())
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}

	dist := history.Stats(snap.Entries)
	if dist == nil {
		dist = []history.MoodCount{}
	}
	writeJSON(w, http.StatusOK, statsResponse{Total: len(snap.Entries), Distribution: dist})
}

type analysisResponse struct {
	analysis.MoodAnalysis
	Level  analysis.ConfidenceLevel `json:"level"`
	Report string                   `json:"report"`
}

// Analysis runs the mood analysis over the current snapshot (GET /api/analysis).
func (h *Handlers) Analysis(w http.ResponseWriter, r *http.Request) {
	snap, err := h.store.Snapshot(r.Context())
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}

	a := analysis.Analyze(snap.Entries)
	writeJSON(w, http.StatusOK, analysisResponse{
		MoodAnalysis: a,
		Level:        a.Level(),
		Report:       analysis.FormatReport(a),
	})
}

// Eras clusters the history into mood eras (GET /api/eras?clusters=&min_size=).
func (h *Handlers) Eras(w http.ResponseWriter, r *http.Request) {
	cfg := h.eras.Config()
	q := r.URL.Query()

	for _, param := range []struct {
		name string
		dst  *int
	}{
		{"clusters", &cfg.NumClusters},
		{"min_size", &cfg.MinClusterSize},
	} {
		raw := q.Get(param.name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "invalid_"+param.name, param.name+" must be a positive integer")
			return
		}
		*param.dst = n
	}

	result, err := h.eras.DetectWith(r.Context(), cfg)
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_id", "id must be a positive integer")
		return 0, false
	}
	return id, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return false
	}
	return true
}
