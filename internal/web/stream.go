package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const keepaliveInterval = 30 * time.Second

// StreamLogs sends a server-sent event with the queried history view
// whenever the store changes (GET /api/logs/stream?q=&sort=&mood=).
// The first event carries the current view.
func (h *Handlers) StreamLogs(w http.ResponseWriter, r *http.Request) {
	p, err := historyParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_sort", err.Error())
		return
	}

	ctx := r.Context()
	snaps, err := h.store.Subscribe(ctx)
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}

	rc := http.NewResponseController(w)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	keepalive := time.NewTicker(keepaliveInterval)
	defer keepalive.Stop()

	for {
		select {
		case snap, ok := <-snaps:
			if !ok {
				return
			}
			data, err := json.Marshal(buildView(snap, p))
			if err != nil {
				h.logger.Error("encoding history event", zap.Error(err))
				return
			}
			if _, err := fmt.Fprintf(w, "id: %d\nevent: history\ndata: %s\n\n", snap.Version, data); err != nil {
				return
			}
		case <-keepalive.C:
			if _, err := fmt.Fprint(w, ": keepalive\n\n"); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}

		if err := rc.Flush(); err != nil {
			return
		}
	}
}
