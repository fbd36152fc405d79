package main

import (
	"encoding/json"
	"net/http"

	"github.com/Simplici0/oficina/internal/events"
)

// eventBuffer bounds how many changes a slow client may lag behind before
// changes are dropped for it.
const eventBuffer = 64

// handleEvents streams store changes as server-sent events until the
// client disconnects.
func (s *server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	changes := make(chan events.Change, eventBuffer)
	unsubscribe := s.bus.SubscribeAll(func(c events.Change) {
		select {
		case changes <- c:
		default:
			s.logger.Warn("dropping change for slow event client", "table", c.Table, "id", c.ID)
		}
	})
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Accel-Buffering", "no")

	if _, err := w.Write([]byte(": connected\n\n")); err != nil {
		return
	}
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case c := <-changes:
			data, err := json.Marshal(c)
			if err != nil {
				s.logger.Error("encode change event failed", "error", err)
				continue
			}
			if _, err := w.Write([]byte("event: " + c.Table + "\ndata: ")); err != nil {
				return
			}
			if _, err := w.Write(append(data, '\n', '\n')); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
