package httpserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/lutefd/cricket-api/internal/live"
)

// handleLive streams score updates for one match as server-sent events. The
// first event is the current scoreboard.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	board, err := s.scorer.Scoreboard(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		s.writeError(w, r, fmt.Errorf("streaming unsupported"))
		return
	}

	ctx := r.Context()
	updates := s.hub.Subscribe(ctx, id)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	if err := writeEvent(w, live.Update{MatchID: id, Event: "snapshot", Payload: board, At: s.now()}); err != nil {
		return
	}
	flusher.Flush()

	ticker := time.NewTicker(s.sseInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()
		case u, ok := <-updates:
			if !ok {
				return
			}
			if err := writeEvent(w, u); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, u live.Update) error {
	data, err := json.Marshal(u)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", u.Event, data)
	return err
}
