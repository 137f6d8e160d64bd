package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"applyboard-engine/internal/events"
)

// heartbeat keeps proxies and the browser's EventSource from timing out an
// idle stream.
const heartbeat = 30 * time.Second

type EventsHandler struct {
	Hub *events.Hub
}

func (h EventsHandler) ServeSSE(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	flusher, ok := w.(http.Flusher)
	if !ok {
		WriteError(w, r, http.StatusInternalServerError, "stream_unsupported", "streaming unsupported")
		return
	}

	ch := h.Hub.Subscribe()
	defer h.Hub.Unsubscribe(ch)

	send := func(msg string) {
		fmt.Fprintf(w, "event: message\ndata: %s\n\n", msg)
		flusher.Flush()
	}

	reqID := RequestIDFrom(r.Context())
	send(events.MakeEvent(reqID, events.TypePing, 1, nil))

	t := time.NewTicker(heartbeat)
	defer t.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-t.C:
			send(events.MakeEvent(reqID, events.TypePing, 1, nil))
		case msg := <-ch:
			send(msg)
		}
	}
}
