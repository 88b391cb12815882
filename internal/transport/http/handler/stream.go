package handler

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/shop-notify/internal/realtime"
	"github.com/shop-notify/internal/transport/http/middleware"
)

// heartbeatInterval keeps intermediaries from closing idle SSE connections.
const heartbeatInterval = 30 * time.Second

// StreamHandler serves the live notification stream over Server-Sent Events.
type StreamHandler struct {
	registry *realtime.Registry
}

func NewStreamHandler(registry *realtime.Registry) *StreamHandler {
	return &StreamHandler{registry: registry}
}

// Stream subscribes the caller and pushes each notification targeted at
// them as one SSE event. A newer connection for the same user replaces
// this one; the replaced connection is closed server-side.
func (h *StreamHandler) Stream(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	stream := h.registry.Subscribe(claims.UserID)
	defer h.registry.Unsubscribe(stream)

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-stream.Done():
			return
		case item := <-stream.C():
			payload, err := json.Marshal(item)
			if err != nil {
				log.Printf("stream: marshal notification %s: %v", item.NotificationID, err)
				continue
			}
			if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
				return
			}
			flusher.Flush()
		case <-heartbeat.C:
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
