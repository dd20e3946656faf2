package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// gameEvent is one progress notification during game start, streamed to the
// browser over SSE.
type gameEvent struct {
	Type      string `json:"type"`
	SessionID string `json:"sessionId,omitempty"`
	Message   string `json:"message,omitempty"`
}

const (
	eventCaseReady         = "case-ready"
	eventIllustrationReady = "illustration-ready"
	eventSessionReady      = "session-ready"
	eventError             = "error"

	// eventSendTimeout bounds how long the producer waits for a consumer, so
	// an abandoned start does not leak its goroutine.
	eventSendTimeout = 30 * time.Second
)

// sendEvent pushes an event to the consumer, giving up after the timeout.
func sendEvent(events chan<- gameEvent, event gameEvent) bool {
	select {
	case events <- event:
		return true
	case <-time.After(eventSendTimeout):
		return false
	}
}

// streamStartEvents streams the progress of a game start as SSE. If the start
// has already finished the stream closes immediately and the client should
// fall back to polling the session endpoint.
func (app *application) streamStartEvents(w http.ResponseWriter, r *http.Request) {
	startID := r.PathValue("startID")

	flusher, ok := w.(http.Flusher)
	if !ok {
		app.serverError(w, r, fmt.Errorf("response writer does not support flushing"))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	flusher.Flush()

	events, ok := <-app.events.Subscribe(startID)
	if !ok {
		// Producer already finished or never started.
		return
	}

	for event := range events {
		payload, err := json.Marshal(event)
		if err != nil {
			app.serverError(w, r, err)
			return
		}
		if _, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, payload); err != nil {
			// Client went away; the producer's send timeout unblocks it.
			return
		}
		flusher.Flush()
	}
}
