package handler

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"riskprotocol/internal/dashboard"
	"riskprotocol/internal/gateway/service/form"
)

const (
	eventsWSWriteWait = 10 * time.Second
	eventsWSPongWait  = 60 * time.Second
	eventsWSPingEvery = (eventsWSPongWait * 9) / 10
)

var eventsWSUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

// eventsPayload is one push: the full controller snapshot plus the
// recomputed dashboard, so a connected view can re-render from scratch.
type eventsPayload struct {
	Type      string            `json:"type"`
	Snapshot  form.Snapshot     `json:"snapshot"`
	Dashboard dashboard.Summary `json:"dashboard"`
}

// EventsHandler pushes a snapshot to every connected client on each list
// or state change.
type EventsHandler struct {
	svc *form.Service

	mu   sync.Mutex
	subs map[chan eventsPayload]struct{}
}

func NewEventsHandler(svc *form.Service) *EventsHandler {
	return &EventsHandler{
		svc:  svc,
		subs: make(map[chan eventsPayload]struct{}),
	}
}

// Broadcast is registered as the form service's change callback. The
// snapshot is taken under the same lock that orders the sends, so
// concurrent changes cannot deliver payloads out of order and strand a
// client on a stale snapshot.
func (h *EventsHandler) Broadcast() {
	h.mu.Lock()
	defer h.mu.Unlock()
	payload := h.payload()
	for ch := range h.subs {
		select {
		case ch <- payload:
		default:
			// Slow consumer; it will catch up on the next change.
		}
	}
}

func (h *EventsHandler) payload() eventsPayload {
	snap := h.svc.Snapshot()
	return eventsPayload{
		Type:      "snapshot",
		Snapshot:  snap,
		Dashboard: dashboard.Summarize(snap.Records),
	}
}

func (h *EventsHandler) subscribe() chan eventsPayload {
	ch := make(chan eventsPayload, 8)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *EventsHandler) unsubscribe(ch chan eventsPayload) {
	h.mu.Lock()
	delete(h.subs, ch)
	h.mu.Unlock()
}

// HandleEvents serves /api/events as a websocket snapshot stream. The
// current snapshot is sent on connect, then one per change.
func (h *EventsHandler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := eventsWSUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	if err := conn.SetReadDeadline(time.Now().Add(eventsWSPongWait)); err != nil {
		log.Printf("events ws set read deadline failed: %v", err)
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(eventsWSPongWait))
	})

	sub := h.subscribe()
	defer h.unsubscribe(sub)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(eventsWSPingEvery)
	defer ticker.Stop()

	write := func(payload eventsPayload) error {
		if err := conn.SetWriteDeadline(time.Now().Add(eventsWSWriteWait)); err != nil {
			return err
		}
		return conn.WriteJSON(payload)
	}
	if err := write(h.payload()); err != nil {
		return
	}

	for {
		select {
		case <-done:
			return
		case payload := <-sub:
			if err := write(payload); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.SetWriteDeadline(time.Now().Add(eventsWSWriteWait)); err != nil {
				return
			}
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
