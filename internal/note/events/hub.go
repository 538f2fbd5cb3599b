package events

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/AlibekovAA/dh-notes/internal/common/logger"
	"github.com/AlibekovAA/dh-notes/internal/note/domain"
	"github.com/AlibekovAA/dh-notes/internal/observability/metrics"
)

const broadcastBuffer = 256

// Hub fans note change events out to every connected subscriber. A subscriber
// whose send buffer is full is disconnected rather than blocking the hub.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}
	log        *logger.Logger

	mu      sync.RWMutex
	clients map[*Client]struct{}
}

func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, broadcastBuffer),
		done:       make(chan struct{}),
		log:        log,
		clients:    make(map[*Client]struct{}),
	}
}

func (h *Hub) Register(c *Client) {
	select {
	case h.register <- c:
	case <-h.done:
		close(c.send)
	}
}

func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Publish implements the note service's event publisher. It never blocks the
// caller; events are dropped when the broadcast queue is full.
func (h *Hub) Publish(event domain.Event) {
	payload, err := json.Marshal(messageFromEvent(event))
	if err != nil {
		h.log.WithFields(context.Background(), logger.Fields{
			"type":   string(event.Type),
			"action": "note_event_marshal_failed",
		}).Errorf("note event marshal failed: %v", err)
		return
	}

	select {
	case h.broadcast <- payload:
		metrics.NoteStreamEventsTotal.WithLabelValues(string(event.Type)).Inc()
	case <-h.done:
	default:
		h.log.WithFields(context.Background(), logger.Fields{
			"type":   string(event.Type),
			"action": "note_event_dropped",
		}).Warn("note event dropped: broadcast queue full")
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = struct{}{}
			total := len(h.clients)
			h.mu.Unlock()
			metrics.NoteStreamSubscribers.Inc()
			h.log.WithFields(c.ctx, logger.Fields{
				"username": c.username,
				"total":    total,
				"action":   "ws_register",
			}).Info("note stream subscriber registered")

		case c := <-h.unregister:
			h.remove(c, "unregister")

		case payload := <-h.broadcast:
			h.mu.RLock()
			var slow []*Client
			for c := range h.clients {
				select {
				case c.send <- payload:
				default:
					slow = append(slow, c)
				}
			}
			h.mu.RUnlock()
			for _, c := range slow {
				h.remove(c, "slow_consumer")
			}
		}
	}
}

func (h *Hub) remove(c *Client, reason string) {
	h.mu.Lock()
	if _, ok := h.clients[c]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c)
	h.mu.Unlock()

	close(c.send)
	metrics.NoteStreamSubscribers.Dec()
	h.log.WithFields(c.ctx, logger.Fields{
		"username": c.username,
		"reason":   reason,
		"action":   "ws_unregister",
	}).Info("note stream subscriber removed")
}

func (h *Hub) shutdown() {
	h.mu.Lock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		h.remove(c, "shutdown")
	}

	h.log.WithFields(context.Background(), logger.Fields{
		"clients": len(clients),
		"action":  "ws_hub_shutdown",
	}).Info("note stream hub shutdown completed")
}
