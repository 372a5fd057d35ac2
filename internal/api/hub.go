package api

import (
	"encoding/json"
	"log/slog"
	"sync"
	"sync/atomic"
)

// subscriberBuffer is how many messages a stream client may fall behind
// before new ones are dropped for it.
const subscriberBuffer = 64

// StreamMessage is one frame of the notification stream.
type StreamMessage struct {
	Type string `json:"type"` // "turn", "region_attacked"
	Data any    `json:"data"`
}

// Hub fans stream messages out to websocket subscribers. Publish never
// blocks: a subscriber whose buffer is full misses the message.
type Hub struct {
	mu     sync.Mutex
	nextID uint64
	subs   map[uint64]chan []byte

	dropped atomic.Uint64
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[uint64]chan []byte)}
}

// Subscribe registers a subscriber and returns its id and message channel.
func (h *Hub) Subscribe() (uint64, <-chan []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	ch := make(chan []byte, subscriberBuffer)
	h.subs[h.nextID] = ch
	return h.nextID, ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (h *Hub) Unsubscribe(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.subs[id]; ok {
		delete(h.subs, id)
		close(ch)
	}
}

// Subscribers returns the number of connected subscribers.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Dropped returns how many messages were dropped for slow subscribers.
func (h *Hub) Dropped() uint64 { return h.dropped.Load() }

// Publish sends msg to every subscriber.
func (h *Hub) Publish(msg StreamMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("stream message encode failed", "type", msg.Type, "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for id, ch := range h.subs {
		select {
		case ch <- data:
		default:
			h.dropped.Add(1)
			slog.Debug("stream subscriber lagging, message dropped", "sub_id", id, "type", msg.Type)
		}
	}
}
