package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
)

// RingSize is the number of recent events kept for Last-Event-ID replay.
const RingSize = 1000

// Event is a single fanned-out event.
type Event struct {
	ID    uint64 // monotonically increasing sequence number
	Topic string
	Data  []byte // JSON payload
}

// Hub fans events out to in-process clients (the SSE stream) and keeps a ring buffer
// for reconnecting clients. It also satisfies Publisher so services can publish straight
// into it when no message bus is configured.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	nextID  atomic.Uint64

	ringMu  sync.RWMutex
	ring    [RingSize]Event
	ringPos int
	ringLen int
}

// Client is one connected consumer.
type Client struct {
	topics []string
	ch     chan *Event
}

// NewHub returns an empty Hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[*Client]struct{})}
}

var _ Publisher = (*Hub)(nil)

// Publish marshals event and broadcasts it.
func (h *Hub) Publish(_ context.Context, topic string, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshaling event: %w", err)
	}
	h.Broadcast(topic, payload)
	return nil
}

// Close disconnects nothing; clients end with their request context.
func (h *Hub) Close() error { return nil }

// Broadcast records payload and sends it to every client whose filters match topic.
// Slow clients miss events instead of blocking the publisher.
func (h *Hub) Broadcast(topic string, payload []byte) {
	evt := &Event{ID: h.nextID.Add(1), Topic: topic, Data: payload}

	h.ringMu.Lock()
	h.ring[h.ringPos] = *evt
	h.ringPos = (h.ringPos + 1) % RingSize
	if h.ringLen < RingSize {
		h.ringLen++
	}
	h.ringMu.Unlock()

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		if c.Matches(topic) {
			select {
			case c.ch <- evt:
			default:
			}
		}
	}
}

// Subscribe registers a client. Call Unsubscribe when done.
func (h *Hub) Subscribe(topics []string) *Client {
	c := &Client{topics: topics, ch: make(chan *Event, 64)}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	return c
}

// Unsubscribe removes c from the hub.
func (h *Hub) Unsubscribe(c *Client) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// EventsSince returns buffered events with ID > lastID, oldest first.
func (h *Hub) EventsSince(lastID uint64) []*Event {
	h.ringMu.RLock()
	defer h.ringMu.RUnlock()

	var result []*Event
	start := h.ringPos - h.ringLen
	if start < 0 {
		start += RingSize
	}
	for i := range h.ringLen {
		evt := h.ring[(start+i)%RingSize]
		if evt.ID > lastID {
			result = append(result, &evt)
		}
	}
	return result
}

// Events returns the channel the client receives on.
func (c *Client) Events() <-chan *Event {
	return c.ch
}

// Matches reports whether the client's filters accept topic. No filters accept everything.
func (c *Client) Matches(topic string) bool {
	if len(c.topics) == 0 {
		return true
	}
	for _, p := range c.topics {
		if MatchTopic(p, topic) {
			return true
		}
	}
	return false
}

// MatchTopic matches a dot-separated topic against a pattern. "*" matches one segment and a
// trailing ">" matches one or more remaining segments, as in NATS subjects.
func MatchTopic(pattern, topic string) bool {
	if pattern == topic {
		return true
	}
	patParts := strings.Split(pattern, ".")
	topParts := strings.Split(topic, ".")
	for i, pp := range patParts {
		if pp == ">" {
			return i < len(topParts)
		}
		if i >= len(topParts) {
			return false
		}
		if pp != "*" && pp != topParts[i] {
			return false
		}
	}
	return len(patParts) == len(topParts)
}
