// Package stream fans freshly ingested log batches out to live dashboard
// subscribers, filtered by package name.
package stream

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/loglens/loglens/pkg/models"
)

const subscriberBuffer = 256

// Hub tracks active subscriptions per package name and broadcasts inserted
// log batches to them. Safe for concurrent use.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]map[*Subscription]struct{}
}

// Subscription is one listener's feed. Messages are JSON-encoded batches of
// log entries. C is closed when the subscription ends.
type Subscription struct {
	hub         *Hub
	packageName string
	closed      bool

	C chan []byte
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[*Subscription]struct{})}
}

// Subscribe registers a listener for packageName's inserts.
func (h *Hub) Subscribe(packageName string) *Subscription {
	sub := &Subscription{
		hub:         h,
		packageName: packageName,
		C:           make(chan []byte, subscriberBuffer),
	}

	h.mu.Lock()
	if h.subs[packageName] == nil {
		h.subs[packageName] = make(map[*Subscription]struct{})
	}
	h.subs[packageName][sub] = struct{}{}
	h.mu.Unlock()

	return sub
}

// Close unregisters the subscription and closes its channel.
func (s *Subscription) Close() {
	s.hub.mu.Lock()
	s.hub.removeLocked(s)
	s.hub.mu.Unlock()
}

// Publish sends the batch to every subscriber of packageName. A subscriber
// whose buffer is full is disconnected rather than blocking the publisher.
func (h *Hub) Publish(packageName string, entries []*models.LogEntry) {
	if len(entries) == 0 {
		return
	}

	data, err := json.Marshal(entries)
	if err != nil {
		slog.Error("failed to marshal log batch for stream", "error", err)
		return
	}

	h.mu.Lock()
	for sub := range h.subs[packageName] {
		select {
		case sub.C <- data:
		default:
			// Subscriber's buffer is full; disconnect it.
			h.removeLocked(sub)
		}
	}
	h.mu.Unlock()
}

// SubscriberCount returns the number of live subscriptions for packageName.
func (h *Hub) SubscriberCount(packageName string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[packageName])
}

// removeLocked deletes sub and closes its channel. Caller holds h.mu.
func (h *Hub) removeLocked(s *Subscription) {
	if s.closed {
		return
	}
	s.closed = true

	set := h.subs[s.packageName]
	delete(set, s)
	if len(set) == 0 {
		delete(h.subs, s.packageName)
	}
	close(s.C)
}
