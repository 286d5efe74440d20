// Package eventhub fans chain lifecycle events out to subscribers.
package eventhub

import (
	"strconv"
	"sync"

	"github.com/trade-hub/trade-hub/internal/domain/chain"
)

// Hub implements chain.Publisher and manages subscriber channels. Sends
// never block: a subscriber that falls behind loses events.
type Hub struct {
	mu   sync.RWMutex
	next int
	subs map[string]chan chain.Event
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]chan chain.Event)}
}

// Subscribe registers a buffered event channel and returns its id.
func (h *Hub) Subscribe(buffer int) (string, <-chan chain.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.next++
	id := "sub-" + strconv.Itoa(h.next)
	ch := make(chan chain.Event, buffer)
	h.subs[id] = ch
	return id, ch
}

// Unsubscribe closes and removes a subscriber. Unknown ids are no-ops.
func (h *Hub) Unsubscribe(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.subs[id]; ok {
		close(ch)
		delete(h.subs, id)
	}
}

func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

func (h *Hub) Publish(e chain.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.subs {
		select {
		case ch <- e:
		default:
		}
	}
}
