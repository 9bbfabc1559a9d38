// Package hub maintains the set of live real-time subscribers and fans
// domain events out to them. Delivery is best-effort, at-most-once per
// subscriber: no retry, no replay. A subscriber whose transport fails
// is dropped, never allowed to break delivery to the others.
package hub

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"

	"busline/internal/domain"
)

// Conn is the transport surface the hub needs. *websocket.Conn
// satisfies it; tests use doubles.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Subscriber is the handle returned by Subscribe. All writes to the
// underlying connection are serialized through it, since a websocket
// conn does not allow concurrent writers.
type Subscriber struct {
	id   uint64
	conn Conn
	mu   sync.Mutex
}

func (s *Subscriber) write(messageType int, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteMessage(messageType, data)
}

// Ping sends a transport-level liveness probe.
func (s *Subscriber) Ping() error {
	return s.write(websocket.PingMessage, nil)
}

type Hub struct {
	mu     sync.RWMutex
	subs   map[uint64]*Subscriber
	nextID uint64
}

func New() *Hub {
	return &Hub{subs: map[uint64]*Subscriber{}}
}

// Subscribe registers a connection and returns its handle.
func (h *Hub) Subscribe(c Conn) *Subscriber {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	sub := &Subscriber{id: h.nextID, conn: c}
	h.subs[sub.id] = sub
	return sub
}

// Unsubscribe removes a subscriber. Safe to call more than once and
// from error/close paths.
func (h *Hub) Unsubscribe(sub *Subscriber) {
	if sub == nil {
		return
	}
	h.mu.Lock()
	delete(h.subs, sub.id)
	h.mu.Unlock()
}

// Count reports the number of live subscribers.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Broadcast serializes the event once and delivers it to every
// registered subscriber. A subscriber whose write fails is closed and
// removed instead of failing the broadcast.
func (h *Hub) Broadcast(ev domain.Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		log.Printf("[HUB] drop event type=%s: marshal: %v", ev.Type, err)
		return
	}

	h.mu.RLock()
	targets := make([]*Subscriber, 0, len(h.subs))
	for _, sub := range h.subs {
		targets = append(targets, sub)
	}
	h.mu.RUnlock()

	for _, sub := range targets {
		if err := sub.write(websocket.TextMessage, payload); err != nil {
			log.Printf("[HUB] drop subscriber %d: %v", sub.id, err)
			h.Unsubscribe(sub)
			_ = sub.conn.Close()
		}
	}
}
