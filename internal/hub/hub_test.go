package hub

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/gorilla/websocket"

	"busline/internal/domain"
)

// fakeConn records everything written to it and can be told to fail.
type fakeConn struct {
	mu       sync.Mutex
	messages [][]byte
	failWith error
	closed   bool
}

func (c *fakeConn) WriteMessage(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failWith != nil {
		return c.failWith
	}
	if messageType == websocket.TextMessage {
		c.messages = append(c.messages, append([]byte(nil), data...))
	}
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) received() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.messages
}

func TestBroadcastReachesAllSubscribers(t *testing.T) {
	h := New()
	a, b := &fakeConn{}, &fakeConn{}
	h.Subscribe(a)
	h.Subscribe(b)

	h.Broadcast(domain.Event{Type: domain.EventBookingCreated, Data: domain.BookingCreated{BookingID: "b-1", ScheduleID: "s-1"}})

	for _, conn := range []*fakeConn{a, b} {
		msgs := conn.received()
		if len(msgs) != 1 {
			t.Fatalf("received %d messages, want 1", len(msgs))
		}
		var ev struct {
			Type string          `json:"type"`
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(msgs[0], &ev); err != nil {
			t.Fatalf("payload not JSON: %v", err)
		}
		if ev.Type != domain.EventBookingCreated {
			t.Fatalf("event type = %q", ev.Type)
		}
	}
}

func TestLateSubscriberMissesEarlierEvents(t *testing.T) {
	h := New()
	early := &fakeConn{}
	h.Subscribe(early)

	h.Broadcast(domain.Event{Type: domain.EventBusLocations, Data: []domain.BusLocationUpdate{}})

	late := &fakeConn{}
	h.Subscribe(late)
	if len(late.received()) != 0 {
		t.Fatalf("late subscriber received replayed events")
	}

	h.Broadcast(domain.Event{Type: domain.EventBusLocations, Data: []domain.BusLocationUpdate{}})
	if len(early.received()) != 2 || len(late.received()) != 1 {
		t.Fatalf("early=%d late=%d, want 2 and 1", len(early.received()), len(late.received()))
	}
}

func TestUnsubscribedConnGetsNothing(t *testing.T) {
	h := New()
	conn := &fakeConn{}
	sub := h.Subscribe(conn)
	h.Unsubscribe(sub)

	h.Broadcast(domain.Event{Type: domain.EventBusLocations, Data: []domain.BusLocationUpdate{}})
	if len(conn.received()) != 0 {
		t.Fatalf("unsubscribed conn still received events")
	}
	if h.Count() != 0 {
		t.Fatalf("count = %d, want 0", h.Count())
	}
}

func TestFailedWritePrunesSubscriber(t *testing.T) {
	h := New()
	healthy := &fakeConn{}
	broken := &fakeConn{failWith: errors.New("connection reset")}
	h.Subscribe(healthy)
	h.Subscribe(broken)

	h.Broadcast(domain.Event{Type: domain.EventBusLocations, Data: []domain.BusLocationUpdate{}})

	if len(healthy.received()) != 1 {
		t.Fatalf("healthy subscriber missed the event")
	}
	if h.Count() != 1 {
		t.Fatalf("count = %d, want broken subscriber removed", h.Count())
	}
	if !broken.closed {
		t.Fatalf("broken conn was not closed")
	}

	// The survivor keeps receiving.
	h.Broadcast(domain.Event{Type: domain.EventBusLocations, Data: []domain.BusLocationUpdate{}})
	if len(healthy.received()) != 2 {
		t.Fatalf("healthy subscriber stopped receiving")
	}
}

func TestUnsubscribeIsIdempotent(t *testing.T) {
	h := New()
	sub := h.Subscribe(&fakeConn{})

	h.Unsubscribe(sub)
	h.Unsubscribe(sub)
	h.Unsubscribe(nil)

	if h.Count() != 0 {
		t.Fatalf("count = %d, want 0", h.Count())
	}
}

func TestConcurrentBroadcastAndChurn(t *testing.T) {
	h := New()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				sub := h.Subscribe(&fakeConn{})
				h.Broadcast(domain.Event{Type: domain.EventBusLocations, Data: []domain.BusLocationUpdate{}})
				h.Unsubscribe(sub)
			}
		}()
	}
	wg.Wait()

	if h.Count() != 0 {
		t.Fatalf("count = %d after churn, want 0", h.Count())
	}
}
