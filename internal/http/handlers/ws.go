package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

const (
	wsReadDeadline = 60 * time.Second
	wsPingInterval = 30 * time.Second
)

// GET /api/ws upgrades the connection and registers it with the hub.
// The connection only ever receives server events; inbound frames are
// drained for liveness (pong handling) and otherwise ignored.
func (h *Handlers) Subscribe(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[WS] upgrade failed: %v", err)
		return
	}

	sub := h.Hub.Subscribe(conn)
	defer func() {
		h.Hub.Unsubscribe(sub)
		_ = conn.Close()
	}()

	_ = conn.SetReadDeadline(time.Now().Add(wsReadDeadline))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsReadDeadline))
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(wsPingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := sub.Ping(); err != nil {
				return
			}
		}
	}
}
