package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 50 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// CORS policy is enforced by the HTTP middleware already
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsClient is one connected WebSocket subscriber, bound to a single job
type wsClient struct {
	conn  *websocket.Conn
	jobID string
	send  chan []byte
}

// Hub tracks WebSocket subscribers and fans job messages out to them
type Hub struct {
	clients map[*wsClient]bool
	mutex   sync.RWMutex
}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{
		clients: make(map[*wsClient]bool),
	}
}

// Singleton pattern for Hub
var (
	hubInstance *Hub
	hubOnce     sync.Once
)

// GetHub returns the singleton Hub instance
func GetHub() *Hub {
	hubOnce.Do(func() {
		hubInstance = NewHub()
	})
	return hubInstance
}

// Serve upgrades the request to a WebSocket connection subscribed to jobID
func (h *Hub) Serve(c *gin.Context, jobID string) error {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return err
	}

	client := &wsClient{
		conn:  conn,
		jobID: jobID,
		send:  make(chan []byte, 32),
	}

	h.mutex.Lock()
	h.clients[client] = true
	h.mutex.Unlock()

	AppLogger.InfoWithContext(&LogContext{JobID: jobID}, "WebSocket client connected")

	go h.writePump(client)
	go h.readPump(client)
	return nil
}

// Broadcast sends a message to every client subscribed to the message's job
func (h *Hub) Broadcast(msg *WebSocketMessage) {
	data, err := msg.ToJSON()
	if err != nil {
		AppLogger.Error("Failed to marshal WebSocket message: %v", err)
		return
	}

	h.mutex.RLock()
	defer h.mutex.RUnlock()

	for client := range h.clients {
		if msg.JobID != "" && client.jobID != msg.JobID {
			continue
		}
		select {
		case client.send <- data:
		default:
			// Slow consumer, drop the message rather than block the run
			AppLogger.WarnWithContext(&LogContext{JobID: client.jobID}, "WebSocket send buffer full, dropping message")
		}
	}
}

// SubscriberCount returns the number of clients subscribed to a job
func (h *Hub) SubscriberCount(jobID string) int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	count := 0
	for client := range h.clients {
		if client.jobID == jobID {
			count++
		}
	}
	return count
}

func (h *Hub) remove(client *wsClient) {
	h.mutex.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
	h.mutex.Unlock()
	client.conn.Close()
}

// writePump pushes queued messages and pings to the peer
func (h *Hub) writePump(client *wsClient) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		h.remove(client)
	}()

	for {
		select {
		case data, ok := <-client.send:
			client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				client.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump discards inbound frames and detects the peer going away
func (h *Hub) readPump(client *wsClient) {
	defer h.remove(client)

	client.conn.SetReadLimit(512)
	client.conn.SetReadDeadline(time.Now().Add(pongWait))
	client.conn.SetPongHandler(func(string) error {
		client.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			AppLogger.InfoWithContext(&LogContext{JobID: client.jobID}, "WebSocket client disconnected")
			return
		}
	}
}
