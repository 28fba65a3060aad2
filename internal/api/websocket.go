package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 30 * time.Second
	maxMessageSize = 64 * 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origins are enforced by the CORS layer in front of the router.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Message is a query sent by a client. Type names the rule operation and ID
// is echoed back so callers can match replies to requests.
type Message struct {
	Type string          `json:"type"`
	ID   string          `json:"id,omitempty"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Reply answers a Message, or announces a server event when ID is empty.
type Reply struct {
	Type  string      `json:"type"`
	ID    string      `json:"id,omitempty"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

// Client represents a connected WebSocket client
type Client struct {
	id     string
	conn   *websocket.Conn
	send   chan []byte
	hub    *Hub
	logger logrus.FieldLogger
}

// Hub maintains the set of active clients and answers their rule queries.
type Hub struct {
	rules      *Rules
	logger     logrus.FieldLogger
	clients    map[*Client]bool
	stopped    bool
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}
	mu         sync.RWMutex
}

// NewHub creates a new WebSocket hub
func NewHub(rules *Rules, logger logrus.FieldLogger) *Hub {
	return &Hub{
		rules:      rules,
		logger:     logger,
		clients:    make(map[*Client]bool),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte),
		done:       make(chan struct{}),
	}
}

// Run services departures and broadcasts until ctx is cancelled, then
// closes every client's send channel.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				client.logger.Info("websocket client disconnected")
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()

		case <-ctx.Done():
			h.mu.Lock()
			h.stopped = true
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			return
		}
	}
}

// add registers c unless the hub has already stopped.
func (h *Hub) add(c *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopped {
		return false
	}
	h.clients[c] = true
	c.logger.Info("websocket client connected")
	return true
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast sends a server event to every connected client. It blocks until
// the hub picks the message up or ctx ends.
func (h *Hub) Broadcast(ctx context.Context, reply Reply) error {
	data, err := json.Marshal(reply)
	if err != nil {
		return err
	}
	select {
	case h.broadcast <- data:
		return nil
	case <-h.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// WebSocketHandler handles WebSocket connections
func (h *Hub) WebSocketHandler(w http.ResponseWriter, r *http.Request) {
	logger := loggerFrom(r, h.logger)

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.WithError(err).Warn("websocket upgrade failed")
		return
	}

	id := uuid.New().String()
	client := &Client{
		id:     id,
		conn:   conn,
		send:   make(chan []byte, 256),
		hub:    h,
		logger: logger.WithField("client_id", id),
	}
	welcome, _ := json.Marshal(Reply{
		Type: "welcome",
		Data: map[string]string{"clientId": id},
	})
	client.send <- welcome

	if !h.add(client) {
		conn.Close()
		return
	}

	// Start goroutines for reading and writing
	go client.readPump()
	go client.writePump()
}

// handle answers one raw frame and returns the encoded reply.
func (c *Client) handle(raw []byte) []byte {
	var msg Message
	reply := Reply{Type: "error"}

	if err := json.Unmarshal(raw, &msg); err != nil {
		reply.Error = "invalid message"
	} else {
		reply.Type = msg.Type + "Result"
		reply.ID = msg.ID
		data, err := c.hub.rules.Dispatch(msg.Type, msg.Data)
		if err != nil {
			reply.Error = err.Error()
		} else {
			reply.Data = data
		}
	}

	out, err := json.Marshal(reply)
	if err != nil {
		c.logger.WithError(err).Error("error marshaling reply")
		out, _ = json.Marshal(Reply{Type: "error", ID: reply.ID, Error: "internal error"})
	}
	return out
}

// readPump reads queries from the connection and queues their replies
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.WithError(err).Warn("websocket read error")
			}
			break
		}

		reply := c.handle(message)

		c.hub.mu.RLock()
		_, live := c.hub.clients[c]
		if live {
			select {
			case c.send <- reply:
			default:
				c.logger.Warn("send buffer full, dropping reply")
			}
		}
		c.hub.mu.RUnlock()
		if !live {
			return
		}
	}
}

// writePump pumps messages from the hub to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
