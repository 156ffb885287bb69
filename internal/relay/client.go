package relay

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024

	sendBufferSize = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The API is token-gated; socket origin filtering is left to the proxy.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Envelope is the wire format for relay events. "joinRoom" subscribes the
// connection to Room; "message" fans Data out verbatim to Room.
type Envelope struct {
	Event string          `json:"event"`
	Room  string          `json:"room"`
	Data  json.RawMessage `json:"data,omitempty"`
}

const (
	EventJoinRoom = "joinRoom"
	EventMessage  = "message"
)

// Client is one websocket connection with its own joined-room set. The
// joined map and closed flag are guarded by the hub's mutex.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	joined map[string]struct{}
	closed bool
}

// NewClient wires a connection to the hub. conn may be nil in tests that
// exercise the hub directly.
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
		joined: make(map[string]struct{}),
	}
}

// Receive returns the channel of payloads queued for this client.
func (c *Client) Receive() <-chan []byte {
	return c.send
}

// HandleEnvelope dispatches one decoded relay event.
func (c *Client) HandleEnvelope(raw []byte) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil || env.Room == "" {
		return
	}
	switch env.Event {
	case EventJoinRoom:
		c.hub.Join(c, env.Room)
	case EventMessage:
		c.hub.Publish(env.Room, raw)
	}
}

func (c *Client) readPump() {
	defer func() {
		c.hub.Disconnect(c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("relay: read error: %v", err)
			}
			return
		}
		c.HandleEnvelope(raw)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case payload, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
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

// ServeWS upgrades the request and runs the connection's pumps.
func ServeWS(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("relay: upgrade failed: %v", err)
			return
		}
		client := NewClient(hub, conn)
		go client.writePump()
		go client.readPump()
	}
}
