package relay

import (
	"sync"
)

// Hub fans published payloads out to every connection joined to a room. It
// holds no history and no durable membership: everything is in memory and
// lost on restart. The persisted chat history is the ground truth; the hub is
// only the low-latency notification path.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[*Client]struct{})}
}

// Join adds c to roomID's recipient set. Joining a room twice is a no-op,
// and a disconnected client cannot rejoin: its send channel is closed.
func (h *Hub) Join(c *Client, roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c.closed {
		return
	}
	if _, ok := h.rooms[roomID]; !ok {
		h.rooms[roomID] = make(map[*Client]struct{})
	}
	h.rooms[roomID][c] = struct{}{}
	c.joined[roomID] = struct{}{}
}

// Publish delivers payload to every client joined to roomID, including the
// sender's other connections. Publishing to an empty room is a no-op. The
// send never blocks: a client whose buffer is full is disconnected instead
// of stalling the room.
func (h *Hub) Publish(roomID string, payload []byte) {
	h.mu.RLock()
	var slow []*Client
	for c := range h.rooms[roomID] {
		select {
		case c.send <- payload:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.Disconnect(c)
	}
}

// Disconnect removes c from every room it joined and closes its send
// channel. Safe to call more than once.
func (h *Hub) Disconnect(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	for roomID := range c.joined {
		if set, ok := h.rooms[roomID]; ok {
			delete(set, c)
			if len(set) == 0 {
				delete(h.rooms, roomID)
			}
		}
	}
	close(c.send)
}

// RoomSize reports how many connections are currently joined to roomID.
func (h *Hub) RoomSize(roomID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}
