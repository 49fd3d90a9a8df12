// Package ws implements the real-time relay: a presence map from user ID to
// the user's current connection, and best-effort forwarding of message
// events. Delivery is independent of the durable message write and carries
// no guarantee beyond it.
package ws

import (
	"context"
	"encoding/json"
	"log"
)

// Event names mirror the client protocol
const (
	EventAddUser     = "addUser"
	EventSendMessage = "sendMessage"
	EventGetMessage  = "getMessage"
)

// Event is the JSON frame exchanged over the relay channel
type Event struct {
	Event      string `json:"event"`
	UserID     string `json:"userId,omitempty"`
	SenderID   string `json:"senderId,omitempty"`
	ReceiverID string `json:"receiverId,omitempty"`
	Text       string `json:"text,omitempty"`
}

type registration struct {
	client *Client
	userID string
}

// Hub owns the presence map. All state is mutated only inside Run, so the
// map needs no locking; register/unregister/relay are serialized by the loop.
// Construct one per process and inject it where the relay is served.
type Hub struct {
	register   chan registration
	unregister chan *Client
	relay      chan Event

	conns  map[*Client]bool
	byUser map[string]*Client // last writer wins on duplicate registration
	owner  map[*Client]string
}

// NewHub creates a Hub; call Run to start it.
func NewHub() *Hub {
	return &Hub{
		register:   make(chan registration),
		unregister: make(chan *Client),
		relay:      make(chan Event),
		conns:      make(map[*Client]bool),
		byUser:     make(map[string]*Client),
		owner:      make(map[*Client]string),
	}
}

// Run drives the hub until ctx is cancelled, then drops every connection.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case reg := <-h.register:
			h.conns[reg.client] = true
			if reg.userID != "" {
				h.bind(reg.client, reg.userID)
			}
		case c := <-h.unregister:
			h.drop(c)
		case ev := <-h.relay:
			h.forward(ev)
		case <-ctx.Done():
			for c := range h.conns {
				h.drop(c)
			}
			return
		}
	}
}

// bind makes client the relay target for userID. A newer connection for the
// same user silently replaces the older one; the older connection stays open
// but no longer receives relayed events.
func (h *Hub) bind(c *Client, userID string) {
	if old, ok := h.owner[c]; ok && h.byUser[old] == c {
		delete(h.byUser, old)
	}
	h.owner[c] = userID
	h.byUser[userID] = c
}

// drop removes a connection, unbinding its user only if this connection is
// still the bound one.
func (h *Hub) drop(c *Client) {
	if !h.conns[c] {
		return
	}
	if userID, ok := h.owner[c]; ok && h.byUser[userID] == c {
		delete(h.byUser, userID)
	}
	delete(h.owner, c)
	delete(h.conns, c)
	close(c.send)
}

// forward relays a sendMessage event to the receiver's active connection, if
// any. A receiver that cannot keep up is disconnected rather than blocking
// the loop.
func (h *Hub) forward(ev Event) {
	c, ok := h.byUser[ev.ReceiverID]
	if !ok {
		return
	}

	payload, err := json.Marshal(Event{Event: EventGetMessage, SenderID: ev.SenderID, Text: ev.Text})
	if err != nil {
		log.Printf("Error marshaling relay event: %v", err)
		return
	}

	select {
	case c.send <- payload:
	default:
		h.drop(c)
	}
}
