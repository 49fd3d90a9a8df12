package ws

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 8 * 1024
)

// Client is one websocket connection attached to the hub.
type Client struct {
	conn *websocket.Conn
	hub  *Hub
	send chan []byte
}

func newClient(h *Hub, conn *websocket.Conn) *Client {
	return &Client{conn: conn, hub: h, send: make(chan []byte, 256)}
}

// readPump decodes inbound events and hands them to the hub. It owns the
// unregister on exit; the hub closes the send channel from there.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var ev Event
		if err := json.Unmarshal(data, &ev); err != nil {
			continue // malformed frames are ignored
		}

		switch ev.Event {
		case EventAddUser:
			if ev.UserID != "" {
				c.hub.register <- registration{client: c, userID: ev.UserID}
			}
		case EventSendMessage:
			c.hub.relay <- ev
		}
	}
}

// writePump drains the send channel into the connection and keeps it alive
// with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
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
