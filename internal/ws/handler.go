package ws

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// In production, restrict to configured origins.
		return true
	},
}

// Handler serves the /ws endpoint against an injected hub.
type Handler struct {
	hub *Hub
}

// NewHandler creates a websocket handler bound to hub.
func NewHandler(hub *Hub) *Handler {
	return &Handler{hub: hub}
}

// Serve upgrades the connection and attaches it to the hub. The connection
// carries no identity until the client sends an addUser event.
func (h *Handler) Serve(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	client := newClient(h.hub, conn)
	h.hub.register <- registration{client: client}
	go client.writePump()
	go client.readPump()
	return nil
}
