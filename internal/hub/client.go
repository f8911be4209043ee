package hub

import (
	"encoding/json"
	"log"

	"github.com/gorilla/websocket"

	"github.com/soar/inputcore/internal/gamepad"
)

// Controller is the subset of registry operations clients may invoke.
type Controller interface {
	Forget(gamepad.ID)
	ClearEvents()
}

// Client represents a connected WebSocket client.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// NewClient creates a new Client attached to the hub.
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, 256),
	}
}

// WritePump sends messages from the send channel to the WebSocket connection.
func (c *Client) WritePump() {
	defer func() {
		c.conn.Close()
	}()

	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			break
		}
	}
}

// ReadPump reads messages from the WebSocket and applies client commands to
// the registry.
func (c *Client) ReadPump(ctrl Controller) {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			break
		}

		var clientMsg ClientMessage
		if err := json.Unmarshal(message, &clientMsg); err != nil {
			log.Printf("Error parsing client message: %v", err)
			continue
		}

		switch clientMsg.Type {
		case "forget":
			// No-op if the gamepad is still connected or unknown.
			ctrl.Forget(clientMsg.ID)
			log.Printf("Client requested forget of gamepad %d", clientMsg.ID)
		case "reset":
			ctrl.ClearEvents()
			log.Println("Client requested event queue reset")
		}
	}
}
