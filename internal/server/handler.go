package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/soar/inputcore/internal/gamepad"
	"github.com/soar/inputcore/internal/hub"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local use
	},
}

func handleWebSocket(h *hub.Hub, b *hub.Broadcaster, reg *gamepad.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("WebSocket upgrade failed: %v", err)
			return
		}

		client := hub.NewClient(h, conn)
		h.Register(client)

		// Send current state to the new client
		b.SendInitialState(client)

		go client.WritePump()
		go client.ReadPump(reg)
	}
}

func handleGamepads(reg *gamepad.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pads := reg.Gamepads()
		out := make([]hub.PadSnapshot, 0, len(pads))
		for _, g := range pads {
			out = append(out, hub.Snapshot(g))
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(out); err != nil {
			log.Printf("Error encoding gamepad list: %v", err)
		}
	}
}
