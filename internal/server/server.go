package server

import (
	"context"
	"io/fs"
	"log"
	"net/http"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"

	"github.com/soar/inputcore/internal/gamepad"
	"github.com/soar/inputcore/internal/hub"
)

type Server struct {
	hub         *hub.Hub
	broadcaster *hub.Broadcaster
	registry    *gamepad.Registry
	frontendFS  fs.FS
	addr        string
	httpServer  *http.Server
}

func New(h *hub.Hub, b *hub.Broadcaster, reg *gamepad.Registry, frontendFS fs.FS, addr string) *Server {
	return &Server{
		hub:         h,
		broadcaster: b,
		registry:    reg,
		frontendFS:  frontendFS,
		addr:        addr,
	}
}

func (s *Server) ListenAndServe() error {
	mux := http.NewServeMux()

	// WebSocket event stream
	mux.HandleFunc("/ws", handleWebSocket(s.hub, s.broadcaster, s.registry))

	// Current state of all known gamepads
	mux.HandleFunc("/api/gamepads", handleGamepads(s.registry))

	// Static files (frontend), minified on the way out
	mux.Handle("/", newMinifier().Middleware(http.FileServer(http.FS(s.frontendFS))))

	s.httpServer = &http.Server{
		Addr:    s.addr,
		Handler: mux,
	}

	log.Printf("HTTP server listening on %s", s.addr)
	return s.httpServer.ListenAndServe()
}

// newMinifier builds the minifier for the embedded frontend assets.
func newMinifier() *minify.M {
	m := minify.New()
	m.AddFunc("text/html", html.Minify)
	m.AddFunc("text/css", css.Minify)
	m.AddFunc("application/javascript", js.Minify)
	m.AddFunc("text/javascript", js.Minify)
	return m
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		log.Println("Shutting down HTTP server...")
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
