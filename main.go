package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/soar/inputcore/internal/backend"
	"github.com/soar/inputcore/internal/config"
	"github.com/soar/inputcore/internal/gamepad"
	"github.com/soar/inputcore/internal/hub"
	"github.com/soar/inputcore/internal/server"
	"github.com/soar/inputcore/internal/tray"
)

// Cross-platform signal handling: use os.Interrupt on all platforms
// On Windows: os.Interrupt is sent when Ctrl+C is pressed
// On Unix: os.Interrupt is equivalent to syscall.SIGINT
var shutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, shutdownSignals...)

	// The registry is the single owner of all gamepad state; the backend
	// pushes into it, the broadcaster and HTTP handlers read from it.
	registry := gamepad.NewRegistry(cfg.Options())

	be, err := backend.New(cfg.Backend, registry)
	if err != nil {
		log.Fatalf("Backend error: %v", err)
	}

	h := hub.NewHub()
	go h.Run()

	broadcaster := hub.NewBroadcaster(h, registry)
	go broadcaster.Run(ctx)

	srv := server.New(h, broadcaster, registry, getFrontendFS(), cfg.Listen)
	serverErrCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- err
		}
	}()

	url := "http://localhost" + cfg.Listen
	if !strings.HasPrefix(cfg.Listen, ":") {
		url = "http://" + cfg.Listen
	}
	log.Printf("inputcore started: %s (backend=%s)", url, cfg.Backend)

	// Channel for tray-triggered shutdown
	shutdownRequested := make(chan struct{})

	if runtime.GOOS == "windows" {
		go func() {
			t := tray.New(url, func() {
				close(shutdownRequested)
			})
			t.Run()
		}()
	} else {
		log.Println("Press Ctrl+C to exit")
	}

	backendDone := make(chan struct{})
	go func() {
		be.Run(ctx)
		close(backendDone)
	}()

	select {
	case <-sigCh:
		log.Println("Shutting down...")
		cancel()
	case <-shutdownRequested:
		log.Println("Shutdown requested from tray")
		cancel()
	case err := <-serverErrCh:
		log.Printf("HTTP server error: %v", err)
		cancel()
	}

	<-backendDone

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	log.Println("inputcore stopped")
}
