package web

import (
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"overtype/config"
	"overtype/storage"
)

//go:embed static/*
var staticFiles embed.FS

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local development
	},
}

// Agent is the agent surface the dashboard needs: pause state and the
// current session phase.
type Agent interface {
	Enabled() bool
	SetEnabled(enabled bool)
	Phase() string
	Hotkey() string
}

// Server represents the web server
type Server struct {
	db      *storage.DB // nil when history is unavailable
	agent   Agent
	port    int
	hub     *Hub
	onApply func(*config.Config) error

	mu     sync.RWMutex
	config *config.Config
}

// NewServer creates a new web server. onApply is called with each saved
// configuration so the running agent picks it up without a restart.
func NewServer(db *storage.DB, cfg *config.Config, agent Agent, onApply func(*config.Config) error) *Server {
	hub := NewHub()
	go hub.Run()

	return &Server{
		db:      db,
		agent:   agent,
		config:  cfg,
		port:    cfg.Web.Port,
		hub:     hub,
		onApply: onApply,
	}
}

// Start starts the web server
func (s *Server) Start() error {
	mux := http.NewServeMux()

	// API endpoints
	mux.HandleFunc("/api/config", s.handleConfig)
	mux.HandleFunc("/api/stats", s.handleStats)
	mux.HandleFunc("/api/history", s.handleHistory)
	mux.HandleFunc("/api/history/", s.handleHistory)
	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/ws", s.handleWebSocket)

	// Static files
	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		return fmt.Errorf("failed to load static files: %w", err)
	}
	mux.Handle("/", http.FileServer(http.FS(staticFS)))

	addr := fmt.Sprintf("localhost:%d", s.port)
	slog.Info("Starting web server", "url", fmt.Sprintf("http://%s", addr))

	return http.ListenAndServe(addr, mux)
}

// URL returns the dashboard address for the tray menu
func (s *Server) URL() string {
	return fmt.Sprintf("http://localhost:%d", s.port)
}

// GetConfig returns the current configuration (thread-safe)
func (s *Server) GetConfig() *config.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config
}

// UpdateConfig updates the configuration (thread-safe)
func (s *Server) UpdateConfig(cfg *config.Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config = cfg
}

// BroadcastStatus broadcasts a session phase change to all connected clients
func (s *Server) BroadcastStatus(status string) {
	s.hub.BroadcastMessage(Message{
		Type: MessageTypeStatus,
		Data: StatusMessage{Status: status, Enabled: s.agent.Enabled()},
	})
}

// BroadcastInjection broadcasts a completed injection to all connected clients
func (s *Server) BroadcastInjection(inj storage.Injection) {
	s.hub.BroadcastMessage(Message{
		Type: MessageTypeInjection,
		Data: InjectionMessage{
			SessionID:      inj.SessionID,
			CharacterCount: inj.CharacterCount,
			Attempts:       inj.Attempts,
			Success:        inj.Success,
			FocusRestored:  inj.FocusRestored,
			Timestamp:      inj.Timestamp.Format(time.RFC3339),
		},
	})
}

// handleWebSocket handles WebSocket connections
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("Failed to upgrade WebSocket connection", "error", err)
		return
	}

	client := &Client{
		hub:  s.hub,
		conn: conn,
		send: make(chan []byte, 256),
	}

	client.hub.register <- client

	// Start client goroutines
	go client.writePump()
	go client.readPump()
}
