// Package server tracks the players connected to a shared host. Every player
// runs an independent game session; the server only knows who is connected
// and tells them when the host goes down.
package server

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// GameServer is the interface clients use to register with the host.
// Decouples the Client from the concrete Server implementation.
type GameServer interface {
	RegisterClient(username string) *ClientHandle
	UnregisterClient(clientID int)
}

// ClientHandle represents a client's connection to the server.
type ClientHandle struct {
	ID       int
	Username string
	Joined   time.Time
	EventsCh chan ClientEvent // Events sent to the client; closed on unregister
}

// ClientEvent represents an event sent from server to client.
type ClientEvent struct {
	Type ClientEventType
}

// ClientEventType identifies the type of client event.
type ClientEventType int

const (
	EventServerShutdown ClientEventType = iota
)

// Server is the registry of connected clients.
type Server struct {
	mu           sync.RWMutex
	clients      map[int]*ClientHandle
	nextClientID int
	logger       *log.Logger
}

// Compile-time check that Server implements GameServer.
var _ GameServer = (*Server)(nil)

// NewServer creates an empty registry.
func NewServer(logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		clients:      make(map[int]*ClientHandle),
		nextClientID: 1,
		logger:       logger,
	}
}

// RegisterClient registers a new client with the given username and returns its handle.
func (s *Server) RegisterClient(username string) *ClientHandle {
	s.mu.Lock()
	defer s.mu.Unlock()

	handle := &ClientHandle{
		ID:       s.nextClientID,
		Username: username,
		Joined:   time.Now(),
		EventsCh: make(chan ClientEvent, 4),
	}
	s.nextClientID++
	s.clients[handle.ID] = handle

	s.logger.Info("player joined", "id", handle.ID, "user", username, "players", len(s.clients))
	return handle
}

// UnregisterClient removes a client from the server. Unknown IDs are ignored.
func (s *Server) UnregisterClient(clientID int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	handle, ok := s.clients[clientID]
	if !ok {
		return
	}
	close(handle.EventsCh)
	delete(s.clients, clientID)

	s.logger.Info("player left", "id", clientID, "user", handle.Username,
		"played", time.Since(handle.Joined).Round(time.Second), "players", len(s.clients))
}

// Players returns the number of connected clients.
func (s *Server) Players() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// Shutdown notifies all connected clients and waits for them to disconnect,
// up to timeout. Returns the number of clients still connected.
func (s *Server) Shutdown(timeout time.Duration) int {
	s.mu.RLock()
	for _, handle := range s.clients {
		select {
		case handle.EventsCh <- ClientEvent{Type: EventServerShutdown}:
		default:
		}
	}
	s.mu.RUnlock()

	deadline := time.After(timeout)
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		if remaining := s.Players(); remaining == 0 {
			return 0
		}
		select {
		case <-deadline:
			return s.Players()
		case <-ticker.C:
		}
	}
}
