package client

import (
	"time"

	"github.com/tomz197/spaceshooter/internal/draw"
	"github.com/tomz197/spaceshooter/internal/input"
)

// GameState represents the current screen of a client.
type GameState int

const (
	GameStateStart    GameState = iota // Title screen
	GameStatePlaying                   // A session is running (including its end screen)
	GameStateShutdown                  // Server is shutting down
)

// ClientState holds per-player frontend state. The game itself lives in
// the session.
type ClientState struct {
	Input         input.Input
	GameState     GameState         // This client's screen
	Running       bool              // Client loop running
	termSizeFunc  draw.TermSizeFunc // Function to get terminal size
	delta         time.Duration     // Frame delta time
	shutdownTimer float64           // Countdown before auto-disconnect on shutdown
	isInactive    bool              // Whether the client is in inactive warning state

	// Previous frame's screen, to detect transitions that need a full clear
	prevGameState GameState
	wasInactive   bool
	wasOutcome    bool
}

// NewClientState creates a new initialized client state.
func NewClientState() *ClientState {
	return &ClientState{
		GameState:     GameStateStart,
		prevGameState: -1,
		Running:       true,
	}
}
