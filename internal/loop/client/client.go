// Package client runs a game session in an ANSI terminal: it samples the
// input stream, ticks the session once per frame and draws the result with
// half-block characters. It serves both the local raw terminal and SSH.
package client

import (
	"bufio"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/spaceshooter/internal/draw"
	"github.com/tomz197/spaceshooter/internal/input"
	"github.com/tomz197/spaceshooter/internal/loop"
	"github.com/tomz197/spaceshooter/internal/loop/config"
	"github.com/tomz197/spaceshooter/internal/loop/server"
	"github.com/tomz197/spaceshooter/internal/physics"
)

// Client handles rendering and input for a single player.
type Client struct {
	server  server.GameServer    // Nil for local play
	handle  *server.ClientHandle // Nil for local play
	state   *ClientState
	session *loop.Session // Nil until the title screen is dismissed
	host    *Host
	tilt    *input.KeyTilt
	tuning  config.Tuning
	audio   loop.Audio
	logger  *log.Logger

	canvas       *draw.Canvas
	chunkWriter  *draw.ChunkWriter // Accumulates UI text for chunked output
	writer       io.Writer
	inputStream  *input.Stream
	lastInput    time.Time
	idleTimeout  bool
	termSizeFunc draw.TermSizeFunc
}

// ClientOptions configures the client.
type ClientOptions struct {
	TermSizeFunc draw.TermSizeFunc
	Username     string
	Server       server.GameServer // Optional shared host
	Tuning       config.Tuning
	Audio        loop.Audio
	Logger       *log.Logger

	// IdleTimeout warns and then disconnects players who stop pressing keys.
	IdleTimeout bool
}

// NewClient creates a client reading from r and drawing to w.
func NewClient(r *bufio.Reader, w io.Writer, opts ClientOptions) *Client {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	audio := opts.Audio
	if audio == nil {
		audio = loop.NopAudio{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	if opts.Tuning == (config.Tuning{}) {
		opts.Tuning = config.Default()
	}

	state := NewClientState()
	state.termSizeFunc = termSizeFunc

	// Create canvas with clamped dimensions for max render resolution
	termWidth, termHeight, _ := termSizeFunc()
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)
	canvas := draw.NewScaledCanvas(renderWidth, renderHeight, opts.Tuning.ViewWidth, opts.Tuning.ViewHeight)
	canvas.SetOffset(offsetCol, offsetRow)
	chunkWriter := draw.NewChunkWriter(w, offsetCol, offsetRow)
	chunkWriter.SetWidth(renderWidth)

	c := &Client{
		server:       opts.Server,
		state:        state,
		host:         NewHost(),
		tilt:         input.NewKeyTilt(0),
		tuning:       opts.Tuning,
		audio:        audio,
		logger:       logger,
		canvas:       canvas,
		chunkWriter:  chunkWriter,
		writer:       w,
		inputStream:  input.StartStream(r),
		lastInput:    time.Now(),
		idleTimeout:  opts.IdleTimeout,
		termSizeFunc: termSizeFunc,
	}
	if c.server != nil {
		c.handle = c.server.RegisterClient(opts.Username)
	}
	return c
}

// Run starts the client loop. Blocks until the player quits, the input
// ends or the server shuts down.
func (c *Client) Run() error {
	io.WriteString(c.writer, input.MouseOn)
	defer io.WriteString(c.writer, input.MouseOff)
	draw.HideCursor(c.writer)
	defer draw.ShowCursor(c.writer)
	draw.ClearScreen(c.writer)

	lastTime := time.Now()

	for c.state.Running {
		frameStart := time.Now()
		c.state.delta = frameStart.Sub(lastTime)
		lastTime = frameStart

		// Process input
		c.processInput(frameStart)

		// Check for server events
		c.processServerEvents()

		// Handle screen resize
		c.updateScreen()

		// Handle game state
		switch c.state.GameState {
		case GameStateStart:
			c.updateStartState(frameStart)
		case GameStatePlaying:
			c.updatePlayingState(frameStart)
		case GameStateShutdown:
			c.updateShutdownState()
		}

		// Draw frame
		if err := c.drawFrame(frameStart); err != nil {
			c.close()
			return err
		}

		// Frame timing
		elapsed := time.Since(frameStart)
		if elapsed < config.ClientTargetFrameTime {
			time.Sleep(config.ClientTargetFrameTime - elapsed)
		}
	}

	c.close()
	draw.ClearScreen(c.writer)
	return nil
}

func (c *Client) close() {
	if c.session != nil {
		c.session.Close()
	}
	if c.server != nil && c.handle != nil {
		c.server.UnregisterClient(c.handle.ID)
		c.handle = nil
	}
}

// processInput reads this frame's input and handles quit and inactivity.
func (c *Client) processInput(now time.Time) {
	c.state.Input = input.ReadInput(c.inputStream)

	if len(c.state.Input.Pressed) > 0 || len(c.state.Input.Clicks) > 0 {
		c.lastInput = now
		c.state.isInactive = false
	} else if c.idleTimeout {
		idle := now.Sub(c.lastInput).Seconds()
		if idle > config.InactivityDisconnectUser {
			c.logger.Info("disconnecting idle player")
			c.state.Running = false
		} else if idle > config.InactivityWarnUser {
			c.state.isInactive = true
		}
	}

	if c.state.Input.Quit {
		c.state.Running = false
	}
}

// processServerEvents handles events from the server.
func (c *Client) processServerEvents() {
	if c.handle == nil {
		return
	}
	for {
		select {
		case event, ok := <-c.handle.EventsCh:
			if !ok {
				c.state.Running = false
				return
			}
			if event.Type == server.EventServerShutdown {
				c.state.GameState = GameStateShutdown
				c.state.shutdownTimer = config.ShutdownDisplaySeconds
			}
		default:
			return
		}
	}
}

// updateScreen handles terminal resize, clamping to max render resolution.
// On actual size changes, clears the terminal to remove residual pixels
// outside the new canvas area (e.g. old borders or offset content).
func (c *Client) updateScreen() {
	termWidth, termHeight, err := c.termSizeFunc()
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)

	if renderWidth != c.canvas.TerminalWidth() || renderHeight != c.canvas.TerminalHeight() ||
		offsetCol != c.canvas.OffsetCol() || offsetRow != c.canvas.OffsetRow() {
		draw.ClearScreen(c.writer)
		c.canvas.ForceRedraw()
	}

	c.canvas.Resize(renderWidth, renderHeight)
	c.canvas.SetOffset(offsetCol, offsetRow)
	c.chunkWriter.SetOffset(offsetCol, offsetRow)
	c.chunkWriter.SetWidth(renderWidth)
}

// clampTermSize clamps terminal dimensions to the max render resolution and computes
// the centering offset for the render area.
func clampTermSize(termWidth, termHeight int) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	renderWidth = min(termWidth, config.MaxTermWidth)
	renderHeight = min(termHeight, config.MaxTermHeight)
	offsetCol = (termWidth - renderWidth) / 2
	offsetRow = (termHeight - renderHeight) / 2
	return
}

// updateStartState handles the title screen.
func (c *Client) updateStartState(now time.Time) {
	in := c.state.Input
	if in.Fire || in.Restart || len(in.Clicks) > 0 {
		c.startGame(now)
	}
}

// startGame starts the session.
func (c *Client) startGame(now time.Time) {
	input.ResetKeyInput(c.inputStream)
	c.session = loop.NewSession(c.tuning, loop.Deps{
		Scene:  c.host,
		Audio:  c.audio,
		Accel:  c.tilt,
		Logger: c.logger,
	}, now)
	c.state.GameState = GameStatePlaying
}

// updatePlayingState feeds input to the session and advances it.
func (c *Client) updatePlayingState(now time.Time) {
	in := c.state.Input
	c.tilt.Feed(in)

	for _, click := range in.Clicks {
		if p, ok := c.canvas.TerminalToLogical(click.Col, click.Row); ok {
			c.session.Touch(physics.Vec(p), now)
		}
	}
	if in.Fire {
		c.session.Touch(c.session.FirePoint(), now)
	}
	if in.Restart && c.session.State().Over {
		c.session.Touch(c.session.RestartPoint(), now)
	}

	c.session.Tick(now)
}

// updateShutdownState handles the shutdown screen countdown.
func (c *Client) updateShutdownState() {
	c.state.shutdownTimer -= c.state.delta.Seconds()
	if c.state.shutdownTimer <= 0 {
		c.state.Running = false
	}
}
