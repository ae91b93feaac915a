package client

import (
	"fmt"
	"math"
	"time"

	"github.com/tomz197/spaceshooter/internal/draw"
	"github.com/tomz197/spaceshooter/internal/loop"
	"github.com/tomz197/spaceshooter/internal/loop/config"
	"github.com/tomz197/spaceshooter/internal/object"
)

// Palette
var (
	starColors    = [...]draw.Color{draw.ColorGray, draw.ColorWhite}
	shipColor     = draw.ColorCyan
	obstacleColor = draw.ColorYellow
	laserColor    = draw.ColorBlue
	textColor     = draw.ColorYellow
)

// drawFrame draws the current frame.
func (c *Client) drawFrame(now time.Time) error {
	_, _, _, outcome := c.host.Outcome()

	// On screen transitions, do a full terminal clear so UI elements from
	// the previous screen don't persist.
	if c.state.GameState != c.state.prevGameState ||
		c.state.isInactive != c.state.wasInactive ||
		outcome != c.state.wasOutcome {
		c.chunkWriter.WriteString("\033[H\033[2J")
		c.canvas.ForceRedraw()
		c.state.prevGameState = c.state.GameState
		c.state.wasInactive = c.state.isInactive
		c.state.wasOutcome = outcome
	}

	c.canvas.Clear()

	var snap loop.Snapshot
	if c.session != nil {
		snap = c.session.Snapshot()
		DrawSnapshot(c.canvas, snap, c.host.ShipVisible(now))
	}

	// Render canvas to terminal
	c.canvas.Render(c.chunkWriter)

	// Draw border when terminal exceeds max render resolution
	c.canvas.RenderBorder(c.chunkWriter)

	// Draw UI overlay
	c.drawUI(now, snap)

	return c.chunkWriter.Flush()
}

// DrawSnapshot paints the world onto the canvas. The ship is skipped while
// shipVisible is false.
func DrawSnapshot(canvas *draw.Canvas, snap loop.Snapshot, shipVisible bool) {
	for li, layer := range snap.Layers {
		color := starColors[min(li, len(starColors)-1)]
		for _, star := range layer.Stars {
			canvas.Set(star.X, star.Y, color)
		}
	}
	for i := range snap.Obstacles {
		fillActor(canvas, &snap.Obstacles[i], obstacleColor)
	}
	for i := range snap.Projectiles {
		fillActor(canvas, &snap.Projectiles[i], laserColor)
	}
	if snap.Ship.Active && shipVisible {
		drawShip(canvas, &snap.Ship)
	}
}

func fillActor(canvas *draw.Canvas, a *object.Actor, color draw.Color) {
	b := a.Bounds()
	canvas.FillRect(draw.Point{X: b.Min.X, Y: b.Min.Y}, draw.Point{X: b.Max.X, Y: b.Max.Y}, color)
}

// drawShip draws the ship as an arrowhead pointing right.
func drawShip(canvas *draw.Canvas, ship *object.Actor) {
	b := ship.Bounds()
	nose := draw.Point{X: b.Max.X, Y: ship.Pos.Y}
	top := draw.Point{X: b.Min.X, Y: b.Min.Y}
	bottom := draw.Point{X: b.Min.X, Y: b.Max.Y}
	canvas.DrawLine(top, nose, shipColor)
	canvas.DrawLine(bottom, nose, shipColor)
	canvas.DrawLine(top, bottom, shipColor)
	canvas.FillRect(
		draw.Point{X: b.Min.X, Y: ship.Pos.Y - ship.Size.Y/6},
		draw.Point{X: ship.Pos.X, Y: ship.Pos.Y + ship.Size.Y/6},
		shipColor,
	)
}

// drawUI draws the text overlay for the current screen.
func (c *Client) drawUI(now time.Time, snap loop.Snapshot) {
	termWidth := c.canvas.TerminalWidth()
	termHeight := c.canvas.TerminalHeight()
	centerX := termWidth / 2
	centerY := termHeight / 2

	if c.state.GameState == GameStateShutdown {
		c.drawShutdownScreen(centerX, centerY)
		return
	}

	if c.state.isInactive {
		c.drawInactivityScreen(centerX, centerY, now)
		return
	}

	switch c.state.GameState {
	case GameStatePlaying:
		c.drawPlayingHUD(termWidth, snap)
		c.drawOutcome(snap)
	case GameStateStart:
		c.drawStartScreen(centerX, centerY, now)
	}
}

// drawPlayingHUD draws the lives and round timer.
// Text fields use fixed-width formatting so shrinking values don't leave
// residual characters on screen.
func (c *Client) drawPlayingHUD(termWidth int, snap loop.Snapshot) {
	cw := c.chunkWriter

	livesText := fmt.Sprintf("Lives: %-2d", snap.Lives)
	cw.WriteAt(2, 1, livesText)
	c.canvas.MarkTextDirty(2, 1, len(livesText))

	timeText := fmt.Sprintf("Time: %4.1f", snap.Remaining.Seconds())
	col := termWidth - len(timeText) - 1
	cw.WriteAt(col, 1, timeText)
	c.canvas.MarkTextDirty(col, 1, len(timeText))
}

// drawOutcome draws the end-of-round message and the restart control,
// growing from their centers while the session reveals them.
func (c *Client) drawOutcome(snap loop.Snapshot) {
	msg, label, restart, ok := c.host.Outcome()
	if !ok {
		return
	}

	_, msgRow := c.canvas.LogicalToTerminal(snap.OutcomeAt.X, snap.OutcomeAt.Y)
	c.writeCentered(msgRow, Reveal(msg, snap.Reveal), textColor)

	center := restart.Center()
	_, labelRow := c.canvas.LogicalToTerminal(center.X, center.Y)
	c.writeCentered(labelRow, Reveal("[ "+label+" ]", snap.Reveal), textColor)

	if snap.Phase == loop.PhaseOver {
		hint := "click or press ENTER"
		c.writeCentered(labelRow+2, hint, draw.ColorGray)
	}
}

// writeCentered writes text over the canvas and marks it for repaint.
func (c *Client) writeCentered(row int, s string, color draw.Color) {
	if row < 1 || row > c.canvas.TerminalHeight() || s == "" {
		return
	}
	col := c.chunkWriter.WriteCentered(row, s, color)
	c.canvas.MarkTextDirty(col, row, len(s))
}

// Reveal returns the middle fraction p of s, for a scale-in effect.
func Reveal(s string, p float64) string {
	if p >= 1 {
		return s
	}
	n := int(math.Ceil(float64(len(s)) * max(p, 0)))
	start := (len(s) - n) / 2
	return s[start : start+n]
}

// drawInactivityScreen draws the inactivity warning screen.
func (c *Client) drawInactivityScreen(centerX, centerY int, now time.Time) {
	cw := c.chunkWriter
	title := "INACTIVITY WARNING"
	cw.WriteAt(centerX-len(title)/2, centerY-2, title)

	msg := fmt.Sprintf(
		"You have been inactive for too long. You will be disconnected in %d seconds.",
		int(config.InactivityDisconnectUser-now.Sub(c.lastInput).Seconds()),
	)
	cw.WriteAt(max(1, centerX-len(msg)/2), centerY, msg)

	hint := "Press any key to continue"
	cw.WriteAt(centerX-len(hint)/2, centerY+2, hint)
}

// drawStartScreen draws the title screen.
func (c *Client) drawStartScreen(centerX, centerY int, now time.Time) {
	// ASCII art title (figlet "small" font)
	titleArt := []string{
		`  ___ ___  _   ___ ___   ___ _  _  ___   ___ _____ ___ ___  `,
		` / __| _ \/_\ / __| __| / __| || |/ _ \ / _ \_   _| __| _ \ `,
		` \__ \  _/ _ \ (__| _|  \__ \ __ | (_) | (_) || | | _||   / `,
		` |___/_|/_/ \_\___|___| |___/_||_|\___/ \___/ |_| |___|_|_\ `,
		`                                                            `,
	}

	titleWidth := 0
	for _, line := range titleArt {
		titleWidth = max(titleWidth, len(line))
	}

	cw := c.chunkWriter
	titleStartY := centerY - 7
	for i, line := range titleArt {
		cw.WriteAt(max(1, centerX-titleWidth/2), titleStartY+i, line)
	}

	subtitle := fmt.Sprintf("~ Survive %d seconds ~", int(c.tuning.RoundSeconds))
	cw.WriteAt(centerX-len(subtitle)/2, titleStartY+len(titleArt)+1, subtitle)

	controlsY := titleStartY + len(titleArt) + 3
	controlHeader := "Controls"
	cw.WriteAt(centerX-len(controlHeader)/2, controlsY, controlHeader)

	controlLines := []string{
		"W S / Up Down . . Tilt",
		"SPACE / Click  .  Fire",
		"ENTER . . . . . Replay",
		"Q  . . . . . . .  Quit",
	}
	for i, line := range controlLines {
		cw.WriteAt(centerX-len(line)/2, controlsY+1+i, line)
	}

	// Blinking start prompt
	if now.UnixMilli()/600%2 == 0 {
		prompt := ">>  Press SPACE to Start  <<"
		cw.WriteAt(centerX-len(prompt)/2, controlsY+len(controlLines)+2, prompt)
	} else {
		blank := fmt.Sprintf("%28s", "")
		cw.WriteAt(centerX-len(blank)/2, controlsY+len(controlLines)+2, blank)
	}
}

// drawShutdownScreen draws the server shutdown notification screen.
func (c *Client) drawShutdownScreen(centerX, centerY int) {
	cw := c.chunkWriter
	title := "SERVER SHUTTING DOWN"
	cw.WriteAt(centerX-len(title)/2, centerY-3, title)

	msg1 := "The server is restarting for maintenance."
	cw.WriteAt(centerX-len(msg1)/2, centerY-1, msg1)

	msg2 := "Please reconnect in a moment."
	cw.WriteAt(centerX-len(msg2)/2, centerY, msg2)

	remaining := int(c.state.shutdownTimer) + 1
	countdown := fmt.Sprintf("Disconnecting in %-2d seconds...", remaining)
	cw.WriteAt(centerX-len(countdown)/2, centerY+2, countdown)

	hint := "Press Q to disconnect now"
	cw.WriteAt(centerX-len(hint)/2, centerY+4, hint)
}
