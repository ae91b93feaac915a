// Package local runs a game session on a tcell screen. Mouse clicks arrive
// as native events, so firing and restarting work in any terminal tcell
// supports.
package local

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"

	"github.com/tomz197/spaceshooter/internal/draw"
	"github.com/tomz197/spaceshooter/internal/input"
	"github.com/tomz197/spaceshooter/internal/loop"
	"github.com/tomz197/spaceshooter/internal/loop/client"
	"github.com/tomz197/spaceshooter/internal/loop/config"
	"github.com/tomz197/spaceshooter/internal/physics"
)

// keyHold is how long an arrow key counts as held after its last event.
// tcell reports presses and autorepeat only, never releases.
const keyHold = 200 * time.Millisecond

// Options configures a Game.
type Options struct {
	Tuning config.Tuning
	Audio  loop.Audio
	Logger *log.Logger
}

// Game drives one session on a tcell screen.
type Game struct {
	screen  tcell.Screen
	session *loop.Session
	host    *client.Host
	tilt    *input.KeyTilt
	canvas  *draw.Canvas
	tuning  config.Tuning
	audio   loop.Audio
	logger  *log.Logger

	upAt, downAt time.Time
	mouseDown    bool
}

// New creates a game on an initialized screen. The caller owns the screen
// and finalizes it after Run returns.
func New(screen tcell.Screen, opts Options) *Game {
	if opts.Tuning == (config.Tuning{}) {
		opts.Tuning = config.Default()
	}
	if opts.Audio == nil {
		opts.Audio = loop.NopAudio{}
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	w, h := screen.Size()
	return &Game{
		screen: screen,
		host:   client.NewHost(),
		tilt:   input.NewKeyTilt(0),
		canvas: draw.NewScaledCanvas(w, h, opts.Tuning.ViewWidth, opts.Tuning.ViewHeight),
		tuning: opts.Tuning,
		audio:  opts.Audio,
		logger: opts.Logger,
	}
}

// Run plays until the player quits.
func (g *Game) Run() error {
	g.screen.EnableMouse()
	defer g.screen.DisableMouse()
	g.screen.HideCursor()

	events := make(chan tcell.Event, 100)
	quit := make(chan struct{})
	go g.screen.ChannelEvents(events, quit)
	defer close(quit)

	g.start(time.Now())
	defer g.session.Close()

	ticker := time.NewTicker(config.ClientTargetFrameTime)
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return errors.New("screen closed")
			}
			if !g.handleEvent(ev, time.Now()) {
				return nil
			}
		case now := <-ticker.C:
			g.frame(now)
		}
	}
}

func (g *Game) start(now time.Time) {
	g.session = loop.NewSession(g.tuning, loop.Deps{
		Scene:  g.host,
		Audio:  g.audio,
		Accel:  g.tilt,
		Logger: g.logger,
	}, now)
	g.logger.Debug("session started", "frontend", "tcell")
}

// handleEvent applies one tcell event. It returns false when the player quits.
func (g *Game) handleEvent(ev tcell.Event, now time.Time) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyUp:
			g.upAt = now
		case tcell.KeyDown:
			g.downAt = now
		case tcell.KeyEnter:
			if g.session.State().Over {
				g.session.Touch(g.session.RestartPoint(), now)
			}
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q', 'Q':
				return false
			case 'w', 'W':
				g.upAt = now
			case 's', 'S':
				g.downAt = now
			case ' ':
				g.session.Touch(g.session.FirePoint(), now)
			}
		}

	case *tcell.EventMouse:
		pressed := ev.Buttons()&tcell.Button1 != 0
		if pressed && !g.mouseDown {
			x, y := ev.Position()
			if p, ok := g.canvas.TerminalToLogical(x+1, y+1); ok {
				g.session.Touch(physics.Vec(p), now)
			}
		}
		g.mouseDown = pressed

	case *tcell.EventResize:
		w, h := g.screen.Size()
		g.canvas.Resize(w, h)
		g.screen.Sync()
	}
	return true
}

// frame advances the session to now and draws it.
func (g *Game) frame(now time.Time) {
	g.tilt.Feed(input.Input{
		Up:   !g.upAt.IsZero() && now.Sub(g.upAt) < keyHold,
		Down: !g.downAt.IsZero() && now.Sub(g.downAt) < keyHold,
	})
	g.session.Tick(now)

	snap := g.session.Snapshot()
	g.canvas.Clear()
	client.DrawSnapshot(g.canvas, snap, g.host.ShipVisible(now))
	g.blit()
	g.drawHUD(snap)
	g.drawOutcome(snap)
	g.screen.Show()
}

// blit copies the canvas into the screen's cells.
func (g *Game) blit() {
	for row := 0; row < g.canvas.TerminalHeight(); row++ {
		for col := 0; col < g.canvas.TerminalWidth(); col++ {
			r, style := cellGlyph(g.canvas.Cell(col, row))
			g.screen.SetContent(col, row, r, nil, style)
		}
	}
}

// cellGlyph picks the half-block character and style for a cell.
func cellGlyph(top, bottom draw.Color) (rune, tcell.Style) {
	style := tcell.StyleDefault
	switch {
	case top == draw.ColorNone && bottom == draw.ColorNone:
		return draw.BlockEmpty, style
	case bottom == draw.ColorNone:
		return draw.BlockUpperHalf, style.Foreground(tcellColor(top))
	case top == draw.ColorNone:
		return draw.BlockLowerHalf, style.Foreground(tcellColor(bottom))
	case top == bottom:
		return draw.BlockFull, style.Foreground(tcellColor(top))
	default:
		return draw.BlockUpperHalf, style.Foreground(tcellColor(top)).Background(tcellColor(bottom))
	}
}

func tcellColor(c draw.Color) tcell.Color {
	switch c {
	case draw.ColorWhite:
		return tcell.ColorWhite
	case draw.ColorGray:
		return tcell.ColorGray
	case draw.ColorCyan:
		return tcell.ColorAqua
	case draw.ColorBlue:
		return tcell.ColorBlue
	case draw.ColorYellow:
		return tcell.ColorYellow
	case draw.ColorRed:
		return tcell.ColorRed
	case draw.ColorMagenta:
		return tcell.ColorFuchsia
	default:
		return tcell.ColorDefault
	}
}

func (g *Game) drawHUD(snap loop.Snapshot) {
	g.text(1, 0, fmt.Sprintf("Lives: %d", snap.Lives), tcell.ColorYellow)
	timeText := fmt.Sprintf("Time: %4.1f", snap.Remaining.Seconds())
	g.text(g.canvas.TerminalWidth()-len(timeText)-1, 0, timeText, tcell.ColorYellow)
}

func (g *Game) drawOutcome(snap loop.Snapshot) {
	msg, label, restart, ok := g.host.Outcome()
	if !ok {
		return
	}
	_, msgRow := g.canvas.LogicalToTerminal(snap.OutcomeAt.X, snap.OutcomeAt.Y)
	g.centered(msgRow-1, client.Reveal(msg, snap.Reveal), tcell.ColorYellow)

	center := restart.Center()
	_, labelRow := g.canvas.LogicalToTerminal(center.X, center.Y)
	g.centered(labelRow-1, client.Reveal("[ "+label+" ]", snap.Reveal), tcell.ColorYellow)
	if snap.Phase == loop.PhaseOver {
		g.centered(labelRow+1, "click or press ENTER", tcell.ColorGray)
	}
}

func (g *Game) centered(row int, s string, color tcell.Color) {
	g.text((g.canvas.TerminalWidth()-len(s))/2, row, s, color)
}

// text writes s at the 0-based cell col, row.
func (g *Game) text(col, row int, s string, color tcell.Color) {
	style := tcell.StyleDefault.Foreground(color)
	for i, r := range []rune(s) {
		g.screen.SetContent(col+i, row, r, nil, style)
	}
}
