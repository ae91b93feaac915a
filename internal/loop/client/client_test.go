package client

import (
	"bufio"
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/spaceshooter/internal/input"
	"github.com/tomz197/spaceshooter/internal/loop"
	"github.com/tomz197/spaceshooter/internal/loop/config"
	"github.com/tomz197/spaceshooter/internal/loop/server"
	"github.com/tomz197/spaceshooter/internal/physics"
)

func TestHostBlinkHidesShip(t *testing.T) {
	h := NewHost()
	t0 := time.Unix(0, 0)
	h.RunEffect(loop.EffectShipHit, loop.Blink{Count: 4, Fade: 100 * time.Millisecond}, t0)

	tests := []struct {
		at      time.Duration
		visible bool
	}{
		{0, true},
		{100 * time.Millisecond, false},
		{200 * time.Millisecond, true},
		{300 * time.Millisecond, false},
		{time.Second, true},
	}
	for _, tt := range tests {
		if got := h.ShipVisible(t0.Add(tt.at)); got != tt.visible {
			t.Errorf("visible at %v = %v, want %v", tt.at, got, tt.visible)
		}
	}
	if len(h.effects) != 0 {
		t.Fatal("finished effect should be dropped")
	}
}

func TestHostCancelAndOutcome(t *testing.T) {
	h := NewHost()
	t0 := time.Unix(0, 0)
	h.RunEffect("a", loop.Blink{Count: 1, Fade: time.Second}, t0)
	h.CancelEffects()
	if !h.ShipVisible(t0.Add(time.Second)) {
		t.Fatal("cancelled effect still applied")
	}

	r := physics.Rect{Max: physics.Vec{X: 10, Y: 10}}
	h.ShowOutcome("You win!", "Play Again?", r)
	if msg, label, got, ok := h.Outcome(); !ok || msg != "You win!" || label != "Play Again?" || got != r {
		t.Fatalf("Outcome = %q %q %v %v", msg, label, got, ok)
	}
	h.HideOutcome()
	if _, _, _, ok := h.Outcome(); ok {
		t.Fatal("outcome still showing after HideOutcome")
	}
}

func TestClampTermSize(t *testing.T) {
	tests := []struct {
		w, h                   int
		rw, rh, offCol, offRow int
	}{
		{80, 24, 80, 24, 0, 0},
		{config.MaxTermWidth + 20, 24, config.MaxTermWidth, 24, 10, 0},
		{80, config.MaxTermHeight + 11, 80, config.MaxTermHeight, 0, 5},
	}
	for _, tt := range tests {
		rw, rh, oc, or := clampTermSize(tt.w, tt.h)
		if rw != tt.rw || rh != tt.rh || oc != tt.offCol || or != tt.offRow {
			t.Errorf("clampTermSize(%d,%d) = %d,%d,%d,%d", tt.w, tt.h, rw, rh, oc, or)
		}
	}
}

func TestReveal(t *testing.T) {
	tests := []struct {
		p    float64
		want string
	}{
		{0, ""},
		{0.5, "bcde"},
		{1, "abcdefg"},
		{2, "abcdefg"},
	}
	for _, tt := range tests {
		if got := Reveal("abcdefg", tt.p); got != tt.want {
			t.Errorf("Reveal(%v) = %q, want %q", tt.p, got, tt.want)
		}
	}
}

func fixedSize() (int, int, error) { return 80, 24, nil }

func TestRunStartsSessionAndQuits(t *testing.T) {
	var out bytes.Buffer
	srv := server.NewServer(log.New(&bytes.Buffer{}))

	c := NewClient(bufio.NewReader(strings.NewReader(" q")), &out, ClientOptions{
		TermSizeFunc: fixedSize,
		Username:     "tester",
		Server:       srv,
		Logger:       log.New(&bytes.Buffer{}),
	})
	if srv.Players() != 1 {
		t.Fatal("client should register with the server")
	}

	done := make(chan error, 1)
	go func() { done <- c.Run() }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("client did not quit")
	}

	if c.session == nil {
		t.Fatal("space should have started a session")
	}
	if srv.Players() != 0 {
		t.Fatal("client should unregister on exit")
	}
	if !strings.Contains(out.String(), input.MouseOn) || !strings.Contains(out.String(), input.MouseOff) {
		t.Fatal("mouse reporting should be switched on and back off")
	}
}

func TestClicksFireAndRestart(t *testing.T) {
	c := NewClient(bufio.NewReader(strings.NewReader("")), &bytes.Buffer{}, ClientOptions{
		TermSizeFunc: fixedSize,
		Logger:       log.New(&bytes.Buffer{}),
	})
	t0 := time.Unix(100, 0)
	c.startGame(t0)

	// A click anywhere on the canvas fires during a round.
	c.state.Input = input.Input{Clicks: []input.Click{{Col: 40, Row: 12}}}
	c.updatePlayingState(t0)
	if n := len(c.session.Snapshot().Projectiles); n != 1 {
		t.Fatalf("projectiles after click = %d, want 1", n)
	}

	// Restart key is ignored during the round.
	c.state.Input = input.Input{Restart: true}
	c.updatePlayingState(t0.Add(time.Millisecond))
	if n := len(c.session.Snapshot().Projectiles); n != 1 {
		t.Fatalf("restart key fired during round: %d projectiles", n)
	}

	// Run out the clock, then restart from the keyboard.
	end := t0.Add(c.tuning.RoundDuration())
	c.state.Input = input.Input{}
	c.updatePlayingState(end)
	if !c.session.State().Over {
		t.Fatal("round should be over")
	}
	if _, _, _, ok := c.host.Outcome(); !ok {
		t.Fatal("host should show the outcome")
	}

	c.state.Input = input.Input{Restart: true}
	c.updatePlayingState(end.Add(time.Second))
	if c.session.State().Over {
		t.Fatal("restart key should start a new round")
	}
	if _, _, _, ok := c.host.Outcome(); ok {
		t.Fatal("outcome should be hidden after restart")
	}
}
