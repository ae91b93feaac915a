package client

import (
	"time"

	"github.com/tomz197/spaceshooter/internal/loop"
	"github.com/tomz197/spaceshooter/internal/physics"
)

// Host is the scene side of a session for terminal frontends: it keeps the
// running ship effects and the end screen the session asked for.
type Host struct {
	effects map[string]runningEffect

	outcome      string
	restartLabel string
	restart      physics.Rect
	showing      bool
}

type runningEffect struct {
	fx    loop.Effect
	start time.Time
}

var _ loop.Scene = (*Host)(nil)

// NewHost creates an empty scene host.
func NewHost() *Host {
	return &Host{effects: make(map[string]runningEffect)}
}

// RunEffect implements loop.Scene.
func (h *Host) RunEffect(key string, fx loop.Effect, now time.Time) {
	h.effects[key] = runningEffect{fx: fx, start: now}
}

// CancelEffects implements loop.Scene.
func (h *Host) CancelEffects() {
	clear(h.effects)
}

// ShowOutcome implements loop.Scene.
func (h *Host) ShowOutcome(msg, restartLabel string, restart physics.Rect) {
	h.outcome = msg
	h.restartLabel = restartLabel
	h.restart = restart
	h.showing = true
}

// HideOutcome implements loop.Scene.
func (h *Host) HideOutcome() {
	h.outcome = ""
	h.restartLabel = ""
	h.showing = false
}

// Outcome returns the end screen, if one is showing.
func (h *Host) Outcome() (msg, restartLabel string, restart physics.Rect, ok bool) {
	return h.outcome, h.restartLabel, h.restart, h.showing
}

// ShipAlpha combines every running effect into the ship's opacity at now.
// Finished effects are dropped.
func (h *Host) ShipAlpha(now time.Time) float64 {
	alpha := 1.0
	for key, e := range h.effects {
		elapsed := now.Sub(e.start)
		if elapsed >= e.fx.Duration() {
			delete(h.effects, key)
			continue
		}
		alpha = min(alpha, e.fx.Alpha(elapsed))
	}
	return alpha
}

// ShipVisible reports whether a terminal, which cannot fade, should draw
// the ship at now.
func (h *Host) ShipVisible(now time.Time) bool {
	return h.ShipAlpha(now) >= 0.5
}
