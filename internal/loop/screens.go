package loop

import (
	"time"

	"github.com/tomz197/spaceshooter/internal/object"
	"github.com/tomz197/spaceshooter/internal/physics"
)

// Snapshot is a read-only view of the session for renderers. Slices are
// owned by the session and stay valid until the next Tick.
type Snapshot struct {
	View        physics.Vec
	Ship        object.Actor
	Obstacles   []object.Actor // Active only
	Projectiles []object.Actor // Active only
	Layers      []object.Layer

	Lives     int
	Remaining time.Duration
	Phase     Phase
	Reason    Reason

	// End screen; Outcome is empty during a round.
	Outcome      string
	OutcomeAt    physics.Vec // Center of the outcome message
	RestartLabel string
	Restart      physics.Rect
	Reveal       float64 // End screen scale-in progress in [0, 1]
}

// Snapshot captures the state as of the last Tick.
func (s *Session) Snapshot() Snapshot {
	s.snapObstacles = appendActive(s.snapObstacles[:0], s.obstacles)
	s.snapProjectiles = appendActive(s.snapProjectiles[:0], s.projectiles)

	snap := Snapshot{
		View:        s.view,
		Ship:        *s.ship,
		Obstacles:   s.snapObstacles,
		Projectiles: s.snapProjectiles,
		Layers:      s.parallax.Layers,
		Lives:       s.state.Lives,
		Remaining:   max(0, s.state.Deadline.Sub(s.lastTick)),
		Phase:       s.state.Phase,
		Reason:      s.state.Reason,
	}
	if s.state.Over {
		snap.Remaining = 0
		snap.Outcome = s.outcome
		snap.OutcomeAt = physics.Vec{X: s.view.X / 2, Y: s.view.Y * outcomeMessageY}
		snap.RestartLabel = RestartLabel
		snap.Restart = s.restart
		snap.Reveal = s.reveal()
	}
	return snap
}

// reveal is the end screen's scale-in progress at the last tick.
func (s *Session) reveal() float64 {
	d := s.tuning.OutcomeReveal()
	if d <= 0 || s.state.Phase == PhaseOver {
		return 1
	}
	return min(1, max(0, float64(s.lastTick.Sub(s.state.endedAt))/float64(d)))
}

func appendActive(dst []object.Actor, pool *object.Pool[object.Actor]) []object.Actor {
	for i := 0; i < pool.Len(); i++ {
		if a := pool.Slot(i); a.Active {
			dst = append(dst, *a)
		}
	}
	return dst
}
