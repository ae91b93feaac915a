package loop

import "time"

// Phase is the round's position in the game state machine.
type Phase int

const (
	PhasePlaying Phase = iota // Round in progress
	PhaseEnding               // Outcome decided, end screen revealing
	PhaseOver                 // End screen fully shown, waiting for restart
)

func (p Phase) String() string {
	switch p {
	case PhasePlaying:
		return "playing"
	case PhaseEnding:
		return "ending"
	case PhaseOver:
		return "over"
	default:
		return "unknown"
	}
}

// Reason is why a round ended.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonWon
	ReasonLost
)

func (r Reason) String() string {
	switch r {
	case ReasonWon:
		return "won"
	case ReasonLost:
		return "lost"
	default:
		return "none"
	}
}

// GameState is the round bookkeeping. Only the state machine mutates it.
type GameState struct {
	Lives    int
	Deadline time.Time
	Over     bool // Latch: set once when the round ends, cleared by restart
	Phase    Phase
	Reason   Reason

	endedAt time.Time
}

func newGameState(lives int, deadline time.Time) GameState {
	return GameState{
		Lives:    lives,
		Deadline: deadline,
		Phase:    PhasePlaying,
	}
}

// evaluate runs the end-of-tick transition check. Lives are checked before
// the deadline, so running out of both on the same tick is a loss.
func (s *Session) evaluate(now time.Time) {
	switch s.state.Phase {
	case PhasePlaying:
		if s.state.Lives <= 0 {
			s.endGame(ReasonLost, now)
		} else if !now.Before(s.state.Deadline) {
			s.endGame(ReasonWon, now)
		}
	case PhaseEnding:
		if now.Sub(s.state.endedAt) >= s.tuning.OutcomeReveal() {
			s.state.Phase = PhaseOver
		}
	}
}

// endGame runs the end sequence. The latch makes repeated calls no-ops.
func (s *Session) endGame(reason Reason, now time.Time) {
	if s.state.Over {
		return
	}
	s.state.Over = true
	s.state.Phase = PhaseEnding
	s.state.Reason = reason
	s.state.endedAt = now

	s.scene.CancelEffects()
	s.accel.Stop()
	s.ship.Deactivate()

	s.outcome = MessageWon
	if reason == ReasonLost {
		s.outcome = MessageLost
	}
	s.scene.ShowOutcome(s.outcome, RestartLabel, s.restart)

	s.logger.Info("game over", "reason", reason, "lives", s.state.Lives)
}

// Restart begins a new round. It is only allowed once the round has ended;
// otherwise it returns false and changes nothing.
func (s *Session) Restart(now time.Time) bool {
	if !s.state.Over {
		return false
	}

	s.state = newGameState(s.tuning.InitialLives, now.Add(s.tuning.RoundDuration()))
	s.spawner.Reset()
	s.obstacles.Reset(deactivate)
	s.projectiles.Reset(deactivate)

	s.ship.Path.Cancel()
	s.ship.Pos = s.shipStart
	s.ship.Vel.Y = 0
	s.ship.Active = true

	s.outcome = ""
	s.scene.HideOutcome()
	if s.accel.Available() {
		s.accel.Start()
	}

	s.logger.Debug("restart", "deadline", s.state.Deadline)
	return true
}
