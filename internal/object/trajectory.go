package object

import (
	"time"

	"github.com/tomz197/spaceshooter/internal/physics"
)

// Trajectory is a timed linear move from From to To.
// The zero value is an unset trajectory.
type Trajectory struct {
	From     Vec
	To       Vec
	Start    time.Time
	Duration time.Duration
	set      bool
}

// NewTrajectory creates a trajectory starting at start.
func NewTrajectory(from, to Vec, start time.Time, d time.Duration) Trajectory {
	return Trajectory{From: from, To: to, Start: start, Duration: d, set: true}
}

// IsSet reports whether the trajectory is pending.
func (t Trajectory) IsSet() bool {
	return t.set
}

// End returns the completion time.
func (t Trajectory) End() time.Time {
	return t.Start.Add(t.Duration)
}

// Progress returns the completed fraction in [0, 1].
func (t Trajectory) Progress(now time.Time) float64 {
	if t.Duration <= 0 {
		return 1
	}
	p := float64(now.Sub(t.Start)) / float64(t.Duration)
	return physics.Clamp(p, 0, 1)
}

// At returns the interpolated position at now.
func (t Trajectory) At(now time.Time) Vec {
	return physics.Lerp(t.From, t.To, t.Progress(now))
}

// Done reports whether now is at or past the end of the trajectory.
func (t Trajectory) Done(now time.Time) bool {
	return !now.Before(t.End())
}

// Cancel drops the trajectory.
func (t *Trajectory) Cancel() {
	*t = Trajectory{}
}
