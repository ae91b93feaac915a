// Package object holds the game actors and the machinery that moves them:
// round-robin pools, timed trajectories, the obstacle spawner, ship
// kinematics and the parallax background.
package object

import (
	"time"

	"github.com/tomz197/spaceshooter/internal/physics"
)

// Vec is an alias for the physics package's Vec type.
type Vec = physics.Vec

// Kind identifies what an actor represents.
type Kind int

const (
	KindShip Kind = iota
	KindObstacle
	KindProjectile
)

func (k Kind) String() string {
	switch k {
	case KindShip:
		return "ship"
	case KindObstacle:
		return "obstacle"
	case KindProjectile:
		return "projectile"
	default:
		return "unknown"
	}
}

// Actor is a positioned, sized, activatable game object.
// Inactive actors are hidden: they are not moved, collided or drawn.
type Actor struct {
	Kind   Kind
	Pos    Vec // Center
	Size   Vec
	Vel    Vec // Only integrated for the ship
	Active bool
	Path   Trajectory
}

// Bounds returns the actor's axis-aligned bounding box.
func (a *Actor) Bounds() physics.Rect {
	return physics.RectAround(a.Pos, a.Size)
}

// Intersects reports whether two actors' bounding boxes overlap.
func (a *Actor) Intersects(o *Actor) bool {
	return a.Bounds().Overlaps(o.Bounds())
}

// Launch places the actor at the start of path and makes it visible.
// Any trajectory still in flight is dropped first.
func (a *Actor) Launch(path Trajectory) {
	a.Path.Cancel()
	a.Pos = path.From
	a.Vel = Vec{}
	a.Active = true
	a.Path = path
}

// Deactivate hides the actor and cancels its pending trajectory so that
// no later completion can touch the slot.
func (a *Actor) Deactivate() {
	a.Path.Cancel()
	a.Active = false
}

// Advance moves the actor along its trajectory. Returns true when the
// trajectory completed on this call and the actor was deactivated.
func (a *Actor) Advance(now time.Time) (arrived bool) {
	if !a.Active || !a.Path.IsSet() {
		return false
	}
	a.Pos = a.Path.At(now)
	if a.Path.Done(now) {
		a.Deactivate()
		return true
	}
	return false
}

// Rand is the source of uniform randomness in [0, 1).
// *math/rand/v2.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// Between draws a uniform value in [lo, hi).
func Between(rng Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

// BetweenDuration draws a uniform duration in [lo, hi).
func BetweenDuration(rng Rand, lo, hi time.Duration) time.Duration {
	return lo + time.Duration(rng.Float64()*float64(hi-lo))
}
