package object

import (
	"math"
	"time"

	"github.com/tomz197/spaceshooter/internal/physics"
)

// ShipDynamics turns tilt readings into vertical ship motion.
type ShipDynamics struct {
	Threshold float64 // Tilt magnitude below which no force is applied
	Force     float64 // Force per unit of tilt
	Mass      float64
	Damping   float64 // Velocity fraction lost per second
	Clamp     bool    // Keep the ship inside the viewport
	View      Vec
}

// NewShip creates the player ship centered at pos.
func NewShip(pos, size Vec) *Actor {
	return &Actor{
		Kind:   KindShip,
		Pos:    pos,
		Size:   size,
		Active: true,
	}
}

// Step integrates one tick of ship motion. Positive tilt pushes toward +Y.
func (d ShipDynamics) Step(ship *Actor, tilt float64, dt time.Duration) {
	if !ship.Active {
		return
	}
	secs := dt.Seconds()
	if secs <= 0 {
		return
	}

	if math.Abs(tilt) > d.Threshold && d.Mass > 0 {
		ship.Vel.Y += d.Force * tilt / d.Mass * secs
	}

	if d.Damping > 0 {
		ship.Vel.Y *= math.Max(0, 1-d.Damping*secs)
	}

	ship.Pos.Y += ship.Vel.Y * secs

	if d.Clamp {
		half := ship.Size.Y / 2
		clamped := physics.Clamp(ship.Pos.Y, half, d.View.Y-half)
		if clamped != ship.Pos.Y {
			ship.Pos.Y = clamped
			ship.Vel.Y = 0
		}
	}
}

// Fire launches projectile from the ship's nose toward the right edge of
// the view. The traversal always takes d, whatever the distance.
func Fire(projectile, ship *Actor, view Vec, now time.Time, d time.Duration) {
	from := Vec{X: ship.Pos.X + projectile.Size.X/2, Y: ship.Pos.Y}
	to := Vec{X: view.X, Y: ship.Pos.Y}
	projectile.Launch(NewTrajectory(from, to, now, d))
}
