package loop

import (
	"time"

	"github.com/tomz197/spaceshooter/internal/object"
)

// updateShip applies the latest tilt reading to the ship.
func (s *Session) updateShip(dt time.Duration) {
	var tilt float64
	if a, ok := s.accel.Latest(); ok {
		tilt = a
	}
	s.dynamics.Step(s.ship, tilt, dt)
}

// spawn launches at most one obstacle.
func (s *Session) spawn(now time.Time) {
	_, ev, ok := s.spawner.Update(now)
	if ok && ev.Interrupted {
		s.logger.Debug("obstacle slot recycled in flight", "slot", ev.Slot)
	}
}

// advance moves every active obstacle and projectile along its trajectory,
// hiding the ones that arrive.
func (s *Session) advance(now time.Time) {
	for i := 0; i < s.obstacles.Len(); i++ {
		s.obstacles.Slot(i).Advance(now)
	}
	for i := 0; i < s.projectiles.Len(); i++ {
		s.projectiles.Slot(i).Advance(now)
	}
}

// fire launches the next projectile slot from the ship's nose.
func (s *Session) fire(now time.Time) {
	_, p := s.projectiles.Acquire()
	object.Fire(p, s.ship, s.view, now, s.tuning.LaserDuration())
	s.audio.Play(SoundLaser)
}
