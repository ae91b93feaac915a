package loop

import (
	"time"

	"github.com/tomz197/spaceshooter/internal/object"
)

// detectCollisions resolves projectile and ship hits on every active
// obstacle. An obstacle is deactivated as soon as a projectile hits it, which
// ends its projectile scan, so it takes at most one hit per tick.
func (s *Session) detectCollisions(now time.Time) {
	for i := 0; i < s.obstacles.Len(); i++ {
		ob := s.obstacles.Slot(i)
		if !ob.Active {
			continue
		}

		for j := 0; j < s.projectiles.Len() && ob.Active; j++ {
			p := s.projectiles.Slot(j)
			if !p.Active || !p.Intersects(ob) {
				continue
			}
			p.Deactivate()
			ob.Deactivate()
			s.audio.Play(SoundExplosionSmall)
			s.logger.Debug("asteroid destroyed", "slot", i)
		}

		if ob.Active && s.ship.Active && s.ship.Intersects(ob) {
			ob.Deactivate()
			s.shipHit(now)
		}
	}
}

// shipHit costs a life and plays the hit feedback. The ship stays active.
func (s *Session) shipHit(now time.Time) {
	if s.state.Lives > 0 {
		s.state.Lives--
	}
	s.audio.Play(SoundExplosionLarge)
	s.scene.RunEffect(EffectShipHit, Blink{Count: s.tuning.BlinkCount, Fade: s.tuning.BlinkFade()}, now)
	s.logger.Debug("ship hit", "lives", s.state.Lives)
}

func deactivate(a *object.Actor) {
	a.Deactivate()
}
