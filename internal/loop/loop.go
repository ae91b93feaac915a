// Package loop runs one game session: spawning, motion, collisions and the
// win/lose state machine, advanced one frame at a time by Tick.
package loop

import (
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/spaceshooter/internal/loop/config"
	"github.com/tomz197/spaceshooter/internal/object"
	"github.com/tomz197/spaceshooter/internal/physics"
)

// Deps are the platform services a session talks to. Nil fields fall back
// to no-op implementations, a time-seeded random source and the default
// logger.
type Deps struct {
	Scene  Scene
	Audio  Audio
	Accel  Accelerometer
	Rand   object.Rand
	Logger *log.Logger
}

// Session is a single player's game. It is not safe for concurrent use;
// Tick and Touch must be called from the same goroutine.
type Session struct {
	tuning config.Tuning
	view   physics.Vec

	scene  Scene
	audio  Audio
	accel  Accelerometer
	logger *log.Logger

	ship        *object.Actor
	shipStart   physics.Vec
	dynamics    object.ShipDynamics
	obstacles   *object.Pool[object.Actor]
	projectiles *object.Pool[object.Actor]
	spawner     *object.Spawner
	parallax    *object.Parallax

	state    GameState
	lastTick time.Time
	outcome  string
	restart  physics.Rect

	// Snapshot buffers, reused every frame
	snapObstacles   []object.Actor
	snapProjectiles []object.Actor
}

// NewSession starts a round at now.
func NewSession(t config.Tuning, deps Deps, now time.Time) *Session {
	t.Normalize()
	deps = withDefaults(deps, now)

	view := physics.Vec{X: t.ViewWidth, Y: t.ViewHeight}
	s := &Session{
		tuning: t,
		view:   view,
		scene:  deps.Scene,
		audio:  deps.Audio,
		accel:  deps.Accel,
		logger: deps.Logger,
		dynamics: object.ShipDynamics{
			Threshold: t.TiltThreshold,
			Force:     t.TiltForce,
			Mass:      t.ShipMass,
			Damping:   t.ShipDamping,
			Clamp:     t.ClampShip,
			View:      view,
		},
		restart: physics.RectAround(
			physics.Vec{X: view.X / 2, Y: view.Y * restartY},
			physics.Vec{X: view.X * restartWidth, Y: view.Y * restartHeight},
		),
	}

	s.shipStart = physics.Vec{X: view.X * t.ShipStartX, Y: view.Y / 2}
	s.ship = object.NewShip(s.shipStart, physics.Vec{X: t.ShipWidth, Y: t.ShipHeight})

	s.obstacles = object.NewPool(t.ObstacleCapacity, func(a *object.Actor) {
		a.Kind = object.KindObstacle
		a.Size = physics.Vec{X: t.ObstacleWidth, Y: t.ObstacleHeight}
	})
	s.projectiles = object.NewPool(t.ProjectileCapacity, func(a *object.Actor) {
		a.Kind = object.KindProjectile
		a.Size = physics.Vec{X: t.LaserWidth, Y: t.LaserHeight}
	})
	s.spawner = object.NewSpawner(s.obstacles, deps.Rand, object.SpawnConfig{
		View:       view,
		GapMin:     config.Seconds(t.SpawnGapMinSeconds),
		GapMax:     config.Seconds(t.SpawnGapMaxSeconds),
		TransitMin: config.Seconds(t.TransitMinSeconds),
		TransitMax: config.Seconds(t.TransitMaxSeconds),
	})
	s.parallax = object.NewParallax(view, deps.Rand, t.StarsPerLayer, t.BackgroundSpeed, t.DustSpeed)

	s.state = newGameState(t.InitialLives, now.Add(t.RoundDuration()))
	s.snapObstacles = make([]object.Actor, 0, t.ObstacleCapacity)
	s.snapProjectiles = make([]object.Actor, 0, t.ProjectileCapacity)

	if s.accel.Available() {
		s.accel.Start()
	}
	if err := s.audio.StartMusic(MusicTrack); err != nil {
		s.logger.Warn("background music unavailable", "err", err)
	}
	return s
}

func withDefaults(d Deps, now time.Time) Deps {
	if d.Scene == nil {
		d.Scene = NopScene{}
	}
	if d.Audio == nil {
		d.Audio = NopAudio{}
	}
	if d.Accel == nil {
		d.Accel = NopAccelerometer{}
	}
	if d.Rand == nil {
		d.Rand = rand.New(rand.NewPCG(uint64(now.UnixNano()), 0x5eed))
	}
	if d.Logger == nil {
		d.Logger = log.Default()
	}
	return d
}

// Tick advances the session to now. Steps run in a fixed order: parallax,
// ship motion, obstacle spawn, trajectories, collisions, end-state check.
func (s *Session) Tick(now time.Time) {
	var dt time.Duration
	if !s.lastTick.IsZero() && now.After(s.lastTick) {
		dt = now.Sub(s.lastTick)
	}
	s.lastTick = now

	s.parallax.Update(now)

	if !s.state.Over {
		s.updateShip(dt)
		s.spawn(now)
	}
	s.advance(now)
	if !s.state.Over {
		s.detectCollisions(now)
	}

	s.evaluate(now)
}

// TouchResult says what a touch did.
type TouchResult int

const (
	TouchIgnored TouchResult = iota
	TouchFired
	TouchRestarted
)

// Touch handles a tap at p in view coordinates. During a round any tap
// fires; once the round has ended only a tap on the restart control counts.
func (s *Session) Touch(p physics.Vec, now time.Time) TouchResult {
	if s.state.Over {
		if s.restart.Contains(p) && s.Restart(now) {
			return TouchRestarted
		}
		return TouchIgnored
	}
	s.fire(now)
	return TouchFired
}

// FirePoint is a tap position that fires during a round.
func (s *Session) FirePoint() physics.Vec {
	return s.ship.Pos
}

// RestartPoint is a tap position that hits the restart control.
func (s *Session) RestartPoint() physics.Vec {
	return s.restart.Center()
}

// State returns a copy of the round bookkeeping.
func (s *Session) State() GameState {
	return s.state
}

// Close stops the services the session started.
func (s *Session) Close() {
	s.audio.StopMusic()
	s.accel.Stop()
}
