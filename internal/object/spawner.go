package object

import "time"

// SpawnConfig describes where and how often obstacles appear.
type SpawnConfig struct {
	View       Vec // Viewport size
	GapMin     time.Duration
	GapMax     time.Duration
	TransitMin time.Duration
	TransitMax time.Duration
}

// SpawnEvent describes one obstacle launch.
type SpawnEvent struct {
	Slot     int
	From     Vec
	To       Vec
	Duration time.Duration

	// Interrupted is set when the reused slot still had an obstacle in flight.
	Interrupted bool
}

// Spawner launches obstacles from the right edge at random intervals,
// recycling slots of an obstacle pool.
type Spawner struct {
	pool      *Pool[Actor]
	rng       Rand
	cfg       SpawnConfig
	nextSpawn time.Time
}

// NewSpawner creates a spawner over pool. The first call to MaybeSpawn fires.
func NewSpawner(pool *Pool[Actor], rng Rand, cfg SpawnConfig) *Spawner {
	return &Spawner{
		pool: pool,
		rng:  rng,
		cfg:  cfg,
	}
}

// NextSpawn returns the time after which the next obstacle fires.
func (s *Spawner) NextSpawn() time.Time {
	return s.nextSpawn
}

// Reset makes the next call to MaybeSpawn fire.
func (s *Spawner) Reset() {
	s.nextSpawn = time.Time{}
}

// MaybeSpawn decides whether an obstacle is due at now. On fire it
// schedules the next spawn and reserves a pool slot; the returned event
// still has to be applied with Launch.
func (s *Spawner) MaybeSpawn(now time.Time) (SpawnEvent, bool) {
	if !now.After(s.nextSpawn) {
		return SpawnEvent{}, false
	}

	gap := BetweenDuration(s.rng, s.cfg.GapMin, s.cfg.GapMax)
	s.nextSpawn = now.Add(gap)
	y := Between(s.rng, 0, s.cfg.View.Y)
	transit := BetweenDuration(s.rng, s.cfg.TransitMin, s.cfg.TransitMax)

	slot := s.pool.Next()
	obstacle := s.pool.Slot(slot)
	w := obstacle.Size.X

	return SpawnEvent{
		Slot:        slot,
		From:        Vec{X: s.cfg.View.X + w/2, Y: y},
		To:          Vec{X: -s.cfg.View.X - w, Y: y},
		Duration:    transit,
		Interrupted: obstacle.Active && obstacle.Path.IsSet(),
	}, true
}

// Launch applies ev at now: whatever the slot was doing is cancelled and
// the obstacle starts its new trajectory.
func (s *Spawner) Launch(ev SpawnEvent, now time.Time) *Actor {
	obstacle := s.pool.Slot(ev.Slot)
	obstacle.Launch(NewTrajectory(ev.From, ev.To, now, ev.Duration))
	return obstacle
}

// Update spawns at most one obstacle. Returns the launched obstacle, if any.
func (s *Spawner) Update(now time.Time) (*Actor, SpawnEvent, bool) {
	ev, ok := s.MaybeSpawn(now)
	if !ok {
		return nil, SpawnEvent{}, false
	}
	return s.Launch(ev, now), ev, true
}
