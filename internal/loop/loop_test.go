package loop

import (
	"bytes"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/spaceshooter/internal/loop/config"
	"github.com/tomz197/spaceshooter/internal/object"
	"github.com/tomz197/spaceshooter/internal/physics"
)

type fixedRand float64

func (r fixedRand) Float64() float64 { return float64(r) }

type recordScene struct {
	effects  []string
	cancels  int
	outcomes []string
	restart  physics.Rect
	hides    int
}

func (s *recordScene) RunEffect(key string, _ Effect, _ time.Time) {
	s.effects = append(s.effects, key)
}
func (s *recordScene) CancelEffects() { s.cancels++ }
func (s *recordScene) ShowOutcome(msg, _ string, r physics.Rect) {
	s.outcomes = append(s.outcomes, msg)
	s.restart = r
}
func (s *recordScene) HideOutcome() { s.hides++ }

type recordAudio struct {
	played []string
	music  []string
	stops  int
}

func (a *recordAudio) Play(name string) { a.played = append(a.played, name) }
func (a *recordAudio) StartMusic(name string) error {
	a.music = append(a.music, name)
	return nil
}
func (a *recordAudio) StopMusic() { a.stops++ }

func (a *recordAudio) count(name string) int {
	n := 0
	for _, p := range a.played {
		if p == name {
			n++
		}
	}
	return n
}

type fakeAccel struct {
	active  bool
	value   float64
	starts  int
	stops   int
	missing bool
}

func (f *fakeAccel) Available() bool { return !f.missing }

func (f *fakeAccel) Start() {
	f.active = true
	f.starts++
}

func (f *fakeAccel) Stop() {
	f.active = false
	f.stops++
}

func (f *fakeAccel) Latest() (float64, bool) {
	if !f.active {
		return 0, false
	}
	return f.value, true
}

type harness struct {
	s     *Session
	scene *recordScene
	audio *recordAudio
	accel *fakeAccel
	t0    time.Time
}

// newHarness builds a session whose obstacles spawn along the top edge
// (fixedRand 0), far from the ship at mid-height.
func newHarness(t *testing.T, mutate func(*config.Tuning)) *harness {
	t.Helper()
	tuning := config.Default()
	if mutate != nil {
		mutate(&tuning)
	}
	h := &harness{
		scene: &recordScene{},
		audio: &recordAudio{},
		accel: &fakeAccel{},
		t0:    time.Unix(1_000, 0),
	}
	h.s = NewSession(tuning, Deps{
		Scene:  h.scene,
		Audio:  h.audio,
		Accel:  h.accel,
		Rand:   fixedRand(0),
		Logger: log.New(&bytes.Buffer{}),
	}, h.t0)
	return h
}

func (h *harness) at(d time.Duration) time.Time { return h.t0.Add(d) }

// place parks a live actor from pool at pos for the rest of the round.
func (h *harness) place(pool *object.Pool[object.Actor], slot int, pos physics.Vec) *object.Actor {
	a := pool.Slot(slot)
	a.Launch(object.NewTrajectory(pos, pos, h.t0, time.Minute))
	return a
}

func TestInitialState(t *testing.T) {
	h := newHarness(t, nil)
	st := h.s.State()

	if st.Phase != PhasePlaying || st.Over || st.Lives != 3 {
		t.Fatalf("initial state = %+v", st)
	}
	if !st.Deadline.Equal(h.at(30 * time.Second)) {
		t.Fatalf("deadline = %v, want t0+30s", st.Deadline)
	}
	if h.accel.starts != 1 {
		t.Fatal("tilt monitoring should start with the session")
	}
	if len(h.audio.music) != 1 || h.audio.music[0] != MusicTrack {
		t.Fatalf("music = %v", h.audio.music)
	}
	if got := h.s.ship.Pos; got != (physics.Vec{X: 48, Y: 160}) {
		t.Fatalf("ship starts at %+v", got)
	}
}

func TestTickSpawnsFirstObstacleImmediately(t *testing.T) {
	h := newHarness(t, nil)
	h.s.Tick(h.t0)

	snap := h.s.Snapshot()
	if len(snap.Obstacles) != 1 {
		t.Fatalf("active obstacles = %d, want 1", len(snap.Obstacles))
	}
	if got := snap.Obstacles[0].Pos; got != (physics.Vec{X: 496, Y: 0}) {
		t.Fatalf("obstacle starts at %+v", got)
	}
}

func TestWonAtDeadline(t *testing.T) {
	h := newHarness(t, nil)
	h.s.Tick(h.t0)
	h.s.Tick(h.at(29 * time.Second))
	if h.s.State().Phase != PhasePlaying {
		t.Fatal("round ended early")
	}

	h.s.Tick(h.at(30 * time.Second))
	st := h.s.State()
	if st.Phase != PhaseEnding || st.Reason != ReasonWon || !st.Over {
		t.Fatalf("state at deadline = %+v", st)
	}
	if len(h.scene.outcomes) != 1 || h.scene.outcomes[0] != MessageWon {
		t.Fatalf("outcomes = %v", h.scene.outcomes)
	}
	if h.s.ship.Active {
		t.Fatal("ship should be hidden once the round ends")
	}
	if h.accel.active {
		t.Fatal("tilt monitoring should stop once the round ends")
	}
}

func TestLastLifeEndsRoundOnSameTick(t *testing.T) {
	h := newHarness(t, func(c *config.Tuning) { c.InitialLives = 1 })
	h.s.Tick(h.t0)
	h.place(h.s.obstacles, 5, h.s.ship.Pos)

	h.s.Tick(h.at(10 * time.Millisecond))

	st := h.s.State()
	if st.Lives != 0 || st.Phase != PhaseEnding || st.Reason != ReasonLost {
		t.Fatalf("state after fatal hit = %+v", st)
	}
	if len(h.scene.outcomes) != 1 || h.scene.outcomes[0] != MessageLost {
		t.Fatalf("outcomes = %v", h.scene.outcomes)
	}
	if h.audio.count(SoundExplosionLarge) != 1 {
		t.Fatalf("played %v", h.audio.played)
	}
	if len(h.scene.effects) != 1 || h.scene.effects[0] != EffectShipHit || h.scene.cancels != 1 {
		t.Fatalf("effects = %v cancels = %d", h.scene.effects, h.scene.cancels)
	}
}

func TestLostBeatsDeadline(t *testing.T) {
	h := newHarness(t, func(c *config.Tuning) { c.InitialLives = 1 })
	h.s.Tick(h.t0)
	h.place(h.s.obstacles, 5, h.s.ship.Pos)

	h.s.Tick(h.at(30 * time.Second))

	if r := h.s.State().Reason; r != ReasonLost {
		t.Fatalf("reason = %v, want lost", r)
	}
}

func TestEndSequenceRunsOnce(t *testing.T) {
	h := newHarness(t, func(c *config.Tuning) { c.InitialLives = 1 })
	h.s.Tick(h.t0)
	h.place(h.s.obstacles, 5, h.s.ship.Pos)

	for i := 1; i <= 10; i++ {
		h.s.Tick(h.at(time.Duration(i) * 100 * time.Millisecond))
	}

	if len(h.scene.outcomes) != 1 || h.scene.cancels != 1 || h.accel.stops != 1 {
		t.Fatalf("end sequence ran %d times (cancels %d, stops %d)",
			len(h.scene.outcomes), h.scene.cancels, h.accel.stops)
	}
	if ph := h.s.State().Phase; ph != PhaseOver {
		t.Fatalf("phase after reveal = %v, want over", ph)
	}
	if h.s.State().Lives != 0 {
		t.Fatal("lives must not change after the round ended")
	}
}

func TestEndingBecomesOverAfterReveal(t *testing.T) {
	h := newHarness(t, nil)
	h.s.Tick(h.at(30 * time.Second))
	if ph := h.s.State().Phase; ph != PhaseEnding {
		t.Fatalf("phase = %v", ph)
	}

	h.s.Tick(h.at(30*time.Second + 250*time.Millisecond))
	snap := h.s.Snapshot()
	if snap.Phase != PhaseEnding || snap.Reveal < 0.49 || snap.Reveal > 0.51 {
		t.Fatalf("mid reveal: phase %v reveal %v", snap.Phase, snap.Reveal)
	}

	h.s.Tick(h.at(30*time.Second + 500*time.Millisecond))
	snap = h.s.Snapshot()
	if snap.Phase != PhaseOver || snap.Reveal != 1 {
		t.Fatalf("after reveal: phase %v reveal %v", snap.Phase, snap.Reveal)
	}
	if snap.Outcome != MessageWon || snap.RestartLabel != RestartLabel {
		t.Fatalf("snapshot outcome = %q / %q", snap.Outcome, snap.RestartLabel)
	}
}

func TestShipHitCostsLifeButKeepsShip(t *testing.T) {
	h := newHarness(t, nil)
	h.s.Tick(h.t0)
	ob := h.place(h.s.obstacles, 5, h.s.ship.Pos)

	h.s.Tick(h.at(10 * time.Millisecond))

	if h.s.State().Lives != 2 {
		t.Fatalf("lives = %d, want 2", h.s.State().Lives)
	}
	if ob.Active {
		t.Fatal("obstacle that hit the ship should be hidden")
	}
	if !h.s.ship.Active {
		t.Fatal("collisions never hide the ship")
	}
}

func TestLivesFloorAtZero(t *testing.T) {
	h := newHarness(t, func(c *config.Tuning) { c.InitialLives = 1 })
	h.s.Tick(h.t0)
	h.place(h.s.obstacles, 5, h.s.ship.Pos)
	h.place(h.s.obstacles, 6, h.s.ship.Pos)

	h.s.Tick(h.at(10 * time.Millisecond))

	if l := h.s.State().Lives; l != 0 {
		t.Fatalf("lives = %d, want 0", l)
	}
	if h.audio.count(SoundExplosionLarge) != 2 {
		t.Fatal("both obstacles should register as hits")
	}
}

func TestObstacleTakesAtMostOneHitPerTick(t *testing.T) {
	h := newHarness(t, nil)
	h.s.Tick(h.t0)

	target := physics.Vec{X: 300, Y: 100}
	ob := h.place(h.s.obstacles, 5, target)
	p1 := h.place(h.s.projectiles, 0, target)
	p2 := h.place(h.s.projectiles, 1, target)

	h.s.Tick(h.at(10 * time.Millisecond))

	if ob.Active {
		t.Fatal("obstacle should be destroyed")
	}
	if p1.Active == p2.Active {
		t.Fatalf("exactly one projectile should be spent, got p1=%v p2=%v", p1.Active, p2.Active)
	}
	if n := h.audio.count(SoundExplosionSmall); n != 1 {
		t.Fatalf("small explosions = %d, want 1", n)
	}
	if h.s.State().Lives != 3 {
		t.Fatal("projectile hits never cost lives")
	}
}

func TestTouchFiresDuringRound(t *testing.T) {
	h := newHarness(t, nil)
	h.s.Tick(h.t0)

	if got := h.s.Touch(physics.Vec{X: 1, Y: 1}, h.t0); got != TouchFired {
		t.Fatalf("touch = %v, want fired", got)
	}
	p := h.s.projectiles.Slot(0)
	if !p.Active || p.Pos != (physics.Vec{X: 60, Y: 160}) {
		t.Fatalf("projectile = %+v", p)
	}
	if p.Path.To != (physics.Vec{X: 480, Y: 160}) || p.Path.Duration != 500*time.Millisecond {
		t.Fatalf("projectile path = %+v", p.Path)
	}
	if h.audio.count(SoundLaser) != 1 {
		t.Fatalf("played %v", h.audio.played)
	}

	h.s.Tick(h.at(500 * time.Millisecond))
	if p.Active {
		t.Fatal("projectile should be hidden on arrival")
	}
}

func TestTouchAfterRoundEnds(t *testing.T) {
	h := newHarness(t, nil)
	h.s.Tick(h.at(30 * time.Second))

	if got := h.s.Touch(physics.Vec{X: 1, Y: 1}, h.at(31*time.Second)); got != TouchIgnored {
		t.Fatalf("touch outside restart = %v, want ignored", got)
	}
	if h.audio.count(SoundLaser) != 0 {
		t.Fatal("firing must be disabled after the round")
	}
	if h.scene.restart != h.s.restart {
		t.Fatal("scene should receive the restart bounds")
	}

	if got := h.s.Touch(h.s.RestartPoint(), h.at(31*time.Second)); got != TouchRestarted {
		t.Fatalf("touch on restart = %v, want restarted", got)
	}
}

func TestRestartResetsRound(t *testing.T) {
	h := newHarness(t, func(c *config.Tuning) { c.InitialLives = 1 })
	h.accel.value = 1
	h.s.Tick(h.t0)
	h.s.Touch(h.s.FirePoint(), h.t0)
	h.place(h.s.obstacles, 5, h.s.ship.Pos)
	h.s.Tick(h.at(100 * time.Millisecond))
	if !h.s.State().Over {
		t.Fatal("setup: round should have ended")
	}

	now := h.at(time.Minute)
	if !h.s.Restart(now) {
		t.Fatal("restart refused after round end")
	}

	st := h.s.State()
	if st.Over || st.Phase != PhasePlaying || st.Reason != ReasonNone || st.Lives != 1 {
		t.Fatalf("state after restart = %+v", st)
	}
	if !st.Deadline.Equal(now.Add(30 * time.Second)) {
		t.Fatalf("deadline = %v", st.Deadline)
	}
	if !h.s.spawner.NextSpawn().IsZero() {
		t.Fatal("spawner should fire on the next tick")
	}
	for _, pool := range []*object.Pool[object.Actor]{h.s.obstacles, h.s.projectiles} {
		pool.Each(func(i int, a *object.Actor) {
			if a.Active || a.Path.IsSet() {
				t.Errorf("%v slot %d still live after restart", a.Kind, i)
			}
		})
		if pool.Cursor() != 0 {
			t.Errorf("pool cursor = %d after restart", pool.Cursor())
		}
	}
	if !h.s.ship.Active || h.s.ship.Pos != (physics.Vec{X: 48, Y: 160}) || h.s.ship.Vel != (physics.Vec{}) {
		t.Fatalf("ship after restart = %+v", h.s.ship)
	}
	if h.scene.hides != 1 || h.accel.starts != 2 {
		t.Fatalf("hides = %d starts = %d", h.scene.hides, h.accel.starts)
	}

	// A stale trajectory deadline from before the restart must not revive anything.
	h.s.Tick(now.Add(time.Millisecond))
	if n := len(h.s.Snapshot().Obstacles); n != 1 {
		t.Fatalf("active obstacles after first tick = %d, want only the fresh spawn", n)
	}
}

func TestRestartRefusedDuringRound(t *testing.T) {
	h := newHarness(t, nil)
	h.s.Tick(h.t0)
	if h.s.Restart(h.at(time.Second)) {
		t.Fatal("restart must be ignored while playing")
	}
	if h.scene.hides != 0 {
		t.Fatal("refused restart should not touch the scene")
	}
}

func TestTiltMovesShip(t *testing.T) {
	h := newHarness(t, nil)
	h.accel.value = 0.5
	h.s.Tick(h.t0)
	h.s.Tick(h.at(10 * time.Millisecond))

	if h.s.ship.Vel.Y <= 0 || h.s.ship.Pos.Y <= 160 {
		t.Fatalf("ship did not move down: %+v", h.s.ship)
	}
}

func TestNoTiltDevice(t *testing.T) {
	h := newHarness(t, nil)
	h.accel.missing = true
	h.accel.active = false

	s := NewSession(config.Default(), Deps{Accel: h.accel, Rand: fixedRand(0), Logger: log.New(&bytes.Buffer{})}, h.t0)
	s.Tick(h.t0)
	s.Tick(h.at(time.Second))
	if s.ship.Pos.Y != 160 {
		t.Fatalf("ship moved without a tilt device: %+v", s.ship.Pos)
	}
}

func TestBlinkAlpha(t *testing.T) {
	b := Blink{Count: 4, Fade: 100 * time.Millisecond}
	if b.Duration() != 800*time.Millisecond {
		t.Fatalf("duration = %v", b.Duration())
	}

	tests := []struct {
		at   time.Duration
		want float64
	}{
		{0, 1},
		{50 * time.Millisecond, 0.5},
		{100 * time.Millisecond, 0},
		{200 * time.Millisecond, 1},
		{300 * time.Millisecond, 0},
		{800 * time.Millisecond, 1},
	}
	for _, tt := range tests {
		if got := b.Alpha(tt.at); got != tt.want {
			t.Errorf("Alpha(%v) = %v, want %v", tt.at, got, tt.want)
		}
	}
}

func TestSnapshotRemaining(t *testing.T) {
	h := newHarness(t, nil)
	h.s.Tick(h.at(12 * time.Second))
	if r := h.s.Snapshot().Remaining; r != 18*time.Second {
		t.Fatalf("remaining = %v, want 18s", r)
	}
}
