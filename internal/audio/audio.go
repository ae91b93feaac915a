// Package audio plays synthesized game sounds through the system speaker.
package audio

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
)

// Effect and track names.
const (
	EffectLaser          = "laser_ship"
	EffectExplosionSmall = "explosion_small"
	EffectExplosionLarge = "explosion_large"

	TrackSpaceGame = "space_game"
)

// Service owns the speaker mixer. Until Init succeeds every call is
// accepted and silently dropped, so a machine without an audio device
// still plays the game.
type Service struct {
	mu     sync.Mutex
	logger *log.Logger
	rng    *rand.Rand
	mixer  *beep.Mixer
	master *effects.Volume
	cache  map[string]floatBuffer
	music  *beep.Ctrl
	ready  bool

	// Guard mixer mutation against the speaker goroutine.
	lock, unlock func()
}

// New creates an audio service. volume is in beep's exponential scale:
// 0 is unity gain, negative values are quieter.
func New(logger *log.Logger, volume float64) *Service {
	if logger == nil {
		logger = log.Default()
	}
	mixer := &beep.Mixer{}
	return &Service{
		logger: logger.WithPrefix("audio"),
		rng:    rand.New(rand.NewPCG(1, 2)),
		mixer:  mixer,
		master: &effects.Volume{Streamer: mixer, Base: 2, Volume: volume},
		cache:  make(map[string]floatBuffer),
		lock:   func() {},
		unlock: func() {},
	}
}

// Init opens the speaker and starts the mixer.
func (s *Service) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ready {
		return nil
	}
	if err := speaker.Init(SampleRate, SampleRate.N(50*time.Millisecond)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	s.lock, s.unlock = speaker.Lock, speaker.Unlock
	speaker.Play(s.master)
	s.ready = true
	return nil
}

// Play starts a one-shot effect. Unknown names are logged and skipped.
func (s *Service) Play(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	buf, ok := s.sound(name, generators)
	if !ok {
		s.logger.Warn("unknown effect", "name", name)
		return
	}
	if !s.ready {
		return
	}
	s.lock()
	s.mixer.Add(&samples{buf: buf})
	s.unlock()
}

// StartMusic loops the named track until StopMusic. A running track is
// replaced.
func (s *Service) StartMusic(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	buf, ok := s.sound(name, tracks)
	if !ok {
		return fmt.Errorf("unknown track %q", name)
	}
	s.stopMusicLocked()
	if !s.ready {
		return nil
	}

	b := toBuffer(buf)
	s.music = &beep.Ctrl{Streamer: beep.Loop(-1, b.Streamer(0, b.Len()))}
	s.lock()
	s.mixer.Add(s.music)
	s.unlock()
	return nil
}

// StopMusic stops the background track, if any.
func (s *Service) StopMusic() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopMusicLocked()
}

func (s *Service) stopMusicLocked() {
	if s.music == nil {
		return
	}
	s.lock()
	s.music.Streamer = nil
	s.music.Paused = true
	s.unlock()
	s.music = nil
}

// Close silences everything and releases the speaker.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready {
		return
	}
	s.stopMusicLocked()
	s.lock()
	s.mixer.Clear()
	s.unlock()
	speaker.Close()
	s.ready = false
	s.lock, s.unlock = func() {}, func() {}
}

// sound returns the cached samples for name, synthesizing on first use.
func (s *Service) sound(name string, from map[string]func(*rand.Rand) floatBuffer) (floatBuffer, bool) {
	if buf, ok := s.cache[name]; ok {
		return buf, true
	}
	gen, ok := from[name]
	if !ok {
		return nil, false
	}
	buf := gen(s.rng)
	s.cache[name] = buf
	return buf, true
}
