package loop

import (
	"time"

	"github.com/tomz197/spaceshooter/internal/physics"
)

// Effect is a timed visual effect a scene runs on the ship.
type Effect interface {
	// Duration is the total run time of the effect.
	Duration() time.Duration
	// Alpha is the ship opacity in [0, 1] at elapsed time into the effect.
	Alpha(elapsed time.Duration) float64
}

// Blink fades the target out and back in Count times, each fade taking Fade.
type Blink struct {
	Count int
	Fade  time.Duration
}

func (b Blink) Duration() time.Duration {
	return time.Duration(b.Count) * 2 * b.Fade
}

func (b Blink) Alpha(elapsed time.Duration) float64 {
	if b.Fade <= 0 || elapsed < 0 || elapsed >= b.Duration() {
		return 1
	}
	phase := elapsed % (2 * b.Fade)
	d := phase - b.Fade
	if d < 0 {
		d = -d
	}
	return float64(d) / float64(b.Fade)
}

// Scene is the presentation host the session drives.
type Scene interface {
	// RunEffect starts fx under key, replacing any effect with the same key.
	RunEffect(key string, fx Effect, now time.Time)
	// CancelEffects stops every running effect.
	CancelEffects()
	// ShowOutcome displays the end-of-round message and the restart control.
	ShowOutcome(msg, restartLabel string, restart physics.Rect)
	// HideOutcome removes what ShowOutcome displayed.
	HideOutcome()
}

// Accelerometer is a polled tilt sensor. Latest never blocks.
type Accelerometer interface {
	Available() bool
	Start()
	Stop()
	Latest() (float64, bool)
}

// Audio plays named sounds. Playback is fire-and-forget.
type Audio interface {
	Play(name string)
	StartMusic(name string) error
	StopMusic()
}

// NopScene ignores every call.
type NopScene struct{}

func (NopScene) RunEffect(string, Effect, time.Time) {}
func (NopScene) CancelEffects() {}
func (NopScene) ShowOutcome(string, string, physics.Rect) {}
func (NopScene) HideOutcome() {}

// NopAccelerometer is a device without a tilt sensor.
type NopAccelerometer struct{}

func (NopAccelerometer) Available() bool { return false }
func (NopAccelerometer) Start() {}
func (NopAccelerometer) Stop() {}
func (NopAccelerometer) Latest() (float64, bool) { return 0, false }

// NopAudio is silence.
type NopAudio struct{}

func (NopAudio) Play(string) {}
func (NopAudio) StartMusic(string) error { return nil }
func (NopAudio) StopMusic() {}

var (
	_ Scene         = NopScene{}
	_ Accelerometer = NopAccelerometer{}
	_ Audio         = NopAudio{}
)
