// Package config centralizes all tunable game parameters.
//
// Defaults give the classic arcade feel. Any field can be overridden
// from a TOML file; fields missing from the file keep their default.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// View resolution - the visible viewport in logical units.
// Actual rendering scales to fit terminal size.
const (
	ViewWidth  = 480
	ViewHeight = 320
)

// Client rendering
const (
	ClientTargetFPS       = 60
	ClientTargetFrameTime = time.Second / ClientTargetFPS

	// Max render area in terminal cells; larger terminals get a centered box.
	MaxTermWidth  = 200
	MaxTermHeight = 60
)

// Shutdown
const (
	ShutdownDisplaySeconds = 10.0 // Seconds to show shutdown message before auto-disconnect
)

// Inactivity
const (
	InactivityWarnUser       = 90  // Seconds
	InactivityDisconnectUser = 120 // Seconds
)

// Tuning holds every gameplay parameter of a session.
type Tuning struct {
	ViewWidth  float64 `toml:"view_width"`
	ViewHeight float64 `toml:"view_height"`

	// Round
	InitialLives         int     `toml:"initial_lives"`
	RoundSeconds         float64 `toml:"round_seconds"`
	OutcomeRevealSeconds float64 `toml:"outcome_reveal_seconds"`

	// Pools
	ObstacleCapacity   int `toml:"obstacle_capacity"`
	ProjectileCapacity int `toml:"projectile_capacity"`

	// Spawning
	SpawnGapMinSeconds float64 `toml:"spawn_gap_min_seconds"`
	SpawnGapMaxSeconds float64 `toml:"spawn_gap_max_seconds"`
	TransitMinSeconds  float64 `toml:"transit_min_seconds"`
	TransitMaxSeconds  float64 `toml:"transit_max_seconds"`

	// Ship
	ShipStartX    float64 `toml:"ship_start_x"` // Fraction of view width
	ShipWidth     float64 `toml:"ship_width"`
	ShipHeight    float64 `toml:"ship_height"`
	ShipMass      float64 `toml:"ship_mass"`
	ShipDamping   float64 `toml:"ship_damping"` // Velocity fraction lost per second
	TiltThreshold float64 `toml:"tilt_threshold"`
	TiltForce     float64 `toml:"tilt_force"`
	ClampShip     bool    `toml:"clamp_ship"`

	// Obstacles
	ObstacleWidth  float64 `toml:"obstacle_width"`
	ObstacleHeight float64 `toml:"obstacle_height"`

	// Projectiles
	LaserWidth   float64 `toml:"laser_width"`
	LaserHeight  float64 `toml:"laser_height"`
	LaserSeconds float64 `toml:"laser_seconds"`

	// Ship hit feedback
	BlinkCount       int     `toml:"blink_count"`
	BlinkFadeSeconds float64 `toml:"blink_fade_seconds"`

	// Parallax background (units per second)
	BackgroundSpeed float64 `toml:"background_speed"`
	DustSpeed       float64 `toml:"dust_speed"`
	StarsPerLayer   int     `toml:"stars_per_layer"`
}

// Default returns the compiled-in tuning.
func Default() Tuning {
	return Tuning{
		ViewWidth:  ViewWidth,
		ViewHeight: ViewHeight,

		InitialLives:         3,
		RoundSeconds:         30.0,
		OutcomeRevealSeconds: 0.5,

		ObstacleCapacity:   16,
		ProjectileCapacity: 16,

		SpawnGapMinSeconds: 0.20,
		SpawnGapMaxSeconds: 1.0,
		TransitMinSeconds:  2.0,
		TransitMaxSeconds:  10.0,

		ShipStartX:    0.1,
		ShipWidth:     40,
		ShipHeight:    20,
		ShipMass:      0.02,
		ShipDamping:   0.1,
		TiltThreshold: 0.2,
		TiltForce:     40.0,
		ClampShip:     true,

		ObstacleWidth:  32,
		ObstacleHeight: 32,

		LaserWidth:   24,
		LaserHeight:  4,
		LaserSeconds: 0.5,

		BlinkCount:       4,
		BlinkFadeSeconds: 0.1,

		BackgroundSpeed: 10.0,
		DustSpeed:       25.0,
		StarsPerLayer:   24,
	}
}

// Load reads overrides from a TOML file on top of Default.
// A missing file is not an error; the defaults are returned as-is.
func Load(path string) (Tuning, error) {
	t := Default()
	if path == "" {
		return t, nil
	}
	if _, err := toml.DecodeFile(path, &t); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Default(), fmt.Errorf("load tuning %s: %w", path, err)
	}
	t.Normalize()
	return t, nil
}

// Decode parses TOML overrides from a string on top of Default.
func Decode(data string) (Tuning, error) {
	t := Default()
	if _, err := toml.Decode(data, &t); err != nil {
		return Default(), fmt.Errorf("decode tuning: %w", err)
	}
	t.Normalize()
	return t, nil
}

// Normalize coerces out-of-range values back into a playable configuration.
func (t *Tuning) Normalize() {
	def := Default()
	if t.ViewWidth <= 0 {
		t.ViewWidth = def.ViewWidth
	}
	if t.ViewHeight <= 0 {
		t.ViewHeight = def.ViewHeight
	}
	if t.InitialLives < 1 {
		t.InitialLives = 1
	}
	if t.ObstacleCapacity < 1 {
		t.ObstacleCapacity = 1
	}
	if t.ProjectileCapacity < 1 {
		t.ProjectileCapacity = 1
	}
	if t.SpawnGapMaxSeconds < t.SpawnGapMinSeconds {
		t.SpawnGapMinSeconds, t.SpawnGapMaxSeconds = t.SpawnGapMaxSeconds, t.SpawnGapMinSeconds
	}
	if t.TransitMaxSeconds < t.TransitMinSeconds {
		t.TransitMinSeconds, t.TransitMaxSeconds = t.TransitMaxSeconds, t.TransitMinSeconds
	}
	if t.ShipMass <= 0 {
		t.ShipMass = def.ShipMass
	}
	if t.LaserSeconds <= 0 {
		t.LaserSeconds = def.LaserSeconds
	}
	if t.BlinkCount < 0 {
		t.BlinkCount = 0
	}
	if t.StarsPerLayer < 0 {
		t.StarsPerLayer = 0
	}
}

// Seconds converts a float second count to a time.Duration.
func Seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// RoundDuration is the time budget of one round.
func (t Tuning) RoundDuration() time.Duration {
	return Seconds(t.RoundSeconds)
}

// LaserDuration is the fixed traversal time of a projectile.
func (t Tuning) LaserDuration() time.Duration {
	return Seconds(t.LaserSeconds)
}

// OutcomeReveal is how long the end screen animates before the round is over.
func (t Tuning) OutcomeReveal() time.Duration {
	return Seconds(t.OutcomeRevealSeconds)
}

// BlinkFade is the duration of a single fade step of the ship hit blink.
func (t Tuning) BlinkFade() time.Duration {
	return Seconds(t.BlinkFadeSeconds)
}
