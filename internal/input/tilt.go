package input

// DefaultTiltMagnitude is the lateral acceleration reported while a tilt key
// is held. It sits above the ship's 0.2 dead zone.
const DefaultTiltMagnitude = 0.4

// KeyTilt emulates a device accelerometer with the up/down keys.
// Up reports a negative reading (toward the top of the screen), Down a
// positive one. It is fed and read from the same frame loop goroutine.
type KeyTilt struct {
	magnitude float64
	active    bool
	value     float64
	sampled   bool
}

// NewKeyTilt creates a keyboard tilt sensor. A non-positive magnitude
// falls back to DefaultTiltMagnitude.
func NewKeyTilt(magnitude float64) *KeyTilt {
	if magnitude <= 0 {
		magnitude = DefaultTiltMagnitude
	}
	return &KeyTilt{magnitude: magnitude}
}

// Available reports whether the sensor exists. A keyboard always does.
func (k *KeyTilt) Available() bool {
	return true
}

// Start begins monitoring.
func (k *KeyTilt) Start() {
	k.active = true
}

// Stop ends monitoring and drops the last reading.
func (k *KeyTilt) Stop() {
	k.active = false
	k.value = 0
	k.sampled = false
}

// Active reports whether monitoring is on.
func (k *KeyTilt) Active() bool {
	return k.active
}

// Feed records this frame's key state as the latest reading.
func (k *KeyTilt) Feed(in Input) {
	if !k.active {
		return
	}
	switch {
	case in.Up && !in.Down:
		k.value = -k.magnitude
	case in.Down && !in.Up:
		k.value = k.magnitude
	default:
		k.value = 0
	}
	k.sampled = true
}

// Latest returns the most recent reading, or false if none is available.
func (k *KeyTilt) Latest() (float64, bool) {
	if !k.active || !k.sampled {
		return 0, false
	}
	return k.value, true
}
