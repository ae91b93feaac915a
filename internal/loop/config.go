package loop

// Sound names.
const (
	SoundLaser          = "laser_ship"
	SoundExplosionSmall = "explosion_small"
	SoundExplosionLarge = "explosion_large"
	MusicTrack          = "space_game"
)

// EffectShipHit is the scene effect key of the ship hit blink.
const EffectShipHit = "shipHit"

// End screen text
const (
	MessageWon   = "You win!"
	MessageLost  = "You lost!"
	RestartLabel = "Play Again?"
)

// End screen layout, as fractions of the view (y grows downward).
const (
	outcomeMessageY = 0.4
	restartY        = 0.6
	restartWidth    = 0.4
	restartHeight   = 0.125
)
