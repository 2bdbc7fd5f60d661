package core

// Sound identifies a fire-and-forget sound trigger.
type Sound uint8

const (
	SoundPlayerShot Sound = iota
	SoundEnemyShot
	SoundHit
	SoundExplosion
	SoundBlock
	SoundItem
	SoundPlayerDeath
	SoundSpecial
)

// String returns the sound name.
func (s Sound) String() string {
	switch s {
	case SoundPlayerShot:
		return "player_shot"
	case SoundEnemyShot:
		return "enemy_shot"
	case SoundHit:
		return "hit"
	case SoundExplosion:
		return "explosion"
	case SoundBlock:
		return "block"
	case SoundItem:
		return "item"
	case SoundPlayerDeath:
		return "player_death"
	case SoundSpecial:
		return "special"
	default:
		return "unknown"
	}
}

// AudioSink receives sound triggers. Balance is the stereo pan in [-1, 1].
// Implementations must not block the caller.
type AudioSink interface {
	Play(s Sound, balance float64)
}

// NopAudio discards all sounds.
type NopAudio struct{}

// Play implements AudioSink.
func (NopAudio) Play(Sound, float64) {}
