package core

import platformcore "github.com/vovakirdan/starstrike/internal/core"

// Kind distinguishes grid units from divers.
type Kind uint8

const (
	KindGrid Kind = iota
	KindDiver
)

// Award is the score and kill count produced by a destroy event.
type Award struct {
	Points int
	Kills  int
}

// Add accumulates another award.
func (a Award) Add(b Award) Award {
	return Award{Points: a.Points + b.Points, Kills: a.Kills + b.Kills}
}

// Unit is a single enemy ship.
type Unit struct {
	X, Y, W, H int
	Kind       Kind
	Tier       int // sprite row tier, higher is worth more
	Points     int
	Health     int
	Frame      int // animation frame, toggled on every formation step

	Destroyed      bool
	ExplosionShown bool

	Diver Diver // valid when Kind == KindDiver
}

// newUnit builds a unit for the given tier and level.
func newUnit(kind Kind, x, y, w, h, tier, level int) Unit {
	return Unit{
		X:      x,
		Y:      y,
		W:      w,
		H:      h,
		Kind:   kind,
		Tier:   tier,
		Points: PointValue(tier, level),
		Health: max(level/3, 0),
	}
}

// PointValue returns the score of a unit of the given tier at a level.
func PointValue(tier, level int) int {
	return 10 * max(tier+level-1, 1)
}

// Rect returns the unit bounds.
func (u *Unit) Rect() platformcore.Rect {
	return platformcore.NewRect(u.X, u.Y, u.W, u.H)
}

// Live reports whether the unit can still be hit.
func (u *Unit) Live() bool {
	return !u.Destroyed
}

// hit decrements health and reports whether the unit was destroyed by it.
func (u *Unit) hit() bool {
	if u.Destroyed {
		return false
	}
	u.Health--
	if u.Health < 0 {
		u.Destroyed = true
		return true
	}
	return false
}
