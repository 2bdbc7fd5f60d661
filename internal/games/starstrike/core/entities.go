package core

import platformcore "github.com/vovakirdan/starstrike/internal/core"

// Ship is the player ship. The engine reads its position and writes
// Destroyed, Ghost and Shots.
type Ship struct {
	X, Y, W, H int
	Variant    int
	Destroyed  bool
	Ghost      bool // immune to enemy bullets, not to ramming
	Shots      int  // simultaneous bullets allowed, 1..MaxShots
}

// Rect returns the ship bounds.
func (s *Ship) Rect() platformcore.Rect {
	return platformcore.NewRect(s.X, s.Y, s.W, s.H)
}

// ItemBox is a pickup dropped by a damaged enemy.
type ItemBox struct {
	X, Y, W, H int
	Grace      bool // dropped this tick, not yet collectable
	taken      bool
}

// Rect returns the box bounds.
func (b *ItemBox) Rect() platformcore.Rect {
	return platformcore.NewRect(b.X, b.Y, b.W, b.H)
}

// Barrier shields the player from enemy bullets.
type Barrier struct {
	X, Y, W, H int
	Health     int
}

// Rect returns the barrier bounds.
func (b *Barrier) Rect() platformcore.Rect {
	return platformcore.NewRect(b.X, b.Y, b.W, b.H)
}

// Obstacle is a static block that absorbs player bullets.
type Obstacle struct {
	X, Y, W, H int
	removed    bool
}

// Rect returns the obstacle bounds.
func (o *Obstacle) Rect() platformcore.Rect {
	return platformcore.NewRect(o.X, o.Y, o.W, o.H)
}

// SpecialShip is the bonus ship crossing the top of the field.
type SpecialShip struct {
	X, Y, W, H int
	Speed      int // signed lateral speed
	Points     int
	Destroyed  bool
}

// Rect returns the special ship bounds.
func (s *SpecialShip) Rect() platformcore.Rect {
	return platformcore.NewRect(s.X, s.Y, s.W, s.H)
}

// Field holds the non-formation entities shared by the resolver and the
// item engine.
type Field struct {
	Barriers  []*Barrier
	Boxes     []*ItemBox
	Obstacles []*Obstacle
	Special   *SpecialShip
}
