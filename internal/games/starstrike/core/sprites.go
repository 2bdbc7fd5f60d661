package core

// SpriteKind identifies what a Sprite depicts.
type SpriteKind uint8

const (
	SpriteUnit SpriteKind = iota
	SpriteDiver
	SpriteExplosion
	SpritePlayer
	SpritePlayerBullet
	SpriteEnemyBullet
	SpriteItemBox
	SpriteBarrier
	SpriteObstacle
	SpriteSpecial
)

// Sprite is one drawable entity in field units. It carries no simulation
// state and is what remote views receive.
type Sprite struct {
	Kind    SpriteKind `json:"k"`
	X       int        `json:"x"`
	Y       int        `json:"y"`
	W       int        `json:"w"`
	H       int        `json:"h"`
	Variant int        `json:"v,omitempty"`
	Frame   int        `json:"f,omitempty"`
	Tint    bool       `json:"t,omitempty"`
}

// Sprites returns the render list, back to front.
func (s *Stage) Sprites() []Sprite {
	out := make([]Sprite, 0, s.Formation.ShipCount()+len(s.Resolver.bullets)+16)

	for _, o := range s.Field.Obstacles {
		out = append(out, Sprite{Kind: SpriteObstacle, X: o.X, Y: o.Y, W: o.W, H: o.H})
	}
	for _, b := range s.Field.Barriers {
		out = append(out, Sprite{Kind: SpriteBarrier, X: b.X, Y: b.Y, W: b.W, H: b.H, Variant: b.Health})
	}
	s.Formation.each(func(_ Handle, u *Unit) {
		sp := Sprite{Kind: SpriteUnit, X: u.X, Y: u.Y, W: u.W, H: u.H, Variant: u.Tier, Frame: u.Frame}
		switch {
		case u.Destroyed:
			sp.Kind = SpriteExplosion
		case u.Kind == KindDiver:
			sp.Kind = SpriteDiver
			sp.Tint = u.Diver.Phase == PhaseWindUp
		}
		out = append(out, sp)
	})
	if sp := s.Field.Special; sp != nil && !sp.Destroyed {
		out = append(out, Sprite{Kind: SpriteSpecial, X: sp.X, Y: sp.Y, W: sp.W, H: sp.H})
	}
	for _, b := range s.Field.Boxes {
		out = append(out, Sprite{Kind: SpriteItemBox, X: b.X, Y: b.Y, W: b.W, H: b.H})
	}
	for _, b := range s.Resolver.bullets {
		kind := SpritePlayerBullet
		if b.Enemy() {
			kind = SpriteEnemyBullet
		}
		out = append(out, Sprite{Kind: kind, X: b.X, Y: b.Y, W: b.W, H: b.H, Variant: b.Variant})
	}
	if !s.Ship.Destroyed {
		out = append(out, Sprite{
			Kind: SpritePlayer, X: s.Ship.X, Y: s.Ship.Y, W: s.Ship.W, H: s.Ship.H,
			Variant: s.Ship.Variant, Tint: s.Ship.Ghost,
		})
	}
	return out
}
