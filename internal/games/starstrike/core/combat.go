package core

import (
	"github.com/vovakirdan/starstrike/internal/config"
	platformcore "github.com/vovakirdan/starstrike/internal/core"
)

// TickResult reports what one resolution pass produced.
type TickResult struct {
	Score          int // score delta, including offensive items and the special ship
	Kills          int // enemy units destroyed
	Combo          int
	MaxCombo       int
	FormationEmpty bool
	LastAward      Award // last destroy event, after the combo multiplier

	PlayerHit  bool // destroyed by an enemy bullet
	Rammed     bool // destroyed by a diving unit
	SpecialHit bool
	Items      []ItemKind
	Drops      int // item boxes spawned
}

// Resolver moves bullets and resolves every collision once per tick.
type Resolver struct {
	cfg       config.StarstrikeConfig
	formation *Formation
	ship      *Ship
	field     *Field
	items     *ItemEngine
	pool      *BulletPool
	clock     platformcore.Clock
	rng       platformcore.RNG
	audio     AudioSink

	bullets  []*Bullet
	combo    int
	maxCombo int
	comboCD  platformcore.Cooldown
}

// NewResolver creates a combat resolver.
func NewResolver(cfg config.StarstrikeConfig, formation *Formation, ship *Ship, field *Field, items *ItemEngine,
	pool *BulletPool, clock platformcore.Clock, rng platformcore.RNG, audio AudioSink) *Resolver {
	if audio == nil {
		audio = NopAudio{}
	}
	return &Resolver{
		cfg:       cfg,
		formation: formation,
		ship:      ship,
		field:     field,
		items:     items,
		pool:      pool,
		clock:     clock,
		rng:       rng,
		audio:     audio,
	}
}

// Spawn puts a bullet in flight. It implements BulletSink.
func (r *Resolver) Spawn(x, y, speed, variant int, balance float64) {
	b := r.pool.Get()
	b.X, b.Y = x, y
	b.W, b.H = r.cfg.Combat.BulletWidth, r.cfg.Combat.BulletHeight
	b.Speed = speed
	b.Variant = variant
	b.Balance = balance
	r.bullets = append(r.bullets, b)
}

// Bullets returns the bullets in flight.
func (r *Resolver) Bullets() []*Bullet {
	return r.bullets
}

// PlayerBullets counts player bullets in flight.
func (r *Resolver) PlayerBullets() int {
	n := 0
	for _, b := range r.bullets {
		if !b.Enemy() {
			n++
		}
	}
	return n
}

// Combo returns the current combo.
func (r *Resolver) Combo() int {
	return r.combo
}

// MaxCombo returns the best combo so far.
func (r *Resolver) MaxCombo() int {
	return r.maxCombo
}

// SetCombo overrides the combo counter and restarts its timer.
func (r *Resolver) SetCombo(n int) {
	r.combo = n
	r.maxCombo = max(r.maxCombo, n)
	r.comboCD.Start(r.clock, config.Ms(r.cfg.Combat.ComboWindow))
}

// ComboScore applies the combo multiplier to a base value. combo is the
// counter value before the hit that produced the kill.
func ComboScore(base, combo, band int) int {
	if band <= 0 || combo < band {
		return base
	}
	return base * (combo/band + 1)
}

// Clear returns every bullet to the pool.
func (r *Resolver) Clear() {
	for _, b := range r.bullets {
		r.pool.Put(b)
	}
	r.bullets = r.bullets[:0]
}

func (r *Resolver) setFormation(f *Formation) {
	r.formation = f
}

// Resolve moves bullets and applies all collisions. Removals are collected
// during the scan and applied after it, so nothing is hit twice.
func (r *Resolver) Resolve() TickResult {
	var res TickResult

	if r.combo > 0 && !r.comboCD.Active(r.clock) {
		r.combo = 0
	}

	recycle := make(map[*Bullet]struct{})
	highest, anyLive := r.formation.HighestLiveY()

	for _, b := range r.bullets {
		b.Y += b.Speed
		if b.Y >= r.cfg.Field.Height || b.Y+b.H <= 0 {
			recycle[b] = struct{}{}
			continue
		}
		if b.Enemy() {
			if r.resolveEnemyBullet(b, &res) {
				recycle[b] = struct{}{}
			}
			continue
		}

		if r.ship.Shots == 1 && r.combo > 0 && anyLive && !b.missChecked && b.Y+b.H < highest {
			b.missChecked = true
			r.combo = 0
		}
		if r.resolvePlayerBullet(b, &res) {
			recycle[b] = struct{}{}
		}
	}

	r.clearBlockedObstacles()

	if len(recycle) > 0 {
		kept := r.bullets[:0]
		for _, b := range r.bullets {
			if _, gone := recycle[b]; gone {
				r.pool.Put(b)
				continue
			}
			kept = append(kept, b)
		}
		clear(r.bullets[len(kept):])
		r.bullets = kept
	}
	r.applyRemovals()

	res.Combo = r.combo
	res.MaxCombo = r.maxCombo
	res.FormationEmpty = r.formation.IsEmpty()
	return res
}

func (r *Resolver) resolveEnemyBullet(b *Bullet, res *TickResult) bool {
	br := b.Rect()
	if !r.ship.Destroyed && !r.ship.Ghost && br.Collides(r.ship.Rect()) {
		r.ship.Destroyed = true
		res.PlayerHit = true
		r.audio.Play(SoundPlayerDeath, b.Balance)
		return true
	}
	for _, bar := range r.field.Barriers {
		if bar.Health > 0 && br.Collides(bar.Rect()) {
			bar.Health--
			r.audio.Play(SoundBlock, b.Balance)
			return true
		}
	}
	return false
}

func (r *Resolver) resolvePlayerBullet(b *Bullet, res *TickResult) bool {
	br := b.Rect()

	hit := false
	r.formation.each(func(h Handle, u *Unit) {
		if hit || !u.Live() || !br.Collides(u.Rect()) {
			return
		}
		hit = true
		r.hitUnit(h, u, b, res)
	})
	if hit {
		return true
	}

	for _, box := range r.field.Boxes {
		if box.Grace || box.taken || !br.Collides(box.Rect()) {
			continue
		}
		box.taken = true
		kind, award := r.items.UseItem()
		res.Items = append(res.Items, kind)
		res.Score += award.Points
		res.Kills += award.Kills
		return true
	}

	for _, o := range r.field.Obstacles {
		if !o.removed && br.Collides(o.Rect()) {
			r.audio.Play(SoundBlock, b.Balance)
			return true
		}
	}

	if s := r.field.Special; s != nil && !s.Destroyed && br.Collides(s.Rect()) {
		s.Destroyed = true
		res.Score += s.Points
		res.SpecialHit = true
		r.audio.Play(SoundSpecial, b.Balance)
		return true
	}
	return false
}

func (r *Resolver) hitUnit(h Handle, u *Unit, b *Bullet, res *TickResult) {
	before := r.combo
	award, destroyed := r.formation.HealthManageDestroy(h)

	r.combo++
	r.maxCombo = max(r.maxCombo, r.combo)
	r.comboCD.Start(r.clock, config.Ms(r.cfg.Combat.ComboWindow))

	if destroyed {
		pts := ComboScore(award.Points, before, r.cfg.Combat.ComboBand)
		res.Score += pts
		res.Kills += award.Kills
		res.LastAward = Award{Points: pts, Kills: award.Kills}
		r.audio.Play(SoundExplosion, b.Balance)
		return
	}

	r.audio.Play(SoundHit, b.Balance)
	if u.Kind != KindDiver && r.rng.Intn(101) < r.cfg.Combat.ItemDropChance {
		size := r.cfg.Items.BoxSize
		cx, cy := u.Rect().Center()
		r.field.Boxes = append(r.field.Boxes, &ItemBox{
			X: cx - size/2, Y: cy - size/2, W: size, H: size, Grace: true,
		})
		res.Drops++
	}
}

// clearBlockedObstacles removes obstacles touched by a live enemy body.
func (r *Resolver) clearBlockedObstacles() {
	for _, o := range r.field.Obstacles {
		if o.removed {
			continue
		}
		or := o.Rect()
		r.formation.each(func(_ Handle, u *Unit) {
			if !o.removed && u.Live() && or.Collides(u.Rect()) {
				o.removed = true
			}
		})
	}
}

func (r *Resolver) applyRemovals() {
	f := r.field

	boxes := f.Boxes[:0]
	for _, box := range f.Boxes {
		if box.taken {
			continue
		}
		box.Grace = false
		boxes = append(boxes, box)
	}
	clear(f.Boxes[len(boxes):])
	f.Boxes = boxes

	obstacles := f.Obstacles[:0]
	for _, o := range f.Obstacles {
		if !o.removed {
			obstacles = append(obstacles, o)
		}
	}
	clear(f.Obstacles[len(obstacles):])
	f.Obstacles = obstacles

	barriers := f.Barriers[:0]
	for _, bar := range f.Barriers {
		if bar.Health > 0 {
			barriers = append(barriers, bar)
		}
	}
	clear(f.Barriers[len(barriers):])
	f.Barriers = barriers
}
