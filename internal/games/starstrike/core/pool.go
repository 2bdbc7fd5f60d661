package core

import platformcore "github.com/vovakirdan/starstrike/internal/core"

// Bullet is a projectile in flight.
// Positive Speed moves down and belongs to the enemy; negative moves up and
// belongs to the player.
type Bullet struct {
	X, Y, W, H int
	Speed      int
	Variant    int
	Balance    float64

	inUse       bool
	missChecked bool
}

// Rect returns the bullet bounds.
func (b *Bullet) Rect() platformcore.Rect {
	return platformcore.NewRect(b.X, b.Y, b.W, b.H)
}

// Enemy reports whether the bullet was fired by the formation.
func (b *Bullet) Enemy() bool {
	return b.Speed > 0
}

// PoolStats reports bullet pool usage.
type PoolStats struct {
	Allocated int // bullets ever created
	Reused    int // Get calls served from the free list
	Free      int
}

// BulletPool recycles bullets to avoid per-shot allocation.
type BulletPool struct {
	free      []*Bullet
	allocated int
	reused    int
}

// NewBulletPool creates a pool with n preallocated bullets.
func NewBulletPool(n int) *BulletPool {
	p := &BulletPool{free: make([]*Bullet, 0, n)}
	for range n {
		p.free = append(p.free, &Bullet{})
		p.allocated++
	}
	return p
}

// Get returns a zeroed bullet.
func (p *BulletPool) Get() *Bullet {
	var b *Bullet
	if n := len(p.free); n > 0 {
		b = p.free[n-1]
		p.free = p.free[:n-1]
		p.reused++
	} else {
		b = &Bullet{}
		p.allocated++
	}
	*b = Bullet{inUse: true}
	return b
}

// Put returns a bullet to the pool. Double puts are ignored.
func (p *BulletPool) Put(b *Bullet) {
	if b == nil || !b.inUse {
		return
	}
	b.inUse = false
	p.free = append(p.free, b)
}

// Stats returns usage counters.
func (p *BulletPool) Stats() PoolStats {
	return PoolStats{Allocated: p.allocated, Reused: p.reused, Free: len(p.free)}
}
