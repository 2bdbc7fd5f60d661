package core

import (
	"github.com/vovakirdan/starstrike/internal/config"
	platformcore "github.com/vovakirdan/starstrike/internal/core"
)

// Direction is the formation movement state.
type Direction uint8

const (
	DirRight Direction = iota
	DirLeft
	DirDown
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirRight:
		return "right"
	case DirLeft:
		return "left"
	case DirDown:
		return "down"
	default:
		return "unknown"
	}
}

// BulletSink accepts bullets fired by the formation.
type BulletSink interface {
	Spawn(x, y, speed, variant int, balance float64)
}

// Formation owns the enemy grid and the divers.
//
// The grid is column-major: grid[c] lists the units of column c from top to
// bottom. Purged units are removed from their column, so a unit's row index
// is its position within the column after removal.
type Formation struct {
	cfg   config.StarstrikeConfig
	level int
	clock platformcore.Clock
	rng   platformcore.RNG
	audio AudioSink

	arena  *Arena
	grid   [][]Handle
	divers []Handle
	roster []Handle

	dir     Direction
	prevDir Direction
	counter int
	speed   int
	ratio   float64
	initial int

	box     platformcore.Rect
	shootCD platformcore.Cooldown
}

// NewFormation builds the grid and divers for a level.
func NewFormation(cfg config.StarstrikeConfig, level int, clock platformcore.Clock, rng platformcore.RNG, audio AudioSink) *Formation {
	if audio == nil {
		audio = NopAudio{}
	}
	fc := cfg.Formation
	f := &Formation{
		cfg:   cfg,
		level: level,
		clock: clock,
		rng:   rng,
		audio: audio,
		arena: NewArena(fc.Columns*fc.Rows + cfg.Divers.MaxCount),
		grid:  make([][]Handle, fc.Columns),
		dir:   DirRight,
	}

	for c := range fc.Columns {
		f.grid[c] = make([]Handle, 0, fc.Rows)
		for r := range fc.Rows {
			u := newUnit(KindGrid, fc.StartX+c*fc.ColumnPitch, fc.StartY+r*fc.RowPitch,
				fc.UnitWidth, fc.UnitHeight, tierForRow(r, fc.Rows), level)
			f.grid[c] = append(f.grid[c], f.arena.Alloc(u))
		}
	}
	f.spawnDivers(level)

	f.initial = f.ShipCount()
	f.ratio = 1
	f.speed = cfg.LevelSpeed(level) + fc.MinSpeedOffset
	f.rebuildRoster()
	f.recomputeBox()
	f.restartShootCooldown()
	return f
}

// tierForRow maps a row to a tier: top rows are worth more.
func tierForRow(row, rows int) int {
	if rows <= 0 {
		return 1
	}
	return 1 + (rows-1-row)*3/rows
}

// Update advances the movement state machine. It steps at most once per
// call, when the movement counter reaches the step threshold, then purges
// destroyed units whose explosion has been shown.
func (f *Formation) Update() {
	fc := f.cfg.Formation

	// The remaining ratio is tracked but deliberately not applied to speed.
	if f.initial > 0 {
		f.ratio = float64(f.LiveCount()) / float64(f.initial)
	}
	f.speed = f.cfg.LevelSpeed(f.level) + fc.MinSpeedOffset

	f.counter += f.speed
	if f.counter >= fc.StepThreshold {
		f.counter -= fc.StepThreshold
		f.step()
	}
	f.Purge()
}

func (f *Formation) step() {
	if !f.hasLiveGrid() {
		return
	}
	fc := f.cfg.Formation
	field := f.cfg.Field
	bottomReached := f.box.Bottom() >= field.Height-field.BottomMargin

	switch f.dir {
	case DirRight:
		if f.box.Right() >= field.Width-field.SideMargin {
			if bottomReached {
				f.dir = DirLeft
			} else {
				f.prevDir = DirRight
				f.dir = DirDown
			}
		}
	case DirLeft:
		if f.box.X <= field.SideMargin {
			if bottomReached {
				f.dir = DirRight
			} else {
				f.prevDir = DirLeft
				f.dir = DirDown
			}
		}
	}

	dx, dy := 0, 0
	switch f.dir {
	case DirRight:
		dx = fc.LateralSpeed
	case DirLeft:
		dx = -fc.LateralSpeed
	case DirDown:
		dy = fc.DescentSpeed
	}
	f.moveGrid(dx, dy)
	f.recomputeBox()

	if f.dir == DirDown {
		if f.box.Y%fc.DescentDistance == 0 {
			if f.prevDir == DirRight {
				f.dir = DirLeft
			} else {
				f.dir = DirRight
			}
		}
	}
}

func (f *Formation) moveGrid(dx, dy int) {
	for _, col := range f.grid {
		for _, h := range col {
			if u, ok := f.arena.Get(h); ok && u.Live() {
				u.X += dx
				u.Y += dy
				u.Frame ^= 1
			}
		}
	}
}

// Purge removes destroyed units whose explosion frame has been shown.
func (f *Formation) Purge() {
	removed := false
	keep := func(h Handle) bool {
		u, ok := f.arena.Get(h)
		if !ok {
			removed = true
			return false
		}
		if u.Destroyed && u.ExplosionShown {
			f.arena.Remove(h)
			removed = true
			return false
		}
		return true
	}

	for c, col := range f.grid {
		f.grid[c] = filterHandles(col, keep)
	}
	f.divers = filterHandles(f.divers, keep)

	if removed {
		f.rebuildRoster()
	}
	f.recomputeBox()
}

func filterHandles(hs []Handle, keep func(Handle) bool) []Handle {
	out := hs[:0]
	for _, h := range hs {
		if keep(h) {
			out = append(out, h)
		}
	}
	return out
}

// MarkExplosions flags every destroyed unit as having had its explosion
// frame shown. Called once at the end of a tick.
func (f *Formation) MarkExplosions() {
	f.each(func(_ Handle, u *Unit) {
		if u.Destroyed {
			u.ExplosionShown = true
		}
	})
}

func (f *Formation) hasLiveGrid() bool {
	for _, col := range f.grid {
		for _, h := range col {
			if u, ok := f.arena.Get(h); ok && u.Live() {
				return true
			}
		}
	}
	return false
}

// recomputeBox derives the formation bounds from live grid units.
func (f *Formation) recomputeBox() {
	fc := f.cfg.Formation
	leftX, rightX := 0, 0
	minY := 0
	height := 0
	found := false

	for _, col := range f.grid {
		first, last := -1, -1
		for i, h := range col {
			if u, ok := f.arena.Get(h); ok && u.Live() {
				if first < 0 {
					first = i
				}
				last = i
			}
		}
		if first < 0 {
			continue
		}
		top, _ := f.arena.Get(col[first])
		bottom, _ := f.arena.Get(col[last])
		if !found {
			leftX, rightX, minY = top.X, top.X, top.Y
			found = true
		}
		leftX = min(leftX, top.X)
		rightX = max(rightX, top.X)
		minY = min(minY, top.Y)
		height = max(height, bottom.Y+fc.UnitHeight)
	}

	if !found {
		f.box = platformcore.Rect{}
		return
	}
	f.box = platformcore.NewRect(leftX, minY, rightX-leftX+fc.UnitWidth, height-minY)
}

// rebuildRoster picks the bottom-most live unit of every column.
func (f *Formation) rebuildRoster() {
	f.roster = f.roster[:0]
	for _, col := range f.grid {
		for i := len(col) - 1; i >= 0; i-- {
			if u, ok := f.arena.Get(col[i]); ok && u.Live() {
				f.roster = append(f.roster, col[i])
				break
			}
		}
	}
}

func (f *Formation) restartShootCooldown() {
	fc := f.cfg.Formation
	f.shootCD.Start(f.clock, config.Ms(jitter(f.rng, fc.ShootInterval, fc.ShootVariance)))
}

// Shoot fires a volley once the shared cooldown has elapsed.
// min(level/3+1, roster size) shooters are drawn with replacement; each
// fires one bullet plus level/3+1 laterally offset bullets.
func (f *Formation) Shoot(sink BulletSink, level int, balance float64) {
	if len(f.roster) == 0 || f.shootCD.Active(f.clock) {
		return
	}
	f.restartShootCooldown()

	fc := f.cfg.Formation
	bw := f.cfg.Combat.BulletWidth
	spread := level/3 + 1
	shooters := min(spread, len(f.roster))

	for range shooters {
		u, ok := f.arena.Get(f.roster[f.rng.Intn(len(f.roster))])
		if !ok {
			continue
		}
		x := u.X + u.W/2 - bw/2
		y := u.Y + u.H
		sink.Spawn(x, y, fc.BulletSpeed, u.Tier, balance)
		for k := 1; k <= spread; k++ {
			off := (k + 1) / 2 * fc.SpreadOffset
			if k%2 == 1 {
				off = -off
			}
			sink.Spawn(x+off, y, fc.BulletSpeed, u.Tier, balance)
		}
	}
	f.audio.Play(SoundEnemyShot, balance)
}

// Destroy marks a live unit destroyed regardless of health.
func (f *Formation) Destroy(h Handle) (Award, bool) {
	u, ok := f.arena.Get(h)
	if !ok || u.Destroyed {
		return Award{}, false
	}
	u.Destroyed = true
	f.rebuildRoster()
	return Award{Points: u.Points, Kills: 1}, true
}

// HealthManageDestroy applies one hit. The unit is destroyed only when its
// health drops below zero; otherwise the hit is absorbed and the award is
// empty.
func (f *Formation) HealthManageDestroy(h Handle) (Award, bool) {
	u, ok := f.arena.Get(h)
	if !ok || !u.hit() {
		return Award{}, false
	}
	f.rebuildRoster()
	return Award{Points: u.Points, Kills: 1}, true
}

// IsEmpty reports whether every unit has been purged.
func (f *Formation) IsEmpty() bool {
	return f.ShipCount() == 0
}

// ShipCount returns the number of units still held by the grid and the
// diver list, including destroyed units awaiting purge.
func (f *Formation) ShipCount() int {
	n := len(f.divers)
	for _, col := range f.grid {
		n += len(col)
	}
	return n
}

// LiveCount returns the number of units that can still be hit.
func (f *Formation) LiveCount() int {
	n := 0
	f.each(func(_ Handle, u *Unit) {
		if u.Live() {
			n++
		}
	})
	return n
}

// HighestLiveY returns the top edge of the highest live unit on the field.
// Divers wrapping back in from above the top edge are not counted.
func (f *Formation) HighestLiveY() (int, bool) {
	y, found := 0, false
	f.each(func(_ Handle, u *Unit) {
		if u.Live() && u.Y >= 0 && (!found || u.Y < y) {
			y, found = u.Y, true
		}
	})
	return y, found
}

// each visits grid units column by column, then divers.
func (f *Formation) each(fn func(Handle, *Unit)) {
	for _, col := range f.grid {
		for _, h := range col {
			if u, ok := f.arena.Get(h); ok {
				fn(h, u)
			}
		}
	}
	for _, h := range f.divers {
		if u, ok := f.arena.Get(h); ok {
			fn(h, u)
		}
	}
}

// Get returns the unit behind h.
func (f *Formation) Get(h Handle) (*Unit, bool) {
	return f.arena.Get(h)
}

// Units returns copies of all held units, grid first, for rendering.
func (f *Formation) Units() []Unit {
	out := make([]Unit, 0, f.ShipCount())
	f.each(func(_ Handle, u *Unit) {
		out = append(out, *u)
	})
	return out
}

// Grid returns a copy of the column-major handle grid.
func (f *Formation) Grid() [][]Handle {
	out := make([][]Handle, len(f.grid))
	for c, col := range f.grid {
		out[c] = append([]Handle(nil), col...)
	}
	return out
}

// Divers returns a copy of the diver handles.
func (f *Formation) Divers() []Handle {
	return append([]Handle(nil), f.divers...)
}

// Roster returns a copy of the shooter roster.
func (f *Formation) Roster() []Handle {
	return append([]Handle(nil), f.roster...)
}

// Direction returns the current movement direction.
func (f *Formation) Direction() Direction {
	return f.dir
}

// Box returns the formation bounds computed on the last update.
func (f *Formation) Box() platformcore.Rect {
	return f.box
}

// Speed returns the movement speed used on the last update.
func (f *Formation) Speed() int {
	return f.speed
}

// SpeedRatio returns the share of units still alive. It is reported for
// display only and does not affect Speed.
func (f *Formation) SpeedRatio() float64 {
	return f.ratio
}

// Level returns the level this formation was built for.
func (f *Formation) Level() int {
	return f.level
}
