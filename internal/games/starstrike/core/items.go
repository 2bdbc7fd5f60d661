package core

import (
	"time"

	"github.com/vovakirdan/starstrike/internal/config"
	platformcore "github.com/vovakirdan/starstrike/internal/core"
)

// ItemKind is the effect rolled when an item box is collected.
type ItemKind uint8

// MultiShot must stay last: it is dropped from the draw once shots are capped.
const (
	ItemAreaBomb ItemKind = iota
	ItemLineBomb
	ItemBarrier
	ItemGhost
	ItemTimeStop
	ItemMultiShot

	itemKindCount = int(ItemMultiShot) + 1
)

// String returns the item name.
func (k ItemKind) String() string {
	switch k {
	case ItemAreaBomb:
		return "area bomb"
	case ItemLineBomb:
		return "line bomb"
	case ItemBarrier:
		return "barrier"
	case ItemGhost:
		return "ghost"
	case ItemTimeStop:
		return "time stop"
	case ItemMultiShot:
		return "multi shot"
	default:
		return "unknown"
	}
}

// Offensive reports whether the effect destroys enemies.
func (k ItemKind) Offensive() bool {
	return k == ItemAreaBomb || k == ItemLineBomb
}

// ItemEngine applies item effects and tracks timed ones.
type ItemEngine struct {
	cfg       config.StarstrikeConfig
	formation *Formation
	ship      *Ship
	field     *Field
	clock     platformcore.Clock
	rng       platformcore.RNG
	audio     AudioSink

	ghost    platformcore.Cooldown
	timeStop platformcore.Cooldown
	ghosting bool
}

// NewItemEngine creates an item engine acting on the given formation,
// ship and field.
func NewItemEngine(cfg config.StarstrikeConfig, formation *Formation, ship *Ship, field *Field,
	clock platformcore.Clock, rng platformcore.RNG, audio AudioSink) *ItemEngine {
	if audio == nil {
		audio = NopAudio{}
	}
	return &ItemEngine{
		cfg:       cfg,
		formation: formation,
		ship:      ship,
		field:     field,
		clock:     clock,
		rng:       rng,
		audio:     audio,
	}
}

// UseItem draws an item uniformly and applies it. Offensive items return
// the score and kills they produced.
func (e *ItemEngine) UseItem() (ItemKind, Award) {
	n := itemKindCount
	if e.ship.Shots >= e.cfg.Items.MaxShots {
		n--
	}
	kind := ItemKind(e.rng.Intn(n)) //#nosec G115 -- n is at most itemKindCount
	award := e.Apply(kind)
	e.audio.Play(SoundItem, 0)
	return kind, award
}

// Apply runs a specific effect.
func (e *ItemEngine) Apply(kind ItemKind) Award {
	switch kind {
	case ItemAreaBomb:
		return e.formation.AreaBomb()
	case ItemLineBomb:
		return e.formation.LineBomb()
	case ItemBarrier:
		e.placeBarriers()
	case ItemGhost:
		e.StartGhost(config.Ms(e.cfg.Items.GhostDuration))
	case ItemTimeStop:
		e.timeStop.Start(e.clock, config.Ms(e.cfg.Items.TimeStopDuration))
	case ItemMultiShot:
		if e.ship.Shots < e.cfg.Items.MaxShots {
			e.ship.Shots++
		}
	}
	return Award{}
}

func (e *ItemEngine) placeBarriers() {
	ic := e.cfg.Items
	center := e.cfg.Field.Width/2 - ic.BarrierWidth/2
	y := e.cfg.Field.Height - ic.BarrierBottomOffset

	e.field.Barriers = e.field.Barriers[:0]
	for _, x := range []int{center, center - ic.BarrierSpacing, center + ic.BarrierSpacing} {
		e.field.Barriers = append(e.field.Barriers, &Barrier{
			X: x, Y: y, W: ic.BarrierWidth, H: ic.BarrierHeight, Health: 1,
		})
	}
}

// StartGhost makes the ship immune to enemy bullets for d.
func (e *ItemEngine) StartGhost(d time.Duration) {
	e.ghost.Start(e.clock, d)
	e.ghosting = true
	e.ship.Ghost = true
}

// Update expires timed effects.
func (e *ItemEngine) Update() {
	if e.ghosting && !e.ghost.Active(e.clock) {
		e.ghosting = false
		e.ship.Ghost = false
	}
}

// TimeStopped reports whether formation movement and fire are suspended.
func (e *ItemEngine) TimeStopped() bool {
	return e.timeStop.Active(e.clock)
}

// GhostRemaining returns the time left on the ghost effect.
func (e *ItemEngine) GhostRemaining() time.Duration {
	if !e.ghosting {
		return 0
	}
	return e.ghost.Remaining(e.clock)
}

// TimeStopRemaining returns the time left on the time stop.
func (e *ItemEngine) TimeStopRemaining() time.Duration {
	return e.timeStop.Remaining(e.clock)
}

// setFormation points the engine at a new level's formation.
func (e *ItemEngine) setFormation(f *Formation) {
	e.formation = f
}

// AreaBomb destroys every live grid unit inside the 3x3 window holding
// the most live units.
func (f *Formation) AreaBomb() Award {
	c0, r0, count := f.AreaBombWindow()
	if count == 0 {
		return Award{}
	}
	var total Award
	for c := c0; c < min(c0+3, len(f.grid)); c++ {
		col := f.grid[c]
		for r := r0; r < min(r0+3, len(col)); r++ {
			if a, ok := f.Destroy(col[r]); ok {
				total = total.Add(a)
			}
		}
	}
	return total
}

// AreaBombWindow returns the top-left column and row of the 3x3 window
// with the most live units and that count. Windows are scanned row-major;
// the first maximum wins. Grids smaller than 3 in a dimension use one
// window clamped to the grid.
func (f *Formation) AreaBombWindow() (col, row, count int) {
	rows := 0
	for _, c := range f.grid {
		rows = max(rows, len(c))
	}
	best, bc, br := -1, 0, 0
	for r0 := 0; r0 <= max(rows-3, 0); r0++ {
		for c0 := 0; c0 <= max(len(f.grid)-3, 0); c0++ {
			n := f.countWindow(c0, r0)
			if n > best {
				best, bc, br = n, c0, r0
			}
		}
	}
	return bc, br, max(best, 0)
}

func (f *Formation) countWindow(c0, r0 int) int {
	n := 0
	for c := c0; c < min(c0+3, len(f.grid)); c++ {
		col := f.grid[c]
		for r := r0; r < min(r0+3, len(col)); r++ {
			if u, ok := f.arena.Get(col[r]); ok && u.Live() {
				n++
			}
		}
	}
	return n
}

// LineBomb destroys every live unit in the deepest row holding one.
func (f *Formation) LineBomb() Award {
	row := -1
	for _, col := range f.grid {
		for r := len(col) - 1; r > row; r-- {
			if u, ok := f.arena.Get(col[r]); ok && u.Live() {
				row = r
				break
			}
		}
	}
	if row < 0 {
		return Award{}
	}
	var total Award
	for _, col := range f.grid {
		if row < len(col) {
			if a, ok := f.Destroy(col[row]); ok {
				total = total.Add(a)
			}
		}
	}
	return total
}
