package core

import (
	"github.com/vovakirdan/starstrike/internal/config"
	platformcore "github.com/vovakirdan/starstrike/internal/core"
)

// DiverPhase is the diver behavior state.
type DiverPhase uint8

const (
	PhasePatrol DiverPhase = iota
	PhaseWindUp
	PhaseDiving
	PhaseReturning
)

// String returns the phase name.
func (p DiverPhase) String() string {
	switch p {
	case PhasePatrol:
		return "patrol"
	case PhaseWindUp:
		return "windup"
	case PhaseDiving:
		return "diving"
	case PhaseReturning:
		return "returning"
	default:
		return "unknown"
	}
}

// Numeric diver state codes as reported by Formation.State.
const (
	StatePatrolLeft  = 0
	StatePatrolRight = 1
	StateDiving      = 2
	StateReturning   = 3
	StateWindUp      = 4 // 4+n after n wind-up ticks
	DiveTrigger      = 69
)

// Diver is the behavior record of a diver unit.
type Diver struct {
	Phase  DiverPhase
	Dir    int // -1 left, +1 right while patrolling
	Windup int // ticks spent winding up
	ready  platformcore.Cooldown
}

// Code returns the numeric state code.
func (d Diver) Code() int {
	switch d.Phase {
	case PhaseDiving:
		return StateDiving
	case PhaseReturning:
		return StateReturning
	case PhaseWindUp:
		return StateWindUp + d.Windup
	default:
		if d.Dir < 0 {
			return StatePatrolLeft
		}
		return StatePatrolRight
	}
}

func (f *Formation) spawnDivers(level int) {
	cfg := f.cfg.Divers
	n := min(level, cfg.MaxCount)
	if n <= 0 {
		return
	}
	lane := (f.cfg.Field.Width - 2*f.cfg.Field.SideMargin) / n
	for i := range n {
		u := newUnit(KindDiver, f.cfg.Field.SideMargin+i*lane+(lane-cfg.Width)/2, cfg.ReturnAltitude,
			cfg.Width, cfg.Height, 4, level)
		u.Diver.Dir = 1
		if i%2 == 1 {
			u.Diver.Dir = -1
		}
		f.restartReady(&u.Diver)
		f.divers = append(f.divers, f.arena.Alloc(u))
	}
}

func (f *Formation) restartReady(d *Diver) {
	d.ready.Start(f.clock, config.Ms(jitter(f.rng, f.cfg.Divers.ReadyInterval, f.cfg.Divers.ReadyVariance)))
}

// UpdateSmooth advances every diver by one tick, independent of the grid
// step cadence. It reports whether a diving unit rammed the player ship.
func (f *Formation) UpdateSmooth(ship *Ship) bool {
	cfg := f.cfg
	rammed := false

	for _, h := range f.divers {
		u, ok := f.arena.Get(h)
		if !ok || u.Destroyed {
			continue
		}
		d := &u.Diver

		switch d.Phase {
		case PhasePatrol:
			if !d.ready.Active(f.clock) {
				d.Phase = PhaseWindUp
				d.Windup = 0
				continue
			}
			u.X += d.Dir * cfg.Divers.PatrolSpeed
			if u.X <= cfg.Field.SideMargin {
				u.X = cfg.Field.SideMargin
				d.Dir = 1
			} else if u.X+u.W >= cfg.Field.Width-cfg.Field.SideMargin {
				u.X = cfg.Field.Width - cfg.Field.SideMargin - u.W
				d.Dir = -1
			}

		case PhaseWindUp:
			d.Windup++

		case PhaseDiving:
			u.Y += cfg.Divers.DiveSpeed + cfg.DiveBonus()
			if u.Y >= cfg.Field.Height {
				u.Y = -u.H
				d.Phase = PhaseReturning
			}

		case PhaseReturning:
			u.Y += cfg.Divers.DiveSpeed
			if u.Y >= cfg.Divers.ReturnAltitude {
				u.Y = cfg.Divers.ReturnAltitude
				d.Phase = PhasePatrol
				d.Dir = 1
				if f.rng.Intn(2) == 0 {
					d.Dir = -1
				}
				f.restartReady(d)
			}
		}

		if d.Phase == PhaseDiving && ship != nil && !ship.Destroyed && u.Rect().Collides(ship.Rect()) {
			ship.Destroyed = true
			rammed = true
		}
	}

	f.separatePatrols()
	return rammed
}

// separatePatrols pushes overlapping patrolling divers apart.
// Pairs are resolved one at a time, so chains of three or more may need
// several ticks to settle.
func (f *Formation) separatePatrols() {
	for i := 0; i < len(f.divers); i++ {
		a, ok := f.patrolling(f.divers[i])
		if !ok {
			continue
		}
		for j := i + 1; j < len(f.divers); j++ {
			b, ok := f.patrolling(f.divers[j])
			if !ok {
				continue
			}
			if a.X >= b.X+b.W || b.X >= a.X+a.W {
				continue
			}
			left, right := a, b
			if b.X < a.X {
				left, right = b, a
			}
			overlap := left.X + left.W - right.X
			push := (overlap + 1) / 2
			left.X -= push
			right.X += push
			left.Diver.Dir = -1
			right.Diver.Dir = 1
		}
	}
}

func (f *Formation) patrolling(h Handle) (*Unit, bool) {
	u, ok := f.arena.Get(h)
	if !ok || u.Destroyed || u.Diver.Phase != PhasePatrol {
		return nil, false
	}
	return u, true
}

// TriggerDive moves a winding-up diver into its dive.
// Returns false if h is not a live diver in wind-up.
func (f *Formation) TriggerDive(h Handle) bool {
	u, ok := f.arena.Get(h)
	if !ok || u.Kind != KindDiver || u.Destroyed || u.Diver.Phase != PhaseWindUp {
		return false
	}
	u.Diver.Phase = PhaseDiving
	u.Diver.Windup = 0
	return true
}

// State returns the numeric state code of a diver.
func (f *Formation) State(h Handle) (int, bool) {
	u, ok := f.arena.Get(h)
	if !ok || u.Kind != KindDiver {
		return 0, false
	}
	return u.Diver.Code(), true
}

// SetState applies a numeric state code to a diver. DiveTrigger starts the
// dive of a winding-up diver; 0 and 1 return a patrolling or winding-up
// diver to patrol in that direction. Other codes are rejected.
func (f *Formation) SetState(h Handle, code int) bool {
	if code == DiveTrigger {
		return f.TriggerDive(h)
	}
	u, ok := f.arena.Get(h)
	if !ok || u.Kind != KindDiver || u.Destroyed {
		return false
	}
	if code != StatePatrolLeft && code != StatePatrolRight {
		return false
	}
	if p := u.Diver.Phase; p != PhasePatrol && p != PhaseWindUp {
		return false
	}
	u.Diver.Phase = PhasePatrol
	u.Diver.Windup = 0
	u.Diver.Dir = 1
	if code == StatePatrolLeft {
		u.Diver.Dir = -1
	}
	f.restartReady(&u.Diver)
	return true
}

// jitter returns base ± variance drawn from rng, never below 1.
func jitter(rng platformcore.RNG, base, variance int) int {
	v := base
	if variance > 0 {
		v += rng.Intn(2*variance+1) - variance
	}
	return max(v, 1)
}
