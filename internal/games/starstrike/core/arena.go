package core

// Handle refers to a unit stored in an Arena.
// A handle goes stale once its unit is removed; the zero Handle is never valid.
type Handle struct {
	index int32
	gen   uint32
}

// IsZero reports whether h is the zero handle.
func (h Handle) IsZero() bool {
	return h.gen == 0
}

type slot struct {
	unit Unit
	gen  uint32
	used bool
}

// Arena is contiguous storage for grid units and divers.
// Freed slots are reused with a bumped generation so old handles fail lookups.
type Arena struct {
	slots []slot
	free  []int32
	live  int
}

// NewArena creates an arena with room for n units.
func NewArena(n int) *Arena {
	return &Arena{slots: make([]slot, 0, n)}
}

// Alloc stores u and returns its handle.
func (a *Arena) Alloc(u Unit) Handle {
	var idx int32
	if n := len(a.free); n > 0 {
		idx = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		a.slots = append(a.slots, slot{gen: 1})
		idx = int32(len(a.slots) - 1) //#nosec G115 -- arena size is bounded by formation size
	}
	s := &a.slots[idx]
	s.unit = u
	s.used = true
	a.live++
	return Handle{index: idx, gen: s.gen}
}

// Get returns the unit for h. ok is false for stale or zero handles.
func (a *Arena) Get(h Handle) (*Unit, bool) {
	if h.gen == 0 || h.index < 0 || int(h.index) >= len(a.slots) {
		return nil, false
	}
	s := &a.slots[h.index]
	if !s.used || s.gen != h.gen {
		return nil, false
	}
	return &s.unit, true
}

// Remove frees the slot behind h. Returns false if h was already stale.
func (a *Arena) Remove(h Handle) bool {
	if _, ok := a.Get(h); !ok {
		return false
	}
	s := &a.slots[h.index]
	s.used = false
	s.unit = Unit{}
	s.gen++
	if s.gen == 0 {
		s.gen = 1
	}
	a.free = append(a.free, h.index)
	a.live--
	return true
}

// Len returns the number of stored units.
func (a *Arena) Len() int {
	return a.live
}
