package core_test

import (
	"time"

	"github.com/vovakirdan/starstrike/internal/config"
	platformcore "github.com/vovakirdan/starstrike/internal/core"
	"github.com/vovakirdan/starstrike/internal/games/starstrike/core"
)

// fakeClock is a manually advanced clock.
type fakeClock struct {
	now time.Duration
}

func (c *fakeClock) Now() time.Duration { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now += d }

// fixedRNG always returns the same draw, clamped into range.
type fixedRNG struct {
	v int
}

func (r fixedRNG) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	if r.v < 0 || r.v >= n {
		return n - 1
	}
	return r.v
}

// recordingRNG behaves like fixedRNG and remembers every n it was asked for.
type recordingRNG struct {
	v  int
	ns []int
}

func (r *recordingRNG) Intn(n int) int {
	r.ns = append(r.ns, n)
	return fixedRNG{v: r.v}.Intn(n)
}

// topRNG always returns n-1.
type topRNG struct{}

func (topRNG) Intn(n int) int { return max(n-1, 0) }

// recordingAudio remembers every sound played.
type recordingAudio struct {
	sounds []core.Sound
}

func (a *recordingAudio) Play(s core.Sound, _ float64) { a.sounds = append(a.sounds, s) }

func (a *recordingAudio) count(s core.Sound) int {
	n := 0
	for _, got := range a.sounds {
		if got == s {
			n++
		}
	}
	return n
}

// countingSink records spawned bullets.
type countingSink struct {
	speeds []int
	xs     []int
}

func (s *countingSink) Spawn(x, _ int, speed, _ int, _ float64) {
	s.xs = append(s.xs, x)
	s.speeds = append(s.speeds, speed)
}

// testConfig returns defaults with a custom grid and no divers.
func testConfig(cols, rows int) config.StarstrikeConfig {
	cfg := config.DefaultStarstrikeConfig()
	cfg.Formation.Columns = cols
	cfg.Formation.Rows = rows
	cfg.Divers.MaxCount = 0
	return cfg
}

func newStage(cfg config.StarstrikeConfig, level int, clock platformcore.Clock, rng platformcore.RNG) (*core.Stage, *recordingAudio) {
	audio := &recordingAudio{}
	return core.NewStage(cfg, level, clock, rng, audio), audio
}

// unitAt returns the grid unit at column c, row r.
func unitAt(f *core.Formation, c, r int) (core.Handle, *core.Unit) {
	h := f.Grid()[c][r]
	u, _ := f.Get(h)
	return h, u
}

// fireAt spawns a bullet that overlaps the rectangle's center after moving
// one tick at the given speed.
func fireAt(s *core.Stage, x, y, w, h, speed int) {
	s.Resolver.Spawn(x+w/2-2, y+h/2-6-speed, speed, 0, 0)
}

func fireAtUnit(s *core.Stage, u *core.Unit, speed int) {
	fireAt(s, u.X, u.Y, u.W, u.H, speed)
}
