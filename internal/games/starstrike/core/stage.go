package core

import (
	"github.com/vovakirdan/starstrike/internal/config"
	platformcore "github.com/vovakirdan/starstrike/internal/core"
)

// Stage wires the formation, item engine and resolver for one player and
// runs them in tick order.
type Stage struct {
	cfg   config.StarstrikeConfig
	clock platformcore.Clock
	rng   platformcore.RNG
	audio AudioSink

	Ship      *Ship
	Field     *Field
	Pool      *BulletPool
	Formation *Formation
	Items     *ItemEngine
	Resolver  *Resolver

	// Balance pans this stage's sounds; split screen uses -0.5 and 0.5.
	Balance float64
}

// NewStage builds a stage for the given level. The ship is placed at the
// bottom center of the field.
func NewStage(cfg config.StarstrikeConfig, level int, clock platformcore.Clock, rng platformcore.RNG, audio AudioSink) *Stage {
	if audio == nil {
		audio = NopAudio{}
	}
	pc := cfg.Player
	ship := &Ship{
		X:     cfg.Field.Width/2 - pc.Width/2,
		Y:     cfg.Field.Height - pc.BottomOffset - pc.Height,
		W:     pc.Width,
		H:     pc.Height,
		Shots: 1,
	}
	field := &Field{}
	pool := NewBulletPool(64)
	formation := NewFormation(cfg, level, clock, rng, audio)
	items := NewItemEngine(cfg, formation, ship, field, clock, rng, audio)

	return &Stage{
		cfg:       cfg,
		clock:     clock,
		rng:       rng,
		audio:     audio,
		Ship:      ship,
		Field:     field,
		Pool:      pool,
		Formation: formation,
		Items:     items,
		Resolver:  NewResolver(cfg, formation, ship, field, items, pool, clock, rng, audio),
	}
}

// Tick advances the stage by one tick: timed effects, formation step and
// fire (suspended during time stop), diver update, special ship, combat.
func (s *Stage) Tick() TickResult {
	s.Items.Update()

	if s.Items.TimeStopped() {
		s.Formation.Purge()
	} else {
		s.Formation.Update()
		s.Formation.Shoot(s.Resolver, s.Formation.Level(), s.Balance)
	}

	rammed := s.Formation.UpdateSmooth(s.Ship)
	if rammed {
		s.audio.Play(SoundPlayerDeath, s.Balance)
	}

	s.moveSpecial()
	res := s.Resolver.Resolve()
	res.Rammed = rammed
	s.Formation.MarkExplosions()
	return res
}

// FirePlayer launches a player bullet if the ship has shot capacity left.
func (s *Stage) FirePlayer() bool {
	if s.Ship.Destroyed || s.Resolver.PlayerBullets() >= s.Ship.Shots {
		return false
	}
	bw := s.cfg.Combat.BulletWidth
	s.Resolver.Spawn(s.Ship.X+s.Ship.W/2-bw/2, s.Ship.Y-s.cfg.Combat.BulletHeight,
		-s.cfg.Combat.PlayerBulletSpeed, s.Ship.Variant, s.Balance)
	s.audio.Play(SoundPlayerShot, s.Balance)
	return true
}

// MoveShip shifts the ship horizontally, clamped to the field margins.
func (s *Stage) MoveShip(dx int) {
	if s.Ship.Destroyed {
		return
	}
	margin := s.cfg.Field.SideMargin
	s.Ship.X = platformcore.Clamp(s.Ship.X+dx, margin, s.cfg.Field.Width-margin-s.Ship.W)
}

// SpawnSpecial sends the bonus ship across the top if none is flying.
func (s *Stage) SpawnSpecial(fromLeft bool) bool {
	if s.Field.Special != nil {
		return false
	}
	sc := s.cfg.Special
	sp := &SpecialShip{Y: sc.Y, W: sc.Width, H: sc.Height, Points: sc.Points}
	if fromLeft {
		sp.X = -sc.Width
		sp.Speed = sc.Speed
	} else {
		sp.X = s.cfg.Field.Width
		sp.Speed = -sc.Speed
	}
	s.Field.Special = sp
	return true
}

func (s *Stage) moveSpecial() {
	sp := s.Field.Special
	if sp == nil {
		return
	}
	if sp.Destroyed || sp.X > s.cfg.Field.Width || sp.X+sp.W < 0 {
		s.Field.Special = nil
		return
	}
	sp.X += sp.Speed
}

// PlaceObstacles replaces the obstacle row with n evenly spaced blocks.
func (s *Stage) PlaceObstacles(n int) {
	oc := s.cfg.Obstacles
	s.Field.Obstacles = s.Field.Obstacles[:0]
	if n <= 0 {
		return
	}
	gap := s.cfg.Field.Width / (n + 1)
	for i := 1; i <= n; i++ {
		s.Field.Obstacles = append(s.Field.Obstacles, &Obstacle{
			X: i*gap - oc.Width/2, Y: oc.Y, W: oc.Width, H: oc.Height,
		})
	}
}

// NextLevel replaces the formation with a fresh one for level. Barriers,
// combo and ship upgrades carry over; bullets, boxes and the special ship
// are cleared.
func (s *Stage) NextLevel(level int) {
	s.Resolver.Clear()
	s.Field.Boxes = s.Field.Boxes[:0]
	s.Field.Special = nil
	s.Formation = NewFormation(s.cfg, level, s.clock, s.rng, s.audio)
	s.Items.setFormation(s.Formation)
	s.Resolver.setFormation(s.Formation)
}

// Respawn restores the ship at the bottom center with single shot and a
// ghost window.
func (s *Stage) Respawn() {
	pc := s.cfg.Player
	s.Ship.X = s.cfg.Field.Width/2 - s.Ship.W/2
	s.Ship.Destroyed = false
	s.Ship.Shots = 1
	s.Items.StartGhost(config.Ms(pc.RespawnGhost))
}

// Level returns the level of the current formation.
func (s *Stage) Level() int {
	return s.Formation.Level()
}
