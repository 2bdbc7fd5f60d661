package core_test

import (
	"fmt"
	"slices"
	"testing"
	"time"

	platformcore "github.com/vovakirdan/starstrike/internal/core"
	"github.com/vovakirdan/starstrike/internal/games/starstrike/core"
)

func TestSingleUnitKillEmptiesFormation(t *testing.T) {
	clock := &fakeClock{}
	s, _ := newStage(testConfig(1, 1), 1, clock, platformcore.NewSimpleRNG(1))
	h, u := unitAt(s.Formation, 0, 0)
	if u.Health != 0 {
		t.Fatalf("level 1 unit health = %d, expected 0", u.Health)
	}
	points := u.Points

	fireAtUnit(s, u, -6)
	res := s.Tick()

	if u.Health != -1 || !u.Destroyed {
		t.Errorf("unit health=%d destroyed=%v, expected -1 and destroyed", u.Health, u.Destroyed)
	}
	if res.Score != points || res.Kills != 1 {
		t.Errorf("score=%d kills=%d, expected %d and 1", res.Score, res.Kills, points)
	}
	if res.LastAward != (core.Award{Points: points, Kills: 1}) {
		t.Errorf("LastAward = %+v", res.LastAward)
	}
	if res.FormationEmpty || s.Formation.IsEmpty() {
		t.Error("formation should not be empty while the explosion is showing")
	}

	res = s.Tick()
	if !res.FormationEmpty || !s.Formation.IsEmpty() {
		t.Error("formation should be empty on the next tick")
	}
	if _, ok := s.Formation.Get(h); ok {
		t.Error("purged unit handle should be stale")
	}
}

func TestComboMultiplier(t *testing.T) {
	tests := []struct {
		base, combo, want int
	}{
		{10, 0, 10},
		{10, 4, 10},
		{10, 5, 20},
		{10, 7, 20},
		{10, 9, 20},
		{10, 10, 30},
		{30, 14, 90},
	}
	for _, tc := range tests {
		if got := core.ComboScore(tc.base, tc.combo, 5); got != tc.want {
			t.Errorf("ComboScore(%d, %d) = %d, expected %d", tc.base, tc.combo, got, tc.want)
		}
	}
}

func TestComboSevenKillScoresDouble(t *testing.T) {
	clock := &fakeClock{}
	s, _ := newStage(testConfig(1, 1), 1, clock, platformcore.NewSimpleRNG(1))
	_, u := unitAt(s.Formation, 0, 0)
	if u.Points != 10 {
		t.Fatalf("unit points = %d, expected 10", u.Points)
	}

	s.Resolver.SetCombo(7)
	fireAtUnit(s, u, -6)
	res := s.Tick()

	if res.Score != 20 {
		t.Errorf("score = %d, expected 10 x (7/5+1) = 20", res.Score)
	}
	if res.Combo != 8 || res.MaxCombo != 8 {
		t.Errorf("combo=%d max=%d, expected 8/8", res.Combo, res.MaxCombo)
	}
}

func TestComboCountsAbsorbedHits(t *testing.T) {
	clock := &fakeClock{}
	s, _ := newStage(testConfig(1, 1), 3, clock, fixedRNG{v: 100}) // health 1, drop roll fails
	_, u := unitAt(s.Formation, 0, 0)

	fireAtUnit(s, u, -6)
	res := s.Tick()
	if res.Kills != 0 || res.Score != 0 {
		t.Errorf("absorbed hit should award nothing, got score=%d kills=%d", res.Score, res.Kills)
	}
	if res.Combo != 1 {
		t.Errorf("combo = %d, expected 1 after an absorbed hit", res.Combo)
	}
	if res.Drops != 0 {
		t.Errorf("failed roll dropped %d boxes", res.Drops)
	}
}

func TestComboTimesOut(t *testing.T) {
	clock := &fakeClock{}
	s, _ := newStage(testConfig(1, 1), 1, clock, platformcore.NewSimpleRNG(1))

	s.Resolver.SetCombo(3)
	clock.Advance(2900 * time.Millisecond)
	if res := s.Tick(); res.Combo != 3 {
		t.Fatalf("combo reset early: %d", res.Combo)
	}
	clock.Advance(100 * time.Millisecond)
	if res := s.Tick(); res.Combo != 0 {
		t.Errorf("combo should reset after 3s without hits, got %d", res.Combo)
	}
	if s.Resolver.MaxCombo() != 3 {
		t.Errorf("MaxCombo() = %d, expected 3", s.Resolver.MaxCombo())
	}
}

func TestComboResetsOnMissWithSingleShot(t *testing.T) {
	tests := []struct {
		name  string
		shots int
		want  int
	}{
		{"single shot resets", 1, 0},
		{"multi shot keeps combo", 2, 2},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			clock := &fakeClock{}
			s, _ := newStage(testConfig(1, 1), 1, clock, platformcore.NewSimpleRNG(1))
			s.Ship.Shots = tc.shots
			s.Resolver.SetCombo(2)

			// A bullet already above the highest enemy.
			s.Resolver.Spawn(300, 20, -6, 0, 0)
			if res := s.Tick(); res.Combo != tc.want {
				t.Errorf("combo = %d, expected %d", res.Combo, tc.want)
			}
		})
	}
}

func TestComboMissIgnoresDiverAboveField(t *testing.T) {
	clock := &fakeClock{}
	cfg := testConfig(1, 1)
	cfg.Divers.MaxCount = 1
	s, _ := newStage(cfg, 1, clock, platformcore.NewSimpleRNG(1))
	s.Ship.Shots = 1
	s.Resolver.SetCombo(2)

	d, _ := s.Formation.Get(s.Formation.Divers()[0])
	d.Diver.Phase = core.PhaseReturning
	d.Y = -d.H

	// Above the grid but below the returning diver.
	s.Resolver.Spawn(300, 20, -6, 0, 0)
	if res := s.Tick(); res.Combo != 0 {
		t.Errorf("combo = %d, a miss above the grid should reset it", res.Combo)
	}
}

func TestItemBoxPickupConsumesOneBullet(t *testing.T) {
	clock := &fakeClock{}
	s, _ := newStage(testConfig(1, 1), 1, clock, platformcore.NewSimpleRNG(9))
	box := &core.ItemBox{X: 400, Y: 300, W: 20, H: 20}
	s.Field.Boxes = append(s.Field.Boxes, box)

	fireAt(s, box.X, box.Y, box.W, box.H, -6)
	fireAt(s, box.X, box.Y, box.W, box.H, -6)
	res := s.Tick()

	if len(res.Items) != 1 {
		t.Fatalf("UseItem ran %d times, expected exactly once", len(res.Items))
	}
	if len(s.Field.Boxes) != 0 {
		t.Error("collected box should be removed")
	}
	if got := len(s.Resolver.Bullets()); got != 1 {
		t.Errorf("bullets in flight = %d, expected 1 (one consumed)", got)
	}
}

func TestItemBoxGraceBlocksPickup(t *testing.T) {
	clock := &fakeClock{}
	s, _ := newStage(testConfig(1, 1), 1, clock, platformcore.NewSimpleRNG(9))
	box := &core.ItemBox{X: 400, Y: 300, W: 20, H: 20, Grace: true}
	s.Field.Boxes = append(s.Field.Boxes, box)

	fireAt(s, box.X, box.Y, box.W, box.H, -6)
	res := s.Tick()
	if len(res.Items) != 0 || len(s.Field.Boxes) != 1 {
		t.Fatal("box in spawn grace should not be collected")
	}
	if box.Grace {
		t.Error("grace should be cleared at the end of the tick")
	}
}

func TestItemDropOnAbsorbedHit(t *testing.T) {
	tests := []struct {
		roll  int
		drops int
	}{
		{0, 1},
		{29, 1},
		{30, 0},
		{100, 0},
	}
	for _, tc := range tests {
		t.Run(fmt.Sprintf("roll %d", tc.roll), func(t *testing.T) {
			clock := &fakeClock{}
			rng := &recordingRNG{v: tc.roll}
			s, _ := newStage(testConfig(1, 1), 3, clock, rng) // health 1
			_, u := unitAt(s.Formation, 0, 0)

			rng.ns = nil
			fireAtUnit(s, u, -6)
			res := s.Tick()
			if res.Drops != tc.drops || len(s.Field.Boxes) != tc.drops {
				t.Fatalf("drops=%d boxes=%d, expected %d", res.Drops, len(s.Field.Boxes), tc.drops)
			}
			if !slices.Contains(rng.ns, 101) {
				t.Errorf("drop roll should cover 0..100 inclusive, Intn args %v", rng.ns)
			}
			if tc.drops == 0 {
				return
			}
			box := s.Field.Boxes[0]
			bx, by := box.Rect().Center()
			ux, uy := u.Rect().Center()
			if bx != ux || by != uy {
				t.Errorf("box centered at (%d,%d), expected unit center (%d,%d)", bx, by, ux, uy)
			}
		})
	}
}

func TestNoItemDropFromDivers(t *testing.T) {
	clock := &fakeClock{}
	cfg := testConfig(1, 1)
	cfg.Divers.MaxCount = 1
	s, _ := newStage(cfg, 3, clock, fixedRNG{v: 0})
	d, _ := s.Formation.Get(s.Formation.Divers()[0])

	fireAtUnit(s, d, -6)
	res := s.Tick()
	if d.Health != 0 {
		t.Fatalf("diver should have absorbed the hit, health=%d", d.Health)
	}
	if res.Drops != 0 {
		t.Error("absorbed diver hits must not drop items")
	}
}

func TestBulletsNeverCrossDamage(t *testing.T) {
	clock := &fakeClock{}
	s, _ := newStage(testConfig(1, 1), 1, clock, platformcore.NewSimpleRNG(1))
	_, u := unitAt(s.Formation, 0, 0)
	box := &core.ItemBox{X: 600, Y: 300, W: 20, H: 20}
	s.Field.Boxes = append(s.Field.Boxes, box)
	s.PlaceObstacles(1)
	ob := s.Field.Obstacles[0]

	// Enemy bullets through an enemy, a box and an obstacle, then a player
	// bullet through the player ship.
	fireAtUnit(s, u, 4)
	fireAt(s, box.X, box.Y, box.W, box.H, 4)
	fireAt(s, ob.X, ob.Y, ob.W, ob.H, 4)
	fireAt(s, s.Ship.X, s.Ship.Y, s.Ship.W, s.Ship.H, -6)
	res := s.Tick()

	if u.Destroyed || u.Health != 0 {
		t.Error("enemy bullet damaged an enemy")
	}
	if len(s.Field.Boxes) != 1 || len(res.Items) != 0 {
		t.Error("enemy bullet collected an item box")
	}
	if len(s.Field.Obstacles) != 1 {
		t.Error("enemy bullet removed an obstacle")
	}
	if s.Ship.Destroyed || res.PlayerHit {
		t.Error("player bullet destroyed the player ship")
	}
	if got := len(s.Resolver.Bullets()); got != 4 {
		t.Errorf("no bullet should have been consumed, %d left", got)
	}
}

func TestEnemyBulletHitsShipUnlessGhost(t *testing.T) {
	tests := []struct {
		name  string
		ghost bool
	}{
		{"normal", false},
		{"ghost", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			clock := &fakeClock{}
			s, audio := newStage(testConfig(1, 1), 1, clock, platformcore.NewSimpleRNG(1))
			s.Ship.Ghost = tc.ghost

			fireAt(s, s.Ship.X, s.Ship.Y, s.Ship.W, s.Ship.H, 4)
			res := s.Tick()
			if res.PlayerHit == tc.ghost || s.Ship.Destroyed == tc.ghost {
				t.Errorf("ghost=%v: PlayerHit=%v Destroyed=%v", tc.ghost, res.PlayerHit, s.Ship.Destroyed)
			}
			if !tc.ghost && audio.count(core.SoundPlayerDeath) != 1 {
				t.Error("death sound should play once")
			}
		})
	}
}

func TestBarrierAbsorbsEnemyBullet(t *testing.T) {
	clock := &fakeClock{}
	s, _ := newStage(testConfig(1, 1), 1, clock, platformcore.NewSimpleRNG(1))
	s.Items.Apply(core.ItemBarrier)
	bar := s.Field.Barriers[0]

	fireAt(s, bar.X, bar.Y, bar.W, bar.H, 4)
	fireAt(s, s.Field.Barriers[1].X, s.Field.Barriers[1].Y, bar.W, bar.H, -6) // player bullets pass
	s.Tick()

	if len(s.Field.Barriers) != 2 {
		t.Errorf("barriers = %d, expected the hit one removed", len(s.Field.Barriers))
	}
	if got := len(s.Resolver.Bullets()); got != 1 {
		t.Errorf("bullets = %d, expected only the player bullet left", got)
	}
}

func TestObstacleAbsorbsPlayerBullet(t *testing.T) {
	clock := &fakeClock{}
	s, audio := newStage(testConfig(1, 1), 1, clock, platformcore.NewSimpleRNG(1))
	s.PlaceObstacles(2)
	ob := s.Field.Obstacles[0]

	fireAt(s, ob.X, ob.Y, ob.W, ob.H, -6)
	s.Tick()

	if len(s.Resolver.Bullets()) != 0 {
		t.Error("obstacle should absorb the bullet")
	}
	if len(s.Field.Obstacles) != 2 {
		t.Error("bullets do not damage obstacles")
	}
	if audio.count(core.SoundBlock) != 1 {
		t.Error("block sound should play")
	}
}

func TestObstacleRemovedByEnemyBody(t *testing.T) {
	clock := &fakeClock{}
	s, _ := newStage(testConfig(1, 1), 1, clock, platformcore.NewSimpleRNG(1))
	_, u := unitAt(s.Formation, 0, 0)
	s.Field.Obstacles = append(s.Field.Obstacles,
		&core.Obstacle{X: u.X, Y: u.Y, W: 40, H: 20},
		&core.Obstacle{X: 600, Y: 400, W: 40, H: 20},
	)

	s.Tick()
	if len(s.Field.Obstacles) != 1 || s.Field.Obstacles[0].X != 600 {
		t.Errorf("only the obstacle touching the enemy should go, left %d", len(s.Field.Obstacles))
	}
}

func TestSpecialShipFixedPoints(t *testing.T) {
	clock := &fakeClock{}
	s, _ := newStage(testConfig(1, 1), 1, clock, platformcore.NewSimpleRNG(1))
	s.Ship.Shots = 2
	s.Resolver.SetCombo(6)
	sp := &core.SpecialShip{X: 300, Y: 4, W: 48, H: 20, Points: 150}
	s.Field.Special = sp

	fireAt(s, sp.X, sp.Y, sp.W, sp.H, -6)
	res := s.Tick()

	if !res.SpecialHit || res.Score != 150 {
		t.Errorf("SpecialHit=%v score=%d, expected 150", res.SpecialHit, res.Score)
	}
	if res.Combo != 6 || res.Kills != 0 {
		t.Errorf("special ship should not touch combo or kills, combo=%d kills=%d", res.Combo, res.Kills)
	}

	s.Tick()
	if s.Field.Special != nil {
		t.Error("destroyed special ship should be cleared")
	}
}

func TestBulletCannotHitTwice(t *testing.T) {
	clock := &fakeClock{}
	s, _ := newStage(testConfig(1, 2), 1, clock, platformcore.NewSimpleRNG(1))
	_, top := unitAt(s.Formation, 0, 0)
	_, bottom := unitAt(s.Formation, 0, 1)

	// Stretch the bullet so it overlaps both units at once.
	s.Resolver.Spawn(top.X+top.W/2-2, top.Y+6, -6, 0, 0)
	s.Resolver.Bullets()[0].H = bottom.Y + bottom.H - top.Y

	res := s.Tick()
	if res.Kills != 1 {
		t.Errorf("one bullet destroyed %d units", res.Kills)
	}
	if top.Destroyed == bottom.Destroyed {
		t.Error("exactly one of the two units should be destroyed")
	}
}

func TestBulletsLeavingFieldReturnToPool(t *testing.T) {
	clock := &fakeClock{}
	s, _ := newStage(testConfig(1, 1), 1, clock, platformcore.NewSimpleRNG(1))
	free := s.Pool.Stats().Free

	s.Resolver.Spawn(700, -6, -6, 0, 0) // leaves through the top
	s.Resolver.Spawn(700, 596, 4, 0, 0) // leaves through the bottom
	s.Tick()

	if len(s.Resolver.Bullets()) != 0 {
		t.Errorf("%d bullets still in flight", len(s.Resolver.Bullets()))
	}
	if got := s.Pool.Stats().Free; got != free {
		t.Errorf("pool free = %d, expected %d after recycling", got, free)
	}
}
