// Package starstrike wraps the formation engine into a playable game:
// lives, levels, coins, the special ship and the dive trigger policy.
package starstrike

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/starstrike/internal/config"
	platformcore "github.com/vovakirdan/starstrike/internal/core"
	"github.com/vovakirdan/starstrike/internal/games/starstrike/core"
	"github.com/vovakirdan/starstrike/internal/registry"
)

// Game states
const (
	StatePlaying  = "playing"
	StateRespawn  = "respawn" // ship destroyed, waiting to respawn
	StatePaused   = "paused"
	StateGameOver = "gameover"
)

// Mode selects the difficulty the game is registered with.
type Mode int

const (
	ModeNormal Mode = iota
	ModeHard
)

// itemBannerTicks is how long the collected item name stays on the HUD.
const itemBannerTicks = 90

// configPath stores the custom config path set via CLI
var configPath string

// difficultyPreset stores the difficulty preset set via CLI
var difficultyPreset config.DifficultyPreset

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the preset applied to normal mode games.
func SetDifficultyPreset(preset config.DifficultyPreset) {
	difficultyPreset = preset
}

// Game implements registry.Game.
type Game struct {
	mode Mode

	runtime platformcore.RuntimeConfig
	cfg     config.StarstrikeConfig
	clock   *platformcore.TickClock
	rng     *platformcore.SimpleRNG
	audio   core.AudioSink
	logger  *log.Logger
	balance float64
	variant int

	stage *core.Stage

	state    string
	tick     uint64
	score    int
	lives    int
	level    int
	coins    int
	kills    int
	maxCombo int
	respawn  platformcore.Cooldown

	lastItem   core.ItemKind
	itemBanner int
}

// New creates a normal mode game.
func New() *Game {
	return &Game{mode: ModeNormal}
}

// NewHard creates a hard mode game.
func NewHard() *Game {
	return &Game{mode: ModeHard}
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	if g.mode == ModeHard {
		return "starstrike_hard"
	}
	return "starstrike"
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	if g.mode == ModeHard {
		return "Starstrike (Hard)"
	}
	return "Starstrike"
}

// SetAudio routes game sounds to sink. Takes effect on the next Reset.
func (g *Game) SetAudio(sink core.AudioSink) {
	g.audio = sink
}

// SetBalance pans this game's sounds, -1 left to 1 right.
func (g *Game) SetBalance(b float64) {
	g.balance = b
	if g.stage != nil {
		g.stage.Balance = b
	}
}

// SetVariant selects the player ship color, 0 for player one and 1 for
// player two.
func (g *Game) SetVariant(v int) {
	g.variant = v
	if g.stage != nil {
		g.stage.Ship.Variant = v
	}
}

// SetLogger sets the logger used for level and life events.
func (g *Game) SetLogger(l *log.Logger) {
	g.logger = l
}

// Reset initializes or restarts the game.
func (g *Game) Reset(runtime platformcore.RuntimeConfig) {
	g.runtime = runtime

	cfg, err := config.LoadStarstrike(configPath)
	if err != nil {
		cfg = config.DefaultStarstrikeConfig()
	}
	switch {
	case g.mode == ModeHard:
		config.ApplyStarstrikePreset(&cfg, config.DifficultyHard)
	case difficultyPreset != "":
		config.ApplyStarstrikePreset(&cfg, difficultyPreset)
	}
	g.cfg = cfg

	if g.logger == nil {
		g.logger = log.New(io.Discard)
	}
	if g.audio == nil {
		g.audio = core.NopAudio{}
	}

	g.clock = platformcore.NewTickClock(runtime.TickRate)
	g.rng = platformcore.NewSimpleRNG(runtime.Seed)

	g.state = StatePlaying
	g.tick = 0
	g.score = 0
	g.coins = 0
	g.kills = 0
	g.maxCombo = 0
	g.lives = cfg.Player.Lives
	g.level = cfg.StartLevel()
	g.respawn.Reset()
	g.itemBanner = 0

	g.stage = core.NewStage(cfg, g.level, g.clock, g.rng, g.audio)
	g.stage.Balance = g.balance
	g.stage.Ship.Variant = g.variant
	g.placeObstacles()
}

// Step advances the game by one tick.
func (g *Game) Step(in platformcore.InputFrame) platformcore.StepResult {
	if in.Has(platformcore.ActionRestart) && g.state == StateGameOver {
		g.Reset(g.runtime)
		return platformcore.StepResult{State: g.State()}
	}

	if in.Has(platformcore.ActionPause) {
		switch g.state {
		case StatePaused:
			g.state = StatePlaying
			if g.stage.Ship.Destroyed {
				g.state = StateRespawn
			}
		case StatePlaying, StateRespawn:
			g.state = StatePaused
		}
	}
	if g.state == StatePaused || g.state == StateGameOver {
		return platformcore.StepResult{State: g.State()}
	}

	g.tick++
	g.clock.Advance()
	if g.itemBanner > 0 {
		g.itemBanner--
	}

	if g.state == StateRespawn && !g.respawn.Active(g.clock) {
		g.stage.Respawn()
		g.state = StatePlaying
	}

	if g.state == StatePlaying {
		g.handleInput(in)
	}
	g.triggerDives()
	g.maybeSpawnSpecial()

	res := g.stage.Tick()
	return g.apply(res)
}

func (g *Game) handleInput(in platformcore.InputFrame) {
	speed := g.cfg.Player.Speed
	if in.Has(platformcore.ActionLeft) {
		g.stage.MoveShip(-speed)
	}
	if in.Has(platformcore.ActionRight) {
		g.stage.MoveShip(speed)
	}
	if in.Has(platformcore.ActionFire) {
		g.stage.FirePlayer()
	}
}

// triggerDives sends winding-up divers down once they line up with the
// ship or have waited long enough.
func (g *Game) triggerDives() {
	f := g.stage.Formation
	ship := g.stage.Ship
	shipX, _ := ship.Rect().Center()

	for _, h := range f.Divers() {
		st, ok := f.State(h)
		if !ok || st < core.StateWindUp {
			continue
		}
		u, _ := f.Get(h)
		ux, _ := u.Rect().Center()
		aligned := !ship.Destroyed && platformcore.Abs(ux-shipX) <= g.cfg.Divers.AlignTolerance
		if aligned || st-core.StateWindUp >= g.cfg.Divers.MaxWindupTicks {
			f.TriggerDive(h)
		}
	}
}

func (g *Game) maybeSpawnSpecial() {
	chance := g.cfg.Special.SpawnChance
	if chance <= 0 || g.stage.Field.Special != nil {
		return
	}
	if g.rng.Intn(chance) == 0 {
		g.stage.SpawnSpecial(g.rng.Intn(2) == 0)
	}
}

// apply folds one tick's combat result into the run totals.
func (g *Game) apply(res core.TickResult) platformcore.StepResult {
	var out platformcore.StepResult

	g.score += res.Score
	g.kills += res.Kills
	g.coins += res.Kills
	g.maxCombo = max(g.maxCombo, res.MaxCombo)
	if n := len(res.Items); n > 0 {
		g.lastItem = res.Items[n-1]
		g.itemBanner = itemBannerTicks
	}

	if (res.PlayerHit || res.Rammed) && g.state == StatePlaying {
		out.LifeLost = true
		g.lives--
		g.logger.Debug("life lost", "lives", g.lives, "level", g.level, "rammed", res.Rammed)
		if g.lives <= 0 {
			g.state = StateGameOver
			g.logger.Debug("game over", "score", g.score, "level", g.level)
		} else {
			g.state = StateRespawn
			g.respawn.Start(g.clock, config.Ms(g.cfg.Player.RespawnDelay))
		}
	}

	if res.FormationEmpty && g.state != StateGameOver {
		out.LevelCleared = true
		g.level++
		g.stage.NextLevel(g.level)
		g.placeObstacles()
		g.logger.Debug("level cleared", "level", g.level, "score", g.score)
	}

	out.State = g.State()
	return out
}

// placeObstacles puts min(level-1, max) obstacles on the field.
func (g *Game) placeObstacles() {
	g.stage.PlaceObstacles(min(g.level-1, g.cfg.Obstacles.MaxCount))
}

// State returns the current game state.
func (g *Game) State() platformcore.GameState {
	return platformcore.GameState{
		Score:    g.score,
		Level:    g.level,
		Lives:    g.lives,
		Coins:    g.coins,
		MaxCombo: g.maxCombo,
		GameOver: g.state == StateGameOver,
		Paused:   g.state == StatePaused,
	}
}

// Kills returns the enemies destroyed this run.
func (g *Game) Kills() int {
	return g.kills
}

// Elapsed returns the simulated play time.
func (g *Game) Elapsed() time.Duration {
	return g.clock.Now()
}

// Register the games with the registry
func init() {
	registry.Register("starstrike", func() registry.Game {
		return New()
	})
	registry.Register("starstrike_hard", func() registry.Game {
		return NewHard()
	})
}
