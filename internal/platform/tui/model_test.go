package tui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/starstrike/internal/core"
	"github.com/vovakirdan/starstrike/internal/storage"
)

// shortGame ends after overAt steps with fixed totals.
type shortGame struct {
	overAt int
	steps  int
	resets int
	last   core.InputFrame
}

func (g *shortGame) ID() string    { return "short" }
func (g *shortGame) Title() string { return "Short" }
func (g *shortGame) Kills() int    { return 7 }

func (g *shortGame) Reset(core.RuntimeConfig) {
	g.steps = 0
	g.resets++
}

func (g *shortGame) Step(in core.InputFrame) core.StepResult {
	g.last = in.Clone()
	if in.Has(core.ActionRestart) && g.steps >= g.overAt {
		g.steps = 0
		return core.StepResult{State: g.State()}
	}
	g.steps++
	return core.StepResult{State: g.State()}
}

func (g *shortGame) Render(dst *core.Screen) {
	dst.Clear()
	dst.DrawText(0, 0, "short game")
}

func (g *shortGame) State() core.GameState {
	st := core.GameState{Level: 1, Lives: 1}
	if g.steps >= g.overAt {
		st = core.GameState{Score: 120, Level: 2, Coins: 4, MaxCombo: 3, GameOver: true}
	}
	return st
}

func openStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func testConfig() core.RuntimeConfig {
	return core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 1}
}

func step(t *testing.T, m tea.Model, msg tea.Msg) tea.Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next
}

func TestModelSavesRunOnce(t *testing.T) {
	store := openStore(t)
	game := &shortGame{overAt: 3}
	var m tea.Model = NewModel(game, store, testConfig(), "ace")
	m.Init()

	for range 6 {
		m = step(t, m, TickMsg{})
	}

	scores, err := store.TopScores("short", 10)
	if err != nil {
		t.Fatalf("TopScores() error: %v", err)
	}
	if len(scores) != 1 {
		t.Fatalf("expected one saved run, got %d", len(scores))
	}
	s := scores[0]
	if s.Player != "ace" || s.Score != 120 || s.Level != 2 || s.Kills != 7 || s.MaxCombo != 3 {
		t.Errorf("saved run = %+v", s)
	}
	if bal, _ := store.Balance("ace"); bal != 4 {
		t.Errorf("Balance() = %d, expected 4", bal)
	}

	// A restart followed by another game over saves a second run.
	m = step(t, m, keyMsg("r"))
	for range 6 {
		m = step(t, m, TickMsg{})
	}
	if scores, _ := store.TopScores("short", 10); len(scores) != 2 {
		t.Errorf("expected two runs after restart, got %d", len(scores))
	}
	if bal, _ := store.Balance("ace"); bal != 8 {
		t.Errorf("Balance() = %d, expected 8", bal)
	}
}

func TestModelInputReachesGame(t *testing.T) {
	game := &shortGame{overAt: 100}
	var m tea.Model = NewModel(game, nil, testConfig(), "ace")
	m.Init()

	m = step(t, m, keyMsg("a"))
	m = step(t, m, keyMsg(" "))
	m = step(t, m, TickMsg{})
	if !game.last.Has(core.ActionLeft) || !game.last.Has(core.ActionFire) {
		t.Fatalf("first tick input = %v", game.last.Actions)
	}

	step(t, m, TickMsg{})
	if game.last.Has(core.ActionFire) || !game.last.Has(core.ActionLeft) {
		t.Errorf("second tick should keep left held and drop fire, got %v", game.last.Actions)
	}
}

func TestModelBackOnlyWhenOver(t *testing.T) {
	game := &shortGame{overAt: 1}
	var m tea.Model = NewModel(game, nil, testConfig(), "ace")
	m.Init()

	m = step(t, m, keyMsg("esc"))
	if m.(Model).BackToMenu() {
		t.Fatal("back should be ignored mid-game")
	}

	m = step(t, m, TickMsg{})
	next, cmd := m.Update(keyMsg("esc"))
	if !next.(Model).BackToMenu() || cmd == nil {
		t.Error("back after game over should leave for the menu")
	}
}

func TestModelView(t *testing.T) {
	game := &shortGame{overAt: 10}
	m := NewModel(game, nil, testConfig(), "ace")
	m.Init()

	if !strings.Contains(m.View(), "short game") {
		t.Error("View() should render the game")
	}

	next, _ := m.Update(keyMsg("q"))
	if !next.(Model).IsQuitting() || next.(Model).View() != "" {
		t.Error("quitting should blank the view")
	}
}

func TestModelResizeKeepsRun(t *testing.T) {
	game := &shortGame{overAt: 10}
	var m tea.Model = NewModel(game, nil, testConfig(), "ace")
	m.Init()
	m = step(t, m, TickMsg{})

	step(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	if game.resets != 1 || game.steps != 1 {
		t.Errorf("resize should not restart the game, resets=%d steps=%d", game.resets, game.steps)
	}
}
