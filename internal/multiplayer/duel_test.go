package multiplayer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/vovakirdan/starstrike/internal/core"
)

// countdownGame ends after a fixed number of steps and scores one point
// per step with Fire held.
type countdownGame struct {
	mu    sync.Mutex
	steps int
	left  int
	score int
	seed  int64
}

type countdownView struct{ score int }

func (countdownView) IsGameSnapshot() {}

func newCountdown(steps int) *countdownGame {
	return &countdownGame{steps: steps}
}

func (g *countdownGame) Reset(cfg core.RuntimeConfig) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.left = g.steps
	g.score = 0
	g.seed = cfg.Seed
}

func (g *countdownGame) Step(in core.InputFrame) core.StepResult {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.left > 0 {
		g.left--
		if in.Has(core.ActionFire) {
			g.score++
		}
	}
	return core.StepResult{State: g.state()}
}

func (g *countdownGame) State() core.GameState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state()
}

func (g *countdownGame) state() core.GameState {
	return core.GameState{Score: g.score, GameOver: g.steps > 0 && g.left == 0}
}

func (g *countdownGame) View() GameSnapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return countdownView{score: g.score}
}

type memorySaver struct {
	mu      sync.Mutex
	results []MatchResultData
	err     error
}

func (s *memorySaver) SaveMatchResult(r MatchResultData) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, r)
	return s.err
}

func testDuelConfig() DuelConfig {
	return DuelConfig{
		GameID:  "starstrike",
		Runtime: core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 1000, Seed: 99},
		Player1: "p1",
		Player2: "p2",
	}
}

func runDuel(t *testing.T, d *Duel) MatchResult {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	res, err := d.Run(ctx)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	return res
}

func TestDuelCompletes(t *testing.T) {
	session := NewChannelSession("s", 1024)
	p1, p2 := newCountdown(20), newCountdown(40)
	d := NewDuel("m1", testDuelConfig(), p1, p2, session)

	res := runDuel(t, d)
	if res.Reason != MatchEndReasonCompleted {
		t.Errorf("Reason = %v, expected completed", res.Reason)
	}
	if res.Ticks1 != 20 || res.Ticks2 != 40 {
		t.Errorf("ticks = %d/%d, expected each side to stop at its own game over", res.Ticks1, res.Ticks2)
	}
	if p1.seed != 99 || p2.seed != 99 {
		t.Error("both sides should be reset with the shared seed")
	}
}

func TestDuelInputIsPerSide(t *testing.T) {
	session := NewChannelSession("s", 1024)
	cfg := testDuelConfig()
	cfg.Runtime.TickRate = 100
	p1, p2 := newCountdown(30), newCountdown(30)
	d := NewDuel("m2", cfg, p1, p2, session)

	fire := core.NewInputFrame()
	fire.Set(core.ActionFire)
	go func() {
		for range 10 {
			d.SendInput(Player1, fire.Clone())
			time.Sleep(20 * time.Millisecond)
		}
	}()

	res := runDuel(t, d)
	if res.Score1 == 0 {
		t.Error("player one input should reach player one's game")
	}
	if res.Score2 != 0 {
		t.Errorf("player two scored %d without input", res.Score2)
	}
	if res.Winner != Player1 {
		t.Errorf("Winner = %v, expected player one", res.Winner)
	}
}

func TestDuelTimeLimit(t *testing.T) {
	session := NewChannelSession("s", 1024)
	cfg := testDuelConfig()
	cfg.TimeLimit = 50 * time.Millisecond
	d := NewDuel("m3", cfg, newCountdown(0), newCountdown(0), session)

	res := runDuel(t, d)
	if res.Reason != MatchEndReasonTimeUp {
		t.Errorf("Reason = %v, expected time up", res.Reason)
	}
	if res.Winner != 0 {
		t.Errorf("equal scores should be a draw, got winner %v", res.Winner)
	}
}

func TestDuelStopAndDisconnect(t *testing.T) {
	tests := []struct {
		name string
		end  func(*Duel, *ChannelSession)
		want MatchEndReason
	}{
		{"stop", func(d *Duel, _ *ChannelSession) { d.Stop() }, MatchEndReasonCancelled},
		{"disconnect", func(_ *Duel, s *ChannelSession) { s.Close() }, MatchEndReasonDisconnect},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			session := NewChannelSession("s", 1024)
			d := NewDuel("m4", testDuelConfig(), newCountdown(0), newCountdown(0), session)
			time.AfterFunc(30*time.Millisecond, func() { tc.end(d, session) })

			if res := runDuel(t, d); res.Reason != tc.want {
				t.Errorf("Reason = %v, expected %v", res.Reason, tc.want)
			}
		})
	}
}

func TestDuelEvents(t *testing.T) {
	session := NewChannelSession("s", 1024)
	cfg := testDuelConfig()
	cfg.SnapshotEvery = 5
	d := NewDuel("m5", cfg, newCountdown(12), newCountdown(12), session)
	runDuel(t, d)

	var started, ended bool
	snaps := map[PlayerID][]uint64{}
	for len(session.Events()) > 0 {
		switch evt := (<-session.Events()).(type) {
		case MatchStartedEvent:
			started = evt.Seed == 99
		case SnapshotEvent:
			snaps[evt.Player] = append(snaps[evt.Player], evt.Tick)
		case MatchEndedEvent:
			ended = evt.MatchID == "m5"
		}
	}
	if !started || !ended {
		t.Errorf("started=%v ended=%v, expected both events", started, ended)
	}
	for _, p := range []PlayerID{Player1, Player2} {
		got := snaps[p]
		if len(got) != 3 || got[0] != 5 || got[1] != 10 || got[2] != 12 {
			t.Errorf("player %d snapshot ticks = %v, expected [5 10 12]", p, got)
		}
	}
}

func TestDuelSavesResult(t *testing.T) {
	saver := &memorySaver{err: errors.New("disk full")}
	session := NewChannelSession("s", 1024)
	d := NewDuel("m6", testDuelConfig(), newCountdown(5), newCountdown(5), session)
	d.SetResultSaver(saver)
	runDuel(t, d)

	if len(saver.results) != 1 {
		t.Fatalf("saved %d results, expected 1", len(saver.results))
	}
	r := saver.results[0]
	if r.MatchID != "m6" || r.GameID != "starstrike" || r.Player1 != "p1" || r.EndReason != "Match completed" {
		t.Errorf("saved result = %+v", r)
	}
}

func TestSendInputIgnoresUnknownPlayer(t *testing.T) {
	d := NewDuel("m7", testDuelConfig(), newCountdown(1), newCountdown(1), NewChannelSession("s", 1))
	d.SendInput(PlayerID(3), core.NewInputFrame())
	if len(d.inputs[0])+len(d.inputs[1]) != 0 {
		t.Error("input for an unknown seat should be dropped")
	}
}

func TestChannelSessionDropsOldest(t *testing.T) {
	s := NewChannelSession("s", 2)
	for i := range 3 {
		s.Send(SnapshotEvent{Tick: uint64(i)})
	}
	first := (<-s.Events()).(SnapshotEvent)
	if first.Tick != 1 {
		t.Errorf("oldest event should be dropped, first tick = %d", first.Tick)
	}

	s.Close()
	s.Close()
	s.Send(SnapshotEvent{Tick: 9})
	if len(s.Events()) != 1 {
		t.Error("closed session should not accept events")
	}
}

func TestSessionRegistry(t *testing.T) {
	r := NewSessionRegistry()
	r.Register(NewChannelSession("a", 1))
	r.Register(NewChannelSession("b", 1))
	if r.Count() != 2 {
		t.Errorf("Count() = %d", r.Count())
	}
	r.Unregister("a")
	if _, ok := r.Get("a"); ok {
		t.Error("unregistered session still present")
	}
}
