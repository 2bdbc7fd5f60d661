package multiplayer

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/starstrike/internal/core"
)

// DuelGame is what a duel needs from each side's game.
type DuelGame interface {
	Reset(cfg core.RuntimeConfig)
	Step(in core.InputFrame) core.StepResult
	State() core.GameState

	// View returns the snapshot sent to the session.
	View() GameSnapshot
}

// MatchResultSaver persists match results without depending on the
// storage package.
type MatchResultSaver interface {
	SaveMatchResult(result MatchResultData) error
}

// MatchResultData contains match result data for persistence.
type MatchResultData struct {
	MatchID      string
	GameID       string
	Player1      string
	Player2      string
	Score1       int
	Score2       int
	Winner       int
	EndReason    string
	DurationSecs int
}

// MatchResult contains the outcome of a finished duel.
type MatchResult struct {
	MatchID  MatchID
	Reason   MatchEndReason
	Winner   PlayerID
	Score1   int
	Score2   int
	Ticks1   uint64
	Ticks2   uint64
	Duration time.Duration
}

// DuelConfig holds the settings shared by both sides.
type DuelConfig struct {
	GameID    string
	Runtime   core.RuntimeConfig
	TimeLimit time.Duration // 0 runs until both games are over

	// SnapshotEvery sends a view every n ticks. The final tick is always sent.
	SnapshotEvery int

	Player1 string
	Player2 string
}

// Stop causes. Anything else cancelling the context counts as cancelled.
var (
	errTimeUp     = errors.New("duel time limit reached")
	errDisconnect = errors.New("session disconnected")
)

// Duel runs two isolated games side by side. Each side steps on its own
// goroutine with its own ticker; the only shared state is the seed.
type Duel struct {
	id      MatchID
	cfg     DuelConfig
	games   [2]DuelGame
	session SessionHandle
	inputs  [2]chan core.InputFrame
	saver   MatchResultSaver
	logger  *log.Logger

	done     chan struct{}
	doneOnce sync.Once
}

// NewDuel creates a duel. p1 and p2 must be distinct game instances.
func NewDuel(id MatchID, cfg DuelConfig, p1, p2 DuelGame, session SessionHandle) *Duel {
	if cfg.Runtime.TickRate <= 0 {
		cfg.Runtime.TickRate = 60
	}
	if cfg.SnapshotEvery < 1 {
		cfg.SnapshotEvery = 1
	}
	return &Duel{
		id:      id,
		cfg:     cfg,
		games:   [2]DuelGame{p1, p2},
		session: session,
		inputs: [2]chan core.InputFrame{
			make(chan core.InputFrame, 64),
			make(chan core.InputFrame, 64),
		},
		logger: log.New(io.Discard),
		done:   make(chan struct{}),
	}
}

// SetResultSaver sets the optional result saver.
func (d *Duel) SetResultSaver(saver MatchResultSaver) {
	d.saver = saver
}

// SetLogger sets the logger for match lifecycle events.
func (d *Duel) SetLogger(l *log.Logger) {
	d.logger = l
}

// ID returns the match identifier.
func (d *Duel) ID() MatchID {
	return d.id
}

// SendInput queues input for one side. Non-blocking; input is dropped
// when the side is not keeping up.
func (d *Duel) SendInput(player PlayerID, in core.InputFrame) {
	idx, ok := sideIndex(player)
	if !ok {
		return
	}
	select {
	case d.inputs[idx] <- in:
	default:
	}
}

// Stop ends the duel early. Safe to call multiple times.
func (d *Duel) Stop() {
	d.doneOnce.Do(func() {
		close(d.done)
	})
}

// Run resets both games and steps them until both are over, the time
// limit passes, the session closes, Stop is called or ctx is cancelled.
func (d *Duel) Run(ctx context.Context) (MatchResult, error) {
	start := time.Now()
	for _, g := range d.games {
		g.Reset(d.cfg.Runtime)
	}
	d.session.Send(MatchStartedEvent{MatchID: d.id, Seed: d.cfg.Runtime.Seed})
	d.logger.Info("duel started", "match", d.id, "seed", d.cfg.Runtime.Seed)

	base, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)
	runCtx := base
	if d.cfg.TimeLimit > 0 {
		var stopTimer context.CancelFunc
		runCtx, stopTimer = context.WithTimeoutCause(base, d.cfg.TimeLimit, errTimeUp)
		defer stopTimer()
	}

	go func() {
		select {
		case <-d.session.Done():
			cancel(errDisconnect)
		case <-d.done:
			cancel(context.Canceled)
		case <-base.Done():
		}
	}()

	var ticks [2]uint64
	var over [2]bool
	grp, gctx := errgroup.WithContext(runCtx)
	for i := range d.games {
		grp.Go(func() error {
			ticks[i], over[i] = d.runSide(gctx, i)
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return MatchResult{}, err
	}

	s1 := d.games[0].State().Score
	s2 := d.games[1].State().Score
	res := MatchResult{
		MatchID:  d.id,
		Reason:   MatchEndReasonCompleted,
		Winner:   winner(s1, s2),
		Score1:   s1,
		Score2:   s2,
		Ticks1:   ticks[0],
		Ticks2:   ticks[1],
		Duration: time.Since(start),
	}
	if !over[0] || !over[1] {
		res.Reason = endReason(context.Cause(runCtx))
	}

	d.session.Send(MatchEndedEvent{
		MatchID: d.id,
		Reason:  res.Reason,
		Winner:  res.Winner,
		Score1:  s1,
		Score2:  s2,
	})
	d.logger.Info("duel ended", "match", d.id, "reason", res.Reason, "score1", s1, "score2", s2)
	d.save(res)

	return res, nil
}

// runSide steps one game until it is over or ctx is done.
func (d *Duel) runSide(ctx context.Context, idx int) (uint64, bool) {
	g := d.games[idx]
	player := PlayerID(idx + 1)

	ticker := time.NewTicker(time.Second / time.Duration(d.cfg.Runtime.TickRate))
	defer ticker.Stop()

	in := core.NewInputFrame()
	var tick uint64
	for {
		select {
		case <-ctx.Done():
			return tick, false
		case frame := <-d.inputs[idx]:
			// Merge: every key pressed since the last tick counts.
			for action, pressed := range frame.Actions {
				if pressed {
					in.Set(action)
				}
			}
		case <-ticker.C:
			res := g.Step(in)
			in.Clear()
			tick++

			if tick%uint64(d.cfg.SnapshotEvery) == 0 || res.State.GameOver { //#nosec G115 -- SnapshotEvery >= 1
				d.session.Send(SnapshotEvent{
					MatchID:  d.id,
					Player:   player,
					Tick:     tick,
					Snapshot: g.View(),
				})
			}
			if res.State.GameOver {
				return tick, true
			}
		}
	}
}

func (d *Duel) save(res MatchResult) {
	if d.saver == nil {
		return
	}
	err := d.saver.SaveMatchResult(MatchResultData{
		MatchID:      string(res.MatchID),
		GameID:       d.cfg.GameID,
		Player1:      d.cfg.Player1,
		Player2:      d.cfg.Player2,
		Score1:       res.Score1,
		Score2:       res.Score2,
		Winner:       int(res.Winner),
		EndReason:    res.Reason.String(),
		DurationSecs: int(res.Duration.Seconds()),
	})
	if err != nil {
		d.logger.Warn("could not save duel result", "match", d.id, "error", err)
	}
}

func winner(s1, s2 int) PlayerID {
	switch {
	case s1 > s2:
		return Player1
	case s2 > s1:
		return Player2
	default:
		return 0
	}
}

func endReason(cause error) MatchEndReason {
	switch {
	case errors.Is(cause, errTimeUp):
		return MatchEndReasonTimeUp
	case errors.Is(cause, errDisconnect):
		return MatchEndReasonDisconnect
	default:
		return MatchEndReasonCancelled
	}
}

func sideIndex(p PlayerID) (int, bool) {
	switch p {
	case Player1:
		return 0, true
	case Player2:
		return 1, true
	default:
		return 0, false
	}
}
