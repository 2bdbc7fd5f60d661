package tui

import (
	"context"
	"fmt"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/starstrike/internal/core"
	"github.com/vovakirdan/starstrike/internal/games/starstrike"
	starcore "github.com/vovakirdan/starstrike/internal/games/starstrike/core"
	"github.com/vovakirdan/starstrike/internal/multiplayer"
	"github.com/vovakirdan/starstrike/internal/storage"
)

// sideBalance pans each side's sounds toward its half of the screen.
const sideBalance = 0.6

// versusSnapshotEvery is how often, in ticks, a side publishes its view.
const versusSnapshotEvery = 2

// duelSide adapts a game to the duel runner.
type duelSide struct {
	*starstrike.Game
}

func (s duelSide) View() multiplayer.GameSnapshot {
	return s.Frame()
}

// duelDoneMsg is sent when a duel's Run returns.
type duelDoneMsg struct {
	matchID multiplayer.MatchID
	result  multiplayer.MatchResult
	err     error
}

// VersusConfig configures a split-screen match.
type VersusConfig struct {
	Runtime   core.RuntimeConfig
	TimeLimit time.Duration
	Player1   string
	Player2   string
	Audio     starcore.AudioSink
	Logger    *log.Logger
}

// VersusModel runs two games side by side on one keyboard. Each side
// steps on its own goroutine; the model only sees their snapshots.
type VersusModel struct {
	cfg       VersusConfig
	store     *storage.Store
	keyMapper *KeyMapper
	screen    *core.Screen
	halves    [2]*core.Screen

	duel    *multiplayer.Duel
	session *multiplayer.ChannelSession
	started time.Time
	input   [2]heldInput
	frames  [2]*starstrike.Frame
	ended   *multiplayer.MatchEndedEvent
	running bool

	// launch runs the first duel once the program starts.
	launch tea.Cmd

	// leaving is set while waiting for a stopped duel to finish.
	leaving    bool
	quitting   bool
	backToMenu bool
}

// NewVersusModel creates a split-screen match model.
func NewVersusModel(store *storage.Store, cfg VersusConfig) VersusModel {
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	if cfg.Audio == nil {
		cfg.Audio = starcore.NopAudio{}
	}
	if cfg.Player1 == "" {
		cfg.Player1 = "Player 1"
	}
	if cfg.Player2 == "" {
		cfg.Player2 = "Player 2"
	}
	if cfg.Runtime.TickRate <= 0 {
		cfg.Runtime.TickRate = 60
	}

	m := VersusModel{
		cfg:       cfg,
		store:     store,
		keyMapper: NewKeyMapper(),
		screen:    core.NewScreen(cfg.Runtime.ScreenW, cfg.Runtime.ScreenH),
		input:     [2]heldInput{newHeldInput(), newHeldInput()},
	}
	m.halves[0], m.halves[1] = core.NewScreen(0, 0), core.NewScreen(0, 0)
	m.resize(cfg.Runtime.ScreenW, cfg.Runtime.ScreenH)
	m.launch = m.start()
	return m
}

// Init runs the first duel.
func (m VersusModel) Init() tea.Cmd {
	return tea.Batch(m.launch, tickCmd(m.cfg.Runtime.TickRate))
}

// start sets up a fresh duel and returns the commands that run it.
func (m *VersusModel) start() tea.Cmd {
	rt := m.cfg.Runtime
	if rt.Seed == 0 || m.duel != nil {
		rt.Seed = time.Now().UnixNano()
	}

	p1, p2 := starstrike.New(), starstrike.New()
	for _, g := range []*starstrike.Game{p1, p2} {
		g.SetAudio(m.cfg.Audio)
		g.SetLogger(m.cfg.Logger)
	}
	p1.SetBalance(-sideBalance)
	p2.SetBalance(sideBalance)
	p2.SetVariant(1)

	id := multiplayer.NewMatchID()
	m.session = multiplayer.NewChannelSession(multiplayer.SessionID("local-"+string(id)), 64)
	m.duel = multiplayer.NewDuel(id, multiplayer.DuelConfig{
		GameID:        p1.ID(),
		Runtime:       rt,
		TimeLimit:     m.cfg.TimeLimit,
		SnapshotEvery: versusSnapshotEvery,
		Player1:       m.cfg.Player1,
		Player2:       m.cfg.Player2,
	}, duelSide{p1}, duelSide{p2}, m.session)
	m.duel.SetLogger(m.cfg.Logger)
	if m.store != nil {
		m.duel.SetResultSaver(m.store)
	}

	m.frames = [2]*starstrike.Frame{}
	m.ended = nil
	m.running = true
	m.started = time.Now()

	duel, session := m.duel, m.session
	run := func() tea.Msg {
		res, err := duel.Run(context.Background())
		session.Close()
		return duelDoneMsg{matchID: duel.ID(), result: res, err: err}
	}
	return tea.Batch(run, waitForSession(session))
}

// waitForSession returns a command that waits for the next duel event.
// Events still buffered when the session closes are delivered first.
func waitForSession(s *multiplayer.ChannelSession) tea.Cmd {
	return func() tea.Msg {
		select {
		case evt := <-s.Events():
			return evt
		case <-s.Done():
		}
		select {
		case evt := <-s.Events():
			return evt
		default:
			return nil
		}
	}
}

// Update handles messages.
func (m VersusModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case TickMsg:
		if m.running {
			m.sendInput()
		}
		return m, tickCmd(m.cfg.Runtime.TickRate)

	case multiplayer.SnapshotEvent:
		if m.duel == nil || msg.MatchID != m.duel.ID() {
			return m, nil
		}
		if f, ok := msg.Snapshot.(starstrike.Frame); ok && (msg.Player == core.Player1 || msg.Player == core.Player2) {
			m.frames[msg.Player-1] = &f
		}
		return m, waitForSession(m.session)

	case multiplayer.MatchStartedEvent:
		return m, waitForSession(m.session)

	case multiplayer.MatchEndedEvent:
		if m.duel != nil && msg.MatchID == m.duel.ID() {
			m.ended = &msg
		}
		return m, nil

	case duelDoneMsg:
		if m.duel == nil || msg.matchID != m.duel.ID() {
			return m, nil
		}
		m.running = false
		if msg.err != nil {
			m.cfg.Logger.Error("duel failed", "match", msg.matchID, "error", msg.err)
		}
		if m.ended == nil {
			m.ended = &multiplayer.MatchEndedEvent{
				MatchID: msg.matchID,
				Reason:  msg.result.Reason,
				Winner:  msg.result.Winner,
				Score1:  msg.result.Score1,
				Score2:  msg.result.Score2,
			}
		}
		if m.leaving {
			return m, tea.Quit
		}
		return m, nil
	}

	return m, nil
}

// sendInput forwards one tick of held keys to each side.
func (m *VersusModel) sendInput() {
	frame := core.NewMultiInputFrame()
	frame.SetPlayer(core.Player1, m.input[0].next())
	frame.SetPlayer(core.Player2, m.input[1].next())
	for _, p := range []core.PlayerID{core.Player1, core.Player2} {
		if in := frame.Player(p); len(in.Actions) > 0 {
			m.duel.SendInput(p, in)
		}
	}
}

func (m VersusModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if player, action := m.keyMapper.MapVersusKey(msg); player != 0 {
		if m.running {
			m.input[player-1].press(action)
		}
		return m, nil
	}

	action, isQuit := m.keyMapper.MapKey(msg)
	switch {
	case isQuit:
		m.quitting = true
		return m.leave()
	case action == core.ActionBack:
		m.backToMenu = true
		return m.leave()
	case action == core.ActionPause && m.running:
		m.input[0].press(core.ActionPause)
		m.input[1].press(core.ActionPause)
	case action == core.ActionRestart && !m.running && !m.leaving:
		cmd := m.start()
		return m, cmd
	}
	return m, nil
}

// leave stops a running duel and quits once its result is in.
func (m VersusModel) leave() (tea.Model, tea.Cmd) {
	if m.running {
		m.leaving = true
		m.duel.Stop()
		return m, nil
	}
	return m, tea.Quit
}

func (m *VersusModel) resize(w, h int) {
	m.cfg.Runtime.ScreenW = w
	m.cfg.Runtime.ScreenH = h
	m.screen.Resize(w, h)
	resizeSplit(m.halves, w, h)
}

// View renders both sides with a status line below.
func (m VersusModel) View() string {
	if m.quitting || (m.backToMenu && !m.running) {
		return ""
	}

	waiting := "Waiting for launch..."
	drawSplit(m.screen, m.halves, m.frames, [2]string{waiting, waiting})
	m.screen.DrawTextColored(1, m.screen.Height()-1, m.status(), core.ColorYellow)
	if m.ended != nil {
		m.drawResult()
	}
	return RenderScreen(m.screen)
}

func (m VersusModel) status() string {
	names := fmt.Sprintf("%s (A/D, Space)  vs  %s (arrows, Enter)", m.cfg.Player1, m.cfg.Player2)
	switch {
	case m.leaving:
		return names + "  |  stopping..."
	case !m.running || m.cfg.TimeLimit <= 0:
		return names
	}
	left := max(0, m.cfg.TimeLimit-time.Since(m.started))
	return fmt.Sprintf("%s  |  %d:%02d", names, int(left.Minutes()), int(left.Seconds())%60)
}

func (m VersusModel) drawResult() {
	drawMatchResult(m.screen, m.ended, m.cfg.Player1, m.cfg.Player2, "R: rematch  B: menu  Q: quit")
}

// drawMatchResult draws a centered box with the outcome of a match.
func drawMatchResult(dst *core.Screen, e *multiplayer.MatchEndedEvent, name1, name2, hint string) {
	title := "DRAW"
	switch e.Winner {
	case core.Player1:
		title = name1 + " WINS"
	case core.Player2:
		title = name2 + " WINS"
	}
	lines := []string{
		title,
		fmt.Sprintf("%s %d - %d %s", name1, e.Score1, e.Score2, name2),
		e.Reason.String(),
		hint,
	}

	w := 0
	for _, l := range lines {
		w = max(w, len([]rune(l)))
	}
	box := core.NewRect((dst.Width()-w-4)/2, (dst.Height()-len(lines)-2)/2, w+4, len(lines)+2)
	dst.DrawRect(box, ' ', core.ColorDefault)
	dst.DrawBox(box)
	for i, l := range lines {
		dst.DrawText(box.X+(box.W-len([]rune(l)))/2, box.Y+1+i, l)
	}
}

// drawSplit draws two views side by side with a divider between them.
func drawSplit(dst *core.Screen, halves [2]*core.Screen, frames [2]*starstrike.Frame, waiting [2]string) {
	dst.Clear()
	half := halves[0].Width()
	for i, h := range halves {
		if frames[i] == nil {
			h.Clear()
			h.DrawTextCentered(h.Height()/2, waiting[i])
		} else {
			starstrike.DrawFrame(h, *frames[i])
		}
		dst.Blit(h, i*(half+1), 0)
	}
	for y := range halves[0].Height() {
		dst.SetColored(half, y, '│', core.ColorGray)
	}
}

// resizeSplit sizes the two halves for a w by h terminal, leaving the
// last row for a status line.
func resizeSplit(halves [2]*core.Screen, w, h int) {
	for _, s := range halves {
		s.Resize(max(0, (w-1)/2), max(0, h-1))
	}
}

// Ended returns the last finished match, or nil.
func (m VersusModel) Ended() *multiplayer.MatchEndedEvent {
	if m.running {
		return nil
	}
	return m.ended
}

// IsQuitting returns true if user requested to quit entirely.
func (m VersusModel) IsQuitting() bool {
	return m.quitting && !m.running
}

// BackToMenu returns true once the user left for the menu.
func (m VersusModel) BackToMenu() bool {
	return m.backToMenu && !m.running
}

// RunVersus plays split-screen matches until the user leaves.
// Returns true when the user asked for the menu.
func RunVersus(store *storage.Store, cfg VersusConfig) (bool, error) {
	p := tea.NewProgram(NewVersusModel(store, cfg), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return false, err
	}
	m, ok := final.(VersusModel)
	return ok && m.BackToMenu(), nil
}
