package tui

import (
	"errors"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/starstrike/internal/core"
	"github.com/vovakirdan/starstrike/internal/games/starstrike"
	starcore "github.com/vovakirdan/starstrike/internal/games/starstrike/core"
	"github.com/vovakirdan/starstrike/internal/multiplayer"
	"github.com/vovakirdan/starstrike/internal/netplay"
	"github.com/vovakirdan/starstrike/internal/storage"
)

// netFrameEvery is how often, in ticks, the local view goes to the peer.
const netFrameEvery = 3

// peerMsg carries one message from the opponent.
type peerMsg struct {
	msg netplay.Message
}

// peerGoneMsg is sent once the connection has ended.
type peerGoneMsg struct {
	err error
}

// NetConfig configures a network match.
type NetConfig struct {
	Runtime core.RuntimeConfig
	Player  string

	// Host is true on the side that accepted the connection. Only the
	// host records the result.
	Host bool

	Audio  starcore.AudioSink
	Logger *log.Logger
}

// NetModel plays a local game against a remote one. Each machine runs
// its own simulation from the shared seed; only views cross the wire.
type NetModel struct {
	cfg       NetConfig
	peer      *netplay.Peer
	greeting  netplay.Greeting
	store     *storage.Store
	game      *starstrike.Game
	keyMapper *KeyMapper
	input     heldInput
	screen    *core.Screen
	halves    [2]*core.Screen

	local       starstrike.Frame
	remote      *starstrike.Frame
	remoteOver  bool
	remoteScore int
	sentOver    bool
	peerGone    bool
	ended       *multiplayer.MatchEndedEvent

	quitting   bool
	backToMenu bool
}

// NewNetModel creates a network match model over an established peer.
func NewNetModel(peer *netplay.Peer, g netplay.Greeting, store *storage.Store, cfg NetConfig) NetModel {
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	if cfg.Audio == nil {
		cfg.Audio = starcore.NopAudio{}
	}
	if cfg.Runtime.TickRate <= 0 {
		cfg.Runtime.TickRate = 60
	}
	cfg.Runtime.Seed = g.Seed

	game := starstrike.New()
	game.SetAudio(cfg.Audio)
	game.SetLogger(cfg.Logger)
	if !cfg.Host {
		game.SetVariant(1)
	}
	game.Reset(cfg.Runtime)

	m := NetModel{
		cfg:       cfg,
		peer:      peer,
		greeting:  g,
		store:     store,
		game:      game,
		keyMapper: NewKeyMapper(),
		input:     newHeldInput(),
		screen:    core.NewScreen(cfg.Runtime.ScreenW, cfg.Runtime.ScreenH),
		halves:    [2]*core.Screen{core.NewScreen(0, 0), core.NewScreen(0, 0)},
		local:     game.Frame(),
	}
	resizeSplit(m.halves, cfg.Runtime.ScreenW, cfg.Runtime.ScreenH)
	return m
}

// Init starts the tick loop and the peer reader.
func (m NetModel) Init() tea.Cmd {
	return tea.Batch(tickCmd(m.cfg.Runtime.TickRate), m.waitForPeer())
}

// waitForPeer returns a command that waits for the next peer message.
func (m NetModel) waitForPeer() tea.Cmd {
	peer := m.peer
	return func() tea.Msg {
		msg, ok := <-peer.Messages()
		if !ok {
			return peerGoneMsg{err: peer.Err()}
		}
		return peerMsg{msg: msg}
	}
}

// Update handles messages.
func (m NetModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.cfg.Runtime.ScreenW = msg.Width
		m.cfg.Runtime.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		resizeSplit(m.halves, msg.Width, msg.Height)
		return m, nil

	case TickMsg:
		return m.handleTick()

	case peerMsg:
		switch msg.msg.Type {
		case netplay.MsgFrame:
			if msg.msg.Frame != nil {
				m.remote = msg.msg.Frame
			}
		case netplay.MsgOver:
			m.remoteOver = true
			m.remoteScore = msg.msg.Score
		}
		m.checkEnd()
		return m, m.waitForPeer()

	case peerGoneMsg:
		m.peerGone = true
		if msg.err != nil {
			m.cfg.Logger.Warn("connection lost", "error", msg.err)
		}
		if m.ended == nil {
			m.finish(multiplayer.MatchEndReasonDisconnect)
		}
		return m, nil
	}

	return m, nil
}

func (m NetModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action, isQuit := m.keyMapper.MapKey(msg)
	switch {
	case isQuit:
		m.quitting = true
		return m.leave()
	case action == core.ActionBack:
		m.backToMenu = true
		return m.leave()
	case action == core.ActionRestart:
		// A new run would desync the shared seed.
		return m, nil
	}
	m.input.press(action)
	return m, nil
}

func (m NetModel) leave() (tea.Model, tea.Cmd) {
	if m.ended == nil {
		m.finish(multiplayer.MatchEndReasonCancelled)
	}
	//nolint:errcheck // Closing is best effort on the way out
	m.peer.Close()
	return m, tea.Quit
}

func (m NetModel) handleTick() (tea.Model, tea.Cmd) {
	res := m.game.Step(m.input.next())
	m.local = m.game.Frame()

	if !m.peerGone {
		if res.State.GameOver || m.local.Tick%netFrameEvery == 0 {
			m.peer.Post(netplay.FrameMessage(m.local))
		}
		if res.State.GameOver && !m.sentOver {
			m.peer.Post(netplay.OverMessage(res.State.Score))
			m.sentOver = true
		}
	}
	m.checkEnd()
	return m, tickCmd(m.cfg.Runtime.TickRate)
}

// checkEnd finishes the match once both games are over.
func (m *NetModel) checkEnd() {
	if m.ended == nil && m.sentOver && m.remoteOver {
		m.finish(multiplayer.MatchEndReasonCompleted)
	}
}

// seat returns the local player's seat. The host is always player one.
func (m *NetModel) seat() core.PlayerID {
	if m.cfg.Host {
		return core.Player1
	}
	return core.Player2
}

// scores returns the scores as player one, player two.
func (m *NetModel) scores() (int, int) {
	var by [3]int
	by[m.seat()] = m.game.State().Score
	remote := m.remoteScore
	if !m.remoteOver && m.remote != nil {
		remote = m.remote.HUD.Score
	}
	by[m.seat().Opponent()] = remote
	return by[core.Player1], by[core.Player2]
}

func (m *NetModel) names() (string, string) {
	var by [3]string
	by[m.seat()] = m.cfg.Player
	by[m.seat().Opponent()] = m.greeting.Opponent
	return by[core.Player1], by[core.Player2]
}

func (m *NetModel) finish(reason multiplayer.MatchEndReason) {
	s1, s2 := m.scores()
	winner := multiplayer.PlayerID(0)
	switch {
	case s1 > s2:
		winner = multiplayer.Player1
	case s2 > s1:
		winner = multiplayer.Player2
	}
	m.ended = &multiplayer.MatchEndedEvent{
		MatchID: multiplayer.MatchID(m.greeting.MatchID),
		Reason:  reason,
		Winner:  winner,
		Score1:  s1,
		Score2:  s2,
	}
	m.cfg.Logger.Info("network match ended", "match", m.greeting.MatchID, "reason", reason, "score1", s1, "score2", s2)

	if !m.cfg.Host || m.store == nil {
		return
	}
	n1, n2 := m.names()
	err := m.store.SaveMatchResult(multiplayer.MatchResultData{
		MatchID:      m.greeting.MatchID,
		GameID:       m.greeting.GameID,
		Player1:      n1,
		Player2:      n2,
		Score1:       s1,
		Score2:       s2,
		Winner:       int(winner),
		EndReason:    reason.String(),
		DurationSecs: int(m.game.Elapsed().Seconds()),
	})
	if err != nil && !errors.Is(err, storage.ErrDuplicateMatch) {
		m.cfg.Logger.Warn("could not save match result", "match", m.greeting.MatchID, "error", err)
	}
}

// View renders the local game on the left and the opponent on the right.
func (m NetModel) View() string {
	if m.quitting || m.backToMenu {
		return ""
	}

	local := m.local
	waiting := "Waiting for " + m.greeting.Opponent + "..."
	if m.peerGone && m.remote == nil {
		waiting = "Opponent disconnected"
	}
	drawSplit(m.screen, m.halves, [2]*starstrike.Frame{&local, m.remote}, [2]string{"", waiting})

	status := "You: " + m.cfg.Player + "  |  Opponent: " + m.greeting.Opponent
	switch {
	case m.sentOver && !m.remoteOver && !m.peerGone:
		status += "  |  waiting for opponent to finish"
	case m.peerGone:
		status += "  |  disconnected"
	}
	m.screen.DrawTextColored(1, m.screen.Height()-1, status, core.ColorYellow)

	if m.ended != nil {
		n1, n2 := m.names()
		drawMatchResult(m.screen, m.ended, n1, n2, "B: menu  Q: quit")
	}
	return RenderScreen(m.screen)
}

// Ended returns the match outcome, or nil while it is still running.
func (m NetModel) Ended() *multiplayer.MatchEndedEvent {
	return m.ended
}

// IsQuitting returns true if user requested to quit entirely.
func (m NetModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m NetModel) BackToMenu() bool {
	return m.backToMenu
}

// RunNet plays one network match over peer.
func RunNet(peer *netplay.Peer, g netplay.Greeting, store *storage.Store, cfg NetConfig) error {
	p := tea.NewProgram(NewNetModel(peer, g, store, cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
