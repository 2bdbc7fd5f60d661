package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/google/uuid"

	"github.com/vovakirdan/starstrike/internal/core"
	"github.com/vovakirdan/starstrike/internal/multiplayer"
	"github.com/vovakirdan/starstrike/internal/registry"
	"github.com/vovakirdan/starstrike/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.starstrike/host_key.
	HostKeyPath string

	// DBPath is the path to the scores database.
	DBPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// TickRate is the simulation rate for every session.
	TickRate int

	// VersusTimeLimit caps split-screen matches. 0 means no limit.
	VersusTimeLimit time.Duration

	Logger *log.Logger
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:         ":23234",
		DBPath:          "~/.starstrike/starstrike.db",
		IdleTimeout:     30 * time.Minute,
		TickRate:        60,
		VersusTimeLimit: 3 * time.Minute,
	}
}

// sessionIDKey stores the session ID in the SSH context.
type sessionIDKey struct{}

// SSHServer wraps a Wish SSH server for the game.
type SSHServer struct {
	config   SSHServerConfig
	server   *ssh.Server
	store    *storage.Store
	sessions *multiplayer.SessionRegistry
	logger   *log.Logger
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "starstrike-ssh",
		})
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = 60
	}

	// Open storage
	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("could not open scores database", "error", err)
		// Continue without storage
		store = nil
	}

	srv := &SSHServer{
		config:   cfg,
		store:    store,
		sessions: multiplayer.NewSessionRegistry(),
		logger:   logger,
	}

	// Resolve host key path
	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".starstrike", "host_key")
	}

	if mkdirErr := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	server, err := wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.sessionMiddleware,
		),
	)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	cfg := core.RuntimeConfig{
		ScreenW:  pty.Window.Width,
		ScreenH:  pty.Window.Height,
		TickRate: s.config.TickRate,
		Seed:     time.Now().UnixNano(),
	}

	id, _ := sshSession.Context().Value(sessionIDKey{}).(multiplayer.SessionID)
	model := NewSessionModel(s.store, cfg, sshSession.User(), id).
		WithLogger(s.logger.With("user", sshSession.User())).
		WithVersusTimeLimit(s.config.VersusTimeLimit)

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// sessionMiddleware tracks connected sessions and logs their lifetime.
func (s *SSHServer) sessionMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		id := multiplayer.SessionID(sshSession.User() + "-" + uuid.NewString()[:8])
		sshSession.Context().SetValue(sessionIDKey{}, id)

		handle := multiplayer.NewChannelSession(id, 1)
		s.sessions.Register(handle)
		defer func() {
			handle.Close()
			s.sessions.Unregister(id)
			s.logger.Info("session ended",
				"user", sshSession.User(),
				"session", id,
				"active", s.sessions.Count(),
			)
		}()

		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
			"session", id,
			"active", s.sessions.Count(),
		)
		next(sshSession)
	}
}

// ListenAndServe starts the SSH server and blocks until shutdown.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	<-done
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := s.server.Shutdown(ctx)
	if s.store != nil {
		s.store.Close()
	}
	return err
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// screenModel is a full-screen view the session can switch to.
type screenModel interface {
	tea.Model
	BackToMenu() bool
	IsQuitting() bool
}

// SessionModel manages a whole session: menu, then a game, a versus
// match or the scoreboard, then back to the menu.
type SessionModel struct {
	store     *storage.Store
	config    core.RuntimeConfig
	username  string
	sessionID multiplayer.SessionID
	timeLimit time.Duration
	logger    *log.Logger
	menu      MenuModel
	active    screenModel
	match     *multiplayer.Match
	quitting  bool
}

// NewSessionModel creates a new session model.
func NewSessionModel(store *storage.Store, cfg core.RuntimeConfig, username string, id multiplayer.SessionID) SessionModel {
	if id == "" {
		id = multiplayer.SessionID(username + "-" + uuid.NewString()[:8])
	}
	return SessionModel{
		store:     store,
		config:    cfg,
		username:  username,
		sessionID: id,
		logger:    log.Default(),
		menu:      NewMenuModel(store, cfg, username),
	}
}

// WithLogger returns the model logging to l.
func (m SessionModel) WithLogger(l *log.Logger) SessionModel {
	m.logger = l
	return m
}

// WithVersusTimeLimit returns the model with a cap on versus matches.
func (m SessionModel) WithVersusTimeLimit(d time.Duration) SessionModel {
	m.timeLimit = d
	return m
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	if m.active != nil {
		return m.updateActive(msg)
	}
	return m.updateMenu(msg)
}

// updateMenu handles updates when in menu mode.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	switch {
	case m.menu.IsQuitting():
		m.quitting = true
		return m, tea.Quit

	case m.menu.WantsScoreboard():
		m.active = NewScoreboardModel(m.store, m.config.ScreenW, m.config.ScreenH)
		return m, m.active.Init()

	case m.menu.Selected() != nil:
		return m.start(*m.menu.Selected())
	}

	return m, cmd
}

// start switches to the selected game or match.
func (m SessionModel) start(item MenuItem) (tea.Model, tea.Cmd) {
	m.config = m.menu.Config()
	m.config.Seed = time.Now().UnixNano()
	m.match = multiplayer.NewMatch(multiplayer.NewMatchID(), item.Mode, m.sessionID)

	switch item.Mode {
	case multiplayer.MatchModeVersus:
		m.active = NewVersusModel(m.store, VersusConfig{
			Runtime:   m.config,
			TimeLimit: m.timeLimit,
			Player1:   m.username,
			Player2:   m.username + " (2)",
			Logger:    m.logger,
		})
	default:
		game, err := registry.Create(item.GameID)
		if err != nil {
			m.logger.Warn("unknown game", "game", item.GameID, "error", err)
			m.menu = NewMenuModel(m.store, m.config, m.username)
			return m, nil
		}
		m.active = NewModel(game, m.store, m.config, m.username).WithLogger(m.logger)
	}

	m.logger.Info("match started", "match", m.match.ID(), "mode", m.match.Mode(), "game", item.GameID, "sessions", m.match.Sessions())
	return m, m.active.Init()
}

// updateActive forwards messages to the active view and returns to the
// menu when it is done.
func (m SessionModel) updateActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.active.Update(msg)
	if sm, ok := next.(screenModel); ok {
		m.active = sm
	}

	if m.active.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.active.BackToMenu() {
		m.active = nil
		m.match = nil
		m.menu = NewMenuModel(m.store, m.config, m.username)
		return m, m.menu.Init()
	}

	return m, cmd
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}
	if m.active != nil {
		return m.active.View()
	}
	return m.menu.View()
}
