package netplay

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// HostConfig configures a listening host.
type HostConfig struct {
	Address string // host:port, ":0" picks a free port
	GameID  string
	Seed    int64
	Name    string
	Logger  *log.Logger
}

// Host waits for a single opponent.
type Host struct {
	cfg      HostConfig
	matchID  string
	listener net.Listener
	server   *http.Server
	upgrader websocket.Upgrader
	logger   *log.Logger

	mu      sync.Mutex
	claimed bool
	joined  chan joined
}

type joined struct {
	peer     *Peer
	greeting Greeting
}

// Listen starts serving the websocket endpoint.
func Listen(cfg HostConfig) (*Host, error) {
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	ln, err := net.Listen("tcp", cfg.Address)
	if err != nil {
		return nil, fmt.Errorf("netplay: listen on %s: %w", cfg.Address, err)
	}

	h := &Host{
		cfg:      cfg,
		matchID:  uuid.NewString(),
		listener: ln,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin: func(*http.Request) bool {
				return true
			},
		},
		logger: cfg.Logger,
		joined: make(chan joined, 1),
	}

	mux := http.NewServeMux()
	mux.HandleFunc(Path, h.handle)
	h.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := h.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			h.logger.Error("netplay server error", "error", err)
		}
	}()
	h.logger.Info("waiting for opponent", "address", h.Addr(), "match", h.matchID)

	return h, nil
}

// Addr returns the address the host is listening on.
func (h *Host) Addr() string {
	return h.listener.Addr().String()
}

// MatchID returns the identifier shared with the opponent.
func (h *Host) MatchID() string {
	return h.matchID
}

// Accept blocks until an opponent completes the handshake or ctx ends.
func (h *Host) Accept(ctx context.Context) (*Peer, Greeting, error) {
	select {
	case j := <-h.joined:
		return j.peer, j.greeting, nil
	case <-ctx.Done():
		return nil, Greeting{}, ctx.Err()
	}
}

// Close stops accepting connections. Established peers stay open.
func (h *Host) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), writeWait)
	defer cancel()
	return h.server.Shutdown(ctx)
}

func (h *Host) handle(w http.ResponseWriter, r *http.Request) {
	if !h.claim() {
		http.Error(w, ErrHostBusy.Error(), http.StatusConflict)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("upgrade failed", "remote", r.RemoteAddr, "error", err)
		h.release()
		return
	}

	g, err := h.handshake(conn)
	if err != nil {
		h.logger.Warn("handshake failed", "remote", r.RemoteAddr, "error", err)
		h.release()
		msg := websocket.FormatCloseMessage(websocket.CloseProtocolError, err.Error())
		conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait)) //nolint:errcheck
		conn.Close()
		return
	}

	peer := newPeer(conn, h.logger)
	peer.start()
	h.logger.Info("opponent joined", "name", g.Opponent, "remote", r.RemoteAddr)
	h.joined <- joined{peer: peer, greeting: g}
}

// handshake reads the joiner's hello and answers with the match settings.
func (h *Host) handshake(conn *websocket.Conn) (Greeting, error) {
	conn.SetReadDeadline(time.Now().Add(writeWait)) //nolint:errcheck
	var in Message
	if err := conn.ReadJSON(&in); err != nil {
		return Greeting{}, fmt.Errorf("read hello: %w", err)
	}
	if err := checkHello(in); err != nil {
		return Greeting{}, err
	}

	g := Greeting{
		MatchID:  h.matchID,
		GameID:   h.cfg.GameID,
		Seed:     h.cfg.Seed,
		Opponent: in.Name,
	}
	conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck
	if err := conn.WriteJSON(hello(g, h.cfg.Name)); err != nil {
		return Greeting{}, fmt.Errorf("write hello: %w", err)
	}
	return g, nil
}

func (h *Host) claim() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.claimed {
		return false
	}
	h.claimed = true
	return true
}

func (h *Host) release() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.claimed = false
}
