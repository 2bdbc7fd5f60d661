package tui

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/starstrike/internal/core"
	"github.com/vovakirdan/starstrike/internal/multiplayer"
	"github.com/vovakirdan/starstrike/internal/netplay"
)

func netPair(t *testing.T) (host, guest *netplay.Peer, hostG netplay.Greeting) {
	t.Helper()
	quiet := log.New(io.Discard)
	h, err := netplay.Listen(netplay.HostConfig{Address: "127.0.0.1:0", GameID: "starstrike", Seed: 77, Name: "ann", Logger: quiet})
	if err != nil {
		t.Fatalf("Listen() failed: %v", err)
	}
	t.Cleanup(func() { h.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	guest, _, err = netplay.Join(ctx, h.Addr(), "bob", quiet)
	if err != nil {
		t.Fatalf("Join() failed: %v", err)
	}
	host, hostG, err = h.Accept(ctx)
	if err != nil {
		t.Fatalf("Accept() failed: %v", err)
	}
	t.Cleanup(func() {
		guest.Close()
		host.Close()
	})
	return host, guest, hostG
}

// pump runs cmd with a timeout and feeds its message to m.
func pump(t *testing.T, m tea.Model, cmd tea.Cmd) (tea.Model, tea.Msg) {
	t.Helper()
	out := make(chan tea.Msg, 1)
	go func() { out <- cmd() }()
	select {
	case msg := <-out:
		next, _ := m.Update(msg)
		return next, msg
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for the peer")
	}
	return m, nil
}

func TestNetModelSendsFrames(t *testing.T) {
	host, guest, hostG := netPair(t)
	m := NewNetModel(host, hostG, nil, NetConfig{
		Runtime: core.RuntimeConfig{ScreenW: 100, ScreenH: 30, TickRate: 60},
		Player:  "ann",
		Host:    true,
	})

	var model tea.Model = m
	for range netFrameEvery {
		model, _ = model.Update(TickMsg{})
	}

	select {
	case msg := <-guest.Messages():
		if msg.Type != netplay.MsgFrame || msg.Frame == nil || msg.Frame.Tick != netFrameEvery {
			t.Errorf("guest got %+v", msg)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no frame reached the guest")
	}

	if !strings.Contains(model.View(), "Waiting for bob") {
		t.Error("opponent half should wait for the first frame")
	}
}

func TestNetModelHostRecordsResult(t *testing.T) {
	host, guest, hostG := netPair(t)
	store := openStore(t)
	m := NewNetModel(host, hostG, store, NetConfig{
		Runtime: core.RuntimeConfig{ScreenW: 100, ScreenH: 30, TickRate: 60},
		Player:  "ann",
		Host:    true,
	})

	var model tea.Model = m
	guest.Post(netplay.OverMessage(50))
	model, msg := pump(t, model, m.waitForPeer())
	if _, ok := msg.(peerMsg); !ok {
		t.Fatalf("expected a peer message, got %T", msg)
	}
	if nm := model.(NetModel); !nm.remoteOver || nm.remoteScore != 50 || nm.Ended() != nil {
		t.Fatalf("remote over=%v score=%d", nm.remoteOver, nm.remoteScore)
	}

	// The restart key must not reset a seeded network game.
	model, _ = model.Update(keyMsg("r"))

	guest.Close()
	model, msg = pump(t, model, m.waitForPeer())
	if _, ok := msg.(peerGoneMsg); !ok {
		t.Fatalf("expected the peer to be gone, got %T", msg)
	}

	ended := model.(NetModel).Ended()
	if ended == nil || ended.Reason != multiplayer.MatchEndReasonDisconnect || ended.Winner != multiplayer.Player2 {
		t.Fatalf("Ended() = %+v", ended)
	}
	rec, err := store.DuelByID(hostG.MatchID)
	if err != nil || rec == nil {
		t.Fatalf("DuelByID() = %v, %v", rec, err)
	}
	if rec.Player1 != "ann" || rec.Player2 != "bob" || rec.Score2 != 50 || rec.Winner != 2 {
		t.Errorf("saved duel = %+v", rec)
	}
	if !strings.Contains(model.View(), "Opponent disconnected") {
		t.Error("view should show the disconnect")
	}
}
