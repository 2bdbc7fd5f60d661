package netplay

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

// Join connects to a host at addr (host:port) and completes the handshake.
func Join(ctx context.Context, addr, name string, logger *log.Logger) (*Peer, Greeting, error) {
	if logger == nil {
		logger = log.Default()
	}
	u := url.URL{Scheme: "ws", Host: addr, Path: Path}

	dialer := websocket.Dialer{HandshakeTimeout: writeWait}
	conn, resp, err := dialer.DialContext(ctx, u.String(), nil)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusConflict {
			return nil, Greeting{}, ErrHostBusy
		}
		return nil, Greeting{}, fmt.Errorf("netplay: dial %s: %w", u.String(), err)
	}

	g, err := greet(conn, name)
	if err != nil {
		conn.Close()
		return nil, Greeting{}, err
	}

	peer := newPeer(conn, logger)
	peer.start()
	logger.Info("joined match", "match", g.MatchID, "host", g.Opponent)
	return peer, g, nil
}

func greet(conn *websocket.Conn, name string) (Greeting, error) {
	conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck
	if err := conn.WriteJSON(hello(Greeting{}, name)); err != nil {
		return Greeting{}, fmt.Errorf("netplay: write hello: %w", err)
	}

	conn.SetReadDeadline(time.Now().Add(writeWait)) //nolint:errcheck
	var in Message
	if err := conn.ReadJSON(&in); err != nil {
		var ce *websocket.CloseError
		if errors.As(err, &ce) && ce.Code == websocket.CloseProtocolError {
			if ce.Text == ErrVersionMismatch.Error() {
				return Greeting{}, ErrVersionMismatch
			}
			return Greeting{}, fmt.Errorf("netplay: host refused: %s", ce.Text)
		}
		return Greeting{}, fmt.Errorf("netplay: read hello: %w", err)
	}
	if err := checkHello(in); err != nil {
		return Greeting{}, err
	}

	return Greeting{
		MatchID:  in.MatchID,
		GameID:   in.GameID,
		Seed:     in.Seed,
		Opponent: in.Name,
	}, nil
}
