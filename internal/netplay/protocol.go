// Package netplay links two players over a websocket. Each side runs its
// own game with a shared seed and streams frames to the other; the remote
// view is display only.
package netplay

import (
	"errors"

	"github.com/vovakirdan/starstrike/internal/games/starstrike"
)

// ProtocolVersion is bumped on any incompatible message change.
const ProtocolVersion = 1

// Path is the websocket endpoint served by the host.
const Path = "/play"

// MessageType tags a wire message.
type MessageType string

const (
	MsgHello MessageType = "hello" // handshake, both directions
	MsgFrame MessageType = "frame" // periodic view of the sender's game
	MsgOver  MessageType = "over"  // sender's game ended
)

// Message is the single JSON envelope used on the wire.
type Message struct {
	Ver     int               `json:"ver"`
	Type    MessageType       `json:"type"`
	MatchID string            `json:"match,omitempty"`
	GameID  string            `json:"game,omitempty"`
	Name    string            `json:"name,omitempty"`
	Seed    int64             `json:"seed,omitempty"`
	Frame   *starstrike.Frame `json:"frame,omitempty"`
	Score   int               `json:"score,omitempty"`
}

// Greeting is what each side learns during the handshake.
type Greeting struct {
	MatchID  string
	GameID   string
	Seed     int64
	Opponent string
}

var (
	// ErrVersionMismatch is returned when the peers speak different protocols.
	ErrVersionMismatch = errors.New("netplay: protocol version mismatch")

	// ErrHostBusy is returned when the host already has an opponent.
	ErrHostBusy = errors.New("netplay: host already has an opponent")

	// ErrBadHandshake is returned when the first message is not a hello.
	ErrBadHandshake = errors.New("netplay: expected hello")
)

// FrameMessage wraps a frame for sending.
func FrameMessage(f starstrike.Frame) Message {
	return Message{Ver: ProtocolVersion, Type: MsgFrame, Frame: &f}
}

// OverMessage announces the sender's final score.
func OverMessage(score int) Message {
	return Message{Ver: ProtocolVersion, Type: MsgOver, Score: score}
}

func hello(g Greeting, name string) Message {
	return Message{
		Ver:     ProtocolVersion,
		Type:    MsgHello,
		MatchID: g.MatchID,
		GameID:  g.GameID,
		Name:    name,
		Seed:    g.Seed,
	}
}

func checkHello(m Message) error {
	if m.Type != MsgHello {
		return ErrBadHandshake
	}
	if m.Ver != ProtocolVersion {
		return ErrVersionMismatch
	}
	return nil
}
