// Package multiplayer runs two-player matches. A duel pairs two isolated
// games that share a seed and compare scores when both are over.
package multiplayer

import (
	"github.com/google/uuid"

	"github.com/vovakirdan/starstrike/internal/core"
)

// PlayerID is an alias to core.PlayerID for convenience.
type PlayerID = core.PlayerID

// Re-export player constants for convenience.
const (
	Player1 = core.Player1
	Player2 = core.Player2
)

// SessionID uniquely identifies a player's session (e.g., SSH connection).
type SessionID string

// MatchID uniquely identifies a game match.
type MatchID string

// MatchMode defines how a game match is configured.
type MatchMode int

const (
	// MatchModeSolo is a single-player run.
	MatchModeSolo MatchMode = iota

	// MatchModeVersus is two players sharing one keyboard.
	MatchModeVersus

	// MatchModeNet is two players on separate machines.
	MatchModeNet
)

// String returns a human-readable name for the match mode.
func (m MatchMode) String() string {
	switch m {
	case MatchModeSolo:
		return "Solo"
	case MatchModeVersus:
		return "Versus"
	case MatchModeNet:
		return "Net"
	default:
		return "Unknown"
	}
}

// MatchHandle provides access to match metadata.
type MatchHandle interface {
	ID() MatchID
	Mode() MatchMode
}

// Match is a concrete implementation of MatchHandle.
type Match struct {
	id   MatchID
	mode MatchMode

	// SessionIDs tracks which sessions are part of this match.
	SessionIDs []SessionID
}

// NewMatch creates a new match with the given parameters.
func NewMatch(id MatchID, mode MatchMode, sessions ...SessionID) *Match {
	return &Match{
		id:         id,
		mode:       mode,
		SessionIDs: sessions,
	}
}

// NewMatchID returns a random match identifier.
func NewMatchID() MatchID {
	return MatchID(uuid.NewString())
}

// ID returns the match identifier.
func (m *Match) ID() MatchID {
	return m.id
}

// Mode returns the match mode.
func (m *Match) Mode() MatchMode {
	return m.mode
}

// Sessions returns the session IDs participating in this match.
func (m *Match) Sessions() []SessionID {
	return m.SessionIDs
}
