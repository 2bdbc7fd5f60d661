package multiplayer

// SessionEvent is an event sent from a running duel to a session.
type SessionEvent interface {
	sessionEvent()
}

// MatchStartedEvent is sent once both games have been reset.
type MatchStartedEvent struct {
	MatchID MatchID
	Seed    int64
}

func (MatchStartedEvent) sessionEvent() {}

// SnapshotEvent carries one side's view to the session.
type SnapshotEvent struct {
	MatchID  MatchID
	Player   PlayerID
	Tick     uint64
	Snapshot GameSnapshot
}

func (SnapshotEvent) sessionEvent() {}

// MatchEndedEvent is sent when the match ends.
type MatchEndedEvent struct {
	MatchID MatchID
	Reason  MatchEndReason
	Winner  PlayerID // 0 on a draw
	Score1  int
	Score2  int
}

func (MatchEndedEvent) sessionEvent() {}

// MatchEndReason describes why a match ended.
type MatchEndReason int

const (
	MatchEndReasonCompleted  MatchEndReason = iota // both games over
	MatchEndReasonTimeUp                           // time limit reached
	MatchEndReasonCancelled                        // stopped by the owner
	MatchEndReasonDisconnect                       // session went away
)

func (r MatchEndReason) String() string {
	switch r {
	case MatchEndReasonCompleted:
		return "Match completed"
	case MatchEndReasonTimeUp:
		return "Time up"
	case MatchEndReasonCancelled:
		return "Match cancelled"
	case MatchEndReasonDisconnect:
		return "Opponent disconnected"
	default:
		return "Unknown"
	}
}

// GameSnapshot is the interface for game-specific snapshot data.
type GameSnapshot interface {
	IsGameSnapshot() // Marker method for type safety
}
