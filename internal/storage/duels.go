package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/starstrike/internal/multiplayer"
)

// DuelRecord is the stored outcome of a two-player match.
type DuelRecord struct {
	ID        int64
	MatchID   string
	GameID    string
	Player1   string
	Player2   string
	Score1    int
	Score2    int
	Winner    int // 1 or 2, 0 on a draw
	EndReason string
	Duration  int // seconds
	CreatedAt time.Time
}

const duelColumns = `id, match_id, game_id, player1, player2, score1, score2, winner, end_reason, duration_secs, created_at`

// SaveDuel records a duel result. Returns the ID of the inserted record.
func (s *Store) SaveDuel(d DuelRecord) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO duels
		 (match_id, game_id, player1, player2, score1, score2, winner, end_reason, duration_secs)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.MatchID, d.GameID, d.Player1, d.Player2, d.Score1, d.Score2, d.Winner, d.EndReason, d.Duration,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save duel: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

// DuelByID retrieves a duel by its match ID. Returns nil if not found.
func (s *Store) DuelByID(matchID string) (*DuelRecord, error) {
	rows, err := s.db.Query(`SELECT `+duelColumns+` FROM duels WHERE match_id = ?`, matchID)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query duel: %w", err)
	}
	duels, err := scanDuels(rows)
	if err != nil {
		return nil, err
	}
	if len(duels) == 0 {
		return nil, nil
	}
	return &duels[0], nil
}

// RecentDuels retrieves the most recent duels.
func (s *Store) RecentDuels(limit int) ([]DuelRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(
		`SELECT `+duelColumns+` FROM duels ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query duels: %w", err)
	}
	return scanDuels(rows)
}

// PlayerDuels retrieves duel history for one player on either side.
func (s *Store) PlayerDuels(player string, limit int) ([]DuelRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(
		`SELECT `+duelColumns+`
		 FROM duels
		 WHERE player1 = ? OR player2 = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		player, player, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query player duels: %w", err)
	}
	return scanDuels(rows)
}

func scanDuels(rows *sql.Rows) ([]DuelRecord, error) {
	defer rows.Close()

	var duels []DuelRecord
	for rows.Next() {
		var d DuelRecord
		var createdAt any
		if err := rows.Scan(
			&d.ID, &d.MatchID, &d.GameID, &d.Player1, &d.Player2,
			&d.Score1, &d.Score2, &d.Winner, &d.EndReason, &d.Duration, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		d.CreatedAt = parseTime(createdAt)
		duels = append(duels, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return duels, nil
}

// ErrDuplicateMatch is returned when a match ID was already saved.
var ErrDuplicateMatch = errors.New("storage: duplicate match")

// SaveMatchResult implements multiplayer.MatchResultSaver.
func (s *Store) SaveMatchResult(data multiplayer.MatchResultData) error {
	existing, err := s.DuelByID(data.MatchID)
	if err != nil {
		return err
	}
	if existing != nil {
		return fmt.Errorf("%w: %s", ErrDuplicateMatch, data.MatchID)
	}

	_, err = s.SaveDuel(DuelRecord{
		MatchID:   data.MatchID,
		GameID:    data.GameID,
		Player1:   data.Player1,
		Player2:   data.Player2,
		Score1:    data.Score1,
		Score2:    data.Score2,
		Winner:    data.Winner,
		EndReason: data.EndReason,
		Duration:  data.DurationSecs,
	})
	return err
}

// Ensure Store implements MatchResultSaver
var _ multiplayer.MatchResultSaver = (*Store)(nil)
