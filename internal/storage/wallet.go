package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrInsufficientCoins is returned when a wallet cannot cover a spend.
var ErrInsufficientCoins = errors.New("storage: insufficient coins")

// Wallet is a player's coin balance.
type Wallet struct {
	Player    string
	Coins     int
	UpdatedAt time.Time
}

// Balance returns the player's coins, 0 for an unknown player.
func (s *Store) Balance(player string) (int, error) {
	var coins int
	err := s.db.QueryRow("SELECT coins FROM wallets WHERE player = ?", player).Scan(&coins)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query balance: %w", err)
	}
	return coins, nil
}

// Deposit adds coins to the player's wallet and returns the new balance.
func (s *Store) Deposit(player string, coins int) (int, error) {
	if coins < 0 {
		return 0, fmt.Errorf("storage: negative deposit %d", coins)
	}
	return s.adjust(player, coins)
}

// Spend removes coins from the player's wallet and returns the new
// balance. Fails with ErrInsufficientCoins when the balance is too low.
func (s *Store) Spend(player string, coins int) (int, error) {
	if coins < 0 {
		return 0, fmt.Errorf("storage: negative spend %d", coins)
	}
	return s.adjust(player, -coins)
}

func (s *Store) adjust(player string, delta int) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	var coins int
	err = tx.QueryRow("SELECT coins FROM wallets WHERE player = ?", player).Scan(&coins)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("storage: cannot query balance: %w", err)
	}

	coins += delta
	if coins < 0 {
		return 0, ErrInsufficientCoins
	}

	_, err = tx.Exec(
		`INSERT INTO wallets (player, coins, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(player) DO UPDATE SET coins = excluded.coins, updated_at = excluded.updated_at`,
		player, coins,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot update wallet: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("storage: cannot commit wallet: %w", err)
	}
	return coins, nil
}

// Wallets lists every wallet, richest first.
func (s *Store) Wallets() ([]Wallet, error) {
	rows, err := s.db.Query(`SELECT player, coins, updated_at FROM wallets ORDER BY coins DESC, player ASC`)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query wallets: %w", err)
	}
	defer rows.Close()

	var wallets []Wallet
	for rows.Next() {
		var w Wallet
		var updatedAt any
		if err := rows.Scan(&w.Player, &w.Coins, &updatedAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		w.UpdatedAt = parseTime(updatedAt)
		wallets = append(wallets, w)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return wallets, nil
}
