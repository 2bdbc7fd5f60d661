package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/starstrike/internal/registry"
	"github.com/vovakirdan/starstrike/internal/storage"
)

var (
	flagDuels  bool
	flagLimit  int
	flagPlayer string
	flagStats  bool
	flagAll    bool
	flagClear  bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [game]",
	Short: "Show high scores or duel results",
	Long: `Display the top high scores for a game, recent duels, or per-game
statistics.

Examples:
  starstrike scores
  starstrike scores starstrike_hard --limit 20
  starstrike scores --duels
  starstrike scores --duels --player ann
  starstrike scores --all
  starstrike scores --stats
  starstrike scores --stats starstrike_hard
  starstrike scores --clear starstrike_hard`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagDuels, "duels", false, "Show recent duels instead of high scores")
	scoresCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of rows to show")
	scoresCmd.Flags().StringVar(&flagPlayer, "player", "", "Only show duels with this player")
	scoresCmd.Flags().BoolVar(&flagStats, "stats", false, "Show aggregated statistics (for one game when given)")
	scoresCmd.Flags().BoolVar(&flagAll, "all", false, "Show every recorded score instead of the top ones")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete all recorded scores for the game")
}

func runScores(_ *cobra.Command, args []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	gameID := "starstrike"
	if len(args) == 1 {
		gameID = args[0]
	}
	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown game %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'starstrike list' to see available games.")
		return
	}

	switch {
	case flagClear:
		if err = store.ClearScores(gameID); err == nil {
			fmt.Printf("Cleared scores for %s.\n", registry.Title(gameID))
		}
	case flagStats && len(args) == 1:
		err = printGameStats(store, gameID)
	case flagStats:
		err = printStats(store)
	case flagDuels:
		err = printDuels(store)
	default:
		err = printScores(store, gameID)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving scores: %v\n", err)
	}
}

func printScores(store *storage.Store, gameID string) error {
	var (
		scores []storage.ScoreEntry
		err    error
	)
	if flagAll {
		scores, err = store.AllScores(gameID)
	} else {
		scores, err = store.TopScores(gameID, flagLimit)
	}
	if err != nil {
		return err
	}

	fmt.Printf("High Scores - %s\n", registry.Title(gameID))
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'starstrike play %s' to set the first high score!\n", gameID)
		return nil
	}

	fmt.Printf("  %-4s  %-12s  %-8s  %-5s  %-5s  %-5s  %s\n", "Rank", "Player", "Score", "Level", "Kills", "Combo", "Date")
	fmt.Printf("  %-4s  %-12s  %-8s  %-5s  %-5s  %-5s  %s\n", "----", "------", "-----", "-----", "-----", "-----", "----")
	for i, e := range scores {
		fmt.Printf("  %-4d  %-12s  %-8d  %-5d  %-5d  %-5d  %s\n",
			i+1, e.Player, e.Score, e.Level, e.Kills, e.MaxCombo, e.CreatedAt.Format("2006-01-02 15:04"))
	}

	fmt.Println()
	if best, err := store.HighScore(gameID); err == nil {
		fmt.Printf("Best: %d\n", best)
	}
	return nil
}

func printDuels(store *storage.Store) error {
	var (
		duels []storage.DuelRecord
		err   error
	)
	if flagPlayer != "" {
		duels, err = store.PlayerDuels(flagPlayer, flagLimit)
	} else {
		duels, err = store.RecentDuels(flagLimit)
	}
	if err != nil {
		return err
	}

	fmt.Println("Recent Duels")
	fmt.Println()
	if len(duels) == 0 {
		fmt.Println("No duels recorded yet.")
		return nil
	}

	for _, d := range duels {
		result := "draw"
		switch d.Winner {
		case 1:
			result = d.Player1 + " won"
		case 2:
			result = d.Player2 + " won"
		}
		fmt.Printf("  %s  %s %d - %d %s  (%s, %s, %ds)\n",
			d.CreatedAt.Format("2006-01-02 15:04"), d.Player1, d.Score1, d.Score2, d.Player2,
			result, d.EndReason, d.Duration)
	}
	return nil
}

func printStats(store *storage.Store) error {
	stats, err := store.GetAllGamesStats()
	if err != nil {
		return err
	}
	if len(stats) == 0 {
		fmt.Println("No games played yet.")
		return nil
	}

	ids := make([]string, 0, len(stats))
	for id := range stats {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	fmt.Printf("  %-18s  %-6s  %-8s  %-8s  %-5s  %-5s  %s\n", "Game", "Runs", "Best", "Average", "Level", "Combo", "Kills")
	for _, id := range ids {
		s := stats[id]
		fmt.Printf("  %-18s  %-6d  %-8d  %-8.0f  %-5d  %-5d  %d\n",
			registry.Title(s.GameID), s.GamesCount, s.HighScore, s.AvgScore, s.BestLevel, s.BestCombo, s.TotalKills)
	}
	return nil
}

func printGameStats(store *storage.Store, gameID string) error {
	s, err := store.GetGameStats(gameID)
	if err != nil {
		return err
	}

	fmt.Printf("Statistics - %s\n", registry.Title(gameID))
	fmt.Println()
	if s.GamesCount == 0 {
		fmt.Println("No games played yet.")
		return nil
	}
	fmt.Printf("  Runs:        %d\n", s.GamesCount)
	fmt.Printf("  Best score:  %d\n", s.HighScore)
	fmt.Printf("  Average:     %.0f\n", s.AvgScore)
	fmt.Printf("  Total score: %d\n", s.TotalScore)
	fmt.Printf("  Best level:  %d\n", s.BestLevel)
	fmt.Printf("  Best combo:  %d\n", s.BestCombo)
	fmt.Printf("  Kills:       %d\n", s.TotalKills)
	if !s.LastPlayed.IsZero() {
		fmt.Printf("  Last played: %s\n", s.LastPlayed.Format("2006-01-02 15:04"))
	}
	return nil
}
