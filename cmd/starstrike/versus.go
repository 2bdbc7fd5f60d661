package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/starstrike/internal/platform/tui"
)

var (
	flagTimeLimit time.Duration
	flagPlayer2   string
)

var versusCmd = &cobra.Command{
	Use:   "versus",
	Short: "Split-screen duel on one keyboard",
	Long: `Two players race the same formation side by side. Both games share
a seed; the higher score wins when both are over or time runs out.

Controls:
  Player 1: A/D move, Space/W fire
  Player 2: Left/Right move, Enter/Up fire
  P        - Pause both sides
  R        - Rematch (after the result)
  Esc/B    - Back
  Q        - Quit

Examples:
  starstrike versus
  starstrike versus --time-limit 2m --p2 alice`,
	Args: cobra.NoArgs,
	Run:  runVersus,
}

func init() {
	versusCmd.Flags().DurationVar(&flagTimeLimit, "time-limit", 3*time.Minute, "Match time limit (0 = until both games are over)")
	versusCmd.Flags().StringVar(&flagPlayer2, "p2", "Player 2", "Name of the second player")
	// The menu starts versus matches too.
	rootCmd.Flags().AddFlagSet(versusCmd.Flags())
}

func runVersus(_ *cobra.Command, _ []string) {
	logger, closeLog := mustLogger(true)
	defer closeLog()

	store := openStore(logger)
	if store != nil {
		defer store.Close()
	}
	sink, closeAudio := openAudio(logger)
	defer closeAudio()

	_, err := tui.RunVersus(store, tui.VersusConfig{
		Runtime:   runtimeConfig(),
		TimeLimit: flagTimeLimit,
		Player1:   flagName,
		Player2:   flagPlayer2,
		Audio:     sink,
		Logger:    logger,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running versus: %v\n", err)
		os.Exit(1)
	}
}
