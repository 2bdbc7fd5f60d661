package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/starstrike/internal/platform/tui"
	"github.com/vovakirdan/starstrike/internal/registry"
)

var playCmd = &cobra.Command{
	Use:   "play [game]",
	Short: "Play a game",
	Long: `Start playing the specified game. Defaults to starstrike.

Controls:
  A/D or Left/Right  - Move
  Space/Z/X          - Fire
  P                  - Pause
  R                  - Restart (after game over)
  Esc/B              - Back (when paused or over)
  Q/Ctrl+C           - Quit
  Ctrl+S             - Save a screenshot

Difficulty options:
  easy   - Extra lives and slower enemy fire
  normal - The configured defaults
  hard   - Start at level 3 with fewer lives

Examples:
  starstrike play
  starstrike play starstrike_hard
  starstrike play --difficulty easy
  starstrike play --config ./my-starstrike.yaml`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func runPlay(_ *cobra.Command, args []string) {
	gameID := "starstrike"
	if len(args) == 1 {
		gameID = args[0]
	}

	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown game %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'starstrike list' to see available games.")
		os.Exit(1)
	}

	logger, closeLog := mustLogger(true)
	defer closeLog()

	game, err := registry.Create(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}

	sink, closeAudio := openAudio(logger)
	defer closeAudio()
	equip(game, sink, logger)

	store := openStore(logger)
	if store != nil {
		defer store.Close()
	}

	if _, err := tui.Run(game, store, runtimeConfig(), flagName, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
	}
}
