package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/starstrike/internal/multiplayer"
	"github.com/vovakirdan/starstrike/internal/platform/tui"
	"github.com/vovakirdan/starstrike/internal/registry"
)

// runMenu is the root command: menu, then a game, a versus match or the
// scoreboard, then back to the menu.
func runMenu(_ *cobra.Command, _ []string) {
	logger, closeLog := mustLogger(true)
	defer closeLog()

	store := openStore(logger)
	if store != nil {
		defer store.Close()
	}
	sink, closeAudio := openAudio(logger)
	defer closeAudio()

	cfg := runtimeConfig()
	for {
		menuResult, err := tui.RunMenu(store, cfg, flagName)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return
		}
		cfg = menuResult.Config

		if menuResult.Quit {
			return
		}

		var back bool
		switch {
		case menuResult.WantsScoreboard:
			back, err = tui.RunScoreboard(store, cfg.ScreenW, cfg.ScreenH)

		case menuResult.Mode == multiplayer.MatchModeVersus:
			cfg.Seed = time.Now().UnixNano()
			back, err = tui.RunVersus(store, tui.VersusConfig{
				Runtime:   cfg,
				TimeLimit: flagTimeLimit,
				Player1:   flagName,
				Player2:   flagPlayer2,
				Audio:     sink,
				Logger:    logger,
			})

		default:
			game, createErr := registry.Create(menuResult.GameID)
			if createErr != nil {
				fmt.Fprintf(os.Stderr, "Error creating game: %v\n", createErr)
				continue
			}
			equip(game, sink, logger)
			if flagSeed == 0 {
				cfg.Seed = time.Now().UnixNano()
			}
			back, err = tui.Run(game, store, cfg, flagName, logger)
		}

		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		if !back {
			return
		}
	}
}
