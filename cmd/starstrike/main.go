// starstrike is a terminal formation shooter: solo runs, split-screen
// and network duels, and an SSH server for remote play.
//
// Usage:
//
//	starstrike                 - Start the menu
//	starstrike play [game]     - Play a game directly
//	starstrike versus          - Two players on one keyboard
//	starstrike host / join     - Play against another machine
//	starstrike serve           - Start SSH server for remote play
//	starstrike scores [game]   - Show high scores or recent duels
//	starstrike wallet          - Show coin balances
//	starstrike list            - List available games
//
// Global flags:
//
//	--fps <rate>          - Set tick rate (default: 60)
//	--seed <value>        - Set RNG seed for reproducible gameplay
//	--db <path>           - Set database path (default: ~/.starstrike/starstrike.db)
//	--log-level <level>   - debug, info, warn or error
//	--log-file <path>     - Write logs to a file while the TUI runs
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/starstrike/internal/config"
	"github.com/vovakirdan/starstrike/internal/core"
	"github.com/vovakirdan/starstrike/internal/games/starstrike"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagLogLevel   string
	flagLogFile    string
	flagConfig     string
	flagDifficulty string
	flagMute       bool
	flagName       string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "starstrike",
	Short: "Starstrike - a formation shooter for your terminal",
	Long: `Starstrike is a terminal shoot-'em-up. Enemy formations march and
descend, divers break off to attack, and every kill pays a coin.

Available commands:
  play     - Play a game directly
  versus   - Split-screen duel on one keyboard
  host     - Wait for an opponent over the network
  join     - Join a hosted network duel
  serve    - Start SSH server for remote play
  scores   - View high scores and duel results
  wallet   - View coin balances
  list     - Show all available games

Run without a command to open the menu.

Examples:
  starstrike
  starstrike play starstrike_hard
  starstrike versus --time-limit 2m
  starstrike host --listen :7777
  starstrike join 192.168.1.20:7777
  starstrike serve --ssh :2222`,
	SilenceUsage:      true,
	PersistentPreRunE: applyGameFlags,
	Run:               runMenu,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	pf.Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	pf.StringVar(&flagDBPath, "db", "~/.starstrike/starstrike.db", "Path to the database")
	pf.StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	pf.StringVar(&flagLogFile, "log-file", "", "Write logs to this file")
	pf.StringVar(&flagConfig, "config", "", "Path to a custom game config (YAML or TOML)")
	pf.StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")
	pf.BoolVar(&flagMute, "mute", false, "Disable sound")
	pf.StringVar(&flagName, "name", defaultPlayerName(), "Player name for scores and wallet")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(versusCmd)
	rootCmd.AddCommand(hostCmd)
	rootCmd.AddCommand(joinCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(walletCmd)
}

// applyGameFlags hands the config and difficulty flags to the game
// package before any game is created.
func applyGameFlags(_ *cobra.Command, _ []string) error {
	if flagFPS <= 0 {
		return fmt.Errorf("--fps must be positive, got %d", flagFPS)
	}
	starstrike.SetConfigPath(flagConfig)
	if flagDifficulty != "" {
		preset, err := config.ParsePreset(flagDifficulty)
		if err != nil {
			return err
		}
		starstrike.SetDifficultyPreset(preset)
	}
	if flagConfig != "" {
		if _, err := config.LoadStarstrike(flagConfig); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
	}
	return nil
}

// runtimeConfig sizes the game to the current terminal.
func runtimeConfig() core.RuntimeConfig {
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}

func defaultPlayerName() string {
	for _, env := range []string{"USER", "USERNAME"} {
		if v := os.Getenv(env); v != "" {
			return v
		}
	}
	return "player"
}
