package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/starstrike/internal/netplay"
	"github.com/vovakirdan/starstrike/internal/platform/tui"
	"github.com/vovakirdan/starstrike/internal/storage"
)

var (
	flagListen      string
	flagJoinTimeout time.Duration
)

var hostCmd = &cobra.Command{
	Use:   "host",
	Short: "Host a network duel",
	Long: `Wait for one opponent to join over the network, then duel.

Each machine runs its own game from a shared seed and sends its view to
the other side. The host records the result.

Examples:
  starstrike host
  starstrike host --listen :9000 --name ann`,
	Args: cobra.NoArgs,
	Run:  runHost,
}

var joinCmd = &cobra.Command{
	Use:   "join <host:port>",
	Short: "Join a network duel",
	Long: `Connect to a hosted duel.

Examples:
  starstrike join 192.168.1.20:7777
  starstrike join localhost:9000 --name bob`,
	Args: cobra.ExactArgs(1),
	Run:  runJoin,
}

func init() {
	hostCmd.Flags().StringVar(&flagListen, "listen", ":7777", "Address to accept the opponent on")
	joinCmd.Flags().DurationVar(&flagJoinTimeout, "timeout", 10*time.Second, "How long to wait for the host")
}

// signalContext is cancelled on Ctrl+C or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runHost(_ *cobra.Command, _ []string) {
	// Logs go to the console while waiting, then to the TUI logger.
	console, closeLog := mustLogger(false)
	defer closeLog()

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	host, err := netplay.Listen(netplay.HostConfig{
		Address: flagListen,
		GameID:  "starstrike",
		Seed:    seed,
		Name:    flagName,
		Logger:  console,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer host.Close()

	fmt.Printf("Waiting for an opponent on %s (match %s)\n", host.Addr(), host.MatchID())
	if _, port, splitErr := net.SplitHostPort(host.Addr()); splitErr == nil {
		fmt.Printf("They can join with: starstrike join <your-address>:%s\n", port)
	}
	fmt.Println("Press Ctrl+C to cancel")

	ctx, stop := signalContext()
	peer, greeting, err := host.Accept(ctx)
	stop()
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	playNet(peer, greeting, true)
}

func runJoin(_ *cobra.Command, args []string) {
	console, closeLog := mustLogger(false)
	defer closeLog()

	ctx, stop := signalContext()
	ctx, cancel := context.WithTimeout(ctx, flagJoinTimeout)
	peer, greeting, err := netplay.Join(ctx, args[0], flagName, console)
	cancel()
	stop()
	if err != nil {
		switch {
		case errors.Is(err, netplay.ErrHostBusy):
			fmt.Fprintln(os.Stderr, "Error: that host already has an opponent")
		case errors.Is(err, netplay.ErrVersionMismatch):
			fmt.Fprintln(os.Stderr, "Error: the host runs an incompatible version")
		default:
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}

	playNet(peer, greeting, false)
}

func playNet(peer *netplay.Peer, greeting netplay.Greeting, isHost bool) {
	logger, closeLog := mustLogger(true)
	defer closeLog()
	logger = logger.With("match", greeting.MatchID)

	store := openStoreIf(isHost, logger)
	if store != nil {
		defer store.Close()
	}
	sink, closeAudio := openAudio(logger)
	defer closeAudio()

	err := tui.RunNet(peer, greeting, store, tui.NetConfig{
		Runtime: runtimeConfig(),
		Player:  flagName,
		Host:    isHost,
		Audio:   sink,
		Logger:  logger,
	})
	//nolint:errcheck // The peer may already be gone
	peer.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running match: %v\n", err)
		os.Exit(1)
	}
}

// openStoreIf opens the database only on the side that records results.
func openStoreIf(ok bool, logger *log.Logger) *storage.Store {
	if !ok {
		return nil
	}
	return openStore(logger)
}
