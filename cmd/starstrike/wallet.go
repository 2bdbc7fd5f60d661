package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/starstrike/internal/storage"
)

var (
	flagAll   bool
	flagSpend int
)

var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Show coin balances",
	Long: `Every enemy destroyed pays one coin into the player's wallet when
the run ends.

Examples:
  starstrike wallet
  starstrike wallet --name ann
  starstrike wallet --all
  starstrike wallet --name ann --spend 50`,
	Args: cobra.NoArgs,
	Run:  runWallet,
}

func init() {
	walletCmd.Flags().BoolVar(&flagAll, "all", false, "List every wallet")
	walletCmd.Flags().IntVar(&flagSpend, "spend", 0, "Take coins out of the wallet")
}

func runWallet(_ *cobra.Command, _ []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagSpend > 0 {
		balance, err := store.Spend(flagName, flagSpend)
		if errors.Is(err, storage.ErrInsufficientCoins) {
			fmt.Fprintf(os.Stderr, "Error: %s does not have %d coins\n", flagName, flagSpend)
			os.Exit(1)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error updating wallet: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Spent %d coins, %s has %d left\n", flagSpend, flagName, balance)
		return
	}

	if !flagAll {
		balance, err := store.Balance(flagName)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading wallet: %v\n", err)
			return
		}
		fmt.Printf("%s has %d coins\n", flagName, balance)
		return
	}

	wallets, err := store.Wallets()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading wallets: %v\n", err)
		return
	}
	if len(wallets) == 0 {
		fmt.Println("No wallets yet.")
		return
	}
	fmt.Printf("  %-16s  %-8s  %s\n", "Player", "Coins", "Updated")
	for _, w := range wallets {
		fmt.Printf("  %-16s  %-8d  %s\n", w.Player, w.Coins, w.UpdatedAt.Format("2006-01-02 15:04"))
	}
}
