package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KolarF1/AMO-Launcher-sub000/internal/domain"
)

var restoreYes bool

var restoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Restore the game to its pristine state",
	Long: `Put the game data back the way the pristine backup recorded it,
removing all applied mod files. Mods stay enabled in the library; the next
'amo apply' deploys them again.

For pak-chunk games this purges the deployed chunks instead, since those
games are never overlaid.

Examples:
  amo restore --game f1-2021
  amo restore --game f1-2021 --yes`,
	RunE: runRestore,
}

func init() {
	restoreCmd.Flags().BoolVarP(&restoreYes, "yes", "y", false, "skip confirmation prompt")
	rootCmd.AddCommand(restoreCmd)
}

func runRestore(cmd *cobra.Command, args []string) error {
	if err := requireGame(cmd); err != nil {
		return err
	}

	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer func() { _ = svc.Close() }()

	game, err := loadGame(svc)
	if err != nil {
		return err
	}

	mods, err := loadLibrary(svc)
	if err != nil {
		return err
	}

	if !restoreYes && !promptYes(fmt.Sprintf("Remove all applied mods from %s?", game.Name)) {
		return domain.ErrDeclined
	}

	progress := func(fraction float64, message string) {
		fmt.Printf("  [%3.0f%%] %s\n", fraction*100, message)
	}

	if err := svc.Restore(context.Background(), game, mods, progress); err != nil {
		return fmt.Errorf("restoring %s: %w", game.Name, err)
	}

	fmt.Printf("%s restored to pristine state.\n", game.Name)
	return nil
}
