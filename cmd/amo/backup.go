package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KolarF1/AMO-Launcher-sub000/internal/domain"
)

var backupYes bool

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Back up the pristine game data",
	Long: `Create or refresh the pristine backup of the game's modded folders.

The backup lives in Original_GameData inside the install directory and is
what 'amo apply' restores before overlaying mods. A new backup is taken when
none exists or when the game executable's version fingerprint changed (a
game update would otherwise be overwritten by stale backup data).

Pak-chunk games deploy into a separate container directory and need no
backup.

Examples:
  amo backup --game f1-2021
  amo backup --game f1-2021 --yes`,
	RunE: runBackup,
}

func init() {
	backupCmd.Flags().BoolVarP(&backupYes, "yes", "y", false, "skip confirmation prompt")
	rootCmd.AddCommand(backupCmd)
}

func runBackup(cmd *cobra.Command, args []string) error {
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

	if game.Strategy() == domain.DeployPakchunk {
		fmt.Printf("%s uses the pak-chunk strategy; no backup needed.\n", game.Name)
		return nil
	}

	confirm := func(versionChanged bool) bool {
		if backupYes {
			return true
		}
		if versionChanged {
			return promptYes("Game version changed; replace the existing backup with the current game data?")
		}
		return promptYes(fmt.Sprintf("Back up the game data of %s now?", game.Name))
	}

	progress := func(fraction float64, message string) {
		fmt.Printf("  [%3.0f%%] %s\n", fraction*100, message)
	}

	ok, err := svc.EnsureBackup(context.Background(), game, confirm, progress)
	if err != nil {
		return fmt.Errorf("backing up %s: %w", game.Name, err)
	}
	if !ok {
		return domain.ErrDeclined
	}

	fmt.Printf("Backup for %s is up to date.\n", game.Name)
	return nil
}
