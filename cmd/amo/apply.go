package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/KolarF1/AMO-Launcher-sub000/internal/core"
	"github.com/KolarF1/AMO-Launcher-sub000/internal/domain"
	"github.com/KolarF1/AMO-Launcher-sub000/internal/scan"
	"github.com/KolarF1/AMO-Launcher-sub000/internal/tui"
)

var (
	applyYes   bool
	applyPlain bool
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Apply the active mods to the game",
	Long: `Deploy the active mods in priority order.

Raw-overlay games are first restored from the pristine backup, then each
active mod is copied over the install directory, lowest priority first. If
the active set is unchanged since the last apply, nothing is done.

Pak-chunk games have their previously deployed chunks purged and redeployed
under priority-encoded names.

A missing or stale backup is created first; declining that aborts the apply.

Examples:
  amo apply --game f1-2021
  amo apply --game f1-2021 --yes
  amo apply --game f1m-2022 --plain`,
	RunE: runApply,
}

func init() {
	applyCmd.Flags().BoolVarP(&applyYes, "yes", "y", false, "skip confirmation prompts")
	applyCmd.Flags().BoolVar(&applyPlain, "plain", false, "plain output instead of the progress view")
	rootCmd.AddCommand(applyCmd)
}

func runApply(cmd *cobra.Command, args []string) error {
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
	active := scan.ActiveMods(mods)
	if len(active) == 0 {
		fmt.Println("No active mods; applying will reset the game to pristine state.")
	}

	confirm := func(versionChanged bool) bool {
		if applyYes {
			return true
		}
		if versionChanged {
			return promptYes("Game version changed; replace the existing backup with the current game data?")
		}
		return promptYes(fmt.Sprintf("No pristine backup of %s exists yet. Create one now?", game.Name))
	}

	run := func(report core.ProgressFunc) error {
		return svc.Apply(context.Background(), game, mods, confirm, report)
	}

	if applyPlain || !isatty.IsTerminal(os.Stdout.Fd()) {
		err = run(func(fraction float64, message string) {
			fmt.Printf("  [%3.0f%%] %s\n", fraction*100, message)
		})
	} else {
		// The confirm prompt must happen before the TUI takes over the
		// terminal, so settle the backup question first.
		ok, berr := svc.EnsureBackup(context.Background(), game, confirm, nil)
		if berr != nil {
			return fmt.Errorf("ensuring backup: %w", berr)
		}
		if !ok {
			return domain.ErrDeclined
		}
		err = tui.RunProgress("Applying mods to "+game.Name, func(report func(float64, string)) error {
			return run(report)
		})
	}
	if err != nil {
		return err
	}

	fmt.Printf("Applied %d mod(s) to %s.\n", len(active), game.Name)
	return nil
}
