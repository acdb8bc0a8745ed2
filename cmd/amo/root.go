package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KolarF1/AMO-Launcher-sub000/internal/domain"
	"github.com/KolarF1/AMO-Launcher-sub000/internal/logging"
)

var (
	version = "0.3.0"

	// Global flags
	configDir  string
	dataDir    string
	libraryDir string
	gameID     string
	verbosity  int
	jsonOutput bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "amo",
	Short: "AMO Launcher - mod manager for the F1 games",
	Long: `amo manages game mods: it keeps a pristine backup of the game data,
detects file conflicts between mods, and applies the active set either as a
raw overlay or as renamed pak chunks, depending on the game.

Use subcommands for operations. Run 'amo --help' for available commands.`,
	Version:       version,
	SilenceUsage:  true, // Runtime errors should not print usage
	SilenceErrors: true, // We handle error output in Execute()
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Setup(verbosity)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "config directory (default: ~/.config/amo)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "", "data directory (default: ~/.local/share/amo)")
	rootCmd.PersistentFlags().StringVar(&libraryDir, "library", "", "mod library directory (default: <data>/mods)")
	rootCmd.PersistentFlags().StringVarP(&gameID, "game", "g", "", "game ID to operate on")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase log verbosity (-v, -vv)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output in JSON format (mods, conflicts)")
}

// Execute runs the root command. Exit codes: 0 = success, 1 = error,
// 2 = user declined a required confirmation.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, domain.ErrDeclined) {
			fmt.Fprintln(os.Stderr, "Aborted.")
			os.Exit(2)
		}
		if jsonOutput {
			fmt.Printf(`{"error":%q}`+"\n", err.Error())
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
