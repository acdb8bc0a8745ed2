package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/KolarF1/AMO-Launcher-sub000/internal/domain"
)

var gamesCmd = &cobra.Command{
	Use:   "games",
	Short: "List configured games",
	Long: `List the games configured in games.yaml with their deploy strategy.

Games whose title contains "Manager" use the packaged pak-chunk strategy;
all others use the raw overlay strategy.

Examples:
  amo games`,
	RunE: runGames,
}

func init() {
	rootCmd.AddCommand(gamesCmd)
}

func runGames(cmd *cobra.Command, args []string) error {
	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer func() { _ = svc.Close() }()

	games := svc.Games()
	if len(games) == 0 {
		fmt.Println("No games configured. Add one to games.yaml in the config directory.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSTRATEGY\tINSTALL PATH")
	for _, g := range games {
		strategy := "overlay"
		if g.Strategy() == domain.DeployPakchunk {
			strategy = "pakchunk"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", g.ID, g.Name, strategy, g.InstallPath)
	}
	return w.Flush()
}
