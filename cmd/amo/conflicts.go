package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KolarF1/AMO-Launcher-sub000/internal/scan"
)

type conflictsJSONOutput struct {
	Conflicts []conflictJSON `json:"conflicts"`
}

type conflictJSON struct {
	Path   string   `json:"path"`
	Winner string   `json:"winner"`
	AlsoIn []string `json:"also_in"`
}

var conflictsCmd = &cobra.Command{
	Use:   "conflicts",
	Short: "Show file conflicts between active mods",
	Long: `Display every file path that two or more active mods provide.

The winner is the mod applied last (highest priority); its copy of the file
is the one that ends up on disk. Change the outcome with 'amo priority'.

Examples:
  amo conflicts
  amo conflicts --json`,
	RunE: runConflicts,
}

func init() {
	rootCmd.AddCommand(conflictsCmd)
}

func runConflicts(cmd *cobra.Command, args []string) error {
	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer func() { _ = svc.Close() }()

	mods, err := loadLibrary(svc)
	if err != nil {
		return err
	}

	conflicts := svc.Detector().Detect(scan.ActiveMods(mods))

	if jsonOutput {
		out := conflictsJSONOutput{Conflicts: []conflictJSON{}}
		for _, c := range conflicts {
			cj := conflictJSON{Path: c.Path, Winner: c.Winner().Name}
			for _, m := range c.Mods[:len(c.Mods)-1] {
				cj.AlsoIn = append(cj.AlsoIn, m.Name)
			}
			out.Conflicts = append(out.Conflicts, cj)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	if len(conflicts) == 0 {
		fmt.Println("No conflicts between active mods.")
		return nil
	}

	fmt.Printf("%d conflicting file(s):\n\n", len(conflicts))
	for _, c := range conflicts {
		fmt.Printf("  %s\n", c.Path)
		for _, m := range c.Mods {
			marker := "  "
			if m == c.Winner() {
				marker = "* "
			}
			fmt.Printf("    %s%s\n", marker, m.Name)
		}
	}
	fmt.Println("\n* = winner (applied last)")
	return nil
}
