package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KolarF1/AMO-Launcher-sub000/internal/core"
	"github.com/KolarF1/AMO-Launcher-sub000/internal/domain"
	"github.com/KolarF1/AMO-Launcher-sub000/internal/scan"
)

var priorityCmd = &cobra.Command{
	Use:   "priority <mod-name>...",
	Short: "Set the application order of the active mods",
	Long: `Reorder the active mods. Name every active mod, first-applied first:
the last mod named is applied last and wins any file conflicts.

Priorities are reindexed to consecutive values in the given order.

Examples:
  amo priority "Base Textures" "Real Helmets" "Team Colors"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPriority,
}

func init() {
	rootCmd.AddCommand(priorityCmd)
}

func runPriority(cmd *cobra.Command, args []string) error {
	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer func() { _ = svc.Close() }()

	mods, err := loadLibrary(svc)
	if err != nil {
		return err
	}

	order := make([]*domain.Mod, 0, len(args))
	for _, name := range args {
		mod, err := findMod(mods, name)
		if err != nil {
			return err
		}
		if !mod.Active {
			return fmt.Errorf("%s is not active; enable it first", mod.Name)
		}
		order = append(order, mod)
	}

	active := scan.ActiveMods(mods)
	if len(order) != len(active) {
		return fmt.Errorf("order names %d mods but %d are active; name all of them", len(order), len(active))
	}

	core.SetPriorities(mods, core.ReindexPriorities(order))
	if err := svc.SaveMods(mods); err != nil {
		return fmt.Errorf("saving mod state: %w", err)
	}

	fmt.Println("New application order:")
	for i, mod := range order {
		fmt.Printf("  %d. %s\n", i+1, mod.Name)
	}
	return nil
}
