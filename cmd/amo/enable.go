package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KolarF1/AMO-Launcher-sub000/internal/scan"
)

var enableCmd = &cobra.Command{
	Use:   "enable <mod-name>",
	Short: "Mark a mod active",
	Long: `Mark a mod active so the next apply includes it.

A newly enabled mod is placed at the end of the application order (highest
priority), so its files win any conflicts until the order is changed with
'amo priority'.

Examples:
  amo enable "Real Helmets"
  amo enable RealHel`,
	Args: cobra.ExactArgs(1),
	RunE: runEnable,
}

var disableCmd = &cobra.Command{
	Use:   "disable <mod-name>",
	Short: "Mark a mod inactive",
	Long: `Mark a mod inactive so the next apply excludes it.

The mod's files stay on disk until the next 'amo apply' or 'amo restore'.

Examples:
  amo disable "Real Helmets"`,
	Args: cobra.ExactArgs(1),
	RunE: runDisable,
}

func init() {
	rootCmd.AddCommand(enableCmd)
	rootCmd.AddCommand(disableCmd)
}

func runEnable(cmd *cobra.Command, args []string) error {
	return setActive(args[0], true)
}

func runDisable(cmd *cobra.Command, args []string) error {
	return setActive(args[0], false)
}

func setActive(name string, active bool) error {
	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer func() { _ = svc.Close() }()

	mods, err := loadLibrary(svc)
	if err != nil {
		return err
	}

	mod, err := findMod(mods, name)
	if err != nil {
		return err
	}

	if mod.Active == active {
		fmt.Printf("%s is already %s\n", mod.Name, markActive(active))
		return nil
	}

	mod.Active = active
	if active {
		// Place at the end of the application order
		max := 0
		for _, m := range mods {
			if m.Active && m.Priority > max {
				max = m.Priority
			}
		}
		mod.Priority = max + 1
	}

	if err := svc.SaveMods(mods); err != nil {
		return fmt.Errorf("saving mod state: %w", err)
	}

	if active {
		order := scan.ActiveMods(mods)
		fmt.Printf("Enabled %s (priority %d of %d active)\n", mod.Name, mod.Priority, len(order))
	} else {
		fmt.Printf("Disabled %s; run 'amo apply' to remove its files\n", mod.Name)
	}
	return nil
}
