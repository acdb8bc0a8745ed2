package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

type modJSON struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	Archive  bool   `json:"archive"`
	Active   bool   `json:"active"`
	Applied  bool   `json:"applied"`
	Priority int    `json:"priority"`
	Category string `json:"category,omitempty"`
	Author   string `json:"author,omitempty"`
}

var modsCmd = &cobra.Command{
	Use:   "mods",
	Short: "List mods in the library",
	Long: `List all mods discovered in the library directory, together with their
persisted active flag and priority.

Folder mods are directories containing a Mod/ subtree; archive mods are
.zip/.7z/.rar files. Priority determines application order for the raw
overlay strategy: higher priority is applied later and overwrites earlier
mods.

Examples:
  amo mods
  amo mods --json`,
	RunE: runMods,
}

func init() {
	rootCmd.AddCommand(modsCmd)
}

func runMods(cmd *cobra.Command, args []string) error {
	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer func() { _ = svc.Close() }()

	mods, err := loadLibrary(svc)
	if err != nil {
		return err
	}

	if jsonOutput {
		out := make([]modJSON, 0, len(mods))
		for _, m := range mods {
			out = append(out, modJSON{
				Name:     m.Name,
				Path:     m.Key(),
				Archive:  m.IsArchive,
				Active:   m.Active,
				Applied:  m.Applied,
				Priority: m.Priority,
				Category: m.Category,
				Author:   m.Author,
			})
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	if len(mods) == 0 {
		_, _, library := resolveDirs()
		fmt.Printf("No mods found in %s\n", library)
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tACTIVE\tAPPLIED\tPRIORITY\tTYPE")
	for _, m := range mods {
		kind := "folder"
		if m.IsArchive {
			kind = "archive"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", m.Name, markActive(m.Active), markActive(m.Applied), m.Priority, kind)
	}
	return w.Flush()
}
