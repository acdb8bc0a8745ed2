package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/KolarF1/AMO-Launcher-sub000/internal/core"
	"github.com/KolarF1/AMO-Launcher-sub000/internal/domain"
	"github.com/KolarF1/AMO-Launcher-sub000/internal/storage/config"
	"github.com/KolarF1/AMO-Launcher-sub000/internal/storage/state"
)

// resolveDirs fills in defaults for the config, data and library directories.
func resolveDirs() (cfg, data, library string) {
	cfg = configDir
	if cfg == "" {
		cfg = config.DefaultDir()
	}
	data = dataDir
	if data == "" {
		data = state.DefaultDir()
	}
	library = libraryDir
	if library == "" {
		library = filepath.Join(data, "mods")
	}
	return cfg, data, library
}

// initService creates and initializes the core service
func initService() (*core.Service, error) {
	cfg, data, library := resolveDirs()

	for _, dir := range []string{cfg, data, library} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating %s: %w", dir, err)
		}
	}

	return core.NewService(cfg, data)
}

func requireGame(cmd *cobra.Command) error {
	if gameID != "" {
		return nil
	}
	return fmt.Errorf("no game specified; use --game or see 'amo games'")
}

// loadGame resolves the --game flag against the registry.
func loadGame(svc *core.Service) (*domain.Game, error) {
	game, err := svc.Game(gameID)
	if err != nil {
		return nil, fmt.Errorf("game not found: %s (see 'amo games')", gameID)
	}
	return game, nil
}

// loadLibrary scans the mod library and merges persisted flags.
func loadLibrary(svc *core.Service) ([]*domain.Mod, error) {
	_, _, library := resolveDirs()
	mods, err := svc.LoadMods(library)
	if err != nil {
		return nil, fmt.Errorf("scanning mod library: %w", err)
	}
	return mods, nil
}

// findMod matches a mod by exact name first, then by unique prefix.
func findMod(mods []*domain.Mod, name string) (*domain.Mod, error) {
	for _, m := range mods {
		if m.Name == name {
			return m, nil
		}
	}
	var matches []*domain.Mod
	for _, m := range mods {
		if len(m.Name) >= len(name) && m.Name[:len(name)] == name {
			matches = append(matches, m)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return nil, fmt.Errorf("no mod named %q in the library (see 'amo mods')", name)
	default:
		return nil, fmt.Errorf("%q matches %d mods; use the full name", name, len(matches))
	}
}

// promptYes asks a yes/no question on stdout and reads the answer.
func promptYes(question string) bool {
	fmt.Printf("%s [y/N] ", question)
	var response string
	fmt.Scanln(&response)
	return response == "y" || response == "Y"
}

// markActive returns "yes" or "no" for table output.
func markActive(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
