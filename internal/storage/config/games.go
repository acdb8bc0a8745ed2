// Package config reads the launcher's YAML configuration: the games
// registry and top-level settings. Game detection itself lives outside the
// core; this package is its persisted boundary.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"github.com/KolarF1/AMO-Launcher-sub000/internal/domain"
)

// DefaultDir returns the per-user configuration directory.
func DefaultDir() string {
	return filepath.Join(xdg.ConfigHome, "amo")
}

// GameConfig is the YAML representation of a game
type GameConfig struct {
	Name        string `yaml:"name"`
	ExePath     string `yaml:"exe_path"`
	InstallPath string `yaml:"install_path"`
}

// GamesFile is the top-level games.yaml structure
type GamesFile struct {
	Games map[string]GameConfig `yaml:"games"`
}

// LoadGames reads all configured games from the config directory.
// A missing file is not an error: no games are configured yet.
func LoadGames(configDir string) (map[string]*domain.Game, error) {
	gamesPath := filepath.Join(configDir, "games.yaml")
	data, err := os.ReadFile(gamesPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return make(map[string]*domain.Game), nil
		}
		return nil, fmt.Errorf("reading games.yaml: %w", err)
	}

	var gamesFile GamesFile
	if err := yaml.Unmarshal(data, &gamesFile); err != nil {
		return nil, fmt.Errorf("parsing games.yaml: %w", err)
	}

	games := make(map[string]*domain.Game)
	for id, cfg := range gamesFile.Games {
		if cfg.InstallPath == "" {
			return nil, fmt.Errorf("%w: game %q has no install_path", domain.ErrInvalidConfig, id)
		}
		games[id] = &domain.Game{
			ID:          id,
			Name:        cfg.Name,
			ExePath:     cfg.ExePath,
			InstallPath: cfg.InstallPath,
		}
	}

	return games, nil
}

// SaveGame adds or updates a game in games.yaml
func SaveGame(configDir string, game *domain.Game) error {
	games, err := LoadGames(configDir)
	if err != nil {
		return err
	}

	games[game.ID] = game

	gamesFile := GamesFile{Games: make(map[string]GameConfig)}
	for id, g := range games {
		gamesFile.Games[id] = GameConfig{
			Name:        g.Name,
			ExePath:     g.ExePath,
			InstallPath: g.InstallPath,
		}
	}

	data, err := yaml.Marshal(gamesFile)
	if err != nil {
		return fmt.Errorf("marshaling games: %w", err)
	}
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(configDir, "games.yaml"), data, 0644); err != nil {
		return fmt.Errorf("writing games.yaml: %w", err)
	}
	return nil
}

// SortedGames returns the games ordered by ID for stable listings.
func SortedGames(games map[string]*domain.Game) []*domain.Game {
	out := make([]*domain.Game, 0, len(games))
	for _, g := range games {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
