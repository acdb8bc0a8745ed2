package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/KolarF1/AMO-Launcher-sub000/internal/domain"
	"github.com/KolarF1/AMO-Launcher-sub000/internal/storage/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadGames_MissingFileReturnsEmpty(t *testing.T) {
	games, err := config.LoadGames(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, games)
}

func TestSaveAndLoadGames(t *testing.T) {
	dir := t.TempDir()

	g := &domain.Game{
		ID:          "f1-2021",
		Name:        "F1 2021",
		ExePath:     "/games/f1-2021/F1_2021.exe",
		InstallPath: "/games/f1-2021",
	}
	require.NoError(t, config.SaveGame(dir, g))

	games, err := config.LoadGames(dir)
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, g, games["f1-2021"])
}

func TestLoadGames_MissingInstallPath(t *testing.T) {
	dir := t.TempDir()
	yaml := "games:\n  broken:\n    name: Broken Game\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "games.yaml"), []byte(yaml), 0644))

	_, err := config.LoadGames(dir)
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestLoadGames_BadYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "games.yaml"), []byte("games: ["), 0644))

	_, err := config.LoadGames(dir)
	assert.Error(t, err)
}

func TestSortedGames(t *testing.T) {
	games := map[string]*domain.Game{
		"b": {ID: "b"},
		"a": {ID: "a"},
		"c": {ID: "c"},
	}
	sorted := config.SortedGames(games)
	require.Len(t, sorted, 3)
	assert.Equal(t, "a", sorted[0].ID)
	assert.Equal(t, "c", sorted[2].ID)
}
