package core

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/KolarF1/AMO-Launcher-sub000/internal/domain"
	"github.com/KolarF1/AMO-Launcher-sub000/internal/scan"
	"github.com/KolarF1/AMO-Launcher-sub000/internal/storage/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testService wires a service around a fresh config and data dir with one
// registered overlay game. The fingerprint is stubbed so no real executable
// is needed.
func testService(t *testing.T) (*Service, *domain.Game) {
	t.Helper()
	configDir := t.TempDir()
	dataDir := t.TempDir()

	game := testGame(t)
	require.NoError(t, config.SaveGame(configDir, game))

	svc, err := NewService(configDir, dataDir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close() })
	svc.backup.fingerprint = func(string) string { return "v1" }

	loaded, err := svc.Game(game.ID)
	require.NoError(t, err)
	return svc, loaded
}

func TestService_GameLookup(t *testing.T) {
	svc, game := testService(t)

	assert.Equal(t, "F1 2021", game.Name)
	assert.Len(t, svc.Games(), 1)

	_, err := svc.Game("nope")
	assert.ErrorIs(t, err, domain.ErrGameNotFound)
}

func TestService_LoadSaveMods(t *testing.T) {
	svc, _ := testService(t)
	library := t.TempDir()
	writeFile(t, filepath.Join(library, "CoolSkin", domain.ModSubtree, "livery.dds"), "x")

	mods, err := svc.LoadMods(library)
	require.NoError(t, err)
	require.Len(t, mods, 1)
	assert.False(t, mods[0].Active)

	mods[0].Active = true
	mods[0].Priority = 3
	require.NoError(t, svc.SaveMods(mods))

	reloaded, err := svc.LoadMods(library)
	require.NoError(t, err)
	require.Len(t, reloaded, 1)
	assert.True(t, reloaded[0].Active)
	assert.Equal(t, 3, reloaded[0].Priority)
}

func TestService_ApplyEndToEnd(t *testing.T) {
	svc, game := testService(t)
	mod := folderMod(t, "LoudEngines", map[string]string{"audio/engine.wav": "LOUD"})

	err := svc.Apply(context.Background(), game, []*domain.Mod{mod},
		func(bool) bool { return true }, nil)
	require.NoError(t, err)

	assert.Equal(t, "LOUD", readFile(t, filepath.Join(game.InstallPath, "audio", "engine.wav")))
	assert.True(t, mod.Applied)
}

func TestService_ApplyDeclinedBackup(t *testing.T) {
	svc, game := testService(t)
	mod := folderMod(t, "LoudEngines", map[string]string{"audio/engine.wav": "LOUD"})

	err := svc.Apply(context.Background(), game, []*domain.Mod{mod},
		func(bool) bool { return false }, nil)
	assert.ErrorIs(t, err, domain.ErrDeclined)

	// Nothing touched
	assert.Equal(t, "vroom", readFile(t, filepath.Join(game.InstallPath, "audio", "engine.wav")))
}

func TestService_ApplyClearsInactiveAppliedFlag(t *testing.T) {
	svc, game := testService(t)
	mod := folderMod(t, "LoudEngines", map[string]string{"audio/engine.wav": "LOUD"})

	confirm := func(bool) bool { return true }
	require.NoError(t, svc.Apply(context.Background(), game, []*domain.Mod{mod}, confirm, nil))
	require.True(t, mod.Applied)

	mod.Active = false
	require.NoError(t, svc.Apply(context.Background(), game, []*domain.Mod{mod}, confirm, nil))

	assert.False(t, mod.Applied)
	assert.Equal(t, "vroom", readFile(t, filepath.Join(game.InstallPath, "audio", "engine.wav")))
}

func TestService_RestoreRevertsApply(t *testing.T) {
	svc, game := testService(t)
	mod := folderMod(t, "LoudEngines", map[string]string{"audio/engine.wav": "LOUD"})

	require.NoError(t, svc.Apply(context.Background(), game, []*domain.Mod{mod},
		func(bool) bool { return true }, nil))
	require.True(t, mod.Applied)

	require.NoError(t, svc.Restore(context.Background(), game, []*domain.Mod{mod}, nil))
	assert.Equal(t, "vroom", readFile(t, filepath.Join(game.InstallPath, "audio", "engine.wav")))

	// The applied flag is cleared on the descriptor and in mods.yaml, so a
	// fresh listing agrees with the disk.
	assert.False(t, mod.Applied)
	sf, err := scan.LoadState(svc.configDir)
	require.NoError(t, err)
	assert.False(t, sf.Mods[mod.Key()].Applied)
}
