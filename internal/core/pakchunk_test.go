package core

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/KolarF1/AMO-Launcher-sub000/internal/domain"
	"github.com/KolarF1/AMO-Launcher-sub000/internal/storage/state"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func managerGame(t *testing.T) (*domain.Game, string) {
	t.Helper()
	install := t.TempDir()
	containerDir := filepath.Join(install, "F1Manager22", "Content", "Paks")
	require.NoError(t, os.MkdirAll(containerDir, 0755))
	game := &domain.Game{
		ID:          "f1m-2022",
		Name:        "F1 Manager 2022",
		InstallPath: install,
	}
	return game, containerDir
}

// chunkMod builds a folder mod shipping one pak chunk with both sidecars.
func chunkMod(t *testing.T, name, chunkBase string) *domain.Mod {
	t.Helper()
	mod := folderMod(t, name, map[string]string{
		chunkBase + ".pak":  name + "-pak",
		chunkBase + ".ucas": name + "-ucas",
		chunkBase + ".utoc": name + "-utoc",
	})
	return mod
}

func TestFindContainerDir(t *testing.T) {
	game, containerDir := managerGame(t)

	dir, err := findContainerDir(game)
	require.NoError(t, err)
	assert.Equal(t, containerDir, dir)
}

func TestFindContainerDir_NotFound(t *testing.T) {
	game := &domain.Game{Name: "F1 Manager 2022", InstallPath: t.TempDir()}

	_, err := findContainerDir(game)
	assert.ErrorIs(t, err, domain.ErrContainerNotFound)
}

func TestPurgeChunks_RemovesOnlyTaggedFiles(t *testing.T) {
	dir := t.TempDir()
	tagged := []string{
		"pakchunk1-001-AMO-CoolMod.pak",
		"pakchunk1-001-AMO-CoolMod.ucas",
		"pakchunk1-001-AMO-CoolMod.utoc",
		"pakchunk1-002-AMO-Other.pak",
	}
	untagged := []string{
		"pakchunk0-WindowsNoEditor.pak",
		"pakchunk12-extras.pak",
		"global.ucas",
	}
	for _, name := range append(append([]string{}, tagged...), untagged...) {
		writeFile(t, filepath.Join(dir, name), "x")
	}

	require.NoError(t, PurgeChunks(dir))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var remaining []string
	for _, e := range entries {
		remaining = append(remaining, e.Name())
	}
	assert.ElementsMatch(t, untagged, remaining)
}

func TestApplyPakchunks_DeploysRenamedChunks(t *testing.T) {
	game, containerDir := managerGame(t)
	a := chunkMod(t, "Alpha", "pakchunk30-Alpha")
	b := chunkMod(t, "Beta", "pakchunk31-Beta")

	p := NewPipeline(state.New(t.TempDir()), NewIndexer(nil), nil)
	require.NoError(t, p.Apply(context.Background(), game, []*domain.Mod{a, b}))
	assert.Equal(t, domain.StateApplied, p.State())

	// Highest list index (Beta) gets ordinal 1; mod token comes from the
	// original chunk name; sidecars follow the new base name.
	assert.FileExists(t, filepath.Join(containerDir, "pakchunk1-001-AMO-Beta.pak"))
	assert.FileExists(t, filepath.Join(containerDir, "pakchunk1-001-AMO-Beta.ucas"))
	assert.FileExists(t, filepath.Join(containerDir, "pakchunk1-001-AMO-Beta.utoc"))
	assert.FileExists(t, filepath.Join(containerDir, "pakchunk1-002-AMO-Alpha.pak"))

	assert.Equal(t, "Beta-pak", readFile(t, filepath.Join(containerDir, "pakchunk1-001-AMO-Beta.pak")))
}

func TestApplyPakchunks_RedeployIsIdempotent(t *testing.T) {
	game, containerDir := managerGame(t)
	writeFile(t, filepath.Join(containerDir, "pakchunk0-WindowsNoEditor.pak"), "base-game")
	a := chunkMod(t, "Alpha", "pakchunk30-Alpha")

	p := NewPipeline(state.New(t.TempDir()), NewIndexer(nil), nil)
	require.NoError(t, p.Apply(context.Background(), game, []*domain.Mod{a}))
	require.NoError(t, p.Apply(context.Background(), game, []*domain.Mod{a}))

	entries, err := os.ReadDir(containerDir)
	require.NoError(t, err)

	// One untouched base chunk plus exactly one deployed sidecar set
	assert.Len(t, entries, 4)
	assert.FileExists(t, filepath.Join(containerDir, "pakchunk0-WindowsNoEditor.pak"))
}

func TestApplyPakchunks_EmptyActivePurgesOnly(t *testing.T) {
	game, containerDir := managerGame(t)
	writeFile(t, filepath.Join(containerDir, "pakchunk1-003-AMO-Old.pak"), "old")
	writeFile(t, filepath.Join(containerDir, "pakchunk0-WindowsNoEditor.pak"), "base-game")

	p := NewPipeline(state.New(t.TempDir()), NewIndexer(nil), nil)
	require.NoError(t, p.Apply(context.Background(), game, nil))

	assert.NoFileExists(t, filepath.Join(containerDir, "pakchunk1-003-AMO-Old.pak"))
	assert.FileExists(t, filepath.Join(containerDir, "pakchunk0-WindowsNoEditor.pak"))
}

func TestApplyPakchunks_MissingContainerIsFatal(t *testing.T) {
	game := &domain.Game{ID: "f1m", Name: "F1 Manager 2022", InstallPath: t.TempDir()}

	p := NewPipeline(state.New(t.TempDir()), NewIndexer(nil), nil)
	err := p.Apply(context.Background(), game, nil)
	assert.ErrorIs(t, err, domain.ErrContainerNotFound)
	assert.Equal(t, domain.StateFailed, p.State())
}

func TestApplyPakchunks_ArchiveMod(t *testing.T) {
	game, containerDir := managerGame(t)
	path := buildZip(t, t.TempDir(), "LiveryPack.zip", map[string]string{
		"Mod/pakchunk40-Livery.pak":  "livery-pak",
		"Mod/pakchunk40-Livery.utoc": "livery-utoc",
	})
	mod := &domain.Mod{Name: "LiveryPack", IsArchive: true, ArchivePath: path, Active: true}

	p := NewPipeline(state.New(t.TempDir()), NewIndexer(nil), nil)
	require.NoError(t, p.Apply(context.Background(), game, []*domain.Mod{mod}))

	assert.FileExists(t, filepath.Join(containerDir, "pakchunk1-001-AMO-Livery.pak"))
	assert.FileExists(t, filepath.Join(containerDir, "pakchunk1-001-AMO-Livery.utoc"))
	// No .ucas shipped, so none deployed
	assert.NoFileExists(t, filepath.Join(containerDir, "pakchunk1-001-AMO-Livery.ucas"))
}

func TestRestore_PakchunkPurgesDeployedChunks(t *testing.T) {
	game, containerDir := managerGame(t)
	writeFile(t, filepath.Join(containerDir, "pakchunk0-WindowsNoEditor.pak"), "base-game")
	a := chunkMod(t, "Alpha", "pakchunk30-Alpha")

	store := state.New(t.TempDir())
	p := NewPipeline(store, NewIndexer(nil), nil)
	require.NoError(t, p.Apply(context.Background(), game, []*domain.Mod{a}))

	require.NoError(t, p.Restore(context.Background(), game))
	assert.Equal(t, domain.StateApplied, p.State())

	assert.NoFileExists(t, filepath.Join(containerDir, "pakchunk1-001-AMO-Alpha.pak"))
	assert.FileExists(t, filepath.Join(containerDir, "pakchunk0-WindowsNoEditor.pak"))
	assert.Empty(t, store.LoadApplied(game.ID))
}

func TestModToken(t *testing.T) {
	assert.Equal(t, "Alpha", modToken("pakchunk30-Alpha", "whatever"))
	assert.Equal(t, "Extra-Pack", modToken("pakchunk2-Extra-Pack", "x"))
	assert.Equal(t, "CoolMod", modToken("pakchunk99", "Cool Mod"))
}
