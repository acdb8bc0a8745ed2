package scan_test

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/KolarF1/AMO-Launcher-sub000/internal/domain"
	"github.com/KolarF1/AMO-Launcher-sub000/internal/scan"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func writeZip(t *testing.T, path string, entries []string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	w := zip.NewWriter(f)
	for _, name := range entries {
		e, err := w.Create(name)
		require.NoError(t, err)
		_, err = e.Write([]byte("x"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())
}

func TestScan_FolderMods(t *testing.T) {
	lib := t.TempDir()
	writeFile(t, filepath.Join(lib, "CoolSkin", "Mod", "texture", "car.dds"), "x")
	writeFile(t, filepath.Join(lib, "NotAMod", "readme.txt"), "x")

	mods, err := scan.Scan(lib)
	require.NoError(t, err)
	require.Len(t, mods, 1)
	assert.Equal(t, "CoolSkin", mods[0].Name)
	assert.False(t, mods[0].IsArchive)
	assert.Equal(t, filepath.Join(lib, "CoolSkin"), mods[0].FolderPath)
}

func TestScan_ArchiveMods(t *testing.T) {
	lib := t.TempDir()
	writeZip(t, filepath.Join(lib, "TopLevel.zip"), []string{"Mod/a.txt", "preview.png"})
	writeZip(t, filepath.Join(lib, "Nested.zip"), []string{"Nested/v2/Mod/b.txt"})
	writeZip(t, filepath.Join(lib, "NoPayload.zip"), []string{"readme.txt"})

	mods, err := scan.Scan(lib)
	require.NoError(t, err)
	require.Len(t, mods, 2)

	byName := map[string]*domain.Mod{}
	for _, m := range mods {
		byName[m.Name] = m
	}
	require.Contains(t, byName, "TopLevel")
	assert.Equal(t, "", byName["TopLevel"].RootPath)
	assert.Equal(t, "Mod/", byName["TopLevel"].EntryPrefix())

	require.Contains(t, byName, "Nested")
	assert.Equal(t, "Nested/v2", byName["Nested"].RootPath)
	assert.Equal(t, "Nested/v2/Mod/", byName["Nested"].EntryPrefix())
}

func TestScan_SkipsCorruptArchive(t *testing.T) {
	lib := t.TempDir()
	writeFile(t, filepath.Join(lib, "broken.zip"), "not a zip")
	writeZip(t, filepath.Join(lib, "good.zip"), []string{"Mod/a.txt"})

	mods, err := scan.Scan(lib)
	require.NoError(t, err)
	require.Len(t, mods, 1)
	assert.Equal(t, "good", mods[0].Name)
}

func TestState_RoundTripAndMerge(t *testing.T) {
	dir := t.TempDir()

	sf, err := scan.LoadState(dir)
	require.NoError(t, err)
	assert.Empty(t, sf.Mods)

	mods := []*domain.Mod{
		{Name: "A", FolderPath: "/mods/a", Active: true, Priority: 2},
		{Name: "B", IsArchive: true, ArchivePath: "/mods/b.zip", Priority: 1},
	}
	sf.Record(mods)
	require.NoError(t, sf.Save(dir))

	reloaded, err := scan.LoadState(dir)
	require.NoError(t, err)

	fresh := []*domain.Mod{
		{Name: "A", FolderPath: "/mods/a"},
		{Name: "B", IsArchive: true, ArchivePath: "/mods/b.zip"},
	}
	reloaded.Apply(fresh)
	assert.True(t, fresh[0].Active)
	assert.Equal(t, 2, fresh[0].Priority)
	assert.False(t, fresh[1].Active)
	assert.Equal(t, 1, fresh[1].Priority)
}

func TestActiveMods_OrderedByPriority(t *testing.T) {
	mods := []*domain.Mod{
		{Name: "C", FolderPath: "/c", Active: true, Priority: 3},
		{Name: "A", FolderPath: "/a", Active: true, Priority: 1},
		{Name: "Off", FolderPath: "/off", Active: false, Priority: 0},
		{Name: "B", FolderPath: "/b", Active: true, Priority: 2},
	}

	active := scan.ActiveMods(mods)
	require.Len(t, active, 3)
	assert.Equal(t, "A", active[0].Name)
	assert.Equal(t, "B", active[1].Name)
	assert.Equal(t, "C", active[2].Name)
}
