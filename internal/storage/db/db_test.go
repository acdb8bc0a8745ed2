package db_test

import (
	"path/filepath"
	"testing"

	"github.com/KolarF1/AMO-Launcher-sub000/internal/storage/db"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *db.DB {
	t.Helper()
	d, err := db.New(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func TestManifestCache_RoundTrip(t *testing.T) {
	d := openTestDB(t)

	paths := []string{"data/setup.cfg", "texture/car.dds"}
	require.NoError(t, d.PutManifest("/mods/a.zip", 1234, paths))

	got, ok, err := d.GetManifest("/mods/a.zip", 1234)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, paths, got)
}

func TestManifestCache_StaleMtimeMisses(t *testing.T) {
	d := openTestDB(t)

	require.NoError(t, d.PutManifest("/mods/a.zip", 1234, []string{"f.txt"}))

	_, ok, err := d.GetManifest("/mods/a.zip", 9999)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestManifestCache_PutReplaces(t *testing.T) {
	d := openTestDB(t)

	require.NoError(t, d.PutManifest("k", 1, []string{"old.txt", "both.txt"}))
	require.NoError(t, d.PutManifest("k", 2, []string{"both.txt", "new.txt"}))

	got, ok, err := d.GetManifest("k", 2)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"both.txt", "new.txt"}, got)

	_, ok, err = d.GetManifest("k", 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestManifestCache_Invalidate(t *testing.T) {
	d := openTestDB(t)

	require.NoError(t, d.PutManifest("k", 1, []string{"f.txt"}))
	require.NoError(t, d.InvalidateManifest("k"))

	_, ok, err := d.GetManifest("k", 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestManifestCache_EmptyNeverCached(t *testing.T) {
	d := openTestDB(t)

	require.NoError(t, d.PutManifest("k", 1, nil))

	_, ok, err := d.GetManifest("k", 1)
	require.NoError(t, err)
	assert.False(t, ok)
}
