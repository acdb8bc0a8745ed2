package version

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeExe builds a minimal PE-shaped file: an MZ header, filler, and a
// VS_FIXEDFILEINFO block carrying the given version.
func fakeExe(t *testing.T, major, minor, patch, build uint16) string {
	t.Helper()

	data := []byte("MZ")
	data = append(data, make([]byte, 256)...)
	data = append(data, fixedFileInfoSignature...)
	block := make([]byte, 12)
	binary.LittleEndian.PutUint32(block[0:], 0x00010000) // dwStrucVersion
	binary.LittleEndian.PutUint32(block[4:], uint32(major)<<16|uint32(minor))
	binary.LittleEndian.PutUint32(block[8:], uint32(patch)<<16|uint32(build))
	data = append(data, block...)
	data = append(data, make([]byte, 64)...)

	path := filepath.Join(t.TempDir(), "game.exe")
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestPEFileVersion(t *testing.T) {
	path := fakeExe(t, 1, 13, 0, 4)

	ver, err := peFileVersion(path)
	require.NoError(t, err)
	assert.Equal(t, "1.13.0.4", ver)
}

func TestPEFileVersion_NotPE(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("just text"), 0644))

	_, err := peFileVersion(path)
	assert.Error(t, err)
}

func TestPEFileVersion_NoResource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bare.exe")
	require.NoError(t, os.WriteFile(path, append([]byte("MZ"), make([]byte, 512)...), 0644))

	_, err := peFileVersion(path)
	assert.ErrorIs(t, err, errNoVersionResource)
}

func TestCompute_Stable(t *testing.T) {
	path := fakeExe(t, 1, 5, 0, 0)

	first := Compute(path)
	second := Compute(path)
	assert.Equal(t, first, second)
	assert.Contains(t, first, "1.5.0.0_")
}

func TestCompute_MtimeChangesFingerprint(t *testing.T) {
	path := fakeExe(t, 1, 5, 0, 0)

	first := Compute(path)
	touched := time.Now().Add(2 * time.Hour)
	require.NoError(t, os.Chtimes(path, touched, touched))

	assert.NotEqual(t, first, Compute(path))
}

func TestCompute_FallbackToSizeMtime(t *testing.T) {
	// No version resource: the size+mtime probe takes over.
	path := filepath.Join(t.TempDir(), "plain.exe")
	require.NoError(t, os.WriteFile(path, []byte("no metadata here"), 0644))

	info, err := os.Stat(path)
	require.NoError(t, err)

	fp := Compute(path)
	assert.Equal(t, fmt.Sprintf("%d_%d", info.Size(), info.ModTime().Unix()), fp)
	assert.Equal(t, fp, Compute(path))
}

func TestCompute_InaccessibleFileStillFingerprints(t *testing.T) {
	fp := Compute(filepath.Join(t.TempDir(), "missing.exe"))

	// Wall-clock fallback: parseable in the fingerprint timestamp layout.
	_, err := time.Parse(TimestampLayout, fp)
	assert.NoError(t, err)
}
