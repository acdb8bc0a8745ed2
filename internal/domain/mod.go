package domain

import (
	"path"
	"path/filepath"
)

// ModSubtree is the directory inside a mod (folder or archive) that holds the
// files to overlay onto the game. Anything outside it is metadata and is
// never deployed.
const ModSubtree = "Mod"

// Mod represents one discovered mod, either folder-based or archive-based.
// Discovery fills in identity and metadata; the core mutates only Active,
// Priority and the cached manifest.
type Mod struct {
	Name     string // Display name
	Category string
	Author   string

	IsArchive   bool
	ArchivePath string // Archive mods: path to the .zip/.7z/.rar
	FolderPath  string // Folder mods: directory containing the Mod subtree
	RootPath    string // Archive mods: optional path inside the archive locating the Mod subtree

	Active   bool // User intent: include in the next apply
	Applied  bool // Current state: part of the last applied set
	Priority int  // Higher = applied later = wins conflicts

	// Manifest is the cached list of files under the Mod subtree, relative,
	// forward-slash separated. Nil until indexed; empty when indexing failed.
	Manifest []string
}

// Key returns the mod's stable identity: the on-disk source path.
func (m *Mod) Key() string {
	if m.IsArchive {
		return m.ArchivePath
	}
	return m.FolderPath
}

// FileRoot returns the directory holding a folder mod's deployable files.
func (m *Mod) FileRoot() string {
	return filepath.Join(m.FolderPath, ModSubtree)
}

// EntryPrefix returns the archive entry prefix under which an archive mod's
// deployable files live, always with a trailing slash.
func (m *Mod) EntryPrefix() string {
	if m.RootPath != "" {
		return path.Join(m.RootPath, ModSubtree) + "/"
	}
	return ModSubtree + "/"
}
