// Package scan discovers mods in the user's mod library directory and keeps
// their persisted flags (active, priority) in mods.yaml. The core consumes
// the resulting descriptors; it never scans on its own.
package scan

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/KolarF1/AMO-Launcher-sub000/internal/archive"
	"github.com/KolarF1/AMO-Launcher-sub000/internal/domain"
	"github.com/KolarF1/AMO-Launcher-sub000/internal/fsutil"
	"github.com/KolarF1/AMO-Launcher-sub000/internal/logging"
)

// Scan walks the library directory and returns a descriptor for every
// folder mod (a directory holding a Mod subtree) and every supported
// archive. Archives that cannot be opened are skipped with a warning; one
// broken download must not hide the rest of the library.
func Scan(libraryDir string) ([]*domain.Mod, error) {
	log := logging.For("scan")

	entries, err := os.ReadDir(libraryDir)
	if err != nil {
		return nil, fmt.Errorf("reading mod library: %w", err)
	}

	var mods []*domain.Mod
	for _, entry := range entries {
		full := filepath.Join(libraryDir, entry.Name())

		if entry.IsDir() {
			if !fsutil.DirExists(filepath.Join(full, domain.ModSubtree)) {
				continue
			}
			mods = append(mods, &domain.Mod{
				Name:       entry.Name(),
				FolderPath: full,
			})
			continue
		}

		if !archive.CanRead(entry.Name()) {
			continue
		}
		root, err := probeArchiveRoot(full)
		if err != nil {
			log.Warn().Err(err).Str("archive", full).Msg("skipping unreadable archive")
			continue
		}
		if root == noModSubtree {
			log.Debug().Str("archive", full).Msg("archive has no Mod subtree, skipping")
			continue
		}
		name := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		mods = append(mods, &domain.Mod{
			Name:        name,
			IsArchive:   true,
			ArchivePath: full,
			RootPath:    root,
		})
	}

	sort.Slice(mods, func(i, j int) bool { return mods[i].Name < mods[j].Name })
	return mods, nil
}

// noModSubtree marks an archive without any Mod directory.
const noModSubtree = "\x00none"

// probeArchiveRoot locates the Mod subtree inside an archive and returns
// the root path above it ("" when Mod sits at the top level). The shallowest
// match wins.
func probeArchiveRoot(archivePath string) (string, error) {
	r, err := archive.Open(archivePath)
	if err != nil {
		return "", err
	}
	defer r.Close()

	keys, err := r.List()
	if err != nil {
		return "", err
	}

	best := noModSubtree
	bestDepth := -1
	for _, key := range keys {
		dir := path.Dir(key)
		if dir == "." {
			continue
		}
		segs := strings.Split(dir, "/")
		for i, seg := range segs {
			if !strings.EqualFold(seg, domain.ModSubtree) {
				continue
			}
			root := strings.Join(segs[:i], "/")
			if bestDepth == -1 || i < bestDepth {
				best = root
				bestDepth = i
			}
			break
		}
	}
	return best, nil
}
