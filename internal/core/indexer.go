package core

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/KolarF1/AMO-Launcher-sub000/internal/archive"
	"github.com/KolarF1/AMO-Launcher-sub000/internal/domain"
	"github.com/KolarF1/AMO-Launcher-sub000/internal/fsutil"
	"github.com/KolarF1/AMO-Launcher-sub000/internal/logging"
	"github.com/KolarF1/AMO-Launcher-sub000/internal/storage/db"
)

// Indexer computes mod file manifests: the relative paths under a mod's Mod
// subtree, slash-separated, leaf files only.
type Indexer struct {
	cache *db.DB // Optional: caches manifests keyed by source mtime
	log   zerolog.Logger
}

// NewIndexer creates an indexer. The cache is optional; nil disables
// manifest caching.
func NewIndexer(cache *db.DB) *Indexer {
	return &Indexer{cache: cache, log: logging.For("indexer")}
}

// Manifest returns the mod's file manifest, computing and caching it on
// first use. Any failure yields an empty manifest: a mod that cannot be
// indexed never conflicts and never applies meaningfully, and the failure is
// logged so it is not hidden from the user.
//
// Only archive manifests go through the persisted cache: an archive is a
// single file whose mtime tracks every content change, while a folder's
// mtime misses edits below its direct children, so a cached folder manifest
// could hide files added in the meantime. Folder trees are cheap to walk
// and are always listed live.
func (ix *Indexer) Manifest(mod *domain.Mod) []string {
	if mod.Manifest != nil {
		return mod.Manifest
	}

	cacheable := ix.cache != nil && mod.IsArchive
	var mtime int64
	if cacheable {
		m, statErr := sourceMtime(mod)
		if statErr != nil {
			cacheable = false
		} else {
			mtime = m
			if paths, ok, err := ix.cache.GetManifest(mod.Key(), mtime); err == nil && ok {
				mod.Manifest = paths
				return paths
			}
		}
	}

	paths, err := ix.compute(mod)
	if err != nil {
		ix.log.Warn().Err(err).Str("mod", mod.Name).Msg("mod could not be indexed; it will neither conflict nor apply")
		if ix.cache != nil && mod.IsArchive {
			// Rows from an older, readable revision of this mod are stale now
			_ = ix.cache.InvalidateManifest(mod.Key())
		}
		mod.Manifest = []string{}
		return mod.Manifest
	}

	mod.Manifest = paths
	if cacheable && len(paths) > 0 {
		if err := ix.cache.PutManifest(mod.Key(), mtime, paths); err != nil {
			ix.log.Debug().Err(err).Str("mod", mod.Name).Msg("manifest cache write failed")
		}
	}
	return paths
}

func (ix *Indexer) compute(mod *domain.Mod) ([]string, error) {
	if !mod.IsArchive {
		root := mod.FileRoot()
		if !fsutil.DirExists(root) {
			return nil, fmt.Errorf("%w: %s", domain.ErrModFilesMissing, root)
		}
		return fsutil.ListFiles(root)
	}

	r, err := archive.Open(mod.ArchivePath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	keys, err := r.List()
	if err != nil {
		return nil, err
	}

	prefix := mod.EntryPrefix()
	var paths []string
	for _, key := range keys {
		// Entries outside the Mod prefix are previews and metadata
		if archive.HasPrefixFold(key, prefix) {
			paths = append(paths, key[len(prefix):])
		}
	}
	return paths, nil
}

func sourceMtime(mod *domain.Mod) (int64, error) {
	info, err := os.Stat(mod.Key())
	if err != nil {
		return 0, err
	}
	return info.ModTime().UnixNano(), nil
}
