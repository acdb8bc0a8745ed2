package core

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/KolarF1/AMO-Launcher-sub000/internal/archive"
	"github.com/KolarF1/AMO-Launcher-sub000/internal/domain"
	"github.com/KolarF1/AMO-Launcher-sub000/internal/fsutil"
	"github.com/KolarF1/AMO-Launcher-sub000/internal/storage/state"
)

const (
	// pakMarker tags every chunk this tool deploys; untagged chunks are
	// never touched.
	pakMarker = "AMO"

	// pakChunkBase is the fixed chunk-number token in deployed filenames.
	pakChunkBase = "pakchunk1"

	// pakPurgePattern matches deployed chunk basenames: fixed token, 3-digit
	// ordinal, marker, mod token.
	pakPurgePattern = "pakchunk*-???-" + pakMarker + "-*"
)

// pakSidecarExts is the chunk file set deployed and purged together.
var pakSidecarExts = []string{".pak", ".ucas", ".utoc"}

// containerCandidates returns the probe paths for a game's pak directory,
// most specific first.
func containerCandidates(game *domain.Game) []string {
	var candidates []string
	if year := game.YearToken(); len(year) == 4 {
		candidates = append(candidates, filepath.Join("F1Manager"+year[2:], "Content", "Paks"))
	}
	candidates = append(candidates, filepath.Join("Game", "Content", "Paks"))
	return candidates
}

// findContainerDir probes the candidate paths under the install directory.
func findContainerDir(game *domain.Game) (string, error) {
	for _, c := range containerCandidates(game) {
		dir := filepath.Join(game.InstallPath, c)
		if fsutil.DirExists(dir) {
			return dir, nil
		}
	}
	return "", fmt.Errorf("%s: %w", game.Name, domain.ErrContainerNotFound)
}

// PurgeChunks removes every chunk this tool previously deployed, together
// with its sidecars. Files without the marker are left alone, which is what
// makes purge+redeploy an idempotent reset.
func PurgeChunks(containerDir string) error {
	entries, err := os.ReadDir(containerDir)
	if err != nil {
		return fmt.Errorf("reading container dir: %w", err)
	}

	bases := make(map[string]bool)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if ok, _ := path.Match(pakPurgePattern, e.Name()); ok {
			bases[strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))] = true
		}
	}

	for base := range bases {
		for _, ext := range pakSidecarExts {
			err := os.Remove(filepath.Join(containerDir, base+ext))
			if err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("purging %s%s: %w", base, ext, err)
			}
		}
	}
	return nil
}

// applyPakchunks deploys active mods as renamed pak chunks. The priority
// ordinal is embedded in the filename; that is the only load-order mechanism
// the container runtime offers.
func (p *Pipeline) applyPakchunks(ctx context.Context, game *domain.Game, active []*domain.Mod) error {
	containerDir, err := findContainerDir(game)
	if err != nil {
		p.state = domain.StateFailed
		return err
	}
	p.state = domain.StateBackupVerified

	p.state = domain.StateApplying
	p.report(0, "Purging deployed chunks")
	if err := PurgeChunks(containerDir); err != nil {
		p.state = domain.StateFailed
		return err
	}

	ordinals := PakchunkPriorities(active)
	steps := float64(len(active) + 1)
	done := 0
	// Ordinal 1 (highest list index) deploys first
	for i := len(active) - 1; i >= 0; i-- {
		mod := active[i]
		done++
		p.report(float64(done)/steps, "Deploying "+mod.Name)
		if err := p.deployChunks(ctx, containerDir, mod, ordinals[mod.Key()]); err != nil {
			p.state = domain.StateFailed
			return fmt.Errorf("deploying %s: %w", mod.Name, err)
		}
		mod.Applied = true
	}

	if err := p.store.SaveApplied(game.ID, appliedRecord(active)); err != nil {
		p.log.Warn().Err(err).Msg("could not record applied set")
	}
	p.state = domain.StateApplied
	p.report(1, "Chunks deployed")
	return nil
}

// restorePakchunks purges every tagged chunk and clears the applied record.
func (p *Pipeline) restorePakchunks(game *domain.Game) error {
	containerDir, err := findContainerDir(game)
	if err != nil {
		p.state = domain.StateFailed
		return err
	}

	p.state = domain.StateApplying
	p.report(0, "Purging deployed chunks")
	if err := PurgeChunks(containerDir); err != nil {
		p.state = domain.StateFailed
		return err
	}

	if err := p.store.SaveApplied(game.ID, []state.AppliedMod{}); err != nil {
		p.log.Warn().Err(err).Msg("could not clear applied record")
	}
	p.state = domain.StateApplied
	p.report(1, "Deployed chunks removed")
	return nil
}

// deployChunks locates a mod's chunk files and copies them into the
// container directory under the rewritten, ordinal-encoded name.
func (p *Pipeline) deployChunks(ctx context.Context, containerDir string, mod *domain.Mod, ordinal int) error {
	root, cleanup, err := p.chunkRoot(ctx, mod)
	if err != nil {
		return err
	}
	if cleanup != nil {
		defer cleanup()
	}
	if root == "" {
		p.log.Warn().Str("mod", mod.Name).Msg("mod files missing on disk, skipping")
		return nil
	}

	paks, err := filepath.Glob(filepath.Join(root, "pakchunk*.pak"))
	if err != nil {
		return err
	}
	if len(paks) == 0 {
		p.log.Warn().Str("mod", mod.Name).Msg("no pak chunk found in mod, skipping")
		return nil
	}
	sort.Strings(paks)

	for _, pak := range paks {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		srcBase := strings.TrimSuffix(pak, ".pak")
		newBase := fmt.Sprintf("%s-%03d-%s-%s", pakChunkBase, ordinal, pakMarker, modToken(filepath.Base(srcBase), mod.Name))
		for _, ext := range pakSidecarExts {
			src := srcBase + ext
			if _, err := os.Stat(src); os.IsNotExist(err) {
				continue
			}
			if err := fsutil.CopyFile(src, filepath.Join(containerDir, newBase+ext)); err != nil {
				return err
			}
		}
	}
	return nil
}

// chunkRoot returns the directory holding a mod's chunk files. Archive mods
// are extracted to a temp dir first; cleanup removes it. An empty root means
// the mod's source is gone.
func (p *Pipeline) chunkRoot(ctx context.Context, mod *domain.Mod) (string, func(), error) {
	if !mod.IsArchive {
		root := mod.FileRoot()
		if !fsutil.DirExists(root) {
			return "", nil, nil
		}
		return root, nil, nil
	}

	if _, err := os.Stat(mod.ArchivePath); os.IsNotExist(err) {
		return "", nil, nil
	}
	r, err := archive.Open(mod.ArchivePath)
	if err != nil {
		return "", nil, fmt.Errorf("opening archive %s: %w", mod.ArchivePath, err)
	}
	defer r.Close()

	tempDir, err := os.MkdirTemp("", "amo-chunks-*")
	if err != nil {
		return "", nil, err
	}
	cleanup := func() { _ = os.RemoveAll(tempDir) }
	if err := r.ExtractPrefix(ctx, mod.EntryPrefix(), tempDir); err != nil {
		cleanup()
		return "", nil, err
	}
	return tempDir, cleanup, nil
}

// modToken derives the mod-name token for the rewritten filename: the part
// of the original chunk name after its first dash, else the mod's display
// name with separators stripped.
func modToken(chunkBase, modName string) string {
	if i := strings.Index(chunkBase, "-"); i >= 0 && i+1 < len(chunkBase) {
		return chunkBase[i+1:]
	}
	token := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '_':
			return -1
		}
		return r
	}, modName)
	if token == "" {
		token = "mod"
	}
	return token
}
