package core

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/KolarF1/AMO-Launcher-sub000/internal/archive"
	"github.com/KolarF1/AMO-Launcher-sub000/internal/domain"
	"github.com/KolarF1/AMO-Launcher-sub000/internal/fsutil"
	"github.com/KolarF1/AMO-Launcher-sub000/internal/logging"
	"github.com/KolarF1/AMO-Launcher-sub000/internal/storage/state"
)

// Pipeline applies a set of active mods to a game. The raw-overlay strategy
// restores the pristine backup and copies mods over it in priority order;
// the pakchunk strategy purges and redeploys renamed chunks. Both are
// idempotent because the reset step always runs first.
//
// One Apply per game may be in flight at a time; Service enforces that with
// a per-game mutex.
type Pipeline struct {
	store    *state.Store
	indexer  *Indexer
	progress ProgressFunc
	log      zerolog.Logger
	state    domain.ApplyState
}

// NewPipeline creates a pipeline. progress may be nil.
func NewPipeline(store *state.Store, indexer *Indexer, progress ProgressFunc) *Pipeline {
	return &Pipeline{
		store:    store,
		indexer:  indexer,
		progress: progress,
		log:      logging.For("pipeline"),
		state:    domain.StateIdle,
	}
}

// State returns where the last Apply run ended up.
func (p *Pipeline) State() domain.ApplyState {
	return p.state
}

func (p *Pipeline) report(fraction float64, message string) {
	if p.progress != nil {
		p.progress(fraction, message)
	}
}

// Apply deploys the active mods. active must already be in application
// order: ascending priority, later entries overwrite earlier ones. A failed
// run is recoverable by calling Apply again; the restore (or purge) step
// leaves no corrupt intermediate state behind.
func (p *Pipeline) Apply(ctx context.Context, game *domain.Game, active []*domain.Mod) error {
	p.state = domain.StateIdle
	if game.Strategy() == domain.DeployPakchunk {
		return p.applyPakchunks(ctx, game, active)
	}
	return p.applyOverlay(ctx, game, active)
}

func (p *Pipeline) applyOverlay(ctx context.Context, game *domain.Game, active []*domain.Mod) error {
	backupPath := game.BackupPath()
	if !fsutil.DirExists(backupPath) {
		p.state = domain.StateFailed
		return fmt.Errorf("%s: %w", game.Name, domain.ErrBackupMissing)
	}
	p.state = domain.StateBackupVerified

	record := appliedRecord(active)
	p.state = domain.StateModsScanned

	// Skip the full restore+overlay when the active set is identical to the
	// one already on disk; restoring whole game trees is slow.
	if appliedEqual(record, p.store.LoadApplied(game.ID)) {
		p.log.Debug().Str("game", game.ID).Msg("active set unchanged, skipping apply")
		p.state = domain.StateNoChangeNeeded
		return nil
	}

	p.state = domain.StateApplying
	p.report(0, "Restoring original game data")
	if err := fsutil.CopyTree(ctx, backupPath, game.InstallPath); err != nil {
		p.state = domain.StateFailed
		return fmt.Errorf("restoring pristine data: %w", err)
	}

	steps := float64(len(active) + 1)
	for i, mod := range active {
		p.report(float64(i+1)/steps, "Applying "+mod.Name)
		if err := p.overlayMod(ctx, game, mod); err != nil {
			p.state = domain.StateFailed
			return fmt.Errorf("applying %s: %w", mod.Name, err)
		}
		mod.Applied = true
	}

	if err := p.store.SaveApplied(game.ID, record); err != nil {
		p.log.Warn().Err(err).Msg("could not record applied set; next apply will rerun")
	}
	p.state = domain.StateApplied
	p.report(1, "Mods applied")
	return nil
}

// overlayMod copies one mod's files over the install directory. A mod whose
// source vanished from disk is skipped with a warning rather than failing
// the whole apply; archive read errors at this stage are fatal.
func (p *Pipeline) overlayMod(ctx context.Context, game *domain.Game, mod *domain.Mod) error {
	if !mod.IsArchive {
		root := mod.FileRoot()
		if !fsutil.DirExists(root) {
			p.log.Warn().Str("mod", mod.Name).Msg("mod files missing on disk, skipping")
			return nil
		}
		return fsutil.CopyTree(ctx, root, game.InstallPath)
	}

	if _, err := os.Stat(mod.ArchivePath); os.IsNotExist(err) {
		p.log.Warn().Str("mod", mod.Name).Msg("mod archive missing on disk, skipping")
		return nil
	}
	r, err := archive.Open(mod.ArchivePath)
	if err != nil {
		return fmt.Errorf("opening archive %s: %w", mod.ArchivePath, err)
	}
	defer r.Close()
	return r.ExtractPrefix(ctx, mod.EntryPrefix(), game.InstallPath)
}

// Restore puts the game back to pristine state, ignoring the dirty check.
// For pak-chunk games pristine means no tagged chunks in the container.
func (p *Pipeline) Restore(ctx context.Context, game *domain.Game) error {
	if game.Strategy() == domain.DeployPakchunk {
		return p.restorePakchunks(game)
	}

	backupPath := game.BackupPath()
	if !fsutil.DirExists(backupPath) {
		p.state = domain.StateFailed
		return fmt.Errorf("%s: %w", game.Name, domain.ErrBackupMissing)
	}
	p.state = domain.StateApplying

	p.report(0, "Restoring original game data")
	if err := fsutil.CopyTree(ctx, backupPath, game.InstallPath); err != nil {
		p.state = domain.StateFailed
		return fmt.Errorf("restoring pristine data: %w", err)
	}

	if err := p.store.SaveApplied(game.ID, []state.AppliedMod{}); err != nil {
		p.log.Warn().Err(err).Msg("could not clear applied record")
	}
	p.state = domain.StateApplied
	p.report(1, "Original game data restored")
	return nil
}

// appliedRecord captures the identity of the active set for the dirty check:
// source path and container kind, in application order.
func appliedRecord(active []*domain.Mod) []state.AppliedMod {
	record := make([]state.AppliedMod, 0, len(active))
	for _, m := range active {
		record = append(record, state.AppliedMod{
			Path:    m.Key(),
			Archive: m.IsArchive,
			Name:    m.Name,
		})
	}
	return record
}

func appliedEqual(a, b []state.AppliedMod) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Path != b[i].Path || a[i].Archive != b[i].Archive {
			return false
		}
	}
	return true
}
