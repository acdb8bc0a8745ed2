package core

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/KolarF1/AMO-Launcher-sub000/internal/domain"
	"github.com/KolarF1/AMO-Launcher-sub000/internal/fsutil"
	"github.com/KolarF1/AMO-Launcher-sub000/internal/logging"
	"github.com/KolarF1/AMO-Launcher-sub000/internal/storage/state"
	"github.com/KolarF1/AMO-Launcher-sub000/internal/version"
)

// ConfirmFunc asks the user to approve a backup. versionChanged reports
// whether an existing backup is about to be replaced (re-backup after a game
// patch) as opposed to a first backup.
type ConfirmFunc func(versionChanged bool) bool

// ProgressFunc reports coarse progress: a completed fraction and a message.
// Called per top-level folder or per mod, never per file.
type ProgressFunc func(fraction float64, message string)

// backupSubdirs are the game subdirectories subject to modding. "{year}" is
// replaced by the game's year token; entries absent from the install
// directory are skipped, since not every title ships every folder.
var backupSubdirs = []string{
	"{year}_asset_groups",
	"audio",
	"videos",
	"f1_{year}_vehicle_package",
}

// BackupSubdirs returns the concrete backup folder list for a year token.
// Year-parameterized entries are dropped when no token could be derived.
func BackupSubdirs(year string) []string {
	var dirs []string
	for _, d := range backupSubdirs {
		if strings.Contains(d, "{year}") {
			if year == "" {
				continue
			}
			d = strings.ReplaceAll(d, "{year}", year)
		}
		dirs = append(dirs, d)
	}
	return dirs
}

// BackupManager decides when a pristine backup must be (re)created and
// performs the wholesale copy.
type BackupManager struct {
	store       *state.Store
	fingerprint func(exePath string) string
	log         zerolog.Logger
}

// NewBackupManager creates a backup manager over the given snapshot store.
func NewBackupManager(store *state.Store) *BackupManager {
	return &BackupManager{
		store:       store,
		fingerprint: version.Compute,
		log:         logging.For("backup"),
	}
}

// HasVersionChanged compares the executable's current fingerprint against
// the stored snapshot and records the new value in memory, so a first-seen
// game does not appear changed on the next call. Persisting is the caller's
// job (EnsureBackup does it at the right points).
func (b *BackupManager) HasVersionChanged(game *domain.Game) bool {
	current := b.fingerprint(game.ExePath)
	previous, known := b.store.Fingerprint(game.ID)
	b.store.SetFingerprint(game.ID, current)
	return known && previous != current
}

// EnsureBackup guarantees a usable pristine backup exists for the game.
// Returns (false, nil) when the user declines; in that case nothing on disk
// changes and the fingerprint is not persisted, so the next launch asks
// again. Any copy error aborts the call and the backup must be treated as
// unusable.
func (b *BackupManager) EnsureBackup(ctx context.Context, game *domain.Game, confirm ConfirmFunc, progress ProgressFunc) (bool, error) {
	// Pak-based titles deploy through the container directory and never
	// touch game data files, so there is nothing to back up.
	if game.Strategy() == domain.DeployPakchunk {
		return true, nil
	}

	backupPath := game.BackupPath()
	backupExists := fsutil.DirExists(backupPath)
	versionChanged := b.HasVersionChanged(game)

	if backupExists && !versionChanged {
		if err := b.store.Save(); err != nil {
			b.log.Warn().Err(err).Msg("could not persist version snapshot")
		}
		return true, nil
	}

	if confirm != nil && !confirm(versionChanged && backupExists) {
		b.log.Info().Str("game", game.ID).Msg("backup declined")
		return false, nil
	}

	if err := os.RemoveAll(backupPath); err != nil {
		return false, fmt.Errorf("removing stale backup: %w", err)
	}
	if err := os.MkdirAll(backupPath, 0755); err != nil {
		return false, fmt.Errorf("creating backup dir: %w", err)
	}

	year := game.YearToken()
	dirs := BackupSubdirs(year)
	for i, dir := range dirs {
		src := filepath.Join(game.InstallPath, dir)
		if !fsutil.DirExists(src) {
			continue
		}
		if progress != nil {
			progress(float64(i)/float64(len(dirs)), "Backing up "+dir)
		}
		if err := fsutil.CopyTree(ctx, src, filepath.Join(backupPath, dir)); err != nil {
			return false, fmt.Errorf("backing up %s: %w", dir, err)
		}
	}
	if progress != nil {
		progress(1, "Backup complete")
	}

	if err := b.store.Save(); err != nil {
		b.log.Warn().Err(err).Msg("could not persist version snapshot")
	}
	b.log.Info().Str("game", game.ID).Str("year", year).Bool("rebackup", versionChanged).Msg("pristine backup created")
	return true, nil
}
