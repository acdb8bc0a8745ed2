package core

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"github.com/KolarF1/AMO-Launcher-sub000/internal/domain"
	"github.com/KolarF1/AMO-Launcher-sub000/internal/logging"
	"github.com/KolarF1/AMO-Launcher-sub000/internal/scan"
	"github.com/KolarF1/AMO-Launcher-sub000/internal/storage/config"
	"github.com/KolarF1/AMO-Launcher-sub000/internal/storage/db"
	"github.com/KolarF1/AMO-Launcher-sub000/internal/storage/state"
)

// Service wires the core together: games registry, snapshot store, manifest
// cache, indexer, detector, backup manager. All collaborators are explicit
// so tests can substitute fakes.
type Service struct {
	configDir string

	games    map[string]*domain.Game
	store    *state.Store
	cache    *db.DB
	indexer  *Indexer
	detector *Detector
	backup   *BackupManager
	log      zerolog.Logger

	mu      sync.Mutex
	applyMu map[string]*sync.Mutex
}

// NewService loads configuration and opens the persistent stores. A broken
// manifest cache degrades to live scans instead of failing startup.
func NewService(configDir, dataDir string) (*Service, error) {
	log := logging.For("service")

	games, err := config.LoadGames(configDir)
	if err != nil {
		return nil, fmt.Errorf("loading games: %w", err)
	}

	store := state.New(dataDir)

	cache, err := db.New(filepath.Join(dataDir, "manifests.db"))
	if err != nil {
		log.Warn().Err(err).Msg("manifest cache unavailable, falling back to live scans")
		cache = nil
	}

	indexer := NewIndexer(cache)
	return &Service{
		configDir: configDir,
		games:     games,
		store:     store,
		cache:     cache,
		indexer:   indexer,
		detector:  NewDetector(indexer),
		backup:    NewBackupManager(store),
		log:       log,
		applyMu:   make(map[string]*sync.Mutex),
	}, nil
}

// Close releases the manifest cache.
func (s *Service) Close() error {
	if s.cache != nil {
		return s.cache.Close()
	}
	return nil
}

// Game returns a configured game by ID.
func (s *Service) Game(id string) (*domain.Game, error) {
	g, ok := s.games[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrGameNotFound, id)
	}
	return g, nil
}

// Games returns all configured games, sorted by ID.
func (s *Service) Games() []*domain.Game {
	return config.SortedGames(s.games)
}

// Indexer exposes the manifest indexer.
func (s *Service) Indexer() *Indexer { return s.indexer }

// Detector exposes the conflict detector.
func (s *Service) Detector() *Detector { return s.detector }

// Backup exposes the backup manager.
func (s *Service) Backup() *BackupManager { return s.backup }

// LoadMods scans the library directory and merges the persisted flags.
func (s *Service) LoadMods(libraryDir string) ([]*domain.Mod, error) {
	mods, err := scan.Scan(libraryDir)
	if err != nil {
		return nil, err
	}
	sf, err := scan.LoadState(s.configDir)
	if err != nil {
		return nil, err
	}
	sf.Apply(mods)
	return mods, nil
}

// SaveMods persists the mods' current flags back to mods.yaml.
func (s *Service) SaveMods(mods []*domain.Mod) error {
	sf, err := scan.LoadState(s.configDir)
	if err != nil {
		return err
	}
	sf.Record(mods)
	return sf.Save(s.configDir)
}

// gameLock returns the per-game mutex serializing backup and apply runs.
// Both perform multi-step, non-atomic file tree mutations.
func (s *Service) gameLock(gameID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.applyMu[gameID]; !ok {
		s.applyMu[gameID] = &sync.Mutex{}
	}
	return s.applyMu[gameID]
}

// EnsureBackup runs the backup decision under the game's apply lock.
func (s *Service) EnsureBackup(ctx context.Context, game *domain.Game, confirm ConfirmFunc, progress ProgressFunc) (bool, error) {
	lock := s.gameLock(game.ID)
	lock.Lock()
	defer lock.Unlock()
	return s.backup.EnsureBackup(ctx, game, confirm, progress)
}

// Apply verifies the backup and deploys the active subset of mods in
// priority order. Returns domain.ErrDeclined when the user refuses the
// backup the apply depends on.
func (s *Service) Apply(ctx context.Context, game *domain.Game, mods []*domain.Mod, confirm ConfirmFunc, progress ProgressFunc) error {
	lock := s.gameLock(game.ID)
	lock.Lock()
	defer lock.Unlock()

	ok, err := s.backup.EnsureBackup(ctx, game, confirm, progress)
	if err != nil {
		return fmt.Errorf("ensuring backup: %w", err)
	}
	if !ok {
		return domain.ErrDeclined
	}

	pipeline := NewPipeline(s.store, s.indexer, progress)
	if err := pipeline.Apply(ctx, game, scan.ActiveMods(mods)); err != nil {
		return err
	}

	for _, m := range mods {
		if !m.Active {
			m.Applied = false
		}
	}
	return s.SaveMods(mods)
}

// Restore puts the game back to pristine state and clears the mods'
// applied flags, so listings agree with the disk again.
func (s *Service) Restore(ctx context.Context, game *domain.Game, mods []*domain.Mod, progress ProgressFunc) error {
	lock := s.gameLock(game.ID)
	lock.Lock()
	defer lock.Unlock()

	pipeline := NewPipeline(s.store, s.indexer, progress)
	if err := pipeline.Restore(ctx, game); err != nil {
		return err
	}

	for _, m := range mods {
		m.Applied = false
	}
	return s.SaveMods(mods)
}
