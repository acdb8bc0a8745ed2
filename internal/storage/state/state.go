// Package state persists the launcher's own bookkeeping: the version
// snapshot map and the last-applied mod set per game. Both are flat JSON
// files that only this process reads or writes.
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/KolarF1/AMO-Launcher-sub000/internal/logging"
)

const versionsFile = "versions.json"

// DefaultDir returns the per-user data directory for launcher state.
func DefaultDir() string {
	return filepath.Join(xdg.DataHome, "amo")
}

// Store holds the loaded snapshot map and writes it back wholesale.
// Access is single-threaded by construction; callers in concurrent contexts
// must serialize around it.
type Store struct {
	dir       string
	snapshots map[string]string
}

// New creates a store rooted at dir and loads the snapshot map. A missing or
// corrupt snapshots file yields an empty map rather than an error, so a bad
// state file can never block startup.
func New(dir string) *Store {
	s := &Store{dir: dir, snapshots: make(map[string]string)}
	s.load()
	return s
}

func (s *Store) load() {
	data, err := os.ReadFile(filepath.Join(s.dir, versionsFile))
	if err != nil {
		return
	}
	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		log := logging.For("state")
		log.Warn().Err(err).Msg("corrupt version snapshots, starting empty")
		return
	}
	s.snapshots = m
}

// Fingerprint returns the stored fingerprint for a game key.
func (s *Store) Fingerprint(gameKey string) (string, bool) {
	fp, ok := s.snapshots[gameKey]
	return fp, ok
}

// SetFingerprint records the fingerprint for a game key in memory.
func (s *Store) SetFingerprint(gameKey, fingerprint string) {
	s.snapshots[gameKey] = fingerprint
}

// Save overwrites the snapshots file with the in-memory map.
func (s *Store) Save() error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("creating state dir: %w", err)
	}
	data, err := json.MarshalIndent(s.snapshots, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling snapshots: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, versionsFile), data, 0644); err != nil {
		return fmt.Errorf("writing snapshots: %w", err)
	}
	return nil
}

// AppliedMod is the persisted identity of one applied mod; the apply
// pipeline compares the stored list against the current active set to skip
// redundant full-tree copies.
type AppliedMod struct {
	Path    string `json:"path"`
	Archive bool   `json:"archive"`
	Name    string `json:"name"`
}

func (s *Store) appliedPath(gameID string) string {
	return filepath.Join(s.dir, fmt.Sprintf("applied-%s.json", gameID))
}

// LoadApplied returns the last-applied mod list for a game. Missing or
// corrupt files yield nil.
func (s *Store) LoadApplied(gameID string) []AppliedMod {
	data, err := os.ReadFile(s.appliedPath(gameID))
	if err != nil {
		return nil
	}
	var mods []AppliedMod
	if err := json.Unmarshal(data, &mods); err != nil {
		log := logging.For("state")
		log.Warn().Err(err).Str("game", gameID).Msg("corrupt applied-mods record, ignoring")
		return nil
	}
	return mods
}

// SaveApplied overwrites the last-applied mod list for a game.
func (s *Store) SaveApplied(gameID string, mods []AppliedMod) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("creating state dir: %w", err)
	}
	data, err := json.MarshalIndent(mods, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling applied mods: %w", err)
	}
	if err := os.WriteFile(s.appliedPath(gameID), data, 0644); err != nil {
		return fmt.Errorf("writing applied mods: %w", err)
	}
	return nil
}
