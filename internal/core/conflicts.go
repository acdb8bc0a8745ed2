package core

import (
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/KolarF1/AMO-Launcher-sub000/internal/domain"
	"github.com/KolarF1/AMO-Launcher-sub000/internal/logging"
)

// Conflict records one file path claimed by two or more active mods. Mods
// is ordered by application order, so the last entry is the one whose copy
// survives on disk.
type Conflict struct {
	Path string
	Mods []*domain.Mod
}

// Winner returns the mod whose file ends up on disk for this path: the
// conflicting mod applied last. This must match the overlay loop exactly or
// the winner indicator lies.
func (c Conflict) Winner() *domain.Mod {
	return c.Mods[len(c.Mods)-1]
}

// Detector computes file conflicts over the active mod set.
type Detector struct {
	indexer *Indexer
	log     zerolog.Logger
}

// NewDetector creates a conflict detector over the given indexer.
func NewDetector(indexer *Indexer) *Detector {
	return &Detector{indexer: indexer, log: logging.For("conflicts")}
}

// Detect recomputes the full conflict set from scratch. active must be in
// application order (ascending priority). Paths compare case-insensitively;
// the first-seen spelling is reported. Fewer than two active mods can never
// conflict.
func (d *Detector) Detect(active []*domain.Mod) []Conflict {
	if len(active) < 2 {
		return nil
	}

	fileToMods := make(map[string][]*domain.Mod)
	spelling := make(map[string]string)

	for _, mod := range active {
		manifest := d.indexer.Manifest(mod)
		if len(manifest) == 0 {
			// An unindexable mod contributes nothing and can never win or
			// lose; Manifest already logged why.
			d.log.Debug().Str("mod", mod.Name).Msg("empty manifest during conflict scan")
		}
		for _, p := range manifest {
			key := strings.ToLower(p)
			if _, seen := spelling[key]; !seen {
				spelling[key] = p
			}
			fileToMods[key] = append(fileToMods[key], mod)
		}
	}

	var conflicts []Conflict
	for key, mods := range fileToMods {
		if len(mods) > 1 {
			conflicts = append(conflicts, Conflict{Path: spelling[key], Mods: mods})
		}
	}

	sort.Slice(conflicts, func(i, j int) bool { return conflicts[i].Path < conflicts[j].Path })
	return conflicts
}

// ReindexPriorities returns the priority assignment implied by an ordered
// active list: a mod's position is its priority, so list order, priority and
// overwrite order always agree. Pure; apply the result with SetPriorities.
func ReindexPriorities(order []*domain.Mod) map[string]int {
	priorities := make(map[string]int, len(order))
	for i, mod := range order {
		priorities[mod.Key()] = i
	}
	return priorities
}

// SetPriorities writes a priority assignment onto the descriptors.
func SetPriorities(mods []*domain.Mod, priorities map[string]int) {
	for _, mod := range mods {
		if p, ok := priorities[mod.Key()]; ok {
			mod.Priority = p
		}
	}
}

// PakchunkPriorities assigns the container-strategy load ordinals:
// consecutive integers from 1 following the reverse of the active list's
// index order, so the mod at the highest index gets ordinal 1 and is
// deployed first. This deliberately mirrors the container runtime's own
// ordering rather than the raw-overlay convention.
func PakchunkPriorities(active []*domain.Mod) map[string]int {
	ordinals := make(map[string]int, len(active))
	for i := len(active) - 1; i >= 0; i-- {
		ordinals[active[i].Key()] = len(active) - i
	}
	return ordinals
}
