package scan

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/KolarF1/AMO-Launcher-sub000/internal/domain"
)

// ModState is the persisted slice of a mod the user controls.
type ModState struct {
	Active   bool   `yaml:"active"`
	Applied  bool   `yaml:"applied"`
	Priority int    `yaml:"priority"`
	Category string `yaml:"category,omitempty"`
	Author   string `yaml:"author,omitempty"`
}

// StateFile is the top-level mods.yaml structure, keyed by mod source path.
type StateFile struct {
	Mods map[string]ModState `yaml:"mods"`
}

// LoadState reads mods.yaml from the config directory. Missing file means
// no mod has been touched yet.
func LoadState(configDir string) (*StateFile, error) {
	data, err := os.ReadFile(filepath.Join(configDir, "mods.yaml"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &StateFile{Mods: make(map[string]ModState)}, nil
		}
		return nil, fmt.Errorf("reading mods.yaml: %w", err)
	}
	var sf StateFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("parsing mods.yaml: %w", err)
	}
	if sf.Mods == nil {
		sf.Mods = make(map[string]ModState)
	}
	return &sf, nil
}

// Save writes mods.yaml back.
func (sf *StateFile) Save(configDir string) error {
	data, err := yaml.Marshal(sf)
	if err != nil {
		return fmt.Errorf("marshaling mods.yaml: %w", err)
	}
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(configDir, "mods.yaml"), data, 0644); err != nil {
		return fmt.Errorf("writing mods.yaml: %w", err)
	}
	return nil
}

// Apply merges persisted flags into freshly scanned descriptors.
func (sf *StateFile) Apply(mods []*domain.Mod) {
	for _, m := range mods {
		st, ok := sf.Mods[m.Key()]
		if !ok {
			continue
		}
		m.Active = st.Active
		m.Applied = st.Applied
		m.Priority = st.Priority
		m.Category = st.Category
		m.Author = st.Author
	}
}

// Record captures the current flags of the given descriptors.
func (sf *StateFile) Record(mods []*domain.Mod) {
	for _, m := range mods {
		st := sf.Mods[m.Key()]
		st.Active = m.Active
		st.Applied = m.Applied
		st.Priority = m.Priority
		if m.Category != "" {
			st.Category = m.Category
		}
		if m.Author != "" {
			st.Author = m.Author
		}
		sf.Mods[m.Key()] = st
	}
}

// ActiveMods filters to the active subset ordered by ascending priority,
// which is exactly the application order: later entries overwrite earlier
// ones on disk.
func ActiveMods(mods []*domain.Mod) []*domain.Mod {
	var active []*domain.Mod
	for _, m := range mods {
		if m.Active {
			active = append(active, m)
		}
	}
	sort.SliceStable(active, func(i, j int) bool { return active[i].Priority < active[j].Priority })
	return active
}
