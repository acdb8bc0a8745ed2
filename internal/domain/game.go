package domain

import (
	"path/filepath"
	"regexp"
	"strings"
)

// BackupDirName is the pristine backup directory created under a game's
// install directory. If it exists it is assumed complete; backups are made
// wholesale or not at all.
const BackupDirName = "Original_GameData"

// DeployStrategy determines how mods reach the game at launch
type DeployStrategy int

const (
	DeployRawOverlay DeployStrategy = iota // restore pristine, copy mod trees over install dir
	DeployPakchunk                         // rename-encoded pak chunks in the runtime container dir
)

func (s DeployStrategy) String() string {
	switch s {
	case DeployPakchunk:
		return "pakchunk"
	default:
		return "raw-overlay"
	}
}

// Game represents a moddable game installation.
// Values are supplied by the game registry; the core only reads them.
type Game struct {
	ID          string // Unique slug, e.g., "f1-2021"
	Name        string // Display name, e.g., "F1 2021"
	ExePath     string // Primary executable, used for version fingerprinting
	InstallPath string // Game installation directory
}

// Strategy returns the deployment strategy for this game.
// "Manager" titles load mods through renamed pak chunks and never use the
// file-based backup/overlay mechanism.
func (g *Game) Strategy() DeployStrategy {
	if strings.Contains(g.Name, "Manager") {
		return DeployPakchunk
	}
	return DeployRawOverlay
}

// BackupPath returns the pristine backup directory for this game.
func (g *Game) BackupPath() string {
	return filepath.Join(g.InstallPath, BackupDirName)
}

var fullYearRe = regexp.MustCompile(`^20\d{2}$`)

// YearToken derives the game's year token from its display name: the first
// 4-digit 20xx token, else a 2-digit token after an "F1" token expanded to
// 20xx, else "". The token is substituted into year-parameterized backup
// folder names.
func (g *Game) YearToken() string {
	fields := strings.Fields(g.Name)
	for _, f := range fields {
		if fullYearRe.MatchString(f) {
			return f
		}
	}
	sawF1 := false
	for _, f := range fields {
		if strings.EqualFold(f, "F1") {
			sawF1 = true
			continue
		}
		if sawF1 && len(f) == 2 && f[0] >= '0' && f[0] <= '9' && f[1] >= '0' && f[1] <= '9' {
			return "20" + f
		}
	}
	return ""
}
