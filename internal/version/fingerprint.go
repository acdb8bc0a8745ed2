// Package version computes comparable fingerprints for game executables.
// A changed fingerprint means the game was patched and the pristine backup
// is stale.
package version

import (
	"fmt"
	"os"
	"time"

	"github.com/KolarF1/AMO-Launcher-sub000/internal/logging"
)

// TimestampLayout is the compact timestamp format embedded in fingerprints.
const TimestampLayout = "20060102150405"

// Probe derives a fingerprint for the executable at path.
type Probe func(path string) (string, error)

// probes are tried in order; the first success wins.
var probes = []Probe{metadataProbe, sizeMtimeProbe}

// Compute returns a fingerprint for the executable. It never fails: when
// every probe errors (file inaccessible), the current wall-clock time is
// returned, which cannot match any stored value and therefore forces a fresh
// backup on the next comparison instead of silently skipping detection.
func Compute(exePath string) string {
	log := logging.For("version")
	for _, probe := range probes {
		fp, err := probe(exePath)
		if err == nil {
			return fp
		}
		log.Debug().Err(err).Str("exe", exePath).Msg("fingerprint probe failed")
	}
	log.Warn().Str("exe", exePath).Msg("executable unreadable, forcing rebackup fingerprint")
	return time.Now().Format(TimestampLayout)
}

// metadataProbe combines the embedded PE file version with the executable's
// last-modified timestamp.
func metadataProbe(path string) (string, error) {
	ver, err := peFileVersion(path)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s_%s", ver, info.ModTime().Format(TimestampLayout)), nil
}

// sizeMtimeProbe is the fallback when version metadata is unreadable.
func sizeMtimeProbe(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d_%d", info.Size(), info.ModTime().Unix()), nil
}
