package archive

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/KolarF1/AMO-Launcher-sub000/internal/fsutil"
)

// extractTimeout bounds 7z runs so a corrupted archive cannot hang an apply.
const extractTimeout = 5 * time.Minute

// sevenZipReader handles .7z and .rar by extracting the whole archive to a
// temp directory once, then serving lists and prefix extractions from disk.
type sevenZipReader struct {
	tempDir string
}

func openSevenZip(path string) (Reader, error) {
	if _, err := exec.LookPath("7z"); err != nil {
		return nil, fmt.Errorf("7z command not found: install p7zip-full to read .7z and .rar mods")
	}

	tempDir, err := os.MkdirTemp("", "amo-archive-*")
	if err != nil {
		return nil, fmt.Errorf("creating temp dir: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), extractTimeout)
	defer cancel()

	// -y: assume yes; -o: output directory (no space between -o and path)
	cmd := exec.CommandContext(ctx, "7z", "x", "-y", "-o"+tempDir, path)
	output, err := cmd.CombinedOutput()
	if err != nil {
		_ = os.RemoveAll(tempDir)
		if ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("7z extraction timed out after %v", extractTimeout)
		}
		return nil, fmt.Errorf("7z extraction failed: %w\nOutput: %s", err, string(output))
	}

	return &sevenZipReader{tempDir: tempDir}, nil
}

func (s *sevenZipReader) List() ([]string, error) {
	return fsutil.ListFiles(s.tempDir)
}

func (s *sevenZipReader) ExtractPrefix(ctx context.Context, prefix, destDir string) error {
	keys, err := s.List()
	if err != nil {
		return err
	}
	for _, key := range keys {
		if !HasPrefixFold(key, prefix) {
			continue
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		destPath, err := sanitizePath(destDir, key[len(prefix):])
		if err != nil {
			return err
		}
		src := filepath.Join(s.tempDir, filepath.FromSlash(key))
		if err := fsutil.CopyFile(src, destPath); err != nil {
			return fmt.Errorf("extracting %s: %w", key, err)
		}
	}
	return nil
}

func (s *sevenZipReader) Close() error {
	return os.RemoveAll(s.tempDir)
}
