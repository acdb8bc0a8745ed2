// Package archive provides read access to mod containers: enumerate entry
// keys and extract the entries under a key prefix. Zip archives are read
// natively; .7z and .rar go through the system 7z command.
package archive

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Reader is an open archive. Keys are slash-separated entry paths; prefix
// matching is case-insensitive.
type Reader interface {
	// List returns the keys of all non-directory entries.
	List() ([]string, error)
	// ExtractPrefix writes every entry whose key starts with prefix into
	// destDir, named by the key's suffix after the prefix. The context is
	// checked between entries.
	ExtractPrefix(ctx context.Context, prefix, destDir string) error
	Close() error
}

// Open opens the archive at path, choosing the backend by extension.
func Open(path string) (Reader, error) {
	switch DetectFormat(path) {
	case "zip":
		return openZip(path)
	case "7z", "rar":
		return openSevenZip(path)
	default:
		return nil, fmt.Errorf("unsupported archive format: %s", filepath.Ext(path))
	}
}

// CanRead returns true if the given filename is a supported archive.
func CanRead(filename string) bool {
	return DetectFormat(filename) != ""
}

// DetectFormat returns the archive format based on filename extension.
func DetectFormat(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".zip":
		return "zip"
	case ".7z":
		return "7z"
	case ".rar":
		return "rar"
	default:
		return ""
	}
}

// HasPrefixFold reports whether key starts with prefix, ignoring case.
func HasPrefixFold(key, prefix string) bool {
	return len(key) >= len(prefix) && strings.EqualFold(key[:len(prefix)], prefix)
}

// sanitizePath ensures an extracted file lands inside destDir. Rejects
// entries like "../../../etc/passwd" (zip slip).
func sanitizePath(destDir, entryPath string) (string, error) {
	cleanPath := filepath.Clean(filepath.FromSlash(entryPath))
	destPath := filepath.Join(destDir, cleanPath)

	base := filepath.Clean(destDir) + string(os.PathSeparator)
	if !strings.HasPrefix(filepath.Clean(destPath)+string(os.PathSeparator), base) {
		return "", fmt.Errorf("path traversal detected: %s", entryPath)
	}
	return destPath, nil
}
