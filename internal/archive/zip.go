package archive

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

type zipReader struct {
	rc *zip.ReadCloser
}

func openZip(path string) (Reader, error) {
	rc, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening zip: %w", err)
	}
	return &zipReader{rc: rc}, nil
}

func (z *zipReader) List() ([]string, error) {
	var keys []string
	for _, f := range z.rc.File {
		if f.FileInfo().IsDir() {
			continue
		}
		keys = append(keys, strings.ReplaceAll(f.Name, "\\", "/"))
	}
	return keys, nil
}

func (z *zipReader) ExtractPrefix(ctx context.Context, prefix, destDir string) error {
	for _, f := range z.rc.File {
		if f.FileInfo().IsDir() {
			continue
		}
		key := strings.ReplaceAll(f.Name, "\\", "/")
		if !HasPrefixFold(key, prefix) {
			continue
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := z.extractEntry(f, key[len(prefix):], destDir); err != nil {
			return err
		}
	}
	return nil
}

func (z *zipReader) extractEntry(f *zip.File, suffix, destDir string) (err error) {
	destPath, err := sanitizePath(destDir, suffix)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", f.Name, err)
	}

	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("opening entry %s: %w", f.Name, err)
	}
	defer func() {
		if cerr := rc.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("closing entry %s: %w", f.Name, cerr)
		}
	}()

	out, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, f.Mode())
	if err != nil {
		return fmt.Errorf("creating file %s: %w", destPath, err)
	}
	defer func() {
		if cerr := out.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("closing file %s: %w", destPath, cerr)
		}
	}()

	if _, err = io.Copy(out, rc); err != nil {
		return fmt.Errorf("writing file %s: %w", destPath, err)
	}
	return nil
}

func (z *zipReader) Close() error {
	return z.rc.Close()
}
