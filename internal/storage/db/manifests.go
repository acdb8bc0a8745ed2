package db

import "fmt"

// GetManifest returns the cached manifest for a mod if one exists for the
// given source mtime. A stale or absent cache returns ok=false. Empty
// manifests are never cached, so an unreadable mod is re-probed each pass.
func (d *DB) GetManifest(modKey string, sourceMtime int64) ([]string, bool, error) {
	rows, err := d.Query(`
		SELECT relative_path FROM manifest_cache
		WHERE mod_key = ? AND source_mtime = ?
		ORDER BY relative_path
	`, modKey, sourceMtime)
	if err != nil {
		return nil, false, fmt.Errorf("querying manifest cache: %w", err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, false, fmt.Errorf("scanning manifest row: %w", err)
		}
		paths = append(paths, p)
	}
	if err := rows.Err(); err != nil {
		return nil, false, err
	}
	return paths, len(paths) > 0, nil
}

// PutManifest replaces the cached manifest for a mod.
func (d *DB) PutManifest(modKey string, sourceMtime int64, paths []string) error {
	tx, err := d.Begin()
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM manifest_cache WHERE mod_key = ?`, modKey); err != nil {
		return fmt.Errorf("clearing stale manifest: %w", err)
	}
	for _, p := range paths {
		if _, err := tx.Exec(`
			INSERT INTO manifest_cache (mod_key, source_mtime, relative_path)
			VALUES (?, ?, ?)
		`, modKey, sourceMtime, p); err != nil {
			return fmt.Errorf("inserting manifest row: %w", err)
		}
	}
	return tx.Commit()
}

// InvalidateManifest drops the cached manifest for a mod.
func (d *DB) InvalidateManifest(modKey string) error {
	if _, err := d.Exec(`DELETE FROM manifest_cache WHERE mod_key = ?`, modKey); err != nil {
		return fmt.Errorf("invalidating manifest: %w", err)
	}
	return nil
}
