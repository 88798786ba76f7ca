package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ironvault-project/ironvault/container"
	"github.com/ironvault-project/ironvault/internal/log"
	"github.com/ironvault-project/ironvault/objects"
)

// Save encodes the database's current state as a container (spec §4.10
// save). A successful Save always clears Migrated, since it rewrites as
// V2 regardless of what version the database was opened from.
func (db *Database) Save() ([]byte, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.saveLocked()
}

func (db *Database) saveLocked() ([]byte, error) {
	dirs := make([]*objects.Directory, 0, len(db.directories))
	for _, d := range db.directories {
		dirs = append(dirs, d)
	}
	entries := make([]*objects.Entry, 0, len(db.entries))
	for _, e := range db.entries {
		entries = append(entries, e)
	}

	meta := &objects.Metadata{Username: db.username, SyncURL: db.syncURL}
	payload, err := objects.EncodeDocument(meta, dirs, entries)
	if err != nil {
		return nil, fmt.Errorf("store: encode document: %w", err)
	}

	encoded, err := container.Encode(payload, db.passphrase, db.scryptSalt, db.scryptParams)
	if err != nil {
		return nil, fmt.Errorf("store: encode container: %w", err)
	}

	db.migrated = false
	db.log.Debug("database saved", log.Int("directories", len(dirs)), log.Int("entries", len(entries)))
	return encoded, nil
}

// SaveToPath encodes the database and atomically replaces the file at
// path: write to a temp file in the same directory, fsync, then rename
// over the destination (spec §5's "rewritten atomically"). This is the
// filesystem adapter; container.Encode/Decode themselves never touch
// disk.
func (db *Database) SaveToPath(path string) error {
	data, err := db.Save()
	if err != nil {
		return err
	}
	return writeFileAtomic(path, data, 0o600)
}

// LoadFromPath reads and decrypts the container at path.
func LoadFromPath(path string, passphrase string, opts ...Option) (*Database, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("store: read %s: %w", path, err)
	}
	return Open(data, passphrase, opts...)
}

func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("store: create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("store: chmod temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("store: write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("store: fsync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("store: close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("store: rename temp file into place: %w", err)
	}
	return nil
}
