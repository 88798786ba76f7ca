package store

import (
	"context"

	"github.com/ironvault-project/ironvault/ironerr"
	"github.com/ironvault-project/ironvault/objects"
	ivsync "github.com/ironvault-project/ironvault/sync"
)

// Directories implements sync.Repository.
func (db *Database) Directories() []*objects.Directory {
	return db.ListDirectories()
}

// Entries implements sync.Repository.
func (db *Database) Entries() []*objects.Entry {
	return db.ListEntries()
}

// PutDirectory implements sync.Repository: the engine only ever passes
// the output of objects.MergeDirectories or a freshly decoded remote
// directory, so this is a plain map insert.
func (db *Database) PutDirectory(dir *objects.Directory) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.directories[dir.ID] = dir
}

// PutEntry implements sync.Repository.
func (db *Database) PutEntry(entry *objects.Entry) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.entries[entry.ID] = entry
}

// Sync reconciles the database against backend using an ivsync.Engine,
// then stamps LastSync with the current time on success (spec §4.9,
// §4.10's implicit "last sync time" bookkeeping for the stats command).
func (db *Database) Sync(ctx context.Context, backend ivsync.Backend) error {
	keys, err := db.NetworkKeys()
	if err != nil {
		return err
	}

	engine := ivsync.NewEngine(backend)
	if err := engine.Sync(ctx, db, keys); err != nil {
		return ironerr.Wrap(ironerr.KindTransportFailure, "sync", err)
	}

	now := db.clockNow()
	db.mu.Lock()
	db.lastSync = &now
	db.mu.Unlock()
	return nil
}

func (db *Database) clockNow() objects.Timestamp {
	db.mu.RLock()
	clock := db.clock
	db.mu.RUnlock()
	return clock()
}
