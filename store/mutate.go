package store

import (
	"fmt"
	"net/url"

	"github.com/ironvault-project/ironvault/ironerr"
	"github.com/ironvault-project/ironvault/kdf"
	"github.com/ironvault-project/ironvault/objects"
	"github.com/ironvault-project/ironvault/random"
)

// ListDirectories returns a snapshot of every directory's raw history
// (spec §4.10 list_directories): materialization is the consumer's job,
// via (*objects.Directory).Materialize.
func (db *Database) ListDirectories() []*objects.Directory {
	db.mu.RLock()
	defer db.mu.RUnlock()
	out := make([]*objects.Directory, 0, len(db.directories))
	for _, d := range db.directories {
		out = append(out, d)
	}
	return out
}

// ListEntries returns a snapshot of every entry's raw history (spec
// §4.10 list_entries).
func (db *Database) ListEntries() []*objects.Entry {
	db.mu.RLock()
	defer db.mu.RUnlock()
	out := make([]*objects.Entry, 0, len(db.entries))
	for _, e := range db.entries {
		out = append(out, e)
	}
	return out
}

// RenameDirectory appends a Rename event with the current time (spec
// §4.10 rename_directory).
func (db *Database) RenameDirectory(id objects.ID, newName string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	dir, ok := db.directories[id]
	if !ok {
		return ironerr.New(ironerr.KindInvalidInput, "unknown directory id "+id.String())
	}
	dir.History = append(dir.History, objects.DirectoryEvent{
		Time:   db.clock(),
		Action: objects.ActionRename,
		Name:   newName,
	})
	return nil
}

// NewDirectory creates a directory with a fresh Id, appends its Rename
// event, then appends an Add event to the root directory (spec §4.10
// new_directory).
func (db *Database) NewDirectory(name string) (objects.ID, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	id, err := random.NewID(db.rng)
	if err != nil {
		return objects.ID{}, fmt.Errorf("store: new directory: %w", err)
	}

	now := db.clock()
	db.directories[id] = &objects.Directory{
		ID:      id,
		History: []objects.DirectoryEvent{{Time: now, Action: objects.ActionRename, Name: name}},
	}

	root := db.directories[objects.RootID]
	root.History = append(root.History, objects.DirectoryEvent{
		Time:   now,
		Action: objects.ActionAdd,
		Child:  id,
	})
	return id, nil
}

// MoveObject appends a Remove event in every directory that currently
// lists id as a child, and an Add event in newParentID, all at the same
// timestamp (spec §4.10 move_object).
func (db *Database) MoveObject(id, newParentID objects.ID) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.directories[newParentID]; !ok {
		return ironerr.New(ironerr.KindInvalidInput, "unknown parent directory id "+newParentID.String())
	}
	if !db.objectExistsLocked(id) {
		return ironerr.New(ironerr.KindInvalidInput, "unknown object id "+id.String())
	}

	now := db.clock()
	for _, dir := range db.directories {
		state := dir.Materialize()
		if _, present := state.Children[id]; present {
			dir.History = append(dir.History, objects.DirectoryEvent{
				Time: now, Action: objects.ActionRemove, Child: id,
			})
		}
	}
	newParent := db.directories[newParentID]
	newParent.History = append(newParent.History, objects.DirectoryEvent{
		Time: now, Action: objects.ActionAdd, Child: id,
	})
	return nil
}

func (db *Database) objectExistsLocked(id objects.ID) bool {
	if _, ok := db.directories[id]; ok {
		return true
	}
	_, ok := db.entries[id]
	return ok
}

// EditEntry appends an EntryEvent carrying data (string values set a
// field, nil values delete it). If id is nil, a fresh entry is created
// and added to parentID first (spec §4.10 edit_entry).
func (db *Database) EditEntry(id *objects.ID, data map[string]*string, parentID objects.ID) (objects.ID, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	now := db.clock()

	if id == nil {
		if _, ok := db.directories[parentID]; !ok {
			return objects.ID{}, ironerr.New(ironerr.KindInvalidInput, "unknown parent directory id "+parentID.String())
		}
		newID, err := random.NewID(db.rng)
		if err != nil {
			return objects.ID{}, fmt.Errorf("store: edit entry: %w", err)
		}
		db.entries[newID] = &objects.Entry{ID: newID, TimeCreated: now}
		parent := db.directories[parentID]
		parent.History = append(parent.History, objects.DirectoryEvent{
			Time: now, Action: objects.ActionAdd, Child: newID,
		})
		id = &newID
	}

	entry, ok := db.entries[*id]
	if !ok {
		return objects.ID{}, ironerr.New(ironerr.KindInvalidInput, "unknown entry id "+id.String())
	}
	entry.History = append(entry.History, objects.EntryEvent{Time: now, Data: data})
	return *id, nil
}

// ChangePassphrase regenerates scrypt_salt and rederives master and
// network keys (spec §4.10 change_passphrase). The previous passphrase
// and key material are zeroized before being replaced.
func (db *Database) ChangePassphrase(newUsername, newPassphrase string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	salt, err := random.Salt(db.rng, len(db.scryptSalt))
	if err != nil {
		return fmt.Errorf("store: change passphrase: %w", err)
	}

	masterKeys, err := kdf.DeriveMasterKey([]byte(newPassphrase), salt, db.scryptParams)
	if err != nil {
		return fmt.Errorf("store: change passphrase: derive master key: %w", err)
	}
	networkKeys, err := kdf.DeriveNetworkKeys([]byte(newUsername), []byte(newPassphrase))
	if err != nil {
		return fmt.Errorf("store: change passphrase: derive network keys: %w", err)
	}

	db.zeroizeLocked()
	copy(db.scryptSalt[:], salt)
	db.masterKeys = masterKeys
	db.networkKeys = &networkKeys
	db.username = newUsername
	db.passphrase = []byte(newPassphrase)

	db.log.Info("passphrase changed")
	return nil
}

// SetSyncURL validates url's syntax before storing it (spec §4.10
// set_sync_url).
func (db *Database) SetSyncURL(rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return ironerr.New(ironerr.KindInvalidInput, "invalid sync url: "+rawURL)
	}

	db.mu.Lock()
	defer db.mu.Unlock()
	db.syncURL = &rawURL
	return nil
}

// RandomString delegates to package random using the database's CSRNG
// (spec §4.10 random_string).
func (db *Database) RandomString(length int, uppercase, lowercase, numbers bool, others string) (string, error) {
	db.mu.RLock()
	src := db.rng
	db.mu.RUnlock()
	return random.String(src, length, uppercase, lowercase, numbers, others)
}

// NetworkKeys returns the cached network keys, deriving them first if
// none are cached yet. CreateDatabase, Open (when the file has a username)
// and ChangePassphrase already fill the cache.
func (db *Database) NetworkKeys() (kdf.NetworkKeys, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.networkKeys != nil {
		return *db.networkKeys, nil
	}
	if db.username == "" {
		return kdf.NetworkKeys{}, ironerr.New(ironerr.KindInvalidInput, "database has no username set")
	}
	keys, err := kdf.DeriveNetworkKeys([]byte(db.username), db.passphrase)
	if err != nil {
		return kdf.NetworkKeys{}, fmt.Errorf("store: derive network keys: %w", err)
	}
	db.networkKeys = &keys
	return keys, nil
}
