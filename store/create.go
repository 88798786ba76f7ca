package store

import (
	"fmt"

	"github.com/ironvault-project/ironvault/container"
	"github.com/ironvault-project/ironvault/internal/log"
	"github.com/ironvault-project/ironvault/ironerr"
	"github.com/ironvault-project/ironvault/kdf"
	"github.com/ironvault-project/ironvault/objects"
	"github.com/ironvault-project/ironvault/primitives"
	"github.com/ironvault-project/ironvault/random"
)

// CreateDatabase initializes a brand-new database with a root directory,
// a fresh scrypt_salt, and derived master and network keys (spec §4.10
// create_database).
func CreateDatabase(username, passphrase string, opts ...Option) (*Database, error) {
	db := newDatabase(opts)
	db.username = username
	db.passphrase = []byte(passphrase)
	if db.scryptParams == (primitives.ScryptParams{}) {
		db.scryptParams = DefaultScryptParams
	}

	salt, err := random.Salt(db.rng, len(db.scryptSalt))
	if err != nil {
		return nil, fmt.Errorf("store: create database: %w", err)
	}
	copy(db.scryptSalt[:], salt)

	masterKeys, err := kdf.DeriveMasterKey(db.passphrase, db.scryptSalt[:], db.scryptParams)
	if err != nil {
		return nil, fmt.Errorf("store: derive master key: %w", err)
	}
	db.masterKeys = masterKeys

	networkKeys, err := kdf.DeriveNetworkKeys([]byte(username), db.passphrase)
	if err != nil {
		return nil, fmt.Errorf("store: derive network keys: %w", err)
	}
	db.networkKeys = &networkKeys

	db.directories[objects.RootID] = &objects.Directory{ID: objects.RootID}

	db.log.Info("database created", log.String("username", username))
	return db, nil
}

// Open decrypts data with passphrase and materializes a Database from its
// contents, or returns a typed failure (spec §4.10 open, §7). The
// database's username travels inside the encrypted document (package
// objects' Metadata entry), since spec's open(bytes, passphrase) takes no
// username argument of its own.
func Open(data []byte, passphrase string, opts ...Option) (*Database, error) {
	db := newDatabase(opts)
	db.passphrase = []byte(passphrase)

	decoded, err := container.Decode(data, db.passphrase)
	if err != nil {
		return nil, err
	}

	meta, dirs, entries, err := objects.DecodeDocument(decoded.Payload)
	if err != nil {
		return nil, ironerr.Wrap(ironerr.KindCorruption, "decode database document", err)
	}
	for _, d := range dirs {
		db.directories[d.ID] = d
	}
	for _, e := range entries {
		db.entries[e.ID] = e
	}
	if _, ok := db.directories[objects.RootID]; !ok {
		return nil, ironerr.New(ironerr.KindCorruption, "database missing root directory")
	}
	if meta != nil {
		db.username = meta.Username
		db.syncURL = meta.SyncURL
	}

	db.migrated = decoded.Migrated
	if decoded.Migrated {
		salt, err := random.Salt(db.rng, len(db.scryptSalt))
		if err != nil {
			return nil, fmt.Errorf("store: open: generate v2 salt: %w", err)
		}
		copy(db.scryptSalt[:], salt)
		db.scryptParams = DefaultScryptParams
	} else {
		db.scryptSalt = decoded.ScryptSalt
		db.scryptParams = decoded.ScryptParams
	}

	masterKeys, err := kdf.DeriveMasterKey(db.passphrase, db.scryptSalt[:], db.scryptParams)
	if err != nil {
		return nil, fmt.Errorf("store: open: derive master key: %w", err)
	}
	db.masterKeys = masterKeys

	if db.username != "" {
		networkKeys, err := kdf.DeriveNetworkKeys([]byte(db.username), db.passphrase)
		if err != nil {
			return nil, fmt.Errorf("store: open: derive network keys: %w", err)
		}
		db.networkKeys = &networkKeys
	}

	db.log.Info("database opened", log.Bool("migrated", decoded.Migrated))
	return db, nil
}
