// Package store implements ironvault's in-memory database: the Id-indexed
// object map, its mutation API (spec §4.10), on-disk persistence through
// package container, and delegation to package sync for remote
// reconciliation. Grounded on the teacher's crypto/storage interface
// shape (Store/Load/Delete/List/Exists), generalized from a flat
// key-value store to the history-aware object map, and on
// pkg/storage/memory/store.go's mutex-guarded in-memory map for
// concurrency-safety of a single Database value (spec §5: callers still
// serialize mutations; the mutex is defense against accidental concurrent
// reads, not a concurrency model).
package store

import (
	"sync"

	"github.com/ironvault-project/ironvault/internal/log"
	"github.com/ironvault-project/ironvault/kdf"
	"github.com/ironvault-project/ironvault/objects"
	"github.com/ironvault-project/ironvault/primitives"
	"github.com/ironvault-project/ironvault/random"
	"github.com/ironvault-project/ironvault/siv"
)

// DefaultScryptParams are the on-disk scrypt cost parameters used for
// newly created databases and for V1 files migrated on open. Existing V2
// files keep whatever parameters their header already carries, including
// across ChangePassphrase, which regenerates only the salt.
var DefaultScryptParams = primitives.ScryptParams{LogN: 19, R: 8, P: 1}

// Database is a single unlocked password database: the object map plus
// every derived and cached key a mutation or sync operation needs.
type Database struct {
	mu sync.RWMutex

	username   string
	passphrase []byte // zeroized by Close/ChangePassphrase once consumed

	scryptParams primitives.ScryptParams
	scryptSalt   [32]byte
	masterKeys   siv.Keys

	networkKeys *kdf.NetworkKeys

	syncURL *string
	lastSync *objects.Timestamp

	directories map[objects.ID]*objects.Directory
	entries     map[objects.ID]*objects.Entry

	// migrated is set when the database was most recently opened from a
	// V1 container; the next Save/SaveToPath rewrites it as V2 (spec
	// §4.6, §9).
	migrated bool

	rng   random.Source
	clock func() objects.Timestamp
	log   log.Logger
}

// Option customizes a Database at construction time, primarily for tests
// that need a deterministic clock or random source.
type Option func(*Database)

// WithRandomSource overrides the CSRNG used for Id/salt generation.
func WithRandomSource(src random.Source) Option {
	return func(db *Database) { db.rng = src }
}

// WithClock overrides the timestamp source used for new events.
func WithClock(clock func() objects.Timestamp) Option {
	return func(db *Database) { db.clock = clock }
}

// WithLogger overrides the structured logger used for lifecycle events.
func WithLogger(logger log.Logger) Option {
	return func(db *Database) { db.log = logger }
}

// WithScryptParams overrides the scrypt cost parameters CreateDatabase
// uses, primarily so tests outside this package aren't stuck paying
// DefaultScryptParams' cost on every run.
func WithScryptParams(params primitives.ScryptParams) Option {
	return func(db *Database) { db.scryptParams = params }
}

func newDatabase(opts []Option) *Database {
	db := &Database{
		directories: make(map[objects.ID]*objects.Directory),
		entries:     make(map[objects.ID]*objects.Entry),
		rng:         random.Default,
		clock:       func() objects.Timestamp { return objects.Clock() },
		log:         log.Default(),
	}
	for _, opt := range opts {
		opt(db)
	}
	return db
}

// Username returns the database's current username, used as input to
// network key derivation.
func (db *Database) Username() string {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.username
}

// SyncURL returns the currently configured sync server URL, if any.
func (db *Database) SyncURL() *string {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.syncURL
}

// Migrated reports whether the database was opened from a legacy V1
// container and has not yet been re-saved as V2.
func (db *Database) Migrated() bool {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.migrated
}

// Close zeroizes passphrase and key material held by the database (spec
// §5). The Database must not be used afterward.
func (db *Database) Close() {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.zeroizeLocked()
}

func (db *Database) zeroizeLocked() {
	primitives.Zero(db.passphrase)
	primitives.Zero(db.masterKeys.SivKey[:])
	primitives.Zero(db.masterKeys.CipherKey[:])
	if db.networkKeys != nil {
		primitives.Zero(db.networkKeys.Keys.SivKey[:])
		primitives.Zero(db.networkKeys.Keys.CipherKey[:])
		primitives.Zero(db.networkKeys.LoginKey[:])
	}
}
