package store

import "github.com/ironvault-project/ironvault/objects"

// Stats is a read-only summary of a database's contents (spec §4.10
// expansion: a `stats.go`-style summary is idiomatic for this kind of
// tool, and the Non-goals only exclude multi-writer concurrency, offline
// conflict detection beyond merge, cipher agility, and streaming
// encryption — not a read-only counts command).
type Stats struct {
	Directories int
	Entries     int
	LastSync    *objects.Timestamp
}

// Stats computes a Stats snapshot of the database's current contents.
func (db *Database) Stats() Stats {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return Stats{
		Directories: len(db.directories),
		Entries:     len(db.entries),
		LastSync:    db.lastSync,
	}
}
