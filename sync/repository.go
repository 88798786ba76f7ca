package sync

import "github.com/ironvault-project/ironvault/objects"

// Repository is the local object set the sync engine reconciles into.
// package store's *store.Database implements this directly, but the
// interface lives here (rather than store depending on sync or vice
// versa through a concrete type) so the engine's tests can use a bare
// in-memory implementation with no container/kdf machinery at all.
type Repository interface {
	Directories() []*objects.Directory
	Entries() []*objects.Entry

	// PutDirectory/PutEntry insert a brand-new object pulled from the
	// remote, or replace an existing one with its merged result. The
	// engine never calls these with anything but the output of
	// objects.MergeDirectories/MergeEntries or a freshly decoded remote
	// object.
	PutDirectory(*objects.Directory)
	PutEntry(*objects.Entry)
}
