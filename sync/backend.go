// Package sync implements the three-way reconciliation engine against an
// untrusted remote object store (spec §4.9): for each local object, skip
// if the remote SIV already matches (DAE determinism proves the bytes are
// identical without decrypting), merge histories on a SIV mismatch, or
// push/pull as needed when only one side has the object.
//
// Grounded on the teacher's registry.Client interface shape
// (context-first methods, one per RPC) for Backend, and on golang.org/x/sync
// (already a teacher dependency, used there for singleflight request
// coalescing in pkg/agent/handshake/server.go) for this engine's
// errgroup-bounded concurrent object fan-out.
package sync

import (
	"context"

	"github.com/ironvault-project/ironvault/objects"
)

// ObjectSummary is one entry of a Backend.List response: an object's Id
// and the SIV under which the remote currently holds it.
type ObjectSummary struct {
	ID  objects.ID
	SIV [32]byte
}

// Backend is the untrusted remote object store the sync engine
// reconciles against (spec §4.9). Implementations never see plaintext:
// every payload they handle is already SIV-ciphertext.
type Backend interface {
	List(ctx context.Context) ([]ObjectSummary, error)
	Get(ctx context.Context, id objects.ID) (siv [32]byte, ciphertext []byte, err error)
	Put(ctx context.Context, id objects.ID, siv [32]byte, ciphertext []byte) error
}
