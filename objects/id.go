// Package objects implements the append-only object model shared by the
// local database (package store) and the sync engine (package sync):
// Directories and Entries identified by a 256-bit Id, whose current state
// is always derived by folding an ordered event history (spec §3, §4.7).
package objects

import (
	"encoding/hex"
	"fmt"
)

// IDSize is the size, in bytes, of an Object Id.
const IDSize = 32

// ID is a 256-bit object identifier, rendered as 64 lowercase hex
// characters wherever it crosses a text boundary (JSON, logs, URLs).
type ID [IDSize]byte

// RootID is the reserved, always-present root directory identifier: the
// all-zero value (spec §3, §6).
var RootID = ID{}

// String renders the Id as 64 lowercase hex characters.
func (id ID) String() string {
	return hex.EncodeToString(id[:])
}

// IsRoot reports whether id is the root directory identifier.
func (id ID) IsRoot() bool {
	return id == RootID
}

// ParseID decodes a 64-character lowercase hex string into an Id.
func ParseID(s string) (ID, error) {
	if len(s) != IDSize*2 {
		return ID{}, fmt.Errorf("objects: id must be %d hex characters, got %d", IDSize*2, len(s))
	}
	raw, err := hex.DecodeString(s)
	if err != nil {
		return ID{}, fmt.Errorf("objects: invalid id hex: %w", err)
	}
	var id ID
	copy(id[:], raw)
	return id, nil
}

// MarshalText implements encoding.TextMarshaler so an Id serializes as its
// hex string inside JSON object keys and values.
func (id ID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ID) UnmarshalText(text []byte) error {
	parsed, err := ParseID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
