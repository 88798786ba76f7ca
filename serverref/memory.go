// Copyright (C) 2025 ironvault-project
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

// SPDX-License-Identifier: LGPL-3.0-or-later

// Package serverref provides reference implementations of sync.Backend for
// testing and small deployments, grounded on the teacher's
// pkg/storage/memory.Store (a single mutex-guarded map per object kind).
// Since the sync protocol sees only opaque (id, siv, ciphertext) triples,
// a single map covers every object kind here.
package serverref

import (
	"context"
	"fmt"
	"sync"

	ivsync "github.com/ironvault-project/ironvault/sync"

	"github.com/ironvault-project/ironvault/objects"
)

type record struct {
	siv        [32]byte
	ciphertext []byte
}

// MemoryStore is an in-memory ivsync.Backend: every object lives in a
// single mutex-guarded map, matching the teacher's in-memory storage shape
// (pkg/storage/memory/store.go) but collapsed to the one opaque object kind
// the sync protocol actually transports.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[objects.ID]record
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[objects.ID]record)}
}

// List implements sync.Backend.
func (m *MemoryStore) List(ctx context.Context) ([]ivsync.ObjectSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]ivsync.ObjectSummary, 0, len(m.objects))
	for id, rec := range m.objects {
		out = append(out, ivsync.ObjectSummary{ID: id, SIV: rec.siv})
	}
	return out, nil
}

// Get implements sync.Backend.
func (m *MemoryStore) Get(ctx context.Context, id objects.ID) ([32]byte, []byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.objects[id]
	if !ok {
		return [32]byte{}, nil, fmt.Errorf("serverref: object %s not found", id)
	}
	ciphertext := make([]byte, len(rec.ciphertext))
	copy(ciphertext, rec.ciphertext)
	return rec.siv, ciphertext, nil
}

// Put implements sync.Backend.
func (m *MemoryStore) Put(ctx context.Context, id objects.ID, siv [32]byte, ciphertext []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := make([]byte, len(ciphertext))
	copy(stored, ciphertext)
	m.objects[id] = record{siv: siv, ciphertext: stored}
	return nil
}

// Clear removes every stored object. Useful for tests.
func (m *MemoryStore) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects = make(map[objects.ID]record)
}
