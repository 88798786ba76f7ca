//go:build integration
// +build integration

// SPDX-License-Identifier: LGPL-3.0-or-later

// Grounded on the teacher's pkg/storage database integration test
// (internal/database/integration_test.go), which gates a real-database
// test behind the same "integration" build tag. That file spins up a
// postgres:15 testcontainer; this one instead reads a connection string
// from IRONVAULT_TEST_POSTGRES_DSN and skips if unset, so running these
// tests never requires pulling in a container-orchestration dependency
// just to exercise Store.
package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ironvault-project/ironvault/objects"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := os.Getenv("IRONVAULT_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("IRONVAULT_TEST_POSTGRES_DSN not set, skipping postgres integration test")
	}

	store, err := NewStoreFromConnString(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStorePutGetList(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	id := objects.ID{1, 2, 3}
	siv := [32]byte{9, 9, 9}
	ciphertext := []byte("ciphertext-bytes")

	require.NoError(t, store.Put(ctx, id, siv, ciphertext))

	gotSIV, gotCT, err := store.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, siv, gotSIV)
	require.Equal(t, ciphertext, gotCT)

	list, err := store.List(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, list)
}

func TestStorePutOverwrites(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	id := objects.ID{7, 7, 7}

	require.NoError(t, store.Put(ctx, id, [32]byte{1}, []byte("v1")))
	require.NoError(t, store.Put(ctx, id, [32]byte{2}, []byte("v2")))

	siv, ct, err := store.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, [32]byte{2}, siv)
	require.Equal(t, []byte("v2"), ct)
}

func TestStoreGetMissingReturnsError(t *testing.T) {
	store := openTestStore(t)
	_, _, err := store.Get(context.Background(), objects.ID{99, 99, 99})
	require.Error(t, err)
}
