// SPDX-License-Identifier: LGPL-3.0-or-later
package http

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironvault-project/ironvault/kdf"
	"github.com/ironvault-project/ironvault/objects"
	"github.com/ironvault-project/ironvault/serverref"
)

func writeJSON(t *testing.T, w http.ResponseWriter, v interface{}) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func decodeJSON(t *testing.T, r *http.Request, v interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(r.Body).Decode(v))
}

func testKeys(t *testing.T) kdf.NetworkKeys {
	t.Helper()
	keys, err := kdf.DeriveNetworkKeys([]byte("alice"), []byte("correct horse battery staple"))
	require.NoError(t, err)
	return keys
}

func newTestServer(t *testing.T, store *serverref.MemoryStore, keys kdf.NetworkKeys) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/objects", func(w http.ResponseWriter, r *http.Request) {
		wantPrefix := "Bearer " + hex.EncodeToString(keys.LoginID[:])
		if len(r.Header.Get("Authorization")) < len(wantPrefix) || r.Header.Get("Authorization")[:len(wantPrefix)] != wantPrefix {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		list, err := store.List(r.Context())
		require.NoError(t, err)
		wire := make([]objectSummaryWire, 0, len(list))
		for _, o := range list {
			wire = append(wire, objectSummaryWire{ID: o.ID.String(), SIV: hex.EncodeToString(o.SIV[:])})
		}
		writeJSON(t, w, wire)
	})
	mux.HandleFunc("/objects/", func(w http.ResponseWriter, r *http.Request) {
		idStr := r.URL.Path[len("/objects/"):]
		id, err := objects.ParseID(idStr)
		require.NoError(t, err)

		switch r.Method {
		case http.MethodGet:
			siv, ct, err := store.Get(r.Context(), id)
			if err != nil {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			writeJSON(t, w, objectWire{SIV: hex.EncodeToString(siv[:]), Ciphertext: base64.StdEncoding.EncodeToString(ct)})
		case http.MethodPut:
			var body objectWire
			decodeJSON(t, r, &body)
			siv, err := decodeSIV(body.SIV)
			require.NoError(t, err)
			ct, err := base64.StdEncoding.DecodeString(body.Ciphertext)
			require.NoError(t, err)
			require.NoError(t, store.Put(r.Context(), id, siv, ct))
			w.WriteHeader(http.StatusOK)
		}
	})
	return httptest.NewServer(mux)
}

func TestBackendPutGetListRoundTrip(t *testing.T) {
	ctx := context.Background()
	keys := testKeys(t)
	store := serverref.NewMemoryStore()
	server := newTestServer(t, store, keys)
	defer server.Close()

	backend := NewBackend(server.URL, keys)

	id := objects.ID{1, 2, 3, 4}
	siv := [32]byte{5, 6, 7}
	ciphertext := []byte("hello ciphertext")

	require.NoError(t, backend.Put(ctx, id, siv, ciphertext))

	gotSIV, gotCT, err := backend.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, siv, gotSIV)
	assert.Equal(t, ciphertext, gotCT)

	list, err := backend.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, id, list[0].ID)
}

func TestBackendRejectsUnknownLoginID(t *testing.T) {
	ctx := context.Background()
	keys := testKeys(t)
	store := serverref.NewMemoryStore()
	server := newTestServer(t, store, keys)
	defer server.Close()

	wrongKeys, err := kdf.DeriveNetworkKeys([]byte("mallory"), []byte("wrong passphrase"))
	require.NoError(t, err)
	backend := NewBackend(server.URL, wrongKeys)

	_, err = backend.List(ctx)
	assert.Error(t, err)
}
