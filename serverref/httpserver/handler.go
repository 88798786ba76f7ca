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

// Package httpserver is the server half of the reference HTTP transport
// (spec §4.9, §6) that transport/http.Backend is a client for: a
// net/http.Handler in front of any ivsync.Backend, grounded on the
// teacher's internal/metrics.Handler/StartServer shape (a small
// http.ServeMux wired up by one constructor function).
//
// Every caller is identified only by the login id in its bearer token;
// this package never authenticates who that login id actually belongs
// to (spec.md leaves transport auth out of scope) — it only checks that
// the HMAC verifies against the login key the KeyLookup callback returns
// for that id, so a request cannot be forged by a party who lacks the
// corresponding key. The token carries no nonce or timestamp, so a
// captured request can be replayed verbatim.
package httpserver

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/ironvault-project/ironvault/internal/log"
	"github.com/ironvault-project/ironvault/objects"
	ivsync "github.com/ironvault-project/ironvault/sync"
)

// KeyLookup resolves the login key for a hex-encoded login id presented
// in a bearer token. Implementations return ok=false for unknown ids.
type KeyLookup func(loginID [32]byte) (loginKey [32]byte, ok bool)

// Handler serves the GET /objects, GET /objects/{id}, PUT /objects/{id}
// wire contract (spec §6) in front of a single ivsync.Backend.
type Handler struct {
	Backend   ivsync.Backend
	KeyLookup KeyLookup
	Logger    log.Logger

	watchers *watchers
}

// NewHandler builds a Handler; Mux builds its http.ServeMux.
func NewHandler(backend ivsync.Backend, keyLookup KeyLookup) *Handler {
	return &Handler{Backend: backend, KeyLookup: keyLookup, Logger: log.Default(), watchers: newWatchers()}
}

// Mux returns an http.Handler routing the reference wire contract plus
// the optional /objects/watch push-notification endpoint.
func (h *Handler) Mux() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/objects", h.handleList)
	mux.HandleFunc("/objects/watch", h.handleWatch)
	mux.HandleFunc("/objects/", h.handleObject)
	return mux
}

type objectSummaryWire struct {
	ID  string `json:"id"`
	SIV string `json:"siv"`
}

type objectWire struct {
	SIV        string `json:"siv"`
	Ciphertext string `json:"ciphertext"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r) {
		return
	}
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	list, err := h.Backend.List(r.Context())
	if err != nil {
		h.logger().Warn("list failed", log.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	wire := make([]objectSummaryWire, 0, len(list))
	for _, o := range list {
		wire = append(wire, objectSummaryWire{ID: o.ID.String(), SIV: hex.EncodeToString(o.SIV[:])})
	}
	writeJSON(w, http.StatusOK, wire)
}

func (h *Handler) handleObject(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r) {
		return
	}

	idStr := strings.TrimPrefix(r.URL.Path, "/objects/")
	id, err := objects.ParseID(idStr)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.handleGet(w, r.Context(), id)
	case http.MethodPut:
		h.handlePut(w, r, id)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *Handler) handleGet(w http.ResponseWriter, ctx context.Context, id objects.ID) {
	siv, ciphertext, err := h.Backend.Get(ctx, id)
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, objectWire{
		SIV:        hex.EncodeToString(siv[:]),
		Ciphertext: base64.StdEncoding.EncodeToString(ciphertext),
	})
}

func (h *Handler) handlePut(w http.ResponseWriter, r *http.Request, id objects.ID) {
	var body objectWire
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	sivBytes, err := hex.DecodeString(body.SIV)
	if err != nil || len(sivBytes) != 32 {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	var siv [32]byte
	copy(siv[:], sivBytes)

	ciphertext, err := base64.StdEncoding.DecodeString(body.Ciphertext)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if err := h.Backend.Put(r.Context(), id, siv, ciphertext); err != nil {
		h.logger().Warn("put failed", log.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	h.watchers.broadcast()
	w.WriteHeader(http.StatusOK)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *Handler) logger() log.Logger {
	if h.Logger == nil {
		return log.Default()
	}
	return h.Logger
}
