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

// Package http is the reference transport for ivsync.Backend (spec §4.9,
// §6): a concrete HTTP/JSON client the bundled serverref reference server
// understands. Every request carries a correlation id (google/uuid,
// grounded on the teacher's uuid.NewString() per-message-id convention in
// pkg/agent/handshake/client.go) threaded through internal/log fields so a
// sync run's requests are traceable, and an HMAC bearer token derived from
// the caller's NetworkKeys — spec.md leaves the authentication mechanism
// out of scope, so this is a reference scheme only, concrete enough for
// this package and serverref to interoperate and for tests to exercise the
// wire format in §6.
package http

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/ironvault-project/ironvault/internal/log"
	"github.com/ironvault-project/ironvault/ironerr"
	"github.com/ironvault-project/ironvault/kdf"
	"github.com/ironvault-project/ironvault/objects"
	ivsync "github.com/ironvault-project/ironvault/sync"
)

// Backend is an ivsync.Backend implementation talking to a serverref
// reference HTTP server.
type Backend struct {
	BaseURL    string
	Keys       kdf.NetworkKeys
	HTTPClient *http.Client
	Logger     log.Logger
}

// NewBackend constructs a Backend with a default 30s-timeout http.Client
// and the package default logger.
func NewBackend(baseURL string, keys kdf.NetworkKeys) *Backend {
	return &Backend{
		BaseURL:    baseURL,
		Keys:       keys,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		Logger:     log.Default(),
	}
}

type objectSummaryWire struct {
	ID  string `json:"id"`
	SIV string `json:"siv"`
}

type objectWire struct {
	SIV        string `json:"siv"`
	Ciphertext string `json:"ciphertext"`
}

// List implements ivsync.Backend via GET /objects.
func (b *Backend) List(ctx context.Context) ([]ivsync.ObjectSummary, error) {
	var wire []objectSummaryWire
	if err := b.do(ctx, http.MethodGet, "/objects", nil, &wire); err != nil {
		return nil, err
	}

	out := make([]ivsync.ObjectSummary, 0, len(wire))
	for _, w := range wire {
		id, err := objects.ParseID(w.ID)
		if err != nil {
			return nil, ironerr.Wrap(ironerr.KindCorruption, "parse object id from server", err)
		}
		siv, err := decodeSIV(w.SIV)
		if err != nil {
			return nil, err
		}
		out = append(out, ivsync.ObjectSummary{ID: id, SIV: siv})
	}
	return out, nil
}

// Get implements the data half of ivsync.Backend via GET /objects/{id}.
func (b *Backend) Get(ctx context.Context, id objects.ID) ([32]byte, []byte, error) {
	var wire objectWire
	path := "/objects/" + id.String()
	if err := b.do(ctx, http.MethodGet, path, nil, &wire); err != nil {
		return [32]byte{}, nil, err
	}

	siv, err := decodeSIV(wire.SIV)
	if err != nil {
		return [32]byte{}, nil, err
	}
	ciphertext, err := base64.StdEncoding.DecodeString(wire.Ciphertext)
	if err != nil {
		return [32]byte{}, nil, ironerr.Wrap(ironerr.KindCorruption, "decode ciphertext from server", err)
	}
	return siv, ciphertext, nil
}

// Put implements ivsync.Backend via PUT /objects/{id}.
func (b *Backend) Put(ctx context.Context, id objects.ID, siv [32]byte, ciphertext []byte) error {
	body := objectWire{
		SIV:        hex.EncodeToString(siv[:]),
		Ciphertext: base64.StdEncoding.EncodeToString(ciphertext),
	}
	path := "/objects/" + id.String()
	return b.do(ctx, http.MethodPut, path, body, nil)
}

func (b *Backend) do(ctx context.Context, method, path string, body, out interface{}) error {
	correlationID := uuid.NewString()
	logger := b.logger().With(log.String("correlation_id", correlationID), log.String("method", method), log.String("path", path))

	var bodyBytes []byte
	if body != nil {
		var err error
		bodyBytes, err = json.Marshal(body)
		if err != nil {
			return ironerr.Wrap(ironerr.KindInvalidInput, "marshal request body", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, b.BaseURL+path, bytes.NewReader(bodyBytes))
	if err != nil {
		return ironerr.Wrap(ironerr.KindTransportFailure, "build request", err)
	}
	req.Header.Set("X-Correlation-Id", correlationID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+b.bearerToken(method, path, bodyBytes))

	logger.Debug("sync request")
	resp, err := b.httpClient().Do(req)
	if err != nil {
		logger.Warn("sync request failed", log.Error(err))
		return ironerr.Wrap(ironerr.KindTransportFailure, "do request", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return ironerr.Wrap(ironerr.KindTransportFailure, "read response body", err)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return ironerr.New(ironerr.KindServerRejected, fmt.Sprintf("server rejected request: %d", resp.StatusCode))
	}
	if resp.StatusCode >= 300 {
		return ironerr.New(ironerr.KindTransportFailure, fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(respBytes)))
	}

	if out != nil && len(respBytes) > 0 {
		if err := json.Unmarshal(respBytes, out); err != nil {
			return ironerr.Wrap(ironerr.KindCorruption, "decode response body", err)
		}
	}
	logger.Debug("sync response", log.Int("status", resp.StatusCode))
	return nil
}

// bearerToken computes the reference HMAC scheme of spec §6:
// HMAC-SHA-256(login_key, method + path + body), hex-encoded, prefixed
// with the hex login_id.
func (b *Backend) bearerToken(method, path string, body []byte) string {
	mac := hmac.New(sha256.New, b.Keys.LoginKey[:])
	mac.Write([]byte(method))
	mac.Write([]byte(path))
	mac.Write(body)
	return hex.EncodeToString(b.Keys.LoginID[:]) + "." + hex.EncodeToString(mac.Sum(nil))
}

func (b *Backend) httpClient() *http.Client {
	if b.HTTPClient == nil {
		return http.DefaultClient
	}
	return b.HTTPClient
}

func (b *Backend) logger() log.Logger {
	if b.Logger == nil {
		return log.Default()
	}
	return b.Logger
}

func decodeSIV(s string) ([32]byte, error) {
	var siv [32]byte
	raw, err := hex.DecodeString(s)
	if err != nil || len(raw) != len(siv) {
		return siv, ironerr.New(ironerr.KindCorruption, "malformed siv from server")
	}
	copy(siv[:], raw)
	return siv, nil
}
