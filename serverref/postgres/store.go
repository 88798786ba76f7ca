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

// Package postgres is a pgx-backed ivsync.Backend, grounded on the
// teacher's pkg/storage/postgres package: a pgxpool.Pool wrapped by a
// single-table store, one query-building method per operation, errors
// wrapped with fmt.Errorf at every call boundary.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	ivsync "github.com/ironvault-project/ironvault/sync"

	"github.com/ironvault-project/ironvault/objects"
)

// Store implements ivsync.Backend against a single "objects" table:
//
//	CREATE TABLE objects (
//	    id         bytea PRIMARY KEY,
//	    siv        bytea NOT NULL,
//	    ciphertext bytea NOT NULL
//	);
type Store struct {
	pool *pgxpool.Pool
}

// Config holds PostgreSQL connection configuration.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// NewStore opens a connection pool and verifies connectivity with Ping.
func NewStore(ctx context.Context, cfg *Config) (*Store, error) {
	connString := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, cfg.SSLMode,
	)
	return NewStoreFromConnString(ctx, connString)
}

// NewStoreFromConnString is NewStore for callers that already hold a
// pgx connection string or URL (e.g. from an environment variable),
// rather than a parsed Config.
func NewStoreFromConnString(ctx context.Context, connString string) (*Store, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("postgres: create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping database: %w", err)
	}

	return &Store{pool: pool}, nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// List implements ivsync.Backend.
func (s *Store) List(ctx context.Context) ([]ivsync.ObjectSummary, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, siv FROM objects`)
	if err != nil {
		return nil, fmt.Errorf("postgres: list objects: %w", err)
	}
	defer rows.Close()

	var out []ivsync.ObjectSummary
	for rows.Next() {
		var idBytes, sivBytes []byte
		if err := rows.Scan(&idBytes, &sivBytes); err != nil {
			return nil, fmt.Errorf("postgres: scan object: %w", err)
		}
		summary, err := toSummary(idBytes, sivBytes)
		if err != nil {
			return nil, err
		}
		out = append(out, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterate objects: %w", err)
	}
	return out, nil
}

// Get implements ivsync.Backend.
func (s *Store) Get(ctx context.Context, id objects.ID) ([32]byte, []byte, error) {
	var sivBytes, ciphertext []byte
	err := s.pool.QueryRow(ctx, `SELECT siv, ciphertext FROM objects WHERE id = $1`, id[:]).
		Scan(&sivBytes, &ciphertext)
	if errors.Is(err, pgx.ErrNoRows) {
		return [32]byte{}, nil, fmt.Errorf("postgres: object not found: %s", id)
	}
	if err != nil {
		return [32]byte{}, nil, fmt.Errorf("postgres: get object: %w", err)
	}

	var siv [32]byte
	if len(sivBytes) != len(siv) {
		return [32]byte{}, nil, fmt.Errorf("postgres: object %s has malformed siv length %d", id, len(sivBytes))
	}
	copy(siv[:], sivBytes)
	return siv, ciphertext, nil
}

// Put implements ivsync.Backend, upserting on id.
func (s *Store) Put(ctx context.Context, id objects.ID, siv [32]byte, ciphertext []byte) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO objects (id, siv, ciphertext)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET siv = EXCLUDED.siv, ciphertext = EXCLUDED.ciphertext
	`, id[:], siv[:], ciphertext)
	if err != nil {
		return fmt.Errorf("postgres: put object %s: %w", id, err)
	}
	return nil
}

func toSummary(idBytes, sivBytes []byte) (ivsync.ObjectSummary, error) {
	var id objects.ID
	if len(idBytes) != objects.IDSize {
		return ivsync.ObjectSummary{}, fmt.Errorf("postgres: malformed id length %d", len(idBytes))
	}
	copy(id[:], idBytes)

	var siv [32]byte
	if len(sivBytes) != len(siv) {
		return ivsync.ObjectSummary{}, fmt.Errorf("postgres: object %s has malformed siv length %d", id, len(sivBytes))
	}
	copy(siv[:], sivBytes)

	return ivsync.ObjectSummary{ID: id, SIV: siv}, nil
}
