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

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ironvault",
	Short: "ironvault CLI - an encrypted password store with remote sync",
	Long: `ironvault manages an encrypted password database: directories and
entries, each with an append-only history, sealed on disk with a
passphrase-derived key, and reconcilable against a remote object store
that never sees plaintext.

This tool supports:
- Creating and opening a database
- Browsing and editing directories and entries
- Generating random secrets
- Syncing against a remote object store
- Changing the database passphrase`,
	PersistentPreRunE: loadConfig,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	// Commands are registered in their respective files:
	// - create.go: createCmd
	// - ls.go: lsCmd
	// - mkdir.go: mkdirCmd
	// - rename.go: renameCmd
	// - set.go: setCmd, rmCmd
	// - mv.go: mvCmd
	// - passwd.go: passwdCmd
	// - sync.go: syncCmd
	// - genpass.go: genpassCmd
	// - stats.go: statsCmd
}
