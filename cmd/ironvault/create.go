// SPDX-License-Identifier: LGPL-3.0-or-later

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ironvault-project/ironvault/store"
)

var createUsername string

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new, empty database",
	Long: `Create a new database file containing only the root directory,
sealed with a freshly derived key.`,
	Example: `  # Create a database at the default path
  ironvault create --db ~/.ironvault/vault.ivx --username alice`,
	RunE: runCreate,
}

func init() {
	rootCmd.AddCommand(createCmd)
	createCmd.Flags().StringVar(&dbPath, "db", "", "path to the database file (default: config store path)")
	createCmd.Flags().StringVarP(&createUsername, "username", "u", "", "username used to derive network sync keys (required)")
	createCmd.MarkFlagRequired("username")
}

func runCreate(cmd *cobra.Command, args []string) error {
	passphrase, err := promptPassphrase("New passphrase: ")
	if err != nil {
		return err
	}
	confirm, err := promptPassphrase("Confirm passphrase: ")
	if err != nil {
		return err
	}
	if passphrase != confirm {
		return fmt.Errorf("passphrases do not match")
	}

	db, err := store.CreateDatabase(createUsername, passphrase)
	if err != nil {
		return err
	}
	defer db.Close()

	path, err := resolveDBPath()
	if err != nil {
		return err
	}
	if err := db.SaveToPath(path); err != nil {
		return err
	}
	fmt.Println("created database at", path)
	return nil
}
