// SPDX-License-Identifier: LGPL-3.0-or-later

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var passwdUsername string

var passwdCmd = &cobra.Command{
	Use:   "passwd",
	Short: "Change the database passphrase and username",
	Long: `Re-derives the master and network keys under a new passphrase and
username, generating a fresh scrypt salt. The next save rewrites the
database under the new keys.`,
	RunE: runPasswd,
}

func init() {
	rootCmd.AddCommand(passwdCmd)
	passwdCmd.Flags().StringVar(&dbPath, "db", "", "path to the database file (default: config store path)")
	passwdCmd.Flags().StringVarP(&passwdUsername, "username", "u", "", "new username (required)")
	passwdCmd.MarkFlagRequired("username")
}

func runPasswd(cmd *cobra.Command, args []string) error {
	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	newPassphrase, err := promptPassphrase("New passphrase: ")
	if err != nil {
		return err
	}
	confirm, err := promptPassphrase("Confirm new passphrase: ")
	if err != nil {
		return err
	}
	if newPassphrase != confirm {
		return fmt.Errorf("passphrases do not match")
	}

	if err := db.ChangePassphrase(passwdUsername, newPassphrase); err != nil {
		return err
	}
	return saveDatabase(db)
}
