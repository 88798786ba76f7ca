// SPDX-License-Identifier: LGPL-3.0-or-later

package main

import (
	"github.com/spf13/cobra"

	"github.com/ironvault-project/ironvault/objects"
)

var renameCmd = &cobra.Command{
	Use:   "rename <dir-id> <new-name>",
	Short: "Rename a directory",
	Args:  cobra.ExactArgs(2),
	RunE:  runRename,
}

func init() {
	rootCmd.AddCommand(renameCmd)
	renameCmd.Flags().StringVar(&dbPath, "db", "", "path to the database file (default: config store path)")
}

func runRename(cmd *cobra.Command, args []string) error {
	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	id, err := objects.ParseID(args[0])
	if err != nil {
		return err
	}
	if err := db.RenameDirectory(id, args[1]); err != nil {
		return err
	}
	return saveDatabase(db)
}
