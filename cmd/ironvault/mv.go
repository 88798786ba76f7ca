// SPDX-License-Identifier: LGPL-3.0-or-later

package main

import (
	"github.com/spf13/cobra"

	"github.com/ironvault-project/ironvault/objects"
)

var mvCmd = &cobra.Command{
	Use:   "mv <id> <new-parent-id>",
	Short: "Move a directory or entry to a new parent directory",
	Args:  cobra.ExactArgs(2),
	RunE:  runMv,
}

func init() {
	rootCmd.AddCommand(mvCmd)
	mvCmd.Flags().StringVar(&dbPath, "db", "", "path to the database file (default: config store path)")
}

func runMv(cmd *cobra.Command, args []string) error {
	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	id, err := objects.ParseID(args[0])
	if err != nil {
		return err
	}
	newParent, err := objects.ParseID(args[1])
	if err != nil {
		return err
	}

	if err := db.MoveObject(id, newParent); err != nil {
		return err
	}
	return saveDatabase(db)
}
