// SPDX-License-Identifier: LGPL-3.0-or-later

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var mkdirCmd = &cobra.Command{
	Use:   "mkdir <name>",
	Short: "Create a new directory under the root",
	Args:  cobra.ExactArgs(1),
	RunE:  runMkdir,
}

func init() {
	rootCmd.AddCommand(mkdirCmd)
	mkdirCmd.Flags().StringVar(&dbPath, "db", "", "path to the database file (default: config store path)")
}

func runMkdir(cmd *cobra.Command, args []string) error {
	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	id, err := db.NewDirectory(args[0])
	if err != nil {
		return err
	}
	if err := saveDatabase(db); err != nil {
		return err
	}
	fmt.Println(id)
	return nil
}
