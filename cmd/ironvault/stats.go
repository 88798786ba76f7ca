// SPDX-License-Identifier: LGPL-3.0-or-later

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print a summary of the database's contents",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().StringVar(&dbPath, "db", "", "path to the database file (default: config store path)")
}

func runStats(cmd *cobra.Command, args []string) error {
	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	stats := db.Stats()
	fmt.Println("directories:", stats.Directories)
	fmt.Println("entries:", stats.Entries)
	if stats.LastSync != nil {
		fmt.Println("last sync:", *stats.LastSync)
	} else {
		fmt.Println("last sync: never")
	}
	if db.Migrated() {
		fmt.Println("note: this database was opened from a legacy format and will be upgraded on next save")
	}
	return nil
}
