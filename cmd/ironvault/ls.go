// SPDX-License-Identifier: LGPL-3.0-or-later

package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/ironvault-project/ironvault/objects"
)

var lsDirID string

var lsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List the contents of a directory",
	Long: `List the materialized children of a directory: subdirectories by
name and entries by their title field, if set.`,
	RunE: runLs,
}

func init() {
	rootCmd.AddCommand(lsCmd)
	lsCmd.Flags().StringVar(&dbPath, "db", "", "path to the database file (default: config store path)")
	lsCmd.Flags().StringVar(&lsDirID, "dir", "", "directory id to list (default: root)")
}

func runLs(cmd *cobra.Command, args []string) error {
	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	dirID := objects.RootID
	if lsDirID != "" {
		dirID, err = objects.ParseID(lsDirID)
		if err != nil {
			return err
		}
	}

	dirsByID := make(map[objects.ID]*objects.Directory)
	for _, d := range db.ListDirectories() {
		dirsByID[d.ID] = d
	}
	entriesByID := make(map[objects.ID]*objects.Entry)
	for _, e := range db.ListEntries() {
		entriesByID[e.ID] = e
	}

	dir, ok := dirsByID[dirID]
	if !ok {
		return fmt.Errorf("unknown directory id %s", dirID)
	}
	state := dir.Materialize()

	type row struct {
		kind string
		name string
		id   objects.ID
	}
	rows := make([]row, 0, len(state.Children))
	for childID := range state.Children {
		if child, ok := dirsByID[childID]; ok {
			name := "(unnamed)"
			if s := child.Materialize().Name; s != nil {
				name = *s
			}
			rows = append(rows, row{kind: "dir", name: name, id: childID})
			continue
		}
		if entry, ok := entriesByID[childID]; ok {
			name := entry.Materialize()["title"]
			if name == "" {
				name = "(untitled)"
			}
			rows = append(rows, row{kind: "entry", name: name, id: childID})
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].name < rows[j].name })

	for _, r := range rows {
		fmt.Printf("%-6s %-30s %s\n", r.kind, r.name, r.id)
	}
	return nil
}
