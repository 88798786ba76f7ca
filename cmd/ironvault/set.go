// SPDX-License-Identifier: LGPL-3.0-or-later

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ironvault-project/ironvault/objects"
)

var (
	setEntryID string
	setDirID   string
	setTitle   string
	setUser    string
	setPass    string
	setURL     string
	setNotes   string
)

var setCmd = &cobra.Command{
	Use:   "set",
	Short: "Create or edit an entry's fields",
	Long: `Create a new entry (when --id is omitted) or append an edit to an
existing one. Only the flags given are changed; omitted fields are left
untouched.`,
	Example: `  # Create a new entry under the root directory
  ironvault set --db vault.ivx --title "example.com" --username alice --password hunter2

  # Edit an existing entry's password
  ironvault set --db vault.ivx --id <entry-id> --password newpass`,
	RunE: runSet,
}

func init() {
	rootCmd.AddCommand(setCmd)
	setCmd.Flags().StringVar(&dbPath, "db", "", "path to the database file (default: config store path)")
	setCmd.Flags().StringVar(&setEntryID, "id", "", "existing entry id to edit (omit to create a new entry)")
	setCmd.Flags().StringVar(&setDirID, "dir", "", "parent directory id for a new entry (default: root)")
	setCmd.Flags().StringVar(&setTitle, "title", "", "entry title")
	setCmd.Flags().StringVar(&setUser, "username", "", "entry username")
	setCmd.Flags().StringVar(&setPass, "password", "", "entry password")
	setCmd.Flags().StringVar(&setURL, "url", "", "entry url")
	setCmd.Flags().StringVar(&setNotes, "notes", "", "entry notes")
}

func runSet(cmd *cobra.Command, args []string) error {
	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	var id *objects.ID
	if setEntryID != "" {
		parsed, err := objects.ParseID(setEntryID)
		if err != nil {
			return err
		}
		id = &parsed
	}

	parentID := objects.RootID
	if setDirID != "" {
		parentID, err = objects.ParseID(setDirID)
		if err != nil {
			return err
		}
	}

	data := map[string]*string{}
	addField(cmd, data, "title", setTitle)
	addField(cmd, data, "username", setUser)
	addField(cmd, data, "password", setPass)
	addField(cmd, data, "url", setURL)
	addField(cmd, data, "notes", setNotes)
	if len(data) == 0 {
		return fmt.Errorf("no fields given to set")
	}

	newID, err := db.EditEntry(id, data, parentID)
	if err != nil {
		return err
	}
	if err := saveDatabase(db); err != nil {
		return err
	}
	fmt.Println(newID)
	return nil
}

func addField(cmd *cobra.Command, data map[string]*string, flag, value string) {
	if !cmd.Flags().Changed(flag) {
		return
	}
	v := value
	data[flag] = &v
}

var rmFieldEntryID string

var rmCmd = &cobra.Command{
	Use:   "rm <field>",
	Short: "Delete a field from an entry",
	Args:  cobra.ExactArgs(1),
	RunE:  runRm,
}

func init() {
	rootCmd.AddCommand(rmCmd)
	rmCmd.Flags().StringVar(&dbPath, "db", "", "path to the database file (default: config store path)")
	rmCmd.Flags().StringVar(&rmFieldEntryID, "id", "", "entry id (required)")
	rmCmd.MarkFlagRequired("id")
}

func runRm(cmd *cobra.Command, args []string) error {
	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	id, err := objects.ParseID(rmFieldEntryID)
	if err != nil {
		return err
	}

	if _, err := db.EditEntry(&id, map[string]*string{args[0]: nil}, objects.RootID); err != nil {
		return err
	}
	return saveDatabase(db)
}
