// SPDX-License-Identifier: LGPL-3.0-or-later

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	ivhttp "github.com/ironvault-project/ironvault/transport/http"
)

var syncURL string

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Reconcile the database against a remote object store",
	Long: `Syncs every local directory and entry against the reference HTTP
transport (spec §4.9, §6): objects whose SIV already matches the remote
are skipped, objects missing on either side are pushed or pulled, and a
SIV mismatch on both sides triggers a two-way history merge.`,
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)
	syncCmd.Flags().StringVar(&dbPath, "db", "", "path to the database file (default: config store path)")
	syncCmd.Flags().StringVar(&syncURL, "url", "", "sync server base url (default: the database's configured sync url)")
}

func runSync(cmd *cobra.Command, args []string) error {
	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	url := syncURL
	if url == "" {
		if configured := db.SyncURL(); configured != nil {
			url = *configured
		}
	}
	if url == "" && cfg != nil {
		url = cfg.Sync.URL
	}
	if url == "" {
		return fmt.Errorf("no sync url given and none configured on the database or in config")
	}

	keys, err := db.NetworkKeys()
	if err != nil {
		return err
	}
	backend := ivhttp.NewBackend(url, keys)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := db.Sync(ctx, backend); err != nil {
		return err
	}
	if err := saveDatabase(db); err != nil {
		return err
	}
	fmt.Println("sync complete")
	return nil
}
