// SPDX-License-Identifier: LGPL-3.0-or-later

package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ironvault-project/ironvault/config"
	"github.com/ironvault-project/ironvault/internal/log"
	"github.com/ironvault-project/ironvault/internal/metrics"
	"github.com/ironvault-project/ironvault/store"
)

// dbPath is shared by every subcommand that opens or saves a database.
// Empty means "fall back to cfg.Store.Path".
var dbPath string

// cfg is loaded once, in rootCmd's PersistentPreRunE, before any
// subcommand runs: package config's YAML fallback chain plus
// IRONVAULT_* overrides drive the database path, the sync url default,
// the logger, and the metrics endpoint, rather than bare cobra flags
// alone.
var cfg *config.Config

// loadConfig is rootCmd's PersistentPreRunE. It loads package config,
// applies its logging settings to package internal/log's default
// logger, and starts the metrics endpoint when configured.
func loadConfig(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg = loaded

	log.SetDefault(log.New(logOutput(cfg.Logging.Output), logLevel(cfg.Logging.Level)))

	if cfg.Metrics.Enabled {
		go func() {
			if err := metrics.StartServer(cfg.Metrics.Addr); err != nil {
				log.Default().Error("metrics server stopped", log.Error(err))
			}
		}()
	}
	return nil
}

func logLevel(level string) log.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return log.DebugLevel
	case "WARN":
		return log.WarnLevel
	case "ERROR":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

func logOutput(output string) io.Writer {
	switch output {
	case "", "stderr":
		return os.Stderr
	case "stdout":
		return os.Stdout
	default:
		f, err := os.OpenFile(output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
		if err != nil {
			return os.Stderr
		}
		return f
	}
}

// resolveDBPath returns the --db flag's value, falling back to the
// loaded config's store path.
func resolveDBPath() (string, error) {
	if dbPath != "" {
		return dbPath, nil
	}
	if cfg != nil && cfg.Store.Path != "" {
		return cfg.Store.Path, nil
	}
	return "", fmt.Errorf("missing --db path (no database path configured)")
}

// openDatabase prompts for a passphrase on stderr (hidden input via
// golang.org/x/term, the same term.ReadPassword convention the
// muti-metroo CLI in the example pack uses for its own secret prompts)
// and loads the database at the resolved db path.
func openDatabase() (*store.Database, error) {
	path, err := resolveDBPath()
	if err != nil {
		return nil, err
	}
	passphrase, err := promptPassphrase("Passphrase: ")
	if err != nil {
		return nil, err
	}
	return store.LoadFromPath(path, passphrase)
}

func promptPassphrase(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	if term.IsTerminal(int(os.Stdin.Fd())) {
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("read passphrase: %w", err)
		}
		return string(raw), nil
	}

	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read passphrase: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func saveDatabase(db *store.Database) error {
	path, err := resolveDBPath()
	if err != nil {
		return err
	}
	return db.SaveToPath(path)
}
