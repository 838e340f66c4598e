// Package main provides the bmm CLI entry point.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dhth/bmm-sub000/internal/logging"
	"github.com/dhth/bmm-sub000/internal/storage"
)

// Version is set at build time via ldflags
var Version = "dev"

var (
	dbPathFlag string
	debugFlag  bool

	// cfg is loaded before any subcommand runs
	cfg *storage.Config
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	logging.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "bmm",
	Short: "Lets you get to your bookmarks in a flash",
	Long: `bmm stores your bookmarks in a local SQLite database and lets you
search, tag and browse them from the command line or an interactive
terminal session.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPathFlag, "db-path", "", "path to the bmm database (default $XDG_DATA_HOME/bmm/bmm.db)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "enable debug logging and diagnostics")
	rootCmd.Version = Version
}

// setup loads the config and starts logging. Flags win over the
// environment, which wins over the config file.
func setup(cmd *cobra.Command, _ []string) error {
	configPath, err := storage.DefaultConfigFilePath()
	if err != nil {
		return fmt.Errorf("finding config path: %w", err)
	}
	cfg, err = storage.LoadConfig(configPath)
	if err != nil {
		return err
	}

	if dbPathFlag != "" {
		cfg.DBPath = dbPathFlag
	}
	if cfg.DBPath == "" {
		if cfg.DBPath, err = storage.DefaultDBPath(); err != nil {
			return fmt.Errorf("finding database path: %w", err)
		}
	}
	if cmd.Flags().Changed("debug") {
		cfg.Debug = debugFlag
	}
	if cfg.LogFile == "" {
		if cfg.LogFile, err = storage.DefaultLogPath(); err != nil {
			return fmt.Errorf("finding log path: %w", err)
		}
	}

	if err := logging.Init(cfg.LogFile, cfg.Debug); err != nil {
		return err
	}
	logging.Debug("config loaded", "config", configPath, "db", cfg.DBPath, "command", cmd.CommandPath())
	return nil
}

func openStore() (*storage.SQLiteStorage, error) {
	store, err := storage.NewSQLiteStorage(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", cfg.DBPath, err)
	}
	return store, nil
}
