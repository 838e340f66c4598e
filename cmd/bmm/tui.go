package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dhth/bmm-sub000/internal/browser"
	"github.com/dhth/bmm-sub000/internal/logging"
	"github.com/dhth/bmm-sub000/internal/tui"
	"github.com/dhth/bmm-sub000/internal/tui/runtime"
)

func init() {
	rootCmd.AddCommand(tuiCmd)
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse bookmarks in an interactive terminal session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		return runSession(cmd.Context(), store, tui.BlankStart())
	},
}

func runSession(ctx context.Context, store runtime.Store, start tui.Start) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return errors.New("an interactive terminal is required")
	}

	sessionCfg := tui.DefaultConfig()
	sessionCfg.Debug = cfg.Debug
	sessionCfg.SearchLimit = cfg.SearchLimit

	_, err := runtime.Run(ctx, runtime.Options{
		Terminal:     runtime.NewStdTerminal(os.Stdin, os.Stdout),
		Store:        store,
		Open:         browser.Open,
		Copy:         clipboard.WriteAll,
		Config:       sessionCfg,
		Start:        start,
		PollInterval: time.Duration(cfg.PollIntervalMS) * time.Millisecond,
		Logger:       logging.WithPrefix("tui"),
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
