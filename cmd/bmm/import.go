package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhth/bmm-sub000/internal/importer"
	"github.com/dhth/bmm-sub000/internal/logging"
	"github.com/dhth/bmm-sub000/internal/storage"
)

var (
	importDryRun       bool
	importResetMissing bool
)

func init() {
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "print what would be imported without saving")
	importCmd.Flags().BoolVar(&importResetMissing, "reset-missing-details", false, "clear title and tags of existing bookmarks that the file does not provide")
	rootCmd.AddCommand(importCmd)
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import bookmarks from a file",
	Long: `Import bookmarks from a file. The format is picked by extension:

  .html, .htm  Netscape bookmark file (folders become tags)
  .json        array of {"uri", "title", "tags"} objects
  anything else  one URI per line, # starts a comment`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	inputs, err := importer.ParseFile(args[0])
	if err != nil {
		return err
	}
	logging.Info("parsed import file", "file", args[0], "bookmarks", len(inputs))

	out := cmd.OutOrStdout()
	if importDryRun {
		for _, in := range inputs {
			fmt.Fprintln(out, in.URI)
		}
		fmt.Fprintf(out, "would import %d bookmarks\n", len(inputs))
		return nil
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	opts := storage.SaveOptions{ResetMissing: importResetMissing}
	if err := store.SaveBookmarks(cmd.Context(), inputs, opts); err != nil {
		return fmt.Errorf("saving bookmarks: %w", err)
	}
	fmt.Fprintf(out, "imported %d bookmarks\n", len(inputs))
	return nil
}
