package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhth/bmm-sub000/internal/model"
	"github.com/dhth/bmm-sub000/internal/storage"
)

var (
	saveTitle        string
	saveTags         string
	saveResetMissing bool

	saveAllTags string
)

func init() {
	saveCmd.Flags().StringVar(&saveTitle, "title", "", "title of the bookmark")
	saveCmd.Flags().StringVar(&saveTags, "tags", "", "comma separated tags")
	saveCmd.Flags().BoolVar(&saveResetMissing, "reset-missing-details", false, "clear title and tags that are not provided")
	rootCmd.AddCommand(saveCmd)

	saveAllCmd.Flags().StringVar(&saveAllTags, "tags", "", "comma separated tags applied to every URI")
	rootCmd.AddCommand(saveAllCmd)
}

var saveCmd = &cobra.Command{
	Use:   "save <uri>",
	Short: "Save a bookmark",
	Long: `Save a bookmark, or update it if the URI is already saved.

Tags are merged with the existing ones unless --reset-missing-details is set.

Example:
  bmm save https://github.com/charmbracelet/bubbletea --tags go,tui`,
	Args: cobra.ExactArgs(1),
	RunE: runSave,
}

var saveAllCmd = &cobra.Command{
	Use:   "save-all <uri>...",
	Short: "Save several bookmarks at once",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSaveAll,
}

func runSave(cmd *cobra.Command, args []string) error {
	input, err := model.NewBookmarkInput(model.NewBookmarkParams{
		URI:   args[0],
		Title: saveTitle,
		Tags:  model.SplitTags(saveTags),
	})
	if err != nil {
		return err
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	opts := storage.SaveOptions{ResetMissing: saveResetMissing}
	if err := store.SaveBookmark(cmd.Context(), input, opts); err != nil {
		return fmt.Errorf("saving bookmark: %w", err)
	}
	return nil
}

func runSaveAll(cmd *cobra.Command, args []string) error {
	tags := model.SplitTags(saveAllTags)
	inputs := make([]model.BookmarkInput, 0, len(args))
	for _, uri := range args {
		input, err := model.NewBookmarkInput(model.NewBookmarkParams{URI: uri, Tags: tags})
		if err != nil {
			return fmt.Errorf("%s: %w", uri, err)
		}
		inputs = append(inputs, input)
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.SaveBookmarks(cmd.Context(), inputs, storage.SaveOptions{}); err != nil {
		return fmt.Errorf("saving bookmarks: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "saved %d bookmarks\n", len(inputs))
	return nil
}
