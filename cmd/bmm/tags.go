package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhth/bmm-sub000/internal/model"
	"github.com/dhth/bmm-sub000/internal/render"
	"github.com/dhth/bmm-sub000/internal/tui"
)

var (
	tagsFormat    string
	tagsShowStats bool
	tagsTUI       bool
)

func init() {
	tagsListCmd.Flags().StringVarP(&tagsFormat, "format", "f", string(render.Plain), "output format: plain, json, delimited")
	tagsListCmd.Flags().BoolVarP(&tagsShowStats, "show-stats", "s", false, "show the number of bookmarks per tag")
	tagsListCmd.Flags().BoolVar(&tagsTUI, "tui", false, "browse tags interactively")

	tagsCmd.AddCommand(tagsListCmd, tagsRenameCmd, tagsDeleteCmd)
	rootCmd.AddCommand(tagsCmd)
}

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "Interact with tags",
}

var tagsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tags",
	Args:  cobra.NoArgs,
	RunE:  runTagsList,
}

var tagsRenameCmd = &cobra.Command{
	Use:   "rename <old> <new>",
	Short: "Rename a tag, merging it into <new> if that exists",
	Args:  cobra.ExactArgs(2),
	RunE:  runTagsRename,
}

var tagsDeleteCmd = &cobra.Command{
	Use:   "delete <tag>...",
	Short: "Delete tags (the bookmarks stay)",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTagsDelete,
}

func runTagsList(cmd *cobra.Command, _ []string) error {
	format, err := render.ParseFormat(tagsFormat)
	if err != nil {
		return err
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	if tagsTUI {
		return runSession(cmd.Context(), store, tui.TagsStart())
	}

	tags, err := store.TagsWithCounts(cmd.Context())
	if err != nil {
		return fmt.Errorf("fetching tags: %w", err)
	}
	return render.Tags(cmd.OutOrStdout(), tags, format, tagsShowStats)
}

func runTagsRename(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.RenameTag(cmd.Context(), args[0], args[1]); err != nil {
		return fmt.Errorf("renaming tag %q: %w", args[0], err)
	}
	return nil
}

func runTagsDelete(cmd *cobra.Command, args []string) error {
	tags, err := model.NormalizeTags(args)
	if err != nil {
		return err
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	n, err := store.DeleteTags(cmd.Context(), tags)
	if err != nil {
		return fmt.Errorf("deleting tags: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "deleted %d tags\n", n)
	return nil
}
