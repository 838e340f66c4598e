package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhth/bmm-sub000/internal/model"
	"github.com/dhth/bmm-sub000/internal/render"
	"github.com/dhth/bmm-sub000/internal/storage"
	"github.com/dhth/bmm-sub000/internal/tui"
)

var (
	listURI    string
	listTitle  string
	listTags   string
	listFormat string
	listLimit  int

	searchFormat string
	searchLimit  int
	searchTUI    bool
)

func init() {
	listCmd.Flags().StringVarP(&listURI, "uri", "u", "", "only bookmarks whose URI contains this")
	listCmd.Flags().StringVarP(&listTitle, "title", "t", "", "only bookmarks whose title contains this")
	listCmd.Flags().StringVar(&listTags, "tags", "", "only bookmarks carrying all of these comma separated tags")
	listCmd.Flags().StringVarP(&listFormat, "format", "f", string(render.Plain), "output format: plain, json, delimited, html")
	listCmd.Flags().IntVarP(&listLimit, "limit", "l", 0, "maximum number of bookmarks (default from config)")
	rootCmd.AddCommand(listCmd)

	searchCmd.Flags().StringVarP(&searchFormat, "format", "f", string(render.Plain), "output format: plain, json, delimited, html")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "l", 0, "maximum number of bookmarks (default from config)")
	searchCmd.Flags().BoolVar(&searchTUI, "tui", false, "browse the results interactively")
	rootCmd.AddCommand(searchCmd)

	rootCmd.AddCommand(showCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List bookmarks, optionally filtered by URI, title and tags",
	Long: `List bookmarks, most recently updated first.

All given filters must match. --tags matches bookmarks carrying every
listed tag; they may carry others too.

Example:
  bmm list --uri github.com --tags go,tui --format json`,
	Args: cobra.NoArgs,
	RunE: runList,
}

var searchCmd = &cobra.Command{
	Use:   "search <term>...",
	Short: "Search bookmarks by free text",
	Long: `Search bookmarks by free text. Every term must appear in the URI,
the title or one of the tags of a bookmark; different terms may match
different fields.

Example:
  bmm search rust async --tui`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

var showCmd = &cobra.Command{
	Use:   "show <uri>",
	Short: "Show the details of a bookmark",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func limitOrDefault(limit int) int {
	if limit > 0 {
		return limit
	}
	return cfg.SearchLimit
}

func runList(cmd *cobra.Command, _ []string) error {
	format, err := render.ParseFormat(listFormat)
	if err != nil {
		return err
	}
	tags, err := model.NormalizeTags(model.SplitTags(listTags))
	if err != nil {
		return err
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	filter := model.FieldFilter{URI: listURI, Title: listTitle, Tags: tags}
	bookmarks, err := store.FieldedSearch(cmd.Context(), filter, limitOrDefault(listLimit))
	if err != nil {
		return fmt.Errorf("listing bookmarks: %w", err)
	}
	return render.Bookmarks(cmd.OutOrStdout(), bookmarks, format)
}

func runSearch(cmd *cobra.Command, args []string) error {
	terms, err := model.NewSearchTerms(strings.Join(args, " "))
	if err != nil {
		return err
	}
	format, err := render.ParseFormat(searchFormat)
	if err != nil {
		return err
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	if searchTUI {
		return runSession(cmd.Context(), store, tui.QueryStart(terms))
	}

	bookmarks, err := store.SearchByTerms(cmd.Context(), terms, limitOrDefault(searchLimit))
	if err != nil {
		return fmt.Errorf("searching bookmarks: %w", err)
	}
	return render.Bookmarks(cmd.OutOrStdout(), bookmarks, format)
}

func runShow(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	bm, err := store.GetBookmark(cmd.Context(), strings.TrimSpace(args[0]))
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("bookmark %q does not exist", args[0])
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "URI    %s\n", bm.URI)
	fmt.Fprintf(out, "Title  %s\n", orDash(bm.Title))
	fmt.Fprintf(out, "Tags   %s\n", orDash(strings.Join(bm.Tags, ", ")))
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
