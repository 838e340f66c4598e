package main

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/dhth/bmm-sub000/internal/browser"
	"github.com/dhth/bmm-sub000/internal/model"
	"github.com/dhth/bmm-sub000/internal/picker"
	"github.com/dhth/bmm-sub000/internal/search"
)

func init() {
	rootCmd.AddCommand(openCmd)
}

var openCmd = &cobra.Command{
	Use:   "open <term>...",
	Short: "Search and open a bookmark in the browser",
	Long: `Search bookmarks by free text and open the best match. A single hit
opens directly; several hits open a picker ordered by fuzzy relevance.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runOpen,
}

func runOpen(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	terms, err := model.NewSearchTerms(query)
	if err != nil {
		return err
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	bookmarks, err := store.SearchByTerms(cmd.Context(), terms, cfg.SearchLimit)
	if err != nil {
		return fmt.Errorf("searching bookmarks: %w", err)
	}

	results := search.RankBookmarks(bookmarks, terms.Terms())
	out := cmd.OutOrStdout()

	var selected model.Bookmark
	switch len(results) {
	case 0:
		fmt.Fprintf(out, "No bookmarks found for '%s'\n", query)
		return nil

	case 1:
		// Single result - open it directly
		selected = results[0].Bookmark
		fmt.Fprintf(out, "Opening: %s\n", selected.DisplayTitle())

	default:
		finalModel, err := tea.NewProgram(picker.New(results, query), tea.WithContext(cmd.Context())).Run()
		if err != nil {
			return fmt.Errorf("running picker: %w", err)
		}
		bm, ok := finalModel.(picker.Picker).SelectedBookmark()
		if !ok {
			return nil
		}
		selected = bm
	}

	return browser.Open(selected.URI)
}
