package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dhth/bmm-sub000/internal/culler"
	"github.com/dhth/bmm-sub000/internal/logging"
	"github.com/dhth/bmm-sub000/internal/model"
)

var (
	checkTags        string
	checkConcurrency int
	checkTimeout     time.Duration
	checkRate        float64
	checkExclude     []string
	checkDeleteDead  bool
)

func init() {
	checkCmd.Flags().StringVar(&checkTags, "tags", "", "only check bookmarks carrying all of these comma separated tags")
	checkCmd.Flags().IntVarP(&checkConcurrency, "concurrency", "c", culler.DefaultConcurrency, "number of URIs checked at once")
	checkCmd.Flags().DurationVar(&checkTimeout, "timeout", culler.DefaultTimeout, "timeout per request")
	checkCmd.Flags().Float64Var(&checkRate, "rate", 0, "maximum requests per second (0 = unlimited)")
	checkCmd.Flags().StringSliceVar(&checkExclude, "exclude-domain", nil, "domains where a 404 may mean private, not gone")
	checkCmd.Flags().BoolVar(&checkDeleteDead, "delete-dead", false, "delete bookmarks whose URIs are gone")
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Find bookmarks whose URIs no longer resolve",
	Long: `Request every bookmarked URI and report the ones that are dead (404,
410) or unreachable. With --delete-dead, dead bookmarks are removed.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, _ []string) error {
	tags, err := model.NormalizeTags(model.SplitTags(checkTags))
	if err != nil {
		return err
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	bookmarks, err := store.FieldedSearch(cmd.Context(), model.FieldFilter{Tags: tags}, 0)
	if err != nil {
		return fmt.Errorf("listing bookmarks: %w", err)
	}

	checker := culler.New(culler.Options{
		Concurrency:       checkConcurrency,
		Timeout:           checkTimeout,
		RequestsPerSecond: checkRate,
		ExcludeDomains:    checkExclude,
	})
	errOut := cmd.ErrOrStderr()
	results, err := checker.Check(cmd.Context(), bookmarks, func(completed, total int) {
		fmt.Fprintf(errOut, "\rchecked %d/%d", completed, total)
	})
	if len(bookmarks) > 0 {
		fmt.Fprintln(errOut)
	}
	if err != nil {
		return fmt.Errorf("checking bookmarks: %w", err)
	}

	out := cmd.OutOrStdout()
	var dead []string
	for _, r := range results {
		switch r.Status {
		case culler.Dead:
			dead = append(dead, r.Bookmark.URI)
			fmt.Fprintf(out, "dead         %s (%d)\n", r.Bookmark.URI, r.StatusCode)
		case culler.Unreachable:
			fmt.Fprintf(out, "unreachable  %s (%s)\n", r.Bookmark.URI, r.Reason)
		}
	}
	logging.Info("checked bookmarks", "total", len(results), "dead", len(dead))

	if !checkDeleteDead || len(dead) == 0 {
		return nil
	}
	n, err := store.DeleteBookmarks(cmd.Context(), dead)
	if err != nil {
		return fmt.Errorf("deleting dead bookmarks: %w", err)
	}
	fmt.Fprintf(out, "deleted %d dead bookmarks\n", n)
	return nil
}
