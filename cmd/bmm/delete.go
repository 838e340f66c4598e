package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(deleteCmd)
}

var deleteCmd = &cobra.Command{
	Use:   "delete <uri>...",
	Short: "Delete bookmarks",
	Long: `Delete bookmarks by URI. Tags that no longer label any bookmark are
removed as well.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDelete,
}

func runDelete(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	n, err := store.DeleteBookmarks(cmd.Context(), args)
	if err != nil {
		return fmt.Errorf("deleting bookmarks: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "deleted %d bookmarks\n", n)
	return nil
}
