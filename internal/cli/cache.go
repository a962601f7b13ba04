package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmcdole/cinemax/internal/domain"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the local cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear [category]",
	Short: "Drop cached listings and details (the wishlist is kept)",
	Long: `Drop every cached listing and details record, or only the listing of
the given category. The wishlist is never touched.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCacheClear,
}

var cacheInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the cache location and cached listing sizes",
	Args:  cobra.NoArgs,
	RunE:  runCacheInfo,
}

func init() {
	RootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheClearCmd, cacheInfoCmd)
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.Close()

	if len(args) == 1 {
		category := domain.Category(args[0])
		if err := a.catalog.ClearCategory(category); err != nil {
			return fmt.Errorf("failed to clear %s: %w", category, err)
		}
		printOK(cmd.OutOrStdout(), "Cleared cached %s", category)
		return nil
	}

	if err := a.catalog.ClearCache(); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	printOK(cmd.OutOrStdout(), "Cache cleared")
	return nil
}

func runCacheInfo(cmd *cobra.Command, args []string) error {
	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	path := a.store.Path()
	if path == "" {
		path = "(memory only)"
	}
	printHeader(out, "Cache")
	fmt.Fprintf(out, "%-20s %s\n", "path", styleID.Render(path))
	for _, info := range domain.Categories() {
		n := a.queries.CachedCount(info.Category)
		if n == 0 {
			continue
		}
		fmt.Fprintf(out, "%-20s %d items\n", info.Category, n)
	}
	return nil
}
