package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmcdole/cinemax/internal/catalog"
	"github.com/mmcdole/cinemax/internal/domain"
)

var (
	flagListPages   int
	flagListRefresh bool
	flagListCached  bool
	flagUpcoming    int
)

var listCmd = &cobra.Command{
	Use:   "list <category>",
	Short: "Print the listing of a category",
	Long: `Print the listing of a category, loading pages until --pages are cached.
A cache younger than paging.cache_ttl is served without touching the network.`,
	Args: cobra.ExactArgs(1),
	RunE: runList,
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List the known categories",
	RunE:  runCategories,
}

var upcomingCmd = &cobra.Command{
	Use:   "upcoming",
	Short: "Show upcoming movies",
	Args:  cobra.NoArgs,
	RunE:  runUpcoming,
}

func init() {
	RootCmd.AddCommand(listCmd, categoriesCmd, upcomingCmd)

	listCmd.Flags().IntVarP(&flagListPages, "pages", "p", 1, "Number of pages to load")
	listCmd.Flags().BoolVarP(&flagListRefresh, "refresh", "r", false, "Drop the cached listing and start from the first page")
	listCmd.Flags().BoolVar(&flagListCached, "cached", false, "Print the cached listing without loading")
	upcomingCmd.Flags().IntVarP(&flagUpcoming, "limit", "n", 10, "Maximum number of movies")
}

func runList(cmd *cobra.Command, args []string) error {
	category, err := domain.ParseCategory(args[0])
	if err != nil {
		return err
	}
	if flagListPages < 1 {
		return fmt.Errorf("--pages must be at least 1")
	}

	a, err := newApp(!flagListCached)
	if err != nil {
		return err
	}
	defer a.Close()

	var page catalog.Page
	if flagListCached {
		page, err = a.catalog.Snapshot(category)
	} else {
		page, err = a.catalog.LoadPages(cmd.Context(), category, flagListPages, flagListRefresh)
	}
	// A failed load still reports what the cache holds
	if err != nil && len(page.Items) == 0 {
		return err
	}

	out := cmd.OutOrStdout()
	source := "network"
	if page.FromCache || flagListCached {
		source = "cache"
	}
	printHeader(out, "%s · %d items · %d pages (%s)", category.Title(), len(page.Items), catalog.PagesIn(page), source)
	printItems(out, page.Items, a.wishlist.IsWishlisted)
	if page.AppendEnd {
		fmt.Fprintln(out, styleDim.Render("end of listing"))
	}

	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), styleMarker.Render("✗ ")+err.Error()+" (showing cached items)")
	}
	return nil
}

func runCategories(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	for _, info := range domain.Categories() {
		fmt.Fprintf(out, "%-20s %s\n", styleID.Render(string(info.Category)), info.Title)
	}
	return nil
}

func runUpcoming(cmd *cobra.Command, args []string) error {
	a, err := newApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	items, err := a.catalog.Upcoming(cmd.Context(), flagUpcoming)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	printHeader(out, "Upcoming movies")
	printItems(out, items, a.wishlist.IsWishlisted)
	return nil
}
