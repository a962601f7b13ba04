package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mmcdole/cinemax/internal/search"
)

var (
	flagSearchFilter string
	flagSearchRemote bool
	flagSearchLimit  int
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search cached listings or the catalog API",
	Long: `Fuzzy-search every cached listing. --filter narrows results with an
expression over the fields ` + strings.Join(search.FilterFields(), ", ") + `,
for example:

  cinemax search --filter 'year >= 2020 && rating > 7.5'
  cinemax search dune --filter 'kind == "movie"'

--remote queries the catalog API instead of the cache.`,
	Args: cobra.ArbitraryArgs,
	RunE: runSearch,
}

func init() {
	RootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringVarP(&flagSearchFilter, "filter", "f", "", "Filter expression")
	searchCmd.Flags().BoolVarP(&flagSearchRemote, "remote", "r", false, "Search the catalog API")
	searchCmd.Flags().IntVarP(&flagSearchLimit, "limit", "n", 25, "Maximum number of results (0 for all)")
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	if flagSearchRemote && query == "" {
		return fmt.Errorf("remote search needs a query")
	}
	if flagSearchRemote && flagSearchFilter != "" {
		return fmt.Errorf("--filter applies to cached listings only")
	}

	filter, err := search.CompileFilter(flagSearchFilter)
	if err != nil {
		return err
	}

	a, err := newApp(flagSearchRemote)
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	if flagSearchRemote {
		results, hasMore, err := a.search.Remote(cmd.Context(), query, 1)
		if err != nil {
			return err
		}
		printHeader(out, "%d results for %q", len(results), query)
		for _, r := range limit(results, flagSearchLimit) {
			fmt.Fprintln(out, itemRow(r.ID, r.MediaType, r.Title, r.Year(), fmt.Sprintf("%.1f", r.VoteAverage), a.wishlist.IsWishlisted(r.MediaType, r.ID)))
		}
		if hasMore {
			fmt.Fprintln(out, styleDim.Render("more results available; refine the query"))
		}
		return nil
	}

	results, err := a.search.Local(query, filter)
	if err != nil {
		return err
	}
	printHeader(out, "%d cached matches", len(results))
	for _, r := range limit(results, flagSearchLimit) {
		item := r.Item
		fmt.Fprintln(out, itemRow(item.ID, item.MediaType, item.Title, item.Year(), item.FormattedRating(), a.wishlist.IsWishlisted(item.MediaType, item.ID)))
	}
	return nil
}

func limit[T any](items []T, n int) []T {
	if n > 0 && len(items) > n {
		return items[:n]
	}
	return items
}
