package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mmcdole/cinemax/internal/wishlist"
)

var (
	flagWishlistFetch bool
	flagExportFormat  string
	flagExportOutput  string
)

var wishlistCmd = &cobra.Command{
	Use:   "wishlist",
	Short: "Manage saved movies and TV shows",
}

var wishlistAddCmd = &cobra.Command{
	Use:   "add movie|tv <id>",
	Short: "Add an item to the wishlist",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWishlistEdit(cmd, args, true)
	},
}

var wishlistRemoveCmd = &cobra.Command{
	Use:     "remove movie|tv <id>",
	Aliases: []string{"rm"},
	Short:   "Remove an item from the wishlist",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWishlistEdit(cmd, args, false)
	},
}

var wishlistListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the wishlist",
	Long: `List the wishlist. Titles come from cached details; --fetch resolves
every entry against the catalog API first.`,
	Args: cobra.NoArgs,
	RunE: runWishlistList,
}

var wishlistExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the wishlist as YAML or JSON",
	Args:  cobra.NoArgs,
	RunE:  runWishlistExport,
}

func init() {
	RootCmd.AddCommand(wishlistCmd)
	wishlistCmd.AddCommand(wishlistAddCmd, wishlistRemoveCmd, wishlistListCmd, wishlistExportCmd)

	wishlistListCmd.Flags().BoolVarP(&flagWishlistFetch, "fetch", "f", false, "Fetch missing details from the catalog API")
	wishlistExportCmd.Flags().StringVarP(&flagExportFormat, "format", "F", "yaml", "Export format (yaml or json)")
	wishlistExportCmd.Flags().StringVarP(&flagExportOutput, "output", "o", "", "Write to file instead of stdout")
}

func runWishlistEdit(cmd *cobra.Command, args []string, add bool) error {
	mediaType, id, err := parseTarget(args[0], args[1])
	if err != nil {
		return err
	}

	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	if add {
		if err := a.wishlist.Add(mediaType, id); err != nil {
			return err
		}
		printOK(out, "Added %s %d to wishlist", mediaType, id)
		return nil
	}
	if err := a.wishlist.Remove(mediaType, id); err != nil {
		return err
	}
	printOK(out, "Removed %s %d from wishlist", mediaType, id)
	return nil
}

func runWishlistList(cmd *cobra.Command, args []string) error {
	a, err := newApp(flagWishlistFetch)
	if err != nil {
		return err
	}
	defer a.Close()

	if flagWishlistFetch {
		// Resolving details caches them, so the document below picks up titles
		if _, err := a.wishlist.Movies(cmd.Context()); err != nil {
			logger.Warn("some wishlisted movies could not be resolved", "error", err)
		}
		if _, err := a.wishlist.TvShows(cmd.Context()); err != nil {
			logger.Warn("some wishlisted shows could not be resolved", "error", err)
		}
	}

	doc, err := a.wishlist.Document()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printEntries(out, "Movies", doc.Movies)
	fmt.Fprintln(out)
	printEntries(out, "TV Shows", doc.TvShows)
	return nil
}

func printEntries(w io.Writer, heading string, entries []wishlist.ExportEntry) {
	printHeader(w, "%s (%d)", heading, len(entries))
	if len(entries) == 0 {
		fmt.Fprintln(w, styleDim.Render("  nothing saved"))
		return
	}
	for _, e := range entries {
		title := e.Title
		if title == "" {
			title = styleDim.Render("(details not cached)")
		}
		fmt.Fprintf(w, "%s %s  %s\n",
			styleID.Render(fmt.Sprintf("%8d", e.ID)),
			title,
			styleDim.Render("added "+e.AddedAt.Local().Format("2006-01-02")),
		)
	}
}

func runWishlistExport(cmd *cobra.Command, args []string) error {
	format, err := wishlist.ParseFormat(flagExportFormat)
	if err != nil {
		return err
	}

	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.Close()

	if flagExportOutput == "" {
		return a.wishlist.Export(cmd.OutOrStdout(), format)
	}

	f, err := os.Create(flagExportOutput)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	if err := a.wishlist.Export(f, format); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	printOK(cmd.ErrOrStderr(), "Exported wishlist to %s", flagExportOutput)
	return nil
}
