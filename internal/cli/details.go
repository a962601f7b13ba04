package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mmcdole/cinemax/internal/domain"
)

var detailsCmd = &cobra.Command{
	Use:   "details movie|tv <id>",
	Short: "Show details of a movie or TV show",
	Long: `Show details of a movie or TV show. Cached details are printed when
the catalog API cannot be reached.`,
	Args: cobra.ExactArgs(2),
	RunE: runDetails,
}

func init() {
	RootCmd.AddCommand(detailsCmd)
}

func parseTarget(kind, rawID string) (domain.MediaType, int, error) {
	mediaType, err := domain.ParseMediaType(kind)
	if err != nil {
		return "", 0, err
	}
	id, err := strconv.Atoi(rawID)
	if err != nil || id <= 0 {
		return "", 0, fmt.Errorf("invalid id %q", rawID)
	}
	return mediaType, id, nil
}

func runDetails(cmd *cobra.Command, args []string) error {
	mediaType, id, err := parseTarget(args[0], args[1])
	if err != nil {
		return err
	}

	a, err := newApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	wishlisted := a.wishlist.IsWishlisted(mediaType, id)

	switch mediaType {
	case domain.MediaTypeTV:
		show, err := a.details.TvShowDetails(cmd.Context(), id, nil)
		if show == nil {
			return err
		}
		printTvShow(out, show, wishlisted)
		warnStale(cmd, err)
	default:
		movie, err := a.details.MovieDetails(cmd.Context(), id, nil)
		if movie == nil {
			return err
		}
		printMovie(out, movie, wishlisted)
		warnStale(cmd, err)
	}
	return nil
}

func warnStale(cmd *cobra.Command, err error) {
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), styleMarker.Render("✗ ")+err.Error()+" (showing cached details)")
	}
}

func printMovie(w io.Writer, m *domain.MovieDetails, wishlisted bool) {
	title := m.Title
	if wishlisted {
		title += " " + styleMarker.Render("♥")
	}
	printHeader(w, "%s", title)
	if m.Tagline != "" {
		fmt.Fprintln(w, styleDim.Render(m.Tagline))
	}

	var meta []string
	if year := m.Year(); year > 0 {
		meta = append(meta, strconv.Itoa(year))
	}
	if rt := m.FormattedRuntime(); rt != "" {
		meta = append(meta, rt)
	}
	if m.Status != "" {
		meta = append(meta, m.Status)
	}
	meta = append(meta, "★ "+m.FormattedRating())
	fmt.Fprintln(w, strings.Join(meta, " · "))

	printGenres(w, m.Genres)
	if m.Overview != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, m.Overview)
	}
	if m.Homepage != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, styleID.Render(m.Homepage))
	}
}

func printTvShow(w io.Writer, t *domain.TvShowDetails, wishlisted bool) {
	title := t.Name
	if wishlisted {
		title += " " + styleMarker.Render("♥")
	}
	printHeader(w, "%s", title)
	if t.Tagline != "" {
		fmt.Fprintln(w, styleDim.Render(t.Tagline))
	}

	var meta []string
	if year := t.Year(); year > 0 {
		meta = append(meta, strconv.Itoa(year))
	}
	meta = append(meta, t.SeasonSummary())
	if t.Status != "" {
		meta = append(meta, t.Status)
	}
	meta = append(meta, "★ "+t.FormattedRating())
	fmt.Fprintln(w, strings.Join(meta, " · "))

	printGenres(w, t.Genres)
	if len(t.Networks) > 0 {
		fmt.Fprintln(w, styleDim.Render(strings.Join(t.Networks, ", ")))
	}
	if t.Overview != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, t.Overview)
	}
}

func printGenres(w io.Writer, genres []domain.Genre) {
	if len(genres) == 0 {
		return
	}
	names := make([]string, len(genres))
	for i, g := range genres {
		names[i] = g.Name
	}
	fmt.Fprintln(w, styleDim.Render(strings.Join(names, ", ")))
}
