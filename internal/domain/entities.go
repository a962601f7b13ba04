package domain

import (
	"fmt"
	"time"
)

// MediaType distinguishes catalog content types
type MediaType string

const (
	MediaTypeMovie MediaType = "movie"
	MediaTypeTV    MediaType = "tv"
)

// String returns a display label for the media type
func (t MediaType) String() string {
	switch t {
	case MediaTypeMovie:
		return "Movie"
	case MediaTypeTV:
		return "TV Show"
	default:
		return string(t)
	}
}

// ParseMediaType converts user input ("movie", "tv", "show") to a MediaType
func ParseMediaType(s string) (MediaType, error) {
	switch s {
	case "movie", "movies", "film":
		return MediaTypeMovie, nil
	case "tv", "show", "shows", "series":
		return MediaTypeTV, nil
	default:
		return "", fmt.Errorf("unknown media type %q (want movie or tv)", s)
	}
}

// CatalogItem is one cached row of a category listing.
// The same ID may appear in several categories; each category keeps its own copy.
type CatalogItem struct {
	ID               int       `json:"id"`
	Category         Category  `json:"category"`
	MediaType        MediaType `json:"media_type"`
	Title            string    `json:"title"`
	OriginalTitle    string    `json:"original_title,omitempty"`
	Overview         string    `json:"overview,omitempty"`
	PosterPath       string    `json:"poster_path,omitempty"`
	BackdropPath     string    `json:"backdrop_path,omitempty"`
	ReleaseDate      string    `json:"release_date,omitempty"` // YYYY-MM-DD, first air date for TV
	VoteAverage      float64   `json:"vote_average"`
	VoteCount        int       `json:"vote_count"`
	Popularity       float64   `json:"popularity"`
	GenreIDs         []int     `json:"genre_ids,omitempty"`
	OriginalLanguage string    `json:"original_language,omitempty"`
	Adult            bool      `json:"adult,omitempty"`

	// Paging position: page the item was fetched from and its index inside that page
	Page     int `json:"page"`
	Position int `json:"position"`
}

// EntityID returns the catalog identifier (used as paging anchor)
func (c CatalogItem) EntityID() int { return c.ID }

// Year returns the release year parsed from ReleaseDate (0 if unknown)
func (c CatalogItem) Year() int {
	return parseYear(c.ReleaseDate)
}

// FormattedRating returns the vote average as "7.8" or "-" when unrated
func (c CatalogItem) FormattedRating() string {
	return formatRating(c.VoteAverage, c.VoteCount)
}

// Description returns secondary display info, e.g. "2024 · ★ 7.8"
func (c CatalogItem) Description() string {
	year := c.Year()
	if year == 0 {
		return "★ " + c.FormattedRating()
	}
	return fmt.Sprintf("%d · ★ %s", year, c.FormattedRating())
}

// RemoteKey records which pages border an item inside its category.
// PrevPage is nil exactly for the first page, NextPage exactly for the last.
type RemoteKey struct {
	ID       int      `json:"id"`
	Category Category `json:"category"`
	PrevPage *int     `json:"prev_page"`
	NextPage *int     `json:"next_page"`
}

// Genre is a named genre attached to details
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// MovieDetails is the full record shown on the details screen for a movie
type MovieDetails struct {
	ID            int       `json:"id"`
	Title         string    `json:"title"`
	OriginalTitle string    `json:"original_title,omitempty"`
	Tagline       string    `json:"tagline,omitempty"`
	Overview      string    `json:"overview,omitempty"`
	ReleaseDate   string    `json:"release_date,omitempty"`
	Runtime       int       `json:"runtime"` // minutes
	Genres        []Genre   `json:"genres,omitempty"`
	Status        string    `json:"status,omitempty"`
	Homepage      string    `json:"homepage,omitempty"`
	IMDbID        string    `json:"imdb_id,omitempty"`
	Budget        int64     `json:"budget,omitempty"`
	Revenue       int64     `json:"revenue,omitempty"`
	VoteAverage   float64   `json:"vote_average"`
	VoteCount     int       `json:"vote_count"`
	PosterPath    string    `json:"poster_path,omitempty"`
	BackdropPath  string    `json:"backdrop_path,omitempty"`
	FetchedAt     time.Time `json:"fetched_at"`

	// IsWishlisted is derived from the wishlist at read time and never persisted
	IsWishlisted bool `json:"-"`
}

// Year returns the release year (0 if unknown)
func (m MovieDetails) Year() int { return parseYear(m.ReleaseDate) }

// FormattedRuntime returns the runtime as "2h 15m"
func (m MovieDetails) FormattedRuntime() string {
	if m.Runtime <= 0 {
		return ""
	}
	h := m.Runtime / 60
	mins := m.Runtime % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, mins)
	}
	return fmt.Sprintf("%dm", mins)
}

// FormattedRating returns the vote average as "7.8" or "-" when unrated
func (m MovieDetails) FormattedRating() string {
	return formatRating(m.VoteAverage, m.VoteCount)
}

// TvShowDetails is the full record shown on the details screen for a TV show
type TvShowDetails struct {
	ID               int       `json:"id"`
	Name             string    `json:"name"`
	OriginalName     string    `json:"original_name,omitempty"`
	Tagline          string    `json:"tagline,omitempty"`
	Overview         string    `json:"overview,omitempty"`
	FirstAirDate     string    `json:"first_air_date,omitempty"`
	LastAirDate      string    `json:"last_air_date,omitempty"`
	NumberOfSeasons  int       `json:"number_of_seasons"`
	NumberOfEpisodes int       `json:"number_of_episodes"`
	EpisodeRuntime   int       `json:"episode_runtime,omitempty"`
	Genres           []Genre   `json:"genres,omitempty"`
	Status           string    `json:"status,omitempty"`
	Homepage         string    `json:"homepage,omitempty"`
	Networks         []string  `json:"networks,omitempty"`
	VoteAverage      float64   `json:"vote_average"`
	VoteCount        int       `json:"vote_count"`
	PosterPath       string    `json:"poster_path,omitempty"`
	BackdropPath     string    `json:"backdrop_path,omitempty"`
	FetchedAt        time.Time `json:"fetched_at"`

	IsWishlisted bool `json:"-"`
}

// Year returns the first air year (0 if unknown)
func (t TvShowDetails) Year() int { return parseYear(t.FirstAirDate) }

// FormattedRating returns the vote average as "7.8" or "-" when unrated
func (t TvShowDetails) FormattedRating() string {
	return formatRating(t.VoteAverage, t.VoteCount)
}

// SeasonSummary returns "3 Seasons · 24 Episodes"
func (t TvShowDetails) SeasonSummary() string {
	seasons := "1 Season"
	if t.NumberOfSeasons != 1 {
		seasons = fmt.Sprintf("%d Seasons", t.NumberOfSeasons)
	}
	if t.NumberOfEpisodes == 0 {
		return seasons
	}
	return fmt.Sprintf("%s · %d Episodes", seasons, t.NumberOfEpisodes)
}

// WishlistEntry marks a movie or show the user saved
type WishlistEntry struct {
	ID        int       `json:"id"`
	MediaType MediaType `json:"media_type"`
	AddedAt   time.Time `json:"added_at"`
}

// SearchResult is a single hit returned by the remote search endpoint
type SearchResult struct {
	ID          int       `json:"id"`
	MediaType   MediaType `json:"media_type"`
	Title       string    `json:"title"`
	Overview    string    `json:"overview,omitempty"`
	ReleaseDate string    `json:"release_date,omitempty"`
	VoteAverage float64   `json:"vote_average"`
	PosterPath  string    `json:"poster_path,omitempty"`
}

// Year returns the release year (0 if unknown)
func (r SearchResult) Year() int { return parseYear(r.ReleaseDate) }

func parseYear(date string) int {
	if len(date) < 4 {
		return 0
	}
	year := 0
	for _, ch := range date[:4] {
		if ch < '0' || ch > '9' {
			return 0
		}
		year = year*10 + int(ch-'0')
	}
	return year
}

func formatRating(avg float64, votes int) string {
	if votes == 0 && avg == 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f", avg)
}
