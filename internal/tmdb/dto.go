package tmdb

// PageResponse is the envelope of every paged list endpoint
type PageResponse struct {
	Page         int       `json:"page"`
	Results      []ItemDTO `json:"results"`
	TotalPages   int       `json:"total_pages"`
	TotalResults int       `json:"total_results"`
}

// ItemDTO is a list entry. Movies carry title/release_date, shows carry
// name/first_air_date; trending and multi-search add media_type.
type ItemDTO struct {
	ID               int     `json:"id"`
	MediaType        string  `json:"media_type,omitempty"`
	Title            string  `json:"title,omitempty"`
	Name             string  `json:"name,omitempty"`
	OriginalTitle    string  `json:"original_title,omitempty"`
	OriginalName     string  `json:"original_name,omitempty"`
	Overview         string  `json:"overview"`
	PosterPath       *string `json:"poster_path"`
	BackdropPath     *string `json:"backdrop_path"`
	ReleaseDate      string  `json:"release_date,omitempty"`
	FirstAirDate     string  `json:"first_air_date,omitempty"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int     `json:"vote_count"`
	Popularity       float64 `json:"popularity"`
	GenreIDs         []int   `json:"genre_ids"`
	OriginalLanguage string  `json:"original_language"`
	Adult            bool    `json:"adult"`
}

// GenreDTO is a genre reference
type GenreDTO struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// MovieDetailsDTO is the response from GET /movie/{id}
type MovieDetailsDTO struct {
	ID            int        `json:"id"`
	IMDbID        *string    `json:"imdb_id"`
	Title         string     `json:"title"`
	OriginalTitle string     `json:"original_title"`
	Tagline       string     `json:"tagline"`
	Overview      string     `json:"overview"`
	ReleaseDate   string     `json:"release_date"`
	Runtime       *int       `json:"runtime"`
	Genres        []GenreDTO `json:"genres"`
	Status        string     `json:"status"`
	Homepage      *string    `json:"homepage"`
	Budget        int64      `json:"budget"`
	Revenue       int64      `json:"revenue"`
	VoteAverage   float64    `json:"vote_average"`
	VoteCount     int        `json:"vote_count"`
	PosterPath    *string    `json:"poster_path"`
	BackdropPath  *string    `json:"backdrop_path"`
}

// NetworkDTO is a broadcaster of a TV show
type NetworkDTO struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// TvShowDetailsDTO is the response from GET /tv/{id}
type TvShowDetailsDTO struct {
	ID               int          `json:"id"`
	Name             string       `json:"name"`
	OriginalName     string       `json:"original_name"`
	Tagline          string       `json:"tagline"`
	Overview         string       `json:"overview"`
	FirstAirDate     string       `json:"first_air_date"`
	LastAirDate      string       `json:"last_air_date"`
	NumberOfSeasons  int          `json:"number_of_seasons"`
	NumberOfEpisodes int          `json:"number_of_episodes"`
	EpisodeRunTime   []int        `json:"episode_run_time"`
	Genres           []GenreDTO   `json:"genres"`
	Status           string       `json:"status"`
	Homepage         *string      `json:"homepage"`
	Networks         []NetworkDTO `json:"networks"`
	VoteAverage      float64      `json:"vote_average"`
	VoteCount        int          `json:"vote_count"`
	PosterPath       *string      `json:"poster_path"`
	BackdropPath     *string      `json:"backdrop_path"`
}

// errorResponse is the body returned with non-2xx statuses
type errorResponse struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
	Success       bool   `json:"success"`
}
