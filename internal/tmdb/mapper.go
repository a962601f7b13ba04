package tmdb

import (
	"errors"
	"time"

	"github.com/mmcdole/cinemax/internal/domain"
)

var errMissingTitle = errors.New("item has neither title nor name")

// MapItem converts a list entry into a cached row of the given category.
// Movies and shows share the DTO; the category decides which fields apply
// unless the entry carries its own media_type.
func MapItem(dto ItemDTO, category domain.Category, page, position int) (domain.CatalogItem, error) {
	if dto.ID <= 0 {
		return domain.CatalogItem{}, errors.New("item has no id")
	}

	mediaType := category.MediaType()
	switch dto.MediaType {
	case string(domain.MediaTypeMovie):
		mediaType = domain.MediaTypeMovie
	case string(domain.MediaTypeTV):
		mediaType = domain.MediaTypeTV
	}

	item := domain.CatalogItem{
		ID:               dto.ID,
		Category:         category,
		MediaType:        mediaType,
		Overview:         dto.Overview,
		PosterPath:       deref(dto.PosterPath),
		BackdropPath:     deref(dto.BackdropPath),
		VoteAverage:      dto.VoteAverage,
		VoteCount:        dto.VoteCount,
		Popularity:       dto.Popularity,
		GenreIDs:         dto.GenreIDs,
		OriginalLanguage: dto.OriginalLanguage,
		Adult:            dto.Adult,
		Page:             page,
		Position:         position,
	}

	if mediaType == domain.MediaTypeTV {
		item.Title = firstNonEmpty(dto.Name, dto.Title)
		item.OriginalTitle = firstNonEmpty(dto.OriginalName, dto.OriginalTitle)
		item.ReleaseDate = firstNonEmpty(dto.FirstAirDate, dto.ReleaseDate)
	} else {
		item.Title = firstNonEmpty(dto.Title, dto.Name)
		item.OriginalTitle = firstNonEmpty(dto.OriginalTitle, dto.OriginalName)
		item.ReleaseDate = firstNonEmpty(dto.ReleaseDate, dto.FirstAirDate)
	}
	if item.Title == "" {
		return domain.CatalogItem{}, errMissingTitle
	}
	return item, nil
}

// MapMovieDetails converts a movie details response
func MapMovieDetails(dto MovieDetailsDTO) *domain.MovieDetails {
	return &domain.MovieDetails{
		ID:            dto.ID,
		Title:         dto.Title,
		OriginalTitle: dto.OriginalTitle,
		Tagline:       dto.Tagline,
		Overview:      dto.Overview,
		ReleaseDate:   dto.ReleaseDate,
		Runtime:       derefInt(dto.Runtime),
		Genres:        mapGenres(dto.Genres),
		Status:        dto.Status,
		Homepage:      deref(dto.Homepage),
		IMDbID:        deref(dto.IMDbID),
		Budget:        dto.Budget,
		Revenue:       dto.Revenue,
		VoteAverage:   dto.VoteAverage,
		VoteCount:     dto.VoteCount,
		PosterPath:    deref(dto.PosterPath),
		BackdropPath:  deref(dto.BackdropPath),
		FetchedAt:     time.Now(),
	}
}

// MapTvShowDetails converts a TV show details response
func MapTvShowDetails(dto TvShowDetailsDTO) *domain.TvShowDetails {
	networks := make([]string, 0, len(dto.Networks))
	for _, n := range dto.Networks {
		networks = append(networks, n.Name)
	}

	var runtime int
	if len(dto.EpisodeRunTime) > 0 {
		runtime = dto.EpisodeRunTime[0]
	}

	return &domain.TvShowDetails{
		ID:               dto.ID,
		Name:             dto.Name,
		OriginalName:     dto.OriginalName,
		Tagline:          dto.Tagline,
		Overview:         dto.Overview,
		FirstAirDate:     dto.FirstAirDate,
		LastAirDate:      dto.LastAirDate,
		NumberOfSeasons:  dto.NumberOfSeasons,
		NumberOfEpisodes: dto.NumberOfEpisodes,
		EpisodeRuntime:   runtime,
		Genres:           mapGenres(dto.Genres),
		Status:           dto.Status,
		Homepage:         deref(dto.Homepage),
		Networks:         networks,
		VoteAverage:      dto.VoteAverage,
		VoteCount:        dto.VoteCount,
		PosterPath:       deref(dto.PosterPath),
		BackdropPath:     deref(dto.BackdropPath),
		FetchedAt:        time.Now(),
	}
}

// MapSearchResult converts a multi-search hit; ok is false for people and untitled entries
func MapSearchResult(dto ItemDTO) (domain.SearchResult, bool) {
	var r domain.SearchResult
	switch dto.MediaType {
	case string(domain.MediaTypeMovie):
		r = domain.SearchResult{MediaType: domain.MediaTypeMovie, Title: dto.Title, ReleaseDate: dto.ReleaseDate}
	case string(domain.MediaTypeTV):
		r = domain.SearchResult{MediaType: domain.MediaTypeTV, Title: dto.Name, ReleaseDate: dto.FirstAirDate}
	default:
		return domain.SearchResult{}, false
	}
	if r.Title == "" {
		return domain.SearchResult{}, false
	}
	r.ID = dto.ID
	r.Overview = dto.Overview
	r.VoteAverage = dto.VoteAverage
	r.PosterPath = deref(dto.PosterPath)
	return r, true
}

func mapGenres(dtos []GenreDTO) []domain.Genre {
	if len(dtos) == 0 {
		return nil
	}
	genres := make([]domain.Genre, len(dtos))
	for i, g := range dtos {
		genres[i] = domain.Genre{ID: g.ID, Name: g.Name}
	}
	return genres
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefInt(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
