package domain

import (
	"fmt"
	"sort"
)

// Category is a named listing with its own independent page sequence
type Category string

const (
	CategoryDiscoverMovies   Category = "discover_movies"
	CategoryDiscoverTV       Category = "discover_tv"
	CategoryNowPlayingMovies Category = "now_playing_movies"
	CategoryUpcomingMovies   Category = "upcoming_movies"
	CategoryPopularMovies    Category = "popular_movies"
	CategoryTopRatedMovies   Category = "top_rated_movies"
	CategoryTrendingMovies   Category = "trending_movies"
	CategoryPopularTV        Category = "popular_tv"
	CategoryTopRatedTV       Category = "top_rated_tv"
	CategoryOnTheAirTV       Category = "on_the_air_tv"
	CategoryTrendingTV       Category = "trending_tv"
)

// CategoryInfo describes a known category
type CategoryInfo struct {
	Category  Category
	Title     string
	MediaType MediaType
	Order     int
}

var categories = map[Category]CategoryInfo{
	CategoryDiscoverMovies:   {CategoryDiscoverMovies, "Discover Movies", MediaTypeMovie, 0},
	CategoryDiscoverTV:       {CategoryDiscoverTV, "Discover TV Shows", MediaTypeTV, 1},
	CategoryNowPlayingMovies: {CategoryNowPlayingMovies, "Now Playing", MediaTypeMovie, 2},
	CategoryUpcomingMovies:   {CategoryUpcomingMovies, "Upcoming", MediaTypeMovie, 3},
	CategoryPopularMovies:    {CategoryPopularMovies, "Popular Movies", MediaTypeMovie, 4},
	CategoryTopRatedMovies:   {CategoryTopRatedMovies, "Top Rated Movies", MediaTypeMovie, 5},
	CategoryTrendingMovies:   {CategoryTrendingMovies, "Trending Movies", MediaTypeMovie, 6},
	CategoryPopularTV:        {CategoryPopularTV, "Popular TV Shows", MediaTypeTV, 7},
	CategoryTopRatedTV:       {CategoryTopRatedTV, "Top Rated TV Shows", MediaTypeTV, 8},
	CategoryOnTheAirTV:       {CategoryOnTheAirTV, "On The Air", MediaTypeTV, 9},
	CategoryTrendingTV:       {CategoryTrendingTV, "Trending TV Shows", MediaTypeTV, 10},
}

// Info returns metadata for a known category
func (c Category) Info() (CategoryInfo, bool) {
	info, ok := categories[c]
	return info, ok
}

// Title returns the display title, falling back to the raw tag
func (c Category) Title() string {
	if info, ok := categories[c]; ok {
		return info.Title
	}
	return string(c)
}

// MediaType returns the media type listed by the category
func (c Category) MediaType() MediaType {
	return categories[c].MediaType
}

// ParseCategory validates a category tag
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if _, ok := categories[c]; !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownCategory, s)
	}
	return c, nil
}

// Categories returns all known categories in display order
func Categories() []CategoryInfo {
	list := make([]CategoryInfo, 0, len(categories))
	for _, info := range categories {
		list = append(list, info)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Order < list[j].Order })
	return list
}
