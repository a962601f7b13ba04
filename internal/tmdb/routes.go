package tmdb

import (
	"net/url"

	"github.com/mmcdole/cinemax/internal/domain"
)

// route is the list endpoint backing a category
type route struct {
	path string

	// static query parameters
	params map[string]string

	// regional lists accept the region parameter
	regional bool
}

var routes = map[domain.Category]route{
	domain.CategoryDiscoverMovies:   {path: "/discover/movie", params: map[string]string{"sort_by": "popularity.desc", "include_adult": "false"}},
	domain.CategoryDiscoverTV:       {path: "/discover/tv", params: map[string]string{"sort_by": "popularity.desc"}},
	domain.CategoryNowPlayingMovies: {path: "/movie/now_playing", regional: true},
	domain.CategoryUpcomingMovies:   {path: "/movie/upcoming", regional: true},
	domain.CategoryPopularMovies:    {path: "/movie/popular", regional: true},
	domain.CategoryTopRatedMovies:   {path: "/movie/top_rated", regional: true},
	domain.CategoryTrendingMovies:   {path: "/trending/movie/week"},
	domain.CategoryPopularTV:        {path: "/tv/popular"},
	domain.CategoryTopRatedTV:       {path: "/tv/top_rated"},
	domain.CategoryOnTheAirTV:       {path: "/tv/on_the_air"},
	domain.CategoryTrendingTV:       {path: "/trending/tv/week"},
}

func routeFor(category domain.Category) (route, error) {
	r, ok := routes[category]
	if !ok {
		return route{}, domain.ErrUnknownCategory
	}
	return r, nil
}

func (r route) query(region string) url.Values {
	q := url.Values{}
	for k, v := range r.params {
		q.Set(k, v)
	}
	if r.regional && region != "" {
		q.Set("region", region)
	}
	return q
}
