package store

import (
	"github.com/mmcdole/cinemax/internal/domain"
)

var (
	movieDetailsBucket = nested(bucketDetails, string(domain.MediaTypeMovie))
	tvDetailsBucket    = nested(bucketDetails, string(domain.MediaTypeTV))
)

func (s *Store) MovieDetails(id int) (*domain.MovieDetails, bool) {
	var details domain.MovieDetails
	if !s.getDetails(movieDetailsBucket, id, &details) {
		return nil, false
	}
	return &details, true
}

func (s *Store) SaveMovieDetails(details *domain.MovieDetails) error {
	return s.update(func(tx kvTx) error {
		return putJSON(tx, movieDetailsBucket, idKey(details.ID), details)
	})
}

func (s *Store) TvShowDetails(id int) (*domain.TvShowDetails, bool) {
	var details domain.TvShowDetails
	if !s.getDetails(tvDetailsBucket, id, &details) {
		return nil, false
	}
	return &details, true
}

func (s *Store) SaveTvShowDetails(details *domain.TvShowDetails) error {
	return s.update(func(tx kvTx) error {
		return putJSON(tx, tvDetailsBucket, idKey(details.ID), details)
	})
}

// getDetails treats a corrupt entry as a miss so the caller refetches it
func (s *Store) getDetails(bucket string, id int, dest interface{}) bool {
	var found bool
	err := s.view(func(tx kvTx) error {
		var err error
		found, err = getJSON(tx, bucket, idKey(id), dest)
		return err
	})
	return err == nil && found
}
