package wishlist

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mmcdole/cinemax/internal/domain"
)

// Format is a wishlist export encoding
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ParseFormat accepts "yaml", "yml" or "json"
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "yaml", "yml", "":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported export format %q (want yaml or json)", s)
	}
}

// ExportEntry is one saved item in an export document
type ExportEntry struct {
	ID      int       `yaml:"id" json:"id"`
	Title   string    `yaml:"title,omitempty" json:"title,omitempty"`
	Year    int       `yaml:"year,omitempty" json:"year,omitempty"`
	AddedAt time.Time `yaml:"added_at" json:"added_at"`
}

// ExportDocument is the full wishlist as written by Export
type ExportDocument struct {
	ExportedAt time.Time     `yaml:"exported_at" json:"exported_at"`
	Movies     []ExportEntry `yaml:"movies" json:"movies"`
	TvShows    []ExportEntry `yaml:"tv_shows" json:"tv_shows"`
}

// Export writes the wishlist to w. Titles come from cached details only, so
// exporting works offline; entries never opened keep just their id.
func (s *Service) Export(w io.Writer, format Format) error {
	doc, err := s.Document()
	if err != nil {
		return err
	}

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}

// Document builds the export document
func (s *Service) Document() (*ExportDocument, error) {
	movies, err := s.store.Wishlist(domain.MediaTypeMovie)
	if err != nil {
		return nil, err
	}
	shows, err := s.store.Wishlist(domain.MediaTypeTV)
	if err != nil {
		return nil, err
	}

	doc := &ExportDocument{
		ExportedAt: s.now().UTC(),
		Movies:     make([]ExportEntry, 0, len(movies)),
		TvShows:    make([]ExportEntry, 0, len(shows)),
	}
	for _, e := range movies {
		entry := ExportEntry{ID: e.ID, AddedAt: e.AddedAt.UTC()}
		if d, ok := s.store.MovieDetails(e.ID); ok {
			entry.Title, entry.Year = d.Title, d.Year()
		}
		doc.Movies = append(doc.Movies, entry)
	}
	for _, e := range shows {
		entry := ExportEntry{ID: e.ID, AddedAt: e.AddedAt.UTC()}
		if d, ok := s.store.TvShowDetails(e.ID); ok {
			entry.Title, entry.Year = d.Name, d.Year()
		}
		doc.TvShows = append(doc.TvShows, entry)
	}
	return doc, nil
}
