package search

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/mmcdole/cinemax/internal/domain"
)

// ErrInvalidFilter indicates a filter expression that does not compile to a boolean
var ErrInvalidFilter = errors.New("invalid filter expression")

// Filter is a compiled boolean expression over catalog items, e.g.
//
//	rating >= 7.5 && year > 2015 && kind == "movie"
type Filter struct {
	expression string
	program    *vm.Program
}

// filterFields documents the environment and gives the compiler its types
var filterFields = map[string]any{
	"id":         0,
	"title":      "",
	"overview":   "",
	"year":       0,
	"rating":     0.0,
	"votes":      0,
	"popularity": 0.0,
	"kind":       "",
	"category":   "",
	"language":   "",
	"adult":      false,
}

// FilterFields returns the names usable in a filter expression
func FilterFields() []string {
	names := make([]string, 0, len(filterFields))
	for name := range filterFields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CompileFilter compiles an expression. An empty expression yields a nil
// filter, which matches everything.
func CompileFilter(expression string) (*Filter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, nil
	}

	program, err := expr.Compile(expression,
		expr.Env(filterFields),
		expr.AsBool(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFilter, err)
	}
	return &Filter{expression: expression, program: program}, nil
}

// String returns the source expression
func (f *Filter) String() string {
	if f == nil {
		return ""
	}
	return f.expression
}

// Match evaluates the filter against an item. Runtime errors count as no match.
func (f *Filter) Match(item domain.CatalogItem) bool {
	if f == nil {
		return true
	}
	result, err := expr.Run(f.program, itemEnv(item))
	if err != nil {
		return false
	}
	return result.(bool)
}

func itemEnv(item domain.CatalogItem) map[string]any {
	return map[string]any{
		"id":         item.ID,
		"title":      item.Title,
		"overview":   item.Overview,
		"year":       item.Year(),
		"rating":     item.VoteAverage,
		"votes":      item.VoteCount,
		"popularity": item.Popularity,
		"kind":       string(item.MediaType),
		"category":   string(item.Category),
		"language":   item.OriginalLanguage,
		"adult":      item.Adult,
	}
}
