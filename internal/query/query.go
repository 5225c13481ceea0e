// Package query implements the catalog listing filter: an exact category
// match combined with a case-insensitive substring search over title,
// location and pandal name.
package query

import (
	"strings"

	"github.com/Shivanand-hulikatti/pandal-explorer/internal/model"
)

// Normalize maps the "All" category sentinel to the empty (no filter) value.
func Normalize(f model.ListFilter) model.ListFilter {
	if f.Category == model.CategoryAll {
		f.Category = ""
	}
	return f
}

// Matches reports whether e passes both the category and search filters.
func Matches(e model.Entry, f model.ListFilter) bool {
	f = Normalize(f)
	if f.Category != "" && e.Category != f.Category {
		return false
	}
	if f.Search == "" {
		return true
	}
	needle := strings.ToLower(f.Search)
	return strings.Contains(strings.ToLower(e.Title), needle) ||
		strings.Contains(strings.ToLower(e.Location), needle) ||
		strings.Contains(strings.ToLower(e.Pandal), needle)
}

// Apply returns the entries passing f, in their original order. The result
// is never nil so it always encodes as a JSON array.
func Apply(entries []model.Entry, f model.ListFilter) []model.Entry {
	out := make([]model.Entry, 0, len(entries))
	for _, e := range entries {
		if Matches(e, f) {
			out = append(out, e)
		}
	}
	return out
}
