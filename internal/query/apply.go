package query

import (
	"slices"
	"strings"
)

// Record is an item the in-memory engine can search and sort.
type Record interface {
	// SearchText returns the attributes a search phrase is matched against.
	SearchText() []string
	// SortKey returns the comparable value of a sortable column.
	SortKey(c Column) string
}

// Matches reports whether any search attribute of r contains phrase,
// ignoring case. An empty phrase matches everything.
func Matches(r Record, phrase string) bool {
	if phrase == "" {
		return true
	}
	needle := strings.ToLower(phrase)
	for _, text := range r.SearchText() {
		if strings.Contains(strings.ToLower(text), needle) {
			return true
		}
	}
	return false
}

// Apply filters, sorts and paginates items. The input slice is not modified
// and its order is the "original order" used to break sort ties.
func Apply[T Record](items []T, d Descriptor, maxPageSize int) (PagedResult[T], error) {
	if err := d.Validate(maxPageSize); err != nil {
		return PagedResult[T]{}, err
	}

	view := make([]T, 0, len(items))
	for _, it := range items {
		if Matches(it, d.SearchPhrase) {
			view = append(view, it)
		}
	}

	if d.SortBy != ColumnNone {
		col, desc := d.SortBy, d.SortDirection == Descending
		slices.SortStableFunc(view, func(a, b T) int {
			c := strings.Compare(a.SortKey(col), b.SortKey(col))
			if desc {
				return -c
			}
			return c
		})
	}

	total := len(view)
	start := min(d.Offset(), total)
	end := min(start+d.PageSize, total)

	page := make([]T, end-start)
	copy(page, view[start:end])
	return NewPagedResult(page, total, d.PageSize, d.PageNumber), nil
}
