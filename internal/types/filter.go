package types

import "strings"

// SortField names a recipe ordering the API understands
type SortField string

const (
	SortByName     SortField = "name"
	SortByRandom   SortField = "random"
	SortByRating   SortField = "rating"
	SortByCreated  SortField = "created"
	SortByModified SortField = "modified"
	SortByID       SortField = "id"
)

// SortDir is an ordering direction
type SortDir string

const (
	SortAsc  SortDir = "asc"
	SortDesc SortDir = "desc"
)

// Flip returns the opposite direction
func (d SortDir) Flip() SortDir {
	if d == SortDesc {
		return SortAsc
	}
	return SortDesc
}

// ValidSortField reports whether s is a known sort field
func ValidSortField(s string) bool {
	switch SortField(s) {
	case SortByName, SortByRandom, SortByRating, SortByCreated, SortByModified, SortByID:
		return true
	}
	return false
}

// ValidSortDir reports whether s is asc or desc
func ValidSortDir(s string) bool {
	return SortDir(s) == SortAsc || SortDir(s) == SortDesc
}

// SearchFilter selects a page of recipes
type SearchFilter struct {
	Query    string
	Tags     []string
	Sort     SortField
	Dir      SortDir
	Page     int
	PageSize int
}

// Normalize clamps Page to at least 1, gives PageSize a positive value and
// drops duplicate and blank tags while keeping first-seen order.
func (f SearchFilter) Normalize(defaultPageSize int) SearchFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize <= 0 {
		f.PageSize = defaultPageSize
	}
	f.Tags = UniqueTags(f.Tags)
	return f
}

// UniqueTags trims tags and removes blanks and duplicates, preserving order
func UniqueTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
