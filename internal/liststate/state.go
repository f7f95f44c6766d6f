// Package liststate owns the view state of the paginated, filterable,
// sortable recipe list: it persists that state to session storage and
// reloads and re-renders the list whenever it changes.
package liststate

import (
	"errors"
	"fmt"

	"github.com/pageza/gomp-client/internal/types"
)

// ViewMode is the rendering density of the list. It never changes which
// recipes are fetched.
type ViewMode string

const (
	ViewFull    ViewMode = "full"
	ViewCompact ViewMode = "compact"
)

// Session storage keys
const (
	KeyView  = "view"
	KeySort  = "sort"
	KeyDir   = "dir"
	KeyTags  = "tags"
	KeyPage  = "page"
	KeyQuery = "query"
)

// PersistedKeys lists every key the manager writes
var PersistedKeys = []string{KeyView, KeySort, KeyDir, KeyTags, KeyPage, KeyQuery}

var (
	ErrInvalidView = errors.New("invalid view mode")
	ErrInvalidSort = errors.New("invalid sort field")
	ErrInvalidDir  = errors.New("invalid sort direction")
)

// ValidView reports whether v is a known view mode
func ValidView(v string) bool {
	return ViewMode(v) == ViewFull || ViewMode(v) == ViewCompact
}

// State is the list's view state. Transitions return a new State and never
// modify the receiver's tag slice.
type State struct {
	Page    int
	Query   string
	Tags    []string
	SortBy  types.SortField
	SortDir types.SortDir
	View    ViewMode
}

// DefaultState is page 1, no query or tags, sorted by name ascending, full view
func DefaultState() State {
	return State{
		Page:    1,
		Query:   "",
		Tags:    []string{},
		SortBy:  types.SortByName,
		SortDir: types.SortAsc,
		View:    ViewFull,
	}
}

// WithView switches the view mode
func (s State) WithView(v ViewMode) (State, error) {
	if !ValidView(string(v)) {
		return s, fmt.Errorf("%w: %q", ErrInvalidView, v)
	}
	s.View = v
	return s, nil
}

// WithSort flips the direction when field is already the sort field, and
// otherwise adopts field with defaultDir as given. Flipping never touches
// SortBy.
func (s State) WithSort(field types.SortField, defaultDir types.SortDir) (State, error) {
	if !types.ValidSortField(string(field)) {
		return s, fmt.Errorf("%w: %q", ErrInvalidSort, field)
	}
	if field == s.SortBy {
		s.SortDir = s.SortDir.Flip()
		return s, nil
	}
	if !types.ValidSortDir(string(defaultDir)) {
		return s, fmt.Errorf("%w: %q", ErrInvalidDir, defaultDir)
	}
	s.SortBy = field
	s.SortDir = defaultDir
	return s, nil
}

// WithTags replaces the tag selection wholesale and returns to page 1
func (s State) WithTags(tags []string) State {
	s.Tags = types.UniqueTags(tags)
	s.Page = 1
	return s
}

// WithQuery sets the free-text query and returns to page 1
func (s State) WithQuery(q string) State {
	s.Query = q
	s.Page = 1
	return s
}

// WithPage moves to page p, clamped to 1..lastPage. A lastPage below 1
// means the upper bound is unknown.
func (s State) WithPage(p, lastPage int) State {
	if lastPage >= 1 && p > lastPage {
		p = lastPage
	}
	if p < 1 {
		p = 1
	}
	s.Page = p
	return s
}

// HasTag reports whether tag is selected
func (s State) HasTag(tag string) bool {
	for _, t := range s.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Filter is the search filter the state selects
func (s State) Filter(pageSize int) types.SearchFilter {
	return types.SearchFilter{
		Query:    s.Query,
		Tags:     append([]string{}, s.Tags...),
		Sort:     s.SortBy,
		Dir:      s.SortDir,
		Page:     s.Page,
		PageSize: pageSize,
	}.Normalize(pageSize)
}

// Partition splits items into n column buckets of contiguous runs of
// ceil(len/n) items. The last buckets may be shorter or empty. n below 1 is
// treated as 1.
func Partition[T any](items []T, n int) [][]T {
	if n < 1 {
		n = 1
	}
	size := (len(items) + n - 1) / n
	buckets := make([][]T, n)
	for i := range buckets {
		start := i * size
		if start > len(items) {
			start = len(items)
		}
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		buckets[i] = items[start:end:end]
	}
	return buckets
}

// LastPage is the number of pages total results span, at least 1
func LastPage(total int64, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 1
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}
