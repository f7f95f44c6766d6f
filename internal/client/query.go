package client

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/pageza/gomp-client/internal/types"
)

// RecipeQuery encodes a search filter as q, tags, sort, dir, page and count,
// in that order. Each tag becomes its own tags= parameter; an empty tag list
// is sent as a single empty tags= so the server clears any tag filter.
func RecipeQuery(f types.SearchFilter) string {
	var b strings.Builder
	add := func(key, value string) {
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(key)
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(value))
	}

	add("q", f.Query)
	if len(f.Tags) == 0 {
		add("tags", "")
	}
	for _, tag := range f.Tags {
		add("tags", tag)
	}
	add("sort", string(f.Sort))
	add("dir", string(f.Dir))
	add("page", strconv.Itoa(f.Page))
	add("count", strconv.Itoa(f.PageSize))
	return b.String()
}

// SeeMoreLink is the relative link to the full recipe search page for f
func SeeMoreLink(f types.SearchFilter) string {
	return "/recipes?" + RecipeQuery(f)
}
