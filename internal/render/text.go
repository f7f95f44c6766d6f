// Package render draws the recipe list and tag checklist as plain text
package render

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"text/tabwriter"

	"github.com/pageza/gomp-client/internal/liststate"
	"github.com/pageza/gomp-client/internal/types"
)

// Text writes list state results to an io.Writer
type Text struct {
	mu  sync.Mutex
	out io.Writer
}

// NewText creates a renderer writing to out
func NewText(out io.Writer) *Text {
	return &Text{out: out}
}

func (t *Text) RenderRecipes(view liststate.RecipeView) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := view.State
	fmt.Fprintf(t.out, "Recipes sorted by %s (%s)", s.SortBy, s.SortDir)
	if s.Query != "" {
		fmt.Fprintf(t.out, " matching %q", s.Query)
	}
	if len(s.Tags) > 0 {
		fmt.Fprintf(t.out, " tagged %s", strings.Join(s.Tags, ", "))
	}
	fmt.Fprintln(t.out)

	if len(view.Recipes) == 0 {
		fmt.Fprintln(t.out, "No recipes found.")
	} else if s.View == liststate.ViewCompact {
		t.compact(view.Columns)
	} else {
		t.full(view)
	}

	fmt.Fprintf(t.out, "Page %d of %d (%d recipes)\n", s.Page, view.LastPage, view.Total)
	fmt.Fprintf(t.out, "See more: %s\n", view.SeeMoreLink)
}

func (t *Text) full(view liststate.RecipeView) {
	w := tabwriter.NewWriter(t.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tRATING\tTAGS\tIMAGE")
	for _, r := range view.Recipes {
		rating := "-"
		if r.AverageRating > 0 {
			rating = fmt.Sprintf("%.1f", r.AverageRating)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", r.ID, r.Name, rating, strings.Join(r.Tags, ","), r.ThumbnailURL)
	}
	w.Flush()
}

// compact lays the column buckets out side by side, top to bottom
func (t *Text) compact(columns [][]types.RecipeSummary) {
	rows := 0
	for _, col := range columns {
		if len(col) > rows {
			rows = len(col)
		}
	}
	w := tabwriter.NewWriter(t.out, 0, 4, 3, ' ', 0)
	for i := 0; i < rows; i++ {
		cells := make([]string, len(columns))
		for c, col := range columns {
			if i < len(col) {
				cells[c] = fmt.Sprintf("%s (#%d)", col[i].Name, col[i].ID)
			}
		}
		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}
	w.Flush()
}

func (t *Text) RenderTags(options []liststate.TagOption) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(options) == 0 {
		fmt.Fprintln(t.out, "No tags available.")
		return
	}
	for _, opt := range options {
		mark := " "
		if opt.Checked {
			mark = "x"
		}
		fmt.Fprintf(t.out, "[%s] %s\n", mark, opt.Name)
	}
}
