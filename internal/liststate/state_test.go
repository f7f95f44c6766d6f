package liststate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/gomp-client/internal/types"
)

func TestDefaultState(t *testing.T) {
	s := DefaultState()
	assert.Equal(t, 1, s.Page)
	assert.Equal(t, "", s.Query)
	assert.Equal(t, []string{}, s.Tags)
	assert.Equal(t, types.SortByName, s.SortBy)
	assert.Equal(t, types.SortAsc, s.SortDir)
	assert.Equal(t, ViewFull, s.View)
}

func TestWithSort(t *testing.T) {
	t.Run("same field toggles twice", func(t *testing.T) {
		s := DefaultState()

		s, err := s.WithSort(types.SortByName, types.SortAsc)
		require.NoError(t, err)
		assert.Equal(t, types.SortDesc, s.SortDir)
		assert.Equal(t, types.SortByName, s.SortBy)

		s, err = s.WithSort(types.SortByName, types.SortDesc)
		require.NoError(t, err)
		assert.Equal(t, types.SortAsc, s.SortDir)
		assert.Equal(t, types.SortByName, s.SortBy)
	})

	t.Run("new field adopts supplied direction", func(t *testing.T) {
		for _, prev := range []types.SortDir{types.SortAsc, types.SortDesc} {
			for _, want := range []types.SortDir{types.SortAsc, types.SortDesc} {
				s := DefaultState()
				s.SortDir = prev

				s, err := s.WithSort(types.SortByRating, want)
				require.NoError(t, err)
				assert.Equal(t, types.SortByRating, s.SortBy)
				assert.Equal(t, want, s.SortDir)
			}
		}
	})

	t.Run("unknown field", func(t *testing.T) {
		s := DefaultState()
		got, err := s.WithSort("calories", types.SortAsc)
		assert.ErrorIs(t, err, ErrInvalidSort)
		assert.Equal(t, s, got)
	})

	t.Run("bad direction for new field", func(t *testing.T) {
		_, err := DefaultState().WithSort(types.SortByRandom, "sideways")
		assert.ErrorIs(t, err, ErrInvalidDir)
	})
}

func TestWithTagsReplacesSelection(t *testing.T) {
	s := DefaultState()
	s.Page = 4
	s.Tags = []string{"old"}

	next := s.WithTags([]string{"beef", "steak", "beef", " "})
	assert.Equal(t, []string{"beef", "steak"}, next.Tags)
	assert.Equal(t, 1, next.Page)
	assert.Equal(t, []string{"old"}, s.Tags)
}

func TestWithView(t *testing.T) {
	s, err := DefaultState().WithView(ViewCompact)
	require.NoError(t, err)
	assert.Equal(t, ViewCompact, s.View)

	_, err = DefaultState().WithView("grid")
	assert.ErrorIs(t, err, ErrInvalidView)
}

func TestWithPage(t *testing.T) {
	s := DefaultState()
	assert.Equal(t, 1, s.WithPage(0, 0).Page)
	assert.Equal(t, 1, s.WithPage(-3, 5).Page)
	assert.Equal(t, 7, s.WithPage(7, 0).Page)
	assert.Equal(t, 5, s.WithPage(7, 5).Page)
}

func TestFilter(t *testing.T) {
	s := DefaultState()
	s.Query = "stew"
	s.Tags = []string{"beef"}
	s.SortBy = types.SortByRandom

	f := s.Filter(6)
	assert.Equal(t, types.SearchFilter{
		Query:    "stew",
		Tags:     []string{"beef"},
		Sort:     types.SortByRandom,
		Dir:      types.SortAsc,
		Page:     1,
		PageSize: 6,
	}, f)
}

func TestPartition(t *testing.T) {
	sizes := func(buckets [][]int) []int {
		out := make([]int, len(buckets))
		for i, b := range buckets {
			out[i] = len(b)
		}
		return out
	}
	seq := func(n int) []int {
		out := make([]int, n)
		for i := range out {
			out[i] = i
		}
		return out
	}

	buckets := Partition(seq(10), 4)
	assert.Equal(t, []int{3, 3, 3, 1}, sizes(buckets))
	assert.Equal(t, [][]int{{0, 1, 2}, {3, 4, 5}, {6, 7, 8}, {9}}, buckets)

	assert.Equal(t, []int{3, 3, 3, 0}, sizes(Partition(seq(9), 4)))
	assert.Equal(t, []int{2, 2, 0}, sizes(Partition(seq(4), 3)))
	assert.Equal(t, []int{0, 0, 0}, sizes(Partition(seq(0), 3)))
	assert.Equal(t, []int{5}, sizes(Partition(seq(5), 0)))
}

func TestPartitionBucketsDoNotAlias(t *testing.T) {
	items := []int{1, 2, 3, 4}
	buckets := Partition(items, 2)
	buckets[0] = append(buckets[0], 99)
	assert.Equal(t, []int{1, 2, 3, 4}, items)
}

func TestLastPage(t *testing.T) {
	assert.Equal(t, 1, LastPage(0, 12))
	assert.Equal(t, 1, LastPage(12, 12))
	assert.Equal(t, 2, LastPage(13, 12))
	assert.Equal(t, 1, LastPage(5, 0))
}
