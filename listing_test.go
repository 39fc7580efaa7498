package social_test

import (
	"fmt"
	"net/url"
	"testing"

	social "github.com/goliatone/go-social"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func values(pairs ...string) url.Values {
	v := url.Values{}
	for i := 0; i+1 < len(pairs); i += 2 {
		v.Set(pairs[i], pairs[i+1])
	}
	return v
}

func TestParseListParams(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		params, err := social.ParseListParams(url.Values{})

		require.NoError(t, err)
		assert.Equal(t, social.DefaultPageSize, params.Limit)
		assert.Equal(t, 1, params.Page)
		assert.Empty(t, params.Query)
		assert.Empty(t, params.Ordering)
	})

	t.Run("explicit values", func(t *testing.T) {
		params, err := social.ParseListParams(values("q", "alice", "limit", "25", "page", "3", "ordering", "-created_at"))

		require.NoError(t, err)
		assert.Equal(t, "alice", params.Query)
		assert.Equal(t, 25, params.Limit)
		assert.Equal(t, 3, params.Page)
		assert.Equal(t, "-created_at", params.Ordering)
	})

	t.Run("non-numeric limit", func(t *testing.T) {
		_, err := social.ParseListParams(values("limit", "ten"))

		assert.ErrorIs(t, err, social.ErrInvalidLimit)
		assert.Contains(t, err.Error(), "Invalid limit value")
	})

	t.Run("limit below minimum", func(t *testing.T) {
		_, err := social.ParseListParams(values("limit", "0"))

		assert.ErrorIs(t, err, social.ErrLimitTooSmall)
		assert.Contains(t, err.Error(), "Minimum page size is 1 item(s)")
	})

	t.Run("limit above maximum", func(t *testing.T) {
		_, err := social.ParseListParams(values("limit", "101"))

		assert.ErrorIs(t, err, social.ErrLimitTooLarge)
		assert.Contains(t, err.Error(), "Maximum page size is 100 item(s)")
	})

	t.Run("limit bounds are inclusive", func(t *testing.T) {
		params, err := social.ParseListParams(values("limit", "1"))
		require.NoError(t, err)
		assert.Equal(t, 1, params.Limit)

		params, err = social.ParseListParams(values("limit", "100"))
		require.NoError(t, err)
		assert.Equal(t, 100, params.Limit)
	})

	t.Run("invalid page values", func(t *testing.T) {
		for _, raw := range []string{"abc", "0", "-1"} {
			_, err := social.ParseListParams(values("page", raw))
			assert.ErrorIs(t, err, social.ErrInvalidPage, "page=%s", raw)
			assert.Contains(t, err.Error(), "Invalid page number value")
		}
	})
}

type item struct {
	name  string
	score int
}

func itemConfig() social.ListConfig[item] {
	return social.ListConfig[item]{
		Match: func(it item, q string) bool {
			return social.ContainsFold(it.name, q)
		},
		Orderings: map[string]social.Less[item]{
			"score": func(a, b item) bool { return a.score < b.score },
			"name":  func(a, b item) bool { return a.name < b.name },
		},
		Key: func(it item) string { return it.name },
	}
}

func TestPaginate(t *testing.T) {
	items := make([]item, 0, 25)
	for i := 0; i < 25; i++ {
		items = append(items, item{name: fmt.Sprintf("item-%02d", i), score: i % 5})
	}

	t.Run("pagination math", func(t *testing.T) {
		page, err := social.Paginate(items, social.ListParams{Limit: 10, Page: 1}, itemConfig())

		require.NoError(t, err)
		assert.Equal(t, 25, page.TotalItems)
		assert.Equal(t, 3, page.TotalPages)
		assert.Equal(t, 10, page.PageSize)
		assert.Equal(t, 1, page.PageNumber)
		assert.Len(t, page.Items, 10)
		assert.Equal(t, "item-00", page.Items[0].name)
	})

	t.Run("final page is short", func(t *testing.T) {
		page, err := social.Paginate(items, social.ListParams{Limit: 10, Page: 3}, itemConfig())

		require.NoError(t, err)
		assert.Equal(t, 5, page.PageSize)
		assert.Len(t, page.Items, 5)
		assert.Equal(t, "item-24", page.Items[4].name)
	})

	t.Run("out of range page is empty, not an error", func(t *testing.T) {
		page, err := social.Paginate(items, social.ListParams{Limit: 10, Page: 99}, itemConfig())

		require.NoError(t, err)
		assert.Empty(t, page.Items)
		assert.Equal(t, 0, page.PageSize)
		assert.Equal(t, 25, page.TotalItems)
		assert.Equal(t, 3, page.TotalPages)
		assert.Equal(t, 99, page.PageNumber)
	})

	t.Run("empty collection", func(t *testing.T) {
		page, err := social.Paginate([]item{}, social.ListParams{Limit: 10, Page: 1}, itemConfig())

		require.NoError(t, err)
		assert.Empty(t, page.Items)
		assert.Equal(t, 0, page.TotalItems)
		assert.Equal(t, 0, page.TotalPages)
	})

	t.Run("query filters before pagination", func(t *testing.T) {
		page, err := social.Paginate(items, social.ListParams{Query: "ITEM-1", Limit: 10, Page: 1}, itemConfig())

		require.NoError(t, err)
		// item-10 through item-19
		assert.Equal(t, 10, page.TotalItems)
		assert.Equal(t, 1, page.TotalPages)
	})

	t.Run("two items with limit one produce two pages", func(t *testing.T) {
		two := []item{{name: "a"}, {name: "b"}}

		page, err := social.Paginate(two, social.ListParams{Limit: 1, Page: 1}, itemConfig())
		require.NoError(t, err)
		assert.Equal(t, 2, page.TotalItems)
		assert.Equal(t, 2, page.TotalPages)
		assert.Equal(t, 1, page.PageSize)
		assert.Equal(t, "a", page.Items[0].name)

		page, err = social.Paginate(two, social.ListParams{Limit: 1, Page: 2}, itemConfig())
		require.NoError(t, err)
		assert.Equal(t, "b", page.Items[0].name)
	})

	t.Run("ascending and descending ordering", func(t *testing.T) {
		page, err := social.Paginate(items, social.ListParams{Limit: 25, Page: 1, Ordering: "score"}, itemConfig())
		require.NoError(t, err)
		assert.Equal(t, 0, page.Items[0].score)
		assert.Equal(t, 4, page.Items[24].score)

		page, err = social.Paginate(items, social.ListParams{Limit: 25, Page: 1, Ordering: "-score"}, itemConfig())
		require.NoError(t, err)
		assert.Equal(t, 4, page.Items[0].score)
		assert.Equal(t, 0, page.Items[24].score)
	})

	t.Run("equal sort values break ties on the stable key", func(t *testing.T) {
		page, err := social.Paginate(items, social.ListParams{Limit: 5, Page: 1, Ordering: "score"}, itemConfig())
		require.NoError(t, err)

		// All five items on the first page share score 0; their relative
		// order must be the key order so pages never drift.
		prev := ""
		for _, it := range page.Items {
			assert.Equal(t, 0, it.score)
			assert.Greater(t, it.name, prev)
			prev = it.name
		}
	})

	t.Run("unsupported ordering keeps default order", func(t *testing.T) {
		page, err := social.Paginate(items, social.ListParams{Limit: 5, Page: 1, Ordering: "likes"}, itemConfig())
		require.NoError(t, err)
		assert.Equal(t, "item-00", page.Items[0].name)
	})

	t.Run("identical inputs produce identical pages", func(t *testing.T) {
		params := social.ListParams{Query: "item", Limit: 7, Page: 2, Ordering: "-score"}

		first, err := social.Paginate(items, params, itemConfig())
		require.NoError(t, err)
		second, err := social.Paginate(items, params, itemConfig())
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})

	t.Run("bounds enforced for programmatic params", func(t *testing.T) {
		_, err := social.Paginate(items, social.ListParams{Limit: 101, Page: 1}, itemConfig())
		assert.ErrorIs(t, err, social.ErrLimitTooLarge)

		_, err = social.Paginate(items, social.ListParams{Limit: -1, Page: 1}, itemConfig())
		assert.ErrorIs(t, err, social.ErrLimitTooSmall)

		_, err = social.Paginate(items, social.ListParams{Limit: 10, Page: 0}, itemConfig())
		assert.ErrorIs(t, err, social.ErrInvalidPage)
	})

	t.Run("paginate does not mutate the snapshot", func(t *testing.T) {
		snapshot := []item{{name: "c"}, {name: "a"}, {name: "b"}}

		_, err := social.Paginate(snapshot, social.ListParams{Limit: 10, Page: 1, Ordering: "name"}, itemConfig())
		require.NoError(t, err)

		assert.Equal(t, "c", snapshot[0].name)
		assert.Equal(t, "a", snapshot[1].name)
	})
}
