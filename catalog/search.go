package catalog

import (
	"context"
	"strings"

	"github.com/dashtune/dashtune/dedup"
	"github.com/dashtune/dashtune/observe"
)

// Search queries artists, albums, and tracks at once. Identical concurrent
// searches (the same term typed in two panes, or a debounce slipping
// through twice) share one request.
func (c *Client) Search(ctx context.Context, query string, p Page) (SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return SearchResult{}, ErrEmptyQuery
	}
	p = c.page(p)

	key := dedup.Key("search", query, p.Offset, p.Limit)
	meta := observe.OpMeta{Component: "catalog", Op: "search"}

	q := pageQuery(p)
	q.Set("q", query)

	return fetchJSON[SearchResult](ctx, c, key, meta, "/search", q)
}
