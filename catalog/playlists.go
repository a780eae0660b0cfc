package catalog

import (
	"context"
	"net/url"
	"strconv"

	"github.com/dashtune/dashtune/dedup"
	"github.com/dashtune/dashtune/observe"
)

// ListPlaylists returns one page of the user's playlists, without tracks.
func (c *Client) ListPlaylists(ctx context.Context, p Page) (Paged[Playlist], error) {
	p = c.page(p)

	key := dedup.Key("listPlaylists", p.Offset, p.Limit)
	meta := observe.OpMeta{Component: "catalog", Op: "listPlaylists", Entity: "playlist"}

	return fetchJSON[Paged[Playlist]](ctx, c, key, meta, "/playlists", pageQuery(p))
}

// GetPlaylist returns a playlist with its full track listing.
func (c *Client) GetPlaylist(ctx context.Context, id string) (Playlist, error) {
	if id == "" {
		return Playlist{}, ErrEmptyID
	}

	key := dedup.Key("getPlaylist", id)
	meta := observe.OpMeta{Component: "catalog", Op: "getPlaylist", Entity: "playlist", ID: id}

	return fetchJSON[Playlist](ctx, c, key, meta, "/playlists/"+url.PathEscape(id), nil)
}

// pageQuery encodes a Page as listing query parameters.
func pageQuery(p Page) url.Values {
	q := url.Values{}
	q.Set("offset", strconv.Itoa(p.Offset))
	q.Set("limit", strconv.Itoa(p.Limit))
	return q
}
