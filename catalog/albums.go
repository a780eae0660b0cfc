package catalog

import (
	"context"
	"net/url"

	"github.com/dashtune/dashtune/dedup"
	"github.com/dashtune/dashtune/observe"
)

// AlbumSort orders album listings.
type AlbumSort string

const (
	SortRecent   AlbumSort = "recent"   // newest additions first
	SortRandom   AlbumSort = "random"   // server-side shuffle
	SortStarred  AlbumSort = "starred"  // starred albums only
	SortAlpha    AlbumSort = "alpha"    // by name
	SortByArtist AlbumSort = "artist"   // by artist name
	SortByYear   AlbumSort = "year"     // by release year
)

// AlbumFilter narrows an album listing.
type AlbumFilter struct {
	Sort  AlbumSort // empty means the server default (alpha)
	Genre string    // restrict to one genre
}

// ListAlbums returns one page of albums matching the filter.
func (c *Client) ListAlbums(ctx context.Context, p Page, filter AlbumFilter) (Paged[Album], error) {
	p = c.page(p)

	key := dedup.Key("listAlbums", string(filter.Sort), filter.Genre, p.Offset, p.Limit)
	meta := observe.OpMeta{Component: "catalog", Op: "listAlbums", Entity: "album"}

	q := pageQuery(p)
	if filter.Sort != "" {
		q.Set("sort", string(filter.Sort))
	}
	if filter.Genre != "" {
		q.Set("genre", filter.Genre)
	}

	return fetchJSON[Paged[Album]](ctx, c, key, meta, "/albums", q)
}

// GetAlbum returns an album with its full track listing.
func (c *Client) GetAlbum(ctx context.Context, id string) (AlbumWithTracks, error) {
	if id == "" {
		return AlbumWithTracks{}, ErrEmptyID
	}

	key := dedup.Key("getAlbum", id)
	meta := observe.OpMeta{Component: "catalog", Op: "getAlbum", Entity: "album", ID: id}

	return fetchJSON[AlbumWithTracks](ctx, c, key, meta, "/albums/"+url.PathEscape(id), nil)
}

// GetTrack returns a single track.
func (c *Client) GetTrack(ctx context.Context, id string) (Track, error) {
	if id == "" {
		return Track{}, ErrEmptyID
	}

	key := dedup.Key("getTrack", id)
	meta := observe.OpMeta{Component: "catalog", Op: "getTrack", Entity: "track", ID: id}

	return fetchJSON[Track](ctx, c, key, meta, "/tracks/"+url.PathEscape(id), nil)
}

// ListGenres returns every genre known to the catalog.
func (c *Client) ListGenres(ctx context.Context) ([]Genre, error) {
	key := dedup.Key("listGenres")
	meta := observe.OpMeta{Component: "catalog", Op: "listGenres", Entity: "genre"}

	return fetchJSON[[]Genre](ctx, c, key, meta, "/genres", nil)
}
