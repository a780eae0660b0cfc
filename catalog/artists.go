package catalog

import (
	"context"
	"net/url"

	"github.com/dashtune/dashtune/dedup"
	"github.com/dashtune/dashtune/observe"
)

// ListArtists returns one page of the catalog's artists.
func (c *Client) ListArtists(ctx context.Context, p Page) (Paged[Artist], error) {
	p = c.page(p)

	key := dedup.Key("listArtists", p.Offset, p.Limit)
	meta := observe.OpMeta{Component: "catalog", Op: "listArtists", Entity: "artist"}

	return fetchJSON[Paged[Artist]](ctx, c, key, meta, "/artists", pageQuery(p))
}

// GetArtist returns a single artist.
func (c *Client) GetArtist(ctx context.Context, id string) (Artist, error) {
	if id == "" {
		return Artist{}, ErrEmptyID
	}

	key := dedup.Key("getArtist", id)
	meta := observe.OpMeta{Component: "catalog", Op: "getArtist", Entity: "artist", ID: id}

	return fetchJSON[Artist](ctx, c, key, meta, "/artists/"+url.PathEscape(id), nil)
}

// ArtistAlbums returns the albums of one artist, newest first.
func (c *Client) ArtistAlbums(ctx context.Context, artistID string) ([]Album, error) {
	if artistID == "" {
		return nil, ErrEmptyID
	}

	key := dedup.Key("artistAlbums", artistID)
	meta := observe.OpMeta{Component: "catalog", Op: "artistAlbums", Entity: "album", ID: artistID}

	return fetchJSON[[]Album](ctx, c, key, meta, "/artists/"+url.PathEscape(artistID)+"/albums", nil)
}
