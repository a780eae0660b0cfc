package catalog

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// homeSectionSize is how many albums each landing-screen section shows.
const homeSectionSize = 20

// Home fetches the landing-screen sections concurrently. Each section is an
// independent album listing; one failing section fails the whole fetch so
// the screen never renders half-empty silently.
func (c *Client) Home(ctx context.Context) (Home, error) {
	var home Home

	g, ctx := errgroup.WithContext(ctx)
	page := Page{Limit: homeSectionSize}

	g.Go(func() error {
		paged, err := c.ListAlbums(ctx, page, AlbumFilter{Sort: SortRecent})
		if err != nil {
			return err
		}
		home.RecentlyAdded = paged.Items
		return nil
	})
	g.Go(func() error {
		paged, err := c.ListAlbums(ctx, page, AlbumFilter{Sort: SortRandom})
		if err != nil {
			return err
		}
		home.Random = paged.Items
		return nil
	})
	g.Go(func() error {
		paged, err := c.ListAlbums(ctx, page, AlbumFilter{Sort: SortStarred})
		if err != nil {
			return err
		}
		home.Starred = paged.Items
		return nil
	})

	if err := g.Wait(); err != nil {
		return Home{}, err
	}
	return home, nil
}
