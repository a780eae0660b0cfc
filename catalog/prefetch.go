package catalog

import (
	"context"
	"errors"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/dashtune/dashtune/resilience"
)

// PrefetcherConfig configures background cache warming.
type PrefetcherConfig struct {
	// ArtworkRate is the number of cover-art fetches allowed per second.
	// Default: 4
	ArtworkRate float64

	// ArtworkBurst is the artwork fetch burst size.
	// Default: 2
	ArtworkBurst int

	// ArtworkSize is the pixel size requested for warmed cover art. It
	// should match the size the browse screens display at, so warmed
	// entries actually hit.
	// Default: 300
	ArtworkSize int

	// MaxConcurrent bounds concurrent page prefetches so background work
	// never starves interactive requests on the shared connection.
	// Default: 2
	MaxConcurrent int
}

// Prefetcher warms caches ahead of user navigation: cover art for albums
// already on screen, and the listing pages the user is about to scroll
// into. All work is best-effort; a prefetch that loses out to interactive
// traffic is skipped, not queued.
type Prefetcher struct {
	client   *Client
	config   PrefetcherConfig
	limiter  *resilience.RateLimiter
	bulkhead *resilience.Bulkhead
}

// NewPrefetcher creates a prefetcher over the given catalog client.
func NewPrefetcher(client *Client, config PrefetcherConfig) *Prefetcher {
	// Apply defaults
	if config.ArtworkRate <= 0 {
		config.ArtworkRate = 4
	}
	if config.ArtworkBurst <= 0 {
		config.ArtworkBurst = 2
	}
	if config.ArtworkSize <= 0 {
		config.ArtworkSize = 300
	}
	if config.MaxConcurrent <= 0 {
		config.MaxConcurrent = 2
	}

	return &Prefetcher{
		client: client,
		config: config,
		limiter: resilience.NewRateLimiter(resilience.RateLimiterConfig{
			Rate:        config.ArtworkRate,
			Burst:       config.ArtworkBurst,
			WaitOnLimit: true,
		}),
		// MaxWait stays zero: a page that cannot get a slot right now is
		// dropped instead of piling up behind the user's own requests.
		bulkhead: resilience.NewBulkhead(resilience.BulkheadConfig{
			MaxConcurrent: config.MaxConcurrent,
		}),
	}
}

// WarmCoverArt fetches cover art for the given albums into the shared
// cache, throttled to the configured artwork rate. Albums without art and
// individual fetch failures are skipped. It returns how many covers were
// warmed; the error is non-nil only when the context ends or the limiter
// gives up waiting.
func (p *Prefetcher) WarmCoverArt(ctx context.Context, albums []Album) (int, error) {
	if p.client.Offline() {
		return 0, nil
	}

	warmed := 0
	for _, album := range albums {
		if album.CoverArtID == "" {
			continue
		}
		if err := p.limiter.Wait(ctx); err != nil {
			return warmed, err
		}
		if _, err := p.client.CoverArt(ctx, album.CoverArtID, p.config.ArtworkSize); err == nil {
			warmed++
		}
	}
	return warmed, nil
}

// PrefetchAlbumPages fetches up to pages album-listing windows following
// start, warming the cover art each one references. Every page takes a
// bulkhead slot; pages that find the bulkhead full are skipped. It returns
// how many pages were actually fetched.
func (p *Prefetcher) PrefetchAlbumPages(ctx context.Context, filter AlbumFilter, start Page, pages int) (int, error) {
	if pages <= 0 || p.client.Offline() {
		return 0, nil
	}
	start = p.client.page(start)

	var fetched atomic.Int64
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < pages; i++ {
		page := Page{Offset: start.Offset + i*start.Limit, Limit: start.Limit}
		g.Go(func() error {
			err := p.bulkhead.Execute(ctx, func(ctx context.Context) error {
				paged, err := p.client.ListAlbums(ctx, page, filter)
				if err != nil {
					return err
				}
				fetched.Add(1)
				_, err = p.WarmCoverArt(ctx, paged.Items)
				return err
			})
			switch {
			case errors.Is(err, resilience.ErrBulkheadFull):
				return nil // lost the slot to other work, skip this page
			case errors.Is(err, resilience.ErrRateLimitExceeded):
				return nil // page landed, warming ran out of budget
			default:
				return err
			}
		})
	}

	if err := g.Wait(); err != nil {
		return int(fetched.Load()), err
	}
	return int(fetched.Load()), nil
}
