package catalog

import (
	"context"
	"errors"
	"sync"
)

// ErrPagerExhausted is returned by Next once every page has been consumed.
var ErrPagerExhausted = errors.New("catalog: no more pages")

// ListFunc fetches one page of a listing.
type ListFunc[T any] func(ctx context.Context, p Page) (Paged[T], error)

// Pager walks a paged listing window by window, the driving type behind
// infinite scroll. The underlying listing calls are deduplicated per
// offset, so two scroll surfaces over the same listing share requests.
//
// Contract:
// - Concurrency: safe for concurrent use; pages are handed out in order.
// - Errors: a failed fetch does not advance the pager; Next can be retried.
type Pager[T any] struct {
	mu     sync.Mutex
	fetch  ListFunc[T]
	limit  int
	offset int
	total  int
	primed bool
}

// NewPager creates a pager over fetch with the given page size.
func NewPager[T any](fetch ListFunc[T], limit int) *Pager[T] {
	if limit <= 0 {
		limit = 50
	}
	return &Pager[T]{fetch: fetch, limit: limit}
}

// Next fetches the next page. Returns ErrPagerExhausted once the listing
// is consumed.
func (p *Pager[T]) Next(ctx context.Context) ([]T, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.primed && p.offset >= p.total {
		return nil, ErrPagerExhausted
	}

	paged, err := p.fetch(ctx, Page{Offset: p.offset, Limit: p.limit})
	if err != nil {
		return nil, err
	}

	p.primed = true
	p.total = paged.Total
	p.offset += len(paged.Items)

	// A short page before the reported total means the server is done.
	if len(paged.Items) == 0 {
		p.total = p.offset
		return nil, ErrPagerExhausted
	}

	return paged.Items, nil
}

// More reports whether Next may return further items. Before the first
// fetch it is always true.
func (p *Pager[T]) More() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return !p.primed || p.offset < p.total
}

// Collected returns how many items have been handed out so far.
func (p *Pager[T]) Collected() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.offset
}
