package dedup

import (
	"context"
	"strings"
	"sync"
)

// Source performs the underlying fetch. It may publish any number of values
// through yield before returning; a non-nil return error fails the shared
// stream for every subscriber.
type Source func(ctx context.Context, yield func(value any)) error

// Operation lazily constructs a Source. Construction runs under the
// deduplicator's lock and must not block; an error here propagates to the
// calling goroutine directly and leaves no entry registered for the key.
type Operation func(ctx context.Context) (Source, error)

// Option configures a Deduplicator.
type Option func(*Deduplicator)

// WithOnCoalesce sets a hook invoked when a caller joins an already-active
// key instead of starting a new fetch. Intended for metrics.
func WithOnCoalesce(fn func(key string)) Option {
	return func(d *Deduplicator) { d.onCoalesce = fn }
}

// WithOnStart sets a hook invoked when a key transitions Absent -> Active.
func WithOnStart(fn func(key string)) Option {
	return func(d *Deduplicator) { d.onStart = fn }
}

// WithOnComplete sets a hook invoked when a key transitions back to Absent
// after its operation finished. err is the operation's terminal error.
func WithOnComplete(fn func(key string, err error)) Option {
	return func(d *Deduplicator) { d.onComplete = fn }
}

// Deduplicator coalesces concurrent identical fetches.
//
// Contract:
//   - Concurrency: safe for concurrent use. The lookup-or-create step runs
//     under a single lock, so two racing callers for one key never both
//     invoke the operation.
//   - Ownership: the deduplicator is the only writer of the active-entry
//     map. Callers interact through Do and Clear only.
//   - Lifecycle: entries are removed exactly once, when the operation
//     completes, or forgotten wholesale by Clear.
//
// Construct one instance per process or session scope and inject it
// explicitly; the zero value is not usable, use New.
type Deduplicator struct {
	mu     sync.Mutex
	active map[string]*stream

	onCoalesce func(key string)
	onStart    func(key string)
	onComplete func(key string, err error)
}

// New creates an empty Deduplicator.
func New(opts ...Option) *Deduplicator {
	d := &Deduplicator{active: make(map[string]*stream)}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Do returns a subscription to the shared stream for key, invoking op only
// if no fetch for key is currently in flight.
//
// If op construction fails the error is returned immediately and no entry
// remains for key. Otherwise the source runs on its own goroutine, detached
// from ctx's cancellation, so the stream always reaches completion and the
// entry cannot leak in a permanently-active state.
//
// The caller owns the returned subscription and should Cancel it when done.
func (d *Deduplicator) Do(ctx context.Context, key string, op Operation) (*Subscription, error) {
	if strings.TrimSpace(key) == "" {
		return nil, ErrEmptyKey
	}
	if op == nil {
		return nil, ErrNilOperation
	}

	d.mu.Lock()
	if st, ok := d.active[key]; ok {
		d.mu.Unlock()
		if d.onCoalesce != nil {
			d.onCoalesce(key)
		}
		return st.subscribe(), nil
	}

	src, err := op(ctx)
	if err != nil {
		// Construction failed before a stream existed: roll back by never
		// inserting, so a follow-up call for key executes fresh.
		d.mu.Unlock()
		return nil, err
	}

	st := newStream()
	d.active[key] = st
	d.mu.Unlock()

	if d.onStart != nil {
		d.onStart(key)
	}

	go d.run(ctx, key, st, src)
	return st.subscribe(), nil
}

// run drives the source to completion and removes the map entry afterward.
func (d *Deduplicator) run(ctx context.Context, key string, st *stream, src Source) {
	// Detach from the creating caller's cancellation: the subscriber that
	// triggered the fetch may go away, but the shared operation still runs
	// to completion and cleans up its own entry.
	runCtx := context.WithoutCancel(ctx)

	err := src(runCtx, st.emit)
	st.complete(err)
	d.remove(key, st)

	if d.onComplete != nil {
		d.onComplete(key, err)
	}
}

// remove deletes the entry for key if it still maps to st. After a Clear, a
// new fetch may have re-registered the key; the stale removal must not
// clobber it.
func (d *Deduplicator) remove(key string, st *stream) {
	d.mu.Lock()
	if cur, ok := d.active[key]; ok && cur == st {
		delete(d.active, key)
	}
	d.mu.Unlock()
}

// Clear unconditionally forgets every sharing registration, typically on
// logout or a forced full refresh. It does not cancel in-flight operations:
// they complete independently and their removal attempt becomes a no-op.
func (d *Deduplicator) Clear() {
	d.mu.Lock()
	d.active = make(map[string]*stream)
	d.mu.Unlock()
}

// Len reports the number of active keys.
func (d *Deduplicator) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.active)
}

// Value coalesces a single-result fetch, the dominant case for catalog
// calls. All concurrent callers for key receive the value produced by the
// one invocation of fetch. ctx cancellation abandons the wait without
// cancelling the shared fetch.
func Value[T any](ctx context.Context, d *Deduplicator, key string, fetch func(context.Context) (T, error)) (T, error) {
	var zero T

	sub, err := d.Do(ctx, key, func(context.Context) (Source, error) {
		return func(ctx context.Context, yield func(any)) error {
			v, err := fetch(ctx)
			if err != nil {
				return err
			}
			yield(v)
			return nil
		}, nil
	})
	if err != nil {
		return zero, err
	}
	defer sub.Cancel()

	var (
		got  T
		have bool
	)
	for {
		select {
		case ev, ok := <-sub.Events():
			if !ok {
				if !have {
					return zero, ErrNoResult
				}
				return got, nil
			}
			if ev.Err != nil {
				return zero, ev.Err
			}
			if v, ok := ev.Value.(T); ok {
				got, have = v, true
			}
		case <-ctx.Done():
			return zero, ctx.Err()
		}
	}
}
