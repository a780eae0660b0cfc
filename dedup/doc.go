// Package dedup coalesces concurrent identical catalog requests.
//
// A Deduplicator guarantees that at most one underlying fetch is in flight
// per request key. Concurrent callers for the same key subscribe to a single
// shared stream and observe the same emitted values in the same order. Once
// the underlying operation completes (success or failure) the key is
// forgotten, so a later call with the same key fetches fresh data.
//
// This is a concurrency coalescer, not a result cache: there is no TTL and
// no "completed" resting state. Each key moves Absent -> Active -> Absent.
// For byte-level result caching with TTL policies, see the cache package.
//
// # Usage
//
// Construct one Deduplicator at wiring time and share it between all
// consumers of the data layer:
//
//	d := dedup.New()
//
//	track, err := dedup.Value(ctx, d, dedup.Key("getTrack", id),
//	    func(ctx context.Context) (*Track, error) {
//	        return api.FetchTrack(ctx, id)
//	    })
//
// Multi-emission operations (for example streamed pages) use Do directly:
//
//	sub, err := d.Do(ctx, key, op)
//	if err != nil {
//	    return err // op construction failed; nothing was registered
//	}
//	defer sub.Cancel()
//	for ev := range sub.Events() {
//	    ...
//	}
//
// Clear drops all sharing registrations, typically on logout. In-flight
// operations run to completion independently; their late removal attempt
// becomes a no-op.
package dedup
