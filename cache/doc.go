// Package cache provides TTL-based byte caching for catalog responses and
// cover art.
//
// It provides a Cache interface with a memory implementation, SHA-256-based
// key derivation for unbounded inputs such as free-text search queries, and
// TTL policies tuned for media data (artwork is effectively immutable,
// listings go stale quickly).
//
// The cache stores completed results. Coalescing concurrent in-flight
// fetches is a separate concern handled by the dedup package; the two are
// typically layered, dedup in front of cache in front of the network.
package cache
