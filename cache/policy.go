package cache

import "time"

// Policy configures caching behavior per data class.
type Policy struct {
	// ArtworkTTL applies to cover-art bytes. Artwork for a given ID is
	// effectively immutable server-side, so this can be long.
	ArtworkTTL time.Duration

	// ListingTTL applies to playlist/album/artist listings, which change
	// as the library is edited.
	ListingTTL time.Duration

	// MaxTTL is the maximum allowed TTL. Override TTLs are clamped to this.
	// If zero, no maximum is enforced.
	MaxTTL time.Duration
}

// DefaultPolicy returns the default media caching policy.
// ArtworkTTL: 12 hours, ListingTTL: 1 minute, MaxTTL: 24 hours.
func DefaultPolicy() Policy {
	return Policy{
		ArtworkTTL: 12 * time.Hour,
		ListingTTL: time.Minute,
		MaxTTL:     24 * time.Hour,
	}
}

// NoCachePolicy returns a policy that disables caching entirely.
func NoCachePolicy() Policy {
	return Policy{}
}

// EffectiveTTL clamps ttl to MaxTTL. Non-positive input disables caching.
func (p Policy) EffectiveTTL(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return 0
	}
	if p.MaxTTL > 0 && ttl > p.MaxTTL {
		return p.MaxTTL
	}
	return ttl
}
