// Package catalog is the REST client for the music catalog server:
// playlists, artists, albums, tracks, search, and cover art.
//
// Every read goes through a shared request deduplicator, so identical
// concurrent lookups (the same album opened from two screens, a search
// retyped mid-flight) collapse into one server round trip. Transport
// failures are classified into categories and retried through the
// resilience executor when the category allows it. Cover-art bytes are
// cached with a TTL policy; listings are not cached beyond the dedup
// window.
//
// # Usage
//
//	client, err := catalog.New(catalog.Config{
//	    BaseURL:    "https://music.example.com",
//	    HTTPClient: authedClient, // auth.Transport-backed
//	})
//	if err != nil {
//	    return err
//	}
//
//	albums, err := client.ListAlbums(ctx, catalog.Page{Limit: 50})
package catalog
