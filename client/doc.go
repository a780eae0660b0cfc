// Package client wires the full streaming client together: secret
// resolution, the authenticated session, one shared request deduplicator,
// the catalog client, the playback session, health checks, and telemetry.
//
// Construction is explicit: New takes validated settings and builds every
// component, injecting the shared pieces where they belong. Logout tears
// the session down and drops all coalesced requests and cached data.
//
//	s, err := settings.Load("")
//	if err != nil {
//	    return err
//	}
//	c, err := client.New(ctx, s)
//	if err != nil {
//	    return err
//	}
//	defer c.Close(ctx)
//
//	albums, err := c.Catalog().ListAlbums(ctx, catalog.Page{}, catalog.AlbumFilter{})
package client
