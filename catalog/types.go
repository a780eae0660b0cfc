package catalog

import "time"

// Artist is a catalog artist.
type Artist struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	AlbumCount int    `json:"albumCount"`
	CoverArtID string `json:"coverArt,omitempty"`
	Starred    bool   `json:"starred,omitempty"`
}

// Album is a catalog album without its track listing.
type Album struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	ArtistID   string    `json:"artistId"`
	ArtistName string    `json:"artist"`
	Year       int       `json:"year,omitempty"`
	Genre      string    `json:"genre,omitempty"`
	TrackCount int       `json:"songCount"`
	Duration   int       `json:"duration"` // seconds
	CoverArtID string    `json:"coverArt,omitempty"`
	Starred    bool      `json:"starred,omitempty"`
	Created    time.Time `json:"created,omitempty"`
}

// AlbumWithTracks is an album plus its ordered track listing.
type AlbumWithTracks struct {
	Album
	Tracks []Track `json:"tracks"`
}

// Track is a single playable track.
type Track struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	AlbumID    string `json:"albumId"`
	AlbumName  string `json:"album"`
	ArtistID   string `json:"artistId"`
	ArtistName string `json:"artist"`
	TrackNum   int    `json:"track,omitempty"`
	DiscNum    int    `json:"discNumber,omitempty"`
	Year       int    `json:"year,omitempty"`
	Genre      string `json:"genre,omitempty"`
	Duration   int    `json:"duration"` // seconds
	BitRate    int    `json:"bitRate,omitempty"`
	Size       int64  `json:"size,omitempty"`
	CoverArtID string `json:"coverArt,omitempty"`
	Starred    bool   `json:"starred,omitempty"`
}

// Playlist is a user playlist. Tracks are populated only by GetPlaylist.
type Playlist struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Comment    string    `json:"comment,omitempty"`
	Owner      string    `json:"owner,omitempty"`
	Public     bool      `json:"public,omitempty"`
	TrackCount int       `json:"songCount"`
	Duration   int       `json:"duration"` // seconds
	Created    time.Time `json:"created,omitempty"`
	Changed    time.Time `json:"changed,omitempty"`
	CoverArtID string    `json:"coverArt,omitempty"`
	Tracks     []Track   `json:"tracks,omitempty"`
}

// Genre is a catalog genre with its usage counts.
type Genre struct {
	Name       string `json:"name"`
	AlbumCount int    `json:"albumCount"`
	TrackCount int    `json:"songCount"`
}

// Page selects a window of a listing.
type Page struct {
	Offset int
	Limit  int
}

// Paged is one window of a listing plus the information needed to fetch
// the next one.
type Paged[T any] struct {
	Items  []T `json:"items"`
	Total  int `json:"total"`
	Offset int `json:"offset"`
}

// NextOffset returns the offset of the page after this one.
func (p Paged[T]) NextOffset() int {
	return p.Offset + len(p.Items)
}

// HasMore reports whether pages remain beyond this one.
func (p Paged[T]) HasMore() bool {
	return p.NextOffset() < p.Total
}

// SearchResult groups matches across entity kinds for one query.
type SearchResult struct {
	Artists []Artist `json:"artists"`
	Albums  []Album  `json:"albums"`
	Tracks  []Track  `json:"tracks"`
}

// Home is the landing-screen content, fetched as one concurrent fan-out.
type Home struct {
	RecentlyAdded []Album `json:"recentlyAdded"`
	Random        []Album `json:"random"`
	Starred       []Album `json:"starred"`
}
