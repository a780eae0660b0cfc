package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/dashtune/dashtune/catalog"
	"github.com/dashtune/dashtune/health"
	"github.com/dashtune/dashtune/player"
	"github.com/dashtune/dashtune/settings"
)

// serverCounters tracks how often each surface was hit.
type serverCounters struct {
	logins atomic.Int64
	pings  atomic.Int64
	albums atomic.Int64
	covers atomic.Int64
}

// newBackend serves login plus a minimal catalog, rejecting requests
// without the issued bearer token.
func newBackend(t *testing.T) (*httptest.Server, *serverCounters) {
	t.Helper()
	const token = "backend-token"
	var counters serverCounters

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		counters.logins.Add(1)
		var creds struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil || creds.Password != "s3cret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"token":      token,
			"expires_in": 3600,
		})
	})

	authed := func(fn http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer "+token {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			fn(w, r)
		}
	}

	mux.HandleFunc("/api/v1/ping", authed(func(w http.ResponseWriter, r *http.Request) {
		counters.pings.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	mux.HandleFunc("/api/v1/albums", authed(func(w http.ResponseWriter, r *http.Request) {
		counters.albums.Add(1)
		_ = json.NewEncoder(w).Encode(catalog.Paged[catalog.Album]{
			Items: []catalog.Album{{ID: "al-1", Name: "First Light", CoverArtID: "ca-1"}},
			Total: 1,
		})
	}))
	mux.HandleFunc("/api/v1/coverart/ca-1", authed(func(w http.ResponseWriter, r *http.Request) {
		counters.covers.Add(1)
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write([]byte("jpeg-bytes"))
	}))

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &counters
}

func testSettings(url string) settings.Settings {
	s := settings.Default()
	s.Server.URL = url
	s.Server.Username = "alice"
	s.Server.PasswordRef = "secretref:env:DASHTUNE_TEST_CLIENT_PASSWORD"
	return s
}

func newTestClient(t *testing.T, url string) *Client {
	t.Helper()
	t.Setenv("DASHTUNE_TEST_CLIENT_PASSWORD", "s3cret")

	c, err := New(context.Background(), testSettings(url))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestNewRejectsInvalidSettings(t *testing.T) {
	_, err := New(context.Background(), settings.Default())
	if !errors.Is(err, settings.ErrMissingServerURL) {
		t.Errorf("New = %v, want ErrMissingServerURL", err)
	}
}

func TestNewRejectsUnresolvablePassword(t *testing.T) {
	s := testSettings("https://music.example.com")
	s.Server.PasswordRef = "secretref:env:DASHTUNE_TEST_CLIENT_UNSET"

	if _, err := New(context.Background(), s); err == nil {
		t.Error("expected error for unresolvable password ref")
	}
}

func TestNewAssignsIdentifiers(t *testing.T) {
	srv, _ := newBackend(t)
	c := newTestClient(t, srv.URL)

	if c.ID() == "" || c.DeviceID() == "" {
		t.Error("ID and DeviceID must be set")
	}
	if c.ID() == c.DeviceID() {
		t.Error("ID and DeviceID must differ")
	}
}

func TestClientFetchesCatalogThroughAuth(t *testing.T) {
	srv, counters := newBackend(t)
	c := newTestClient(t, srv.URL)

	paged, err := c.Catalog().ListAlbums(context.Background(), catalog.Page{}, catalog.AlbumFilter{})
	if err != nil {
		t.Fatalf("ListAlbums: %v", err)
	}
	if len(paged.Items) != 1 || paged.Items[0].ID != "al-1" {
		t.Errorf("items = %+v", paged.Items)
	}
	if counters.logins.Load() != 1 {
		t.Errorf("logins = %d, want 1", counters.logins.Load())
	}

	// A second call reuses the token.
	if _, err := c.Catalog().ListAlbums(context.Background(), catalog.Page{}, catalog.AlbumFilter{}); err != nil {
		t.Fatalf("second ListAlbums: %v", err)
	}
	if counters.logins.Load() != 1 {
		t.Errorf("logins after reuse = %d, want 1", counters.logins.Load())
	}
}

func TestClientStreamURLUsesConfiguredBitrate(t *testing.T) {
	srv, _ := newBackend(t)

	t.Setenv("DASHTUNE_TEST_CLIENT_PASSWORD", "s3cret")
	s := testSettings(srv.URL)
	s.Stream.Quality = settings.QualityMedium

	c, err := New(context.Background(), s)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	got, err := c.StreamURL("tr-1")
	if err != nil {
		t.Fatalf("StreamURL: %v", err)
	}
	want := srv.URL + "/api/v1/stream/tr-1?maxBitRate=192"
	if got != want {
		t.Errorf("StreamURL = %q, want %q", got, want)
	}
}

func TestSessionCheckerBeforeLogin(t *testing.T) {
	srv, _ := newBackend(t)
	c := newTestClient(t, srv.URL)

	result := sessionChecker(c.session).Check(context.Background())
	if result.Status != health.StatusDegraded {
		t.Errorf("session before login = %v, want degraded", result.Status)
	}
}

func TestClientHealth(t *testing.T) {
	srv, counters := newBackend(t)
	c := newTestClient(t, srv.URL)

	// Establish a session first so both checks can pass.
	if _, err := c.Catalog().ListAlbums(context.Background(), catalog.Page{}, catalog.AlbumFilter{}); err != nil {
		t.Fatalf("ListAlbums: %v", err)
	}

	status, results := c.Health(context.Background())

	if results["server"].Status != health.StatusHealthy {
		t.Errorf("server = %v: %s", results["server"].Status, results["server"].Message)
	}
	if results["session"].Status != health.StatusHealthy {
		t.Errorf("session = %v, want healthy", results["session"].Status)
	}
	if status != health.StatusHealthy {
		t.Errorf("overall = %v, want healthy", status)
	}
	if counters.pings.Load() == 0 {
		t.Error("health check should hit the ping endpoint")
	}
}

func TestClientHealthUnreachableServer(t *testing.T) {
	srv, _ := newBackend(t)
	c := newTestClient(t, srv.URL)
	srv.Close()

	status, results := c.Health(context.Background())
	if results["server"].Status != health.StatusUnhealthy {
		t.Errorf("server = %v, want unhealthy", results["server"].Status)
	}
	if status != health.StatusUnhealthy {
		t.Errorf("overall = %v, want unhealthy", status)
	}
}

func TestClientLogout(t *testing.T) {
	srv, _ := newBackend(t)
	c := newTestClient(t, srv.URL)

	// Establish a session and some playback state.
	if _, err := c.Catalog().ListAlbums(context.Background(), catalog.Page{}, catalog.AlbumFilter{}); err != nil {
		t.Fatalf("ListAlbums: %v", err)
	}
	c.Player().Queue().Append(catalog.Track{ID: "tr-1", Title: "Opening"})
	if err := c.Player().Play(); err != nil {
		t.Fatalf("Play: %v", err)
	}

	if err := c.Logout(context.Background()); err != nil {
		t.Fatalf("Logout: %v", err)
	}

	if c.Player().State() != player.StateStopped {
		t.Errorf("player state = %v, want stopped", c.Player().State())
	}
	if c.Player().Queue().Len() != 0 {
		t.Errorf("queue len = %d, want 0", c.Player().Queue().Len())
	}
	if !c.session.Expiry().IsZero() {
		t.Error("session expiry should be cleared")
	}

	// Requests after logout must fail instead of silently re-authenticating.
	if _, err := c.Catalog().ListAlbums(context.Background(), catalog.Page{}, catalog.AlbumFilter{}); err == nil {
		t.Error("expected error after logout")
	}
}

func TestClientPlayerStateChanges(t *testing.T) {
	srv, _ := newBackend(t)
	c := newTestClient(t, srv.URL)

	c.Player().Queue().Append(catalog.Track{ID: "tr-1"})
	if err := c.Player().Play(); err != nil {
		t.Fatalf("Play: %v", err)
	}
	if err := c.Player().Pause(); err != nil {
		t.Fatalf("Pause: %v", err)
	}
	if c.Player().State() != player.StatePaused {
		t.Errorf("state = %v, want paused", c.Player().State())
	}
}

func TestClientOfflineMode(t *testing.T) {
	srv, counters := newBackend(t)

	t.Setenv("DASHTUNE_TEST_CLIENT_PASSWORD", "s3cret")
	s := testSettings(srv.URL)
	s.Browse.OfflineMode = true

	c, err := New(context.Background(), s)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if !c.Catalog().Offline() {
		t.Error("catalog should be offline")
	}
	_, err = c.Catalog().ListAlbums(context.Background(), catalog.Page{}, catalog.AlbumFilter{})
	if !errors.Is(err, catalog.ErrOffline) {
		t.Errorf("ListAlbums = %v, want ErrOffline", err)
	}
	if counters.logins.Load() != 0 || counters.albums.Load() != 0 {
		t.Error("offline client must not touch the network")
	}
}

func TestClientPrefetcherWarmsCoverArt(t *testing.T) {
	srv, counters := newBackend(t)
	c := newTestClient(t, srv.URL)

	paged, err := c.Catalog().ListAlbums(context.Background(), catalog.Page{}, catalog.AlbumFilter{})
	if err != nil {
		t.Fatalf("ListAlbums: %v", err)
	}

	warmed, err := c.Prefetcher().WarmCoverArt(context.Background(), paged.Items)
	if err != nil {
		t.Fatalf("WarmCoverArt: %v", err)
	}
	if warmed != 1 {
		t.Errorf("warmed = %d, want 1", warmed)
	}

	// The browse screen's own fetch now comes from cache.
	if _, err := c.Catalog().CoverArt(context.Background(), "ca-1", 300); err != nil {
		t.Fatalf("CoverArt: %v", err)
	}
	if counters.covers.Load() != 1 {
		t.Errorf("cover fetches = %d, want 1 (second read must hit cache)", counters.covers.Load())
	}
}

func TestOpFromKey(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"listAlbums:0:50:recent:", "listAlbums"},
		{"ping", "ping"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := opFromKey(tt.key); got != tt.want {
			t.Errorf("opFromKey(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}
