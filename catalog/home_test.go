package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHome(t *testing.T) {
	srv := newCatalogServer(t)
	c := newTestClient(t, srv.URL)

	home, err := c.Home(context.Background())
	if err != nil {
		t.Fatalf("Home: %v", err)
	}

	if len(home.RecentlyAdded) != 2 {
		t.Errorf("recently added = %d, want 2", len(home.RecentlyAdded))
	}
	if len(home.Random) != 2 {
		t.Errorf("random = %d, want 2", len(home.Random))
	}
	if len(home.Starred) != 1 {
		t.Errorf("starred = %d, want 1", len(home.Starred))
	}
}

func TestHomeSectionFailureFailsFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("sort") == "random" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(Paged[Album]{
			Items: []Album{{ID: "al-1", Name: "First Light"}},
			Total: 1,
		})
	}))
	t.Cleanup(srv.Close)

	c := newTestClient(t, srv.URL)

	_, err := c.Home(context.Background())
	if err == nil {
		t.Fatal("expected error when a section fails")
	}
	if Classify(err) != CategoryServer {
		t.Errorf("category = %v, want server", Classify(err))
	}
}
