package signal

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Ashe", "ashe"},
		{"Cho'Gath", "chogath"},
		{"Dr. Mundo", "dr-mundo"},
		{"Aurelion Sol", "aurelion-sol"},
		{"Kai'Sa", "kaisa"},
	}
	for _, tc := range cases {
		if got := Slugify(tc.in); got != tc.want {
			t.Errorf("Slugify(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestHTTPSource_FetchAndCache(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.URL.Path != "/aram/winrates/ziggs" {
			http.NotFound(w, r)
			return
		}
		_ = json.NewEncoder(w).Encode(winRateResponse{Champion: "Ziggs", WinRate: 53.4})
	}))
	defer srv.Close()

	src := NewHTTPSource(srv.URL, time.Second, nil)

	wr, err := src.WinRate(context.Background(), "Ziggs")
	if err != nil {
		t.Fatalf("WinRate error: %v", err)
	}
	if wr != 53.4 {
		t.Fatalf("win rate = %v, want 53.4", wr)
	}

	// Second call is served from cache.
	if _, err := src.WinRate(context.Background(), "Ziggs"); err != nil {
		t.Fatalf("cached WinRate error: %v", err)
	}
	if calls != 1 {
		t.Fatalf("endpoint called %d times, want 1", calls)
	}
}

func TestHTTPSource_NotFoundIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	src := NewHTTPSource(srv.URL, time.Second, nil)
	if _, err := src.WinRate(context.Background(), "Nobody"); err == nil {
		t.Fatal("expected error for missing champion")
	}
}

func TestStaticSource(t *testing.T) {
	src := &StaticSource{Rates: map[string]float64{"Ashe": 51.0}}

	wr, err := src.WinRate(context.Background(), "Ashe")
	if err != nil || wr != 51.0 {
		t.Fatalf("WinRate = %v, %v; want 51.0, nil", wr, err)
	}
	if _, err := src.WinRate(context.Background(), "Ziggs"); err == nil {
		t.Fatal("expected error for absent champion")
	}
}
