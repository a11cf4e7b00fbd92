package session

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tidwall/gjson"
)

func TestRefreshSingleFlight(t *testing.T) {
	t.Parallel()
	var refreshCalls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&refreshCalls, 1)
		// Hold the flight open long enough for every caller to join it.
		time.Sleep(100 * time.Millisecond)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"token": "fresh"})
	}))
	defer srv.Close()

	client := newTestClient(t, srv, "stale")

	const callers = 8
	results := make([]bool, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = client.Refresh(context.Background())
		}(i)
	}
	wg.Wait()

	if got := atomic.LoadInt32(&refreshCalls); got != 1 {
		t.Fatalf("refresh endpoint hit %d times for %d concurrent callers, want 1", got, callers)
	}
	for i, ok := range results {
		if !ok {
			t.Errorf("caller %d observed failure, want shared success", i)
		}
	}
	if got := client.Store().Token(); got != "fresh" {
		t.Errorf("stored token = %q, want %q", got, "fresh")
	}
}

func TestRefreshFlightClearsAfterSettling(t *testing.T) {
	t.Parallel()
	var refreshCalls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&refreshCalls, 1)
		w.Header().Set("Content-Type", "application/json")
		if n == 1 {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"token": "second-wind"})
	}))
	defer srv.Close()

	client := newTestClient(t, srv, "stale")

	if client.Refresh(context.Background()) {
		t.Fatal("first refresh should fail")
	}
	if !client.Refresh(context.Background()) {
		t.Fatal("second refresh should start a new flight and succeed")
	}
	if got := atomic.LoadInt32(&refreshCalls); got != 2 {
		t.Fatalf("refresh endpoint hit %d times, want 2 sequential flights", got)
	}
}

func TestRefreshSendsStoredRememberPreference(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		remember bool
	}{
		{"remembered session", true},
		{"tab-scoped session", false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var gotRemember atomic.Bool
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				body, _ := io.ReadAll(r.Body)
				gotRemember.Store(gjson.GetBytes(body, "remember").Bool())
				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(map[string]string{"token": "fresh"})
			}))
			defer srv.Close()

			client := newTestClient(t, srv, "")
			client.Store().SetToken("stale", tt.remember, true)

			if !client.Refresh(context.Background()) {
				t.Fatal("refresh failed")
			}
			if gotRemember.Load() != tt.remember {
				t.Errorf("refresh body remember = %v, want %v", gotRemember.Load(), tt.remember)
			}
			// The fresh token must land in the tier the stale one occupied.
			token, remember := client.Store().StoredToken()
			if token != "fresh" || remember != tt.remember {
				t.Errorf("StoredToken() = (%q, %v), want (%q, %v)", token, remember, "fresh", tt.remember)
			}
		})
	}
}

func TestRefreshFailsOnMissingTokenField(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv, "stale")
	if client.Refresh(context.Background()) {
		t.Fatal("refresh succeeded despite missing token field")
	}
	if got := client.Store().Token(); got != "stale" {
		t.Errorf("token changed to %q on failed refresh", got)
	}
}

func TestConcurrent401sShareOneRefresh(t *testing.T) {
	t.Parallel()
	var refreshCalls int32
	mux := http.NewServeMux()
	mux.HandleFunc("/api/token/refresh", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&refreshCalls, 1)
		time.Sleep(100 * time.Millisecond)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"token": "fresh"})
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer fresh" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"path":"` + r.URL.Path + `"}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := newTestClient(t, srv, "stale")

	paths := []string{"/api/menu", "/api/events", "/api/drinks"}
	errs := make([]error, len(paths))
	var wg sync.WaitGroup
	for i, path := range paths {
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			_, errs[i] = client.Do(context.Background(), http.MethodGet, path, nil)
		}(i, path)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("request %s failed after shared refresh: %v", paths[i], err)
		}
	}
	if got := atomic.LoadInt32(&refreshCalls); got != 1 {
		t.Errorf("refresh endpoint hit %d times for 3 concurrent 401s, want 1", got)
	}
}
