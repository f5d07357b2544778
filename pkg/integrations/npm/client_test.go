package npm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mvilhena/depsense/pkg/kvstore"
)

const expressBody = `{
  "name": "express",
  "dist-tags": {"latest": "4.18.2"},
  "description": "Fast, unopinionated, minimalist web framework",
  "homepage": "http://expressjs.com/"
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *kvstore.MemoryStore) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	store := kvstore.NewMemoryStore()
	client := NewClient(store, Options{BaseURL: srv.URL, Timeout: time.Second})
	return client, store
}

func TestFetchDetails_Success(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/express" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(expressBody))
	})

	got := client.FetchDetails(context.Background(), "express")
	if got.Version != "4.18.2" {
		t.Errorf("Version = %q", got.Version)
	}
	if got.Description != "Fast, unopinionated, minimalist web framework" {
		t.Errorf("Description = %q", got.Description)
	}
	if got.Homepage != "http://expressjs.com/" {
		t.Errorf("Homepage = %q", got.Homepage)
	}
}

func TestFetchDetails_MemoHit(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(expressBody))
	})

	ctx := context.Background()
	client.FetchDetails(ctx, "express")
	client.FetchDetails(ctx, "express")
	client.FetchDetails(ctx, "Express ") // normalized to the same key

	if got := calls.Load(); got != 1 {
		t.Errorf("registry hit %d times, want 1 (memo miss only)", got)
	}
}

func TestFetchDetails_FallsBackToDurableStore(t *testing.T) {
	client, store := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	})

	stored := Details{Name: "express", Version: "4.17.0", Description: "old record", Homepage: "http://expressjs.com/"}
	if err := kvstore.SetJSON(context.Background(), store, "npm:express", stored, 0); err != nil {
		t.Fatal(err)
	}

	got := client.FetchDetails(context.Background(), "express")
	if got != stored {
		t.Errorf("FetchDetails = %+v, want durable record %+v", got, stored)
	}
}

func TestFetchDetails_SentinelWhenNothingCached(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	})

	got := client.FetchDetails(context.Background(), "no-such-package")
	if got.Version != SentinelVersion {
		t.Errorf("Version = %q, want %q", got.Version, SentinelVersion)
	}
	if got.Description != SentinelDescription {
		t.Errorf("Description = %q, want %q", got.Description, SentinelDescription)
	}
	if got.Homepage != "https://www.npmjs.com/package/no-such-package" {
		t.Errorf("Homepage = %q", got.Homepage)
	}
}

func TestFetchDetails_SuccessPersistsToStore(t *testing.T) {
	client, store := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(expressBody))
	})

	client.FetchDetails(context.Background(), "express")

	var persisted Details
	ok, err := kvstore.GetJSON(context.Background(), store, "npm:express", &persisted)
	if err != nil || !ok {
		t.Fatalf("durable record missing: ok=%v err=%v", ok, err)
	}
	if persisted.Version != "4.18.2" {
		t.Errorf("persisted Version = %q", persisted.Version)
	}
}

func TestFetchDetails_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "flaky", http.StatusInternalServerError)
			return
		}
		w.Write([]byte(expressBody))
	}))
	t.Cleanup(srv.Close)

	// Roomy timeout: the retry backoff (500ms, then 1s) must fit inside it.
	client := NewClient(kvstore.NewMemoryStore(), Options{BaseURL: srv.URL, Timeout: 10 * time.Second})

	got := client.FetchDetails(context.Background(), "express")
	if got.Version != "4.18.2" {
		t.Errorf("Version = %q after retries", got.Version)
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}
}

func TestFetchDetails_NotFoundNotRetried(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "nope", http.StatusNotFound)
	})

	client.FetchDetails(context.Background(), "ghost")
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1 (404 is permanent)", calls.Load())
	}
}

func TestFetchDetails_TimeoutFallsBackToSentinel(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	t.Cleanup(func() { close(release); srv.Close() })

	client := NewClient(kvstore.NewMemoryStore(), Options{
		BaseURL: srv.URL,
		Timeout: 20 * time.Millisecond,
	})

	start := time.Now()
	got := client.FetchDetails(context.Background(), "slowpkg")
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("lookup stalled %s despite timeout", elapsed)
	}
	if got.Version != SentinelVersion {
		t.Errorf("Version = %q, want sentinel after timeout", got.Version)
	}
}

func TestFetchDetails_FallbackNotMemoized(t *testing.T) {
	var calls atomic.Int32
	// 404 on the first request: permanent, not retried, not memoized.
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "gone", http.StatusNotFound)
			return
		}
		w.Write([]byte(expressBody))
	})

	ctx := context.Background()
	first := client.FetchDetails(ctx, "express")
	if first.Version != SentinelVersion {
		t.Fatalf("first lookup = %+v, want sentinel", first)
	}

	// A later request retries the registry instead of serving the
	// degraded record forever.
	second := client.FetchDetails(ctx, "express")
	if second.Version != "4.18.2" {
		t.Errorf("second lookup = %+v, want fresh record", second)
	}
}

func TestSentinel(t *testing.T) {
	got := Sentinel("left-pad")
	want := Details{
		Name:        "left-pad",
		Version:     "unknown",
		Description: "unavailable",
		Homepage:    "https://www.npmjs.com/package/left-pad",
	}
	if got != want {
		t.Errorf("Sentinel() = %+v, want %+v", got, want)
	}
}
