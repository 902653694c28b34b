package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/austinxramos/ncbi-api-client/pkg/cache/sqlite"
	"github.com/austinxramos/ncbi-api-client/pkg/models"
)

const stubSearchBody = `{"esearchresult":{"count":"42","retmax":"5","retstart":"0","idlist":["1","2","3","4","5"]}}`

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.New(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatal(err)
	}
	return store
}

func TestESearchCoercesNumericStrings(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(stubSearchBody))
	}))
	defer backend.Close()

	c := newTestClient(t, backend)

	result, err := c.ESearch(context.Background(), "pubmed", "test", &SearchOptions{Retmax: 5})
	if err != nil {
		t.Fatal(err)
	}
	if result.Count != 42 {
		t.Errorf("expected count 42 as int, got %d", result.Count)
	}
	if result.Retmax != 5 || result.Retstart != 0 {
		t.Errorf("unexpected retmax/retstart: %d/%d", result.Retmax, result.Retstart)
	}
	if len(result.IDList) != 5 {
		t.Errorf("expected 5 ids, got %v", result.IDList)
	}
}

func TestESearchRequestParams(t *testing.T) {
	var gotQuery atomic.Value
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery.Store(r.URL.Query())
		w.Write([]byte(stubSearchBody))
	}))
	defer backend.Close()

	c := newTestClient(t, backend)

	_, err := c.ESearch(context.Background(), "pubmed", "microbial ecology", &SearchOptions{
		Retmax: 100,
		Sort:   "pub_date",
		Extra:  map[string]string{"field": "title"},
	})
	if err != nil {
		t.Fatal(err)
	}

	q := gotQuery.Load().(url.Values)
	for param, want := range map[string]string{
		"db":      "pubmed",
		"term":    "microbial ecology",
		"retmax":  "100",
		"retmode": "json",
		"sort":    "pub_date",
		"field":   "title",
	} {
		if got := q.Get(param); got != want {
			t.Errorf("param %s: got %q, want %q", param, got, want)
		}
	}
}

func TestESearchServesFromCache(t *testing.T) {
	var calls atomic.Int64
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(stubSearchBody))
	}))
	defer backend.Close()

	c := newTestClient(t, backend, WithCache(newTestStore(t)), WithCacheMaxAge(time.Hour))

	for i := 0; i < 3; i++ {
		result, err := c.ESearch(context.Background(), "pubmed", "test", &SearchOptions{Retmax: 5})
		if err != nil {
			t.Fatal(err)
		}
		if result.Count != 42 {
			t.Errorf("call %d: unexpected count %d", i, result.Count)
		}
	}

	if calls.Load() != 1 {
		t.Errorf("expected 1 live request, got %d", calls.Load())
	}
}

func TestESearchSkipCache(t *testing.T) {
	var calls atomic.Int64
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(stubSearchBody))
	}))
	defer backend.Close()

	c := newTestClient(t, backend, WithCache(newTestStore(t)))

	for i := 0; i < 2; i++ {
		if _, err := c.ESearch(context.Background(), "pubmed", "test", &SearchOptions{SkipCache: true}); err != nil {
			t.Fatal(err)
		}
	}

	if calls.Load() != 2 {
		t.Errorf("expected 2 live requests with cache skipped, got %d", calls.Load())
	}
}

func TestESearchCacheFailureFallsThrough(t *testing.T) {
	var calls atomic.Int64
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(stubSearchBody))
	}))
	defer backend.Close()

	store := newTestStore(t)
	store.Close() // every cache operation now fails

	c := newTestClient(t, backend, WithCache(store))

	result, err := c.ESearch(context.Background(), "pubmed", "test", nil)
	if err != nil {
		t.Fatalf("cache failure must not fail the search: %v", err)
	}
	if result.Count != 42 {
		t.Errorf("unexpected count %d", result.Count)
	}
	if calls.Load() != 1 {
		t.Errorf("expected the live request to proceed, got %d calls", calls.Load())
	}
}

func TestESearchCorruptCachedPayloadRefetched(t *testing.T) {
	var calls atomic.Int64
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(stubSearchBody))
	}))
	defer backend.Close()

	store := newTestStore(t)
	c := newTestClient(t, backend, WithCache(store))

	// Seed the cache with an undecodable payload under the exact params
	// ESearch will build.
	params := map[string]string{
		"db":       "pubmed",
		"term":     "test",
		"retmax":   "5",
		"retstart": "0",
		"retmode":  "json",
	}
	if err := store.Set("search", params, []byte("garbage")); err != nil {
		t.Fatal(err)
	}

	result, err := c.ESearch(context.Background(), "pubmed", "test", &SearchOptions{Retmax: 5})
	if err != nil {
		t.Fatalf("corrupt cache entry must read as a miss: %v", err)
	}
	if result.Count != 42 {
		t.Errorf("unexpected count %d", result.Count)
	}
	if calls.Load() != 1 {
		t.Errorf("expected a live refetch, got %d calls", calls.Load())
	}
}

func TestESearchMalformedResponse(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"unexpected":"shape"}`))
	}))
	defer backend.Close()

	c := newTestClient(t, backend)

	_, err := c.ESearch(context.Background(), "pubmed", "test", nil)

	var vErr *models.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected *models.ValidationError, got %v", err)
	}
}
