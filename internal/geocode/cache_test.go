package geocode

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestCacheRoundTrip(t *testing.T) {
	c := NewCache(t.TempDir(), time.Hour, 10)
	want := Place{Name: "Tokyo, Japan", Latitude: 35.6768601, Longitude: 139.7638947}

	if err := c.Put("Tokyo", want); err != nil {
		t.Fatalf("Put: %v", err)
	}

	// Case and spacing variants share an entry.
	got, ok, err := c.Get("  tokyo ")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatal("expected cache hit")
	}
	if got != want {
		t.Errorf("Get = %+v, want %+v", got, want)
	}
}

func TestCacheMissingDir(t *testing.T) {
	c := NewCache(filepath.Join(t.TempDir(), "absent"), time.Hour, 10)
	_, ok, err := c.Get("London")
	if err != nil || ok {
		t.Errorf("Get on missing dir = (%v, %v), want miss without error", ok, err)
	}
}

func TestCacheExpiry(t *testing.T) {
	c := NewCache(t.TempDir(), time.Hour, 10)
	base := time.Date(2024, 4, 8, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return base }

	if err := c.Put("Paris", Place{Name: "Paris"}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	c.now = func() time.Time { return base.Add(59 * time.Minute) }
	if _, ok, _ := c.Get("Paris"); !ok {
		t.Error("expected hit before maxAge")
	}

	c.now = func() time.Time { return base.Add(61 * time.Minute) }
	if _, ok, _ := c.Get("Paris"); ok {
		t.Error("expected miss after maxAge")
	}
}

func TestCachePrune(t *testing.T) {
	dir := t.TempDir()
	c := NewCache(dir, time.Hour, 2)

	queries := []string{"a", "b", "c"}
	for i, q := range queries {
		if err := c.Put(q, Place{Name: q}); err != nil {
			t.Fatalf("Put(%q): %v", q, err)
		}
		// Spread mod times so pruning order is deterministic.
		mt := time.Now().Add(time.Duration(i-len(queries)) * time.Minute)
		if err := os.Chtimes(filepath.Join(dir, cacheKey(q)), mt, mt); err != nil {
			t.Fatal(err)
		}
	}
	if err := c.prune(); err != nil {
		t.Fatalf("prune: %v", err)
	}

	files, err := c.listFiles()
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 files after prune, got %d", len(files))
	}
	if _, ok, _ := c.Get("a"); ok {
		t.Error("oldest entry should have been pruned")
	}
	if _, ok, _ := c.Get("c"); !ok {
		t.Error("newest entry should remain")
	}
}

type stubGeocoder struct {
	places map[string]Place
	err    error
	calls  int
}

func (s *stubGeocoder) Geocode(_ context.Context, query string) (Place, error) {
	s.calls++
	if s.err != nil {
		return Place{}, s.err
	}
	p, ok := s.places[query]
	if !ok {
		return Place{}, ErrNotFound
	}
	return p, nil
}

func TestCachedGeocoder(t *testing.T) {
	stub := &stubGeocoder{places: map[string]Place{"Oslo": {Name: "Oslo, Norway", Latitude: 59.91, Longitude: 10.75}}}
	hits := 0
	g := NewCached(stub, NewCache(t.TempDir(), time.Hour, 10), func() { hits++ }, testLogger)

	for i := 0; i < 3; i++ {
		p, err := g.Geocode(context.Background(), "Oslo")
		if err != nil {
			t.Fatalf("Geocode: %v", err)
		}
		if p.Name != "Oslo, Norway" {
			t.Errorf("Name = %q", p.Name)
		}
	}
	if stub.calls != 1 {
		t.Errorf("upstream calls = %d, want 1", stub.calls)
	}
	if hits != 2 {
		t.Errorf("cache hits = %d, want 2", hits)
	}

	if _, err := g.Geocode(context.Background(), "Atlantis"); !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestChain(t *testing.T) {
	first := &stubGeocoder{places: map[string]Place{"home": {Name: "Home"}}}
	second := &stubGeocoder{places: map[string]Place{"Oslo": {Name: "Oslo"}}}
	ch := Chain{first, second}

	p, err := ch.Geocode(context.Background(), "home")
	if err != nil || p.Name != "Home" {
		t.Errorf("home = (%+v, %v)", p, err)
	}
	if second.calls != 0 {
		t.Errorf("second geocoder called %d times for a first-level match", second.calls)
	}

	p, err = ch.Geocode(context.Background(), "Oslo")
	if err != nil || p.Name != "Oslo" {
		t.Errorf("Oslo = (%+v, %v)", p, err)
	}

	if _, err := ch.Geocode(context.Background(), "Atlantis"); !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestChainStopsOnHardError(t *testing.T) {
	boom := errors.New("upstream down")
	first := &stubGeocoder{err: boom}
	second := &stubGeocoder{places: map[string]Place{"Oslo": {Name: "Oslo"}}}

	_, err := Chain{first, second}.Geocode(context.Background(), "Oslo")
	if !errors.Is(err, boom) {
		t.Errorf("error = %v, want %v", err, boom)
	}
	if second.calls != 0 {
		t.Error("chain continued past a non-not-found error")
	}
}
