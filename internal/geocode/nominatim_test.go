package geocode

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

var testLogger = slog.New(slog.NewJSONHandler(io.Discard, nil))

// TestNominatimSuccess verifies the request shape and decoding of the first match.
func TestNominatimSuccess(t *testing.T) {
	var gotPath, gotQuery, gotFormat, gotLimit, gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("q")
		gotFormat = r.URL.Query().Get("format")
		gotLimit = r.URL.Query().Get("limit")
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"display_name":"London, Greater London, England, United Kingdom","lat":"51.5073219","lon":"-0.1276474"}]`))
	}))
	defer server.Close()

	n := NewNominatim(NominatimConfig{BaseURL: server.URL, UserAgent: "ttool-test"}, testLogger)
	p, err := n.Geocode(context.Background(), "London")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != "/search" {
		t.Errorf("path = %q, want /search", gotPath)
	}
	if gotQuery != "London" || gotFormat != "jsonv2" || gotLimit != "1" {
		t.Errorf("query params = q=%q format=%q limit=%q", gotQuery, gotFormat, gotLimit)
	}
	if gotUA != "ttool-test" {
		t.Errorf("User-Agent = %q, want ttool-test", gotUA)
	}
	if p.Name != "London, Greater London, England, United Kingdom" {
		t.Errorf("Name = %q", p.Name)
	}
	if p.Latitude != 51.5073219 || p.Longitude != -0.1276474 {
		t.Errorf("coords = (%v, %v)", p.Latitude, p.Longitude)
	}
}

func TestNominatimNoResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	n := NewNominatim(NominatimConfig{BaseURL: server.URL}, testLogger)
	_, err := n.Geocode(context.Background(), "Nowhereville Zzzz")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

// TestNominatimHTTPError verifies error handling for non-200 responses.
func TestNominatimHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	n := NewNominatim(NominatimConfig{BaseURL: server.URL}, testLogger)
	_, err := n.Geocode(context.Background(), "London")
	if err == nil {
		t.Fatal("expected error for 500 response, got nil")
	}
	if errors.Is(err, ErrNotFound) {
		t.Errorf("server failure reported as not found: %v", err)
	}
	if !strings.Contains(err.Error(), server.URL) {
		t.Errorf("error %q does not name the geocoder %s", err, server.URL)
	}
}

// TestNominatimBodyLimit verifies that oversized responses return an error
// instead of consuming unbounded memory.
func TestNominatimBodyLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		chunk := strings.Repeat("A", 256*1024)
		for i := 0; i < 6; i++ {
			if _, err := w.Write([]byte(chunk)); err != nil {
				return
			}
		}
	}))
	defer server.Close()

	n := NewNominatim(NominatimConfig{BaseURL: server.URL}, testLogger)
	_, err := n.Geocode(context.Background(), "London")
	if err == nil {
		t.Fatal("expected error for oversized response, got nil")
	}
	if !strings.Contains(err.Error(), "byte limit") {
		t.Errorf("expected body limit error, got: %v", err)
	}
}

func TestNominatimBadCoordinates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"display_name":"x","lat":"north","lon":"0"}]`))
	}))
	defer server.Close()

	n := NewNominatim(NominatimConfig{BaseURL: server.URL}, testLogger)
	if _, err := n.Geocode(context.Background(), "x"); err == nil {
		t.Fatal("expected error for non-numeric latitude")
	}
}

func TestNominatimContextCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	n := NewNominatim(NominatimConfig{BaseURL: server.URL}, testLogger)
	_, err := n.Geocode(ctx, "London")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}
