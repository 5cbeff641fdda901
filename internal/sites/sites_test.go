package sites

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/star/ttool/internal/geocode"
)

const catalogSrc = `
site "gbt" {
  name      = "Green Bank Telescope"
  latitude  = 38.4331
  longitude = -79.8398
  timezone  = "America/New_York"
}

site "Mauna_Kea" {
  latitude  = 19.8207
  longitude = -155.4681
}
`

func TestParse(t *testing.T) {
	c, err := Parse([]byte(catalogSrc), "sites.hcl")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	tests := []struct {
		key  string
		want geocode.Place
	}{
		{"gbt", geocode.Place{Name: "Green Bank Telescope", Latitude: 38.4331, Longitude: -79.8398, Zone: "America/New_York"}},
		{"GBT", geocode.Place{Name: "Green Bank Telescope", Latitude: 38.4331, Longitude: -79.8398, Zone: "America/New_York"}},
		{" mauna_kea ", geocode.Place{Name: "Mauna_Kea", Latitude: 19.8207, Longitude: -155.4681}},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, ok := c.Lookup(tt.key)
			if !ok {
				t.Fatalf("Lookup(%q) missed", tt.key)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Lookup(%q) mismatch (-want +got):\n%s", tt.key, diff)
			}
		})
	}

	if diff := cmp.Diff([]string{"gbt", "mauna_kea"}, c.Keys()); diff != "" {
		t.Errorf("Keys mismatch (-want +got):\n%s", diff)
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		invalid bool
	}{
		{"latitude out of range", `site "x" {
  latitude  = 91
  longitude = 0
}`, true},
		{"longitude out of range", `site "x" {
  latitude  = 0
  longitude = -181
}`, true},
		{"unknown timezone", `site "x" {
  latitude  = 0
  longitude = 0
  timezone  = "Mars/Olympus_Mons"
}`, true},
		{"duplicate key", `
site "x" {
  latitude  = 0
  longitude = 0
}
site "X" {
  latitude  = 1
  longitude = 1
}`, true},
		{"missing longitude", `site "x" { latitude = 0 }`, false},
		{"syntax error", `site "x" {`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src), "bad.hcl")
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if got := errors.Is(err, ErrInvalidSite); got != tt.invalid {
				t.Errorf("errors.Is(err, ErrInvalidSite) = %v, want %v (err: %v)", got, tt.invalid, err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sites.hcl")
	if err := os.WriteFile(path, []byte(catalogSrc), 0644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, ok := c.Lookup("gbt"); !ok {
		t.Error("gbt missing after Load")
	}

	_, err = Load(filepath.Join(t.TempDir(), "absent.hcl"))
	if err == nil || !strings.Contains(err.Error(), "reading site catalog") {
		t.Errorf("Load of missing file error = %v", err)
	}
}

func TestCatalogGeocode(t *testing.T) {
	c, err := Parse([]byte(catalogSrc), "sites.hcl")
	if err != nil {
		t.Fatal(err)
	}

	p, err := c.Geocode(context.Background(), "Mauna_Kea")
	if err != nil {
		t.Fatalf("Geocode: %v", err)
	}
	if p.Latitude != 19.8207 {
		t.Errorf("Latitude = %v", p.Latitude)
	}

	if _, err := c.Geocode(context.Background(), "London"); !errors.Is(err, geocode.ErrNotFound) {
		t.Errorf("error = %v, want geocode.ErrNotFound", err)
	}
}
