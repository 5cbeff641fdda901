package locate

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/star/ttool/internal/geocode"
	"github.com/star/ttool/internal/sidereal"
	"github.com/star/ttool/internal/tz"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type mapGeocoder map[string]geocode.Place

func (m mapGeocoder) Geocode(_ context.Context, q string) (geocode.Place, error) {
	p, ok := m[q]
	if !ok {
		return geocode.Place{}, geocode.ErrNotFound
	}
	return p, nil
}

type failingZones struct{}

func (failingZones) ZoneAt(lat, lon float64) (tz.Zone, error) {
	return tz.Zone{}, tz.ErrZoneNotFound
}

func tokyoLocal() tz.Zone {
	z, _ := tz.Load("Asia/Tokyo")
	return z
}

func TestIsLocalAlias(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"local", true},
		{"HERE", true},
		{" Me ", true},
		{"London", false},
		{"", false},
		{"localhost", false},
	}
	for _, tt := range tests {
		if got := IsLocalAlias(tt.in); got != tt.want {
			t.Errorf("IsLocalAlias(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestResolveGeocoded(t *testing.T) {
	g := mapGeocoder{"London": {Name: "London, UK", Latitude: 51.5074, Longitude: -0.1278}}
	r := NewResolver(g, tz.NewFinder(), tokyoLocal, testLogger)

	loc, err := r.Resolve(context.Background(), "London")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if loc.Local {
		t.Error("geocoded location marked local")
	}
	if loc.Name != "London, UK" || loc.Observer.LatDeg != 51.5074 || loc.Observer.LonDeg != -0.1278 {
		t.Errorf("unexpected location %+v", loc)
	}
	if loc.Zone.Name != "Europe/London" {
		t.Errorf("Zone = %q, want Europe/London", loc.Zone.Name)
	}
}

func TestResolvePlaceZoneWins(t *testing.T) {
	g := mapGeocoder{"gbt": {Name: "Green Bank", Latitude: 38.4331, Longitude: -79.8398, Zone: "America/Chicago"}}
	r := NewResolver(g, failingZones{}, tokyoLocal, testLogger)

	loc, err := r.Resolve(context.Background(), "gbt")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if loc.Zone.Name != "America/Chicago" {
		t.Errorf("Zone = %q, want America/Chicago", loc.Zone.Name)
	}
}

func TestResolveLocalAlias(t *testing.T) {
	r := NewResolver(mapGeocoder{}, failingZones{}, tokyoLocal, testLogger)

	for _, q := range []string{"local", "Here", "ME"} {
		loc, err := r.Resolve(context.Background(), q)
		if err != nil {
			t.Fatalf("Resolve(%q): %v", q, err)
		}
		if !loc.Local {
			t.Errorf("Resolve(%q).Local = false", q)
		}
		if loc.Zone.Name != "Asia/Tokyo" {
			t.Errorf("Resolve(%q).Zone = %q, want Asia/Tokyo", q, loc.Zone.Name)
		}
		if got := time.Date(2024, 1, 1, 0, 0, 0, 0, loc.Zone.Location).Format("-07:00"); got != "+09:00" {
			t.Errorf("offset = %s, want +09:00", got)
		}
	}
}

func TestResolveErrors(t *testing.T) {
	g := mapGeocoder{
		"Null Island": {Name: "Null Island"},
		"Nowhere":     {Name: "Nowhere", Latitude: 123, Longitude: 10},
		"Far East":    {Name: "Far East", Latitude: 10, Longitude: 200, Zone: "Asia/Tokyo"},
	}

	r := NewResolver(g, tz.NewFinder(), tokyoLocal, testLogger)
	if _, err := r.Resolve(context.Background(), "Atlantis"); !errors.Is(err, geocode.ErrNotFound) {
		t.Errorf("unknown place error = %v, want geocode.ErrNotFound", err)
	}

	r = NewResolver(g, failingZones{}, tokyoLocal, testLogger)
	if _, err := r.Resolve(context.Background(), "Null Island"); !errors.Is(err, tz.ErrZoneNotFound) {
		t.Errorf("zone failure error = %v, want tz.ErrZoneNotFound", err)
	}

	for _, q := range []string{"Nowhere", "Far East"} {
		if _, err := r.Resolve(context.Background(), q); !errors.Is(err, sidereal.ErrInvalidCoordinate) {
			t.Errorf("Resolve(%q) error = %v, want sidereal.ErrInvalidCoordinate", q, err)
		}
	}
}
