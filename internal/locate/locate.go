// Package locate turns a location argument into coordinates and a time zone.
package locate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/star/ttool/internal/geocode"
	"github.com/star/ttool/internal/sidereal"
	"github.com/star/ttool/internal/tz"
)

var localAliases = map[string]bool{
	"local": true,
	"here":  true,
	"me":    true,
}

// IsLocalAlias reports whether s names the invoking machine's zone.
func IsLocalAlias(s string) bool {
	return localAliases[strings.ToLower(strings.TrimSpace(s))]
}

// Location is a resolved location argument. For local aliases only Query,
// Zone and Local are set.
type Location struct {
	Query    string
	Name     string
	Observer sidereal.Observer
	Zone     tz.Zone
	Local    bool
}

// ZoneFinder maps coordinates to a zone.
type ZoneFinder interface {
	ZoneAt(lat, lon float64) (tz.Zone, error)
}

// Resolver resolves location arguments.
type Resolver struct {
	geocoder geocode.Geocoder
	zones    ZoneFinder
	local    func() tz.Zone
	logger   *slog.Logger
}

// NewResolver creates a Resolver. local supplies the machine zone for aliases.
func NewResolver(g geocode.Geocoder, zones ZoneFinder, local func() tz.Zone, logger *slog.Logger) *Resolver {
	return &Resolver{
		geocoder: g,
		zones:    zones,
		local:    local,
		logger:   logger,
	}
}

// Resolve geocodes query and finds its zone. A zone supplied by the geocoder
// (site catalogs) takes precedence over the coordinate lookup.
func (r *Resolver) Resolve(ctx context.Context, query string) (Location, error) {
	if IsLocalAlias(query) {
		z := r.local()
		r.logger.Debug("using local zone", "component", "locate", "query", query, "zone", z.Name)
		return Location{Query: query, Zone: z, Local: true}, nil
	}

	p, err := r.geocoder.Geocode(ctx, query)
	if err != nil {
		return Location{}, fmt.Errorf("resolving location %q: %w", query, err)
	}
	obs, err := sidereal.NewObserver(p.Latitude, p.Longitude)
	if err != nil {
		return Location{}, fmt.Errorf("location %q: %w", query, err)
	}

	var z tz.Zone
	if p.Zone != "" {
		z, err = tz.Load(p.Zone)
	} else {
		z, err = r.zones.ZoneAt(obs.LatDeg, obs.LonDeg)
	}
	if err != nil {
		return Location{}, fmt.Errorf("time zone for %q: %w", query, err)
	}

	r.logger.Debug("resolved location",
		"component", "locate",
		"query", query,
		"name", p.Name,
		"lat", obs.LatDeg,
		"lon", obs.LonDeg,
		"zone", z.Name,
	)

	return Location{
		Query:    query,
		Name:     p.Name,
		Observer: obs,
		Zone:     z,
	}, nil
}
