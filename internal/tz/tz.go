// Package tz maps coordinates to IANA time zones and reports the invoking
// machine's configured zone.
package tz

import (
	"errors"
	"fmt"
	"time"
	_ "time/tzdata" // zone rules independent of the host's zoneinfo

	"github.com/bradfitz/latlong"
)

// ErrZoneNotFound is returned when no zone covers the coordinates or the zone
// database lacks the name.
var ErrZoneNotFound = errors.New("zone not found")

// Zone is a named IANA time zone.
type Zone struct {
	Name     string
	Location *time.Location
}

// Finder looks up the zone covering a coordinate.
type Finder struct{}

// NewFinder returns a Finder backed by the embedded latlong tables.
func NewFinder() *Finder {
	return &Finder{}
}

// ZoneAt returns the zone covering lat/lon (degrees).
func (f *Finder) ZoneAt(lat, lon float64) (Zone, error) {
	name := latlong.LookupZoneName(lat, lon)
	if name == "" {
		return Zone{}, fmt.Errorf("%w: lat=%v lon=%v", ErrZoneNotFound, lat, lon)
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return Zone{}, fmt.Errorf("%w: loading %s: %v", ErrZoneNotFound, name, err)
	}
	return Zone{Name: name, Location: loc}, nil
}

// Load returns the zone with the given IANA name.
func Load(name string) (Zone, error) {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return Zone{}, fmt.Errorf("%w: %s: %v", ErrZoneNotFound, name, err)
	}
	return Zone{Name: name, Location: loc}, nil
}
