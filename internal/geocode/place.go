// Package geocode resolves free-text place names to coordinates.
package geocode

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a geocoder has no match for a query.
var ErrNotFound = errors.New("location not found")

// Place is a geocoded location.
type Place struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
	// Zone is the IANA zone when the source knows it; empty otherwise.
	Zone string `json:"zone,omitempty"`
}

// Geocoder resolves a query to a Place.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (Place, error)
}
