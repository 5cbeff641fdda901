package sidereal

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidCoordinate is returned for latitudes or longitudes out of range.
var ErrInvalidCoordinate = errors.New("invalid coordinate")

// Observer is a ground position in geodetic degrees.
type Observer struct {
	LatDeg, LonDeg float64
}

// NewObserver validates latitude in [-90, 90] and longitude in [-180, 180].
// NaN is rejected.
func NewObserver(latDeg, lonDeg float64) (Observer, error) {
	if !(latDeg >= -90 && latDeg <= 90) {
		return Observer{}, fmt.Errorf("%w: latitude %v", ErrInvalidCoordinate, latDeg)
	}
	if !(lonDeg >= -180 && lonDeg <= 180) {
		return Observer{}, fmt.Errorf("%w: longitude %v", ErrInvalidCoordinate, lonDeg)
	}
	return Observer{LatDeg: latDeg, LonDeg: lonDeg}, nil
}

// LST returns the observer's local mean sidereal time at t.
func (o Observer) LST(m Model, t time.Time) Angle {
	return LST(m, o.LonDeg, t)
}
