// Package sun reports the Sun's position and the day's sunrise and sunset
// for an observer.
package sun

import (
	"math"
	"time"

	"github.com/nathan-osman/go-sunrise"
	"github.com/sixdouglas/suncalc"
)

// Report is the Sun's state at an instant for one observer.
type Report struct {
	AltitudeDeg float64
	// AzimuthDeg is measured clockwise from north.
	AzimuthDeg float64
	// Sunrise and Sunset are in the instant's zone and zero when the Sun
	// does not cross the horizon that day.
	Sunrise time.Time
	Sunset  time.Time
}

// Polar reports whether the Sun stays above or below the horizon all day.
func (r Report) Polar() bool {
	return r.Sunrise.IsZero() || r.Sunset.IsZero()
}

// At computes the report for latDeg/lonDeg at t. The sunrise and sunset are
// for t's calendar date in t's zone.
func At(latDeg, lonDeg float64, t time.Time) Report {
	pos := suncalc.GetPosition(t, latDeg, lonDeg)

	// suncalc measures azimuth from south, westward.
	az := math.Mod(pos.Azimuth*180/math.Pi+180, 360)
	if az < 0 {
		az += 360
	}

	r := Report{
		AltitudeDeg: pos.Altitude * 180 / math.Pi,
		AzimuthDeg:  az,
	}

	rise, set := sunrise.SunriseSunset(latDeg, lonDeg, t.Year(), t.Month(), t.Day())
	if !rise.IsZero() && !set.IsZero() {
		r.Sunrise = rise.In(t.Location())
		r.Sunset = set.In(t.Location())
	}
	return r
}
