// Package sidereal computes Greenwich and local mean sidereal time.
package sidereal

import (
	"fmt"
	"math"
	"strings"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"
)

// j2000 is the Julian Date of the J2000.0 epoch (January 1, 2000, 12:00:00 TT).
const j2000 = 2451545.0

// OmegaEarth is Earth's rotation rate in rad/s (IAU value).
const OmegaEarth = 7.292115146706979e-5

const twoPi = 2 * math.Pi

// Model selects the GMST implementation.
type Model string

const (
	// Satellite uses go-satellite's GSTimeFromDate for the whole second and
	// advances it at Earth's rotation rate for the sub-second remainder.
	Satellite Model = "satellite"
	// IAU82 evaluates the IAU-82 polynomial directly at nanosecond input.
	IAU82 Model = "iau82"
)

// DefaultModel is used when no model is configured.
const DefaultModel = Satellite

// ParseModel returns the model named s (case-insensitive).
func ParseModel(s string) (Model, error) {
	switch m := Model(strings.ToLower(strings.TrimSpace(s))); m {
	case Satellite, IAU82:
		return m, nil
	case "":
		return DefaultModel, nil
	default:
		return "", fmt.Errorf("unknown sidereal model %q (want %s or %s)", s, Satellite, IAU82)
	}
}

// GMST returns Greenwich Mean Sidereal Time in radians, in [0, 2π).
func (m Model) GMST(t time.Time) float64 {
	t = t.UTC()
	if m == IAU82 {
		return GMST(t)
	}
	g := satellite.GSTimeFromDate(t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), t.Second())
	return wrap(g + float64(t.Nanosecond())/1e9*OmegaEarth)
}

// JulianDate converts a time.Time (UTC) to Julian Date.
// Uses the standard astronomical algorithm valid for dates after March 1, 4801 BC.
func JulianDate(t time.Time) float64 {
	y := float64(t.Year())
	m := float64(t.Month())
	d := float64(t.Day())
	h := float64(t.Hour())
	min := float64(t.Minute())
	s := float64(t.Second()) + float64(t.Nanosecond())/1e9

	// Jan/Feb count as months 13/14 of the previous year.
	if m <= 2 {
		y -= 1
		m += 12
	}

	A := math.Floor(y / 100)
	B := 2 - A + math.Floor(A/4)

	jd := math.Floor(365.25*(y+4716)) + math.Floor(30.6001*(m+1)) + d + B - 1524.5
	jd += (h + min/60.0 + s/3600.0) / 24.0

	return jd
}

// GMST calculates Greenwich Mean Sidereal Time in radians for a given UTC time.
// Uses the IAU-82 model as described in Vallado "Fundamentals of Astrodynamics".
//
// Formula (Vallado Eq 3-47):
//
//	θ_GMST = 67310.54841 + (876600h + 8640184.812866)*T + 0.093104*T² - 6.2e-6*T³
//
// where T is Julian centuries of UT1 from J2000.0, result is in seconds of time.
// UT1 is approximated by UTC.
func GMST(t time.Time) float64 {
	jd := JulianDate(t.UTC())
	tUT1 := (jd - j2000) / 36525.0

	// 876600h = 3155760000 s.
	gmstSec := 67310.54841 +
		(3155760000.0+8640184.812866)*tUT1 +
		0.093104*tUT1*tUT1 -
		6.2e-6*tUT1*tUT1*tUT1

	gmstSec = math.Mod(gmstSec, 86400.0)
	if gmstSec < 0 {
		gmstSec += 86400.0
	}
	return gmstSec / 86400.0 * twoPi
}

func wrap(rad float64) float64 {
	rad = math.Mod(rad, twoPi)
	if rad < 0 {
		rad += twoPi
	}
	return rad
}
