package sidereal

import (
	"fmt"
	"math"
	"time"
)

// Angle is a sidereal angle in radians.
type Angle float64

// Hours returns the angle in hours of right ascension.
func (a Angle) Hours() float64 {
	return float64(a) * 12 / math.Pi
}

// String formats the angle as H:MM:SS.ss, rounded to the centisecond.
func (a Angle) String() string {
	const day = 24 * 3600 * 100
	cs := int64(math.Round(a.Hours() * 3600 * 100))
	cs %= day
	if cs < 0 {
		cs += day
	}
	h := cs / 360000
	m := cs / 6000 % 60
	s := cs / 100 % 60
	return fmt.Sprintf("%d:%02d:%02d.%02d", h, m, s, cs%100)
}

// LST returns the local mean sidereal time at east longitude lonDeg.
func LST(m Model, lonDeg float64, t time.Time) Angle {
	return Angle(wrap(m.GMST(t) + lonDeg*math.Pi/180))
}
