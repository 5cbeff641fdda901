package timescale

import (
	"fmt"
	"strings"
	"time"
)

// Scale is the time scale a calendar or day-count value is read in.
type Scale string

const (
	UTC Scale = "UTC"
	TAI Scale = "TAI"
	TT  Scale = "TT"
)

// Scale returns the scale a value in f is natively expressed in. Epoch and
// Chandra values are TT, GPS seconds are TAI and everything else is UTC.
func (f Format) Scale() Scale {
	switch f {
	case JYear, BYear, CXCSec, JYearStr, BYearStr:
		return TT
	case GPS:
		return TAI
	default:
		return UTC
	}
}

// scaleDependent reports whether f renders differently per scale. Epoch,
// GPS, Chandra and Unix values are fixed to their own scale.
func (f Format) scaleDependent() bool {
	switch f {
	case JD, MJD, DecimalYear, ISO, ISOT, FITS, YDay:
		return true
	default:
		return false
	}
}

func parseScale(tag string) (Scale, error) {
	switch s := Scale(strings.ToUpper(tag)); s {
	case "", UTC:
		return UTC, nil
	case TAI, TT:
		return s, nil
	default:
		return "", fmt.Errorf("unsupported FITS time scale %q", tag)
	}
}

// offset returns s minus UTC at the UTC instant t.
func (s Scale) offset(t time.Time) time.Duration {
	switch s {
	case TAI:
		return time.Duration(leapOffsetUTC(t.Unix())) * time.Second
	case TT:
		return time.Duration(leapOffsetUTC(t.Unix()))*time.Second + ttMinusTAIDuration
	default:
		return 0
	}
}

// Instant is a UTC moment together with the scale it is displayed in.
type Instant struct {
	Time  time.Time
	Scale Scale
}

// wall returns the instant's reading on its own scale, expressed as a UTC
// time.Time so the calendar codecs can format it.
func (i Instant) wall() time.Time {
	return i.Time.Add(i.Scale.offset(i.Time))
}
