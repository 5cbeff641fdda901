// Package timescale converts instants between astronomical time formats:
// day counts (JD, MJD), epochs (Julian, Besselian), second counts (Unix,
// GPS, Chandra) and calendar strings (ISO, FITS).
//
// Values keep the time scale of their input: a Julian epoch rendered as ISO
// shows TT, GPS seconds rendered as JD show TAI. A seconds field of 60 is
// accepted only on a leap second and reads as the first second of the
// following day.
package timescale

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownFormat is returned for a format code outside the supported set.
var ErrUnknownFormat = errors.New("unknown time format")

// Format is an astronomical time format code.
type Format string

const (
	MJD         Format = "mjd"
	JD          Format = "jd"
	Unix        Format = "unix"
	JYear       Format = "jyear"
	GPS         Format = "gps"
	DecimalYear Format = "decimalyear"
	CXCSec      Format = "cxcsec"
	BYear       Format = "byear"
	ISO         Format = "iso"
	ISOT        Format = "isot"
	FITS        Format = "fits"
	BYearStr    Format = "byear_str"
	JYearStr    Format = "jyear_str"
	YDay        Format = "yday"
)

// Default is the output format used when none is requested.
const Default = ISO

// decimalFormats and stringFormats are the formats accepted as conversion
// input. Their codes also switch the command line into format mode.
var (
	decimalFormats = []Format{MJD, JD, Unix, JYear, GPS, DecimalYear, CXCSec, BYear}
	stringFormats  = []Format{ISO, ISOT, FITS, BYearStr, JYearStr}
)

// InputFormats returns the recognized input format codes.
func InputFormats() []Format {
	out := make([]Format, 0, len(decimalFormats)+len(stringFormats))
	out = append(out, decimalFormats...)
	return append(out, stringFormats...)
}

// LookupInput reports whether code names a recognized input format.
// Matching ignores case and surrounding space.
func LookupInput(code string) (Format, bool) {
	f := Format(strings.ToLower(strings.TrimSpace(code)))
	for _, in := range InputFormats() {
		if in == f {
			return f, true
		}
	}
	return "", false
}

// ParseFormat resolves an output format code.
func ParseFormat(code string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(code)))
	if _, ok := codecs[f]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, code)
	}
	return f, nil
}

// Decimal reports whether values in f are plain numbers.
func (f Format) Decimal() bool {
	for _, d := range decimalFormats {
		if d == f {
			return true
		}
	}
	return false
}

func (f Format) String() string {
	return string(f)
}
