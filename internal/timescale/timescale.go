package timescale

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrOutOfRange is returned for numeric values too large to place on the
// calendar.
var ErrOutOfRange = errors.New("time value out of range")

const (
	secondsPerDay = 86400

	unixEpochJD  = 2440587.5 // JD of 1970-01-01T00:00:00
	unixEpochMJD = 40587.0

	j2000Unix         = 946728000 // 2000-01-01T12:00:00 on the unix grid
	julianYearSeconds = 365.25 * secondsPerDay
	b1900JD           = 2415020.31352 // JD(TT) of Besselian epoch B1900.0
	besselianYearDays = 365.242198781
	gpsEpochTAI       = 315964800 + 19 // 1980-01-06T00:00:00 UTC as TAI seconds
	cxcEpochTT        = 883612800      // 1998-01-01T00:00:00 TT on the unix grid

	maxMagnitude = 1e11
)

const (
	millisecondLayout = ".000"
	isoLayout         = "2006-01-02 15:04:05"
	isotLayout        = "2006-01-02T15:04:05"
	ydayLayout        = "2006:002:15:04:05"
	epochStringDigits = 3
)

// codec reads and writes one format. Instants are UTC time.Time values.
type codec struct {
	decode func(string) (time.Time, error)
	encode func(time.Time) string
}

var codecs = map[Format]codec{
	JD:          decimal(func(v float64) time.Time { return fromDayCount(v, unixEpochJD) }, func(t time.Time) float64 { return toDayCount(t, unixEpochJD) }),
	MJD:         decimal(func(v float64) time.Time { return fromDayCount(v, unixEpochMJD) }, func(t time.Time) float64 { return toDayCount(t, unixEpochMJD) }),
	Unix:        decimal(fromUnixSeconds, toUnixSeconds),
	GPS:         decimal(fromGPS, toGPS),
	CXCSec:      decimal(fromCXCSec, toCXCSec),
	JYear:       decimal(fromJulianEpoch, toJulianEpoch),
	BYear:       decimal(fromBesselianEpoch, toBesselianEpoch),
	DecimalYear: decimal(fromDecimalYear, toDecimalYear),
	ISO:         calendar([]string{isoLayout, "2006-01-02 15:04", "2006-01-02"}, isoLayout),
	ISOT:        calendar([]string{isotLayout, "2006-01-02T15:04", "2006-01-02"}, isotLayout),
	FITS:        fitsCodec(),
	YDay:        calendar([]string{ydayLayout, "2006:002:15:04", "2006:002"}, ydayLayout),
	JYearStr:    epochString('J', fromJulianEpoch, toJulianEpoch),
	BYearStr:    epochString('B', fromBesselianEpoch, toBesselianEpoch),
}

// Parse reads value expressed in format f. The returned instant carries the
// scale of f, or of the FITS scale tag when one is present.
func Parse(value string, f Format) (Instant, error) {
	c, ok := codecs[f]
	if !ok {
		return Instant{}, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
	t, err := c.decode(value)
	if err != nil {
		return Instant{}, fmt.Errorf("parsing %q as %s: %w", value, f, err)
	}
	scale := f.Scale()
	if f == FITS {
		_, tag := splitFITSTag(strings.TrimSpace(value))
		if scale, err = parseScale(tag); err != nil {
			return Instant{}, err
		}
	}
	return Instant{Time: t, Scale: scale}, nil
}

// Render writes i in format f. Calendar and day-count formats show the
// reading on i's scale; the others are defined on a fixed scale.
func Render(i Instant, f Format) (string, error) {
	c, ok := codecs[f]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
	t := i.Time.UTC()
	if f.scaleDependent() {
		t = i.wall()
	}
	return c.encode(t), nil
}

// Result is one rendered output of a conversion.
type Result struct {
	Format Format
	Value  string
}

// Convert parses value in format in and renders it in every format of outs,
// or in Default when outs is empty.
func Convert(value string, in Format, outs []Format) ([]Result, error) {
	i, err := Parse(value, in)
	if err != nil {
		return nil, err
	}
	if len(outs) == 0 {
		outs = []Format{Default}
	}
	results := make([]Result, 0, len(outs))
	for _, f := range outs {
		s, err := Render(i, f)
		if err != nil {
			return nil, err
		}
		results = append(results, Result{Format: f, Value: s})
	}
	return results, nil
}

func decimal(from func(float64) time.Time, to func(time.Time) float64) codec {
	return codec{
		decode: func(s string) (time.Time, error) {
			v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				return time.Time{}, err
			}
			if math.IsNaN(v) || math.Abs(v) > maxMagnitude {
				return time.Time{}, ErrOutOfRange
			}
			return from(v), nil
		},
		encode: func(t time.Time) string {
			return FormatDecimal(to(t))
		},
	}
}

// FormatDecimal prints v in its shortest round-trip form, always keeping a
// fractional part ("946684800.0").
func FormatDecimal(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func calendar(layouts []string, out string) codec {
	return codec{
		decode: func(s string) (time.Time, error) {
			return parseLayouts(strings.TrimSpace(s), layouts)
		},
		encode: func(t time.Time) string {
			return t.Round(time.Millisecond).Format(out + millisecondLayout)
		},
	}
}

func parseLayouts(s string, layouts []string) (time.Time, error) {
	s, leap := splitLeapSecond(s)
	var firstErr error
	for _, layout := range layouts {
		t, err := time.ParseInLocation(layout, s, time.UTC)
		if err == nil {
			if leap {
				return leapSecond(t)
			}
			return t.UTC(), nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}

// leapSecondField matches a seconds field of 60 at the end of a timestamp.
var leapSecondField = regexp.MustCompile(`:60(\.\d*)?$`)

// splitLeapSecond rewrites a :60 seconds field to :59 so time.Parse accepts
// it, reporting whether it did.
func splitLeapSecond(s string) (string, bool) {
	loc := leapSecondField.FindStringIndex(s)
	if loc == nil {
		return s, false
	}
	return s[:loc[0]] + ":59" + s[loc[0]+3:], true
}

// leapSecond maps t, parsed as 23:59:59 in place of 23:59:60, to the first
// second of the next day. time.Time cannot hold the inserted second itself.
// Only seconds present in the leap second table are accepted.
func leapSecond(t time.Time) (time.Time, error) {
	next := t.Add(time.Second).UTC()
	sec := next.Unix()
	if t.Hour() != 23 || t.Minute() != 59 || leapOffsetUTC(sec) == leapOffsetUTC(sec-1) {
		return time.Time{}, fmt.Errorf("%s:60 is not a leap second", t.Format("2006-01-02 15:04"))
	}
	return next, nil
}

// splitFITSTag separates a trailing scale tag such as "(TAI)" from a FITS
// timestamp.
func splitFITSTag(s string) (body, tag string) {
	if i := strings.IndexByte(s, '('); i >= 0 && strings.HasSuffix(s, ")") {
		return s[:i], s[i+1 : len(s)-1]
	}
	return s, ""
}

// fitsCodec handles FITS timestamps, which may carry a trailing time scale
// tag such as "(TAI)". The tag names the scale of the wall-clock fields.
func fitsCodec() codec {
	isot := calendar([]string{isotLayout, "2006-01-02T15:04", "2006-01-02"}, isotLayout)
	return codec{
		decode: func(s string) (time.Time, error) {
			body, tag := splitFITSTag(strings.TrimSpace(s))
			scale, err := parseScale(tag)
			if err != nil {
				return time.Time{}, err
			}
			t, err := isot.decode(body)
			if err != nil {
				return time.Time{}, err
			}
			switch scale {
			case TAI:
				return fromTAI(t.Unix(), float64(t.Nanosecond())/1e9), nil
			case TT:
				return fromTAI(t.Unix(), float64(t.Nanosecond())/1e9-ttMinusTAI), nil
			default:
				return t, nil
			}
		},
		encode: isot.encode,
	}
}

func epochString(prefix byte, from func(float64) time.Time, to func(time.Time) float64) codec {
	return codec{
		decode: func(s string) (time.Time, error) {
			s = strings.TrimSpace(s)
			if len(s) < 2 || s[0] != prefix {
				return time.Time{}, fmt.Errorf("epoch string must start with %q", prefix)
			}
			v, err := strconv.ParseFloat(s[1:], 64)
			if err != nil {
				return time.Time{}, err
			}
			if math.IsNaN(v) || math.Abs(v) > maxMagnitude {
				return time.Time{}, ErrOutOfRange
			}
			return from(v), nil
		},
		encode: func(t time.Time) string {
			return string(prefix) + strconv.FormatFloat(to(t), 'f', epochStringDigits, 64)
		},
	}
}

// fromUnix builds a UTC time from whole unix seconds plus a fractional
// second offset of any sign. Numeric inputs carry no more than microsecond
// resolution at these magnitudes, so the fraction is rounded to it.
func fromUnix(whole int64, extra float64) time.Time {
	w := math.Floor(extra)
	us := math.Round((extra - w) * 1e6)
	return time.Unix(whole+int64(w), int64(us)*1e3).UTC()
}

// taiOf splits t into whole TAI seconds on the unix grid and a fraction.
func taiOf(t time.Time) (int64, float64) {
	sec := t.Unix()
	return sec + leapOffsetUTC(sec), float64(t.Nanosecond()) / 1e9
}

// fromTAI converts TAI seconds on the unix grid back to UTC.
func fromTAI(whole int64, frac float64) time.Time {
	w := math.Floor(frac)
	whole += int64(w)
	frac -= w
	return fromUnix(whole-leapOffsetTAI(whole), frac)
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// toDayCount returns the day count of t on a scale where the unix epoch
// falls on day epoch.
func toDayCount(t time.Time, epoch float64) float64 {
	sec := t.Unix()
	days := floorDiv(sec, secondsPerDay)
	rem := sec - days*secondsPerDay
	frac := (float64(rem) + float64(t.Nanosecond())/1e9) / secondsPerDay
	return epoch + float64(days) + frac
}

func fromDayCount(v, epoch float64) time.Time {
	vi := math.Floor(v)
	ei := math.Floor(epoch)
	days := int64(vi - ei)
	frac := (v - vi) - (epoch - ei)
	return fromUnix(days*secondsPerDay, frac*secondsPerDay)
}

func toUnixSeconds(t time.Time) float64 {
	return float64(t.Unix()) + float64(t.Nanosecond())/1e9
}

func fromUnixSeconds(v float64) time.Time {
	w := math.Floor(v)
	return fromUnix(int64(w), v-w)
}

func toGPS(t time.Time) float64 {
	w, f := taiOf(t)
	return float64(w-gpsEpochTAI) + f
}

func fromGPS(v float64) time.Time {
	w := math.Floor(v)
	return fromTAI(int64(w)+gpsEpochTAI, v-w)
}

func toCXCSec(t time.Time) float64 {
	w, f := taiOf(t)
	return float64(w-cxcEpochTT) + (f + ttMinusTAI)
}

func fromCXCSec(v float64) time.Time {
	x := v - ttMinusTAI
	w := math.Floor(x)
	return fromTAI(int64(w)+cxcEpochTT, x-w)
}

func toJulianEpoch(t time.Time) float64 {
	w, f := taiOf(t)
	s := float64(w-j2000Unix) + (f + ttMinusTAI)
	return 2000 + s/julianYearSeconds
}

func fromJulianEpoch(v float64) time.Time {
	x := (v-2000)*julianYearSeconds - ttMinusTAI
	w := math.Floor(x)
	return fromTAI(int64(w)+j2000Unix, x-w)
}

func toBesselianEpoch(t time.Time) float64 {
	w, f := taiOf(t)
	ttDays := (float64(w) + (f + ttMinusTAI)) / secondsPerDay
	return 1900 + ((unixEpochJD-b1900JD)+ttDays)/besselianYearDays
}

func fromBesselianEpoch(v float64) time.Time {
	days := (v-1900)*besselianYearDays - (unixEpochJD - b1900JD)
	x := days*secondsPerDay - ttMinusTAI
	w := math.Floor(x)
	return fromTAI(int64(w), x-w)
}

func yearBounds(y int) (time.Time, time.Time) {
	return time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(y+1, time.January, 1, 0, 0, 0, 0, time.UTC)
}

func toDecimalYear(t time.Time) float64 {
	start, end := yearBounds(t.Year())
	return float64(t.Year()) + float64(t.Sub(start))/float64(end.Sub(start))
}

func fromDecimalYear(v float64) time.Time {
	y := math.Floor(v)
	start, end := yearBounds(int(y))
	span := float64(end.Sub(start))
	return start.Add(time.Duration(math.Round((v - y) * span)))
}
