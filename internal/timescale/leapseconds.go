package timescale

import "time"

// leapStep records the TAI-UTC offset in effect from a UTC instant onwards.
type leapStep struct {
	utc    int64 // unix seconds
	offset int64 // TAI-UTC, seconds
}

// Offset in effect before the first tabulated step. The rubber-second era
// before 1972 is approximated by this constant.
const preLeapOffset = 10

// ttMinusTAI is the fixed TT-TAI offset in seconds.
const (
	ttMinusTAI         = 32.184
	ttMinusTAIDuration = 32184 * time.Millisecond
)

// IERS Bulletin C table, through the 2017-01-01 step.
var leapTable = []leapStep{
	step(1972, time.January, 10),
	step(1972, time.July, 11),
	step(1973, time.January, 12),
	step(1974, time.January, 13),
	step(1975, time.January, 14),
	step(1976, time.January, 15),
	step(1977, time.January, 16),
	step(1978, time.January, 17),
	step(1979, time.January, 18),
	step(1980, time.January, 19),
	step(1981, time.July, 20),
	step(1982, time.July, 21),
	step(1983, time.July, 22),
	step(1985, time.July, 23),
	step(1988, time.January, 24),
	step(1990, time.January, 25),
	step(1991, time.January, 26),
	step(1992, time.July, 27),
	step(1993, time.July, 28),
	step(1994, time.July, 29),
	step(1996, time.January, 30),
	step(1997, time.July, 31),
	step(1999, time.January, 32),
	step(2006, time.January, 33),
	step(2009, time.January, 34),
	step(2012, time.July, 35),
	step(2015, time.July, 36),
	step(2017, time.January, 37),
}

func step(year int, month time.Month, offset int64) leapStep {
	return leapStep{
		utc:    time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Unix(),
		offset: offset,
	}
}

// leapOffsetUTC returns TAI-UTC for a UTC instant given in unix seconds.
func leapOffsetUTC(utc int64) int64 {
	for i := len(leapTable) - 1; i >= 0; i-- {
		if utc >= leapTable[i].utc {
			return leapTable[i].offset
		}
	}
	return preLeapOffset
}

// leapOffsetTAI returns TAI-UTC for an instant expressed as TAI seconds on
// the unix grid (unix seconds + TAI-UTC).
func leapOffsetTAI(tai int64) int64 {
	for i := len(leapTable) - 1; i >= 0; i-- {
		if tai >= leapTable[i].utc+leapTable[i].offset {
			return leapTable[i].offset
		}
	}
	return preLeapOffset
}
