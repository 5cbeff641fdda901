// Package timeparse reads free-form time expressions such as "14:30",
// "2024-01-01 10:00" or "tomorrow 9am" in a given time zone.
package timeparse

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"

	"github.com/star/ttool/internal/clock"
)

// ErrUnparseable is returned when no parser understands the expression.
var ErrUnparseable = errors.New("unparseable time")

// clockPattern matches a bare wall-clock time, read as today.
var clockPattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?::(\d{2}))?$`)

// Parser resolves time expressions relative to a clock.
type Parser struct {
	clock   clock.Clock
	natural *when.Parser
}

// New creates a Parser. "Today" and relative expressions use c.
func New(c clock.Clock) *Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return &Parser{clock: c, natural: w}
}

// Parse reads text as a time in loc. The result is expressed in loc.
//
// Order: bare HH:MM[:SS] as today's date in loc, then absolute date
// formats, then natural language. A natural-language match must cover the
// whole expression. Wall-clock fields are taken in loc; an explicit UTC
// offset in the text wins.
func (p *Parser) Parse(text string, loc *time.Location) (time.Time, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}, fmt.Errorf("%w: empty expression", ErrUnparseable)
	}

	if t, ok := p.parseClock(text, loc); ok {
		return t, nil
	}

	if t, err := dateparse.ParseIn(text, loc); err == nil {
		return t.In(loc), nil
	}

	r, err := p.natural.Parse(text, p.clock.Now().In(loc))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q: %v", ErrUnparseable, text, err)
	}
	if r == nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnparseable, text)
	}
	// A match on part of the text ("5pm" in "2024-13-45 5pm") is not a parse.
	if r.Index != 0 || len(r.Text) != len(text) {
		return time.Time{}, fmt.Errorf("%w: %q: only %q understood", ErrUnparseable, text, r.Text)
	}
	return r.Time.In(loc), nil
}

func (p *Parser) parseClock(text string, loc *time.Location) (time.Time, bool) {
	m := clockPattern.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, false
	}
	hh, _ := strconv.Atoi(m[1])
	mm, _ := strconv.Atoi(m[2])
	ss := 0
	if m[3] != "" {
		ss, _ = strconv.Atoi(m[3])
	}
	if hh > 23 || mm > 59 || ss > 59 {
		return time.Time{}, false
	}
	today := p.clock.Now().In(loc)
	return time.Date(today.Year(), today.Month(), today.Day(), hh, mm, ss, 0, loc), true
}
