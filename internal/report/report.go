// Package report runs a parsed invocation and prints the human-readable
// result.
package report

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/star/ttool/internal/invocation"
	"github.com/star/ttool/internal/locate"
	"github.com/star/ttool/internal/metrics"
	"github.com/star/ttool/internal/sidereal"
	"github.com/star/ttool/internal/sun"
	"github.com/star/ttool/internal/timescale"
)

// Resolver resolves a location argument.
type Resolver interface {
	Resolve(ctx context.Context, query string) (locate.Location, error)
}

// TimeParser reads a time expression in a zone.
type TimeParser interface {
	Parse(text string, loc *time.Location) (time.Time, error)
}

// Config holds a Converter's collaborators.
type Config struct {
	Out      io.Writer
	Resolver Resolver
	Parser   TimeParser
	Model    sidereal.Model
	// Sun adds solar altitude, azimuth, sunrise and sunset to every
	// geocoded block.
	Sun     bool
	Metrics *metrics.Metrics
	Logger  *slog.Logger
}

// Converter executes invocations.
type Converter struct {
	cfg Config
}

// New creates a Converter. A zero Model means sidereal.DefaultModel.
func New(cfg Config) *Converter {
	if cfg.Model == "" {
		cfg.Model = sidereal.DefaultModel
	}
	return &Converter{cfg: cfg}
}

// Run executes inv. Nothing is written to Out unless every step succeeds.
func (c *Converter) Run(ctx context.Context, inv invocation.Invocation) error {
	var buf bytes.Buffer
	var err error
	switch inv.Mode {
	case invocation.FormatConversion:
		err = c.convertFormats(&buf, inv)
	case invocation.LocationConversion:
		err = c.convertLocations(ctx, &buf, inv)
	default:
		err = fmt.Errorf("unsupported invocation mode %v", inv.Mode)
	}
	if err != nil {
		return err
	}

	if _, err := c.cfg.Out.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	c.cfg.Metrics.Conversion(inv.Mode.String())
	return nil
}

func (c *Converter) convertFormats(w io.Writer, inv invocation.Invocation) error {
	results, err := timescale.Convert(inv.Time, inv.FormatIn, inv.FormatsOut)
	if err != nil {
		return fmt.Errorf("converting %q from %s: %w", inv.Time, inv.FormatIn, err)
	}

	// Decimal inputs echo in canonical float form.
	echo := inv.Time
	if inv.FormatIn.Decimal() {
		v, err := strconv.ParseFloat(inv.Time, 64)
		if err != nil {
			return fmt.Errorf("converting %q from %s: %w", inv.Time, inv.FormatIn, err)
		}
		echo = timescale.FormatDecimal(v)
	}

	fmt.Fprintf(w, "%16s: %s\n", inv.FormatIn, echo)
	for _, r := range results {
		fmt.Fprintf(w, "%16s: %s\n", r.Format, r.Value)
	}
	return nil
}

func (c *Converter) convertLocations(ctx context.Context, w io.Writer, inv invocation.Invocation) error {
	src, err := c.cfg.Resolver.Resolve(ctx, inv.Source)
	if err != nil {
		return err
	}

	t, err := c.cfg.Parser.Parse(inv.Time, src.Zone.Location)
	if err != nil {
		return fmt.Errorf("parsing time %q in %s: %w", inv.Time, src.Zone.Name, err)
	}
	t = t.In(src.Zone.Location)

	dests := make([]locate.Location, 0, len(inv.Destinations))
	for _, q := range inv.Destinations {
		d, err := c.cfg.Resolver.Resolve(ctx, q)
		if err != nil {
			return err
		}
		dests = append(dests, d)
	}

	c.cfg.Logger.Debug("converting",
		"component", "report",
		"time", t.Format(time.RFC3339Nano),
		"source", src.Zone.Name,
		"destinations", len(dests),
	)

	c.writeBlock(w, src, t)
	for _, d := range dests {
		c.writeBlock(w, d, t.In(d.Zone.Location))
	}
	return nil
}

func (c *Converter) writeBlock(w io.Writer, loc locate.Location, t time.Time) {
	if loc.Local {
		fmt.Fprintf(w, "Timezone:  %s\n", loc.Zone.Name)
		fmt.Fprintf(w, "Time:      %s\n", formatTime(t))
		fmt.Fprintln(w)
		return
	}

	fmt.Fprintf(w, "Location:  %s\n", loc.Name)
	fmt.Fprintf(w, "Timezone:  %s\n", loc.Zone.Name)
	fmt.Fprintf(w, "Latitude:  %s\n", timescale.FormatDecimal(loc.Observer.LatDeg))
	fmt.Fprintf(w, "Longitude: %s\n", timescale.FormatDecimal(loc.Observer.LonDeg))
	fmt.Fprintf(w, "Time:      %s\n", formatTime(t))
	fmt.Fprintf(w, "LST:       %s\n", loc.Observer.LST(c.cfg.Model, t))

	if c.cfg.Sun {
		r := sun.At(loc.Observer.LatDeg, loc.Observer.LonDeg, t)
		fmt.Fprintf(w, "Sun:       altitude %.2f, azimuth %.2f\n", r.AltitudeDeg, r.AzimuthDeg)
		if r.Polar() {
			fmt.Fprintf(w, "Sunrise:   none\n")
			fmt.Fprintf(w, "Sunset:    none\n")
		} else {
			fmt.Fprintf(w, "Sunrise:   %s\n", formatTime(r.Sunrise.Truncate(time.Second)))
			fmt.Fprintf(w, "Sunset:    %s\n", formatTime(r.Sunset.Truncate(time.Second)))
		}
	}
	fmt.Fprintln(w)
}

// formatTime renders t as "2006-01-02 15:04:05+07:00", with microseconds
// only when non-zero.
func formatTime(t time.Time) string {
	if t.Nanosecond()/1000 != 0 {
		return t.Format("2006-01-02 15:04:05.000000-07:00")
	}
	return t.Format("2006-01-02 15:04:05-07:00")
}
