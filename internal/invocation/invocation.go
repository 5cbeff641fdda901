// Package invocation turns positional command-line arguments into a tagged
// Invocation. The choice between format conversion and location conversion
// is made here, once.
package invocation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/star/ttool/internal/timescale"
)

// ErrUsage is returned when required arguments are missing.
var ErrUsage = errors.New("missing arguments")

// Usage is the one-line synopsis printed for ErrUsage.
const Usage = "USAGE: ttool TIME LOCATION [LOCATION2 ...]\n       ttool TIME_VALUE FORMAT_IN [FORMAT_OUT ...]"

// Mode tags what an Invocation asks for.
type Mode int

const (
	// FormatConversion converts a raw value between astronomical formats.
	FormatConversion Mode = iota + 1
	// LocationConversion converts a wall-clock time between locations.
	LocationConversion
)

func (m Mode) String() string {
	switch m {
	case FormatConversion:
		return "format"
	case LocationConversion:
		return "location"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Invocation is a parsed command line. Only the fields of its Mode are set.
type Invocation struct {
	Mode Mode

	// Time is the TIME or TIME_VALUE argument, trimmed.
	Time string

	// FormatConversion.
	FormatIn   timescale.Format
	FormatsOut []timescale.Format

	// LocationConversion.
	Source       string
	Destinations []string
}

// Parse reads positional arguments. A second argument that names an input
// format selects format conversion; anything else is a location. Location
// names that collide with a format code (there is no escape) are read as
// format codes.
func Parse(args []string) (Invocation, error) {
	if len(args) < 2 {
		return Invocation{}, ErrUsage
	}
	timeText := strings.TrimSpace(args[0])
	if timeText == "" {
		return Invocation{}, ErrUsage
	}

	if in, ok := timescale.LookupInput(args[1]); ok {
		outs := make([]timescale.Format, 0, len(args)-2)
		for _, code := range args[2:] {
			f, err := timescale.ParseFormat(code)
			if err != nil {
				return Invocation{}, err
			}
			outs = append(outs, f)
		}
		return Invocation{
			Mode:       FormatConversion,
			Time:       timeText,
			FormatIn:   in,
			FormatsOut: outs,
		}, nil
	}

	dests := make([]string, 0, len(args)-2)
	for _, a := range args[2:] {
		dests = append(dests, strings.TrimSpace(a))
	}
	return Invocation{
		Mode:         LocationConversion,
		Time:         timeText,
		Source:       strings.TrimSpace(args[1]),
		Destinations: dests,
	}, nil
}
