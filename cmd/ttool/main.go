package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/star/ttool/internal/clock"
	"github.com/star/ttool/internal/geocode"
	"github.com/star/ttool/internal/invocation"
	"github.com/star/ttool/internal/locate"
	"github.com/star/ttool/internal/metrics"
	"github.com/star/ttool/internal/report"
	"github.com/star/ttool/internal/sidereal"
	"github.com/star/ttool/internal/sites"
	"github.com/star/ttool/internal/timeparse"
	"github.com/star/ttool/internal/tz"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ttool: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	logLevel  string
	logFormat string
	model     string
	sitesFile string
	sun       bool
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "ttool TIME LOCATION [LOCATION2 ...] | TIME_VALUE FORMAT_IN [FORMAT_OUT ...]",
		Short: "Convert times between locations and astronomical formats",
		Long: `ttool converts a time between the local zones of geographic locations and
reports the local sidereal time at each, or converts a raw value between
astronomical time formats (mjd, jd, unix, jyear, gps, decimalyear, cxcsec,
byear, iso, isot, fits, byear_str, jyear_str; yday as output only).

Use -- before a negative TIME_VALUE.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return execute(cmd.Context(), opts, args, stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	flags := cmd.Flags()
	flags.SetInterspersed(false)
	flags.StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	flags.StringVar(&opts.logFormat, "log-format", "text", "log format (text, json)")
	flags.StringVar(&opts.model, "sidereal-model", string(sidereal.DefaultModel), "GMST model (satellite, iau82)")
	flags.StringVar(&opts.sitesFile, "sites", "", "HCL site catalog (default $TTOOL_SITES_FILE)")
	flags.BoolVar(&opts.sun, "sun", false, "also print the Sun's position, sunrise and sunset")

	return cmd
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}

func execute(ctx context.Context, opts *options, args []string, stdout, stderr io.Writer) error {
	logger := newLogger(opts.logLevel, opts.logFormat, stderr)

	inv, err := invocation.Parse(args)
	if errors.Is(err, invocation.ErrUsage) {
		fmt.Fprintln(stdout, invocation.Usage)
		return nil
	}
	if err != nil {
		return err
	}
	logger.Debug("parsed invocation", "component", "invocation", "mode", inv.Mode.String())
	if inv.Mode == invocation.FormatConversion {
		// A place named like a format code cannot be geocoded.
		logger.Debug("second argument read as a format code", "component", "invocation", "arg", args[1])
	}

	model, err := sidereal.ParseModel(opts.model)
	if err != nil {
		return err
	}

	m := metrics.New()
	cfg := report.Config{
		Out:     stdout,
		Parser:  timeparse.New(clock.NewSystem()),
		Model:   model,
		Sun:     opts.sun,
		Metrics: m,
		Logger:  logger,
	}
	if inv.Mode == invocation.LocationConversion {
		cfg.Resolver, err = newResolver(opts, m, logger)
		if err != nil {
			return err
		}
	}

	runErr := report.New(cfg).Run(ctx, inv)
	pushMetrics(m, logger)
	return runErr
}

// newResolver assembles the geocoder chain: site catalog, then the on-disk
// cache, then Nominatim.
func newResolver(opts *options, m *metrics.Metrics, logger *slog.Logger) (*locate.Resolver, error) {
	gcfg := loadGeocoderConfig(logger)
	var g geocode.Geocoder = geocode.NewNominatim(geocode.NominatimConfig{
		BaseURL:   gcfg.BaseURL,
		UserAgent: gcfg.UserAgent,
		Timeout:   gcfg.Timeout,
		Transport: m.InstrumentRoundTripper(nil),
	}, logger)

	if ccfg := loadCacheConfig(logger); ccfg.Dir != "" {
		g = geocode.NewCached(g, geocode.NewCache(ccfg.Dir, ccfg.MaxAge, ccfg.MaxFiles), m.CacheHit, logger)
	}

	sitesFile := opts.sitesFile
	if sitesFile == "" {
		sitesFile = os.Getenv("TTOOL_SITES_FILE")
	}
	if sitesFile != "" {
		catalog, err := sites.Load(sitesFile)
		if err != nil {
			return nil, err
		}
		logger.Debug("loaded site catalog", "component", "sites", "path", sitesFile, "sites", len(catalog.Keys()))
		g = geocode.Chain{catalog, g}
	}

	return locate.NewResolver(g, tz.NewFinder(), tz.Local, logger), nil
}

func pushMetrics(m *metrics.Metrics, logger *slog.Logger) {
	url := os.Getenv("TTOOL_PUSHGATEWAY_URL")
	if url == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := m.Push(ctx, url, "ttool"); err != nil {
		logger.Warn("metrics push failed", "component", "metrics", "error", err)
	}
}
