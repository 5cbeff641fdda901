package main

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/star/ttool/internal/geocode"
)

type geocoderConfig struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
}

func loadGeocoderConfig(logger *slog.Logger) geocoderConfig {
	cfg := geocoderConfig{
		BaseURL:   geocode.DefaultBaseURL,
		UserAgent: geocode.DefaultUserAgent,
		Timeout:   10 * time.Second,
	}

	if v := os.Getenv("TTOOL_GEOCODER_URL"); v != "" {
		cfg.BaseURL = v
	}

	if v := os.Getenv("TTOOL_GEOCODER_USER_AGENT"); v != "" {
		cfg.UserAgent = v
	}

	if v := os.Getenv("TTOOL_HTTP_TIMEOUT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			logger.Warn("invalid TTOOL_HTTP_TIMEOUT value, using default", "value", v, "default", 10)
		} else {
			cfg.Timeout = time.Duration(n) * time.Second
		}
	}

	logger.Debug("geocoder config",
		"base_url", cfg.BaseURL,
		"user_agent", cfg.UserAgent,
		"timeout_seconds", cfg.Timeout.Seconds(),
	)

	return cfg
}

type cacheConfig struct {
	Dir      string
	MaxAge   time.Duration
	MaxFiles int
}

func loadCacheConfig(logger *slog.Logger) cacheConfig {
	cfg := cacheConfig{
		Dir:      os.Getenv("TTOOL_GEOCODE_CACHE_DIR"),
		MaxAge:   30 * 24 * time.Hour,
		MaxFiles: 500,
	}

	if v := os.Getenv("TTOOL_GEOCODE_CACHE_MAX_AGE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			logger.Warn("invalid TTOOL_GEOCODE_CACHE_MAX_AGE value, using default", "value", v, "default", 2592000)
		} else {
			cfg.MaxAge = time.Duration(n) * time.Second
		}
	}

	if v := os.Getenv("TTOOL_GEOCODE_CACHE_MAX_FILES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			logger.Warn("invalid TTOOL_GEOCODE_CACHE_MAX_FILES value, using default", "value", v, "default", 500)
		} else {
			cfg.MaxFiles = n
		}
	}

	logger.Debug("geocode cache config",
		"enabled", cfg.Dir != "",
		"dir", cfg.Dir,
		"max_age_seconds", cfg.MaxAge.Seconds(),
		"max_files", cfg.MaxFiles,
	)

	return cfg
}
