package geocode

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Cached serves queries from a Cache before asking the wrapped Geocoder.
// Cache failures are logged and never fail a lookup.
type Cached struct {
	next   Geocoder
	cache  *Cache
	onHit  func()
	logger *slog.Logger
}

// NewCached wraps next with cache. onHit, if non-nil, runs on every cache hit.
func NewCached(next Geocoder, cache *Cache, onHit func(), logger *slog.Logger) *Cached {
	return &Cached{next: next, cache: cache, onHit: onHit, logger: logger}
}

// Geocode implements Geocoder.
func (c *Cached) Geocode(ctx context.Context, query string) (Place, error) {
	p, ok, err := c.cache.Get(query)
	if err != nil {
		c.logger.Warn("geocode cache read failed", "component", "geocode", "query", query, "error", err)
	}
	if ok {
		c.logger.Debug("geocode cache hit", "component", "geocode", "query", query)
		if c.onHit != nil {
			c.onHit()
		}
		return p, nil
	}

	p, err = c.next.Geocode(ctx, query)
	if err != nil {
		return Place{}, err
	}
	if err := c.cache.Put(query, p); err != nil {
		c.logger.Warn("geocode cache write failed", "component", "geocode", "query", query, "error", err)
	}
	return p, nil
}

// Chain tries each Geocoder in order. It moves to the next one only when the
// current one reports ErrNotFound; any other error stops the chain.
type Chain []Geocoder

// Geocode implements Geocoder.
func (ch Chain) Geocode(ctx context.Context, query string) (Place, error) {
	for _, g := range ch {
		p, err := g.Geocode(ctx, query)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return Place{}, err
		}
	}
	return Place{}, fmt.Errorf("%w: %q", ErrNotFound, query)
}
