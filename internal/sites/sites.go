// Package sites loads a catalog of named observing sites from an HCL file.
//
// A catalog file holds any number of site blocks:
//
//	site "gbt" {
//	  name      = "Green Bank Telescope"
//	  latitude  = 38.4331
//	  longitude = -79.8398
//	  timezone  = "America/New_York"
//	}
//
// The block label is the lookup key. name defaults to the key and timezone is
// optional.
package sites

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/star/ttool/internal/geocode"
	"github.com/star/ttool/internal/tz"
)

// ErrInvalidSite is returned when a site block fails validation.
var ErrInvalidSite = errors.New("invalid site")

type hclCatalogFile struct {
	Sites []*hclSite `hcl:"site,block"`
}

type hclSite struct {
	Key       string  `hcl:"key,label"`
	Name      string  `hcl:"name,optional"`
	Latitude  float64 `hcl:"latitude"`
	Longitude float64 `hcl:"longitude"`
	Timezone  string  `hcl:"timezone,optional"`
}

// Catalog maps case-insensitive site keys to places.
type Catalog struct {
	sites map[string]geocode.Place
}

// Load reads and parses the catalog at path.
func Load(path string) (*Catalog, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading site catalog: %w", err)
	}
	return Parse(src, path)
}

// Parse decodes catalog source. filename is used in diagnostics only.
func Parse(src []byte, filename string) (*Catalog, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}

	var parsed hclCatalogFile
	diags = gohcl.DecodeBody(file.Body, nil, &parsed)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}

	c := &Catalog{sites: make(map[string]geocode.Place, len(parsed.Sites))}
	for _, s := range parsed.Sites {
		key := normalize(s.Key)
		if key == "" {
			return nil, fmt.Errorf("%w: empty key in %s", ErrInvalidSite, filename)
		}
		if _, dup := c.sites[key]; dup {
			return nil, fmt.Errorf("%w: duplicate site %q in %s", ErrInvalidSite, s.Key, filename)
		}
		if s.Latitude < -90 || s.Latitude > 90 {
			return nil, fmt.Errorf("%w: site %q latitude %v out of range [-90, 90]", ErrInvalidSite, s.Key, s.Latitude)
		}
		if s.Longitude < -180 || s.Longitude > 180 {
			return nil, fmt.Errorf("%w: site %q longitude %v out of range [-180, 180]", ErrInvalidSite, s.Key, s.Longitude)
		}
		if s.Timezone != "" {
			if _, err := tz.Load(s.Timezone); err != nil {
				return nil, fmt.Errorf("%w: site %q: %w", ErrInvalidSite, s.Key, err)
			}
		}

		name := s.Name
		if name == "" {
			name = s.Key
		}
		c.sites[key] = geocode.Place{
			Name:      name,
			Latitude:  s.Latitude,
			Longitude: s.Longitude,
			Zone:      s.Timezone,
		}
	}
	return c, nil
}

func normalize(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

// Lookup returns the site registered under key.
func (c *Catalog) Lookup(key string) (geocode.Place, bool) {
	p, ok := c.sites[normalize(key)]
	return p, ok
}

// Keys returns the catalog keys in sorted order.
func (c *Catalog) Keys() []string {
	keys := make([]string, 0, len(c.sites))
	for k := range c.sites {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Geocode implements geocode.Geocoder so a catalog can head a geocode.Chain.
func (c *Catalog) Geocode(_ context.Context, query string) (geocode.Place, error) {
	if p, ok := c.Lookup(query); ok {
		return p, nil
	}
	return geocode.Place{}, fmt.Errorf("%w: %q not in site catalog", geocode.ErrNotFound, query)
}
