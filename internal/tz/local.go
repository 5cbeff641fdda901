package tz

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/xerrors"
)

const localtimePath = "/etc/localtime"

var errNoEnvSet = xerrors.New("no env set")

// Local returns the invoking environment's configured zone: TZ if set (UTC
// when empty or unknown), otherwise the zone /etc/localtime links to. When no name can be found the
// rules of time.Local are returned under its own name.
func Local() Zone {
	return localZone(os.LookupEnv, localtimePath)
}

func localZone(lookupEnv func(string) (string, bool), link string) Zone {
	if z, err := zoneFromEnv(lookupEnv); err == nil {
		return z
	}
	if name, err := zoneNameFromLink(link); err == nil {
		if loc, err := time.LoadLocation(name); err == nil {
			return Zone{Name: name, Location: loc}
		}
	}
	return Zone{Name: time.Local.String(), Location: time.Local}
}

func zoneFromEnv(lookupEnv func(string) (string, bool)) (Zone, error) {
	tzEnv, found := lookupEnv("TZ")
	if !found {
		return Zone{}, errNoEnvSet
	}

	// TZ set but empty means UTC.
	tzEnv = strings.TrimPrefix(tzEnv, ":")
	if tzEnv == "" {
		return Zone{Name: "UTC", Location: time.UTC}, nil
	}

	// An unknown TZ also means UTC, as in libc. It does not fall through to
	// /etc/localtime.
	loc, err := time.LoadLocation(tzEnv)
	if err != nil {
		return Zone{Name: "UTC", Location: time.UTC}, nil
	}
	return Zone{Name: tzEnv, Location: loc}, nil
}

// zoneNameFromLink extracts "Area/City" from a symlink into a zoneinfo tree.
func zoneNameFromLink(path string) (string, error) {
	target, err := filepath.EvalSymlinks(path)
	if err != nil {
		return "", xerrors.Errorf("resolve %s: %w", path, err)
	}
	target = filepath.ToSlash(target)
	i := strings.LastIndex(target, "zoneinfo/")
	if i < 0 {
		return "", xerrors.Errorf("%s does not point into a zoneinfo tree: %s", path, target)
	}
	return target[i+len("zoneinfo/"):], nil
}
