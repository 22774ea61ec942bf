package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/hyprprofile/pkg"
)

// ErrConfig is returned when a configuration file cannot be decoded.
var ErrConfig = pkg.NewError("configuration file")

// resolveYAML is a [kong.ConfigurationLoader] for YAML configuration files.
//
// Keys may name a flag with hyphens or underscores, and may nest on the
// hyphen-separated parts of the flag name. These are equivalent:
//
//	log-level: debug
//	log_level: debug
//	log:
//	  level: debug
//
// Command-line flags and environment variables override config file values.
func resolveYAML(r io.Reader) (kong.Resolver, error) {
	var values map[string]any

	if err := yaml.NewDecoder(r).Decode(&values); err != nil {
		if errors.Is(err, io.EOF) {
			return config{}, nil
		}

		return nil, ErrConfig.Wrap(err)
	}

	return config(values), nil
}

// config implements [kong.Resolver] over decoded YAML.
type config map[string]any

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (c config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	value, ok := lookup(c, strings.Split(flag.Name, "-"))
	if !ok {
		return nil, nil
	}

	return scalar(value), nil
}

// lookup finds the value of the flag whose name has the given hyphen-separated
// parts. The longest matching key at each level wins.
func lookup(m map[string]any, parts []string) (any, bool) {
	for n := len(parts); n > 0; n-- {
		for _, sep := range []string{"-", "_"} {
			value, ok := m[strings.Join(parts[:n], sep)]
			if !ok {
				continue
			}

			if n == len(parts) {
				return value, true
			}

			if sub, ok := value.(map[string]any); ok {
				if v, ok := lookup(sub, parts[n:]); ok {
					return v, true
				}
			}
		}
	}

	return nil, false
}

// scalar converts numbers to strings, which kong parses per flag type.
func scalar(value any) any {
	switch v := value.(type) {
	case int, int64, uint64, float64:
		return fmt.Sprint(v)
	default:
		return v
	}
}
