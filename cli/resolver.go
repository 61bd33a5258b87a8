package cli

import (
	"io"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

// resolveYAML is a [kong.ConfigurationLoader] that reads flag values from a
// YAML mapping.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolveYAML, "/path/to/config.yaml")
//
// Flag names with hyphens (e.g., "log-level") may use either hyphens or
// underscores in the config file. Example:
//
//	log_level: debug
//	log_format: text
//	log_pretty: true
//
// Command-line flags override config file values.
func resolveYAML(r io.Reader) (kong.Resolver, error) {
	var values map[string]any

	if err := yaml.NewDecoder(r).Decode(&values); err != nil {
		// Malformed config - behave as if empty
		return config{}, nil
	}

	return config(values), nil
}

// config implements [kong.Resolver] for YAML configs.
type config map[string]any

// Validate implements [kong.Resolver].
func (r config) Validate(*kong.Application) error {
	// No validation needed - the config was already decoded successfully
	return nil
}

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if v, ok := r[flag.Name]; ok {
		return v, nil
	}

	if v, ok := r[strings.ReplaceAll(flag.Name, "-", "_")]; ok {
		return v, nil
	}

	return nil, nil
}
