package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/vxs/log"
)

// resolve returns a [kong.ConfigurationLoader] that reads YAML config files.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve(ctx), "/path/to/config.yaml")
//
// The document is a mapping of flag names to values:
//   - Keys may use hyphens or underscores (log-level or log_level)
//   - Nested mappings join their keys with hyphens, so
//     "log: {level: debug}" sets --log-level
//   - Scalars are passed to kong as strings, except booleans
//   - Sequences become comma-separated lists
//   - Mappings given to map flags become "k=v;k=v" lists
//
// Example config file:
//
//	log:
//	  level: debug
//	  pretty: false
//	data:
//	  - ~/shop.yaml
//	var:
//	  tab: reviews
//
// Command-line flags override config file values. A file that cannot be
// decoded is logged and ignored.
func resolve(ctx context.Context) func(r io.Reader) (kong.Resolver, error) {
	return func(r io.Reader) (kong.Resolver, error) {
		var doc map[string]any

		if err := yaml.NewDecoder(r).DecodeContext(ctx, &doc); err != nil {
			if err != io.EOF {
				log.WarnContext(ctx, "ignoring invalid config file",
					slog.String("error", err.Error()),
				)
			}

			return config{}, nil
		}

		cfg := make(config)
		cfg.flatten("", doc)

		return cfg, nil
	}
}

// config implements [kong.Resolver] for YAML configs. Keys are normalized to
// hyphenated flag names.
type config map[string]any

func normalize(key string) string {
	return strings.ReplaceAll(strings.ToLower(key), "_", "-")
}

// flatten adds the entries of m under prefix. A nested mapping is kept under
// its own key, for map flags, and also flattened into hyphen-joined keys.
func (c config) flatten(prefix string, m map[string]any) {
	for key, val := range m {
		name := normalize(key)
		if prefix != "" {
			name = prefix + "-" + name
		}

		c[name] = val

		if sub, ok := val.(map[string]any); ok {
			c.flatten(name, sub)
		}
	}
}

// Validate implements [kong.Resolver].
func (c config) Validate(*kong.Application) error {
	return nil
}

// Resolve implements [kong.Resolver].
func (c config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	value, ok := c[normalize(flag.Name)]
	if !ok || value == nil {
		// Not found - return nil to let Kong use defaults
		return nil, nil
	}

	return flagValue(value), nil
}

// flagValue converts a decoded YAML value into a form kong can map. Kong
// requires numbers as strings for parsing.
func flagValue(value any) any {
	switch v := value.(type) {
	case bool, string:
		return v

	case int64:
		return strconv.FormatInt(v, 10)

	case uint64:
		return strconv.FormatUint(v, 10)

	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)

	case []any:
		items := make([]string, 0, len(v))
		for _, item := range v {
			items = append(items, fmt.Sprint(flagValue(item)))
		}

		return strings.Join(items, ",")

	case map[string]any:
		pairs := make([]string, 0, len(v))
		for _, key := range slices.Sorted(maps.Keys(v)) {
			pairs = append(pairs, key+"="+fmt.Sprint(flagValue(v[key])))
		}

		return strings.Join(pairs, ";")

	default:
		return fmt.Sprint(v)
	}
}
