// Package cli contains the command line interface for vxs.
//
// # Usage
//
// Render is the default command. Templates are read from --expr, the
// --source files or stdin, and rendered against the site data files:
//
//	vxs -d shop.yaml -e 'Hello @user(display_name)!' --user 1
//	vxs -d shop.yaml -s card.vxs --post 100 --var tab=reviews
//	vxs -d shop.yaml render -e '#@post(tags.slug) ' --loop '@post(tags)' --post 100
//
// Other commands:
//
//	vxs tokens -e '@post(title).uppercase()' --format yaml
//	vxs export -o schema.json.gz --gzip
//	vxs visible rules.yaml --user 2
//	vxs repl --post 100
//	vxs init
//
// # Data Files
//
// Data files listed in the VXS_DATA environment variable (a path list) are
// loaded first, followed by each --data file. Later files override the site
// settings and entities with the same ID of earlier ones.
//
// # Configuration
//
// Global flags may be set in config.yaml under the user configuration
// directory (see "vxs init"). Keys are flag names; nested mappings join
// their keys with hyphens:
//
//	log:
//	  level: debug
//	data:
//	  - ~/sites/shop.yaml
//
// Command-line flags override config file values.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, RFC3339Nano, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize log output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o vxs .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default: ~/.cache/vxs/pprof)
package cli
