// Package cli contains the command line interface for qex.
//
// # Usage
//
// Each subcommand resolves a captured expression through one dialect:
//
//	qex math "sin(pi) + x^2"       # LaTeX translation
//	qex html 'p("a", b("x"))'      # HTML rendering
//	qex deriv "x * sin(x)" x       # symbolic differentiation
//	qex filter -d data.yaml "age > 30"
//	qex fmt json "f(x, k = 1)"     # capture and format the tree
//	qex repl --dialect math        # interactive loop
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, RFC3339Nano, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Enable colorized pretty printing
//
// # Configuration
//
// Flags may also be supplied through a config file in the user config
// directory, as JSON (config.json) or YAML (config.yaml). Command-line
// flags override config file values.
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory
package cli
