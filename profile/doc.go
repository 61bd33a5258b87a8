// Package profile provides optional runtime profiling for the qex
// application.
//
// # Overview
//
// This package integrates [github.com/pkg/profile] to provide runtime
// profiling capabilities with conditional compilation support. Profiling is
// optional and must be enabled at build time using the "pprof" build tag.
//
// When built with profiling disabled (default), all operations are no-ops
// with zero runtime overhead.
//
// # Available Profiling Modes
//
// The following profiling modes are supported when built with the pprof tag:
//
//   - allocs:    Memory allocation profiling (all allocations)
//   - block:     Block (synchronization) profiling
//   - clock:     Wall-clock profiling
//   - cpu:       CPU profiling
//   - goroutine: Goroutine profiling
//   - heap:      Heap memory profiling (live allocations)
//   - mem:       General memory profiling
//   - mutex:     Mutex contention profiling
//   - thread:    Thread creation profiling
//   - trace:     Execution trace profiling
//
// Use [Modes] to retrieve the list of supported modes programmatically.
//
// # Command-Line Usage
//
// The qex command supports profiling through command-line flags when built
// with the pprof tag:
//
//	# Enable CPU profiling (writes to default cache directory)
//	qex --pprof-mode cpu math "sin(x)"
//
//	# Enable heap profiling with custom output directory
//	qex --pprof-mode heap --pprof-dir ./profiles fmt json "x + y"
//
// Profile files are written to the output directory with names matching the
// profiling mode (e.g., cpu.pprof, mem.pprof). Analyze them with:
//
//	go tool pprof /path/to/cpu.pprof
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
