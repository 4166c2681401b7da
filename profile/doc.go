// Package profile provides optional runtime profiling for vxs.
//
// Profiling wraps [github.com/pkg/profile] and is compiled in only with the
// "pprof" build tag. Without the tag, [Config.Start] always returns a no-op
// controller and [Modes] is empty.
//
//	go build -tags pprof -o vxs .
//
// # Modes
//
//   - allocs:    memory allocation profiling (all allocations)
//   - block:     blocking on synchronization primitives
//   - clock:     wall-clock profiling
//   - cpu:       CPU profiling
//   - goroutine: goroutine stacks
//   - heap:      live heap allocations
//   - mem:       general memory profiling
//   - mutex:     mutex contention
//   - thread:    thread creation
//   - trace:     execution trace
//
// # Usage
//
// A [Config] is built from options and started once per process:
//
//	cfg := profile.New(profile.WithMode("cpu"), profile.WithPath("/tmp/vxs"))
//	defer cfg.Start().Stop()
//
// From the command line, profile a render of a large template:
//
//	vxs --pprof-mode=cpu --data=site.yaml render page.vxs
//	go tool pprof -http=: ~/.cache/vxs/pprof/cpu.pprof
//
// Profiles are written to the directory given by --pprof-dir, which defaults
// to the pprof subdirectory of the user cache directory. The tagged build
// also registers the [net/http/pprof] handlers for programs that serve HTTP.
package profile
