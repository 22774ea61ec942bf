// Package pprof starts optional runtime profiling with [github.com/pkg/profile].
//
// Profiling is compiled in only with the "pprof" build tag:
//
//	go build -tags pprof .
//	hyprprofile --pprof-mode cpu --pprof-dir /tmp/prof apply gaming
//	go tool pprof -http=: /tmp/prof/cpu.pprof
//
// Without the tag, [Modes] is empty and [Config.Start] returns a no-op.
// The tagged build also registers the [net/http/pprof] handlers.
package pprof

// Tag is the build tag that enables profiling.
const Tag = "pprof"
