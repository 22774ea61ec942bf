//go:build !pprof

package pprof

// Enabled reports whether the binary was built with profiling support.
const Enabled = false

// Modes returns no modes without the pprof build tag.
func Modes() []string { return nil }

func start(Config) Stopper { return ignore{} }
