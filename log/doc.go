// Package log wraps [log/slog] with functional options, trace level, named
// time layouts, and colorized pretty handlers.
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr)
//	logger.Info("profile applied", slog.String("name", "gaming"))
//
// Options are applied once, when the Logger is made:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithTimeLayout("kitchen"),
//		log.WithCaller(true))
//
// [Logger.Wrap] derives a Logger from an existing configuration, and
// [Logger.With] attaches attributes to every subsequent record.
//
// # Zero Value
//
// The zero Logger discards everything. Packages accept a Logger through an
// option and log unconditionally; callers that pass nothing get silence.
//
// # Package Logger
//
// The package-level functions ([Info], [Warn], ...) write through [Default],
// which logs pretty text to stderr until reconfigured with [Config].
//
// # Pretty Output
//
// With [WithPretty] enabled, records are styled with lipgloss. Styles are bound
// to the output writer, so colors are dropped when it is not a terminal.
package log
