// Package log wraps [log/slog] with a trace level, terminal-friendly output
// and loggers that remember how they were configured.
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatText),
//		log.WithCaller(true))
//
//	logger.Info("rendered", slog.String("group", "post"))
//	logger.Warn("tag failed", log.Err(err))
//
// Every method has a Context variant; the plain ones use
// [DefaultContextProvider]. [Logger.Wrap] derives a logger with some options
// changed, and [Logger.Tracing] lets callers skip building trace attributes
// that would be dropped.
//
// # Package Logger
//
// The package-level functions ([Info], [TraceContext], ...) write through
// [Default], which [Config] reconfigures and [SetDefault] replaces. The
// command line configures it once from its --log-* flags.
//
// # Output
//
// Records are JSON ([FormatJSON], the default) or key=value text
// ([FormatText]). [WithPretty] colors both when the output is a terminal and
// indents JSON. [WithTimeLayout] accepts the layout names of the [time]
// package, a few short aliases, or a literal layout; "none" drops
// timestamps.
package log
