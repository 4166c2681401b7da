package profile

import "slices"

// Tag is the build tag that compiles profiling support in.
const Tag = `pprof`

// Profiler is a running profiling session.
type Profiler interface {
	Stop()
}

// Config describes one profiling session.
type Config struct {
	// Mode is one of [Modes]. Profiling is disabled when it is empty.
	Mode string
	// Path is the output directory. The working directory is used when empty.
	Path string
	// Quiet suppresses the start and stop messages of the profiler.
	Quiet bool
}

// Option configures a [Config].
type Option func(Config) Config

// New returns a configuration with opts applied in order.
func New(opts ...Option) Config {
	var c Config

	for _, opt := range opts {
		c = opt(c)
	}

	return c
}

// WithMode sets the profiling mode.
func WithMode(mode string) Option {
	return func(c Config) Config {
		c.Mode = mode

		return c
	}
}

// WithPath sets the output directory.
func WithPath(path string) Option {
	return func(c Config) Config {
		c.Path = path

		return c
	}
}

// WithQuiet sets the quiet flag.
func WithQuiet(quiet bool) Option {
	return func(c Config) Config {
		c.Quiet = quiet

		return c
	}
}

// Supported reports whether this build can profile in mode.
func Supported(mode string) bool {
	return slices.Contains(Modes(), mode)
}

// Start begins profiling and returns the session. Start and Stop are always
// safe to call: without the pprof build tag, or with an empty or unsupported
// mode, the session does nothing.
func (c Config) Start() Profiler {
	if c.Mode == "" || !Supported(c.Mode) {
		return ignore{}
	}

	return start(c)
}

type ignore struct{}

func (ignore) Stop() {}
