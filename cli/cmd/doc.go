// Package cmd implements the vxs subcommands: render, tokens, export,
// visible, init and repl.
//
// Commands receive a [context.Context] carrying the parsed [kong.Context]
// ([WithContext]), the template source files ([WithSourceFiles]) and the
// site fixture files ([WithDataFiles]). Output goes to stdout unless
// replaced with [WithOutput].
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the YAML configuration file.
	ConfigIdentifier = "config"
)
