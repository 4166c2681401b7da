package pkg

import (
	_ "embed"
	"strings"
)

const (
	// Name identifies the command in help text and is the fallback for
	// [Prefix].
	Name = "vxs"

	// Description is the one-line summary printed in help output.
	Description = "Dynamic data template engine"
)

//go:embed VERSION
var version string

// Version returns the release version embedded at build time.
func Version() string { return strings.TrimSpace(version) }
