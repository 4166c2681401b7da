package pkg

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/ardnew/mung"
)

// Prefix returns the base prefix string used to construct the path to the
// configuration directory and the prefix for environment variable identifiers.
//
// By default, Prefix is the base name of the executable file unless it matches
// one of the following substitution rules:
//   - "__debug_bin" (default output of the dlv debugger): replaced with Name
//   - "^\.+" (dot-prefixed names): remove the dot prefix
//
//nolint:gochecknoglobals
var Prefix = sync.OnceValue(
	func() string {
		id := os.Args[0]
		exe, err := os.Executable()
		if err == nil {
			id = exe
		}

		ext := filepath.Ext(filepath.Base(id))
		id = strings.TrimSuffix(filepath.Base(id), ext)

		for rex, rep := range map[*regexp.Regexp]string{
			regexp.MustCompile(`^__debug_bin\d+$`): Name, // default output from dlv
			regexp.MustCompile(`^\.+`):             "",   // remove leading dot(s)
		} {
			id = rex.ReplaceAllString(id, rep)
		}

		if id == "" {
			return Name
		}

		return id
	},
)

// ConfigDir returns the configuration directory path.
//
//nolint:gochecknoglobals
var ConfigDir = sync.OnceValue(
	func() string {
		return filepath.Join(userDir(os.UserConfigDir, ".config"), Prefix())
	},
)

// CacheDir returns the cache directory path used for transient files.
//
//nolint:gochecknoglobals
var CacheDir = sync.OnceValue(
	func() string {
		return filepath.Join(userDir(os.UserCacheDir, ".cache"), Prefix())
	},
)

// userDir returns the directory reported by fn, falling back to a hidden
// directory in the user's home and finally to the working directory.
func userDir(fn func() (string, error), hidden string) string {
	dir, err := fn()
	if err == nil {
		return dir
	}

	dir, err = os.UserHomeDir()
	if err == nil {
		return filepath.Join(dir, hidden)
	}

	dir, err = os.Getwd()
	if err != nil {
		return "."
	}

	return dir
}

// EnvVar returns the environment variable identifier for name, e.g.
// EnvVar("data") is "VXS_DATA" when the executable is named vxs.
func EnvVar(name string) string {
	id := strings.Map(func(r rune) rune {
		if r == '-' || r == '.' {
			return '_'
		}

		return r
	}, Prefix()+"_"+name)

	return strings.ToUpper(id)
}

// DataPath returns the fixture search path: the given paths followed by the
// list-separated entries of the environment variable named by [EnvVar]("data").
// Duplicate and empty entries are removed.
func DataPath(paths ...string) []string {
	list := mung.Make(
		mung.WithSubjectItems(os.Getenv(EnvVar("data"))),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(paths...),
	).String()

	var out []string

	seen := make(map[string]struct{})

	for _, p := range filepath.SplitList(list) {
		if p == "" {
			continue
		}

		if _, ok := seen[p]; ok {
			continue
		}

		seen[p] = struct{}{}
		out = append(out, p)
	}

	return out
}
