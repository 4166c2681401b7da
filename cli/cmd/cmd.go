package cmd

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

type (
	sourceFilesKey struct{}
	dataFilesKey   struct{}
	outputKey      struct{}
	inputKey       struct{}
)

// stdinSource names standard input in a source list.
const stdinSource = "-"

// sourceFiles reads the unique template sources named on the command line in
// order, with stdin last. Files are opened on the first Read.
type sourceFiles struct {
	paths []string
	stdin io.Reader
	r     io.Reader
}

func (s *sourceFiles) Read(p []byte) (int, error) {
	if s.r == nil {
		readers := make([]io.Reader, 0, len(s.paths)+1)

		for _, path := range s.paths {
			readers = append(readers, &lazyFile{path: path})
		}

		if s.stdin != nil {
			readers = append(readers, s.stdin)
		}

		s.r = io.MultiReader(readers...)
	}

	return s.r.Read(p)
}

// lazyFile opens path on its first Read and closes it at EOF.
type lazyFile struct {
	path string
	f    *os.File
	done bool
}

func (l *lazyFile) Read(p []byte) (int, error) {
	if l.done {
		return 0, io.EOF
	}

	if l.f == nil {
		f, err := os.Open(l.path)
		if err != nil {
			l.done = true

			return 0, err
		}

		l.f = f
	}

	n, err := l.f.Read(p)
	if err == io.EOF {
		l.done = true
		_ = l.f.Close()
	}

	return n, err
}

// fileKey identifies a file by device and inode, so a file named twice
// through symlinks or relative paths is read once.
type fileKey struct {
	dev uint64
	ino uint64
}

// WithSourceFiles returns a context holding a reader over the template files
// in sources. Missing and repeated files are skipped. Every "-" stands for
// stdin, which is read once after all files.
func WithSourceFiles(ctx context.Context, sources []string) context.Context {
	return context.WithValue(ctx, sourceFilesKey{}, collectSources(sources, os.Stdin))
}

func collectSources(sources []string, stdin *os.File) *sourceFiles {
	var (
		src      sourceFiles
		useStdin bool
	)

	seen := make(map[fileKey]bool)

	stdinKey, stdinOK := statKey(stdin)
	if stdinOK {
		seen[stdinKey] = true
	}

	for _, name := range sources {
		if name == stdinSource {
			useStdin = true

			continue
		}

		path, key, ok := resolve(name)
		if !ok {
			continue
		}

		if stdinOK && key == stdinKey {
			useStdin = true

			continue
		}

		if seen[key] {
			continue
		}

		seen[key] = true
		src.paths = append(src.paths, path)
	}

	if useStdin {
		src.stdin = stdin
	}

	if len(src.paths) == 0 && src.stdin == nil {
		return nil
	}

	return &src
}

// resolve returns the real path of name and its file key.
func resolve(name string) (string, fileKey, bool) {
	abs, err := filepath.Abs(name)
	if err != nil {
		return "", fileKey{}, false
	}

	path, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fileKey{}, false
	}

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", fileKey{}, false
	}

	key, ok := infoKey(info)

	return path, key, ok
}

func statKey(f *os.File) (fileKey, bool) {
	if f == nil {
		return fileKey{}, false
	}

	info, err := f.Stat()
	if err != nil {
		return fileKey{}, false
	}

	return infoKey(info)
}

func infoKey(info os.FileInfo) (fileKey, bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return fileKey{}, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true //nolint:unconvert
}

func sourceFilesFrom(ctx context.Context) io.Reader {
	if src, ok := ctx.Value(sourceFilesKey{}).(*sourceFiles); ok && src != nil {
		return src
	}

	return nil
}

// WithDataFiles returns a new context.Context containing the fixture files
// that describe the site.
func WithDataFiles(ctx context.Context, paths []string) context.Context {
	return context.WithValue(ctx, dataFilesKey{}, paths)
}

func dataFilesFrom(ctx context.Context) []string {
	paths, _ := ctx.Value(dataFilesKey{}).([]string)

	return paths
}

// WithOutput returns a new context.Context whose commands write their results
// to w instead of stdout.
func WithOutput(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, outputKey{}, w)
}

func outputFrom(ctx context.Context) io.Writer {
	if w, ok := ctx.Value(outputKey{}).(io.Writer); ok && w != nil {
		return w
	}

	return os.Stdout
}

// WithInput returns a new context.Context whose commands read template text
// from r when no source file or expression is given.
func WithInput(ctx context.Context, r io.Reader) context.Context {
	return context.WithValue(ctx, inputKey{}, r)
}

func inputFrom(ctx context.Context) io.Reader {
	if r, ok := ctx.Value(inputKey{}).(io.Reader); ok && r != nil {
		return r
	}

	return os.Stdin
}

// template returns the template text selected by expr, the source files in
// ctx, or the default input, in that order of preference.
func template(ctx context.Context, expr string) (string, error) {
	if expr != "" {
		return expr, nil
	}

	var r io.Reader = inputFrom(ctx)
	if src := sourceFilesFrom(ctx); src != nil {
		r = src
	}

	var sb strings.Builder

	if _, err := io.Copy(&sb, r); err != nil {
		return "", ErrReadTemplate.Wrap(err)
	}

	return sb.String(), nil
}
