package cmd

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// writeFiles creates each name with its content under a temporary directory
// and returns the directory.
func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()

	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	return dir
}

func readSources(t *testing.T, src *sourceFiles) string {
	t.Helper()

	if src == nil {
		return ""
	}

	data, err := io.ReadAll(src)
	if err != nil {
		t.Fatalf("read sources: %v", err)
	}

	return string(data)
}

func TestCollectSources(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"head.vxs": "<h1>@post(title)</h1>",
		"body.vxs": "<p>@post(body)</p>",
	})

	head := filepath.Join(dir, "head.vxs")
	body := filepath.Join(dir, "body.vxs")

	link := filepath.Join(dir, "alias.vxs")
	if err := os.Symlink(head, link); err != nil {
		t.Fatal(err)
	}

	t.Chdir(dir)

	tests := []struct {
		name    string
		sources []string
		want    string
	}{
		{"none", nil, ""},
		{"empty", []string{}, ""},
		{"one", []string{head}, "<h1>@post(title)</h1>"},
		{"ordered", []string{body, head}, "<p>@post(body)</p><h1>@post(title)</h1>"},
		{"repeated", []string{head, head}, "<h1>@post(title)</h1>"},
		{"relative and absolute", []string{"head.vxs", head}, "<h1>@post(title)</h1>"},
		{"symlink", []string{link, head, body}, "<h1>@post(title)</h1><p>@post(body)</p>"},
		{"missing skipped", []string{"/no/such.vxs", body}, "<p>@post(body)</p>"},
		{"all missing", []string{"/no/such.vxs", "gone.vxs"}, ""},
		{"directory skipped", []string{dir, head}, "<h1>@post(title)</h1>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := collectSources(tt.sources, nil)

			if tt.want == "" && src != nil {
				t.Fatalf("expected no sources, got %v", src.paths)
			}

			if got := readSources(t, src); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCollectSources_StdinLast(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.vxs": "file;"})

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}

	t.Cleanup(func() { _ = r.Close() })

	go func() {
		_, _ = io.WriteString(w, "stdin;")
		_ = w.Close()
	}()

	src := collectSources([]string{"-", filepath.Join(dir, "a.vxs"), "-", "-"}, r)
	if src == nil {
		t.Fatal("expected sources")
	}

	if got := readSources(t, src); got != "file;stdin;" {
		t.Errorf("got %q, want file then stdin once", got)
	}
}

func TestCollectSources_ResolvedPaths(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.vxs": "a", "b.vxs": "b"})

	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		t.Fatal(err)
	}

	src := collectSources([]string{
		filepath.Join(dir, "b.vxs"),
		filepath.Join(dir, ".", "a.vxs"),
		filepath.Join(dir, "b.vxs"),
	}, nil)

	want := []string{filepath.Join(resolved, "b.vxs"), filepath.Join(resolved, "a.vxs")}
	if diff := cmp.Diff(want, src.paths); diff != "" {
		t.Errorf("paths (-want +got):\n%s", diff)
	}
}

func TestTemplate(t *testing.T) {
	dir := writeFiles(t, map[string]string{"t.vxs": "from file"})

	tests := []struct {
		name string
		ctx  context.Context
		expr string
		want string
	}{
		{
			name: "expression wins",
			ctx:  WithSourceFiles(context.Background(), []string{filepath.Join(dir, "t.vxs")}),
			expr: "@post(title)",
			want: "@post(title)",
		},
		{
			name: "source files",
			ctx:  WithSourceFiles(context.Background(), []string{filepath.Join(dir, "t.vxs")}),
			want: "from file",
		},
		{
			name: "input fallback",
			ctx: WithInput(
				WithSourceFiles(context.Background(), []string{"/missing"}),
				strings.NewReader("from input"),
			),
			want: "from input",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := template(tt.ctx, tt.expr)
			if err != nil {
				t.Fatalf("template: %v", err)
			}

			if got != tt.want {
				t.Errorf("template = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLazyFile_OpenError(t *testing.T) {
	_, err := io.ReadAll(&lazyFile{path: filepath.Join(t.TempDir(), "gone")})
	if !os.IsNotExist(err) {
		t.Fatalf("expected a not-exist error, got %v", err)
	}
}
