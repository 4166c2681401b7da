package cli

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/google/go-cmp/cmp"
)

// testCLI mirrors the kinds of flags the config file may set.
type testCLI struct {
	LogLevel string            `default:"info"`
	Pretty   bool              `default:"true" negatable:""`
	Data     []string          ``
	Var      map[string]string ``
	Limit    int               ``
	Ratio    float64           ``
}

func parseWithConfig(t *testing.T, content string, args ...string) testCLI {
	t.Helper()

	var cli testCLI

	parser, err := kong.New(&cli,
		kong.Resolvers(mustResolve(t, content)),
		kong.Exit(func(int) { t.Fatal("unexpected exit") }),
	)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := parser.Parse(args); err != nil {
		t.Fatalf("parse: %v", err)
	}

	return cli
}

func mustResolve(t *testing.T, content string) kong.Resolver {
	t.Helper()

	r, err := resolve(context.Background())(strings.NewReader(content))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	return r
}

func TestResolve_FlatKeys(t *testing.T) {
	got := parseWithConfig(t, `
log-level: debug
pretty: false
data: [a.yaml, b.yaml]
var: {tab: reviews, page: 2}
limit: 5
ratio: 0.5
`)

	want := testCLI{
		LogLevel: "debug",
		Data:     []string{"a.yaml", "b.yaml"},
		Var:      map[string]string{"page": "2", "tab": "reviews"},
		Limit:    5,
		Ratio:    0.5,
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestResolve_NestedAndUnderscoreKeys(t *testing.T) {
	got := parseWithConfig(t, "log:\n  level: warn\n")
	if got.LogLevel != "warn" {
		t.Errorf("nested log level = %q, want warn", got.LogLevel)
	}

	got = parseWithConfig(t, "LOG_LEVEL: error\n")
	if got.LogLevel != "error" {
		t.Errorf("underscore log level = %q, want error", got.LogLevel)
	}
}

func TestResolve_FlagsOverrideConfig(t *testing.T) {
	got := parseWithConfig(t, "log-level: debug\nlimit: 5\n", "--log-level=warn")

	if got.LogLevel != "warn" || got.Limit != 5 {
		t.Errorf("got %+v", got)
	}
}

func TestResolve_InvalidOrEmpty(t *testing.T) {
	for _, content := range []string{"", "- not\n- a mapping\n", "key: [unclosed\n"} {
		got := parseWithConfig(t, content)
		if got.LogLevel != "info" || !got.Pretty {
			t.Errorf("config %q changed defaults: %+v", content, got)
		}
	}
}

func TestResolve_ReadError(t *testing.T) {
	r, err := resolve(context.Background())(errorReader{})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	if cfg, ok := r.(config); !ok || len(cfg) != 0 {
		t.Errorf("resolver = %#v, want empty config", r)
	}
}

type errorReader struct{}

func (errorReader) Read([]byte) (int, error) { return 0, errors.New("read failed") }

func TestFlagValue(t *testing.T) {
	tests := []struct {
		in   any
		want any
	}{
		{true, true},
		{"text", "text"},
		{int64(-3), "-3"},
		{uint64(7), "7"},
		{1.25, "1.25"},
		{[]any{"a", uint64(1)}, "a,1"},
		{map[string]any{"b": "2", "a": uint64(1)}, "a=1;b=2"},
	}

	for _, tt := range tests {
		if got := flagValue(tt.in); got != tt.want {
			t.Errorf("flagValue(%#v) = %#v, want %#v", tt.in, got, tt.want)
		}
	}
}
