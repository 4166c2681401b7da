package log

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestOptions_SetField(t *testing.T) {
	var buf bytes.Buffer

	tests := []struct {
		name  string
		opt   Option
		check func(config) bool
	}{
		{"level", WithLevel(LevelWarn), func(c config) bool { return c.level == LevelWarn }},
		{"format", WithFormat(FormatText), func(c config) bool { return c.format == FormatText }},
		{"caller", WithCaller(true), func(c config) bool { return c.caller }},
		{"pretty", WithPretty(true), func(c config) bool { return c.pretty }},
		{"output", WithOutput(&buf), func(c config) bool { return c.output == &buf }},
		{"nil output", WithOutput(nil), func(c config) bool { return c.output == io.Discard }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := tt.opt(config{})

			if c.mutex == nil {
				t.Error("option did not create the lock")
			}

			if !tt.check(c) {
				t.Errorf("option not applied: %+v", c)
			}
		})
	}
}

func TestWithDefaults(t *testing.T) {
	c := apply(config{}, WithLevel(LevelError), WithCaller(true), WithDefaults(nil))

	if c.level != DefaultLevel || c.format != DefaultFormat {
		t.Errorf("level, format = %v, %v", c.level, c.format)
	}

	if c.caller != DefaultCaller || c.pretty != DefaultPretty {
		t.Errorf("caller, pretty = %v, %v", c.caller, c.pretty)
	}

	if c.output != io.Discard {
		t.Error("nil writer should discard")
	}
}

func TestApply_SkipsNil(t *testing.T) {
	c := apply(config{}, nil, WithLevel(LevelDebug), nil)

	if c.level != LevelDebug {
		t.Errorf("level = %v", c.level)
	}
}

func TestWithTimeLayout(t *testing.T) {
	ts := time.Date(2024, time.May, 1, 15, 4, 5, 600_000_000, time.UTC)

	tests := []struct {
		layout string
		want   string
	}{
		{"RFC3339", "2024-05-01T15:04:05Z"},
		{"rfc-3339", "2024-05-01T15:04:05Z"},
		{"Kitchen", "3:04PM"},
		{"DateOnly", "2024-05-01"},
		{"ms", "May  1 15:04:05.600"},
		{"2006/01/02", "2024/05/01"},
		{"none", ""},
		{"", ""},
		{"  ", ""},
	}

	for _, tt := range tests {
		c := WithTimeLayout(tt.layout)(config{})

		if got := c.formatTime(ts); got != tt.want {
			t.Errorf("WithTimeLayout(%q) = %q, want %q", tt.layout, got, tt.want)
		}
	}
}

func TestReplaceAttr(t *testing.T) {
	c := WithTimeLayout("none")(config{})

	if got := c.replaceAttr(nil, slog.Time(slog.TimeKey, time.Now())); !got.Equal(slog.Attr{}) {
		t.Errorf("time attribute kept: %v", got)
	}

	got := c.replaceAttr(nil, slog.Any(slog.LevelKey, slog.Level(LevelTrace)))
	if got.Value.String() != "TRACE" {
		t.Errorf("level = %q, want TRACE", got.Value.String())
	}

	if other := slog.Int("n", 1); !c.replaceAttr(nil, other).Equal(other) {
		t.Error("unrelated attribute changed")
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"trace":   LevelTrace,
		"TRACE":   LevelTrace,
		"debug":   LevelDebug,
		"warn":    LevelWarn,
		"ERROR":   LevelError,
		"info+2":  LevelInfo + 2,
		"verbose": DefaultLevel,
	}

	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{
		"json":   FormatJSON,
		" Text ": FormatText,
		"xml":    DefaultFormat,
	}

	for in, want := range tests {
		if got := ParseFormat(in); got != want {
			t.Errorf("ParseFormat(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLevelsAndFormats(t *testing.T) {
	var levels, formats []string

	for l := range Levels() {
		levels = append(levels, l)
	}

	for f := range Formats() {
		formats = append(formats, f)
	}

	if diff := cmp.Diff([]string{"trace", "debug", "info", "warn", "error"}, levels); diff != "" {
		t.Errorf("Levels (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff([]string{"json", "text"}, formats); diff != "" {
		t.Errorf("Formats (-want +got):\n%s", diff)
	}
}

func TestErr(t *testing.T) {
	if got := Err(nil); !got.Equal(slog.Attr{}) {
		t.Errorf("Err(nil) = %v", got)
	}

	var buf bytes.Buffer

	Make(&buf, WithPretty(false)).Info("failed", Err(errors.New("boom")))

	if !strings.Contains(buf.String(), `"error":"boom"`) {
		t.Errorf("missing error attribute: %s", buf.String())
	}
}

func TestLogger_Tracing(t *testing.T) {
	ctx := context.Background()

	if (Logger{}).Tracing(ctx) {
		t.Error("zero Logger should not trace")
	}

	if Make(io.Discard).Tracing(ctx) {
		t.Error("default level should not trace")
	}

	if !Make(io.Discard, WithLevel(LevelTrace)).Tracing(ctx) {
		t.Error("trace level should trace")
	}
}

func TestLogger_WithGroup(t *testing.T) {
	var buf bytes.Buffer

	l := Make(&buf, WithPretty(false)).WithGroup("render")
	l.Info("tag", slog.String("group", "post"))

	if !strings.Contains(buf.String(), `"render":{"group":"post"}`) {
		t.Errorf("attributes not grouped: %s", buf.String())
	}

	if l.Level() != DefaultLevel || l.Format() != FormatJSON {
		t.Error("WithGroup lost the configuration")
	}
}

func TestLogger_CallerFrame(t *testing.T) {
	var buf bytes.Buffer

	l := Make(&buf, WithPretty(false), WithCaller(true))

	l.Info("method")

	if !strings.Contains(buf.String(), "config_test.go") {
		t.Errorf("method caller is not the test: %s", buf.String())
	}

	buf.Reset()
	useDefault(t, l)
	Info("function")

	if !strings.Contains(buf.String(), "config_test.go") {
		t.Errorf("function caller is not the test: %s", buf.String())
	}
}
