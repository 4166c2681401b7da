package cli

import (
	"testing"

	"github.com/ardnew/vxs/log"
)

func TestLogConfig_Scan(t *testing.T) {
	defer log.Config(log.WithLevel(log.DefaultLevel), log.WithPretty(true), log.WithCaller(false))

	tests := []struct {
		name string
		args []string
		want logConfig
	}{
		{
			name: "assigned values",
			args: []string{"--log-level=debug", "--log-format=json"},
			want: logConfig{Level: "debug", Format: "json"},
		},
		{
			name: "separate values",
			args: []string{"render", "--log-level", "trace", "-e", "x"},
			want: logConfig{Level: "trace"},
		},
		{
			name: "missing value",
			args: []string{"--log-level", "--post", "1"},
			want: logConfig{},
		},
		{
			name: "booleans",
			args: []string{"--log-caller", "--no-log-pretty"},
			want: logConfig{Caller: true},
		},
		{
			name: "assigned booleans",
			args: []string{"--log-caller=false", "--log-pretty=true", "--no-log-caller=false"},
			want: logConfig{Caller: true, Pretty: true},
		},
		{
			name: "negated value flag ignored",
			args: []string{"--no-log-level", "debug"},
			want: logConfig{},
		},
		{
			name: "unrelated flags",
			args: []string{"--logger=x", "--var", "log-level=debug"},
			want: logConfig{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got logConfig

			got.scan(tt.args)

			if got != tt.want {
				t.Errorf("scan(%q) = %+v, want %+v", tt.args, got, tt.want)
			}
		})
	}
}

func TestLogConfig_Vars(t *testing.T) {
	var c logConfig

	vars := c.vars()

	if got := vars["logLevelEnum"]; got != "trace,debug,info,warn,error" {
		t.Errorf("level enum = %q", got)
	}

	if got := vars["logFormatEnum"]; got != "json,text" {
		t.Errorf("format enum = %q", got)
	}
}

func TestFlagBool(t *testing.T) {
	tests := []struct {
		value             string
		assigned, negated bool
		want              bool
	}{
		{"", false, false, true},
		{"", false, true, false},
		{"false", true, false, false},
		{"false", true, true, true},
		{"junk", true, false, true},
	}

	for _, tt := range tests {
		if got := flagBool(tt.value, tt.assigned, tt.negated); got != tt.want {
			t.Errorf("flagBool(%q, %v, %v) = %v, want %v",
				tt.value, tt.assigned, tt.negated, got, tt.want)
		}
	}
}
