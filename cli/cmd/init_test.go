package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
	"github.com/google/go-cmp/cmp"
)

func initContext(t *testing.T, cli any, confPath string, args ...string) context.Context {
	t.Helper()

	parser, err := kong.New(cli, kong.Vars{ConfigIdentifier: confPath})
	if err != nil {
		t.Fatal(err)
	}

	kctx, err := parser.Parse(args)
	if err != nil {
		t.Fatal(err)
	}

	return WithContext(context.Background(), kctx)
}

// TestInitRun tests the Init.Run command.
func TestInitRun(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		force   bool
		setup   func(t *testing.T, path string)
		wantErr error
	}{
		{
			name: "create_new_config",
		},
		{
			name:  "overwrite_existing_with_force",
			force: true,
			setup: func(t *testing.T, path string) {
				if err := os.WriteFile(path, []byte("existing: content\n"), 0o600); err != nil {
					t.Fatal(err)
				}
			},
		},
		{
			name: "fail_without_force",
			setup: func(t *testing.T, path string) {
				if err := os.WriteFile(path, []byte("existing: content\n"), 0o600); err != nil {
					t.Fatal(err)
				}
			},
			wantErr: ErrFileExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			confPath := filepath.Join(t.TempDir(), "config.yaml")

			if tt.setup != nil {
				tt.setup(t, confPath)
			}

			var cli struct {
				Locale string `default:"en-US"`
			}

			ctx := initContext(t, &cli, confPath)

			err := (&Init{Force: tt.force}).Run(ctx)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Init.Run() error = %v, want %v", err, tt.wantErr)
				}

				return
			}

			if err != nil {
				t.Fatalf("Init.Run() unexpected error = %v", err)
			}

			content, err := os.ReadFile(confPath)
			if err != nil {
				t.Fatal(err)
			}

			var got map[string]any
			if err := yaml.Unmarshal(content, &got); err != nil {
				t.Fatalf("generated config is not valid YAML: %v\n%s", err, content)
			}

			if got["locale"] != "en-US" {
				t.Errorf("locale = %v, want en-US", got["locale"])
			}
		})
	}
}

// TestInitConfigValues tests that flag values are written in declaration
// order and unset values are omitted.
func TestInitConfigValues(t *testing.T) {
	t.Parallel()

	var cli struct {
		Verbose bool              `name:"verbose"`
		Output  string            `name:"output"`
		Empty   string            `name:"empty"`
		Count   int               `name:"count"`
		Data    []string          `name:"data"`
		Vars    map[string]string `name:"var"`
	}

	ctx := initContext(t, &cli, filepath.Join(t.TempDir(), "config.yaml"),
		"--verbose", "--output=test.txt", "--count=5",
		"--data=a.yaml", "--data=b.yaml", "--var=tab=reviews",
	)

	entries := (&Init{}).config(kongContextFrom(ctx))

	var keys []string
	for _, item := range entries {
		keys = append(keys, item.Key.(string))
	}

	want := []string{"verbose", "output", "count", "data", "var"}
	if diff := cmp.Diff(want, keys); diff != "" {
		t.Errorf("config keys mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff([]string{"a.yaml", "b.yaml"}, entries[3].Value); diff != "" {
		t.Errorf("data mismatch (-want +got):\n%s", diff)
	}
}

// TestInitWithInvalidPath tests init with an invalid file path.
func TestInitWithInvalidPath(t *testing.T) {
	t.Parallel()

	var cli struct{}

	ctx := initContext(t, &cli, "/nonexistent/directory/config.yaml")

	err := (&Init{}).Run(ctx)
	if !errors.Is(err, ErrWriteConfig) {
		t.Errorf("Init.Run() error = %v, want %v", err, ErrWriteConfig)
	}
}
