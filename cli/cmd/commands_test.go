package cmd

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ardnew/vxs/groups"
	"github.com/ardnew/vxs/lang"
)

var shopFixture = filepath.Join("..", "..", "groups", "testdata", "shop.yaml")

// run executes command with the shop fixture loaded and input as the default
// template source, and returns what it wrote.
func run(t *testing.T, command interface{ Run(context.Context) error }, input string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	ctx := WithDataFiles(context.Background(), []string{shopFixture})
	ctx = WithOutput(ctx, &out)
	ctx = WithInput(ctx, strings.NewReader(input))

	err := command.Run(ctx)

	return out.String(), err
}

func request() Request {
	return Request{
		Locale:     lang.DefaultLocale,
		DateLayout: lang.DefaultDateLayout,
		Now:        "2024-12-01T12:00:00Z",
	}
}

func TestRender_Run(t *testing.T) {
	tests := []struct {
		name   string
		render func(*Render)
		input  string
		want   string
	}{
		{
			name:  "stdin template",
			input: "Welcome to @site(title)",
			want:  "Welcome to My Shop",
		},
		{
			name:   "expression",
			render: func(r *Render) { r.Expr = "@post(title)"; r.Post = 100 },
			want:   "Blue Mug",
		},
		{
			name: "query var override",
			render: func(r *Render) {
				r.Expr = "@site().query_var(tab)"
				r.Vars = map[string]string{"tab": "details"}
			},
			want: "details",
		},
		{
			name: "loop",
			render: func(r *Render) {
				r.Post = 100
				r.Loop = "@post(terms.tag)"
			},
			input: "#@post(terms.tag.slug) ",
			want:  "#blue #gift ",
		},
		{
			name: "loop index",
			render: func(r *Render) {
				r.Post = 100
				r.Loop = "@post(category)"
				r.Index = "-1"
			},
			input: "@post(category.label)",
			want:  "Mugs",
		},
		{
			name: "loop limit offset",
			render: func(r *Render) {
				r.Order = 500
				r.Loop = "@order(items)"
				r.Offset = 1
				r.Limit = 5
			},
			input: "[@order(items.product.title)]",
			want:  "[Tall Vase]",
		},
		{
			name: "user age",
			render: func(r *Render) {
				r.User = 1
				r.Expr = "@user(birthday).to_age()"
			},
			want: "33",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Render{Request: request()}
			if tt.render != nil {
				tt.render(r)
			}

			got, err := run(t, r, tt.input)
			if err != nil {
				t.Fatalf("Render.Run() error = %v", err)
			}

			if got != tt.want {
				t.Errorf("Render.Run() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRender_Errors(t *testing.T) {
	tests := []struct {
		name    string
		render  func(*Render)
		wantErr error
	}{
		{"unknown post", func(r *Render) { r.Post = 999 }, groups.ErrNotFound},
		{"bad time", func(r *Render) { r.Now = "yesterday" }, ErrInvalidTime},
		{"bad index", func(r *Render) { r.Post = 100; r.Loop = "@post(tags)"; r.Index = "x" }, ErrInvalidIndex},
		{"not a list", func(r *Render) { r.Post = 100; r.Loop = "@post(title)" }, lang.ErrNotLoopable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Render{Request: request(), Expr: "x"}
			tt.render(r)

			if _, err := run(t, r, ""); !errors.Is(err, tt.wantErr) {
				t.Errorf("Render.Run() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRender_MissingData(t *testing.T) {
	ctx := WithDataFiles(context.Background(), []string{"testdata/nope.yaml"})
	ctx = WithOutput(ctx, io.Discard)

	err := (&Render{Request: request(), Expr: "x"}).Run(ctx)
	if !errors.Is(err, ErrLoadData) {
		t.Errorf("Render.Run() error = %v, want %v", err, ErrLoadData)
	}
}

func TestTokens_Run(t *testing.T) {
	const input = "Hi @user(name).upper()!"

	t.Run("native", func(t *testing.T) {
		got, err := run(t, &Tokens{Format: "native"}, input)
		if err != nil {
			t.Fatal(err)
		}

		if got != input {
			t.Errorf("native tokens = %q, want %q", got, input)
		}
	})

	t.Run("json", func(t *testing.T) {
		got, err := run(t, &Tokens{Format: "json"}, input)
		if err != nil {
			t.Fatal(err)
		}

		var records []map[string]any
		if err := json.Unmarshal([]byte(got), &records); err != nil {
			t.Fatalf("invalid JSON: %v\n%s", err, got)
		}

		if len(records) != 3 {
			t.Fatalf("got %d records, want 3", len(records))
		}

		if records[1]["group"] != "user" {
			t.Errorf("tag record = %v", records[1])
		}
	})

	t.Run("yaml", func(t *testing.T) {
		got, err := run(t, &Tokens{Format: "yaml", Indent: 2}, input)
		if err != nil {
			t.Fatal(err)
		}

		if !strings.Contains(got, "group: user") {
			t.Errorf("YAML tokens missing tag group:\n%s", got)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		if _, err := run(t, &Tokens{Format: "xml"}, input); !errors.Is(err, lang.ErrInvalidFormat) {
			t.Errorf("error = %v, want %v", err, lang.ErrInvalidFormat)
		}
	})
}

func TestExport_Run(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		got, err := run(t, &Export{Format: "json", Indent: 2}, "")
		if err != nil {
			t.Fatal(err)
		}

		var schema lang.Schema
		if err := json.Unmarshal([]byte(got), &schema); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}

		if _, ok := schema.Groups["order"]; !ok {
			t.Error("order group missing from schema")
		}

		if _, ok := schema.Modifiers["date_format"]; !ok {
			t.Error("date_format missing from modifiers")
		}
	})

	t.Run("gzip", func(t *testing.T) {
		got, err := run(t, &Export{Format: "json", Gzip: true}, "")
		if err != nil {
			t.Fatal(err)
		}

		zr, err := gzip.NewReader(strings.NewReader(got))
		if err != nil {
			t.Fatalf("output is not gzip: %v", err)
		}

		data, err := io.ReadAll(zr)
		if err != nil {
			t.Fatal(err)
		}

		if !json.Valid(data) {
			t.Errorf("decompressed output is not JSON:\n%s", data)
		}
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "schema.yaml")

		got, err := run(t, &Export{Format: "yaml", Indent: 2, Output: path}, "")
		if err != nil {
			t.Fatal(err)
		}

		if got != "" {
			t.Errorf("unexpected stdout output: %q", got)
		}
	})
}

func TestVisible_Run(t *testing.T) {
	const rules = `
- - type: user:logged_in
  - type: user:role
    value: customer
- - type: dtag
    tag: "@post(fields.price)"
    compare: is_less_than
    value: 30
`

	tests := []struct {
		name string
		req  func(*Request)
		want string
	}{
		{"customer", func(r *Request) { r.User = 2 }, "true\n"},
		{"cheap post", func(r *Request) { r.Post = 100 }, "true\n"},
		{"expensive post", func(r *Request) { r.Post = 101 }, "false\n"},
		{"admin", func(r *Request) { r.User = 1 }, "false\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &Visible{Request: request(), Rules: stdinSource}
			tt.req(&v.Request)

			got, err := run(t, v, rules)
			if err != nil {
				t.Fatal(err)
			}

			if got != tt.want {
				t.Errorf("Visible.Run() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecodeRules(t *testing.T) {
	got, err := DecodeRules(context.Background(), []byte(`
- - {type: dtag, tag: "@post(id)", compare: is_equal_to, value: 100}
  - {type: user:logged_in}
- []
`))
	if err != nil {
		t.Fatal(err)
	}

	want := [][]lang.RuleCall{
		{
			{"type": "dtag", "tag": "@post(id)", "compare": "is_equal_to", "value": "100"},
			{"type": "user:logged_in"},
		},
		{},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("DecodeRules mismatch (-want +got):\n%s", diff)
	}

	if _, err := DecodeRules(context.Background(), []byte("{")); !errors.Is(err, ErrDecodeRules) {
		t.Errorf("DecodeRules error = %v, want %v", err, ErrDecodeRules)
	}
}

func TestRepl_ScopeFunc(t *testing.T) {
	ctx := WithDataFiles(context.Background(), []string{shopFixture})

	store, err := loadStore(ctx)
	if err != nil {
		t.Fatal(err)
	}

	r := Repl{Request: request()}
	newScope := r.scopeFunc(ctx, store)

	s, err := newScope(groups.Selection{User: 2}, map[string]string{"tab": "specs"})
	if err != nil {
		t.Fatal(err)
	}

	if got := s.Render("@user(name) @site().query_var(tab)"); got != "Grace Hopper specs" {
		t.Errorf("render = %q", got)
	}

	if _, err := newScope(groups.Selection{Order: 1}, nil); !errors.Is(err, groups.ErrNotFound) {
		t.Errorf("unknown order error = %v, want ErrNotFound", err)
	}

	if dir := cacheDir(ctx); dir == "" {
		t.Error("empty cache dir")
	}
}

func TestMergeVars(t *testing.T) {
	got := mergeVars(
		map[string]string{"a": "1", "b": "2"},
		nil,
		map[string]string{"b": "3"},
	)

	if diff := cmp.Diff(map[string]string{"a": "1", "b": "3"}, got); diff != "" {
		t.Errorf("mergeVars mismatch (-want +got):\n%s", diff)
	}
}
