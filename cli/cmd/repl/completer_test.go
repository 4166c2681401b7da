package repl

import (
	"context"
	"io"
	"path/filepath"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ardnew/vxs/groups"
	"github.com/ardnew/vxs/lang"
	"github.com/ardnew/vxs/log"
)

var shopFixture = filepath.Join("..", "..", "..", "groups", "testdata", "shop.yaml")

func shopScope(t testing.TB, sel groups.Selection) *lang.Scope {
	t.Helper()

	store, err := groups.Load(context.Background(), shopFixture)
	if err != nil {
		t.Fatalf("load fixture: %v", err)
	}

	s := lang.NewScope(context.Background(),
		lang.WithLogger(log.Make(io.Discard)),
		lang.WithRules(groups.Rules()),
		lang.WithQueryVars(store.QueryVars),
	)

	if err := groups.Bind(s, store, sel); err != nil {
		t.Fatalf("bind: %v", err)
	}

	return s
}

func TestScan(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  cursorContext
	}{
		{"text", "Hello ", cursorContext{kind: cursorText, start: 6}},
		{"group start", "Hello @", cursorContext{kind: cursorGroup, start: 7}},
		{"group partial", "@po", cursorContext{kind: cursorGroup, start: 1}},
		{"property start", "@post(", cursorContext{kind: cursorProperty, group: "post", start: 6}},
		{
			"property path", "@post(author.dis",
			cursorContext{kind: cursorProperty, group: "post", parent: []string{"author"}, start: 13},
		},
		{"modifier start", "@post(title).", cursorContext{kind: cursorModifier, group: "post", start: 13}},
		{"modifier partial", "@post(title).trun", cursorContext{kind: cursorModifier, group: "post", start: 13}},
		{
			"second argument", "@post(title).truncate(5, ",
			cursorContext{kind: cursorArgument, group: "post", modifier: "truncate", argIndex: 1, start: 25},
		},
		{
			"chained modifier", "@post(title).truncate(5).",
			cursorContext{kind: cursorModifier, group: "post", modifier: "truncate", chained: true, start: 25},
		},
		{
			"nested tag", "@site().math(@post(fi",
			cursorContext{kind: cursorProperty, group: "post", start: 19},
		},
		{"after tag", "@post(title) and ", cursorContext{kind: cursorText, start: 17}},
		{"escaped comma", `@post(tags).list(\, `, cursorContext{
			kind: cursorArgument, group: "post", modifier: "list", start: 20,
		}},
		{"bare at", "@ ", cursorContext{kind: cursorText, start: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scan(tt.input)
			if diff := cmp.Diff(tt.want, got, cmp.AllowUnexported(cursorContext{})); diff != "" {
				t.Errorf("scan(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestCandidates(t *testing.T) {
	s := shopScope(t, groups.Selection{Post: 100, User: 1})

	tests := []struct {
		name    string
		input   string
		want    []string
		notWant []string
	}{
		{"groups", "@", []string{"author", "post", "site", "user"}, []string{"order"}},
		{"site properties", "@site(", []string{"name", "title", "url"}, nil},
		{"nested properties", "@post(author.", []string{"display_name", "name", "role"}, []string{"title"}},
		{"list properties", "@user(roles.", []string{"key", "label"}, nil},
		{"site modifiers", "@site().", []string{"math", "meta", "truncate", "then"}, nil},
		{"post modifiers", "@post(title).", []string{"meta", "uppercase"}, []string{"math"}},
		{"chained modifiers", "@site().meta(phone).", []string{"uppercase"}, []string{"meta"}},
		{"argument choices", "@post(fields.price).currency_format(", []string{"EUR", "USD"}, nil},
		{"unknown group", "@nope(", nil, nil},
		{"text", "plain ", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := candidates(s, scan(tt.input))

			for _, w := range tt.want {
				if !slices.Contains(got, w) {
					t.Errorf("candidates(%q) missing %q: %v", tt.input, w, got)
				}
			}

			for _, w := range tt.notWant {
				if slices.Contains(got, w) {
					t.Errorf("candidates(%q) unexpectedly has %q", tt.input, w)
				}
			}

			if tt.want == nil && len(got) != 0 {
				t.Errorf("candidates(%q) = %v, want none", tt.input, got)
			}
		})
	}
}

func TestComputeMatches(t *testing.T) {
	m := newModel(context.Background(),
		shopScope(t, groups.Selection{Post: 100}),
		NewHistory(filepath.Join(t.TempDir(), baseHistory)),
		log.Make(io.Discard),
	)

	m.input.SetValue("Title: @post(tit")
	m.input.SetCursor(len(m.input.Value()))

	matches, _, start, end := m.computeMatches()
	if start != 13 || end != 16 {
		t.Errorf("word bounds = (%d, %d), want (13, 16)", start, end)
	}

	if len(matches) == 0 || matches[0].Str != "title" {
		t.Fatalf("best match = %v, want title", matches)
	}

	m.mode = modeCtrl
	m.input.SetValue("mod")
	m.input.SetCursor(3)

	matches, _, _, _ = m.computeMatches()
	if len(matches) != 1 || matches[0].Str != "modifiers" {
		t.Errorf("ctrl matches = %v, want [modifiers]", matches)
	}

	// Only the command word completes.
	m.input.SetValue("use po")
	m.input.SetCursor(6)

	if matches, _, _, _ = m.computeMatches(); len(matches) != 0 {
		t.Errorf("ctrl argument matches = %v, want none", matches)
	}
}

func TestWordEnd(t *testing.T) {
	tests := []struct {
		input  string
		cursor int
		want   int
	}{
		{"@post(title)", 8, 11},
		{"@post(display_name).x", 7, 18},
		{"@post(", 6, 6},
		{"abc", 10, 3},
	}

	for _, tt := range tests {
		if got := wordEnd(tt.input, tt.cursor); got != tt.want {
			t.Errorf("wordEnd(%q, %d) = %d, want %d", tt.input, tt.cursor, got, tt.want)
		}
	}
}

func BenchmarkScan(b *testing.B) {
	const input = "Hi @user(display_name).fallback(friend), " +
		"@site().math(@post(fields.price) * 2).number_format(2, "

	for b.Loop() {
		_ = scan(input)
	}
}
