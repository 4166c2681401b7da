package lang

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/ardnew/vxs/log"
)

var testNow = time.Date(2024, time.December, 1, 12, 0, 0, 0, time.UTC)

// article is the provider behind the "post" test group.
type article struct{}

func (article) Properties(*Scope) Properties {
	return Properties{
		"title":    String("Title", func(*Scope) string { return "Hello World" }),
		"empty":    String("Empty", func(*Scope) string { return "" }),
		"price":    Number("Price", func(*Scope) float64 { return 24.5 }),
		"views":    Number("Views", func(*Scope) float64 { return 1520.25 }),
		"neg":      Int("Negative", func(*Scope) int64 { return -3 }),
		"zero":     Int("Zero", func(*Scope) int64 { return 0 }),
		"flag":     Bool("Flag", func(*Scope) bool { return true }),
		"date":     Date("Date", func(*Scope) time.Time { return time.Date(2024, time.May, 1, 10, 0, 0, 0, time.UTC) }),
		"birthday": String("Birthday", func(*Scope) string { return "1990-12-10" }),
		"boom": NewValue(KindString, "Boom", ResolverFunc(func(*Scope) any {
			panic("resolver exploded")
		})),
		"author": NewObject("Author", ProviderFunc(func(*Scope) Properties {
			return Properties{
				"name":  String("Name", func(*Scope) string { return "ada" }),
				"email": Email("E-mail", func(*Scope) string { return "ada@example.com" }),
			}
		}), WithExports("user")),
		"tags": NewObjectList("Tags", ListerFunc(func(*Scope) []Provider {
			return []Provider{tagItem("go"), tagItem("rust")}
		})),
		"none": NewObjectList("None", ListerFunc(func(*Scope) []Provider { return nil })),
	}
}

func (article) Meta(_ *Scope, key string) (any, bool) {
	m := map[string]any{"color": "blue", "stock": 7}
	v, ok := m[key]

	return v, ok
}

func tagItem(name string) Provider {
	return ProviderFunc(func(*Scope) Properties {
		return Properties{
			"name": String("Name", func(*Scope) string { return name }),
			"slug": String("Slug", func(*Scope) string { return "#" + name }),
		}
	})
}

func articleGroup() *Group {
	return NewGroup("post",
		NewObject("Post", article{}, WithAliases(map[string]string{
			"name":   "title",
			"writer": "author.name",
			"labels": "tags",
		})),
		"meta", "math", "query_var",
	)
}

func testScope(t testing.TB, opts ...ScopeOption) *Scope {
	t.Helper()

	base := []ScopeOption{
		WithLogger(log.Make(io.Discard)),
		WithNow(testNow),
		WithQueryVars(map[string]string{"tab": "reviews"}),
		WithGroups(articleGroup()),
	}

	return NewScope(context.Background(), append(base, opts...)...)
}

func TestNewScope_Defaults(t *testing.T) {
	s := NewScope(nil) //nolint:staticcheck

	if s.Context() == nil {
		t.Fatal("expected a non-nil context")
	}

	if s.Locale() != DefaultLocale {
		t.Errorf("Locale() = %q, want %q", s.Locale(), DefaultLocale)
	}

	if s.DateLayout() != DefaultDateLayout {
		t.Errorf("DateLayout() = %q, want %q", s.DateLayout(), DefaultDateLayout)
	}

	if s.Registry() != DefaultRegistry() {
		t.Error("expected the default registry")
	}

	if s.Rules() != DefaultRules() {
		t.Error("expected the default rule set")
	}
}

func TestScope_Groups(t *testing.T) {
	site := NewGroup("site", NewObject("Site", nil))
	s := testScope(t, WithGroups(site))

	if diff := cmp.Diff([]string{"post", "site"}, s.GroupKeys()); diff != "" {
		t.Errorf("GroupKeys mismatch (-want +got):\n%s", diff)
	}

	// Replacing a group keeps its registration order.
	s.Register(articleGroup(), nil)

	var keys []string
	for _, g := range s.Groups() {
		keys = append(keys, g.Key())
	}

	if diff := cmp.Diff([]string{"post", "site"}, keys); diff != "" {
		t.Errorf("Groups order mismatch (-want +got):\n%s", diff)
	}

	if _, ok := s.Group("missing"); ok {
		t.Error("unexpected group found")
	}
}

func TestScope_QueryVar(t *testing.T) {
	s := testScope(t)

	if v, ok := s.QueryVar("tab"); !ok || v != "reviews" {
		t.Errorf("QueryVar(tab) = %q, %v", v, ok)
	}

	if _, ok := s.QueryVar("page"); ok {
		t.Error("unexpected query var page")
	}
}

func TestInstance_BuildsOnce(t *testing.T) {
	s := testScope(t)

	builds := 0
	build := func() *Object {
		builds++

		return NewObject("Cached", nil)
	}

	first := Instance(s, "obj", build)
	second := Instance(s, "obj", build)

	if first != second {
		t.Error("expected the same instance")
	}

	if builds != 1 {
		t.Errorf("build called %d times, want 1", builds)
	}

	// A key holding another type yields the zero value.
	if got := Instance(s, "obj", func() string { return "x" }); got != "" {
		t.Errorf("Instance with mismatched type = %q, want empty", got)
	}
}

func TestWithLocale_IgnoresEmpty(t *testing.T) {
	s := testScope(t, WithLocale("de-DE"), WithLocale(""), WithDateLayout(""))

	if s.Locale() != "de-DE" {
		t.Errorf("Locale() = %q, want de-DE", s.Locale())
	}

	if s.DateLayout() != DefaultDateLayout {
		t.Errorf("DateLayout() = %q, want default", s.DateLayout())
	}
}
