package lang

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func tagList(t *testing.T, s *Scope) *ObjectList {
	t.Helper()

	list, err := LoopSource(s, "@post(tags)")
	if err != nil {
		t.Fatalf("LoopSource: %v", err)
	}

	return list
}

func TestLoop_Options(t *testing.T) {
	tests := []struct {
		name string
		opts []LoopOption
		want []int
	}{
		{"all", nil, []int{0, 1}},
		{"limit", []LoopOption{WithLimit(1)}, []int{0}},
		{"offset", []LoopOption{WithOffset(1)}, []int{1}},
		{"offset past end", []LoopOption{WithOffset(5)}, nil},
		{"negative offset", []LoopOption{WithOffset(-3)}, []int{0, 1}},
		{"zero limit", []LoopOption{WithLimit(0)}, []int{0, 1}},
		{"index", []LoopOption{WithIndex(1)}, []int{1}},
		{"negative index", []LoopOption{WithIndex(-2)}, []int{0}},
		{"index out of range", []LoopOption{WithIndex(2)}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testScope(t)
			list := tagList(t, s)

			var got []int

			err := Loop(s, list, func(i int) error {
				if list.Index() != i {
					t.Errorf("cursor = %d inside iteration %d", list.Index(), i)
				}

				got = append(got, i)

				return nil
			}, tt.opts...)
			if err != nil {
				t.Fatalf("Loop: %v", err)
			}

			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("indices mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoop_RestoresCursor(t *testing.T) {
	s := testScope(t)
	list := tagList(t, s)
	list.SetIndex(1)

	var pairs []string

	err := Loop(s, list, func(int) error {
		outer := s.Render("@post(tags.name)")

		return Loop(s, list, func(int) error {
			pairs = append(pairs, outer+"/"+s.Render("@post(tags.name)"))

			return nil
		})
	})
	if err != nil {
		t.Fatalf("Loop: %v", err)
	}

	want := []string{"go/go", "go/rust", "rust/go", "rust/rust"}
	if diff := cmp.Diff(want, pairs); diff != "" {
		t.Errorf("nested loop mismatch (-want +got):\n%s", diff)
	}

	if list.Index() != 1 {
		t.Errorf("cursor = %d after loop, want 1", list.Index())
	}
}

func TestLoop_RestoresCursorOnPanic(t *testing.T) {
	s := testScope(t)
	list := tagList(t, s)

	func() {
		defer func() { _ = recover() }()

		_ = Loop(s, list, func(i int) error {
			if i == 1 {
				panic("stop")
			}

			return nil
		})
	}()

	if list.Index() != 0 {
		t.Errorf("cursor = %d after panic, want 0", list.Index())
	}
}

func TestLoop_StopsOnError(t *testing.T) {
	s := testScope(t)
	list := tagList(t, s)

	errStop := errors.New("stop")
	calls := 0

	err := Loop(s, list, func(int) error {
		calls++

		return errStop
	})
	if !errors.Is(err, errStop) {
		t.Fatalf("expected errStop, got %v", err)
	}

	if calls != 1 {
		t.Errorf("fn called %d times, want 1", calls)
	}
}

func TestLoop_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := testScope(t)
	s.ctx = ctx

	err := Loop(s, tagList(t, s), func(int) error { return nil })
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestLoopSource_Errors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   error
	}{
		{"scalar", "@post(title)", ErrNotLoopable},
		{"object", "@post(author)", ErrNotLoopable},
		{"missing", "@post(nope)", ErrNotLoopable},
		{"plain text", "tags", ErrNotLoopable},
		{"two tags", "@post(tags)@post(tags)", ErrNotLoopable},
		{"unknown group", "@nope(tags)", ErrUnknownGroup},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoopSource(testScope(t), tt.source)
			if !errors.Is(err, tt.want) {
				t.Fatalf("LoopSource(%q) error = %v, want %v", tt.source, err, tt.want)
			}
		})
	}
}

func TestRenderLoop(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		template string
		opts     []LoopOption
		want     string
	}{
		{"all items", "@post(tags)", "[@post(tags.name)]", nil, "[go][rust]"},
		{"alias source", " @post(labels) ", "@post(labels.slug) ", nil, "#go #rust "},
		{"last item", "@post(tags)", "@post(tags.name).uppercase()", []LoopOption{WithIndex(-1)}, "RUST"},
		{"empty list", "@post(none)", "x", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RenderLoop(testScope(t), tt.source, tt.template, tt.opts...)
			if err != nil {
				t.Fatalf("RenderLoop: %v", err)
			}

			if got != tt.want {
				t.Errorf("RenderLoop = %q, want %q", got, tt.want)
			}
		})
	}
}
