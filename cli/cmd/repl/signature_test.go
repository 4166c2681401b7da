package repl

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ardnew/vxs/lang"
)

func TestGetSignature(t *testing.T) {
	r := lang.DefaultRegistry()

	tests := []struct {
		key        string
		wantSig    string
		wantParams []string
	}{
		{"uppercase", "uppercase()", nil},
		{"truncate", "truncate(length, ellipsis=...)", []string{"length", "ellipsis=..."}},
		{"is_between", "is_between(min, max)", []string{"min", "max"}},
		{"post_count", "post_count(type=post)", []string{"type=post"}},
		{"nope", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			sig, params := getSignature(r, tt.key)
			if sig != tt.wantSig {
				t.Errorf("signature = %q, want %q", sig, tt.wantSig)
			}

			if diff := cmp.Diff(tt.wantParams, params); diff != "" {
				t.Errorf("params mismatch (-want +got):\n%s", diff)
			}
		})
	}

	if sig, _ := getSignature(nil, "truncate"); sig != "" {
		t.Errorf("nil registry signature = %q, want empty", sig)
	}
}

func TestParamName(t *testing.T) {
	tests := []struct {
		arg  lang.Argument
		want string
	}{
		{lang.Argument{Key: "text"}, "text"},
		{lang.Argument{Key: "n", Default: "1"}, "n=1"},
		{lang.Argument{Key: "items", Type: "list"}, "...items"},
	}

	for _, tt := range tests {
		if got := paramName(tt.arg); got != tt.want {
			t.Errorf("paramName(%+v) = %q, want %q", tt.arg, got, tt.want)
		}
	}
}

func TestRenderSignatureHint(t *testing.T) {
	params := []string{"length", "ellipsis=..."}

	hint := renderSignatureHint("truncate(length, ellipsis=...)", params, 1, "Truncate")

	for _, part := range []string{"truncate", "length", "ellipsis=...", "Truncate"} {
		if !strings.Contains(hint, part) {
			t.Errorf("hint %q missing %q", hint, part)
		}
	}

	if got := renderSignatureHint("", nil, 0, ""); got != "" {
		t.Errorf("empty signature hint = %q, want empty", got)
	}

	if got := renderSignatureHint("nothing", nil, 0, ""); !strings.Contains(got, "nothing") {
		t.Errorf("bare signature hint = %q", got)
	}
}

func BenchmarkGetSignature(b *testing.B) {
	r := lang.DefaultRegistry()
	keys := []string{"truncate", "list", "date_format", "is_between", "currency_format"}

	for i := 0; b.Loop(); i++ {
		_, _ = getSignature(r, keys[i%len(keys)])
	}
}
