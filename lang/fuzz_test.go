package lang

import (
	"testing"
	"unicode/utf8"
)

// FuzzTokenize checks that tokenizing never panics and is lossless.
func FuzzTokenize(f *testing.F) {
	f.Add("")
	f.Add("plain")
	f.Add("@post(title)")
	f.Add("@post(a\\.b).list(\\, , and )")
	f.Add("@post(x).fallback(@site(y).uppercase())")
	f.Add("ada@example.com")
	f.Add("@@(")
	f.Add("@g(p).m(\\")
	f.Add("@g(\n)")
	f.Add("@g(p).m((((")

	f.Fuzz(func(t *testing.T, input string) {
		if !utf8.ValidString(input) {
			t.Skip("invalid UTF-8")
		}

		tokens := Tokenize(input)

		if got := join(tokens); got != input {
			t.Fatalf("round trip = %q, want %q", got, input)
		}

		for i, tok := range tokens {
			txt, ok := tok.(*Text)
			if !ok {
				continue
			}

			if txt.Content == "" {
				t.Errorf("token %d is empty text", i)
			}

			if i > 0 {
				if _, prev := tokens[i-1].(*Text); prev {
					t.Errorf("tokens %d and %d are adjacent text", i-1, i)
				}
			}
		}
	})
}

// FuzzRender checks that rendering arbitrary input never panics.
func FuzzRender(f *testing.F) {
	f.Add("@post(title).truncate(3).is_empty().then(x).else(@post(price))")
	f.Add("@post(tags.name).nth(-1).list()")
	f.Add("@post().math(1/0)")
	f.Add("@post(date).date_format(\\\\S)")

	f.Fuzz(func(t *testing.T, input string) {
		if !utf8.ValidString(input) {
			t.Skip("invalid UTF-8")
		}

		_ = testScope(t).Render(input)
	})
}
