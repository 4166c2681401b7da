package lang

import (
	"strings"
	"unicode/utf8"
)

// Length guards bounding the cost of scanning a candidate tag.
const (
	MaxGroupKeyLength     = 48
	MaxPropertyLength     = 128
	MaxPropertyPathLength = 512
	MaxModifierKeyLength  = 48
	MaxArgumentsLength    = 8192
)

// Tokenize splits content into literal text and dynamic tags.
//
// Tokenize never fails. Any '@' that does not begin a well-formed tag is kept
// as literal text, and adjacent literal runs are merged, so concatenating the
// String form of every returned token reproduces content exactly.
func Tokenize(content string) []Token {
	t := &tokenizer{
		input: content,
		line:  1,
		col:   1,
	}

	return t.run()
}

// tokenizer holds the scanner state.
type tokenizer struct {
	input  string
	pos    int
	line   int
	col    int
	tokens []Token
	text   strings.Builder
}

// cursor is a saved scanner location used to backtrack out of a failed tag.
type cursor struct {
	pos, line, col int
}

func (t *tokenizer) run() []Token {
	for !t.eof() {
		next := strings.IndexByte(t.input[t.pos:], '@')
		if next < 0 {
			t.text.WriteString(t.input[t.pos:])
			t.skip(len(t.input) - t.pos)

			break
		}

		if next > 0 {
			t.text.WriteString(t.input[t.pos : t.pos+next])
			t.skip(next)
		}

		start := t.mark()

		tag, ok := t.scanTag()
		if ok {
			t.flush()
			t.tokens = append(t.tokens, tag)

			continue
		}

		t.reset(start)
		t.take(&t.text)
	}

	t.flush()

	return t.tokens
}

// flush emits any pending literal text as a single token.
func (t *tokenizer) flush() {
	if t.text.Len() == 0 {
		return
	}

	t.tokens = append(t.tokens, &Text{Content: t.text.String()})
	t.text.Reset()
}

// scanTag scans @group(path) and any modifier suffixes. The cursor must be on
// the '@'.
func (t *tokenizer) scanTag() (*Tag, bool) {
	pos := t.position()

	t.advance() // '@'

	group, ok := t.scanKey(MaxGroupKeyLength)
	if !ok || !t.expect('(') {
		return nil, false
	}

	raw, path, ok := t.scanPath()
	if !ok {
		return nil, false
	}

	tag := &Tag{
		Group:   group,
		Path:    path,
		RawPath: raw,
		Pos:     pos,
	}

	// A malformed modifier ends the tag; its text is left for the literal
	// scanner.
	for t.peek() == '.' {
		mark := t.mark()

		call, ok := t.scanCall()
		if !ok {
			t.reset(mark)

			break
		}

		tag.Modifiers = append(tag.Modifiers, call)
	}

	return tag, true
}

// scanKey scans a group or modifier key of at most limit bytes.
func (t *tokenizer) scanKey(limit int) (string, bool) {
	start := t.pos

	for isKeyRune(t.peek()) {
		t.advance()

		if t.pos-start > limit {
			return "", false
		}
	}

	if t.pos == start {
		return "", false
	}

	return t.input[start:t.pos], true
}

// scanPath scans a property path up to and including its closing ')'.
func (t *tokenizer) scanPath() (raw string, path []string, ok bool) {
	start := t.pos

	var seg strings.Builder

	for {
		if t.eof() || t.pos-start > MaxPropertyPathLength {
			return "", nil, false
		}

		switch r := t.peek(); r {
		case ')':
			raw = t.input[start:t.pos]
			t.advance()

			if raw != "" {
				path = append(path, seg.String())
			}

			return raw, path, true

		case '\n', '(':
			return "", nil, false

		case '\\':
			t.advance()

			switch n := t.peek(); n {
			case ')', '.', '\\':
				seg.WriteRune(n)
				t.advance()

			default:
				seg.WriteByte('\\')
			}

		case '.':
			path = append(path, seg.String())
			seg.Reset()
			t.advance()

		default:
			t.take(&seg)
		}

		if seg.Len() > MaxPropertyLength {
			return "", nil, false
		}
	}
}

// scanCall scans .key(args). The cursor must be on the '.'.
func (t *tokenizer) scanCall() (Call, bool) {
	t.advance() // '.'

	key, ok := t.scanKey(MaxModifierKeyLength)
	if !ok || !t.expect('(') {
		return Call{}, false
	}

	start := t.pos

	var (
		args    []Arg
		arg     strings.Builder
		depth   int
		dynamic bool
	)

	for {
		if t.eof() || t.pos-start > MaxArgumentsLength {
			return Call{}, false
		}

		r := t.peek()

		// Nested parentheses are kept verbatim, escapes included, so the
		// argument can be tokenized again when rendered.
		if depth > 0 {
			switch r {
			case '\\':
				t.take(&arg)

				if !t.eof() {
					t.take(&arg)
				}

				continue

			case '(':
				depth++

			case ')':
				depth--
			}

			t.take(&arg)

			continue
		}

		switch r {
		case '\\':
			t.advance()

			switch n := t.peek(); n {
			case ',', '(', ')', '\\':
				arg.WriteRune(n)
				t.advance()

			default:
				arg.WriteByte('\\')
			}

		case ',':
			args = append(args, Arg{Content: arg.String(), Dynamic: dynamic})
			arg.Reset()

			dynamic = false

			t.advance()

		case '(':
			depth++
			dynamic = true

			t.take(&arg)

		case ')':
			raw := t.input[start:t.pos]
			t.advance()

			if raw != "" {
				args = append(args, Arg{Content: arg.String(), Dynamic: dynamic})
			}

			return Call{Key: key, Args: args, RawArgs: raw}, true

		default:
			t.take(&arg)
		}
	}
}

// Helper methods

func (t *tokenizer) eof() bool {
	return t.pos >= len(t.input)
}

func (t *tokenizer) peek() rune {
	if t.eof() {
		return 0
	}

	r, _ := utf8.DecodeRuneInString(t.input[t.pos:])

	return r
}

func (t *tokenizer) advance() rune {
	if t.eof() {
		return 0
	}

	r, size := utf8.DecodeRuneInString(t.input[t.pos:])

	t.pos += size
	if r == '\n' {
		t.line++
		t.col = 1
	} else {
		t.col++
	}

	return r
}

// take copies the next rune to b byte for byte, so invalid UTF-8 is kept
// as is rather than replaced with U+FFFD.
func (t *tokenizer) take(b *strings.Builder) {
	start := t.pos
	t.advance()
	b.WriteString(t.input[start:t.pos])
}

// skip advances over n bytes, which must end on a rune boundary.
func (t *tokenizer) skip(n int) {
	end := t.pos + n
	for t.pos < end {
		t.advance()
	}
}

func (t *tokenizer) expect(ch rune) bool {
	if t.peek() == ch {
		t.advance()

		return true
	}

	return false
}

func (t *tokenizer) mark() cursor {
	return cursor{pos: t.pos, line: t.line, col: t.col}
}

func (t *tokenizer) reset(c cursor) {
	t.pos, t.line, t.col = c.pos, c.line, c.col
}

func (t *tokenizer) position() Position {
	return Position{
		Offset: t.pos,
		Line:   t.line,
		Column: t.col,
	}
}

// isKeyRune reports whether r may appear in a group or modifier key.
func isKeyRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '_', r == '-', r == ':':
		return true
	default:
		return false
	}
}
