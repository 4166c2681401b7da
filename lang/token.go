package lang

import (
	"strings"
)

// Token is one element of a tokenized template: either literal [Text] or a
// dynamic [Tag]. Tokens are immutable once produced by the tokenizer.
type Token interface {
	// String returns the source form of the token.
	String() string

	token()
}

// Text is a run of literal template content.
type Text struct {
	Content string
}

func (*Text) token() {}

// String returns the literal content.
func (t *Text) String() string { return t.Content }

// Tag is a dynamic tag of the form @group(path).modifier(args)...
type Tag struct {
	Group     string
	Path      []string // unescaped path segments
	RawPath   string   // source text between the group parentheses
	Modifiers []Call
	Pos       Position
}

func (*Tag) token() {}

// String reconstructs the source form of the tag.
func (t *Tag) String() string {
	var sb strings.Builder

	sb.WriteByte('@')
	sb.WriteString(t.Group)
	sb.WriteByte('(')
	sb.WriteString(t.RawPath)
	sb.WriteByte(')')

	for _, m := range t.Modifiers {
		sb.WriteString(m.String())
	}

	return sb.String()
}

// PathString returns the unescaped path segments joined with '.'.
func (t *Tag) PathString() string { return strings.Join(t.Path, ".") }

// Call is a single modifier invocation attached to a tag.
type Call struct {
	Key     string
	Args    []Arg
	RawArgs string // source text between the modifier parentheses
}

// String reconstructs the source form of the modifier, including the
// leading '.'.
func (c Call) String() string {
	return "." + c.Key + "(" + c.RawArgs + ")"
}

// Arg is one modifier argument.
type Arg struct {
	Content string
	// Dynamic is set when the argument contained nested parentheses and may
	// therefore hold an embedded tag that must be rendered before use.
	Dynamic bool
}

// Position identifies a location in template source.
type Position struct {
	Offset int `json:"offset" yaml:"offset"`
	Line   int `json:"line"   yaml:"line"`
	Column int `json:"column" yaml:"column"`
}
