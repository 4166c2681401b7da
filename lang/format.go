package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/klauspost/compress/gzip"
)

// Format names an output encoding.
type Format string

const (
	FormatNative Format = "native"
	FormatJSON   Format = "json"
	FormatYAML   Format = "yaml"
)

// ParseFormat returns the format named s.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatNative, FormatJSON, FormatYAML:
		return f, nil
	case "":
		return FormatNative, nil
	default:
		return "", ErrInvalidFormat.With(slog.String("format", s))
	}
}

// tokenRecord is the encoded form of a token.
type tokenRecord struct {
	Type      string       `json:"type"                yaml:"type"`
	Content   string       `json:"content,omitempty"   yaml:"content,omitempty"`
	Group     string       `json:"group,omitempty"     yaml:"group,omitempty"`
	Path      []string     `json:"path,omitempty"      yaml:"path,omitempty"`
	Modifiers []callRecord `json:"modifiers,omitempty" yaml:"modifiers,omitempty"`
	Pos       *Position    `json:"pos,omitempty"       yaml:"pos,omitempty"`
}

type callRecord struct {
	Key  string      `json:"key"            yaml:"key"`
	Args []argRecord `json:"args,omitempty" yaml:"args,omitempty"`
}

type argRecord struct {
	Content string `json:"content"           yaml:"content"`
	Dynamic bool   `json:"dynamic,omitempty" yaml:"dynamic,omitempty"`
}

func records(tokens []Token) []tokenRecord {
	out := make([]tokenRecord, 0, len(tokens))

	for _, tok := range tokens {
		switch t := tok.(type) {
		case *Text:
			out = append(out, tokenRecord{Type: "text", Content: t.Content})

		case *Tag:
			rec := tokenRecord{
				Type:  "tag",
				Group: t.Group,
				Path:  t.Path,
				Pos:   &t.Pos,
			}

			for _, c := range t.Modifiers {
				cr := callRecord{Key: c.Key}
				for _, a := range c.Args {
					cr.Args = append(cr.Args, argRecord(a))
				}

				rec.Modifiers = append(rec.Modifiers, cr)
			}

			out = append(out, rec)
		}
	}

	return out
}

// FormatTokens writes tokens to w in the given format. The native format
// reproduces the template source exactly.
func FormatTokens(
	ctx context.Context,
	w io.Writer,
	tokens []Token,
	format Format,
	indent int,
) error {
	switch format {
	case FormatNative, "":
		for _, tok := range tokens {
			if _, err := io.WriteString(w, tok.String()); err != nil {
				return ErrEncode.Wrap(err)
			}
		}

		return nil

	case FormatJSON:
		return WriteJSON(w, records(tokens), indent)

	case FormatYAML:
		return WriteYAML(ctx, w, records(tokens), indent)

	default:
		return ErrInvalidFormat.With(slog.String("format", string(format)))
	}
}

// WriteJSON writes v as JSON followed by a newline. An indent of zero writes
// compact output.
func WriteJSON(w io.Writer, v any, indent int) error {
	var (
		data []byte
		err  error
	)

	if indent > 0 {
		data, err = json.MarshalIndent(v, "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return ErrEncode.Wrap(err).With(slog.String("format", "json"))
	}

	if _, err = fmt.Fprintln(w, string(data)); err != nil {
		return ErrEncode.Wrap(err).With(slog.String("format", "json"))
	}

	return nil
}

// WriteYAML writes v as YAML. An indent of zero writes flow style.
func WriteYAML(ctx context.Context, w io.Writer, v any, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, v, opts...)
	if err != nil {
		return ErrEncode.Wrap(err).With(slog.String("format", "yaml"))
	}

	if _, err = fmt.Fprint(w, string(data)); err != nil {
		return ErrEncode.Wrap(err).With(slog.String("format", "yaml"))
	}

	return nil
}

// Write encodes the schema to w. When compress is set the output is gzip
// compressed.
func (sc Schema) Write(
	ctx context.Context,
	w io.Writer,
	format Format,
	indent int,
	compress bool,
) (err error) {
	if compress {
		zw := gzip.NewWriter(w)
		defer func() {
			if cerr := zw.Close(); cerr != nil && err == nil {
				err = ErrEncode.Wrap(cerr).With(slog.String("format", "gzip"))
			}
		}()

		w = zw
	}

	switch format {
	case FormatJSON, FormatNative, "":
		return WriteJSON(w, sc, indent)
	case FormatYAML:
		return WriteYAML(ctx, w, sc, indent)
	default:
		return ErrInvalidFormat.With(slog.String("format", string(format)))
	}
}
