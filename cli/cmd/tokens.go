package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/vxs/lang"
)

// Tokens prints the token stream of a template.
type Tokens struct {
	Expr   string `help:"Template text to tokenize instead of the source files." short:"e"`
	Format string `help:"Output format."        default:"native" enum:"native,json,yaml" short:"f"`
	Indent int    `help:"Indent width for JSON and YAML output (0 is compact)." default:"2" short:"i"`
}

// Run executes the tokens command.
func (t *Tokens) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	text, err := template(ctx, t.Expr)
	if err != nil {
		return err
	}

	format, err := lang.ParseFormat(t.Format)
	if err != nil {
		return err
	}

	tokens := lang.Parse(ctx, text)

	err = lang.FormatTokens(ctx, outputFrom(ctx), tokens, format, t.Indent)
	if err != nil {
		return ErrWriteOutput.
			With(slog.String("format", t.Format)).
			Wrap(err)
	}

	return nil
}
