package cmd

import (
	"context"
	"io"
	"log/slog"
	"strconv"

	"github.com/ardnew/vxs/lang"
	"github.com/ardnew/vxs/log"
)

// Render renders a template against the selected entities.
type Render struct {
	Request `embed:""`

	Expr   string `help:"Template text to render instead of the source files." short:"e"`
	Loop   string `help:"Render the template once per item of this object list, e.g. @post(terms.tag)." placeholder:"TAG"`
	Limit  int    `help:"Render at most this many loop items (0 renders all)."`
	Offset int    `help:"Skip this many loop items."`
	Index  string `help:"Render only the loop item at this index; negative counts from the end."`
}

// Run executes the render command.
func (r *Render) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	text, err := template(ctx, r.Expr)
	if err != nil {
		return err
	}

	store, err := loadStore(ctx)
	if err != nil {
		return err
	}

	s, err := r.Scope(ctx, store)
	if err != nil {
		return err
	}

	out := ""

	if r.Loop == "" {
		out = s.Render(text)
	} else {
		opts, err := r.loopOptions()
		if err != nil {
			return err
		}

		out, err = lang.RenderLoop(s, r.Loop, text, opts...)
		if err != nil {
			return err
		}
	}

	log.DebugContext(ctx, "rendered template",
		slog.Int("template_bytes", len(text)),
		slog.Int("output_bytes", len(out)),
		slog.String("loop", r.Loop),
	)

	if _, err := io.WriteString(outputFrom(ctx), out); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}

func (r *Render) loopOptions() ([]lang.LoopOption, error) {
	opts := []lang.LoopOption{
		lang.WithLimit(r.Limit),
		lang.WithOffset(r.Offset),
	}

	if r.Index != "" {
		i, err := strconv.Atoi(r.Index)
		if err != nil {
			return nil, ErrInvalidIndex.
				With(slog.String("index", r.Index)).
				Wrap(err)
		}

		opts = append(opts, lang.WithIndex(i))
	}

	return opts, nil
}
