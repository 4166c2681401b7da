package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/ardnew/vxs/groups"
	"github.com/ardnew/vxs/lang"
	"github.com/ardnew/vxs/log"
)

// Export prints the schema of every group, modifier and visibility rule.
type Export struct {
	Format string `help:"Output format."                                default:"json" enum:"json,yaml" short:"f"`
	Indent int    `help:"Indent width (0 is compact JSON or flow YAML)." default:"2"                     short:"i"`
	Gzip   bool   `help:"Compress the output with gzip."                                                  short:"z"`
	Output string `help:"Write to this file instead of stdout."                                           short:"o" type:"path"`
}

// Run executes the export command.
func (e *Export) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	format, err := lang.ParseFormat(e.Format)
	if err != nil {
		return err
	}

	store, err := loadStore(ctx)
	if err != nil {
		return err
	}

	s := lang.NewScope(ctx,
		lang.WithLogger(log.Default()),
		lang.WithRules(groups.Rules()),
		lang.WithQueryVars(store.QueryVars),
	)

	schema := lang.Export(s, groups.Catalog(store))

	log.DebugContext(ctx, "exported schema",
		slog.Int("groups", len(schema.Groups)),
		slog.Int("modifiers", len(schema.Modifiers)),
		slog.Int("visibility_rules", len(schema.VisibilityRules)),
		slog.Any("unresolved", schema.Unresolved),
	)

	var w io.Writer = outputFrom(ctx)

	if e.Output != "" {
		file, err := os.Create(e.Output)
		if err != nil {
			return ErrWriteOutput.
				With(slog.String("file", e.Output)).
				Wrap(err)
		}

		defer func() {
			if cerr := file.Close(); cerr != nil && err == nil {
				err = ErrWriteOutput.With(slog.String("file", e.Output)).Wrap(cerr)
			}
		}()

		w = file
	}

	return schema.Write(ctx, w, format, e.Indent, e.Gzip)
}
