package log_test

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/ardnew/vxs/log"
)

func Example() {
	logger := log.Make(os.Stdout, log.WithTimeLayout("none"), log.WithPretty(false))
	logger.Info("rendered", slog.String("group", "post"), slog.Int("tags", 3))
	// Output:
	// {"level":"INFO","msg":"rendered","group":"post","tags":3}
}

func Example_errors() {
	logger := log.Make(os.Stdout,
		log.WithFormat(log.FormatText),
		log.WithTimeLayout("none"),
		log.WithPretty(false))

	logger.Warn("modifier failed", slog.String("modifier", "math"), log.Err(errors.New("division by zero")))
	// Output:
	// level=WARN msg="modifier failed" modifier=math error="division by zero"
}

func Example_tracing() {
	ctx := context.Background()
	logger := log.Make(os.Stdout, log.WithLevel(log.LevelDebug))

	if logger.Tracing(ctx) {
		logger.TraceContext(ctx, "tokens", slog.Any("source", "@post(title)"))
	}

	logger = logger.WithGroup("scope").With(slog.String("locale", "en-US"))
	logger.DebugContext(ctx, "scope ready", slog.Bool("cached", true))
}
