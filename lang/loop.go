package lang

import (
	"log/slog"
	"strings"
)

// LoopOption configures a [Loop].
type LoopOption func(loopConfig) loopConfig

type loopConfig struct {
	limit  int
	offset int
	index  int
	single bool
}

// WithLimit bounds the number of iterations. Zero or less means no limit.
func WithLimit(n int) LoopOption {
	return func(c loopConfig) loopConfig {
		c.limit = n

		return c
	}
}

// WithOffset skips the first n items.
func WithOffset(n int) LoopOption {
	return func(c loopConfig) loopConfig {
		c.offset = max(n, 0)

		return c
	}
}

// WithIndex visits only item i. A negative index counts from the end.
func WithIndex(i int) LoopOption {
	return func(c loopConfig) loopConfig {
		c.index = i
		c.single = true

		return c
	}
}

// Loop calls fn once for each selected item of list with the list's cursor
// positioned on that item.
//
// The cursor is restored when Loop returns, whether fn completes, returns an
// error or panics, so loops nested over the same list do not disturb each
// other. Iteration stops at the first error, which is returned.
func Loop(
	s *Scope,
	list *ObjectList,
	fn func(index int) error,
	opts ...LoopOption,
) error {
	var cfg loopConfig
	for _, opt := range opts {
		cfg = opt(cfg)
	}

	prev := list.Index()
	defer list.SetIndex(prev)

	n := list.Len(s)

	if cfg.single {
		i := cfg.index
		if i < 0 {
			i += n
		}

		if i < 0 || i >= n {
			return nil
		}

		list.SetIndex(i)

		return fn(i)
	}

	end := n
	if cfg.limit > 0 {
		end = min(n, cfg.offset+cfg.limit)
	}

	for i := cfg.offset; i < end; i++ {
		if err := s.ctx.Err(); err != nil {
			return err
		}

		list.SetIndex(i)

		if err := fn(i); err != nil {
			return err
		}
	}

	return nil
}

// LoopSource resolves the object list named by a tag such as
// "@post(terms.category)".
func LoopSource(s *Scope, source string) (*ObjectList, error) {
	source = strings.TrimSpace(source)

	tokens := Parse(s.ctx, source)
	if len(tokens) != 1 {
		return nil, ErrNotLoopable.With(slog.String("source", source))
	}

	tag, ok := tokens[0].(*Tag)
	if !ok {
		return nil, ErrNotLoopable.With(slog.String("source", source))
	}

	g, ok := s.Group(tag.Group)
	if !ok {
		return nil, ErrUnknownGroup.With(slog.String("group", tag.Group))
	}

	res := g.Resolve(s, tag.Path)

	list, ok := res.Node.(*ObjectList)
	if !ok || !res.Found {
		return nil, ErrNotLoopable.With(
			slog.String("source", source),
			slog.String("kind", kindOf(res.Node)),
		)
	}

	return list, nil
}

// RenderLoop renders template once for each selected item of the object list
// named by source and concatenates the results.
func RenderLoop(
	s *Scope,
	source, template string,
	opts ...LoopOption,
) (string, error) {
	list, err := LoopSource(s, source)
	if err != nil {
		return "", err
	}

	var sb strings.Builder

	err = Loop(s, list, func(int) error {
		sb.WriteString(s.Render(template))

		return nil
	}, opts...)

	return sb.String(), err
}

func kindOf(n Node) string {
	if n == nil {
		return "none"
	}

	return n.Kind().String()
}
