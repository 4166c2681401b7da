package lang

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/ardnew/vxs/log"
)

// MetaProvider is implemented by group providers that expose free-form
// metadata to the meta method.
type MetaProvider interface {
	Meta(s *Scope, key string) (any, bool)
}

// Counter is implemented by group providers that can count entities by type
// for the post_count method.
type Counter interface {
	Count(s *Scope, kind string) int
}

// method is a [Method] backed by a plain func.
type method struct {
	base

	call func(st *State, g *Group) any
}

func (method) Type() ModifierType { return TypeMethod }

func (m method) Call(st *State, g *Group) any { return m.call(st, g) }

// methods returns the builtin group-bound methods.
func methods() []Modifier {
	return []Modifier{
		method{
			base: base{
				key:   "meta",
				label: "Meta value",
				args:  []Argument{{Key: "key", Label: "Meta key", Type: "text"}},
			},
			call: func(st *State, g *Group) any {
				mp, ok := g.Provider().(MetaProvider)
				if !ok {
					return nil
				}

				v, _ := mp.Meta(st.Scope, strings.TrimSpace(st.Arg(0)))

				return v
			},
		},
		method{
			base: base{
				key:   "math",
				label: "Math expression",
				args:  []Argument{{Key: "expression", Label: "Expression", Type: "text"}},
			},
			call: func(st *State, _ *Group) any {
				return evalMath(st.Scope, strings.Join(st.Args(), ","))
			},
		},
		method{
			base: base{
				key:   "query_var",
				label: "Query variable",
				args:  []Argument{{Key: "key", Label: "Variable name", Type: "text"}},
			},
			call: func(st *State, _ *Group) any {
				v, ok := st.Scope.QueryVar(strings.TrimSpace(st.Arg(0)))
				if !ok {
					return nil
				}

				return v
			},
		},
		method{
			base: base{
				key:   "post_count",
				label: "Post count",
				args:  []Argument{{Key: "type", Label: "Post type", Type: "text", Default: "post"}},
			},
			call: func(st *State, g *Group) any {
				c, ok := g.Provider().(Counter)
				if !ok {
					return nil
				}

				return c.Count(st.Scope, strings.TrimSpace(st.ArgOr(0, "post")))
			},
		},
	}
}

// programCache stores compiled math expressions keyed by source.
var programCache sync.Map

// evalMath evaluates an arithmetic expression. Failures are logged and
// yield nil.
func evalMath(s *Scope, source string) any {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil
	}

	var program *vm.Program

	if cached, ok := programCache.Load(source); ok {
		program, _ = cached.(*vm.Program)
	}

	if program == nil {
		compiled, err := expr.Compile(source, expr.Env(map[string]any{}))
		if err != nil {
			s.Logger().DebugContext(s.Context(), "math",
				log.Err(ErrExprCompile.Wrap(err).
					With(slog.String("source", source))),
			)

			return nil
		}

		programCache.Store(source, compiled)
		program = compiled
	}

	out, err := expr.Run(program, map[string]any{})
	if err != nil {
		s.Logger().DebugContext(s.Context(), "math",
			log.Err(ErrExprEvaluate.Wrap(err).
				With(slog.String("source", source))),
		)

		return nil
	}

	return out
}
