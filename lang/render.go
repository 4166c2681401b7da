package lang

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/ardnew/vxs/log"
)

// Render renders content against the groups registered on s.
//
// Rendering never fails: malformed tags are output literally, tags naming an
// unknown group are output verbatim, unresolved properties render empty and
// a panic raised while evaluating one tag is logged and renders empty.
func Render(s *Scope, content string) string {
	return s.Render(content)
}

// Render renders content against the groups registered on s.
func (s *Scope) Render(content string) string {
	tokens := Parse(s.ctx, content)

	var sb strings.Builder

	for _, tok := range tokens {
		switch t := tok.(type) {
		case *Text:
			sb.WriteString(t.Content)
		case *Tag:
			sb.WriteString(s.RenderTag(t))
		}
	}

	return sb.String()
}

// RenderTag renders a single tag.
func (s *Scope) RenderTag(tag *Tag) (out string) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.WarnContext(s.ctx, "render",
				log.Err(ErrTagPanic.With(
					slog.String("tag", tag.String()),
					slog.String("panic", fmt.Sprint(r)),
				)),
			)

			out = ""
		}
	}()

	g, ok := s.Group(tag.Group)
	if !ok {
		s.logger.DebugContext(s.ctx, "render",
			log.Err(ErrUnknownGroup.With(
				slog.String("group", tag.Group),
			)),
		)

		return tag.String()
	}

	return Stringify(s, s.Evaluate(g, tag))
}

// Evaluate resolves the tag's property path on g and applies its modifiers,
// returning the final value before stringification.
func (s *Scope) Evaluate(g *Group, tag *Tag) any {
	res := g.Resolve(s, tag.Path)

	st := &State{
		Scope:  s,
		Group:  g,
		Tag:    tag,
		Value:  res.Value,
		Result: res,
	}

	s.pipeline(st, tag.Modifiers)

	return st.Value
}

// chain tracks a run of consecutive control modifiers.
type chain struct {
	active   bool // inside a run of controls
	last     bool // result of the most recent condition
	branched bool // the run contains a branch
	taken    bool // a branch fired; the rest of the run is skipped
	join     Joiner
}

// end closes the run. A run without branches leaves its boolean result as
// the value.
func (c *chain) end(st *State) {
	if c.active && !c.branched {
		st.Value = c.last
	}

	*c = chain{}
}

// pipeline applies calls left to right.
func (s *Scope) pipeline(st *State, calls []Call) {
	var c chain

	for _, call := range calls {
		mod, ok := s.lookup(st.Group, call.Key)
		if !ok {
			continue
		}

		st.bind(call)

		_, isControl := mod.(Control)
		switch {
		case !isControl:
			c.end(st)
		case !c.active:
			c = chain{active: true, last: true}
		}

		switch m := mod.(type) {
		case Method:
			st.Value = m.Call(st, st.Group)
			// The method's value replaces the resolved path entirely.
			st.Result = Resolution{Value: st.Value, Found: st.Value != nil}

		case Function:
			st.Value = m.Apply(st)

		case Branch:
			c.branched = true
			if c.taken {
				continue
			}

			if m.Passes(c.last, st) {
				st.Value = st.Arg(0)
				c.taken = true
			}

		case Joiner:
			if !c.taken {
				c.join = m
			}

		case Control:
			if c.taken {
				continue
			}

			next := m.Passes(c.last, st)
			if c.join != nil {
				next = c.join.Join(c.last, next)
				c.join = nil
			}

			c.last = next
		}
	}

	c.end(st)
}

// lookup finds the modifier for key. Methods are only visible on groups that
// declare them.
func (s *Scope) lookup(g *Group, key string) (Modifier, bool) {
	mod, ok := s.registry.Lookup(key)
	if !ok {
		s.logger.DebugContext(s.ctx, "render",
			log.Err(ErrUnknownModifier.With(
				slog.String("modifier", key),
				slog.String("suggest", s.registry.Suggest(key)),
			)),
		)

		return nil, false
	}

	if mod.Type() == TypeMethod && !g.HasMethod(key) {
		s.logger.DebugContext(s.ctx, "render",
			log.Err(ErrUnknownModifier.With(
				slog.String("modifier", key),
				slog.String("group", g.Key()),
			)),
		)

		return nil, false
	}

	return mod, true
}

// renderNested renders a dynamic argument, bounded by [MaxRenderDepth].
func (s *Scope) renderNested(content string) string {
	if s.depth >= MaxRenderDepth {
		s.logger.WarnContext(s.ctx, "render",
			log.Err(ErrMaxDepthExceeded.With(
				slog.Int("depth", s.depth),
			)),
		)

		return content
	}

	s.depth++
	defer func() { s.depth-- }()

	return s.Render(content)
}
