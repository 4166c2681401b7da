package repl

import (
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/vxs/lang"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{
	"help", "groups", "modifiers", "use", "set", "loop", "edit", "clear", "quit",
}

// cursorKind identifies what the word at the cursor names.
type cursorKind int

const (
	cursorText     cursorKind = iota // plain template text
	cursorGroup                      // group key after '@'
	cursorProperty                   // property path inside @group(...)
	cursorModifier                   // modifier key after ")."
	cursorArgument                   // modifier argument list
)

// cursorContext describes the template position at the cursor.
type cursorContext struct {
	group    string
	modifier string
	parent   []string // property path leading to the word
	kind     cursorKind
	start    int // byte offset of the word at the cursor
	argIndex int
	chained  bool // the modifier follows another modifier
}

type scanState int

const (
	stateText scanState = iota
	stateGroup
	statePath
	stateChain
	stateModifier
	stateArgs
)

// frame is one tag being scanned. Dynamic arguments nest frames.
type frame struct {
	group    string
	modifier string
	state    scanState
	start    int
	argIndex int
	depth    int
	chained  bool
}

func isIdent(c byte) bool {
	return c == '_' || c == '-' || c == ':' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// scan reports the template context at the end of prefix.
func scan(prefix string) cursorContext {
	stack := []frame{{state: stateText}}

	for i := 0; i < len(prefix); i++ {
		c := prefix[i]
		top := &stack[len(stack)-1]
		closed := false

		switch top.state {
		case stateText:
			if c == '@' {
				top.state, top.start = stateGroup, i+1
			}

		case stateGroup:
			switch {
			case isIdent(c):
			case c == '(' && i > top.start:
				top.group = prefix[top.start:i]
				top.state, top.start = statePath, i+1
			default:
				closed = true
			}

		case statePath:
			if c == ')' {
				top.state = stateChain
			}

		case stateChain:
			if c == '.' {
				top.state, top.start = stateModifier, i+1
			} else {
				closed = true
			}

		case stateModifier:
			switch {
			case isIdent(c):
			case c == '(' && i > top.start:
				top.modifier = prefix[top.start:i]
				top.state, top.depth, top.argIndex = stateArgs, 0, 0
			default:
				closed = true
			}

		case stateArgs:
			switch c {
			case '\\':
				i++
			case '@':
				stack = append(stack, frame{state: stateGroup, start: i + 1})
			case '(':
				top.depth++
			case ')':
				if top.depth == 0 {
					top.state, top.chained = stateChain, true
				} else {
					top.depth--
				}
			case ',':
				if top.depth == 0 {
					top.argIndex++
				}
			}
		}

		if closed {
			// The tag ended before c: rescan c in the enclosing frame.
			if len(stack) > 1 {
				stack = stack[:len(stack)-1]
			} else {
				stack[0] = frame{state: stateText}
			}

			i--
		}
	}

	top := stack[len(stack)-1]
	ctx := cursorContext{
		group:    top.group,
		modifier: top.modifier,
		start:    len(prefix),
		argIndex: top.argIndex,
		chained:  top.chained,
	}

	switch top.state {
	case stateGroup:
		ctx.kind, ctx.start = cursorGroup, top.start

	case statePath:
		ctx.kind = cursorProperty

		path := prefix[top.start:]
		if dot := strings.LastIndexByte(path, '.'); dot >= 0 {
			ctx.parent = strings.Split(path[:dot], ".")
			ctx.start = top.start + dot + 1
		} else {
			ctx.start = top.start
		}

	case stateModifier:
		ctx.kind, ctx.start = cursorModifier, top.start

	case stateArgs:
		ctx.kind = cursorArgument

		ctx.start = strings.LastIndexAny(prefix, "(,") + 1
		for ctx.start < len(prefix) && prefix[ctx.start] == ' ' {
			ctx.start++
		}
	}

	return ctx
}

// wordEnd returns the offset just past the identifier starting at or
// continuing through cursor.
func wordEnd(input string, cursor int) int {
	end := min(cursor, len(input))
	for end < len(input) && isIdent(input[end]) {
		end++
	}

	return end
}

// children lists the property keys and aliases of a container node.
func children(s *lang.Scope, n lang.Node) []string {
	c, ok := n.(interface {
		Properties(s *lang.Scope) lang.Properties
		Aliases() map[string]string
	})
	if !ok {
		return nil
	}

	props := c.Properties(s)

	if l, ok := n.(*lang.ObjectList); ok && len(props) == 0 && l.Template() != nil {
		props = l.Template().Properties(s)
	}

	names := make([]string, 0, len(props)+len(c.Aliases()))
	for key := range props {
		names = append(names, key)
	}

	for key := range c.Aliases() {
		names = append(names, key)
	}

	slices.Sort(names)

	return slices.Compact(names)
}

// candidates returns the completions valid in ctx.
func candidates(s *lang.Scope, ctx cursorContext) []string {
	if s == nil {
		return nil
	}

	switch ctx.kind {
	case cursorGroup:
		return s.GroupKeys()

	case cursorProperty:
		g, ok := s.Group(ctx.group)
		if !ok {
			return nil
		}

		res := g.Resolve(s, ctx.parent)
		if !res.Found {
			return nil
		}

		return children(s, res.Node)

	case cursorModifier:
		g, _ := s.Group(ctx.group)

		var keys []string

		for _, m := range s.Registry().Modifiers() {
			if m.Type() == lang.TypeMethod && (ctx.chained || g == nil || !g.HasMethod(m.Key())) {
				continue
			}

			keys = append(keys, m.Key())
		}

		return keys

	case cursorArgument:
		m, ok := s.Registry().Lookup(ctx.modifier)
		if !ok || ctx.argIndex >= len(m.Arguments()) {
			return nil
		}

		return m.Arguments()[ctx.argIndex].Choices
	}

	return nil
}

// computeMatches calculates the fuzzy match results for the word at the cursor.
// It returns the matches (ranked best-first), the candidate list, and the word
// boundaries. An empty word lists every candidate, so that typing '@', '(' or
// '.' immediately shows what may follow.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	cands []string,
	wordStart, wordStop int,
) {
	input := m.input.Value()
	cursor := min(m.input.Position(), len(input))

	if m.mode == modeCtrl {
		wordStart = strings.LastIndexByte(input[:cursor], ' ') + 1
		wordStop = wordEnd(input, cursor)

		if wordStart > 0 || wordStart == wordStop {
			return nil, nil, wordStart, wordStop
		}

		cands = ctrlCommands
	} else {
		ctx := scan(input[:cursor])
		wordStart, wordStop = ctx.start, wordEnd(input, cursor)

		cands = candidates(m.scope, ctx)
	}

	if len(cands) == 0 {
		return nil, nil, wordStart, wordStop
	}

	word := input[wordStart:wordStop]
	if word == "" {
		matches = make(fuzzy.Matches, len(cands))
		for i, c := range cands {
			matches[i] = fuzzy.Match{Str: c, Index: i}
		}

		return matches, cands, wordStart, wordStop
	}

	return fuzzy.Find(word, cands), cands, wordStart, wordStop
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within the given terminal width. Each candidate is rendered with its matched
// characters highlighted. The selected candidate (when tabbing) uses the
// selected style.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		rendered := renderCandidate(match, tabActive && i == suggIdx)
		entryWidth := lipgloss.Width(rendered)

		if i > 0 {
			entryWidth += sepWidth
		}

		if used+entryWidth+ellipsisWidth > width && i > 0 {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders a single candidate with matched characters
// highlighted.
func renderCandidate(match fuzzy.Match, selected bool) string {
	baseStyle := suggestionStyle
	highlightStyle := matchStyle

	if selected {
		baseStyle = selectedStyle
		highlightStyle = selectedMatchStyle
	}

	matchSet := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matchSet[idx] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		if matchSet[i] {
			b.WriteString(highlightStyle.Render(string(r)))
		} else {
			b.WriteString(baseStyle.Render(string(r)))
		}
	}

	return b.String()
}
