package lang

import (
	"log/slog"
	"maps"
	"slices"
	"strings"
	"sync"
)

// Rule is a visibility condition evaluated against a scope.
type Rule interface {
	Key() string
	Label() string
	Arguments() []Argument
	Evaluate(s *Scope, args map[string]string) bool
}

// RuleCall is one configured rule: the "type" entry names the rule and the
// remaining entries are its arguments.
type RuleCall map[string]string

// Type returns the rule key of the call.
func (c RuleCall) Type() string { return c["type"] }

// RuleFunc is a [Rule] backed by a plain func.
type RuleFunc struct {
	RuleKey   string
	RuleLabel string
	Args      []Argument
	Fn        func(s *Scope, args map[string]string) bool
}

func (r RuleFunc) Key() string           { return r.RuleKey }
func (r RuleFunc) Label() string         { return r.RuleLabel }
func (r RuleFunc) Arguments() []Argument { return r.Args }

func (r RuleFunc) Evaluate(s *Scope, args map[string]string) bool {
	return r.Fn(s, args)
}

// RuleSet maps rule keys to rules.
type RuleSet struct {
	rules map[string]Rule
}

// NewRuleSet returns a rule set holding rules. Duplicate keys panic.
func NewRuleSet(rules ...Rule) *RuleSet {
	rs := &RuleSet{rules: make(map[string]Rule, len(rules))}

	for _, r := range rules {
		if err := rs.Register(r); err != nil {
			panic(err)
		}
	}

	return rs
}

// DefaultRules returns the process-wide set of builtin rules.
var DefaultRules = sync.OnceValue(func() *RuleSet {
	return NewRuleSet(DynamicTagRule())
})

// Clone returns a copy of the rule set that can be extended independently.
func (rs *RuleSet) Clone() *RuleSet {
	return &RuleSet{rules: maps.Clone(rs.rules)}
}

// Register adds r to the set.
func (rs *RuleSet) Register(r Rule) error {
	if _, ok := rs.rules[r.Key()]; ok {
		return ErrDuplicateRule.With(slog.String("key", r.Key()))
	}

	rs.rules[r.Key()] = r

	return nil
}

// Lookup returns the rule registered under key.
func (rs *RuleSet) Lookup(key string) (Rule, bool) {
	r, ok := rs.rules[key]

	return r, ok
}

// Rules returns all rules sorted by key.
func (rs *RuleSet) Rules() []Rule {
	keys := slices.Sorted(maps.Keys(rs.rules))

	out := make([]Rule, 0, len(keys))
	for _, key := range keys {
		out = append(out, rs.rules[key])
	}

	return out
}

// Visible evaluates rule groups: the result is true if every rule of any one
// group passes. Empty groups are ignored, and a configuration without any
// rules is visible. Unknown rules fail.
func Visible(s *Scope, groups [][]RuleCall) bool {
	evaluated := false

	for _, group := range groups {
		if len(group) == 0 {
			continue
		}

		evaluated = true

		if slices.IndexFunc(group, func(c RuleCall) bool {
			return !evaluateRule(s, c)
		}) < 0 {
			return true
		}
	}

	return !evaluated
}

func evaluateRule(s *Scope, call RuleCall) bool {
	r, ok := s.Rules().Lookup(call.Type())
	if !ok {
		s.Logger().DebugContext(s.Context(), "visibility",
			slog.String("unknown_rule", call.Type()),
		)

		return false
	}

	return r.Evaluate(s, call)
}

// DynamicTagRule returns the "dtag" rule, which renders a tag followed by a
// comparison modifier and passes when the result is truthy. Without a
// comparison the rendered tag itself must be non-empty.
func DynamicTagRule() Rule {
	return RuleFunc{
		RuleKey:   "dtag",
		RuleLabel: "Dynamic tag",
		Args: []Argument{
			{Key: "tag", Label: "Tag", Type: "text"},
			{Key: "compare", Label: "Comparison", Type: "select", Choices: conditionKeys()},
			{Key: "value", Label: "Value", Type: "text"},
		},
		Fn: func(s *Scope, args map[string]string) bool {
			return CompareTag(s, args["tag"], args["compare"], args["value"])
		},
	}
}

// CompareTag renders tag with the condition modifier compare applied to
// value and reports whether the condition holds.
func CompareTag(s *Scope, tag, compare, value string) bool {
	tag = strings.TrimSpace(tag)
	if compare == "" {
		return strings.TrimSpace(s.Render(tag)) != ""
	}

	return s.Render(tag+"."+compare+"("+EscapeArg(value)+")") == "1"
}

// EscapeArg escapes text for use as a single modifier argument.
func EscapeArg(text string) string {
	return argEscaper.Replace(text)
}

var argEscaper = strings.NewReplacer(
	`\`, `\\`,
	`,`, `\,`,
	`(`, `\(`,
	`)`, `\)`,
)

func conditionKeys() []string {
	var keys []string

	for _, m := range controls() {
		if _, ok := m.(condition); ok {
			keys = append(keys, m.Key())
		}
	}

	return keys
}
