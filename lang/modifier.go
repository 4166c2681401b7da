package lang

import (
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/sahilm/fuzzy"
)

// ModifierType distinguishes the three kinds of modifiers.
type ModifierType int

const (
	TypeFunction ModifierType = iota // function
	TypeControl                      // control
	TypeMethod                       // method
)

// String returns the schema name of the modifier type.
func (t ModifierType) String() string {
	switch t {
	case TypeFunction:
		return "function"
	case TypeControl:
		return "control"
	case TypeMethod:
		return "method"
	default:
		return "unknown"
	}
}

// Argument describes one modifier or rule argument for schema export.
type Argument struct {
	Key         string   `json:"key"                   yaml:"key"`
	Label       string   `json:"label"                 yaml:"label"`
	Type        string   `json:"type"                  yaml:"type"`
	Default     string   `json:"default,omitempty"     yaml:"default,omitempty"`
	Choices     []string `json:"choices,omitempty"     yaml:"choices,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
}

// Modifier is the common interface of functions, controls and methods.
type Modifier interface {
	Key() string
	Label() string
	Type() ModifierType
	Arguments() []Argument
}

// Function transforms the current value.
type Function interface {
	Modifier
	Apply(st *State) any
}

// Control is a conditional modifier. Passes receives the result of the
// previous condition in the chain.
type Control interface {
	Modifier
	Passes(last bool, st *State) bool
}

// Branch is a control that replaces the value with its first argument when
// it passes.
type Branch interface {
	Control
	branch()
}

// Joiner is a control that combines the next condition with the previous
// result instead of testing the value itself.
type Joiner interface {
	Control
	Join(last, next bool) bool
}

// Method is a group-bound modifier invoked with the owning group rather than
// the resolved value.
type Method interface {
	Modifier
	Call(st *State, g *Group) any
}

// base implements the descriptive part of [Modifier].
type base struct {
	key   string
	label string
	args  []Argument
}

func (b base) Key() string           { return b.key }
func (b base) Label() string         { return b.label }
func (b base) Arguments() []Argument { return b.args }

// Registry maps modifier keys to modifiers.
type Registry struct {
	modifiers map[string]Modifier
}

// NewRegistry returns a registry holding the given modifiers. Duplicate keys
// panic, since registries are assembled from static tables.
func NewRegistry(mods ...Modifier) *Registry {
	r := &Registry{modifiers: make(map[string]Modifier, len(mods))}

	for _, m := range mods {
		if err := r.Register(m); err != nil {
			panic(err)
		}
	}

	return r
}

// DefaultRegistry returns the process-wide registry of builtin modifiers.
var DefaultRegistry = sync.OnceValue(func() *Registry {
	mods := slices.Concat(controls(), functions(), methods())

	return NewRegistry(mods...)
})

// Clone returns a copy of the registry that can be extended independently.
func (r *Registry) Clone() *Registry {
	return &Registry{modifiers: maps.Clone(r.modifiers)}
}

// Register adds m to the registry.
func (r *Registry) Register(m Modifier) error {
	if _, ok := r.modifiers[m.Key()]; ok {
		return ErrDuplicateModifier.With(slog.String("key", m.Key()))
	}

	r.modifiers[m.Key()] = m

	return nil
}

// Lookup returns the modifier registered under key.
func (r *Registry) Lookup(key string) (Modifier, bool) {
	m, ok := r.modifiers[key]

	return m, ok
}

// Keys returns all registered keys in sorted order.
func (r *Registry) Keys() []string {
	return slices.Sorted(maps.Keys(r.modifiers))
}

// Modifiers returns all registered modifiers sorted by key.
func (r *Registry) Modifiers() []Modifier {
	mods := make([]Modifier, 0, len(r.modifiers))
	for _, key := range r.Keys() {
		mods = append(mods, r.modifiers[key])
	}

	return mods
}

// Suggest returns the registered key closest to key, or "" if nothing is
// similar.
func (r *Registry) Suggest(key string) string {
	matches := fuzzy.Find(key, r.Keys())
	if len(matches) == 0 {
		return ""
	}

	return matches[0].Str
}

// State is the evaluation state passed to modifiers.
type State struct {
	Scope *Scope
	Group *Group
	Tag   *Tag
	// Value is the current value of the pipeline.
	Value any
	// Result is the resolution of the tag's property path.
	Result Resolution

	args     []Arg
	rendered []*string
}

// bind prepares the state for the next modifier call.
func (st *State) bind(call Call) {
	st.args = call.Args
	st.rendered = make([]*string, len(call.Args))
}

// NumArgs returns the number of arguments of the current call.
func (st *State) NumArgs() int { return len(st.args) }

// Arg returns argument i, rendering embedded tags in dynamic arguments.
// Missing arguments are empty.
func (st *State) Arg(i int) string {
	if i < 0 || i >= len(st.args) {
		return ""
	}

	if p := st.rendered[i]; p != nil {
		return *p
	}

	a := st.args[i]

	text := a.Content
	if a.Dynamic {
		text = st.Scope.renderNested(a.Content)
	}

	st.rendered[i] = &text

	return text
}

// ArgOr returns argument i, or def if it is missing or empty.
func (st *State) ArgOr(i int, def string) string {
	if v := st.Arg(i); v != "" {
		return v
	}

	return def
}

// Args returns all arguments of the current call.
func (st *State) Args() []string {
	out := make([]string, len(st.args))
	for i := range st.args {
		out[i] = st.Arg(i)
	}

	return out
}
