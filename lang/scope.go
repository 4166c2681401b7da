package lang

import (
	"context"
	"maps"
	"slices"
	"time"

	"github.com/ardnew/vxs/log"
)

// DefaultDateLayout is the layout used to render date values when no other
// format is requested.
const DefaultDateLayout = time.DateTime

// DefaultLocale is the locale used by locale-aware modifiers.
const DefaultLocale = "en-US"

// MaxRenderDepth bounds the nesting of dynamic arguments rendered while
// evaluating a tag.
const MaxRenderDepth = 16

// Scope is the state of one rendering request: the registered groups, the
// modifier and visibility-rule registries, and a keyed instance cache that
// lets groups and nodes be built once per request.
//
// A Scope is not safe for concurrent use.
type Scope struct {
	ctx        context.Context
	logger     log.Logger
	registry   *Registry
	rules      *RuleSet
	groups     map[string]*Group
	order      []string
	arena      []any
	index      map[string]int
	vars       map[string]string
	locale     string
	dateLayout string
	now        time.Time
	depth      int
}

// ScopeOption configures a [Scope].
type ScopeOption func(*Scope)

// WithLogger sets the logger used while rendering.
func WithLogger(logger log.Logger) ScopeOption {
	return func(s *Scope) { s.logger = logger }
}

// WithRegistry sets the modifier registry.
func WithRegistry(r *Registry) ScopeOption {
	return func(s *Scope) { s.registry = r }
}

// WithRules sets the visibility-rule registry.
func WithRules(r *RuleSet) ScopeOption {
	return func(s *Scope) { s.rules = r }
}

// WithQueryVars sets the request query variables.
func WithQueryVars(vars map[string]string) ScopeOption {
	return func(s *Scope) { s.vars = maps.Clone(vars) }
}

// WithLocale sets the BCP 47 locale used by formatting modifiers.
func WithLocale(locale string) ScopeOption {
	return func(s *Scope) {
		if locale != "" {
			s.locale = locale
		}
	}
}

// WithDateLayout sets the Go time layout used to render date values.
func WithDateLayout(layout string) ScopeOption {
	return func(s *Scope) {
		if layout != "" {
			s.dateLayout = layout
		}
	}
}

// WithNow fixes the current time of the request.
func WithNow(now time.Time) ScopeOption {
	return func(s *Scope) { s.now = now }
}

// WithGroups registers groups on the new scope.
func WithGroups(groups ...*Group) ScopeOption {
	return func(s *Scope) { s.Register(groups...) }
}

// NewScope returns an empty request scope.
func NewScope(ctx context.Context, opts ...ScopeOption) *Scope {
	if ctx == nil {
		ctx = context.Background()
	}

	s := &Scope{
		ctx:        ctx,
		logger:     log.Default(),
		registry:   DefaultRegistry(),
		rules:      DefaultRules(),
		groups:     make(map[string]*Group),
		index:      make(map[string]int),
		locale:     DefaultLocale,
		dateLayout: DefaultDateLayout,
		now:        time.Now(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Context returns the request context.
func (s *Scope) Context() context.Context { return s.ctx }

// Logger returns the request logger.
func (s *Scope) Logger() log.Logger { return s.logger }

// Registry returns the modifier registry.
func (s *Scope) Registry() *Registry { return s.registry }

// Rules returns the visibility-rule registry.
func (s *Scope) Rules() *RuleSet { return s.rules }

// Locale returns the formatting locale.
func (s *Scope) Locale() string { return s.locale }

// DateLayout returns the layout used to render date values.
func (s *Scope) DateLayout() string { return s.dateLayout }

// Now returns the time fixed for the request.
func (s *Scope) Now() time.Time { return s.now }

// QueryVar returns the request query variable key.
func (s *Scope) QueryVar(key string) (string, bool) {
	v, ok := s.vars[key]

	return v, ok
}

// Register adds groups to the scope, replacing any group with the same key.
func (s *Scope) Register(groups ...*Group) {
	for _, g := range groups {
		if g == nil {
			continue
		}

		if _, ok := s.groups[g.Key()]; !ok {
			s.order = append(s.order, g.Key())
		}

		s.groups[g.Key()] = g
	}
}

// Group returns the group registered under key.
func (s *Scope) Group(key string) (*Group, bool) {
	g, ok := s.groups[key]

	return g, ok
}

// Groups returns the registered groups in registration order.
func (s *Scope) Groups() []*Group {
	groups := make([]*Group, 0, len(s.order))
	for _, key := range s.order {
		groups = append(groups, s.groups[key])
	}

	return groups
}

// GroupKeys returns the registered group keys in sorted order.
func (s *Scope) GroupKeys() []string {
	return slices.Sorted(maps.Keys(s.groups))
}

// Cached returns the instance stored under key, calling build to create it
// on first use. Instances live as long as the scope.
func (s *Scope) Cached(key string, build func() any) any {
	if i, ok := s.index[key]; ok {
		return s.arena[i]
	}

	v := build()

	s.index[key] = len(s.arena)
	s.arena = append(s.arena, v)

	return v
}

// Instance is the typed form of [Scope.Cached].
func Instance[T any](s *Scope, key string, build func() T) T {
	v, _ := s.Cached(key, func() any { return build() }).(T)

	return v
}
