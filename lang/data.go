package lang

import (
	"maps"
	"time"
)

// Kind identifies the type of a property node.
type Kind int

const (
	KindString     Kind = iota // string
	KindNumber                 // number
	KindBool                   // bool
	KindDate                   // date
	KindURL                    // url
	KindEmail                  // email
	KindObject                 // object
	KindObjectList             // object-list
)

// String returns the schema name of the kind.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindDate:
		return "date"
	case KindURL:
		return "url"
	case KindEmail:
		return "email"
	case KindObject:
		return "object"
	case KindObjectList:
		return "object-list"
	default:
		return "unknown"
	}
}

// IsScalar reports whether nodes of kind k resolve to a single value.
func (k Kind) IsScalar() bool {
	return k != KindObject && k != KindObjectList
}

// Node is a property in a group's property tree. The concrete types are
// [*Value], [*Object] and [*ObjectList].
type Node interface {
	Kind() Kind
	Label() string
	Description() string
}

// Properties maps property keys to nodes.
type Properties map[string]Node

// Resolver produces the value of a scalar property.
type Resolver interface {
	Resolve(s *Scope) any
}

// ResolverFunc adapts a function to a [Resolver].
type ResolverFunc func(s *Scope) any

// Resolve calls f(s).
func (f ResolverFunc) Resolve(s *Scope) any { return f(s) }

// Provider produces the child properties of an object.
type Provider interface {
	Properties(s *Scope) Properties
}

// ProviderFunc adapts a function to a [Provider].
type ProviderFunc func(s *Scope) Properties

// Properties calls f(s).
func (f ProviderFunc) Properties(s *Scope) Properties { return f(s) }

// Lister produces the items of an object list.
type Lister interface {
	Items(s *Scope) []Provider
}

// ListerFunc adapts a function to a [Lister].
type ListerFunc func(s *Scope) []Provider

// Items calls f(s).
func (f ListerFunc) Items(s *Scope) []Provider { return f(s) }

// meta holds the descriptive fields shared by all nodes.
type meta struct {
	label       string
	description string
	aliases     map[string]string
	exports     string
	template    Provider
}

// NodeOption configures a node at construction.
type NodeOption func(meta) meta

// WithDescription sets the node's description shown in schema exports.
func WithDescription(desc string) NodeOption {
	return func(m meta) meta {
		m.description = desc

		return m
	}
}

// WithAliases sets alternative keys for the node's children. An alias target
// may be a dotted path.
func WithAliases(aliases map[string]string) NodeOption {
	return func(m meta) meta {
		m.aliases = maps.Clone(aliases)

		return m
	}
}

// WithExports marks an object or object list as an instance of the group
// type registered under key. Exports reference the group type instead of
// repeating its properties.
func WithExports(key string) NodeOption {
	return func(m meta) meta {
		m.exports = key

		return m
	}
}

// WithTemplate sets the provider describing the items of an object list when
// exporting a schema.
func WithTemplate(p Provider) NodeOption {
	return func(m meta) meta {
		m.template = p

		return m
	}
}

func makeMeta(label string, opts ...NodeOption) meta {
	m := meta{label: label}
	for _, opt := range opts {
		m = opt(m)
	}

	return m
}

// Label returns the human-readable name of the node.
func (m *meta) Label() string { return m.label }

// Description returns the node description.
func (m *meta) Description() string { return m.description }

// Aliases returns the node's alias table.
func (m *meta) Aliases() map[string]string { return m.aliases }

// Exports returns the group type key the node is an instance of, if any.
func (m *meta) Exports() string { return m.exports }

// Value is a scalar property. Its resolver is invoked at most once.
type Value struct {
	meta

	kind     Kind
	resolver Resolver
	resolved bool
	value    any
}

// NewValue returns a scalar node of the given kind.
func NewValue(kind Kind, label string, r Resolver, opts ...NodeOption) *Value {
	return &Value{
		meta:     makeMeta(label, opts...),
		kind:     kind,
		resolver: r,
	}
}

// Kind returns the node kind.
func (v *Value) Kind() Kind { return v.kind }

// Get returns the resolved value, invoking the resolver on first use.
func (v *Value) Get(s *Scope) any {
	if !v.resolved {
		if v.resolver != nil {
			v.value = v.resolver.Resolve(s)
		}

		v.resolved = true
	}

	return v.value
}

// String returns a string property.
func String(label string, fn func(*Scope) string, opts ...NodeOption) *Value {
	return NewValue(KindString, label, ResolverFunc(func(s *Scope) any {
		return fn(s)
	}), opts...)
}

// Number returns a numeric property.
func Number(label string, fn func(*Scope) float64, opts ...NodeOption) *Value {
	return NewValue(KindNumber, label, ResolverFunc(func(s *Scope) any {
		return fn(s)
	}), opts...)
}

// Int returns an integer property.
func Int(label string, fn func(*Scope) int64, opts ...NodeOption) *Value {
	return NewValue(KindNumber, label, ResolverFunc(func(s *Scope) any {
		return fn(s)
	}), opts...)
}

// Bool returns a boolean property.
func Bool(label string, fn func(*Scope) bool, opts ...NodeOption) *Value {
	return NewValue(KindBool, label, ResolverFunc(func(s *Scope) any {
		return fn(s)
	}), opts...)
}

// Date returns a date property. A zero time resolves to nil.
func Date(label string, fn func(*Scope) time.Time, opts ...NodeOption) *Value {
	return NewValue(KindDate, label, ResolverFunc(func(s *Scope) any {
		t := fn(s)
		if t.IsZero() {
			return nil
		}

		return t
	}), opts...)
}

// URL returns a URL property.
func URL(label string, fn func(*Scope) string, opts ...NodeOption) *Value {
	return NewValue(KindURL, label, ResolverFunc(func(s *Scope) any {
		return fn(s)
	}), opts...)
}

// Email returns an e-mail address property.
func Email(label string, fn func(*Scope) string, opts ...NodeOption) *Value {
	return NewValue(KindEmail, label, ResolverFunc(func(s *Scope) any {
		return fn(s)
	}), opts...)
}

// Object is a property holding named children that are built on first use.
type Object struct {
	meta

	provider Provider
	props    Properties
	built    bool
}

// NewObject returns an object node whose children come from p.
func NewObject(label string, p Provider, opts ...NodeOption) *Object {
	return &Object{
		meta:     makeMeta(label, opts...),
		provider: p,
	}
}

// Kind returns [KindObject].
func (*Object) Kind() Kind { return KindObject }

// Provider returns the provider backing the object.
func (o *Object) Provider() Provider { return o.provider }

// Properties returns the object's children, building them on first use.
func (o *Object) Properties(s *Scope) Properties {
	if !o.built {
		if o.provider != nil {
			o.props = o.provider.Properties(s)
		}

		o.built = true
	}

	return o.props
}

// ObjectList is a repeatable property. Child lookups address the item at the
// list's cursor, which loops move with [ObjectList.SetIndex].
type ObjectList struct {
	meta

	lister Lister
	items  []Provider
	listed bool
	cache  map[int]Properties
	index  int
}

// NewObjectList returns an object list node whose items come from l.
func NewObjectList(label string, l Lister, opts ...NodeOption) *ObjectList {
	return &ObjectList{
		meta:   makeMeta(label, opts...),
		lister: l,
		cache:  make(map[int]Properties),
	}
}

// Kind returns [KindObjectList].
func (*ObjectList) Kind() Kind { return KindObjectList }

// Template returns the provider describing items for schema export.
func (l *ObjectList) Template() Provider { return l.template }

// Items returns the list items, listing them on first use.
func (l *ObjectList) Items(s *Scope) []Provider {
	if !l.listed {
		if l.lister != nil {
			l.items = l.lister.Items(s)
		}

		l.listed = true
	}

	return l.items
}

// Len returns the number of items.
func (l *ObjectList) Len(s *Scope) int { return len(l.Items(s)) }

// Index returns the cursor.
func (l *ObjectList) Index() int { return l.index }

// SetIndex moves the cursor.
func (l *ObjectList) SetIndex(i int) { l.index = i }

// Properties returns the properties of the item at the cursor, or nil if the
// cursor is out of range.
func (l *ObjectList) Properties(s *Scope) Properties {
	return l.PropertiesAt(s, l.index)
}

// PropertiesAt returns the properties of item i, built at most once per index.
func (l *ObjectList) PropertiesAt(s *Scope, i int) Properties {
	if props, ok := l.cache[i]; ok {
		return props
	}

	items := l.Items(s)
	if i < 0 || i >= len(items) || items[i] == nil {
		return nil
	}

	props := items[i].Properties(s)
	l.cache[i] = props

	return props
}
