package lang

import (
	"slices"
	"strings"
)

// maxAliasExpansions bounds alias rewriting during a single resolution.
const maxAliasExpansions = 16

// Group is a named root namespace of properties bound to one entity, such as
// the current post or the site.
type Group struct {
	key     string
	root    *Object
	methods []string
}

// NewGroup returns a group named key whose root properties come from root.
// The methods are keys of group-bound modifiers the group answers to.
func NewGroup(key string, root *Object, methods ...string) *Group {
	return &Group{
		key:     key,
		root:    root,
		methods: methods,
	}
}

// Key returns the group key used in tags.
func (g *Group) Key() string { return g.key }

// Label returns the human-readable group name.
func (g *Group) Label() string { return g.root.Label() }

// Root returns the root object.
func (g *Group) Root() *Object { return g.root }

// Provider returns the provider backing the root object.
func (g *Group) Provider() Provider { return g.root.Provider() }

// Methods returns the keys of the group-bound modifiers.
func (g *Group) Methods() []string { return g.methods }

// HasMethod reports whether the group answers to the method key.
func (g *Group) HasMethod(key string) bool {
	return slices.Contains(g.methods, key)
}

// Resolution is the outcome of resolving a property path.
type Resolution struct {
	// Node is the node the path ended on. For a scalar this is the leaf even
	// if trailing segments were ignored.
	Node Node
	// Value is the resolved scalar value; nil for containers and misses.
	Value any
	// List is the innermost object list traversed, if any, and Rest is the
	// remainder of the path below it. List-aware modifiers use them to
	// collect the same property across all items.
	List  *ObjectList
	Rest  []string
	Found bool
}

// container is implemented by [*Object] and [*ObjectList].
type container interface {
	Node
	Properties(s *Scope) Properties
	Aliases() map[string]string
}

// Resolve walks path from the group root.
//
// Aliases are expanded segment by segment. An object or object list at the
// final segment is returned as the container itself, and lookups through an
// object list address the item at its cursor. A scalar ends the walk: any
// remaining segments are ignored.
func (g *Group) Resolve(s *Scope, path []string) Resolution {
	if len(path) == 0 {
		return Resolution{Node: g.root, Found: true}
	}

	return resolvePath(s, g.root, path)
}

// resolvePath walks path starting at the children of root.
func resolvePath(s *Scope, root container, path []string) Resolution {
	var (
		cur        = root
		list       *ObjectList
		rest       []string
		expansions int
	)

	for i := 0; i < len(path); i++ {
		seg := path[i]

		if target, ok := cur.Aliases()[seg]; ok && expansions < maxAliasExpansions {
			expansions++
			path = slices.Concat(path[:i], strings.Split(target, "."), path[i+1:])
			i--

			continue
		}

		child, ok := cur.Properties(s)[seg]
		if !ok || child == nil {
			return Resolution{List: list, Rest: rest}
		}

		last := i == len(path)-1

		switch n := child.(type) {
		case *Value:
			return Resolution{
				Node:  n,
				Value: n.Get(s),
				List:  list,
				Rest:  rest,
				Found: true,
			}

		case *Object:
			if last {
				return Resolution{Node: n, List: list, Rest: rest, Found: true}
			}

			cur = n

		case *ObjectList:
			if last {
				return Resolution{Node: n, List: n, Found: true}
			}

			list, rest = n, path[i+1:]
			cur = n

		default:
			return Resolution{List: list, Rest: rest}
		}
	}

	return Resolution{List: list, Rest: rest}
}

// ResolveString splits a dotted path and resolves it. Backslash escapes are
// not interpreted.
func (g *Group) ResolveString(s *Scope, path string) Resolution {
	if path == "" {
		return g.Resolve(s, nil)
	}

	return g.Resolve(s, strings.Split(path, "."))
}
