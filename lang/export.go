package lang

import (
	"log/slog"
	"maps"
	"slices"
)

// MaxExportPasses bounds the number of discovery passes made by
// [Exporter.Export] while following exports references.
const MaxExportPasses = 10

// maxExportDepth bounds the nesting of inline objects in an exported schema.
const maxExportDepth = 16

// GroupType describes a kind of group that can appear in exported schemas.
type GroupType struct {
	Key   string
	Label string
	// Root group types are exported unconditionally. Other types are exported
	// only when referenced by a property that exports them.
	Root bool
	// Mock builds a representative group for describing the type. Its values
	// are never resolved.
	Mock func(s *Scope) *Group
}

// Catalog is the set of group types known to an exporter.
type Catalog struct {
	types map[string]GroupType
	order []string
}

// NewCatalog returns a catalog holding types.
func NewCatalog(types ...GroupType) *Catalog {
	c := &Catalog{types: make(map[string]GroupType, len(types))}
	for _, t := range types {
		c.Register(t)
	}

	return c
}

// Register adds t to the catalog, replacing any type with the same key.
func (c *Catalog) Register(t GroupType) {
	if _, ok := c.types[t.Key]; !ok {
		c.order = append(c.order, t.Key)
	}

	c.types[t.Key] = t
}

// Lookup returns the group type registered under key.
func (c *Catalog) Lookup(key string) (GroupType, bool) {
	t, ok := c.types[key]

	return t, ok
}

// Keys returns the registered keys in registration order.
func (c *Catalog) Keys() []string { return slices.Clone(c.order) }

// Schema is the editor-facing description of everything a template can
// reference.
type Schema struct {
	Groups          map[string]GroupSchema    `json:"groups"               yaml:"groups"`
	Modifiers       map[string]ModifierSchema `json:"modifiers"            yaml:"modifiers"`
	VisibilityRules map[string]RuleSchema     `json:"visibility_rules"     yaml:"visibility_rules"`
	Unresolved      []string                  `json:"unresolved,omitempty" yaml:"unresolved,omitempty"`
}

// GroupSchema describes one group type.
type GroupSchema struct {
	Key        string                    `json:"key"               yaml:"key"`
	Label      string                    `json:"label"             yaml:"label"`
	Properties map[string]PropertySchema `json:"properties"        yaml:"properties"`
	Aliases    map[string]string         `json:"aliases,omitempty" yaml:"aliases,omitempty"`
	Methods    []string                  `json:"methods,omitempty" yaml:"methods,omitempty"`
}

// PropertySchema describes one property. Properties that export a group type
// reference it by key instead of listing its properties.
type PropertySchema struct {
	Type        string                    `json:"type"                  yaml:"type"`
	Label       string                    `json:"label"                 yaml:"label"`
	Description string                    `json:"description,omitempty" yaml:"description,omitempty"`
	Exports     string                    `json:"exports,omitempty"     yaml:"exports,omitempty"`
	Properties  map[string]PropertySchema `json:"properties,omitempty"  yaml:"properties,omitempty"`
	Aliases     map[string]string         `json:"aliases,omitempty"     yaml:"aliases,omitempty"`
}

// ModifierSchema describes one modifier.
type ModifierSchema struct {
	Key       string     `json:"key"                 yaml:"key"`
	Label     string     `json:"label"               yaml:"label"`
	Type      string     `json:"type"                yaml:"type"`
	Arguments []Argument `json:"arguments,omitempty" yaml:"arguments,omitempty"`
}

// RuleSchema describes one visibility rule.
type RuleSchema struct {
	Key       string     `json:"key"                 yaml:"key"`
	Label     string     `json:"label"               yaml:"label"`
	Arguments []Argument `json:"arguments,omitempty" yaml:"arguments,omitempty"`
}

// Exporter builds a [Schema] from a catalog of group types.
type Exporter struct {
	scope   *Scope
	catalog *Catalog
}

// NewExporter returns an exporter describing the group types in c, using the
// registries of s.
func NewExporter(s *Scope, c *Catalog) *Exporter {
	return &Exporter{scope: s, catalog: c}
}

// Export returns the schema of s's registries and of every group type that
// is a root of c or reachable from one through exports references.
func Export(s *Scope, c *Catalog) Schema {
	return NewExporter(s, c).Export()
}

// Export runs discovery passes until no new group types are referenced or
// [MaxExportPasses] is reached. Types still pending after the last pass, and
// references to types missing from the catalog, are listed in
// [Schema.Unresolved].
func (e *Exporter) Export() Schema {
	schema := Schema{
		Groups:          make(map[string]GroupSchema),
		Modifiers:       e.modifiers(),
		VisibilityRules: e.rules(),
	}

	var (
		pending []string
		missing = make(map[string]bool)
	)

	for _, key := range e.catalog.Keys() {
		if t, _ := e.catalog.Lookup(key); t.Root {
			pending = append(pending, key)
		}
	}

	for pass := 0; pass < MaxExportPasses && len(pending) > 0; pass++ {
		var next []string

		for _, key := range pending {
			if _, done := schema.Groups[key]; done {
				continue
			}

			t, ok := e.catalog.Lookup(key)
			if !ok || t.Mock == nil {
				missing[key] = true

				continue
			}

			gs, refs := e.group(t)
			schema.Groups[key] = gs

			for _, ref := range refs {
				if _, done := schema.Groups[ref]; !done && !slices.Contains(next, ref) {
					next = append(next, ref)
				}
			}
		}

		pending = next
	}

	for _, key := range pending {
		if _, done := schema.Groups[key]; !done {
			missing[key] = true
		}
	}

	if len(missing) > 0 {
		schema.Unresolved = slices.Sorted(maps.Keys(missing))

		e.scope.Logger().WarnContext(e.scope.Context(), "export",
			slog.Any("unresolved", schema.Unresolved),
			slog.Int("max_passes", MaxExportPasses),
		)
	}

	return schema
}

// group describes one group type and returns the keys of the group types
// it references.
func (e *Exporter) group(t GroupType) (GroupSchema, []string) {
	g := t.Mock(e.scope)

	label := t.Label
	if label == "" {
		label = g.Label()
	}

	var refs []string

	gs := GroupSchema{
		Key:        t.Key,
		Label:      label,
		Properties: e.describe(g.Root(), 0, &refs),
		Aliases:    g.Root().Aliases(),
		Methods:    g.Methods(),
	}

	return gs, refs
}

// describe returns the schema of c's children.
func (e *Exporter) describe(c container, depth int, refs *[]string) map[string]PropertySchema {
	props := c.Properties(e.scope)
	out := make(map[string]PropertySchema, len(props))

	for key, node := range props {
		if node == nil {
			continue
		}

		ps := PropertySchema{
			Type:        node.Kind().String(),
			Label:       node.Label(),
			Description: node.Description(),
		}

		switch n := node.(type) {
		case *Object:
			if ref := n.Exports(); ref != "" {
				ps.Exports = ref
				*refs = append(*refs, ref)
			} else if depth < maxExportDepth {
				ps.Properties = e.describe(n, depth+1, refs)
				ps.Aliases = n.Aliases()
			}

		case *ObjectList:
			if ref := n.Exports(); ref != "" {
				ps.Exports = ref
				*refs = append(*refs, ref)
			} else if item := listItem(e.scope, n); item != nil && depth < maxExportDepth {
				ps.Properties = e.describe(item, depth+1, refs)
				ps.Aliases = n.Aliases()
			}
		}

		out[key] = ps
	}

	return out
}

// listItem returns a container describing the items of l: its template if
// it has one, otherwise its first item.
func listItem(s *Scope, l *ObjectList) container {
	if t := l.Template(); t != nil {
		return NewObject(l.Label(), t, WithAliases(l.Aliases()))
	}

	if l.Len(s) > 0 {
		items := l.Items(s)

		return NewObject(l.Label(), items[0], WithAliases(l.Aliases()))
	}

	return nil
}

func (e *Exporter) modifiers() map[string]ModifierSchema {
	mods := e.scope.Registry().Modifiers()
	out := make(map[string]ModifierSchema, len(mods))

	for _, m := range mods {
		out[m.Key()] = ModifierSchema{
			Key:       m.Key(),
			Label:     m.Label(),
			Type:      m.Type().String(),
			Arguments: m.Arguments(),
		}
	}

	return out
}

func (e *Exporter) rules() map[string]RuleSchema {
	rules := e.scope.Rules().Rules()
	out := make(map[string]RuleSchema, len(rules))

	for _, r := range rules {
		out[r.Key()] = RuleSchema{
			Key:       r.Key(),
			Label:     r.Label(),
			Arguments: r.Arguments(),
		}
	}

	return out
}
