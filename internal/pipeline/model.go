package pipeline

import (
	"strings"

	"github.com/dawoe/modelforge/internal/schema"
)

// modelMeta is the per-type accessor metadata a dynamic Model
// dispatches through. Built once per artifact and shared by every
// node constructed for the type, so lookups never touch the binding
// table again.
type modelMeta struct {
	name       string
	alias      string
	properties map[string]bindingProperty // keyed by lowercased alias
}

func newModelMeta(t bindingType) *modelMeta {
	meta := &modelMeta{
		name:       t.Name,
		alias:      t.Alias,
		properties: make(map[string]bindingProperty, len(t.Properties)),
	}
	for _, p := range t.Properties {
		meta.properties[strings.ToLower(p.Alias)] = p
	}
	return meta
}

// Model is the typed wrapper a DynamicPipeline constructor returns.
// It satisfies schema.Node, so decorated nodes can flow anywhere a
// raw node does, and adds alias-checked property access on top.
type Model struct {
	node schema.Node
	meta *modelMeta
}

func (m *Model) TypeAlias() string { return m.node.TypeAlias() }

// Property passes through to the raw node, keeping the Node contract
// intact for callers that do not care about the model layer.
func (m *Model) Property(alias string) any { return m.node.Property(alias) }

// ModelName returns the bound model type name.
func (m *Model) ModelName() string { return m.meta.name }

// Value returns the raw value of a declared property, resolved
// case-insensitively against the model's schema. The second result is
// false when the model declares no such property, which is what
// separates Value from the unchecked Property passthrough.
func (m *Model) Value(propertyAlias string) (any, bool) {
	p, ok := m.meta.properties[strings.ToLower(propertyAlias)]
	if !ok {
		return nil, false
	}
	return m.node.Property(p.Alias), true
}

// PropertyType returns the declared value type of a property, or
// false when the model does not declare it.
func (m *Model) PropertyType(propertyAlias string) (string, bool) {
	p, ok := m.meta.properties[strings.ToLower(propertyAlias)]
	if !ok {
		return "", false
	}
	return p.TypeFullName, true
}

// Unwrap returns the raw node the model decorates.
func (m *Model) Unwrap() schema.Node { return m.node }
