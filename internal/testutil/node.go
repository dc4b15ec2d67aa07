// Package testutil provides shared fakes for cache and pipeline
// tests: content nodes, schema providers, rebuild engines, and a
// call-counting pipeline wrapper.
package testutil

import "github.com/dawoe/modelforge/internal/schema"

// Node is an in-memory content node.
type Node struct {
	Alias string
	Props map[string]any
}

var _ schema.Node = (*Node)(nil)

func (n *Node) TypeAlias() string { return n.Alias }

func (n *Node) Property(alias string) any {
	if n.Props == nil {
		return nil
	}
	return n.Props[alias]
}
