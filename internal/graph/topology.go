package graph

import (
	"fmt"

	"github.com/specialistvlad/fxgraph/internal/node"
)

// Dependencies returns the distinct nodes feeding n directly.
func (g *Graph) Dependencies(n node.Node) []node.Node {
	var deps []node.Node
	seen := make(map[node.Node]bool)
	for _, c := range g.connections {
		if c.To.Owner() == n && !seen[c.From.Owner()] {
			seen[c.From.Owner()] = true
			deps = append(deps, c.From.Owner())
		}
	}
	return deps
}

// Dependents returns the distinct nodes n feeds directly.
func (g *Graph) Dependents(n node.Node) []node.Node {
	var deps []node.Node
	seen := make(map[node.Node]bool)
	for _, c := range g.connections {
		if c.From.Owner() == n && !seen[c.To.Owner()] {
			seen[c.To.Owner()] = true
			deps = append(deps, c.To.Owner())
		}
	}
	return deps
}

// Upstream returns every node n transitively depends on, excluding n.
func (g *Graph) Upstream(n node.Node) []node.Node {
	return g.reach(n, g.Dependencies)
}

// Downstream returns n followed by every node reachable forward from it.
func (g *Graph) Downstream(n node.Node) []node.Node {
	return append([]node.Node{n}, g.reach(n, g.Dependents)...)
}

func (g *Graph) reach(start node.Node, next func(node.Node) []node.Node) []node.Node {
	var res []node.Node
	seen := map[node.Node]bool{start: true}
	stack := []node.Node{start}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, m := range next(cur) {
			if !seen[m] {
				seen[m] = true
				res = append(res, m)
				stack = append(stack, m)
			}
		}
	}
	return res
}

// SinkNodes returns the nodes none of whose output slots drive a connection,
// including nodes without outputs.
func (g *Graph) SinkNodes() []node.Node {
	driving := make(map[node.Node]bool)
	for _, c := range g.connections {
		driving[c.From.Owner()] = true
	}
	var sinks []node.Node
	for _, n := range g.nodes {
		if !driving[n] {
			sinks = append(sinks, n)
		}
	}
	return sinks
}

// HasCycle reports whether the connections form a directed cycle.
func (g *Graph) HasCycle() bool {
	return g.DetectCycle() != nil
}

// DetectCycle returns an error wrapping ErrCycle naming the first node found
// on a cycle, or nil.
func (g *Graph) DetectCycle() error {
	// permanent: fully visited and not on a cycle.
	// temporary: on the current recursion stack.
	permanent := make(map[node.Node]bool)
	temporary := make(map[node.Node]bool)

	var visit func(n node.Node) error
	visit = func(n node.Node) error {
		if permanent[n] {
			return nil
		}
		if temporary[n] {
			return fmt.Errorf("%w involving node '%s'", ErrCycle, n.ID())
		}
		temporary[n] = true
		for _, dependent := range g.Dependents(n) {
			if err := visit(dependent); err != nil {
				return err
			}
		}
		delete(temporary, n)
		permanent[n] = true
		return nil
	}

	for _, n := range g.nodes {
		if !permanent[n] {
			if err := visit(n); err != nil {
				return err
			}
		}
	}
	return nil
}
