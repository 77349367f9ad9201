package executor

import (
	"fmt"

	"github.com/specialistvlad/fxgraph/internal/graph"
	"github.com/specialistvlad/fxgraph/internal/node"
)

type mark uint8

const (
	unvisited mark = iota
	inProgress
	done
)

// topoOrder returns the dependency-first order of every node reachable
// upstream from roots. When within is non-nil the walk stays inside it.
// Revisiting an in-progress node reports a cycle.
func topoOrder(g *graph.Graph, roots []node.Node, within map[node.Node]bool) ([]node.Node, error) {
	marks := make(map[node.Node]mark)
	var order []node.Node

	var visit func(n node.Node) error
	visit = func(n node.Node) error {
		switch marks[n] {
		case done:
			return nil
		case inProgress:
			return fmt.Errorf("%w involving node '%s'", graph.ErrCycle, n.ID())
		}
		marks[n] = inProgress
		for _, dep := range g.Dependencies(n) {
			if within != nil && !within[dep] {
				continue
			}
			if err := visit(dep); err != nil {
				return err
			}
		}
		marks[n] = done
		order = append(order, n)
		return nil
	}

	for _, n := range roots {
		if err := visit(n); err != nil {
			return nil, err
		}
	}
	return order, nil
}
