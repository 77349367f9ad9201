// Package command makes graph mutations reversible.
//
// Each Command captures what it needs to undo itself while it runs, so an
// undo never needs more than the state that was true right before the
// forward action. History keeps a bounded undo stack and a redo stack and
// re-runs whatever part of the graph a command touched.
package command

import (
	"context"
	"fmt"

	"github.com/specialistvlad/fxgraph/internal/graph"
	"github.com/specialistvlad/fxgraph/internal/node"
	"github.com/specialistvlad/fxgraph/internal/value"
)

// Command is a reversible mutation.
type Command interface {
	Name() string
	Do(ctx context.Context) error
	Undo(ctx context.Context) error
	// Touched returns the nodes whose inputs or properties changed in the
	// last Do or Undo.
	Touched() []node.Node
}

// AddNode adds a node to the graph.
type AddNode struct {
	graph *graph.Graph
	node  node.Node
}

func NewAddNode(g *graph.Graph, n node.Node) *AddNode {
	return &AddNode{graph: g, node: n}
}

func (c *AddNode) Name() string { return "add node " + c.node.ID() }

func (c *AddNode) Do(ctx context.Context) error {
	return c.graph.AddNode(ctx, c.node)
}

func (c *AddNode) Undo(ctx context.Context) error {
	_, err := c.graph.RemoveNode(ctx, c.node)
	return err
}

func (c *AddNode) Touched() []node.Node { return []node.Node{c.node} }

type endpoints struct {
	from *node.Slot
	to   *node.Slot
}

// DeleteNode removes a node with all its connections. Undo puts the node and
// every connection back.
type DeleteNode struct {
	graph   *graph.Graph
	node    node.Node
	removed []endpoints
}

func NewDeleteNode(g *graph.Graph, n node.Node) *DeleteNode {
	return &DeleteNode{graph: g, node: n}
}

func (c *DeleteNode) Name() string { return "delete node " + c.node.ID() }

func (c *DeleteNode) Do(ctx context.Context) error {
	removed, err := c.graph.RemoveNode(ctx, c.node)
	if err != nil {
		return err
	}
	c.removed = c.removed[:0]
	for _, conn := range removed {
		c.removed = append(c.removed, endpoints{from: conn.From, to: conn.To})
	}
	return nil
}

func (c *DeleteNode) Undo(ctx context.Context) error {
	if err := c.graph.AddNode(ctx, c.node); err != nil {
		return err
	}
	for _, e := range c.removed {
		if _, err := c.graph.ConnectSlots(ctx, e.from, e.to); err != nil {
			return fmt.Errorf("restore connection of '%s': %w", c.node.ID(), err)
		}
	}
	return nil
}

// Touched lists the nodes that consumed the deleted node's outputs, plus the
// node itself.
func (c *DeleteNode) Touched() []node.Node {
	res := []node.Node{c.node}
	for _, e := range c.removed {
		if owner := e.to.Owner(); owner != c.node {
			res = append(res, owner)
		}
	}
	return res
}

// Connect joins two slots. Undo restores whatever connection the input had
// before.
type Connect struct {
	graph *graph.Graph
	from  *node.Slot
	to    *node.Slot

	conn  *node.Connection
	prior *node.Slot
}

func NewConnect(g *graph.Graph, from, to *node.Slot) *Connect {
	return &Connect{graph: g, from: from, to: to}
}

func (c *Connect) Name() string { return "connect " + slotName(c.from) + " -> " + slotName(c.to) }

func (c *Connect) Do(ctx context.Context) error {
	var prior *node.Slot
	if p := c.graph.Incoming(c.to); p != nil {
		prior = p.From
	}
	conn, err := c.graph.ConnectSlots(ctx, c.from, c.to)
	if err != nil {
		return err
	}
	c.conn, c.prior = conn, prior
	return nil
}

func (c *Connect) Undo(ctx context.Context) error {
	if c.conn == nil || !c.graph.DisconnectConnection(c.conn) {
		return fmt.Errorf("undo %s: %w", c.Name(), graph.ErrInvalidConnection)
	}
	c.conn = nil
	if c.prior != nil {
		if _, err := c.graph.ConnectSlots(ctx, c.prior, c.to); err != nil {
			return fmt.Errorf("restore prior connection: %w", err)
		}
	}
	return nil
}

func (c *Connect) Touched() []node.Node { return []node.Node{c.to.Owner()} }

// Disconnect removes the connection between two slots.
type Disconnect struct {
	graph *graph.Graph
	from  *node.Slot
	to    *node.Slot
}

func NewDisconnect(g *graph.Graph, conn *node.Connection) *Disconnect {
	return &Disconnect{graph: g, from: conn.From, to: conn.To}
}

func (c *Disconnect) Name() string { return "disconnect " + slotName(c.from) + " -> " + slotName(c.to) }

func (c *Disconnect) Do(ctx context.Context) error {
	conn := c.graph.Incoming(c.to)
	if conn == nil || conn.From != c.from {
		return fmt.Errorf("%s: %w", c.Name(), graph.ErrInvalidConnection)
	}
	c.graph.DisconnectConnection(conn)
	return nil
}

func (c *Disconnect) Undo(ctx context.Context) error {
	_, err := c.graph.ConnectSlots(ctx, c.from, c.to)
	return err
}

func (c *Disconnect) Touched() []node.Node { return []node.Node{c.to.Owner()} }

// SetProperty edits one property of a node.
type SetProperty struct {
	node  node.Node
	name  string
	value value.Value
	old   value.Value
}

func NewSetProperty(n node.Node, name string, v value.Value) *SetProperty {
	return &SetProperty{node: n, name: name, value: v}
}

func (c *SetProperty) Name() string { return "set " + c.node.ID() + "." + c.name }

func (c *SetProperty) Do(context.Context) error {
	old, err := node.GetProperty(c.node, c.name)
	if err != nil {
		return err
	}
	if err := node.SetProperty(c.node, c.name, c.value); err != nil {
		return err
	}
	c.old = old
	return nil
}

func (c *SetProperty) Undo(context.Context) error {
	return node.SetProperty(c.node, c.name, c.old)
}

func (c *SetProperty) Touched() []node.Node { return []node.Node{c.node} }

func slotName(s *node.Slot) string {
	if s == nil {
		return "<nil>"
	}
	if s.Owner() == nil {
		return s.ID
	}
	return s.Owner().ID() + "." + s.ID
}
