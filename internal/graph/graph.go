package graph

import (
	"context"
	"fmt"
	"slices"

	"github.com/specialistvlad/fxgraph/internal/ctxlog"
	"github.com/specialistvlad/fxgraph/internal/node"
)

// Graph is the container of nodes and connections.
type Graph struct {
	Name string

	nodes       []node.Node
	byID        map[string]node.Node
	connections []*node.Connection
	palette     *node.Palette

	listeners    map[int]Listener
	nextListener int
}

// New creates an empty graph that colors connections with the default palette.
func New(name string) *Graph {
	return &Graph{
		Name:      name,
		byID:      make(map[string]node.Node),
		palette:   node.DefaultPalette(),
		listeners: make(map[int]Listener),
	}
}

// Palette returns the palette used for new connections.
func (g *Graph) Palette() *node.Palette { return g.palette }

// SetPalette replaces the palette used for new connections.
func (g *Graph) SetPalette(p *node.Palette) { g.palette = p }

// Nodes returns the nodes in insertion order. The order does not imply
// execution order.
func (g *Graph) Nodes() []node.Node {
	return slices.Clone(g.nodes)
}

// Connections returns a copy of the connection list.
func (g *Graph) Connections() []*node.Connection {
	return slices.Clone(g.connections)
}

// Node looks a node up by id.
func (g *Graph) Node(id string) (node.Node, bool) {
	n, ok := g.byID[id]
	return n, ok
}

// Contains reports whether n itself is a member of the graph.
func (g *Graph) Contains(n node.Node) bool {
	if n == nil {
		return false
	}
	m, ok := g.byID[n.ID()]
	return ok && m == n
}

// OutputNode returns the output-role node, or nil.
func (g *Graph) OutputNode() node.Node {
	for _, n := range g.nodes {
		if n.Role() == node.RoleOutput {
			return n
		}
	}
	return nil
}

// AddNode adds n to the graph.
func (g *Graph) AddNode(ctx context.Context, n node.Node) error {
	logger := ctxlog.FromContext(ctx)
	if n == nil {
		return fmt.Errorf("add nil node: %w", ErrNodeNotFound)
	}
	if _, exists := g.byID[n.ID()]; exists {
		logger.Warn("Node rejected, id already in graph.", "node_id", n.ID(), "node_type", n.TypeName())
		return fmt.Errorf("node '%s': %w", n.ID(), ErrNodeExists)
	}
	if n.Role() == node.RoleOutput {
		if existing := g.OutputNode(); existing != nil {
			logger.Warn("Node rejected, graph already has an output node.", "node_id", n.ID(), "existing", existing.ID())
			return fmt.Errorf("node '%s': %w", n.ID(), ErrDuplicateOutput)
		}
	}

	g.nodes = append(g.nodes, n)
	g.byID[n.ID()] = n
	logger.Debug("Node added.", "node_id", n.ID(), "node_type", n.TypeName())
	g.notify(Event{Kind: NodeAdded, Node: n})
	return nil
}

// RemoveNode removes every connection touching n, then n itself. It returns
// the removed connections in their original order.
func (g *Graph) RemoveNode(ctx context.Context, n node.Node) ([]*node.Connection, error) {
	logger := ctxlog.FromContext(ctx)
	if !g.Contains(n) {
		return nil, fmt.Errorf("remove node: %w", ErrNodeNotFound)
	}
	if n.Role() == node.RoleOutput {
		logger.Warn("Output node removal rejected.", "node_id", n.ID())
		return nil, fmt.Errorf("node '%s': %w", n.ID(), ErrOutputNodeRemoval)
	}

	var removed []*node.Connection
	for _, c := range g.Connections() {
		if c.Touches(n) {
			g.detach(c)
			removed = append(removed, c)
		}
	}
	g.nodes = slices.DeleteFunc(g.nodes, func(m node.Node) bool { return m == n })
	delete(g.byID, n.ID())

	logger.Debug("Node removed.", "node_id", n.ID(), "connections_removed", len(removed))
	g.notify(Event{Kind: NodeRemoved, Node: n})
	return removed, nil
}

// ConnectSlots joins an output slot to an input slot. An existing connection
// into in is destroyed first.
func (g *Graph) ConnectSlots(ctx context.Context, out, in *node.Slot) (*node.Connection, error) {
	logger := ctxlog.FromContext(ctx)
	if out == nil || in == nil {
		return nil, fmt.Errorf("nil slot: %w", ErrInvalidConnection)
	}
	if !g.Contains(out.Owner()) || !g.Contains(in.Owner()) {
		return nil, fmt.Errorf("connect %s -> %s: %w", out.ID, in.ID, ErrNodeNotFound)
	}
	if out.Direction != node.Output || in.Direction != node.Input || !node.CanConnect(out, in) {
		logger.Warn("Connection rejected.",
			"from", out.Owner().ID()+"."+out.ID, "to", in.Owner().ID()+"."+in.ID,
			"from_type", out.Type.String(), "to_type", in.Type.String())
		return nil, fmt.Errorf("connect %s.%s -> %s.%s: %w", out.Owner().ID(), out.ID, in.Owner().ID(), in.ID, ErrInvalidConnection)
	}

	if prior := g.Incoming(in); prior != nil {
		g.detach(prior)
	}
	c, err := node.Link(out, in, g.palette)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConnection, err)
	}
	g.connections = append(g.connections, c)
	logger.Debug("Slots connected.", "connection_id", c.ID, "from", out.Owner().ID()+"."+out.ID, "to", in.Owner().ID()+"."+in.ID)
	g.notify(Event{Kind: Connected, Node: in.Owner(), Connection: c})
	return c, nil
}

// DisconnectConnection removes c. It reports false when c is not in the graph.
func (g *Graph) DisconnectConnection(c *node.Connection) bool {
	if !slices.Contains(g.connections, c) {
		return false
	}
	g.detach(c)
	return true
}

// DisconnectSlot removes the connection into an input slot, or every
// connection out of an output slot. It returns the removed connections.
func (g *Graph) DisconnectSlot(s *node.Slot) []*node.Connection {
	var removed []*node.Connection
	for _, c := range g.Connections() {
		if c.From == s || c.To == s {
			g.detach(c)
			removed = append(removed, c)
		}
	}
	return removed
}

func (g *Graph) detach(c *node.Connection) {
	c.Detach()
	g.connections = slices.DeleteFunc(g.connections, func(x *node.Connection) bool { return x == c })
	g.notify(Event{Kind: Disconnected, Node: c.To.Owner(), Connection: c})
}

// Incoming returns the connection into input slot in, or nil.
func (g *Graph) Incoming(in *node.Slot) *node.Connection {
	for _, c := range g.connections {
		if c.To == in {
			return c
		}
	}
	return nil
}

// Outgoing returns the connections leaving output slot out.
func (g *Graph) Outgoing(out *node.Slot) []*node.Connection {
	var res []*node.Connection
	for _, c := range g.connections {
		if c.From == out {
			res = append(res, c)
		}
	}
	return res
}
