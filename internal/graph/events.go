package graph

import "github.com/specialistvlad/fxgraph/internal/node"

// EventKind names a graph mutation.
type EventKind uint8

const (
	NodeAdded EventKind = iota
	NodeRemoved
	Connected
	Disconnected
)

func (k EventKind) String() string {
	switch k {
	case NodeAdded:
		return "node_added"
	case NodeRemoved:
		return "node_removed"
	case Connected:
		return "connected"
	case Disconnected:
		return "disconnected"
	}
	return "unknown"
}

// Event describes one completed mutation. Connection is nil for node events.
type Event struct {
	Kind       EventKind
	Node       node.Node
	Connection *node.Connection
}

// Listener receives graph events.
type Listener func(Event)

// Subscribe registers fn and returns a function that removes it.
func (g *Graph) Subscribe(fn Listener) (unsubscribe func()) {
	id := g.nextListener
	g.nextListener++
	g.listeners[id] = fn
	return func() { delete(g.listeners, id) }
}

func (g *Graph) notify(e Event) {
	for id := 0; id < g.nextListener; id++ {
		if fn, ok := g.listeners[id]; ok {
			fn(e)
		}
	}
}
