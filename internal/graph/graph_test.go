package graph_test

import (
	"context"
	"testing"

	"github.com/specialistvlad/fxgraph/internal/graph"
	"github.com/specialistvlad/fxgraph/internal/node"
	"github.com/specialistvlad/fxgraph/internal/nodes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func add(t *testing.T, g *graph.Graph, ns ...node.Node) {
	t.Helper()
	for _, n := range ns {
		require.NoError(t, g.AddNode(context.Background(), n))
	}
}

func connect(t *testing.T, g *graph.Graph, from node.Node, out string, to node.Node, in string) *node.Connection {
	t.Helper()
	c, err := g.ConnectSlots(context.Background(), from.OutputSlot(out), to.InputSlot(in))
	require.NoError(t, err)
	return c
}

func TestAddNode(t *testing.T) {
	ctx := context.Background()
	g := graph.New("test")
	a := nodes.NewConstantColor()
	add(t, g, a)

	t.Run("same node twice", func(t *testing.T) {
		assert.ErrorIs(t, g.AddNode(ctx, a), graph.ErrNodeExists)
		assert.Len(t, g.Nodes(), 1)
	})

	t.Run("single output node", func(t *testing.T) {
		add(t, g, nodes.NewOutput())
		assert.ErrorIs(t, g.AddNode(ctx, nodes.NewOutput()), graph.ErrDuplicateOutput)
		assert.Len(t, g.Nodes(), 2)
	})

	t.Run("lookup", func(t *testing.T) {
		got, ok := g.Node(a.ID())
		require.True(t, ok)
		assert.Same(t, a, got)
		assert.NotNil(t, g.OutputNode())
	})
}

func TestRemoveNode(t *testing.T) {
	ctx := context.Background()
	g := graph.New("test")
	src := nodes.NewConstantColor()
	blur := nodes.NewFilter(nodes.TypeBlur)
	out := nodes.NewOutput()
	add(t, g, src, blur, out)
	connect(t, g, src, "out", blur, "in")
	connect(t, g, blur, "out", out, "texture")
	connect(t, g, src, "color", out, "color")

	removed, err := g.RemoveNode(ctx, blur)
	require.NoError(t, err)
	assert.Len(t, removed, 2)
	assert.False(t, g.Contains(blur))
	assert.False(t, out.InputSlot("texture").IsConnected())
	for _, c := range g.Connections() {
		assert.False(t, c.Touches(blur))
	}
	assert.Len(t, g.Connections(), 1)

	t.Run("output node is kept", func(t *testing.T) {
		_, err := g.RemoveNode(ctx, out)
		assert.ErrorIs(t, err, graph.ErrOutputNodeRemoval)
		assert.True(t, g.Contains(out))
		assert.Len(t, g.Connections(), 1)
	})

	t.Run("unknown node", func(t *testing.T) {
		_, err := g.RemoveNode(ctx, blur)
		assert.ErrorIs(t, err, graph.ErrNodeNotFound)
	})
}

func TestConnectSlots(t *testing.T) {
	ctx := context.Background()

	t.Run("replaces prior connection", func(t *testing.T) {
		g := graph.New("test")
		a, b := nodes.NewConstantColor(), nodes.NewGradient()
		blur := nodes.NewFilter(nodes.TypeBlur)
		add(t, g, a, b, blur)
		first := connect(t, g, a, "out", blur, "in")
		second := connect(t, g, b, "out", blur, "in")

		conns := g.Connections()
		require.Len(t, conns, 1)
		assert.Same(t, second, conns[0])
		assert.NotSame(t, first, second)
		assert.Same(t, b.OutputSlot("out"), blur.InputSlot("in").Source())
		assert.Same(t, second, g.Incoming(blur.InputSlot("in")))
	})

	t.Run("rejections leave the graph unchanged", func(t *testing.T) {
		g := graph.New("test")
		a := nodes.NewConstantColor()
		blur := nodes.NewFilter(nodes.TypeBlur)
		outside := nodes.NewGradient()
		add(t, g, a, blur)
		connect(t, g, a, "out", blur, "in")
		before := g.Connections()

		for i := 0; i < 2; i++ {
			_, err := g.ConnectSlots(ctx, blur.OutputSlot("out"), blur.InputSlot("in"))
			assert.ErrorIs(t, err, graph.ErrInvalidConnection, "self connection")
			_, err = g.ConnectSlots(ctx, a.OutputSlot("color"), blur.InputSlot("in"))
			assert.ErrorIs(t, err, graph.ErrInvalidConnection, "type mismatch")
			_, err = g.ConnectSlots(ctx, blur.InputSlot("in"), a.OutputSlot("out"))
			assert.ErrorIs(t, err, graph.ErrInvalidConnection, "reversed")
			_, err = g.ConnectSlots(ctx, outside.OutputSlot("out"), blur.InputSlot("in"))
			assert.ErrorIs(t, err, graph.ErrNodeNotFound, "foreign node")
			assert.Equal(t, before, g.Connections())
			assert.Same(t, a.OutputSlot("out"), blur.InputSlot("in").Source())
		}
	})

	t.Run("connection color follows palette", func(t *testing.T) {
		g := graph.New("test")
		a := nodes.NewConstantColor()
		out := nodes.NewOutput()
		add(t, g, a, out)
		c := connect(t, g, a, "color", out, "color")
		assert.Equal(t, g.Palette().Color(c.From.Type), c.Color)
	})
}

func TestDisconnect(t *testing.T) {
	g := graph.New("test")
	a := nodes.NewConstantColor()
	x, y := nodes.NewFilter(nodes.TypeBlur), nodes.NewFilter(nodes.TypeInvert)
	add(t, g, a, x, y)
	cx := connect(t, g, a, "out", x, "in")
	connect(t, g, a, "out", y, "in")

	assert.True(t, g.DisconnectConnection(cx))
	assert.False(t, g.DisconnectConnection(cx), "already gone")
	assert.False(t, x.InputSlot("in").IsConnected())

	connect(t, g, a, "out", x, "in")
	removed := g.DisconnectSlot(a.OutputSlot("out"))
	assert.Len(t, removed, 2)
	assert.Empty(t, g.Connections())
	assert.Empty(t, g.DisconnectSlot(y.InputSlot("in")))
}

func TestCycles(t *testing.T) {
	t.Run("acyclic", func(t *testing.T) {
		g := graph.New("test")
		a, b := nodes.NewFilter(nodes.TypeBlur), nodes.NewFilter(nodes.TypeInvert)
		add(t, g, a, b)
		connect(t, g, a, "out", b, "in")
		assert.False(t, g.HasCycle())
		assert.NoError(t, g.DetectCycle())
	})

	t.Run("two node loop", func(t *testing.T) {
		g := graph.New("test")
		a, b := nodes.NewFilter(nodes.TypeBlur), nodes.NewFilter(nodes.TypeInvert)
		add(t, g, a, b)
		connect(t, g, a, "out", b, "in")
		connect(t, g, b, "out", a, "in")
		assert.True(t, g.HasCycle())
		assert.ErrorIs(t, g.DetectCycle(), graph.ErrCycle)
	})
}

func TestTopologyQueries(t *testing.T) {
	g := graph.New("test")
	a, b := nodes.NewConstantColor(), nodes.NewGradient()
	mix := nodes.NewMath(nodes.TypeAdd)
	blur := nodes.NewFilter(nodes.TypeBlur)
	lone := nodes.NewNoise()
	out := nodes.NewOutput()
	add(t, g, a, b, mix, blur, lone, out)
	connect(t, g, a, "out", mix, "a")
	connect(t, g, b, "out", mix, "b")
	connect(t, g, mix, "out", blur, "in")
	connect(t, g, blur, "out", out, "texture")

	assert.ElementsMatch(t, []node.Node{a, b}, g.Dependencies(mix))
	assert.ElementsMatch(t, []node.Node{blur}, g.Dependents(mix))
	assert.ElementsMatch(t, []node.Node{a, b, mix, blur}, g.Upstream(out))
	assert.ElementsMatch(t, []node.Node{mix, blur, out}, g.Downstream(mix))
	assert.ElementsMatch(t, []node.Node{lone, out}, g.SinkNodes())
}

func TestSubscribe(t *testing.T) {
	ctx := context.Background()
	g := graph.New("test")
	var kinds []graph.EventKind
	unsubscribe := g.Subscribe(func(e graph.Event) {
		kinds = append(kinds, e.Kind)
	})

	a, b := nodes.NewConstantColor(), nodes.NewFilter(nodes.TypeBlur)
	add(t, g, a, b)
	connect(t, g, a, "out", b, "in")
	_, err := g.RemoveNode(ctx, a)
	require.NoError(t, err)

	assert.Equal(t, []graph.EventKind{
		graph.NodeAdded, graph.NodeAdded, graph.Connected, graph.Disconnected, graph.NodeRemoved,
	}, kinds)

	unsubscribe()
	add(t, g, nodes.NewNoise())
	assert.Len(t, kinds, 5)
}
