package node_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/specialistvlad/fxgraph/internal/node"
	"github.com/specialistvlad/fxgraph/internal/render"
	"github.com/specialistvlad/fxgraph/internal/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// source emits a fixed value on its single output.
type source struct {
	node.Base
	typ   value.DataType
	out   value.Value
	calls int
	fail  error
	boom  bool
}

func newSource(typ value.DataType, out value.Value) *source {
	n := &source{typ: typ, out: out}
	n.Setup(n, "Source")
	return n
}

func (n *source) TypeName() string { return "test.source" }

func (n *source) InitializeSlots() { n.AddOutput("out", "Out", n.typ) }

func (n *source) Execute(ctx context.Context, env *node.Env) {
	n.Run(ctx, env, func(context.Context, *node.Env) error {
		n.calls++
		n.SetOutput("out", n.out)
		if n.boom {
			panic("boom")
		}
		return n.fail
	})
}

func (n *source) Properties() []node.Property { return nil }

// sink pulls its single input as the requested type.
type sink struct {
	node.Base
	typ   value.DataType
	want  value.DataType
	gain  float64
	got   value.Value
	ok    bool
	calls int
}

func newSink(typ value.DataType) *sink {
	n := &sink{typ: typ, want: typ, gain: 1}
	n.Setup(n, "Sink")
	return n
}

func (n *sink) TypeName() string { return "test.sink" }

func (n *sink) InitializeSlots() {
	n.AddInput("in", "In", n.typ)
	n.AddOutput("out", "Out", n.typ)
}

func (n *sink) Execute(ctx context.Context, env *node.Env) {
	n.Run(ctx, env, func(ctx context.Context, env *node.Env) error {
		n.calls++
		n.got, n.ok = n.Pull(ctx, env, "in", n.want)
		n.SetOutput("out", n.got)
		return nil
	})
}

func (n *sink) Properties() []node.Property {
	return []node.Property{node.FloatProp("gain", &n.gain)}
}

func testEnv() *node.Env {
	return &node.Env{Backend: render.NewSoftware()}
}

func link(t *testing.T, from, to *node.Slot) *node.Connection {
	t.Helper()
	c, err := node.Link(from, to, node.DefaultPalette())
	require.NoError(t, err)
	return c
}

func TestSetup(t *testing.T) {
	n := newSink(value.TypeFloat)

	assert.NotEmpty(t, n.ID())
	assert.Equal(t, "Sink", n.Name())
	require.Len(t, n.Inputs(), 1)
	require.Len(t, n.Outputs(), 1)
	assert.Same(t, node.Node(n), n.InputSlot("in").Owner())
	assert.Nil(t, n.InputSlot("missing"))

	t.Run("slots are fixed after construction", func(t *testing.T) {
		assert.Panics(t, func() { n.AddInput("late", "Late", value.TypeFloat) })
	})

	t.Run("setup runs once", func(t *testing.T) {
		assert.Panics(t, func() { n.Setup(n, "again") })
	})
}

func TestSlotCompatibility(t *testing.T) {
	a := newSource(value.TypeFloat, value.Float(1))
	b := newSink(value.TypeFloat)
	c := newSink(value.TypeColor)

	assert.True(t, node.CanConnect(a.OutputSlot("out"), b.InputSlot("in")))
	assert.True(t, node.CanConnect(b.InputSlot("in"), a.OutputSlot("out")))
	assert.False(t, node.CanConnect(a.OutputSlot("out"), c.InputSlot("in")), "type mismatch")
	assert.False(t, node.CanConnect(b.OutputSlot("out"), b.InputSlot("in")), "same owner")
	assert.False(t, node.CanConnect(b.OutputSlot("out"), a.OutputSlot("out")), "same direction")

	out, in := node.Canonical(b.InputSlot("in"), a.OutputSlot("out"))
	assert.Same(t, a.OutputSlot("out"), out)
	assert.Same(t, b.InputSlot("in"), in)

	_, err := node.Link(b.InputSlot("in"), a.OutputSlot("out"), nil)
	assert.ErrorIs(t, err, node.ErrIncompatibleSlots)
}

func TestLink(t *testing.T) {
	a := newSource(value.TypeFloat, value.Float(1))
	b := newSink(value.TypeFloat)

	c := link(t, a.OutputSlot("out"), b.InputSlot("in"))
	assert.NotEmpty(t, c.ID)
	assert.Equal(t, node.DefaultPalette().Color(value.TypeFloat), c.Color)
	assert.True(t, b.InputSlot("in").IsConnected())
	assert.True(t, c.Touches(a))
	assert.True(t, c.Touches(b))

	c.Detach()
	assert.False(t, b.InputSlot("in").IsConnected())
}

func TestPull(t *testing.T) {
	ctx := context.Background()

	t.Run("executes upstream once", func(t *testing.T) {
		a := newSource(value.TypeFloat, value.Float(3))
		b := newSink(value.TypeFloat)
		link(t, a.OutputSlot("out"), b.InputSlot("in"))
		env := testEnv()

		b.Execute(ctx, env)
		a.Execute(ctx, env)
		b.Execute(ctx, env)

		assert.Equal(t, 1, a.calls)
		assert.Equal(t, 1, b.calls)
		require.True(t, b.ok)
		assert.Equal(t, value.Float(3), b.got)
	})

	t.Run("unconnected input yields default", func(t *testing.T) {
		b := newSink(value.TypeColor)
		b.Execute(ctx, testEnv())

		assert.False(t, b.ok)
		assert.Equal(t, value.Color(render.White), b.got)
		assert.Equal(t, 0, b.Warnings())
	})

	t.Run("texture to color samples center", func(t *testing.T) {
		env := testEnv()
		tex := env.Backend.NewTexture(4, 4)
		tex.Fill(render.Color{R: 1, A: 1})
		a := newSource(value.TypeTexture, value.Texture(tex))
		b := newSink(value.TypeTexture)
		b.want = value.TypeColor
		link(t, a.OutputSlot("out"), b.InputSlot("in"))

		b.Execute(ctx, env)
		require.True(t, b.ok)
		c, ok := b.got.Color()
		require.True(t, ok)
		assert.InDelta(t, 1.0, c.R, 0.01)
		assert.InDelta(t, 0.0, c.G, 0.01)
	})

	t.Run("color to texture fills default size", func(t *testing.T) {
		env := testEnv()
		a := newSource(value.TypeColor, value.Color(render.Black))
		b := newSink(value.TypeColor)
		b.want = value.TypeTexture
		link(t, a.OutputSlot("out"), b.InputSlot("in"))

		b.Execute(ctx, env)
		require.True(t, b.ok)
		tex, ok := b.got.Texture()
		require.True(t, ok)
		assert.Equal(t, render.DefaultTextureSize, tex.Width())
		assert.InDelta(t, 0.0, tex.Center().R, 0.01)
	})

	t.Run("unsupported coercion warns and defaults", func(t *testing.T) {
		a := newSource(value.TypeFloat, value.Float(2))
		b := newSink(value.TypeFloat)
		b.want = value.TypeVector3
		link(t, a.OutputSlot("out"), b.InputSlot("in"))

		b.Execute(ctx, testEnv())
		assert.False(t, b.ok)
		assert.Equal(t, value.Vector3(value.Vec3{}), b.got)
		assert.Equal(t, 1, b.Warnings())
	})
}

func TestRunFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("error clears outputs", func(t *testing.T) {
		a := newSource(value.TypeFloat, value.Float(1))
		a.fail = errors.New("backend gone")
		a.Execute(ctx, testEnv())

		assert.True(t, a.Executed())
		_, ok := a.Output("out")
		assert.False(t, ok)
		assert.Equal(t, 1, a.Warnings())
	})

	t.Run("panic is recovered", func(t *testing.T) {
		a := newSource(value.TypeFloat, value.Float(1))
		a.boom = true
		b := newSink(value.TypeFloat)
		link(t, a.OutputSlot("out"), b.InputSlot("in"))

		require.NotPanics(t, func() { b.Execute(ctx, testEnv()) })
		assert.True(t, a.Executed())
		assert.True(t, b.Executed())
		assert.False(t, b.ok)
	})
}

func TestOnExecuted(t *testing.T) {
	a := newSource(value.TypeFloat, value.Float(1))
	b := newSink(value.TypeFloat)
	link(t, a.OutputSlot("out"), b.InputSlot("in"))

	var order []string
	env := testEnv()
	env.OnExecuted = func(n node.Node, _ time.Duration, err error) {
		assert.NoError(t, err)
		order = append(order, n.TypeName())
	}
	b.Execute(context.Background(), env)

	assert.Equal(t, []string{"test.source", "test.sink"}, order)
}

func TestResetExecution(t *testing.T) {
	a := newSource(value.TypeFloat, value.Float(1))
	a.Execute(context.Background(), testEnv())
	require.True(t, a.Executed())

	a.ResetExecution()
	assert.False(t, a.Executed())
	_, ok := a.Output("out")
	assert.False(t, ok)
}

func TestRenderTargets(t *testing.T) {
	sw := render.NewSoftware()
	env := &node.Env{Backend: sw, Width: 8, Height: 8}
	n := newSink(value.TypeTexture)

	first := n.RenderTarget(env, "out")
	assert.Same(t, first, n.RenderTarget(env, "out"))
	assert.Equal(t, 1, sw.Live())

	env.Width = 16
	resized := n.RenderTarget(env, "out")
	assert.NotSame(t, first, resized)
	assert.Equal(t, 1, sw.Live())

	n.ReleaseTargets(sw)
	assert.Equal(t, 0, sw.Live())
}

func TestProperties(t *testing.T) {
	n := newSink(value.TypeFloat)

	require.NoError(t, node.SetProperty(n, "gain", value.Int(4)))
	got, err := node.GetProperty(n, "gain")
	require.NoError(t, err)
	assert.Equal(t, value.Float(4), got)

	err = node.SetProperty(n, "gain", value.Bool(true))
	assert.ErrorIs(t, err, node.ErrPropertyType)

	err = node.SetProperty(n, "missing", value.Float(1))
	assert.ErrorIs(t, err, node.ErrUnknownProperty)

	_, err = node.GetProperty(n, "missing")
	assert.ErrorIs(t, err, node.ErrUnknownProperty)
}

func TestPalette(t *testing.T) {
	p := node.DefaultPalette()
	p.Set(value.TypeFloat, render.Black)
	assert.Equal(t, render.Black, p.Color(value.TypeFloat))

	var nilPalette *node.Palette
	assert.Equal(t, render.Gray(0.6), nilPalette.Color(value.TypeFloat))
}
