package nodes

import (
	"context"
	"testing"

	"github.com/specialistvlad/fxgraph/internal/node"
	"github.com/specialistvlad/fxgraph/internal/render"
	"github.com/specialistvlad/fxgraph/internal/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEnv() (*node.Env, *render.Software) {
	sw := render.NewSoftware()
	return &node.Env{Backend: sw, Width: 16, Height: 16}, sw
}

func connect(t *testing.T, from node.Node, out string, to node.Node, in string) {
	t.Helper()
	_, err := node.Link(from.OutputSlot(out), to.InputSlot(in), nil)
	require.NoError(t, err)
}

func solid(v float64) *ConstantColor {
	n := NewConstantColor()
	n.Color = render.Gray(v)
	return n
}

func outTexture(t *testing.T, n node.Node) *render.Texture {
	t.Helper()
	v, ok := n.Output("out")
	require.True(t, ok, "node %s produced no output", n.TypeName())
	tex, ok := v.Texture()
	require.True(t, ok)
	return tex
}

func TestGenerators(t *testing.T) {
	ctx := context.Background()
	testCases := []node.Node{NewConstantColor(), NewGradient(), NewShape(), NewNoise()}
	for _, n := range testCases {
		t.Run(n.TypeName(), func(t *testing.T) {
			env, _ := newEnv()
			n.Execute(ctx, env)
			tex := outTexture(t, n)
			assert.Equal(t, 16, tex.Width())
			assert.Equal(t, 16, tex.Height())
			assert.Empty(t, n.Inputs())
		})
	}

	t.Run("constant color emits the color", func(t *testing.T) {
		env, _ := newEnv()
		n := solid(0.2)
		n.Execute(ctx, env)
		v, ok := n.Output("color")
		require.True(t, ok)
		assert.Equal(t, value.Color(render.Gray(0.2)), v)
		assert.InDelta(t, 0.2, outTexture(t, n).Center().R, 0.01)
	})

	t.Run("time follows env", func(t *testing.T) {
		env, _ := newEnv()
		env.Time, env.Frame = 1.5, 45
		n := NewTime()
		n.Speed, n.Offset = 2, 1
		n.Execute(ctx, env)
		v, _ := n.Output("time")
		assert.Equal(t, value.Float(4), v)
		v, _ = n.Output("frame")
		assert.Equal(t, value.Float(45), v)
	})
}

func TestMathArities(t *testing.T) {
	ctx := context.Background()

	t.Run("scalar only renders solid", func(t *testing.T) {
		env, _ := newEnv()
		n := NewMath(TypeAdd)
		n.A, n.B = 0.25, 0.5
		n.Execute(ctx, env)
		v, _ := n.Output("value")
		assert.Equal(t, value.Float(0.75), v)
		assert.InDelta(t, 0.75, outTexture(t, n).Center().R, 0.01)
	})

	t.Run("texture and scalar", func(t *testing.T) {
		env, _ := newEnv()
		src := solid(0.2)
		n := NewMath(TypeAdd)
		n.B = 0.3
		connect(t, src, "out", n, "a")
		n.Execute(ctx, env)
		assert.InDelta(t, 0.5, outTexture(t, n).Center().R, 0.01)
	})

	t.Run("scalar and texture", func(t *testing.T) {
		env, _ := newEnv()
		src := solid(0.25)
		n := NewMath(TypeSubtract)
		n.A = 1
		connect(t, src, "out", n, "b")
		n.Execute(ctx, env)
		assert.InDelta(t, 0.75, outTexture(t, n).Center().R, 0.01)
	})

	t.Run("two textures", func(t *testing.T) {
		env, _ := newEnv()
		a, b := solid(0.5), solid(0.5)
		n := NewMath(TypeMultiply)
		connect(t, a, "out", n, "a")
		connect(t, b, "out", n, "b")
		n.Execute(ctx, env)
		assert.InDelta(t, 0.25, outTexture(t, n).Center().R, 0.01)
	})

	t.Run("float input overrides property", func(t *testing.T) {
		env, _ := newEnv()
		env.Time = 0.4
		clock := NewTime()
		n := NewMath(TypeAdd)
		n.A, n.B = 0.1, 0.1
		connect(t, clock, "time", n, "b_value")
		n.Execute(ctx, env)
		v, _ := n.Output("value")
		f, _ := v.Float()
		assert.InDelta(t, 0.5, f, 1e-9)
	})

	t.Run("one minus is unary", func(t *testing.T) {
		n := NewMath(TypeOneMinus)
		assert.Nil(t, n.InputSlot("b"))
		assert.Len(t, n.Properties(), 1)
	})

	t.Run("unknown type panics", func(t *testing.T) {
		assert.Panics(t, func() { NewMath(TypeBlur) })
	})
}

func TestFilters(t *testing.T) {
	ctx := context.Background()

	for typeName := range filterSpecs {
		t.Run(typeName, func(t *testing.T) {
			env, _ := newEnv()
			f := NewFilter(typeName)
			connect(t, solid(0.5), "out", f, "in")
			if typeName == TypeDisplace {
				connect(t, solid(0.5), "out", f, "map")
			}
			f.Execute(ctx, env)
			assert.Equal(t, 0, f.Warnings())
			assert.Equal(t, 16, outTexture(t, f).Width())
		})
	}

	t.Run("missing input leaves output empty", func(t *testing.T) {
		env, _ := newEnv()
		f := NewFilter(TypeBlur)
		f.Execute(ctx, env)
		assert.True(t, f.Executed())
		_, ok := f.Output("out")
		assert.False(t, ok)
		assert.Equal(t, 1, f.Warnings())
	})

	t.Run("invert", func(t *testing.T) {
		env, _ := newEnv()
		f := NewFilter(TypeInvert)
		connect(t, solid(0.2), "out", f, "in")
		f.Execute(ctx, env)
		assert.InDelta(t, 0.8, outTexture(t, f).Center().R, 0.01)
	})

	t.Run("step edge from float input", func(t *testing.T) {
		env, _ := newEnv()
		env.Time = 0.9
		f := NewFilter(TypeStep)
		connect(t, solid(0.5), "out", f, "in")
		connect(t, NewTime(), "time", f, "edge")
		f.Execute(ctx, env)
		assert.InDelta(t, 0.0, outTexture(t, f).Center().R, 0.01)

		p, ok := node.FindProperty(f, "edge")
		require.True(t, ok)
		assert.Equal(t, value.Float(0.5), p.Get(), "override does not touch the property")
	})

	t.Run("unavailable effect passes input through", func(t *testing.T) {
		env, sw := newEnv()
		sw.Disable(render.EffectInvert)
		f := NewFilter(TypeInvert)
		connect(t, solid(0.2), "out", f, "in")
		f.Execute(ctx, env)
		assert.InDelta(t, 0.2, outTexture(t, f).Center().R, 0.01)
	})

	t.Run("unknown type panics", func(t *testing.T) {
		assert.Panics(t, func() { NewFilter(TypeAdd) })
	})
}

func TestOutput(t *testing.T) {
	ctx := context.Background()

	t.Run("texture wins", func(t *testing.T) {
		env, _ := newEnv()
		out := NewOutput()
		connect(t, solid(0.1), "color", out, "color")
		connect(t, solid(0.9), "out", out, "texture")
		out.Execute(ctx, env)
		require.NotNil(t, out.Result())
		assert.InDelta(t, 0.9, out.Result().Center().R, 0.01)
	})

	t.Run("color is promoted", func(t *testing.T) {
		env, _ := newEnv()
		out := NewOutput()
		connect(t, solid(0.1), "color", out, "color")
		out.Execute(ctx, env)
		require.NotNil(t, out.Result())
		assert.Equal(t, render.DefaultTextureSize, out.Result().Width())
	})

	t.Run("nothing connected", func(t *testing.T) {
		env, _ := newEnv()
		out := NewOutput()
		out.Execute(ctx, env)
		assert.Nil(t, out.Result())
		assert.Equal(t, node.RoleOutput, out.Role())
		assert.Empty(t, out.Outputs())
	})
}

func TestReleaseTargets(t *testing.T) {
	env, sw := newEnv()
	n := NewGradient()
	n.Execute(context.Background(), env)
	require.Equal(t, 1, sw.Live())

	n.ReleaseTargets(sw)
	assert.Equal(t, 0, sw.Live())
}
