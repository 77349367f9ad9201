package engine

import (
	"context"
	"testing"

	"github.com/specialistvlad/fxgraph/internal/animation"
	"github.com/specialistvlad/fxgraph/internal/executor"
	"github.com/specialistvlad/fxgraph/internal/graph"
	"github.com/specialistvlad/fxgraph/internal/node"
	"github.com/specialistvlad/fxgraph/internal/nodes"
	"github.com/specialistvlad/fxgraph/internal/render"
	"github.com/specialistvlad/fxgraph/internal/timeline"
	"github.com/specialistvlad/fxgraph/internal/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scene struct {
	eng  *Engine
	sw   *render.Software
	src  *nodes.ConstantColor
	inv  *nodes.Filter
	out  *nodes.Output
	tl   *timeline.Timeline
	ctx  context.Context
	grph *graph.Graph
}

func newScene(t *testing.T) *scene {
	t.Helper()
	ctx := context.Background()
	s := &scene{ctx: ctx, sw: render.NewSoftware(), grph: graph.New("scene")}
	tl, err := timeline.New(timeline.DefaultSettings())
	require.NoError(t, err)
	s.tl = tl

	s.src = nodes.NewConstantColor()
	s.src.Color = render.Gray(0.25)
	s.inv = nodes.NewFilter(nodes.TypeInvert)
	s.out = nodes.NewOutput()
	for _, n := range []node.Node{s.src, s.inv, s.out} {
		require.NoError(t, s.grph.AddNode(ctx, n))
	}
	_, err = s.grph.ConnectSlots(ctx, s.src.OutputSlot("out"), s.inv.InputSlot("in"))
	require.NoError(t, err)
	_, err = s.grph.ConnectSlots(ctx, s.inv.OutputSlot("out"), s.out.InputSlot("texture"))
	require.NoError(t, err)

	s.eng = New(s.grph, tl, s.sw, executor.WithSize(8, 8))
	t.Cleanup(s.eng.Close)
	return s
}

func TestRenderFrame(t *testing.T) {
	s := newScene(t)

	tex, err := s.eng.RenderFrame(s.ctx, 0)
	require.NoError(t, err)
	require.NotNil(t, tex)
	assert.Equal(t, 8, tex.Width())
	assert.InDelta(t, 0.75, tex.Center().R, 0.01)
}

func TestAnimationDrivesProperties(t *testing.T) {
	s := newScene(t)
	key := timeline.Key(s.src.ID(), "color")
	require.NoError(t, s.tl.AddKeyframe(key, 0, value.Color(render.Black), value.KindColor, animation.Linear))
	require.NoError(t, s.tl.AddKeyframe(key, 1, value.Color(render.White), value.KindColor, animation.Linear))

	tex, err := s.eng.RenderFrame(s.ctx, 15)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, s.src.Color.R, 1e-9)
	assert.InDelta(t, 0.5, tex.Center().R, 0.01)

	t.Run("tick advances", func(t *testing.T) {
		s.tl.SetTime(0)
		s.tl.Play()
		require.NoError(t, s.eng.Tick(s.ctx, 1))
		assert.Equal(t, 30, s.tl.CurrentFrame())
		assert.Equal(t, render.White, s.src.Color)
	})

	t.Run("tracks of missing nodes are skipped", func(t *testing.T) {
		require.NoError(t, s.tl.AddKeyframe(timeline.Key("ghost", "color"), 0, value.Color(render.Black), value.KindColor, animation.Linear))
		assert.Equal(t, 1, s.eng.ApplyAnimation(s.ctx))
	})
}

func TestNodeRemovalReleasesTargets(t *testing.T) {
	s := newScene(t)
	_, err := s.eng.RenderFrame(s.ctx, 0)
	require.NoError(t, err)
	before := s.sw.Live()

	_, err = s.grph.RemoveNode(s.ctx, s.inv)
	require.NoError(t, err)
	assert.Equal(t, before-1, s.sw.Live())

	s.eng.Close()
	assert.Equal(t, 0, s.sw.Live())
}

func TestResultWithoutOutput(t *testing.T) {
	tl, err := timeline.New(timeline.DefaultSettings())
	require.NoError(t, err)
	eng := New(graph.New("empty"), tl, render.NewSoftware())
	_, err = eng.RenderFrame(context.Background(), 0)
	assert.ErrorIs(t, err, ErrNoOutput)
}

func TestSetProperty(t *testing.T) {
	s := newScene(t)
	_, err := s.eng.RenderFrame(s.ctx, 0)
	require.NoError(t, err)

	require.NoError(t, s.eng.SetProperty(s.ctx, s.src.ID(), "color", value.Color(render.Black)))
	tex, err := s.eng.Result()
	require.NoError(t, err)
	assert.InDelta(t, 1.0, tex.Center().R, 0.01)

	err = s.eng.SetProperty(s.ctx, "ghost", "color", value.Color(render.Black))
	assert.ErrorIs(t, err, graph.ErrNodeNotFound)
	err = s.eng.SetProperty(s.ctx, s.src.ID(), "nope", value.Float(1))
	assert.ErrorIs(t, err, node.ErrUnknownProperty)
}
