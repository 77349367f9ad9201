package project

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/specialistvlad/fxgraph/internal/animation"
	"github.com/specialistvlad/fxgraph/internal/ctxlog"
	"github.com/specialistvlad/fxgraph/internal/graph"
	"github.com/specialistvlad/fxgraph/internal/node"
	"github.com/specialistvlad/fxgraph/internal/nodes"
	"github.com/specialistvlad/fxgraph/internal/registry"
	"github.com/specialistvlad/fxgraph/internal/render"
	"github.com/specialistvlad/fxgraph/internal/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const demo = `
project "demo" {
  fps          = 24
  duration     = 4
  loop         = false
  speed        = 0.5
  current_time = 1.5
  width        = 64
  height       = 32
}

node "gradient" "bg" {
  name     = "Background"
  position = [10, 20]
  properties {
    angle   = 45
    color_a = "#ff0000ff"
    radial  = true
  }
}

node "blur" "soft" {
  properties {
    radius = 3
  }
}

node "shape" "dot" {
  properties {
    sides = 5
  }
}

node "output" "out" {}

connection {
  from = "bg.out"
  to   = "soft.in"
}

connection {
  from = "soft.out"
  to   = "out.texture"
}

animation "soft" "radius" {
  interpolation = "ease_in"
  keyframe {
    time  = 0
    value = 0
  }
  keyframe {
    time          = 2
    value         = 8
    interpolation = "constant"
  }
}

animation "dot" "sides" {
  keyframe {
    time  = 0
    value = 3
  }
}
`

func newRegistry() *registry.Registry {
	return registry.New().Use(nodes.Module{})
}

// writeProject writes src to a project file in a fresh temp dir.
func writeProject(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scene"+Extension)
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func loggingContext(buf *bytes.Buffer) context.Context {
	logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return ctxlog.WithLogger(context.Background(), logger)
}

func mustNode(t *testing.T, g *graph.Graph, id string) node.Node {
	t.Helper()
	n, ok := g.Node(id)
	require.True(t, ok, "node %s", id)
	return n
}

func prop(t *testing.T, n node.Node, name string) value.Value {
	t.Helper()
	v, err := node.GetProperty(n, name)
	require.NoError(t, err)
	return v
}

func TestLoad(t *testing.T) {
	path := writeProject(t, demo)
	p, err := Load(context.Background(), path, newRegistry())
	require.NoError(t, err)

	t.Run("project settings", func(t *testing.T) {
		assert.Equal(t, "demo", p.Name)
		assert.Equal(t, path, p.Path)
		assert.Equal(t, 64, p.Width)
		assert.Equal(t, 32, p.Height)
		s := p.Timeline.Settings()
		assert.Equal(t, 24.0, s.FPS)
		assert.Equal(t, 4.0, s.Duration)
		assert.False(t, s.Loop)
		assert.Equal(t, 0.5, s.Speed)
		assert.Equal(t, 1.5, p.Timeline.CurrentTime())
	})

	t.Run("nodes", func(t *testing.T) {
		require.Len(t, p.Graph.Nodes(), 4)
		bg := mustNode(t, p.Graph, "bg")
		assert.Equal(t, nodes.TypeGradient, bg.TypeName())
		assert.Equal(t, "Background", bg.Name())
		assert.Equal(t, value.Vec2{X: 10, Y: 20}, bg.Position())
		assert.Equal(t, value.Float(45), prop(t, bg, "angle"))
		assert.Equal(t, value.Bool(true), prop(t, bg, "radial"))
		assert.Equal(t, value.Color(render.Color{R: 1, A: 1}), prop(t, bg, "color_a"))
		assert.Equal(t, value.Float(3), prop(t, mustNode(t, p.Graph, "soft"), "radius"))
		assert.Equal(t, value.Int(5), prop(t, mustNode(t, p.Graph, "dot"), "sides"))
		assert.NotNil(t, p.Graph.OutputNode())
	})

	t.Run("connections", func(t *testing.T) {
		require.Len(t, p.Graph.Connections(), 2)
		soft, out := mustNode(t, p.Graph, "soft"), mustNode(t, p.Graph, "out")
		assert.Equal(t, mustNode(t, p.Graph, "bg").OutputSlot("out"), soft.InputSlot("in").Source())
		assert.Equal(t, soft.OutputSlot("out"), out.InputSlot("texture").Source())
	})

	t.Run("animations", func(t *testing.T) {
		assert.Equal(t, []string{"dot.sides", "soft.radius"}, p.Timeline.Properties())
		radius, ok := p.Timeline.Property("soft.radius")
		require.True(t, ok)
		assert.Equal(t, value.KindFloat, radius.Kind)
		assert.Equal(t, animation.EaseIn, radius.Interpolation)
		kfs := radius.Keyframes()
		require.Len(t, kfs, 2)
		assert.Equal(t, animation.EaseIn, kfs[0].Interpolation)
		assert.Equal(t, animation.Constant, kfs[1].Interpolation)

		sides, ok := p.Timeline.Property("dot.sides")
		require.True(t, ok)
		assert.Equal(t, value.KindInt, sides.Kind)
	})
}

func TestParseStructuralErrors(t *testing.T) {
	testCases := []struct {
		name   string
		src    string
		target error
	}{
		{
			name:   "syntax",
			src:    `node "gradient" {`,
			target: ErrInvalidProject,
		},
		{
			name:   "unknown node type",
			src:    `node "sparkle" "a" {}`,
			target: registry.ErrUnknownNodeType,
		},
		{
			name:   "duplicate id",
			src:    `node "noise" "a" {} ` + "\n" + `node "gradient" "a" {}`,
			target: graph.ErrNodeExists,
		},
		{
			name:   "second output",
			src:    `node "output" "a" {}` + "\n" + `node "output" "b" {}`,
			target: graph.ErrDuplicateOutput,
		},
		{
			name:   "connection to missing node",
			src:    `node "noise" "a" {}` + "\n" + `connection { ` + "\n" + `from = "a.out"` + "\n" + `to = "ghost.in"` + "\n" + `}`,
			target: graph.ErrNodeNotFound,
		},
		{
			name:   "connection to missing slot",
			src:    `node "noise" "a" {}` + "\n" + `node "blur" "b" {}` + "\n" + `connection { ` + "\n" + `from = "a.nope"` + "\n" + `to = "b.in"` + "\n" + `}`,
			target: graph.ErrInvalidConnection,
		},
		{
			name:   "incompatible slots",
			src:    `node "time" "t" {}` + "\n" + `node "blur" "b" {}` + "\n" + `connection { ` + "\n" + `from = "t.time"` + "\n" + `to = "b.in"` + "\n" + `}`,
			target: graph.ErrInvalidConnection,
		},
		{
			name:   "bad timeline",
			src:    `project "x" { ` + "\n" + `fps = 0` + "\n" + `}`,
			target: ErrInvalidProject,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(context.Background(), []byte(tc.src), "test.hcl", newRegistry())
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidProject)
			assert.ErrorIs(t, err, tc.target)
		})
	}
}

func TestParseDataErrorsWarn(t *testing.T) {
	src := `
node "gradient" "bg" {
  properties {
    angle   = "steep"
    color_a = "red"
    glow    = 1
  }
}

animation "bg" "angle" {
  keyframe {
    time          = 0
    value         = 1
    interpolation = "spring"
  }
}

animation "bg" "glow" {
  keyframe {
    time  = 0
    value = 1
  }
}

animation "gone" "radius" {
  kind = "float"
  keyframe {
    time  = 0
    value = 2
  }
}
`
	var logs bytes.Buffer
	p, err := Parse(loggingContext(&logs), []byte(src), "warn.hcl", newRegistry())
	require.NoError(t, err)

	bg := mustNode(t, p.Graph, "bg")
	assert.Equal(t, value.Float(0), prop(t, bg, "angle"), "bad value keeps the default")
	assert.Equal(t, value.Color(render.Black), prop(t, bg, "color_a"))

	angle, ok := p.Timeline.Property("bg.angle")
	require.True(t, ok)
	assert.Equal(t, animation.Linear, angle.Keyframes()[0].Interpolation)
	_, ok = p.Timeline.Property("bg.glow")
	assert.False(t, ok)
	_, ok = p.Timeline.Property("gone.radius")
	assert.True(t, ok, "tracks of absent nodes are kept when their kind is known")

	out := logs.String()
	for _, msg := range []string{"Unknown property ignored.", "Property value ignored.", "Unknown interpolation, using default.", "Animation of unknown property ignored."} {
		assert.Contains(t, out, msg)
	}
	assert.Equal(t, 5, strings.Count(out, "level=WARN"))
}

func TestSaveRoundTrip(t *testing.T) {
	ctx := context.Background()
	orig, err := Parse(ctx, []byte(demo), "demo.hcl", newRegistry())
	require.NoError(t, err)
	radius, _ := orig.Timeline.Property("soft.radius")
	require.NoError(t, orig.Timeline.InsertKeyframe("soft.radius", value.KindFloat, animation.Keyframe{
		Time: 3, Value: value.Float(1), Interpolation: animation.Bezier,
		InTangent: value.Vec2{X: -1, Y: 0}, OutTangent: value.Vec2{X: 1, Y: 0.5},
	}))
	require.Equal(t, 3, radius.Len())

	path := filepath.Join(t.TempDir(), "saved", "scene"+Extension)
	require.NoError(t, orig.Save(ctx, path))
	assert.Equal(t, path, orig.Path)

	back, err := Load(ctx, path, newRegistry())
	require.NoError(t, err)

	assert.Equal(t, orig.Name, back.Name)
	assert.Equal(t, orig.Width, back.Width)
	assert.Equal(t, orig.Timeline.Settings(), back.Timeline.Settings())
	assert.Equal(t, orig.Timeline.CurrentTime(), back.Timeline.CurrentTime())

	require.Len(t, back.Graph.Nodes(), len(orig.Graph.Nodes()))
	for i, n := range orig.Graph.Nodes() {
		m := back.Graph.Nodes()[i]
		assert.Equal(t, n.ID(), m.ID())
		assert.Equal(t, n.TypeName(), m.TypeName())
		assert.Equal(t, n.Position(), m.Position())
		for _, p := range n.Properties() {
			assert.Equal(t, p.Get(), prop(t, m, p.Name), "%s.%s", n.ID(), p.Name)
		}
	}
	assert.Len(t, back.Graph.Connections(), 2)

	assert.Equal(t, orig.Timeline.Properties(), back.Timeline.Properties())
	for _, key := range orig.Timeline.Properties() {
		a, _ := orig.Timeline.Property(key)
		b, ok := back.Timeline.Property(key)
		require.True(t, ok, key)
		assert.Equal(t, a.Kind, b.Kind)
		assert.Equal(t, a.Interpolation, b.Interpolation)
		assert.Equal(t, a.Keyframes(), b.Keyframes(), key)
	}

	t.Run("encoding is stable", func(t *testing.T) {
		assert.Equal(t, string(orig.Encode()), string(back.Encode()))
	})
}

func TestNew(t *testing.T) {
	p := New("blank")
	assert.Equal(t, render.DefaultTextureSize, p.Width)
	assert.Empty(t, p.Graph.Nodes())

	back, err := Parse(context.Background(), p.Encode(), "blank.hcl", newRegistry())
	require.NoError(t, err)
	assert.Equal(t, "blank", back.Name)
}
