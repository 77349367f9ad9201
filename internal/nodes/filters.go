package nodes

import (
	"context"
	"fmt"

	"github.com/specialistvlad/fxgraph/internal/node"
	"github.com/specialistvlad/fxgraph/internal/render"
	"github.com/specialistvlad/fxgraph/internal/value"
)

type param struct {
	name  string
	label string
	value float64
}

type filterSpec struct {
	label  string
	effect string
	// textures lists texture inputs besides "in".
	textures []string
	params   []param
}

var filterSpecs = map[string]filterSpec{
	TypeBlur: {label: "Blur", effect: render.EffectBlur, params: []param{
		{"radius", "Radius", 2},
	}},
	TypeInvert: {label: "Invert", effect: render.EffectInvert},
	TypeLevels: {label: "Levels", effect: render.EffectLevels, params: []param{
		{"in_black", "In Black", 0},
		{"in_white", "In White", 1},
		{"gamma", "Gamma", 1},
		{"out_black", "Out Black", 0},
		{"out_white", "Out White", 1},
	}},
	TypeHSV: {label: "HSV", effect: render.EffectHSV, params: []param{
		{"hue", "Hue", 0},
		{"saturation", "Saturation", 0},
		{"value", "Value", 0},
	}},
	TypeStep: {label: "Step", effect: render.EffectStep, params: []param{
		{"edge", "Edge", 0.5},
	}},
	TypeSmoothstep: {label: "Smoothstep", effect: render.EffectSmoothstep, params: []param{
		{"edge0", "Edge 0", 0},
		{"edge1", "Edge 1", 1},
	}},
	TypeBevel: {label: "Bevel", effect: render.EffectBevel, params: []param{
		{"strength", "Strength", 1},
	}},
	TypeTransform: {label: "Transform", effect: render.EffectTransform, params: []param{
		{"offset_x", "Offset X", 0},
		{"offset_y", "Offset Y", 0},
		{"rotation", "Rotation", 0},
		{"scale", "Scale", 1},
	}},
	TypeDisplace: {label: "Displace", effect: render.EffectDisplace, textures: []string{"map"}, params: []param{
		{"strength", "Strength", 0.1},
	}},
}

// Filter is a texture-in, texture-out image operation. Every scalar
// parameter is a property and also an optional float input of the same id;
// a connected input replaces the property value for the pass.
type Filter struct {
	node.Base
	typeName string
	spec     filterSpec
	params   []param
}

// NewFilter builds the filter node for one of the filter type names. It
// panics on any other name.
func NewFilter(typeName string) *Filter {
	spec, ok := filterSpecs[typeName]
	if !ok {
		panic(fmt.Sprintf("nodes: %q is not a filter node type", typeName))
	}
	n := &Filter{typeName: typeName, spec: spec, params: append([]param(nil), spec.params...)}
	n.Setup(n, spec.label)
	return n
}

func (n *Filter) TypeName() string { return n.typeName }

func (n *Filter) InitializeSlots() {
	n.AddInput("in", "Input", value.TypeTexture)
	for _, id := range n.spec.textures {
		n.AddInput(id, id, value.TypeTexture)
	}
	for _, p := range n.params {
		n.AddInput(p.name, p.label, value.TypeFloat)
	}
	n.AddOutput("out", "Output", value.TypeTexture)
}

func (n *Filter) Properties() []node.Property {
	props := make([]node.Property, len(n.params))
	for i := range n.params {
		props[i] = node.FloatProp(n.params[i].name, &n.params[i].value)
	}
	return props
}

func (n *Filter) Execute(ctx context.Context, env *node.Env) {
	n.Run(ctx, env, func(ctx context.Context, env *node.Env) error {
		in := n.PullTexture(ctx, env, "in")
		if in == nil {
			return fmt.Errorf("input %q: %w", "in", node.ErrNoInput)
		}
		params := render.NewParams()
		params.Textures["in"] = in
		for _, id := range n.spec.textures {
			t := n.PullTexture(ctx, env, id)
			if t == nil {
				return fmt.Errorf("input %q: %w", id, node.ErrNoInput)
			}
			params.Textures[id] = t
		}
		for _, p := range n.params {
			params.Floats[p.name] = n.PullFloat(ctx, env, p.name, p.value)
		}
		return passthroughOr(ctx, env, &n.Base, "out", n.spec.effect, params, in)
	})
}
