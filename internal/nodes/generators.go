package nodes

import (
	"context"

	"github.com/specialistvlad/fxgraph/internal/node"
	"github.com/specialistvlad/fxgraph/internal/render"
	"github.com/specialistvlad/fxgraph/internal/value"
)

// ConstantColor emits a single color, both as a color value and as a solid texture.
type ConstantColor struct {
	node.Base
	Color render.Color
}

func NewConstantColor() *ConstantColor {
	n := &ConstantColor{Color: render.White}
	n.Setup(n, "Constant Color")
	return n
}

func (n *ConstantColor) TypeName() string { return TypeConstantColor }

func (n *ConstantColor) InitializeSlots() {
	n.AddOutput("color", "Color", value.TypeColor)
	n.AddOutput("out", "Texture", value.TypeTexture)
}

func (n *ConstantColor) Properties() []node.Property {
	return []node.Property{node.ColorProp("color", &n.Color)}
}

func (n *ConstantColor) Execute(ctx context.Context, env *node.Env) {
	n.Run(ctx, env, func(ctx context.Context, env *node.Env) error {
		n.SetOutput("color", value.Color(n.Color))
		params := render.NewParams()
		params.Colors["color"] = n.Color
		return solidOr(ctx, env, &n.Base, "out", render.EffectSolid, params, n.Color)
	})
}

// Gradient renders a linear or radial two-color ramp.
type Gradient struct {
	node.Base
	From   render.Color
	To     render.Color
	Angle  float64
	Radial bool
}

func NewGradient() *Gradient {
	n := &Gradient{From: render.Black, To: render.White}
	n.Setup(n, "Gradient")
	return n
}

func (n *Gradient) TypeName() string { return TypeGradient }

func (n *Gradient) InitializeSlots() {
	n.AddOutput("out", "Texture", value.TypeTexture)
}

func (n *Gradient) Properties() []node.Property {
	return []node.Property{
		node.ColorProp("color_a", &n.From),
		node.ColorProp("color_b", &n.To),
		node.FloatProp("angle", &n.Angle),
		node.BoolProp("radial", &n.Radial),
	}
}

func (n *Gradient) Execute(ctx context.Context, env *node.Env) {
	n.Run(ctx, env, func(ctx context.Context, env *node.Env) error {
		params := render.NewParams()
		params.Colors["a"] = n.From
		params.Colors["b"] = n.To
		params.Floats["angle"] = n.Angle
		if n.Radial {
			params.Floats["radial"] = 1
		}
		return solidOr(ctx, env, &n.Base, "out", render.EffectGradient, params, n.From.Lerp(n.To, 0.5))
	})
}

// Shape rasterizes a centered circle, square or regular polygon.
type Shape struct {
	node.Base
	Kind       int
	Sides      int
	Size       float64
	Rotation   float64
	Fill       render.Color
	Background render.Color
}

func NewShape() *Shape {
	n := &Shape{
		Kind:       render.ShapeCircle,
		Sides:      6,
		Size:       0.5,
		Fill:       render.White,
		Background: render.Black,
	}
	n.Setup(n, "Shape")
	return n
}

func (n *Shape) TypeName() string { return TypeShape }

func (n *Shape) InitializeSlots() {
	n.AddOutput("out", "Texture", value.TypeTexture)
}

func (n *Shape) Properties() []node.Property {
	return []node.Property{
		node.IntProp("shape", &n.Kind),
		node.IntProp("sides", &n.Sides),
		node.FloatProp("size", &n.Size),
		node.FloatProp("rotation", &n.Rotation),
		node.ColorProp("fill", &n.Fill),
		node.ColorProp("background", &n.Background),
	}
}

func (n *Shape) Execute(ctx context.Context, env *node.Env) {
	n.Run(ctx, env, func(ctx context.Context, env *node.Env) error {
		params := render.NewParams()
		params.Floats["shape"] = float64(n.Kind)
		params.Floats["sides"] = float64(n.Sides)
		params.Floats["size"] = n.Size
		params.Floats["rotation"] = n.Rotation
		params.Colors["fill"] = n.Fill
		params.Colors["background"] = n.Background
		return solidOr(ctx, env, &n.Base, "out", render.EffectShape, params, n.Background)
	})
}

// Noise renders fractal value noise that drifts with the timeline.
type Noise struct {
	node.Base
	Scale   float64
	Octaves int
	Seed    int
	Speed   float64
}

func NewNoise() *Noise {
	n := &Noise{Scale: 8, Octaves: 4}
	n.Setup(n, "Noise")
	return n
}

func (n *Noise) TypeName() string { return TypeNoise }

func (n *Noise) InitializeSlots() {
	n.AddOutput("out", "Texture", value.TypeTexture)
}

func (n *Noise) Properties() []node.Property {
	return []node.Property{
		node.FloatProp("scale", &n.Scale),
		node.IntProp("octaves", &n.Octaves),
		node.IntProp("seed", &n.Seed),
		node.FloatProp("speed", &n.Speed),
	}
}

func (n *Noise) Execute(ctx context.Context, env *node.Env) {
	n.Run(ctx, env, func(ctx context.Context, env *node.Env) error {
		params := render.NewParams()
		params.Floats["scale"] = n.Scale
		params.Floats["octaves"] = float64(n.Octaves)
		params.Floats["seed"] = float64(n.Seed)
		params.Floats["time"] = env.Time * n.Speed
		return solidOr(ctx, env, &n.Base, "out", render.EffectNoise, params, render.Gray(0.5))
	})
}

// Time exposes the timeline position as float outputs.
type Time struct {
	node.Base
	Speed  float64
	Offset float64
}

func NewTime() *Time {
	n := &Time{Speed: 1}
	n.Setup(n, "Time")
	return n
}

func (n *Time) TypeName() string { return TypeTime }

func (n *Time) InitializeSlots() {
	n.AddOutput("time", "Time", value.TypeFloat)
	n.AddOutput("frame", "Frame", value.TypeFloat)
}

func (n *Time) Properties() []node.Property {
	return []node.Property{
		node.FloatProp("speed", &n.Speed),
		node.FloatProp("offset", &n.Offset),
	}
}

func (n *Time) Execute(ctx context.Context, env *node.Env) {
	n.Run(ctx, env, func(context.Context, *node.Env) error {
		n.SetOutput("time", value.Float(env.Time*n.Speed+n.Offset))
		n.SetOutput("frame", value.Float(float64(env.Frame)))
		return nil
	})
}
