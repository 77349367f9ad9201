package nodes

import (
	"context"
	"fmt"

	"github.com/specialistvlad/fxgraph/internal/node"
	"github.com/specialistvlad/fxgraph/internal/render"
	"github.com/specialistvlad/fxgraph/internal/value"
)

var mathOps = map[string]string{
	TypeAdd:      render.OpAdd,
	TypeSubtract: render.OpSubtract,
	TypeMultiply: render.OpMultiply,
	TypePower:    render.OpPower,
	TypeOneMinus: render.OpOneMinus,
}

var mathLabels = map[string]string{
	TypeAdd:      "Add",
	TypeSubtract: "Subtract",
	TypeMultiply: "Multiply",
	TypePower:    "Power",
	TypeOneMinus: "One Minus",
}

// Math applies a per-channel arithmetic operator. The operand form is picked
// from which inputs are connected: two textures, one texture and a scalar, or
// two scalars (which renders a solid texture). Scalars come from the float
// inputs when connected and from the A and B properties otherwise.
type Math struct {
	node.Base
	typeName string
	op       string
	A        float64
	B        float64
}

// NewMath builds the math node for one of the math type names. It panics on
// any other name.
func NewMath(typeName string) *Math {
	op, ok := mathOps[typeName]
	if !ok {
		panic(fmt.Sprintf("nodes: %q is not a math node type", typeName))
	}
	n := &Math{typeName: typeName, op: op}
	if typeName == TypeMultiply || typeName == TypePower {
		n.B = 1
	}
	n.Setup(n, mathLabels[typeName])
	return n
}

func (n *Math) TypeName() string { return n.typeName }

func (n *Math) unary() bool { return n.op == render.OpOneMinus }

func (n *Math) InitializeSlots() {
	n.AddInput("a", "A", value.TypeTexture)
	n.AddInput("a_value", "A Value", value.TypeFloat)
	if !n.unary() {
		n.AddInput("b", "B", value.TypeTexture)
		n.AddInput("b_value", "B Value", value.TypeFloat)
	}
	n.AddOutput("out", "Result", value.TypeTexture)
	n.AddOutput("value", "Value", value.TypeFloat)
}

func (n *Math) Properties() []node.Property {
	props := []node.Property{node.FloatProp("a", &n.A)}
	if !n.unary() {
		props = append(props, node.FloatProp("b", &n.B))
	}
	return props
}

func (n *Math) Execute(ctx context.Context, env *node.Env) {
	n.Run(ctx, env, func(ctx context.Context, env *node.Env) error {
		sa := n.PullFloat(ctx, env, "a_value", n.A)
		sb := n.PullFloat(ctx, env, "b_value", n.B)
		ta := n.PullTexture(ctx, env, "a")
		var tb *render.Texture
		if !n.unary() {
			tb = n.PullTexture(ctx, env, "b")
		}

		fn, _ := render.MathOp(n.op)
		scalar := fn(sa, sb)
		n.SetOutput("value", value.Float(scalar))

		params := render.NewParams()
		params.Strings["op"] = n.op
		params.Floats["a"] = sa
		params.Floats["b"] = sb
		if ta != nil {
			params.Textures["a"] = ta
		}
		if tb != nil {
			params.Textures["b"] = tb
		}

		switch {
		case ta != nil:
			return passthroughOr(ctx, env, &n.Base, "out", render.EffectMath, params, ta)
		case tb != nil:
			return passthroughOr(ctx, env, &n.Base, "out", render.EffectMath, params, tb)
		default:
			return solidOr(ctx, env, &n.Base, "out", render.EffectMath, params, render.Gray(scalar))
		}
	})
}
