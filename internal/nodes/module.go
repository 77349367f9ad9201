package nodes

import (
	"github.com/specialistvlad/fxgraph/internal/node"
	"github.com/specialistvlad/fxgraph/internal/registry"
)

// Type names used in project files.
const (
	TypeConstantColor = "constant_color"
	TypeGradient      = "gradient"
	TypeShape         = "shape"
	TypeNoise         = "noise"
	TypeTime          = "time"

	TypeAdd      = "add"
	TypeSubtract = "subtract"
	TypeMultiply = "multiply"
	TypePower    = "power"
	TypeOneMinus = "one_minus"

	TypeBlur       = "blur"
	TypeInvert     = "invert"
	TypeLevels     = "levels"
	TypeHSV        = "hsv"
	TypeStep       = "step"
	TypeSmoothstep = "smoothstep"
	TypeBevel      = "bevel"
	TypeTransform  = "transform"
	TypeDisplace   = "displace"

	TypeOutput = "output"
)

// Module registers the built-in node types.
type Module struct{}

// Register implements registry.Module.
func (Module) Register(r *registry.Registry) {
	r.Register(TypeConstantColor, func() node.Node { return NewConstantColor() })
	r.Register(TypeGradient, func() node.Node { return NewGradient() })
	r.Register(TypeShape, func() node.Node { return NewShape() })
	r.Register(TypeNoise, func() node.Node { return NewNoise() })
	r.Register(TypeTime, func() node.Node { return NewTime() })

	for _, typeName := range []string{TypeAdd, TypeSubtract, TypeMultiply, TypePower, TypeOneMinus} {
		r.Register(typeName, func() node.Node { return NewMath(typeName) })
	}
	for typeName := range filterSpecs {
		r.Register(typeName, func() node.Node { return NewFilter(typeName) })
	}

	r.Register(TypeOutput, func() node.Node { return NewOutput() })
}
