// Package value defines the closed set of values that flow through the node
// graph: slot data types, the tagged Value union stored in output caches and
// keyframes, and the interpolation primitives used by animation.
package value

import (
	"fmt"
	"math"

	"github.com/specialistvlad/fxgraph/internal/render"
)

// Kind tags the variant held by a Value.
type Kind uint8

const (
	KindNone Kind = iota
	KindFloat
	KindInt
	KindBool
	KindVector2
	KindVector3
	KindColor
	KindTexture
)

var kindNames = map[Kind]string{
	KindNone:    "none",
	KindFloat:   "float",
	KindInt:     "int",
	KindBool:    "bool",
	KindVector2: "vector2",
	KindVector3: "vector3",
	KindColor:   "color",
	KindTexture: "texture",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// ParseKind converts a kind name back into a Kind.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return KindNone, fmt.Errorf("unknown value kind %q", s)
}

// Vec2 is a 2D vector.
type Vec2 struct{ X, Y float64 }

// Vec3 is a 3D vector.
type Vec3 struct{ X, Y, Z float64 }

// Value is a tagged union over the data flowing between nodes.
// The zero Value has KindNone and means "absent".
type Value struct {
	kind Kind
	f    float64
	i    int
	b    bool
	v2   Vec2
	v3   Vec3
	c    render.Color
	tex  *render.Texture
}

func Float(f float64) Value      { return Value{kind: KindFloat, f: f} }
func Int(i int) Value            { return Value{kind: KindInt, i: i} }
func Bool(b bool) Value          { return Value{kind: KindBool, b: b} }
func Vector2(v Vec2) Value       { return Value{kind: KindVector2, v2: v} }
func Vector3(v Vec3) Value       { return Value{kind: KindVector3, v3: v} }
func Color(c render.Color) Value { return Value{kind: KindColor, c: c} }
func Texture(t *render.Texture) Value {
	if t == nil {
		return Value{}
	}
	return Value{kind: KindTexture, tex: t}
}

// Kind returns the variant tag.
func (v Value) Kind() Kind { return v.kind }

// IsNone reports whether the value is absent.
func (v Value) IsNone() bool { return v.kind == KindNone }

// Float returns the value as a float64. Ints are widened.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case KindFloat:
		return v.f, true
	case KindInt:
		return float64(v.i), true
	}
	return 0, false
}

// Int returns the value as an int. Floats are rounded.
func (v Value) Int() (int, bool) {
	switch v.kind {
	case KindInt:
		return v.i, true
	case KindFloat:
		return int(math.Round(v.f)), true
	}
	return 0, false
}

func (v Value) Bool() (bool, bool) {
	return v.b, v.kind == KindBool
}

func (v Value) Vector2() (Vec2, bool) {
	return v.v2, v.kind == KindVector2
}

func (v Value) Vector3() (Vec3, bool) {
	return v.v3, v.kind == KindVector3
}

func (v Value) Color() (render.Color, bool) {
	return v.c, v.kind == KindColor
}

func (v Value) Texture() (*render.Texture, bool) {
	return v.tex, v.kind == KindTexture && v.tex != nil
}

// Zero returns the default value of a kind: 0, 0.0, false, zero vectors,
// opaque white for colors, and None for textures.
func Zero(k Kind) Value {
	switch k {
	case KindFloat:
		return Float(0)
	case KindInt:
		return Int(0)
	case KindBool:
		return Bool(false)
	case KindVector2:
		return Vector2(Vec2{})
	case KindVector3:
		return Vector3(Vec3{})
	case KindColor:
		return Color(render.White)
	}
	return Value{}
}

// Convert returns v as kind k when the conversion is numeric (int <-> float)
// or identity. Any other mismatch fails.
func Convert(v Value, k Kind) (Value, bool) {
	if v.kind == k {
		return v, true
	}
	switch k {
	case KindFloat:
		if f, ok := v.Float(); ok {
			return Float(f), true
		}
	case KindInt:
		if i, ok := v.Int(); ok {
			return Int(i), true
		}
	}
	return Value{}, false
}

func (v Value) String() string {
	switch v.kind {
	case KindFloat:
		return fmt.Sprintf("%g", v.f)
	case KindInt:
		return fmt.Sprintf("%d", v.i)
	case KindBool:
		return fmt.Sprintf("%t", v.b)
	case KindVector2:
		return fmt.Sprintf("(%g, %g)", v.v2.X, v.v2.Y)
	case KindVector3:
		return fmt.Sprintf("(%g, %g, %g)", v.v3.X, v.v3.Y, v.v3.Z)
	case KindColor:
		return v.c.Hex()
	case KindTexture:
		return "texture:" + v.tex.ID()
	}
	return "none"
}
