package project

import (
	"fmt"
	"regexp"

	"github.com/specialistvlad/fxgraph/internal/render"
	"github.com/specialistvlad/fxgraph/internal/value"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

var hexColor = regexp.MustCompile(`^#([0-9a-fA-F]{3,4}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// toValue decodes a cty value into a Value of the given kind.
func toValue(v cty.Value, kind value.Kind) (value.Value, error) {
	if v.IsNull() || !v.IsKnown() {
		return value.Value{}, fmt.Errorf("value is null or unknown")
	}
	switch kind {
	case value.KindFloat:
		var f float64
		if err := decodeAs(v, cty.Number, &f); err != nil {
			return value.Value{}, err
		}
		return value.Float(f), nil
	case value.KindInt:
		var i int
		if err := decodeAs(v, cty.Number, &i); err != nil {
			return value.Value{}, err
		}
		return value.Int(i), nil
	case value.KindBool:
		var b bool
		if err := decodeAs(v, cty.Bool, &b); err != nil {
			return value.Value{}, err
		}
		return value.Bool(b), nil
	case value.KindVector2, value.KindVector3:
		want := 2
		if kind == value.KindVector3 {
			want = 3
		}
		var xs []float64
		if err := decodeAs(v, cty.List(cty.Number), &xs); err != nil {
			return value.Value{}, err
		}
		if len(xs) != want {
			return value.Value{}, fmt.Errorf("%s needs %d components, got %d", kind, want, len(xs))
		}
		if want == 2 {
			return value.Vector2(value.Vec2{X: xs[0], Y: xs[1]}), nil
		}
		return value.Vector3(value.Vec3{X: xs[0], Y: xs[1], Z: xs[2]}), nil
	case value.KindColor:
		var s string
		if err := decodeAs(v, cty.String, &s); err != nil {
			return value.Value{}, err
		}
		if !hexColor.MatchString(s) {
			return value.Value{}, fmt.Errorf("invalid color %q, expected #RRGGBB or #RRGGBBAA", s)
		}
		return value.Color(render.ParseHex(s)), nil
	}
	return value.Value{}, fmt.Errorf("kind %s cannot be stored in a project file", kind)
}

func decodeAs(v cty.Value, t cty.Type, target any) error {
	converted, err := convert.Convert(v, t)
	if err != nil {
		return fmt.Errorf("expected %s: %w", t.FriendlyName(), err)
	}
	return gocty.FromCtyValue(converted, target)
}

// toCty encodes a Value for hclwrite.
func toCty(v value.Value) (cty.Value, bool) {
	switch v.Kind() {
	case value.KindFloat:
		f, _ := v.Float()
		return cty.NumberFloatVal(f), true
	case value.KindInt:
		i, _ := v.Int()
		return cty.NumberIntVal(int64(i)), true
	case value.KindBool:
		b, _ := v.Bool()
		return cty.BoolVal(b), true
	case value.KindVector2:
		p, _ := v.Vector2()
		return floats(p.X, p.Y), true
	case value.KindVector3:
		p, _ := v.Vector3()
		return floats(p.X, p.Y, p.Z), true
	case value.KindColor:
		c, _ := v.Color()
		return cty.StringVal(c.Hex()), true
	}
	return cty.NilVal, false
}

func floats(xs ...float64) cty.Value {
	vals := make([]cty.Value, len(xs))
	for i, x := range xs {
		vals[i] = cty.NumberFloatVal(x)
	}
	return cty.TupleVal(vals)
}

func vec2(xs []float64) (value.Vec2, error) {
	if len(xs) != 2 {
		return value.Vec2{}, fmt.Errorf("expected 2 components, got %d", len(xs))
	}
	return value.Vec2{X: xs[0], Y: xs[1]}, nil
}
