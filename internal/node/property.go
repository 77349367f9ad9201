package node

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/fxgraph/internal/render"
	"github.com/specialistvlad/fxgraph/internal/value"
)

var (
	ErrUnknownProperty = errors.New("unknown property")
	ErrPropertyType    = errors.New("property type mismatch")
)

// Property describes one editable, animatable and persisted field of a node.
type Property struct {
	Name string
	Kind value.Kind
	Get  func() value.Value
	Set  func(v value.Value)
}

func FloatProp(name string, p *float64) Property {
	return Property{
		Name: name,
		Kind: value.KindFloat,
		Get:  func() value.Value { return value.Float(*p) },
		Set: func(v value.Value) {
			if f, ok := v.Float(); ok {
				*p = f
			}
		},
	}
}

func IntProp(name string, p *int) Property {
	return Property{
		Name: name,
		Kind: value.KindInt,
		Get:  func() value.Value { return value.Int(*p) },
		Set: func(v value.Value) {
			if i, ok := v.Int(); ok {
				*p = i
			}
		},
	}
}

func BoolProp(name string, p *bool) Property {
	return Property{
		Name: name,
		Kind: value.KindBool,
		Get:  func() value.Value { return value.Bool(*p) },
		Set: func(v value.Value) {
			if b, ok := v.Bool(); ok {
				*p = b
			}
		},
	}
}

func ColorProp(name string, p *render.Color) Property {
	return Property{
		Name: name,
		Kind: value.KindColor,
		Get:  func() value.Value { return value.Color(*p) },
		Set: func(v value.Value) {
			if c, ok := v.Color(); ok {
				*p = c
			}
		},
	}
}

func Vec2Prop(name string, p *value.Vec2) Property {
	return Property{
		Name: name,
		Kind: value.KindVector2,
		Get:  func() value.Value { return value.Vector2(*p) },
		Set: func(v value.Value) {
			if vec, ok := v.Vector2(); ok {
				*p = vec
			}
		},
	}
}

// FindProperty returns the property of n named name.
func FindProperty(n Node, name string) (Property, bool) {
	for _, p := range n.Properties() {
		if p.Name == name {
			return p, true
		}
	}
	return Property{}, false
}

// GetProperty reads a property value through the node's schema.
func GetProperty(n Node, name string) (value.Value, error) {
	p, ok := FindProperty(n, name)
	if !ok {
		return value.Value{}, fmt.Errorf("%s.%s: %w", n.ID(), name, ErrUnknownProperty)
	}
	return p.Get(), nil
}

// SetProperty writes v through the node's schema, converting between int and
// float when the property kind requires it.
func SetProperty(n Node, name string, v value.Value) error {
	p, ok := FindProperty(n, name)
	if !ok {
		return fmt.Errorf("%s.%s: %w", n.ID(), name, ErrUnknownProperty)
	}
	converted, ok := value.Convert(v, p.Kind)
	if !ok {
		return fmt.Errorf("%s.%s: cannot assign %s to %s: %w", n.ID(), name, v.Kind(), p.Kind, ErrPropertyType)
	}
	p.Set(converted)
	return nil
}
