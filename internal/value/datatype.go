package value

import "fmt"

// DataType is the fixed set of types a slot can carry.
type DataType uint8

const (
	TypeTexture DataType = iota
	TypeFloat
	TypeVector2
	TypeVector3
	TypeColor
)

var dataTypeNames = [...]string{
	TypeTexture: "texture",
	TypeFloat:   "float",
	TypeVector2: "vector2",
	TypeVector3: "vector3",
	TypeColor:   "color",
}

func (t DataType) String() string {
	if int(t) < len(dataTypeNames) {
		return dataTypeNames[t]
	}
	return fmt.Sprintf("datatype(%d)", uint8(t))
}

// Kind returns the Value kind carried by slots of this type.
func (t DataType) Kind() Kind {
	switch t {
	case TypeTexture:
		return KindTexture
	case TypeFloat:
		return KindFloat
	case TypeVector2:
		return KindVector2
	case TypeVector3:
		return KindVector3
	case TypeColor:
		return KindColor
	}
	return KindNone
}

// Default returns the value a consumer sees when a slot of this type has no data.
func (t DataType) Default() Value {
	return Zero(t.Kind())
}
