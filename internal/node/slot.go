package node

import "github.com/specialistvlad/fxgraph/internal/value"

// Direction tells whether a slot consumes or produces data.
type Direction uint8

const (
	Input Direction = iota
	Output
)

func (d Direction) String() string {
	if d == Output {
		return "output"
	}
	return "input"
}

// Slot is a typed endpoint owned by exactly one node.
type Slot struct {
	ID        string
	Name      string
	Direction Direction
	Type      value.DataType

	owner Node
	// source is the output slot feeding this input, nil when unconnected.
	source *Slot
}

// Owner returns the node the slot belongs to.
func (s *Slot) Owner() Node { return s.owner }

// Source returns the output slot connected to this input slot, or nil.
func (s *Slot) Source() *Slot { return s.source }

// IsConnected reports whether an input slot has an incoming connection.
func (s *Slot) IsConnected() bool { return s.source != nil }

// CanConnect reports whether a and b may be joined: opposite directions,
// identical data types and different owners.
func CanConnect(a, b *Slot) bool {
	if a == nil || b == nil {
		return false
	}
	return a.Direction != b.Direction &&
		a.Type == b.Type &&
		a.owner != b.owner
}

// Canonical orders a and b as (output, input).
func Canonical(a, b *Slot) (out, in *Slot) {
	if a != nil && a.Direction == Input {
		return b, a
	}
	return a, b
}
