package node

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/specialistvlad/fxgraph/internal/render"
	"github.com/specialistvlad/fxgraph/internal/value"
)

// ErrIncompatibleSlots is returned when two slots fail CanConnect or are not
// given in (output, input) order.
var ErrIncompatibleSlots = errors.New("incompatible slots")

// Connection is a directed edge from an output slot to an input slot.
// Connections are created and destroyed by the graph that holds them.
type Connection struct {
	ID    string
	From  *Slot
	To    *Slot
	Color render.Color
}

// Link validates from -> to and attaches to's source reference. It does not
// detach an existing source; callers remove the previous connection first.
func Link(from, to *Slot, palette *Palette) (*Connection, error) {
	if !CanConnect(from, to) || from.Direction != Output || to.Direction != Input {
		return nil, fmt.Errorf("%s -> %s: %w", describe(from), describe(to), ErrIncompatibleSlots)
	}
	to.source = from
	return &Connection{
		ID:    uuid.NewString(),
		From:  from,
		To:    to,
		Color: palette.Color(from.Type),
	}, nil
}

// Detach clears the input slot's source if it still points at this connection's output.
func (c *Connection) Detach() {
	if c.To != nil && c.To.source == c.From {
		c.To.source = nil
	}
}

// Touches reports whether either endpoint belongs to n.
func (c *Connection) Touches(n Node) bool {
	return c.From.owner == n || c.To.owner == n
}

func describe(s *Slot) string {
	if s == nil {
		return "<nil>"
	}
	if s.owner == nil {
		return s.ID
	}
	return s.owner.ID() + "." + s.ID
}

// Palette maps slot data types to connection display colors.
type Palette struct {
	colors   map[value.DataType]render.Color
	fallback render.Color
}

// DefaultPalette returns the built-in type colors.
func DefaultPalette() *Palette {
	return &Palette{
		colors: map[value.DataType]render.Color{
			value.TypeTexture: render.ParseHex("#e0a030"),
			value.TypeFloat:   render.ParseHex("#70b0f0"),
			value.TypeVector2: render.ParseHex("#80d080"),
			value.TypeVector3: render.ParseHex("#40a060"),
			value.TypeColor:   render.ParseHex("#e060c0"),
		},
		fallback: render.Gray(0.6),
	}
}

// Color returns the display color for t.
func (p *Palette) Color(t value.DataType) render.Color {
	if p == nil {
		return render.Gray(0.6)
	}
	if c, ok := p.colors[t]; ok {
		return c
	}
	return p.fallback
}

// Set overrides the display color for t.
func (p *Palette) Set(t value.DataType, c render.Color) {
	p.colors[t] = c
}
