package animation

import "github.com/specialistvlad/fxgraph/internal/value"

// Keyframe is a sample point of an animated property. The interpolation
// governs the segment that starts at this keyframe.
type Keyframe struct {
	Time          float64
	Value         value.Value
	Interpolation Interpolation
	// InTangent and OutTangent are reserved for Bezier segments and are not
	// evaluated.
	InTangent  value.Vec2
	OutTangent value.Vec2
}
