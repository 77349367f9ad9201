package animation

import (
	"fmt"
	"strings"
)

// Interpolation selects the easing curve between a keyframe and the next one.
type Interpolation uint8

const (
	Constant Interpolation = iota
	Linear
	EaseIn
	EaseOut
	EaseInOut
	// Bezier is accepted and persisted, but evaluates as Linear: keyframe
	// tangents are carried without being applied.
	Bezier
)

var interpolationNames = [...]string{
	Constant:  "constant",
	Linear:    "linear",
	EaseIn:    "ease_in",
	EaseOut:   "ease_out",
	EaseInOut: "ease_in_out",
	Bezier:    "bezier",
}

func (i Interpolation) String() string {
	if int(i) < len(interpolationNames) {
		return interpolationNames[i]
	}
	return fmt.Sprintf("interpolation(%d)", uint8(i))
}

// ParseInterpolation parses a case-insensitive interpolation name.
func ParseInterpolation(s string) (Interpolation, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range interpolationNames {
		if name == s {
			return Interpolation(i), nil
		}
	}
	return Linear, fmt.Errorf("unknown interpolation %q", s)
}

// Ease remaps the normalized position u in [0, 1] through the curve.
func (i Interpolation) Ease(u float64) float64 {
	switch i {
	case Constant:
		return 0
	case EaseIn:
		return u * u
	case EaseOut:
		return 1 - (1-u)*(1-u)
	case EaseInOut:
		if u < 0.5 {
			return 2 * u * u
		}
		v := -2*u + 2
		return 1 - v*v/2
	}
	return u
}
