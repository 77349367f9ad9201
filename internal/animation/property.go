package animation

import (
	"fmt"
	"math"
	"slices"
	"sort"

	"github.com/specialistvlad/fxgraph/internal/value"
)

// DefaultTolerance is the time distance within which a keyframe lookup matches.
const DefaultTolerance = 0.01

// Property is the keyframe track of one node property.
type Property struct {
	Name string
	Kind value.Kind
	// Interpolation is used by AddValue.
	Interpolation Interpolation

	keyframes []Keyframe
}

// NewProperty creates an empty track for a property of the given kind.
func NewProperty(name string, kind value.Kind) *Property {
	return &Property{Name: name, Kind: kind, Interpolation: Linear}
}

// AddKeyframe inserts k keeping keyframes sorted by time. The value is
// converted to the track's kind; incompatible values are rejected.
func (p *Property) AddKeyframe(k Keyframe) error {
	v, ok := value.Convert(k.Value, p.Kind)
	if !ok {
		return fmt.Errorf("keyframe for %q: cannot store %s in a %s track", p.Name, k.Value.Kind(), p.Kind)
	}
	k.Value = v
	p.keyframes = append(p.keyframes, k)
	sort.SliceStable(p.keyframes, func(i, j int) bool {
		return p.keyframes[i].Time < p.keyframes[j].Time
	})
	return nil
}

// AddValue inserts a keyframe using the track's default interpolation.
func (p *Property) AddValue(t float64, v value.Value) error {
	return p.AddKeyframe(Keyframe{Time: t, Value: v, Interpolation: p.Interpolation})
}

// Keyframes returns a copy of the sorted keyframes.
func (p *Property) Keyframes() []Keyframe {
	return slices.Clone(p.keyframes)
}

// Len returns the number of keyframes.
func (p *Property) Len() int { return len(p.keyframes) }

func (p *Property) find(t, tolerance float64) int {
	best, bestDist := -1, math.Inf(1)
	for i, k := range p.keyframes {
		if d := math.Abs(k.Time - t); d <= tolerance && d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// KeyframeAt returns the keyframe closest to t within tolerance.
func (p *Property) KeyframeAt(t, tolerance float64) (Keyframe, bool) {
	i := p.find(t, tolerance)
	if i < 0 {
		return Keyframe{}, false
	}
	return p.keyframes[i], true
}

// RemoveKeyframeAt removes the keyframe closest to t within tolerance.
func (p *Property) RemoveKeyframeAt(t, tolerance float64) (Keyframe, bool) {
	i := p.find(t, tolerance)
	if i < 0 {
		return Keyframe{}, false
	}
	k := p.keyframes[i]
	p.keyframes = slices.Delete(p.keyframes, i, i+1)
	return k, true
}

// Evaluate returns the track's value at time t. Before the first keyframe it
// holds the first value, after the last it holds the last, and in between it
// eases with the earlier keyframe's curve. A track without keyframes yields
// the kind's default.
func (p *Property) Evaluate(t float64) value.Value {
	n := len(p.keyframes)
	if n == 0 {
		return value.Zero(p.Kind)
	}
	first, last := p.keyframes[0], p.keyframes[n-1]
	if t <= first.Time {
		return first.Value
	}
	if t >= last.Time {
		return last.Value
	}

	// Index of the first keyframe strictly after t; its predecessor starts the segment.
	j := sort.Search(n, func(i int) bool { return p.keyframes[i].Time > t })
	a, b := p.keyframes[j-1], p.keyframes[j]
	span := b.Time - a.Time
	if span <= 0 {
		return b.Value
	}
	u := a.Interpolation.Ease((t - a.Time) / span)
	return value.Lerp(a.Value, b.Value, u)
}
