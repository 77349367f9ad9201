package value

import "math"

// Lerp interpolates between a and b at u. Floats, vectors and colors blend
// component-wise; ints round after blending; bools switch to b at u >= 0.5.
// Mismatched kinds and textures are not blended: a is returned for u < 0.5,
// b otherwise.
func Lerp(a, b Value, u float64) Value {
	if a.kind != b.kind {
		if af, ok := a.Float(); ok {
			if bf, ok := b.Float(); ok {
				return Float(af + (bf-af)*u)
			}
		}
		return step(a, b, u)
	}
	switch a.kind {
	case KindFloat:
		return Float(a.f + (b.f-a.f)*u)
	case KindInt:
		return Int(int(math.Round(float64(a.i) + float64(b.i-a.i)*u)))
	case KindVector2:
		return Vector2(Vec2{
			X: a.v2.X + (b.v2.X-a.v2.X)*u,
			Y: a.v2.Y + (b.v2.Y-a.v2.Y)*u,
		})
	case KindVector3:
		return Vector3(Vec3{
			X: a.v3.X + (b.v3.X-a.v3.X)*u,
			Y: a.v3.Y + (b.v3.Y-a.v3.Y)*u,
			Z: a.v3.Z + (b.v3.Z-a.v3.Z)*u,
		})
	case KindColor:
		return Color(a.c.Lerp(b.c, u))
	}
	return step(a, b, u)
}

func step(a, b Value, u float64) Value {
	if u >= 0.5 {
		return b
	}
	return a
}
