package render

import "math"

// hash2 maps an integer lattice point to [0, 1).
func hash2(x, y int, seed int64) float64 {
	h := uint64(x)*0x9E3779B185EBCA87 ^ uint64(y)*0xC2B2AE3D27D4EB4F ^ uint64(seed)*0x165667B19E3779F9
	h ^= h >> 33
	h *= 0xFF51AFD7ED558CCD
	h ^= h >> 33
	return float64(h>>11) / float64(1<<53)
}

func valueNoise(u, v float64, seed int64) float64 {
	x0, y0 := math.Floor(u), math.Floor(v)
	fx, fy := u-x0, v-y0
	ix, iy := int(x0), int(y0)

	sx := fx * fx * (3 - 2*fx)
	sy := fy * fy * (3 - 2*fy)

	a := hash2(ix, iy, seed)
	b := hash2(ix+1, iy, seed)
	c := hash2(ix, iy+1, seed)
	d := hash2(ix+1, iy+1, seed)

	top := a + (b-a)*sx
	bottom := c + (d-c)*sx
	return top + (bottom-top)*sy
}

// fractalNoise sums octaves of value noise and normalizes the result to [0, 1].
func fractalNoise(u, v float64, octaves int, seed int64) float64 {
	var sum, norm float64
	amp, freq := 1.0, 1.0
	for i := 0; i < octaves; i++ {
		sum += valueNoise(u*freq, v*freq, seed+int64(i)) * amp
		norm += amp
		amp *= 0.5
		freq *= 2
	}
	return sum / norm
}
