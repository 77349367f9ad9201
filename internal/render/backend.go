package render

import (
	"context"
	"errors"
)

// DefaultTextureSize is the edge length of textures produced when a color is
// promoted to a texture and no explicit size is known.
const DefaultTextureSize = 256

// ErrEffectUnavailable is returned by RunEffect when the backend does not
// implement the requested effect.
var ErrEffectUnavailable = errors.New("effect unavailable")

// Effect names understood by the software backend.
const (
	EffectSolid      = "solid"
	EffectGradient   = "gradient"
	EffectShape      = "shape"
	EffectNoise      = "noise"
	EffectMath       = "math"
	EffectBlur       = "blur"
	EffectInvert     = "invert"
	EffectLevels     = "levels"
	EffectHSV        = "hsv"
	EffectStep       = "step"
	EffectSmoothstep = "smoothstep"
	EffectBevel      = "bevel"
	EffectTransform  = "transform"
	EffectDisplace   = "displace"
)

// Backend is the rendering capability consumed by nodes.
type Backend interface {
	// NewTexture allocates a render target.
	NewTexture(width, height int) *Texture
	// Release returns a texture to the backend. Releasing nil or an unknown
	// texture is a no-op.
	Release(t *Texture)
	// RunEffect renders effect into target and returns once target is populated.
	RunEffect(ctx context.Context, effect string, params Params, target *Texture) error
}

// Params carries the named parameters of one effect invocation.
type Params struct {
	Textures map[string]*Texture
	Floats   map[string]float64
	Colors   map[string]Color
	Strings  map[string]string
}

// NewParams returns a Params with all maps allocated.
func NewParams() Params {
	return Params{
		Textures: make(map[string]*Texture),
		Floats:   make(map[string]float64),
		Colors:   make(map[string]Color),
		Strings:  make(map[string]string),
	}
}

// Texture returns the named texture or nil.
func (p Params) Texture(name string) *Texture {
	return p.Textures[name]
}

// Float returns the named float or def when absent.
func (p Params) Float(name string, def float64) float64 {
	if v, ok := p.Floats[name]; ok {
		return v
	}
	return def
}

// Color returns the named color or def when absent.
func (p Params) Color(name string, def Color) Color {
	if v, ok := p.Colors[name]; ok {
		return v
	}
	return def
}

// String returns the named string or def when absent.
func (p Params) String(name, def string) string {
	if v, ok := p.Strings[name]; ok {
		return v
	}
	return def
}
