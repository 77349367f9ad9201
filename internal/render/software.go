package render

import (
	"context"
	"fmt"
)

type effectFunc func(ctx context.Context, p Params, target *Texture) error

// Software is a CPU Backend. It keeps track of the textures it handed out so
// callers can verify that reusable targets are released.
type Software struct {
	live    map[string]*Texture
	effects map[string]effectFunc
}

// NewSoftware creates a software backend with every built-in effect.
func NewSoftware() *Software {
	s := &Software{live: make(map[string]*Texture)}
	s.effects = map[string]effectFunc{
		EffectSolid:      solidEffect,
		EffectGradient:   gradientEffect,
		EffectShape:      shapeEffect,
		EffectNoise:      noiseEffect,
		EffectMath:       mathEffect,
		EffectBlur:       blurEffect,
		EffectInvert:     invertEffect,
		EffectLevels:     levelsEffect,
		EffectHSV:        hsvEffect,
		EffectStep:       stepEffect,
		EffectSmoothstep: smoothstepEffect,
		EffectBevel:      bevelEffect,
		EffectTransform:  transformEffect,
		EffectDisplace:   displaceEffect,
	}
	return s
}

// NewTexture implements Backend.
func (s *Software) NewTexture(width, height int) *Texture {
	if width <= 0 {
		width = DefaultTextureSize
	}
	if height <= 0 {
		height = DefaultTextureSize
	}
	t := newTexture(width, height)
	s.live[t.id] = t
	return t
}

// Release implements Backend.
func (s *Software) Release(t *Texture) {
	if t == nil {
		return
	}
	delete(s.live, t.id)
}

// Live reports how many textures are currently allocated.
func (s *Software) Live() int {
	return len(s.live)
}

// Disable removes an effect, which makes RunEffect report ErrEffectUnavailable for it.
func (s *Software) Disable(effect string) {
	delete(s.effects, effect)
}

// RunEffect implements Backend.
func (s *Software) RunEffect(ctx context.Context, effect string, params Params, target *Texture) error {
	if target == nil {
		return fmt.Errorf("effect %q: nil render target", effect)
	}
	fn, ok := s.effects[effect]
	if !ok {
		return fmt.Errorf("effect %q: %w", effect, ErrEffectUnavailable)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx, params, target)
}
