package render

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/anthonynsimon/bild/blend"
	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/fcolor"
	"github.com/anthonynsimon/bild/transform"
	"github.com/gogpu/gg"
)

// Shape kinds understood by EffectShape.
const (
	ShapeCircle = iota
	ShapeRectangle
	ShapePolygon
)

// Math operators understood by EffectMath.
const (
	OpAdd      = "add"
	OpSubtract = "subtract"
	OpMultiply = "multiply"
	OpPower    = "power"
	OpOneMinus = "one_minus"
)

var errMissingTexture = errors.New("missing input texture")

var mathOps = map[string]func(a, b float64) float64{
	OpAdd:      func(a, b float64) float64 { return a + b },
	OpSubtract: func(a, b float64) float64 { return a - b },
	OpMultiply: func(a, b float64) float64 { return a * b },
	OpPower: func(a, b float64) float64 {
		if a < 0 {
			return 0
		}
		return math.Pow(a, b)
	},
	OpOneMinus: func(a, _ float64) float64 { return 1 - a },
}

// MathOp exposes the scalar form of a math operator.
func MathOp(name string) (func(a, b float64) float64, bool) {
	op, ok := mathOps[name]
	return op, ok
}

// fit returns the texture as an image of the target size.
func fit(t *Texture, w, h int) *image.RGBA {
	img := t.Image()
	if t.Width() == w && t.Height() == h {
		return img
	}
	return transform.Resize(img, w, h, transform.Linear)
}

func input(p Params, name string, target *Texture) (*image.RGBA, error) {
	t := p.Texture(name)
	if t == nil {
		return nil, fmt.Errorf("%s: %w", name, errMissingTexture)
	}
	return fit(t, target.Width(), target.Height()), nil
}

func to8(v float64) uint8 {
	return uint8(math.Round(clamp01(v) * 255))
}

// mapChannels applies fn to the color channels of every pixel, keeping alpha.
func mapChannels(img image.Image, fn func(v float64) float64) *image.RGBA {
	return adjust.Apply(img, func(c color.RGBA) color.RGBA {
		return color.RGBA{
			R: to8(fn(float64(c.R) / 255)),
			G: to8(fn(float64(c.G) / 255)),
			B: to8(fn(float64(c.B) / 255)),
			A: c.A,
		}
	})
}

func solidEffect(_ context.Context, p Params, target *Texture) error {
	target.Fill(p.Color("color", White))
	return nil
}

func gradientEffect(_ context.Context, p Params, target *Texture) error {
	a := p.Color("a", Black).toGG()
	b := p.Color("b", White).toGG()
	w, h := float64(target.Width()), float64(target.Height())
	cx, cy := w/2, h/2

	var brush interface{ ColorAt(x, y float64) gg.RGBA }
	if p.Float("radial", 0) >= 0.5 {
		brush = gg.NewRadialGradientBrush(cx, cy, 0, math.Max(w, h)/2).
			AddColorStop(0, a).
			AddColorStop(1, b)
	} else {
		angle := p.Float("angle", 0) * math.Pi / 180
		dx, dy := math.Cos(angle), math.Sin(angle)
		half := 0.5 * (math.Abs(w*dx) + math.Abs(h*dy))
		brush = gg.NewLinearGradientBrush(cx-dx*half, cy-dy*half, cx+dx*half, cy+dy*half).
			AddColorStop(0, a).
			AddColorStop(1, b)
	}

	for y := 0; y < target.Height(); y++ {
		for x := 0; x < target.Width(); x++ {
			target.pix.SetPixel(x, y, brush.ColorAt(float64(x)+0.5, float64(y)+0.5))
		}
	}
	return nil
}

func shapeEffect(_ context.Context, p Params, target *Texture) error {
	target.Fill(p.Color("background", Transparent))
	fill := p.Color("fill", White)

	w, h := float64(target.Width()), float64(target.Height())
	r := clamp01(p.Float("size", 0.5)) * math.Min(w, h) / 2
	if r <= 0 {
		return nil
	}

	dc := gg.NewContext(target.Width(), target.Height(), gg.WithPixmap(target.pix))
	defer func() { _ = dc.Close() }()
	dc.SetRGBA(fill.R, fill.G, fill.B, fill.A)

	switch int(p.Float("shape", ShapeCircle)) {
	case ShapeCircle:
		dc.DrawCircle(w/2, h/2, r)
	case ShapeRectangle:
		dc.DrawRectangle(w/2-r, h/2-r, 2*r, 2*r)
	default:
		sides := int(p.Float("sides", 6))
		if sides < 3 {
			sides = 3
		}
		dc.DrawRegularPolygon(sides, w/2, h/2, r, p.Float("rotation", 0)*math.Pi/180)
	}
	return dc.Fill()
}

func noiseEffect(ctx context.Context, p Params, target *Texture) error {
	scale := p.Float("scale", 8)
	if scale <= 0 {
		scale = 1
	}
	octaves := int(p.Float("octaves", 4))
	if octaves < 1 {
		octaves = 1
	}
	seed := int64(p.Float("seed", 0))
	offset := p.Float("time", 0)

	w, h := target.Width(), target.Height()
	for y := 0; y < h; y++ {
		if y%64 == 0 && ctx.Err() != nil {
			return ctx.Err()
		}
		for x := 0; x < w; x++ {
			u := float64(x)/float64(w)*scale + offset
			v := float64(y)/float64(h)*scale + offset
			target.Set(x, y, Gray(fractalNoise(u, v, octaves, seed)))
		}
	}
	return nil
}

func mathEffect(_ context.Context, p Params, target *Texture) error {
	name := p.String("op", OpAdd)
	op, ok := mathOps[name]
	if !ok {
		return fmt.Errorf("math op %q: %w", name, ErrEffectUnavailable)
	}
	w, h := target.Width(), target.Height()
	ta, tb := p.Texture("a"), p.Texture("b")
	sa, sb := p.Float("a", 0), p.Float("b", 0)

	switch {
	case ta != nil && tb != nil:
		res := blend.Blend(fit(ta, w, h), fit(tb, w, h), func(x, y fcolor.RGBAF64) fcolor.RGBAF64 {
			return fcolor.RGBAF64{
				R: clamp01(op(x.R, y.R)),
				G: clamp01(op(x.G, y.G)),
				B: clamp01(op(x.B, y.B)),
				A: x.A,
			}
		})
		target.CopyFrom(res)
	case ta != nil:
		target.CopyFrom(mapChannels(fit(ta, w, h), func(v float64) float64 { return op(v, sb) }))
	case tb != nil:
		target.CopyFrom(mapChannels(fit(tb, w, h), func(v float64) float64 { return op(sa, v) }))
	default:
		target.Fill(Gray(op(sa, sb)))
	}
	return nil
}

func blurEffect(_ context.Context, p Params, target *Texture) error {
	src, err := input(p, "in", target)
	if err != nil {
		return err
	}
	radius := p.Float("radius", 2)
	if radius <= 0 {
		target.CopyFrom(src)
		return nil
	}
	target.CopyFrom(blur.Gaussian(src, radius))
	return nil
}

func invertEffect(_ context.Context, p Params, target *Texture) error {
	src, err := input(p, "in", target)
	if err != nil {
		return err
	}
	target.CopyFrom(effect.Invert(src))
	return nil
}

func levelsEffect(_ context.Context, p Params, target *Texture) error {
	src, err := input(p, "in", target)
	if err != nil {
		return err
	}
	inBlack, inWhite := p.Float("in_black", 0), p.Float("in_white", 1)
	gamma := p.Float("gamma", 1)
	outBlack, outWhite := p.Float("out_black", 0), p.Float("out_white", 1)
	if gamma <= 0 {
		gamma = 1
	}
	span := inWhite - inBlack
	target.CopyFrom(mapChannels(src, func(v float64) float64 {
		if span <= 0 {
			if v >= inWhite {
				v = 1
			} else {
				v = 0
			}
		} else {
			v = clamp01((v - inBlack) / span)
		}
		v = math.Pow(v, 1/gamma)
		return outBlack + v*(outWhite-outBlack)
	}))
	return nil
}

func hsvEffect(_ context.Context, p Params, target *Texture) error {
	src, err := input(p, "in", target)
	if err != nil {
		return err
	}
	if hue := p.Float("hue", 0); hue != 0 {
		src = adjust.Hue(src, int(math.Round(hue)))
	}
	if sat := p.Float("saturation", 0); sat != 0 {
		src = adjust.Saturation(src, sat)
	}
	if val := p.Float("value", 0); val != 0 {
		src = adjust.Brightness(src, val)
	}
	target.CopyFrom(src)
	return nil
}

func stepEffect(_ context.Context, p Params, target *Texture) error {
	src, err := input(p, "in", target)
	if err != nil {
		return err
	}
	edge := p.Float("edge", 0.5)
	target.CopyFrom(mapChannels(src, func(v float64) float64 {
		if v < edge {
			return 0
		}
		return 1
	}))
	return nil
}

func smoothstepEffect(_ context.Context, p Params, target *Texture) error {
	src, err := input(p, "in", target)
	if err != nil {
		return err
	}
	e0, e1 := p.Float("edge0", 0), p.Float("edge1", 1)
	target.CopyFrom(mapChannels(src, func(v float64) float64 {
		return Smoothstep(e0, e1, v)
	}))
	return nil
}

// Smoothstep is the Hermite step between e0 and e1. Equal edges degrade to a hard step.
func Smoothstep(e0, e1, v float64) float64 {
	if e1 == e0 {
		if v < e0 {
			return 0
		}
		return 1
	}
	t := clamp01((v - e0) / (e1 - e0))
	return t * t * (3 - 2*t)
}

func bevelEffect(_ context.Context, p Params, target *Texture) error {
	src, err := input(p, "in", target)
	if err != nil {
		return err
	}
	strength := clamp01(p.Float("strength", 1))
	embossed := effect.Emboss(src)
	target.CopyFrom(blend.Blend(src, embossed, func(a, b fcolor.RGBAF64) fcolor.RGBAF64 {
		return fcolor.RGBAF64{
			R: a.R + (b.R-a.R)*strength,
			G: a.G + (b.G-a.G)*strength,
			B: a.B + (b.B-a.B)*strength,
			A: a.A,
		}
	}))
	return nil
}

func transformEffect(_ context.Context, p Params, target *Texture) error {
	src, err := input(p, "in", target)
	if err != nil {
		return err
	}
	scale := p.Float("scale", 1)
	if scale == 0 {
		target.Fill(Transparent)
		return nil
	}
	w, h := float64(target.Width()), float64(target.Height())
	cx := w/2 + p.Float("offset_x", 0)*w
	cy := h/2 + p.Float("offset_y", 0)*h
	inverse := gg.Rotate(-p.Float("rotation", 0) * math.Pi / 180)
	unscale := gg.Scale(1/scale, 1/scale)

	for y := 0; y < target.Height(); y++ {
		for x := 0; x < target.Width(); x++ {
			q := unscale.TransformPoint(gg.Pt(float64(x)+0.5-cx, float64(y)+0.5-cy))
			q = inverse.TransformPoint(q)
			sx, sy := int(math.Floor(q.X+w/2)), int(math.Floor(q.Y+h/2))
			if sx < 0 || sy < 0 || sx >= target.Width() || sy >= target.Height() {
				target.Set(x, y, Transparent)
				continue
			}
			c := src.RGBAAt(sx, sy)
			target.pix.SetPixel(x, y, gg.FromColor(c))
		}
	}
	return nil
}

func displaceEffect(_ context.Context, p Params, target *Texture) error {
	src, err := input(p, "in", target)
	if err != nil {
		return err
	}
	disp, err := input(p, "map", target)
	if err != nil {
		return err
	}
	strength := p.Float("strength", 0.1)
	w, h := target.Width(), target.Height()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m := disp.RGBAAt(x, y)
			dx := (float64(m.R)/255 - 0.5) * 2 * strength * float64(w)
			dy := (float64(m.G)/255 - 0.5) * 2 * strength * float64(h)
			sx := clampInt(x+int(math.Round(dx)), 0, w-1)
			sy := clampInt(y+int(math.Round(dy)), 0, h-1)
			target.pix.SetPixel(x, y, gg.FromColor(src.RGBAAt(sx, sy)))
		}
	}
	return nil
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
