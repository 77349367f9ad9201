package render

import (
	"image"

	"github.com/gogpu/gg"
	"github.com/google/uuid"
)

// Texture is an opaque render target handle backed by a gg pixmap.
type Texture struct {
	id  string
	pix *gg.Pixmap
}

func newTexture(w, h int) *Texture {
	return &Texture{id: uuid.NewString(), pix: gg.NewPixmap(w, h)}
}

// ID returns the stable identifier of the texture.
func (t *Texture) ID() string { return t.id }

// Width returns the texture width in pixels.
func (t *Texture) Width() int { return t.pix.Width() }

// Height returns the texture height in pixels.
func (t *Texture) Height() int { return t.pix.Height() }

// At returns the color of a single pixel. Out of range coordinates yield Transparent.
func (t *Texture) At(x, y int) Color {
	return fromGG(t.pix.GetPixel(x, y))
}

// Set writes a single pixel.
func (t *Texture) Set(x, y int, c Color) {
	t.pix.SetPixel(x, y, c.toGG())
}

// Sample returns the pixel nearest to the normalized coordinate (u, v).
func (t *Texture) Sample(u, v float64) Color {
	x := int(clamp01(u) * float64(t.Width()-1))
	y := int(clamp01(v) * float64(t.Height()-1))
	return t.At(x, y)
}

// Center samples the center pixel.
func (t *Texture) Center() Color {
	return t.At(t.Width()/2, t.Height()/2)
}

// Fill clears the whole texture to c.
func (t *Texture) Fill(c Color) {
	t.pix.Clear(c.Clamp().toGG())
}

// Image returns a copy of the texture as an *image.RGBA.
func (t *Texture) Image() *image.RGBA {
	return t.pix.ToImage()
}

// CopyFrom copies img into the texture. img must have the texture's size.
func (t *Texture) CopyFrom(img *image.RGBA) {
	w, h := t.Width(), t.Height()
	b := img.Bounds()
	if b.Dx() != w || b.Dy() != h {
		return
	}
	data := t.pix.Data()
	row := w * 4
	for y := 0; y < h; y++ {
		src := img.Pix[y*img.Stride : y*img.Stride+row]
		copy(data[y*row:(y+1)*row], src)
	}
}

// CopyTexture copies the pixels of src into t, resampling when the sizes differ.
func (t *Texture) CopyTexture(src *Texture) {
	if src.Width() != t.Width() || src.Height() != t.Height() {
		t.CopyFrom(fit(src, t.Width(), t.Height()))
		return
	}
	copy(t.pix.Data(), src.pix.Data())
}

// Pixmap exposes the underlying gg pixmap.
func (t *Texture) Pixmap() *gg.Pixmap { return t.pix }
