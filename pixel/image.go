package pixel

import (
	"image"
	"image/color"
	"image/draw"
)

// Image is a drawable image that can be cleared and filled.
type Image interface {
	draw.Image

	// Clear the image.
	Clear()

	// Fill the image with a single color.
	Fill(color.Color)
}

// Buffer holds the pixel values of an image.
type Buffer struct {
	// Rect is the image bounding box.
	Rect image.Rectangle

	// Pix are the image pixels.
	Pix []byte

	// Stride is the Pix stride (in bytes) between vertically adjacent pixels.
	Stride int
}

func (p *Buffer) Bounds() image.Rectangle {
	return p.Rect
}

func (p *Buffer) Clear() {
	for i := range p.Pix {
		p.Pix[i] = 0x00
	}
}

// RGB565Image is a 16-bits per pixel 5-6-5-bit RGB image, stored in the byte order the
// controller expects on the wire. Rows are packed without padding.
type RGB565Image struct {
	Buffer
}

func NewRGB565Image(r image.Rectangle) *RGB565Image {
	w, h := r.Dx(), r.Dy()
	if w < 0 || h < 0 {
		w, h = 0, 0
	}
	return &RGB565Image{
		Buffer: Buffer{
			Rect:   r,
			Pix:    make([]byte, w*2*h),
			Stride: w * 2,
		},
	}
}

func (p *RGB565Image) ColorModel() color.Model {
	return RGB565Model
}

// PixOffset returns the index of the first byte of the pixel at (x, y).
func (p *RGB565Image) PixOffset(x, y int) int {
	return (y-p.Rect.Min.Y)*p.Stride + (x-p.Rect.Min.X)*2
}

func (p *RGB565Image) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return color.Transparent
	}
	return p.RGB565At(x, y)
}

// RGB565At returns the packed color at (x, y); the zero value is returned out of bounds.
func (p *RGB565Image) RGB565At(x, y int) RGB565 {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return RGB565{}
	}
	i := p.PixOffset(x, y)
	return RGB565{V: uint16(p.Pix[i])<<8 | uint16(p.Pix[i+1])}
}

func (p *RGB565Image) Set(x, y int, c color.Color) {
	p.SetRGB565(x, y, rgb565Model(c).(RGB565))
}

func (p *RGB565Image) SetRGB565(x, y int, c RGB565) {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return
	}
	i := p.PixOffset(x, y)
	p.Pix[i], p.Pix[i+1] = c.Bytes()
}

func (p *RGB565Image) Fill(c color.Color) {
	hi, lo := rgb565Model(c).(RGB565).Bytes()
	for i, l := 0, len(p.Pix); i < l; i += 2 {
		p.Pix[i] = hi
		p.Pix[i+1] = lo
	}
}

// Interface checks.
var (
	_ Image = (*RGB565Image)(nil)
)
