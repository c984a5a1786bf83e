package draw

import (
	"image"
	"image/color"
)

// Bar colors, left to right.
var Bars = []color.RGBA{
	{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
	{R: 0xff, G: 0xff, A: 0xff},
	{G: 0xff, B: 0xff, A: 0xff},
	{G: 0xff, A: 0xff},
	{R: 0xff, B: 0xff, A: 0xff},
	{R: 0xff, A: 0xff},
	{B: 0xff, A: 0xff},
	{A: 0xff},
}

// ColorBars fills dst with vertical bars in the Bars colors.
func ColorBars(dst Image) {
	r := dst.Bounds()
	for i, c := range Bars {
		x0 := r.Min.X + i*r.Dx()/len(Bars)
		x1 := r.Min.X + (i+1)*r.Dx()/len(Bars)
		Box(dst, image.Rect(x0, r.Min.Y, x1, r.Max.Y), c)
	}
}

// Gradient fills the inside of dst with a color ramp shifted by offset, leaving a one
// pixel border.
func Gradient(dst Image, offset int) {
	r := dst.Bounds().Inset(1)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			dst.Set(x, y, color.RGBA{
				R: uint8(x + y + offset),
				G: uint8(x - y + offset),
				B: uint8(x + y - offset),
				A: 0xff,
			})
		}
	}
}

// Border outlines dst and marks its two top corners with diagonals, which makes
// mirrored, flipped or shifted output easy to spot.
func Border(dst Image, c color.Color) {
	r := dst.Bounds()
	Rectangle(dst, r, c)
	const n = 16
	Line(dst, r.Min, r.Min.Add(image.Pt(n, n)), c)
	Line(dst, image.Pt(r.Max.X-1, r.Min.Y), image.Pt(r.Max.X-1-n, r.Min.Y+n), c)
}
