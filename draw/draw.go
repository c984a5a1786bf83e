// Package draw has the primitives the commands use to build test screens.
package draw

import (
	"image"
	"image/color"
	"image/draw"
)

// Image is an alias for [image/draw.Image].
type Image = draw.Image

// Fill paints all of dst with c.
func Fill(dst Image, c color.Color) {
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: c}, image.Point{}, draw.Src)
}

// Copy places src in dst with its top left corner at pt, clipped to dst.
func Copy(dst Image, pt image.Point, src image.Image) {
	r := src.Bounds()
	draw.Draw(dst, r.Sub(r.Min).Add(pt), src, r.Min, draw.Src)
}
