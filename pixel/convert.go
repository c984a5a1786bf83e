package pixel

import (
	"image"
	"image/color"
)

// Convert packs the r section of src into a new RGB565 image with its origin at (0, 0).
//
// Every source pixel is reduced to its non-premultiplied 8 bit channels and then
// truncated to 5-6-5 bits; alpha is ignored. Pixels are stored row-major, two bytes each, so the returned Pix can
// be streamed to GRAM as is.
func Convert(src image.Image, r image.Rectangle) *RGB565Image {
	r = r.Intersect(src.Bounds())
	dst := NewRGB565Image(image.Rect(0, 0, r.Dx(), r.Dy()))
	if r.Empty() {
		return dst
	}

	switch src := src.(type) {
	case *RGB565Image:
		for y := r.Min.Y; y < r.Max.Y; y++ {
			i := src.PixOffset(r.Min.X, y)
			copy(dst.Pix[(y-r.Min.Y)*dst.Stride:], src.Pix[i:i+dst.Stride])
		}
	case *image.RGBA:
		j := 0
		for y := r.Min.Y; y < r.Max.Y; y++ {
			i := src.PixOffset(r.Min.X, y)
			for x := r.Min.X; x < r.Max.X; x, i, j = x+1, i+4, j+2 {
				dst.Pix[j], dst.Pix[j+1] = FromRGB(src.Pix[i], src.Pix[i+1], src.Pix[i+2]).Bytes()
			}
		}
	case *image.NRGBA:
		j := 0
		for y := r.Min.Y; y < r.Max.Y; y++ {
			i := src.PixOffset(r.Min.X, y)
			for x := r.Min.X; x < r.Max.X; x, i, j = x+1, i+4, j+2 {
				dst.Pix[j], dst.Pix[j+1] = FromRGB(src.Pix[i], src.Pix[i+1], src.Pix[i+2]).Bytes()
			}
		}
	default:
		j := 0
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x, j = x+1, j+2 {
				c := color.NRGBAModel.Convert(src.At(x, y)).(color.NRGBA)
				dst.Pix[j], dst.Pix[j+1] = FromRGB(c.R, c.G, c.B).Bytes()
			}
		}
	}
	return dst
}
