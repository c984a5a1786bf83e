package draw

import (
	"image"
	"image/color"
)

// Line draws a line between two points, both included.
func Line(dst Image, a, b image.Point, c color.Color) {
	dx, sx := abs(b.X-a.X), sign(b.X-a.X)
	dy, sy := -abs(b.Y-a.Y), sign(b.Y-a.Y)
	e := dx + dy
	for {
		dst.Set(a.X, a.Y, c)
		if a == b {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			a.X += sx
		}
		if e2 <= dx {
			e += dx
			a.Y += sy
		}
	}
}

// HorizontalLine draws w pixels to the right of (x,y).
func HorizontalLine(dst Image, x, y, w int, c color.Color) {
	for i := 0; i < w; i++ {
		dst.Set(x+i, y, c)
	}
}

// VerticalLine draws h pixels down from (x,y).
func VerticalLine(dst Image, x, y, h int, c color.Color) {
	for i := 0; i < h; i++ {
		dst.Set(x, y+i, c)
	}
}

// Rectangle draws the outline of r. The Max edge is exclusive, like everywhere in image.
func Rectangle(dst Image, r image.Rectangle, c color.Color) {
	if r.Empty() {
		return
	}
	HorizontalLine(dst, r.Min.X, r.Min.Y, r.Dx(), c)
	HorizontalLine(dst, r.Min.X, r.Max.Y-1, r.Dx(), c)
	VerticalLine(dst, r.Min.X, r.Min.Y, r.Dy(), c)
	VerticalLine(dst, r.Max.X-1, r.Min.Y, r.Dy(), c)
}

// Box draws a filled rectangle.
func Box(dst Image, r image.Rectangle, c color.Color) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		HorizontalLine(dst, r.Min.X, y, r.Dx(), c)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	default:
		return 0
	}
}
