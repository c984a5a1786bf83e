package ili9328

import (
	"fmt"
	"image"
)

// Window is a GRAM addressing window in panel coordinates. Both corners are inclusive.
type Window struct {
	X0, Y0 int
	X1, Y1 int
}

func (w Window) String() string {
	return fmt.Sprintf("(%d,%d)-(%d,%d)", w.X0, w.Y0, w.X1, w.Y1)
}

// Dx returns the window width in pixels.
func (w Window) Dx() int {
	return w.X1 - w.X0 + 1
}

// Dy returns the window height in pixels.
func (w Window) Dy() int {
	return w.Y1 - w.Y0 + 1
}

// WindowFor returns the window for a w×h buffer drawn at (x, y) on a panel with the given
// bounds.
//
// The origin is clamped onto the panel first and the far corner is derived from the
// clamped origin, then clamped as well. A buffer that extends past the panel edge is
// therefore not rejected: the window shrinks to what fits, and a negative origin shifts
// the buffer instead of cropping its leading pixels.
func WindowFor(bounds image.Rectangle, x, y, w, h int) Window {
	var win Window
	win.X0 = clamp(x, bounds.Min.X, bounds.Max.X-1)
	win.Y0 = clamp(y, bounds.Min.Y, bounds.Max.Y-1)
	win.X1 = clamp(win.X0+w-1, bounds.Min.X, bounds.Max.X-1)
	win.Y1 = clamp(win.Y0+h-1, bounds.Min.Y, bounds.Max.Y-1)
	return win
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}

// setWindow moves the GRAM address counter to the window origin and sets the window.
// Start registers are written before end registers.
func (d *Dev) setWindow(w Window) error {
	debugf("window %s", w)
	for _, r := range [...]struct {
		reg   uint16
		value int
	}{
		{regGRAMHorizontalAddress, w.X0},
		{regGRAMVerticalAddress, w.Y0},
		{regHorizontalStart, w.X0},
		{regVerticalStart, w.Y0},
		{regHorizontalEnd, w.X1},
		{regVerticalEnd, w.Y1},
	} {
		if err := d.link.WriteRegister(r.reg, uint16(r.value)); err != nil {
			return err
		}
	}
	return nil
}
