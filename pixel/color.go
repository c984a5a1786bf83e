package pixel

import "image/color"

// RGB565Model converts any color to the 16-bit GRAM format of the ILI932x controllers.
var RGB565Model color.Model = color.ModelFunc(rgb565Model)

// RGB565 represents a 16-bit 5-6-5 RGB color.
type RGB565 struct {
	// Red, 5, Green, 6, Blue, 5
	V uint16
}

// FromRGB truncates an 8-bit per channel triple to 5-6-5 bits.
func FromRGB(r, g, b uint8) RGB565 {
	return RGB565{V: uint16(r>>3)<<11 | uint16(g>>2)<<5 | uint16(b>>3)}
}

// Components returns the 5-bit red, 6-bit green and 5-bit blue channels.
func (c RGB565) Components() (r5, g6, b5 uint8) {
	return uint8(c.V >> 11), uint8(c.V>>5) & 0x3f, uint8(c.V) & 0x1f
}

// Bytes returns the color as it is clocked into GRAM: red and the upper half of green
// first, the lower half of green and blue second.
func (c RGB565) Bytes() (hi, lo byte) {
	r5, g6, b5 := c.Components()
	hi = r5<<3 | g6>>3
	lo = b5 | (g6&0x07)<<5
	return
}

func (c RGB565) RGBA() (r, g, b, a uint32) {
	// Build a 5- or 6-bit value at the top of the low byte of each component.
	red := (c.V & 0xF800) >> 8
	grn := (c.V & 0x07E0) >> 3
	blu := (c.V & 0x001F) << 3
	// Duplicate the high bits in the low bits.
	red |= red >> 5
	grn |= grn >> 6
	blu |= blu >> 5
	// Duplicate the whole value in the high byte.
	red |= red << 8
	grn |= grn << 8
	blu |= blu << 8
	return uint32(red), uint32(grn), uint32(blu), 0xffff
}

func rgb565Model(c color.Color) color.Color {
	if c, ok := c.(RGB565); ok {
		return c
	}
	r, g, b, _ := c.RGBA()
	return FromRGB(uint8(r>>8), uint8(g>>8), uint8(b>>8))
}
