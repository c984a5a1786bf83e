// Package pixel implements the RGB565 color model and image used by ILI932x GRAM.
//
// The types are compatible with Go's native [color.Color] and [image.Image] /
// [draw.Image] interfaces, so any image can be converted with [Convert] before it is
// streamed to the display.
package pixel
