// Package console prints panel contents to a terminal with ANSI 256 color blocks.
//
// Each terminal cell shows one sample of a Scale×Scale block of panel pixels, so a
// 240x320 GRAM fits a terminal at the default scale of 8.
package console

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
)

// DefaultScale is the number of panel pixels per terminal cell along each axis.
const DefaultScale = 8

// Opts represents the options available for a Preview.
type Opts struct {
	Scale   int
	Palette *ansi256.Palette
}

// Preview renders images to a terminal.
type Preview struct {
	w       io.Writer
	scale   int
	palette ansi256.Palette
	buf     bytes.Buffer
}

// New returns a Preview that writes to stdout.
func New(opts *Opts) *Preview {
	return NewWriter(colorable.NewColorableStdout(), opts)
}

// NewWriter returns a Preview that writes to w.
func NewWriter(w io.Writer, opts *Opts) *Preview {
	if opts == nil {
		opts = &Opts{}
	}
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	scale := opts.Scale
	if scale <= 0 {
		scale = DefaultScale
	}
	return &Preview{
		w:       w,
		scale:   scale,
		palette: *p,
	}
}

func (p *Preview) String() string {
	return fmt.Sprintf("console preview 1:%d", p.scale)
}

// Render writes img, one line of cells per Scale rows.
func (p *Preview) Render(img image.Image) error {
	p.buf.Reset()
	r := img.Bounds()
	for y := r.Min.Y; y < r.Max.Y; y += p.scale {
		for x := r.Min.X; x < r.Max.X; x += p.scale {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			_, _ = io.WriteString(&p.buf, p.palette.Block(c))
		}
		_, _ = p.buf.WriteString("\033[0m\n")
	}
	_, err := p.buf.WriteTo(p.w)
	return err
}
