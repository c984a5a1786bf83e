// Command ili9328-graph draws a sine chart into a window of the panel.
//
// Only the chart area is transferred, so updating it is much faster than a full screen
// refresh.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"math"
	"os"
	"time"

	"github.com/fogleman/gg"
	xdraw "golang.org/x/image/draw"

	"github.com/BeatGlow/ili9328/draw"
	"github.com/BeatGlow/ili9328/internal/cli"
	"github.com/BeatGlow/ili9328/pixel"
)

// Chart geometry on the panel.
const (
	chartX      = 20
	chartY      = 100
	chartWidth  = 200
	chartHeight = 150
)

func main() {
	panel := cli.Register(flag.CommandLine)
	holdFlag := flag.Duration("hold", 3*time.Second, "Time to show the chart before flipping it")
	flag.Parse()

	if flag.NArg() != 0 {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags]\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}

	output, err := panel.Open()
	if err != nil {
		cli.Fatal(err)
	}
	defer output.Close()

	background := pixel.NewRGB565Image(output.Bounds())
	draw.Fill(background, color.White)
	if err = output.DrawFull(background); err != nil {
		cli.Fatal(err)
	}

	start := time.Now()
	img := chart(chartWidth, chartHeight)
	fmt.Printf("rendered %s chart in %s\n", img.Bounds().Size(), time.Since(start))

	start = time.Now()
	if err = output.DrawRegion(chartX, chartY, img); err != nil {
		cli.Fatal(err)
	}
	fmt.Printf("chart transferred in %s\n", time.Since(start))
	if err = output.Show(); err != nil {
		cli.Fatal(err)
	}

	time.Sleep(*holdFlag)

	if err = output.DrawRegion(chartX, chartY, rotate180(img)); err != nil {
		cli.Fatal(err)
	}
	if err = output.Show(); err != nil {
		cli.Fatal(err)
	}
}

// chart plots one period of a sine on a dark background. It is rendered at a larger
// size and scaled down to w×h.
func chart(w, h int) image.Image {
	const (
		scale  = 1.25
		margin = 24.0
		points = 200
	)
	var (
		cw = int(float64(w) * scale)
		ch = int(float64(h) * scale)
		dc = gg.NewContext(cw, ch)
		pw = float64(cw) - 2*margin
		ph = float64(ch) - 2*margin
	)

	dc.SetRGB(0, 0, 0)
	dc.Clear()

	// Axes box and zero line.
	dc.SetRGB(1, 1, 1)
	dc.SetLineWidth(1)
	dc.DrawRectangle(margin, margin, pw, ph)
	dc.Stroke()
	dc.SetRGB(0.5, 0.5, 0.5)
	dc.DrawLine(margin, margin+ph/2, margin+pw, margin+ph/2)
	dc.Stroke()

	dc.SetRGB255(0x1f, 0x77, 0xb4)
	dc.SetLineWidth(1.5)
	for i := 0; i < points; i++ {
		t := 2 * math.Pi * float64(i) / (points - 1)
		x := margin + pw*float64(i)/(points-1)
		y := margin + ph/2 - math.Sin(t)*ph*0.45
		if i == 0 {
			dc.MoveTo(x, y)
		} else {
			dc.LineTo(x, y)
		}
	}
	dc.Stroke()

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), dc.Image(), dc.Image().Bounds(), xdraw.Src, nil)
	return dst
}

func rotate180(img image.Image) image.Image {
	size := img.Bounds().Size()
	dc := gg.NewContext(size.X, size.Y)
	dc.RotateAbout(gg.Radians(180), float64(size.X)/2, float64(size.Y)/2)
	dc.DrawImage(img, 0, 0)
	return dc.Image()
}
