package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"os"
	"time"

	"github.com/BeatGlow/ili9328"
	"github.com/BeatGlow/ili9328/draw"
	"github.com/BeatGlow/ili9328/internal/cli"
	"github.com/BeatGlow/ili9328/pixel"
)

func main() {
	panel := cli.Register(flag.CommandLine)
	framesFlag := flag.Int("frames", 0, "Number of gradient frames to draw (0: until interrupted)")
	boxFlag := flag.Int("box", 64, "Size of the gradient box that is redrawn every frame")
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
	fmt.Printf("using driver: %s\n", output)

	// Full screen: color bars with a border.
	screen := pixel.NewRGB565Image(output.Bounds())
	draw.ColorBars(screen)
	draw.Border(screen, color.White)
	start := time.Now()
	if err = output.DrawFull(screen); err != nil {
		cli.Fatal(err)
	}
	fmt.Printf("full screen refresh took %s\n", time.Since(start))
	if err = output.Show(); err != nil {
		cli.Fatal(err)
	}

	// Partial updates: only the box in the middle is transferred.
	var (
		size   = *boxFlag
		box    = pixel.NewRGB565Image(image.Rect(0, 0, size, size))
		pos    = image.Pt((ili9328.Width-size)/2, (ili9328.Height-size)/2)
		ticker = time.NewTicker(50 * time.Millisecond)
	)
	defer ticker.Stop()

	fmt.Println("hit control-c to stop...")
	for offset := 0; *framesFlag == 0 || offset < *framesFlag; offset++ {
		draw.Gradient(box, offset)
		draw.Rectangle(box, box.Bounds(), color.White)
		if err = output.DrawRegion(pos.X, pos.Y, box); err != nil {
			cli.Fatal(err)
		}
		<-ticker.C
	}
	if err = output.Show(); err != nil {
		cli.Fatal(err)
	}
}
