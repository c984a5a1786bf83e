// Command ili9328-sysmon draws a system monitor screen in portrait and landscape
// orientation.
package main

import (
	"flag"
	"fmt"
	"image"
	"os"
	"time"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/BeatGlow/ili9328/internal/cli"
)

const (
	green  = "#00FF90"
	white  = "#FFFFFF"
	cyan   = "#00FFFF"
	yellow = "#C0C000"
)

// text is a string drawn with its top left corner at (X, Y).
type text struct {
	X, Y  float64
	S     string
	Color string
	Size  float64
}

// fontCache holds one face per size.
type fontCache struct {
	font  *truetype.Font
	cache map[float64]font.Face
}

func loadFaces(path string) (*fontCache, error) {
	data := goregular.TTF
	if path != "" {
		var err error
		if data, err = os.ReadFile(path); err != nil {
			return nil, err
		}
	}
	f, err := truetype.Parse(data)
	if err != nil {
		return nil, err
	}
	return &fontCache{font: f, cache: make(map[float64]font.Face)}, nil
}

func (f *fontCache) face(size float64) font.Face {
	face, ok := f.cache[size]
	if !ok {
		face = truetype.NewFace(f.font, &truetype.Options{Size: size})
		f.cache[size] = face
	}
	return face
}

func main() {
	panel := cli.Register(flag.CommandLine)
	holdFlag := flag.Duration("hold", 3*time.Second, "Time to show each screen")
	zoneFlag := flag.Int("tz-offset", 9, "Clock time zone offset from UTC in hours")
	fontFlag := flag.String("font", "", "TrueType font file (default: Go Regular)")
	flag.Parse()

	if flag.NArg() != 0 {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags]\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}

	faces, err := loadFaces(*fontFlag)
	if err != nil {
		cli.Fatal(err)
	}

	output, err := panel.Open()
	if err != nil {
		cli.Fatal(err)
	}
	defer output.Close()

	zone := time.FixedZone(fmt.Sprintf("UTC%+d", *zoneFlag), *zoneFlag*3600)
	show := func(img image.Image) {
		if err := output.DrawFull(img); err != nil {
			cli.Fatal(err)
		}
		if err := output.Show(); err != nil {
			cli.Fatal(err)
		}
		time.Sleep(*holdFlag)
	}

	w, h := output.Size()
	now := time.Now().In(zone)

	img := render(w, h, portrait(now), faces)
	show(img)
	show(rotate180(img))

	img = rotate90(render(h, w, landscape(time.Now().In(zone)), faces))
	show(img)
	show(rotate180(img))
}

func portrait(now time.Time) []text {
	return []text{
		{5, 5, now.Format(time.DateTime), green, 24},
		{75, 30, "powered by Go", green, 18},
		{5, 50, "System Monitor", white, 32},
		{5, 105, "Temperature", cyan, 24},
		{210, 235, "°C", cyan, 24},
		{10, 145, "27.9", cyan, 96},
		{11, 260, "DC12V:12.06V", yellow, 18},
		{20, 280, "Vdd1: 3.28V", yellow, 18},
		{20, 300, "Vdd2: 1.19V", yellow, 18},
		{150, 260, "I: 6.5A", yellow, 18},
		{150, 280, "P:78.4W", yellow, 18},
		{150, 300, "Mode:RUN", green, 18},
	}
}

func landscape(now time.Time) []text {
	return []text{
		{5, 5, now.Format(time.DateTime), green, 24},
		{70, 30, "powered by Go", green, 18},
		{5, 50, "System Monitor", white, 32},
		{5, 105, "Temperature", cyan, 24},
		{150, 215, "°C", cyan, 24},
		{5, 135, "27.9", cyan, 84},
		{190, 105, "Status:", yellow, 24},
		{275, 105, "RUN", green, 24},
		{210, 135, "DC12V:12.1V", yellow, 18},
		{210, 155, " Vdd1: 3.3V", yellow, 18},
		{210, 175, " Vdd2: 1.2V", yellow, 18},
		{210, 195, "    I: 8.7A", yellow, 18},
		{210, 215, "    P: 105W", yellow, 18},
	}
}

func render(w, h int, texts []text, faces *fontCache) image.Image {
	dc := gg.NewContext(w, h)
	dc.SetRGB255(40, 40, 40)
	dc.Clear()
	for _, t := range texts {
		dc.SetFontFace(faces.face(t.Size))
		dc.SetHexColor(t.Color)
		dc.DrawStringAnchored(t.S, t.X, t.Y, 0, 1)
	}
	return dc.Image()
}

// rotate90 turns img a quarter counterclockwise, swapping its width and height.
func rotate90(img image.Image) image.Image {
	size := img.Bounds().Size()
	dc := gg.NewContext(size.Y, size.X)
	dc.Translate(0, float64(size.X))
	dc.Rotate(gg.Radians(-90))
	dc.DrawImage(img, 0, 0)
	return dc.Image()
}

func rotate180(img image.Image) image.Image {
	size := img.Bounds().Size()
	dc := gg.NewContext(size.X, size.Y)
	dc.RotateAbout(gg.Radians(180), float64(size.X)/2, float64(size.Y)/2)
	dc.DrawImage(img, 0, 0)
	return dc.Image()
}
