// Package cli has the flags and setup shared by the commands.
package cli

import (
	"flag"
	"fmt"
	"os"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"github.com/BeatGlow/ili9328"
	"github.com/BeatGlow/ili9328/emulator"
	"github.com/BeatGlow/ili9328/emulator/console"
)

// Flags are the panel connection flags.
type Flags struct {
	Bus    *string
	Speed  *uint
	CS     *string
	Reset  *string
	Strict *bool
	DryRun *bool
	Scale  *int
}

// Register adds the panel flags to fs.
func Register(fs *flag.FlagSet) *Flags {
	return &Flags{
		Bus:    fs.String("spi", ili9328.DefaultSPIConfig.Bus, "SPI port name"),
		Speed:  fs.Uint("speed", uint(ili9328.DefaultSPIConfig.SpeedHz), "SPI clock in Hz (rated for 10MHz, can be overclocked)"),
		CS:     fs.String("cs", "GPIO22", "Chip select GPIO pin"),
		Reset:  fs.String("reset", "GPIO23", "Reset GPIO pin"),
		Strict: fs.Bool("strict", false, "Reject draws that extend past the panel"),
		DryRun: fs.Bool("dry-run", false, "Draw to an emulated panel and print it to the terminal"),
		Scale:  fs.Int("scale", console.DefaultScale, "Panel pixels per terminal cell in dry-run mode"),
	}
}

// Output is an opened panel, real or emulated.
type Output struct {
	*ili9328.Dev

	panel   *emulator.Panel
	preview *console.Preview
}

// Open initializes the panel selected by the flags.
func (f *Flags) Open() (*Output, error) {
	if *f.DryRun {
		p := emulator.New()
		dev, err := ili9328.NewSPI(p, &ili9328.SPIConfig{
			SpeedHz: uint32(*f.Speed),
			CS:      p.CS(),
			Reset:   p.Reset(),
			Strict:  *f.Strict,
		})
		if err != nil {
			return nil, err
		}
		return &Output{
			Dev:     dev,
			panel:   p,
			preview: console.New(&console.Opts{Scale: *f.Scale}),
		}, nil
	}

	if _, err := host.Init(); err != nil {
		return nil, err
	}
	cs, err := pin(*f.CS)
	if err != nil {
		return nil, err
	}
	reset, err := pin(*f.Reset)
	if err != nil {
		return nil, err
	}
	dev, err := ili9328.Open(&ili9328.SPIConfig{
		Bus:     *f.Bus,
		SpeedHz: uint32(*f.Speed),
		CS:      cs,
		Reset:   reset,
		Strict:  *f.Strict,
	})
	if err != nil {
		return nil, err
	}
	return &Output{Dev: dev}, nil
}

// Show prints the emulated GRAM in dry-run mode. It does nothing for a real panel.
func (o *Output) Show() error {
	if o.panel == nil {
		return nil
	}
	if err := o.panel.Err(); err != nil {
		return err
	}
	return o.preview.Render(o.panel.GRAM())
}

func pin(name string) (gpio.PinOut, error) {
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("unknown GPIO pin %q", name)
	}
	return p, nil
}

// Fatal reports err and exits.
func Fatal(err error) {
	fmt.Fprintln(os.Stderr, "fatal: "+err.Error())
	os.Exit(1)
}
