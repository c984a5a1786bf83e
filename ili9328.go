package ili9328

import (
	"fmt"
	"image"
	"image/color"
	"log"
	"os"
	"sync"
	"time"

	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"

	"github.com/BeatGlow/ili9328/conn"
	"github.com/BeatGlow/ili9328/pixel"
)

// Panel geometry. The ILI9328 drives a fixed 240x320 panel at 16 bits per pixel.
const (
	Width        = 240
	Height       = 320
	BitsPerPixel = 16
)

var debug bool

func init() {
	debug = os.Getenv("ILI9328_DEBUG") != ""
}

func debugf(format string, args ...any) {
	if debug {
		log.Printf("ili9328: "+format, args...)
	}
}

// sleep is replaced in tests.
var sleep = time.Sleep

// SPIConfig describes the SPI bus and the GPIO lines the panel is wired to.
type SPIConfig struct {
	// Bus is the periph SPI port name, for example "SPI1.0". Empty selects the first port.
	Bus string

	// SpeedHz is the SPI clock. The controller is rated for 10MHz but usually runs faster.
	SpeedHz uint32

	// CS is the chip select line (active low).
	CS gpio.PinOut

	// Reset is the controller reset line (active low).
	Reset gpio.PinOut

	// Strict rejects draws that extend past the panel instead of cropping them.
	Strict bool
}

// DefaultSPIConfig are the default configuration values. The lines have to be set by the
// caller.
var DefaultSPIConfig = SPIConfig{
	Bus:     "SPI1.0",
	SpeedHz: 1_000_000,
}

func (config *SPIConfig) validate() error {
	if config.CS == nil || config.CS == gpio.INVALID {
		return ErrCSPin
	}
	if config.Reset == nil || config.Reset == gpio.INVALID {
		return ErrResetPin
	}
	return nil
}

func (config *SPIConfig) speed() physic.Frequency {
	return physic.Frequency(config.SpeedHz) * physic.Hertz
}

type state uint8

const (
	uninitialized state = iota
	initializing
	ready
	closed
)

func (s state) String() string {
	switch s {
	case initializing:
		return "initializing"
	case ready:
		return "ready"
	case closed:
		return "closed"
	default:
		return "uninitialized"
	}
}

// Dev is a handle to an ILI9328 panel.
//
// A Dev exclusively owns its bus and lines; use one Dev per physical panel.
type Dev struct {
	mu     sync.Mutex
	link   *Link
	rect   image.Rectangle
	strict bool
	state  state
}

// Open opens the SPI port named in config and initializes the panel. A nil config uses
// DefaultSPIConfig, which has no lines set.
func Open(config *SPIConfig) (*Dev, error) {
	if config == nil {
		config = new(SPIConfig)
		*config = DefaultSPIConfig
	}
	if err := config.validate(); err != nil {
		return nil, err
	}

	bus, err := conn.OpenSPI(config.Bus, config.speed())
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrBusOpen, config.Bus, err)
	}

	d, err := New(bus, config)
	if err != nil {
		_ = bus.Close()
		return nil, err
	}
	return d, nil
}

// NewSPI connects to an opened SPI port and initializes the panel. The Dev takes
// ownership of p; p is closed if an error is returned.
func NewSPI(p spi.PortCloser, config *SPIConfig) (*Dev, error) {
	if config == nil {
		config = new(SPIConfig)
		*config = DefaultSPIConfig
	}
	if err := config.validate(); err != nil {
		_ = p.Close()
		return nil, err
	}

	bus, err := conn.NewSPI(p, config.speed())
	if err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("%w: %s: %w", ErrBusOpen, p, err)
	}

	d, err := New(bus, config)
	if err != nil {
		_ = bus.Close()
		return nil, err
	}
	return d, nil
}

// New runs the reset pulse and power-on sequence over bus. The Dev takes ownership of
// bus. On error the bus is left open and the panel state is undefined.
func New(bus Bus, config *SPIConfig) (*Dev, error) {
	if config == nil {
		config = new(SPIConfig)
		*config = DefaultSPIConfig
	}
	if err := config.validate(); err != nil {
		return nil, err
	}
	if config.SpeedHz > 0 {
		bus.SetMaxSpeed(config.speed())
	}

	d := newDev(NewLink(bus, config.CS, config.Reset), config.Strict)
	if err := d.init(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInit, err)
	}
	return d, nil
}

func newDev(link *Link, strict bool) *Dev {
	return &Dev{
		link:   link,
		rect:   image.Rect(0, 0, Width, Height),
		strict: strict,
	}
}

func (d *Dev) init() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state != uninitialized {
		return fmt.Errorf("%w: already %s", ErrNotReady, d.state)
	}
	d.state = initializing

	if err := d.link.Deselect(); err != nil {
		return err
	}
	if err := d.link.Reset(); err != nil {
		return err
	}
	for i, s := range initSequence {
		if err := d.link.WriteRegister(s.reg, s.value); err != nil {
			return fmt.Errorf("step %d, register %#04x: %w", i, s.reg, err)
		}
		if s.delay > 0 {
			sleep(s.delay)
		}
	}
	debugf("%d registers written, display on", len(initSequence))

	d.state = ready
	return nil
}

func (d *Dev) usable() error {
	switch d.state {
	case ready:
		return nil
	case closed:
		return ErrClosed
	default:
		return ErrNotReady
	}
}

func (d *Dev) String() string {
	return fmt.Sprintf("ILI9328 %dx%d on %s", d.rect.Dx(), d.rect.Dy(), d.link)
}

// Size returns the drawable size in pixels.
func (d *Dev) Size() (width, height int) {
	return d.rect.Dx(), d.rect.Dy()
}

// Bounds implements display.Drawer.
func (d *Dev) Bounds() image.Rectangle {
	return d.rect
}

// ColorModel implements display.Drawer.
func (d *Dev) ColorModel() color.Model {
	return pixel.RGB565Model
}

// SetBusSpeed changes the SPI clock. The new speed is used from the next transfer on. A
// zero or negative speed selects the default clock.
func (d *Dev) SetBusSpeed(f physic.Frequency) {
	if f <= 0 {
		f = conn.DefaultSpeed
	}
	debugf("bus speed %s", f)
	d.link.SetMaxSpeed(f)
}

// DrawFull draws src at the panel origin. The image should be exactly the panel size;
// this is not checked, see DrawRegion for what happens otherwise.
func (d *Dev) DrawFull(src image.Image) error {
	return d.DrawRegion(0, 0, src)
}

// DrawRegion transfers src to the panel with its top left corner at (x, y). Only the
// window covered by src is written.
//
// Unless the Dev is in strict mode, a src that extends past the panel is not rejected:
// the window is clamped to the panel edge (see WindowFor) and the controller wraps the
// surplus pixels around inside the clamped window. Use Draw to crop properly.
func (d *Dev) DrawRegion(x, y int, src image.Image) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.drawRegion(x, y, src, src.Bounds())
}

// Draw implements display.Drawer.
//
// The destination is clipped to the panel and to the available source pixels, and only
// the remaining section of src is transferred.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	clipped := r.Intersect(d.rect)
	sp = sp.Add(clipped.Min.Sub(r.Min))
	sr := image.Rectangle{Min: sp, Max: sp.Add(clipped.Size())}.Intersect(src.Bounds())
	dp := clipped.Min.Add(sr.Min.Sub(sp))

	d.mu.Lock()
	defer d.mu.Unlock()
	return d.drawRegion(dp.X, dp.Y, src, sr)
}

func (d *Dev) drawRegion(x, y int, src image.Image, sr image.Rectangle) error {
	if err := d.usable(); err != nil {
		return err
	}
	if sr.Empty() {
		return nil
	}
	if d.strict {
		if dr := sr.Sub(sr.Min).Add(image.Pt(x, y)); !dr.In(d.rect) {
			return fmt.Errorf("%w: %s", ErrBounds, dr)
		}
	}

	pix := pixel.Convert(src, sr)
	if err := d.setWindow(WindowFor(d.rect, x, y, sr.Dx(), sr.Dy())); err != nil {
		return err
	}
	debugf("write %d pixels", len(pix.Pix)/2)
	return d.link.WritePixels(pix.Pix)
}

// Halt turns the display off. Implements conn.Resource.
func (d *Dev) Halt() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.usable(); err != nil {
		return err
	}
	return d.link.WriteRegister(regDisplayControl1, displayOff)
}

// Close turns the display off and releases the bus. The Dev cannot be used afterwards.
func (d *Dev) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state == closed {
		return nil
	}

	var err error
	if d.state == ready {
		err = d.link.WriteRegister(regDisplayControl1, displayOff)
	}
	d.state = closed
	if closeErr := d.link.Close(); err == nil {
		err = closeErr
	}
	return err
}

var _ display.Drawer = &Dev{}
