// Package emulator implements a software ILI9328 on the serial interface.
//
// A Panel is an SPI port plus the chip select and reset lines of the controller. It
// decodes index and data frames, keeps the register file, and writes GRAM data through
// the address counter and window exactly like the controller does for the entry mode the
// driver programs (horizontal increment, then vertical). It is meant for tests and for
// previewing output without hardware.
package emulator

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"

	"github.com/BeatGlow/ili9328/pixel"
)

// Panel geometry.
const (
	Width  = 240
	Height = 320
)

const (
	startIndex = 0x70
	startData  = 0x72

	regDisplayControl1       = 0x07
	regGRAMHorizontalAddress = 0x20
	regGRAMVerticalAddress   = 0x21
	regWriteGRAM             = 0x22
	regHorizontalStart       = 0x50
	regHorizontalEnd         = 0x51
	regVerticalStart         = 0x52
	regVerticalEnd           = 0x53
)

// Errors recorded by the Panel.
var (
	ErrNotSelected = errors.New("emulator: transfer while chip select is inactive")
	ErrInReset     = errors.New("emulator: transfer while reset is active")
	ErrStartByte   = errors.New("emulator: invalid start byte")
	ErrFrame       = errors.New("emulator: malformed frame")
	ErrClosed      = errors.New("emulator: port is closed")
)

// Event is a completed register write. GRAM writes have Reg set to 0x22 and report the
// number of pixels written.
type Event struct {
	Reg    uint16
	Value  uint16
	Pixels int
}

func (e Event) String() string {
	if e.Reg == regWriteGRAM {
		return fmt.Sprintf("R%02Xh <- %d pixels", e.Reg, e.Pixels)
	}
	return fmt.Sprintf("R%02Xh <- %#04x", e.Reg, e.Value)
}

// Panel is an emulated ILI9328. It implements spi.PortCloser and spi.Conn.
type Panel struct {
	mu    sync.Mutex
	cs    *Line
	reset *Line

	regs  map[uint16]uint16
	index uint16
	gram  *pixel.RGB565Image
	x, y  int

	selected  bool
	inReset   bool
	start     byte
	buf       []byte
	pixels    int
	events    []Event
	errs      []error
	resets    int
	speed     physic.Frequency
	connected bool
	closed    bool
}

// New returns a Panel in its power-on state with both lines inactive.
func New() *Panel {
	p := &Panel{
		gram: pixel.NewRGB565Image(image.Rect(0, 0, Width, Height)),
	}
	p.cs = &Line{Pin: gpiotest.Pin{N: "CS", Num: -1, L: gpio.High}, p: p}
	p.reset = &Line{Pin: gpiotest.Pin{N: "RESET", Num: -1, L: gpio.High}, p: p}
	p.powerOn()
	return p
}

// CS returns the chip select line.
func (p *Panel) CS() gpio.PinOut {
	return p.cs
}

// Reset returns the reset line.
func (p *Panel) Reset() gpio.PinOut {
	return p.reset
}

func (p *Panel) String() string {
	return "ILI9328 emulator"
}

// LimitSpeed implements spi.PortCloser.
func (p *Panel) LimitSpeed(f physic.Frequency) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.speed = f
	return nil
}

// Connect implements spi.Port. The serial interface of the controller only works in
// mode 3 with 8-bit words.
func (p *Panel) Connect(f physic.Frequency, mode spi.Mode, bits int) (spi.Conn, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.connected {
		return nil, errors.New("emulator: Connect cannot be called twice")
	}
	if mode&spi.Mode3 != spi.Mode3 {
		return nil, fmt.Errorf("emulator: unsupported %s, the controller samples in mode 3", mode)
	}
	if bits != 8 {
		return nil, fmt.Errorf("emulator: unsupported %d bits per word", bits)
	}
	p.connected = true
	return p, nil
}

// Close implements spi.PortCloser.
func (p *Panel) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

// Duplex implements conn.Conn.
func (p *Panel) Duplex() conn.Duplex {
	return conn.Half
}

// TxPackets implements spi.Conn.
func (p *Panel) TxPackets(_ []spi.Packet) error {
	return errors.New("emulator: TxPackets is not implemented")
}

// Tx implements conn.Conn. Reads are not supported.
//
// Protocol errors are recorded (see Err) and returned.
func (p *Panel) Tx(w, r []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var err error
	switch {
	case len(r) != 0:
		err = errors.New("emulator: reads are not supported")
	case p.closed:
		err = ErrClosed
	case p.inReset:
		err = ErrInReset
	case !p.selected:
		err = ErrNotSelected
	}
	if err != nil {
		p.errs = append(p.errs, err)
		return err
	}

	for _, b := range w {
		if p.start == 0 {
			if b != startIndex && b != startData {
				err = fmt.Errorf("%w %#02x", ErrStartByte, b)
				p.errs = append(p.errs, err)
				return err
			}
			p.start = b
			continue
		}
		p.buf = append(p.buf, b)
		if p.start == startData && p.index == regWriteGRAM && len(p.buf) == 2 {
			p.writePixel(pixel.RGB565{V: uint16(p.buf[0])<<8 | uint16(p.buf[1])})
			p.buf = p.buf[:0]
		}
	}
	return nil
}

// Speed returns the clock last requested with LimitSpeed.
func (p *Panel) Speed() physic.Frequency {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.speed
}

// Register returns the last value written to the register at addr.
func (p *Panel) Register(addr uint16) uint16 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.regs[addr]
}

// DisplayOn reports whether the panel is showing GRAM.
func (p *Panel) DisplayOn() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.regs[regDisplayControl1]&0x0003 == 0x0003
}

// Cursor returns the GRAM address counter.
func (p *Panel) Cursor() image.Point {
	p.mu.Lock()
	defer p.mu.Unlock()
	return image.Pt(p.x, p.y)
}

// GRAM returns a copy of the graphics RAM.
func (p *Panel) GRAM() *pixel.RGB565Image {
	p.mu.Lock()
	defer p.mu.Unlock()
	img := pixel.NewRGB565Image(p.gram.Rect)
	copy(img.Pix, p.gram.Pix)
	return img
}

// Events returns the register writes since the last reset.
func (p *Panel) Events() []Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Event(nil), p.events...)
}

// ClearEvents forgets the recorded register writes.
func (p *Panel) ClearEvents() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = nil
}

// Resets returns the number of completed reset pulses.
func (p *Panel) Resets() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.resets
}

// Err returns all protocol errors seen so far, or nil.
func (p *Panel) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return errors.Join(p.errs...)
}

// powerOn loads the register defaults of the controller.
func (p *Panel) powerOn() {
	p.regs = map[uint16]uint16{
		0x00:               0x9328,
		regHorizontalStart: 0,
		regHorizontalEnd:   Width - 1,
		regVerticalStart:   0,
		regVerticalEnd:     Height - 1,
	}
	p.index = 0
	p.x, p.y = 0, 0
	p.gram.Clear()
	p.events = nil
	p.start = 0
	p.buf = p.buf[:0]
	p.pixels = 0
}

// edge is called with the panel unlocked whenever one of the lines is driven.
func (p *Panel) edge(l *Line, level gpio.Level) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch l {
	case p.reset:
		if level == gpio.Low {
			p.inReset = true
		} else if p.inReset {
			p.inReset = false
			p.resets++
			p.powerOn()
		}
	case p.cs:
		selected := level == gpio.Low
		if p.selected && !selected {
			p.endFrame()
		}
		if selected && !p.selected {
			p.start = 0
			p.buf = p.buf[:0]
			p.pixels = 0
		}
		p.selected = selected
	}
}

func (p *Panel) endFrame() {
	switch {
	case p.start == 0:
		// Chip select toggled without a transfer.
	case p.start == startIndex:
		if len(p.buf) != 2 {
			p.errs = append(p.errs, fmt.Errorf("%w: index frame with %d bytes", ErrFrame, len(p.buf)))
			break
		}
		p.index = uint16(p.buf[0])<<8 | uint16(p.buf[1])
	case p.index == regWriteGRAM:
		if len(p.buf) != 0 {
			p.errs = append(p.errs, fmt.Errorf("%w: odd GRAM byte count", ErrFrame))
		}
		p.events = append(p.events, Event{Reg: regWriteGRAM, Pixels: p.pixels})
	default:
		if len(p.buf) != 2 {
			p.errs = append(p.errs, fmt.Errorf("%w: data frame with %d bytes", ErrFrame, len(p.buf)))
			break
		}
		p.writeRegister(p.index, uint16(p.buf[0])<<8|uint16(p.buf[1]))
	}
	p.start = 0
	p.buf = p.buf[:0]
	p.pixels = 0
}

func (p *Panel) writeRegister(reg, value uint16) {
	p.regs[reg] = value
	switch reg {
	case regGRAMHorizontalAddress:
		p.x = int(value)
	case regGRAMVerticalAddress:
		p.y = int(value)
	}
	p.events = append(p.events, Event{Reg: reg, Value: value})
}

// writePixel stores c at the address counter and advances it through the window.
func (p *Panel) writePixel(c pixel.RGB565) {
	p.gram.SetRGB565(p.x, p.y, c)
	p.pixels++

	p.x++
	if p.x > int(p.regs[regHorizontalEnd]) {
		p.x = int(p.regs[regHorizontalStart])
		p.y++
		if p.y > int(p.regs[regVerticalEnd]) {
			p.y = int(p.regs[regVerticalStart])
		}
	}
}

// Line is a controller input driven by the host.
type Line struct {
	gpiotest.Pin
	p *Panel
}

// Out implements gpio.PinOut.
func (l *Line) Out(level gpio.Level) error {
	if err := l.Pin.Out(level); err != nil {
		return err
	}
	l.p.edge(l, level)
	return nil
}

var (
	_ spi.PortCloser = &Panel{}
	_ spi.Conn       = &Panel{}
	_ gpio.PinOut    = &Line{}
)
