package ili9328

import (
	"fmt"
	"sync"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
)

// Start bytes of the serial interface, with the device ID pin tied low.
const (
	startIndex = 0x70 // RS=0, R/W=0: index register write
	startData  = 0x72 // RS=1, R/W=0: register or GRAM data write
)

// Chip select and reset are active low.
const (
	active   = gpio.Low
	inactive = gpio.High
)

// Reset pulse timing; these are minimums for the part.
const (
	resetSetup  = 10 * time.Millisecond
	resetPulse  = 10 * time.Millisecond
	resetSettle = 50 * time.Millisecond
)

// Bus is the blocking serial transport frames are written to; see conn.SPI.
type Bus interface {
	String() string

	// Write transmits b while the caller holds chip select.
	Write(b []byte) (int, error)

	// SetMaxSpeed requests a new clock for subsequent writes.
	SetMaxSpeed(f physic.Frequency)

	// Close releases the bus.
	Close() error
}

// Link frames register and GRAM accesses on the bus. Every frame is bracketed by its own
// chip select assertion.
type Link struct {
	mu    sync.Mutex
	bus   Bus
	cs    gpio.PinOut
	reset gpio.PinOut
}

// NewLink returns a Link that owns bus and drives the two lines.
func NewLink(bus Bus, cs, reset gpio.PinOut) *Link {
	return &Link{
		bus:   bus,
		cs:    cs,
		reset: reset,
	}
}

func (l *Link) String() string {
	return l.bus.String()
}

// WriteRegister writes value to the register at addr. The index and data frames are sent
// back to back; no other frame can be sent in between.
func (l *Link) WriteRegister(addr, value uint16) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.writeIndex(addr); err != nil {
		return err
	}
	return l.writeData(value)
}

// WritePixels selects the GRAM data register and streams pix as one frame. The
// controller advances its address counter through the current window on its own.
func (l *Link) WritePixels(pix []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.writeIndex(regWriteGRAM); err != nil {
		return err
	}
	frame := make([]byte, 1+len(pix))
	frame[0] = startData
	copy(frame[1:], pix)
	return l.frame(frame)
}

// Reset pulses the reset line and waits for the controller to come up.
func (l *Link) Reset() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	debugf("reset pulse")
	if err := l.out(l.reset, inactive); err != nil {
		return err
	}
	sleep(resetSetup)
	if err := l.out(l.reset, active); err != nil {
		return err
	}
	sleep(resetPulse)
	if err := l.out(l.reset, inactive); err != nil {
		return err
	}
	sleep(resetSettle)
	return nil
}

// Deselect drives chip select to its idle level.
func (l *Link) Deselect() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.out(l.cs, inactive)
}

// SetMaxSpeed requests a new bus clock; see [Bus].
func (l *Link) SetMaxSpeed(f physic.Frequency) {
	l.bus.SetMaxSpeed(f)
}

// Close releases the bus.
func (l *Link) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.bus.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrBusClose, err)
	}
	return nil
}

func (l *Link) writeIndex(addr uint16) error {
	return l.frame([]byte{startIndex, byte(addr >> 8), byte(addr)})
}

func (l *Link) writeData(value uint16) error {
	return l.frame([]byte{startData, byte(value >> 8), byte(value)})
}

// frame sends b with chip select asserted. Chip select is released even if the transfer
// fails; the transfer error takes precedence.
func (l *Link) frame(b []byte) (err error) {
	if err = l.out(l.cs, active); err != nil {
		return
	}
	if _, err = l.bus.Write(b); err != nil {
		err = fmt.Errorf("%w: %w", ErrBusTransfer, err)
	}
	if csErr := l.out(l.cs, inactive); err == nil {
		err = csErr
	}
	return
}

func (l *Link) out(p gpio.PinOut, level gpio.Level) error {
	if err := p.Out(level); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrGPIO, p, err)
	}
	return nil
}
