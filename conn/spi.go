// Package conn provides the serial bus used to talk to the display controller.
package conn

import (
	"errors"
	"fmt"
	"sync"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
)

// Bus defaults.
const (
	// DefaultSpeed is the clock used when none is requested.
	DefaultSpeed = 1 * physic.MegaHertz

	// MaxClock is the rate the connection is opened with. The effective clock is the
	// requested speed, applied to the port with LimitSpeed.
	MaxClock = 100 * physic.MegaHertz

	// Mode is SPI mode 3: clock idles high, data is sampled on the trailing edge.
	Mode = spi.Mode3

	// DefaultBatchSize is the largest single transfer when the port does not report
	// a limit. The Linux spidev driver defaults to a 4096 byte buffer.
	DefaultBatchSize = 4096
)

var errClosed = errors.New("conn: SPI bus is closed")

// SPI is a blocking SPI bus session. It is opened once and stays connected until Close.
type SPI struct {
	mu        sync.Mutex
	port      spi.PortCloser
	c         spi.Conn
	batchSize int
	speed     physic.Frequency // requested
	applied   physic.Frequency // in use by the port
	closed    bool
}

// OpenSPI opens the SPI port by its periph registry name, for example "SPI1.0" or "" for
// the first available port.
func OpenSPI(name string, speed physic.Frequency) (*SPI, error) {
	p, err := spireg.Open(name)
	if err != nil {
		return nil, err
	}
	s, err := NewSPI(p, speed)
	if err != nil {
		_ = p.Close()
		return nil, err
	}
	return s, nil
}

// NewSPI connects to an already opened port in mode 3 with 8 bits per word.
//
// The SPI takes ownership of p and closes it on Close. If an error is returned, p is
// left open for the caller.
func NewSPI(p spi.PortCloser, speed physic.Frequency) (*SPI, error) {
	if speed <= 0 {
		speed = DefaultSpeed
	}
	if err := p.LimitSpeed(speed); err != nil {
		return nil, err
	}
	c, err := p.Connect(MaxClock, Mode, 8)
	if err != nil {
		return nil, err
	}

	s := &SPI{
		port:      p,
		c:         c,
		batchSize: DefaultBatchSize,
		speed:     speed,
		applied:   speed,
	}
	if l, ok := c.(conn.Limits); ok {
		if n := l.MaxTxSize(); n > 0 {
			s.batchSize = n
		}
	}
	return s, nil
}

func (s *SPI) String() string {
	return fmt.Sprintf("%s (%s, %s)", s.port, Mode, s.Speed())
}

// Speed returns the requested bus clock.
func (s *SPI) Speed() physic.Frequency {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.speed
}

// SetMaxSpeed requests a new bus clock. It is applied before the next transfer. A zero
// or negative speed selects DefaultSpeed.
func (s *SPI) SetMaxSpeed(f physic.Frequency) {
	if f <= 0 {
		f = DefaultSpeed
	}
	s.mu.Lock()
	s.speed = f
	s.mu.Unlock()
}

// Write sends b in one or more transfers no larger than the port allows. The caller
// keeps chip select asserted for the whole buffer.
func (s *SPI) Write(b []byte) (n int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, errClosed
	}
	if s.speed != s.applied {
		if err = s.port.LimitSpeed(s.speed); err != nil {
			return 0, err
		}
		s.applied = s.speed
	}

	for len(b) > 0 {
		chunk := b
		if len(chunk) > s.batchSize {
			chunk = chunk[:s.batchSize]
		}
		if err = s.c.Tx(chunk, nil); err != nil {
			return
		}
		n += len(chunk)
		b = b[len(chunk):]
	}
	return
}

// Close releases the port. Closing twice is a no-op.
func (s *SPI) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.port.Close()
}
