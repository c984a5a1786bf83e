package ili9328

import (
	"errors"
	"testing"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spitest"
)

var errWrite = errors.New("write failed")

// op is a line change or a bus write, in the order the driver issued them.
type op struct {
	Line  string
	Level gpio.Level
	W     []byte
}

func csOp(l gpio.Level) op    { return op{Line: "CS", Level: l} }
func resetOp(l gpio.Level) op { return op{Line: "RESET", Level: l} }

// recorder is a Bus that shares a single trace with its lines.
type recorder struct {
	ops      []op
	speeds   []physic.Frequency
	closed   int
	closeErr error
	writes   int
	failAt   int // fail the n-th write when > 0
}

func (r *recorder) String() string {
	return "recorder"
}

func (r *recorder) Write(b []byte) (int, error) {
	r.writes++
	if r.writes == r.failAt {
		return 0, errWrite
	}
	r.ops = append(r.ops, op{W: append([]byte(nil), b...)})
	return len(b), nil
}

func (r *recorder) SetMaxSpeed(f physic.Frequency) {
	r.speeds = append(r.speeds, f)
}

func (r *recorder) Close() error {
	r.closed++
	return r.closeErr
}

// reset forgets the recorded trace.
func (r *recorder) reset() {
	r.ops = nil
}

type line struct {
	gpiotest.Pin
	r *recorder
}

func (l *line) Out(level gpio.Level) error {
	if err := l.Pin.Out(level); err != nil {
		return err
	}
	l.r.ops = append(l.r.ops, op{Line: l.N, Level: level})
	return nil
}

func newRecorder() (r *recorder, cs, reset *line) {
	r = new(recorder)
	cs = &line{Pin: gpiotest.Pin{N: "CS", Num: -1}, r: r}
	reset = &line{Pin: gpiotest.Pin{N: "RESET", Num: -1}, r: r}
	return
}

// newReady returns an initialized Dev with an empty trace.
func newReady(t *testing.T, strict bool) (*Dev, *recorder) {
	t.Helper()
	stubSleep(t)
	r, cs, reset := newRecorder()
	d := newDev(NewLink(r, cs, reset), strict)
	if err := d.init(); err != nil {
		t.Fatal(err)
	}
	r.reset()
	return d, r
}

// stubSleep records delays instead of waiting.
func stubSleep(t *testing.T) *[]time.Duration {
	t.Helper()
	var delays []time.Duration
	old := sleep
	sleep = func(d time.Duration) {
		delays = append(delays, d)
	}
	t.Cleanup(func() {
		sleep = old
	})
	return &delays
}

type regWrite struct {
	Reg    uint16
	Value  uint16
	Pixels int
}

// registers decodes the frames in ops into register writes. GRAM writes report the
// number of pixels streamed.
func registers(t *testing.T, ops []op) []regWrite {
	t.Helper()
	var (
		out   []regWrite
		index uint16
	)
	for _, o := range ops {
		if o.W == nil {
			continue
		}
		switch o.W[0] {
		case startIndex:
			index = uint16(o.W[1])<<8 | uint16(o.W[2])
		case startData:
			if index == regWriteGRAM {
				out = append(out, regWrite{Reg: index, Pixels: (len(o.W) - 1) / 2})
			} else {
				out = append(out, regWrite{Reg: index, Value: uint16(o.W[1])<<8 | uint16(o.W[2])})
			}
		default:
			t.Fatalf("unexpected start byte %#02x", o.W[0])
		}
	}
	return out
}

// failPort is an SPI port whose transfers fail.
type failPort struct {
	spitest.Record
	closed int
}

func (p *failPort) Connect(f physic.Frequency, mode spi.Mode, bits int) (spi.Conn, error) {
	if _, err := p.Record.Connect(f, mode, bits); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *failPort) Tx(w, r []byte) error {
	return errWrite
}

// TxPackets implements spi.Conn.
func (p *failPort) TxPackets(_ []spi.Packet) error {
	return errWrite
}

// Duplex implements conn.Conn.
func (p *failPort) Duplex() conn.Duplex {
	return conn.Half
}

func (p *failPort) Close() error {
	p.closed++
	return p.Record.Close()
}
