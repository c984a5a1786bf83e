package ili9328

import (
	"errors"
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/physic"

	"github.com/BeatGlow/ili9328/emulator"
	"github.com/BeatGlow/ili9328/pixel"
)

func gradient(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: uint8(x + y), A: 0xff})
		}
	}
	return img
}

func TestNew(t *testing.T) {
	delays := stubSleep(t)
	r, cs, reset := newRecorder()
	d, err := New(r, &SPIConfig{SpeedHz: 2_000_000, CS: cs, Reset: reset})
	if err != nil {
		t.Fatal(err)
	}

	// Chip select goes idle before the reset pulse.
	want := []op{
		csOp(gpio.High),
		resetOp(gpio.High),
		resetOp(gpio.Low),
		resetOp(gpio.High),
	}
	if diff := cmp.Diff(r.ops[:len(want)], want); diff != "" {
		t.Errorf("New() trace (-got +want):\n%s", diff)
	}

	var regs []regWrite
	for _, s := range initSequence {
		regs = append(regs, regWrite{Reg: s.reg, Value: s.value})
	}
	if diff := cmp.Diff(registers(t, r.ops), regs); diff != "" {
		t.Errorf("New() registers (-got +want):\n%s", diff)
	}
	if n := len(regs); regs[n-1] != (regWrite{Reg: regDisplayControl1, Value: displayOn}) {
		t.Errorf("expected display on last, got %+v", regs[n-1])
	}

	wantDelays := []time.Duration{
		resetSetup, resetPulse, resetSettle,
		200 * time.Millisecond, 50 * time.Millisecond, 50 * time.Millisecond, 50 * time.Millisecond,
	}
	if diff := cmp.Diff(*delays, wantDelays); diff != "" {
		t.Errorf("New() delays (-got +want):\n%s", diff)
	}
	if diff := cmp.Diff(r.speeds, []physic.Frequency{2 * physic.MegaHertz}); diff != "" {
		t.Errorf("SetMaxSpeed() calls (-got +want):\n%s", diff)
	}
	if w, h := d.Size(); w != Width || h != Height {
		t.Errorf("expected %dx%d, got %dx%d", Width, Height, w, h)
	}
}

func TestNewConfig(t *testing.T) {
	stubSleep(t)
	r, cs, reset := newRecorder()
	for _, test := range []struct {
		name   string
		config *SPIConfig
		want   error
	}{
		{"nil", nil, ErrCSPin},
		{"no cs", &SPIConfig{Reset: reset}, ErrCSPin},
		{"invalid cs", &SPIConfig{CS: gpio.INVALID, Reset: reset}, ErrCSPin},
		{"no reset", &SPIConfig{CS: cs}, ErrResetPin},
		{"invalid reset", &SPIConfig{CS: cs, Reset: gpio.INVALID}, ErrResetPin},
	} {
		t.Run(test.name, func(t *testing.T) {
			if _, err := New(r, test.config); !errors.Is(err, test.want) {
				t.Errorf("expected %v, got %v", test.want, err)
			}
		})
	}
	if len(r.ops) != 0 {
		t.Errorf("expected no traffic for invalid configurations, got %v", r.ops)
	}
}

func TestNewFailure(t *testing.T) {
	stubSleep(t)
	r, cs, reset := newRecorder()
	r.failAt = 5

	d, err := New(r, &SPIConfig{CS: cs, Reset: reset})
	if d != nil {
		t.Error("expected no Dev on failure")
	}
	for _, want := range []error{ErrInit, ErrBusTransfer, errWrite} {
		if !errors.Is(err, want) {
			t.Errorf("expected %v in %v", want, err)
		}
	}
}

func TestNewSPIFailure(t *testing.T) {
	stubSleep(t)
	cs := &gpiotest.Pin{N: "CS", L: gpio.High}
	reset := &gpiotest.Pin{N: "RESET", L: gpio.High}

	t.Run("init", func(t *testing.T) {
		p := &failPort{}
		d, err := NewSPI(p, &SPIConfig{CS: cs, Reset: reset})
		if d != nil {
			t.Error("expected no Dev on failure")
		}
		for _, want := range []error{ErrInit, ErrBusTransfer, errWrite} {
			if !errors.Is(err, want) {
				t.Errorf("expected %v in %v", want, err)
			}
		}
		if p.closed != 1 {
			t.Errorf("expected port to be closed once, got %d", p.closed)
		}
	})

	t.Run("config", func(t *testing.T) {
		p := &failPort{}
		if _, err := NewSPI(p, &SPIConfig{Reset: reset}); !errors.Is(err, ErrCSPin) {
			t.Errorf("expected %v, got %v", ErrCSPin, err)
		}
		if p.closed != 1 {
			t.Errorf("expected port to be closed once, got %d", p.closed)
		}
	})
}

func TestInitFailureNotReady(t *testing.T) {
	stubSleep(t)
	r, cs, reset := newRecorder()
	r.failAt = 3
	d := newDev(NewLink(r, cs, reset), false)
	if err := d.init(); err == nil {
		t.Fatal("expected init to fail")
	}

	if err := d.DrawFull(gradient(2, 2)); !errors.Is(err, ErrNotReady) {
		t.Errorf("expected %v, got %v", ErrNotReady, err)
	}
	if err := d.Halt(); !errors.Is(err, ErrNotReady) {
		t.Errorf("expected %v, got %v", ErrNotReady, err)
	}
	if err := d.init(); !errors.Is(err, ErrNotReady) {
		t.Errorf("expected second init to fail with %v, got %v", ErrNotReady, err)
	}
}

func TestDrawRegion(t *testing.T) {
	tests := []struct {
		name string
		x, y int
		w, h int
		want []regWrite
	}{
		{
			"chart", 20, 100, 200, 150,
			[]regWrite{
				{Reg: regGRAMHorizontalAddress, Value: 20},
				{Reg: regGRAMVerticalAddress, Value: 100},
				{Reg: regHorizontalStart, Value: 20},
				{Reg: regVerticalStart, Value: 100},
				{Reg: regHorizontalEnd, Value: 219},
				{Reg: regVerticalEnd, Value: 249},
				{Reg: regWriteGRAM, Pixels: 200 * 150},
			},
		},
		{
			"full", 0, 0, Width, Height,
			[]regWrite{
				{Reg: regGRAMHorizontalAddress, Value: 0},
				{Reg: regGRAMVerticalAddress, Value: 0},
				{Reg: regHorizontalStart, Value: 0},
				{Reg: regVerticalStart, Value: 0},
				{Reg: regHorizontalEnd, Value: 239},
				{Reg: regVerticalEnd, Value: 319},
				{Reg: regWriteGRAM, Pixels: Width * Height},
			},
		},
		{
			// The window is clamped but the whole buffer is still streamed.
			"clamped", -5, 310, 50, 50,
			[]regWrite{
				{Reg: regGRAMHorizontalAddress, Value: 0},
				{Reg: regGRAMVerticalAddress, Value: 310},
				{Reg: regHorizontalStart, Value: 0},
				{Reg: regVerticalStart, Value: 310},
				{Reg: regHorizontalEnd, Value: 49},
				{Reg: regVerticalEnd, Value: 319},
				{Reg: regWriteGRAM, Pixels: 50 * 50},
			},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			d, r := newReady(t, false)
			if err := d.DrawRegion(test.x, test.y, gradient(test.w, test.h)); err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(registers(t, r.ops), test.want); diff != "" {
				t.Errorf("DrawRegion() registers (-got +want):\n%s", diff)
			}
		})
	}
}

func TestDrawRegionPixels(t *testing.T) {
	d, r := newReady(t, false)
	src := image.NewRGBA(image.Rect(0, 0, 2, 1))
	src.SetRGBA(0, 0, color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff})
	src.SetRGBA(1, 0, color.RGBA{R: 0x08, G: 0x04, B: 0x08, A: 0xff})
	if err := d.DrawRegion(0, 0, src); err != nil {
		t.Fatal(err)
	}
	last := r.ops[len(r.ops)-2]
	if diff := cmp.Diff(last.W, []byte{0x72, 0xff, 0xff, 0x08, 0x21}); diff != "" {
		t.Errorf("GRAM frame (-got +want):\n%s", diff)
	}
}

func TestDrawRegionEmpty(t *testing.T) {
	d, r := newReady(t, false)
	if err := d.DrawRegion(10, 10, image.NewRGBA(image.Rectangle{})); err != nil {
		t.Fatal(err)
	}
	if len(r.ops) != 0 {
		t.Errorf("expected no traffic, got %v", r.ops)
	}
}

func TestDrawRegionStrict(t *testing.T) {
	d, r := newReady(t, true)
	if err := d.DrawRegion(-5, 310, gradient(50, 50)); !errors.Is(err, ErrBounds) {
		t.Errorf("expected %v, got %v", ErrBounds, err)
	}
	if len(r.ops) != 0 {
		t.Errorf("expected no traffic, got %v", r.ops)
	}
	if err := d.DrawRegion(190, 270, gradient(50, 50)); err != nil {
		t.Errorf("expected draw at the edge to succeed, got %v", err)
	}
}

func TestDraw(t *testing.T) {
	d, r := newReady(t, false)
	// Only the top left 10x10 of the source fits on the panel.
	if err := d.Draw(image.Rect(230, 310, 250, 330), gradient(20, 20), image.Point{}); err != nil {
		t.Fatal(err)
	}
	want := []regWrite{
		{Reg: regGRAMHorizontalAddress, Value: 230},
		{Reg: regGRAMVerticalAddress, Value: 310},
		{Reg: regHorizontalStart, Value: 230},
		{Reg: regVerticalStart, Value: 310},
		{Reg: regHorizontalEnd, Value: 239},
		{Reg: regVerticalEnd, Value: 319},
		{Reg: regWriteGRAM, Pixels: 100},
	}
	if diff := cmp.Diff(registers(t, r.ops), want); diff != "" {
		t.Errorf("Draw() registers (-got +want):\n%s", diff)
	}
}

func TestSetBusSpeed(t *testing.T) {
	d, r := newReady(t, false)
	d.SetBusSpeed(8 * physic.MegaHertz)
	if n := len(r.speeds); n == 0 || r.speeds[n-1] != 8*physic.MegaHertz {
		t.Errorf("expected 8MHz to be requested, got %v", r.speeds)
	}
}

func TestSetBusSpeedDefault(t *testing.T) {
	d, r := newReady(t, false)
	for _, f := range []physic.Frequency{0, -1 * physic.MegaHertz} {
		d.SetBusSpeed(f)
		if n := len(r.speeds); r.speeds[n-1] != 1*physic.MegaHertz {
			t.Errorf("SetBusSpeed(%s): expected the default clock, got %v", f, r.speeds[n-1])
		}
	}
}

func TestCloseError(t *testing.T) {
	d, r := newReady(t, false)
	r.closeErr = errWrite
	err := d.Close()
	if !errors.Is(err, ErrBusClose) || !errors.Is(err, errWrite) {
		t.Errorf("expected %v wrapping %v, got %v", ErrBusClose, errWrite, err)
	}
	if errors.Is(err, ErrBusTransfer) {
		t.Errorf("expected a close failure not to be reported as a transfer, got %v", err)
	}
}

func TestClose(t *testing.T) {
	d, r := newReady(t, false)
	if err := d.Close(); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(registers(t, r.ops), []regWrite{{Reg: regDisplayControl1, Value: displayOff}}); diff != "" {
		t.Errorf("Close() registers (-got +want):\n%s", diff)
	}
	if err := d.Close(); err != nil {
		t.Errorf("expected second Close to succeed, got %v", err)
	}
	if r.closed != 1 {
		t.Errorf("expected bus to be closed once, got %d", r.closed)
	}
	if err := d.DrawFull(gradient(2, 2)); !errors.Is(err, ErrClosed) {
		t.Errorf("expected %v, got %v", ErrClosed, err)
	}
	if err := d.Halt(); !errors.Is(err, ErrClosed) {
		t.Errorf("expected %v, got %v", ErrClosed, err)
	}
}

func TestEmulator(t *testing.T) {
	stubSleep(t)
	p := emulator.New()
	d, err := NewSPI(p, &SPIConfig{SpeedHz: 2_000_000, CS: p.CS(), Reset: p.Reset()})
	if err != nil {
		t.Fatal(err)
	}
	if !p.DisplayOn() {
		t.Error("expected display to be on after init")
	}
	if n := p.Resets(); n != 1 {
		t.Errorf("expected 1 reset, got %d", n)
	}
	if v := p.Speed(); v != 2*physic.MegaHertz {
		t.Errorf("expected 2MHz, got %s", v)
	}

	src := gradient(200, 150)
	if err = d.DrawRegion(20, 100, src); err != nil {
		t.Fatal(err)
	}
	gram := p.GRAM()
	for _, pt := range []image.Point{{0, 0}, {199, 0}, {0, 149}, {199, 149}, {57, 83}} {
		c := src.RGBAAt(pt.X, pt.Y)
		want := pixel.FromRGB(c.R, c.G, c.B)
		if got := gram.RGB565At(pt.X+20, pt.Y+100); got != want {
			t.Errorf("expected %#04x at %s, got %#04x", want.V, pt.Add(image.Pt(20, 100)), got.V)
		}
	}
	if got := gram.RGB565At(19, 100); got != (pixel.RGB565{}) {
		t.Errorf("expected pixel left of the window to be untouched, got %#04x", got.V)
	}

	// A buffer hanging off the bottom wraps inside the clamped window: the last ten rows
	// of the buffer end up on screen.
	src = gradient(50, 50)
	if err = d.DrawRegion(-5, 310, src); err != nil {
		t.Fatal(err)
	}
	gram = p.GRAM()
	c := src.RGBAAt(3, 40)
	if got, want := gram.RGB565At(3, 310), pixel.FromRGB(c.R, c.G, c.B); got != want {
		t.Errorf("expected wrapped pixel %#04x, got %#04x", want.V, got.V)
	}

	d.SetBusSpeed(8 * physic.MegaHertz)
	if err = d.Halt(); err != nil {
		t.Fatal(err)
	}
	if v := p.Speed(); v != 8*physic.MegaHertz {
		t.Errorf("expected 8MHz after the next transfer, got %s", v)
	}
	if p.DisplayOn() {
		t.Error("expected display to be off after Halt")
	}

	if err = d.Close(); err != nil {
		t.Fatal(err)
	}
	if err = p.Err(); err != nil {
		t.Errorf("protocol errors: %v", err)
	}
}
