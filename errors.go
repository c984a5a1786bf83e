package ili9328

import "errors"

// Errors returned by the driver. Failures from the bus or the GPIO lines are wrapped, so
// both the sentinel below and the underlying cause match with errors.Is.
var (
	ErrBusOpen     = errors.New("ili9328: cannot open SPI bus")
	ErrBusTransfer = errors.New("ili9328: SPI transfer failed")
	ErrBusClose    = errors.New("ili9328: cannot close SPI bus")
	ErrGPIO        = errors.New("ili9328: GPIO line access failed")
	ErrInit        = errors.New("ili9328: initialization failed")
	ErrNotReady    = errors.New("ili9328: driver is not initialized")
	ErrClosed      = errors.New("ili9328: driver is closed")
	ErrBounds      = errors.New("ili9328: out of display bounds")
	ErrResetPin    = errors.New("ili9328: reset GPIO pin is invalid")
	ErrCSPin       = errors.New("ili9328: chip select GPIO pin is invalid")
)
