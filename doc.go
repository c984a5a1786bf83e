// Package ili9328 drives a 240x320 ILI9328 TFT controller over its serial interface.
//
// The controller is accessed through index and data frames on an SPI bus in mode 3,
// with chip select and reset on two GPIO lines. Images are converted to RGB565 and
// written to a rectangular GRAM window, so only the region that changed has to be
// transferred:
//
//	if _, err := host.Init(); err != nil {
//		log.Fatal(err)
//	}
//	dev, err := ili9328.Open(&ili9328.SPIConfig{
//		Bus:     "SPI1.0",
//		SpeedHz: 1_000_000,
//		CS:      gpioreg.ByName("GPIO22"),
//		Reset:   gpioreg.ByName("GPIO23"),
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer dev.Close()
//	err = dev.DrawRegion(20, 100, chart)
//
// Set ILI9328_DEBUG in the environment to log controller traffic.
package ili9328
