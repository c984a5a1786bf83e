package ili9328

import "time"

// Registers (from the ILI9328 datasheet).
const (
	regDriverCode                   = 0x00
	regDriverOutputControl1         = 0x01 // SM, SS
	regLCDDrivingControl            = 0x02
	regEntryMode                    = 0x03 // TRI, DFM, BGR, ORG, I/D[1:0], AM
	regResizeControl                = 0x04
	regDisplayControl1              = 0x07 // PTDE, BASEE, GON, DTE, CL, D[1:0]
	regDisplayControl2              = 0x08 // front and back porch
	regDisplayControl3              = 0x09 // non-display area refresh cycle
	regDisplayControl4              = 0x0A // FMARK
	regRGBDisplayInterfaceControl1  = 0x0C
	regFrameMarkerPosition          = 0x0D
	regRGBDisplayInterfaceControl2  = 0x0F
	regPowerControl1                = 0x10 // SAP, BT[3:0], AP[2:0], DSTB, SLP, STB
	regPowerControl2                = 0x11 // DC1[2:0], DC0[2:0], VC[2:0]
	regPowerControl3                = 0x12 // VREG1OUT
	regPowerControl4                = 0x13 // VDV[4:0]
	regGRAMHorizontalAddress        = 0x20
	regGRAMVerticalAddress          = 0x21
	regWriteGRAM                    = 0x22
	regPowerControl7                = 0x29 // VCM[5:0]
	regFrameRateColorControl        = 0x2B
	regGammaControl1                = 0x30
	regGammaControl2                = 0x31
	regGammaControl3                = 0x32
	regGammaControl4                = 0x35
	regGammaControl5                = 0x36
	regGammaControl6                = 0x37
	regGammaControl7                = 0x38
	regGammaControl8                = 0x39
	regGammaControl9                = 0x3C
	regGammaControl10               = 0x3D
	regHorizontalStart              = 0x50
	regHorizontalEnd                = 0x51
	regVerticalStart                = 0x52
	regVerticalEnd                  = 0x53
	regDriverOutputControl2         = 0x60 // GS, NL[5:0], SCN[5:0]
	regBaseImageDisplayControl      = 0x61 // NDL, VLE, REV
	regVerticalScrollControl        = 0x6A
	regPartialImage1DisplayPosition = 0x80
	regPartialImage1AreaStart       = 0x81
	regPartialImage1AreaEnd         = 0x82
	regPartialImage2DisplayPosition = 0x83
	regPartialImage2AreaStart       = 0x84
	regPartialImage2AreaEnd         = 0x85
	regPanelInterfaceControl1       = 0x90
	regPanelInterfaceControl2       = 0x92
)

// Display control 1 values.
const (
	displayOff = 0x0000
	displayOn  = 0x0133 // BASEE, GON, DTE, D[1:0]: 262K color, display on
)

// step is one register write of the power-on sequence, optionally followed by a delay.
type step struct {
	reg   uint16
	value uint16
	delay time.Duration
}

// initSequence powers the panel up. Order and delays are part of the power supply
// sequencing of the part and must not be changed.
var initSequence = []step{
	{reg: regDriverOutputControl1, value: 0x0100}, // SS=1: source output shift S720 to S1
	{reg: regLCDDrivingControl, value: 0x0700},    // line inversion
	{reg: regEntryMode, value: 0x1030},            // BGR=1, I/D=11: increment horizontally then vertically
	{reg: regResizeControl, value: 0x0000},
	{reg: regDisplayControl2, value: 0x0207}, // back porch 2 lines, front porch 7 lines
	{reg: regDisplayControl3, value: 0x0000},
	{reg: regDisplayControl4, value: 0x0000},
	{reg: regRGBDisplayInterfaceControl1, value: 0x0000},
	{reg: regFrameMarkerPosition, value: 0x0000},
	{reg: regRGBDisplayInterfaceControl2, value: 0x0000},

	// Power on sequence.
	{reg: regPowerControl1, value: 0x0000},
	{reg: regPowerControl2, value: 0x0007},
	{reg: regPowerControl3, value: 0x0000},
	{reg: regPowerControl4, value: 0x0000},
	{reg: regDisplayControl1, value: 0x0001, delay: 200 * time.Millisecond}, // discharge capacitor power voltage
	{reg: regPowerControl1, value: 0x1490},
	{reg: regPowerControl2, value: 0x0227, delay: 50 * time.Millisecond},
	{reg: regPowerControl3, value: 0x001C, delay: 50 * time.Millisecond}, // internal reference voltage = Vci
	{reg: regPowerControl4, value: 0x1A00},                               // VDV for VCOM amplitude
	{reg: regPowerControl7, value: 0x0025},                               // VCM for VCOMH
	{reg: regFrameRateColorControl, value: 0x000C, delay: 50 * time.Millisecond},
	{reg: regGRAMHorizontalAddress, value: 0x0000},
	{reg: regGRAMVerticalAddress, value: 0x0000},

	// Gamma curve.
	{reg: regGammaControl1, value: 0x0000},
	{reg: regGammaControl2, value: 0x0506},
	{reg: regGammaControl3, value: 0x0104},
	{reg: regGammaControl4, value: 0x0207},
	{reg: regGammaControl5, value: 0x000F},
	{reg: regGammaControl6, value: 0x0306},
	{reg: regGammaControl7, value: 0x0102},
	{reg: regGammaControl8, value: 0x0707},
	{reg: regGammaControl9, value: 0x0702},
	{reg: regGammaControl10, value: 0x1604},

	// Full panel GRAM window.
	{reg: regHorizontalStart, value: 0x0000},
	{reg: regHorizontalEnd, value: Width - 1},
	{reg: regVerticalStart, value: 0x0000},
	{reg: regVerticalEnd, value: Height - 1},
	{reg: regDriverOutputControl2, value: 0xA700}, // GS=1, 320 lines
	{reg: regBaseImageDisplayControl, value: 0x0001},
	{reg: regVerticalScrollControl, value: 0x0000},

	// Partial display control.
	{reg: regPartialImage1DisplayPosition, value: 0x0000},
	{reg: regPartialImage1AreaStart, value: 0x0000},
	{reg: regPartialImage1AreaEnd, value: 0x0000},
	{reg: regPartialImage2DisplayPosition, value: 0x0000},
	{reg: regPartialImage2AreaStart, value: 0x0000},
	{reg: regPartialImage2AreaEnd, value: 0x0000},

	// Panel control.
	{reg: regPanelInterfaceControl1, value: 0x0010},
	{reg: regPanelInterfaceControl2, value: 0x0600},

	{reg: regDisplayControl1, value: displayOn},
}
