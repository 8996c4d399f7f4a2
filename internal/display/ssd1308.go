package display

import (
	"fmt"
	"io"

	"periph.io/x/conn/v3/i2c"
)

// I2C addresses selected by the SA0 pin.
const (
	PrimaryAddress   uint16 = 0x3C
	SecondaryAddress uint16 = 0x3D
)

// Geometry of the text grid.
const (
	Columns          = 16
	Rows             = 8
	HorizontalPixels = 128
)

// Control bytes and commands.
const (
	modeCommand byte = 0x00
	modeData    byte = 0x40

	cmdSetAddressMode  byte = 0x20
	cmdPageStart       byte = 0xB0
	cmdColumnLow       byte = 0x00
	cmdColumnHigh      byte = 0x10
	cmdSegmentRemap127 byte = 0xA1
	cmdDisplayRAM      byte = 0xA4
	cmdDisplayNormal   byte = 0xA6
	cmdDisplayInverse  byte = 0xA7
	cmdSetMultiplex    byte = 0xA8
	cmdSetIrefSel      byte = 0xAD
	cmdDisplayOff      byte = 0xAE
	cmdDisplayOn       byte = 0xAF
	cmdScrollActivate  byte = 0x2F
	cmdScrollStop      byte = 0x2E
	cmdBrightness      byte = 0x81
	cmdChargePump      byte = 0x8D
	cmdSetClockDiv     byte = 0xD5
	cmdSetVcomDeselect byte = 0xDB
	cmdSetPrecharge    byte = 0xD9

	irefExternal byte = 0x00
	vcom083      byte = 0x30
)

// AddressMode selects how the controller advances its RAM pointer.
type AddressMode byte

const (
	HorizontalMode AddressMode = 0x00
	VerticalMode   AddressMode = 0x01
	PageMode       AddressMode = 0x02
)

// HorizontalScroll is the horizontal scroll setup command.
type HorizontalScroll byte

const (
	ScrollRight HorizontalScroll = 0x26
	ScrollLeft  HorizontalScroll = 0x27
)

// VerticalScroll is the combined vertical and horizontal scroll setup command.
type VerticalScroll byte

const (
	ScrollVerticalRight VerticalScroll = 0x29
	ScrollVerticalLeft  VerticalScroll = 0x2A
)

// ScrollSpeed is the frame interval between scroll steps.
type ScrollSpeed byte

const (
	Scroll5Frames   ScrollSpeed = 0x0
	Scroll64Frames  ScrollSpeed = 0x1
	Scroll128Frames ScrollSpeed = 0x2
	Scroll256Frames ScrollSpeed = 0x3
	Scroll3Frames   ScrollSpeed = 0x4
	Scroll4Frames   ScrollSpeed = 0x5
	Scroll25Frames  ScrollSpeed = 0x6
	Scroll2Frames   ScrollSpeed = 0x7
)

// resetSequence is the power-up sequence for the LY190-128064 module.
var resetSequence = []byte{
	modeCommand,
	cmdDisplayOff,
	cmdSegmentRemap127,
	0xDA, 0x12, // alternative COM pins
	0xC8, // scan COM63..COM0
	cmdSetMultiplex, 0x3F,
	cmdSetClockDiv, 0x80,
	cmdBrightness, 0x50,
	cmdChargePump, 0x14,
	cmdSetPrecharge, 0x21,
	cmdSetAddressMode, byte(PageMode),
	cmdSetVcomDeselect, vcom083,
	cmdSetIrefSel, irefExternal,
	cmdDisplayRAM,
	cmdDisplayNormal,
	cmdScrollStop,
	cmdDisplayOn,
}

// SSD1308 is an OLED controller on an I2C bus.
type SSD1308 struct {
	dev    i2c.Dev
	mode   AddressMode
	closer io.Closer
}

// New resets the controller at addr on bus and clears the screen.
func New(bus i2c.Bus, addr uint16) (*SSD1308, error) {
	d := &SSD1308{
		dev:  i2c.Dev{Bus: bus, Addr: addr},
		mode: PageMode,
	}
	if err := d.send(resetSequence); err != nil {
		return nil, fmt.Errorf("reset display at %#x: %w", addr, err)
	}
	if err := d.ClearDisplay(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *SSD1308) send(b []byte) error {
	if err := d.dev.Tx(b, nil); err != nil {
		return fmt.Errorf("i2c write: %w", err)
	}
	return nil
}

func (d *SSD1308) command(cmd byte) error {
	return d.send([]byte{modeCommand, cmd})
}

func (d *SSD1308) commandParam(cmd, param byte) error {
	return d.send([]byte{modeCommand, cmd, param})
}

// SetAddressMode switches the RAM addressing mode. Text output needs PageMode.
func (d *SSD1308) SetAddressMode(mode AddressMode) error {
	if err := d.commandParam(cmdSetAddressMode, byte(mode)); err != nil {
		return err
	}
	d.mode = mode
	return nil
}

// AddressMode returns the last selected addressing mode.
func (d *SSD1308) AddressMode() AddressMode {
	return d.mode
}

// SetBrightness sets the contrast (0..255).
func (d *SSD1308) SetBrightness(brightness uint8) error {
	return d.commandParam(cmdBrightness, brightness)
}

// SetNormal shows lit dots for set RAM bits.
func (d *SSD1308) SetNormal() error {
	return d.command(cmdDisplayNormal)
}

// SetInverse shows lit dots for cleared RAM bits.
func (d *SSD1308) SetInverse() error {
	return d.command(cmdDisplayInverse)
}

// SetTextPos moves the cursor to column (0..15) and row (0..7).
func (d *SSD1308) SetTextPos(column, row uint8) error {
	return d.send([]byte{
		modeCommand,
		cmdPageStart + (row & 0x0F),
		cmdColumnLow + ((column << 3) & 0x0F),
		cmdColumnHigh + ((column >> 1) & 0x0F),
	})
}

// PutChar writes one glyph at the cursor. Characters outside the font
// render as a space.
func (d *SSD1308) PutChar(ch byte) error {
	g := glyph(ch)
	buf := make([]byte, 0, 1+glyphWidth)
	buf = append(buf, modeData)
	buf = append(buf, g[:]...)
	return d.send(buf)
}

// PutString writes s at the cursor.
func (d *SSD1308) PutString(s string) error {
	for i := 0; i < len(s); i++ {
		if err := d.PutChar(s[i]); err != nil {
			return err
		}
	}
	return nil
}

// ClearPos blanks length characters of row starting at column. A span
// running past the right edge is clipped to the row.
func (d *SSD1308) ClearPos(column, row uint8, length int) error {
	if length+int(column) > Columns {
		column %= Columns
		length = Columns - int(column)
	}
	if length < 1 {
		return nil
	}
	if err := d.SetTextPos(column, row); err != nil {
		return err
	}
	buf := make([]byte, length*glyphWidth+1)
	buf[0] = modeData
	return d.send(buf)
}

// ClearDisplay blanks the RAM and homes the cursor.
func (d *SSD1308) ClearDisplay() error {
	line := make([]byte, HorizontalPixels+1)
	line[0] = modeData
	for row := uint8(0); row < Rows; row++ {
		if err := d.SetTextPos(0, row); err != nil {
			return err
		}
		if err := d.send(line); err != nil {
			return err
		}
	}
	return d.SetTextPos(0, 0)
}

// SetHorizontalScroll configures a horizontal scroll over pages start..end.
func (d *SSD1308) SetHorizontalScroll(dir HorizontalScroll, startPage, endPage uint8, speed ScrollSpeed) error {
	if dir != ScrollLeft {
		dir = ScrollRight
	}
	return d.send([]byte{
		modeCommand,
		byte(dir),
		0x00,
		startPage & 0x07,
		byte(speed) & 0x07,
		endPage & 0x07,
		0x00,
		0xFF,
	})
}

// SetVerticalScroll configures a diagonal scroll over pages start..end with
// the given vertical offset per step.
func (d *SSD1308) SetVerticalScroll(dir VerticalScroll, startPage, endPage uint8, speed ScrollSpeed, offset uint8) error {
	if dir != ScrollVerticalRight {
		dir = ScrollVerticalLeft
	}
	return d.send([]byte{
		modeCommand,
		byte(dir),
		0x00,
		startPage & 0x07,
		byte(speed) & 0x07,
		endPage & 0x07,
		offset & 0x3F,
	})
}

// ActivateScroll starts the configured scroll.
func (d *SSD1308) ActivateScroll() error {
	return d.command(cmdScrollActivate)
}

// DeactivateScroll stops scrolling.
func (d *SSD1308) DeactivateScroll() error {
	return d.command(cmdScrollStop)
}

// Close releases the bus if the display owns it.
func (d *SSD1308) Close() error {
	if d.closer == nil {
		return nil
	}
	return d.closer.Close()
}
