package resource

import (
	"bytes"
	"encoding/binary"
	"image/color"
)

const (
	PaletteColors = 256
	FadeLevels    = 34

	colorTableSize = PaletteColors * 3
	fadeTableSize  = FadeLevels * PaletteColors

	// PaletteFileSize is the size of a .256 file: the colour table
	// followed by the fade table.
	PaletteFileSize = colorTableSize + fadeTableSize
)

// RGB is a colour table entry as stored on disk: 6-bit VGA DAC values.
type RGB struct {
	R, G, B uint8
}

func (c RGB) RGBA() (r, g, b, a uint32) {
	return color.RGBA{vga(c.R), vga(c.G), vga(c.B), 0xff}.RGBA()
}

type Palette struct {
	Colors [PaletteColors]RGB
	// Fade maps (level, index) to the index to draw at that light level.
	Fade [fadeTableSize]uint8
}

// vga widens a 6-bit DAC value to 8 bits.
func vga(v uint8) uint8 {
	v &= 0x3f
	return v<<2 | v>>4
}

func DecodePalette(b []byte) (*Palette, error) {
	if len(b) < PaletteFileSize {
		return nil, formatError("palette is %d bytes, need %d", len(b), PaletteFileSize)
	}

	var p Palette
	if err := readFull(bytes.NewReader(b), binary.LittleEndian, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (p *Palette) Encode() []byte {
	var buf bytes.Buffer
	buf.Grow(PaletteFileSize)
	// Writes to a bytes.Buffer cannot fail.
	_ = binary.Write(&buf, binary.LittleEndian, p)
	return buf.Bytes()
}

// Color returns entry i widened to 8 bits per channel.
func (p *Palette) Color(i uint8) color.RGBA {
	c := p.Colors[i]
	return color.RGBA{vga(c.R), vga(c.G), vga(c.B), 0xff}
}

func (p *Palette) ColorPalette() color.Palette {
	pal := make(color.Palette, PaletteColors)
	for i := range pal {
		pal[i] = p.Color(uint8(i))
	}
	return pal
}

// Shade looks up the index to draw for colour i at the given light level.
// Level 0 is darkest; out-of-range levels are clamped.
func (p *Palette) Shade(i uint8, level int) uint8 {
	if level < 0 {
		level = 0
	}
	if level >= FadeLevels {
		level = FadeLevels - 1
	}
	return p.Fade[level*PaletteColors+int(i)]
}
