package resource

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"strings"

	"github.com/32bitkid/bitreader"
)

// Font flags.
const (
	FontColor uint8 = 1 << iota
	FontProportional
	FontKerned
)

const (
	fontSignature  = "PSFN"
	fontHeaderSize = 28
	kernEnd        = 0xff
)

type Font struct {
	Width    int
	Height   int
	Flags    uint8
	Baseline int
	MinChar  uint8
	MaxChar  uint8
	Glyphs   []Glyph
	Kerning  []Kern
}

type Glyph struct {
	Width  int
	Height int
	Image  *image.RGBA
}

// Kern overrides the advance of First when it is followed by Second.
type Kern struct {
	First, Second uint8
	Width         uint8
}

func (f *Font) Glyph(ch uint8) (Glyph, bool) {
	if ch < f.MinChar || ch > f.MaxChar {
		return Glyph{}, false
	}
	return f.Glyphs[ch-f.MinChar], true
}

func (f *Font) IsColor() bool        { return f.Flags&FontColor != 0 }
func (f *Font) IsProportional() bool { return f.Flags&FontProportional != 0 }
func (f *Font) IsKerned() bool       { return f.Flags&FontKerned != 0 }

func (f *Font) String() string {
	return fmt.Sprintf("Font(%dx%d, %d-%d, color=%t proportional=%t kerned=%t)",
		f.Width, f.Height, f.MinChar, f.MaxChar, f.IsColor(), f.IsProportional(), f.IsKerned())
}

// fontHeader mirrors the in-memory font structure the game dumps to disk.
// The pointer fields are offsets from the start of the data block.
type fontHeader struct {
	Width        int16
	Height       int16
	Flags        int16
	Baseline     int16
	MinChar      uint8
	MaxChar      uint8
	ByteWidth    int16
	DataOffset   uint32
	CharsPointer uint32
	WidthsOffset uint32
	KernOffset   uint32
}

// DecodeFont decodes a PSFN bitmap font. Colour fonts are rendered
// through the palette stored after the font data; mono fonts become
// white glyphs on a transparent ground.
func DecodeFont(b []byte) (*Font, error) {
	if len(b) < 8 || string(b[0:4]) != fontSignature {
		return nil, formatError("missing %s signature", fontSignature)
	}
	dataSize := int64(binary.LittleEndian.Uint32(b[4:8]))
	if dataSize < fontHeaderSize || 8+dataSize > int64(len(b)) {
		return nil, fmt.Errorf("%w: font data of %d bytes in %d byte file", ErrTruncated, dataSize, len(b))
	}
	data := b[8 : 8+dataSize]

	var h fontHeader
	if err := readFull(bytes.NewReader(data), binary.LittleEndian, &h); err != nil {
		return nil, err
	}
	if h.MaxChar < h.MinChar {
		return nil, formatError("max char %d below min char %d", h.MaxChar, h.MinChar)
	}
	if h.Width < 0 || h.Height < 0 {
		return nil, formatError("glyph cell %dx%d", h.Width, h.Height)
	}

	font := &Font{
		Width:    int(h.Width),
		Height:   int(h.Height),
		Flags:    uint8(h.Flags),
		Baseline: int(h.Baseline),
		MinChar:  h.MinChar,
		MaxChar:  h.MaxChar,
	}
	count := int(h.MaxChar) - int(h.MinChar) + 1

	widths := make([]int, count)
	for i := range widths {
		widths[i] = font.Width
	}
	if font.IsProportional() {
		offset := int64(h.WidthsOffset)
		if offset+int64(count)*2 > dataSize {
			return nil, fmt.Errorf("%w: width table runs past font data", ErrTruncated)
		}
		for i := range widths {
			w := int16(binary.LittleEndian.Uint16(data[offset+int64(i)*2:]))
			if w < 0 {
				return nil, formatError("glyph %d has width %d", int(h.MinChar)+i, w)
			}
			widths[i] = int(w)
		}
	}

	var pal []RGB
	if font.IsColor() {
		start := 8 + dataSize
		if start+colorTableSize > int64(len(b)) {
			return nil, fmt.Errorf("%w: colour font without palette", ErrTruncated)
		}
		pal = make([]RGB, PaletteColors)
		for i := range pal {
			c := b[start+int64(i)*3:]
			pal[i] = RGB{c[0], c[1], c[2]}
		}
	}

	offset := int64(h.DataOffset)
	font.Glyphs = make([]Glyph, count)
	for i, w := range widths {
		var size int64
		if font.IsColor() {
			size = int64(w) * int64(font.Height)
		} else {
			size = int64((w+7)>>3) * int64(font.Height)
		}
		if offset+size > dataSize {
			return nil, fmt.Errorf("%w: glyph %d runs past font data", ErrTruncated, int(h.MinChar)+i)
		}

		var (
			img *image.RGBA
			err error
		)
		if font.IsColor() {
			img = colorGlyph(data[offset:offset+size], w, font.Height, pal)
		} else {
			img, err = monoGlyph(data[offset:offset+size], w, font.Height)
			if err != nil {
				return nil, fmt.Errorf("glyph %d: %w", int(h.MinChar)+i, err)
			}
		}
		font.Glyphs[i] = Glyph{Width: w, Height: font.Height, Image: img}
		offset += size
	}

	if font.IsKerned() && h.KernOffset != 0 {
		kerning, err := readKerning(data, int64(h.KernOffset))
		if err != nil {
			return nil, err
		}
		font.Kerning = kerning
	}

	return font, nil
}

func colorGlyph(pixels []byte, width, height int, pal []RGB) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i, c := range pixels {
		if c == TransparentIndex {
			continue
		}
		rgb := pal[c]
		o := i * 4
		img.Pix[o+0] = vga(rgb.R)
		img.Pix[o+1] = vga(rgb.G)
		img.Pix[o+2] = vga(rgb.B)
		img.Pix[o+3] = 0xff
	}
	return img
}

// monoGlyph expands a 1-bit glyph. Rows are padded to whole bytes and
// the most significant bit is the leftmost pixel.
func monoGlyph(bits []byte, width, height int) (*image.RGBA, error) {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	stride := (width + 7) >> 3
	for y := 0; y < height; y++ {
		br := bitreader.NewReader(bytes.NewReader(bits[y*stride : (y+1)*stride]))
		for x := 0; x < width; x++ {
			set, err := br.Read1()
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
			}
			if set {
				o := img.PixOffset(x, y)
				img.Pix[o+0] = 0xff
				img.Pix[o+1] = 0xff
				img.Pix[o+2] = 0xff
				img.Pix[o+3] = 0xff
			}
		}
	}
	return img, nil
}

func readKerning(data []byte, offset int64) ([]Kern, error) {
	var kerning []Kern
	for {
		if offset >= int64(len(data)) {
			return nil, fmt.Errorf("%w: unterminated kerning table", ErrTruncated)
		}
		if data[offset] == kernEnd {
			return kerning, nil
		}
		if offset+3 > int64(len(data)) {
			return nil, fmt.Errorf("%w: kerning entry runs past font data", ErrTruncated)
		}
		kerning = append(kerning, Kern{
			First:  data[offset],
			Second: data[offset+1],
			Width:  data[offset+2],
		})
		offset += 3
	}
}

// Preview renders the glyph as text, one rune per pixel.
func (g Glyph) Preview() string {
	var sb strings.Builder
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			if g.Image.Pix[g.Image.PixOffset(x, y)+3] != 0 {
				sb.WriteRune('█')
			} else {
				sb.WriteByte(' ')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
