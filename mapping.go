package descent

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"

	"github.com/32bitkid/descent/resource"
	"github.com/32bitkid/descent/screen"
)

var (
	ErrNoPalette    = errors.New("no palette selected")
	ErrNoDimensions = errors.New("no dimension metadata")
)

// Entry is a named file inside an archive. Bitmaps read from a PIG also
// carry the header describing how to decode them.
type Entry struct {
	Name  string
	Bytes []byte
	Image *ImageDescriptor
}

func (e Entry) Type() resource.Type { return resource.TypeOf(e.Name) }

// DecodeOptions carries the side inputs some decoders need.
type DecodeOptions struct {
	// Palette renders PIG bitmaps, which do not embed one.
	Palette color.Palette
	// SampleRate is applied to headerless sounds. Zero selects
	// resource.DefaultSampleRate.
	SampleRate int
}

// Content is a decoded entry. Exactly one of Image, Text or Audio is
// set; Font and Palette accompany the preview Image of those types.
type Content struct {
	Type    resource.Type
	Info    string
	Image   *image.RGBA
	Text    string
	Audio   []byte
	Font    *resource.Font
	Palette *resource.Palette
}

// Decode dispatches the entry to the decoder for its extension. Entries
// without a decoder come back as a hex dump.
func (e Entry) Decode(opts DecodeOptions) (*Content, error) {
	t := e.Type()
	c := &Content{Type: t}

	if len(e.Bytes) == 0 {
		c.Text = "(empty file)"
		return c, nil
	}

	switch t {
	case resource.TypeBitmap:
		return e.decodeBitmap(c, opts)
	case resource.TypePCX:
		img, err := resource.DecodePCX(e.Bytes)
		if err != nil {
			return nil, err
		}
		c.Image = img
		c.Info = fmt.Sprintf("PCX Image: %dx%d", img.Rect.Dx(), img.Rect.Dy())
	case resource.TypeImage:
		src, format, err := image.Decode(bytes.NewReader(e.Bytes))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", resource.ErrFormat, err)
		}
		c.Image = toRGBA(src)
		c.Info = fmt.Sprintf("%s Image: %dx%d", format, c.Image.Rect.Dx(), c.Image.Rect.Dy())
	case resource.TypePalette:
		pal, err := resource.DecodePalette(e.Bytes)
		if err != nil {
			return nil, err
		}
		c.Palette = pal
		c.Image = screen.Swatches(pal.ColorPalette())
		c.Info = fmt.Sprintf("256-Color Palette: %d bytes", len(e.Bytes))
	case resource.TypeFont:
		font, err := resource.DecodeFont(e.Bytes)
		if err != nil {
			return nil, err
		}
		c.Font = font
		c.Image = screen.GlyphSheet(font)
		c.Info = font.String()
	case resource.TypeRaw:
		c.Audio = resource.WrapRaw(e.Bytes, opts.SampleRate)
		c.Info = fmt.Sprintf("RAW Audio File (%d bytes, converted to WAV)", len(e.Bytes))
	case resource.TypeWAV:
		c.Audio = append([]byte(nil), e.Bytes...)
		c.Info = fmt.Sprintf("WAV Audio File (%d bytes)", len(e.Bytes))
	case resource.TypeMIDI:
		c.Audio = append([]byte(nil), e.Bytes...)
		c.Info = fmt.Sprintf("MIDI File (%d bytes)", len(e.Bytes))
	case resource.TypeTXB:
		text, err := resource.DecodeTXB(e.Bytes)
		if err != nil {
			return nil, err
		}
		c.Text = text
	case resource.TypeText:
		text, err := resource.DecodeText(e.Bytes)
		if err != nil {
			return nil, err
		}
		c.Text = text.String()
		c.Info = fmt.Sprintf("Text File (%d lines)", len(text))
	default:
		c.Text = resource.HexDump(e.Bytes, e.Name)
	}

	return c, nil
}

func (e Entry) decodeBitmap(c *Content, opts DecodeOptions) (*Content, error) {
	if resource.IsIFF(e.Bytes) {
		img, err := resource.DecodeIFF(e.Bytes)
		if err != nil {
			return nil, err
		}
		c.Image = img
		c.Info = fmt.Sprintf("IFF Image: %dx%d", img.Rect.Dx(), img.Rect.Dy())
		return c, nil
	}

	d := e.Image
	switch {
	case d == nil || (d.Width == 0 && d.Height == 0):
		return nil, fmt.Errorf("%s: %w", e.Name, ErrNoDimensions)
	case opts.Palette == nil:
		return nil, fmt.Errorf("%s: %w", e.Name, ErrNoPalette)
	}

	img, err := resource.DecodeBitmap(e.Bytes, int(d.Width), int(d.Height), opts.Palette, d.RLE, d.Flags)
	if err != nil {
		return nil, err
	}
	c.Image = img
	c.Info = fmt.Sprintf("BBM Image: %dx%d", d.Width, d.Height)
	if d.RLE {
		c.Info += " (RLE)"
	}
	return c, nil
}

func toRGBA(src image.Image) *image.RGBA {
	if img, ok := src.(*image.RGBA); ok && img.Rect.Min == (image.Point{}) {
		return img
	}
	b := src.Bounds()
	img := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(img, img.Rect, src, b.Min, draw.Src)
	return img
}
