package resource

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"

	"github.com/32bitkid/descent/decompression"
)

const (
	pcxMagic        = 0x0a
	pcxHeaderSize   = 128
	pcxPaletteMagic = 0x0c
	pcxPaletteSize  = 1 + colorTableSize
)

type pcxHeader struct {
	Manufacturer uint8
	Version      uint8
	Encoding     uint8
	BitsPerPixel uint8
	XMin, YMin   uint16
	XMax, YMax   uint16
	HDPI, VDPI   uint16
	Colormap     [48]uint8
	_            uint8
	Planes       uint8
	BytesPerLine uint16
	PaletteInfo  uint16
	HScreenSize  uint16
	VScreenSize  uint16
	_            [54]uint8
}

// DecodePCX decodes an 8-bit PCX image: either one plane of palette
// indices followed by the trailing 256-colour palette, or three planes of
// red, green and blue.
func DecodePCX(b []byte) (*image.RGBA, error) {
	var h pcxHeader
	if err := readFull(bytes.NewReader(b), binary.LittleEndian, &h); err != nil {
		return nil, err
	}

	switch {
	case h.Manufacturer != pcxMagic:
		return nil, formatError("not a PCX image")
	case h.BitsPerPixel != 8:
		return nil, formatError("unsupported PCX depth %d", h.BitsPerPixel)
	case h.Planes != 1 && h.Planes != 3:
		return nil, formatError("unsupported PCX plane count %d", h.Planes)
	case h.XMax < h.XMin || h.YMax < h.YMin:
		return nil, formatError("PCX window (%d,%d)-(%d,%d)", h.XMin, h.YMin, h.XMax, h.YMax)
	}

	width := int(h.XMax) - int(h.XMin) + 1
	height := int(h.YMax) - int(h.YMin) + 1
	bytesPerLine := int(h.BytesPerLine)
	if bytesPerLine < width {
		return nil, formatError("%d bytes per line for %d pixels", bytesPerLine, width)
	}

	body := b[pcxHeaderSize:]
	var pal []RGB
	if h.Planes == 1 {
		if len(body) < pcxPaletteSize || body[len(body)-pcxPaletteSize] != pcxPaletteMagic {
			return nil, formatError("missing 256-colour palette")
		}
		tail := body[len(body)-colorTableSize:]
		pal = make([]RGB, PaletteColors)
		for i := range pal {
			pal[i] = RGB{tail[i*3], tail[i*3+1], tail[i*3+2]}
		}
		body = body[:len(body)-pcxPaletteSize]
	}

	method := decompression.MethodPCX
	if h.Encoding == 0 {
		method = decompression.MethodNone
	}
	expand := decompression.Expanders[method]

	lineSize := bytesPerLine * int(h.Planes)
	if lineSize*height > decompression.MaxExpansion(method, len(body)) {
		return nil, fmt.Errorf("%w: %d byte body for %d scanlines of %d bytes", ErrTruncated, len(body), height, lineSize)
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	scanline := make([]byte, lineSize)
	for y, pos := 0, 0; y < height; y++ {
		n, err := expand(scanline, body[pos:])
		if err != nil {
			return nil, fmt.Errorf("scanline %d: %w", y, err)
		}
		pos += n

		for x := 0; x < width; x++ {
			o := img.PixOffset(x, y)
			if h.Planes == 1 {
				// The PCX palette holds full 8-bit values.
				c := pal[scanline[x]]
				img.Pix[o+0], img.Pix[o+1], img.Pix[o+2] = c.R, c.G, c.B
			} else {
				img.Pix[o+0] = scanline[x]
				img.Pix[o+1] = scanline[bytesPerLine+x]
				img.Pix[o+2] = scanline[2*bytesPerLine+x]
			}
			img.Pix[o+3] = 0xff
		}
	}

	return img, nil
}
