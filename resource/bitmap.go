package resource

import (
	"encoding/binary"
	"fmt"
	"image"
	"image/color"

	"github.com/32bitkid/descent/decompression"
)

// Bitmap flags as stored in PIG bitmap headers.
const (
	FlagTransparent uint8 = 1 << iota
	FlagSuperTransparent
	FlagNoLighting
	FlagRLE
	FlagPagedOut
	FlagRLEBig
)

const (
	// TransparentIndex is never drawn.
	TransparentIndex = 255
	// SuperTransparentIndex is only skipped when FlagSuperTransparent is set.
	SuperTransparentIndex = 254
)

// DecodeBitmap converts a palette-indexed PIG bitmap into RGBA pixels.
//
// When rle is set the payload is laid out as:
//
//	uint32       | total payload size
//	height bytes | per-line compressed sizes (uint16 each with FlagRLEBig)
//	...          | RLE scanlines
func DecodeBitmap(payload []byte, width, height int, pal color.Palette, rle bool, flags uint8) (*image.RGBA, error) {
	indices, err := BitmapIndices(payload, width, height, rle, flags)
	if err != nil {
		return nil, err
	}
	return colorize(indices, width, height, pal, flags)
}

// BitmapIndices returns the raw palette indices of a PIG bitmap,
// expanding them first if the payload is compressed.
func BitmapIndices(payload []byte, width, height int, rle bool, flags uint8) ([]uint8, error) {
	if width < 0 || height < 0 {
		return nil, formatError("bitmap dimensions %dx%d", width, height)
	}
	total := width * height

	if !rle {
		if len(payload) < total {
			return nil, fmt.Errorf("%w: bitmap has %d of %d pixels", ErrTruncated, len(payload), total)
		}
		indices := make([]uint8, total)
		copy(indices, payload)
		return indices, nil
	}

	big := flags&FlagRLEBig != 0
	size, err := decompression.RLESize(payload, height, big)
	if err != nil {
		return nil, err
	}

	lineSizes := make([]int, height)
	offset := 4
	for y := range lineSizes {
		if big {
			lineSizes[y] = int(binary.LittleEndian.Uint16(payload[offset:]))
			offset += 2
		} else {
			lineSizes[y] = int(payload[offset])
			offset++
		}
	}

	for y, pos := 0, offset; y < height; y++ {
		if pos+lineSizes[y] > size {
			return nil, fmt.Errorf("%w: scanline %d runs past payload", ErrTruncated, y)
		}
		if width > decompression.MaxExpansion(decompression.MethodRLE, lineSizes[y]) {
			return nil, fmt.Errorf("%w: %d byte scanline %d cannot hold %d pixels", ErrCorrupt, lineSizes[y], y, width)
		}
		pos += lineSizes[y]
	}

	indices := make([]uint8, total)
	written := 0
	for y, lineSize := range lineSizes {
		row := indices[y*width : (y+1)*width]
		n, _, err := decompression.ExpandRLELine(row, payload[offset:offset+lineSize])
		if err != nil {
			return nil, fmt.Errorf("scanline %d: %w", y, err)
		}
		if n != width {
			return nil, fmt.Errorf("%w: scanline %d expanded to %d of %d pixels", ErrCorrupt, y, n, width)
		}
		written += n
		offset += lineSize
	}

	if written != total {
		return nil, fmt.Errorf("%w: expanded %d of %d pixels", ErrCorrupt, written, total)
	}
	return indices, nil
}

func colorize(indices []uint8, width, height int, pal color.Palette, flags uint8) (*image.RGBA, error) {
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	for i, c := range indices {
		switch {
		case c == TransparentIndex:
			continue
		case c == SuperTransparentIndex && flags&FlagSuperTransparent != 0:
			continue
		case int(c) >= len(pal):
			return nil, fmt.Errorf("%w: index %d outside %d colour palette", ErrCorrupt, c, len(pal))
		}

		r, g, b, _ := pal[c].RGBA()
		o := i * 4
		img.Pix[o+0] = uint8(r >> 8)
		img.Pix[o+1] = uint8(g >> 8)
		img.Pix[o+2] = uint8(b >> 8)
		img.Pix[o+3] = 0xff
	}

	return img, nil
}

// EncodeBitmap builds a PIG bitmap payload from palette indices. It
// returns the payload together with the compression flags to store in
// the bitmap header.
func EncodeBitmap(indices []uint8, width, height int, rle bool) ([]byte, uint8, error) {
	if width < 0 || height < 0 || len(indices) != width*height {
		return nil, 0, formatError("%d indices for a %dx%d bitmap", len(indices), width, height)
	}

	if !rle {
		payload := make([]byte, len(indices))
		copy(payload, indices)
		return payload, 0, nil
	}

	lines := make([][]byte, height)
	big := false
	for y := range lines {
		lines[y] = decompression.CompressRLELine(nil, indices[y*width:(y+1)*width])
		if len(lines[y]) > 0xff {
			big = true
		}
	}

	flags := FlagRLE
	tableSize := height
	if big {
		flags |= FlagRLEBig
		tableSize *= 2
	}

	payload := make([]byte, 4+tableSize)
	offset := 4
	for _, line := range lines {
		if big {
			binary.LittleEndian.PutUint16(payload[offset:], uint16(len(line)))
			offset += 2
		} else {
			payload[offset] = uint8(len(line))
			offset++
		}
	}
	for _, line := range lines {
		payload = append(payload, line...)
	}
	binary.LittleEndian.PutUint32(payload, uint32(len(payload)))

	return payload, flags, nil
}
