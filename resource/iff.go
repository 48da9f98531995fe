package resource

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/color"

	"github.com/32bitkid/bitreader"
	"github.com/32bitkid/descent/decompression"
)

// IFF images (Deluxe Paint BBM/LBM) carry their own dimensions and
// colour map, so unlike PIG bitmaps they need no external palette.
//
// All IFF integers are big-endian and every chunk is padded to an even
// length.

const (
	iffForm = "FORM"
	iffPBM  = "PBM "
	iffILBM = "ILBM"

	chunkBMHD = "BMHD"
	chunkCMAP = "CMAP"
	chunkBODY = "BODY"
)

const (
	maskNone             = 0
	maskHasMask          = 1
	maskTransparentColor = 2
)

type bitmapHeader struct {
	Width, Height    uint16
	X, Y             int16
	Planes           uint8
	Masking          uint8
	Compression      uint8
	_                uint8
	TransparentColor uint16
	XAspect, YAspect uint8
	PageWidth        int16
	PageHeight       int16
}

// IsIFF reports whether b starts with an IFF FORM holding a PBM or ILBM
// image. Both IFF files and PIG bitmaps use the .bbm extension, so this
// must be checked before choosing a decoder.
func IsIFF(b []byte) bool {
	if len(b) < 12 || string(b[0:4]) != iffForm {
		return false
	}
	form := string(b[8:12])
	return form == iffPBM || form == iffILBM
}

// DecodeIFF decodes a self-describing PBM or ILBM image.
func DecodeIFF(b []byte) (*image.RGBA, error) {
	if !IsIFF(b) {
		return nil, formatError("not an IFF PBM/ILBM image")
	}

	formSize := int64(binary.BigEndian.Uint32(b[4:8]))
	end := int64(len(b))
	if 8+formSize < end {
		end = 8 + formSize
	}
	planar := string(b[8:12]) == iffILBM

	var (
		header  *bitmapHeader
		cmap    color.Palette
		body    []byte
		hasBody bool
	)

	for pos := int64(12); pos+8 <= end; {
		id := string(b[pos : pos+4])
		size := int64(binary.BigEndian.Uint32(b[pos+4 : pos+8]))
		start := pos + 8
		if start+size > end {
			return nil, fmt.Errorf("%w: chunk %q runs past end of form", ErrTruncated, id)
		}
		data := b[start : start+size]

		switch id {
		case chunkBMHD:
			var h bitmapHeader
			if err := readFull(bytes.NewReader(data), binary.BigEndian, &h); err != nil {
				return nil, fmt.Errorf("BMHD: %w", err)
			}
			header = &h
		case chunkCMAP:
			cmap = make(color.Palette, len(data)/3)
			for i := range cmap {
				cmap[i] = color.RGBA{data[i*3], data[i*3+1], data[i*3+2], 0xff}
			}
		case chunkBODY:
			body = data
			hasBody = true
		}

		pos = start + size + size&1
	}

	switch {
	case header == nil:
		return nil, formatError("missing BMHD chunk")
	case !hasBody:
		return nil, formatError("missing BODY chunk")
	case cmap == nil:
		return nil, formatError("missing CMAP chunk")
	case header.Planes == 0 || header.Planes > 8:
		return nil, formatError("unsupported plane count %d", header.Planes)
	case !planar && header.Planes != 8:
		return nil, formatError("PBM image with %d planes", header.Planes)
	}

	width, height := int(header.Width), int(header.Height)

	var rowBytes, planes int
	if planar {
		rowBytes = ((width + 15) >> 4) << 1
		planes = int(header.Planes)
		if header.Masking == maskHasMask {
			planes++
		}
	} else {
		rowBytes = width + width&1
		planes = 1
	}

	var method decompression.Method
	switch header.Compression {
	case 0:
		method = decompression.MethodNone
	case 1:
		method = decompression.MethodByteRun1
	default:
		return nil, formatError("unsupported compression %d", header.Compression)
	}

	raw, err := decompression.Expand(method, body, rowBytes*planes*height)
	if err != nil {
		return nil, fmt.Errorf("BODY: %w", err)
	}

	indices := make([]uint8, width*height)
	for y := 0; y < height; y++ {
		row := raw[y*rowBytes*planes : (y+1)*rowBytes*planes]
		dst := indices[y*width : (y+1)*width]
		if !planar {
			copy(dst, row[:width])
			continue
		}
		if err := unplane(dst, row, rowBytes, int(header.Planes)); err != nil {
			return nil, err
		}
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i, c := range indices {
		if header.Masking == maskTransparentColor && uint16(c) == header.TransparentColor {
			continue
		}
		if int(c) >= len(cmap) {
			return nil, fmt.Errorf("%w: index %d outside %d colour map", ErrCorrupt, c, len(cmap))
		}
		r, g, b, _ := cmap[c].RGBA()
		o := i * 4
		img.Pix[o+0] = uint8(r >> 8)
		img.Pix[o+1] = uint8(g >> 8)
		img.Pix[o+2] = uint8(b >> 8)
		img.Pix[o+3] = 0xff
	}
	return img, nil
}

// unplane gathers one bit per plane into chunky pixel indices. Plane p
// supplies bit p of every pixel in the row.
func unplane(dst, row []byte, rowBytes, planes int) error {
	for p := 0; p < planes; p++ {
		br := bitreader.NewReader(bytes.NewReader(row[p*rowBytes : (p+1)*rowBytes]))
		for x := range dst {
			bit, err := br.Read1()
			if err != nil {
				return fmt.Errorf("%w: plane %d: %v", ErrCorrupt, p, err)
			}
			if bit {
				dst[x] |= 1 << uint(p)
			}
		}
	}
	return nil
}
