package resource

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/32bitkid/descent/decompression"
)

func iffChunk(id string, data []byte) []byte {
	var buf bytes.Buffer
	buf.WriteString(id)
	_ = binary.Write(&buf, binary.BigEndian, uint32(len(data)))
	buf.Write(data)
	if len(data)&1 == 1 {
		buf.WriteByte(0)
	}
	return buf.Bytes()
}

func buildIFF(form string, h bitmapHeader, cmap, body []byte) []byte {
	var bmhd bytes.Buffer
	_ = binary.Write(&bmhd, binary.BigEndian, &h)

	var chunks []byte
	chunks = append(chunks, iffChunk(chunkBMHD, bmhd.Bytes())...)
	if cmap != nil {
		chunks = append(chunks, iffChunk(chunkCMAP, cmap)...)
	}
	chunks = append(chunks, iffChunk(chunkBODY, body)...)

	var buf bytes.Buffer
	buf.WriteString(iffForm)
	_ = binary.Write(&buf, binary.BigEndian, uint32(4+len(chunks)))
	buf.WriteString(form)
	buf.Write(chunks)
	return buf.Bytes()
}

var iffColors = []byte{
	0, 0, 0,
	255, 0, 0,
	0, 255, 0,
	0, 0, 255,
}

func TestIsIFF(t *testing.T) {
	assert.True(t, IsIFF(buildIFF(iffPBM, bitmapHeader{}, nil, nil)))
	assert.True(t, IsIFF(buildIFF(iffILBM, bitmapHeader{}, nil, nil)))
	assert.False(t, IsIFF(buildIFF("ANIM", bitmapHeader{}, nil, nil)))
	assert.False(t, IsIFF([]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}))
	assert.False(t, IsIFF(nil))
}

func TestDecodeIFFPBM(t *testing.T) {
	rows := []byte{
		0, 1, 2, 0,
		2, 1, 0, 0,
	}
	h := bitmapHeader{Width: 3, Height: 2, Planes: 8, Compression: 1}
	b := buildIFF(iffPBM, h, iffColors, decompression.CompressByteRun1(rows))

	img, err := DecodeIFF(b)
	require.NoError(t, err)
	assert.Equal(t, 3, img.Rect.Dx())
	assert.Equal(t, 2, img.Rect.Dy())
	assert.Equal(t, []uint8{
		0, 0, 0, 255, 255, 0, 0, 255, 0, 255, 0, 255,
		0, 255, 0, 255, 255, 0, 0, 255, 0, 0, 0, 255,
	}, img.Pix)
}

func TestDecodeIFFILBM(t *testing.T) {
	// Two pixels, indices 1 and 2, spread over two bitplanes.
	body := []byte{
		0x80, 0x00,
		0x40, 0x00,
	}
	h := bitmapHeader{Width: 2, Height: 1, Planes: 2}
	img, err := DecodeIFF(buildIFF(iffILBM, h, iffColors, body))
	require.NoError(t, err)
	assert.Equal(t, []uint8{255, 0, 0, 255, 0, 255, 0, 255}, img.Pix)
}

func TestDecodeIFFTransparentColor(t *testing.T) {
	rows := []byte{0, 3}
	h := bitmapHeader{Width: 2, Height: 1, Planes: 8, Masking: maskTransparentColor, TransparentColor: 0}
	img, err := DecodeIFF(buildIFF(iffPBM, h, iffColors, rows))
	require.NoError(t, err)
	assert.Equal(t, []uint8{0, 0, 0, 0, 0, 0, 255, 255}, img.Pix)
}

func TestDecodeIFFErrors(t *testing.T) {
	_, err := DecodeIFF([]byte("FORM"))
	assert.True(t, errors.Is(err, ErrFormat), "%v", err)

	h := bitmapHeader{Width: 2, Height: 1, Planes: 8}
	_, err = DecodeIFF(buildIFF(iffPBM, h, nil, []byte{0, 1}))
	assert.True(t, errors.Is(err, ErrFormat), "missing colour map: %v", err)

	_, err = DecodeIFF(buildIFF(iffPBM, h, iffColors, []byte{0}))
	assert.True(t, errors.Is(err, ErrCorrupt), "short body: %v", err)

	_, err = DecodeIFF(buildIFF(iffPBM, h, iffColors, []byte{0, 9}))
	assert.True(t, errors.Is(err, ErrCorrupt), "index outside colour map: %v", err)

	b := buildIFF(iffPBM, h, iffColors, []byte{0, 1})
	_, err = DecodeIFF(b[:len(b)-1])
	assert.True(t, errors.Is(err, ErrTruncated), "%v", err)

	h.Compression = 7
	_, err = DecodeIFF(buildIFF(iffPBM, h, iffColors, []byte{0, 1}))
	assert.True(t, errors.Is(err, ErrFormat), "%v", err)
}

func TestDecodeIFFBodyTooSmallForHeader(t *testing.T) {
	h := bitmapHeader{Width: 65535, Height: 65535, Planes: 8, Compression: 1}
	_, err := DecodeIFF(buildIFF(iffPBM, h, iffColors, []byte{0x81, 0x00}))
	assert.True(t, errors.Is(err, ErrCorrupt), "%v", err)

	h = bitmapHeader{Width: 4, Height: 4, Planes: 8}
	_, err = DecodeIFF(buildIFF(iffPBM, h, iffColors, make([]byte, 15)))
	assert.True(t, errors.Is(err, ErrCorrupt), "uncompressed: %v", err)
}
