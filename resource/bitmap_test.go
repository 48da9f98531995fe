package resource

import (
	"encoding/binary"
	"errors"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/32bitkid/descent/decompression"
)

func grayPalette(n int) color.Palette {
	pal := make(color.Palette, n)
	for i := range pal {
		pal[i] = color.RGBA{uint8(i), uint8(i * 2), uint8(i * 3), 0xff}
	}
	return pal
}

func TestDecodeBitmap(t *testing.T) {
	pal := grayPalette(4)
	img, err := DecodeBitmap([]byte{0, 1, 2, 3}, 2, 2, pal, false, 0)
	require.NoError(t, err)

	assert.Equal(t, 2, img.Rect.Dx())
	assert.Equal(t, 2, img.Rect.Dy())
	assert.Equal(t, []uint8{
		0, 0, 0, 255, 1, 2, 3, 255,
		2, 4, 6, 255, 3, 6, 9, 255,
	}, img.Pix)
}

func TestDecodeBitmapTransparency(t *testing.T) {
	pal := grayPalette(PaletteColors)
	payload := []byte{TransparentIndex, SuperTransparentIndex, 1}

	img, err := DecodeBitmap(payload, 3, 1, pal, false, FlagTransparent)
	require.NoError(t, err)
	assert.Equal(t, []uint8{0, 0, 0, 0}, img.Pix[0:4])
	assert.Equal(t, uint8(255), img.Pix[7], "254 is opaque without the super transparent flag")

	img, err = DecodeBitmap(payload, 3, 1, pal, false, FlagTransparent|FlagSuperTransparent)
	require.NoError(t, err)
	assert.Equal(t, uint8(0), img.Pix[7])
	assert.Equal(t, []uint8{1, 2, 3, 255}, img.Pix[8:12])
}

func TestDecodeBitmapErrors(t *testing.T) {
	_, err := DecodeBitmap([]byte{0, 1, 2}, 2, 2, grayPalette(4), false, 0)
	assert.True(t, errors.Is(err, ErrTruncated), "%v", err)

	_, err = DecodeBitmap([]byte{0, 9}, 2, 1, grayPalette(4), false, 0)
	assert.True(t, errors.Is(err, ErrCorrupt), "%v", err)

	_, err = DecodeBitmap(nil, -1, 2, grayPalette(4), false, 0)
	assert.True(t, errors.Is(err, ErrFormat), "%v", err)
}

func TestBitmapRLE(t *testing.T) {
	indices := []uint8{
		1, 1, 1, 1, 2, 3, 3, 0,
		0xe5, 0xe5, 7, 7, 7, 7, 7, 7,
		9, 8, 7, 6, 5, 4, 3, 2,
	}

	payload, flags, err := EncodeBitmap(indices, 8, 3, true)
	require.NoError(t, err)
	assert.Equal(t, FlagRLE, flags)
	assert.Equal(t, uint32(len(payload)), binary.LittleEndian.Uint32(payload))

	decoded, err := BitmapIndices(payload, 8, 3, true, flags)
	require.NoError(t, err)
	assert.Equal(t, indices, decoded)

	img, err := DecodeBitmap(payload, 8, 3, grayPalette(PaletteColors), true, flags)
	require.NoError(t, err)
	assert.Equal(t, []uint8{1, 2, 3, 255}, img.Pix[0:4])
}

func TestBitmapRLEBig(t *testing.T) {
	const width, height = 300, 2
	indices := make([]uint8, width*height)
	for i := range indices {
		indices[i] = uint8(i % 2)
	}

	payload, flags, err := EncodeBitmap(indices, width, height, true)
	require.NoError(t, err)
	assert.Equal(t, FlagRLE|FlagRLEBig, flags)

	decoded, err := BitmapIndices(payload, width, height, true, flags)
	require.NoError(t, err)
	assert.Equal(t, indices, decoded)
}

func TestBitmapRLEShortScanline(t *testing.T) {
	line := decompression.CompressRLELine(nil, []byte{1, 2, 3})
	payload := make([]byte, 5, 5+len(line))
	payload[4] = uint8(len(line))
	payload = append(payload, line...)
	binary.LittleEndian.PutUint32(payload, uint32(len(payload)))

	_, err := DecodeBitmap(payload, 4, 1, grayPalette(4), true, FlagRLE)
	assert.True(t, errors.Is(err, ErrCorrupt), "%v", err)
}

func TestBitmapRLEScanlinePastPayload(t *testing.T) {
	payload := []byte{6, 0, 0, 0, 40, 0xe0}
	_, err := BitmapIndices(payload, 1, 1, true, FlagRLE)
	assert.True(t, errors.Is(err, ErrTruncated), "%v", err)
}

func TestBitmapRLEWidthBeyondScanlines(t *testing.T) {
	const height = 4
	payload := make([]byte, 4+height*2)
	for y := 0; y < height; y++ {
		binary.LittleEndian.PutUint16(payload[4+y*2:], 2)
		payload = append(payload, 0xff, 0x00)
	}
	binary.LittleEndian.PutUint32(payload, uint32(len(payload)))

	_, err := BitmapIndices(payload, 32767, height, true, FlagRLE|FlagRLEBig)
	assert.True(t, errors.Is(err, ErrCorrupt), "%v", err)

	decoded, err := BitmapIndices(payload, 31, height, true, FlagRLE|FlagRLEBig)
	require.NoError(t, err)
	assert.Len(t, decoded, 31*height)
}

func TestEncodeBitmapRaw(t *testing.T) {
	indices := []uint8{1, 2, 3, 4}
	payload, flags, err := EncodeBitmap(indices, 2, 2, false)
	require.NoError(t, err)
	assert.Equal(t, uint8(0), flags)
	assert.Equal(t, indices, payload)

	_, _, err = EncodeBitmap(indices, 3, 2, false)
	assert.True(t, errors.Is(err, ErrFormat), "%v", err)
}
