package descent

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/32bitkid/descent/gamedata"
	"github.com/32bitkid/descent/resource"
)

type pigFixture struct {
	gameData []byte
	bitmaps  []pigBitmapHeader
	sounds   []pigSoundHeader
	data     []byte
}

func (f pigFixture) bytes() []byte {
	var buf bytes.Buffer
	_ = binary.Write(&buf, binary.LittleEndian, int32(4+len(f.gameData)))
	buf.Write(f.gameData)
	_ = binary.Write(&buf, binary.LittleEndian, int32(len(f.bitmaps)))
	_ = binary.Write(&buf, binary.LittleEndian, int32(len(f.sounds)))
	_ = binary.Write(&buf, binary.LittleEndian, f.bitmaps)
	_ = binary.Write(&buf, binary.LittleEndian, f.sounds)
	buf.Write(f.data)
	return buf.Bytes()
}

func pigName8(name string) (raw [8]byte) {
	copy(raw[:], name)
	return raw
}

var sixteenColors = func() color.Palette {
	pal := make(color.Palette, 16)
	for i := range pal {
		pal[i] = color.RGBA{uint8(i * 16), uint8(255 - i*16), uint8(i), 0xff}
	}
	return pal
}()

func testPIG(t *testing.T) pigFixture {
	raw := make([]byte, 16)
	for i := range raw {
		raw[i] = uint8(i)
	}

	rleIndices := []uint8{1, 1, 1, 2, 3, 3}
	rle, flags, err := resource.EncodeBitmap(rleIndices, 3, 2, true)
	require.NoError(t, err)

	var data []byte
	data = append(data, raw...)
	data = append(data, rle...)
	soundOffset := len(data)
	data = append(data, 0x80, 0x90, 0xa0)

	return pigFixture{
		bitmaps: []pigBitmapHeader{
			{Name: pigName8("rock01"), Width: 4, Height: 4, Flags: resource.FlagTransparent, AvgColor: 7},
			{Name: pigName8("door"), DFlags: dbmFlagAnimated | 3, Width: 3, Height: 2, Flags: flags, Offset: uint32(len(raw))},
		},
		sounds: []pigSoundHeader{
			{Name: pigName8("laser"), Length: 3, DataLength: 3, Offset: uint32(soundOffset)},
		},
		data: data,
	}
}

func TestParsePIG(t *testing.T) {
	images, sounds, gd, err := ParsePIG(testPIG(t).bytes())
	require.NoError(t, err)
	require.Len(t, images, 2)
	require.Len(t, sounds, 1)
	assert.Equal(t, 0, gd.Len())

	rock := images[0]
	assert.Equal(t, "rock01.bbm", rock.Name)
	assert.Equal(t, int16(4), rock.Width)
	assert.Equal(t, int16(4), rock.Height)
	assert.False(t, rock.RLE)
	assert.Equal(t, uint8(7), rock.AvgColor)
	assert.Len(t, rock.Payload, 16)

	img, err := resource.DecodeBitmap(rock.Payload, int(rock.Width), int(rock.Height), sixteenColors, rock.RLE, rock.Flags)
	require.NoError(t, err)
	for i, c := range sixteenColors {
		expected := c.(color.RGBA)
		actual := color.RGBA{img.Pix[i*4], img.Pix[i*4+1], img.Pix[i*4+2], img.Pix[i*4+3]}
		assert.Equal(t, expected, actual, "pixel %d", i)
	}

	door := images[1]
	assert.Equal(t, "door#3.bbm", door.Name)
	assert.True(t, door.RLE)
	frame, animated := door.Frame()
	assert.True(t, animated)
	assert.Equal(t, 3, frame)

	indices, err := resource.BitmapIndices(door.Payload, 3, 2, door.RLE, door.Flags)
	require.NoError(t, err)
	assert.Equal(t, []uint8{1, 1, 1, 2, 3, 3}, indices)

	assert.Equal(t, "laser.raw", sounds[0].Name)
	assert.Equal(t, int32(3), sounds[0].Length)
	assert.Equal(t, []byte{0x80, 0x90, 0xa0}, sounds[0].Payload)
}

func TestParsePIGLargeBitmap(t *testing.T) {
	f := pigFixture{
		bitmaps: []pigBitmapHeader{
			{Name: pigName8("sky"), DFlags: dbmFlagLarge, Width: 4, Height: 1},
		},
		data: make([]byte, 260),
	}
	images, _, _, err := ParsePIG(f.bytes())
	require.NoError(t, err)
	assert.Equal(t, int16(260), images[0].Width)
	_, animated := images[0].Frame()
	assert.False(t, animated)
}

func TestParsePIGGameData(t *testing.T) {
	f := testPIG(t)
	f.gameData = make([]byte, gamedata.Descent1.Size()+8)
	binary.LittleEndian.PutUint32(f.gameData, 108)

	images, _, gd, err := ParsePIG(f.bytes())
	require.NoError(t, err)
	assert.Len(t, images, 2)

	n, ok := gd.Int("NumTextures")
	require.True(t, ok)
	assert.Equal(t, int64(108), n)

	f.gameData = make([]byte, 100)
	_, _, _, err = ParsePIG(f.bytes())
	assert.True(t, errors.Is(err, resource.ErrTruncated), "%v", err)

	// Entry listing skips the game data.
	entries, err := ParsePIGEntries(f.bytes())
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestParsePIGEntries(t *testing.T) {
	entries, err := ParsePIGEntries(testPIG(t).bytes())
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "rock01.bbm", entries[0].Name)
	require.NotNil(t, entries[0].Image)
	assert.Equal(t, int16(4), entries[0].Image.Width)
	assert.Equal(t, "door#3.bbm", entries[1].Name)
	assert.Equal(t, "door#3.bbm", entries[1].Image.Name)

	assert.Equal(t, "laser.raw", entries[2].Name)
	assert.Nil(t, entries[2].Image)
}

func TestOpenPIG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "DESCENT.PIG")
	require.NoError(t, os.WriteFile(path, testPIG(t).bytes(), 0644))

	archive, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, KindPIG, archive.Kind)
	assert.False(t, archive.Writable())
	assert.Len(t, archive.Entries, 3)
	assert.NotNil(t, archive.GameData)

	entries, err := ReadPIGEntries(path)
	require.NoError(t, err)
	assert.Equal(t, archive.Entries, entries)
}

func TestParsePIGErrors(t *testing.T) {
	setCount := func(b []byte, index int, v int32) []byte {
		binary.LittleEndian.PutUint32(b[4+index*4:], uint32(v))
		return b
	}

	cases := []struct {
		name     string
		b        []byte
		expected error
	}{
		{"empty", nil, resource.ErrFormat},
		{"header offset inside itself", []byte{2, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}, resource.ErrFormat},
		{"header offset past end", []byte{100, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}, resource.ErrFormat},
		{"negative header offset", []byte{0xff, 0xff, 0xff, 0xff, 0, 0, 0, 0, 0, 0, 0, 0}, resource.ErrFormat},
		{"negative bitmap count", setCount(testPIG(t).bytes(), 0, -1), resource.ErrFormat},
		{"absurd sound count", setCount(testPIG(t).bytes(), 1, 0x10001), resource.ErrFormat},
		{"tables past end", setCount(testPIG(t).bytes(), 0, 0x1000), resource.ErrTruncated},
	}

	for _, c := range cases {
		_, _, _, err := ParsePIG(c.b)
		assert.True(t, errors.Is(err, c.expected), "%s: %v", c.name, err)
	}
}

func TestParsePIGPayloadBounds(t *testing.T) {
	f := testPIG(t)
	f.bitmaps[0].Offset = uint32(len(f.data) + 1)
	_, _, _, err := ParsePIG(f.bytes())
	assert.True(t, errors.Is(err, resource.ErrTruncated), "%v", err)

	f = testPIG(t)
	f.bitmaps[0].Offset = uint32(len(f.data) - 4)
	_, _, _, err = ParsePIG(f.bytes())
	assert.True(t, errors.Is(err, resource.ErrTruncated), "%v", err)

	f = testPIG(t)
	f.sounds[0].DataLength = 0x7fffffff
	_, _, _, err = ParsePIG(f.bytes())
	assert.True(t, errors.Is(err, resource.ErrTruncated), "%v", err)

	f = testPIG(t)
	f.sounds[0].DataLength = -1
	_, _, _, err = ParsePIG(f.bytes())
	assert.True(t, errors.Is(err, resource.ErrFormat), "%v", err)

	f = testPIG(t)
	f.sounds[0].Offset = 0xffffffff
	_, _, _, err = ParsePIG(f.bytes())
	assert.True(t, errors.Is(err, resource.ErrTruncated), "%v", err)
}
