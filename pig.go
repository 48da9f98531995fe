package descent

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"

	"github.com/32bitkid/descent/decompression"
	"github.com/32bitkid/descent/gamedata"
	"github.com/32bitkid/descent/resource"
)

// PIG layout (Descent 1):
//
//	int32                  | offset of the bitmap/sound header
//	...                    | game data block
//	int32                  | bitmap count
//	int32                  | sound count
//	17 bytes * bitmaps     | bitmap headers
//	20 bytes * sounds      | sound headers
//	...                    | payloads, offsets relative to this point
const (
	pigBitmapHeaderSize = 17
	pigSoundHeaderSize  = 20
	pigMaxEntries       = 0x10000

	dbmFlagAnimated = 0x40
	dbmFlagLarge    = 0x80
	dbmFrameMask    = 0x3f
)

type pigBitmapHeader struct {
	Name     [8]byte
	DFlags   uint8
	Width    uint8
	Height   uint8
	Flags    uint8
	AvgColor uint8
	Offset   uint32
}

type pigSoundHeader struct {
	Name       [8]byte
	Length     int32
	DataLength int32
	Offset     uint32
}

type ImageDescriptor struct {
	Name     string
	Width    int16
	Height   int16
	RLE      bool
	Flags    uint8
	DFlags   uint8
	AvgColor uint8
	Payload  []byte
}

// Frame reports the animation frame number of an animated bitmap.
func (d ImageDescriptor) Frame() (int, bool) {
	return int(d.DFlags & dbmFrameMask), d.DFlags&dbmFlagAnimated != 0
}

type SoundDescriptor struct {
	Name string
	// Length is the declared number of samples.
	Length  int32
	Payload []byte
}

// ReadPIG reads the bitmap and sound tables and the game data of a PIG.
func ReadPIG(path string) ([]ImageDescriptor, []SoundDescriptor, *gamedata.Record, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, nil, err
	}
	return ParsePIG(b)
}

// ReadPIGEntries reads a PIG as a flat list of named entries.
func ReadPIGEntries(path string) ([]Entry, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParsePIGEntries(b)
}

func ParsePIGEntries(b []byte) ([]Entry, error) {
	images, sounds, _, err := parsePIG(b, false)
	if err != nil {
		return nil, err
	}
	return pigEntries(images, sounds), nil
}

func ParsePIG(b []byte) ([]ImageDescriptor, []SoundDescriptor, *gamedata.Record, error) {
	return parsePIG(b, true)
}

func parsePIG(b []byte, withGameData bool) ([]ImageDescriptor, []SoundDescriptor, *gamedata.Record, error) {
	size := int64(len(b))
	if size < 4 {
		return nil, nil, nil, fmt.Errorf("%w: missing header offset", resource.ErrFormat)
	}

	headerOffset := int64(int32(binary.LittleEndian.Uint32(b)))
	if headerOffset < 4 || headerOffset+8 > size {
		return nil, nil, nil, fmt.Errorf("%w: header offset %d in %d byte file", resource.ErrFormat, headerOffset, size)
	}

	r := bytes.NewReader(b[headerOffset:])
	var counts struct {
		Bitmaps int32
		Sounds  int32
	}
	if err := binary.Read(r, binary.LittleEndian, &counts); err != nil {
		return nil, nil, nil, fmt.Errorf("%w: %v", resource.ErrTruncated, err)
	}
	if counts.Bitmaps < 0 || counts.Bitmaps > pigMaxEntries || counts.Sounds < 0 || counts.Sounds > pigMaxEntries {
		return nil, nil, nil, fmt.Errorf("%w: %d bitmaps, %d sounds", resource.ErrFormat, counts.Bitmaps, counts.Sounds)
	}

	dataStart := headerOffset + 8 +
		int64(counts.Bitmaps)*pigBitmapHeaderSize +
		int64(counts.Sounds)*pigSoundHeaderSize
	if dataStart > size {
		return nil, nil, nil, fmt.Errorf("%w: tables end at %d in %d byte file", resource.ErrTruncated, dataStart, size)
	}
	data := b[dataStart:]

	bitmapHeaders := make([]pigBitmapHeader, counts.Bitmaps)
	if err := binary.Read(r, binary.LittleEndian, &bitmapHeaders); err != nil {
		return nil, nil, nil, fmt.Errorf("%w: bitmap table: %v", resource.ErrTruncated, err)
	}
	soundHeaders := make([]pigSoundHeader, counts.Sounds)
	if err := binary.Read(r, binary.LittleEndian, &soundHeaders); err != nil {
		return nil, nil, nil, fmt.Errorf("%w: sound table: %v", resource.ErrTruncated, err)
	}

	images := make([]ImageDescriptor, 0, len(bitmapHeaders))
	for _, h := range bitmapHeaders {
		img, err := readPIGBitmap(h, data)
		if err != nil {
			return nil, nil, nil, err
		}
		images = append(images, img)
	}

	sounds := make([]SoundDescriptor, 0, len(soundHeaders))
	for _, h := range soundHeaders {
		name := pigName(h.Name) + ".raw"
		offset, length := int64(h.Offset), int64(h.DataLength)
		if length < 0 {
			return nil, nil, nil, fmt.Errorf("%w: %s has length %d", resource.ErrFormat, name, length)
		}
		if offset+length > int64(len(data)) {
			return nil, nil, nil, fmt.Errorf("%w: %s runs past end of file", resource.ErrTruncated, name)
		}
		sounds = append(sounds, SoundDescriptor{
			Name:    name,
			Length:  h.Length,
			Payload: append([]byte(nil), data[offset:offset+length]...),
		})
	}

	var gd *gamedata.Record
	if withGameData {
		var err error
		gd, err = gamedata.Decode(b[4:headerOffset], gamedata.Descent1)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("game data: %w", err)
		}
	}

	return images, sounds, gd, nil
}

func readPIGBitmap(h pigBitmapHeader, data []byte) (ImageDescriptor, error) {
	name := pigName(h.Name)
	if h.DFlags&dbmFlagAnimated != 0 {
		name = fmt.Sprintf("%s#%d", name, h.DFlags&dbmFrameMask)
	}
	name += ".bbm"

	width := int(h.Width)
	if h.DFlags&dbmFlagLarge != 0 {
		width += 256
	}
	height := int(h.Height)
	rle := h.Flags&resource.FlagRLE != 0

	offset := int64(h.Offset)
	if offset > int64(len(data)) {
		return ImageDescriptor{}, fmt.Errorf("%w: %s starts past end of file", resource.ErrTruncated, name)
	}

	length := int64(width * height)
	if rle {
		n, err := decompression.RLESize(data[offset:], height, h.Flags&resource.FlagRLEBig != 0)
		if err != nil {
			return ImageDescriptor{}, fmt.Errorf("%s: %w", name, err)
		}
		length = int64(n)
	}
	if offset+length > int64(len(data)) {
		return ImageDescriptor{}, fmt.Errorf("%w: %s runs past end of file", resource.ErrTruncated, name)
	}

	return ImageDescriptor{
		Name:     name,
		Width:    int16(width),
		Height:   int16(height),
		RLE:      rle,
		Flags:    h.Flags,
		DFlags:   h.DFlags,
		AvgColor: h.AvgColor,
		Payload:  append([]byte(nil), data[offset:offset+length]...),
	}, nil
}

func pigName(raw [8]byte) string {
	if i := bytes.IndexByte(raw[:], 0); i >= 0 {
		return string(raw[:i])
	}
	return string(raw[:])
}

func pigEntries(images []ImageDescriptor, sounds []SoundDescriptor) []Entry {
	entries := make([]Entry, 0, len(images)+len(sounds))
	for i := range images {
		img := images[i]
		entries = append(entries, Entry{Name: img.Name, Bytes: img.Payload, Image: &img})
	}
	for _, s := range sounds {
		entries = append(entries, Entry{Name: s.Name, Bytes: s.Payload})
	}
	return entries
}
