package resource

import (
	"bytes"
	"encoding/binary"
)

// DefaultSampleRate is the rate of the game's headerless 8-bit sounds.
const DefaultSampleRate = 11025

const wavHeaderSize = 44

type wavHeader struct {
	RIFF          [4]byte
	ChunkSize     uint32
	WAVE          [4]byte
	Fmt           [4]byte
	FmtSize       uint32
	AudioFormat   uint16
	Channels      uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
	Data          [4]byte
	DataSize      uint32
}

// WrapPCM prepends a canonical RIFF/WAVE header to headerless PCM
// samples. The samples are copied unchanged.
func WrapPCM(pcm []byte, sampleRate, bitsPerSample, channels int) []byte {
	if bitsPerSample <= 0 {
		bitsPerSample = 8
	}
	if channels <= 0 {
		channels = 1
	}
	blockAlign := channels * ((bitsPerSample + 7) / 8)

	h := wavHeader{
		RIFF:          [4]byte{'R', 'I', 'F', 'F'},
		ChunkSize:     uint32(wavHeaderSize - 8 + len(pcm)),
		WAVE:          [4]byte{'W', 'A', 'V', 'E'},
		Fmt:           [4]byte{'f', 'm', 't', ' '},
		FmtSize:       16,
		AudioFormat:   1,
		Channels:      uint16(channels),
		SampleRate:    uint32(sampleRate),
		ByteRate:      uint32(sampleRate * blockAlign),
		BlockAlign:    uint16(blockAlign),
		BitsPerSample: uint16(bitsPerSample),
		Data:          [4]byte{'d', 'a', 't', 'a'},
		DataSize:      uint32(len(pcm)),
	}

	var buf bytes.Buffer
	buf.Grow(wavHeaderSize + len(pcm))
	_ = binary.Write(&buf, binary.LittleEndian, &h)
	buf.Write(pcm)
	return buf.Bytes()
}

// WrapRaw wraps 8-bit mono samples, the layout of every PIG sound.
func WrapRaw(pcm []byte, sampleRate int) []byte {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	return WrapPCM(pcm, sampleRate, 8, 1)
}
