package decompression

import (
	"encoding/binary"
	"fmt"
)

// Descent bitmap run-length encoding.
//
// Every byte whose top three bits are set is a control code:
//
//	0xE0        | end of scanline
//	0xE1 - 0xFF | repeat the next byte (code & 0x1F) times
//
// Any other byte is a single literal pixel. Literal pixels that would
// themselves look like a control code are stored as a run of one.
const (
	rleCode   = 0xe0
	rleMaxRun = 0x1f
)

// ExpandRLELine decodes a single scanline from src into dst. Decoding
// stops at the end-of-line code or when src is exhausted. It returns the
// number of pixels written and the number of source bytes consumed.
func ExpandRLELine(dst, src []byte) (written, read int, err error) {
	for read < len(src) {
		b := src[read]
		read++

		if b&rleCode != rleCode {
			if written >= len(dst) {
				return written, read, fmt.Errorf("%w: scanline overflows %d pixels", ErrCorrupt, len(dst))
			}
			dst[written] = b
			written++
			continue
		}

		count := int(b & rleMaxRun)
		if count == 0 {
			return written, read, nil
		}

		if read >= len(src) {
			return written, read, fmt.Errorf("%w: run of %d missing its value", ErrCorrupt, count)
		}
		c := src[read]
		read++

		if written+count > len(dst) {
			return written, read, fmt.Errorf("%w: scanline overflows %d pixels", ErrCorrupt, len(dst))
		}
		for i := 0; i < count; i++ {
			dst[written] = c
			written++
		}
	}
	return written, read, nil
}

// ExpandRLE expands consecutive scanlines from src until dst is full.
func ExpandRLE(dst, src []byte) (int, error) {
	written, read := 0, 0
	for written < len(dst) {
		if read >= len(src) {
			return read, fmt.Errorf("%w: expanded %d of %d bytes", ErrCorrupt, written, len(dst))
		}
		w, r, err := ExpandRLELine(dst[written:], src[read:])
		written += w
		read += r
		if err != nil {
			return read, err
		}
	}
	return read, nil
}

// CompressRLELine appends the encoded form of line, including the
// terminating end-of-line code, to dst.
func CompressRLELine(dst, line []byte) []byte {
	for i := 0; i < len(line); {
		c := line[i]
		run := 1
		for i+run < len(line) && line[i+run] == c && run < rleMaxRun {
			run++
		}

		if run > 1 || c&rleCode == rleCode {
			dst = append(dst, rleCode|uint8(run), c)
		} else {
			dst = append(dst, c)
		}
		i += run
	}
	return append(dst, rleCode)
}

// RLESize returns the total size declared by the leading 32-bit field of
// an RLE bitmap payload, after checking that it can hold its own line
// table and lies within b.
func RLESize(b []byte, height int, big bool) (int, error) {
	if len(b) < 4 {
		return 0, fmt.Errorf("%w: missing rle size", ErrTruncated)
	}

	tableSize := height
	if big {
		tableSize *= 2
	}

	size := int64(binary.LittleEndian.Uint32(b))
	if size < int64(4+tableSize) {
		return 0, fmt.Errorf("%w: rle size %d smaller than line table", ErrCorrupt, size)
	}
	if size > int64(len(b)) {
		return 0, fmt.Errorf("%w: rle size %d exceeds %d available bytes", ErrTruncated, size, len(b))
	}
	return int(size), nil
}
