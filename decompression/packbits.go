package decompression

import "fmt"

// ExpandByteRun1 decodes the ByteRun1 (PackBits) scheme used by IFF
// BODY chunks until dst is full. It returns the number of source bytes
// consumed.
//
// n      |
// 0..127 | copy the next n+1 bytes literally
// -1..-127 | repeat the next byte 1-n times
// -128   | no-op
func ExpandByteRun1(dst, src []byte) (int, error) {
	written, read := 0, 0
	for written < len(dst) {
		if read >= len(src) {
			return read, fmt.Errorf("%w: expanded %d of %d bytes", ErrCorrupt, written, len(dst))
		}
		n := int8(src[read])
		read++

		switch {
		case n >= 0:
			count := int(n) + 1
			if read+count > len(src) {
				return read, fmt.Errorf("%w: literal run of %d past end of input", ErrCorrupt, count)
			}
			if written+count > len(dst) {
				return read, fmt.Errorf("%w: literal run overflows %d bytes", ErrCorrupt, len(dst))
			}
			copy(dst[written:], src[read:read+count])
			written += count
			read += count
		case n != -128:
			count := 1 - int(n)
			if read >= len(src) {
				return read, fmt.Errorf("%w: repeat run missing its value", ErrCorrupt)
			}
			if written+count > len(dst) {
				return read, fmt.Errorf("%w: repeat run overflows %d bytes", ErrCorrupt, len(dst))
			}
			c := src[read]
			read++
			for i := 0; i < count; i++ {
				dst[written] = c
				written++
			}
		}
	}
	return read, nil
}

// CompressByteRun1 returns the ByteRun1 encoding of src.
func CompressByteRun1(src []byte) []byte {
	var dst []byte
	for i := 0; i < len(src); {
		run := 1
		for i+run < len(src) && src[i+run] == src[i] && run < 128 {
			run++
		}
		if run > 1 {
			dst = append(dst, uint8(int8(1-run)), src[i])
			i += run
			continue
		}

		start := i
		for i < len(src) && i-start < 128 {
			if i+1 < len(src) && src[i+1] == src[i] {
				break
			}
			i++
		}
		if i == start {
			i++
		}
		dst = append(dst, uint8(i-start-1))
		dst = append(dst, src[start:i]...)
	}
	return dst
}
