package decompression

import "fmt"

const (
	pcxCode   = 0xc0
	pcxMaxRun = 0x3f
)

// ExpandPCX decodes one PCX scanline into dst, which must be exactly the
// declared scanline size. A run crossing the end of the scanline is an
// error. It returns the number of source bytes consumed.
func ExpandPCX(dst, src []byte) (int, error) {
	written, read := 0, 0
	for written < len(dst) {
		if read >= len(src) {
			return read, fmt.Errorf("%w: scanline decoded %d of %d bytes", ErrCorrupt, written, len(dst))
		}
		b := src[read]
		read++

		if b&pcxCode != pcxCode {
			dst[written] = b
			written++
			continue
		}

		count := int(b & pcxMaxRun)
		if read >= len(src) {
			return read, fmt.Errorf("%w: run of %d missing its value", ErrCorrupt, count)
		}
		c := src[read]
		read++

		if written+count > len(dst) {
			return read, fmt.Errorf("%w: scanline decoded %d of %d bytes", ErrCorrupt, written+count, len(dst))
		}
		for i := 0; i < count; i++ {
			dst[written] = c
			written++
		}
	}
	return read, nil
}

// CompressPCX appends the PCX encoding of a single scanline to dst.
func CompressPCX(dst, line []byte) []byte {
	for i := 0; i < len(line); {
		c := line[i]
		run := 1
		for i+run < len(line) && line[i+run] == c && run < pcxMaxRun {
			run++
		}
		if run > 1 || c&pcxCode == pcxCode {
			dst = append(dst, pcxCode|uint8(run), c)
		} else {
			dst = append(dst, c)
		}
		i += run
	}
	return dst
}
