// Package decompression implements the run-length schemes found in
// Descent asset files.
package decompression

import "fmt"

type Method uint8

const (
	MethodNone Method = iota
	MethodRLE
	MethodByteRun1
	MethodPCX
)

func (m Method) String() string {
	switch m {
	case MethodNone:
		return "Method(None)"
	case MethodRLE:
		return "Method(RLE)"
	case MethodByteRun1:
		return "Method(ByteRun1)"
	case MethodPCX:
		return "Method(PCX)"
	}
	return "Method(UNKNOWN)"
}

// An Expander fills dst from src and reports how many bytes of src it
// consumed. Expanding to fewer than len(dst) bytes is an error.
type Expander = func(dst, src []byte) (int, error)

type LUT map[Method]Expander

func ExpandNone(dst, src []byte) (int, error) {
	if len(src) < len(dst) {
		return len(src), fmt.Errorf("%w: expected %d bytes got %d bytes", ErrCorrupt, len(dst), len(src))
	}
	return copy(dst, src), nil
}

var Expanders = LUT{
	MethodNone:     ExpandNone,
	MethodRLE:      ExpandRLE,
	MethodByteRun1: ExpandByteRun1,
	MethodPCX:      ExpandPCX,
}

// MaxExpansion returns the largest output n bytes of src can decode to
// under method m.
//
// method   | best case
// None     | 1 byte per byte
// RLE      | 31 bytes per 2
// ByteRun1 | 128 bytes per 2
// PCX      | 63 bytes per 2
func MaxExpansion(m Method, n int) int {
	switch m {
	case MethodNone:
		return n
	case MethodRLE:
		return n/2*rleMaxRun + n%2
	case MethodByteRun1:
		return n/2*128 + n%2
	case MethodPCX:
		return n/2*pcxMaxRun + n%2
	}
	return 0
}

// Expand decodes src into exactly size bytes using method m. The output
// buffer is only allocated once src is known to be large enough to fill
// it.
func Expand(m Method, src []byte, size int) ([]byte, error) {
	expander, ok := Expanders[m]
	if !ok {
		return nil, fmt.Errorf("unhandled compression method: %v", m)
	}
	if size < 0 || size > MaxExpansion(m, len(src)) {
		return nil, fmt.Errorf("%w: %d input bytes cannot expand to %d bytes", ErrCorrupt, len(src), size)
	}
	dst := make([]byte, size)
	if _, err := expander(dst, src); err != nil {
		return nil, err
	}
	return dst, nil
}
