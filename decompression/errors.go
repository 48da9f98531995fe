package decompression

import "errors"

var (
	// ErrCorrupt reports that a compressed stream did not expand to the
	// expected number of bytes.
	ErrCorrupt = errors.New("corrupt data")

	// ErrTruncated reports that a declared length runs past the end of the
	// available input.
	ErrTruncated = errors.New("truncated data")
)
