// Package resource decodes the payloads stored inside Descent HOG and
// PIG archives: palettes, bitmaps, IFF images, fonts, PCX images, raw
// sounds and encoded texts.
//
// Every decoder works on an in-memory byte slice, performs no file I/O
// and never retains the slice it was given.
package resource

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/32bitkid/descent/decompression"
)

var (
	// ErrFormat reports a signature or header mismatch or an impossible
	// declared size.
	ErrFormat = errors.New("invalid format")

	ErrCorrupt   = decompression.ErrCorrupt
	ErrTruncated = decompression.ErrTruncated
)

func formatError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrFormat, fmt.Sprintf(format, args...))
}

// readFull is binary.Read with short input reported as ErrTruncated.
func readFull(r io.Reader, order binary.ByteOrder, data interface{}) error {
	if err := binary.Read(r, order, data); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return fmt.Errorf("%w: %v", ErrTruncated, err)
		}
		return err
	}
	return nil
}
