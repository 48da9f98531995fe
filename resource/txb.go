package resource

import (
	"fmt"
	"math/bits"

	"golang.org/x/text/encoding/charmap"
)

// TXB files (briefings, help and credits text) are Windows-1252 text
// with every byte except the line feed rotated left by two bits and
// XORed with a fixed key.
const txbKey = 0xa7

// txbAllowed reports whether a decoded byte may appear in TXB text. Of
// the control characters only tab, CR, LF and the DOS end-of-file marker
// are.
func txbAllowed(c byte) bool {
	return c >= 0x20 || c == '\t' || c == '\r' || c == '\n' || c == 0x1a
}

func DecodeTXB(b []byte) (string, error) {
	plain := make([]byte, len(b))
	for i, c := range b {
		if c == '\n' {
			plain[i] = c
			continue
		}
		d := bits.RotateLeft8(c, 2) ^ txbKey
		if !txbAllowed(d) {
			return "", formatError("control byte %#02x at offset %d", d, i)
		}
		plain[i] = d
	}

	text, err := charmap.Windows1252.NewDecoder().Bytes(plain)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFormat, err)
	}
	return string(text), nil
}

func EncodeTXB(text string) ([]byte, error) {
	plain, err := charmap.Windows1252.NewEncoder().Bytes([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}

	encoded := make([]byte, len(plain))
	for i, c := range plain {
		if c == '\n' {
			encoded[i] = c
			continue
		}
		if !txbAllowed(c) {
			return nil, formatError("control byte %#02x at offset %d", c, i)
		}
		e := bits.RotateLeft8(c^txbKey, -2)
		if e == '\n' {
			return nil, formatError("byte %#02x cannot be encoded", c)
		}
		encoded[i] = e
	}
	return encoded, nil
}
