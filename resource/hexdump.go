package resource

import (
	"fmt"
	"strings"
)

const (
	hexBytesPerLine = 16
	hexMaxBytes     = 16 * 1024
)

// HexDump formats the leading bytes of an entry that has no decoder, or
// whose decoder rejected it.
func HexDump(b []byte, name string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Binary file: %s\n", name)
	fmt.Fprintf(&sb, "File size: %d bytes\n\nHex dump:\n\n", len(b))

	shown := len(b)
	if shown > hexMaxBytes {
		shown = hexMaxBytes
	}

	for i := 0; i < shown; i += hexBytesPerLine {
		fmt.Fprintf(&sb, "%08X  ", i)
		for j := 0; j < hexBytesPerLine; j++ {
			if i+j < shown {
				fmt.Fprintf(&sb, "%02X ", b[i+j])
			} else {
				sb.WriteString("   ")
			}
			if j == 7 {
				sb.WriteByte(' ')
			}
		}

		sb.WriteString(" |")
		for j := 0; j < hexBytesPerLine && i+j < shown; j++ {
			c := b[i+j]
			if c < 32 || c >= 127 {
				c = '.'
			}
			sb.WriteByte(c)
		}
		sb.WriteString("|\n")
	}

	if len(b) > shown {
		fmt.Fprintf(&sb, "\n... (%d more bytes not shown)\n", len(b)-shown)
	}
	return sb.String()
}
