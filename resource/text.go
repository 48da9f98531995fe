package resource

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// dosEOF marks the end of text written by DOS editors.
const dosEOF = 0x1a

// Text is a plain text entry (mission, song list, readme) split into
// lines without their terminators.
type Text []string

// DecodeText decodes a Windows-1252 text entry. Both CRLF and LF line
// endings are accepted and anything after a DOS end-of-file marker is
// dropped.
func DecodeText(b []byte) (Text, error) {
	if i := bytes.IndexByte(b, dosEOF); i >= 0 {
		b = b[:i]
	}

	utf8, err := charmap.Windows1252.NewDecoder().Bytes(b)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}

	var text Text
	reader := bufio.NewReader(bytes.NewReader(utf8))
	for {
		str, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, err
		}
		if err == io.EOF && str == "" {
			break
		}
		text = append(text, strings.TrimRight(str, "\r\n"))
		if err == io.EOF {
			break
		}
	}

	return text, nil
}

func (t Text) String() string {
	return strings.Join(t, "\n")
}
