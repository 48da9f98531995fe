package descent

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/32bitkid/descent/resource"
)

// HOG layout:
//
//	"DHF"                 | signature
//	repeated until EOF:
//	  name[13]            | NUL padded
//	  uint32              | length
//	  length bytes        | contents
const (
	hogSignature = "DHF"
	hogNameSize  = 13
	hogRecord    = hogNameSize + 4
)

// ErrNameTooLong reports an entry name that does not fit the 13 byte
// HOG name field, terminator included.
var ErrNameTooLong = errors.New("name too long")

func ReadHOG(path string) ([]Entry, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseHOG(b)
}

func ParseHOG(b []byte) ([]Entry, error) {
	if len(b) < len(hogSignature) || string(b[:len(hogSignature)]) != hogSignature {
		return nil, fmt.Errorf("%w: missing %s signature", resource.ErrFormat, hogSignature)
	}

	var entries []Entry
	pos := int64(len(hogSignature))
	end := int64(len(b))
	for pos < end {
		if pos+hogRecord > end {
			return nil, fmt.Errorf("%w: record header at offset %d", resource.ErrTruncated, pos)
		}
		name := b[pos : pos+hogNameSize]
		if i := bytes.IndexByte(name, 0); i >= 0 {
			name = name[:i]
		}
		length := int64(binary.LittleEndian.Uint32(b[pos+hogNameSize:]))
		pos += hogRecord

		if pos+length > end {
			return nil, fmt.Errorf("%w: %q declares %d bytes, %d remain", resource.ErrTruncated, name, length, end-pos)
		}
		entries = append(entries, Entry{
			Name:  string(name),
			Bytes: append([]byte(nil), b[pos:pos+length]...),
		})
		pos += length
	}
	return entries, nil
}

// MarshalHOG serializes entries in the given order. Names are validated
// before anything is encoded.
func MarshalHOG(entries []Entry) ([]byte, error) {
	size := len(hogSignature)
	for _, e := range entries {
		if len(e.Name) >= hogNameSize || bytes.IndexByte([]byte(e.Name), 0) >= 0 {
			return nil, fmt.Errorf("%w: %q", ErrNameTooLong, e.Name)
		}
		if int64(len(e.Bytes)) > 0xffffffff {
			return nil, fmt.Errorf("%w: %q is %d bytes", resource.ErrFormat, e.Name, len(e.Bytes))
		}
		size += hogRecord + len(e.Bytes)
	}

	buf := make([]byte, 0, size)
	buf = append(buf, hogSignature...)
	for _, e := range entries {
		var header [hogRecord]byte
		copy(header[:hogNameSize], e.Name)
		binary.LittleEndian.PutUint32(header[hogNameSize:], uint32(len(e.Bytes)))
		buf = append(buf, header[:]...)
		buf = append(buf, e.Bytes...)
	}
	return buf, nil
}

// WriteHOG replaces the file at path with a HOG holding entries. The
// archive is written to a temporary file next to path and renamed into
// place, so a failed write leaves any existing file untouched. An
// existing file keeps its permissions; a new one is created 0644.
func WriteHOG(path string, entries []Entry) error {
	b, err := MarshalHOG(entries)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "hog_*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	mode := os.FileMode(0644)
	if fi, err := os.Stat(path); err == nil {
		mode = fi.Mode().Perm()
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write archive: %w", err)
	}

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write archive: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("write archive: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("save archive: %w", err)
	}
	return nil
}
