package decompression

import (
	"bytes"
	"errors"
	"testing"
)

func TestExpandByteRun1(t *testing.T) {
	// Example from the Apple PackBits technote.
	src := []byte{
		0xfe, 0xaa, 0x02, 0x80, 0x00, 0x2a, 0xfd, 0xaa, 0x03, 0x80, 0x00, 0x2a, 0x22, 0xf7, 0xaa,
	}
	expected := []byte{
		0xaa, 0xaa, 0xaa, 0x80, 0x00, 0x2a, 0xaa, 0xaa, 0xaa, 0xaa, 0x80, 0x00, 0x2a, 0x22,
		0xaa, 0xaa, 0xaa, 0xaa, 0xaa, 0xaa, 0xaa, 0xaa, 0xaa, 0xaa,
	}

	dst := make([]byte, len(expected))
	read, err := ExpandByteRun1(dst, src)
	if err != nil {
		t.Fatal(err)
	}
	if read != len(src) {
		t.Fatalf("expected(%d) != actual(%d) bytes consumed", len(src), read)
	}
	if !bytes.Equal(dst, expected) {
		t.Fatalf("expected(% x) != actual(% x)", expected, dst)
	}
}

func TestExpandByteRun1NoOp(t *testing.T) {
	dst := make([]byte, 2)
	if _, err := ExpandByteRun1(dst, []byte{0x80, 0x01, 0x05, 0x06}); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(dst, []byte{0x05, 0x06}) {
		t.Fatalf("unexpected % x", dst)
	}
}

func TestExpandByteRun1Errors(t *testing.T) {
	cases := []struct {
		name string
		size int
		src  []byte
	}{
		{"short", 4, []byte{0x01, 0x05, 0x06}},
		{"literal past input", 4, []byte{0x03, 0x05}},
		{"repeat overflow", 2, []byte{0xfd, 0x05}},
		{"missing repeat value", 2, []byte{0xff}},
	}

	for _, c := range cases {
		dst := make([]byte, c.size)
		if _, err := ExpandByteRun1(dst, c.src); !errors.Is(err, ErrCorrupt) {
			t.Errorf("%s: expected ErrCorrupt, got %v", c.name, err)
		}
	}
}

func TestCompressByteRun1(t *testing.T) {
	long := make([]byte, 300)
	for i := range long {
		long[i] = uint8(i % 7)
	}

	cases := [][]byte{
		{1},
		{1, 2, 3},
		{4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4},
		{1, 2, 2, 3, 3, 3, 4},
		long,
	}

	for i, src := range cases {
		encoded := CompressByteRun1(src)
		dst := make([]byte, len(src))
		read, err := ExpandByteRun1(dst, encoded)
		if err != nil {
			t.Fatalf("%d: %v", i, err)
		}
		if read != len(encoded) {
			t.Fatalf("%d: consumed %d of %d bytes", i, read, len(encoded))
		}
		if !bytes.Equal(dst, src) {
			t.Fatalf("%d: round trip mismatch", i)
		}
	}
}
