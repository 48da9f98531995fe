package gamedata

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/32bitkid/descent/resource"
)

// Def describes how one field is laid out on disk.
type Def struct {
	Name string
	Kind Kind

	size   int
	signed bool
	count  int
	elem   *Def
	fields Schema
	rest   bool
}

type Schema []Def

func Int8(name string) Def   { return Def{Name: name, Kind: KindInt, size: 1, signed: true} }
func Int16(name string) Def  { return Def{Name: name, Kind: KindInt, size: 2, signed: true} }
func Int32(name string) Def  { return Def{Name: name, Kind: KindInt, size: 4, signed: true} }
func Uint8(name string) Def  { return Def{Name: name, Kind: KindUint, size: 1} }
func Uint16(name string) Def { return Def{Name: name, Kind: KindUint, size: 2} }
func Uint32(name string) Def { return Def{Name: name, Kind: KindUint, size: 4} }
func Fix(name string) Def    { return Def{Name: name, Kind: KindFixed, size: 4} }

// Str is a NUL-padded string field of n bytes.
func Str(name string, n int) Def { return Def{Name: name, Kind: KindString, size: n} }

// Raw is an uninterpreted byte field of n bytes.
func Raw(name string, n int) Def { return Def{Name: name, Kind: KindBytes, size: n} }

// Rest captures every byte left in the block.
func Rest(name string) Def { return Def{Name: name, Kind: KindBytes, rest: true} }

func Array(name string, n int, elem Def) Def {
	return Def{Name: name, Kind: KindList, count: n, elem: &elem}
}

func Struct(name string, fields ...Def) Def {
	return Def{Name: name, Kind: KindRecord, fields: fields}
}

// Size is the fixed number of bytes the field occupies, excluding any
// trailing Rest field.
func (s Def) Size() int {
	switch s.Kind {
	case KindList:
		return s.count * s.elem.Size()
	case KindRecord:
		return s.fields.Size()
	}
	if s.rest {
		return 0
	}
	return s.size
}

func (s Schema) Size() int {
	total := 0
	for _, def := range s {
		total += def.Size()
	}
	return total
}

// Decode walks b according to the schema. An empty block decodes to an
// empty record.
func Decode(b []byte, s Schema) (*Record, error) {
	if len(b) == 0 {
		return &Record{}, nil
	}
	if len(b) < s.Size() {
		return nil, fmt.Errorf("%w: game data is %d bytes, layout needs %d", resource.ErrTruncated, len(b), s.Size())
	}

	d := decoder{r: bytes.NewReader(b)}
	rec, err := d.record(s)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

type decoder struct {
	r *bytes.Reader
}

func (d *decoder) record(s Schema) (*Record, error) {
	rec := &Record{Fields: make([]Field, 0, len(s))}
	for _, def := range s {
		v, err := d.value(def)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", def.Name, err)
		}
		rec.Fields = append(rec.Fields, Field{Name: def.Name, Value: v})
	}
	return rec, nil
}

func (d *decoder) value(s Def) (Value, error) {
	switch s.Kind {
	case KindInt, KindUint, KindFixed:
		buf, err := d.take(s.size)
		if err != nil {
			return nil, err
		}
		var u uint64
		switch s.size {
		case 1:
			u = uint64(buf[0])
		case 2:
			u = uint64(binary.LittleEndian.Uint16(buf))
		case 4:
			u = uint64(binary.LittleEndian.Uint32(buf))
		default:
			return nil, fmt.Errorf("unsupported scalar width %d", s.size)
		}
		switch {
		case s.Kind == KindFixed:
			return Fixed(int32(u)), nil
		case s.signed:
			shift := 64 - uint(s.size)*8
			return Int(int64(u<<shift) >> shift), nil
		}
		return Uint(u), nil
	case KindString:
		buf, err := d.take(s.size)
		if err != nil {
			return nil, err
		}
		if i := bytes.IndexByte(buf, 0); i >= 0 {
			buf = buf[:i]
		}
		return String(buf), nil
	case KindBytes:
		n := s.size
		if s.rest {
			n = d.r.Len()
		}
		buf, err := d.take(n)
		if err != nil {
			return nil, err
		}
		return Bytes(append([]byte(nil), buf...)), nil
	case KindList:
		list := make(List, s.count)
		for i := range list {
			v, err := d.value(*s.elem)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			list[i] = v
		}
		return list, nil
	case KindRecord:
		return d.record(s.fields)
	}
	return nil, fmt.Errorf("unknown field kind %v", s.Kind)
}

func (d *decoder) take(n int) ([]byte, error) {
	if n > d.r.Len() {
		return nil, fmt.Errorf("%w: need %d bytes, have %d", resource.ErrTruncated, n, d.r.Len())
	}
	buf := make([]byte, n)
	_, _ = d.r.Read(buf)
	return buf, nil
}
