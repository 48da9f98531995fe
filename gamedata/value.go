// Package gamedata models the structured game-data block of a PIG file
// as a tree of named values described by a Schema.
//
// A Record is a plain arena of fields: nothing in the tree carries
// behaviour, so dumping it is a simple walk.
package gamedata

type Kind uint8

const (
	KindInt Kind = iota
	KindUint
	KindFixed
	KindString
	KindBytes
	KindList
	KindRecord
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "Kind(Int)"
	case KindUint:
		return "Kind(Uint)"
	case KindFixed:
		return "Kind(Fixed)"
	case KindString:
		return "Kind(String)"
	case KindBytes:
		return "Kind(Bytes)"
	case KindList:
		return "Kind(List)"
	case KindRecord:
		return "Kind(Record)"
	}
	return "Kind(UNKNOWN)"
}

// Value is one of Int, Uint, Fixed, String, Bytes, List or *Record.
type Value interface {
	Kind() Kind
	value()
}

type (
	Int    int64
	Uint   uint64
	String string
	Bytes  []byte
	List   []Value
)

// Fixed is a signed 16.16 fixed-point number.
type Fixed int32

func (f Fixed) Float() float64 { return float64(f) / 65536 }

type Field struct {
	Name  string
	Value Value
}

type Record struct {
	Fields []Field
}

func (Int) Kind() Kind     { return KindInt }
func (Uint) Kind() Kind    { return KindUint }
func (Fixed) Kind() Kind   { return KindFixed }
func (String) Kind() Kind  { return KindString }
func (Bytes) Kind() Kind   { return KindBytes }
func (List) Kind() Kind    { return KindList }
func (*Record) Kind() Kind { return KindRecord }

func (Int) value()     {}
func (Uint) value()    {}
func (Fixed) value()   {}
func (String) value()  {}
func (Bytes) value()   {}
func (List) value()    {}
func (*Record) value() {}

// Get returns the first field with the given name.
func (r *Record) Get(name string) (Value, bool) {
	if r == nil {
		return nil, false
	}
	for _, f := range r.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// Int returns the named field as an integer when it holds one.
func (r *Record) Int(name string) (int64, bool) {
	v, ok := r.Get(name)
	if !ok {
		return 0, false
	}
	switch v := v.(type) {
	case Int:
		return int64(v), true
	case Uint:
		return int64(v), true
	}
	return 0, false
}

func (r *Record) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Fields)
}
