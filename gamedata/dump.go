package gamedata

import (
	"fmt"
	"io"
	"strings"
)

// Dump writes r as indented "name: value" lines. Byte fields and lists
// are summarised by their length.
func Dump(w io.Writer, r *Record) error {
	return dump(w, r, 0)
}

func DumpString(r *Record) string {
	var sb strings.Builder
	_ = Dump(&sb, r)
	return sb.String()
}

func dump(w io.Writer, r *Record, depth int) error {
	indent := strings.Repeat("  ", depth)
	for _, f := range r.Fields {
		var err error
		switch v := f.Value.(type) {
		case nil:
			_, err = fmt.Fprintf(w, "%s%s: (null)\n", indent, f.Name)
		case Bytes:
			_, err = fmt.Fprintf(w, "%s%s: %d bytes\n", indent, f.Name, len(v))
		case List:
			_, err = fmt.Fprintf(w, "%s%s: %d entries\n", indent, f.Name, len(v))
		case *Record:
			if _, err = fmt.Fprintf(w, "%s%s:\n", indent, f.Name); err == nil {
				err = dump(w, v, depth+1)
			}
		case Fixed:
			_, err = fmt.Fprintf(w, "%s%s: %g\n", indent, f.Name, v.Float())
		default:
			_, err = fmt.Fprintf(w, "%s%s: %v\n", indent, f.Name, v)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
