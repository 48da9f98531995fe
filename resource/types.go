package resource

import (
	"path"
	"strings"
)

type Type uint8

const (
	TypeUnknown Type = iota
	TypeBitmap
	TypePCX
	TypeImage
	TypePalette
	TypeFont
	TypeRaw
	TypeWAV
	TypeMIDI
	TypeTXB
	TypeText
)

// TypeOf classifies an archive entry by its file extension.
func TypeOf(name string) Type {
	switch strings.ToLower(path.Ext(name)) {
	case ".bbm", ".iff":
		return TypeBitmap
	case ".pcx":
		return TypePCX
	case ".bmp", ".png", ".jpg", ".jpeg":
		return TypeImage
	case ".256":
		return TypePalette
	case ".fnt":
		return TypeFont
	case ".raw":
		return TypeRaw
	case ".wav":
		return TypeWAV
	case ".mid", ".hmp":
		return TypeMIDI
	case ".txb":
		return TypeTXB
	case ".msn", ".mn2", ".sng", ".txt":
		return TypeText
	}
	return TypeUnknown
}

func (t Type) String() string {
	switch t {
	case TypeUnknown:
		return "Type(Unknown)"
	case TypeBitmap:
		return "Type(Bitmap)"
	case TypePCX:
		return "Type(PCX)"
	case TypeImage:
		return "Type(Image)"
	case TypePalette:
		return "Type(Palette)"
	case TypeFont:
		return "Type(Font)"
	case TypeRaw:
		return "Type(Raw)"
	case TypeWAV:
		return "Type(WAV)"
	case TypeMIDI:
		return "Type(MIDI)"
	case TypeTXB:
		return "Type(TXB)"
	case TypeText:
		return "Type(Text)"
	}
	return "Type(UNKNOWN)"
}
