// Package descent implements access to the asset archives of Parallax
// Software's Descent.
//
// Descent ships its data in two containers. HOG files are flat bundles of
// named files (levels, briefings, fonts, palettes, music). PIG files hold
// the game's bitmaps and sounds together with a block of game data
// describing textures and animations. Entries obtained from either are
// decoded with the codecs in the resource package.
package descent

import (
	"path/filepath"
	"strings"

	"github.com/32bitkid/descent/gamedata"
)

type Kind uint8

const (
	KindHOG Kind = iota
	KindPIG
)

func (k Kind) String() string {
	switch k {
	case KindHOG:
		return "Kind(HOG)"
	case KindPIG:
		return "Kind(PIG)"
	}
	return "Kind(UNKNOWN)"
}

// Archive is an opened HOG or PIG.
type Archive struct {
	Path     string
	Kind     Kind
	Entries  []Entry
	GameData *gamedata.Record
}

// Open reads the archive at path. Files with a .pig extension are read
// as PIGs, anything else as a HOG.
func Open(path string) (*Archive, error) {
	archive := &Archive{Path: path}

	if strings.EqualFold(filepath.Ext(path), ".pig") {
		images, sounds, gd, err := ReadPIG(path)
		if err != nil {
			return nil, err
		}
		archive.Kind = KindPIG
		archive.Entries = pigEntries(images, sounds)
		archive.GameData = gd
		return archive, nil
	}

	entries, err := ReadHOG(path)
	if err != nil {
		return nil, err
	}
	archive.Kind = KindHOG
	archive.Entries = entries
	return archive, nil
}

// Writable reports whether the archive can be saved back. PIGs are read
// only.
func (a *Archive) Writable() bool { return a.Kind == KindHOG }

// Find looks up an entry by name, ignoring case.
func (a *Archive) Find(name string) (Entry, bool) {
	for _, e := range a.Entries {
		if strings.EqualFold(e.Name, name) {
			return e, true
		}
	}
	return Entry{}, false
}
