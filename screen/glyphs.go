package screen

import (
	"image"
	"image/draw"

	"github.com/32bitkid/descent/resource"
)

const (
	glyphsPerRow = 16
	glyphSpacing = 2
)

// GlyphSheet lays out every glyph of a font, 16 per row, on a black
// ground.
func GlyphSheet(f *resource.Font) *image.RGBA {
	cellW, cellH := f.Width+glyphSpacing, f.Height+glyphSpacing
	rows := (len(f.Glyphs) + glyphsPerRow - 1) / glyphsPerRow

	img := image.NewRGBA(image.Rect(0, 0, glyphsPerRow*cellW, rows*cellH))
	draw.Draw(img, img.Rect, image.NewUniform(rgb(0, 0, 0)), image.Point{}, draw.Src)

	for i, g := range f.Glyphs {
		x, y := (i%glyphsPerRow)*cellW, (i/glyphsPerRow)*cellH
		r := image.Rect(x, y, x+g.Width, y+g.Height).Intersect(img.Rect)
		draw.Draw(img, r, g.Image, image.Point{}, draw.Over)
	}
	return img
}
