package screen

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/32bitkid/descent/resource"
)

const (
	swatchesPerRow = 16
	swatchSize     = 24
)

// Swatches renders a palette as a 16 column grid of 24 pixel squares.
func Swatches(pal color.Palette) *image.RGBA {
	rows := (len(pal) + swatchesPerRow - 1) / swatchesPerRow
	img := image.NewRGBA(image.Rect(0, 0, swatchesPerRow*swatchSize, rows*swatchSize))
	for i, c := range pal {
		x, y := (i%swatchesPerRow)*swatchSize, (i/swatchesPerRow)*swatchSize
		r := image.Rect(x, y, x+swatchSize, y+swatchSize)
		draw.Draw(img, r, image.NewUniform(opaque(c)), image.Point{}, draw.Src)
	}
	return img
}

// Shaded returns the palette as it appears at the given light level,
// resolved through the fade table.
func Shaded(p *resource.Palette, level int) color.Palette {
	pal := make(color.Palette, resource.PaletteColors)
	for i := range pal {
		pal[i] = p.Color(p.Shade(uint8(i), level))
	}
	return pal
}

// Quantize maps every pixel of img to the perceptually nearest palette
// index. Pixels that are mostly transparent become TransparentIndex, and
// opaque pixels never map onto the transparent slots.
func Quantize(img image.Image, pal color.Palette) []uint8 {
	lab := labPalette(pal)
	skip := func(i int) bool {
		return i == resource.TransparentIndex || i == resource.SuperTransparentIndex
	}

	b := img.Bounds()
	indices := make([]uint8, 0, b.Dx()*b.Dy())
	cache := make(map[color.RGBA]uint8)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
			if c.A < 0x80 {
				indices = append(indices, resource.TransparentIndex)
				continue
			}
			i, ok := cache[c]
			if !ok {
				i = nearest(c, lab, skip)
				cache[c] = i
			}
			indices = append(indices, i)
		}
	}
	return indices
}
