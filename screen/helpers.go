package screen

import (
	"image/color"

	clr "github.com/lucasb-eyer/go-colorful"
)

// nearest returns the index of the palette entry perceptually closest to
// c, skipping the indices in skip.
func nearest(c color.Color, pal []clr.Color, skip func(int) bool) uint8 {
	target, _ := clr.MakeColor(c)
	best, bestDist := 0, -1.0
	for i, p := range pal {
		if skip != nil && skip(i) {
			continue
		}
		d := target.DistanceLab(p)
		if bestDist < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return uint8(best)
}

func labPalette(pal color.Palette) []clr.Color {
	colors := make([]clr.Color, len(pal))
	for i, c := range pal {
		// MakeColor only fails for fully transparent colours.
		colors[i], _ = clr.MakeColor(opaque(c))
	}
	return colors
}

func opaque(c color.Color) color.Color {
	r, g, b, _ := c.RGBA()
	return color.RGBA{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), 0xff}
}

func rgb(r, g, b uint8) color.RGBA {
	return color.RGBA{r, g, b, 255}
}
