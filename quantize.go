package png2sprites

import (
	"image"
	"image/color"
	"log"

	"github.com/ericpauley/go-quantize/quantize"
)

// readPixelsQuantized reduces the image to at most 15 colors plus the
// transparent color with a median-cut quantizer before filling the pixel
// grid. Used when the source has more colors than the palette can hold.
func (c *Converter) readPixelsQuantized(m image.Image) error {
	q := quantize.MedianCutQuantizer{}
	pal := q.Quantize(make(color.Palette, 0, MaxColors-1), m)

	// the quantizer may hand back the transparent color, drop it so the
	// palette derivation keeps it pinned at index 0
	cleaned := make(color.Palette, 0, len(pal))
	for _, col := range pal {
		if toRGB(col) == c.trans {
			continue
		}
		cleaned = append(cleaned, col)
	}
	if len(cleaned) == 0 {
		cleaned = append(cleaned, color.RGBA{A: 0xff})
	}
	if c.opt.Verbose {
		log.Printf("quantized source to %d colors", len(cleaned))
	}

	c.pixels = make([]RGB, c.width*c.height)
	b := m.Bounds()
	for y := 0; y < c.height; y++ {
		for x := 0; x < c.width; x++ {
			col := toRGB(m.At(b.Min.X+x, b.Min.Y+y))
			if col != c.trans {
				col = toRGB(cleaned.Convert(m.At(b.Min.X+x, b.Min.Y+y)))
			}
			c.pixels[y*c.width+x] = col
		}
	}
	return nil
}
