package png2sprites

import (
	"fmt"
	"image"
	"log"
)

// checkBounds confirms the image divides into 16x16 tiles and stores the
// dimensions. Returns error if requirements aren't met.
func (c *Converter) checkBounds(m image.Image) error {
	b := m.Bounds()
	c.width, c.height = b.Max.X-b.Min.X, b.Max.Y-b.Min.Y
	if c.width%SpriteWidth != 0 || c.height%SpriteHeight != 0 {
		return fmt.Errorf("%w: %d x %d pixels, expected multiples of %d x %d",
			ErrNotMultipleOfTileSize, c.width, c.height, SpriteWidth, SpriteHeight)
	}
	return nil
}

// analyze validates that every pixel color is present in the palette and
// computes the per-line color statistics driving the palette search:
// c.maxLineColors, the largest number of simultaneous colors on any tile
// line, and c.minComponents, the component count no palette ordering can
// beat.
func (c *Converter) analyze() error {
	if c.opt.Verbose {
		log.Printf("palette: %s", c.palette)
		log.Printf("total colors: %d", c.palette.NumColors())
	}
	tilesX, tilesY := c.width/SpriteWidth, c.height/SpriteHeight
	for ty := 0; ty < tilesY; ty++ {
		for tx := 0; tx < tilesX; tx++ {
			var missing []RGB
			seenMissing := map[RGB]struct{}{}
			for j := 0; j < SpriteHeight; j++ {
				distinct := map[RGB]struct{}{}
				for i := 0; i < SpriteWidth; i++ {
					col := c.pixelAt(tx*SpriteWidth+i, ty*SpriteHeight+j)
					if col == c.trans {
						continue
					}
					if _, ok := c.palette.Index(col); !ok {
						if _, dup := seenMissing[col]; !dup {
							seenMissing[col] = struct{}{}
							missing = append(missing, col)
						}
						continue
					}
					distinct[col] = struct{}{}
				}
				if len(distinct) > c.maxLineColors {
					c.maxLineColors = len(distinct)
				}
			}
			if missing != nil {
				return &ColorNotInPaletteError{TileX: tx, TileY: ty, Colors: missing}
			}
		}
	}
	c.minComponents = minimumComponents(c.maxLineColors)
	if c.opt.Verbose {
		log.Printf("max simultaneous colors on a line: %d", c.maxLineColors)
		log.Printf("theoretical minimum components: %d", c.minComponents)
	}
	return nil
}

// minimumComponents runs the decomposer over a synthetic worst-case line
// holding k colors under an ideal index assignment and returns its plane
// count. No ordering of the real palette can need fewer components than
// this on a line with k simultaneous colors.
func minimumComponents(k int) int {
	var set lineSet
	n := 0
	for v := 1; v < MaxColors && n < k; v++ {
		// 12 has no combine table entry, an ideal assignment uses it last
		if v == 12 && k < MaxColors-1 {
			continue
		}
		set[v] = true
		n++
	}
	removable := decombine(set)
	count := 0
	for v := 1; v < MaxColors; v++ {
		if set[v] && !removable[v] {
			count++
		}
	}
	return count
}
