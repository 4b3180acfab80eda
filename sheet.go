package png2sprites

import (
	"errors"
	"fmt"
)

// Internal search signals, they never escape the sheet builder boundary.
var (
	errDeadEnd   = errors.New("dead end")
	errCancelled = errors.New("cancelled")
)

// A SpriteSheet is the full encoding of the image under one palette ordering.
type SpriteSheet struct {
	Sprites []*Sprite
	Palette Palette
	// Components is the worst-case tile component count, the number of
	// hardware sprite planes the sheet needs per slot.
	Components int
	// TotalComponents is the sum of all tiles' component counts.
	TotalComponents int
	// TotalBytes is the encoded size, 16 color + 32 pattern bytes per component.
	TotalBytes int
}

// A TileComponent is one emitted hardware plane with its tile's pixel position.
type TileComponent struct {
	Component
	X, Y int
}

// TileComponents returns all planes of all tiles in row-major tile order.
func (s *SpriteSheet) TileComponents() []TileComponent {
	out := make([]TileComponent, 0, s.TotalComponents)
	for _, sprite := range s.Sprites {
		for k := 0; k < sprite.Components; k++ {
			out = append(out, TileComponent{
				Component: sprite.Component(k),
				X:         sprite.X,
				Y:         sprite.Y,
			})
		}
	}
	return out
}

// buildSheet encodes all tiles under palette p. When bound is positive the
// build is aborted with errDeadEnd as soon as any tile reaches it, since
// the ordering can no longer beat the best sheet found so far. cancelled
// is checked at tile boundaries and may be nil.
func (c *Converter) buildSheet(p Palette, bound int, cancelled func() bool) (*SpriteSheet, error) {
	tilesX, tilesY := c.width/SpriteWidth, c.height/SpriteHeight
	sheet := &SpriteSheet{
		Palette: p,
		Sprites: make([]*Sprite, 0, tilesX*tilesY),
	}
	for ty := 0; ty < tilesY; ty++ {
		for tx := 0; tx < tilesX; tx++ {
			if cancelled != nil && cancelled() {
				return nil, errCancelled
			}
			sprite, err := c.buildSprite(p, tx, ty)
			if err != nil {
				return nil, err
			}
			sheet.Sprites = append(sheet.Sprites, sprite)
			if sprite.Components > sheet.Components {
				sheet.Components = sprite.Components
			}
			if bound > 0 && sprite.Components >= bound {
				return nil, fmt.Errorf("%w: tile (%d,%d) needs %d components", errDeadEnd, tx, ty, sprite.Components)
			}
			sheet.TotalComponents += sprite.Components
			cb, pb := sprite.Size()
			sheet.TotalBytes += cb + pb
		}
	}
	return sheet, nil
}

// buildSprite encodes one 16x16 tile, both half-lines of every raster line.
func (c *Converter) buildSprite(p Palette, tx, ty int) (*Sprite, error) {
	sprite := &Sprite{X: tx * SpriteWidth, Y: ty * SpriteHeight}
	for j := 0; j < SpriteHeight; j++ {
		y := ty*SpriteHeight + j
		for cell, xoff := range [2]int{CellLeft: 0, CellRight: 8} {
			var pix [8]byte
			var missing []RGB
			for k := 0; k < 8; k++ {
				col := c.pixelAt(tx*SpriteWidth+xoff+k, y)
				idx, ok := p.Index(col)
				if !ok {
					missing = append(missing, col)
					continue
				}
				pix[k] = idx
			}
			if missing != nil {
				return nil, &ColorNotInPaletteError{TileX: tx, TileY: ty, Colors: missing}
			}
			pattern, combine := encodeHalfLine(pix)
			for col := 1; col < MaxColors; col++ {
				if pattern[col] != 0 {
					sprite.AddLine(j, byte(col), cell, pattern[col], combine[col])
				}
			}
		}
	}
	return sprite, nil
}
