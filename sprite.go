package png2sprites

// Cells of a sprite line, the left and right 8 pixel halves.
const (
	CellLeft  = 0
	CellRight = 1
)

// A spriteLine holds one color's pattern pair on one raster line.
// Created on first write, the combine flag is sticky once set.
type spriteLine struct {
	present bool
	pattern [2]byte
	combine bool
}

// A Sprite is one 16x16 tile. Lines are indexed by raster line and color
// index, fixed arrays since the index space is bounded.
type Sprite struct {
	// X and Y are the tile's pixel position in the source image.
	X, Y int
	// Components is the number of hardware sprite planes the tile needs,
	// the maximum number of distinct colors on any single line.
	Components int

	lines [SpriteHeight][MaxColors]spriteLine
}

// AddLine records the pattern byte of color on line for the given cell.
func (s *Sprite) AddLine(line int, color byte, cell int, pattern byte, combine bool) {
	l := &s.lines[line][color]
	l.present = true
	l.pattern[cell] = pattern
	if combine {
		l.combine = true
	}
	n := 0
	for c := range s.lines[line] {
		if s.lines[line][c].present {
			n++
		}
	}
	if n > s.Components {
		s.Components = n
	}
}

// A Component is the byte layout of one hardware sprite plane: a color
// byte per line (with the CC bit when flagged) and the pattern bytes of
// all left halves followed by all right halves.
type Component struct {
	Colors   [SpriteHeight]byte
	Patterns [2 * SpriteHeight]byte
}

// Component returns the idx-th plane of the tile: per line the idx-th
// smallest color index present, zero bytes where fewer colors exist.
func (s *Sprite) Component(idx int) Component {
	var comp Component
	for line := 0; line < SpriteHeight; line++ {
		nth := 0
		for c := 1; c < MaxColors; c++ {
			l := s.lines[line][c]
			if !l.present {
				continue
			}
			if nth == idx {
				col := byte(c)
				if l.combine {
					col |= combineBit
				}
				comp.Colors[line] = col
				comp.Patterns[line] = l.pattern[CellLeft]
				comp.Patterns[SpriteHeight+line] = l.pattern[CellRight]
				break
			}
			nth++
		}
	}
	return comp
}

// Size returns the encoded color and pattern byte counts of the tile.
func (s *Sprite) Size() (colorBytes, patternBytes int) {
	return SpriteHeight * s.Components, 2 * SpriteHeight * s.Components
}
