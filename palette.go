package png2sprites

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

var (
	// ErrPaletteTooLarge is returned when more than MaxColors colors are in play.
	ErrPaletteTooLarge = errors.New("palette too large")
	// ErrInvalidColorComponent is returned for color channels outside 0-255.
	ErrInvalidColorComponent = errors.New("invalid color component")
	// ErrNotMultipleOfTileSize is returned for images not divisible into 16x16 tiles.
	ErrNotMultipleOfTileSize = errors.New("image size is not a multiple of the sprite size")
)

// A ColorNotInPaletteError reports pixels using colors absent from the
// active palette, with the tile coordinates for diagnostics.
type ColorNotInPaletteError struct {
	TileX, TileY int
	Colors       []RGB
}

func (e *ColorNotInPaletteError) Error() string {
	s := ""
	for i, col := range e.Colors {
		if i > 0 {
			s += ", "
		}
		s += col.String()
	}
	return fmt.Sprintf("colors used in tile (%d,%d) are not present in the palette: %s", e.TileX, e.TileY, s)
}

// A Palette is an ordered color index table. Index 0 is always the
// transparent color, the order of indexes 1..N-1 decides which OR
// combinations the hardware can synthesize.
type Palette struct {
	colors []RGB
	lookup map[RGB]byte
}

// NewPalette returns a Palette with colors[0] as the transparent entry.
func NewPalette(colors []RGB) (Palette, error) {
	if len(colors) > MaxColors {
		return Palette{}, fmt.Errorf("%w: maximum of %d colors expected, got %d", ErrPaletteTooLarge, MaxColors, len(colors))
	}
	p := Palette{
		colors: make([]RGB, len(colors)),
		lookup: make(map[RGB]byte, len(colors)),
	}
	copy(p.colors, colors)
	for i, col := range colors {
		if _, ok := p.lookup[col]; !ok {
			p.lookup[col] = byte(i)
		}
	}
	return p, nil
}

// PaletteFromPixels derives a palette from the image itself: all distinct
// non-transparent samples sorted by channel tuple, transparent prepended.
func PaletteFromPixels(pixels []RGB, trans RGB) (Palette, error) {
	seen := map[RGB]struct{}{}
	cc := []RGB{}
	for _, col := range pixels {
		if col == trans {
			continue
		}
		if _, ok := seen[col]; ok {
			continue
		}
		seen[col] = struct{}{}
		cc = append(cc, col)
	}
	sort.Slice(cc, func(i, j int) bool { return cc[i].Less(cc[j]) })
	return NewPalette(append([]RGB{trans}, cc...))
}

// LoadPalette reads a YAML palette file, a sequence of RGB integer triples.
// The transparent color is forced into index 0.
func LoadPalette(path string, trans RGB) (Palette, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Palette{}, fmt.Errorf("os.ReadFile failed: %w", err)
	}
	return ParsePalette(data, trans)
}

// ParsePalette parses the YAML palette data.
func ParsePalette(data []byte, trans RGB) (Palette, error) {
	var raw [][]int
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Palette{}, fmt.Errorf("yaml.Unmarshal failed: %w", err)
	}
	if len(raw) > MaxColors {
		return Palette{}, fmt.Errorf("%w: maximum of %d colors expected, got %d", ErrPaletteTooLarge, MaxColors, len(raw))
	}
	cc := []RGB{}
	for i, tuple := range raw {
		if len(tuple) != 3 {
			return Palette{}, fmt.Errorf("%w: entry %d has %d channels, expected 3", ErrInvalidColorComponent, i, len(tuple))
		}
		var ch [3]byte
		for j, v := range tuple {
			if v < 0 || v > 255 {
				return Palette{}, fmt.Errorf("%w: entry %d channel %d out of range", ErrInvalidColorComponent, i, v)
			}
			ch[j] = byte(v)
		}
		col := RGB{ch[0], ch[1], ch[2]}
		if col == trans && len(cc) == 0 && i == 0 {
			continue
		}
		cc = append(cc, col)
	}
	// transparent always occupies index 0, whether the file lists it or not
	cc = append([]RGB{trans}, cc...)
	if len(cc) > MaxColors {
		return Palette{}, fmt.Errorf("%w: maximum of %d colors expected, got %d including transparent", ErrPaletteTooLarge, MaxColors, len(cc))
	}
	return NewPalette(cc)
}

func (p Palette) String() string {
	s := ""
	for i, col := range p.colors {
		s += fmt.Sprintf("%d,%s ", i, col)
	}
	return s
}

// NumColors returns the number of colors including the transparent entry.
func (p Palette) NumColors() int {
	return len(p.colors)
}

// Colors returns the ordered colors, index 0 first.
func (p Palette) Colors() []RGB {
	cc := make([]RGB, len(p.colors))
	copy(cc, p.colors)
	return cc
}

// Index returns the color index of col.
func (p Palette) Index(col RGB) (byte, bool) {
	i, ok := p.lookup[col]
	return i, ok
}

// Color returns the RGB value at index i, the zero value when out of range.
func (p Palette) Color(i byte) RGB {
	if int(i) >= len(p.colors) {
		return RGB{}
	}
	return p.colors[i]
}

// Reorder returns a new Palette with the transparent entry kept at index 0
// and ordering as the indexes 1..N-1.
func (p Palette) Reorder(ordering []RGB) Palette {
	np, _ := NewPalette(append([]RGB{p.colors[0]}, ordering...))
	return np
}

// toRGB converts a color.Color to an RGB sample.
func toRGB(c color.Color) RGB {
	r, g, b, _ := c.RGBA()
	return RGB{byte(r >> 8), byte(g >> 8), byte(b >> 8)}
}
