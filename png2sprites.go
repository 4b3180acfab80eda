package png2sprites

import (
	"bytes"
	"flag"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const Version = "1.1"

const (
	// SpriteWidth and SpriteHeight are fixed by the VDP, a tile is one 16x16 sprite slot.
	SpriteWidth  = 16
	SpriteHeight = 16
	// MaxColors is the size of the color index space, index 0 is transparent.
	MaxColors = 16
	// combineBit is the CC bit in a hardware per-line color byte.
	combineBit = 0x40
)

// DefaultTransparent is the RGB value treated as "not drawn" in source images.
var DefaultTransparent = RGB{0xff, 0x00, 0xff}

// An RGB is one 8 bit per channel pixel sample.
type RGB struct {
	R, G, B byte
}

func (c RGB) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Less orders colors lexicographically by channel, used for deterministic palettes.
func (c RGB) Less(o RGB) bool {
	if c.R != o.R {
		return c.R < o.R
	}
	if c.G != o.G {
		return c.G < o.G
	}
	return c.B < o.B
}

type Options struct {
	OutFile        string
	TargetDir      string
	Format         string
	Label          string
	PaletteFile    string
	Transparent    string
	Minimize       bool
	IncludePalette bool
	Quantize       bool
	Parallel       bool
	NumWorkers     int
	Quiet          bool
	Verbose        bool
	VeryVerbose    bool
}

// A Converter holds the source pixel grid and palette and converts them
// into the winning SpriteSheet on WriteTo.
type Converter struct {
	opt            Options
	sourceFilename string
	width, height  int
	pixels         []RGB
	trans          RGB
	palette        Palette
	maxLineColors  int
	minComponents  int
}

// NewFromPath opens path and returns a new Converter.
func NewFromPath(opt Options, path string) (*Converter, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("os.Open %q failed: %w", path, err)
	}
	defer f.Close()
	c, err := New(opt, f)
	if err != nil {
		return nil, err
	}
	c.sourceFilename = path
	return c, nil
}

// New decodes the image in r and returns a new Converter.
func New(opt Options, r io.Reader) (*Converter, error) {
	m, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("image.Decode failed: %w", err)
	}
	return NewFromImage(opt, m)
}

// NewFromImage returns a new Converter for image m.
// It validates the image dimensions, reads all pixels into memory,
// sets up the palette and pre-computes the per-line color statistics.
func NewFromImage(opt Options, m image.Image) (*Converter, error) {
	c := &Converter{opt: opt, trans: DefaultTransparent}
	if c.opt.Label == "" {
		c.opt.Label = "sprites"
	}
	switch c.opt.Format {
	case "", "c", "asm", "basic":
	default:
		return nil, fmt.Errorf("unknown output format %q", c.opt.Format)
	}
	if opt.Transparent != "" {
		col, err := parseRGB(opt.Transparent)
		if err != nil {
			return nil, fmt.Errorf("parseRGB %q failed: %w", opt.Transparent, err)
		}
		c.trans = col
	}
	if err := c.checkBounds(m); err != nil {
		return nil, err
	}
	// an explicit palette must fail before any pixel processing starts
	havePalette := false
	if opt.PaletteFile != "" {
		pal, err := LoadPalette(opt.PaletteFile, c.trans)
		if err != nil {
			return nil, fmt.Errorf("LoadPalette %q failed: %w", opt.PaletteFile, err)
		}
		c.palette, havePalette = pal, true
	}
	if err := c.readPixels(m); err != nil {
		return nil, fmt.Errorf("readPixels failed: %w", err)
	}
	if !havePalette {
		pal, err := PaletteFromPixels(c.pixels, c.trans)
		if err != nil {
			return nil, fmt.Errorf("PaletteFromPixels failed: %w", err)
		}
		c.palette = pal
	}
	if err := c.analyze(); err != nil {
		return nil, err
	}
	return c, nil
}

// Sheet converts the pixel grid into the winning SpriteSheet, searching
// palette orderings when Options.Minimize is set.
func (c *Converter) Sheet() (*SpriteSheet, error) {
	if !c.opt.Minimize {
		return c.buildSheet(c.palette, 0, nil)
	}
	if c.opt.Parallel {
		return c.searchParallel()
	}
	return c.search()
}

// WriteTo converts the image and writes the result in the selected
// output format. Nothing is written unless the conversion fully succeeds.
func (c *Converter) WriteTo(w io.Writer) (int64, error) {
	sheet, err := c.Sheet()
	if err != nil {
		return 0, fmt.Errorf("conversion failed: %w", err)
	}
	buf := &bytes.Buffer{}
	switch c.opt.Format {
	case "asm":
		c.writeAsm(buf, sheet)
	case "basic":
		c.writeBasic(buf, sheet)
	default:
		c.writeC(buf, sheet)
	}
	n, err := w.Write(buf.Bytes())
	if err != nil {
		return int64(n), fmt.Errorf("Write failed: %w", err)
	}
	return int64(n), nil
}

// readPixels stores all image samples in a row-major RGB grid.
func (c *Converter) readPixels(m image.Image) error {
	if c.opt.Quantize {
		return c.readPixelsQuantized(m)
	}
	c.pixels = make([]RGB, c.width*c.height)
	b := m.Bounds()
	for y := 0; y < c.height; y++ {
		for x := 0; x < c.width; x++ {
			c.pixels[y*c.width+x] = toRGB(m.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return nil
}

func (c *Converter) pixelAt(x, y int) RGB {
	return c.pixels[y*c.width+x]
}

// parseRGB parses "r,g,b" with decimal 0-255 channels.
func parseRGB(s string) (RGB, error) {
	a := strings.Split(s, ",")
	if len(a) != 3 {
		return RGB{}, fmt.Errorf("%w: expected 3 channels, got %d", ErrInvalidColorComponent, len(a))
	}
	var ch [3]byte
	for i, v := range a {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return RGB{}, fmt.Errorf("%w: %q is not an integer", ErrInvalidColorComponent, v)
		}
		if n < 0 || n > 255 {
			return RGB{}, fmt.Errorf("%w: channel %d out of range", ErrInvalidColorComponent, n)
		}
		ch[i] = byte(n)
	}
	return RGB{ch[0], ch[1], ch[2]}, nil
}

// DestinationFilename returns the default output filename for the
// selected format, obeying opt.TargetDir and opt.OutFile.
func DestinationFilename(filename string, opt Options) (destfilename string) {
	if len(opt.TargetDir) > 0 {
		destfilename = filepath.Dir(opt.TargetDir+string(os.PathSeparator)) + string(os.PathSeparator)
	}
	if len(opt.OutFile) > 0 {
		return destfilename + opt.OutFile
	}
	ext := ".h"
	switch opt.Format {
	case "asm":
		ext = ".asm"
	case "basic":
		ext = ".bas"
	}
	return destfilename + filepath.Base(strings.TrimSuffix(filename, filepath.Ext(filename))+ext)
}

func PrintUsage() {
	fmt.Println("usage: ./png2sprites [-help -minimise -palette file.yaml -format c|asm|basic] FILE [FILE..]")
}

func PrintHelp() {
	fmt.Printf("# png2sprites %v\n", Version)
	fmt.Println()
	fmt.Println("png2sprites converts 16 color images into MSX2 sprite data.")
	fmt.Println("Image width and height must be multiples of 16, each 16x16 tile")
	fmt.Println("becomes one or more hardware sprite components.")
	fmt.Println()
	fmt.Println("When a tile line needs more colors than sprite planes, the VDP")
	fmt.Println("color-combine (CC) feature is used: two planes' colors are OR'ed")
	fmt.Println("together to synthesize a third color. Use -minimise to search")
	fmt.Println("palette index orderings for the lowest worst-case component count.")
	fmt.Println()
	fmt.Println("The transparent color defaults to #ff00ff, override with -transparent r,g,b.")
	fmt.Println()
	fmt.Println("## Palette file")
	fmt.Println()
	fmt.Println("A YAML sequence of RGB triples, max 16, the first entry is transparent:")
	fmt.Println()
	fmt.Println("  - [255, 0, 255]")
	fmt.Println("  - [0, 0, 0]")
	fmt.Println("  - [255, 255, 255]")
	fmt.Println()
	fmt.Println("## Examples")
	fmt.Println()
	fmt.Println("  ./png2sprites -minimise player.png")
	fmt.Println("  ./png2sprites -format asm -id player player.png")
	fmt.Println("  ./png2sprites -format basic -minimise -parallel player.png")
	fmt.Println()
	fmt.Println("## Options")
	fmt.Println()
	flag.PrintDefaults()
}
