package png2sprites

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDestinationFilename(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "player.h", DestinationFilename("player.png", Options{}))
	assert.Equal(t, "player.asm", DestinationFilename("player.png", Options{Format: "asm"}))
	assert.Equal(t, "player.bas", DestinationFilename("player.png", Options{Format: "basic"}))
	assert.Equal(t, "out.h", DestinationFilename("player.png", Options{OutFile: "out.h"}))
	assert.Equal(t, "build/player.h", DestinationFilename("testdata/player.png", Options{TargetDir: "build"}))
}

func TestUnknownFormat(t *testing.T) {
	t.Parallel()
	m := image.NewRGBA(image.Rect(0, 0, SpriteWidth, SpriteHeight))
	_, err := NewFromImage(Options{Quiet: true, Format: "prg"}, m)
	assert.NotNil(t, err)
}

func TestCustomTransparent(t *testing.T) {
	t.Parallel()
	m := image.NewRGBA(image.Rect(0, 0, SpriteWidth, SpriteHeight))
	for y := 0; y < SpriteHeight; y++ {
		for x := 0; x < SpriteWidth; x++ {
			m.Set(x, y, color.RGBA{A: 0xff})
		}
	}
	m.Set(0, 0, color.RGBA{R: 0xff, A: 0xff})

	c, err := NewFromImage(Options{Quiet: true, Transparent: "0,0,0"}, m)
	require.Nil(t, err)
	sheet, err := c.Sheet()
	require.Nil(t, err)
	assert.Equal(t, 1, sheet.Components, "black pixels are transparent, only red is drawn")
}

func TestQuantize(t *testing.T) {
	t.Parallel()
	m := image.NewRGBA(image.Rect(0, 0, SpriteWidth, SpriteHeight))
	for y := 0; y < SpriteHeight; y++ {
		for x := 0; x < SpriteWidth; x++ {
			m.Set(x, y, color.RGBA{R: byte(x * 16), G: byte(y * 16), B: 0x80, A: 0xff})
		}
	}
	_, err := NewFromImage(Options{Quiet: true}, m)
	assert.NotNil(t, err, "256 distinct colors do not fit a palette")

	c, err := NewFromImage(Options{Quiet: true, Quantize: true}, m)
	require.Nil(t, err)
	assert.LessOrEqual(t, c.palette.NumColors(), MaxColors)
	_, err = c.Sheet()
	assert.Nil(t, err)
}

func BenchmarkSheetMinimize(b *testing.B) {
	rows := [][]byte{
		{1, 2, 4, 4, 2, 1, 0, 0, 5, 5, 0, 0, 0, 0, 0, 0},
		{3, 3, 3, 0, 0, 0, 0, 0, 6, 6, 6, 0, 0, 0, 0, 1},
	}
	m := image.NewRGBA(image.Rect(0, 0, SpriteWidth, SpriteHeight))
	for y := 0; y < SpriteHeight; y++ {
		for x := 0; x < SpriteWidth; x++ {
			idx := byte(0)
			if y < len(rows) && x < len(rows[y]) {
				idx = rows[y][x]
			}
			m.Set(x, y, testRGBA(idx))
		}
	}
	opt := Options{Quiet: true, Minimize: true}
	for i := 0; i < b.N; i++ {
		c, err := NewFromImage(opt, m)
		if err != nil {
			b.Fatalf("NewFromImage failed: %v", err)
		}
		buf := &bytes.Buffer{}
		if _, err = c.WriteTo(buf); err != nil {
			b.Fatalf("WriteTo failed: %v", err)
		}
	}
}
