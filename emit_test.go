package png2sprites

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var emitRows = [][]byte{
	{1, 2, 3, 0, 0, 0, 0, 0, 1, 1, 0, 0, 0, 0, 0, 0},
	{2, 2, 2},
}

func emitOutput(t *testing.T, opt Options) string {
	t.Helper()
	c := testConverter(t, opt, emitRows)
	buf := &bytes.Buffer{}
	n, err := c.WriteTo(buf)
	require.Nil(t, err)
	require.Equal(t, int64(buf.Len()), n)
	return buf.String()
}

func TestWriteC(t *testing.T) {
	t.Parallel()
	out := emitOutput(t, Options{Format: "c", IncludePalette: true})
	assert.Contains(t, out, "#ifndef _SPRITES_H")
	assert.Contains(t, out, "#define SPRITES_TOTAL 96")
	assert.Contains(t, out, "#ifdef LOCAL")
	assert.Contains(t, out, "const unsigned char sprites_colors[2][16] = {")
	assert.Contains(t, out, "const unsigned char sprites_patterns[2][32] = {")
	assert.Contains(t, out, "const unsigned char sprites_palette[8] = {")
	assert.Contains(t, out, "extern const unsigned char sprites_colors[2][16];")
	assert.Contains(t, out, "#endif // _SPRITES_H")
}

func TestWriteAsm(t *testing.T) {
	t.Parallel()
	out := emitOutput(t, Options{Format: "asm", Label: "player"})
	assert.Contains(t, out, "PLAYER_TOTAL = 96")
	assert.Contains(t, out, "player:")
	assert.Contains(t, out, "player_color0:")
	assert.Contains(t, out, "player_pattern1:")
	assert.Contains(t, out, "\tdb #")
}

func TestWriteBasic(t *testing.T) {
	t.Parallel()
	out := emitOutput(t, Options{Format: "basic"})
	assert.Contains(t, out, "100 SCREEN 5,2")
	assert.Contains(t, out, "COLOR SPRITE$(0)=A$")
	assert.Contains(t, out, "PUT SPRITE 0,(100,100),,0")
	assert.Contains(t, out, "REM SPRITES_TOTAL = 96")
	assert.Contains(t, out, "DATA &H")
	// the DATA block starts at a fresh power of ten
	assert.Contains(t, out, "1000 REM SPRITES_TOTAL")
}

func TestHexLists(t *testing.T) {
	t.Parallel()
	src := []byte{0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0xff}
	assert.Equal(t, "0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07,\n0xff,\n", hexList(src))
	assert.Equal(t, "\tdb #00, #01, #02, #03, #04, #05, #06, #07\n\tdb #ff\n", hexListAsm(src))
	assert.Equal(t, "DATA &H00, &H01, &HFF", hexListBasic([]byte{0, 1, 0xff}))
}

func TestMsxChannels(t *testing.T) {
	t.Parallel()
	r, g, b := msxChannels(RGB{255, 0, 128})
	assert.Equal(t, 7, r)
	assert.Equal(t, 0, g)
	assert.Equal(t, 4, b)
}

func TestPaletteRegisters(t *testing.T) {
	t.Parallel()
	p, err := NewPalette([]RGB{{255, 0, 255}, {255, 255, 255}})
	require.Nil(t, err)
	regs := paletteRegisters(p)
	require.Len(t, regs, 4)
	assert.Equal(t, byte(0x77), regs[0], "red and blue packed in the first byte")
	assert.Equal(t, byte(0x00), regs[1])
	assert.Equal(t, byte(0x77), regs[2])
	assert.Equal(t, byte(0x07), regs[3])
}

func TestWriteNoPartialOutput(t *testing.T) {
	t.Parallel()
	c := testConverter(t, Options{}, emitRows)
	// sabotage the palette so the build fails
	c.palette, _ = NewPalette([]RGB{DefaultTransparent})
	buf := &bytes.Buffer{}
	_, err := c.WriteTo(buf)
	require.NotNil(t, err)
	assert.True(t, strings.Contains(err.Error(), "not present in the palette") || buf.Len() == 0)
	assert.Zero(t, buf.Len(), "nothing is written on failure")
}
