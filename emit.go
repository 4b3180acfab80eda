package png2sprites

import (
	"bytes"
	"fmt"
	"math"
	"strings"
)

// hexList formats bytes as C-style hexadecimal data, 8 values per line.
func hexList(src []byte) string {
	out := ""
	for i := 0; i < len(src); i += 8 {
		end := i + 8
		if end > len(src) {
			end = len(src)
		}
		vv := make([]string, 0, 8)
		for _, b := range src[i:end] {
			vv = append(vv, fmt.Sprintf("0x%02x", b))
		}
		out += strings.Join(vv, ", ") + ",\n"
	}
	return out
}

// hexListAsm formats bytes as assembly db lines, 8 values per line.
func hexListAsm(src []byte) string {
	out := ""
	for i := 0; i < len(src); i += 8 {
		end := i + 8
		if end > len(src) {
			end = len(src)
		}
		vv := make([]string, 0, 8)
		for _, b := range src[i:end] {
			vv = append(vv, fmt.Sprintf("#%02x", b))
		}
		out += "\tdb " + strings.Join(vv, ", ") + "\n"
	}
	return out
}

// hexListBasic formats bytes as one BASIC DATA statement.
func hexListBasic(src []byte) string {
	vv := make([]string, 0, len(src))
	for _, b := range src {
		vv = append(vv, fmt.Sprintf("&H%02X", b))
	}
	return "DATA " + strings.Join(vv, ", ")
}

// msxChannels scales 8 bit channels down to the VDP's 3 bit palette registers.
func msxChannels(c RGB) (r, g, b int) {
	scale := func(v byte) int { return (int(v)*7 + 127) / 255 }
	return scale(c.R), scale(c.G), scale(c.B)
}

// paletteRegisters returns the VDP palette register byte pair per color,
// red and blue packed in the first byte, green in the second.
func paletteRegisters(p Palette) []byte {
	out := make([]byte, 0, 2*p.NumColors())
	for _, col := range p.Colors() {
		r, g, b := msxChannels(col)
		out = append(out, byte(r<<4|b), byte(g))
	}
	return out
}

// writeC emits the sheet as a C header with include guards. The arrays
// are only compiled into the translation unit defining LOCAL.
func (c *Converter) writeC(w *bytes.Buffer, sheet *SpriteSheet) {
	id := c.opt.Label
	uid := strings.ToUpper(id)
	comps := sheet.TileComponents()

	if c.sourceFilename != "" {
		fmt.Fprintf(w, "// generated from %q by png2sprites %s\n", c.sourceFilename, Version)
	}
	fmt.Fprintf(w, "#ifndef _%s_H\n", uid)
	fmt.Fprintf(w, "#define _%s_H\n\n", uid)
	fmt.Fprintf(w, "#define %s_TOTAL %d\n\n", uid, sheet.TotalBytes)

	fmt.Fprintf(w, "#ifdef LOCAL\n\n")
	if c.opt.IncludePalette {
		fmt.Fprintf(w, "const unsigned char %s_palette[%d] = {\n%s};\n\n",
			id, 2*sheet.Palette.NumColors(), hexList(paletteRegisters(sheet.Palette)))
	}
	colorOut, patternOut := "", ""
	for _, comp := range comps {
		colorOut += "{\n" + hexList(comp.Colors[:]) + "},\n"
		patternOut += "{\n" + hexList(comp.Patterns[:]) + "},\n"
	}
	fmt.Fprintf(w, "const unsigned char %s_colors[%d][%d] = {\n%s};\n\n",
		id, len(comps), SpriteHeight, colorOut)
	fmt.Fprintf(w, "const unsigned char %s_patterns[%d][%d] = {\n%s};\n\n",
		id, len(comps), 2*SpriteHeight, patternOut)

	fmt.Fprintf(w, "#else\n\n")
	if c.opt.IncludePalette {
		fmt.Fprintf(w, "extern const unsigned char %s_palette[%d];\n", id, 2*sheet.Palette.NumColors())
	}
	fmt.Fprintf(w, "extern const unsigned char %s_colors[%d][%d];\n", id, len(comps), SpriteHeight)
	fmt.Fprintf(w, "extern const unsigned char %s_patterns[%d][%d];\n", id, len(comps), 2*SpriteHeight)
	fmt.Fprintf(w, "\n#endif // LOCAL\n")
	fmt.Fprintf(w, "#endif // _%s_H\n", uid)
}

// writeAsm emits the sheet as z80 assembler data.
func (c *Converter) writeAsm(w *bytes.Buffer, sheet *SpriteSheet) {
	id := c.opt.Label
	uid := strings.ToUpper(id)
	comps := sheet.TileComponents()

	if c.sourceFilename != "" {
		fmt.Fprintf(w, "; generated from %q by png2sprites %s\n", c.sourceFilename, Version)
	}
	fmt.Fprintf(w, "%s_TOTAL = %d\n\n", uid, sheet.TotalBytes)
	fmt.Fprintf(w, "%s:\n\n", id)
	if c.opt.IncludePalette {
		fmt.Fprintf(w, "%s_palette:\n%s\n", id, hexListAsm(paletteRegisters(sheet.Palette)))
	}
	for i, comp := range comps {
		fmt.Fprintf(w, "%s_color%d:\n%s\n", id, i, hexListAsm(comp.Colors[:]))
		fmt.Fprintf(w, "%s_pattern%d:\n%s\n", id, i, hexListAsm(comp.Patterns[:]))
	}
}

// writeBasic emits a runnable MSX-BASIC demo program: palette setup,
// READ loops filling the sprite tables, PUT SPRITE statements placing
// every component at its tile's source position, and the DATA block.
func (c *Converter) writeBasic(w *bytes.Buffer, sheet *SpriteSheet) {
	uid := strings.ToUpper(c.opt.Label)
	comps := sheet.TileComponents()

	line := 100
	next := func() int { n := line; line += 10; return n }
	fmt.Fprintf(w, "%d SCREEN 5,2\n", next())
	fmt.Fprintf(w, "%d VDP(9)=VDP(9) OR &H20: COLOR 15,0,0\n", next())
	fmt.Fprintf(w, "%d REM PALETTE\n", next())
	for i, col := range sheet.Palette.Colors() {
		r, g, b := msxChannels(col)
		fmt.Fprintf(w, "%d COLOR=(%d,%d,%d,%d): REM RGB=%s\n", next(), i, r, g, b, col)
	}
	for i := range comps {
		fmt.Fprintf(w, "%d REM READ %s_COLORS(%d)\n", next(), uid, i)
		fmt.Fprintf(w, "%d A$=\"\":FOR I = 1 TO 16:READ A%%:A$=A$+CHR$(A%%):NEXT:COLOR SPRITE$(%d)=A$\n", next(), i)
		fmt.Fprintf(w, "%d REM READ %s_PATTERN(%d)\n", next(), uid, i)
		fmt.Fprintf(w, "%d A$=\"\":FOR I = 1 TO 32:READ A%%:A$=A$+CHR$(A%%):NEXT:SPRITE$(%d)=A$\n", next(), i)
	}
	fmt.Fprintf(w, "%d REM PUT %s SPRITE ON SCREEN\n", next(), uid)
	for i, comp := range comps {
		fmt.Fprintf(w, "%d PUT SPRITE %d,(%d,%d),,%d\n", next(), i, 100+comp.X, 100+comp.Y, i)
	}
	wait := next()
	fmt.Fprintf(w, "%d IF INKEY$ = \"\" GOTO %d\n", wait, wait)
	fmt.Fprintf(w, "%d END\n", next())

	// DATA block starts at the next power of ten
	line = int(math.Pow(10, math.Ceil(math.Log10(float64(line)+0.5))))
	fmt.Fprintf(w, "%d REM %s_TOTAL = %d\n", next(), uid, sheet.TotalBytes)
	for i, comp := range comps {
		fmt.Fprintf(w, "%d REM %s_COLORS(%d)\n", next(), uid, i)
		fmt.Fprintf(w, "%d %s\n", next(), hexListBasic(comp.Colors[:]))
		fmt.Fprintf(w, "%d REM %s_PATTERN(%d)\n", next(), uid, i)
		fmt.Fprintf(w, "%d %s\n", next(), hexListBasic(comp.Patterns[:]))
	}
}
