package png2sprites

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddLineStickyCombine(t *testing.T) {
	t.Parallel()
	s := &Sprite{}
	s.AddLine(0, 3, CellLeft, 0xf0, true)
	s.AddLine(0, 3, CellRight, 0x0f, false)

	comp := s.Component(0)
	assert.Equal(t, byte(3|combineBit), comp.Colors[0], "combine flag sticks once set")
	assert.Equal(t, byte(0xf0), comp.Patterns[0])
	assert.Equal(t, byte(0x0f), comp.Patterns[SpriteHeight])
	assert.Equal(t, 1, s.Components)
}

func TestComponentOrder(t *testing.T) {
	t.Parallel()
	s := &Sprite{}
	s.AddLine(2, 9, CellLeft, 0x01, false)
	s.AddLine(2, 4, CellLeft, 0x80, false)
	assert.Equal(t, 2, s.Components)

	// components pick the k-th smallest color index per line
	first := s.Component(0)
	assert.Equal(t, byte(4), first.Colors[2])
	assert.Equal(t, byte(0x80), first.Patterns[2])

	second := s.Component(1)
	assert.Equal(t, byte(9), second.Colors[2])
	assert.Equal(t, byte(0x01), second.Patterns[2])

	// no third color on the line, the plane stays empty
	third := s.Component(2)
	assert.Equal(t, byte(0), third.Colors[2])
	assert.Equal(t, byte(0), third.Patterns[2])
}

func TestComponentsPerLineMax(t *testing.T) {
	t.Parallel()
	s := &Sprite{}
	s.AddLine(0, 1, CellLeft, 0xff, false)
	s.AddLine(1, 1, CellLeft, 0xff, false)
	s.AddLine(1, 2, CellRight, 0xff, false)
	s.AddLine(15, 5, CellLeft, 0x18, false)
	assert.Equal(t, 2, s.Components, "the worst line decides the tile's component count")

	colorBytes, patternBytes := s.Size()
	assert.Equal(t, 32, colorBytes)
	assert.Equal(t, 64, patternBytes)
}
