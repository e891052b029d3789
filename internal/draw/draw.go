// Package draw renders logical-coordinate scenes to a terminal using
// colored half-block characters.
package draw

import (
	"image/color"
	"math"
)

// Point represents a 2D coordinate.
type Point struct {
	X, Y float64
}

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

// Dim scales a color toward black by f in [0, 1].
func Dim(c color.RGBA, f float64) color.RGBA {
	f = math.Max(0, math.Min(1, f))
	return color.RGBA{
		R: uint8(float64(c.R) * f),
		G: uint8(float64(c.G) * f),
		B: uint8(float64(c.B) * f),
		A: 0xFF,
	}
}

// pack stores an opaque color in a pixel slot; 0 marks an empty pixel.
func pack(c color.RGBA) uint32 {
	return 1<<24 | uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

func unpack(p uint32) (r, g, b uint8) {
	return uint8(p >> 16), uint8(p >> 8), uint8(p)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
