// Package object defines the simple entities of the play field: the
// player ship, its projectiles and the background starfield.
package object

import (
	"github.com/tomz197/invaders/internal/input"
	"github.com/tomz197/invaders/internal/physics"
)

// Input is an alias for the input package's Input type.
type Input = input.Input

// Field is the logical play area. The origin is the top-left corner.
type Field struct {
	Width, Height float64
}

// Contains reports whether (x, y) lies inside the field.
func (f Field) Contains(x, y float64) bool {
	return x >= 0 && x <= f.Width && y >= 0 && y <= f.Height
}

// Center returns the field's center point.
func (f Field) Center() (x, y float64) {
	return f.Width / 2, f.Height / 2
}

// Inset returns the field shrunk by margin on every side.
func (f Field) Inset(margin float64) physics.Rect {
	return physics.Rect{X: margin, Y: margin, W: f.Width - 2*margin, H: f.Height - 2*margin}
}

// ShouldRenderBlink reports whether an entity flashing with the given
// alpha should be drawn this frame.
func ShouldRenderBlink(alpha float64) bool {
	return alpha >= 0.5
}
