package object

import (
	"github.com/tomz197/invaders/internal/config"
	"github.com/tomz197/invaders/internal/physics"
)

// Projectile is a laser bolt fired by the player. X is its left edge and
// Y its vertical center.
type Projectile struct {
	X, Y      float64
	VX        float64
	Width     float64
	Height    float64
	destroyed bool
}

// NewProjectile creates a projectile at (x, y) travelling in direction (+1 or -1).
func NewProjectile(x, y, direction float64) *Projectile {
	return &Projectile{
		X:      x,
		Y:      y,
		VX:     config.ProjectileStep * direction,
		Width:  config.ProjectileW,
		Height: config.ProjectileH,
	}
}

// MarkDestroyed consumes the projectile; it is removed on the next sweep.
func (p *Projectile) MarkDestroyed() {
	p.destroyed = true
}

// IsDestroyed returns true if the projectile has been consumed.
func (p *Projectile) IsDestroyed() bool {
	return p.destroyed
}

// Update advances the projectile. Returns true if it should be removed.
func (p *Projectile) Update(field Field) bool {
	p.X += p.VX
	return p.destroyed || p.OffField(field)
}

// OffField reports whether the projectile has left the field.
func (p *Projectile) OffField(field Field) bool {
	return !field.Contains(p.X, p.Y)
}

// Rect returns the projectile's hit rectangle.
func (p *Projectile) Rect() physics.Rect {
	return physics.Rect{X: p.X, Y: p.Y - p.Height/2, W: p.Width, H: p.Height}
}
