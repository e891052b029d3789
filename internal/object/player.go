package object

import (
	"time"

	"github.com/tomz197/invaders/internal/config"
	"github.com/tomz197/invaders/internal/physics"
)

// Player is the ship controlled by the user. X and Y are its center.
type Player struct {
	X, Y          float64
	Width, Height float64
	Speed         float64
	Direction     float64 // +1 fires right, -1 fires left
	LastFire      time.Time
}

// NewPlayer creates a player at the start position of field.
func NewPlayer(field Field) *Player {
	p := &Player{
		Width:     config.PlayerSize,
		Height:    config.PlayerSize,
		Speed:     config.PlayerSpeed,
		Direction: 1,
	}
	p.Reset(field)
	return p
}

// Reset moves the player back to the start position.
func (p *Player) Reset(field Field) {
	_, p.Y = field.Center()
	p.X = config.PlayerStartX
}

// Move applies held movement intent and keeps the ship inside field.
// Left and Right also turn the ship. It reports whether any movement key
// was held.
func (p *Player) Move(in Input, field Field) bool {
	moved := false
	if in.Up {
		p.Y -= p.Speed
		moved = true
	}
	if in.Down {
		p.Y += p.Speed
		moved = true
	}
	if in.Left {
		p.X -= p.Speed
		p.Direction = -1
		moved = true
	}
	if in.Right {
		p.X += p.Speed
		p.Direction = 1
		moved = true
	}
	p.X = physics.Clamp(p.X, p.Width/2, field.Width-p.Width/2)
	p.Y = physics.Clamp(p.Y, p.Height/2, field.Height-p.Height/2)
	return moved
}

// ShouldFire reports whether the auto-fire delay has passed.
func (p *Player) ShouldFire(now time.Time) bool {
	return now.Sub(p.LastFire) >= config.AutoFireDelay
}

// Fire launches a projectile from the ship's nose and restarts the auto-fire timer.
func (p *Player) Fire(now time.Time) *Projectile {
	p.LastFire = now
	return NewProjectile(p.X+p.Direction*p.Width/2, p.Y, p.Direction)
}

// TrailPoint returns where exhaust particles leave the ship.
func (p *Player) TrailPoint() (x, y float64) {
	return p.X - p.Direction*p.Width/2, p.Y
}
