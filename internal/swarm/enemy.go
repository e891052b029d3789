package swarm

import (
	"math"
	"time"

	"github.com/tomz197/invaders/internal/collision"
	"github.com/tomz197/invaders/internal/config"
	"github.com/tomz197/invaders/internal/physics"
	"github.com/tomz197/invaders/internal/sprite"
)

// State is an enemy's behavior state.
type State int

const (
	Formation State = iota
	Scattering
	Returning
)

func (s State) String() string {
	switch s {
	case Scattering:
		return "scattering"
	case Returning:
		return "returning"
	default:
		return "formation"
	}
}

// Transit is a scripted move from one point to another, used while the
// player respawns. Active is false when no move is in flight.
type Transit struct {
	Active       bool
	FromX, FromY float64
	ToX, ToY     float64
}

// Enemy is one member of the swarm. X and Y are its center.
type Enemy struct {
	X, Y          float64
	Width, Height float64
	Sprite        sprite.Variant

	Speed         float64
	VerticalSpeed float64
	Health        int
	MaxHealth     int

	FormationIndex int
	Group          int
	Leader         bool
	State          State
	Transit        Transit

	movingDown  bool
	reachedLeft bool // Leader has finished its entry run and sweeps horizontally
	movingRight bool
	nextTurn    time.Time

	scatterVX, scatterVY float64
	scatterUntil         time.Time
}

// ScaledSpeed returns the enemy speed for the given wave.
func ScaledSpeed(group int) float64 {
	return config.EnemyBaseSpeed * math.Pow(config.EnemySpeedGrowth, float64(group-1))
}

// ScaledHealth returns the enemy health for the given wave.
func ScaledHealth(group int) int {
	return int(math.Ceil(config.EnemyBaseHealth * math.Pow(config.EnemyHealthGrowth, float64(group-1))))
}

// TakeDamage removes one point of health and reports whether the enemy died.
func (e *Enemy) TakeDamage() bool {
	e.Health--
	return e.Health <= 0
}

// Body returns the enemy's collision body.
func (e *Enemy) Body() collision.Body {
	return collision.Body{X: e.X, Y: e.Y, Width: e.Width, Height: e.Height, Sprite: e.Sprite}
}

// Box returns the enemy's bounding box.
func (e *Enemy) Box() physics.Rect {
	return physics.CenteredRect(e.X, e.Y, e.Width, e.Height)
}

// HealthFraction returns Health/MaxHealth for health bars.
func (e *Enemy) HealthFraction() float64 {
	if e.MaxHealth <= 0 {
		return 0
	}
	return float64(e.Health) / float64(e.MaxHealth)
}

// BeginTransit starts a scripted move from the current position to (x, y).
func (e *Enemy) BeginTransit(x, y float64) {
	e.Transit = Transit{Active: true, FromX: e.X, FromY: e.Y, ToX: x, ToY: y}
}

// StepTransit places the enemy at fraction t of its transit. t is clamped to [0, 1].
func (e *Enemy) StepTransit(t float64) {
	if !e.Transit.Active {
		return
	}
	t = physics.Clamp(t, 0, 1)
	e.X = physics.Lerp(e.Transit.FromX, e.Transit.ToX, t)
	e.Y = physics.Lerp(e.Transit.FromY, e.Transit.ToY, t)
}

// EndTransit abandons any transit in flight.
func (e *Enemy) EndTransit() {
	e.Transit = Transit{}
}

// bounceVertical moves the enemy vertically and reverses at the field
// insets. With pin set the enemy is also held inside the insets.
func (e *Enemy) bounceVertical(field physics.Rect, pin bool) {
	if e.movingDown {
		e.Y += e.VerticalSpeed
	} else {
		e.Y -= e.VerticalSpeed
	}
	if e.Y <= field.Y {
		e.movingDown = true
	} else if e.Y >= field.Bottom() {
		e.movingDown = false
	}
	if pin {
		e.Y = physics.Clamp(e.Y, field.Y, field.Bottom())
	}
}
