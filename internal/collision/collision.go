// Package collision implements projectile hit tests against enemy sprites
// and player contact classification.
package collision

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/charmbracelet/log"

	"github.com/tomz197/invaders/internal/config"
	"github.com/tomz197/invaders/internal/physics"
	"github.com/tomz197/invaders/internal/sprite"
)

// MaskSource supplies sprite metrics. *sprite.Atlas satisfies it.
type MaskSource interface {
	Metrics(v sprite.Variant) sprite.Metrics
}

// Body is a centered box with an optional sprite mask.
type Body struct {
	X, Y          float64 // Center
	Width, Height float64
	Sprite        sprite.Variant
}

// Box returns the body's bounding box.
func (b Body) Box() physics.Rect {
	return physics.CenteredRect(b.X, b.Y, b.Width, b.Height)
}

var errNoMask = errors.New("loaded sprite has no mask")

// Engine performs broad and narrow phase hit tests.
type Engine struct {
	masks     MaskSource
	logger    *log.Logger
	threshold uint8
}

// NewEngine creates an engine reading masks from src. A nil logger discards output.
func NewEngine(src MaskSource, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Engine{
		masks:     src,
		logger:    logger,
		threshold: config.OpacityThreshold,
	}
}

// Hit reports whether shot hits target. Bounding boxes must overlap; when
// the target's sprite is loaded, at least one covered mask pixel must also
// be opaque. If the sprite is not loaded or sampling fails, box overlap
// alone decides.
func (e *Engine) Hit(shot physics.Rect, target Body) bool {
	box := target.Box()
	overlap, ok := shot.Intersect(box)
	if !ok {
		return false
	}

	m := e.masks.Metrics(target.Sprite)
	if !m.Loaded {
		return true
	}

	hit, err := e.sample(overlap, box, m)
	if err != nil {
		e.logger.Warn("mask sampling failed, using bounding box", "sprite", target.Sprite, "err", err)
		return true
	}
	return hit
}

// sample maps the overlap region into the sprite's natural resolution and
// checks every covered pixel.
func (e *Engine) sample(overlap, box physics.Rect, m sprite.Metrics) (hit bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("sample mask: %v", r)
		}
	}()

	if m.Mask == nil {
		return false, errNoMask
	}
	if m.Width <= 0 || m.Height <= 0 || box.W <= 0 || box.H <= 0 {
		return false, fmt.Errorf("degenerate sprite %dx%d", m.Width, m.Height)
	}

	sx := float64(m.Width) / box.W
	sy := float64(m.Height) / box.H

	x0, x1 := pixelSpan(overlap.X-box.X, overlap.Right()-box.X, sx, m.Width)
	y0, y1 := pixelSpan(overlap.Y-box.Y, overlap.Bottom()-box.Y, sy, m.Height)

	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			if m.IsOpaqueAt(x, y, e.threshold) {
				return true, nil
			}
		}
	}
	return false, nil
}

// pixelSpan converts a local [from, to) range into inclusive pixel indices.
func pixelSpan(from, to, scale float64, size int) (int, int) {
	lo := int(math.Floor(from * scale))
	hi := int(math.Ceil(to*scale)) - 1
	lo = max(lo, 0)
	hi = min(hi, size-1)
	return lo, hi
}

// Contact classifies how close the player is to an enemy.
type Contact int

const (
	None      Contact = iota
	Proximity         // Close enough for sparkles, no damage
	Collision         // Costs a life
)

func (c Contact) String() string {
	switch c {
	case Proximity:
		return "proximity"
	case Collision:
		return "collision"
	default:
		return "none"
	}
}

// Classify compares center distance against the sum of half widths
// (collision) and the proximity radius.
func Classify(player, enemy Body) Contact {
	switch {
	case physics.CirclesOverlap(player.X, player.Y, player.Width/2, enemy.X, enemy.Y, enemy.Width/2):
		return Collision
	case physics.CirclesOverlap(player.X, player.Y, config.ProximityRadius, enemy.X, enemy.Y, 0):
		return Proximity
	default:
		return None
	}
}

// InDodgeWindow reports whether a projectile at (px, py) is close enough
// to an enemy at (ex, ey) to trigger an evasive move.
func InDodgeWindow(ex, ey, px, py float64) bool {
	return math.Abs(px-ex) < config.DodgeWindowX && math.Abs(py-ey) < config.DodgeWindowY
}

// Crowding returns the unit vector from a to b when b lies within the
// scatter avoidance radius. Coincident points report false.
func Crowding(ax, ay, bx, by float64) (ux, uy float64, crowded bool) {
	d := physics.Distance(ax, ay, bx, by)
	if d == 0 || d >= config.ScatterAvoidRadius {
		return 0, 0, false
	}
	return (bx - ax) / d, (by - ay) / d, true
}
