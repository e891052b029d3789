// Package swarm drives the enemy formation: a leader that sweeps the
// field, followers that hold station behind it, and the scatter and
// regroup behavior triggered by kills.
package swarm

import (
	"math"
	"math/rand"
	"slices"
	"time"

	"github.com/tomz197/invaders/internal/collision"
	"github.com/tomz197/invaders/internal/config"
	"github.com/tomz197/invaders/internal/object"
	"github.com/tomz197/invaders/internal/physics"
	"github.com/tomz197/invaders/internal/sprite"
)

// Swarm owns the live enemies in formation-index order.
type Swarm struct {
	enemies []*Enemy
	rng     *rand.Rand
	field   object.Field
	bounds  physics.Rect // Field inset used for bouncing and clamping
	masks   collision.MaskSource
}

// New creates an empty swarm. masks supplies sprite dimensions for
// aspect-correct enemy boxes; it may be nil.
func New(rng *rand.Rand, field object.Field, masks collision.MaskSource) *Swarm {
	return &Swarm{
		rng:    rng,
		field:  field,
		bounds: field.Inset(config.FieldInset),
		masks:  masks,
	}
}

// Enemies returns the live enemies. The slice must not be modified.
func (s *Swarm) Enemies() []*Enemy {
	return s.enemies
}

// Len returns the number of live enemies.
func (s *Swarm) Len() int {
	return len(s.enemies)
}

// Leader returns the current leader, or nil if the swarm is empty.
func (s *Swarm) Leader() *Enemy {
	if len(s.enemies) == 0 || !s.enemies[0].Leader {
		return nil
	}
	return s.enemies[0]
}

// Clear removes every enemy.
func (s *Swarm) Clear() {
	s.enemies = s.enemies[:0]
}

func (s *Swarm) randDuration(lo, hi time.Duration) time.Duration {
	return lo + time.Duration(s.rng.Float64()*float64(hi-lo))
}

// Spawn adds an enemy of the given wave just beyond the right edge.
// The first enemy of an empty swarm leads.
func (s *Swarm) Spawn(group int, now time.Time) *Enemy {
	speed := ScaledSpeed(group)
	health := ScaledHealth(group)
	variant := sprite.Variants[s.rng.Intn(len(sprite.Variants))]

	e := &Enemy{
		X:              s.field.Width + config.EnemySpawnOffset,
		Y:              100 + s.rng.Float64()*(s.field.Height-200),
		Width:          config.EnemySize,
		Height:         config.EnemySize,
		Sprite:         variant,
		Speed:          speed,
		VerticalSpeed:  0.3*speed + s.rng.Float64()*0.6*speed,
		Health:         health,
		MaxHealth:      health,
		FormationIndex: len(s.enemies),
		Group:          group,
		Leader:         len(s.enemies) == 0,
		State:          Formation,
		movingDown:     s.rng.Intn(2) == 0,
		nextTurn:       now.Add(s.randDuration(config.InitialTurnDelayMin, config.InitialTurnDelayMax)),
	}

	if s.masks != nil {
		if m := s.masks.Metrics(variant); m.Loaded && m.Width > 0 && m.Height > 0 {
			scale := config.EnemySize / float64(max(m.Width, m.Height))
			e.Width = float64(m.Width) * scale
			e.Height = float64(m.Height) * scale
		}
	}

	s.enemies = append(s.enemies, e)
	return e
}

// Update advances every enemy one tick. The leader moves first so
// followers track its new position.
func (s *Swarm) Update(now time.Time, player *object.Player, shots []*object.Projectile) {
	for _, e := range s.enemies {
		switch e.State {
		case Scattering:
			s.updateScatter(e, now)
		case Returning:
			s.updateReturn(e)
		default:
			if e.Leader {
				s.updateLeader(e, now, player, shots)
			} else {
				s.updateFollower(e)
			}
		}
	}
}

func (s *Swarm) updateLeader(e *Enemy, now time.Time, player *object.Player, shots []*object.Projectile) {
	if !e.reachedLeft {
		e.X -= e.Speed
		e.bounceVertical(s.bounds, true)
		if e.X < s.bounds.X {
			e.reachedLeft = true
			e.movingRight = true
		}
		return
	}

	if e.movingRight {
		e.X += e.Speed
		if e.X >= s.bounds.Right() {
			e.movingRight = false
		}
	} else {
		e.X -= e.Speed
		if e.X <= s.bounds.X {
			e.movingRight = true
		}
	}

	if !now.Before(e.nextTurn) {
		s.steer(e, player, shots)
		e.nextTurn = now.Add(s.randDuration(config.TurnDelayMin, config.TurnDelayMax))
	}
	e.bounceVertical(s.bounds, false)
}

// steer dodges the first projectile inside the dodge window, otherwise
// homes on the player's height.
func (s *Swarm) steer(e *Enemy, player *object.Player, shots []*object.Projectile) {
	for _, p := range shots {
		if collision.InDodgeWindow(e.X, e.Y, p.X, p.Y) {
			e.movingDown = p.Y-e.Y < 0
			return
		}
	}
	if player == nil {
		return
	}
	if toPlayer := player.Y - e.Y; math.Abs(toPlayer) > config.HomingThreshold {
		e.movingDown = toPlayer > 0
	}
}

func (s *Swarm) updateFollower(e *Enemy) {
	leader := s.Leader()
	if leader == nil {
		return
	}
	e.X, e.Y = s.slot(leader, e)
}

// slot returns e's formation position behind leader.
func (s *Swarm) slot(leader, e *Enemy) (x, y float64) {
	return leader.X + float64(e.FormationIndex)*config.FormationSpacing, leader.Y
}

func (s *Swarm) updateScatter(e *Enemy, now time.Time) {
	e.X += e.scatterVX
	e.Y += e.scatterVY

	if e.X < s.bounds.X || e.X > s.bounds.Right() {
		e.scatterVX = -e.scatterVX
	}
	if e.Y < s.bounds.Y || e.Y > s.bounds.Bottom() {
		e.scatterVY = -e.scatterVY
	}
	e.X = physics.Clamp(e.X, s.bounds.X, s.bounds.Right())
	e.Y = physics.Clamp(e.Y, s.bounds.Y, s.bounds.Bottom())

	if !now.Before(e.scatterUntil) {
		e.State = Returning
	}
}

func (s *Swarm) updateReturn(e *Enemy) {
	leader := s.Leader()
	if leader == nil {
		e.State = Formation
		return
	}

	tx, ty := s.slot(leader, e)
	d := physics.Distance(e.X, e.Y, tx, ty)
	if d < config.RegroupDistance {
		e.State = Formation
		return
	}
	step := math.Min(e.Speed*config.ReturnSpeedFactor, d)
	e.X += (tx - e.X) / d * step
	e.Y += (ty - e.Y) / d * step
}

// Scatter sends every enemy except the given one into a randomized
// scatter. Enemies push away from any neighbor within the avoidance radius,
// including the excluded one.
func (s *Swarm) Scatter(except *Enemy, now time.Time) {
	for _, e := range s.enemies {
		if e == except {
			continue
		}
		angle := s.rng.Float64() * 2 * math.Pi
		speed := config.ScatterMinSpeed + s.rng.Float64()*(config.ScatterMaxSpeed-config.ScatterMinSpeed)
		vx := math.Cos(angle) * speed
		vy := math.Sin(angle) * speed

		for _, o := range s.enemies {
			if o == e {
				continue
			}
			if ux, uy, ok := collision.Crowding(e.X, e.Y, o.X, o.Y); ok {
				vx -= ux * config.ScatterAvoidPush
				vy -= uy * config.ScatterAvoidPush
			}
		}

		e.State = Scattering
		e.scatterVX = vx
		e.scatterVY = vy
		e.scatterUntil = now.Add(s.randDuration(config.ScatterMinDuration, config.ScatterMaxDuration))
	}
}

// Remove deletes e from the swarm. If the leader is removed and enemies
// remain, the lowest-index survivor is promoted. Survivors are renumbered
// 0..n-1 keeping their relative order.
func (s *Swarm) Remove(e *Enemy) {
	i := slices.Index(s.enemies, e)
	if i < 0 {
		return
	}
	s.enemies = slices.Delete(s.enemies, i, i+1)

	if e.Leader && len(s.enemies) > 0 {
		next := s.enemies[0]
		next.Leader = true
		next.reachedLeft = true
		next.movingRight = true
	}
	for idx, survivor := range s.enemies {
		survivor.FormationIndex = idx
	}
}

// Cull removes enemies that drifted past the left edge and returns how
// many were removed.
func (s *Swarm) Cull() int {
	var gone []*Enemy
	for _, e := range s.enemies {
		if e.X < config.EnemyCullX {
			gone = append(gone, e)
		}
	}
	for _, e := range gone {
		s.Remove(e)
	}
	return len(gone)
}

// EndTransits abandons every in-flight transit.
func (s *Swarm) EndTransits() {
	for _, e := range s.enemies {
		e.EndTransit()
	}
}
