package sim

import (
	"time"

	"github.com/tomz197/invaders/internal/encounter"
	"github.com/tomz197/invaders/internal/object"
	"github.com/tomz197/invaders/internal/particle"
	"github.com/tomz197/invaders/internal/swarm"
)

// Snapshot is a read-only copy of the world for renderers.
type Snapshot struct {
	Field       object.Field
	Session     encounter.Session
	Accuracy    float64
	FlashAlpha  float64
	Multiplier  float64
	Player      object.Player
	Projectiles []object.Projectile
	Enemies     []swarm.Enemy
	Particles   []particle.Particle
	Stars       []object.Star
}

// Snapshot copies the current state as of now.
func (s *State) Snapshot(now time.Time) Snapshot {
	snap := Snapshot{
		Field:       s.Field,
		Session:     s.Director.Session,
		Accuracy:    s.Director.Session.Accuracy(),
		FlashAlpha:  s.Director.FlashAlpha(now),
		Multiplier:  s.Director.Multiplier(now),
		Player:      *s.Player,
		Projectiles: make([]object.Projectile, len(s.Projectiles)),
		Enemies:     make([]swarm.Enemy, s.Swarm.Len()),
		Particles:   s.Particles.Particles(),
		Stars:       make([]object.Star, len(s.Stars)),
	}
	for i, p := range s.Projectiles {
		snap.Projectiles[i] = *p
	}
	for i, e := range s.Swarm.Enemies() {
		snap.Enemies[i] = *e
	}
	copy(snap.Stars, s.Stars)
	return snap
}
