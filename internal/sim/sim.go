// Package sim advances the whole game world one tick at a time.
package sim

import (
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/invaders/internal/collision"
	"github.com/tomz197/invaders/internal/config"
	"github.com/tomz197/invaders/internal/encounter"
	"github.com/tomz197/invaders/internal/highscore"
	"github.com/tomz197/invaders/internal/object"
	"github.com/tomz197/invaders/internal/particle"
	"github.com/tomz197/invaders/internal/sprite"
	"github.com/tomz197/invaders/internal/swarm"
)

// State is the complete simulation state of one session.
type State struct {
	Field       object.Field
	Player      *object.Player
	Projectiles []*object.Projectile
	Swarm       *swarm.Swarm
	Particles   *particle.System
	Stars       []object.Star
	Director    *encounter.Director

	collision   *collision.Engine
	rng         *rand.Rand
	prevConfirm bool
}

// Options configures New. Zero values get working defaults.
type Options struct {
	Rng    *rand.Rand
	Store  highscore.Store
	Masks  collision.MaskSource // Sprite metrics; nil means none are ever loaded
	Logger *log.Logger
}

type noMasks struct{}

func (noMasks) Metrics(sprite.Variant) sprite.Metrics {
	return sprite.Metrics{Width: sprite.PlaceholderWidth, Height: sprite.PlaceholderHeight}
}

// New creates a session in the Start phase.
func New(opts Options) *State {
	if opts.Rng == nil {
		opts.Rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Masks == nil {
		opts.Masks = noMasks{}
	}

	field := object.Field{Width: config.FieldWidth, Height: config.FieldHeight}
	s := &State{
		Field:     field,
		Player:    object.NewPlayer(field),
		Swarm:     swarm.New(opts.Rng, field, opts.Masks),
		Particles: particle.NewSystem(opts.Rng, field.Width, field.Height),
		Stars:     object.NewStarfield(opts.Rng, field),
		collision: collision.NewEngine(opts.Masks, opts.Logger.WithPrefix("collision")),
		rng:       opts.Rng,
	}
	s.Director = encounter.NewDirector(encounter.Deps{
		Field:     field,
		Player:    s.Player,
		Swarm:     s.Swarm,
		Particles: s.Particles,
		Store:     opts.Store,
		Rng:       opts.Rng,
		Logger:    opts.Logger.WithPrefix("encounter"),
	})
	return s
}

// Phase returns the session phase.
func (s *State) Phase() encounter.Phase {
	return s.Director.Session.Phase
}

// Tick advances the world by one frame. now must come from a monotonic
// clock read once by the caller; every timer in the tick derives from it.
func Tick(s *State, in object.Input, now time.Time) {
	confirm := in.Confirm && !s.prevConfirm
	s.prevConfirm = in.Confirm
	if confirm {
		switch s.Phase() {
		case encounter.Start:
			s.Director.Start(now)
		case encounter.GameOver:
			s.reset()
		}
	}

	multiplier := s.Director.Multiplier(now)
	for i := range s.Stars {
		s.Stars[i].Update(multiplier, s.rng, s.Field)
	}

	s.Director.UpdateTransitions(now)

	if s.Phase() == encounter.Respawning {
		s.Director.UpdateRespawn(now)
		return
	}
	if s.Phase() != encounter.Playing {
		return
	}

	if s.Player.Move(in, s.Field) {
		s.Particles.Trail(s.Player.TrailPoint())
	}
	if s.Player.ShouldFire(now) {
		s.fire(now)
	}

	s.Director.SpawnWave(now)

	s.updateProjectiles()

	s.Swarm.Update(now, s.Player, s.Projectiles)
	s.Swarm.Cull()

	s.resolveContact(now)
	s.resolveHits(now)

	s.Particles.Update()
}

func (s *State) fire(now time.Time) {
	s.Projectiles = append(s.Projectiles, s.Player.Fire(now))
	s.Director.RecordShot()
}

func (s *State) updateProjectiles() {
	live := s.Projectiles[:0]
	for _, p := range s.Projectiles {
		if !p.Update(s.Field) {
			live = append(live, p)
		}
	}
	clear(s.Projectiles[len(live):])
	s.Projectiles = live
}

// resolveContact checks the player against every enemy; the first
// collision ends the pass.
func (s *State) resolveContact(now time.Time) {
	player := collision.Body{X: s.Player.X, Y: s.Player.Y, Width: s.Player.Width, Height: s.Player.Height}
	for _, e := range s.Swarm.Enemies() {
		switch collision.Classify(player, e.Body()) {
		case collision.Collision:
			s.Director.Contact(now)
			return
		case collision.Proximity:
			s.Director.Proximity()
		}
	}
}

// resolveHits tests every projectile against the current enemy list. A
// projectile is consumed by its first hit, and each hit fires a new one.
func (s *State) resolveHits(now time.Time) {
	n := len(s.Projectiles)
	for i := 0; i < n; i++ {
		p := s.Projectiles[i]
		if p.IsDestroyed() {
			continue
		}
		for _, e := range s.Swarm.Enemies() {
			if !s.collision.Hit(p.Rect(), e.Body()) {
				continue
			}
			p.MarkDestroyed()
			s.Director.Hit(e, now)
			s.fire(now)
			break
		}
	}

	live := s.Projectiles[:0]
	for _, p := range s.Projectiles {
		if !p.IsDestroyed() {
			live = append(live, p)
		}
	}
	clear(s.Projectiles[len(live):])
	s.Projectiles = live
}

func (s *State) reset() {
	s.Director.Reset()
	s.Projectiles = nil
}
