// Package particle implements the bounded particle system used for
// explosions, thruster trails, proximity sparkles and confetti.
package particle

import (
	"image/color"
	"math"
	"math/rand"

	"github.com/tomz197/invaders/internal/config"
)

// Variant selects a particle's per-tick behavior.
type Variant uint8

const (
	Trail Variant = iota
	Explosion
	Sparkle
	Confetti
	numVariants
)

// Params holds the variant-specific values. Unused fields stay zero.
type Params struct {
	Gravity       float64
	Rotation      float64
	RotationSpeed float64
	Scale         float64
	ScaleSpeed    float64
	Drift         float64
	RectW, RectH  float64 // Confetti rectangle
}

// Particle is a short-lived visual effect. Life runs from 1 down to 0.
type Particle struct {
	X, Y    float64
	VX, VY  float64
	Life    float64
	Decay   float64
	Size    float64
	Color   color.RGBA
	Variant Variant
	Params
}

// behaviors is indexed by Variant and runs before the shared motion step.
var behaviors = [numVariants]func(p *Particle){
	Trail:     func(*Particle) {},
	Explosion: applyGravity,
	Sparkle:   spin,
	Confetti:  flutter,
}

func applyGravity(p *Particle) {
	p.VY += p.Gravity
}

func spin(p *Particle) {
	p.Rotation += p.RotationSpeed
	p.Scale += p.ScaleSpeed
	if p.Scale > 1.5 || p.Scale < 0.5 {
		p.ScaleSpeed = -p.ScaleSpeed
		p.Scale = math.Max(0.5, math.Min(1.5, p.Scale))
	}
}

func flutter(p *Particle) {
	p.VY += p.Gravity
	p.VX += p.Drift * 0.1
	p.Rotation += p.RotationSpeed
}

// step advances p by one tick and reports whether it is still alive.
func (p *Particle) step() bool {
	if int(p.Variant) < len(behaviors) {
		behaviors[p.Variant](p)
	}
	p.X += p.VX
	p.Y += p.VY
	p.Life -= p.Decay
	return p.Life > 0
}

// System owns every live particle, oldest first.
type System struct {
	particles []Particle
	rng       *rand.Rand
	width     float64
	height    float64
	capacity  int

	trailCalls   int
	sparkleCalls int
}

// NewSystem creates a particle system for a field of the given size.
func NewSystem(rng *rand.Rand, width, height float64) *System {
	return &System{
		particles: make([]Particle, 0, config.MaxParticles),
		rng:       rng,
		width:     width,
		height:    height,
		capacity:  config.MaxParticles,
	}
}

// Add appends a particle.
func (s *System) Add(p Particle) {
	s.particles = append(s.particles, p)
}

// Update advances every particle, drops dead ones and enforces the cap.
func (s *System) Update() {
	live := s.particles[:0]
	for i := range s.particles {
		p := s.particles[i]
		if p.step() {
			live = append(live, p)
		}
	}
	clear(s.particles[len(live):])
	s.particles = live
	s.enforceCap()
}

// enforceCap drops the oldest particles beyond capacity.
func (s *System) enforceCap() {
	excess := len(s.particles) - s.capacity
	if excess <= 0 {
		return
	}
	n := copy(s.particles, s.particles[excess:])
	s.particles = s.particles[:n]
}

// Len returns the number of live particles.
func (s *System) Len() int {
	return len(s.particles)
}

// Particles returns a copy of the live particles, oldest first.
func (s *System) Particles() []Particle {
	out := make([]Particle, len(s.particles))
	copy(out, s.particles)
	return out
}

// Clear removes every particle and resets the emission counters.
func (s *System) Clear() {
	s.particles = s.particles[:0]
	s.trailCalls = 0
	s.sparkleCalls = 0
}

func (s *System) between(lo, hi float64) float64 {
	return lo + s.rng.Float64()*(hi-lo)
}

// spread returns a value in (-half, half).
func (s *System) spread(half float64) float64 {
	return (s.rng.Float64() - 0.5) * 2 * half
}

// Explosion emits floor(20*intensity) particles from (x, y). Unit intensity
// spaces the angles evenly; any other intensity picks them at random.
func (s *System) Explosion(x, y float64, c color.RGBA, intensity float64) {
	s.burst(x, y, []color.RGBA{c}, intensity, intensity != 1)
}

// CombinedExplosion emits one burst of intensity len(colors) with random
// angles, cycling through colors.
func (s *System) CombinedExplosion(x, y float64, colors ...color.RGBA) {
	if len(colors) == 0 {
		return
	}
	s.burst(x, y, colors, float64(len(colors)), true)
}

func (s *System) burst(x, y float64, colors []color.RGBA, intensity float64, randomAngles bool) {
	n := int(math.Floor(config.ExplosionParticles * intensity))
	for i := 0; i < n; i++ {
		angle := float64(i) / float64(n) * 2 * math.Pi
		if randomAngles {
			angle = s.rng.Float64() * 2 * math.Pi
		}
		speed := s.between(3, 8)
		s.Add(Particle{
			X:       x,
			Y:       y,
			VX:      math.Cos(angle) * speed,
			VY:      math.Sin(angle) * speed,
			Life:    1,
			Decay:   0.025,
			Size:    s.between(3, 6),
			Color:   colors[i%len(colors)],
			Variant: Explosion,
			Params:  Params{Gravity: 0.2},
		})
	}
}

// Trail emits one exhaust particle on every second call.
func (s *System) Trail(x, y float64) {
	s.trailCalls++
	if s.trailCalls%config.TrailEvery != 0 {
		return
	}
	s.Add(Particle{
		X:       x,
		Y:       y,
		VX:      s.spread(0.25),
		VY:      s.spread(0.25),
		Life:    1,
		Decay:   0.03,
		Size:    s.between(2, 4),
		Color:   config.Purple300,
		Variant: Trail,
	})
}

var sparkleColors = []color.RGBA{config.Purple300, config.White, config.Gold}

// Sparkle emits a batch of five twinkling particles on every fifth call.
func (s *System) Sparkle(x, y float64) {
	s.sparkleCalls++
	if s.sparkleCalls%config.SparkleEvery != 0 {
		return
	}
	for i := 0; i < config.SparkleBatch; i++ {
		s.Add(Particle{
			X:       x,
			Y:       y,
			VX:      s.spread(0.5),
			VY:      s.spread(0.5),
			Life:    1,
			Decay:   0.02,
			Size:    3,
			Color:   sparkleColors[s.rng.Intn(len(sparkleColors))],
			Variant: Sparkle,
			Params: Params{
				Rotation:      s.rng.Float64() * 2 * math.Pi,
				RotationSpeed: s.spread(0.1),
				Scale:         0.5 + s.rng.Float64(),
				ScaleSpeed:    s.spread(0.025),
			},
		})
	}
}

var confettiColors = []color.RGBA{config.Purple500, config.Purple300, config.White}

// Confetti rains 80-100 pieces from the top 30% of the field.
func (s *System) Confetti() {
	n := config.ConfettiMin + s.rng.Intn(config.ConfettiMax-config.ConfettiMin+1)
	for i := 0; i < n; i++ {
		size := s.between(4, 8)
		s.Add(Particle{
			X:       s.rng.Float64() * s.width,
			Y:       s.rng.Float64() * s.height * 0.3,
			VX:      s.spread(4),
			VY:      -s.rng.Float64()*10 - 3,
			Life:    1,
			Decay:   0.01,
			Size:    size,
			Color:   confettiColors[s.rng.Intn(len(confettiColors))],
			Variant: Confetti,
			Params: Params{
				Gravity:       0.15,
				Rotation:      s.rng.Float64() * 2 * math.Pi,
				RotationSpeed: s.spread(0.15),
				Drift:         s.spread(0.25),
				RectW:         size,
				RectH:         size * 1.5,
			},
		})
	}
}
