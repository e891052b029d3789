package particle

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/invaders/internal/config"
)

func newTestSystem() *System {
	return NewSystem(rand.New(rand.NewSource(12345)), config.FieldWidth, config.FieldHeight)
}

func TestExplosionEvenAngles(t *testing.T) {
	s := newTestSystem()
	s.Explosion(100, 100, config.KillGreen, 1)

	ps := s.Particles()
	require.Len(t, ps, 20)
	for i, p := range ps {
		angle := float64(i) / 20 * 2 * math.Pi
		speed := math.Hypot(p.VX, p.VY)
		assert.InDelta(t, math.Cos(angle)*speed, p.VX, 1e-9)
		assert.GreaterOrEqual(t, speed, 3.0)
		assert.Less(t, speed, 8.0)
		assert.Equal(t, config.KillGreen, p.Color)
		assert.Equal(t, Explosion, p.Variant)
	}
}

func TestExplosionIntensity(t *testing.T) {
	s := newTestSystem()
	s.Explosion(0, 0, config.White, 1.5)
	assert.Equal(t, 30, s.Len())
	s.Explosion(0, 0, config.White, 0.49)
	assert.Equal(t, 39, s.Len())
}

func TestCombinedExplosionCyclesColors(t *testing.T) {
	s := newTestSystem()
	s.CombinedExplosion(10, 10, config.HitRed, config.Purple500)

	ps := s.Particles()
	require.Len(t, ps, 40)
	assert.Equal(t, config.HitRed, ps[0].Color)
	assert.Equal(t, config.Purple500, ps[1].Color)
	assert.Equal(t, config.HitRed, ps[38].Color)
}

func TestTrailEverySecondCall(t *testing.T) {
	s := newTestSystem()
	s.Trail(0, 0)
	assert.Equal(t, 0, s.Len())
	s.Trail(0, 0)
	assert.Equal(t, 1, s.Len())
	s.Trail(0, 0)
	s.Trail(0, 0)
	assert.Equal(t, 2, s.Len())
}

func TestSparkleEveryFifthCall(t *testing.T) {
	s := newTestSystem()
	for i := 0; i < 4; i++ {
		s.Sparkle(0, 0)
	}
	assert.Equal(t, 0, s.Len())
	s.Sparkle(0, 0)
	assert.Equal(t, 5, s.Len())
}

func TestSparkleScaleStaysInRange(t *testing.T) {
	s := newTestSystem()
	for i := 0; i < 5; i++ {
		s.Sparkle(0, 0)
	}
	for tick := 0; tick < 45; tick++ {
		s.Update()
		for _, p := range s.Particles() {
			assert.GreaterOrEqual(t, p.Scale, 0.5)
			assert.LessOrEqual(t, p.Scale, 1.5)
		}
	}
}

func TestConfetti(t *testing.T) {
	s := newTestSystem()
	s.Confetti()

	n := s.Len()
	assert.GreaterOrEqual(t, n, 80)
	assert.LessOrEqual(t, n, 100)
	for _, p := range s.Particles() {
		assert.LessOrEqual(t, p.Y, config.FieldHeight*0.3)
		assert.Less(t, p.VY, -3.0+1e-9)
		assert.InDelta(t, p.RectW*1.5, p.RectH, 1e-9)
	}
}

func TestUpdateRemovesDead(t *testing.T) {
	s := newTestSystem()
	s.Add(Particle{Life: 0.05, Decay: 0.03, Variant: Trail})
	s.Add(Particle{Life: 1, Decay: 0.03, Variant: Trail, VX: 2})

	s.Update()
	assert.Equal(t, 2, s.Len())
	s.Update()
	require.Equal(t, 1, s.Len())
	assert.Equal(t, 4.0, s.Particles()[0].X)
}

func TestExplosionGravity(t *testing.T) {
	s := newTestSystem()
	s.Add(Particle{Life: 1, Decay: 0.025, Variant: Explosion, Params: Params{Gravity: 0.2}})
	s.Update()
	s.Update()
	p := s.Particles()[0]
	assert.InDelta(t, 0.4, p.VY, 1e-9)
	assert.InDelta(t, 0.6, p.Y, 1e-9)
	assert.InDelta(t, 0.95, p.Life, 1e-9)
}

func TestCapDropsOldest(t *testing.T) {
	s := newTestSystem()
	for i := 0; i < 520; i++ {
		s.Add(Particle{X: float64(i), Life: 1, Decay: 0.01, Variant: Trail})
	}
	s.Update()

	ps := s.Particles()
	require.Len(t, ps, config.MaxParticles)
	assert.Equal(t, 20.0, ps[0].X)
	assert.Equal(t, 519.0, ps[len(ps)-1].X)
}

func TestCapUnderLoad(t *testing.T) {
	s := newTestSystem()
	for tick := 0; tick < 50; tick++ {
		s.Explosion(600, 400, config.KillGreen, 1)
		s.CombinedExplosion(600, 400, config.HitRed, config.Purple500)
		s.Confetti()
		s.Update()
		assert.LessOrEqual(t, s.Len(), config.MaxParticles)
	}
}

func TestClear(t *testing.T) {
	s := newTestSystem()
	s.Trail(0, 0)
	s.Explosion(0, 0, config.White, 1)
	s.Clear()
	assert.Equal(t, 0, s.Len())
	s.Trail(0, 0)
	assert.Equal(t, 0, s.Len(), "trail counter restarts")
}
