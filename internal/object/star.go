package object

import (
	"math/rand"

	"github.com/tomz197/invaders/internal/config"
)

// Star is one element of the scrolling background.
type Star struct {
	X, Y         float64
	Size         float64
	BaseSpeed    float64
	Opacity      float64
	TwinkleSpeed float64
	twinkleDir   float64
}

// NewStarfield scatters config.StarCount stars across field.
func NewStarfield(rng *rand.Rand, field Field) []Star {
	stars := make([]Star, config.StarCount)
	for i := range stars {
		stars[i] = Star{
			X:            rng.Float64() * field.Width,
			Y:            rng.Float64() * field.Height,
			Size:         0.5 + rng.Float64()*2,
			BaseSpeed:    0.1 + rng.Float64()*0.4,
			Opacity:      0.3 + rng.Float64()*0.7,
			TwinkleSpeed: 0.02 + rng.Float64()*0.03,
			twinkleDir:   1,
		}
		if rng.Intn(2) == 0 {
			stars[i].twinkleDir = -1
		}
	}
	return stars
}

// Speed returns the star's current speed under the lightspeed multiplier.
func (s *Star) Speed(multiplier float64) float64 {
	return s.BaseSpeed * multiplier
}

// Update scrolls the star left, wrapping it to the right edge at a new
// height once it leaves the field. Stars only twinkle at low speed.
func (s *Star) Update(multiplier float64, rng *rand.Rand, field Field) {
	s.X -= s.Speed(multiplier)
	if s.X < -10 {
		s.X = field.Width + 10
		s.Y = rng.Float64() * field.Height
	}

	if multiplier >= 5 {
		return
	}
	s.Opacity += s.TwinkleSpeed * s.twinkleDir
	switch {
	case s.Opacity > 1:
		s.Opacity = 1
		s.twinkleDir = -1
	case s.Opacity < 0.3:
		s.Opacity = 0.3
		s.twinkleDir = 1
	}
}
