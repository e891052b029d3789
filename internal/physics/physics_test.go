package physics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance(t *testing.T) {
	assert.InDelta(t, 5.0, Distance(0, 0, 3, 4), 1e-9)
	assert.InDelta(t, 25.0, DistanceSquared(0, 0, 3, 4), 1e-9)
}

func TestCirclesOverlap(t *testing.T) {
	assert.True(t, CirclesOverlap(0, 0, 25, 44, 0, 20))
	assert.False(t, CirclesOverlap(0, 0, 25, 45, 0, 20), "touching circles do not overlap")
	assert.True(t, CirclesOverlap(0, 0, 80, 79.9, 0, 0), "point inside a ring")
	assert.False(t, CirclesOverlap(0, 0, 80, 80, 0, 0))
}

func TestClampLerp(t *testing.T) {
	assert.Equal(t, 50.0, Clamp(10, 50, 100))
	assert.Equal(t, 100.0, Clamp(110, 50, 100))
	assert.Equal(t, 70.0, Clamp(70, 50, 100))
	assert.Equal(t, 15.0, Lerp(10, 20, 0.5))
}

func TestRectOverlaps(t *testing.T) {
	enemy := CenteredRect(100, 100, 40, 40)
	assert.Equal(t, Rect{X: 80, Y: 80, W: 40, H: 40}, enemy)

	tests := []struct {
		name string
		shot Rect
		want bool
	}{
		{"inside", Rect{X: 90, Y: 98, W: 30, H: 4}, true},
		{"left of box", Rect{X: 40, Y: 98, W: 30, H: 4}, false},
		{"touching left edge", Rect{X: 50, Y: 98, W: 30, H: 4}, false},
		{"above box", Rect{X: 90, Y: 70, W: 30, H: 4}, false},
		{"grazing top", Rect{X: 90, Y: 78, W: 30, H: 4}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.shot.Overlaps(enemy))
			assert.Equal(t, tt.want, enemy.Overlaps(tt.shot))
		})
	}
}

func TestRectIntersect(t *testing.T) {
	a := Rect{X: 0, Y: 0, W: 10, H: 10}
	got, ok := a.Intersect(Rect{X: 5, Y: 8, W: 10, H: 10})
	assert.True(t, ok)
	assert.Equal(t, Rect{X: 5, Y: 8, W: 5, H: 2}, got)

	_, ok = a.Intersect(Rect{X: 10, Y: 0, W: 5, H: 5})
	assert.False(t, ok)
}
