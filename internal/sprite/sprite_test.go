package sprite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAtlasPlaceholderBeforeLoad(t *testing.T) {
	a := NewAtlas()
	m := a.Metrics(Ghost)
	assert.False(t, m.Loaded)
	assert.Equal(t, PlaceholderWidth, m.Width)
	assert.Equal(t, PlaceholderHeight, m.Height)
	assert.Equal(t, uint8(0), m.AlphaAt(5, 5))
}

func TestAtlasLoad(t *testing.T) {
	a := NewAtlas()
	<-a.LoadAsync()

	for _, v := range Variants {
		m := a.Metrics(v)
		require.True(t, m.Loaded, v.String())
		assert.Equal(t, len(Pattern(v)[0]), m.Width, v.String())
		assert.Equal(t, len(Pattern(v)), m.Height, v.String())
	}
}

func TestMaskAlpha(t *testing.T) {
	m := NewLoadedAtlas().Metrics(Ghost)

	assert.Equal(t, uint8(alphaOpaque), m.AlphaAt(4, 1))
	assert.Equal(t, uint8(alphaFaint), m.AlphaAt(4, 0))
	assert.Equal(t, uint8(0), m.AlphaAt(0, 0))
	assert.Equal(t, uint8(0), m.AlphaAt(-1, 100), "out of range reads transparent")

	assert.True(t, m.IsOpaqueAt(4, 1, 50))
	assert.False(t, m.IsOpaqueAt(4, 0, 50), "faint glow is below the threshold")
}

func TestVariantString(t *testing.T) {
	assert.Equal(t, "space", Space.String())
	assert.Equal(t, "variant(9)", Variant(9).String())
}
