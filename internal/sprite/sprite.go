// Package sprite provides the enemy sprite atlas: natural dimensions and
// opacity masks for each enemy variant.
package sprite

import (
	"fmt"
	"image"
	"image/color"
	"sync"
)

// Variant identifies an enemy sprite.
type Variant int

const (
	Black Variant = iota
	Ghost
	Space
)

// Variants lists every enemy sprite in spawn-selection order.
var Variants = []Variant{Black, Ghost, Space}

func (v Variant) String() string {
	switch v {
	case Black:
		return "black"
	case Ghost:
		return "ghost"
	case Space:
		return "space"
	default:
		return fmt.Sprintf("variant(%d)", int(v))
	}
}

// Placeholder dimensions reported before a sprite is loaded.
const (
	PlaceholderWidth  = 64
	PlaceholderHeight = 64
)

// Alpha values used by the procedural bitmaps.
const (
	alphaOpaque = 255
	alphaFaint  = 30 // Visible glow, below the collision threshold
)

// Metrics describes a sprite as seen by collision and rendering.
type Metrics struct {
	Width, Height int
	Loaded        bool
	Mask          image.Image // nil until Loaded
}

// AlphaAt returns the alpha of the mask pixel at (x, y) in natural
// resolution. Out-of-range or unloaded lookups return 0.
func (m Metrics) AlphaAt(x, y int) uint8 {
	if !m.Loaded || m.Mask == nil {
		return 0
	}
	return color.AlphaModel.Convert(m.Mask.At(x, y)).(color.Alpha).A
}

// IsOpaqueAt reports whether the mask pixel at (x, y) exceeds threshold.
func (m Metrics) IsOpaqueAt(x, y int, threshold uint8) bool {
	return m.AlphaAt(x, y) > threshold
}

// bitmaps are the procedural sprites: '#' opaque, '+' faint, anything else transparent.
var bitmaps = map[Variant][]string{
	Black: {
		"..#.....#..",
		"...#...#...",
		"..#######..",
		".##.###.##.",
		"###########",
		"#.#######.#",
		"#.#.....#.#",
		"...##.##...",
	},
	Ghost: {
		"....++++....",
		"..+######+..",
		".+########+.",
		"+##..##..###",
		"+##..##..###",
		"+##########+",
		"+##########+",
		"+##########+",
		"+##########+",
		"+##########+",
		"+#+##++##+#+",
		"+.+.+..+.+.+",
	},
	Space: {
		"......####......",
		"....########....",
		"..############..",
		".##.##.##.##.##.",
		"################",
		"..###..##..###..",
		"...#........#...",
		"..+..........+..",
	},
}

// Pattern returns the bitmap rows of v. Used by renderers.
func Pattern(v Variant) []string {
	return bitmaps[v]
}

func buildMask(rows []string) *image.Alpha {
	h := len(rows)
	w := 0
	for _, r := range rows {
		w = max(w, len(r))
	}
	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	for y, r := range rows {
		for x := 0; x < len(r); x++ {
			switch r[x] {
			case '#':
				mask.SetAlpha(x, y, color.Alpha{A: alphaOpaque})
			case '+':
				mask.SetAlpha(x, y, color.Alpha{A: alphaFaint})
			}
		}
	}
	return mask
}

// Atlas holds sprite metrics. It is safe for concurrent use: the simulation
// polls Metrics while a loader goroutine fills it in.
type Atlas struct {
	mu      sync.RWMutex
	metrics map[Variant]Metrics
}

// NewAtlas returns an atlas with every sprite still unloaded.
func NewAtlas() *Atlas {
	return &Atlas{metrics: make(map[Variant]Metrics)}
}

// NewLoadedAtlas returns an atlas with every sprite loaded.
func NewLoadedAtlas() *Atlas {
	a := NewAtlas()
	a.Load()
	return a
}

// Metrics returns the current metrics for v. Unloaded sprites report the
// placeholder size.
func (a *Atlas) Metrics(v Variant) Metrics {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if m, ok := a.metrics[v]; ok {
		return m
	}
	return Metrics{Width: PlaceholderWidth, Height: PlaceholderHeight}
}

// Load builds every sprite mask.
func (a *Atlas) Load() {
	for _, v := range Variants {
		a.Set(v, buildMask(bitmaps[v]))
	}
}

// LoadAsync loads the atlas in the background. The returned channel is
// closed once every sprite is ready.
func (a *Atlas) LoadAsync() <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		a.Load()
	}()
	return done
}

// Set installs a mask for v and marks it loaded.
func (a *Atlas) Set(v Variant, mask image.Image) {
	b := mask.Bounds()
	a.mu.Lock()
	a.metrics[v] = Metrics{
		Width:  b.Dx(),
		Height: b.Dy(),
		Loaded: true,
		Mask:   mask,
	}
	a.mu.Unlock()
}
