package loop

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/invaders/internal/encounter"
	"github.com/tomz197/invaders/internal/highscore"
	"github.com/tomz197/invaders/internal/object"
	"github.com/tomz197/invaders/internal/sim"
	"github.com/tomz197/invaders/internal/sprite"
)

func fixedSize(w, h int) func() (int, int, error) {
	return func() (int, int, error) { return w, h, nil }
}

func newTestGame(t *testing.T, keys string, out *bytes.Buffer) *Game {
	t.Helper()
	return New(bufio.NewReader(strings.NewReader(keys)), out, Options{
		TermSizeFunc: fixedSize(120, 40),
		Store:        highscore.NewMemoryStore(),
		Masks:        sprite.NewLoadedAtlas(),
		Rng:          rand.New(rand.NewSource(12345)),
	})
}

func TestRunEndsWhenInputCloses(t *testing.T) {
	var out bytes.Buffer
	g := newTestGame(t, "", &out)

	done := make(chan error, 1)
	go func() { done <- g.Run(context.Background()) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("loop did not stop after input closed")
	}
	assert.Contains(t, out.String(), "\033[?25h", "cursor restored")
}

func TestRunStopsOnCancel(t *testing.T) {
	var out bytes.Buffer
	pr, pw := io.Pipe()
	defer pw.Close()
	g := New(bufio.NewReader(pr), &out, Options{TermSizeFunc: fixedSize(80, 24)})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- g.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("loop ignored cancellation")
	}
}

func TestStartScreen(t *testing.T) {
	var out bytes.Buffer
	g := newTestGame(t, "", &out)

	require.NoError(t, g.drawFrame(g.state.Snapshot(time.Now())))
	assert.Contains(t, out.String(), "S W A R M   I N V A D E R S")
	assert.Contains(t, out.String(), "High Score: 0")
}

func TestPlayingAndGameOverScreens(t *testing.T) {
	var out bytes.Buffer
	g := newTestGame(t, "", &out)
	now := time.Now()

	sim.Tick(g.state, object.Input{Confirm: true}, now)
	require.Equal(t, encounter.Playing, g.state.Phase())
	for i := 0; i < 30; i++ {
		now = now.Add(16 * time.Millisecond)
		sim.Tick(g.state, object.Input{}, now)
	}

	out.Reset()
	require.NoError(t, g.drawFrame(g.state.Snapshot(now)))
	assert.Contains(t, out.String(), "Score: 0")
	assert.Contains(t, out.String(), "Lives: 3")
	assert.Contains(t, out.String(), "█", "player drawn")

	g.state.Director.Session.TotalShots = 4
	g.state.Director.Session.TotalHits = 3
	g.state.Director.Session.Lives = 1
	g.state.Director.Contact(now)

	out.Reset()
	require.NoError(t, g.drawFrame(g.state.Snapshot(now)))
	assert.Contains(t, out.String(), "GAME OVER")
	assert.Contains(t, out.String(), "Accuracy: 75.0%")
}

func TestNewWithoutTerminalSize(t *testing.T) {
	var logs, out bytes.Buffer
	g := New(bufio.NewReader(strings.NewReader("")), &out, Options{
		TermSizeFunc: func() (int, int, error) { return 0, 0, errors.New("not a terminal") },
		Logger:       log.New(&logs),
	})

	assert.Equal(t, 240, g.canvas.TerminalWidth())
	assert.Equal(t, 80, g.canvas.TerminalHeight())
	assert.Contains(t, logs.String(), "not a terminal")

	g.updateScreen()
	assert.Equal(t, 240, g.canvas.TerminalWidth(), "keeps the last size")
}

func TestIdleTimeout(t *testing.T) {
	var out bytes.Buffer
	g := newTestGame(t, "", &out)
	g.opts.IdleWarnAfter = time.Minute
	g.opts.IdleTimeout = 2 * time.Minute
	start := g.lastInput

	assert.False(t, g.idleOut(object.Input{}, start.Add(30*time.Second)))
	assert.False(t, g.idle)
	assert.False(t, g.idleOut(object.Input{}, start.Add(90*time.Second)))
	assert.True(t, g.idle)
	assert.False(t, g.idleOut(object.Input{Up: true}, start.Add(100*time.Second)))
	assert.False(t, g.idle)
	assert.True(t, g.idleOut(object.Input{}, start.Add(100*time.Second+3*time.Minute)))
}
