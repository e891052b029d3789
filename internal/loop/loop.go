// Package loop runs one interactive session: it reads terminal input,
// ticks the simulation and renders each frame.
package loop

import (
	"bufio"
	"context"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/invaders/internal/collision"
	"github.com/tomz197/invaders/internal/config"
	"github.com/tomz197/invaders/internal/draw"
	"github.com/tomz197/invaders/internal/highscore"
	"github.com/tomz197/invaders/internal/input"
	"github.com/tomz197/invaders/internal/object"
	"github.com/tomz197/invaders/internal/sim"
	"github.com/tomz197/invaders/internal/sprite"
)

// Options configures a Game. Zero values get working defaults.
type Options struct {
	TermSizeFunc  draw.TermSizeFunc
	Display       config.DisplaySettings
	Store         highscore.Store
	Masks         collision.MaskSource
	Logger        *log.Logger
	Rng           *rand.Rand
	IdleTimeout   time.Duration // Ends the session after this long without input; 0 disables
	IdleWarnAfter time.Duration // Shows a warning after this long without input; 0 disables
}

// Game is one running session bound to a terminal.
type Game struct {
	state       *sim.State
	stream      *input.Stream
	writer      io.Writer
	canvas      *draw.Canvas
	chunkWriter *draw.ChunkWriter
	opts        Options
	logger      *log.Logger
	lastInput   time.Time
	idle        bool
}

// New creates a session reading keys from r and drawing to w.
func New(r *bufio.Reader, w io.Writer, opts Options) *Game {
	if opts.TermSizeFunc == nil {
		opts.TermSizeFunc = draw.DefaultTermSizeFunc
	}
	if opts.Display.FPS <= 0 {
		opts.Display = config.DefaultSettings().Display
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Masks == nil {
		opts.Masks = sprite.NewLoadedAtlas()
	}

	termWidth, termHeight, err := opts.TermSizeFunc()
	if err != nil {
		opts.Logger.Warn("failed to read terminal size, using the max render area", "err", err)
		termWidth, termHeight = opts.Display.MaxTermWidth, opts.Display.MaxTermHeight
	}
	width, height, offCol, offRow := draw.FitArea(termWidth, termHeight, opts.Display.MaxTermWidth, opts.Display.MaxTermHeight)
	canvas := draw.NewScaledCanvas(width, height, config.FieldWidth, config.FieldHeight)
	canvas.SetOffset(offCol, offRow)

	return &Game{
		state: sim.New(sim.Options{
			Rng:    opts.Rng,
			Store:  opts.Store,
			Masks:  opts.Masks,
			Logger: opts.Logger,
		}),
		stream:      input.StartStream(r),
		writer:      w,
		canvas:      canvas,
		chunkWriter: draw.NewChunkWriter(w, offCol, offRow),
		opts:        opts,
		logger:      opts.Logger,
		lastInput:   time.Now(),
	}
}

// Run drives the Input → Tick → Draw cycle until the player quits, the
// input stream closes, the session idles out or ctx is cancelled.
func (g *Game) Run(ctx context.Context) error {
	draw.HideCursor(g.writer)
	defer draw.ShowCursor(g.writer)
	draw.ClearScreen(g.writer)

	frameTime := g.opts.Display.FrameTime()
	ticker := time.NewTicker(frameTime)
	defer ticker.Stop()

	for {
		now := time.Now()
		in := input.ReadInput(g.stream)
		if in.Quit {
			break
		}
		if g.idleOut(in, now) {
			g.logger.Info("session idle, disconnecting")
			break
		}

		sim.Tick(g.state, in, now)

		g.updateScreen()
		if err := g.drawFrame(g.state.Snapshot(now)); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			draw.ClearScreen(g.writer)
			return ctx.Err()
		case <-ticker.C:
		}
	}

	draw.ClearScreen(g.writer)
	return nil
}

// idleOut tracks input activity and reports whether the session timed out.
func (g *Game) idleOut(in object.Input, now time.Time) bool {
	if in != (object.Input{}) {
		g.lastInput = now
		g.idle = false
		return false
	}
	quiet := now.Sub(g.lastInput)
	if g.opts.IdleTimeout > 0 && quiet > g.opts.IdleTimeout {
		return true
	}
	g.idle = g.opts.IdleWarnAfter > 0 && quiet > g.opts.IdleWarnAfter
	return false
}

// updateScreen follows terminal resizes, clamping to the max render area.
func (g *Game) updateScreen() {
	termWidth, termHeight, err := g.opts.TermSizeFunc()
	if err != nil {
		g.logger.Debug("terminal size unavailable, keeping the last one", "err", err)
		return
	}
	width, height, offCol, offRow := draw.FitArea(termWidth, termHeight, g.opts.Display.MaxTermWidth, g.opts.Display.MaxTermHeight)
	g.canvas.Resize(width, height)
	g.canvas.SetOffset(offCol, offRow)
	g.chunkWriter.SetOffset(offCol, offRow)
}
