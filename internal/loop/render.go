package loop

import (
	"fmt"
	"image/color"

	"github.com/tomz197/invaders/internal/config"
	"github.com/tomz197/invaders/internal/draw"
	"github.com/tomz197/invaders/internal/encounter"
	"github.com/tomz197/invaders/internal/object"
	"github.com/tomz197/invaders/internal/particle"
	"github.com/tomz197/invaders/internal/sim"
	"github.com/tomz197/invaders/internal/sprite"
	"github.com/tomz197/invaders/internal/swarm"
)

// Particles fainter than this are not drawn.
const particleVisibleLife = 0.2

// Stars draw as streaks once the lightspeed multiplier passes this.
const streakMultiplier = 3

var spriteColors = map[sprite.Variant]color.RGBA{
	sprite.Black: config.Prey300,
	sprite.Ghost: config.White,
	sprite.Space: config.Purple300,
}

// drawFrame composes the whole frame into the chunk writer and flushes it
// in one write.
func (g *Game) drawFrame(snap sim.Snapshot) error {
	c := g.canvas
	cw := g.chunkWriter

	c.Clear()
	drawStars(c, snap)
	if snap.Session.Phase != encounter.Start {
		for i := range snap.Enemies {
			drawEnemy(c, &snap.Enemies[i])
		}
		for i := range snap.Projectiles {
			drawProjectile(c, &snap.Projectiles[i])
		}
		drawPlayer(c, snap)
	}
	for i := range snap.Particles {
		drawParticle(c, &snap.Particles[i])
	}

	cw.WriteString("\033[H\033[2J")
	if err := c.Render(cw); err != nil {
		return err
	}
	if err := c.RenderBorder(cw); err != nil {
		return err
	}
	drawUI(cw, c.TerminalWidth(), c.TerminalHeight(), snap, g.idle)
	return cw.Flush()
}

func drawStars(c *draw.Canvas, snap sim.Snapshot) {
	for i := range snap.Stars {
		s := &snap.Stars[i]
		col := draw.Dim(config.White, s.Opacity)
		if snap.Multiplier > streakMultiplier {
			tail := s.Speed(snap.Multiplier) * 10
			c.DrawLine(draw.Point{X: s.X, Y: s.Y}, draw.Point{X: s.X + tail, Y: s.Y}, col)
			continue
		}
		if s.Size < 1 {
			c.Set(s.X, s.Y, col)
			continue
		}
		c.FillRect(s.X, s.Y, s.Size, s.Size, col)
	}
}

func drawPlayer(c *draw.Canvas, snap sim.Snapshot) {
	if !object.ShouldRenderBlink(snap.FlashAlpha) {
		return
	}
	p := snap.Player
	left := p.X - p.Width/2
	top := p.Y - p.Height/2
	// Hull, tail fin and nose, mirrored when facing left.
	hullX, finX, noseX := left, left, left+p.Width*0.7
	if p.Direction < 0 {
		hullX, finX, noseX = left+p.Width*0.3, left+p.Width*0.7, left
	}
	c.FillRect(hullX, top+p.Height*0.3, p.Width*0.7, p.Height*0.4, config.Purple500)
	c.FillRect(finX, top, p.Width*0.3, p.Height, config.Purple500)
	c.FillRect(noseX, top+p.Height*0.4, p.Width*0.3, p.Height*0.2, config.Purple300)
}

func drawProjectile(c *draw.Canvas, p *object.Projectile) {
	r := p.Rect()
	c.FillRect(r.X, r.Y, r.W, r.H, config.Purple300)
}

func drawEnemy(c *draw.Canvas, e *swarm.Enemy) {
	box := e.Box()
	rows := sprite.Pattern(e.Sprite)
	col := spriteColors[e.Sprite]
	glow := draw.Dim(col, 0.35)

	cellH := box.H / float64(len(rows))
	for y, row := range rows {
		cellW := box.W / float64(len(row))
		for x := 0; x < len(row); x++ {
			var cc color.RGBA
			switch row[x] {
			case '#':
				cc = col
			case '+':
				cc = glow
			default:
				continue
			}
			c.FillRect(box.X+float64(x)*cellW, box.Y+float64(y)*cellH, cellW, cellH, cc)
		}
	}

	if e.Health < e.MaxHealth {
		barY := box.Y - 10
		c.FillRect(box.X, barY, box.W, 4, config.HitRed)
		c.FillRect(box.X, barY, box.W*e.HealthFraction(), 4, config.KillGreen)
	}
}

func drawParticle(c *draw.Canvas, p *particle.Particle) {
	if p.Life < particleVisibleLife {
		return
	}
	col := draw.Dim(p.Color, p.Life)
	w, h := p.Size, p.Size
	switch p.Variant {
	case particle.Confetti:
		w, h = p.RectW, p.RectH
	case particle.Sparkle:
		w, h = p.Size*p.Scale, p.Size*p.Scale
	}
	c.FillRect(p.X-w/2, p.Y-h/2, w, h, col)
}

// drawUI draws the HUD and the phase screens on top of the canvas.
func drawUI(cw *draw.ChunkWriter, width, height int, snap sim.Snapshot, idle bool) {
	s := snap.Session
	centerY := height / 2

	cw.SetColor(config.White)
	switch s.Phase {
	case encounter.Start:
		cw.SetColor(config.Purple300)
		cw.WriteCentered(width, centerY-3, "S W A R M   I N V A D E R S")
		cw.SetColor(config.White)
		cw.WriteCentered(width, centerY, "Press SPACE to Start")
		cw.WriteCentered(width, centerY+2, fmt.Sprintf("High Score: %d", s.HighScore))
		cw.SetColor(config.Prey300)
		cw.WriteCentered(width, centerY+5, "Arrows/WASD to move, your ship fires on its own, Q to quit")
	case encounter.GameOver:
		drawHUD(cw, width, s)
		cw.SetColor(config.HitRed)
		cw.WriteCentered(width, centerY-4, "GAME OVER")
		cw.SetColor(config.White)
		cw.WriteCentered(width, centerY-2, fmt.Sprintf("Score: %d   Wave: %d", s.Score, s.Group))
		cw.WriteCentered(width, centerY-1, fmt.Sprintf("High Score: %d", s.HighScore))
		cw.WriteCentered(width, centerY+1, fmt.Sprintf("Shots: %d   Hits: %d   Accuracy: %.1f%%", s.TotalShots, s.TotalHits, snap.Accuracy))
		cw.WriteCentered(width, centerY+3, "Press SPACE to Restart")
	default:
		drawHUD(cw, width, s)
		if s.Phase == encounter.Respawning {
			cw.WriteCentered(width, centerY-4, "GET READY")
		}
	}

	if idle {
		cw.SetColor(config.Gold)
		cw.WriteCentered(width, height, "Still there? Press any key to stay connected")
	}
	cw.ResetColor()
}

func drawHUD(cw *draw.ChunkWriter, width int, s encounter.Session) {
	cw.SetColor(config.White)
	cw.WriteAt(2, 1, fmt.Sprintf("Score: %d", s.Score))
	cw.WriteCentered(width, 1, fmt.Sprintf("Wave %d   High: %d", s.Group, s.HighScore))
	lives := fmt.Sprintf("Lives: %d", s.Lives)
	cw.WriteAt(max(width-len(lives), 1), 1, lives)
}
