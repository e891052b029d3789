// Package encounter sequences waves, applies hit and contact outcomes to
// the session, and runs the lightspeed and respawn transitions.
package encounter

import (
	"errors"
	"io"
	"math"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/invaders/internal/config"
	"github.com/tomz197/invaders/internal/highscore"
	"github.com/tomz197/invaders/internal/object"
	"github.com/tomz197/invaders/internal/particle"
	"github.com/tomz197/invaders/internal/physics"
	"github.com/tomz197/invaders/internal/swarm"
)

// Director owns the session and drives the swarm through it.
type Director struct {
	Session    Session
	Lightspeed Lightspeed

	field     object.Field
	player    *object.Player
	swarm     *swarm.Swarm
	particles *particle.System
	store     highscore.Store
	rng       *rand.Rand
	logger    *log.Logger

	nextSpawn    time.Time
	respawnStart time.Time
}

// Deps are the collaborators a Director works on.
type Deps struct {
	Field     object.Field
	Player    *object.Player
	Swarm     *swarm.Swarm
	Particles *particle.System
	Store     highscore.Store
	Rng       *rand.Rand
	Logger    *log.Logger
}

// NewDirector creates a director in the Start phase with the stored high score.
func NewDirector(d Deps) *Director {
	if d.Logger == nil {
		d.Logger = log.New(io.Discard)
	}
	if d.Store == nil {
		d.Store = highscore.NewMemoryStore()
	}
	dir := &Director{
		field:     d.Field,
		player:    d.Player,
		swarm:     d.Swarm,
		particles: d.Particles,
		store:     d.Store,
		rng:       d.Rng,
		logger:    d.Logger,
	}
	dir.Session = NewSession(dir.loadHighScore())
	return dir
}

// loadHighScore reads the store. Failures are logged and read as 0.
func (d *Director) loadHighScore() int {
	score, err := d.store.HighScore()
	if err != nil {
		if errors.Is(err, highscore.ErrCorrupt) {
			d.logger.Warn("high score record was corrupt, reset to 0", "err", err)
		} else {
			d.logger.Error("failed to load high score", "err", err)
		}
		return 0
	}
	return score
}

// Start begins play from the Start phase.
func (d *Director) Start(now time.Time) {
	if d.Session.Phase != Start {
		return
	}
	d.Session.Phase = Playing
	d.player.LastFire = now
	d.nextSpawn = now
	d.logger.Debug("session started")
}

// Reset returns to the Start phase. The high score carries over.
func (d *Director) Reset() {
	high := max(d.Session.HighScore, d.loadHighScore())
	d.Session = NewSession(high)
	d.Lightspeed.Cancel()
	d.swarm.EndTransits()
	d.swarm.Clear()
	d.particles.Clear()
	d.player.Reset(d.field)
}

// Multiplier returns the current starfield speed multiplier.
func (d *Director) Multiplier(now time.Time) float64 {
	return d.Lightspeed.Multiplier(now)
}

// UpdateTransitions advances the timed effects.
func (d *Director) UpdateTransitions(now time.Time) {
	d.Lightspeed.Update(now)
}

// UpdateRespawn interpolates every enemy toward its transit target and
// resumes play once the respawn interval has elapsed.
func (d *Director) UpdateRespawn(now time.Time) {
	if d.Session.Phase != Respawning {
		return
	}
	t := float64(now.Sub(d.respawnStart)) / float64(config.RespawnDuration)
	for _, e := range d.swarm.Enemies() {
		e.StepTransit(t)
	}
	if t >= 1 {
		d.swarm.EndTransits()
		d.Session.Phase = Playing
	}
}

// FlashAlpha returns the player's opacity; it pulses while respawning.
func (d *Director) FlashAlpha(now time.Time) float64 {
	if d.Session.Phase != Respawning {
		return 1
	}
	elapsed := float64(now.Sub(d.respawnStart)) / float64(100*time.Millisecond)
	return math.Abs(math.Sin(elapsed))
}

// SpawnWave spawns the next enemy of the current wave when one is due.
func (d *Director) SpawnWave(now time.Time) {
	if d.Session.Spawned >= config.EnemiesPerGroup || now.Before(d.nextSpawn) {
		return
	}
	d.swarm.Spawn(d.Session.Group, now)
	d.Session.Spawned++
	d.nextSpawn = now.Add(config.EnemySpawnDelay)
}

// RecordShot counts a fired projectile.
func (d *Director) RecordShot() {
	d.Session.TotalShots++
}

// Hit applies one projectile hit to e and reports whether it died.
func (d *Director) Hit(e *swarm.Enemy, now time.Time) bool {
	d.Session.TotalHits++
	if !e.TakeDamage() {
		d.particles.Explosion(e.X, e.Y, config.Purple300, 1)
		return false
	}
	d.kill(e, now)
	return true
}

func (d *Director) kill(e *swarm.Enemy, now time.Time) {
	d.Session.Score += config.ScorePerGroup * d.Session.Group
	d.particles.Explosion(e.X, e.Y, config.KillGreen, 1)

	if d.Session.Score > d.Session.HighScore {
		if !d.Session.ConfettiShown {
			d.Session.ConfettiShown = true
			d.particles.Confetti()
		}
		d.Session.HighScore = d.Session.Score
	}

	if d.swarm.Len() > 1 {
		d.swarm.Scatter(e, now)
	}
	d.swarm.Remove(e)

	d.Session.Defeated++
	if d.Session.Defeated >= config.EnemiesPerGroup {
		d.completeWave(now)
	}

	// A kill resolved in the tick that ended the game still counts.
	if d.Session.Phase == GameOver {
		d.saveHighScore()
	}
}

func (d *Director) completeWave(now time.Time) {
	d.logger.Info("wave cleared", "wave", d.Session.Group, "score", d.Session.Score)
	d.Session.Group++
	d.Session.Defeated = 0
	d.Session.Spawned = 0
	d.Lightspeed.Begin(now)
	d.nextSpawn = now.Add(config.LightspeedDuration + config.WaveSpawnBuffer)
}

// Proximity emits sparkles around the player.
func (d *Director) Proximity() {
	d.particles.Sparkle(d.player.X, d.player.Y)
}

// Contact applies an enemy touching the player: a life is lost, then
// either the game ends or the respawn sequence starts.
func (d *Director) Contact(now time.Time) {
	d.particles.CombinedExplosion(d.player.X, d.player.Y, config.HitRed, config.Purple500)

	d.Session.Lives = max(d.Session.Lives-1, 0)
	if d.Session.Lives == 0 {
		d.gameOver()
		return
	}

	d.Session.Phase = Respawning
	d.respawnStart = now
	d.player.Reset(d.field)
	for _, e := range d.swarm.Enemies() {
		x, y := d.respawnTarget()
		e.BeginTransit(x, y)
	}
}

// respawnTarget picks a point in the right part of the field, away from the player.
func (d *Director) respawnTarget() (x, y float64) {
	const attempts = 100
	for range attempts {
		x = 400 + d.rng.Float64()*(d.field.Width-500)
		y = 50 + d.rng.Float64()*(d.field.Height-100)
		if physics.Distance(x, y, d.player.X, d.player.Y) >= config.RespawnMinDistance {
			return x, y
		}
	}
	return d.field.Width - 100, y
}

func (d *Director) gameOver() {
	d.Session.Phase = GameOver
	d.swarm.EndTransits()
	d.logger.Info("game over", "score", d.Session.Score, "wave", d.Session.Group,
		"accuracy", math.Round(d.Session.Accuracy()))
	d.saveHighScore()
}

func (d *Director) saveHighScore() {
	saved, err := highscore.Update(d.store, d.Session.Score)
	if err != nil {
		d.logger.Error("failed to save high score", "err", err)
		return
	}
	if saved {
		d.logger.Info("new high score", "score", d.Session.Score)
	}
}
