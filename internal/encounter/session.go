package encounter

import (
	"time"

	"github.com/tomz197/invaders/internal/config"
)

// Phase is the session's top-level state.
type Phase int

const (
	Start Phase = iota
	Playing
	Respawning
	GameOver
)

func (p Phase) String() string {
	switch p {
	case Playing:
		return "playing"
	case Respawning:
		return "respawning"
	case GameOver:
		return "game over"
	default:
		return "start"
	}
}

// Session holds the counters of one play-through.
type Session struct {
	Phase         Phase
	Score         int
	Lives         int
	Group         int // Current wave, starting at 1
	Defeated      int // Kills in the current wave
	Spawned       int // Enemies spawned in the current wave
	HighScore     int // Best known score, for display
	ConfettiShown bool
	TotalShots    int
	TotalHits     int
}

// NewSession returns a fresh session in the Start phase.
func NewSession(highScore int) Session {
	return Session{
		Phase:     Start,
		Lives:     config.InitialLives,
		Group:     1,
		HighScore: highScore,
	}
}

// Accuracy returns hits per shot as a percentage, or 0 before the first shot.
func (s Session) Accuracy() float64 {
	if s.TotalShots == 0 {
		return 0
	}
	return float64(s.TotalHits) / float64(s.TotalShots) * 100
}

// Lightspeed is the eased starfield acceleration played between waves.
type Lightspeed struct {
	active bool
	start  time.Time
}

// Begin starts the effect at now.
func (l *Lightspeed) Begin(now time.Time) {
	l.active = true
	l.start = now
}

// Active reports whether the effect is running.
func (l *Lightspeed) Active() bool {
	return l.active
}

// Cancel stops the effect.
func (l *Lightspeed) Cancel() {
	l.active = false
}

// Update ends the effect once its duration has elapsed.
func (l *Lightspeed) Update(now time.Time) {
	if l.active && now.Sub(l.start) >= config.LightspeedDuration {
		l.active = false
	}
}

// Multiplier returns the starfield speed multiplier at now.
func (l *Lightspeed) Multiplier(now time.Time) float64 {
	if !l.active {
		return 1
	}
	p := float64(now.Sub(l.start)) / float64(config.LightspeedDuration)
	return LightspeedCurve(p)
}

// LightspeedCurve maps progress p in [0, 1] to a multiplier: quadratic
// ease-in to the peak over the first 40%, hold for 20%, quadratic ease-out.
func LightspeedCurve(p float64) float64 {
	const span = config.LightspeedPeak - 1
	switch {
	case p <= 0:
		return 1
	case p < 0.4:
		t := p / 0.4
		return 1 + t*t*span
	case p < 0.6:
		return config.LightspeedPeak
	case p < 1:
		q := (p - 0.6) / 0.4
		return config.LightspeedPeak - (1-(1-q)*(1-q))*span
	default:
		return 1
	}
}
