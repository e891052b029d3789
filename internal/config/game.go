package config

import "time"

// Game configuration constants.
// All gameplay parameters are centralized here. Difficulty only scales
// through the per-wave curve below; none of these are runtime-configurable.

// Play field, in logical units.
const (
	FieldWidth  = 1200
	FieldHeight = 800
	FieldInset  = 50 // Bounce/clamp margin used by enemy movement
)

// Session
const (
	InitialLives  = 3
	ScorePerGroup = 100 // Score per kill is ScorePerGroup * current group
)

// Player
const (
	PlayerStartX   = 100
	PlayerSize     = 50
	PlayerSpeed    = 5.0
	AutoFireDelay  = 700 * time.Millisecond
	ProjectileW    = 30
	ProjectileH    = 4
	ProjectileStep = 8.0
)

// Waves
const (
	EnemiesPerGroup = 5
	EnemySpawnDelay = 200 * time.Millisecond
	WaveSpawnBuffer = 500 * time.Millisecond // Extra delay after lightspeed before the next wave
)

// Enemies
const (
	EnemySize           = 40
	EnemyBaseSpeed      = 1.5
	EnemyBaseHealth     = 2
	EnemySpeedGrowth    = 1.07 // Per-wave speed multiplier
	EnemyHealthGrowth   = 1.1  // Per-wave health multiplier
	EnemySpawnOffset    = 50   // Enemies appear this far beyond the right edge
	EnemyCullX          = -50
	FormationSpacing    = 60
	RegroupDistance     = 10
	ReturnSpeedFactor   = 3
	ScatterMinDuration  = 1000 * time.Millisecond
	ScatterMaxDuration  = 4000 * time.Millisecond
	ScatterMinSpeed     = 3.0
	ScatterMaxSpeed     = 5.0
	ScatterAvoidRadius  = 100
	ScatterAvoidPush    = 2.0
	DodgeWindowX        = 100
	DodgeWindowY        = 40
	HomingThreshold     = 30
	InitialTurnDelayMin = 800 * time.Millisecond
	InitialTurnDelayMax = 2000 * time.Millisecond
	TurnDelayMin        = 600 * time.Millisecond
	TurnDelayMax        = 1600 * time.Millisecond
)

// Collision
const (
	ProximityRadius  = 80
	OpacityThreshold = 50 // Alpha (0-255) above which a sprite pixel is solid
)

// Transitions
const (
	LightspeedDuration = 4000 * time.Millisecond
	LightspeedPeak     = 20.0
	RespawnDuration    = 1500 * time.Millisecond
	RespawnMinDistance = 400
)

// Particles
const (
	MaxParticles       = 500
	TrailEvery         = 2
	SparkleEvery       = 5
	SparkleBatch       = 5
	ExplosionParticles = 20
	ConfettiMin        = 80
	ConfettiMax        = 100
)

// Starfield
const (
	StarCount = 100
)
