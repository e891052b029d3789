package swarm

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/invaders/internal/config"
	"github.com/tomz197/invaders/internal/object"
	"github.com/tomz197/invaders/internal/sprite"
)

var (
	field = object.Field{Width: config.FieldWidth, Height: config.FieldHeight}
	epoch = time.Unix(1_700_000_000, 0)
)

func newTestSwarm(masks *sprite.Atlas) *Swarm {
	if masks == nil {
		return New(rand.New(rand.NewSource(12345)), field, nil)
	}
	return New(rand.New(rand.NewSource(12345)), field, masks)
}

func spawnN(s *Swarm, n, group int) []*Enemy {
	out := make([]*Enemy, n)
	for i := range out {
		out[i] = s.Spawn(group, epoch)
	}
	return out
}

func TestDifficultyScaling(t *testing.T) {
	assert.InDelta(t, 1.5, ScaledSpeed(1), 1e-9)
	assert.InDelta(t, 1.5*1.07*1.07*1.07*1.07, ScaledSpeed(5), 1e-9)
	assert.Equal(t, 2, ScaledHealth(1))
	assert.Equal(t, 3, ScaledHealth(2), "ceil(2.2)")
	assert.Equal(t, 3, ScaledHealth(5), "ceil(2.93)")
	assert.Equal(t, 4, ScaledHealth(6), "ceil(3.22)")
}

func TestSpawn(t *testing.T) {
	s := newTestSwarm(nil)
	enemies := spawnN(s, 5, 1)

	for i, e := range enemies {
		assert.Equal(t, i, e.FormationIndex)
		assert.Equal(t, i == 0, e.Leader)
		assert.Equal(t, 1250.0, e.X)
		assert.GreaterOrEqual(t, e.Y, 100.0)
		assert.LessOrEqual(t, e.Y, 700.0)
		assert.Equal(t, 40.0, e.Width)
		assert.Equal(t, 2, e.Health)
		assert.Equal(t, 2, e.MaxHealth)
		assert.GreaterOrEqual(t, e.VerticalSpeed, 0.3*e.Speed)
		assert.LessOrEqual(t, e.VerticalSpeed, 0.9*e.Speed)
	}
	assert.Same(t, enemies[0], s.Leader())
}

func TestSpawnUsesSpriteAspect(t *testing.T) {
	s := newTestSwarm(sprite.NewLoadedAtlas())
	for i := 0; i < 10; i++ {
		e := s.Spawn(1, epoch)
		m := sprite.NewLoadedAtlas().Metrics(e.Sprite)
		assert.InDelta(t, 40.0, max(e.Width, e.Height), 1e-9)
		assert.InDelta(t, float64(m.Width)/float64(m.Height), e.Width/e.Height, 1e-9)
	}
}

func TestFollowersSnapToLeader(t *testing.T) {
	s := newTestSwarm(nil)
	enemies := spawnN(s, 3, 1)

	s.Update(epoch, nil, nil)
	leader := enemies[0]
	assert.Equal(t, 1250.0-leader.Speed, leader.X)
	for _, e := range enemies[1:] {
		assert.Equal(t, leader.X+float64(e.FormationIndex)*60, e.X)
		assert.Equal(t, leader.Y, e.Y)
	}
}

func TestLeaderReachesLeftThenSweeps(t *testing.T) {
	s := newTestSwarm(nil)
	leader := s.Spawn(1, epoch)
	leader.X = 51

	s.Update(epoch, nil, nil)
	assert.True(t, leader.reachedLeft)
	assert.True(t, leader.movingRight)

	x := leader.X
	s.Update(epoch, nil, nil)
	assert.Equal(t, x+leader.Speed, leader.X)

	for i := 0; i < 2000; i++ {
		s.Update(epoch, nil, nil)
		assert.GreaterOrEqual(t, leader.X, 50.0-leader.Speed)
		assert.LessOrEqual(t, leader.X, 1150.0+leader.Speed)
		assert.GreaterOrEqual(t, leader.Y, 50.0-leader.VerticalSpeed)
		assert.LessOrEqual(t, leader.Y, 750.0+leader.VerticalSpeed)
	}
}

func TestLeaderApproachStaysInsideInsets(t *testing.T) {
	s := newTestSwarm(nil)
	leader := s.Spawn(1, epoch)
	leader.X, leader.Y = 600, 51
	leader.VerticalSpeed = 5
	leader.movingDown = false

	s.Update(epoch, nil, nil)
	assert.Equal(t, 50.0, leader.Y)
	assert.True(t, leader.movingDown)

	leader.Y = 748
	s.Update(epoch, nil, nil)
	assert.Equal(t, 750.0, leader.Y)
	assert.False(t, leader.movingDown)
}

func TestLeaderSweepOnlyReverses(t *testing.T) {
	s := newTestSwarm(nil)
	leader := s.Spawn(1, epoch)
	leader.X, leader.Y = 600, 51
	leader.VerticalSpeed = 5
	leader.movingDown = false
	leader.reachedLeft = true
	leader.nextTurn = epoch.Add(time.Hour)

	s.Update(epoch, nil, nil)
	assert.Equal(t, 46.0, leader.Y)
	assert.True(t, leader.movingDown)
}

func TestLeaderDodgesProjectile(t *testing.T) {
	s := newTestSwarm(nil)
	leader := s.Spawn(1, epoch)
	leader.X, leader.Y = 600, 400
	leader.reachedLeft = true
	leader.movingDown = true
	leader.nextTurn = epoch

	shot := object.NewProjectile(550, 420, 1)
	s.Update(epoch, nil, []*object.Projectile{shot})

	assert.False(t, leader.movingDown, "moves away from a shot below it")
	assert.Less(t, leader.Y, 400.0)
	assert.True(t, leader.nextTurn.After(epoch))
}

func TestLeaderHomesOnPlayer(t *testing.T) {
	s := newTestSwarm(nil)
	leader := s.Spawn(1, epoch)
	leader.X, leader.Y = 600, 200
	leader.reachedLeft = true
	leader.movingDown = false
	leader.nextTurn = epoch

	player := object.NewPlayer(field)
	s.Update(epoch, player, nil)
	assert.True(t, leader.movingDown)
	assert.Greater(t, leader.Y, 200.0)
}

func TestRemoveLeaderPromotesAndRenumbers(t *testing.T) {
	s := newTestSwarm(nil)
	enemies := spawnN(s, 4, 1)

	s.Remove(enemies[0])
	require.Equal(t, 3, s.Len())

	next := s.Leader()
	require.NotNil(t, next)
	assert.Same(t, enemies[1], next)
	assert.True(t, next.reachedLeft)
	assert.True(t, next.movingRight)
	for i, e := range s.Enemies() {
		assert.Equal(t, i, e.FormationIndex)
		assert.Equal(t, i == 0, e.Leader)
	}

	s.Remove(enemies[2])
	assert.Equal(t, 1, enemies[3].FormationIndex)

	next = s.Spawn(1, epoch)
	assert.Equal(t, 2, next.FormationIndex)
	assert.False(t, next.Leader)
}

func TestRemoveLastEnemy(t *testing.T) {
	s := newTestSwarm(nil)
	e := s.Spawn(1, epoch)
	s.Remove(e)
	assert.Equal(t, 0, s.Len())
	assert.Nil(t, s.Leader())

	s.Remove(e)
	assert.Equal(t, 0, s.Len())
}

func TestScatterSkipsDyingEnemy(t *testing.T) {
	s := newTestSwarm(nil)
	enemies := spawnN(s, 5, 1)
	for i, e := range enemies {
		e.X, e.Y = 400+float64(i)*60, 400
	}

	s.Scatter(enemies[2], epoch)
	for i, e := range enemies {
		if i == 2 {
			assert.Equal(t, Formation, e.State)
			continue
		}
		assert.Equal(t, Scattering, e.State)
		d := e.scatterUntil.Sub(epoch)
		assert.GreaterOrEqual(t, d, time.Second)
		assert.LessOrEqual(t, d, 4*time.Second)
	}
}

func TestScatterStaysInBoundsThenRegroups(t *testing.T) {
	s := newTestSwarm(nil)
	enemies := spawnN(s, 5, 1)
	for i, e := range enemies {
		e.X, e.Y = 400+float64(i)*60, 400
	}
	s.Scatter(enemies[0], epoch)

	now := epoch
	for tick := 0; tick < 240; tick++ {
		now = now.Add(16 * time.Millisecond)
		s.Update(now, nil, nil)
		for _, e := range enemies[1:] {
			if e.State == Scattering {
				assert.GreaterOrEqual(t, e.X, 50.0)
				assert.LessOrEqual(t, e.X, 1150.0)
				assert.GreaterOrEqual(t, e.Y, 50.0)
				assert.LessOrEqual(t, e.Y, 750.0)
			}
		}
	}
	// Scatter lasts at most 4s; after that enemies return at 3x speed.
	for tick := 0; tick < 2000; tick++ {
		now = now.Add(16 * time.Millisecond)
		s.Update(now, nil, nil)
	}
	for _, e := range enemies {
		assert.Equal(t, Formation, e.State, "enemy %d", e.FormationIndex)
	}
}

func TestReturnWithoutLeaderReforms(t *testing.T) {
	s := newTestSwarm(nil)
	e := s.Spawn(1, epoch)
	e.Leader = false
	e.State = Returning

	s.Update(epoch, nil, nil)
	assert.Equal(t, Formation, e.State)
}

func TestCull(t *testing.T) {
	s := newTestSwarm(nil)
	enemies := spawnN(s, 3, 1)
	enemies[0].X = -51

	assert.Equal(t, 1, s.Cull())
	assert.Equal(t, 2, s.Len())
	assert.Same(t, enemies[1], s.Leader())
}

func TestTransit(t *testing.T) {
	e := &Enemy{X: 100, Y: 100}
	e.BeginTransit(500, 300)
	e.StepTransit(0.5)
	assert.Equal(t, 300.0, e.X)
	assert.Equal(t, 200.0, e.Y)
	e.StepTransit(2)
	assert.Equal(t, 500.0, e.X)

	e.EndTransit()
	assert.False(t, e.Transit.Active)
	e.StepTransit(0)
	assert.Equal(t, 500.0, e.X)
}

func TestTakeDamage(t *testing.T) {
	e := &Enemy{Health: 2, MaxHealth: 2}
	assert.False(t, e.TakeDamage())
	assert.InDelta(t, 0.5, e.HealthFraction(), 1e-9)
	assert.True(t, e.TakeDamage())
}
