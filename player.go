package main

import "time"

const (
	StartingLives = 3

	DirLeft  = "left"
	DirRight = "right"
	DirUp    = "up"
	DirDown  = "down"
)

// Durations are vars so tests can shrink them.
var (
	movementLockDuration = 1500 * time.Millisecond
	moveBaseInterval     = 180 * time.Millisecond
)

// spawnCorners lists the four spawn positions in join order.
var spawnCorners = [...]Position{
	{X: 1, Y: 1},
	{X: 13, Y: 1},
	{X: 1, Y: 11},
	{X: 13, Y: 11},
}

// Player is the server-side record for one roster member. It is owned
// exclusively by its Room and mutated only under the room lock.
type Player struct {
	ID          string
	Nickname    string
	JoinedAt    time.Time
	Lives       int
	Pos         Position
	Direction   string // left or right; the only two sprite facings
	Powerups    PowerupCounts
	ActiveBombs int
	Eliminated  bool

	// MovementLocked is the post-damage grace period; lockGen guards
	// the unlock timer against stale firings.
	MovementLocked bool
	lockGen        int

	spawnIndex int
	lastMoveAt time.Time
}

// NewPlayer creates a roster entry at the spawn corner for the given
// join index. Right-side spawns face left.
func NewPlayer(id, nickname string, spawnIndex int) *Player {
	spawnIndex %= len(spawnCorners)
	pos := spawnCorners[spawnIndex]
	dir := DirRight
	if pos.X > ArenaWidth/2 {
		dir = DirLeft
	}
	return &Player{
		ID:         id,
		Nickname:   nickname,
		JoinedAt:   time.Now(),
		Lives:      StartingLives,
		Pos:        pos,
		Direction:  dir,
		spawnIndex: spawnIndex,
	}
}

// SpawnPosition is the player's original corner, used for respawns.
func (p *Player) SpawnPosition() Position {
	return spawnCorners[p.spawnIndex]
}

// TakeHit decrements lives and reports whether the player was
// eliminated by it.
func (p *Player) TakeHit() bool {
	if p.Eliminated {
		return false
	}
	p.Lives--
	if p.Lives <= 0 {
		p.Lives = 0
		p.Eliminated = true
		return true
	}
	return false
}

// RespawnAtCorner moves the surviving player back to their spawn and
// starts the movement lock. Returns the new lock generation.
func (p *Player) RespawnAtCorner() int {
	p.Pos = p.SpawnPosition()
	p.MovementLocked = true
	p.lockGen++
	return p.lockGen
}

// moveInterval is the minimum delay between accepted move requests,
// scaled down as the speed stat grows.
func (p *Player) moveInterval() time.Duration {
	return time.Duration(float64(moveBaseInterval) / p.Speed())
}

// Info builds the client-safe snapshot of the player. The connection
// handle never appears here.
func (p *Player) Info() PlayerInfo {
	return PlayerInfo{
		ID:         p.ID,
		Nickname:   p.Nickname,
		JoinedAt:   p.JoinedAt.UnixMilli(),
		Lives:      p.Lives,
		Position:   p.Pos,
		Bombs:      p.MaxBombs(),
		FlameRange: p.FlameRange(),
		Speed:      p.Speed(),
		Direction:  p.Direction,
		Eliminated: p.Eliminated,
	}
}

// Summary builds the reduced roster view for game_ended.
func (p *Player) Summary() PlayerSummary {
	return PlayerSummary{
		ID:         p.ID,
		Nickname:   p.Nickname,
		Lives:      p.Lives,
		Eliminated: p.Eliminated,
	}
}
