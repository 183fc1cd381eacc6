package main

import "math/rand"

const (
	powerupSpawnChance = 0.3 // per destroyed block
	powerupKindCap     = 3   // max charges collected per kind

	baseBombCapacity = 1
	maxBombCapacity  = 3
	baseFlameRange   = 1
	maxFlameRange    = 3
	baseSpeed        = 1.0
	speedStep        = 0.5
)

// PowerKind identifies a power-up variety.
type PowerKind string

const (
	PowerBomb  PowerKind = "bomb"
	PowerFlame PowerKind = "flame"
	PowerSpeed PowerKind = "speed"
)

var powerKinds = [...]PowerKind{PowerBomb, PowerFlame, PowerSpeed}

func randomPowerKind() PowerKind {
	return powerKinds[rand.Intn(len(powerKinds))]
}

// rollPowerupSpawn decides whether a destroyed block leaves a power-up
// behind and of which kind.
func rollPowerupSpawn() (PowerKind, bool) {
	if rand.Float64() >= powerupSpawnChance {
		return "", false
	}
	return randomPowerKind(), true
}

// PowerupCounts tracks collected charges per kind. The derived stats are
// always recomputed from these counts, never stored separately.
type PowerupCounts struct {
	Bomb  int `json:"bomb"`
	Flame int `json:"flame"`
	Speed int `json:"speed"`
}

// Collect adds one charge of the given kind. It returns false when the
// kind is already at its cap, in which case nothing changes.
func (pc *PowerupCounts) Collect(kind PowerKind) bool {
	switch kind {
	case PowerBomb:
		if pc.Bomb >= powerupKindCap {
			return false
		}
		pc.Bomb++
	case PowerFlame:
		if pc.Flame >= powerupKindCap {
			return false
		}
		pc.Flame++
	case PowerSpeed:
		if pc.Speed >= powerupKindCap {
			return false
		}
		pc.Speed++
	default:
		return false
	}
	return true
}

// MaxBombs is the number of bombs the player may have armed at once.
func (p *Player) MaxBombs() int {
	return min(baseBombCapacity+p.Powerups.Bomb, maxBombCapacity)
}

// FlameRange is the blast radius of the player's bombs, in cells.
func (p *Player) FlameRange() int {
	return min(baseFlameRange+p.Powerups.Flame, maxFlameRange)
}

// Speed is the move-rate multiplier.
func (p *Player) Speed() float64 {
	return baseSpeed + speedStep*float64(p.Powerups.Speed)
}

// Stats builds the HUD payload broadcast with power-up events.
func (p *Player) Stats() PlayerStats {
	return PlayerStats{
		Bombs:      p.MaxBombs(),
		FlameRange: p.FlameRange(),
		Speed:      p.Speed(),
		Powerups:   p.Powerups,
	}
}
