package main

import "time"

// Fuse and hazard durations are vars so tests can shrink them.
var (
	bombFuse       = 2000 * time.Millisecond
	hazardLifetime = time.Second
)

// Bomb is an armed charge. Its position and range are snapshotted at
// placement: the bomb stays put if the owner moves, and it detonates on
// schedule even if the owner has left the room.
type Bomb struct {
	ID       string
	OwnerID  string
	Pos      Position
	Range    int
	PlacedAt time.Time
}

// Explosion is the post-detonation hazard: its cells stay lethal for a
// short window so a player cannot safely walk into a just-cleared blast.
type Explosion struct {
	ID        string
	Cells     []Position
	CreatedAt time.Time
}

// PlaceBomb arms a bomb at the player's cell if they have capacity
// left. The fuse timer carries ids only and re-resolves the room when
// it fires, so a torn-down room makes it a no-op.
func (r *Room) PlaceBomb(playerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.status != StatusPlaying {
		return
	}
	p, ok := r.players[playerID]
	if !ok || p.Eliminated {
		return
	}
	if p.ActiveBombs >= p.MaxBombs() {
		return
	}

	p.ActiveBombs++
	b := &Bomb{
		ID:       GenerateID(4),
		OwnerID:  p.ID,
		Pos:      p.Pos,
		Range:    p.FlameRange(),
		PlacedAt: time.Now(),
	}
	r.bombs[b.ID] = b
	r.broadcastLocked(BombPlacedMsg{Type: MsgBombPlaced, PlayerID: p.ID, Position: b.Pos}, "")

	registry, roomID, bombID := r.registry, r.ID, b.ID
	time.AfterFunc(bombFuse, func() {
		if room := registry.Get(roomID); room != nil {
			room.detonate(bombID)
		}
	})
}

// detonate resolves one bomb: blast propagation, terrain destruction,
// damage, win check, and the hazard window.
func (r *Room) detonate(bombID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bombs[bombID]
	if !ok {
		return
	}
	delete(r.bombs, bombID)
	if r.status != StatusPlaying {
		return
	}

	affected := r.blastCellsLocked(b.Pos, b.Range)
	r.broadcastLocked(ExplosionMsg{Type: MsgExplosion, Position: b.Pos, AffectedCells: affected}, "")

	hit := make(map[Position]bool, len(affected))
	for _, c := range affected {
		hit[c] = true
	}
	for _, p := range r.players {
		if !p.Eliminated && hit[p.Pos] {
			r.damagePlayerLocked(p)
		}
	}
	r.checkGameEndLocked()

	r.broadcastLocked(BombRemovedMsg{Type: MsgBombRemoved, Position: b.Pos}, "")
	if owner, ok := r.players[b.OwnerID]; ok && owner.ActiveBombs > 0 {
		owner.ActiveBombs--
	}

	if r.status == StatusPlaying {
		r.armHazardLocked(affected)
	}
}

// blastCellsLocked walks the five blast rays and returns every affected
// cell, destroying blocks (and possibly spawning power-ups) as it goes.
// Walls stop a ray without being included; a block is included,
// destroyed, and absorbs the rest of its ray.
func (r *Room) blastCellsLocked(center Position, flameRange int) []Position {
	affected := []Position{center}

	dirs := [...]Position{{X: 1, Y: 0}, {X: -1, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: -1}}
	for _, d := range dirs {
		for i := 1; i <= flameRange; i++ {
			x := center.X + d.X*i
			y := center.Y + d.Y*i
			if !r.arena.InBounds(x, y) {
				break
			}
			cell := r.arena.At(x, y)
			if cell.Kind == CellWall {
				break
			}
			affected = append(affected, Position{X: x, Y: y})
			if cell.Kind == CellBlock {
				r.destroyBlockLocked(x, y)
				break
			}
		}
	}
	return affected
}

func (r *Room) destroyBlockLocked(x, y int) {
	if kind, ok := rollPowerupSpawn(); ok {
		r.arena.Set(x, y, Cell{Kind: CellPowerup, Power: kind})
		r.broadcastLocked(PowerupSpawnedMsg{
			Type:     MsgPowerupSpawned,
			Position: Position{X: x, Y: y},
			Power:    kind,
		}, "")
		return
	}
	r.arena.Set(x, y, Cell{Kind: CellEmpty})
}

// damagePlayerLocked applies the damage procedure: lose a life, then
// either eliminate or respawn at the original corner behind a short
// movement lock.
func (r *Room) damagePlayerLocked(p *Player) {
	if p.TakeHit() {
		r.broadcastLocked(PlayerEliminatedMsg{Type: MsgPlayerEliminated, PlayerID: p.ID, Nickname: p.Nickname}, "")
		if r.analytics != nil {
			r.analytics.Track(EvtElimination, r.ID, p.Nickname, nil)
		}
		return
	}

	r.broadcastLocked(PlayerDamagedMsg{Type: MsgPlayerDamaged, PlayerID: p.ID, Lives: p.Lives, Nickname: p.Nickname}, "")

	gen := p.RespawnAtCorner()
	r.broadcastLocked(PlayerMovedMsg{Type: MsgPlayerMoved, PlayerID: p.ID, Position: p.Pos, Direction: p.Direction}, "")
	r.broadcastLocked(PlayerBlockedMsg{
		Type:     MsgPlayerBlocked,
		PlayerID: p.ID,
		Duration: movementLockDuration.Seconds(),
	}, "")

	registry, roomID, playerID := r.registry, r.ID, p.ID
	time.AfterFunc(movementLockDuration, func() {
		if room := registry.Get(roomID); room != nil {
			room.unlockMovement(playerID, gen)
		}
	})
}

// ---- hazard window ----

func (r *Room) armHazardLocked(cells []Position) {
	h := &Explosion{
		ID:        GenerateID(4),
		Cells:     cells,
		CreatedAt: time.Now(),
	}
	r.hazards[h.ID] = h

	registry, roomID, hazardID := r.registry, r.ID, h.ID
	time.AfterFunc(hazardLifetime, func() {
		if room := registry.Get(roomID); room != nil {
			room.expireHazard(hazardID)
		}
	})
}

func (r *Room) expireHazard(hazardID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.hazards, hazardID)
}

func (r *Room) hazardAtLocked(pos Position) bool {
	for _, h := range r.hazards {
		for _, c := range h.Cells {
			if c == pos {
				return true
			}
		}
	}
	return false
}
