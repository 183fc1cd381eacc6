package main

import "time"

// moveDeltas maps a direction name to its grid offset. Unknown
// directions are ignored silently.
var moveDeltas = map[string]Position{
	DirUp:    {X: 0, Y: -1},
	DirDown:  {X: 0, Y: 1},
	DirLeft:  {X: -1, Y: 0},
	DirRight: {X: 1, Y: 0},
}

// MovePlayer validates and applies a one-cell move. Speed never changes
// the step size, only how often requests are accepted: the server
// enforces a per-player minimum interval scaled by the speed stat.
// Invalid moves are dropped without a reply.
func (r *Room) MovePlayer(playerID, direction string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.status != StatusPlaying {
		return
	}
	p, ok := r.players[playerID]
	if !ok || p.Eliminated || p.MovementLocked {
		return
	}
	delta, ok := moveDeltas[direction]
	if !ok {
		return
	}

	now := time.Now()
	if now.Sub(p.lastMoveAt) < p.moveInterval() {
		return
	}

	cand := Position{X: p.Pos.X + delta.X, Y: p.Pos.Y + delta.Y}
	// The border is Wall everywhere, so interior bounds double as the
	// never-leave-the-arena guard.
	if cand.X < 1 || cand.X > r.arena.Width-2 || cand.Y < 1 || cand.Y > r.arena.Height-2 {
		return
	}

	cell := r.arena.At(cand.X, cand.Y)
	if cell.Kind == CellWall || cell.Kind == CellBlock {
		return
	}
	for _, other := range r.players {
		if other.ID != p.ID && !other.Eliminated && other.Pos == cand {
			return
		}
	}

	// Stepping into a live blast hurts instead of moving.
	if r.hazardAtLocked(cand) {
		r.damagePlayerLocked(p)
		r.checkGameEndLocked()
		return
	}

	if cell.Kind == CellPowerup {
		r.collectPowerupLocked(p, cand, cell.Power)
	}

	p.lastMoveAt = now
	p.Pos = cand
	if direction == DirLeft || direction == DirRight {
		p.Direction = direction
	}
	r.broadcastLocked(PlayerMovedMsg{
		Type:      MsgPlayerMoved,
		PlayerID:  p.ID,
		Position:  p.Pos,
		Direction: p.Direction,
	}, "")
}

// collectPowerupLocked applies a pickup. A capped kind leaves the cell
// in place and still reports the attempt so clients can show feedback.
func (r *Room) collectPowerupLocked(p *Player, pos Position, kind PowerKind) {
	if p.Powerups.Collect(kind) {
		r.arena.Set(pos.X, pos.Y, Cell{Kind: CellEmpty})
		r.broadcastLocked(PowerupCollectedMsg{
			Type:      MsgPowerupCollected,
			PlayerID:  p.ID,
			Position:  pos,
			PowerType: kind,
			Stats:     p.Stats(),
		}, "")
		return
	}
	r.broadcastLocked(PowerupCollectedMsg{
		Type:      MsgPowerupLimitReached,
		PlayerID:  p.ID,
		Position:  pos,
		PowerType: kind,
		Stats:     p.Stats(),
	}, "")
}

// unlockMovement clears a movement lock if the player still exists and
// the lock generation matches (a newer hit supersedes the old timer).
func (r *Room) unlockMovement(playerID string, gen int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.players[playerID]
	if !ok || !p.MovementLocked || p.lockGen != gen {
		return
	}
	p.MovementLocked = false
	r.broadcastLocked(PlayerBlockedMsg{Type: MsgPlayerUnblocked, PlayerID: p.ID}, "")
}
