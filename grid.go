package main

import "math/rand"

const (
	ArenaWidth  = 15
	ArenaHeight = 13

	blockDensity  = 0.7 // chance a free interior cell starts as a block
	spawnZoneSize = 3   // cleared square at each corner
)

// CellKind is the wire-visible cell classification.
type CellKind string

const (
	CellWall    CellKind = "wall"
	CellBlock   CellKind = "block"
	CellEmpty   CellKind = "empty"
	CellPowerup CellKind = "powerup"
)

// Cell is one arena tile.
type Cell struct {
	Kind         CellKind  `json:"type"`
	Power        PowerKind `json:"power,omitempty"`
	Destructible bool      `json:"destructible,omitempty"`
}

// Position is a grid coordinate.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Arena is the fixed-size cell matrix for one match. It is created when
// the countdown begins and mutated only by explosions.
type Arena struct {
	Width  int
	Height int
	Cells  [][]Cell // indexed [y][x]
}

// GenerateArena builds a fresh arena: indestructible border walls,
// cleared 3x3 spawn zones at the four corners, and destructible blocks
// scattered over the remaining interior.
func GenerateArena(width, height int) *Arena {
	a := &Arena{
		Width:  width,
		Height: height,
		Cells:  make([][]Cell, height),
	}
	for y := 0; y < height; y++ {
		a.Cells[y] = make([]Cell, width)
		for x := 0; x < width; x++ {
			switch {
			case x == 0 || x == width-1 || y == 0 || y == height-1:
				a.Cells[y][x] = Cell{Kind: CellWall}
			case inSpawnZone(x, y, width, height):
				a.Cells[y][x] = Cell{Kind: CellEmpty}
			case rand.Float64() < blockDensity:
				a.Cells[y][x] = Cell{Kind: CellBlock, Destructible: true}
			default:
				a.Cells[y][x] = Cell{Kind: CellEmpty}
			}
		}
	}
	return a
}

// inSpawnZone reports whether the interior cell (x, y) lies in one of
// the four 3x3 corner clearings that guarantee a playable spawn.
func inSpawnZone(x, y, width, height int) bool {
	left := x >= 1 && x <= spawnZoneSize
	right := x >= width-1-spawnZoneSize && x <= width-2
	top := y >= 1 && y <= spawnZoneSize
	bottom := y >= height-1-spawnZoneSize && y <= height-2
	return (left || right) && (top || bottom)
}

// InBounds reports whether (x, y) is inside the arena.
func (a *Arena) InBounds(x, y int) bool {
	return x >= 0 && x < a.Width && y >= 0 && y < a.Height
}

// At returns the cell at (x, y). Callers must check bounds first.
func (a *Arena) At(x, y int) Cell {
	return a.Cells[y][x]
}

// Set replaces the cell at (x, y).
func (a *Arena) Set(x, y int, c Cell) {
	a.Cells[y][x] = c
}

// Snapshot returns a deep copy of the cell matrix safe to hand to the
// encoder outside the room lock.
func (a *Arena) Snapshot() [][]Cell {
	if a == nil {
		return nil
	}
	out := make([][]Cell, a.Height)
	for y := range a.Cells {
		row := make([]Cell, a.Width)
		copy(row, a.Cells[y])
		out[y] = row
	}
	return out
}
