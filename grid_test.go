package main

import "testing"

func TestGenerateArenaDimensions(t *testing.T) {
	a := GenerateArena(ArenaWidth, ArenaHeight)
	if a.Width != 15 || a.Height != 13 {
		t.Fatalf("expected 15x13 arena, got %dx%d", a.Width, a.Height)
	}
	if len(a.Cells) != 13 {
		t.Fatalf("expected 13 rows, got %d", len(a.Cells))
	}
	for y, row := range a.Cells {
		if len(row) != 15 {
			t.Fatalf("row %d: expected 15 cells, got %d", y, len(row))
		}
	}
}

func TestGenerateArenaBorderWalls(t *testing.T) {
	a := GenerateArena(ArenaWidth, ArenaHeight)
	for y := 0; y < a.Height; y++ {
		for x := 0; x < a.Width; x++ {
			onBorder := x == 0 || x == a.Width-1 || y == 0 || y == a.Height-1
			if onBorder && a.At(x, y).Kind != CellWall {
				t.Errorf("border cell (%d,%d) is %s, want wall", x, y, a.At(x, y).Kind)
			}
			if !onBorder && a.At(x, y).Kind == CellWall {
				t.Errorf("interior cell (%d,%d) is a wall", x, y)
			}
		}
	}
}

func TestGenerateArenaSpawnZonesClear(t *testing.T) {
	a := GenerateArena(ArenaWidth, ArenaHeight)
	zones := [][2][2]int{
		{{1, 1}, {3, 3}},
		{{a.Width - 4, 1}, {a.Width - 2, 3}},
		{{1, a.Height - 4}, {3, a.Height - 2}},
		{{a.Width - 4, a.Height - 4}, {a.Width - 2, a.Height - 2}},
	}
	for _, z := range zones {
		for y := z[0][1]; y <= z[1][1]; y++ {
			for x := z[0][0]; x <= z[1][0]; x++ {
				kind := a.At(x, y).Kind
				if kind == CellWall || kind == CellBlock {
					t.Errorf("spawn zone cell (%d,%d) is %s", x, y, kind)
				}
			}
		}
	}
}

func TestGenerateArenaSpawnCornersFree(t *testing.T) {
	a := GenerateArena(ArenaWidth, ArenaHeight)
	for _, pos := range spawnCorners {
		kind := a.At(pos.X, pos.Y).Kind
		if kind != CellEmpty {
			t.Errorf("spawn corner (%d,%d) is %s, want empty", pos.X, pos.Y, kind)
		}
	}
}

func TestGenerateArenaBlockDensity(t *testing.T) {
	// Over many generations the free-interior block ratio should sit
	// near 70%. Wide tolerance keeps the test deterministic enough.
	blocks, candidates := 0, 0
	for i := 0; i < 50; i++ {
		a := GenerateArena(ArenaWidth, ArenaHeight)
		for y := 1; y < a.Height-1; y++ {
			for x := 1; x < a.Width-1; x++ {
				if inSpawnZone(x, y, a.Width, a.Height) {
					continue
				}
				candidates++
				if a.At(x, y).Kind == CellBlock {
					blocks++
				}
			}
		}
	}
	ratio := float64(blocks) / float64(candidates)
	if ratio < 0.6 || ratio > 0.8 {
		t.Errorf("block density %.3f outside [0.6, 0.8]", ratio)
	}
}

func TestArenaSnapshotIsDeepCopy(t *testing.T) {
	a := GenerateArena(ArenaWidth, ArenaHeight)
	snap := a.Snapshot()
	a.Set(5, 5, Cell{Kind: CellPowerup, Power: PowerFlame})
	if snap[5][5].Kind == CellPowerup {
		t.Error("snapshot shares storage with the arena")
	}
}

func TestArenaSnapshotNil(t *testing.T) {
	var a *Arena
	if a.Snapshot() != nil {
		t.Error("nil arena snapshot should be nil")
	}
}

func TestArenaInBounds(t *testing.T) {
	a := GenerateArena(ArenaWidth, ArenaHeight)
	tests := []struct {
		x, y int
		want bool
	}{
		{0, 0, true},
		{14, 12, true},
		{-1, 0, false},
		{0, -1, false},
		{15, 0, false},
		{0, 13, false},
	}
	for _, tt := range tests {
		if got := a.InBounds(tt.x, tt.y); got != tt.want {
			t.Errorf("InBounds(%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}
