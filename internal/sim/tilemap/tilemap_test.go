package tilemap

import "testing"

func TestWalkable(t *testing.T) {
	walkable := []Tile{Grass, Soil, TilledSoil, WitheredDebris, HouseDoor, ShopDoor, Floor, Door, Rug}
	for _, tile := range walkable {
		if !Walkable(tile) {
			t.Fatalf("tile %d should be walkable", tile)
		}
	}
	blocked := []Tile{Tree, Stone, Ore, Boulder, Water, HouseWall, ShopWall, Fence, InteriorWall, Bed, Stove, Counter, Chest}
	for _, tile := range blocked {
		if Walkable(tile) {
			t.Fatalf("tile %d should block", tile)
		}
	}
}

func TestResourceFor(t *testing.T) {
	cases := map[Tile]string{Tree: "TREE", Stone: "STONE", Ore: "ORE", Boulder: "BOULDER"}
	for tile, want := range cases {
		got, ok := ResourceFor(tile)
		if !ok || got != want {
			t.Fatalf("ResourceFor(%d) = %q, %v", tile, got, ok)
		}
	}
	if _, ok := ResourceFor(Grass); ok {
		t.Fatalf("grass is not a resource")
	}
}

func TestGreedyStep(t *testing.T) {
	g := NewGrid(8, 8, Grass)

	// Larger delta axis moves first.
	got := GreedyStep(g, Coord{X: 1, Y: 1}, Coord{X: 6, Y: 2})
	if got != (Coord{X: 2, Y: 1}) {
		t.Fatalf("step = %v, want x-first", got)
	}
	got = GreedyStep(g, Coord{X: 1, Y: 1}, Coord{X: 2, Y: 6})
	if got != (Coord{X: 1, Y: 2}) {
		t.Fatalf("step = %v, want y-first", got)
	}

	// Blocked preferred axis falls back to the other.
	g.Set(Coord{X: 2, Y: 1}, Stone)
	got = GreedyStep(g, Coord{X: 1, Y: 1}, Coord{X: 6, Y: 2})
	if got != (Coord{X: 1, Y: 2}) {
		t.Fatalf("step = %v, want fallback to y", got)
	}

	// Both axes blocked: stay put.
	g.Set(Coord{X: 1, Y: 2}, Stone)
	got = GreedyStep(g, Coord{X: 1, Y: 1}, Coord{X: 6, Y: 2})
	if got != (Coord{X: 1, Y: 1}) {
		t.Fatalf("step = %v, want no movement", got)
	}

	// Arrived.
	if got := GreedyStep(g, Coord{X: 3, Y: 3}, Coord{X: 3, Y: 3}); got != (Coord{X: 3, Y: 3}) {
		t.Fatalf("step = %v at target", got)
	}

	// Grid edges never step out of bounds.
	if got := GreedyStep(g, Coord{X: 0, Y: 0}, Coord{X: -5, Y: 0}); got != (Coord{X: 0, Y: 0}) {
		t.Fatalf("step = %v, want clamped at edge", got)
	}
}

func TestGridClone(t *testing.T) {
	g := NewGrid(4, 4, Grass)
	g.Set(Coord{X: 2, Y: 2}, Tree)

	c := g.Clone()
	c.Set(Coord{X: 2, Y: 2}, Grass)
	if g.At(Coord{X: 2, Y: 2}) != Tree {
		t.Fatalf("clone aliased the source tiles")
	}
}
