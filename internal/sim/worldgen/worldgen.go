// Package worldgen produces the immutable base tile grids: the seeded
// overworld and the fixed interior layouts.
package worldgen

import (
	"sprout.farm/internal/sim/mathx"
	"sprout.farm/internal/sim/noise"
	"sprout.farm/internal/sim/tilemap"
)

type Config struct {
	Width  int
	Height int
	Seed   int64

	SpawnClearRadius int

	// Building anchors are fixed, not procedural: buildings must stay
	// reachable and consistent across saves.
	Buildings []BuildingSpec
}

type BuildingSpec struct {
	Kind string // "house", "shop"
	X, Y int
	W, H int
}

// Structure is a stamped building footprint.
type Structure struct {
	Kind string
	X, Y int
	W, H int
}

type World struct {
	Grid       *tilemap.Grid
	Structures []Structure
	Spawn      tilemap.Coord
}

// DefaultBuildings places the mandatory structures relative to the map
// size: house upper-left quadrant, shop upper-right.
func DefaultBuildings(width, height int) []BuildingSpec {
	return []BuildingSpec{
		{Kind: "house", X: width/4 - 3, Y: height/5 - 2, W: 6, H: 4},
		{Kind: "shop", X: (3*width)/4 - 3, Y: height/5 - 2, W: 6, H: 4},
	}
}

// Scatter permille bands, checked in order: first matching band wins.
const (
	treeBand    = 140
	stoneBand   = treeBand + 60
	oreBand     = stoneBand + 25
	boulderBand = oreBand + 15
)

// Generate builds the overworld in a single pass: base fill, building
// stamps, noise-driven scatter, spawn clearing. It is total: no search,
// no backtracking, always terminates.
func Generate(cfg Config) World {
	grid := tilemap.NewGrid(cfg.Width, cfg.Height, tilemap.Grass)

	buildings := cfg.Buildings
	if buildings == nil {
		buildings = DefaultBuildings(cfg.Width, cfg.Height)
	}
	structures := stampBuildings(grid, buildings)

	spawn := tilemap.Coord{X: cfg.Width / 2, Y: cfg.Height / 2}

	nf := noise.New(cfg.Seed)
	scatter(grid, nf, cfg.Seed, structures)
	clearSpawnDisk(grid, spawn, cfg.SpawnClearRadius)

	return World{Grid: grid, Structures: structures, Spawn: spawn}
}

func stampBuildings(grid *tilemap.Grid, specs []BuildingSpec) []Structure {
	var placed []Structure
	for _, b := range specs {
		// Footprints need one tile of clearance from the map edge.
		if b.X < 1 || b.Y < 1 || b.X+b.W > grid.Width-1 || b.Y+b.H > grid.Height-1 {
			continue
		}
		if overlapsAny(b, placed) {
			continue
		}

		wall, door := tilemap.HouseWall, tilemap.HouseDoor
		if b.Kind == "shop" {
			wall, door = tilemap.ShopWall, tilemap.ShopDoor
		}
		for y := b.Y; y < b.Y+b.H; y++ {
			for x := b.X; x < b.X+b.W; x++ {
				grid.Set(tilemap.Coord{X: x, Y: y}, wall)
			}
		}
		// Door at bottom-center so the entrance faces open ground.
		grid.Set(tilemap.Coord{X: b.X + b.W/2, Y: b.Y + b.H - 1}, door)

		placed = append(placed, Structure{Kind: b.Kind, X: b.X, Y: b.Y, W: b.W, H: b.H})
	}
	return placed
}

func overlapsAny(b BuildingSpec, placed []Structure) bool {
	for _, p := range placed {
		if b.X < p.X+p.W && p.X < b.X+b.W && b.Y < p.Y+p.H && p.Y < b.Y+b.H {
			return true
		}
	}
	return false
}

// scatter writes solid terrain onto tiles not already claimed by an
// earlier step. The noise field gates density; a per-tile hash roll
// picks the sub-type through cumulative permille bands.
func scatter(grid *tilemap.Grid, nf *noise.Field, seed int64, structures []Structure) {
	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width; x++ {
			c := tilemap.Coord{X: x, Y: y}
			if grid.At(c) != tilemap.Grass {
				continue
			}
			if nearStructure(x, y, structures, 1) {
				continue
			}

			density := (nf.Sample(float64(x)/11.0, float64(y)/11.0) + 1) / 2
			if density < 0.42 {
				continue
			}
			roll := mathx.Hash2(seed+999, x, y) % 1000
			switch {
			case roll < treeBand:
				grid.Set(c, tilemap.Tree)
			case roll < stoneBand:
				grid.Set(c, tilemap.Stone)
			case roll < oreBand:
				grid.Set(c, tilemap.Ore)
			case roll < boulderBand:
				grid.Set(c, tilemap.Boulder)
			}
		}
	}
}

func nearStructure(x, y int, structures []Structure, pad int) bool {
	for _, s := range structures {
		if x >= s.X-pad && x < s.X+s.W+pad && y >= s.Y-pad && y < s.Y+s.H+pad {
			return true
		}
	}
	return false
}

// clearSpawnDisk removes solid scatter from a disk around the spawn so
// the player never starts boxed in.
func clearSpawnDisk(grid *tilemap.Grid, spawn tilemap.Coord, radius int) {
	if radius <= 0 {
		return
	}
	for y := spawn.Y - radius; y <= spawn.Y+radius; y++ {
		for x := spawn.X - radius; x <= spawn.X+radius; x++ {
			c := tilemap.Coord{X: x, Y: y}
			if !grid.InBounds(c) {
				continue
			}
			dx, dy := x-spawn.X, y-spawn.Y
			if dx*dx+dy*dy > radius*radius {
				continue
			}
			if tilemap.SolidScatter(grid.At(c)) {
				grid.Set(c, tilemap.Grass)
			}
		}
	}
}
