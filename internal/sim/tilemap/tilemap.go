// Package tilemap defines the tile grids and coordinate types shared by
// the generator, scene registry and tile-state store.
package tilemap

import "fmt"

// Tile is a tile-type code. Overworld codes live in 0..99 and interior
// codes in 100..199; the two ranges must never be cross-interpreted.
type Tile uint16

// Overworld tile codes.
const (
	Grass Tile = iota
	Soil
	TilledSoil
	WitheredDebris
	Tree
	Stone
	Ore
	Boulder
	Water
	HouseWall
	HouseDoor
	ShopWall
	ShopDoor
	Fence
)

// Interior tile codes.
const (
	Floor Tile = 100 + iota
	InteriorWall
	Door
	Bed
	Stove
	Counter
	Chest
	Rug
)

// Coord addresses one tile. Dynamic overlays (crops, durability) are
// sparse maps keyed by Coord.
type Coord struct {
	X int
	Y int
}

func (c Coord) String() string { return fmt.Sprintf("%d,%d", c.X, c.Y) }

// Grid is a fixed-size rectangle of tile codes. Dimensions never change
// after creation.
type Grid struct {
	Width  int
	Height int
	Tiles  []Tile // row-major, len = Width*Height
}

func NewGrid(width, height int, fill Tile) *Grid {
	g := &Grid{Width: width, Height: height, Tiles: make([]Tile, width*height)}
	if fill != 0 {
		for i := range g.Tiles {
			g.Tiles[i] = fill
		}
	}
	return g
}

func (g *Grid) InBounds(c Coord) bool {
	return c.X >= 0 && c.X < g.Width && c.Y >= 0 && c.Y < g.Height
}

// At panics on out-of-bounds; callers gate through InBounds.
func (g *Grid) At(c Coord) Tile {
	return g.Tiles[c.Y*g.Width+c.X]
}

func (g *Grid) Set(c Coord, t Tile) {
	g.Tiles[c.Y*g.Width+c.X] = t
}

// Clone deep-copies the grid (used by the save codec).
func (g *Grid) Clone() *Grid {
	out := &Grid{Width: g.Width, Height: g.Height, Tiles: make([]Tile, len(g.Tiles))}
	copy(out.Tiles, g.Tiles)
	return out
}

// Walkable reports whether an avatar can stand on the tile.
func Walkable(t Tile) bool {
	switch t {
	case Grass, Soil, TilledSoil, WitheredDebris, HouseDoor, ShopDoor,
		Floor, Door, Rug:
		return true
	default:
		return false
	}
}

// SolidScatter reports whether the tile is a strikeable scatter type
// placed by worldgen (cleared from the spawn disk).
func SolidScatter(t Tile) bool {
	switch t {
	case Tree, Stone, Ore, Boulder:
		return true
	default:
		return false
	}
}

// ResourceFor maps a scatter tile to its resource catalog id.
func ResourceFor(t Tile) (string, bool) {
	switch t {
	case Tree:
		return "TREE", true
	case Stone:
		return "STONE", true
	case Ore:
		return "ORE", true
	case Boulder:
		return "BOULDER", true
	default:
		return "", false
	}
}
