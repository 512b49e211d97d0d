package worldgen

import "sprout.farm/internal/sim/tilemap"

// Interior layouts are fully fixed: same grid every time, no seed input.
// Each generator fills a small floor rectangle, walls the border, and
// places furnishings at designated offsets.

const (
	houseW, houseH   = 10, 8
	shopW, shopH     = 12, 8
	cellarW, cellarH = 8, 6
)

type furnishing struct {
	x, y int
	t    tilemap.Tile
}

func GenerateHouseInterior() *tilemap.Grid {
	return interior(houseW, houseH, []furnishing{
		{1, 1, tilemap.Bed},
		{houseW - 3, 1, tilemap.Stove},
		{houseW - 2, 1, tilemap.Chest},
		{houseW / 2, houseH / 2, tilemap.Rug},
	})
}

func GenerateShopInterior() *tilemap.Grid {
	return interior(shopW, shopH, []furnishing{
		{2, 2, tilemap.Counter},
		{3, 2, tilemap.Counter},
		{4, 2, tilemap.Counter},
		{shopW - 2, 1, tilemap.Chest},
	})
}

func GenerateCellarInterior() *tilemap.Grid {
	return interior(cellarW, cellarH, []furnishing{
		{1, 1, tilemap.Chest},
		{cellarW - 2, 1, tilemap.Chest},
	})
}

// InteriorEntry is the tile an avatar stands on after entering: just
// inside the door on the bottom wall.
func InteriorEntry(g *tilemap.Grid) tilemap.Coord {
	return tilemap.Coord{X: g.Width / 2, Y: g.Height - 2}
}

func interior(w, h int, fs []furnishing) *tilemap.Grid {
	g := tilemap.NewGrid(w, h, tilemap.Floor)
	for x := 0; x < w; x++ {
		g.Set(tilemap.Coord{X: x, Y: 0}, tilemap.InteriorWall)
		g.Set(tilemap.Coord{X: x, Y: h - 1}, tilemap.InteriorWall)
	}
	for y := 0; y < h; y++ {
		g.Set(tilemap.Coord{X: 0, Y: y}, tilemap.InteriorWall)
		g.Set(tilemap.Coord{X: w - 1, Y: y}, tilemap.InteriorWall)
	}
	g.Set(tilemap.Coord{X: w / 2, Y: h - 1}, tilemap.Door)
	for _, f := range fs {
		g.Set(tilemap.Coord{X: f.x, Y: f.y}, f.t)
	}
	return g
}
