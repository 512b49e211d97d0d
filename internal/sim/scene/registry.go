// Package scene resolves which tile grid is currently playable and
// caches interior grids for the session/save lifetime.
package scene

import (
	"fmt"

	"sprout.farm/internal/sim/tilemap"
	"sprout.farm/internal/sim/worldgen"
)

// Scene identifiers. Exactly one scene is current at a time.
const (
	Overworld      = "overworld"
	HouseInterior  = "houseInterior"
	ShopInterior   = "shopInterior"
	CellarInterior = "cellarInterior"
)

var interiorGenerators = map[string]func() *tilemap.Grid{
	HouseInterior:  worldgen.GenerateHouseInterior,
	ShopInterior:   worldgen.GenerateShopInterior,
	CellarInterior: worldgen.GenerateCellarInterior,
}

type Registry struct {
	overworld *tilemap.Grid
	interiors map[string]*tilemap.Grid

	current string

	// Overworld position held while inside an interior, restored on exit.
	lastOverworldPos tilemap.Coord
}

func NewRegistry(overworld *tilemap.Grid) *Registry {
	return &Registry{
		overworld: overworld,
		interiors: map[string]*tilemap.Grid{},
		current:   Overworld,
	}
}

func (r *Registry) Current() string { return r.current }

// CurrentGrid resolves the grid for the current scene pointer.
func (r *Registry) CurrentGrid() *tilemap.Grid {
	if r.current == Overworld {
		return r.overworld
	}
	return r.interiors[r.current]
}

func (r *Registry) OverworldGrid() *tilemap.Grid { return r.overworld }

// EnterScene switches to an interior, generating and caching its grid on
// first visit. Re-entry returns the same cached instance so in-session
// mutations persist. Returns the designated entry coordinate.
func (r *Registry) EnterScene(kind string, fromOverworld tilemap.Coord) (tilemap.Coord, error) {
	gen, ok := interiorGenerators[kind]
	if !ok {
		return tilemap.Coord{}, fmt.Errorf("unknown interior scene %q", kind)
	}
	g, cached := r.interiors[kind]
	if !cached {
		g = gen()
		r.interiors[kind] = g
	}
	if r.current == Overworld {
		r.lastOverworldPos = fromOverworld
	}
	r.current = kind
	return worldgen.InteriorEntry(g), nil
}

// ExitScene returns control to the overworld and yields the position the
// avatar held before the transition.
func (r *Registry) ExitScene() tilemap.Coord {
	r.current = Overworld
	return r.lastOverworldPos
}

// LastOverworldPos is persisted so a save taken indoors restores cleanly.
func (r *Registry) LastOverworldPos() tilemap.Coord { return r.lastOverworldPos }

// CachedInteriors returns the interior cache for serialization.
func (r *Registry) CachedInteriors() map[string]*tilemap.Grid { return r.interiors }

// Restore rebuilds registry state from a loaded save. Interiors missing
// from the save are simply regenerated on next entry.
func (r *Registry) Restore(current string, lastPos tilemap.Coord, interiors map[string]*tilemap.Grid) {
	if current == "" {
		current = Overworld
	}
	if _, ok := interiorGenerators[current]; !ok && current != Overworld {
		current = Overworld
	}
	r.current = current
	r.lastOverworldPos = lastPos
	r.interiors = map[string]*tilemap.Grid{}
	for kind, g := range interiors {
		if _, ok := interiorGenerators[kind]; ok && g != nil {
			r.interiors[kind] = g
		}
	}
	// A load pointing at an interior that did not round-trip falls back
	// to the overworld rather than a nil grid.
	if r.current != Overworld {
		if _, ok := r.interiors[r.current]; !ok {
			r.current = Overworld
		}
	}
}
