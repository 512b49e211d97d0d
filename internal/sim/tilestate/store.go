// Package tilestate owns the coordinate-keyed dynamic overlay on top of
// the base grid: crop instances, resource durability counters, and the
// pending message queue. It is the only writer of those keys and the
// single mutation path for tiles after generation.
package tilestate

import (
	"errors"
	"fmt"

	"sprout.farm/internal/protocol"
	"sprout.farm/internal/sim/catalogs"
	"sprout.farm/internal/sim/tilemap"
)

// ErrOutOfBounds is the structural rejection for coordinates outside the
// grid. Rule violations are reason codes, never errors.
var ErrOutOfBounds = errors.New("coordinate out of bounds")

// Crop is one planted instance. Stage runs 0..100 and only increases,
// except the reset to the regrow stage on harvest of tree/regrowable
// types. A withered crop accrues no growth.
type Crop struct {
	Seed     string
	Stage    float64
	Withered bool
}

// Store holds the sparse overlays. Most tiles have no entry: an absent
// durability key means "full toughness for its type".
type Store struct {
	grid *tilemap.Grid
	cats *catalogs.Catalogs

	crops      map[tilemap.Coord]*Crop
	durability map[tilemap.Coord]int

	messages []string
}

func NewStore(grid *tilemap.Grid, cats *catalogs.Catalogs) *Store {
	return &Store{
		grid:       grid,
		cats:       cats,
		crops:      map[tilemap.Coord]*Crop{},
		durability: map[tilemap.Coord]int{},
	}
}

func (s *Store) bounds(c tilemap.Coord) error {
	if !s.grid.InBounds(c) {
		return fmt.Errorf("%w: %s", ErrOutOfBounds, c)
	}
	return nil
}

// Till turns grass or bare soil into tilled soil ready for planting.
func (s *Store) Till(c tilemap.Coord) (string, error) {
	if err := s.bounds(c); err != nil {
		return "", err
	}
	switch s.grid.At(c) {
	case tilemap.Grass, tilemap.Soil:
		s.grid.Set(c, tilemap.TilledSoil)
		return "", nil
	default:
		return protocol.ErrNotSoil, nil
	}
}

// Plant inserts a new crop at stage 0. The tile must be tilled and
// unoccupied; season/energy validity is the caller's gate.
func (s *Store) Plant(c tilemap.Coord, seedID string) (string, error) {
	if err := s.bounds(c); err != nil {
		return "", err
	}
	if _, ok := s.cats.Crops.Defs[seedID]; !ok {
		return protocol.ErrUnknownSeed, nil
	}
	if _, ok := s.crops[c]; ok {
		return protocol.ErrOccupiedTile, nil
	}
	if s.grid.At(c) != tilemap.TilledSoil {
		return protocol.ErrNotSoil, nil
	}
	s.crops[c] = &Crop{Seed: seedID, Stage: 0}
	return "", nil
}

// AdvanceGrowth accrues growth for every live crop, scaled by elapsed
// in-game hours. Stage clamps at 100.
func (s *Store) AdvanceGrowth(hours float64) {
	if hours <= 0 {
		return
	}
	for _, crop := range s.crops {
		if crop.Withered || crop.Stage >= 100 {
			continue
		}
		def, ok := s.cats.Crops.Defs[crop.Seed]
		if !ok {
			continue
		}
		crop.Stage += def.GrowthPerHour * hours
		if crop.Stage > 100 {
			crop.Stage = 100
		}
	}
}

// Harvest collects a ripe crop. Trees and regrowable crops reset to
// their regrow stage and persist; single-harvest crops are removed and
// the tile reverts to bare soil. Returns the yielded items; depositing
// them is the caller's job.
func (s *Store) Harvest(c tilemap.Coord) (map[string]int, string, error) {
	if err := s.bounds(c); err != nil {
		return nil, "", err
	}
	crop, ok := s.crops[c]
	if !ok {
		return nil, protocol.ErrNoCrop, nil
	}
	if crop.Withered || crop.Stage < 100 {
		return nil, protocol.ErrNotRipe, nil
	}
	def := s.cats.Crops.Defs[crop.Seed]

	yield := itemMap(def.Yield)
	if def.Tree || def.Regrows {
		crop.Stage = def.RegrowStage
	} else {
		delete(s.crops, c)
		s.grid.Set(c, tilemap.Soil)
	}
	return yield, "", nil
}

// StrikeResource lands one hit on a resource tile. Durability defaults
// to the type's configured toughness when no key exists. Depletion
// yields the configured items, deletes the key and reverts the tile to
// walkable ground; otherwise the decremented counter persists.
func (s *Store) StrikeResource(c tilemap.Coord, resourceID string) (map[string]int, bool, string, error) {
	if err := s.bounds(c); err != nil {
		return nil, false, "", err
	}
	def, ok := s.cats.Resources.Defs[resourceID]
	if !ok {
		return nil, false, protocol.ErrUnknownResource, nil
	}
	tileRes, ok := tilemap.ResourceFor(s.grid.At(c))
	if !ok || tileRes != resourceID {
		return nil, false, protocol.ErrNotResource, nil
	}

	hits, ok := s.durability[c]
	if !ok {
		hits = def.Toughness
	}
	hits--
	if hits <= 0 {
		delete(s.durability, c)
		s.grid.Set(c, tilemap.Grass)
		return itemMap(def.Yield), true, "", nil
	}
	s.durability[c] = hits
	return nil, false, "", nil
}

// WitherIncompatibleCrops runs on season rollover: every non-tree crop
// whose valid seasons exclude the new season is removed and its tile
// marked as withered debris. Returns the count for the caller's
// notification.
func (s *Store) WitherIncompatibleCrops(season int) int {
	withered := 0
	for c, crop := range s.crops {
		def, ok := s.cats.Crops.Defs[crop.Seed]
		if !ok {
			continue
		}
		if def.Tree || def.GrowsIn(season) {
			continue
		}
		delete(s.crops, c)
		s.grid.Set(c, tilemap.WitheredDebris)
		withered++
	}
	if withered > 0 {
		s.PushMessage(fmt.Sprintf("%d crops withered in the new season", withered))
	}
	return withered
}

// ClearDebris reverts a withered-debris tile to bare soil. Calling it on
// an already-clear tile is a no-op.
func (s *Store) ClearDebris(c tilemap.Coord) (string, error) {
	if err := s.bounds(c); err != nil {
		return "", err
	}
	if s.grid.At(c) != tilemap.WitheredDebris {
		return protocol.ErrNoDebris, nil
	}
	s.grid.Set(c, tilemap.Soil)
	return "", nil
}

// CropAt returns a copy; the store stays the only writer.
func (s *Store) CropAt(c tilemap.Coord) (Crop, bool) {
	crop, ok := s.crops[c]
	if !ok {
		return Crop{}, false
	}
	return *crop, true
}

func (s *Store) Crops() map[tilemap.Coord]Crop {
	out := make(map[tilemap.Coord]Crop, len(s.crops))
	for c, crop := range s.crops {
		out[c] = *crop
	}
	return out
}

func (s *Store) Durability() map[tilemap.Coord]int {
	out := make(map[tilemap.Coord]int, len(s.durability))
	for c, hits := range s.durability {
		out[c] = hits
	}
	return out
}

func (s *Store) PushMessage(msg string) {
	s.messages = append(s.messages, msg)
}

// DrainMessages hands the queued user-facing messages to the session and
// clears the queue.
func (s *Store) DrainMessages() []string {
	out := s.messages
	s.messages = nil
	return out
}

// Restore replaces the overlays from a loaded save. Entries referencing
// unknown types are dropped field-by-field rather than failing the load.
func (s *Store) Restore(crops map[tilemap.Coord]Crop, durability map[tilemap.Coord]int) {
	s.crops = map[tilemap.Coord]*Crop{}
	for c, crop := range crops {
		if !s.grid.InBounds(c) {
			continue
		}
		if _, ok := s.cats.Crops.Defs[crop.Seed]; !ok {
			continue
		}
		cp := crop
		if cp.Stage < 0 {
			cp.Stage = 0
		}
		if cp.Stage > 100 {
			cp.Stage = 100
		}
		s.crops[c] = &cp
	}
	s.durability = map[tilemap.Coord]int{}
	for c, hits := range durability {
		if !s.grid.InBounds(c) || hits <= 0 {
			continue
		}
		s.durability[c] = hits
	}
}

func itemMap(items []catalogs.ItemCount) map[string]int {
	out := make(map[string]int, len(items))
	for _, it := range items {
		out[it.Item] += it.Count
	}
	return out
}
