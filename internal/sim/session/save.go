package session

import (
	"sort"

	"sprout.farm/internal/persistence/snapshot"
	"sprout.farm/internal/protocol"
	"sprout.farm/internal/sim/tilemap"
	"sprout.farm/internal/sim/tilestate"
)

// Snapshot captures the full session state as the current save record.
// Slices are emitted in coordinate order so identical states marshal
// identically.
func (s *Session) Snapshot() snapshot.SaveV2 {
	over := s.registry.OverworldGrid()

	save := snapshot.SaveV2{
		Header:        snapshot.Header{Version: snapshot.CurrentVersion, Day: s.cal.DayCount()},
		Seed:          s.seed,
		DaysPerSeason: s.tune.DaysPerSeason,
		Grid:          gridRec(over),
		Interiors:     map[string]snapshot.GridRec{},
		Calendar: snapshot.CalendarRec{
			Hour:    s.cal.Hour(),
			Day:     s.cal.DayCount(),
			Weather: s.cal.Weather(),
			Energy:  s.cal.Energy(),
		},
		Inventory:        s.Inventory(),
		AvatarPos:        [2]int{s.avatar.X, s.avatar.Y},
		Scene:            s.registry.Current(),
		LastOverworldPos: [2]int{s.registry.LastOverworldPos().X, s.registry.LastOverworldPos().Y},
	}

	for kind, g := range s.registry.CachedInteriors() {
		save.Interiors[kind] = gridRec(g)
	}

	for c, crop := range s.store.Crops() {
		save.Crops = append(save.Crops, snapshot.CropRec{
			X: c.X, Y: c.Y, Seed: crop.Seed, Stage: crop.Stage, Withered: crop.Withered,
		})
	}
	sort.Slice(save.Crops, func(i, j int) bool {
		a, b := save.Crops[i], save.Crops[j]
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.X < b.X
	})

	for c, hits := range s.store.Durability() {
		save.Durability = append(save.Durability, snapshot.DurabilityRec{X: c.X, Y: c.Y, HitsLeft: hits})
	}
	sort.Slice(save.Durability, func(i, j int) bool {
		a, b := save.Durability[i], save.Durability[j]
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.X < b.X
	})

	return save
}

// RestoreSnapshot applies a loaded record over the freshly generated
// session. Unknown or malformed fields default instead of failing: the
// save format must survive schema evolution without corrupting progress.
func (s *Session) RestoreSnapshot(save snapshot.SaveV2) {
	over := s.registry.OverworldGrid()
	if g := gridFromRec(save.Grid); g != nil && g.Width == over.Width && g.Height == over.Height {
		copy(over.Tiles, g.Tiles)
	}

	interiors := map[string]*tilemap.Grid{}
	for kind, rec := range save.Interiors {
		if g := gridFromRec(rec); g != nil {
			interiors[kind] = g
		}
	}
	lastPos := tilemap.Coord{X: save.LastOverworldPos[0], Y: save.LastOverworldPos[1]}
	if !over.InBounds(lastPos) {
		lastPos = tilemap.Coord{X: over.Width / 2, Y: over.Height / 2}
	}
	s.registry.Restore(save.Scene, lastPos, interiors)

	crops := map[tilemap.Coord]tilestate.Crop{}
	for _, rec := range save.Crops {
		crops[tilemap.Coord{X: rec.X, Y: rec.Y}] = tilestate.Crop{
			Seed: rec.Seed, Stage: rec.Stage, Withered: rec.Withered,
		}
	}
	durability := map[tilemap.Coord]int{}
	for _, rec := range save.Durability {
		durability[tilemap.Coord{X: rec.X, Y: rec.Y}] = rec.HitsLeft
	}
	s.store.Restore(crops, durability)

	s.cal.Restore(save.Calendar.Hour, save.Calendar.Day, save.Calendar.Weather, save.Calendar.Energy)

	s.inventory = map[string]int{}
	for item, n := range save.Inventory {
		if n > 0 {
			s.inventory[item] = n
		}
	}

	avatar := tilemap.Coord{X: save.AvatarPos[0], Y: save.AvatarPos[1]}
	if g := s.registry.CurrentGrid(); g != nil && g.InBounds(avatar) {
		s.avatar = avatar
	} else {
		s.avatar = lastPos
	}
}

// StateMessage builds the read-only presentation snapshot.
func (s *Session) StateMessage() protocol.StateMsg {
	g := s.registry.CurrentGrid()

	msg := protocol.StateMsg{
		Type:            protocol.TypeState,
		ProtocolVersion: protocol.Version,
		Scene:           s.registry.Current(),
		Width:           g.Width,
		Height:          g.Height,
		Tiles:           make([]uint16, len(g.Tiles)),
		Hour:            s.cal.Hour(),
		Day:             s.cal.DayCount(),
		Season:          s.cal.Season(),
		Weather:         s.cal.Weather(),
		Darkness:        s.cal.Darkness(),
		Energy:          s.cal.Energy(),
		Inventory:       s.Inventory(),
		AvatarX:         s.avatar.X,
		AvatarY:         s.avatar.Y,
	}
	for i, t := range g.Tiles {
		msg.Tiles[i] = uint16(t)
	}

	for c, crop := range s.store.Crops() {
		msg.Crops = append(msg.Crops, protocol.CropState{
			X: c.X, Y: c.Y, Seed: crop.Seed, Stage: crop.Stage, Withered: crop.Withered,
		})
	}
	sort.Slice(msg.Crops, func(i, j int) bool {
		a, b := msg.Crops[i], msg.Crops[j]
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.X < b.X
	})

	for c, hits := range s.store.Durability() {
		msg.Durability = append(msg.Durability, protocol.TileHits{X: c.X, Y: c.Y, HitsLeft: hits})
	}
	sort.Slice(msg.Durability, func(i, j int) bool {
		a, b := msg.Durability[i], msg.Durability[j]
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.X < b.X
	})

	return msg
}

func gridRec(g *tilemap.Grid) snapshot.GridRec {
	rec := snapshot.GridRec{Width: g.Width, Height: g.Height, Tiles: make([]uint16, len(g.Tiles))}
	for i, t := range g.Tiles {
		rec.Tiles[i] = uint16(t)
	}
	return rec
}

func gridFromRec(rec snapshot.GridRec) *tilemap.Grid {
	if rec.Width <= 0 || rec.Height <= 0 || len(rec.Tiles) != rec.Width*rec.Height {
		return nil
	}
	g := tilemap.NewGrid(rec.Width, rec.Height, 0)
	for i, t := range rec.Tiles {
		g.Tiles[i] = tilemap.Tile(t)
	}
	return g
}
