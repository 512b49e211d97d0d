package session

import (
	"errors"

	"sprout.farm/internal/protocol"
	"sprout.farm/internal/sim/scene"
	"sprout.farm/internal/sim/tilemap"
	"sprout.farm/internal/sim/tilestate"
)

// Apply executes one player action against the session state. Rule
// violations come back as reason codes on the ack; only structural
// problems (bad coordinates) reject outright. Energy is the first gate
// for every tile mutator.
func (s *Session) Apply(act protocol.ActMsg) protocol.AckMsg {
	ack := protocol.AckMsg{
		Type:            protocol.TypeAck,
		ProtocolVersion: protocol.Version,
		AckFor:          act.ID,
	}

	c := tilemap.Coord{X: act.X, Y: act.Y}

	// Tile mutators aim at the overworld overlay; coordinates sent from
	// inside an interior would be interpreted against the wrong grid.
	switch act.Action {
	case "TILL", "PLANT", "HARVEST", "STRIKE", "CLEAR":
		if s.registry.Current() != scene.Overworld {
			ack.Code = protocol.ErrWrongScene
			return ack
		}
	}

	var code string
	var err error
	var yield map[string]int

	switch act.Action {
	case "MOVE":
		s.avatar = tilemap.GreedyStep(s.registry.CurrentGrid(), s.avatar, c)
		ack.Accepted = true
		return ack

	case "ENTER":
		entry, enterErr := s.registry.EnterScene(act.Scene, s.avatar)
		if enterErr != nil {
			ack.Code = protocol.ErrUnknownScene
			return ack
		}
		s.avatar = entry
		ack.Accepted = true
		return ack

	case "EXIT":
		s.avatar = s.registry.ExitScene()
		ack.Accepted = true
		return ack

	case "TILL":
		if !s.cal.ConsumeEnergy(s.tune.EnergyPerAction) {
			ack.Code = protocol.ErrNoEnergy
			return ack
		}
		code, err = s.store.Till(c)

	case "PLANT":
		def, ok := s.cats.Crops.Defs[act.Seed]
		if !ok {
			ack.Code = protocol.ErrUnknownSeed
			return ack
		}
		if !def.GrowsIn(s.cal.Season()) {
			ack.Code = protocol.ErrWrongSeason
			return ack
		}
		if !s.cal.ConsumeEnergy(s.tune.EnergyPerAction) {
			ack.Code = protocol.ErrNoEnergy
			return ack
		}
		code, err = s.store.Plant(c, act.Seed)

	case "HARVEST":
		if !s.cal.ConsumeEnergy(s.tune.EnergyPerAction) {
			ack.Code = protocol.ErrNoEnergy
			return ack
		}
		yield, code, err = s.store.Harvest(c)

	case "STRIKE":
		if !s.cal.ConsumeEnergy(s.tune.EnergyPerAction) {
			ack.Code = protocol.ErrNoEnergy
			return ack
		}
		yield, _, code, err = s.store.StrikeResource(c, act.Resource)

	case "CLEAR":
		if !s.cal.ConsumeEnergy(s.tune.EnergyPerAction) {
			ack.Code = protocol.ErrNoEnergy
			return ack
		}
		code, err = s.store.ClearDebris(c)

	default:
		ack.Code = protocol.ErrProtoBadRequest
		return ack
	}

	if err != nil {
		if errors.Is(err, tilestate.ErrOutOfBounds) {
			ack.Code = protocol.ErrOutOfBounds
			return ack
		}
		ack.Code = protocol.ErrProtoBadRequest
		return ack
	}
	if code != "" {
		ack.Code = code
		return ack
	}

	if len(yield) > 0 {
		s.deposit(yield)
		ack.Yield = yield
	}
	ack.Accepted = true
	return ack
}
