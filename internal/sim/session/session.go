// Package session wires the sim components into one explicitly owned
// game session: a single-threaded authoritative loop in the style of an
// actor. All sim state must be accessed only from the session goroutine;
// outside callers talk to it through channels.
package session

import (
	"context"
	"time"

	"sprout.farm/internal/persistence/snapshot"
	"sprout.farm/internal/protocol"
	"sprout.farm/internal/sim/calendar"
	"sprout.farm/internal/sim/catalogs"
	"sprout.farm/internal/sim/scene"
	"sprout.farm/internal/sim/tilemap"
	"sprout.farm/internal/sim/tilestate"
	"sprout.farm/internal/sim/tuning"
	"sprout.farm/internal/sim/worldgen"
)

// Event is a session notification for UI collaborators. The core never
// depends on anyone consuming these.
type Event struct {
	Kind      string // "day_started", "season_changed", "message"
	Day       int
	OldSeason int
	NewSeason int
	Detail    string
}

type ActionRequest struct {
	Act  protocol.ActMsg
	Resp chan protocol.AckMsg
}

type Session struct {
	tune tuning.Tuning
	seed int64
	cats *catalogs.Catalogs

	registry *scene.Registry
	store    *tilestate.Store
	cal      *calendar.Engine

	avatar    tilemap.Coord
	inventory map[string]int

	observers []func(Event)

	inbox   chan ActionRequest
	saveReq chan struct{}
	stop    chan struct{}

	// Save records flow out through this sink; writing them is the
	// persistence gateway's job, off this goroutine.
	saveSink chan<- snapshot.SaveV2

	// Read-model sink: a serialized StateMsg per broadcast interval.
	stateSink chan<- protocol.StateMsg

	tickCount uint64
}

// New generates a fresh world and an empty overlay: the "new game" path.
func New(tune tuning.Tuning, seed int64, cats *catalogs.Catalogs) *Session {
	world := worldgen.Generate(worldgen.Config{
		Width:            tune.WorldWidth,
		Height:           tune.WorldHeight,
		Seed:             seed,
		SpawnClearRadius: tune.SpawnClearRadius,
	})

	s := &Session{
		tune:      tune,
		seed:      seed,
		cats:      cats,
		registry:  scene.NewRegistry(world.Grid),
		avatar:    world.Spawn,
		inventory: map[string]int{},
		inbox:     make(chan ActionRequest, 256),
		saveReq:   make(chan struct{}, 1),
		stop:      make(chan struct{}),
	}
	s.cal = calendar.New(calendar.Config{
		Seed:          seed,
		DaysPerSeason: tune.DaysPerSeason,
		MaxEnergy:     tune.MaxEnergy,
		RainPermille:  tune.WeatherRainPermille,
	})
	s.store = tilestate.NewStore(world.Grid, cats)
	return s
}

// Resume rebuilds a session from a loaded save record.
func Resume(tune tuning.Tuning, cats *catalogs.Catalogs, save snapshot.SaveV2) *Session {
	s := New(tune, save.Seed, cats)
	s.RestoreSnapshot(save)
	return s
}

func (s *Session) SetSaveSink(ch chan<- snapshot.SaveV2)    { s.saveSink = ch }
func (s *Session) SetStateSink(ch chan<- protocol.StateMsg) { s.stateSink = ch }

func (s *Session) Inbox() chan<- ActionRequest { return s.inbox }

// Subscribe registers an observer. Observers run on the session
// goroutine and must not block.
func (s *Session) Subscribe(fn func(Event)) {
	s.observers = append(s.observers, fn)
}

func (s *Session) notify(ev Event) {
	for _, fn := range s.observers {
		fn(ev)
	}
}

// RequestSave asks the loop to emit a snapshot on its next tick. Safe to
// call from any goroutine; duplicate requests coalesce.
func (s *Session) RequestSave() {
	select {
	case s.saveReq <- struct{}{}:
	default:
	}
}

func (s *Session) Stop() { close(s.stop) }

// Run drives the session at the configured tick rate until the context
// ends. Elapsed time is measured, not assumed: a late tick accrues more
// game time rather than losing it.
func (s *Session) Run(ctx context.Context) error {
	interval := time.Second / time.Duration(s.tune.TickRateHz)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.stop:
			return nil
		case req := <-s.inbox:
			ack := s.Apply(req.Act)
			if req.Resp != nil {
				req.Resp <- ack
			}
		case <-ticker.C:
			now := time.Now()
			s.Step(now.Sub(last))
			last = now
		}
	}
}

// Step advances the sim by one elapsed-time slice: clock first, then
// growth, then rollover side effects.
func (s *Session) Step(dt time.Duration) {
	if dt <= 0 {
		return
	}
	hours := dt.Seconds() / float64(s.tune.DayLengthSec) * 24

	newDay := s.cal.Tick(hours)
	s.store.AdvanceGrowth(hours)

	if newDay {
		s.notify(Event{Kind: "day_started", Day: s.cal.DayCount()})
		if oldSeason, newSeason, changed := s.cal.ConsumeSeasonChanged(); changed {
			s.store.WitherIncompatibleCrops(newSeason)
			s.notify(Event{Kind: "season_changed", Day: s.cal.DayCount(),
				OldSeason: oldSeason, NewSeason: newSeason})
		}
	}

	for _, msg := range s.store.DrainMessages() {
		s.notify(Event{Kind: "message", Day: s.cal.DayCount(), Detail: msg})
	}

	s.tickCount++
	select {
	case <-s.saveReq:
		s.emitSave()
	default:
	}

	if s.stateSink != nil && s.tickCount%uint64(s.tune.StateEveryTicks) == 0 {
		select {
		case s.stateSink <- s.StateMessage():
		default:
		}
	}
}

func (s *Session) emitSave() {
	if s.saveSink == nil {
		return
	}
	select {
	case s.saveSink <- s.Snapshot():
	default:
		// A full sink means a save is already in flight; the next
		// request will catch up.
	}
}

// Calendar queries for external consumers (read-only).
func (s *Session) Hour() float64     { return s.cal.Hour() }
func (s *Session) DayCount() int     { return s.cal.DayCount() }
func (s *Session) Season() int       { return s.cal.Season() }
func (s *Session) Weather() string   { return s.cal.Weather() }
func (s *Session) Darkness() float64 { return s.cal.Darkness() }
func (s *Session) Energy() int       { return s.cal.Energy() }

func (s *Session) CurrentScene() string       { return s.registry.Current() }
func (s *Session) CurrentGrid() *tilemap.Grid { return s.registry.CurrentGrid() }
func (s *Session) AvatarPos() tilemap.Coord   { return s.avatar }

func (s *Session) Inventory() map[string]int {
	out := make(map[string]int, len(s.inventory))
	for k, v := range s.inventory {
		out[k] = v
	}
	return out
}

func (s *Session) deposit(items map[string]int) {
	for item, n := range items {
		s.inventory[item] += n
	}
}
