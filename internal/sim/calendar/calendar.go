// Package calendar owns the in-game clock: hour of day, day counter,
// derived season, weather and the player's energy pool.
package calendar

import (
	"math"

	"sprout.farm/internal/sim/mathx"
)

// Season indices.
const (
	Spring = iota
	Summer
	Autumn
	Winter
)

const SeasonCount = 4

// Weather kinds.
const (
	WeatherClear = "CLEAR"
	WeatherRain  = "RAIN"
	WeatherSnow  = "SNOW"
)

type Config struct {
	Seed          int64
	DaysPerSeason int
	MaxEnergy     int
	RainPermille  int // chance of non-clear weather per day
}

// Engine is the calendar state machine. The season index is derived from
// the day counter on every query, never stored, so it cannot drift.
type Engine struct {
	cfg Config

	hour float64 // 0 <= hour < 24
	day  int     // >= 1

	energy  int
	weather string

	seasonChanged bool
	prevSeason    int
}

func New(cfg Config) *Engine {
	if cfg.DaysPerSeason <= 0 {
		cfg.DaysPerSeason = 28
	}
	if cfg.MaxEnergy <= 0 {
		cfg.MaxEnergy = 100
	}
	if cfg.RainPermille <= 0 {
		cfg.RainPermille = 250
	}
	return &Engine{
		cfg:     cfg,
		hour:    6, // days start at dawn
		day:     1,
		energy:  cfg.MaxEnergy,
		weather: WeatherClear,
	}
}

// Tick advances the clock by elapsed in-game hours. Every crossed
// midnight triggers StartNewDay, so a long slice accrues every day it
// spans; the return value reports that at least one new day began.
func (e *Engine) Tick(hours float64) bool {
	if hours <= 0 {
		return false
	}
	e.hour += hours
	newDay := false
	for e.hour >= 24 {
		e.hour -= 24
		e.StartNewDay()
		newDay = true
	}
	return newDay
}

// StartNewDay increments the day counter, restores energy, re-rolls
// weather and recomputes the season. A season change is flagged once for
// the caller to trigger crop withering.
func (e *Engine) StartNewDay() {
	old := e.Season()
	e.day++
	e.energy = e.cfg.MaxEnergy
	e.weather = e.rollWeather()

	if s := e.Season(); s != old {
		e.seasonChanged = true
		e.prevSeason = old
	}
}

// rollWeather is deterministic per (seed, day) so identically seeded
// sessions agree. Winter swaps rain for its seasonal variant.
func (e *Engine) rollWeather() string {
	roll := mathx.Hash2(e.cfg.Seed^0x5eed, e.day, 0) % 1000
	if roll >= uint64(e.cfg.RainPermille) {
		return WeatherClear
	}
	if e.Season() == Winter {
		return WeatherSnow
	}
	return WeatherRain
}

// ConsumeSeasonChanged reports and clears the season-changed flag.
func (e *Engine) ConsumeSeasonChanged() (oldSeason, newSeason int, changed bool) {
	if !e.seasonChanged {
		return 0, 0, false
	}
	e.seasonChanged = false
	return e.prevSeason, e.Season(), true
}

// ConsumeEnergy is the single gate for energy-costed actions. It fails
// without mutation when the pool is short.
func (e *Engine) ConsumeEnergy(amount int) bool {
	if amount < 0 || e.energy < amount {
		return false
	}
	e.energy -= amount
	return true
}

func (e *Engine) Hour() float64   { return e.hour }
func (e *Engine) DayCount() int   { return e.day }
func (e *Engine) Energy() int     { return e.energy }
func (e *Engine) MaxEnergy() int  { return e.cfg.MaxEnergy }
func (e *Engine) Weather() string { return e.weather }

// Season derives the index from the day counter:
// floor((day-1)/daysPerSeason) mod 4.
func (e *Engine) Season() int {
	return ((e.day - 1) / e.cfg.DaysPerSeason) % SeasonCount
}

// Darkness is the lighting curve consumed by presentation: 0 at midday,
// 1 deep in the night, with smooth dawn/dusk ramps.
func (e *Engine) Darkness() float64 {
	// Full light 8..18, full dark 22..4, linear ramps between.
	h := e.hour
	switch {
	case h >= 8 && h < 18:
		return 0
	case h >= 18 && h < 22:
		return (h - 18) / 4
	case h >= 4 && h < 8:
		return (8 - h) / 4
	default:
		return 1
	}
}

// Restore rebuilds calendar state from a save, clamping malformed
// fields to safe values instead of failing.
func (e *Engine) Restore(hour float64, day int, weather string, energy int) {
	if math.IsNaN(hour) || hour < 0 || hour >= 24 {
		hour = 6
	}
	if day < 1 {
		day = 1
	}
	switch weather {
	case WeatherClear, WeatherRain, WeatherSnow:
	default:
		weather = WeatherClear
	}
	if energy < 0 || energy > e.cfg.MaxEnergy {
		energy = e.cfg.MaxEnergy
	}
	e.hour = hour
	e.day = day
	e.weather = weather
	e.energy = energy
	e.seasonChanged = false
}
