package calendar

import (
	"math"
	"testing"
)

func newTestEngine(seed int64) *Engine {
	return New(Config{Seed: seed, DaysPerSeason: 28, MaxEnergy: 100, RainPermille: 250})
}

func TestSeasonBoundaries(t *testing.T) {
	e := newTestEngine(1)

	advanceToDay := func(day int) {
		for e.DayCount() < day {
			e.StartNewDay()
		}
	}

	advanceToDay(28)
	if got := e.Season(); got != Spring {
		t.Fatalf("day 28 season = %d, want spring", got)
	}
	e.StartNewDay()
	if e.DayCount() != 29 || e.Season() != Summer {
		t.Fatalf("day %d season = %d, want day 29 summer", e.DayCount(), e.Season())
	}
	if old, next, changed := e.ConsumeSeasonChanged(); !changed || old != Spring || next != Summer {
		t.Fatalf("season change = (%d,%d,%v)", old, next, changed)
	}
	// The flag clears on read.
	if _, _, changed := e.ConsumeSeasonChanged(); changed {
		t.Fatalf("season-changed flag did not clear")
	}

	// A full year wraps back to spring.
	advanceToDay(112)
	if e.Season() != Winter {
		t.Fatalf("day 112 season = %d, want winter", e.Season())
	}
	e.StartNewDay()
	if e.DayCount() != 113 || e.Season() != Spring {
		t.Fatalf("day %d season = %d, want day 113 spring", e.DayCount(), e.Season())
	}
}

func TestTick_WrapsAtMidnight(t *testing.T) {
	e := newTestEngine(1)
	if e.Hour() != 6 {
		t.Fatalf("start hour = %f, want 6", e.Hour())
	}
	if e.Tick(10) {
		t.Fatalf("10h from dawn should not roll the day")
	}
	if !e.Tick(9) {
		t.Fatalf("crossing midnight should roll the day")
	}
	if e.DayCount() != 2 {
		t.Fatalf("day = %d, want 2", e.DayCount())
	}
	if got := e.Hour(); math.Abs(got-1) > 1e-9 {
		t.Fatalf("hour = %f after wrap, want 1", got)
	}
	if e.Tick(0) || e.Tick(-5) {
		t.Fatalf("non-positive tick rolled the day")
	}
}

func TestTick_AccruesEveryCrossedMidnight(t *testing.T) {
	e := newTestEngine(1)

	// 49 hours from dawn spans two midnights: day 1 -> 3, hour 7.
	if !e.Tick(49) {
		t.Fatalf("long tick reported no new day")
	}
	if e.DayCount() != 3 {
		t.Fatalf("day = %d, want 3", e.DayCount())
	}
	if got := e.Hour(); math.Abs(got-7) > 1e-9 {
		t.Fatalf("hour = %f, want 7", got)
	}

	// The weather matches a day-by-day walk to the same day.
	step := newTestEngine(1)
	step.StartNewDay()
	step.StartNewDay()
	if e.Weather() != step.Weather() {
		t.Fatalf("weather = %q, want %q from stepwise walk", e.Weather(), step.Weather())
	}
}

func TestConsumeEnergy(t *testing.T) {
	e := newTestEngine(1)
	e.Restore(6, 1, WeatherClear, 5)

	if e.ConsumeEnergy(10) {
		t.Fatalf("consumed more energy than available")
	}
	if e.Energy() != 5 {
		t.Fatalf("failed consume mutated energy: %d", e.Energy())
	}
	if !e.ConsumeEnergy(5) {
		t.Fatalf("exact consume rejected")
	}
	if e.Energy() != 0 {
		t.Fatalf("energy = %d, want 0", e.Energy())
	}
	if e.ConsumeEnergy(-1) {
		t.Fatalf("negative consume accepted")
	}

	// A new day refills the pool.
	e.StartNewDay()
	if e.Energy() != e.MaxEnergy() {
		t.Fatalf("energy = %d after new day, want %d", e.Energy(), e.MaxEnergy())
	}
}

func TestWeather_DeterministicPerSeedAndDay(t *testing.T) {
	a := newTestEngine(42)
	b := newTestEngine(42)
	c := newTestEngine(43)

	varies := false
	for i := 0; i < 60; i++ {
		a.StartNewDay()
		b.StartNewDay()
		c.StartNewDay()
		if a.Weather() != b.Weather() {
			t.Fatalf("day %d: identical seeds disagree: %q vs %q", a.DayCount(), a.Weather(), b.Weather())
		}
		if a.Weather() != c.Weather() {
			varies = true
		}
	}
	if !varies {
		t.Fatalf("different seeds produced identical weather for 60 days")
	}
}

func TestWeather_WinterSnowsInsteadOfRaining(t *testing.T) {
	e := New(Config{Seed: 7, DaysPerSeason: 28, MaxEnergy: 100, RainPermille: 1000})
	for e.DayCount() < 85 { // day 85 is winter
		e.StartNewDay()
	}
	for i := 0; i < 10; i++ {
		e.StartNewDay()
		if w := e.Weather(); w != WeatherSnow {
			t.Fatalf("winter day %d weather = %q, want snow", e.DayCount(), w)
		}
	}
}

func TestDarkness(t *testing.T) {
	e := newTestEngine(1)
	cases := []struct {
		hour float64
		want float64
	}{
		{12, 0},
		{8, 0},
		{17.9, 0},
		{18, 0},
		{20, 0.5},
		{22, 1},
		{0, 1},
		{3.9, 1},
		{4, 1},
		{6, 0.5},
		{7, 0.25},
	}
	for _, tc := range cases {
		e.Restore(tc.hour, 1, WeatherClear, 100)
		if got := e.Darkness(); math.Abs(got-tc.want) > 1e-9 {
			t.Fatalf("darkness(%v) = %f, want %f", tc.hour, got, tc.want)
		}
	}
}

func TestRestore_ClampsMalformedFields(t *testing.T) {
	e := newTestEngine(1)
	e.Restore(math.NaN(), -3, "HAIL", 9999)

	if e.Hour() != 6 {
		t.Fatalf("hour = %f, want dawn default", e.Hour())
	}
	if e.DayCount() != 1 {
		t.Fatalf("day = %d, want 1", e.DayCount())
	}
	if e.Weather() != WeatherClear {
		t.Fatalf("weather = %q, want clear", e.Weather())
	}
	if e.Energy() != e.MaxEnergy() {
		t.Fatalf("energy = %d, want max", e.Energy())
	}
}
