package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Tuning struct {
	ProtocolVersion string `yaml:"protocol_version"`

	TickRateHz   int `yaml:"tick_rate_hz"`
	DayLengthSec int `yaml:"day_length_sec"`

	DaysPerSeason int `yaml:"days_per_season"`

	WorldWidth       int `yaml:"world_width"`
	WorldHeight      int `yaml:"world_height"`
	SpawnClearRadius int `yaml:"spawn_clear_radius"`

	MaxEnergy           int `yaml:"max_energy"`
	EnergyPerAction     int `yaml:"energy_per_action"`
	WeatherRainPermille int `yaml:"weather_rain_permille"`

	AutosaveSec int `yaml:"autosave_sec"`

	StateEveryTicks int `yaml:"state_every_ticks"`
}

func Load(path string) (Tuning, error) {
	var t Tuning
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	return t.withDefaults(), nil
}

// Default returns the tuning used when no tuning.yaml is present.
func Default() Tuning {
	return Tuning{}.withDefaults()
}

func (t Tuning) withDefaults() Tuning {
	if t.TickRateHz <= 0 {
		t.TickRateHz = 60
	}
	if t.DayLengthSec <= 0 {
		t.DayLengthSec = 600
	}
	if t.DaysPerSeason <= 0 {
		t.DaysPerSeason = 28
	}
	if t.WorldWidth <= 0 {
		t.WorldWidth = 64
	}
	if t.WorldHeight <= 0 {
		t.WorldHeight = 48
	}
	if t.SpawnClearRadius <= 0 {
		t.SpawnClearRadius = 3
	}
	if t.MaxEnergy <= 0 {
		t.MaxEnergy = 100
	}
	if t.EnergyPerAction <= 0 {
		t.EnergyPerAction = 2
	}
	if t.WeatherRainPermille <= 0 {
		t.WeatherRainPermille = 250
	}
	if t.AutosaveSec <= 0 {
		t.AutosaveSec = 30
	}
	if t.StateEveryTicks <= 0 {
		t.StateEveryTicks = 6
	}
	return t
}
