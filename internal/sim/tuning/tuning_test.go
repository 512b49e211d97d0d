package tuning

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	d := Default()
	if d.TickRateHz != 60 || d.DayLengthSec != 600 || d.DaysPerSeason != 28 {
		t.Fatalf("defaults = %+v", d)
	}
	if d.MaxEnergy != 100 || d.EnergyPerAction != 2 {
		t.Fatalf("energy defaults = %+v", d)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	body := "day_length_sec: 120\nworld_width: 96\nmax_energy: 50\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.DayLengthSec != 120 || got.WorldWidth != 96 || got.MaxEnergy != 50 {
		t.Fatalf("loaded = %+v", got)
	}
	// Unset keys still get defaults.
	if got.TickRateHz != 60 || got.DaysPerSeason != 28 {
		t.Fatalf("defaults not applied: %+v", got)
	}
}

func TestLoad_Missing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); !os.IsNotExist(err) {
		t.Fatalf("err = %v, want not-exist", err)
	}
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	if err := os.WriteFile(path, []byte("day_length_sec: [nope"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected parse error")
	}
}
