package snapshot

import (
	"bufio"
	"encoding/gob"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/klauspost/compress/zstd"
)

func sampleSave() SaveV2 {
	return SaveV2{
		Header:        Header{SavedAt: 1700000000, Day: 42},
		Seed:          1337,
		DaysPerSeason: 28,
		Grid:          GridRec{Width: 4, Height: 3, Tiles: []uint16{0, 1, 2, 0, 4, 0, 0, 8, 0, 0, 5, 0}},
		Interiors: map[string]GridRec{
			"houseInterior": {Width: 2, Height: 2, Tiles: []uint16{100, 100, 100, 102}},
		},
		Crops: []CropRec{
			{X: 1, Y: 0, Seed: "TURNIP", Stage: 55.5},
			{X: 2, Y: 2, Seed: "APPLE_TREE", Stage: 100},
		},
		Durability:       []DurabilityRec{{X: 0, Y: 1, HitsLeft: 1}},
		Calendar:         CalendarRec{Hour: 14.25, Day: 42, Weather: "RAIN", Energy: 84},
		Inventory:        map[string]int{"TURNIP": 3, "WOOD": 12},
		AvatarPos:        [2]int{2, 1},
		Scene:            "overworld",
		LastOverworldPos: [2]int{2, 1},
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "save.zst")
	want := sampleSave()

	if err := WriteSave(path, want); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := ReadSave(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	want.Header.Version = CurrentVersion
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("round-trip mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestWriteSave_OverwriteIsAtomic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "save.zst")
	first := sampleSave()
	if err := WriteSave(path, first); err != nil {
		t.Fatalf("write first: %v", err)
	}
	second := sampleSave()
	second.Header.Day = 43
	second.Calendar.Day = 43
	if err := WriteSave(path, second); err != nil {
		t.Fatalf("write second: %v", err)
	}
	got, err := ReadSave(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.Header.Day != 43 {
		t.Fatalf("day = %d, want 43", got.Header.Day)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind: %v", err)
	}
}

// writeV1File emits the legacy on-disk shape directly so the migration
// path is exercised against real bytes, not a synthetic struct.
func writeV1File(t *testing.T, path string, old SaveV1) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()

	enc, err := zstd.NewWriter(f)
	if err != nil {
		t.Fatalf("zstd: %v", err)
	}
	bw := bufio.NewWriter(enc)

	hb, _ := json.Marshal(old.Header)
	bw.Write(hb)
	bw.WriteByte('\n')
	if err := gob.NewEncoder(bw).Encode(&old); err != nil {
		t.Fatalf("gob: %v", err)
	}
	if err := bw.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestReadSave_MigratesV1(t *testing.T) {
	path := filepath.Join(t.TempDir(), "save.zst")
	old := SaveV1{
		Header:     Header{Version: 1, SavedAt: 1600000000, Day: 30},
		Seed:       7,
		Grid:       GridRec{Width: 2, Height: 2, Tiles: []uint16{0, 0, 1, 2}},
		Crops:      []CropRec{{X: 0, Y: 1, Seed: "POTATO", Stage: 20}},
		Durability: []DurabilityRec{{X: 1, Y: 1, HitsLeft: 3}},
		Hour:       9.5,
		Day:        30,
		Inventory:  map[string]int{"STONE": 4},
		AvatarPos:  [2]int{1, 0},
	}
	writeV1File(t, path, old)

	got, err := ReadSave(path)
	if err != nil {
		t.Fatalf("read v1: %v", err)
	}
	if got.Header.Version != CurrentVersion {
		t.Fatalf("version = %d, want %d", got.Header.Version, CurrentVersion)
	}
	if got.Seed != 7 || got.Calendar.Day != 30 || got.Calendar.Hour != 9.5 {
		t.Fatalf("carried fields wrong: %+v", got.Calendar)
	}
	if got.Calendar.Weather != "CLEAR" {
		t.Fatalf("weather = %q, want migration default", got.Calendar.Weather)
	}
	// -1 marks "field absent in source version"; the calendar restore
	// treats it as full energy.
	if got.Calendar.Energy != -1 {
		t.Fatalf("energy = %d, want -1 sentinel", got.Calendar.Energy)
	}
	if got.Scene != "" || len(got.Interiors) != 0 {
		t.Fatalf("v1 gained scene state: scene=%q interiors=%v", got.Scene, got.Interiors)
	}
	if got.LastOverworldPos != old.AvatarPos {
		t.Fatalf("last pos = %v, want avatar pos %v", got.LastOverworldPos, old.AvatarPos)
	}
	if !reflect.DeepEqual(got.Crops, old.Crops) {
		t.Fatalf("crops = %+v", got.Crops)
	}
}

func TestReadSave_UnsupportedVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "save.zst")
	old := SaveV1{Header: Header{Version: 99, Day: 1}}
	writeV1File(t, path, old)

	if _, err := ReadSave(path); err == nil {
		t.Fatalf("expected unsupported-version error")
	}
}

func TestReadSave_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "save.zst")
	if err := os.WriteFile(path, []byte("this is not a save"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := ReadSave(path); err == nil {
		t.Fatalf("expected error for corrupt file")
	}
}

func TestReadSave_Missing(t *testing.T) {
	if _, err := ReadSave(filepath.Join(t.TempDir(), "nope.zst")); !os.IsNotExist(err) {
		t.Fatalf("err = %v, want not-exist", err)
	}
}
