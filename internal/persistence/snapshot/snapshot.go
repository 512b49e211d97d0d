// Package snapshot is the versioned save codec: a zstd stream holding a
// JSON header line (for cheap version sniffing) followed by a gob body.
// Older versions are read through an explicit migration chain; writes
// always emit the current version.
package snapshot

import (
	"bufio"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zstd"
)

const CurrentVersion = 2

type Header struct {
	Version int   `json:"version"`
	SavedAt int64 `json:"saved_at_unix"`
	Day     int   `json:"day"`
}

// SaveV2 is the current save record. Every field needed to reconstruct
// gameplay exactly as left off must round-trip through it.
type SaveV2 struct {
	Header Header `json:"header"`

	Seed          int64 `json:"seed"`
	DaysPerSeason int   `json:"days_per_season"`

	Grid      GridRec            `json:"grid"`
	Interiors map[string]GridRec `json:"interiors,omitempty"`

	Crops      []CropRec       `json:"crops"`
	Durability []DurabilityRec `json:"durability"`

	Calendar CalendarRec `json:"calendar"`

	Inventory map[string]int `json:"inventory"`

	AvatarPos        [2]int `json:"avatar_pos"`
	Scene            string `json:"scene"`
	LastOverworldPos [2]int `json:"last_overworld_pos"`
}

// SaveV1 is the legacy shape: no interior cache, no scene pointer, no
// weather or energy. Kept only for the migration path.
type SaveV1 struct {
	Header Header `json:"header"`

	Seed int64 `json:"seed"`

	Grid       GridRec         `json:"grid"`
	Crops      []CropRec       `json:"crops"`
	Durability []DurabilityRec `json:"durability"`

	Hour float64 `json:"hour"`
	Day  int     `json:"day"`

	Inventory map[string]int `json:"inventory"`
	AvatarPos [2]int         `json:"avatar_pos"`
}

type GridRec struct {
	Width  int      `json:"width"`
	Height int      `json:"height"`
	Tiles  []uint16 `json:"tiles"`
}

type CropRec struct {
	X        int     `json:"x"`
	Y        int     `json:"y"`
	Seed     string  `json:"seed"`
	Stage    float64 `json:"stage"`
	Withered bool    `json:"withered,omitempty"`
}

type DurabilityRec struct {
	X        int `json:"x"`
	Y        int `json:"y"`
	HitsLeft int `json:"hits_left"`
}

type CalendarRec struct {
	Hour    float64 `json:"hour"`
	Day     int     `json:"day"`
	Weather string  `json:"weather"`
	Energy  int     `json:"energy"`
}

// migrateV1 fills the fields V1 never carried with safe defaults. The
// interior cache is left empty (interiors regenerate on first entry) and
// the scene pointer falls back to the overworld.
func migrateV1(old SaveV1) SaveV2 {
	return SaveV2{
		Header:           Header{Version: CurrentVersion, SavedAt: old.Header.SavedAt, Day: old.Day},
		Seed:             old.Seed,
		Grid:             old.Grid,
		Crops:            old.Crops,
		Durability:       old.Durability,
		Calendar:         CalendarRec{Hour: old.Hour, Day: old.Day, Weather: "CLEAR", Energy: -1},
		Inventory:        old.Inventory,
		AvatarPos:        old.AvatarPos,
		Scene:            "",
		LastOverworldPos: old.AvatarPos,
	}
}

// WriteSave writes the record atomically: a temp file in the same
// directory is renamed over the target, so an interrupted save leaves
// the previous record intact.
func WriteSave(path string, save SaveV2) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	save.Header.Version = CurrentVersion
	if save.Header.SavedAt == 0 {
		save.Header.SavedAt = time.Now().Unix()
	}

	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}

	if err := encodeSave(f, save); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

func encodeSave(f *os.File, save SaveV2) error {
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}

	bw := bufio.NewWriterSize(enc, 64*1024)

	hb, _ := json.Marshal(save.Header)
	if _, err := bw.Write(hb); err != nil {
		return err
	}
	if err := bw.WriteByte('\n'); err != nil {
		return err
	}
	if err := gob.NewEncoder(bw).Encode(&save); err != nil {
		return fmt.Errorf("gob encode: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	return enc.Close()
}

// ReadSave loads a record of any supported version and migrates it to
// the current shape.
func ReadSave(path string) (SaveV2, error) {
	var save SaveV2
	f, err := os.Open(path)
	if err != nil {
		return save, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return save, err
	}
	defer dec.Close()

	br := bufio.NewReaderSize(dec, 64*1024)

	line, err := br.ReadBytes('\n')
	if err != nil {
		return save, fmt.Errorf("read header: %w", err)
	}
	var hdr Header
	if err := json.Unmarshal(line, &hdr); err != nil {
		return save, fmt.Errorf("decode header: %w", err)
	}

	switch hdr.Version {
	case 1:
		var old SaveV1
		if err := gob.NewDecoder(br).Decode(&old); err != nil {
			return save, fmt.Errorf("gob decode v1: %w", err)
		}
		return migrateV1(old), nil
	case 2:
		if err := gob.NewDecoder(br).Decode(&save); err != nil {
			return save, fmt.Errorf("gob decode v2: %w", err)
		}
		return save, nil
	default:
		return save, fmt.Errorf("unsupported save version %d", hdr.Version)
	}
}
