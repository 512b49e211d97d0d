// Package catalogs holds the data-driven type tables for crops and
// resources. Per-type behavior (growth rate, season validity, yield,
// toughness) lives here as configuration records, not in code.
package catalogs

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

type Catalogs struct {
	Crops     CropCatalog
	Resources ResourceCatalog
}

type CropCatalog struct {
	Defs   map[string]CropDef
	IDs    []string
	Digest string
}

// CropDef describes one seed type. Stage runs 0..100; GrowthPerHour is
// stage points accrued per in-game hour while not withered.
type CropDef struct {
	ID            string      `json:"id"`
	Seasons       []int       `json:"seasons"` // valid season indices 0..3
	GrowthPerHour float64     `json:"growth_per_hour"`
	Tree          bool        `json:"tree,omitempty"`
	Regrows       bool        `json:"regrows,omitempty"`
	RegrowStage   float64     `json:"regrow_stage,omitempty"`
	Yield         []ItemCount `json:"yield"`
}

type ResourceCatalog struct {
	Defs   map[string]ResourceDef
	IDs    []string
	Digest string
}

// ResourceDef describes one strikeable resource. Toughness is the hit
// count a full-strength tile withstands before depletion.
type ResourceDef struct {
	ID        string      `json:"id"`
	Toughness int         `json:"toughness"`
	Yield     []ItemCount `json:"yield"`
}

type ItemCount struct {
	Item  string `json:"item"`
	Count int    `json:"count"`
}

func (d CropDef) GrowsIn(season int) bool {
	for _, s := range d.Seasons {
		if s == season {
			return true
		}
	}
	return false
}

// Load reads crops.json and resources.json from configDir. A missing file
// falls back to the built-in defaults so a bare checkout still runs.
func Load(configDir string) (*Catalogs, error) {
	var c Catalogs
	if err := loadCrops(filepath.Join(configDir, "crops.json"), &c.Crops); err != nil {
		return nil, err
	}
	if err := loadResources(filepath.Join(configDir, "resources.json"), &c.Resources); err != nil {
		return nil, err
	}
	return &c, nil
}

func sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func loadCrops(path string, out *CropCatalog) error {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		raw, _ = json.Marshal(defaultCrops)
	} else if err != nil {
		return err
	}
	out.Digest = sha256Hex(raw)

	var defs []CropDef
	if err := json.Unmarshal(raw, &defs); err != nil {
		return fmt.Errorf("crops.json: %w", err)
	}
	out.Defs = map[string]CropDef{}
	for _, d := range defs {
		if d.ID == "" {
			return fmt.Errorf("crops.json: empty id")
		}
		if d.GrowthPerHour <= 0 {
			return fmt.Errorf("crops.json: %s: growth_per_hour must be > 0", d.ID)
		}
		out.Defs[d.ID] = d
	}
	out.IDs = sortedKeys(out.Defs)
	return nil
}

func loadResources(path string, out *ResourceCatalog) error {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		raw, _ = json.Marshal(defaultResources)
	} else if err != nil {
		return err
	}
	out.Digest = sha256Hex(raw)

	var defs []ResourceDef
	if err := json.Unmarshal(raw, &defs); err != nil {
		return fmt.Errorf("resources.json: %w", err)
	}
	out.Defs = map[string]ResourceDef{}
	for _, d := range defs {
		if d.ID == "" {
			return fmt.Errorf("resources.json: empty id")
		}
		if d.Toughness <= 0 {
			return fmt.Errorf("resources.json: %s: toughness must be > 0", d.ID)
		}
		out.Defs[d.ID] = d
	}
	out.IDs = sortedKeys(out.Defs)
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
