package catalogs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_DefaultsWhenFilesMissing(t *testing.T) {
	c, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	for _, id := range []string{"TURNIP", "POTATO", "TOMATO", "PUMPKIN", "APPLE_TREE"} {
		if _, ok := c.Crops.Defs[id]; !ok {
			t.Fatalf("missing default crop %s", id)
		}
	}
	for _, id := range []string{"TREE", "STONE", "ORE", "BOULDER"} {
		if _, ok := c.Resources.Defs[id]; !ok {
			t.Fatalf("missing default resource %s", id)
		}
	}
	if c.Crops.Digest == "" || c.Resources.Digest == "" {
		t.Fatalf("empty digests")
	}
	if len(c.Crops.IDs) != len(c.Crops.Defs) {
		t.Fatalf("ids = %v", c.Crops.IDs)
	}
	// IDs come back sorted for stable WELCOME payloads.
	for i := 1; i < len(c.Crops.IDs); i++ {
		if c.Crops.IDs[i-1] >= c.Crops.IDs[i] {
			t.Fatalf("ids not sorted: %v", c.Crops.IDs)
		}
	}
}

func TestLoad_FilesOverrideDefaults(t *testing.T) {
	dir := t.TempDir()
	crops := `[{"id":"MELON","seasons":[1],"growth_per_hour":0.5,"yield":[{"item":"MELON","count":1}]}]`
	if err := os.WriteFile(filepath.Join(dir, "crops.json"), []byte(crops), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	c, err := Load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(c.Crops.Defs) != 1 {
		t.Fatalf("crops = %v", c.Crops.IDs)
	}
	if _, ok := c.Crops.Defs["MELON"]; !ok {
		t.Fatalf("override crop missing")
	}
	// Resources still fall back to defaults independently.
	if _, ok := c.Resources.Defs["TREE"]; !ok {
		t.Fatalf("default resources lost")
	}
}

func TestLoad_RejectsBadDefs(t *testing.T) {
	cases := map[string]string{
		"empty id":    `[{"id":"","seasons":[0],"growth_per_hour":1}]`,
		"zero growth": `[{"id":"X","seasons":[0],"growth_per_hour":0}]`,
		"not json":    `{`,
	}
	for name, body := range cases {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, "crops.json"), []byte(body), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
		if _, err := Load(dir); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestDigest_TracksFileBytes(t *testing.T) {
	dir := t.TempDir()
	body := `[{"id":"MELON","seasons":[1],"growth_per_hour":0.5,"yield":[]}]`
	if err := os.WriteFile(filepath.Join(dir, "crops.json"), []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	a, err := Load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	b, err := Load(dir)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if a.Crops.Digest != b.Crops.Digest {
		t.Fatalf("digest unstable for identical bytes")
	}

	if err := os.WriteFile(filepath.Join(dir, "crops.json"), []byte(body+" "), 0o644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	c, err := Load(dir)
	if err != nil {
		t.Fatalf("load changed: %v", err)
	}
	if c.Crops.Digest == a.Crops.Digest {
		t.Fatalf("digest ignored changed bytes")
	}
}

func TestGrowsIn(t *testing.T) {
	d := CropDef{Seasons: []int{0, 2}}
	if !d.GrowsIn(0) || !d.GrowsIn(2) {
		t.Fatalf("valid seasons rejected")
	}
	if d.GrowsIn(1) || d.GrowsIn(3) {
		t.Fatalf("invalid seasons accepted")
	}
}
