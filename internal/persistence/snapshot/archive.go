package snapshot

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

type SeasonArchiveMeta struct {
	Season    int    `json:"season"`
	Day       int    `json:"day"`
	Seed      int64  `json:"seed"`
	Save      string `json:"save"`
	CreatedAt string `json:"created_at"`
}

// ArchiveSeasonSave copies a save into `dir/archives/season_<NNN>/` with
// a small meta.json beside it, and returns the archived path.
func ArchiveSeasonSave(dir, savePath string, season int, save SaveV2) (string, error) {
	archiveDir := filepath.Join(dir, "archives", fmt.Sprintf("season_%03d", season))
	if err := os.MkdirAll(archiveDir, 0o755); err != nil {
		return "", err
	}

	dst := filepath.Join(archiveDir, filepath.Base(savePath))
	if err := copyFile(savePath, dst); err != nil {
		return "", err
	}

	meta := SeasonArchiveMeta{
		Season:    season,
		Day:       save.Header.Day,
		Seed:      save.Seed,
		Save:      filepath.Base(dst),
		CreatedAt: time.Now().UTC().Format(time.RFC3339Nano),
	}
	if b, err := json.MarshalIndent(meta, "", "  "); err == nil {
		_ = os.WriteFile(filepath.Join(archiveDir, "meta.json"), b, 0o644)
	}
	return dst, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() { _ = out.Close() }()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
