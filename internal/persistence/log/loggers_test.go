package log

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
)

func TestEventLogger_WritesReadableJSONL(t *testing.T) {
	dir := t.TempDir()
	w := NewEventLogger(dir)

	recs := []EventRecord{
		{At: "2026-01-01T00:00:00Z", Kind: "day_started", Day: 2},
		{At: "2026-01-01T00:01:00Z", Kind: "season_changed", Day: 29, OldSeason: 0, NewSeason: 1},
		{At: "2026-01-01T00:02:00Z", Kind: "message", Day: 29, Detail: "3 crops withered in the new season"},
	}
	for _, r := range recs {
		if err := w.Write(r); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	matches, err := filepath.Glob(filepath.Join(dir, "logs", "events-*.jsonl.zst"))
	if err != nil || len(matches) != 1 {
		t.Fatalf("log files = %v, %v", matches, err)
	}

	f, err := os.Open(matches[0])
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	dec, err := zstd.NewReader(f)
	if err != nil {
		t.Fatalf("zstd: %v", err)
	}
	defer dec.Close()

	var got []EventRecord
	sc := bufio.NewScanner(dec)
	for sc.Scan() {
		var r EventRecord
		if err := json.Unmarshal(sc.Bytes(), &r); err != nil {
			t.Fatalf("bad line %q: %v", sc.Text(), err)
		}
		got = append(got, r)
	}
	if err := sc.Err(); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(got) != len(recs) {
		t.Fatalf("rows = %d, want %d", len(got), len(recs))
	}
	for i := range recs {
		if got[i] != recs[i] {
			t.Fatalf("row %d = %+v, want %+v", i, got[i], recs[i])
		}
	}
}

func TestEventLogger_CloseWithoutWrites(t *testing.T) {
	w := NewEventLogger(t.TempDir())
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}
