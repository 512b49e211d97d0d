// Package indexdb maintains a small SQLite read-model over the save
// history: one row per written save, one per archived season, plus the
// session event stream. It is an index, never the source of truth; a
// missing or broken index never blocks the game.
package indexdb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"

	"sprout.farm/internal/persistence/snapshot"
)

type SQLiteIndex struct {
	db *sql.DB

	ch   chan req
	wg   sync.WaitGroup
	once sync.Once

	closed atomic.Bool
}

type reqKind int

const (
	reqSave reqKind = iota + 1
	reqSeason
	reqEvent
)

type req struct {
	kind reqKind

	save   saveRow
	season seasonRow
	event  eventRow
}

type saveRow struct {
	Day        int
	Path       string
	Seed       int64
	Crops      int
	Durability int
	Interiors  int
	SavedAt    string
}

type seasonRow struct {
	Season     int
	Day        int
	Path       string
	Seed       int64
	RecordedAt string
}

type eventRow struct {
	At     string
	Kind   string
	Day    int
	Detail string
}

func Open(path string) (*SQLiteIndex, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &SQLiteIndex{
		db: db,
		ch: make(chan req, 4096),
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop()
	}()
	return s, nil
}

func initPragmas(db *sql.DB) error {
	// WAL suits the append-style workload; NORMAL durability is fine for
	// a secondary index.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS saves (
			saved_at TEXT NOT NULL,
			day INTEGER NOT NULL,
			path TEXT NOT NULL,
			seed INTEGER NOT NULL,
			crops INTEGER NOT NULL,
			durability INTEGER NOT NULL,
			interiors INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_saves_day ON saves(day);`,
		`CREATE TABLE IF NOT EXISTS seasons (
			season INTEGER PRIMARY KEY,
			day INTEGER NOT NULL,
			seed INTEGER NOT NULL,
			save_path TEXT NOT NULL,
			recorded_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS events (
			at TEXT NOT NULL,
			kind TEXT NOT NULL,
			day INTEGER NOT NULL,
			detail TEXT
		);`,
		`CREATE INDEX IF NOT EXISTS idx_events_kind ON events(kind, day);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteIndex) Close() error {
	var err error
	s.once.Do(func() {
		s.closed.Store(true)
		close(s.ch)
		s.wg.Wait()
		err = s.db.Close()
	})
	return err
}

// RecordSave indexes a written save. Drops the row if the indexer falls
// behind; the save file itself is the source of truth.
func (s *SQLiteIndex) RecordSave(path string, save snapshot.SaveV2) {
	if s == nil || s.closed.Load() {
		return
	}
	r := saveRow{
		Day:        save.Header.Day,
		Path:       path,
		Seed:       save.Seed,
		Crops:      len(save.Crops),
		Durability: len(save.Durability),
		Interiors:  len(save.Interiors),
		SavedAt:    time.Now().UTC().Format(time.RFC3339Nano),
	}
	select {
	case s.ch <- req{kind: reqSave, save: r}:
	default:
	}
}

func (s *SQLiteIndex) RecordSeason(season, day int, path string, seed int64) {
	if s == nil || s.closed.Load() {
		return
	}
	r := seasonRow{
		Season:     season,
		Day:        day,
		Path:       path,
		Seed:       seed,
		RecordedAt: time.Now().UTC().Format(time.RFC3339Nano),
	}
	select {
	case s.ch <- req{kind: reqSeason, season: r}:
	default:
	}
}

func (s *SQLiteIndex) RecordEvent(kind string, day int, detail string) {
	if s == nil || s.closed.Load() {
		return
	}
	r := eventRow{
		At:     time.Now().UTC().Format(time.RFC3339Nano),
		Kind:   kind,
		Day:    day,
		Detail: detail,
	}
	select {
	case s.ch <- req{kind: reqEvent, event: r}:
	default:
	}
}

func (s *SQLiteIndex) loop() {
	for r := range s.ch {
		switch r.kind {
		case reqSave:
			_, _ = s.db.Exec(
				`INSERT INTO saves (saved_at, day, path, seed, crops, durability, interiors)
				 VALUES (?, ?, ?, ?, ?, ?, ?)`,
				r.save.SavedAt, r.save.Day, r.save.Path, r.save.Seed,
				r.save.Crops, r.save.Durability, r.save.Interiors,
			)
		case reqSeason:
			_, _ = s.db.Exec(
				`INSERT OR REPLACE INTO seasons (season, day, seed, save_path, recorded_at)
				 VALUES (?, ?, ?, ?, ?)`,
				r.season.Season, r.season.Day, r.season.Seed, r.season.Path, r.season.RecordedAt,
			)
		case reqEvent:
			_, _ = s.db.Exec(
				`INSERT INTO events (at, kind, day, detail) VALUES (?, ?, ?, ?)`,
				r.event.At, r.event.Kind, r.event.Day, r.event.Detail,
			)
		}
	}
}

// LatestSaveDay reads back the most recent indexed day, mainly for the
// admin surface and tests.
func (s *SQLiteIndex) LatestSaveDay() (int, error) {
	var day sql.NullInt64
	err := s.db.QueryRow(`SELECT MAX(day) FROM saves`).Scan(&day)
	if err != nil {
		return 0, err
	}
	if !day.Valid {
		return 0, nil
	}
	return int(day.Int64), nil
}

// SeasonCount returns the number of archived seasons.
func (s *SQLiteIndex) SeasonCount() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM seasons`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
