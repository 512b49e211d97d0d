// Package gateway owns durable storage for save records. Writes happen
// on a dedicated goroutine so the simulation tick never blocks on disk;
// outcomes are reported to subscribers, not awaited.
package gateway

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"sprout.farm/internal/persistence/indexdb"
	"sprout.farm/internal/persistence/snapshot"
)

// Result reports one save attempt to subscribers.
type Result struct {
	OK   bool
	Day  int
	Path string
	Err  error
}

type Gateway struct {
	dir string
	log *log.Logger

	idx *indexdb.SQLiteIndex // may be nil

	saves chan snapshot.SaveV2

	mu   sync.Mutex
	subs []func(Result)

	lastArchivedSeason int
}

// New creates a gateway writing to dir/save.zst. idx may be nil when
// indexing is disabled.
func New(dir string, idx *indexdb.SQLiteIndex, logger *log.Logger) *Gateway {
	return &Gateway{
		dir:                dir,
		log:                logger,
		idx:                idx,
		saves:              make(chan snapshot.SaveV2, 2),
		lastArchivedSeason: -1,
	}
}

// Saves is the sink the session pushes records into.
func (g *Gateway) Saves() chan<- snapshot.SaveV2 { return g.saves }

func (g *Gateway) SavePath() string { return filepath.Join(g.dir, "save.zst") }

// Subscribe registers a save-outcome observer. Callbacks run on the
// gateway goroutine and must not block.
func (g *Gateway) Subscribe(fn func(Result)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.subs = append(g.subs, fn)
}

func (g *Gateway) publish(r Result) {
	g.mu.Lock()
	subs := g.subs
	g.mu.Unlock()
	for _, fn := range subs {
		fn(r)
	}
}

// Run consumes save records until the context ends. Storage errors are
// non-fatal: they are logged, published, and the session keeps running;
// the next autosave retries.
func (g *Gateway) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case save := <-g.saves:
			g.write(save)
		}
	}
}

func (g *Gateway) write(save snapshot.SaveV2) {
	path := g.SavePath()
	if err := snapshot.WriteSave(path, save); err != nil {
		g.log.Printf("save write: %v", err)
		g.publish(Result{OK: false, Day: save.Header.Day, Err: err})
		return
	}

	if g.idx != nil {
		g.idx.RecordSave(path, save)
	}
	g.archiveSeason(path, save)

	g.publish(Result{OK: true, Day: save.Header.Day, Path: path})
}

// archiveSeason keeps a copy of the first save of each season, mirroring
// the main record into dir/archives/season_<NNN>/.
func (g *Gateway) archiveSeason(path string, save snapshot.SaveV2) {
	if save.DaysPerSeason <= 0 {
		return
	}
	season := (save.Header.Day - 1) / save.DaysPerSeason
	if season <= g.lastArchivedSeason {
		return
	}

	dst, err := snapshot.ArchiveSeasonSave(g.dir, path, season, save)
	if err != nil {
		g.log.Printf("archive season save: %v", err)
		return
	}
	g.lastArchivedSeason = season
	if g.idx != nil {
		g.idx.RecordSeason(season, save.Header.Day, dst, save.Seed)
	}
}

// ScheduleAutosave fires request on a fixed cadence while the session is
// active; the ticker stops cleanly when the context ends.
func (g *Gateway) ScheduleAutosave(ctx context.Context, interval time.Duration, request func()) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				request()
			}
		}
	}()
}

// Load reads the stored record. A missing record returns (nil, nil): the
// caller starts a new game. A corrupted record returns the error; the
// caller surfaces "load failed" and also starts fresh.
func (g *Gateway) Load() (*snapshot.SaveV2, error) {
	path := g.SavePath()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}
	save, err := snapshot.ReadSave(path)
	if err != nil {
		return nil, err
	}
	return &save, nil
}

// Reset wipes the stored record entirely.
func (g *Gateway) Reset() error {
	err := os.Remove(g.SavePath())
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
