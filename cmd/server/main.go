package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"sprout.farm/internal/persistence/gateway"
	"sprout.farm/internal/persistence/indexdb"
	persistlog "sprout.farm/internal/persistence/log"
	"sprout.farm/internal/persistence/snapshot"
	"sprout.farm/internal/protocol"
	"sprout.farm/internal/sim/catalogs"
	"sprout.farm/internal/sim/session"
	"sprout.farm/internal/sim/tuning"
	"sprout.farm/internal/transport/ws"
)

func main() {
	var (
		addr       = flag.String("addr", ":8080", "http listen address")
		seed       = flag.Int64("seed", 1337, "world seed (used only when starting a fresh game)")
		configDir  = flag.String("configs", "./configs", "config directory")
		dataDir    = flag.String("data", "./data", "runtime data directory")
		tuningPath = flag.String("tuning", "", "path to tuning.yaml (default: <configs>/tuning.yaml)")
		schemaPath = flag.String("act_schema", "./schemas/act.schema.json", "path to ACT message schema")
		disableDB  = flag.Bool("disable_db", false, "disable the sqlite save index")
		wipe       = flag.Bool("wipe", false, "delete the stored save and start fresh")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lmicroseconds)

	tp := strings.TrimSpace(*tuningPath)
	if tp == "" {
		tp = filepath.Join(*configDir, "tuning.yaml")
	}
	tune, err := tuning.Load(tp)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Fatalf("load tuning: %v", err)
		}
		tune = tuning.Default()
	}

	cats, err := catalogs.Load(*configDir)
	if err != nil {
		logger.Fatalf("load catalogs: %v", err)
	}

	_ = os.MkdirAll(*dataDir, 0o755)

	var idx *indexdb.SQLiteIndex
	if !*disableDB {
		idx, err = indexdb.Open(filepath.Join(*dataDir, "index.db"))
		if err != nil {
			logger.Fatalf("open save index: %v", err)
		}
		defer idx.Close()
	}

	gw := gateway.New(*dataDir, idx, logger)

	if *wipe {
		if err := gw.Reset(); err != nil {
			logger.Fatalf("wipe save: %v", err)
		}
		logger.Printf("stored save wiped")
	}

	// Resume from the stored record when one loads cleanly; a corrupt
	// save is non-fatal and falls back to a new game.
	var sess *session.Session
	save, err := gw.Load()
	switch {
	case err != nil:
		logger.Printf("load failed (starting new game): %v", err)
		sess = session.New(tune, *seed, cats)
	case save == nil:
		logger.Printf("no save found, starting new game (seed %d)", *seed)
		sess = session.New(tune, *seed, cats)
	default:
		logger.Printf("resuming day %d", save.Header.Day)
		sess = session.Resume(tune, cats, *save)
	}

	ctx, cancel := signalContext()
	defer cancel()

	eventLog := persistlog.NewEventLogger(*dataDir)
	defer eventLog.Close()

	sess.Subscribe(func(ev session.Event) {
		_ = eventLog.Write(persistlog.EventRecord{
			At:        time.Now().UTC().Format(time.RFC3339Nano),
			Kind:      ev.Kind,
			Day:       ev.Day,
			OldSeason: ev.OldSeason,
			NewSeason: ev.NewSeason,
			Detail:    ev.Detail,
		})
		if idx != nil {
			idx.RecordEvent(ev.Kind, ev.Day, ev.Detail)
		}
	})

	sess.SetSaveSink(gw.Saves())
	go gw.Run(ctx)
	gw.ScheduleAutosave(ctx, time.Duration(tune.AutosaveSec)*time.Second, sess.RequestSave)

	welcome := protocol.WelcomeMsg{
		Type:            protocol.TypeWelcome,
		ProtocolVersion: protocol.Version,
		WorldParams: protocol.WorldParams{
			TickRateHz:    tune.TickRateHz,
			Width:         tune.WorldWidth,
			Height:        tune.WorldHeight,
			DayLengthSec:  tune.DayLengthSec,
			DaysPerSeason: tune.DaysPerSeason,
			Seed:          *seed,
		},
		Catalogs: protocol.Digests{
			CropsDigest:     cats.Crops.Digest,
			ResourcesDigest: cats.Resources.Digest,
		},
	}
	wsServer, err := ws.NewServer(sess, welcome, *schemaPath, logger)
	if err != nil {
		logger.Fatalf("ws server: %v", err)
	}

	// State broadcast pump.
	stateCh := make(chan protocol.StateMsg, 4)
	sess.SetStateSink(stateCh)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg := <-stateCh:
				wsServer.Broadcast(msg)
			}
		}
	}()

	// Save outcomes go to clients as notices; failures stay non-fatal.
	gw.Subscribe(func(r gateway.Result) {
		notice := protocol.NoticeMsg{
			Type:            protocol.TypeNotice,
			ProtocolVersion: protocol.Version,
			Kind:            "save_succeeded",
			Day:             r.Day,
		}
		if !r.OK {
			notice.Kind = "save_failed"
			notice.Detail = r.Err.Error()
			logger.Printf("save failed (day %d): %v", r.Day, r.Err)
		}
		wsServer.Broadcast(notice)
	})
	sess.Subscribe(func(ev session.Event) {
		switch ev.Kind {
		case "day_started", "season_changed", "message":
			wsServer.Broadcast(protocol.NoticeMsg{
				Type:            protocol.TypeNotice,
				ProtocolVersion: protocol.Version,
				Kind:            ev.Kind,
				Day:             ev.Day,
				OldSeason:       ev.OldSeason,
				NewSeason:       ev.NewSeason,
				Detail:          ev.Detail,
			})
		}
	})

	sessDone := make(chan struct{})
	go func() {
		defer close(sessDone)
		if err := sess.Run(ctx); err != nil && err != context.Canceled {
			logger.Printf("session stopped: %v", err)
		}
	}()

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(200)
		_, _ = rw.Write([]byte("ok"))
	})
	mux.HandleFunc("/v1/ws", wsServer.Handler())

	srv := &http.Server{Addr: *addr, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Printf("listening on %s", *addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("http: %v", err)
	}

	// One final synchronous save on the way out. The loop goroutine must
	// have returned before Snapshot touches session state.
	sess.Stop()
	<-sessDone
	if err := snapshot.WriteSave(gw.SavePath(), sess.Snapshot()); err != nil {
		logger.Printf("final save: %v", err)
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ch
		cancel()
	}()
	return ctx, cancel
}
