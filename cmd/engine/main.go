package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"applyboard-engine/internal/config"
	"applyboard-engine/internal/domain"
	"applyboard-engine/internal/enrich"
	"applyboard-engine/internal/events"
	"applyboard-engine/internal/httpapi"
	"applyboard-engine/internal/ingest/mailbox"
	"applyboard-engine/internal/scheduler"
	"applyboard-engine/internal/secrets"
	"applyboard-engine/internal/snapshot"
	"applyboard-engine/internal/store"
)

func main() {
	// Engine data dir: use env if provided (the desktop shell can pass one),
	// else a local folder.
	dataDir := os.Getenv("APPLYBOARD_DATA_DIR")
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		log.Fatal(err)
	}

	// One engine per data dir. A second instance would race the sqlite file
	// and double-run the ingest loops.
	lock := flock.New(filepath.Join(dataDir, "engine.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		log.Fatalf("lock failed: %v", err)
	}
	if !locked {
		log.Fatalf("another engine already holds %s", lock.Path())
	}
	defer lock.Unlock()

	defaultCfgPath := filepath.Join("config", "config.yml")
	userCfgPath, err := config.EnsureUserConfig(dataDir, defaultCfgPath)
	if err != nil {
		log.Fatalf("config bootstrap failed: %v", err)
	}

	// Load config and keep it reloadable
	var cfgVal atomic.Value // stores config.Config
	loadCfg := func() (config.Config, error) {
		return config.Load(userCfgPath)
	}
	cfg, err := loadCfg()
	if err != nil {
		log.Fatalf("config load failed (%s): %v", userCfgPath, err)
	}
	cfg, v := config.NormalizeAndValidate(cfg)
	if !v.OK() {
		log.Fatalf("config invalid (%s): %v", userCfgPath, v.Errors)
	}
	for _, w := range v.Warnings {
		log.Printf("[config] warning: %s", w)
	}
	cfgVal.Store(cfg)

	dbPath := filepath.Join(dataDir, "applyboard.db")
	db, err := store.Open(dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := store.Migrate(db.Pool); err != nil {
		log.Fatal(err)
	}

	hub := events.NewHub()

	sub := snapshot.NewSubscriber(func(ctx context.Context) ([]domain.ServiceRegistration, error) {
		return store.LoadSnapshot(ctx, db.Pool)
	})
	sub.OnRefresh = func() {
		hub.Publish(events.MakeEvent("", events.TypeSnapshotUpdated, 1, nil))
	}
	defer sub.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps := &httpapi.Deps{
		DB:            db.Pool,
		Hub:           hub,
		Sub:           sub,
		CfgVal:        &cfgVal,
		UserCfgPath:   userCfgPath,
		LoadCfg:       loadCfg,
		UIStatePath:   filepath.Join(dataDir, "uistate.yml"),
		ExportLimiter: rate.NewLimiter(rate.Every(2*time.Second), 1),
	}
	mux := httpapi.NewMux(deps)

	addr := fmt.Sprintf("127.0.0.1:%d", cfg.App.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("engine listening on http://%s (db=%s)", addr, dbPath)

	srv := &http.Server{
		Handler:           httpapi.Chain(mux, httpapi.RequestID, httpapi.Cors, httpapi.AccessLog, httpapi.Recover),
		ReadHeaderTimeout: 5 * time.Second,
	}

	// /shutdown lets the desktop shell stop the sidecar cleanly. Token is
	// printed once on stdout for the parent process to capture.
	token, err := randomToken(16)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("SHUTDOWN_TOKEN=%s\n", token)
	mux.HandleFunc("/shutdown", shutdownHandler(&token, srv))

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		sub.Run(gctx)
		return nil
	})

	g.Go(func() error {
		// unblocks the whole group when /shutdown stops the server
		defer stop()
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shCtx)
	})

	if cfg.Ingest.Enabled {
		g.Go(func() error {
			interval := pollInterval(cfg.Ingest.PollSeconds, 5*time.Minute)
			scheduler.Every(gctx, interval, "ingest", func(tctx context.Context) error {
				c := cfgVal.Load().(config.Config)
				if !c.Ingest.Enabled {
					return nil
				}
				password, err := secrets.GetIMAPPassword(secrets.IMAPKeyringAccount(c))
				if err != nil {
					return fmt.Errorf("imap password unavailable: %w", err)
				}
				added, err := mailbox.RunOnce(tctx, db.Pool, c, password)
				if err != nil {
					return err
				}
				if added > 0 {
					sub.Notify()
				}
				return nil
			})
			return nil
		})
	}

	if cfg.Enrich.Enabled {
		g.Go(func() error {
			limiter := enrich.NewHostLimiter(cfg.Enrich.ReqPerSec, cfg.Enrich.Burst)
			interval := pollInterval(cfg.Enrich.PollSeconds, 2*time.Minute)
			scheduler.Every(gctx, interval, "enrich", func(tctx context.Context) error {
				c := cfgVal.Load().(config.Config)
				if !c.Enrich.Enabled {
					return nil
				}
				updated, err := enrich.RunOnce(tctx, db.Pool, c, limiter)
				if err != nil {
					return err
				}
				if updated > 0 {
					sub.Notify()
				}
				return nil
			})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Fatalf("engine stopped: %v", err)
	}
	log.Printf("engine stopped")
}
