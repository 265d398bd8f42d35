package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"syscall"
	"time"

	"jobscanner-engine/internal/config"
	"jobscanner-engine/internal/domain"
	"jobscanner-engine/internal/events"
	"jobscanner-engine/internal/httpapi"
	"jobscanner-engine/internal/scheduler"
	"jobscanner-engine/internal/scrape"
	"jobscanner-engine/internal/snapshot"
	"jobscanner-engine/internal/store"

	"github.com/gofrs/flock"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

func main() {
	_ = godotenv.Load()

	dataDir := os.Getenv("JOBSCANNER_DATA_DIR")
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		log.Fatal(err)
	}

	// one engine per data dir
	lock := flock.New(filepath.Join(dataDir, "engine.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		log.Fatalf("lock failed: %v", err)
	}
	if !locked {
		log.Fatalf("another engine is already running on %s", dataDir)
	}
	defer func() { _ = lock.Unlock() }()

	userCfgPath, err := config.EnsureUserConfig(dataDir)
	if err != nil {
		log.Fatalf("config bootstrap failed: %v", err)
	}
	cfg, err := config.Load(userCfgPath)
	if err != nil {
		log.Fatalf("config load failed (%s): %v", userCfgPath, err)
	}
	cfg, val := config.NormalizeAndValidate(cfg)
	for _, warning := range val.Warnings {
		log.Printf("config warning: %s", warning)
	}
	if !val.OK() {
		for _, e := range val.Errors {
			log.Printf("config error: %s", e)
		}
		os.Exit(1)
	}

	if p := os.Getenv("PORT"); p != "" {
		if n, err := strconv.Atoi(p); err == nil {
			cfg.App.Port = n
		}
	}

	dbPath := filepath.Join(dataDir, "jobs.db")
	db, err := store.Open(dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()
	if err := store.Migrate(db.Pool); err != nil {
		log.Fatal(err)
	}

	hub := events.NewHub()

	var crawlStatus atomic.Value
	crawlStatus.Store(httpapi.CrawlStatus{})

	runCrawl := func(ctx context.Context, terms []string) (scrape.Summary, error) {
		sum, err := scrape.RunSession(ctx, db, cfg, terms, func(j domain.JobListing) {
			hub.Publish(events.TypeJobCreated, map[string]any{"id": j.ID, "url": j.URL})
		})
		if err == nil && cfg.Snapshot.Enabled {
			if serr := snapshot.Write(ctx, db, filepath.Join(dataDir, cfg.Snapshot.Dir), cfg.Crawl.SearchTerms); serr != nil {
				log.Printf("[snapshot] %v", serr)
			}
		}
		return sum, err
	}

	mux := httpapi.NewMux(httpapi.Deps{
		DB:          db,
		Hub:         hub,
		CrawlStatus: &crawlStatus,
		RunCrawl:    runCrawl,
	})

	handler := httpapi.Chain(mux,
		httpapi.RequestID,
		httpapi.AccessLog,
		httpapi.Recover,
		httpapi.Cors,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Printf("engine listening on http://127.0.0.1:%d (db=%s)", cfg.App.Port, dbPath)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
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

	if cfg.Schedule.Enabled {
		interval := time.Duration(cfg.Schedule.IntervalHours) * time.Hour
		g.Go(func() error {
			scheduler.Every(gctx, interval, "scheduled-crawl", func(tctx context.Context) error {
				sum, err := runCrawl(tctx, nil)
				if err != nil {
					return err
				}
				log.Printf("[scheduled-crawl] inserted=%d duplicates=%d failures=%d",
					sum.Inserted, sum.Duplicates, sum.Failures)
				return nil
			})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Fatal(err)
	}
}
