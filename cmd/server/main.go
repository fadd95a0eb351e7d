package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Ctsong73/fathom-microservice/internal/cache"
	"github.com/Ctsong73/fathom-microservice/internal/config"
	"github.com/Ctsong73/fathom-microservice/internal/fetcher"
	"github.com/Ctsong73/fathom-microservice/internal/momentum"
	"github.com/Ctsong73/fathom-microservice/internal/pipeline"
	"github.com/Ctsong73/fathom-microservice/internal/scheduler"
	"github.com/Ctsong73/fathom-microservice/internal/server"
	"github.com/Ctsong73/fathom-microservice/internal/store"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] fathom starting...")

	// .env is optional; real env vars win either way.
	_ = godotenv.Load()

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}
	log.Printf("[INFO] universe: %v", cfg.Symbols())

	// Init store
	var st store.Store
	if cfg.Database.SQLitePath != "" {
		ss, err := store.NewSQLiteStore(cfg.Database.SQLitePath, cfg.Stocks)
		if err != nil {
			log.Fatalf("[FATAL] init sqlite store: %v", err)
		}
		st = ss
		defer ss.Close()
	} else {
		log.Println("[WARN] no database path configured, using noop store")
		st = store.NewNoopStore()
	}

	// Init cache (degrades to disabled when redis is unreachable)
	rc := cache.New(cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.DB,
		time.Duration(cfg.Cache.FetchTTLSeconds)*time.Second,
		time.Duration(cfg.Cache.MomentumTTLSeconds)*time.Second)
	defer rc.Close()

	// Init fetch chain
	chain := fetcher.NewChain(
		time.Duration(cfg.Fetch.DelayMinSec*float64(time.Second)),
		time.Duration(cfg.Fetch.DelayMaxSec*float64(time.Second)),
		fetcher.NewChartSource(cfg.Proxy),
		fetcher.NewDownloadSource(cfg.Proxy),
		fetcher.NewStooqSource(cfg.Proxy),
	)

	orch := pipeline.New(chain, st, rc, cfg.Symbols(), cfg.Fetch.RetentionDays)
	calc := momentum.NewCalculator(st, rc)

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, orch, st, cfg.Fetch.RetentionDays)
	if err := sched.RegisterAll(cfg.Schedule.RefreshCron, cfg.Schedule.PruneCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	if cfg.Fetch.OnStart {
		log.Println("[INFO] fetching initial data")
		go sched.RunRefreshNow()
	}

	srv := server.New(cfg.Server.Port, orch, calc, rc, st)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[FATAL] http server: %v", err)
		}
	}()

	log.Println("[INFO] fathom is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	if err := srv.Shutdown(context.Background()); err != nil {
		log.Printf("[WARN] http shutdown: %v", err)
	}
	log.Println("[INFO] fathom stopped")
}
