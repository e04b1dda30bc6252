package main

import (
	"context"
	"flag"
	"log"
	"strings"
	"time"

	"go.uber.org/zap"

	"talentmatch/internal/config"
	"talentmatch/internal/database/migration"
	dbpostgres "talentmatch/internal/database/postgres"
	"talentmatch/internal/database/seeder"
	"talentmatch/internal/ingest"
	"talentmatch/internal/logger"
	"talentmatch/internal/metrics"
	"talentmatch/internal/repository"
)

func main() {
	board := flag.String("board", "", "job board base URL (overrides INGEST_BOARD_BASE_URL)")
	pages := flag.Int("pages", 0, "listing pages to crawl (overrides INGEST_PAGES)")
	workers := flag.Int("workers", 0, "detail page workers (overrides INGEST_WORKERS)")
	seed := flag.Bool("seed", false, "load demo data instead of crawling")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zlog, err := logger.New(cfg.App.Environment)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer func() {
		_ = zlog.Sync()
	}()

	connCtx, connCancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := dbpostgres.Connect(connCtx, cfg.Database)
	connCancel()
	if err != nil {
		zlog.Fatal("database connect failed", zap.Error(err))
	}
	defer func() {
		_ = db.Close()
	}()

	migCtx, migCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	r := migration.Runner{Dir: "migrations"}
	if err := r.Run(migCtx, db); err != nil {
		migCancel()
		zlog.Fatal("migration failed", zap.Error(err))
	}
	migCancel()

	if *seed {
		seedCtx, seedCancel := context.WithTimeout(context.Background(), time.Minute)
		defer seedCancel()
		if err := seeder.New(db, zlog).Run(seedCtx); err != nil {
			zlog.Fatal("seed failed", zap.Error(err))
		}
		return
	}

	baseURL := strings.TrimSpace(*board)
	if baseURL == "" {
		baseURL = cfg.Ingest.BoardBaseURL
	}
	if baseURL == "" {
		zlog.Fatal("no job board configured, set INGEST_BOARD_BASE_URL or -board")
	}

	pageCount := cfg.Ingest.Pages
	if *pages > 0 {
		pageCount = *pages
	}
	workerCount := cfg.Ingest.Workers
	if *workers > 0 {
		workerCount = *workers
	}

	store := ingest.NewStore(
		db,
		repository.NewPostgresOpportunityRepository(db),
		repository.NewPostgresOrganizationRepository(db),
		metrics.NewManager(),
		zlog,
	)
	scraper := ingest.NewBoardScraper(store, baseURL, zlog)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
	defer cancel()

	start := time.Now()
	if err := scraper.Scrape(ctx, pageCount, workerCount, cfg.Ingest.RateLimitRPS); err != nil {
		zlog.Fatal("ingest failed", zap.Error(err))
	}
	zlog.Info("ingest finished",
		zap.String("board", baseURL),
		zap.Int("pages", pageCount),
		zap.Duration("elapsed", time.Since(start)),
	)
}
