package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"talentmatch/internal/config"
	"talentmatch/internal/database"
	dbpostgres "talentmatch/internal/database/postgres"
	"talentmatch/internal/domain/matching"
	"talentmatch/internal/infrastructure/cache"
	"talentmatch/internal/infrastructure/distance"
	"talentmatch/internal/logger"
	"talentmatch/internal/metrics"
	"talentmatch/internal/pkg/jwt"
	"talentmatch/internal/repository"
	"talentmatch/internal/usecase"
	"talentmatch/internal/ws"
)

// Container owns every long-lived dependency of the process.
type Container struct {
	Config  config.Config
	Logger  *zap.Logger
	DB      database.DB
	Redis   *cache.Redis
	Engine  *matching.Engine
	Metrics *metrics.Manager
	Hub     *ws.Hub

	AuthUC  usecase.AuthUsecase
	MatchUC usecase.MatchUsecase
	JWT     jwt.Service
}

func NewContainer(cfg config.Config) (*Container, error) {
	log, err := logger.New(cfg.App.Environment)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	redisClient := cache.NewRedis(cfg.Redis, log)

	weights, err := config.LoadWeights(cfg.Engine.WeightsFile)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	engineCfg := matching.Config{
		Weights:         weights,
		CacheTTL:        cfg.Engine.CacheTTL,
		CacheMaxEntries: cfg.Engine.CacheMaxEntries,
		DistanceTimeout: cfg.Engine.DistanceTimeout,
		Logger:          log,
	}
	resultCache := cache.NewMatchResultCache(redisClient, cfg.Engine.CacheTTL)
	if resultCache.Available() {
		engineCfg.Cache = resultCache
	}
	if dc := distance.NewClient(cfg.Engine.DistanceBaseURL, cfg.Engine.DistanceTimeout); dc != nil {
		engineCfg.Distance = dc
	}

	engine, err := matching.NewEngine(engineCfg)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	m := metrics.NewManager()

	hub := ws.NewHub(log)
	ws.SetDefaultHub(hub)
	go hub.Run()

	jwtSvc := jwt.NewHMACService(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessExpiresIn,
		cfg.JWT.RefreshExpiresIn,
	)

	userRepo := repository.NewPostgresUserRepository(db)
	candidateRepo := repository.NewPostgresCandidateRepository(db)
	opportunityRepo := repository.NewPostgresOpportunityRepository(db)
	organizationRepo := repository.NewPostgresOrganizationRepository(db)

	authUC := usecase.NewAuthUsecase(userRepo, jwtSvc)
	matchUC := usecase.NewMatchUsecase(engine, candidateRepo, opportunityRepo, organizationRepo, m, log)

	return &Container{
		Config:  cfg,
		Logger:  log,
		DB:      db,
		Redis:   redisClient,
		Engine:  engine,
		Metrics: m,
		Hub:     hub,
		AuthUC:  authUC,
		MatchUC: matchUC,
		JWT:     jwtSvc,
	}, nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	if c.Logger != nil {
		_ = c.Logger.Sync()
	}
	if c.DB == nil {
		return nil
	}
	return c.DB.Close()
}
