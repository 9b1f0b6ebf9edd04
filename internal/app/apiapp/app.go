package apiapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/minio/minio-go/v7"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/mrbishalbaniya/wanderlink-sub000/internal/config"
	s3infra "github.com/mrbishalbaniya/wanderlink-sub000/internal/infra/s3"
	"github.com/mrbishalbaniya/wanderlink-sub000/internal/jobs/cleanup"
	pgrepo "github.com/mrbishalbaniya/wanderlink-sub000/internal/repo/postgres"
	redrepo "github.com/mrbishalbaniya/wanderlink-sub000/internal/repo/redis"
	authsvc "github.com/mrbishalbaniya/wanderlink-sub000/internal/services/auth"
	discoverysvc "github.com/mrbishalbaniya/wanderlink-sub000/internal/services/discovery"
	geosvc "github.com/mrbishalbaniya/wanderlink-sub000/internal/services/geo"
	matchessvc "github.com/mrbishalbaniya/wanderlink-sub000/internal/services/matches"
	mediasvc "github.com/mrbishalbaniya/wanderlink-sub000/internal/services/media"
	profilesvc "github.com/mrbishalbaniya/wanderlink-sub000/internal/services/profiles"
	ratesvc "github.com/mrbishalbaniya/wanderlink-sub000/internal/services/rate"
	swipesvc "github.com/mrbishalbaniya/wanderlink-sub000/internal/services/swipes"
)

type App struct {
	cfg          config.Config
	logger       *zap.Logger
	server       *http.Server
	postgres     *pgxpool.Pool
	redis        *goredis.Client
	s3           *minio.Client
	httpRouter   http.Handler
	geoSweep     *cleanup.Job
	stopGeoSweep context.CancelFunc
}

func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	r := chi.NewRouter()
	ApplyMiddlewares(r, log)

	var pool *pgxpool.Pool
	if p, err := pgrepo.NewPool(ctx, cfg.Postgres.DSN); err != nil {
		log.Warn("postgres init failed, continuing in degraded mode", zap.Error(err))
	} else {
		pool = p
	}

	var redisClient *goredis.Client
	if c, err := redrepo.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB); err != nil {
		log.Warn("redis init failed, continuing in degraded mode", zap.Error(err))
	} else {
		redisClient = c
	}

	var s3Client *minio.Client
	if c, err := s3infra.NewClient(s3infra.Config{
		Endpoint:  cfg.S3.Endpoint,
		AccessKey: cfg.S3.AccessKey,
		SecretKey: cfg.S3.SecretKey,
		UseSSL:    cfg.S3.UseSSL,
	}); err != nil {
		log.Warn("s3 init failed, continuing in degraded mode", zap.Error(err))
	} else {
		s3Client = c
	}

	rateRepo := redrepo.NewRateRepo(redisClient)
	candidateRepo := pgrepo.NewCandidateRepo(pool)
	swipeRepo := pgrepo.NewSwipeRepo(pool)
	matchRepo := pgrepo.NewMatchRepo(pool)
	profileRepo := pgrepo.NewProfileRepo(pool)

	jwtManager := authsvc.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTAccessTTL)

	mediaStorage := mediasvc.NewS3Storage(s3Client, cfg.S3.Bucket)
	mediaService := mediasvc.NewService(mediaStorage, profileRepo)

	geoService := geosvc.NewService(profileRepo)

	discoveryService := discoverysvc.NewService(candidateRepo, swipeRepo, matchRepo, discoverysvc.Config{
		PageSizeDefault:       cfg.Discovery.PageSizeDefault,
		PageSizeMax:           cfg.Discovery.PageSizeMax,
		OverfetchMultiplier:   cfg.Discovery.OverfetchMultiplier,
		ExclusionPredicateCap: cfg.Discovery.ExclusionPredicateCap,
		RadiusDefaultKM:       cfg.Discovery.RadiusDefaultKM,
		RadiusMaxKM:           cfg.Discovery.RadiusMaxKM,
		AgeMinDefault:         cfg.Discovery.AgeMinDefault,
		AgeMaxDefault:         cfg.Discovery.AgeMaxDefault,
	})
	discoveryService.AttachPhotoSigner(mediaStorage)

	rateLimiter := ratesvc.NewLimiter(rateRepo, cfg.Limits.SwipesPerMinute, cfg.Limits.SwipesPer10Sec)
	swipeService := swipesvc.NewService(swipesvc.Dependencies{
		Pool:         pool,
		SwipeStore:   swipeRepo,
		MatchStore:   matchRepo,
		ProfileStore: profileRepo,
		Logger:       log,
	})
	swipeService.AttachRateLimiter(rateLimiter)

	matchesService := matchessvc.NewService(matchessvc.Dependencies{
		Pool:       pool,
		MatchStore: matchRepo,
	})

	profileService := profilesvc.NewService(profileRepo, profilesvc.Config{
		AgeMinDefault: cfg.Discovery.AgeMinDefault,
		AgeMaxDefault: cfg.Discovery.AgeMaxDefault,
		RadiusMaxKM:   cfg.Discovery.RadiusMaxKM,
	})
	profileService.AttachPhotoSigner(mediaStorage)

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	RegisterRoutes(r, Dependencies{
		JWTManager:       jwtManager,
		DiscoveryService: discoveryService,
		GeoService:       geoService,
		MatchService:     matchesService,
		MediaService:     mediaService,
		ProfileService:   profileService,
		SwipeService:     swipeService,
		Logger:           log,
		Config:           cfg,
	})

	geoSweep := cleanup.New(profileRepo, cfg.Retention.ExactGeoTTL, cfg.Retention.SweepInterval, log)

	return &App{
		cfg:        cfg,
		logger:     log,
		server:     server,
		postgres:   pool,
		redis:      redisClient,
		s3:         s3Client,
		httpRouter: r,
		geoSweep:   geoSweep,
	}, nil
}

func (a *App) Run() error {
	sweepCtx, cancel := context.WithCancel(context.Background())
	a.stopGeoSweep = cancel
	go a.geoSweep.RunPeriodic(sweepCtx)

	a.logger.Info("api server started", zap.String("addr", a.cfg.HTTP.Addr))
	err := a.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (a *App) Shutdown(ctx context.Context) error {
	var shutdownErr error

	if a.stopGeoSweep != nil {
		a.stopGeoSweep()
	}
	if err := a.server.Shutdown(ctx); err != nil {
		shutdownErr = err
	}
	if a.postgres != nil {
		a.postgres.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil && shutdownErr == nil {
			shutdownErr = err
		}
	}

	return shutdownErr
}

func (a *App) Handler() http.Handler {
	return a.httpRouter
}
