package container

import (
	"fmt"

	"github.com/gdugdh24/buddyfit-backend/internal/config"
	"github.com/gdugdh24/buddyfit-backend/internal/delivery/http"
	"github.com/gdugdh24/buddyfit-backend/internal/delivery/http/handler"
	"github.com/gdugdh24/buddyfit-backend/internal/delivery/http/middleware"
	"github.com/gdugdh24/buddyfit-backend/internal/infrastructure/database"
	"github.com/gdugdh24/buddyfit-backend/internal/infrastructure/server"
	"github.com/gdugdh24/buddyfit-backend/internal/repository"
	"github.com/gdugdh24/buddyfit-backend/internal/repository/postgres"
	rediscache "github.com/gdugdh24/buddyfit-backend/internal/repository/redis"
	"github.com/gdugdh24/buddyfit-backend/internal/repository/resilient"
	"github.com/gdugdh24/buddyfit-backend/internal/usecase/auth"
	"github.com/gdugdh24/buddyfit-backend/internal/usecase/buddy"
	"github.com/gdugdh24/buddyfit-backend/internal/usecase/matching"
	"github.com/gdugdh24/buddyfit-backend/internal/usecase/sports"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config
	DB     *sqlx.DB
	Redis  *redis.Client
	Server *server.Server
	Logger zerolog.Logger
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *config.Config, logger zerolog.Logger) (*Container, error) {
	// Initialize database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Redis is optional; without it the sports catalogue is only cached in process
	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = database.NewRedisClient(&cfg.Redis)
		if err != nil {
			logger.Warn().Err(err).Msg("Redis unavailable, continuing without shared cache")
			redisClient = nil
		}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// Initialize repositories
	timeout := cfg.Database.QueryTimeout
	userRepo := postgres.NewUserRepository(db, timeout)
	buddyRepo := postgres.NewBuddyRepository(db, timeout)
	photoRepo := postgres.NewPhotoRepository(db, timeout)

	breakerCfg := resilient.Config{
		FailureThreshold: cfg.Buddies.BreakerFailureThreshold,
		OpenTimeout:      cfg.Buddies.BreakerOpenTimeout,
	}
	affiliationRepo := resilient.NewAffiliationRepository(postgres.NewAffiliationRepository(db, timeout), breakerCfg, logger)
	activityRepo := resilient.NewActivityRepository(postgres.NewActivityRepository(db, timeout), breakerCfg, logger)

	var sportRepo repository.SportRepository = postgres.NewSportRepository(db, timeout)
	if redisClient != nil {
		sportRepo = rediscache.NewSportCache(redisClient, sportRepo, cfg.Buddies.SportsCacheTTL, logger)
	}

	// Initialize use cases
	matchingMetrics := matching.NewMetrics()
	if err := matchingMetrics.Register(registry); err != nil {
		return nil, fmt.Errorf("failed to register matching metrics: %w", err)
	}
	calculator := matching.NewCalculator(activityRepo)
	ranker := matching.NewRanker(userRepo, buddyRepo, affiliationRepo, activityRepo, calculator, matchingMetrics, logger)

	sportsUseCase := sports.NewSportsUseCase(sportRepo, cfg.Buddies.SportsCacheTTL)
	buddyUseCase := buddy.NewBuddyUseCase(
		userRepo,
		buddyRepo,
		affiliationRepo,
		activityRepo,
		photoRepo,
		sportsUseCase,
		ranker,
		calculator,
		logger,
	)
	tokenVerifier := auth.NewTokenVerifier(cfg.JWT.AccessSecret)

	// Initialize handlers
	buddyHandler := handler.NewBuddyHandler(buddyUseCase)
	sportsHandler := handler.NewSportsHandler(sportsUseCase)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(tokenVerifier)
	httpMetrics := middleware.NewHTTPMetrics()
	if err := httpMetrics.Register(registry); err != nil {
		return nil, fmt.Errorf("failed to register http metrics: %w", err)
	}

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize router
	router := http.NewRouter(
		buddyHandler,
		sportsHandler,
		authMiddleware,
		httpMetrics,
		registry,
		logger,
	)

	// Initialize server
	srv := server.NewServer(&cfg.Server, router.Setup(), logger)

	return &Container{
		Config: cfg,
		DB:     db,
		Redis:  redisClient,
		Server: srv,
		Logger: logger,
	}, nil
}

// Close closes all connections
func (c *Container) Close() error {
	// Close Redis
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.Logger.Error().Err(err).Msg("Error closing Redis")
		}
	}

	// Close database
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
	}

	return nil
}
