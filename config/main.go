package config

import (
	"context"
	"time"

	"github.com/redweb/donor-registry/config/router"
	"github.com/redweb/donor-registry/internal/log"
	"github.com/redweb/donor-registry/internal/models"
	"github.com/redweb/donor-registry/pkg/constants"
	"github.com/redweb/donor-registry/pkg/factory"
	"github.com/redweb/donor-registry/pkg/utils"
	"gorm.io/gorm"
)

// ApplicationConfig owns every long-lived resource of the process. Cleanup
// releases them in reverse order of construction.
type ApplicationConfig struct {
	DB                 *gorm.DB
	RouterService      *router.RouterService
	Logger             *log.Logger
	Cache              Cache
	Config             *AppConfig
	RateLimiterFactory factory.RateLimiterFactory
	TracingShutdown    func(context.Context) error
}

type AppConfig struct {
	RateLimitRequests             int
	RateLimitWindow               time.Duration
	RequestTimeout                time.Duration
	RegistrationRequestsPerMinute int
}

func NewAppConfig() *AppConfig {
	return &AppConfig{
		RateLimitRequests:             utils.GetEnvPositiveInt("RATE_LIMIT_REQUESTS", constants.DefaultRateLimitRequests),
		RateLimitWindow:               utils.GetEnvPositiveDuration("RATE_LIMIT_WINDOW", constants.DefaultRateLimitWindow()),
		RequestTimeout:                utils.GetEnvPositiveDuration("REQUEST_TIMEOUT", constants.DefaultRequestTimeout),
		RegistrationRequestsPerMinute: utils.GetEnvPositiveInt("REGISTRATION_RATE_LIMIT_REQUESTS", constants.DefaultRegistrationRequestsPerMinute),
	}
}

func (ac *AppConfig) RouterConfig() *router.RouterConfig {
	return &router.RouterConfig{
		RateLimitRequests: ac.RateLimitRequests,
		RateLimitWindow:   ac.RateLimitWindow,
		RequestTimeout:    ac.RequestTimeout,
	}
}

func (ac *ApplicationConfig) Cleanup() {
	if ac.RouterService != nil {
		ac.RouterService.Cleanup()
	}

	if ac.Cache != nil {
		_ = CloseCache(ac.Cache, ac.Logger)
	}

	if ac.DB != nil {
		CloseDatabase(ac.DB, ac.Logger)
	}

	if ac.TracingShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := ac.TracingShutdown(ctx); err != nil {
			ac.Logger.Error("Failed to shutdown tracer provider", "error", err)
		}
	}

	ac.Logger.Info("Application cleanup completed")
}

func LoadApplicationConfiguration(logger *log.Logger, autoMigrate bool) (*ApplicationConfig, error) {
	InitializeEnvFile(logger)

	if autoMigrate {
		appEnv := GetAppEnv()
		if err := ValidateAutoMigrateAllowed(appEnv); err != nil {
			return nil, err
		}
		if appEnv == "" {
			logger.Warn("APP_ENV not set; allowing --auto-migrate as development")
		}
	}

	tracingShutdown, err := SetupTracing(logger)
	if err != nil {
		return nil, err
	}

	db, err := NewDatabase(logger, DefaultDBConfig())
	if err != nil {
		return nil, err
	}

	if autoMigrate {
		if err := AutoMigrate(logger, db, models.ModelRegistry...); err != nil {
			CloseDatabase(db, logger)
			return nil, err
		}
	}

	appConfig := NewAppConfig()
	cache := NewCacheConfig().NewCacheOrNil(logger)

	appCfg := NewApplicationConfig(logger, db, cache, appConfig)
	appCfg.TracingShutdown = tracingShutdown

	logger.Info("Application configuration loaded successfully")
	return appCfg, nil
}

// NewApplicationConfig wires the router and factories around already-open
// resources. Tests use it with an in-memory database.
func NewApplicationConfig(logger *log.Logger, db *gorm.DB, cache Cache, appConfig *AppConfig) *ApplicationConfig {
	if appConfig == nil {
		appConfig = NewAppConfig()
	}

	return &ApplicationConfig{
		DB:                 db,
		RouterService:      router.CreateRouterService(logger, cache, appConfig.RouterConfig()),
		Logger:             logger,
		Cache:              cache,
		Config:             appConfig,
		RateLimiterFactory: factory.NewDefaultRateLimiterFactory(cache, logger),
		TracingShutdown:    nil,
	}
}
