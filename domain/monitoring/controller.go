package monitoring

import (
	"context"
	"net/http"
	"time"

	"github.com/redweb/donor-registry/config/router"
	"github.com/redweb/donor-registry/internal/log"
	"github.com/redweb/donor-registry/pkg/factory"
	"github.com/redweb/donor-registry/pkg/ratelimit"
	"gorm.io/gorm"
)

const (
	monitoringRequestsPerMinute = 10
	healthCheckTimeout          = 2 * time.Second
)

type Cache interface {
	Ping(ctx context.Context) error
}

// HealthStatus reports 1 for a reachable dependency and 0 otherwise.
// Cache is 0 when no cache is configured.
type HealthStatus struct {
	Database int `json:"database"`
	Cache    int `json:"cache"`
	Uptime   int `json:"uptime"` // seconds
}

type MonitoringController struct {
	db        *gorm.DB
	cache     Cache
	startTime time.Time
}

func NewMonitoringController(db *gorm.DB, cache Cache, limiterFactory factory.RateLimiterFactory) *router.RESTController {
	ctrl := &MonitoringController{
		db:        db,
		cache:     cache,
		startTime: time.Now(),
	}

	return router.NewRESTController(
		"MonitoringController",
		"/",
		func(routerService *router.RouterService, controller *router.RESTController) {
			controller.RateLimitWith(routerService, createMonitoringRateLimiter(limiterFactory))

			routerService.AddGetHandler(controller, nil, "", ctrl.monitor)
			routerService.AddGetHandler(controller, nil, "health", ctrl.healthCheck)
		},
	)
}

func createMonitoringRateLimiter(limiterFactory factory.RateLimiterFactory) ratelimit.RateLimiter {
	if limiterFactory == nil {
		return ratelimit.NewInMemoryRateLimiter(monitoringRequestsPerMinute, time.Minute)
	}
	return limiterFactory.CreateRateLimiter("monitoring", monitoringRequestsPerMinute, time.Minute)
}

func (ctrl *MonitoringController) healthCheck(c *router.RequestContext) *router.ServiceResult {
	logger := router.GetLogger(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	return router.OKResult(ctrl.performHealthChecks(ctx, logger), "donor-registry health check completed")
}

func (ctrl *MonitoringController) monitor(c *router.RequestContext) *router.ServiceResult {
	return &router.ServiceResult{
		StatusCode: http.StatusOK,
		Data:       "Donor registry is operational.",
		Message:    "Monitoring successful",
	}
}

func (ctrl *MonitoringController) performHealthChecks(ctx context.Context, logger *log.Logger) HealthStatus {
	status := HealthStatus{
		Uptime: int(time.Since(ctrl.startTime).Seconds()),
	}

	if ctrl.checkDatabase(ctx) {
		status.Database = 1
	} else {
		logger.Error("Database health check failed")
	}

	switch {
	case ctrl.cache == nil:
		logger.Debug("Cache not configured, cache health check skipped")
	case ctrl.cache.Ping(ctx) == nil:
		status.Cache = 1
	default:
		logger.Error("Cache health check failed")
	}

	logger.Info("Health check completed", "database", status.Database, "cache", status.Cache)
	return status
}

func (ctrl *MonitoringController) checkDatabase(ctx context.Context) bool {
	if ctrl.db == nil {
		return false
	}

	sqlDB, err := ctrl.db.DB()
	if err != nil {
		return false
	}

	return sqlDB.PingContext(ctx) == nil
}
