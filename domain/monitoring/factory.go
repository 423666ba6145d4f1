package monitoring

import (
	"github.com/redweb/donor-registry/config/router"
	"github.com/redweb/donor-registry/pkg/factory"
	"gorm.io/gorm"
)

type MonitoringControllerFactory interface {
	CreateController() *router.RESTController
}

type DefaultMonitoringControllerFactory struct {
	db             *gorm.DB
	cache          Cache
	limiterFactory factory.RateLimiterFactory
}

func NewMonitoringControllerFactory(db *gorm.DB, cache Cache, limiterFactory factory.RateLimiterFactory) MonitoringControllerFactory {
	return &DefaultMonitoringControllerFactory{
		db:             db,
		cache:          cache,
		limiterFactory: limiterFactory,
	}
}

func (f *DefaultMonitoringControllerFactory) CreateController() *router.RESTController {
	return NewMonitoringController(f.db, f.cache, f.limiterFactory)
}
