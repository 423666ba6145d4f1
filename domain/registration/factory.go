package registration

import (
	"github.com/redweb/donor-registry/config/router"
	"github.com/redweb/donor-registry/internal/log"
	"github.com/redweb/donor-registry/pkg/factory"
	"gorm.io/gorm"
)

type RegistrationServiceFactory interface {
	CreateService() RegistrationService
	CreateController() *router.RESTController
}

type DefaultRegistrationServiceFactory struct {
	db                *gorm.DB
	logger            *log.Logger
	limiterFactory    factory.RateLimiterFactory
	requestsPerMinute int
}

func NewRegistrationServiceFactory(
	db *gorm.DB,
	logger *log.Logger,
	limiterFactory factory.RateLimiterFactory,
	requestsPerMinute int,
) RegistrationServiceFactory {
	return &DefaultRegistrationServiceFactory{
		db:                db,
		logger:            logger,
		limiterFactory:    limiterFactory,
		requestsPerMinute: requestsPerMinute,
	}
}

func (f *DefaultRegistrationServiceFactory) CreateService() RegistrationService {
	return NewRegistrationService(f.logger, NewRegistrationRepository(f.db))
}

func (f *DefaultRegistrationServiceFactory) CreateController() *router.RESTController {
	return NewRegistrationController(f.db, f.logger, f.limiterFactory, f.requestsPerMinute)
}
