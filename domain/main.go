package domain

import (
	"github.com/redweb/donor-registry/config"
	"github.com/redweb/donor-registry/domain/monitoring"
	"github.com/redweb/donor-registry/domain/registration"
)

// SetupCoreDomain builds every controller around the application's resources
// and mounts it on the router.
func SetupCoreDomain(appConfig *config.ApplicationConfig) {
	var cache monitoring.Cache
	if appConfig.Cache != nil {
		cache = appConfig.Cache
	}

	requestsPerMinute := 0
	if appConfig.Config != nil {
		requestsPerMinute = appConfig.Config.RegistrationRequestsPerMinute
	}

	monitoringFactory := monitoring.NewMonitoringControllerFactory(appConfig.DB, cache, appConfig.RateLimiterFactory)
	registrationFactory := registration.NewRegistrationServiceFactory(
		appConfig.DB,
		appConfig.Logger,
		appConfig.RateLimiterFactory,
		requestsPerMinute,
	)

	appConfig.RouterService.MountController(monitoringFactory.CreateController())
	appConfig.RouterService.MountController(registrationFactory.CreateController())
}
