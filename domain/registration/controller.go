package registration

import (
	"errors"
	"net/http"
	"time"

	"github.com/redweb/donor-registry/config/router"
	"github.com/redweb/donor-registry/internal/log"
	apperrors "github.com/redweb/donor-registry/pkg/errors"
	"github.com/redweb/donor-registry/pkg/factory"
	"github.com/redweb/donor-registry/pkg/ratelimit"
	"gorm.io/gorm"
)

const rateLimitScope = "register"

func NewRegistrationController(
	db *gorm.DB,
	logger *log.Logger,
	limiterFactory factory.RateLimiterFactory,
	requestsPerMinute int,
) *router.RESTController {

	return router.NewRESTController(
		"RegistrationController",
		"/register",
		func(rs *router.RouterService, c *router.RESTController) {
			repository := NewRegistrationRepository(db)
			service := NewRegistrationService(logger, repository)

			limiter := createRegistrationRateLimiter(limiterFactory, requestsPerMinute)

			rs.AddPostHandler(c, limiter, "", registerHandler(service))
		},
	)
}

func createRegistrationRateLimiter(limiterFactory factory.RateLimiterFactory, requestsPerMinute int) ratelimit.RateLimiter {
	if requestsPerMinute <= 0 {
		return nil
	}

	if limiterFactory == nil {
		return ratelimit.NewInMemoryRateLimiter(requestsPerMinute, time.Minute)
	}

	return limiterFactory.CreateRateLimiter(rateLimitScope, requestsPerMinute, time.Minute)
}

func registerHandler(service RegistrationService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		logger := router.GetLogger(ctx)

		var req RegisterRequest

		if err := ctx.ShouldBindJSON(&req); err != nil {
			logger.Error("Failed to bind request", "error", err)

			// Bodies without a declared length are only capped while reading.
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				return router.ErrorResult(http.StatusRequestEntityTooLarge, "Request payload too large", nil)
			}

			validationErrors := apperrors.FormatValidationErrors(err, &req)
			if len(validationErrors) > 0 {
				return router.BadRequestResult("Invalid request payload", validationErrors)
			}

			return router.BadRequestResult("Invalid request body", nil)
		}

		response, err := service.Register(ctx.Request.Context(), &req)
		if err != nil {
			return router.AppErrorResult(err)
		}

		return router.RawResult(http.StatusCreated, response)
	}
}
