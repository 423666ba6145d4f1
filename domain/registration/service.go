package registration

import (
	"context"

	"github.com/redweb/donor-registry/internal/log"
	apperrors "github.com/redweb/donor-registry/pkg/errors"
)

type RegistrationService interface {
	// Register persists the request as a new registrant and returns the saved record.
	Register(ctx context.Context, req *RegisterRequest) (*RegistrantResponse, error)
}

type registrationService struct {
	logger     *log.Logger
	repository RegistrationRepository
}

func NewRegistrationService(logger *log.Logger, repository RegistrationRepository) RegistrationService {
	return &registrationService{logger: logger, repository: repository}
}

func (s *registrationService) Register(ctx context.Context, req *RegisterRequest) (*RegistrantResponse, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	if req == nil {
		logger.Error("Register received empty request")
		return nil, apperrors.NewInvalidRequestError("request cannot be nil", nil)
	}

	registrant, err := s.repository.CreateRegistrant(ctx, ToRegistrantModel(req))
	if err != nil {
		logger.Error("Failed to save registrant", "error", err)
		return nil, err
	}

	logger.Info("Registrant saved", "id", registrant.ID)

	response := ToRegistrantResponse(registrant)
	return &response, nil
}
