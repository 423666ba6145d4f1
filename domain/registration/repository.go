package registration

import (
	"context"

	"github.com/redweb/donor-registry/internal/models"
	apperrors "github.com/redweb/donor-registry/pkg/errors"
	"gorm.io/gorm"
)

type RegistrationRepository interface {
	// CreateRegistrant inserts the registrant and returns it with its generated ID.
	CreateRegistrant(ctx context.Context, registrant *models.Registrant) (*models.Registrant, error)
}

type registrationRepository struct {
	db *gorm.DB
}

func NewRegistrationRepository(db *gorm.DB) RegistrationRepository {
	return &registrationRepository{db: db}
}

func (rr *registrationRepository) CreateRegistrant(ctx context.Context, registrant *models.Registrant) (*models.Registrant, error) {
	if registrant == nil {
		return nil, apperrors.NewInvalidRequestError("registrant cannot be nil", nil)
	}

	if err := rr.db.WithContext(ctx).Create(registrant).Error; err != nil {
		return nil, apperrors.NewDatabaseError("unable to save registration", err)
	}

	return registrant, nil
}
