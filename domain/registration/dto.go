package registration

import (
	"bytes"
	"encoding/json"
	"reflect"
	"slices"
	"strings"

	"github.com/redweb/donor-registry/internal/models"
)

// AvailableDays is stored as opaque text. Clients may send it as a string,
// kept verbatim, or as an array of strings joined with a comma in order.
// Null array elements are rejected.
type AvailableDays string

func (d *AvailableDays) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*d = AvailableDays(s)
		return nil
	}

	var days []*string
	if err := json.Unmarshal(data, &days); err == nil && !slices.Contains(days, nil) {
		joined := make([]string, len(days))
		for i, day := range days {
			joined[i] = *day
		}
		*d = AvailableDays(strings.Join(joined, ","))
		return nil
	}

	// The decoder fills in Field from its own path.
	return &json.UnmarshalTypeError{
		Value: jsonKind(data),
		Type:  reflect.TypeOf(""),
	}
}

func jsonKind(data []byte) string {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return "empty"
	}

	switch data[0] {
	case '{':
		return "object"
	case '[':
		return "array"
	case 't', 'f':
		return "bool"
	default:
		return "number"
	}
}

type RegisterRequest struct {
	FirstName     *string        `json:"firstName"`
	LastName      *string        `json:"lastName"`
	PhoneNumber   *string        `json:"phoneNumber"`
	BloodType     *string        `json:"bloodType"`
	Address       *string        `json:"address"`
	AvailableDays *AvailableDays `json:"availableDays"`
}

type RegistrantResponse struct {
	ID            uint    `json:"id"`
	FirstName     *string `json:"firstName"`
	LastName      *string `json:"lastName"`
	PhoneNumber   *string `json:"phoneNumber"`
	BloodType     *string `json:"bloodType"`
	Address       *string `json:"address"`
	AvailableDays *string `json:"availableDays"`
}

func ToRegistrantModel(req *RegisterRequest) *models.Registrant {
	if req == nil {
		return nil
	}

	registrant := &models.Registrant{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
		BloodType:   req.BloodType,
		Address:     req.Address,
	}

	if req.AvailableDays != nil {
		days := string(*req.AvailableDays)
		registrant.AvailableDays = &days
	}

	return registrant
}

func ToRegistrantResponse(registrant *models.Registrant) RegistrantResponse {
	if registrant == nil {
		return RegistrantResponse{}
	}
	return RegistrantResponse{
		ID:            registrant.ID,
		FirstName:     registrant.FirstName,
		LastName:      registrant.LastName,
		PhoneNumber:   registrant.PhoneNumber,
		BloodType:     registrant.BloodType,
		Address:       registrant.Address,
		AvailableDays: registrant.AvailableDays,
	}
}
