package registration

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/redweb/donor-registry/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestRegisterRequest_AvailableDaysDecoding(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected *string
	}{
		{name: "string kept verbatim", body: `{"availableDays":"Mon,Wed"}`, expected: strPtr("Mon,Wed")},
		{name: "free text kept verbatim", body: `{"availableDays":" weekends, sometimes "}`, expected: strPtr(" weekends, sometimes ")},
		{name: "array joined in order", body: `{"availableDays":["Wednesday","Monday","Monday"]}`, expected: strPtr("Wednesday,Monday,Monday")},
		{name: "empty array", body: `{"availableDays":[]}`, expected: strPtr("")},
		{name: "empty string", body: `{"availableDays":""}`, expected: strPtr("")},
		{name: "null", body: `{"availableDays":null}`, expected: nil},
		{name: "omitted", body: `{}`, expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req RegisterRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &req))

			assert.Equal(t, tt.expected, ToRegistrantModel(&req).AvailableDays)
		})
	}
}

func TestRegisterRequest_AvailableDaysRejectsOtherTypes(t *testing.T) {
	tests := map[string]string{
		"number":        `{"availableDays":3}`,
		"bool":          `{"availableDays":true}`,
		"object":        `{"availableDays":{"mon":true}}`,
		"mixed array":   `{"availableDays":["Mon",2]}`,
		"nested arrays": `{"availableDays":[["Mon"]]}`,
		"null element":  `{"availableDays":["Mon",null]}`,
		"only null":     `{"availableDays":[null]}`,
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			var req RegisterRequest
			err := json.Unmarshal([]byte(body), &req)
			require.Error(t, err)

			var typeErr *json.UnmarshalTypeError
			require.True(t, errors.As(err, &typeErr))
			assert.Equal(t, "availableDays", typeErr.Field)
		})
	}
}

func TestToRegistrantModel(t *testing.T) {
	assert.Nil(t, ToRegistrantModel(nil))

	days := AvailableDays("Mon,Wed")
	model := ToRegistrantModel(&RegisterRequest{
		FirstName:     strPtr("Ana"),
		LastName:      strPtr("Cruz"),
		PhoneNumber:   strPtr("555-0100"),
		BloodType:     strPtr("O+"),
		Address:       strPtr("12 Elm St"),
		AvailableDays: &days,
	})

	assert.Zero(t, model.ID)
	assert.Equal(t, "Ana", *model.FirstName)
	assert.Equal(t, "Cruz", *model.LastName)
	assert.Equal(t, "555-0100", *model.PhoneNumber)
	assert.Equal(t, "O+", *model.BloodType)
	assert.Equal(t, "12 Elm St", *model.Address)
	assert.Equal(t, "Mon,Wed", *model.AvailableDays)
}

func TestToRegistrantResponse_RendersNullsForMissingFields(t *testing.T) {
	response := ToRegistrantResponse(&models.Registrant{ID: 7, FirstName: strPtr("")})

	body, err := json.Marshal(response)
	require.NoError(t, err)

	assert.JSONEq(t, `{"id":7,"firstName":"","lastName":null,"phoneNumber":null,"bloodType":null,"address":null,"availableDays":null}`, string(body))
	assert.Equal(t, RegistrantResponse{}, ToRegistrantResponse(nil))
}
