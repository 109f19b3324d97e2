package validator_test

import (
	"bedcall/shared/constant"
	"bedcall/shared/failure"
	"bedcall/shared/timezone"
	"bedcall/shared/validator"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type hostRequest struct {
	Name      string `json:"name"           validate:"required,max=120"`
	Phone     string `json:"phone_number"   validate:"required,e164"`
	TotalBeds int    `json:"total_beds"     validate:"gte=0,lte=50"`
	Frequency string `json:"call_frequency" validate:"oneof=weekly special"`
}

type campaignRequest struct {
	TargetDate string `json:"target_date" validate:"required,upcomingdate"`
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name    string
		data    hostRequest
		wantErr string
	}{
		{
			name: "valid struct",
			data: hostRequest{Name: "Levi", Phone: "+15551234567", TotalBeds: 4, Frequency: "weekly"},
		},
		{
			name:    "missing name",
			data:    hostRequest{Phone: "+15551234567", Frequency: "weekly"},
			wantErr: "Name is required",
		},
		{
			name:    "bad phone",
			data:    hostRequest{Name: "Levi", Phone: "555-1234", Frequency: "weekly"},
			wantErr: "Phone must be an E.164 phone number",
		},
		{
			name:    "beds out of range",
			data:    hostRequest{Name: "Levi", Phone: "+15551234567", TotalBeds: 90, Frequency: "weekly"},
			wantErr: "TotalBeds must be less than or equal to 50",
		},
		{
			name:    "unknown frequency",
			data:    hostRequest{Name: "Levi", Phone: "+15551234567", Frequency: "daily"},
			wantErr: "Frequency must be one of weekly special",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateStruct(&tt.data)

			if tt.wantErr == "" {
				assert.NoError(t, err)

				return
			}

			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err.Error())
			assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
		})
	}
}

func TestUpcomingDate(t *testing.T) {
	today := timezone.Format(timezone.Today(), constant.DateOnlyFormat)
	past := timezone.Format(timezone.Today().AddDate(0, 0, -1), constant.DateOnlyFormat)

	assert.NoError(t, validator.ValidateStruct(&campaignRequest{TargetDate: today}))
	assert.Error(t, validator.ValidateStruct(&campaignRequest{TargetDate: past}))
	assert.Error(t, validator.ValidateStruct(&campaignRequest{TargetDate: "next saturday"}))
}

func TestValidateVar(t *testing.T) {
	assert.NoError(t, validator.ValidateVar("weekly", "oneof=weekly special"))
	assert.Error(t, validator.ValidateVar("", "required"))
	assert.Error(t, validator.ValidateVar("not-a-uuid", "uuid"))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		jsonBody    string
		expectError bool
	}{
		{name: "valid JSON", jsonBody: `{"name":"Levi","phone_number":"+15551234567","total_beds":3,"call_frequency":"special"}`},
		{name: "invalid field", jsonBody: `{"name":"Levi","phone_number":"nope","call_frequency":"weekly"}`, expectError: true},
		{name: "malformed JSON", jsonBody: `{"name":}`, expectError: true},
		{name: "empty JSON", jsonBody: `{}`, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var data hostRequest
			err := validator.Validate(strings.NewReader(tt.jsonBody), &data)

			assert.Equal(t, tt.expectError, err != nil, "err = %v", err)
		})
	}
}
