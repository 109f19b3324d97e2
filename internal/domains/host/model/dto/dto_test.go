package dto_test

import (
	"bedcall/internal/domains/host/model"
	"bedcall/internal/domains/host/model/dto"
	"bedcall/shared/timezone"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegisterHostRequest_ToModel(t *testing.T) {
	req := dto.RegisterHostRequest{PhoneNumber: "+15551230000", Name: "Ada", TotalBeds: 2}

	host := req.ToModel("ops")

	assert.NotEmpty(t, host.ID)
	assert.True(t, host.IsRegistered)
	assert.Equal(t, model.FrequencyWeekly, host.CallFrequency)
	assert.Equal(t, "ops", host.CreatedBy)
	assert.NotNil(t, host.RegisteredAt)
}

func TestRegisterHostRequest_ToUpdate(t *testing.T) {
	req := dto.RegisterHostRequest{PhoneNumber: "+15551230000", Name: "Ada", TotalBeds: 0}

	fields := req.ToUpdate(model.Host{ID: "h"}, "ops")

	assert.Equal(t, 0, fields[model.FieldTotalBeds])
	assert.Equal(t, "Ada", fields[model.FieldName])
	assert.Contains(t, fields, model.FieldRegisteredAt)
}

func TestHostResponse_FromModel(t *testing.T) {
	now := timezone.Now()

	var res dto.HostResponse
	res.FromModel(model.Host{ID: "h", PhoneNumber: "+1555", TotalBeds: 3, RegisteredAt: &now})

	assert.Equal(t, "h", res.ID)
	assert.Equal(t, 3, res.TotalBeds)
	assert.NotNil(t, res.RegisteredAt)

	res.FromModel(model.Host{ID: "g"})
	assert.Nil(t, res.RegisteredAt)
}

func TestModelFrequencies(t *testing.T) {
	assert.Equal(t, []string{model.FrequencyWeekly}, model.Frequencies(false))
	assert.Equal(t, []string{model.FrequencyWeekly, model.FrequencySpecial}, model.Frequencies(true))
}
