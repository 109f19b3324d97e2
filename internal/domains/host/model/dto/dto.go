package dto

import (
	"bedcall/internal/domains/host/model"
	"bedcall/shared"
	"bedcall/shared/constant"
	gDto "bedcall/shared/dto"
	gModel "bedcall/shared/model"
	"bedcall/shared/timezone"

	"github.com/google/uuid"
)

type RegisterHostRequest struct {
	PhoneNumber   string `json:"phone_number"   validate:"required,e164"`
	Name          string `json:"name"           validate:"omitempty,max=255"`
	TotalBeds     int    `json:"total_beds"     validate:"gte=0,lte=100"`
	CallFrequency string `json:"call_frequency" validate:"omitempty,oneof=weekly special"`
}

func (r *RegisterHostRequest) frequency() string {
	if r.CallFrequency == "" {
		return model.FrequencyWeekly
	}

	return r.CallFrequency
}

func (r *RegisterHostRequest) ToModel(actor string) model.Host {
	now := timezone.Now()

	return model.Host{
		ID:            uuid.NewString(),
		PhoneNumber:   r.PhoneNumber,
		Name:          r.Name,
		TotalBeds:     r.TotalBeds,
		IsRegistered:  true,
		CallFrequency: r.frequency(),
		RegisteredAt:  &now,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  actor,
			ModifiedBy: actor,
		},
	}
}

// ToUpdate returns the fields written when an already known phone number registers again.
func (r *RegisterHostRequest) ToUpdate(existing model.Host, actor string) map[string]any {
	fields := map[string]any{
		model.FieldTotalBeds:     r.TotalBeds,
		model.FieldIsRegistered:  true,
		model.FieldCallFrequency: r.frequency(),
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: actor,
	}

	if r.Name != "" {
		fields[model.FieldName] = r.Name
	}

	if existing.RegisteredAt == nil {
		fields[model.FieldRegisteredAt] = timezone.Now()
	}

	return fields
}

type UpdateHostRequest struct {
	Name          string `db:"name"           json:"name"           validate:"omitempty,max=255"`
	TotalBeds     *int   `db:"total_beds"     json:"total_beds"     validate:"omitempty,gte=0,lte=100"`
	IsRegistered  *bool  `db:"is_registered"  json:"is_registered"  validate:"omitempty"`
	CallFrequency string `db:"call_frequency" json:"call_frequency" validate:"omitempty,oneof=weekly special"`
}

type HostResponse struct {
	ID            string  `json:"id"`
	PhoneNumber   string  `json:"phone_number"`
	Name          string  `json:"name"`
	TotalBeds     int     `json:"total_beds"`
	IsRegistered  bool    `json:"is_registered"`
	CallFrequency string  `json:"call_frequency"`
	RegisteredAt  *string `json:"registered_at,omitempty"`
	gDto.Metadata
}

func (r *HostResponse) FromModel(model model.Host) {
	r.ID = model.ID
	r.PhoneNumber = model.PhoneNumber
	r.Name = model.Name
	r.TotalBeds = model.TotalBeds
	r.IsRegistered = model.IsRegistered
	r.CallFrequency = model.CallFrequency
	r.RegisteredAt = nil

	if model.RegisteredAt != nil {
		registeredAt := timezone.Format(*model.RegisteredAt, constant.DateFormat)
		r.RegisteredAt = &registeredAt
	}

	r.Metadata.FromModel(model.Metadata)
}

type GetHostsResponse struct {
	Hosts     []HostResponse `json:"hosts"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetHostsResponse) FromModels(models []model.Host, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Hosts = make([]HostResponse, len(models))
	for i, mod := range models {
		r.Hosts[i].FromModel(mod)
	}
}
