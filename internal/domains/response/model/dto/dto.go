package dto

import (
	"bedcall/internal/domains/response/model"
	"bedcall/shared/constant"
	gModel "bedcall/shared/model"
	"bedcall/shared/timezone"

	"github.com/google/uuid"
)

type RecordRequest struct {
	CampaignID   string `json:"campaign_id"     validate:"required,max=64"`
	HostID       string `json:"host_id"         validate:"required,max=64"`
	BedsOffered  int    `json:"beds_offered"    validate:"gte=0,lte=100"`
	ResponseType string `json:"response_type"   validate:"required,oneof=accepted declined callback cancelled"`
	Method       string `json:"response_method" validate:"omitempty,oneof=outbound_call inbound_call"`
}

func (r *RecordRequest) method() string {
	if r.Method == constant.Empty {
		return model.MethodOutboundCall
	}

	return r.Method
}

func (r *RecordRequest) ToModel(actor string) model.Response {
	now := timezone.Now()

	return model.Response{
		ID:           uuid.NewString(),
		CampaignID:   r.CampaignID,
		HostID:       r.HostID,
		BedsOffered:  r.BedsOffered,
		ResponseType: r.ResponseType,
		Method:       r.method(),
		RespondedAt:  now,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  actor,
			ModifiedBy: actor,
		},
	}
}

// ModifyBedsRequest is an accept that also changes how many beds the host offers from now on.
type ModifyBedsRequest struct {
	CampaignID string `json:"campaign_id"     validate:"required,max=64"`
	HostID     string `json:"host_id"         validate:"required,max=64"`
	Beds       int    `json:"beds"            validate:"gte=1,lte=100"`
	Method     string `json:"response_method" validate:"omitempty,oneof=outbound_call inbound_call"`
}

func (r *ModifyBedsRequest) ToRecord() RecordRequest {
	return RecordRequest{
		CampaignID:   r.CampaignID,
		HostID:       r.HostID,
		BedsOffered:  r.Beds,
		ResponseType: model.TypeAccepted,
		Method:       r.Method,
	}
}

type ResponseResponse struct {
	ID           string `json:"id"`
	CampaignID   string `json:"campaign_id"`
	HostID       string `json:"host_id"`
	BedsOffered  int    `json:"beds_offered"`
	ResponseType string `json:"response_type"`
	Method       string `json:"response_method"`
	RespondedAt  string `json:"responded_at"`
}

func (r *ResponseResponse) FromModel(model model.Response) {
	r.ID = model.ID
	r.CampaignID = model.CampaignID
	r.HostID = model.HostID
	r.BedsOffered = model.BedsOffered
	r.ResponseType = model.ResponseType
	r.Method = model.Method
	r.RespondedAt = timezone.Format(model.RespondedAt, constant.DateFormat)
}

// RecordResult tells the caller whether the beds were counted and where the campaign stands.
type RecordResult struct {
	ResponseResponse
	Counted       bool `json:"counted"`
	BedsNeeded    int  `json:"beds_needed"`
	BedsConfirmed int  `json:"beds_confirmed"`
	StillNeeded   int  `json:"still_needed"`
}
