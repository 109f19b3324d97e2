package dto

import (
	"bedcall/internal/domains/campaign/model"
	queueDto "bedcall/internal/domains/queue/model/dto"
	responseDto "bedcall/internal/domains/response/model/dto"
	"bedcall/shared"
	"bedcall/shared/constant"
	gDto "bedcall/shared/dto"
	gModel "bedcall/shared/model"
	"bedcall/shared/timezone"
	"fmt"

	"github.com/google/uuid"
)

type CreateCampaignRequest struct {
	TargetDate       string `json:"target_date"        validate:"required,upcomingdate"`
	BedsNeeded       int    `json:"beds_needed"        validate:"gte=0,lte=10000"`
	IsSpecial        bool   `json:"is_special"`
	CustomMessageURL string `json:"custom_message_url" validate:"omitempty,url,max=2048"`
	StartCalling     bool   `json:"start_calling"`
}

func (r *CreateCampaignRequest) ToModel(actor string) (model.Campaign, error) {
	targetDate, err := timezone.Parse(constant.DateOnlyFormat, r.TargetDate)
	if err != nil {
		return model.Campaign{}, fmt.Errorf("invalid target date: %w", err)
	}

	now := timezone.Now()
	campaign := model.Campaign{
		ID:         uuid.NewString(),
		TargetDate: targetDate,
		BedsNeeded: r.BedsNeeded,
		Status:     model.StatusPending,
		IsSpecial:  r.IsSpecial,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  actor,
			ModifiedBy: actor,
		},
	}

	if r.CustomMessageURL != constant.Empty {
		message := r.CustomMessageURL
		campaign.CustomMessageURL = &message
	}

	return campaign, nil
}

type CampaignResponse struct {
	ID               string  `json:"id"`
	TargetDate       string  `json:"target_date"`
	BedsNeeded       int     `json:"beds_needed"`
	BedsConfirmed    int     `json:"beds_confirmed"`
	StillNeeded      int     `json:"still_needed"`
	Status           string  `json:"status"`
	IsSpecial        bool    `json:"is_special"`
	CustomMessageURL *string `json:"custom_message_url,omitempty"`
	CompletedAt      *string `json:"completed_at,omitempty"`
	gDto.Metadata
}

func (r *CampaignResponse) FromModel(model model.Campaign) {
	r.ID = model.ID
	r.TargetDate = timezone.Format(model.TargetDate, constant.DateOnlyFormat)
	r.BedsNeeded = model.BedsNeeded
	r.BedsConfirmed = model.BedsConfirmed
	r.StillNeeded = model.StillNeeded()
	r.Status = model.Status
	r.IsSpecial = model.IsSpecial
	r.CustomMessageURL = model.CustomMessageURL
	r.CompletedAt = nil

	if model.CompletedAt != nil {
		completedAt := timezone.Format(*model.CompletedAt, constant.DateFormat)
		r.CompletedAt = &completedAt
	}

	r.Metadata.FromModel(model.Metadata)
}

type CreateCampaignResponse struct {
	Campaign CampaignResponse `json:"campaign"`
	Queued   int              `json:"queued"`
	// Warning is set when the campaign was created but its queue could not be built.
	Warning string `json:"warning,omitempty"`
}

type GetCampaignsResponse struct {
	Campaigns []CampaignResponse `json:"campaigns"`
	TotalPage int                `json:"total_page"`
	TotalData int                `json:"total_data"`
}

func (r *GetCampaignsResponse) FromModels(models []model.Campaign, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Campaigns = make([]CampaignResponse, len(models))
	for i, mod := range models {
		r.Campaigns[i].FromModel(mod)
	}
}

type StartResponse struct {
	CampaignID string                `json:"campaign_id"`
	Queued     bool                  `json:"queued"`
	Drain      *queueDto.DrainResult `json:"drain,omitempty"`
}

type ReportResponse struct {
	Campaign     CampaignResponse               `json:"campaign"`
	StatusCounts map[string]int                 `json:"status_counts"`
	Queue        []queueDto.EntryResponse       `json:"queue"`
	Responses    []responseDto.ResponseResponse `json:"responses"`
}

type ExportResponse struct {
	CampaignID string `json:"campaign_id"`
	FileName   string `json:"file_name"`
	URL        string `json:"url"`
}
