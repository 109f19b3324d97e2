package dto

import (
	"bedcall/internal/domains/queue/model"
	"bedcall/shared/constant"
	"bedcall/shared/timezone"
	"time"
)

// Per-host dispatch results.
const (
	HostResultDialed          = "dialed"
	HostResultFailed          = "failed"
	HostResultSkippedConflict = "skipped_conflict"
	HostResultError           = "error"
)

// Reasons a drain stops before the campaign closes.
const (
	DrainStoppedContext   = "context_done"
	DrainStoppedMaxRounds = "max_rounds"
)

type EntryResponse struct {
	ID             string  `json:"id"`
	HostID         string  `json:"host_id"`
	HostName       string  `json:"host_name,omitempty"`
	PhoneNumber    string  `json:"phone_number,omitempty"`
	TotalBeds      int     `json:"total_beds"`
	Priority       int     `json:"priority"`
	FairnessScore  int     `json:"fairness_score"`
	Status         string  `json:"status"`
	ProviderCallID *string `json:"provider_call_id,omitempty"`
	LastError      *string `json:"last_error,omitempty"`
	QueuedAt       string  `json:"queued_at"`
	CalledAt       *string `json:"called_at,omitempty"`
	RespondedAt    *string `json:"responded_at,omitempty"`
}

func formatOptional(t *time.Time) *string {
	if t == nil {
		return nil
	}

	formatted := timezone.Format(*t, constant.DateFormat)

	return &formatted
}

func (r *EntryResponse) FromModel(entry model.Entry) {
	r.ID = entry.ID
	r.HostID = entry.HostID
	r.Priority = entry.Priority
	r.FairnessScore = entry.FairnessScore
	r.Status = entry.Status
	r.ProviderCallID = entry.ProviderCallID
	r.LastError = entry.LastError
	r.QueuedAt = timezone.Format(entry.QueuedAt, constant.DateFormat)
	r.CalledAt = formatOptional(entry.CalledAt)
	r.RespondedAt = formatOptional(entry.RespondedAt)
}

func (r *EntryResponse) FromCandidate(candidate model.Candidate) {
	r.FromModel(candidate.Entry)
	r.HostName = candidate.HostName
	r.PhoneNumber = candidate.PhoneNumber
	r.TotalBeds = candidate.TotalBeds
}

func FromCandidates(candidates []model.Candidate) []EntryResponse {
	entries := make([]EntryResponse, len(candidates))
	for i, candidate := range candidates {
		entries[i].FromCandidate(candidate)
	}

	return entries
}

type BuildResult struct {
	CampaignID string          `json:"campaign_id"`
	Queued     int             `json:"queued"`
	Entries    []EntryResponse `json:"entries"`
}

// HostResult is the outcome of one host within a dispatch batch. Failures are reported
// here and never abort the batch.
type HostResult struct {
	QueueEntryID string `json:"queue_entry_id"`
	HostID       string `json:"host_id"`
	Beds         int    `json:"beds"`
	Status       string `json:"status"`
	CallID       string `json:"call_id,omitempty"`
	Error        string `json:"error,omitempty"`
}

type DispatchResult struct {
	CampaignID   string       `json:"campaign_id"`
	Called       int          `json:"called"`
	StillNeeded  int          `json:"still_needed"`
	BedsInFlight int          `json:"beds_in_flight"`
	BedsLocked   int          `json:"beds_potentially_locked"`
	Completed    bool         `json:"completed"`
	Terminal     bool         `json:"terminal"`
	Busy         bool         `json:"busy"`
	Results      []HostResult `json:"results"`
}

type DrainResult struct {
	CampaignID string       `json:"campaign_id"`
	Rounds     int          `json:"rounds"`
	Called     int          `json:"called"`
	Completed  bool         `json:"completed"`
	Terminal   bool         `json:"terminal"`
	Stopped    string       `json:"stopped,omitempty"`
	Results    []HostResult `json:"results"`
}

type SweepResult struct {
	Demoted            int    `json:"demoted"`
	CompletedCampaigns int64  `json:"completed_campaigns"`
	CreatedCampaignID  string `json:"created_campaign_id,omitempty"`
}

// StatusCallback is the delivery-status webhook posted by the telephony provider.
type StatusCallback struct {
	Token      string `validate:"required"`
	CallSid    string `validate:"omitempty,max=64"`
	CallStatus string `validate:"required"`
}
