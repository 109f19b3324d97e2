package model

import (
	"bedcall/shared/cache"
	"bedcall/shared/failure"
	"bedcall/shared/model"
	"time"
)

const cacheGetCampaign = "campaign:get"

// ErrCampaignNotFound is shared by every domain that loads a campaign before acting on it.
var ErrCampaignNotFound = failure.NotFound("campaign not found")

// CacheKey is the key a single campaign is cached under.
func CacheKey(id string) string {
	return cache.BuildKey(cacheGetCampaign, id)
}

const (
	TableName  = "campaigns"
	EntityName = "campaign"

	FieldID               = "id"
	FieldTargetDate       = "target_date"
	FieldBedsNeeded       = "beds_needed"
	FieldBedsConfirmed    = "beds_confirmed"
	FieldStatus           = "status"
	FieldIsSpecial        = "is_special"
	FieldCustomMessageURL = "custom_message_url"
	FieldCompletedAt      = "completed_at"
)

const (
	StatusPending   = "pending"
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// OpenStatuses are the states a campaign can still dial from.
var OpenStatuses = []string{StatusPending, StatusActive}

type Campaign struct {
	ID               string     `db:"id"`
	TargetDate       time.Time  `db:"target_date"`
	BedsNeeded       int        `db:"beds_needed"`
	BedsConfirmed    int        `db:"beds_confirmed"`
	Status           string     `db:"status"`
	IsSpecial        bool       `db:"is_special"`
	CustomMessageURL *string    `db:"custom_message_url"`
	CompletedAt      *time.Time `db:"completed_at"`
	model.Metadata
}

func (c Campaign) IsTerminal() bool {
	return c.Status == StatusCompleted || c.Status == StatusCancelled
}

// HasBedTarget is false for campaigns created without a bed count; those dial every queued host.
func (c Campaign) HasBedTarget() bool {
	return c.BedsNeeded > 0
}

func (c Campaign) IsFilled() bool {
	return c.HasBedTarget() && c.BedsConfirmed >= c.BedsNeeded
}

func (c Campaign) StillNeeded() int {
	if !c.HasBedTarget() {
		return 0
	}

	return max(c.BedsNeeded-c.BedsConfirmed, 0)
}
