package model

import (
	"bedcall/shared/model"
	"time"
)

const (
	TableName  = "responses"
	EntityName = "response"

	FieldID           = "id"
	FieldCampaignID   = "campaign_id"
	FieldHostID       = "host_id"
	FieldBedsOffered  = "beds_offered"
	FieldResponseType = "response_type"
	FieldMethod       = "response_method"
	FieldRespondedAt  = "responded_at"
)

const (
	TypeAccepted  = "accepted"
	TypeDeclined  = "declined"
	TypeCallback  = "callback"
	TypeCancelled = "cancelled"
)

const (
	MethodOutboundCall = "outbound_call"
	MethodInboundCall  = "inbound_call"
)

// Response is the audit row of one host answer. Rows are never updated.
type Response struct {
	ID           string    `db:"id"`
	CampaignID   string    `db:"campaign_id"`
	HostID       string    `db:"host_id"`
	BedsOffered  int       `db:"beds_offered"`
	ResponseType string    `db:"response_type"`
	Method       string    `db:"response_method"`
	RespondedAt  time.Time `db:"responded_at"`
	model.Metadata
}
