package model

import (
	"bedcall/internal/domains/queue/fairness"
	"bedcall/shared/model"
	"slices"
	"time"
)

const (
	TableName  = "queue_entries"
	EntityName = "queue_entry"

	FieldID             = "id"
	FieldCampaignID     = "campaign_id"
	FieldHostID         = "host_id"
	FieldPriority       = "priority"
	FieldFairnessScore  = "fairness_score"
	FieldStatus         = "status"
	FieldProviderCallID = "provider_call_id"
	FieldLastError      = "last_error"
	FieldQueuedAt       = "queued_at"
	FieldCalledAt       = "called_at"
	FieldRespondedAt    = "responded_at"
)

const (
	StatusPending  = "pending"
	StatusCalling  = "calling"
	StatusAccepted = "accepted"
	StatusDeclined = "declined"
	StatusNoAnswer = "no_answer"
	StatusFailed   = "failed"
	StatusSkipped  = "skipped"
	// StatusAnswered is a completed call for which no choice was recorded.
	StatusAnswered = "answered"
	// StatusDeferred is a host that asked to be called back.
	StatusDeferred = "deferred"
)

var transitions = map[string][]string{
	StatusPending:  {StatusCalling, StatusFailed, StatusSkipped, StatusAccepted, StatusDeclined, StatusDeferred},
	StatusCalling:  {StatusAccepted, StatusDeclined, StatusDeferred, StatusAnswered, StatusNoAnswer, StatusFailed},
	StatusAnswered: {StatusAccepted, StatusDeclined, StatusDeferred},
	StatusNoAnswer: {StatusAccepted, StatusDeclined, StatusDeferred},
}

// CanTransition reports whether an entry may move from one status to another.
func CanTransition(from, to string) bool {
	return slices.Contains(transitions[from], to)
}

// SourcesFor lists every status that may move to `to`, in a stable order.
func SourcesFor(to string) []string {
	var sources []string

	for _, from := range []string{StatusPending, StatusCalling, StatusAnswered, StatusNoAnswer} {
		if CanTransition(from, to) {
			sources = append(sources, from)
		}
	}

	return sources
}

func IsTerminal(status string) bool {
	return status != StatusPending && status != StatusCalling
}

type Entry struct {
	ID             string     `db:"id"`
	CampaignID     string     `db:"campaign_id"`
	HostID         string     `db:"host_id"`
	Priority       int        `db:"priority"`
	FairnessScore  int        `db:"fairness_score"`
	Status         string     `db:"status"`
	ProviderCallID *string    `db:"provider_call_id"`
	LastError      *string    `db:"last_error"`
	QueuedAt       time.Time  `db:"queued_at"`
	CalledAt       *time.Time `db:"called_at"`
	RespondedAt    *time.Time `db:"responded_at"`
	model.Metadata
}

// Candidate is a queue entry joined with the host it will call.
type Candidate struct {
	Entry
	PhoneNumber string `column:"phone_number" db:"host_phone_number" table:"hosts"`
	HostName    string `column:"name"         db:"host_name"         table:"hosts"`
	TotalBeds   int    `column:"total_beds"   db:"host_total_beds"   table:"hosts"`
}

func (Candidate) GetJoinQuery() string {
	return "JOIN hosts ON hosts.id = queue_entries.host_id"
}

// History is the per-host aggregate of past responses.
type History struct {
	HostID         string     `db:"host_id"`
	LastAcceptedAt *time.Time `db:"last_accepted_at"`
	AcceptedCount  int        `db:"accepted_count"`
	DeclinedCount  int        `db:"declined_count"`
}

func (h History) ToFairness() fairness.History {
	history := fairness.History{
		AcceptedCount: h.AcceptedCount,
		DeclinedCount: h.DeclinedCount,
	}

	if h.LastAcceptedAt != nil {
		week := fairness.WeekOf(*h.LastAcceptedAt)
		history.LastAccepted = &week
	}

	return history
}

const (
	CallLogTableName  = "call_logs"
	CallLogEntityName = "call_log"

	FieldCallSID = "call_sid"

	DirectionOutbound = "outbound"
	DirectionInbound  = "inbound"
)

type CallLog struct {
	ID           string  `db:"id"`
	CallSID      string  `db:"call_sid"`
	Direction    string  `db:"direction"`
	FromNumber   string  `db:"from_number"`
	ToNumber     string  `db:"to_number"`
	Status       string  `db:"status"`
	HostID       *string `db:"host_id"`
	CampaignID   *string `db:"campaign_id"`
	QueueEntryID *string `db:"queue_entry_id"`
	model.Metadata
}
