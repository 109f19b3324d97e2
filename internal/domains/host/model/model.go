package model

import (
	"bedcall/shared/model"
	"time"
)

const (
	TableName  = "hosts"
	EntityName = "host"

	FieldID            = "id"
	FieldPhoneNumber   = "phone_number"
	FieldName          = "name"
	FieldTotalBeds     = "total_beds"
	FieldIsRegistered  = "is_registered"
	FieldCallFrequency = "call_frequency"
	FieldRegisteredAt  = "registered_at"
)

const (
	FrequencyWeekly  = "weekly"
	FrequencySpecial = "special"
)

type Host struct {
	ID            string     `db:"id"`
	PhoneNumber   string     `db:"phone_number"`
	Name          string     `db:"name"`
	TotalBeds     int        `db:"total_beds"`
	IsRegistered  bool       `db:"is_registered"`
	CallFrequency string     `db:"call_frequency"`
	RegisteredAt  *time.Time `db:"registered_at"`
	model.Metadata
}

// Frequencies returns the call frequencies eligible for a campaign.
func Frequencies(special bool) []string {
	if special {
		return []string{FrequencyWeekly, FrequencySpecial}
	}

	return []string{FrequencyWeekly}
}
